// pantryctl is a terminal front end over the PantryPal API client: sign up,
// sign in, watch the realtime list snapshot, run list mutations, and manage
// the account.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"pantrypal/client"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	email     string
	password  string

	api *client.Client
)

func main() {
	root := &cobra.Command{
		Use:           "pantryctl",
		Short:         "PantryPal grocery lists from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&serverURL, "server", envOr("PANTRYPAL_SERVER", "http://localhost:8080"), "backend base URL")
	root.PersistentFlags().StringVar(&email, "email", os.Getenv("PANTRYPAL_EMAIL"), "account email")
	root.PersistentFlags().StringVar(&password, "password", os.Getenv("PANTRYPAL_PASSWORD"), "account password")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api = client.New(serverURL)
	}

	root.AddCommand(
		signupCmd(),
		listsCmd(),
		watchCmd(),
		createCmd(),
		renameCmd(),
		duplicateCmd(),
		deleteCmd(),
		accountCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// signIn establishes the session for commands that need one; credentials are
// prompted for when not supplied via flags or environment.
func signIn(ctx context.Context) error {
	if email == "" {
		email = promptLine("Email: ")
	}
	if password == "" {
		password = promptLine("Password: ")
	}
	return api.SignIn(ctx, email, password)
}

func promptLine(label string) string {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// credentialPrompt re-collects the current password when the server demands
// a fresh sign-in for a sensitive operation.
func credentialPrompt(ctx context.Context) (string, error) {
	secret := promptLine("Re-authentication required. Current password: ")
	if secret == "" {
		return "", errors.New("no password entered")
	}
	return secret, nil
}

func signupCmd() *cobra.Command {
	var name, confirm string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				name = promptLine("Name: ")
			}
			if email == "" {
				email = promptLine("Email: ")
			}
			if password == "" {
				password = promptLine("Password: ")
			}
			if confirm == "" {
				confirm = promptLine("Confirm password: ")
			}
			if err := api.SignUp(cmd.Context(), name, email, password, confirm); err != nil {
				return err
			}
			fmt.Println("Account created. You can sign in now.")
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&confirm, "confirm", "", "password confirmation")
	return cmd
}

func listsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "Print your lists, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := signIn(cmd.Context()); err != nil {
				return err
			}
			lists, err := api.Lists(cmd.Context())
			if err != nil {
				return err
			}
			printLists(lists)
			return nil
		},
	}
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow the realtime snapshot until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			if err := signIn(ctx); err != nil {
				return err
			}
			snapshots, err := api.Subscribe(ctx)
			if err != nil {
				return err
			}

			for lists := range snapshots {
				fmt.Println("--- snapshot ---")
				printLists(lists)
			}
			return nil
		},
	}
}

func createCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := signIn(cmd.Context()); err != nil {
				return err
			}
			return api.CreateList(cmd.Context(), args[0])
		},
	}
}

func renameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <list-id> <new-name>",
		Short: "Rename a list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := signIn(cmd.Context()); err != nil {
				return err
			}
			return api.RenameList(cmd.Context(), args[0], args[1])
		},
	}
}

func duplicateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate <list-id>",
		Short: "Duplicate a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := signIn(cmd.Context()); err != nil {
				return err
			}
			return api.DuplicateList(cmd.Context(), args[0])
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <list-id>",
		Short: "Delete a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := signIn(cmd.Context()); err != nil {
				return err
			}
			if !confirm(fmt.Sprintf("Delete list %s?", args[0])) {
				return nil
			}
			return api.DeleteList(cmd.Context(), args[0])
		},
	}
}

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "name <display-name>",
		Short: "Change your display name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := signIn(cmd.Context()); err != nil {
				return err
			}
			if err := api.UpdateProfile(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("Your name has been updated.")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "passwd",
		Short: "Change your password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := signIn(cmd.Context()); err != nil {
				return err
			}
			newPassword := promptLine("New password: ")
			if err := api.UpdatePassword(cmd.Context(), newPassword, credentialPrompt); err != nil {
				return err
			}
			fmt.Println("Your password has been updated.")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete",
		Short: "Delete your account permanently",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := signIn(cmd.Context()); err != nil {
				return err
			}
			if !confirm("Are you sure you want to delete your account? This action cannot be undone.") {
				return nil
			}
			if err := api.DeleteAccount(cmd.Context(), credentialPrompt); err != nil {
				return err
			}
			fmt.Println("Your account has been deleted.")
			return nil
		},
	})

	return cmd
}

func confirm(question string) bool {
	answer := promptLine(question + " [y/N] ")
	return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")
}

func printLists(lists []client.GroceryList) {
	if len(lists) == 0 {
		fmt.Println("No lists yet. Create one with: pantryctl create <name>")
		return
	}
	for _, l := range lists {
		fmt.Printf("%s  %s  (created %s)\n", l.ID, l.Name, l.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
}
