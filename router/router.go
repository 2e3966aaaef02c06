package router

import (
	"database/sql"
	"net/http"

	"pantrypal/config"
	accountHandler "pantrypal/internal/account"
	accountRepo "pantrypal/internal/account/repository"
	accountService "pantrypal/internal/account/service"
	listHandler "pantrypal/internal/list"
	listRepo "pantrypal/internal/list/repository"
	listService "pantrypal/internal/list/service"
	"pantrypal/middleware"
	"pantrypal/socket"
)

func Setup(cfg *config.Config, db *sql.DB, hub *socket.Hub) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.AuthMiddleware(cfg.JWTSecret)

	// WebSocket snapshot subscription
	wsHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value(middleware.UserIDKey).(string)
		socket.ServeWs(hub, w, r, userID)
	})
	mux.Handle("/ws", auth(wsHandler))

	// Identity provider
	accounts := accountHandler.NewAccountHandler(
		accountService.NewAccountService(accountRepo.NewAccountRepository(db), hub, cfg.JWTSecret, cfg.TokenTTL, cfg.ReauthWindow))

	mux.Handle("/api/auth/signup", http.HandlerFunc(accounts.SignUp))
	mux.Handle("/api/auth/signin", http.HandlerFunc(accounts.SignIn))
	mux.Handle("/api/auth/signout", http.HandlerFunc(accounts.SignOut))
	mux.Handle("/api/auth/me", auth(http.HandlerFunc(accounts.Me)))
	mux.Handle("/api/auth/profile", auth(http.HandlerFunc(accounts.UpdateProfile)))
	mux.Handle("/api/auth/password", auth(http.HandlerFunc(accounts.UpdatePassword)))
	mux.Handle("/api/auth/reauth", auth(http.HandlerFunc(accounts.Reauthenticate)))
	mux.Handle("/api/auth/account", auth(http.HandlerFunc(accounts.DeleteAccount)))

	// Grocery lists
	lists := listHandler.NewListHandler(
		listService.NewListService(listRepo.NewListRepository(db), hub))

	mux.Handle("/api/lists", auth(http.HandlerFunc(lists.GetLists)))
	mux.Handle("/api/lists/create", auth(http.HandlerFunc(lists.CreateList)))
	mux.Handle("/api/lists/update", auth(http.HandlerFunc(lists.RenameList)))
	mux.Handle("/api/lists/duplicate", auth(http.HandlerFunc(lists.DuplicateList)))
	mux.Handle("/api/lists/delete", auth(http.HandlerFunc(lists.DeleteList)))

	return middleware.CORSMiddleware(cfg.AllowedOrigins())(mux)
}
