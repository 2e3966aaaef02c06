package client

import "context"

// CredentialPrompt collects the current password from the user. It blocks
// until the user answers or the context is canceled.
type CredentialPrompt func(ctx context.Context) (string, error)

type attemptOutcome int

const (
	attemptOK attemptOutcome = iota
	attemptNeedsReauth
	attemptFailed
)

func classify(err error) attemptOutcome {
	switch {
	case err == nil:
		return attemptOK
	case isReauthRequired(err):
		return attemptNeedsReauth
	default:
		return attemptFailed
	}
}

type sensitiveState int

const (
	stateAttempting sensitiveState = iota
	stateReauthenticating
)

// runSensitive drives a session-gated operation through the reauth state
// machine:
//
//	Attempting -> ok            -> done
//	Attempting -> failed        -> done (error)
//	Attempting -> needs reauth  -> Reauthenticating -> Attempting (once)
//
// The operation is retried at most once after a successful reauthentication;
// any failure on the retry is terminal, including a second freshness
// rejection.
func (c *Client) runSensitive(ctx context.Context, op func(context.Context) error, prompt CredentialPrompt) error {
	state := stateAttempting
	retried := false

	for {
		switch state {
		case stateAttempting:
			err := op(ctx)
			switch classify(err) {
			case attemptOK:
				return nil
			case attemptNeedsReauth:
				if retried {
					return err
				}
				state = stateReauthenticating
			default:
				return err
			}

		case stateReauthenticating:
			secret, err := prompt(ctx)
			if err != nil {
				return err
			}
			if err := c.Reauthenticate(ctx, secret); err != nil {
				return err
			}
			retried = true
			state = stateAttempting
		}
	}
}
