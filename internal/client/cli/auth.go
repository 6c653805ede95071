package cli

import (
	"context"
	"errors"
	"os"

	"github.com/minhwalab/minhwa-cli/internal/client/session"
	"github.com/minhwalab/minhwa-cli/internal/client/workflow"
	"github.com/minhwalab/minhwa-cli/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and authenticates against the backend.
//
// Missing credentials and wrong credentials are reported to the user
// directly; nothing is left in an in-between state on failure. On success
// the user's conversion workflow is created and their history is loaded.
func (a *App) Login(ctx context.Context) error {
	if snap := a.store.Snapshot(); snap.LoggedIn {
		printlnFn("Already logged in as " + snap.User.DisplayName() + ".")
		return nil
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.store.Authenticate(ctx, email, password)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrMissingCredentials):
			printlnFn("Please enter both email and password.")
		case errors.Is(err, common.ErrUnauthorized):
			printlnFn("Email or password is incorrect.")
		default:
			a.log.Error(ctx, "login failed", "error", err)
			printlnFn("Login failed. Please try again.")
		}
		return err
	}

	printlnFn("Welcome, " + user.DisplayName() + "!")

	a.flow = workflow.New(a.api, a.picker, a.log, user.ID, a.config.HistoryLimit)
	if _, err := a.flow.LoadHistory(ctx); err != nil {
		a.log.Error(ctx, "loading history after login", "error", err)
	}
	return nil
}

// Logout clears the session and drops the user's workflow.
func (a *App) Logout(ctx context.Context) error {
	if a.flow != nil {
		a.flow.Reset()
		a.flow = nil
	}
	a.store.Logout(ctx)
	printlnFn("Logged out.")
	return nil
}
