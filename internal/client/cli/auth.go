package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/models"
)

// Register prompts for an email and password and creates an account.
func (a *App) Register(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := GetPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.client.Auth.SignUp(ctx, email, string(password))
	if err != nil {
		a.logger.Warn(ctx, "sign up failed", "error", err)
		fmt.Fprintf(a.out, "Registration failed: %s\n", authMessage(err))
		return err
	}

	fmt.Fprintf(a.out, "Registered %s. You can now log in.\n", user.Email)
	return nil
}

// Login prompts for credentials, signs in and persists the access token.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := GetPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.client.Auth.SignInWithPassword(ctx, email, string(password))
	if err != nil {
		a.logger.Warn(ctx, "sign in failed", "error", err)
		fmt.Fprintf(a.out, "Login failed: %s\n", authMessage(err))
		return err
	}

	if err := a.saveToken(sess.AccessToken); err != nil {
		a.logger.Error(ctx, "saving session", "error", err)
		fmt.Fprintf(a.out, "Logged in, but the session could not be saved: %s\n", err)
	}
	a.email = sess.User.Email
	a.last = nil
	fmt.Fprintf(a.out, "Logged in as %s\n", sess.User.Email)
	return nil
}

// Logout revokes the session with the collaborator and forgets the token
// locally. A revoke failure is logged; the local token is dropped anyway.
func (a *App) Logout(ctx context.Context) error {
	if a.token == "" {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}

	if err := a.client.Auth.SignOut(ctx, a.token); err != nil {
		a.logger.Warn(ctx, "sign out failed", "error", err)
	}
	a.clearToken()
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// requireSession runs the session guard. On a negative answer the stale
// token is dropped and the user gets exactly one login attempt.
func (a *App) requireSession(ctx context.Context) (*models.Session, error) {
	res := a.guard.Ensure(ctx, a.token, guardPage)
	if res.Authenticated() {
		a.email = res.Session.User.Email
		return res.Session, nil
	}

	if a.token != "" {
		a.clearToken()
	}
	fmt.Fprintln(a.out, "You must be logged in. Please log in.")
	if err := a.Login(ctx); err != nil {
		return nil, common.ErrorUnauthorized
	}

	res = a.guard.Ensure(ctx, a.token, guardPage)
	if !res.Authenticated() {
		fmt.Fprintln(a.out, "Session could not be verified.")
		return nil, common.ErrorUnauthorized
	}
	return res.Session, nil
}

// authMessage extracts the collaborator's wording where there is one.
func authMessage(err error) string {
	var ae *common.AuthError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}
