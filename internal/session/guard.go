// Package session decides, once per page load or command, whether a live
// session exists and where an anonymous visitor should be sent.
package session

import (
	"context"

	"github.com/dmitrijs2005/recipebox/internal/backend"
	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/logging"
	"github.com/dmitrijs2005/recipebox/internal/metrics"
	"github.com/dmitrijs2005/recipebox/internal/models"
)

// Result is the guard's answer. Session is nil when nobody is signed in;
// Redirect is non-empty when the caller should navigate away.
type Result struct {
	Session  *models.Session
	Redirect string
}

func (r Result) Authenticated() bool { return r.Session != nil }

type Guard struct {
	identity  backend.Identity
	logger    logging.Logger
	loginPage string
}

func NewGuard(identity backend.Identity, logger logging.Logger) *Guard {
	return &Guard{identity: identity, logger: logger.With("module", "session"), loginPage: common.LoginPath}
}

// Ensure asks the collaborator who owns accessToken. It never caches the
// answer. An anonymous visitor anywhere but the login page is redirected
// there; on the login page itself no redirect is issued.
func (g *Guard) Ensure(ctx context.Context, accessToken, page string) Result {
	var (
		user *models.User
		err  error
	)
	if accessToken != "" {
		user, err = g.identity.GetUser(ctx, accessToken)
	}

	if accessToken == "" || err != nil || user == nil {
		switch {
		case err != nil:
			g.logger.Warn(ctx, "session check failed", "page", page, "error", err)
		case accessToken == "":
			g.logger.Debug(ctx, "no session token", "page", page)
		default:
			g.logger.Warn(ctx, "session check returned no user", "page", page)
		}

		if page == g.loginPage {
			metrics.GuardChecks.WithLabelValues(metrics.OutcomeAnonymous).Inc()
			return Result{}
		}
		metrics.GuardChecks.WithLabelValues(metrics.OutcomeRedirect).Inc()
		return Result{Redirect: g.loginPage}
	}

	metrics.GuardChecks.WithLabelValues(metrics.OutcomeAuthenticated).Inc()
	return Result{Session: &models.Session{User: *user, AccessToken: accessToken}}
}
