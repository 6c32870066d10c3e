// Package web is the server-rendered HTML front end: login, the recipe
// list with its letter sidebar and detail panel, and the add form.
package web

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/backend"
	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/logging"
	"github.com/dmitrijs2005/recipebox/internal/models"
	"github.com/dmitrijs2005/recipebox/internal/recipes"
	"github.com/dmitrijs2005/recipebox/internal/session"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

type contextKey string

const sessionKey contextKey = "session"

// loginRedirectDelay is how long the "must be logged in" notice stays up.
const loginRedirectDelay = 3 * time.Second

type Options struct {
	// CookieSecure marks the session cookie Secure. Enable behind TLS.
	CookieSecure bool
	// SaveRedirect, when positive, sends the browser back to the list that
	// long after a recipe was saved.
	SaveRedirect time.Duration
}

type Server struct {
	identity  backend.Identity
	guard     *session.Guard
	recipes   *recipes.Service
	logger    logging.Logger
	opts      Options
	templates map[string]*template.Template
}

func NewServer(identity backend.Identity, guard *session.Guard, rs *recipes.Service, logger logging.Logger, opts Options) (*Server, error) {
	tc, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &Server{
		identity:  identity,
		guard:     guard,
		recipes:   rs,
		logger:    logger.With("module", "web"),
		opts:      opts,
		templates: tc,
	}, nil
}

func parseTemplates() (map[string]*template.Template, error) {
	cache := map[string]*template.Template{}
	for _, page := range []string{"login", "list", "add", "banner"} {
		t, err := template.New(page).ParseFS(templateFS, "templates/layout.gohtml", "templates/"+page+".gohtml")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		cache[page] = t
	}
	return cache, nil
}

type refresh struct {
	Seconds int
	URL     string
}

type viewModel struct {
	Title   string
	User    *models.User
	Banner  string
	Refresh *refresh
	Body    any
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, vm viewModel) {
	ts, ok := s.templates[page]
	if !ok {
		s.serverError(w, r, fmt.Errorf("template %s does not exist", page))
		return
	}

	var buf bytes.Buffer
	if err := ts.ExecuteTemplate(&buf, "layout", vm); err != nil {
		s.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error(r.Context(), "render failed", "path", r.URL.Path, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func newRefresh(d time.Duration, target string) *refresh {
	sec := int(d / time.Second)
	if sec < 1 {
		sec = 1
	}
	return &refresh{Seconds: sec, URL: target}
}

func withSession(ctx context.Context, sess *models.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// sessionFrom returns the session the guard stored for this request.
func sessionFrom(ctx context.Context) *models.Session {
	sess, _ := ctx.Value(sessionKey).(*models.Session)
	return sess
}

func userOf(sess *models.Session) *models.User {
	if sess == nil {
		return nil
	}
	u := sess.User
	return &u
}

func accessToken(r *http.Request) string {
	c, err := r.Cookie(common.SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func (s *Server) setSessionCookie(w http.ResponseWriter, sess *models.Session) {
	c := &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    sess.AccessToken,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.opts.CookieSecure,
	}
	if !sess.ExpiresAt.IsZero() {
		c.Expires = sess.ExpiresAt
	}
	http.SetCookie(w, c)
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.opts.CookieSecure,
		MaxAge:   -1,
	})
}

func listURL(letter, recipeID string) string {
	v := url.Values{}
	if letter != "" {
		v.Set("letter", letter)
	}
	if recipeID != "" {
		v.Set("recipe", recipeID)
	}
	if len(v) == 0 {
		return common.ListPath
	}
	return common.ListPath + "?" + v.Encode()
}
