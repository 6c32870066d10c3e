package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/recipebox/internal/backend"
	"github.com/dmitrijs2005/recipebox/internal/backend/connect"
	"github.com/dmitrijs2005/recipebox/internal/client/config"
	"github.com/dmitrijs2005/recipebox/internal/export"
	"github.com/dmitrijs2005/recipebox/internal/filex"
	"github.com/dmitrijs2005/recipebox/internal/logging"
	"github.com/dmitrijs2005/recipebox/internal/models"
	"github.com/dmitrijs2005/recipebox/internal/recipes"
	"github.com/dmitrijs2005/recipebox/internal/session"
)

// guardPage is the page name the CLI reports to the session guard. It is
// never the login page, so a negative answer always carries a redirect.
const guardPage = "cli"

// exporter is the subset of *export.Exporter the REPL uses.
type exporter interface {
	Export(ctx context.Context, userID string, recipes []models.Recipe) (export.Result, error)
}

type App struct {
	client   *backend.Client
	guard    *session.Guard
	recipes  *recipes.Service
	exporter exporter
	logger   logging.Logger

	tokenPath string
	token     string
	email     string

	// last listing, indexed by show <n>
	last []models.Recipe

	reader *bufio.Reader
	out    io.Writer
}

// NewApp connects to the configured collaborator, prepares the session
// directory and, when a bucket is configured, the exporter.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	client, err := connect.Open(ctx, c.BackendSettings(), logger)
	if err != nil {
		return nil, err
	}

	var exp exporter
	if c.ExportEnabled() {
		pc, err := export.NewPresignClient(ctx, export.Settings{
			Endpoint:  c.S3BaseEndpoint,
			Region:    c.S3Region,
			Bucket:    c.S3Bucket,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
		})
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		exp = export.New(pc, c.S3Bucket, nil, logger)
	}

	a, err := newApp(client, exp, c.SessionDir, os.Stdin, os.Stdout, logger)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return a, nil
}

func newApp(client *backend.Client, exp exporter, sessionDir string, in io.Reader, out io.Writer, logger logging.Logger) (*App, error) {
	dir, err := filex.EnsureDir(sessionDir)
	if err != nil {
		return nil, err
	}

	a := &App{
		client:    client,
		guard:     session.NewGuard(client.Auth, logger),
		recipes:   recipes.NewService(client.Recipes, logger),
		exporter:  exp,
		logger:    logger.With("module", "cli"),
		tokenPath: filepath.Join(dir, "session"),
		reader:    bufio.NewReader(in),
		out:       out,
	}

	a.token, err = filex.ReadSecret(a.tokenPath)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Run blocks in the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.client.Close(); err != nil {
			a.logger.Warn(ctx, "closing backend", "error", err)
		}
	}()
	runREPL(ctx, a, a.status, a.reader, a.out)
}

func (a *App) isLoggedIn() bool {
	return a.token != ""
}

func (a *App) status() string {
	switch {
	case a.email != "":
		return a.email
	case a.token != "":
		return "session"
	default:
		return "guest"
	}
}

func (a *App) saveToken(token string) error {
	a.token = token
	return filex.WriteSecret(a.tokenPath, token)
}

func (a *App) clearToken() {
	a.token = ""
	a.email = ""
	a.last = nil
	if err := filex.RemoveSecret(a.tokenPath); err != nil {
		a.logger.Warn(context.Background(), "removing session file", "error", err)
	}
}
