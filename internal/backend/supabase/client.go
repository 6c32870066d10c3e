// Package supabase talks to a hosted Supabase project over its REST
// surfaces: GoTrue for identity and PostgREST for the recipes table.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/backend"
	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/models"
)

// Client implements backend.Identity and backend.RecipeTable.
type Client struct {
	baseURL string
	anonKey string
	table   string
	http    *http.Client
}

func New(baseURL, anonKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		table:   common.RecipesTable,
		http:    httpClient,
	}
}

// NewClient wraps a Client into a backend.Client.
func NewClient(baseURL, anonKey string, httpClient *http.Client) *backend.Client {
	c := New(baseURL, anonKey, httpClient)
	return backend.NewClient(c, c)
}

type apiUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (u apiUser) model() models.User {
	return models.User{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

type tokenResponse struct {
	AccessToken string   `json:"access_token"`
	ExpiresIn   int64    `json:"expires_in"`
	ExpiresAt   int64    `json:"expires_at"`
	User        *apiUser `json:"user"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// apiError covers the error shapes of GoTrue and PostgREST.
type apiError struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e apiError) text() string {
	for _, s := range []string{e.Msg, e.Message, e.ErrorDescription, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	var out tokenResponse
	status, err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", credentials{email, password}, nil, &out)
	if err != nil {
		if status >= 400 && status < 500 {
			return nil, &common.AuthError{Message: err.Error()}
		}
		return nil, err
	}
	if out.AccessToken == "" || out.User == nil {
		return nil, &common.AuthError{Message: "no session returned"}
	}

	exp := time.Unix(out.ExpiresAt, 0)
	if out.ExpiresAt == 0 {
		exp = time.Now().Add(time.Duration(out.ExpiresIn) * time.Second)
	}
	return &models.Session{User: out.User.model(), AccessToken: out.AccessToken, ExpiresAt: exp}, nil
}

func (c *Client) SignUp(ctx context.Context, email, password string) (*models.User, error) {
	// With email confirmation on, GoTrue answers with a bare user; with it
	// off, it answers with a session that carries the user.
	var raw json.RawMessage
	status, err := c.do(ctx, http.MethodPost, "/auth/v1/signup", "", credentials{email, password}, nil, &raw)
	if err != nil {
		if status == http.StatusUnprocessableEntity || status == http.StatusBadRequest {
			if strings.Contains(strings.ToLower(err.Error()), "already registered") {
				return nil, fmt.Errorf("%w: %s", common.ErrorAlreadyExists, err.Error())
			}
			return nil, &common.AuthError{Message: err.Error()}
		}
		return nil, err
	}

	var withSession tokenResponse
	if err := json.Unmarshal(raw, &withSession); err == nil && withSession.User != nil {
		u := withSession.User.model()
		return &u, nil
	}
	var u apiUser
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("decode signup response: %w", err)
	}
	if u.ID == "" {
		return nil, &common.AuthError{Message: "no user returned"}
	}
	m := u.model()
	return &m, nil
}

func (c *Client) GetUser(ctx context.Context, accessToken string) (*models.User, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("%w: missing token", common.ErrorUnauthorized)
	}

	var u apiUser
	status, err := c.do(ctx, http.MethodGet, "/auth/v1/user", accessToken, nil, nil, &u)
	if err != nil {
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			return nil, fmt.Errorf("%w: %s", common.ErrorUnauthorized, err.Error())
		}
		return nil, err
	}
	if u.ID == "" {
		return nil, fmt.Errorf("%w: no user", common.ErrorUnauthorized)
	}
	m := u.model()
	return &m, nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	status, err := c.do(ctx, http.MethodPost, "/auth/v1/logout", accessToken, nil, nil, nil)
	if err != nil {
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			return fmt.Errorf("%w: %s", common.ErrorUnauthorized, err.Error())
		}
		return err
	}
	return nil
}

type recipeRow struct {
	ID           string    `json:"id,omitempty"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Ingredients  string    `json:"ingredients"`
	Instructions string    `json:"instructions"`
	CreatedAt    time.Time `json:"created_at"`
}

func (r recipeRow) model() models.Recipe {
	return models.Recipe{
		ID:           r.ID,
		OwnerID:      r.UserID,
		Name:         r.Name,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
		CreatedAt:    r.CreatedAt,
	}
}

type newRecipeRow struct {
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	Ingredients  string `json:"ingredients"`
	Instructions string `json:"instructions"`
}

func (c *Client) Insert(ctx context.Context, accessToken string, recipe *models.Recipe) (*models.Recipe, error) {
	body := []newRecipeRow{{
		UserID:       recipe.OwnerID,
		Name:         recipe.Name,
		Ingredients:  recipe.Ingredients,
		Instructions: recipe.Instructions,
	}}
	hdr := http.Header{"Prefer": []string{"return=representation"}}

	var rows []recipeRow
	status, err := c.do(ctx, http.MethodPost, "/rest/v1/"+c.table, accessToken, body, hdr, &rows)
	if err != nil {
		if status == 0 {
			return nil, err
		}
		return nil, common.NewDataError(err.Error())
	}
	if len(rows) == 0 {
		return nil, common.NewDataError("insert returned no rows")
	}
	r := rows[0].model()
	return &r, nil
}

func (c *Client) Select(ctx context.Context, accessToken string, q backend.Query) ([]models.Recipe, error) {
	v := url.Values{}
	v.Set("select", "*")
	v.Set("user_id", "eq."+q.OwnerID)
	if q.NamePrefix != "" {
		v.Set("name", "ilike."+backend.EscapeLike(q.NamePrefix)+"*")
	}
	v.Set("order", "name.asc")

	var rows []recipeRow
	status, err := c.do(ctx, http.MethodGet, "/rest/v1/"+c.table+"?"+v.Encode(), accessToken, nil, nil, &rows)
	if err != nil {
		if status == 0 {
			return nil, err
		}
		return nil, common.NewDataError(err.Error())
	}

	out := make([]models.Recipe, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.model())
	}
	return out, nil
}

// do sends one request and decodes a 2xx body into out. On a non-2xx
// answer it returns the status and an error carrying the server message.
// Transport failures return status 0.
func (c *Client) do(ctx context.Context, method, path, token string, in any, hdr http.Header, out any) (int, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	if token == "" {
		token = c.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range hdr {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("supabase request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		var ae apiError
		if json.Unmarshal(raw, &ae) == nil && ae.text() != "" {
			return resp.StatusCode, errors.New(ae.text())
		}
		return resp.StatusCode, fmt.Errorf("supabase returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.StatusCode, nil
}
