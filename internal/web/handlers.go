package web

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/models"
	"github.com/dmitrijs2005/recipebox/internal/recipes"
)

const (
	msgFieldsRequired = "All fields are required."
	msgSaved          = "Recipe saved successfully!"
	msgMustLogIn      = "You must be logged in to add a recipe. Redirecting to login..."
)

type loginView struct {
	Email string
	Error string
}

func (s *Server) handleLoginPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// No redirect is possible here; the result only tells the header
		// whether to show the logout button.
		res := s.guard.Ensure(r.Context(), accessToken(r), common.LoginPath)
		s.render(w, r, http.StatusOK, "login", viewModel{
			Title: "Log in",
			User:  userOf(res.Session),
			Body:  loginView{},
		})
	}
}

func (s *Server) handleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.render(w, r, http.StatusBadRequest, "login", viewModel{Title: "Log in", Body: loginView{Error: "Login failed: malformed form"}})
			return
		}
		email := r.PostFormValue("email")
		password := r.PostFormValue("password")

		sess, err := s.identity.SignInWithPassword(r.Context(), email, password)
		if err != nil {
			s.logger.Warn(r.Context(), "login failed", "email", email, "error", err)

			msg := "An unexpected error occurred during login: " + err.Error()
			status := http.StatusBadGateway
			var ae *common.AuthError
			if errors.As(err, &ae) {
				msg = "Login failed: " + ae.Message
				status = http.StatusUnauthorized
			}
			s.render(w, r, status, "login", viewModel{Title: "Log in", Body: loginView{Email: email, Error: msg}})
			return
		}

		s.logger.Info(r.Context(), "login succeeded", "user_id", sess.UserID())
		s.setSessionCookie(w, sess)
		http.Redirect(w, r, common.ListPath, http.StatusSeeOther)
	}
}

func (s *Server) handleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token := accessToken(r); token != "" {
			if err := s.identity.SignOut(r.Context(), token); err != nil {
				s.logger.Error(r.Context(), "error logging out", "error", err)
			}
		}
		s.clearSessionCookie(w)
		http.Redirect(w, r, common.LoginPath, http.StatusSeeOther)
	}
}

type letterLink struct {
	Letter string
	Active bool
}

type listView struct {
	Letters      []letterLink
	Active       string
	Recipes      []models.Recipe
	LoadFailed   bool
	EmptyMessage string
	Selected     *models.Recipe
	NotFound     bool
}

// RecipeLink keeps the active letter when a row is opened.
func (v listView) RecipeLink(id string) string {
	return listURL(v.Active, id)
}

// letterLinks builds the A-Z sidebar; at most one entry is active.
func letterLinks(active string) []letterLink {
	links := make([]letterLink, 0, 26)
	for c := 'A'; c <= 'Z'; c++ {
		l := string(c)
		links = append(links, letterLink{Letter: l, Active: l == active})
	}
	return links
}

func emptyMessage(active string) string {
	msg := "No recipes found."
	if active != "" {
		msg += " Starting with '" + active + "'. Try another letter or clear filter."
	}
	return msg
}

func (s *Server) handleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r.Context())
		active := recipes.NormalizeLetter(r.URL.Query().Get("letter"))

		rows, err := s.recipes.FetchRecipes(r.Context(), sess, active)
		view := listView{
			Letters:      letterLinks(active),
			Active:       active,
			Recipes:      rows,
			LoadFailed:   err != nil,
			EmptyMessage: emptyMessage(active),
		}

		if id := r.URL.Query().Get("recipe"); id != "" && err == nil {
			for i := range rows {
				if rows[i].ID == id {
					view.Selected = &rows[i]
					break
				}
			}
			view.NotFound = view.Selected == nil
		}

		s.render(w, r, http.StatusOK, "list", viewModel{Title: "My recipes", User: userOf(sess), Body: view})
	}
}

type addView struct {
	Form    recipes.NewRecipe
	Message string
	Success bool
}

func (s *Server) handleAddRecipeForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, http.StatusOK, "add", viewModel{
			Title: "Add recipe",
			User:  userOf(sessionFrom(r.Context())),
			Body:  addView{},
		})
	}
}

func (s *Server) handleAddRecipe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.render(w, r, http.StatusBadRequest, "add", viewModel{Title: "Add recipe", Body: addView{Message: msgFieldsRequired}})
			return
		}
		in := recipes.NewRecipe{
			Name:         r.PostFormValue("name"),
			Ingredients:  r.PostFormValue("ingredients"),
			Instructions: r.PostFormValue("instructions"),
		}

		trimmed, err := recipes.Validate(in)
		if err != nil {
			s.render(w, r, http.StatusUnprocessableEntity, "add", viewModel{
				Title: "Add recipe",
				Body:  addView{Form: in, Message: msgFieldsRequired},
			})
			return
		}

		res := s.guard.Ensure(r.Context(), accessToken(r), common.AddRecipePath)
		if !res.Authenticated() {
			s.render(w, r, http.StatusUnauthorized, "add", viewModel{
				Title:   "Add recipe",
				Refresh: newRefresh(loginRedirectDelay, common.LoginPath),
				Body:    addView{Form: in, Message: msgMustLogIn},
			})
			return
		}

		_, err = s.recipes.CreateRecipe(r.Context(), res.Session, trimmed)
		if err != nil {
			s.render(w, r, http.StatusBadGateway, "add", viewModel{
				Title: "Add recipe",
				User:  userOf(res.Session),
				Body:  addView{Form: in, Message: "Error saving recipe: " + err.Error()},
			})
			return
		}

		vm := viewModel{
			Title: "Add recipe",
			User:  userOf(res.Session),
			Body:  addView{Message: msgSaved, Success: true},
		}
		if s.opts.SaveRedirect > 0 {
			vm.Refresh = newRefresh(s.opts.SaveRedirect, common.ListPath)
		}
		s.render(w, r, http.StatusOK, "add", vm)
	}
}
