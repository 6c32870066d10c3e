package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/recipes"
)

// List prints the user's recipes, optionally those starting with letter.
// Anything but a single letter is treated as no filter, as on the web.
func (a *App) List(ctx context.Context, letter string) error {
	sess, err := a.requireSession(ctx)
	if err != nil {
		return err
	}

	l := recipes.NormalizeLetter(letter)
	items, err := a.recipes.FetchRecipes(ctx, sess, l)
	if err != nil {
		fmt.Fprintln(a.out, "Could not load recipes. Please try again later.")
		return err
	}
	a.last = items

	if len(items) == 0 {
		if l != "" {
			fmt.Fprintf(a.out, "No recipes found. Starting with '%s'. Try another letter or clear filter.\n", l)
		} else {
			fmt.Fprintln(a.out, "No recipes found.")
		}
		return nil
	}

	for i, r := range items {
		fmt.Fprintf(a.out, "%3d. %s\n", i+1, r.Name)
	}
	return nil
}

// Show prints ingredients and instructions of entry n from the last list.
func (a *App) Show(ctx context.Context, arg string) error {
	sess, err := a.requireSession(ctx)
	if err != nil {
		return err
	}

	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		fmt.Fprintln(a.out, "Usage: show <n>, where n is a number from the last list.")
		return nil
	}
	if n > len(a.last) {
		fmt.Fprintf(a.out, "No recipe #%d. Run list first.\n", n)
		return nil
	}

	r, err := a.recipes.GetRecipe(ctx, sess, a.last[n-1].ID)
	if errors.Is(err, common.ErrorNotFound) {
		fmt.Fprintln(a.out, "Recipe not found.")
		return err
	}
	if err != nil {
		fmt.Fprintln(a.out, "Could not load recipes. Please try again later.")
		return err
	}

	fmt.Fprintf(a.out, "== %s ==\n\nIngredients:\n%s\n\nInstructions:\n%s\n", r.Name, r.Ingredients, r.Instructions)
	return nil
}

// Add prompts for the three fields and saves a new recipe.
func (a *App) Add(ctx context.Context) error {
	sess, err := a.requireSession(ctx)
	if err != nil {
		return err
	}

	var n recipes.NewRecipe
	if n.Name, err = GetSimpleText(a.reader, "Recipe name", a.out); err != nil {
		return err
	}
	if n.Ingredients, err = GetMultiline(a.reader, "Ingredients", a.out); err != nil {
		return err
	}
	if n.Instructions, err = GetMultiline(a.reader, "Instructions", a.out); err != nil {
		return err
	}

	r, err := a.recipes.CreateRecipe(ctx, sess, n)
	switch {
	case errors.Is(err, common.ErrValidation):
		fmt.Fprintln(a.out, "All fields are required.")
		return err
	case errors.Is(err, common.ErrorUnauthorized):
		fmt.Fprintln(a.out, "You must be logged in to add a recipe.")
		return err
	case err != nil:
		fmt.Fprintf(a.out, "Error saving recipe: %s\n", err)
		return err
	}

	a.last = nil
	a.logger.Debug(ctx, "recipe saved", "id", r.ID)
	fmt.Fprintln(a.out, "Recipe saved successfully!")
	return nil
}
