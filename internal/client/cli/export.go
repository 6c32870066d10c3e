package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/recipebox/internal/export"
)

// Export uploads all of the user's recipes as one JSON document and prints
// a time-limited download link.
func (a *App) Export(ctx context.Context) error {
	if a.exporter == nil {
		fmt.Fprintln(a.out, "Export is not configured. Set RECIPEBOX_S3_BUCKET to enable it.")
		return nil
	}

	sess, err := a.requireSession(ctx)
	if err != nil {
		return err
	}

	items, err := a.recipes.FetchRecipes(ctx, sess, "")
	if err != nil {
		fmt.Fprintln(a.out, "Could not load recipes. Please try again later.")
		return err
	}

	res, err := a.exporter.Export(ctx, sess.User.ID, items)
	if err != nil {
		a.logger.Error(ctx, "export failed", "error", err)
		fmt.Fprintf(a.out, "Export failed: %s\n", err)
		return err
	}

	fmt.Fprintf(a.out, "Exported %d recipes to %s\n", res.Count, res.Key)
	fmt.Fprintf(a.out, "Download (valid %s): %s\n", export.LinkTTL, res.DownloadURL)
	return nil
}
