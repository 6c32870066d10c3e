package web

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/logging"
)

// NewConfigErrorHandler answers every route with 503 and a page-wide
// banner naming err. It is served instead of the router when startup
// configuration failed.
func NewConfigErrorHandler(cause error, logger logging.Logger) (http.Handler, error) {
	tc, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	s := &Server{logger: logger.With("module", "web"), templates: tc}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Error(r.Context(), "request refused: configuration error", "path", r.URL.Path, "error", cause)
		s.render(w, r, http.StatusServiceUnavailable, "banner", viewModel{
			Title:  "Configuration error",
			Banner: strings.TrimPrefix(cause.Error(), common.ErrConfiguration.Error()+": "),
		})
	}), nil
}
