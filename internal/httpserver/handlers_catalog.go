package httpserver

import (
	"net/http"

	apierrors "github.com/crbuilding/server/internal/errors"
	"github.com/crbuilding/server/internal/logger"
	"github.com/crbuilding/server/pkg/responders"
)

// listProducts returns all active products (served from cache if configured).
func (h *handlers) listProducts(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("products.list.fetch_failed")
		apierrors.WriteSimpleError(w, apierrors.ErrCodeInternalError, "failed to fetch products")
		return
	}

	log.Debug().Int("count", len(products)).Msg("products.list.success")

	// Catalog changes rarely; let browsers and CDNs cache briefly
	w.Header().Set("Cache-Control", "public, max-age=300")
	responders.JSON(w, http.StatusOK, products)
}
