package httpserver

import (
	"net/http"

	apierrors "github.com/crbuilding/server/internal/errors"
	"github.com/crbuilding/server/internal/logger"
	"github.com/crbuilding/server/internal/orders"
	"github.com/crbuilding/server/pkg/responders"
)

// listOrders returns paid orders newest first, filtered by user when the
// userId query parameter is present.
func (h *handlers) listOrders(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	userID := r.URL.Query().Get("userId")

	result, err := h.orders.List(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("orders.list.fetch_failed")
		apierrors.WriteSimpleError(w, apierrors.ErrCodeDatabaseError, "failed to fetch orders")
		return
	}

	// Always a JSON array, never null
	if result == nil {
		result = []orders.PaidOrder{}
	}

	log.Debug().Int("count", len(result)).Msg("orders.list.success")
	responders.JSON(w, http.StatusOK, result)
}
