package aggregation

import (
	"context"
	"net/http"

	"github.com/frahmantamala/budget-tracker/internal/transport"
)

type ServiceAPI interface {
	Summary(ctx context.Context, filter Filter) (Summary, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := FilterFromRequest(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	summary, err := h.Service.Summary(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summary)
}
