package gift

import (
	"context"
	"net/http"

	"github.com/frahmantamala/budget-tracker/internal"
	"github.com/frahmantamala/budget-tracker/internal/transport"
)

type ServiceAPI interface {
	ListOccasions(ctx context.Context, skip, limit int) ([]*OccasionWithSummary, error)
	GetOccasion(ctx context.Context, id int64) (*OccasionDetail, error)
	OccasionSummary(ctx context.Context, id int64) (Summary, error)
	CreateOccasion(ctx context.Context, currentUserID int64, dto CreateOccasionDTO) (*Occasion, error)
	UpdateOccasion(ctx context.Context, id int64, dto UpdateOccasionDTO) (*Occasion, error)
	DeleteOccasion(ctx context.Context, id int64) error

	ListEntries(ctx context.Context, occasionID int64) ([]*Entry, error)
	CreateEntry(ctx context.Context, currentUserID, occasionID int64, dto CreateEntryDTO) (*Entry, error)
	UpdateEntry(ctx context.Context, id int64, dto UpdateEntryDTO) (*Entry, error)
	DeleteEntry(ctx context.Context, id int64) error

	ListPurchases(ctx context.Context, occasionID int64) ([]*Purchase, error)
	CreatePurchase(ctx context.Context, currentUserID, occasionID int64, dto CreatePurchaseDTO) (*Purchase, error)
	UpdatePurchase(ctx context.Context, id int64, dto UpdatePurchaseDTO) (*Purchase, error)
	DeletePurchase(ctx context.Context, id int64) error
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

func (h *Handler) ListOccasions(w http.ResponseWriter, r *http.Request) {
	page, err := transport.ParsePagination(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	occasions, err := h.Service.ListOccasions(r.Context(), page.Skip, page.Limit)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, occasions)
}

func (h *Handler) CreateOccasion(w http.ResponseWriter, r *http.Request) {
	userID, ok := internal.UserIDFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrCouldNotValidate)
		return
	}

	var dto CreateOccasionDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	occasion, err := h.Service.CreateOccasion(r.Context(), userID, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, occasion)
}

func (h *Handler) GetOccasion(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "occasionID")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	occasion, err := h.Service.GetOccasion(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, occasion)
}

func (h *Handler) GetOccasionSummary(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "occasionID")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	summary, err := h.Service.OccasionSummary(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) UpdateOccasion(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "occasionID")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto UpdateOccasionDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	occasion, err := h.Service.UpdateOccasion(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, occasion)
}

func (h *Handler) DeleteOccasion(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "occasionID")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if err := h.Service.DeleteOccasion(r.Context(), id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	occasionID, err := h.IDParam(r, "occasionID")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	entries, err := h.Service.ListEntries(r.Context(), occasionID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, entries)
}

func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := internal.UserIDFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrCouldNotValidate)
		return
	}
	occasionID, err := h.IDParam(r, "occasionID")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto CreateEntryDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	entry, err := h.Service.CreateEntry(r.Context(), userID, occasionID, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, entry)
}

func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "entryID")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto UpdateEntryDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	entry, err := h.Service.UpdateEntry(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, entry)
}

func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "entryID")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if err := h.Service.DeleteEntry(r.Context(), id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	occasionID, err := h.IDParam(r, "occasionID")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	purchases, err := h.Service.ListPurchases(r.Context(), occasionID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, purchases)
}

func (h *Handler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	userID, ok := internal.UserIDFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrCouldNotValidate)
		return
	}
	occasionID, err := h.IDParam(r, "occasionID")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto CreatePurchaseDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	purchase, err := h.Service.CreatePurchase(r.Context(), userID, occasionID, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, purchase)
}

func (h *Handler) UpdatePurchase(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "purchaseID")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto UpdatePurchaseDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	purchase, err := h.Service.UpdatePurchase(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, purchase)
}

func (h *Handler) DeletePurchase(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "purchaseID")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if err := h.Service.DeletePurchase(r.Context(), id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
