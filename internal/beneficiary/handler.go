package beneficiary

import (
	"context"
	"net/http"

	"github.com/frahmantamala/budget-tracker/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]*Beneficiary, error)
	Get(ctx context.Context, id int64) (*Beneficiary, error)
	Create(ctx context.Context, dto BeneficiaryDTO) (*Beneficiary, error)
	Update(ctx context.Context, id int64, dto BeneficiaryDTO) (*Beneficiary, error)
	Delete(ctx context.Context, id int64) error
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

func (h *Handler) GetBeneficiaries(w http.ResponseWriter, r *http.Request) {
	beneficiaries, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, beneficiaries)
}

func (h *Handler) GetBeneficiary(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "beneficiaryID")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	b, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, b)
}

func (h *Handler) CreateBeneficiary(w http.ResponseWriter, r *http.Request) {
	var dto BeneficiaryDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	b, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, b)
}

func (h *Handler) UpdateBeneficiary(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "beneficiaryID")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto BeneficiaryDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	b, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, b)
}

func (h *Handler) DeleteBeneficiary(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r, "beneficiaryID")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
