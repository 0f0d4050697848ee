package image

import (
	"errors"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/budget-tracker/internal"
	"github.com/frahmantamala/budget-tracker/internal/transport"
)

// multipartOverhead leaves room for boundaries and headers around the file.
const multipartOverhead = 1 << 20

type StoreAPI interface {
	MaxSize() int64
	Save(fh *multipart.FileHeader) (*Upload, error)
	Open(name string) (*os.File, os.FileInfo, error)
}

type Handler struct {
	*transport.BaseHandler
	Store StoreAPI
}

func NewHandler(baseHandler *transport.BaseHandler, store StoreAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Store:       store,
	}
}

func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.Store.MaxSize()+multipartOverhead)
	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.HandleServiceError(w, r, internal.ErrFileTooLarge)
			return
		}
		h.HandleServiceError(w, r, internal.NewValidationFieldError("file", "file is required", internal.ErrCodeInvalidFile))
		return
	}
	defer r.MultipartForm.RemoveAll()

	_, fh, err := r.FormFile("file")
	if err != nil {
		h.HandleServiceError(w, r, internal.NewValidationFieldError("file", "file is required", internal.ErrCodeInvalidFile))
		return
	}

	upload, err := h.Store.Save(fh)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, upload)
}

func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	f, info, err := h.Store.Open(chi.URLParam(r, "filename"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	defer f.Close()

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
