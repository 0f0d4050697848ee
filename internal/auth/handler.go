package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/budget-tracker/internal"
	"github.com/frahmantamala/budget-tracker/internal/transport"
	"github.com/frahmantamala/budget-tracker/pkg/logger"
)

const DefaultDevBypassHeader = "X-DEV-AUTH"

type ServiceAPI interface {
	Register(ctx context.Context, dto RegisterDTO) (*User, error)
	Authenticate(ctx context.Context, dto LoginDTO) (TokenResponse, error)
	CurrentUser(ctx context.Context, token string) (*User, error)
	Logout(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, dto ForgotPasswordDTO) (ForgotPasswordResponse, error)
	ResetPassword(ctx context.Context, dto ResetPasswordDTO) error
	DevBypassUser(ctx context.Context) (*User, error)
}

// DevBypass lets local tooling skip bearer tokens. Never enable in production.
type DevBypass struct {
	Enabled bool
	Header  string
}

type Handler struct {
	*transport.BaseHandler
	Service   ServiceAPI
	devBypass DevBypass
}

func NewHandler(svc ServiceAPI, bypass DevBypass, lg *slog.Logger) *Handler {
	if bypass.Header == "" {
		bypass.Header = DefaultDevBypassHeader
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		devBypass:   bypass,
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	u, err := h.Service.Register(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, u)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	tokens, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// Me returns the user resolved by AuthMiddleware.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrCouldNotValidate)
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.HandleServiceError(w, r, internal.ErrCouldNotValidate)
		return
	}

	if err := h.Service.Logout(r.Context(), token); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MessageResponse{Message: MsgLoggedOut})
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var dto ForgotPasswordDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	resp, err := h.Service.ForgotPassword(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var dto ResetPasswordDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if err := h.Service.ResetPassword(r.Context(), dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MessageResponse{Message: MsgPasswordResetDone})
}

// AuthMiddleware resolves the bearer token into the current user. With the
// dev bypass enabled, a request carrying the bypass header set to "1" is
// served as the bypass user instead.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var (
			u   *User
			err error
		)
		if h.devBypass.Enabled && r.Header.Get(h.devBypass.Header) == "1" {
			u, err = h.Service.DevBypassUser(ctx)
			if err == nil {
				logger.From(ctx).Warn("auth bypassed via dev header", "user_id", u.ID, "path", r.URL.Path)
			}
		} else {
			token := h.ExtractTokenFromHeader(r)
			if token == "" {
				h.HandleServiceError(w, r, internal.ErrCouldNotValidate)
				return
			}
			u, err = h.Service.CurrentUser(ctx, token)
		}
		if err != nil {
			h.HandleServiceError(w, r, err)
			return
		}

		ctx = ContextWithUser(ctx, u)
		ctx = internal.ContextWithUserID(ctx, u.ID)
		ctx = logger.With(ctx, "user_id", u.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
