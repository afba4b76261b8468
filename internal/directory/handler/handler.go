// Package handler wires the directory endpoints to the coordinator service.
// Handlers stay thin: decode, delegate, translate.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"userdir/internal/directory/models"
	"userdir/pkg/platform/httputil"
	"userdir/pkg/requestcontext"
)

// Service defines the coordinator operations the handler needs.
type Service interface {
	Create(ctx context.Context, input models.CreateUserInput) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id string) (models.User, error)
	UpdatePartial(ctx context.Context, id string, patch models.UpdateUserInput) (models.User, error)
	UpdateFull(ctx context.Context, id string, input models.ReplaceUserInput) (models.User, error)
	Delete(ctx context.Context, id string, hard bool) error
}

// Handler exposes user CRUD over HTTP.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a directory handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the user endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/", h.HandleList)
		r.Get("/{id}", h.HandleGet)
		r.Patch("/{id}", h.HandleUpdate)
		r.Put("/{id}", h.HandleReplace)
		r.Delete("/{id}", h.HandleDelete)
	})
}

// HandleCreate handles POST /users.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.Decode[CreateUserRequest](w, r, h.logger)
	if !ok {
		return
	}

	user, err := h.service.Create(ctx, req.Input())
	if err != nil {
		h.logger.WarnContext(ctx, "create user failed",
			"request_id", requestcontext.RequestID(ctx),
			"email", req.Email,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, user)
}

// HandleList handles GET /users.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, users)
}

// HandleGet handles GET /users/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

// HandleUpdate handles PATCH /users/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.Decode[UpdateUserRequest](w, r, h.logger)
	if !ok {
		return
	}

	user, err := h.service.UpdatePartial(ctx, chi.URLParam(r, "id"), req.Input())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

// HandleReplace handles PUT /users/{id}.
func (h *Handler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.Decode[ReplaceUserRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	user, err := h.service.UpdateFull(ctx, chi.URLParam(r, "id"), req.Input())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

// HandleDelete handles DELETE /users/{id}. The hard query flag defaults to
// true; unparseable values fall back to the default.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	hard := true
	if raw := r.URL.Query().Get("hard"); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			hard = parsed
		}
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), hard); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, deleteResponse{Success: true})
}
