package users

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	internal "github.com/frahmantamala/user-backoffice/internal"
	"github.com/frahmantamala/user-backoffice/internal/transport"
	"github.com/frahmantamala/user-backoffice/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List() ([]ListItem, error)
	Create(ctx context.Context, dto *CreateUserDTO, actor *internal.Actor) (*Summary, error)
	Update(ctx context.Context, id int64, dto *UpdateUserDTO, actor *internal.Actor) (*Summary, error)
	Delete(ctx context.Context, id int64, actor *internal.Actor) error
	SendResetPassword(ctx context.Context, id int64, actor *internal.Actor) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List()
	if err != nil {
		h.Logger.Error("ListUsers: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateUser: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actor, _ := internal.ActorFromContext(r.Context())

	user, err := h.Service.Create(r.Context(), &dto, actor)
	if err != nil {
		h.Logger.Error("CreateUser: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateUser: user created", "user_id", user.ID, "email", user.Email)

	h.WriteJSON(w, http.StatusCreated, UserEnvelope{
		Message: "user created",
		User:    user,
	})
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	var dto UpdateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateUser: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actor, _ := internal.ActorFromContext(r.Context())

	user, err := h.Service.Update(r.Context(), id, &dto, actor)
	if err != nil {
		h.Logger.Error("UpdateUser: service error", "error", err, "user_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, UserEnvelope{
		Message: "user updated",
		User:    user,
	})
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	actor, _ := internal.ActorFromContext(r.Context())

	if err := h.Service.Delete(r.Context(), id, actor); err != nil {
		h.Logger.Error("DeleteUser: service error", "error", err, "user_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MessageResponse{Message: "user deleted"})
}

func (h *Handler) SendResetPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	actor, _ := internal.ActorFromContext(r.Context())

	if err := h.Service.SendResetPassword(r.Context(), id, actor); err != nil {
		h.Logger.Error("SendResetPassword: service error", "error", err, "user_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MessageResponse{Message: "reset password email sent"})
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.Logger.Error("invalid user ID", "id", idStr)
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return 0, false
	}
	return id, true
}
