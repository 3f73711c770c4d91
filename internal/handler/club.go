package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/matchkit/tourney/api/internal/middleware"
	"github.com/matchkit/tourney/api/internal/model"
	"github.com/matchkit/tourney/api/internal/service"
)

// ClubService defines the club operations the handler needs
type ClubService interface {
	CreateClub(ctx context.Context, creator *model.User, name string) (*model.Club, error)
	UpdateClub(ctx context.Context, clubID, name string) (*model.Club, error)
	DeleteClub(ctx context.Context, clubID string) error
	ListClubs(ctx context.Context, userID string) ([]*model.Club, error)
	AddCollaborator(ctx context.Context, clubID, email string) (*model.User, error)
	RemoveCollaborator(ctx context.Context, clubID, userID string) error
	ListMembers(ctx context.Context, clubID string) ([]*model.User, error)
}

// ClubHandler handles club HTTP requests
type ClubHandler struct {
	svc ClubService
}

// NewClubHandler creates a new club handler
func NewClubHandler(svc ClubService) *ClubHandler {
	return &ClubHandler{svc: svc}
}

// ClubRequest represents a create or update club body
type ClubRequest struct {
	Name string `json:"name"`
}

// CollaboratorRequest represents an add-collaborator body
type CollaboratorRequest struct {
	Email string `json:"email"`
}

// List handles GET {prefix}/clubs - clubs the user has access to
func (h *ClubHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok || principal.User == nil {
		WriteError(w, model.NewUnauthenticatedError())
		return
	}

	clubs, err := h.svc.ListClubs(r.Context(), principal.User.ID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	WriteData(w, http.StatusOK, clubs, nil)
}

// Create handles POST {prefix}/clubs
func (h *ClubHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok || principal.User == nil {
		WriteError(w, model.NewUnauthenticatedError())
		return
	}

	var req ClubRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	club, err := h.svc.CreateClub(r.Context(), principal.User, req.Name)
	if err != nil {
		h.handleError(w, err)
		return
	}

	WriteData(w, http.StatusCreated, club, nil)
}

// Update handles PUT {prefix}/clubs/{clubId}
func (h *ClubHandler) Update(w http.ResponseWriter, r *http.Request) {
	clubID := r.PathValue("clubId")
	if clubID == "" {
		WriteError(w, model.NewBadRequestError("club ID required"))
		return
	}

	var req ClubRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	club, err := h.svc.UpdateClub(r.Context(), clubID, req.Name)
	if err != nil {
		h.handleError(w, err)
		return
	}

	WriteData(w, http.StatusOK, club, nil)
}

// Delete handles DELETE {prefix}/clubs/{clubId}
func (h *ClubHandler) Delete(w http.ResponseWriter, r *http.Request) {
	clubID := r.PathValue("clubId")
	if clubID == "" {
		WriteError(w, model.NewBadRequestError("club ID required"))
		return
	}

	if err := h.svc.DeleteClub(r.Context(), clubID); err != nil {
		h.handleError(w, err)
		return
	}

	WriteNoContent(w)
}

// AddCollaborator handles POST {prefix}/clubs/{clubId}/collaborators
func (h *ClubHandler) AddCollaborator(w http.ResponseWriter, r *http.Request) {
	clubID := r.PathValue("clubId")
	if clubID == "" {
		WriteError(w, model.NewBadRequestError("club ID required"))
		return
	}

	var req CollaboratorRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if req.Email == "" {
		WriteError(w, model.NewValidationError([]model.FieldError{
			{Field: "email", Message: "email is required"},
		}))
		return
	}

	user, err := h.svc.AddCollaborator(r.Context(), clubID, req.Email)
	if err != nil {
		h.handleError(w, err)
		return
	}

	WriteData(w, http.StatusCreated, user, nil)
}

// RemoveCollaborator handles DELETE {prefix}/clubs/{clubId}/collaborators/{userId}
func (h *ClubHandler) RemoveCollaborator(w http.ResponseWriter, r *http.Request) {
	clubID := r.PathValue("clubId")
	userID := r.PathValue("userId")
	if clubID == "" || userID == "" {
		WriteError(w, model.NewBadRequestError("club ID and user ID required"))
		return
	}

	if err := h.svc.RemoveCollaborator(r.Context(), clubID, userID); err != nil {
		h.handleError(w, err)
		return
	}

	WriteNoContent(w)
}

// ListMembers handles GET {prefix}/clubs/{clubId}/collaborators
func (h *ClubHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	clubID := r.PathValue("clubId")
	if clubID == "" {
		WriteError(w, model.NewBadRequestError("club ID required"))
		return
	}

	users, err := h.svc.ListMembers(r.Context(), clubID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	WriteData(w, http.StatusOK, users, nil)
}

func (h *ClubHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrClubNotFound):
		WriteError(w, model.NewNotFoundError("club"))
	case errors.Is(err, service.ErrClubNameRequired):
		WriteError(w, model.NewValidationError([]model.FieldError{
			{Field: "name", Message: "club name is required"},
		}))
	case errors.Is(err, service.ErrClubHasTournaments):
		WriteError(w, model.NewConflictError("club still owns tournaments"))
	case errors.Is(err, service.ErrClubQuotaExceeded):
		WriteError(w, model.NewConflictError("club quota exceeded"))
	case errors.Is(err, service.ErrUserNotFound):
		WriteError(w, model.NewNotFoundError("user"))
	default:
		slog.Error("club operation failed", slog.Any("error", err))
		WriteError(w, model.NewInternalError(""))
	}
}
