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

// TournamentService defines the tournament operations the handler needs
type TournamentService interface {
	GetTournament(ctx context.Context, id string) (*model.Tournament, error)
	GetTournamentBySlug(ctx context.Context, slug string) (*model.Tournament, error)
	ListTournaments(ctx context.Context, userID string) ([]*model.Tournament, error)
}

// TournamentHandler handles tournament HTTP requests
type TournamentHandler struct {
	svc TournamentService
}

// NewTournamentHandler creates a new tournament handler
func NewTournamentHandler(svc TournamentService) *TournamentHandler {
	return &TournamentHandler{svc: svc}
}

// Get handles GET {prefix}/tournaments/{tournamentId}. The guard admits
// anonymous principals for the public dashboard, so the principal may or
// may not carry a user.
func (h *TournamentHandler) Get(w http.ResponseWriter, r *http.Request) {
	tournamentID := r.PathValue("tournamentId")
	if tournamentID == "" {
		WriteError(w, model.NewBadRequestError("tournament ID required"))
		return
	}

	tournament, err := h.svc.GetTournament(r.Context(), tournamentID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	WriteData(w, http.StatusOK, tournament, nil)
}

// List handles GET {prefix}/tournaments. With an endpoint_name query
// parameter it resolves a single tournament by its public slug; without
// one it lists the tournaments of every club the user has access to.
func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	if slug := r.URL.Query().Get("endpoint_name"); slug != "" {
		tournament, err := h.svc.GetTournamentBySlug(r.Context(), slug)
		if err != nil {
			h.handleError(w, err)
			return
		}
		WriteData(w, http.StatusOK, []*model.Tournament{tournament}, nil)
		return
	}

	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok || principal.User == nil {
		WriteError(w, model.NewUnauthenticatedError())
		return
	}

	tournaments, err := h.svc.ListTournaments(r.Context(), principal.User.ID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	WriteData(w, http.StatusOK, tournaments, nil)
}

func (h *TournamentHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrTournamentNotFound):
		WriteError(w, model.NewNotFoundError("tournament"))
	default:
		slog.Error("tournament operation failed", slog.Any("error", err))
		WriteError(w, model.NewInternalError(""))
	}
}
