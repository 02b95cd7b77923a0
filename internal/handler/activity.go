package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fitclash/fitclash/internal/apperrors"
	"github.com/fitclash/fitclash/internal/logger"
	"github.com/fitclash/fitclash/internal/service"
)

type ActivityHandler struct {
	activityService service.ActivityService
	logger          *logger.Logger
}

func NewActivityHandler(activityService service.ActivityService, log *logger.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		logger:          log.With("component", "ActivityHandler"),
	}
}

type syncRequest struct {
	ParticipantID string    `json:"participant_id"`
	Steps         int64     `json:"steps"`
	Distance      float64   `json:"distance"`
	Calories      float64   `json:"calories"`
	ActiveMinutes int64     `json:"active_minutes"`
	Source        string    `json:"source"`
	Date          time.Time `json:"date"`
}

// Sync is the direct ingestion path; the same semantics apply to events
// consumed from the fitness stream.
func (h *ActivityHandler) Sync(w http.ResponseWriter, r *http.Request) {
	competitionID := chi.URLParam(r, "competitionID")

	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, h.logger, apperrors.New(apperrors.CodeInvalidInput, "invalid request body"))
		return
	}
	if req.ParticipantID == "" {
		respondAppError(w, h.logger, apperrors.New(apperrors.CodeInvalidInput, "participant_id is required"))
		return
	}
	if req.Steps < 0 || req.Distance < 0 || req.Calories < 0 || req.ActiveMinutes < 0 {
		respondAppError(w, h.logger, apperrors.New(apperrors.CodeInvalidInput, "metrics must not be negative"))
		return
	}

	if err := h.activityService.Ingest(r.Context(), &service.SyncRequest{
		CompetitionID: competitionID,
		ParticipantID: req.ParticipantID,
		Steps:         req.Steps,
		Distance:      req.Distance,
		Calories:      req.Calories,
		ActiveMinutes: req.ActiveMinutes,
		Source:        req.Source,
		Date:          req.Date,
	}); err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusAccepted, nil)
}

func (h *ActivityHandler) GetTotals(w http.ResponseWriter, r *http.Request) {
	competitionID := chi.URLParam(r, "competitionID")
	participantID := chi.URLParam(r, "participantID")

	totals, err := h.activityService.GetTotals(r.Context(), competitionID, participantID)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, totals)
}
