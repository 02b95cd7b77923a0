package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fitclash/fitclash/internal/apperrors"
	"github.com/fitclash/fitclash/internal/logger"
	"github.com/fitclash/fitclash/internal/service"
)

type LeaderboardHandler struct {
	leaderboardService service.LeaderboardService
	logger             *logger.Logger
}

func NewLeaderboardHandler(leaderboardService service.LeaderboardService, log *logger.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
		logger:             log.With("component", "LeaderboardHandler"),
	}
}

type submitScoreRequest struct {
	ParticipantID string  `json:"participant_id"`
	UserName      string  `json:"user_name"`
	Steps         int64   `json:"steps"`
	Distance      float64 `json:"distance"`
	Calories      float64 `json:"calories"`
}

type submitScoreResponse struct {
	Score          int64 `json:"score"`
	ScoreRecorded  bool  `json:"score_recorded"`
	DetailRecorded bool  `json:"detail_recorded"`
}

func (h *LeaderboardHandler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	competitionID := chi.URLParam(r, "competitionID")

	var req submitScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, h.logger, apperrors.New(apperrors.CodeInvalidInput, "invalid request body"))
		return
	}
	if req.ParticipantID == "" {
		respondAppError(w, h.logger, apperrors.New(apperrors.CodeInvalidInput, "participant_id is required"))
		return
	}
	if req.Steps < 0 || req.Distance < 0 || req.Calories < 0 {
		respondAppError(w, h.logger, apperrors.New(apperrors.CodeInvalidInput, "metrics must not be negative"))
		return
	}

	result, err := h.leaderboardService.SubmitScore(
		r.Context(),
		competitionID, req.ParticipantID, req.UserName,
		req.Steps, req.Distance, req.Calories,
	)
	if err != nil {
		// Partial outcomes still matter to the caller; include them next to
		// the failure.
		status := statusForCode(err.Code)
		respondJSON(w, status, map[string]interface{}{
			"code":            err.Code,
			"message":         err.Message,
			"score_recorded":  result.ScoreRecorded,
			"detail_recorded": result.DetailRecorded,
		})
		return
	}

	respondJSON(w, http.StatusOK, submitScoreResponse{
		Score:          result.Score,
		ScoreRecorded:  result.ScoreRecorded,
		DetailRecorded: result.DetailRecorded,
	})
}

func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	competitionID := chi.URLParam(r, "competitionID")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondAppError(w, h.logger, apperrors.New(apperrors.CodeInvalidInput, "limit must be an integer"))
			return
		}
		limit = parsed
	}

	view, err := h.leaderboardService.GetLeaderboard(r.Context(), competitionID, limit)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

type rankResponse struct {
	CompetitionID string `json:"competition_id"`
	ParticipantID string `json:"participant_id"`
	Rank          int64  `json:"rank"`
}

func (h *LeaderboardHandler) GetRank(w http.ResponseWriter, r *http.Request) {
	competitionID := chi.URLParam(r, "competitionID")
	participantID := chi.URLParam(r, "participantID")

	rank, found, err := h.leaderboardService.GetRank(r.Context(), competitionID, participantID)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	if !found {
		respondAppError(w, h.logger, apperrors.New(apperrors.CodeNotFound, "participant has no score in this competition"))
		return
	}

	respondJSON(w, http.StatusOK, rankResponse{
		CompetitionID: competitionID,
		ParticipantID: participantID,
		Rank:          rank,
	})
}
