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

type PrizeHandler struct {
	prizeService service.PrizeService
	logger       *logger.Logger
}

func NewPrizeHandler(prizeService service.PrizeService, log *logger.Logger) *PrizeHandler {
	return &PrizeHandler{
		prizeService: prizeService,
		logger:       log.With("component", "PrizeHandler"),
	}
}

type calculatePrizesRequest struct {
	PrizePool float64 `json:"prize_pool"`
}

func (h *PrizeHandler) CalculatePrizes(w http.ResponseWriter, r *http.Request) {
	competitionID := chi.URLParam(r, "competitionID")

	var req calculatePrizesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, h.logger, apperrors.New(apperrors.CodeInvalidInput, "invalid request body"))
		return
	}

	prizes, err := h.prizeService.Calculate(r.Context(), competitionID, req.PrizePool)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, prizes)
}

func (h *PrizeHandler) GetPrizes(w http.ResponseWriter, r *http.Request) {
	competitionID := chi.URLParam(r, "competitionID")

	prizes, err := h.prizeService.GetPrizes(r.Context(), competitionID)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, prizes)
}

func (h *PrizeHandler) MarkDistributed(w http.ResponseWriter, r *http.Request) {
	competitionID := chi.URLParam(r, "competitionID")

	rank, err := strconv.Atoi(chi.URLParam(r, "rank"))
	if err != nil {
		respondAppError(w, h.logger, apperrors.New(apperrors.CodeInvalidInput, "rank must be an integer"))
		return
	}

	if appErr := h.prizeService.MarkDistributed(r.Context(), competitionID, rank); appErr != nil {
		respondAppError(w, h.logger, appErr)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
