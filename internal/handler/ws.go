package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fitclash/fitclash/internal/logger"
	"github.com/fitclash/fitclash/internal/service"
	"github.com/fitclash/fitclash/internal/ws"
)

type WebSocketHandler struct {
	hub                *ws.Hub
	leaderboardService service.LeaderboardService
	logger             *logger.Logger
}

func NewWebSocketHandler(hub *ws.Hub, leaderboardService service.LeaderboardService, log *logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:                hub,
		leaderboardService: leaderboardService,
		logger:             log.With("component", "WebSocketHandler"),
	}
}

type wsMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Subscribe upgrades the connection and joins the competition's room. The
// new viewer gets the current leaderboard snapshot; missed broadcasts are
// never replayed.
func (h *WebSocketHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	competitionID := chi.URLParam(r, "competitionID")

	var initial []byte
	if view, err := h.leaderboardService.GetLeaderboard(r.Context(), competitionID, 0); err != nil {
		h.logger.Warn("Failed to load initial leaderboard",
			"error", err,
			"competition_id", competitionID,
		)
	} else {
		initial, _ = json.Marshal(wsMessage{
			Type:      "leaderboard_update",
			Data:      view,
			Timestamp: time.Now().UTC(),
		})
	}

	if err := ws.Serve(h.hub, h.logger, w, r, competitionID, initial); err != nil {
		h.logger.Error("WebSocket upgrade failed",
			"error", err,
			"competition_id", competitionID,
		)
	}
}
