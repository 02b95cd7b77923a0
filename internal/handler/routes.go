package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter mounts every handler. Auth is a pass-through concern upstream;
// nothing here inspects identity.
func NewRouter(
	leaderboard *LeaderboardHandler,
	activity *ActivityHandler,
	prize *PrizeHandler,
	wsHandler *WebSocketHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/competitions/{competitionID}", func(r chi.Router) {
		r.Post("/scores", leaderboard.SubmitScore)
		r.Get("/leaderboard", leaderboard.GetLeaderboard)
		r.Get("/participants/{participantID}/rank", leaderboard.GetRank)

		r.Post("/sync", activity.Sync)
		r.Get("/participants/{participantID}/totals", activity.GetTotals)

		r.Post("/prizes", prize.CalculatePrizes)
		r.Get("/prizes", prize.GetPrizes)
		r.Post("/prizes/{rank}/distribute", prize.MarkDistributed)
	})

	r.Get("/ws/competitions/{competitionID}", wsHandler.Subscribe)

	return r
}
