package ws

import (
	"strings"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/fitclash/fitclash/internal/events"
	"github.com/fitclash/fitclash/internal/logger"
	"github.com/fitclash/fitclash/internal/natsbroker"
)

// Hub maintains live viewers grouped by competition. Each room carries its
// own lock so fan-out to one competition never contends with another; the
// registry lock is held only to look rooms up.
type Hub struct {
	logger *logger.Logger

	mu    sync.RWMutex
	rooms map[string]*room

	natsSub *nats.Subscription
}

type room struct {
	mu      sync.RWMutex
	clients map[*Client]bool
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		logger: log.With("component", "ws-hub"),
		rooms:  make(map[string]*room),
	}
}

// Listen bridges the NATS fan-out subjects into the rooms. Core NATS keeps
// the no-backlog contract: a viewer connecting after a publish never sees it.
func (h *Hub) Listen(client *natsbroker.Client) error {
	sub, err := client.Conn().Subscribe(events.LeaderboardUpdatesWildcard, func(msg *nats.Msg) {
		competitionID := strings.TrimPrefix(msg.Subject, events.LeaderboardUpdatesPrefix)
		h.Broadcast(competitionID, msg.Data)
	})
	if err != nil {
		return err
	}

	h.natsSub = sub
	h.logger.Info("Hub listening", "subject", events.LeaderboardUpdatesWildcard)
	return nil
}

func (h *Hub) Close() error {
	if h.natsSub != nil {
		return h.natsSub.Unsubscribe()
	}
	return nil
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	rm, ok := h.rooms[client.competitionID]
	if !ok {
		rm = &room{clients: make(map[*Client]bool)}
		h.rooms[client.competitionID] = rm
	}
	h.mu.Unlock()

	rm.mu.Lock()
	rm.clients[client] = true
	rm.mu.Unlock()

	h.logger.Debug("Client registered",
		"client_id", client.id,
		"competition_id", client.competitionID,
	)
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	rm, ok := h.rooms[client.competitionID]
	h.mu.Unlock()
	if !ok {
		return
	}

	rm.mu.Lock()
	if _, registered := rm.clients[client]; registered {
		delete(rm.clients, client)
		close(client.send)
	}
	empty := len(rm.clients) == 0
	rm.mu.Unlock()

	if empty {
		h.mu.Lock()
		if current, ok := h.rooms[client.competitionID]; ok && current == rm {
			rm.mu.RLock()
			if len(rm.clients) == 0 {
				delete(h.rooms, client.competitionID)
			}
			rm.mu.RUnlock()
		}
		h.mu.Unlock()
	}

	h.logger.Debug("Client unregistered",
		"client_id", client.id,
		"competition_id", client.competitionID,
	)
}

// Broadcast delivers to every viewer of the competition. A client whose send
// buffer is full is dropped rather than stalling the room.
func (h *Hub) Broadcast(competitionID string, message []byte) {
	h.mu.RLock()
	rm, ok := h.rooms[competitionID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	rm.mu.Lock()
	for client := range rm.clients {
		select {
		case client.send <- message:
		default:
			delete(rm.clients, client)
			close(client.send)
			h.logger.Warn("Dropped stalled client",
				"client_id", client.id,
				"competition_id", competitionID,
			)
		}
	}
	rm.mu.Unlock()
}

// SubscriberCount reports the current room size, mostly for tests and ops.
func (h *Hub) SubscriberCount(competitionID string) int {
	h.mu.RLock()
	rm, ok := h.rooms[competitionID]
	h.mu.RUnlock()
	if !ok {
		return 0
	}

	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.clients)
}
