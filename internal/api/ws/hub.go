package ws

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"

	"github.com/truthprism/prism/internal/domain"
	redisstore "github.com/truthprism/prism/internal/store/redis"
)

// Hub manages WebSocket connections backed by Redis pub/sub.
type Hub struct {
	pubsub *redisstore.PubSub
}

// NewHub creates a new WebSocket hub.
func NewHub(pubsub *redisstore.PubSub) *Hub {
	return &Hub{pubsub: pubsub}
}

// ServeCompanyFeed handles WebSocket connections for live company activity.
// Subscribes to Redis channel "company:<key>" and streams every event the
// engine emits for that company: registrations, role changes, market
// lifecycle, bets, and claims.
func (h *Hub) ServeCompanyFeed(w http.ResponseWriter, r *http.Request) {
	key, err := domain.ParseKey(chi.URLParam(r, "key"))
	if err != nil {
		http.Error(w, "invalid company key", http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	channel := redisstore.CompanyChannel(key)

	messages, cleanup, err := h.pubsub.Subscribe(ctx, channel)
	if err != nil {
		log.Error().Err(err).Msg("websocket subscribe")
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer cleanup()

	h.stream(ctx, conn, messages)
}

// ServeMarketFeed handles WebSocket connections for a single market's
// activity. Subscribes to Redis channel "market:<key>".
func (h *Hub) ServeMarketFeed(w http.ResponseWriter, r *http.Request) {
	key, err := domain.ParseKey(chi.URLParam(r, "key"))
	if err != nil {
		http.Error(w, "invalid market key", http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	channel := redisstore.MarketChannel(key)

	messages, cleanup, err := h.pubsub.Subscribe(ctx, channel)
	if err != nil {
		log.Error().Err(err).Msg("websocket subscribe")
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer cleanup()

	h.stream(ctx, conn, messages)
}

func (h *Hub) stream(ctx context.Context, conn *websocket.Conn, messages <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		case msg, msgOK := <-messages:
			if !msgOK {
				_ = conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}
			if writeErr := conn.Write(ctx, websocket.MessageText, msg); writeErr != nil {
				log.Debug().Err(writeErr).Msg("websocket write")
				return
			}
		}
	}
}
