package events

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/truthprism/prism/internal/domain"
	redisstore "github.com/truthprism/prism/internal/store/redis"
)

// RedisEmitter publishes each event to its company's channel so websocket
// subscribers and other consumers see mutations live.
type RedisEmitter struct {
	pubsub *redisstore.PubSub
}

func NewRedisEmitter(pubsub *redisstore.PubSub) *RedisEmitter {
	return &RedisEmitter{pubsub: pubsub}
}

func (e *RedisEmitter) Emit(ctx context.Context, ev domain.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("kind", string(ev.Kind)).Msg("events: marshal")
		return
	}

	channel := redisstore.CompanyChannel(ev.Company)
	if err := e.pubsub.Publish(ctx, channel, payload); err != nil {
		log.Warn().Err(err).Str("channel", channel).Msg("events: publish")
	}

	// Market-scoped events also go to the market's own channel so per-market
	// feeds see them without filtering the company stream.
	marketHex, ok := ev.Fields["market"].(string)
	if !ok {
		return
	}
	marketKey, err := domain.ParseKey(marketHex)
	if err != nil {
		return
	}
	channel = redisstore.MarketChannel(marketKey)
	if err := e.pubsub.Publish(ctx, channel, payload); err != nil {
		log.Warn().Err(err).Str("channel", channel).Msg("events: publish")
	}
}

var _ domain.EventEmitter = (*RedisEmitter)(nil)
