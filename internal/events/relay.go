package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pushp314/devconnect-chat/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const publishTimeout = 2 * time.Second

// envelope is the relay wire format. Data stays raw so the bus never decodes payloads.
type envelope struct {
	UserID uint            `json:"userId"`
	Type   Type            `json:"type"`
	Data   json.RawMessage `json:"data"`
}

// Relay forwards events through Redis pub/sub so a user connected to another
// instance still receives them. It adds no delivery guarantee.
type Relay struct {
	rdb     *redis.Client
	channel string
}

func NewRelay(rdb *redis.Client, channel string) *Relay {
	return &Relay{rdb: rdb, channel: channel}
}

// AttachRelay routes Emit through r. Call Run so this instance also receives.
func (b *Bus) AttachRelay(r *Relay) {
	b.relay = r
}

func encodeEnvelope(userID uint, ev Event) ([]byte, error) {
	data, err := json.Marshal(ev.Data)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", ev.Type, err)
	}
	return json.Marshal(envelope{UserID: userID, Type: ev.Type, Data: data})
}

func decodeEnvelope(raw string) (uint, Event, error) {
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return 0, Event{}, err
	}
	if env.UserID == 0 || env.Type == "" {
		return 0, Event{}, fmt.Errorf("incomplete envelope")
	}
	return env.UserID, Event{Type: env.Type, Data: env.Data}, nil
}

func (r *Relay) Publish(ctx context.Context, userID uint, ev Event) error {
	b, err := encodeEnvelope(userID, ev)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	return r.rdb.Publish(ctx, r.channel, b).Err()
}

// Run subscribes to the relay channel and hands every envelope to the bus's local
// subscribers until ctx is cancelled.
func (r *Relay) Run(ctx context.Context, b *Bus) {
	log := logger.Component("event-relay")
	pubsub := r.rdb.Subscribe(ctx, r.channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	log.Info().Str("channel", r.channel).Msg("event relay subscribed")
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				log.Warn().Msg("redis subscription closed, event relay stopped")
				return
			}
			userID, ev, err := decodeEnvelope(msg.Payload)
			if err != nil {
				log.Debug().Err(err).Msg("skipping malformed relay envelope")
				continue
			}
			b.deliverLocal(userID, ev)
		}
	}
}
