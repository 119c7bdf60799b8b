package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CatalogPubSub broadcasts catalog invalidation events so that every API
// instance drops its cached listings after an admin mutation.
type CatalogPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewCatalogPubSub(rdb *redis.Client) *CatalogPubSub {
	return &CatalogPubSub{
		rdb:     rdb,
		channel: ChannelCatalogChanged(),
	}
}

type catalogChangedMsg struct {
	Type   string `json:"type"`
	Entity string `json:"entity"`
	ID     int64  `json:"id"`
	TsUnix int64  `json:"ts_unix"`
}

func (p *CatalogPubSub) PublishCatalogChanged(ctx context.Context, entity string, id int64) error {
	msg := catalogChangedMsg{
		Type:   "catalog_changed",
		Entity: entity,
		ID:     id,
		TsUnix: time.Now().Unix(),
	}

	b, _ := json.Marshal(msg)

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

func (p *CatalogPubSub) Subscribe(ctx context.Context, handler func(ctx context.Context, entity string, id int64)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var ev catalogChangedMsg
			if err := json.Unmarshal([]byte(m.Payload), &ev); err == nil &&
				ev.Entity != "" {
				handler(ctx, ev.Entity, ev.ID)
			}
		}
	}
}
