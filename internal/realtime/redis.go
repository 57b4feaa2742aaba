// README: Redis pub/sub feed implementation (production).
package realtime

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "feed:"

// RedisFeed carries change events over Redis pub/sub so every API instance
// sees writes made by its peers.
type RedisFeed struct {
	client *redis.Client
}

func NewRedisFeed(client *redis.Client) *RedisFeed {
	return &RedisFeed{client: client}
}

func (f *RedisFeed) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return f.client.Publish(ctx, channelPrefix+e.Topic, payload).Err()
}

func (f *RedisFeed) Subscribe(ctx context.Context, topic string, filter *Filter, fn Handler) (*Subscription, error) {
	pubsub := f.client.Subscribe(ctx, channelPrefix+topic)
	// Force the subscription onto the wire before returning so callers do not
	// miss events published immediately after Subscribe.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	go func() {
		for msg := range pubsub.Channel() {
			var e Event
			if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
				continue
			}
			if filter.Matches(e) {
				fn(e)
			}
		}
	}()

	return newSubscription(func() { _ = pubsub.Close() }), nil
}
