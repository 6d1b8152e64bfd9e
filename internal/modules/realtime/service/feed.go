package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Change types carried on a relation's change feed.
const (
	ChangeInsert = "INSERT"
	ChangeUpdate = "UPDATE"
	ChangeDelete = "DELETE"
)

// Change is one row mutation on a relation. Receivers treat it as a refresh
// signal only; nothing about row contents is promised.
type Change struct {
	Relation string    `json:"relation"`
	Type     string    `json:"type"`
	ID       string    `json:"id"`
	At       time.Time `json:"at"`
}

type Subscription interface {
	Changes() <-chan Change
	Close() error
}

type ChangeFeed interface {
	Publish(ctx context.Context, relation string, change Change) error
	Subscribe(ctx context.Context, relation string) (Subscription, error)
}

func channelName(relation string) string {
	return "changes:" + relation
}

type redisFeed struct {
	client *redis.Client
	log    *zap.Logger
}

// NewChangeFeed returns a redis pub/sub backed feed, or a feed that drops
// every publish and never delivers when client is nil.
func NewChangeFeed(client *redis.Client, log *zap.Logger) ChangeFeed {
	if client == nil {
		return noopFeed{}
	}
	return &redisFeed{client: client, log: log}
}

func (f *redisFeed) Publish(ctx context.Context, relation string, change Change) error {
	change.Relation = relation
	if change.At.IsZero() {
		change.At = time.Now().UTC()
	}

	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("encode %s change: %w", relation, err)
	}
	if err := f.client.Publish(ctx, channelName(relation), payload).Err(); err != nil {
		return fmt.Errorf("publish %s change: %w", relation, err)
	}
	return nil
}

func (f *redisFeed) Subscribe(ctx context.Context, relation string) (Subscription, error) {
	pubsub := f.client.Subscribe(ctx, channelName(relation))

	// Wait for confirmation that subscription is created
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe to %s changes: %w", relation, err)
	}

	sub := &redisSubscription{
		pubsub: pubsub,
		out:    make(chan Change, 16),
		done:   make(chan struct{}),
	}
	go sub.pump(f.log)
	return sub, nil
}

type redisSubscription struct {
	pubsub    *redis.PubSub
	out       chan Change
	done      chan struct{}
	closeOnce sync.Once
}

func (s *redisSubscription) pump(log *zap.Logger) {
	defer close(s.out)
	for msg := range s.pubsub.Channel() {
		change, err := decodeChange(msg.Payload)
		if err != nil {
			log.Warn("dropping malformed change", zap.String("channel", msg.Channel), zap.Error(err))
			continue
		}
		select {
		case s.out <- change:
		case <-s.done:
			return
		}
	}
}

func (s *redisSubscription) Changes() <-chan Change { return s.out }

func (s *redisSubscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.pubsub.Close()
	})
	return err
}

func decodeChange(payload string) (Change, error) {
	var change Change
	if err := json.Unmarshal([]byte(payload), &change); err != nil {
		return Change{}, err
	}
	if change.Relation == "" {
		return Change{}, fmt.Errorf("change without relation")
	}
	return change, nil
}

type noopFeed struct{}

func (noopFeed) Publish(context.Context, string, Change) error { return nil }

func (noopFeed) Subscribe(context.Context, string) (Subscription, error) {
	return noopSubscription{}, nil
}

type noopSubscription struct{}

// Changes returns a nil channel so receives block forever.
func (noopSubscription) Changes() <-chan Change { return nil }

func (noopSubscription) Close() error { return nil }
