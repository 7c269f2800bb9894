// Package store is the client for the hosted document store behind the
// planner: two named collections of JSON documents with put/delete by
// id and a change-notification subscription per collection.
//
// The store is Redis: one hash per collection holds the documents, and
// every write publishes the touched id on a per-collection channel so
// other clients can reload their snapshot.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	appLog "omniplan/internal/log"
)

// The two logical collections of the planner.
const (
	CollectionBrands    = "brands"
	CollectionCampaigns = "campaigns"
)

// Store talks to one Redis-backed document store.
type Store struct {
	client *redis.Client
	prefix string
}

// New connects to the store and verifies the connection.
func New(ctx context.Context, redisURL, keyPrefix string) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("store: invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("store: connect failed: %w", err)
	}

	if keyPrefix == "" {
		keyPrefix = "omniplan"
	}
	return &Store{client: client, prefix: keyPrefix}, nil
}

func (s *Store) hashKey(collection string) string {
	return s.prefix + ":" + collection
}

func (s *Store) channel(collection string) string {
	return s.prefix + ":changes:" + collection
}

// Put writes one document by id and notifies subscribers.
func (s *Store) Put(ctx context.Context, collection, id string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: marshal %s/%s: %w", collection, id, err)
	}
	if err := s.client.HSet(ctx, s.hashKey(collection), id, payload).Err(); err != nil {
		return fmt.Errorf("store: put %s/%s: %w", collection, id, err)
	}
	return s.notify(ctx, collection, id)
}

// Delete removes one document by id and notifies subscribers. Deleting
// an absent id is not an error.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if err := s.client.HDel(ctx, s.hashKey(collection), id).Err(); err != nil {
		return fmt.Errorf("store: delete %s/%s: %w", collection, id, err)
	}
	return s.notify(ctx, collection, id)
}

func (s *Store) notify(ctx context.Context, collection, id string) error {
	if err := s.client.Publish(ctx, s.channel(collection), id).Err(); err != nil {
		// The write itself succeeded; subscribers will catch up on the
		// next notification. Log rather than fail the operation.
		appLog.Error("store: change notification failed", err, "collection", collection, "id", id)
	}
	return nil
}

// Load returns the full collection as raw documents keyed by id.
func (s *Store) Load(ctx context.Context, collection string) (map[string]json.RawMessage, error) {
	raw, err := s.client.HGetAll(ctx, s.hashKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("store: load %s: %w", collection, err)
	}
	out := make(map[string]json.RawMessage, len(raw))
	for id, doc := range raw {
		out[id] = json.RawMessage(doc)
	}
	return out, nil
}

// Subscribe invokes onChange for every change notification on the
// collection until the returned unsubscribe function is called or ctx
// is canceled. Notifications are coalescing triggers: the subscriber is
// expected to reload the whole collection.
func (s *Store) Subscribe(ctx context.Context, collection string, onChange func()) (func(), error) {
	ps := s.client.Subscribe(ctx, s.channel(collection))

	// Force the subscription onto the wire before returning so callers
	// cannot miss notifications for writes they issue next.
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, fmt.Errorf("store: subscribe %s: %w", collection, err)
	}

	ch := ps.Channel()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				onChange()
			}
		}
	}()

	return func() {
		if err := ps.Close(); err != nil {
			appLog.Error("store: unsubscribe failed", err, "collection", collection)
		}
	}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.client.Close()
}
