package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"labflow/internal/sheet"
)

const (
	snapshotKeyPrefix = "snapshot:"
	snapshotTTL       = 7 * 24 * time.Hour
)

// SnapshotStore persists the last successfully fetched copy of a remote
// collection, so a restart can serve the previous collection while the slow
// sheet endpoints are re-fetched. Purely best-effort: every miss or Redis
// error just means an empty mirror until the first fetch lands.
type SnapshotStore struct {
	client *redis.Client
}

func NewSnapshotStore(client *redis.Client) *SnapshotStore {
	return &SnapshotStore{client: client}
}

// Connect parses a Redis URL, verifies the connection, and returns a client.
func Connect(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}

// Save stores the collection under its name, replacing any prior snapshot.
func (s *SnapshotStore) Save(ctx context.Context, name string, records []sheet.Record) error {
	if s == nil || s.client == nil {
		return nil
	}
	buf, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, snapshotKeyPrefix+name, buf, snapshotTTL).Err()
}

// Load returns the stored collection, or nil when none exists.
func (s *SnapshotStore) Load(ctx context.Context, name string) ([]sheet.Record, error) {
	if s == nil || s.client == nil {
		return nil, nil
	}
	buf, err := s.client.Get(ctx, snapshotKeyPrefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var records []sheet.Record
	if err := json.Unmarshal(buf, &records); err != nil {
		return nil, err
	}
	return records, nil
}
