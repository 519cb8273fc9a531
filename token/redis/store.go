package redis

import (
	"context"
	"fmt"

	"github.com/marcelsud/activity-refiner/token"
	"github.com/redis/go-redis/v9"
)

/* Redis implementation of token.Store
 * The credential record is a hash at secret:{name} with the fields
 * access_token and refresh_token. Writes are last-writer-wins.
 */

const (
	keyPrefix         = "secret"
	fieldAccessToken  = "access_token"
	fieldRefreshToken = "refresh_token"
)

type Store struct {
	client *redis.Client
	key    string
}

// NewStore creates a credential store for the named record
func NewStore(client *redis.Client, name string) *Store {
	return &Store{
		client: client,
		key:    Key(name),
	}
}

// Key returns the hash key holding the named record
func Key(name string) string {
	return fmt.Sprintf("%s:%s", keyPrefix, name)
}

// Load reads the record. An absent record yields an empty pair.
func (s *Store) Load(ctx context.Context) (token.Pair, error) {
	data, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return token.Pair{}, fmt.Errorf("reading credential record: %w", err)
	}
	return token.Pair{
		AccessToken:  data[fieldAccessToken],
		RefreshToken: data[fieldRefreshToken],
	}, nil
}

// Save overwrites both fields in one command
func (s *Store) Save(ctx context.Context, pair token.Pair) error {
	err := s.client.HSet(ctx, s.key, map[string]interface{}{
		fieldAccessToken:  pair.AccessToken,
		fieldRefreshToken: pair.RefreshToken,
	}).Err()
	if err != nil {
		return fmt.Errorf("writing credential record: %w", err)
	}
	return nil
}
