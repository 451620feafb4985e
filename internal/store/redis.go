package store

import (
	"fmt"

	"github.com/redis/go-redis/v9"
)

// NewRedis builds a client from a redis:// or rediss:// URL. Like NewPool it
// connects lazily.
func NewRedis(rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}
