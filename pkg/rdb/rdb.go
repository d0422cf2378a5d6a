package rdb

import (
	"context"

	"github.com/redis/go-redis/v9"
)

var Client *redis.Client

// Init connects the package-level client and pings it so a bad URI fails at
// startup rather than at first publish.
func Init(ctx context.Context, uri string) error {
	opts, err := redis.ParseURL(uri)
	if err != nil {
		return err
	}

	Client = redis.NewClient(opts)

	return Client.Ping(ctx).Err()
}
