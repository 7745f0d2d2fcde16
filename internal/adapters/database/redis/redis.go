package redis

import (
	"context"
	"fmt"

	"github.com/Badsnus/cu-events-notifier/internal/adapters/database/redis/slots"
	"github.com/redis/go-redis/v9"
)

type Client struct {
	Slots *slots.Storage

	client *redis.Client
}

type Options struct {
	Host     string
	Port     string
	Password string
	DB       int
	// Prefix namespaces every key written by this process
	Prefix string
}

func New(ctx context.Context, opts Options) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping slot storage: %w", err)
	}

	return &Client{
		Slots:  slots.NewStorage(client, opts.Prefix),
		client: client,
	}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
