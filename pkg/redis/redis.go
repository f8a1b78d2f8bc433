package redis

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const defaultPingTimeout = 5 * time.Second

type Redis interface {
	RDB() *goredis.Client
	Close() error
}

type Config struct {
	Host     string
	Port     uint16
	Password string
	DB       int
}

type redis struct {
	rdb *goredis.Client
}

func New(cfg *Config) (Redis, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(int(cfg.Port))),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), defaultPingTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		if cErr := rdb.Close(); cErr != nil {
			err = fmt.Errorf("%w, failed to close redis client: %w", err, cErr)
		}

		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &redis{rdb: rdb}, nil
}

func (r *redis) RDB() *goredis.Client {
	return r.rdb
}

func (r *redis) Close() error {
	return r.rdb.Close()
}
