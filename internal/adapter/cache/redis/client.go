package redis

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// Options configures the connection shared by the profile cache and the presence store.
type Options struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

func NewClient(opts Options) *redis.Client {
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 2 * time.Second
	}
	return redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: opts.DialTimeout,
	})
}
