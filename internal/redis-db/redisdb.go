package redisdb

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Redis wraps a universal client so the rest of the codebase does not care
// whether it talks to a single instance or a cluster.
type Redis struct {
	addresses []string
	client    redis.UniversalClient
}

// NewRedisClient connects to the given addresses. A single address yields a
// plain client, several yield a cluster client. Addresses may be host:port
// pairs or redis:// URLs.
func NewRedisClient(addresses []string) (*Redis, error) {
	if len(addresses) == 0 {
		return nil, errors.New("redis addresses list cannot be empty")
	}

	var client redis.UniversalClient
	if len(addresses) == 1 {
		opts, err := parseAddress(addresses[0])
		if err != nil {
			return nil, err
		}
		client = redis.NewClient(opts)
	} else {
		trimmed := make([]string, len(addresses))
		for i, addr := range addresses {
			trimmed[i] = strings.TrimPrefix(addr, "redis://")
		}
		client = redis.NewClusterClient(&redis.ClusterOptions{Addrs: trimmed})
	}

	return &Redis{addresses: addresses, client: client}, nil
}

func parseAddress(address string) (*redis.Options, error) {
	if strings.Contains(address, "://") {
		opts, err := redis.ParseURL(address)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid redis address %q", address)
		}
		return opts, nil
	}
	return &redis.Options{Addr: address}, nil
}

// Client exposes the underlying universal client.
func (r *Redis) Client() redis.UniversalClient {
	return r.client
}
