// README: Redis client initialization for presence GEO and the change feed.
package infra

import "github.com/redis/go-redis/v9"

func NewRedis(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}
