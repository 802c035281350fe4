package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"rail/internal/config"
)

// keyspaces maps key prefixes written by internal/redis to the datastore
// collection reported to New Relic.
var keyspaces = []struct {
	prefix     string
	collection string
}{
	{"cache:search:", "search_cache"},
	{"lock:", "catalog_lock"},
	{"idempotency:", "idempotency"},
}

const unknownCollection = "rail"

// NewRedisClient connects to the search cache, lock and idempotency store.
// With nrApp set, every command is recorded as a datastore segment.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, nrApp *newrelic.Application) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if nrApp != nil {
		client.AddHook(&nrRedisHook{})
	}

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr, err)
	}

	return client, nil
}

// nrRedisHook records redis calls on the transaction carried by ctx.
type nrRedisHook struct{}

func (h *nrRedisHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h *nrRedisHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if txn := newrelic.FromContext(ctx); txn != nil {
			segment := newrelic.DatastoreSegment{
				StartTime:  txn.StartSegmentNow(),
				Product:    newrelic.DatastoreRedis,
				Operation:  cmd.Name(),
				Collection: collectionFor(cmd),
			}
			defer segment.End()
		}
		return next(ctx, cmd)
	}
}

func (h *nrRedisHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		if txn := newrelic.FromContext(ctx); txn != nil {
			segment := newrelic.DatastoreSegment{
				StartTime:  txn.StartSegmentNow(),
				Product:    newrelic.DatastoreRedis,
				Operation:  "pipeline",
				Collection: pipelineCollection(cmds),
			}
			defer segment.End()
		}
		return next(ctx, cmds)
	}
}

// collectionFor names the keyspace a command touches. SCAN is classified by
// its MATCH pattern since its first argument is the cursor.
func collectionFor(cmd redis.Cmder) string {
	args := cmd.Args()
	if strings.EqualFold(cmd.Name(), "scan") {
		for i := 1; i+1 < len(args); i++ {
			if s, ok := args[i].(string); ok && strings.EqualFold(s, "match") {
				if pattern, ok := args[i+1].(string); ok {
					return keyspaceOf(pattern)
				}
			}
		}
		return unknownCollection
	}
	if len(args) < 2 {
		return unknownCollection
	}
	key, ok := args[1].(string)
	if !ok {
		return unknownCollection
	}
	return keyspaceOf(key)
}

func pipelineCollection(cmds []redis.Cmder) string {
	if len(cmds) == 0 {
		return unknownCollection
	}
	first := collectionFor(cmds[0])
	for _, cmd := range cmds[1:] {
		if collectionFor(cmd) != first {
			return "mixed"
		}
	}
	return first
}

func keyspaceOf(key string) string {
	for _, ks := range keyspaces {
		if strings.HasPrefix(key, ks.prefix) {
			return ks.collection
		}
	}
	return unknownCollection
}
