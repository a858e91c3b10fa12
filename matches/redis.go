package matches

import (
	"context"
	"errors"
	"fmt"

	"github.com/Franka-Beyer/HSprakt/redis"
)

const MatchesDB redis.DB = 3

type documentStore interface {
	GetDocument(ctx context.Context, redisKey string, doc interface{}) error
	SaveDoc(ctx context.Context, redisKey string, doc interface{}) error
	Lock(ctx context.Context, redisKey string) (redis.ReleaseLock, error)
}

type matchDocument struct {
	Pair  string     `json:"pair"`
	Lines [][]string `json:"lines"`
}

// RedisStore keeps the match lines of every pair as one JSON document. It is
// shared by the query workers and the vectors stage.
type RedisStore struct {
	docs documentStore
}

func NewRedisStore(docs documentStore) *RedisStore {
	return &RedisStore{docs: docs}
}

func matchesKey(pairKey string) string {
	return fmt.Sprintf("matches:%s", pairKey)
}

func (store *RedisStore) Lines(ctx context.Context, pairKey string) ([][]string, error) {
	var doc matchDocument
	err := store.docs.GetDocument(ctx, matchesKey(pairKey), &doc)
	if errors.Is(err, redis.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNoMatches, pairKey)
	}
	if err != nil {
		return nil, err
	}
	return doc.Lines, nil
}

func (store *RedisStore) Save(ctx context.Context, pairKey string, lines [][]string) (err error) {
	key := matchesKey(pairKey)
	releaseLock, err := store.docs.Lock(ctx, key)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = releaseLock()
			return
		}
		err = releaseLock()
	}()
	return store.docs.SaveDoc(ctx, key, matchDocument{Pair: pairKey, Lines: lines})
}
