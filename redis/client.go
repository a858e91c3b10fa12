package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/go-redis/redis/v8"
	"github.com/kelseyhightower/envconfig"
)

type DB int
type ReleaseLock func() error

// ErrNotFound is returned for keys that hold no document.
var ErrNotFound = errors.New("redis key not found")

type Client struct {
	client         redis.UniversalClient
	lockExpiration time.Duration
}

type Config struct {
	LockExpirationSeconds   int     `envconfig:"RELVEC_REDIS_LOCK_EXPIRATION" default:"3"`
	Host                    string  `envconfig:"RELVEC_REDIS_HOST" required:"true"`
	Port                    string  `envconfig:"RELVEC_REDIS_PORT" required:"true"`
	HASentinelPort          string  `envconfig:"RELVEC_REDIS_HA_SENTINEL_PORT" default:"26379"`
	HASentinelMasterName    string  `envconfig:"RELVEC_REDIS_HA_MASTER_NAME" default:"mymaster"`
	Password                string  `envconfig:"RELVEC_REDIS_AUTH_PASSWORD" default:"0"`
	AuthRequired            bool    `envconfig:"RELVEC_REDIS_AUTH_REQUIRED" default:"false"`
	HAMode                  bool    `envconfig:"RELVEC_REDIS_HA_MODE" default:"false"`
	HASentinelSocketTimeout float32 `envconfig:"RELVEC_REDIS_SOCKET_TIMEOUT" default:"0.5"`
}

func NewClient(db DB) (Client, error) {
	cfg, err := readEnvironment()
	if err != nil {
		return Client{}, err
	}
	var client redis.UniversalClient
	if cfg.HAMode {
		client = CreateClusterClient(cfg, db)
	} else {
		client = CreateClient(cfg, db)
	}
	return Client{
		client:         client,
		lockExpiration: time.Duration(cfg.LockExpirationSeconds) * time.Second,
	}, nil
}

func CreateClusterClient(cfg *Config, db DB) *redis.ClusterClient {
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.HASentinelPort)
	timeout := time.Duration(cfg.HASentinelSocketTimeout * float32(time.Second))
	options := redis.FailoverOptions{
		SentinelAddrs: []string{addr},
		ReadTimeout:   timeout,
		WriteTimeout:  timeout,
		MaxRetries:    6,
		DB:            int(db),
		MasterName:    cfg.HASentinelMasterName,
	}
	if cfg.AuthRequired {
		options.Password = cfg.Password
	}
	return redis.NewFailoverClusterClient(&options)
}

func CreateClient(cfg *Config, db DB) *redis.Client {
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	options := redis.Options{
		Addr:       addr,
		MaxRetries: 6,
		DB:         int(db),
	}
	if cfg.AuthRequired {
		options.Password = cfg.Password
	}
	return redis.NewClient(&options)
}

// GetDocument decodes the JSON document stored under redisKey into doc.
func (client *Client) GetDocument(ctx context.Context, redisKey string, doc interface{}) error {
	b, err := client.client.Get(ctx, redisKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: %s", ErrNotFound, redisKey)
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(b, doc)
}

// UpdateDocument loads the document under redisKey into doc, applies update
// and saves the result, all while holding the key's lock. A missing document
// leaves doc untouched and update is told so.
func (client *Client) UpdateDocument(
	ctx context.Context,
	redisKey string,
	doc interface{},
	update func(found bool) error) (err error) {
	releaseLock, err := client.Lock(ctx, redisKey)
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

	found := true
	err = client.GetDocument(ctx, redisKey, doc)
	if errors.Is(err, ErrNotFound) {
		found = false
	} else if err != nil {
		return err
	}
	if err = update(found); err != nil {
		return err
	}
	return client.SaveDoc(ctx, redisKey, doc)
}

func (client *Client) Lock(ctx context.Context, redisKey string) (ReleaseLock, error) {
	lockCl := redislock.New(client.client)
	str := redislock.LimitRetry(redislock.LinearBackoff(time.Second), 20)
	lockKey := fmt.Sprintf("lock:%s", redisKey)
	lock, err := lockCl.Obtain(ctx, lockKey, client.lockExpiration, &redislock.Options{RetryStrategy: str})
	if err != nil {
		return nil, err
	}
	return func() error {
		return lock.Release(ctx)
	}, nil
}

func (client *Client) SaveDoc(ctx context.Context, redisKey string, document interface{}) error {
	b, err := json.Marshal(document)
	if err != nil {
		return err
	}
	return client.client.Set(ctx, redisKey, b, 0).Err()
}

func (client *Client) Delete(ctx context.Context, redisKey string) error {
	return client.client.Del(ctx, redisKey).Err()
}

func (client *Client) Close() error {
	return client.client.Close()
}

func readEnvironment() (*Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
