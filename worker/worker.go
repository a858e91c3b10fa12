package worker

import (
	"context"
	"fmt"

	"github.com/Franka-Beyer/HSprakt/cqp"
	"github.com/Franka-Beyer/HSprakt/logger"
	"github.com/Franka-Beyer/HSprakt/matches"
	"github.com/Franka-Beyer/HSprakt/redis"
	"github.com/Franka-Beyer/HSprakt/rmq"
	"github.com/Franka-Beyer/HSprakt/tasks"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
)

type Config struct {
	TaskMaxRetries int `envconfig:"RELVEC_TASK_MAX_RETRIES" default:"3"`
}

// Worker consumes word pairs from the query queue, queries the corpus for
// each and keeps the matches in Redis.
type Worker struct {
	config       Config
	redis        redisTransactions
	rmq          rmqTransactions
	query        queryTransactions
	relvecLogger *zerolog.Logger
}

func New(query *cqp.Query) (*Worker, error) {
	relvecLogger := logger.NewLogger("Worker")

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		relvecLogger.Error().Err(err).Msg("Could not read config")
		return nil, err
	}

	worker := Worker{
		config:       config,
		relvecLogger: &relvecLogger,
		query:        &cqpQueryWrapper{query: query, relvecLogger: &relvecLogger},
	}
	if err := worker.refreshRMQClient(); err != nil {
		relvecLogger.Error().Err(err).Msg("Could not create RMQ client")
		return nil, err
	}
	if err := worker.refreshRedisClients(); err != nil {
		relvecLogger.Error().Err(err).Msg("Could not create Redis client")
		worker.rmq.close()
		return nil, err
	}
	return &worker, nil
}

// StartWorker handles deliveries until ctx is done or the broker connection
// cannot be restored.
func (worker *Worker) StartWorker(ctx context.Context) error {
	defer worker.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-worker.rmq.getDeliveriesCh():
			if ok {
				go worker.processMessage(ctx, &delivery)
				continue
			}
			worker.relvecLogger.Error().Msg("Deliveries channel closed, trying to refresh RMQ client")
			if err := worker.refreshRMQClient(); err != nil {
				return fmt.Errorf(
					"rmq deliveries channel has been closed and refresh returned error: %w",
					err,
				)
			}
		case rmqErr := <-worker.rmq.getRespChanErrorsCh():
			if rmqErr == nil {
				continue
			}
			worker.relvecLogger.Err(rmqErr).Msg("Response connection received error, trying to refresh RMQ client")
			if err := worker.refreshRMQClient(); err != nil {
				return fmt.Errorf(
					"response connection received error and refresh failed with: %w",
					err,
				)
			}
		case rmqErr := <-worker.rmq.getReqChanErrorsCh():
			if rmqErr == nil {
				continue
			}
			worker.relvecLogger.Err(rmqErr).Msg("Request connection received error, trying to refresh RMQ client")
			if err := worker.refreshRMQClient(); err != nil {
				return fmt.Errorf(
					"request connection received error and refresh failed with: %w",
					err,
				)
			}
		}
	}
}

func (worker *Worker) Close() {
	worker.redis.close()
	worker.rmq.close()
}

func (worker *Worker) refreshRedisClients() error {
	worker.relvecLogger.Info().Msg("Refreshing Redis client")
	if oldClient := worker.redis; oldClient != nil {
		defer oldClient.close()
	}
	tasksClient, err := tasks.NewClient()
	if err != nil {
		worker.relvecLogger.Err(err).Msg("Failed to refresh Redis client")
		return err
	}
	matchesClient, err := redis.NewClient(matches.MatchesDB)
	if err != nil {
		tasksClient.Close()
		worker.relvecLogger.Err(err).Msg("Failed to refresh Redis client")
		return err
	}
	worker.redis = &redisClientWrapper{
		tasksClient:   &tasksClient,
		matchesClient: &matchesClient,
		store:         matches.NewRedisStore(&matchesClient),
	}
	worker.relvecLogger.Info().Msg("Refreshed Redis client")
	return nil
}

func (worker *Worker) refreshRMQClient() error {
	worker.relvecLogger.Info().Msg("Refreshing RMQ client")
	if oldClient := worker.rmq; oldClient != nil {
		defer oldClient.close()
	}
	rmqClient, err := rmq.NewClient(rmq.QueryQueue)
	if err != nil {
		worker.relvecLogger.Err(err).Msg("Failed to refresh RMQ client")
		return err
	}
	worker.rmq = &rmqClientWrapper{rmqClient}
	worker.relvecLogger.Info().Msg("Refreshed RMQ client")
	return nil
}
