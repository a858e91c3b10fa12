package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Franka-Beyer/HSprakt/cqp"
	"github.com/Franka-Beyer/HSprakt/logger"
	"github.com/Franka-Beyer/HSprakt/rmq"
	"github.com/Franka-Beyer/HSprakt/types"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

const dispatcherName = "relvec-dispatcher"

var ErrDeliveriesClosed = errors.New("done queue closed before every pair reported")

type dispatchTransactions interface {
	publishQuery(message Message) error
	getDeliveriesCh() <-chan amqp.Delivery
	acknowledgeDelivery(delivery *amqp.Delivery) error
	close()
}

type dispatchClientWrapper struct {
	rmqClient *rmq.Client
}

func (wrapper *dispatchClientWrapper) publishQuery(message Message) error {
	b, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return wrapper.rmqClient.Publish(
		rmq.QueryQueue,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         b,
		},
	)
}

func (wrapper *dispatchClientWrapper) getDeliveriesCh() <-chan amqp.Delivery {
	return wrapper.rmqClient.Deliveries
}

func (wrapper *dispatchClientWrapper) acknowledgeDelivery(delivery *amqp.Delivery) error {
	return delivery.Ack(false)
}

func (wrapper *dispatchClientWrapper) close() {
	wrapper.rmqClient.Close()
}

// Dispatcher hands word pairs to the query workers and waits for their
// outcomes.
type Dispatcher struct {
	rmq          dispatchTransactions
	relvecLogger *zerolog.Logger
}

func NewDispatcher() (*Dispatcher, error) {
	relvecLogger := logger.NewLogger("Dispatcher")
	rmqClient, err := rmq.NewClient(rmq.DoneQueue)
	if err != nil {
		relvecLogger.Err(err).Msg("Could not create RMQ client")
		return nil, err
	}
	return &Dispatcher{
		rmq:          &dispatchClientWrapper{rmqClient},
		relvecLogger: &relvecLogger,
	}, nil
}

func (dispatcher *Dispatcher) Close() {
	dispatcher.rmq.close()
}

// Dispatch publishes one query per pair and collects the completion messages
// until every pair reported. The outcome keeps the order of pairs.
func (dispatcher *Dispatcher) Dispatch(ctx context.Context, pairs []types.WordPair) (cqp.Outcome, error) {
	pending := make(map[string]bool, len(pairs))
	for _, pair := range pairs {
		if pending[pair.Key()] {
			continue
		}
		pending[pair.Key()] = true
		err := dispatcher.rmq.publishQuery(Message{
			Pair:     pair.Key(),
			Relation: pair.Relation,
			Sender:   dispatcherName,
		})
		if err != nil {
			return cqp.Outcome{}, fmt.Errorf("publishing %s: %w", pair.Key(), err)
		}
	}
	dispatcher.relvecLogger.Info().Int("pairs", len(pending)).Msg("Dispatched queries")

	found := make(map[string]bool, len(pending))
	for len(pending) > 0 {
		select {
		case <-ctx.Done():
			return cqp.Outcome{}, ctx.Err()
		case delivery, ok := <-dispatcher.rmq.getDeliveriesCh():
			if !ok {
				return cqp.Outcome{}, fmt.Errorf("%w: %d missing", ErrDeliveriesClosed, len(pending))
			}
			dispatcher.handleDone(&delivery, pending, found)
		}
	}

	var outcome cqp.Outcome
	reported := make(map[string]bool, len(pairs))
	for _, pair := range pairs {
		if reported[pair.Key()] {
			continue
		}
		reported[pair.Key()] = true
		if found[pair.Key()] {
			outcome.Found = append(outcome.Found, pair.Key())
		} else {
			dispatcher.relvecLogger.Info().Str("pair", pair.Key()).Msg("No results")
			outcome.Blacklisted = append(outcome.Blacklisted, pair)
		}
	}
	return outcome, nil
}

func (dispatcher *Dispatcher) handleDone(delivery *amqp.Delivery, pending, found map[string]bool) {
	defer func() {
		if err := dispatcher.rmq.acknowledgeDelivery(delivery); err != nil {
			dispatcher.relvecLogger.Err(err).Msg("Failed to acknowledge delivery")
		}
	}()

	var message Message
	if err := json.Unmarshal(delivery.Body, &message); err != nil {
		dispatcher.relvecLogger.Err(err).Str("body", string(delivery.Body)).Msg("Dropping malformed completion")
		return
	}
	if !pending[message.Pair] {
		dispatcher.relvecLogger.Debug().Str("pair", message.Pair).Msg("Completion for a pair not waited for")
		return
	}
	delete(pending, message.Pair)
	found[message.Pair] = message.Found
	dispatcher.relvecLogger.Debug().
		Str("pair", message.Pair).
		Str("status", string(message.Status)).
		Bool("found", message.Found).
		Msg("Query reported")
}
