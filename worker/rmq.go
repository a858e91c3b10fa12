package worker

import (
	"encoding/json"

	"github.com/Franka-Beyer/HSprakt/rmq"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

type rmqTransactions interface {
	publishDone(task *Task, message Message) error
	acknowledgeDelivery(delivery *amqp.Delivery) error
	rejectDelivery(delivery *amqp.Delivery, relvecLogger *zerolog.Logger)
	getDeliveriesCh() <-chan amqp.Delivery
	getReqChanErrorsCh() <-chan *amqp.Error
	getRespChanErrorsCh() <-chan *amqp.Error
	close()
}

type rmqClientWrapper struct {
	rmqClient *rmq.Client
}

func (wrapper *rmqClientWrapper) close() {
	wrapper.rmqClient.Close()
}

func (wrapper *rmqClientWrapper) getDeliveriesCh() <-chan amqp.Delivery {
	return wrapper.rmqClient.Deliveries
}

func (wrapper *rmqClientWrapper) getReqChanErrorsCh() <-chan *amqp.Error {
	return wrapper.rmqClient.ReqChanErrors
}

func (wrapper *rmqClientWrapper) getRespChanErrorsCh() <-chan *amqp.Error {
	return wrapper.rmqClient.RespChanErrors
}

func (wrapper *rmqClientWrapper) publishDone(task *Task, message Message) error {
	b, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return wrapper.rmqClient.Publish(
		rmq.DoneQueue,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        b,
		},
	)
}

func (wrapper *rmqClientWrapper) acknowledgeDelivery(delivery *amqp.Delivery) error {
	return delivery.Ack(false)
}

func (wrapper *rmqClientWrapper) rejectDelivery(delivery *amqp.Delivery, relvecLogger *zerolog.Logger) {
	rejectDelivery(delivery, relvecLogger)
}

// rejectDelivery requeues a delivery once; a delivery that failed again after
// being redelivered is dropped.
func rejectDelivery(delivery *amqp.Delivery, relvecLogger *zerolog.Logger) {
	if delivery.Redelivered {
		relvecLogger.Info().Msg("Rejecting delivery as it already has been redelivered")
		err := delivery.Reject(false)
		if err != nil {
			relvecLogger.Err(err).Msg("Failed to reject delivery")
		}
		return
	}
	relvecLogger.Info().Msg("Requeuing delivery as it has not been redelivered yet")
	err := delivery.Reject(true)
	if err != nil {
		relvecLogger.Err(err).Msg("Failed to requeue delivery")
	}
}
