package rmq

import (
	"fmt"

	"github.com/Franka-Beyer/HSprakt/logger"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

// Queue names one of the two queues the query workers talk over.
type Queue int

const (
	// QueryQueue carries one message per word pair to query.
	QueryQueue Queue = iota
	// DoneQueue carries the outcome of every query back to the dispatcher.
	DoneQueue
)

type Config struct {
	Host                    string `envconfig:"RELVEC_RMQ_HOST" required:"true"`
	Port                    string `envconfig:"RELVEC_RMQ_PORT" required:"true"`
	Username                string `envconfig:"RELVEC_RMQ_USERNAME" required:"true"`
	Password                string `envconfig:"RELVEC_RMQ_PASSWORD" required:"true"`
	Exchange                string `envconfig:"RELVEC_RMQ_EXCHANGE" default:"relvec-exchange"`
	MaxParallelRequestCount int    `envconfig:"RELVEC_RMQ_MAX_PARALLEL" default:"8"`
	QueryQueue              string `envconfig:"RELVEC_RMQ_QUERY_QUEUE" default:"relvec-queries"`
	DoneQueue               string `envconfig:"RELVEC_RMQ_DONE_QUEUE" default:"relvec-done"`
}

func (config Config) queueName(queue Queue) string {
	if queue == DoneQueue {
		return config.DoneQueue
	}
	return config.QueryQueue
}

type Client struct {
	Deliveries     <-chan amqp.Delivery
	ReqChanErrors  <-chan *amqp.Error
	RespChanErrors <-chan *amqp.Error
	config         Config
	reqConn        *amqp.Connection
	respConn       *amqp.Connection
	respChannel    *amqp.Channel
	relvecLogger   *zerolog.Logger
}

// NewClient connects to the broker and consumes from queue. At most
// MaxParallelRequestCount deliveries are unacknowledged at any time.
func NewClient(queue Queue) (*Client, error) {
	relvecLogger := logger.NewLogger("RMQ client")
	var err error
	var config Config
	if err = envconfig.Process("", &config); err != nil {
		relvecLogger.Error().Err(err).Msg("Could not read env config")
		return nil, err
	}

	url := getURL(config)
	respConn, respChannel, err := setup(url)
	if err != nil {
		return nil, fmt.Errorf("failed connection: %s", err)
	}
	reqConn, reqChannel, err := setup(url)
	if err != nil {
		return nil, fmt.Errorf("failed connection: %s", err)
	}

	if err := declareTopology(reqChannel, config); err != nil {
		return nil, err
	}
	if err := reqChannel.Qos(config.MaxParallelRequestCount, 0, false); err != nil {
		return nil, fmt.Errorf("qos: %s", err)
	}

	deliveries, err := reqChannel.Consume(
		config.queueName(queue),
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("consume deliveries: %s", err)
	}
	reqChanErrors := reqChannel.NotifyClose(make(chan *amqp.Error))
	respChanErrors := respChannel.NotifyClose(make(chan *amqp.Error))

	return &Client{
		Deliveries:     deliveries,
		ReqChanErrors:  reqChanErrors,
		RespChanErrors: respChanErrors,
		config:         config,
		reqConn:        reqConn,
		respConn:       respConn,
		respChannel:    respChannel,
		relvecLogger:   &relvecLogger,
	}, nil
}

// declareTopology makes sure the exchange and both queues exist and are bound.
func declareTopology(ch *amqp.Channel, config Config) error {
	if err := ch.ExchangeDeclare(
		config.Exchange, // name
		"direct",        // kind
		true,            // durable
		false,           // auto-deleted
		false,           // internal
		false,           // no-wait
		nil,             // arguments
	); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	for _, name := range []string{config.QueryQueue, config.DoneQueue} {
		if _, err := ch.QueueDeclare(
			name,  // name
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		); err != nil {
			return fmt.Errorf("declare queue %s: %w", name, err)
		}
		if err := ch.QueueBind(name, name, config.Exchange, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", name, err)
		}
	}
	return nil
}

func (c *Client) Publish(queue Queue, msg amqp.Publishing) error {
	return c.respChannel.Publish(
		c.config.Exchange,
		c.config.queueName(queue),
		false,
		false,
		msg)
}

func (c *Client) Close() {
	_ = c.reqConn.Close()
	_ = c.respConn.Close()
}

func getURL(config Config) string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s", config.Username, config.Password, config.Host, config.Port)
}

func setup(url string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, err
	}
	return conn, ch, nil
}
