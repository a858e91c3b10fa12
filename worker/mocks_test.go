package worker

import (
	"context"
	"errors"

	"github.com/Franka-Beyer/HSprakt/tasks"
	"github.com/Franka-Beyer/HSprakt/types"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

type failingMethod struct {
	fail bool
}

type withValue struct {
	fail          bool
	returnedValue interface{}
}

type queryMock struct {
	config queryMockConfig
	calls  queryMockCalls
}

type queryMockConfig struct {
	preparePair withValue
	readResults withValue
	panics      bool
}

type queryMockCalls struct {
	preparePair   bool
	readResults   bool
	removeResults bool
}

type redisMock struct {
	config redisMockConfig
	calls  redisMockCalls
}

type redisMockConfig struct {
	getQueryTask          withValue
	onTaskStarted         failingMethod
	onTaskExceededRetries failingMethod
	onTaskFailedWithError failingMethod
	onTaskComplete        failingMethod
	saveMatches           failingMethod
}

type redisMockCalls struct {
	getQueryTask          bool
	onTaskStarted         bool
	onTaskExceededRetries bool
	onTaskFailedWithError bool
	onTaskComplete        bool
	saveMatches           bool
}

type rmqMock struct {
	config rmqMockConfig
	calls  rmqMockCalls
	sent   []Message
}

type rmqMockConfig struct {
	publishDone         failingMethod
	acknowledgeDelivery failingMethod
}

type rmqMockCalls struct {
	publishDone         bool
	acknowledgeDelivery bool
	rejectDelivery      bool
}

func (mock *rmqMock) close() {}

func (mock *redisMock) close() {}

func (mock *queryMock) preparePair(ctx context.Context, pair types.WordPair) (bool, error) {
	mock.calls.preparePair = true
	if mock.config.panics {
		panic("cqp exploded")
	}
	if mock.config.preparePair.fail {
		return false, errors.New("cqp failed")
	}
	if found, ok := mock.config.preparePair.returnedValue.(bool); ok {
		return found, nil
	}
	return true, nil
}

func (mock *queryMock) readResults(pair types.WordPair) ([][]string, error) {
	mock.calls.readResults = true
	if mock.config.readResults.fail {
		return nil, errors.New("failed to read results")
	}
	if lines, ok := mock.config.readResults.returnedValue.([][]string); ok {
		return lines, nil
	}
	return [][]string{{"heiß", "und", "kalt"}}, nil
}

func (mock *queryMock) removeResults(pair types.WordPair) {
	mock.calls.removeResults = true
}

func (mock *redisMock) getQueryTask(ctx context.Context, pairKey string) (*tasks.QueryTask, error) {
	mock.calls.getQueryTask = true
	if mock.config.getQueryTask.fail {
		return nil, errors.New("failed to get query task")
	}
	switch mock.config.getQueryTask.returnedValue.(type) {
	case tasks.QueryTask:
		task := mock.config.getQueryTask.returnedValue.(tasks.QueryTask)
		return &task, nil
	default:
		return &tasks.QueryTask{Pair: pairKey}, nil
	}
}

func (mock *redisMock) onTaskStarted(ctx context.Context, task *Task) error {
	mock.calls.onTaskStarted = true
	if mock.config.onTaskStarted.fail {
		return errors.New("failed to update query task on start")
	}
	task.queryTask.Status = tasks.TaskStatusStarted
	task.queryTask.Attempts += 1
	return nil
}

func (mock *redisMock) onTaskExceededRetries(ctx context.Context, task *Task, maxRetries int) error {
	mock.calls.onTaskExceededRetries = true
	if mock.config.onTaskExceededRetries.fail {
		return errors.New("failed to update query task on exceeded retries")
	}
	task.queryTask.Status = tasks.TaskStatusCompletedFailure
	return nil
}

func (mock *redisMock) onTaskFailedWithError(ctx context.Context, task *Task, err error) error {
	mock.calls.onTaskFailedWithError = true
	if mock.config.onTaskFailedWithError.fail {
		return errors.New("failed to update query task on fail with error")
	}
	task.queryTask.Status = tasks.TaskStatusFailed
	return nil
}

func (mock *redisMock) onTaskComplete(ctx context.Context, task *Task, found bool) error {
	mock.calls.onTaskComplete = true
	if mock.config.onTaskComplete.fail {
		return errors.New("failed to update query task on complete")
	}
	task.queryTask.Status = tasks.TaskStatusCompletedSuccess
	task.queryTask.Found = found
	return nil
}

func (mock *redisMock) saveMatches(ctx context.Context, task *Task, lines [][]string) error {
	mock.calls.saveMatches = true
	if mock.config.saveMatches.fail {
		return errors.New("failed to save matches")
	}
	return nil
}

func (mock *rmqMock) rejectDelivery(delivery *amqp.Delivery, relvecLogger *zerolog.Logger) {
	mock.calls.rejectDelivery = true
}

func (mock *rmqMock) getDeliveriesCh() <-chan amqp.Delivery {
	return nil
}

func (mock *rmqMock) getReqChanErrorsCh() <-chan *amqp.Error {
	return nil
}

func (mock *rmqMock) getRespChanErrorsCh() <-chan *amqp.Error {
	return nil
}

func (mock *rmqMock) publishDone(task *Task, message Message) error {
	mock.calls.publishDone = true
	if mock.config.publishDone.fail {
		return errors.New("failed to publish to done queue")
	}
	mock.sent = append(mock.sent, message)
	return nil
}

func (mock *rmqMock) acknowledgeDelivery(delivery *amqp.Delivery) error {
	mock.calls.acknowledgeDelivery = true
	if mock.config.acknowledgeDelivery.fail {
		return errors.New("failed to acknowledge delivery")
	}
	return nil
}

type dispatchMock struct {
	deliveries chan amqp.Delivery
	published  []Message
	acked      int
	failAt     int
	// answer turns a published query into the completion a worker would send.
	answer func(message Message) *Message
}

func (mock *dispatchMock) publishQuery(message Message) error {
	if mock.failAt > 0 && len(mock.published)+1 == mock.failAt {
		return errors.New("channel closed")
	}
	mock.published = append(mock.published, message)
	if mock.answer == nil {
		return nil
	}
	if done := mock.answer(message); done != nil {
		mock.deliveries <- amqp.Delivery{Body: mustMarshal(*done)}
	}
	return nil
}

func (mock *dispatchMock) getDeliveriesCh() <-chan amqp.Delivery {
	return mock.deliveries
}

func (mock *dispatchMock) acknowledgeDelivery(delivery *amqp.Delivery) error {
	mock.acked++
	return nil
}

func (mock *dispatchMock) close() {}
