package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Franka-Beyer/HSprakt/tasks"
	"github.com/Franka-Beyer/HSprakt/types"
	"github.com/Franka-Beyer/HSprakt/utils"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

const senderName = "relvec-worker"

// Message travels over both queues: as a query request it names the pair,
// as a completion it also carries the outcome.
type Message struct {
	Pair     string           `json:"pair"`
	Relation types.Relation   `json:"relation"`
	Status   tasks.TaskStatus `json:"status,omitempty"`
	Found    bool             `json:"found,omitempty"`
	Sender   string           `json:"sender"`
}

type Task struct {
	delivery     *amqp.Delivery
	queryTask    *tasks.QueryTask
	pair         types.WordPair
	relvecLogger *zerolog.Logger
}

// doneMessage reports the current state of the task.
func (task *Task) doneMessage() Message {
	return Message{
		Pair:     task.pair.Key(),
		Relation: task.pair.Relation,
		Status:   task.queryTask.Status,
		Found:    task.queryTask.Found,
		Sender:   senderName,
	}
}

func (worker *Worker) processMessage(ctx context.Context, delivery *amqp.Delivery) {
	task, err := worker.createTask(ctx, delivery)
	rejectLogger := worker.relvecLogger.With().Str("message_id", delivery.MessageId).Logger()
	if err != nil {
		worker.relvecLogger.Err(err).
			Str("message_id", delivery.MessageId).
			Str("body", string(delivery.Body)).
			Msg("Failed to create task for delivery")
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.processTask(ctx, task); err != nil {
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.rmq.publishDone(task, task.doneMessage()); err != nil {
		task.relvecLogger.Err(err).Msg("Got error while sending message to done queue")
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.rmq.acknowledgeDelivery(delivery); err != nil {
		task.relvecLogger.Err(err).Msg("Failed to acknowledge delivery")
	}
	task.relvecLogger.Info().Msg("Finished processing RMQ message")
}

func (worker *Worker) createTask(ctx context.Context, delivery *amqp.Delivery) (*Task, error) {
	var message Message
	err := json.Unmarshal(delivery.Body, &message)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal message, got error %w", err)
	}
	pair, err := types.PairFromKey(message.Pair, message.Relation)
	if err != nil {
		return nil, err
	}
	queryTask, err := worker.redis.getQueryTask(ctx, message.Pair)
	if err != nil {
		return nil, fmt.Errorf("failed to query task for message, got error %w", err)
	}
	taskLogger := worker.relvecLogger.With().Str("pair", message.Pair).Logger()
	task := Task{
		delivery:     delivery,
		queryTask:    queryTask,
		pair:         pair,
		relvecLogger: &taskLogger,
	}
	return &task, nil
}

func (worker *Worker) processTask(ctx context.Context, task *Task) error {
	shouldPerform, err := worker.shouldPerformTask(ctx, task)
	if err != nil {
		task.relvecLogger.Err(err).
			Msg("Got error while trying to decide whether to run task")
		return err
	}
	if !shouldPerform {
		return nil
	}
	if err = worker.redis.onTaskStarted(ctx, task); err != nil {
		task.relvecLogger.Err(err).Msg("Failed to update task info")
		return fmt.Errorf("failed to update QueryTask: %w", err)
	}
	found, err := worker.runQuery(ctx, task)
	if err != nil {
		task.relvecLogger.Err(err).Msg("Got error while running query")
		if err = worker.redis.onTaskFailedWithError(ctx, task, err); err != nil {
			return err
		}
		return nil
	}
	task.relvecLogger.Info().Bool("found", found).Msg("Query done, marking task as complete")
	if err = worker.redis.onTaskComplete(ctx, task, found); err != nil {
		task.relvecLogger.Err(err).Msg("Got error while trying to mark task as complete")
		return err
	}
	return nil
}

func (worker *Worker) runQuery(ctx context.Context, task *Task) (found bool, err error) {
	defer utils.RecoverWithError(&err)
	task.relvecLogger.Info().Msgf("Processing message from RMQ, attempt # %d", task.queryTask.Attempts)
	found, err = worker.query.preparePair(ctx, task.pair)
	if err != nil {
		return false, fmt.Errorf("failed to run query: %w", err)
	}
	if !found {
		return false, nil
	}
	lines, err := worker.query.readResults(task.pair)
	if err != nil {
		task.relvecLogger.Err(err).Caller().Msg("Could not read query results")
		return false, err
	}
	if err = worker.redis.saveMatches(ctx, task, lines); err != nil {
		task.relvecLogger.Err(err).Msg("Got error while trying to save matches")
		return false, err
	}
	worker.query.removeResults(task.pair)
	return true, nil
}

func (worker *Worker) shouldPerformTask(ctx context.Context, task *Task) (bool, error) {
	taskInfo := task.queryTask
	taskLogger := task.relvecLogger

	if taskInfo.Status.Complete() {
		taskLogger.Info().Msg("Task is already done. (might indicate issue acking message with RMQ). Reporting it as done.")
		return false, nil
	}
	if taskInfo.Attempts >= worker.config.TaskMaxRetries {
		taskLogger.Info().Msg("Query task has exceeded retries. Reporting it as done.")
		err := worker.redis.onTaskExceededRetries(ctx, task, worker.config.TaskMaxRetries)
		return false, err
	}
	return true, nil
}
