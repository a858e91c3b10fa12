package worker

import (
	"context"
	"fmt"

	"github.com/Franka-Beyer/HSprakt/matches"
	"github.com/Franka-Beyer/HSprakt/redis"
	"github.com/Franka-Beyer/HSprakt/tasks"
)

type redisTransactions interface {
	getQueryTask(ctx context.Context, pairKey string) (*tasks.QueryTask, error)
	onTaskStarted(ctx context.Context, task *Task) error
	onTaskExceededRetries(ctx context.Context, task *Task, maxRetries int) error
	onTaskFailedWithError(ctx context.Context, task *Task, err error) error
	onTaskComplete(ctx context.Context, task *Task, found bool) error
	saveMatches(ctx context.Context, task *Task, lines [][]string) error
	close()
}

type redisClientWrapper struct {
	tasksClient   *tasks.Client
	matchesClient *redis.Client
	store         *matches.RedisStore
}

func (wrapper *redisClientWrapper) close() {
	wrapper.tasksClient.Close()
	_ = wrapper.matchesClient.Close()
}

// update applies updateFunc to the stored task and, once saved, to the local
// copy the done message is built from.
func (wrapper *redisClientWrapper) update(ctx context.Context, task *Task, updateFunc func(queryTask *tasks.QueryTask)) error {
	err := wrapper.tasksClient.Queries.Update(ctx, task.pair.Key(), func(queryTask *tasks.QueryTask) {
		queryTask.Relation = task.pair.Relation
		updateFunc(queryTask)
	})
	if err != nil {
		return err
	}
	updateFunc(task.queryTask)
	return nil
}

func (wrapper *redisClientWrapper) onTaskStarted(ctx context.Context, task *Task) error {
	return wrapper.update(ctx, task, func(queryTask *tasks.QueryTask) {
		queryTask.Status = tasks.TaskStatusStarted
		queryTask.Attempts += 1
		queryTask.StartedAt = getFormattedNow()
		queryTask.CompletedAt = nil
	})
}

func (wrapper *redisClientWrapper) onTaskExceededRetries(ctx context.Context, task *Task, maxRetries int) error {
	return wrapper.update(ctx, task, func(queryTask *tasks.QueryTask) {
		queryTask.Status = tasks.TaskStatusCompletedFailure
		queryTask.Found = false
		queryTask.CompletedAt = getFormattedNow()
		queryTask.ErrorMessages = append(
			queryTask.ErrorMessages,
			fmt.Sprintf(
				"Task has exceeded retries. (Attempts: %d, max retries: %d )",
				queryTask.Attempts,
				maxRetries,
			),
		)
	})
}

func (wrapper *redisClientWrapper) onTaskFailedWithError(ctx context.Context, task *Task, err error) error {
	return wrapper.update(ctx, task, func(queryTask *tasks.QueryTask) {
		queryTask.Status = tasks.TaskStatusFailed
		queryTask.CompletedAt = getFormattedNow()
		queryTask.ErrorMessages = append(queryTask.ErrorMessages, err.Error())
	})
}

func (wrapper *redisClientWrapper) onTaskComplete(ctx context.Context, task *Task, found bool) error {
	return wrapper.update(ctx, task, func(queryTask *tasks.QueryTask) {
		if !queryTask.Status.Complete() {
			queryTask.Status = tasks.TaskStatusCompletedSuccess
		}
		queryTask.Found = found
		queryTask.CompletedAt = getFormattedNow()
	})
}

func (wrapper *redisClientWrapper) getQueryTask(ctx context.Context, pairKey string) (*tasks.QueryTask, error) {
	return wrapper.tasksClient.Queries.Get(ctx, pairKey)
}

func (wrapper *redisClientWrapper) saveMatches(ctx context.Context, task *Task, lines [][]string) error {
	return wrapper.store.Save(ctx, task.pair.Key(), lines)
}
