package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/Franka-Beyer/HSprakt/redis"
	"github.com/Franka-Beyer/HSprakt/types"
)

const QueriesDB redis.DB = 2

type TaskStatus string

const (
	TaskStatusNew              TaskStatus = ""
	TaskStatusStarted          TaskStatus = "started"
	TaskStatusFailed           TaskStatus = "failed"
	TaskStatusCompletedSuccess TaskStatus = "completed - success"
	TaskStatusCompletedFailure TaskStatus = "completed - failure"
)

func (s TaskStatus) Complete() bool {
	return s == TaskStatusCompletedSuccess || s == TaskStatusCompletedFailure
}

// QueryTask tracks the corpus query of one word pair across workers.
type QueryTask struct {
	Pair          string         `json:"pair"`
	Relation      types.Relation `json:"relation"`
	Attempts      int            `json:"attempts"`
	Status        TaskStatus     `json:"status"`
	Found         bool           `json:"found"`
	StartedAt     *string        `json:"started_at"`
	CompletedAt   *string        `json:"completed_at"`
	ErrorMessages []string       `json:"error_messages"`
}

type documents interface {
	GetDocument(ctx context.Context, redisKey string, doc interface{}) error
	UpdateDocument(ctx context.Context, redisKey string, doc interface{}, update func(found bool) error) error
	Close() error
}

type QueryTasks struct {
	client documents
}

func taskKey(pairKey string) string {
	return fmt.Sprintf("query-task:%s", pairKey)
}

// Get returns the task of pairKey. A pair nobody worked on yet gets a new task.
func (tasks QueryTasks) Get(ctx context.Context, pairKey string) (*QueryTask, error) {
	var task QueryTask
	err := tasks.client.GetDocument(ctx, taskKey(pairKey), &task)
	if errors.Is(err, redis.ErrNotFound) {
		return &QueryTask{Pair: pairKey}, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (tasks QueryTasks) Update(ctx context.Context, pairKey string, updateFunc func(task *QueryTask)) error {
	var task QueryTask
	return tasks.client.UpdateDocument(ctx, taskKey(pairKey), &task, func(found bool) error {
		if !found {
			task.Pair = pairKey
		}
		updateFunc(&task)
		return nil
	})
}
