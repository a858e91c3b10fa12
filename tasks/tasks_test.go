package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Franka-Beyer/HSprakt/redis"
	"github.com/Franka-Beyer/HSprakt/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

type fakeDocuments struct {
	docs   map[string][]byte
	getErr error
}

func (f *fakeDocuments) GetDocument(_ context.Context, redisKey string, doc interface{}) error {
	if f.getErr != nil {
		return f.getErr
	}
	b, ok := f.docs[redisKey]
	if !ok {
		return redis.ErrNotFound
	}
	return json.Unmarshal(b, doc)
}

func (f *fakeDocuments) UpdateDocument(c context.Context, redisKey string, doc interface{}, update func(found bool) error) error {
	err := f.GetDocument(c, redisKey, doc)
	found := err == nil
	if err != nil && !errors.Is(err, redis.ErrNotFound) {
		return err
	}
	if err := update(found); err != nil {
		return err
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	f.docs[redisKey] = b
	return nil
}

func (f *fakeDocuments) Close() error {
	return nil
}

func TestTaskStatusComplete(t *testing.T) {
	assert.True(t, TaskStatusCompletedSuccess.Complete())
	assert.True(t, TaskStatusCompletedFailure.Complete())
	assert.False(t, TaskStatusStarted.Complete())
	assert.False(t, TaskStatusFailed.Complete())
	assert.False(t, TaskStatusNew.Complete())
}

func TestGetNewTask(t *testing.T) {
	queries := QueryTasks{client: &fakeDocuments{docs: make(map[string][]byte)}}

	task, err := queries.Get(ctx, "heiß:kalt")
	require.NoError(t, err)
	assert.Equal(t, &QueryTask{Pair: "heiß:kalt"}, task)
}

func TestGetError(t *testing.T) {
	queries := QueryTasks{client: &fakeDocuments{getErr: errors.New("connection refused")}}

	_, err := queries.Get(ctx, "heiß:kalt")
	assert.EqualError(t, err, "connection refused")
}

func TestUpdate(t *testing.T) {
	docs := &fakeDocuments{docs: make(map[string][]byte)}
	queries := QueryTasks{client: docs}

	require.NoError(t, queries.Update(ctx, "heiß:kalt", func(task *QueryTask) {
		task.Relation = types.RelationAntonym
		task.Status = TaskStatusStarted
		task.Attempts += 1
	}))
	require.NoError(t, queries.Update(ctx, "heiß:kalt", func(task *QueryTask) {
		task.Status = TaskStatusCompletedSuccess
		task.Found = true
	}))

	task, err := queries.Get(ctx, "heiß:kalt")
	require.NoError(t, err)
	assert.Equal(t, "heiß:kalt", task.Pair)
	assert.Equal(t, types.RelationAntonym, task.Relation)
	assert.Equal(t, 1, task.Attempts)
	assert.Equal(t, TaskStatusCompletedSuccess, task.Status)
	assert.True(t, task.Found)
	assert.Contains(t, docs.docs, "query-task:heiß:kalt")
}
