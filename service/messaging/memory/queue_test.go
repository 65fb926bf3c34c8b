package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	ID    string
	Count int
}

func TestQueue_PublishConsume(t *testing.T) {
	ctx := context.Background()
	queue := NewQueue[testPayload](DefaultConfig())

	require.NoError(t, queue.Publish(ctx, &testPayload{ID: "p-1", Count: 1}))
	assert.Equal(t, 1, queue.Size())

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, queue.Size())
	assert.NotEmpty(t, message.ID())
	assert.Equal(t, "p-1", message.T().ID)

	assert.NoError(t, message.Ack())
	assert.Error(t, message.Ack())
	assert.Error(t, message.Nack(errors.New("late")))
	assert.Equal(t, 0, queue.DLQSize())
}

func TestQueue_Retries(t *testing.T) {
	ctx := context.Background()
	config := DefaultConfig()
	config.MaxRetries = 2
	config.RetryDelay = 5 * time.Millisecond
	queue := NewQueue[testPayload](config)

	require.NoError(t, queue.Publish(ctx, &testPayload{ID: "retry"}))

	var id string
	for attempt := 0; attempt < 3; attempt++ {
		consumeCtx, cancel := context.WithTimeout(ctx, time.Second)
		message, err := queue.Consume(consumeCtx)
		cancel()
		require.NoError(t, err, "attempt %d", attempt)
		if id == "" {
			id = message.ID()
		}
		assert.Equal(t, id, message.ID())
		require.NoError(t, message.Nack(errors.New("boom")))
	}

	letters := queue.DeadLetters()
	require.Len(t, letters, 1)
	assert.Equal(t, "retry", letters[0].Payload.ID)
	assert.Equal(t, 3, letters[0].Attempts)
	assert.EqualError(t, letters[0].Err, "boom")
}

func TestQueue_NoRetry(t *testing.T) {
	ctx := context.Background()
	queue := NewQueue[testPayload](Config{MaxRetries: 0, DeadLetter: true, QueueBuffer: 1})

	require.NoError(t, queue.TryPublish(&testPayload{ID: "once"}))
	assert.ErrorIs(t, queue.TryPublish(&testPayload{ID: "overflow"}), ErrFull)

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	require.NoError(t, message.Nack(errors.New("failed")))
	assert.Equal(t, 0, queue.Size())
	assert.Equal(t, 1, queue.DLQSize())
}

func TestQueue_DeadLetterCap(t *testing.T) {
	testCases := []struct {
		description   string
		max           int
		failures      int
		expectSize    int
		expectDropped int
		expectFirst   string
	}{
		{description: "under cap", max: 3, failures: 2, expectSize: 2, expectDropped: 0, expectFirst: "m0"},
		{description: "oldest evicted", max: 3, failures: 5, expectSize: 3, expectDropped: 2, expectFirst: "m2"},
		{description: "default cap", max: 0, failures: DefaultMaxDeadLetters + 1, expectSize: DefaultMaxDeadLetters, expectDropped: 1, expectFirst: "m1"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			ctx := context.Background()
			queue := NewQueue[testPayload](Config{DeadLetter: true, MaxDeadLetters: testCase.max, QueueBuffer: 1})
			for i := 0; i < testCase.failures; i++ {
				require.NoError(t, queue.TryPublish(&testPayload{ID: fmt.Sprintf("m%d", i)}))
				message, err := queue.Consume(ctx)
				require.NoError(t, err)
				require.NoError(t, message.Nack(errors.New("failed")))
			}
			letters := queue.DeadLetters()
			require.Len(t, letters, testCase.expectSize)
			assert.Equal(t, testCase.expectFirst, letters[0].Payload.ID)
			assert.Equal(t, fmt.Sprintf("m%d", testCase.failures-1), letters[len(letters)-1].Payload.ID)
			assert.Equal(t, testCase.expectDropped, queue.DeadLettersDropped())
		})
	}
}

func TestQueue_PublishCancelled(t *testing.T) {
	queue := NewQueue[testPayload](Config{QueueBuffer: 1})
	require.NoError(t, queue.TryPublish(&testPayload{ID: "fill"}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, queue.Publish(ctx, &testPayload{ID: "blocked"}), context.DeadlineExceeded)

	consumeCtx, cancelConsume := context.WithCancel(context.Background())
	cancelConsume()
	_, err := NewQueue[testPayload](DefaultConfig()).Consume(consumeCtx)
	assert.ErrorIs(t, err, context.Canceled)
}
