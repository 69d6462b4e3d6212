package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"cosponsor_spider/internal/models"
	urlqueue "cosponsor_spider/internal/url_queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolKeepsQueueOrder(t *testing.T) {
	queue := urlqueue.NewURLQueue("http://x/{number}", 111, models.ChamberSenate, 20)

	bills, err := newPool(5).run(context.Background(), queue, func(_ context.Context, task urlqueue.Task) (*models.Bill, error) {
		if task.Number%5 == 0 {
			return nil, nil
		}
		return &models.Bill{Number: task.Number}, nil
	})
	require.NoError(t, err)

	var numbers []int
	for _, b := range bills {
		numbers = append(numbers, b.Number)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 6, 7, 8, 9, 11, 12, 13, 14, 16, 17, 18, 19}, numbers)
}

func TestPoolDropsPendingTasksOnError(t *testing.T) {
	queue := urlqueue.NewURLQueue("http://x/{number}", 111, models.ChamberSenate, 10)
	boom := errors.New("boom")
	var calls atomic.Int32

	p := newPool(1)
	_, err := p.run(context.Background(), queue, func(_ context.Context, task urlqueue.Task) (*models.Bill, error) {
		calls.Add(1)
		if task.Number == 3 {
			return nil, boom
		}
		return &models.Bill{Number: task.Number}, nil
	})

	assert.ErrorIs(t, err, boom)
	assert.LessOrEqual(t, calls.Load(), int32(4))
	assert.Equal(t, 0, queue.Size())
	assert.Equal(t, 10-int(calls.Load()), p.abandoned)
}
