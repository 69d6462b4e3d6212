package app

import (
	"context"

	"cosponsor_spider/internal/models"
	urlqueue "cosponsor_spider/internal/url_queue"

	"golang.org/x/sync/errgroup"
)

// taskFunc handles one queued bill. A nil bill with a nil error means the
// bill was skipped.
type taskFunc func(ctx context.Context, task urlqueue.Task) (*models.Bill, error)

// pool drains a queue with at most size tasks in flight.
type pool struct {
	size int
	// abandoned counts the tasks left unstarted when a run was cut short.
	abandoned int
}

func newPool(size int) *pool {
	if size < 1 {
		size = 1
	}
	return &pool{size: size}
}

// run returns the fetched bills in queue order, whatever order they finished in.
func (p *pool) run(ctx context.Context, queue *urlqueue.URLQueue, fn taskFunc) ([]*models.Bill, error) {
	slots := make([]*models.Bill, queue.Size())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.size)

	for i := 0; gctx.Err() == nil; i++ {
		task, ok := queue.Get()
		if !ok {
			break
		}
		i := i
		g.Go(func() error {
			bill, err := fn(gctx, task)
			if err != nil {
				return err
			}
			slots[i] = bill
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		p.abandoned = len(queue.Drain())
		return nil, err
	}

	bills := make([]*models.Bill, 0, len(slots))
	for _, b := range slots {
		if b != nil {
			bills = append(bills, b)
		}
	}
	return bills, nil
}
