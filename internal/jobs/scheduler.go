package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	dbgen "github.com/noah-isme/backend-crm/internal/db/gen"
	"github.com/noah-isme/backend-crm/internal/events"
)

// Enqueuer is the subset of *asynq.Client used by Scheduler.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Scheduler enqueues stored events for the worker.
type Scheduler struct {
	Client   Enqueuer
	Queue    string
	MaxRetry int
	Timeout  time.Duration
}

var _ events.DeliveryScheduler = (*Scheduler)(nil)

// Schedule implements events.DeliveryScheduler. The event id doubles as the
// asynq task id so a replayed event is not queued twice.
func (s *Scheduler) Schedule(ctx context.Context, ev dbgen.DomainEvent) error {
	if s == nil || s.Client == nil {
		return errors.New("jobs: scheduler client not configured")
	}
	queue := s.Queue
	if queue == "" {
		queue = DefaultQueue
	}
	opts := []asynq.Option{asynq.Queue(queue)}
	if s.MaxRetry > 0 {
		opts = append(opts, asynq.MaxRetry(s.MaxRetry))
	}
	if s.Timeout > 0 {
		opts = append(opts, asynq.Timeout(s.Timeout))
	}
	task, err := NewEventTask(ev)
	if err != nil {
		return err
	}
	if id := PayloadFromEvent(ev).EventID; id != "" {
		opts = append(opts, asynq.TaskID(id))
	}
	if _, err := s.Client.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("jobs: enqueue %s: %w", ev.Topic, err)
	}
	return nil
}
