package jobs_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgtype"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	dbgen "github.com/noah-isme/backend-crm/internal/db/gen"
	"github.com/noah-isme/backend-crm/internal/events"
	"github.com/noah-isme/backend-crm/internal/jobs"
	"github.com/noah-isme/backend-crm/internal/lock"
)

type recordingEnqueuer struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (r *recordingEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.tasks = append(r.tasks, task)
	r.opts = append(r.opts, opts)
	return &asynq.TaskInfo{ID: "t1", Queue: "crm-events"}, nil
}

type stubInvalidator struct {
	calls int
	err   error
}

func (s *stubInvalidator) Invalidate(context.Context) (int, error) {
	s.calls++
	return 3, s.err
}

func sampleEvent(topic string) dbgen.DomainEvent {
	return dbgen.DomainEvent{
		ID:          pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Topic:       topic,
		AggregateID: pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Payload:     []byte(`{"status":"converted"}`),
		OccurredAt:  pgtype.Timestamptz{Time: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), Valid: true},
	}
}

func TestSchedulerEnqueuesEventTask(t *testing.T) {
	enq := &recordingEnqueuer{}
	s := &jobs.Scheduler{Client: enq, MaxRetry: 5}
	ev := sampleEvent(events.TopicPresaleConverted)

	require.NoError(t, s.Schedule(context.Background(), ev))
	require.Len(t, enq.tasks, 1)
	require.Equal(t, jobs.TypeEventDispatch, enq.tasks[0].Type())

	payload, err := jobs.DecodeEventTask(enq.tasks[0])
	require.NoError(t, err)
	require.Equal(t, events.TopicPresaleConverted, payload.Topic)
	require.Equal(t, uuid.UUID(ev.ID.Bytes).String(), payload.EventID)
	require.JSONEq(t, `{"status":"converted"}`, string(payload.Payload))
	require.Len(t, enq.opts[0], 3)
}

func TestSchedulerIgnoresDuplicateTaskID(t *testing.T) {
	s := &jobs.Scheduler{Client: &recordingEnqueuer{err: asynq.ErrTaskIDConflict}}
	require.NoError(t, s.Schedule(context.Background(), sampleEvent(events.TopicPresaleCreated)))

	s = &jobs.Scheduler{Client: &recordingEnqueuer{err: errors.New("redis down")}}
	require.ErrorContains(t, s.Schedule(context.Background(), sampleEvent(events.TopicPresaleCreated)), "redis down")

	require.Error(t, (&jobs.Scheduler{}).Schedule(context.Background(), sampleEvent(events.TopicPresaleCreated)))
}

func TestHandlerInvalidatesReportsUnderLock(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	inv := &stubInvalidator{}
	h := &jobs.Handler{Reports: inv, Locker: lock.Locker{R: client}, LockTTL: time.Second}

	task, err := jobs.NewEventTask(sampleEvent(events.TopicPresaleStatusChanged))
	require.NoError(t, err)
	require.NoError(t, h.ProcessTask(context.Background(), task))
	require.Equal(t, 1, inv.calls)
	require.False(t, mr.Exists(lock.KeyPrefix+"reports:invalidate"))
}

func TestHandlerSkipsTopicsOutsideReports(t *testing.T) {
	inv := &stubInvalidator{}
	h := &jobs.Handler{Reports: inv}

	task, err := jobs.NewEventTask(sampleEvent(events.TopicProductStockAdjusted))
	require.NoError(t, err)
	require.NoError(t, h.ProcessTask(context.Background(), task))
	require.Zero(t, inv.calls)
}

func TestHandlerRejectsMalformedPayload(t *testing.T) {
	h := &jobs.Handler{Reports: &stubInvalidator{}}
	err := h.ProcessTask(context.Background(), asynq.NewTask(jobs.TypeEventDispatch, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)

	body, _ := json.Marshal(map[string]string{"eventId": "x"})
	err = h.ProcessTask(context.Background(), asynq.NewTask(jobs.TypeEventDispatch, body))
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandlerReturnsInvalidationError(t *testing.T) {
	inv := &stubInvalidator{err: errors.New("scan failed")}
	h := &jobs.Handler{Reports: inv}
	task, err := jobs.NewEventTask(sampleEvent(events.TopicPresaleDeleted))
	require.NoError(t, err)
	require.ErrorContains(t, h.ProcessTask(context.Background(), task), "scan failed")
}
