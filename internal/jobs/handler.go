package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-crm/internal/events"
	"github.com/noah-isme/backend-crm/internal/obs"
)

// ReportInvalidator drops cached report aggregates.
type ReportInvalidator interface {
	Invalidate(ctx context.Context) (int, error)
}

// Locker runs fn while holding a distributed lease.
type Locker interface {
	WithLock(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) error) error
}

const reportLockKey = "reports:invalidate"

// Handler processes event tasks in the worker.
type Handler struct {
	Reports ReportInvalidator
	Locker  Locker
	LockTTL time.Duration
	Logger  *zerolog.Logger
}

// ProcessTask implements asynq.Handler.
func (h *Handler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	p, err := DecodeEventTask(t)
	if err != nil {
		countJob("unknown", "invalid")
		// Malformed bodies never succeed on retry.
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	log := h.logger().With().Str("topic", p.Topic).Str("event_id", p.EventID).Logger()

	if !events.AffectsReports(p.Topic) || h.Reports == nil {
		countJob(p.Topic, "skipped")
		log.Debug().Msg("event requires no background work")
		return nil
	}

	removed := 0
	invalidate := func(ctx context.Context) error {
		n, err := h.Reports.Invalidate(ctx)
		removed = n
		return err
	}
	if h.Locker != nil {
		err = h.Locker.WithLock(ctx, reportLockKey, h.lockTTL(), invalidate)
	} else {
		err = invalidate(ctx)
	}
	if err != nil {
		countJob(p.Topic, "error")
		log.Error().Err(err).Msg("report cache invalidation failed")
		return err
	}
	countJob(p.Topic, "success")
	log.Info().Int("keys_removed", removed).Msg("report cache invalidated")
	return nil
}

// Register attaches the handler to an asynq mux.
func (h *Handler) Register(mux *asynq.ServeMux) {
	mux.Handle(TypeEventDispatch, h)
}

func (h *Handler) lockTTL() time.Duration {
	if h.LockTTL > 0 {
		return h.LockTTL
	}
	return 30 * time.Second
}

func (h *Handler) logger() *zerolog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	nop := zerolog.Nop()
	return &nop
}

func countJob(topic, result string) {
	if obs.EventJobsTotal == nil {
		return
	}
	obs.EventJobsTotal.WithLabelValues(topic, result).Inc()
}
