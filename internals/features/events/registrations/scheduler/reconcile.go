package scheduler

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"volunteerhub_backend/internals/features/events/registrations/service"
)

// Reconciler is the part of the ledger the job needs.
type Reconciler interface {
	Reconcile(ctx context.Context) ([]service.Drift, error)
}

// StartReconcileScheduler runs the present-count reconciliation on schedule.
// A run still in progress makes the next tick skip. Stop the returned cron on shutdown.
func StartReconcileScheduler(r Reconciler, schedule string, timeout time.Duration) (*cron.Cron, error) {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	logger := cron.VerbosePrintfLogger(log.StandardLogger())
	c := cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)))

	if _, err := c.AddFunc(schedule, func() { RunOnce(r, timeout) }); err != nil {
		return nil, errors.Wrapf(err, "reconcile schedule %q", schedule)
	}
	c.Start()
	log.WithField("schedule", schedule).Info("[RECONCILE] scheduler started")
	return c, nil
}

// RunOnce executes a single reconciliation pass and logs the outcome.
func RunOnce(r Reconciler, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	drifts, err := r.Reconcile(ctx)
	fixed := 0
	for _, d := range drifts {
		if d.Fixed {
			fixed++
		}
	}
	entry := log.WithFields(log.Fields{"drifted": len(drifts), "fixed": fixed, "dur": time.Since(start).String()})
	if err != nil {
		entry.WithError(err).Error("[RECONCILE] run failed")
		return
	}
	if fixed > 0 {
		entry.Warn("[RECONCILE] present counts repaired")
	}
	for _, d := range drifts {
		if !d.Fixed {
			log.WithFields(log.Fields{"event_id": d.EventID, "stored": d.Stored, "live": d.Live}).
				Error("[RECONCILE] drift left unrepaired")
		}
	}
	if len(drifts) == 0 {
		entry.Debug("[RECONCILE] no drift")
	}
}
