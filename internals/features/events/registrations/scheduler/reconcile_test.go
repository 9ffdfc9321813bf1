package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volunteerhub_backend/internals/features/events/registrations/service"
)

type fakeReconciler struct {
	calls  int32
	err    error
	drifts []service.Drift
}

func (f *fakeReconciler) Reconcile(ctx context.Context) ([]service.Drift, error) {
	atomic.AddInt32(&f.calls, 1)
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("reconcile called without a deadline")
	}
	if f.drifts != nil {
		return f.drifts, f.err
	}
	return []service.Drift{{EventID: uuid.New(), Stored: 3, Live: 2, Fixed: true}}, f.err
}

func messages(hook *logtest.Hook, level log.Level) []string {
	var out []string
	for _, e := range hook.AllEntries() {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

func TestRunOnce(t *testing.T) {
	f := &fakeReconciler{}
	RunOnce(f, time.Second)
	assert.EqualValues(t, 1, atomic.LoadInt32(&f.calls))

	f.err = errors.New("db down")
	RunOnce(f, time.Second) // logs, never panics
	assert.EqualValues(t, 2, atomic.LoadInt32(&f.calls))
}

func TestRunOnceReportsUnrepairedDrift(t *testing.T) {
	hook := logtest.NewGlobal()
	defer log.StandardLogger().ReplaceHooks(make(log.LevelHooks))

	stuck := uuid.New()
	f := &fakeReconciler{drifts: []service.Drift{{EventID: stuck, Stored: 5, Live: 4, Fixed: false}}}
	RunOnce(f, time.Second)

	assert.NotContains(t, messages(hook, log.WarnLevel), "[RECONCILE] present counts repaired")
	require.Equal(t, []string{"[RECONCILE] drift left unrepaired"}, messages(hook, log.ErrorLevel))
	assert.Equal(t, stuck, hook.LastEntry().Data["event_id"])

	hook.Reset()
	f.drifts = []service.Drift{
		{EventID: uuid.New(), Stored: 2, Live: 1, Fixed: true},
		{EventID: uuid.New(), Stored: 7, Live: 6, Fixed: false},
	}
	RunOnce(f, time.Second)

	warns := messages(hook, log.WarnLevel)
	require.Len(t, warns, 1)
	assert.Equal(t, "[RECONCILE] present counts repaired", warns[0])
	assert.Len(t, messages(hook, log.ErrorLevel), 1)
	for _, e := range hook.AllEntries() {
		if e.Message == "[RECONCILE] present counts repaired" {
			assert.Equal(t, 1, e.Data["fixed"])
			assert.Equal(t, 2, e.Data["drifted"])
		}
	}
}

func TestStartReconcileScheduler(t *testing.T) {
	f := &fakeReconciler{}
	c, err := StartReconcileScheduler(f, "@every 1s", time.Second)
	require.NoError(t, err)
	defer c.Stop()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&f.calls) > 0 }, 5*time.Second, 50*time.Millisecond)
}

func TestStartReconcileSchedulerBadSpec(t *testing.T) {
	_, err := StartReconcileScheduler(&fakeReconciler{}, "every now and then", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "every now and then")
}
