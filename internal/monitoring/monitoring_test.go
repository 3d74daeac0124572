package monitoring_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/geocurator/internal/database/testutil"
	"github.com/charlesng35/geocurator/internal/monitoring"
	"github.com/charlesng35/geocurator/internal/monitoring/checks"
)

func TestHealthManagerEvaluate(t *testing.T) {
	t.Parallel()

	manager := monitoring.NewHealthManager()
	manager.RegisterReadiness(monitoring.NewCheck("database", func(ctx context.Context) monitoring.ProbeResult {
		return monitoring.ProbeResult{Status: monitoring.StatusUp}
	}))
	manager.RegisterReadiness(monitoring.NewCheck("eutils", func(ctx context.Context) monitoring.ProbeResult {
		return monitoring.ProbeResult{Status: monitoring.StatusDown, Details: "connection refused"}
	}))
	manager.RegisterReadiness(monitoring.NewCheck("", nil))

	report := manager.EvaluateReadiness(context.Background())
	require.False(t, report.Success)
	require.Equal(t, monitoring.StatusDown, report.Status)
	require.Len(t, report.Checks, 2)
	require.Equal(t, "eutils", report.Checks[1].Component)

	live := manager.EvaluateLiveness(context.Background())
	require.True(t, live.Success)
	require.Empty(t, live.Checks)
}

func TestHealthManagerRecoversPanickingProbe(t *testing.T) {
	t.Parallel()

	manager := monitoring.NewHealthManager()
	manager.RegisterLiveness(monitoring.NewCheck("boom", func(context.Context) monitoring.ProbeResult {
		panic("exploded")
	}))

	report := manager.EvaluateLiveness(context.Background())
	require.Equal(t, monitoring.StatusDown, report.Status)
	require.Equal(t, "exploded", report.Checks[0].Details)
	require.Equal(t, "boom", report.Checks[0].Component)
}

func TestResultFromError(t *testing.T) {
	t.Parallel()

	require.Equal(t, monitoring.StatusUp, monitoring.ResultFromError("x", nil, time.Second).Status)
	require.Equal(t, monitoring.StatusDegraded, monitoring.ResultFromError("x", context.DeadlineExceeded, 0).Status)
	require.Equal(t, monitoring.StatusDown, monitoring.ResultFromError("x", errors.New("nope"), 0).Status)
}

func TestDatabaseCheck(t *testing.T) {
	t.Parallel()

	db := testutil.MustOpenTestDB(t)
	result := checks.Database(db, time.Second).Run(context.Background())
	require.Equal(t, monitoring.StatusUp, result.Status)

	result = checks.Database(nil, 0).Run(context.Background())
	require.Equal(t, monitoring.StatusDown, result.Status)
}

type fakeSweeper struct {
	at  time.Time
	err error
}

func (f fakeSweeper) LastRun() (time.Time, error) { return f.at, f.err }

func TestSweeperCheck(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	cases := []struct {
		name     string
		observer checks.SweepObserver
		want     monitoring.ProbeStatus
	}{
		{"never ran", fakeSweeper{}, monitoring.StatusUp},
		{"recent", fakeSweeper{at: now.Add(-time.Minute)}, monitoring.StatusUp},
		{"stale", fakeSweeper{at: now.Add(-time.Hour)}, monitoring.StatusDegraded},
		{"failed", fakeSweeper{at: now, err: errors.New("db locked")}, monitoring.StatusDegraded},
		{"missing", nil, monitoring.StatusDegraded},
	}
	for _, tc := range cases {
		result := checks.Sweeper(tc.observer, 10*time.Minute, clock).Run(context.Background())
		require.Equal(t, tc.want, result.Status, tc.name)
	}
}
