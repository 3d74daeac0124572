package checks

import (
	"context"
	"fmt"
	"time"

	"github.com/charlesng35/geocurator/internal/monitoring"
)

// SweepObserver reports the last idle-session sweep.
type SweepObserver interface {
	LastRun() (at time.Time, err error)
}

// Sweeper reports degraded when the last sweep failed or is older than maxAge.
// A sweeper that has not run yet is considered up.
func Sweeper(observer SweepObserver, maxAge time.Duration, now func() time.Time) monitoring.Check {
	if now == nil {
		now = time.Now
	}
	return monitoring.NewCheck("session_sweeper", func(context.Context) monitoring.ProbeResult {
		if observer == nil {
			return monitoring.ProbeResult{Status: monitoring.StatusDegraded, Details: "sweeper not running"}
		}
		at, err := observer.LastRun()
		switch {
		case err != nil:
			return monitoring.ProbeResult{Status: monitoring.StatusDegraded, Details: err.Error()}
		case at.IsZero():
			return monitoring.ProbeResult{Status: monitoring.StatusUp, Details: "no sweep yet"}
		case maxAge > 0 && now().Sub(at) > maxAge:
			return monitoring.ProbeResult{
				Status:  monitoring.StatusDegraded,
				Details: fmt.Sprintf("last sweep %s ago", now().Sub(at).Round(time.Second)),
			}
		}
		return monitoring.ProbeResult{Status: monitoring.StatusUp}
	})
}
