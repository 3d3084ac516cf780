package season

import (
	"context"
	"time"
)

// Coordinator runs the monthly season rollover. A run is idempotent for a
// given period: every (sport, team) group is finalized at most once, and a
// re-run only picks up groups that have no season record yet.
type Coordinator interface {
	Run(ctx context.Context, now time.Time, dryRun bool) (*Result, error)
}
