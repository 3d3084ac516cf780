package recorder

import (
	"context"
	"time"

	"github.com/oyvinddd/officesports-sub001/internal/ledger"
)

// Recorder validates and commits match submissions. Validation happens in a
// fixed order (sport, participants, recording policy, player existence) so a
// submission with several problems always reports the same one.
type Recorder interface {
	RecordMatch(ctx context.Context, sub *Submission, now time.Time) (*ledger.Match, *ledger.MatchOutcome, error)
}
