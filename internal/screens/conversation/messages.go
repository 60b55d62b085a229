package conversation

import (
	"time"

	"github.com/arjunr/regchat/internal/dispatch"
)

// historyLoadedMsg carries the one-shot history fetch result.
type historyLoadedMsg dispatch.HistoryResult

// queryDoneMsg carries a finished query round-trip.
type queryDoneMsg dispatch.Result

// typingTickMsg advances the typing placeholder animation.
type typingTickMsg time.Time

// sessionResetMsg carries the outcome of a session rotation.
type sessionResetMsg struct {
	ID  string
	Err error
}
