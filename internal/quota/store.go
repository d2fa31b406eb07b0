package quota

import (
	"context"
	"errors"
	"time"

	"github.com/ottoverify/otto/internal/model"
)

// ErrAccountNotFound is returned when no quota record exists for an account
var ErrAccountNotFound = errors.New("quota: account not found")

// Store persists per-account daily usage records. Admit must serialize
// the reset-compare-increment sequence per account; two concurrent
// requests racing the last slot must not both be admitted.
type Store interface {
	// Get returns the stored record without modifying it
	Get(ctx context.Context, accountID string) (model.UsageQuota, error)

	// Create inserts a zeroed record for a new account, stamped with the
	// given UTC day. Creating an existing account is a no-op.
	Create(ctx context.Context, accountID string, plan model.Plan, today time.Time) error

	// Admit atomically resets stale counters to the given UTC day,
	// checks the verification limit and increments on success. The
	// returned record reflects the state after the call; admitted is
	// false when the limit refused the request.
	Admit(ctx context.Context, accountID string, today time.Time) (model.UsageQuota, bool, error)

	// RecordAgentAnalyses adds n to the agent-analysis counter after an
	// admitted run completes
	RecordAgentAnalyses(ctx context.Context, accountID string, n int, today time.Time) error
}
