package quota

import (
	"context"
	"errors"
	"time"

	"github.com/ottoverify/otto/internal/model"
	"go.uber.org/zap"
)

// Gatekeeper decides admission before a verification runs and records
// usage after it. It knows nothing about pipeline internals; the only
// state it touches is the account's quota record.
type Gatekeeper struct {
	store  Store
	clock  func() time.Time
	logger *zap.Logger
}

// NewGatekeeper creates a gatekeeper over a store
func NewGatekeeper(store Store, logger *zap.Logger) *Gatekeeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gatekeeper{
		store:  store,
		clock:  time.Now,
		logger: logger,
	}
}

// WithClock overrides the time source, for tests
func (g *Gatekeeper) WithClock(clock func() time.Time) *Gatekeeper {
	g.clock = clock
	return g
}

// Admit reserves one verification slot for the account; an exhausted
// agent-analyses budget also refuses. Unknown accounts are registered
// on the free plan first. Refusal is a normal outcome, not an error;
// the snapshot always reflects current usage.
func (g *Gatekeeper) Admit(ctx context.Context, accountID string) (model.QuotaSnapshot, bool, error) {
	today := model.UTCDate(g.clock())

	record, admitted, err := g.store.Admit(ctx, accountID, today)
	if errors.Is(err, ErrAccountNotFound) {
		if err := g.store.Create(ctx, accountID, model.PlanFree, today); err != nil {
			return model.QuotaSnapshot{}, false, err
		}
		record, admitted, err = g.store.Admit(ctx, accountID, today)
	}
	if err != nil {
		return model.QuotaSnapshot{}, false, err
	}

	if !admitted {
		g.logger.Info("verification refused by quota",
			zap.String("account", accountID),
			zap.String("plan", string(record.Plan)),
			zap.Int("used", record.DailyVerificationsUsed))
	}
	return record.Snapshot(), admitted, nil
}

// RecordAgentAnalyses adds the per-run agent count after an admitted
// run completes. Failures are logged, not propagated; the response is
// already computed at this point.
func (g *Gatekeeper) RecordAgentAnalyses(ctx context.Context, accountID string, n int) {
	if n <= 0 {
		return
	}
	today := model.UTCDate(g.clock())
	if err := g.store.RecordAgentAnalyses(ctx, accountID, n, today); err != nil {
		g.logger.Warn("failed to record agent analyses",
			zap.String("account", accountID),
			zap.Error(err))
	}
}

// Snapshot returns the account's current quota view. Stale counters
// read as zero without writing the reset back.
func (g *Gatekeeper) Snapshot(ctx context.Context, accountID string) (model.QuotaSnapshot, error) {
	record, err := g.store.Get(ctx, accountID)
	if err != nil {
		return model.QuotaSnapshot{}, err
	}

	if record.LastResetDate.Before(model.UTCDate(g.clock())) {
		record.DailyVerificationsUsed = 0
		record.DailyAgentAnalysesUsed = 0
	}
	return record.Snapshot(), nil
}
