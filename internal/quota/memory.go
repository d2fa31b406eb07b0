package quota

import (
	"context"
	"sync"
	"time"

	"github.com/ottoverify/otto/internal/model"
)

// MemoryStore keeps quota records in process memory. Used by the CLI
// and in tests; one mutex serializes the admission sequence.
type MemoryStore struct {
	mu       sync.Mutex
	accounts map[string]*model.UsageQuota
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: make(map[string]*model.UsageQuota)}
}

func (s *MemoryStore) Get(ctx context.Context, accountID string) (model.UsageQuota, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.accounts[accountID]
	if !ok {
		return model.UsageQuota{}, ErrAccountNotFound
	}
	return *record, nil
}

func (s *MemoryStore) Create(ctx context.Context, accountID string, plan model.Plan, today time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[accountID]; ok {
		return nil
	}
	s.accounts[accountID] = &model.UsageQuota{
		AccountID:     accountID,
		Plan:          plan,
		LastResetDate: model.UTCDate(today),
	}
	return nil
}

func (s *MemoryStore) Admit(ctx context.Context, accountID string, today time.Time) (model.UsageQuota, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.accounts[accountID]
	if !ok {
		return model.UsageQuota{}, false, ErrAccountNotFound
	}

	resetIfStale(record, today)

	limits := model.LimitsFor(record.Plan)
	if limits.DailyVerifications != model.Unlimited &&
		record.DailyVerificationsUsed >= limits.DailyVerifications {
		return *record, false, nil
	}
	if limits.DailyAgentAnalyses != model.Unlimited &&
		record.DailyAgentAnalysesUsed >= limits.DailyAgentAnalyses {
		return *record, false, nil
	}

	record.DailyVerificationsUsed++
	return *record, true, nil
}

func (s *MemoryStore) RecordAgentAnalyses(ctx context.Context, accountID string, n int, today time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.accounts[accountID]
	if !ok {
		return ErrAccountNotFound
	}

	resetIfStale(record, today)
	record.DailyAgentAnalysesUsed += n
	return nil
}

// resetIfStale zeroes the counters on the first touch after UTC
// midnight. Caller holds the lock.
func resetIfStale(record *model.UsageQuota, today time.Time) {
	if record.LastResetDate.Before(today) {
		record.DailyVerificationsUsed = 0
		record.DailyAgentAnalysesUsed = 0
		record.LastResetDate = today
	}
}
