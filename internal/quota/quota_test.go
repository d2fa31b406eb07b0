package quota

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ottoverify/otto/internal/model"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAdmit_FreePlanThreeThenRefuse(t *testing.T) {
	store := NewMemoryStore()
	gate := NewGatekeeper(store, nil).WithClock(fixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)))

	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		snap, admitted, err := gate.Admit(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("Call %d: unexpected error: %v", i, err)
		}
		if !admitted {
			t.Fatalf("Call %d: expected admission", i)
		}
		if snap.VerificationsUsed != i {
			t.Errorf("Call %d: expected usage %d, got %d", i, i, snap.VerificationsUsed)
		}
	}

	snap, admitted, err := gate.Admit(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("Fourth call: unexpected error: %v", err)
	}
	if admitted {
		t.Fatal("Fourth call: expected refusal on the free plan")
	}
	if snap.RemainingVerifications != 0 {
		t.Errorf("Expected 0 remaining verifications, got %d", snap.RemainingVerifications)
	}
	if snap.VerificationsUsed != 3 {
		t.Errorf("Refusal must not increment: expected usage 3, got %d", snap.VerificationsUsed)
	}
}

func TestAdmit_ResetsOncePerUTCDay(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2025, 6, 1, 23, 50, 0, 0, time.UTC)
	gate := NewGatekeeper(store, nil).WithClock(func() time.Time { return now })

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, admitted, _ := gate.Admit(ctx, "bob@example.com"); !admitted {
			t.Fatalf("Call %d before midnight: expected admission", i+1)
		}
	}
	if _, admitted, _ := gate.Admit(ctx, "bob@example.com"); admitted {
		t.Fatal("Expected refusal at the daily limit")
	}

	// Past UTC midnight the counters reset exactly once
	now = time.Date(2025, 6, 2, 0, 10, 0, 0, time.UTC)
	snap, admitted, err := gate.Admit(ctx, "bob@example.com")
	if err != nil {
		t.Fatalf("Unexpected error after midnight: %v", err)
	}
	if !admitted {
		t.Fatal("Expected admission after the UTC day rolled over")
	}
	if snap.VerificationsUsed != 1 {
		t.Errorf("Expected usage 1 after reset, got %d", snap.VerificationsUsed)
	}

	// A second same-day call must not reset again
	snap, _, _ = gate.Admit(ctx, "bob@example.com")
	if snap.VerificationsUsed != 2 {
		t.Errorf("Expected usage 2 on the second same-day call, got %d", snap.VerificationsUsed)
	}
}

func TestAdmit_UnlimitedNeverRefuses(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	day := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	if err := store.Create(ctx, "corp@example.com", model.PlanEnterprise, day); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	gate := NewGatekeeper(store, nil).WithClock(fixedClock(day))

	for i := 0; i < 500; i++ {
		if _, admitted, err := gate.Admit(ctx, "corp@example.com"); err != nil || !admitted {
			t.Fatalf("Call %d: expected unconditional admission, admitted=%v err=%v", i+1, admitted, err)
		}
	}
}

func TestCreate_StampsGivenDay(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	day := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)
	if err := store.Create(ctx, "fred@example.com", model.PlanFree, day); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	record, err := store.Get(ctx, "fred@example.com")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if !record.LastResetDate.Equal(want) {
		t.Errorf("Expected reset date %v, got %v", want, record.LastResetDate)
	}
}

func TestAdmit_AutoCreatedAccountFollowsClock(t *testing.T) {
	// An account registered at admission time must carry the gatekeeper's
	// day, not the wall clock, or the next day's reset never fires
	store := NewMemoryStore()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	gate := NewGatekeeper(store, nil).WithClock(func() time.Time { return now })

	ctx := context.Background()
	if _, admitted, _ := gate.Admit(ctx, "grace@example.com"); !admitted {
		t.Fatal("Expected first admission")
	}

	record, err := store.Get(ctx, "grace@example.com")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !record.LastResetDate.Equal(model.UTCDate(now)) {
		t.Errorf("Expected auto-created record stamped %v, got %v",
			model.UTCDate(now), record.LastResetDate)
	}

	now = now.Add(24 * time.Hour)
	snap, admitted, err := gate.Admit(ctx, "grace@example.com")
	if err != nil || !admitted {
		t.Fatalf("Expected admission after rollover, admitted=%v err=%v", admitted, err)
	}
	if snap.VerificationsUsed != 1 {
		t.Errorf("Expected counters reset to 1 after rollover, got %d", snap.VerificationsUsed)
	}
}

func TestAdmit_UnknownAccountGetsFreePlan(t *testing.T) {
	gate := NewGatekeeper(NewMemoryStore(), nil)

	snap, admitted, err := gate.Admit(context.Background(), "new@example.com")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !admitted {
		t.Fatal("Expected first call for a new account to be admitted")
	}
	if snap.Plan != model.PlanFree {
		t.Errorf("Expected free plan for auto-created account, got %s", snap.Plan)
	}
}

func TestAdmit_ConcurrentRequestsNeverOverAdmit(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	day := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	if err := store.Create(ctx, "carol@example.com", model.PlanFree, day); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	gate := NewGatekeeper(store, nil).WithClock(fixedClock(day))

	var wg sync.WaitGroup
	var mu sync.Mutex
	admittedCount := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, admitted, _ := gate.Admit(ctx, "carol@example.com"); admitted {
				mu.Lock()
				admittedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if admittedCount != 3 {
		t.Errorf("Expected exactly 3 of 20 concurrent requests admitted, got %d", admittedCount)
	}
}

func TestRecordAgentAnalyses(t *testing.T) {
	store := NewMemoryStore()
	gate := NewGatekeeper(store, nil).WithClock(fixedClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)))

	ctx := context.Background()
	if _, admitted, _ := gate.Admit(ctx, "dave@example.com"); !admitted {
		t.Fatal("Expected admission")
	}
	gate.RecordAgentAnalyses(ctx, "dave@example.com", 4)

	snap, err := gate.Snapshot(ctx, "dave@example.com")
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if snap.AgentAnalysesUsed != 4 {
		t.Errorf("Expected 4 agent analyses recorded, got %d", snap.AgentAnalysesUsed)
	}
}

func TestAdmit_ExhaustedAgentAnalysesRefuses(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	gate := NewGatekeeper(store, nil).WithClock(func() time.Time { return now })

	ctx := context.Background()
	if _, admitted, _ := gate.Admit(ctx, "erin@example.com"); !admitted {
		t.Fatal("Expected first admission")
	}
	// One run burned the whole free-plan agent budget
	gate.RecordAgentAnalyses(ctx, "erin@example.com", 12)

	snap, admitted, err := gate.Admit(ctx, "erin@example.com")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if admitted {
		t.Fatal("Expected refusal with the agent-analyses budget exhausted")
	}
	if snap.VerificationsUsed != 1 {
		t.Errorf("Refusal must not consume a verification slot, usage %d", snap.VerificationsUsed)
	}

	// Fresh budgets after the UTC day rolls over
	now = now.Add(24 * time.Hour)
	if _, admitted, _ := gate.Admit(ctx, "erin@example.com"); !admitted {
		t.Error("Expected admission after the daily reset")
	}
}

func TestSnapshot_StaleCountersReadAsZero(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	gate := NewGatekeeper(store, nil).WithClock(func() time.Time { return now })

	ctx := context.Background()
	gate.Admit(ctx, "erin@example.com")
	gate.Admit(ctx, "erin@example.com")

	now = now.Add(24 * time.Hour)
	snap, err := gate.Snapshot(ctx, "erin@example.com")
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if snap.VerificationsUsed != 0 {
		t.Errorf("Expected stale counters to read as zero, got %d", snap.VerificationsUsed)
	}
	if snap.RemainingVerifications != 3 {
		t.Errorf("Expected full allowance after rollover, got %d", snap.RemainingVerifications)
	}
}

func TestSnapshot_UnknownAccount(t *testing.T) {
	gate := NewGatekeeper(NewMemoryStore(), nil)

	if _, err := gate.Snapshot(context.Background(), "ghost@example.com"); err != ErrAccountNotFound {
		t.Errorf("Expected ErrAccountNotFound, got %v", err)
	}
}

func TestPlanTable(t *testing.T) {
	cases := []struct {
		plan          model.Plan
		verifications int
		analyses      int
	}{
		{model.PlanFree, 3, 12},
		{model.PlanStarter, 25, 100},
		{model.PlanPro, 200, 800},
		{model.PlanEnterprise, model.Unlimited, model.Unlimited},
	}
	for _, tc := range cases {
		limits := model.LimitsFor(tc.plan)
		if limits.DailyVerifications != tc.verifications {
			t.Errorf("%s: expected %d daily verifications, got %d", tc.plan, tc.verifications, limits.DailyVerifications)
		}
		if limits.DailyAgentAnalyses != tc.analyses {
			t.Errorf("%s: expected %d daily analyses, got %d", tc.plan, tc.analyses, limits.DailyAgentAnalyses)
		}
	}
}
