package quota

import (
	"testing"
	"time"
)

func TestBudgetState_Remaining(t *testing.T) {
	tests := []struct {
		name string
		used int
		want int
	}{
		{"fresh window", 0, 1000},
		{"partially spent", 400, 600},
		{"exactly spent", 1000, 0},
		{"overspent clamps to zero", 1200, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &BudgetState{Used: tt.used, Limit: 1000}
			if got := s.Remaining(); got != tt.want {
				t.Errorf("Remaining() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBudgetState_Exhausted(t *testing.T) {
	s := &BudgetState{Used: 999, Limit: 1000}
	if s.Exhausted() {
		t.Error("budget with remaining requests should not be exhausted")
	}

	s.Used = 1000
	if !s.Exhausted() {
		t.Error("spent budget should be exhausted")
	}
}

func TestBudgetState_NeedsThrottling(t *testing.T) {
	tests := []struct {
		name string
		used int
		want bool
	}{
		{"healthy", 100, false},
		{"at throttle boundary", 900, false}, // remaining == 10% is not below
		{"inside throttle band", 950, true},
		{"exhausted is blocked not throttled", 1000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &BudgetState{Used: tt.used, Limit: 1000}
			if got := s.NeedsThrottling(); got != tt.want {
				t.Errorf("NeedsThrottling() with used=%d = %v, want %v", tt.used, got, tt.want)
			}
		})
	}
}

func TestBudgetState_TimeUntilReset(t *testing.T) {
	s := &BudgetState{ResetAt: time.Now().Add(30 * time.Minute)}
	d := s.TimeUntilReset()
	if d <= 29*time.Minute || d > 30*time.Minute {
		t.Errorf("TimeUntilReset() = %v, want ~30m", d)
	}

	s.ResetAt = time.Now().Add(-time.Minute)
	if s.TimeUntilReset() != 0 {
		t.Error("TimeUntilReset() should clamp to 0 for a passed reset")
	}
}
