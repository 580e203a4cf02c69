package outcome

import (
	"testing"

	"github.com/shoplens/shoplens/internal/domain/query"
)

func TestLevelOf(t *testing.T) {
	tests := []struct {
		confidence float64
		want       Level
	}{
		{0.95, LevelHigh},
		{0.8, LevelHigh},
		{0.79999, LevelGood},
		{0.6, LevelGood},
		{0.59, LevelLow},
		{0.4, LevelLow},
		{0.39, LevelVeryLow},
		{0, LevelVeryLow},
	}

	for _, tt := range tests {
		if got := LevelOf(tt.confidence); got != tt.want {
			t.Errorf("LevelOf(%v) = %q, want %q", tt.confidence, got, tt.want)
		}
	}
}

func TestOutcome_BestConfidence_Empty(t *testing.T) {
	o := New(nil, "primary", query.FilterSet{}, 0, nil, false)
	if o.BestConfidence() != 0 {
		t.Errorf("BestConfidence() = %v, want 0 for empty outcome", o.BestConfidence())
	}
	if o.Level() != LevelVeryLow {
		t.Errorf("Level() = %q, want very_low for empty outcome", o.Level())
	}
}
