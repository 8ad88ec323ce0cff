package pagination

import (
	"context"
	"testing"
	"time"

	"github.com/kitchenfinder/places-client/pkg/cache"
)

func TestEstimator_RecordFirstPage(t *testing.T) {
	tests := []struct {
		name        string
		resultCount int
		pageSize    int
		hasNextPage bool
		want        int
	}{
		{
			name:        "full page with next token",
			resultCount: 20,
			pageSize:    20,
			hasNextPage: true,
			want:        40,
		},
		{
			name:        "partial page without next token",
			resultCount: 7,
			pageSize:    20,
			hasNextPage: false,
			want:        7,
		},
		{
			name:        "empty first page",
			resultCount: 0,
			pageSize:    20,
			hasNextPage: false,
			want:        0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := cache.NewMemoryStore(nil)
			est := NewEstimator(store, time.Hour)
			ctx := context.Background()

			got := est.RecordFirstPage(ctx, "kitchen rental", tt.resultCount, tt.pageSize, tt.hasNextPage)
			if got != tt.want {
				t.Errorf("RecordFirstPage() = %d, want %d", got, tt.want)
			}

			cached, ok := est.Cached(ctx, "kitchen rental")
			if !ok {
				t.Fatal("estimate not stored")
			}
			if cached != tt.want {
				t.Errorf("Cached() = %d, want %d", cached, tt.want)
			}
		})
	}
}

func TestEstimator_EstimateReadsCache(t *testing.T) {
	store := cache.NewMemoryStore(nil)
	est := NewEstimator(store, time.Hour)
	ctx := context.Background()

	est.RecordFirstPage(ctx, "Kitchen Rental", 20, 20, true)

	// Variant spelling hits the same normalized key
	if got := est.Estimate(ctx, " kitchen  rental ", 3, 20); got != 40 {
		t.Errorf("Estimate() = %d, want cached 40", got)
	}
}

func TestEstimator_FallbackFormula(t *testing.T) {
	store := cache.NewMemoryStore(nil)
	est := NewEstimator(store, time.Hour)

	if got := est.Estimate(context.Background(), "never seen", 4, 20); got != 80 {
		t.Errorf("Estimate() = %d, want page*pageSize = 80", got)
	}
}

func TestEstimator_MalformedValueFallsBack(t *testing.T) {
	store := cache.NewMemoryStore(nil)
	est := NewEstimator(store, time.Hour)
	ctx := context.Background()

	store.Set(ctx, cache.EstimateKey("kitchen rental"), "not-a-number", time.Hour)

	if _, ok := est.Cached(ctx, "kitchen rental"); ok {
		t.Error("malformed value should not parse as cached estimate")
	}
	if got := est.Estimate(ctx, "kitchen rental", 2, 20); got != 40 {
		t.Errorf("Estimate() = %d, want fallback 40", got)
	}
}
