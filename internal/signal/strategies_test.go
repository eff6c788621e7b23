package signal

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDetector(t *testing.T) *TotalDetector {
	t.Helper()
	return NewTotalDetector(DefaultStrategyConfig(), slog.Default())
}

func TestDetectOrderTotal_SingleStrategyFixtures(t *testing.T) {
	// Each fixture exposes the total through exactly one strategy.
	tests := []struct {
		name         string
		snapshot     PageSnapshot
		wantMinor    int64
		wantStrategy string
	}{
		{
			name: "structured string total",
			snapshot: PageSnapshot{
				CheckoutJSON: `{"total_price":"1299.99","currency":"USD"}`,
			},
			wantMinor:    129999,
			wantStrategy: "structured",
		},
		{
			name: "structured nested total",
			snapshot: PageSnapshot{
				CheckoutJSON: `{"checkout":{"total_price":"450.00"}}`,
			},
			wantMinor:    45000,
			wantStrategy: "structured",
		},
		{
			name: "structured numeric total",
			snapshot: PageSnapshot{
				CheckoutJSON: `{"payment_due":89.90}`,
			},
			wantMinor:    8990,
			wantStrategy: "structured",
		},
		{
			name: "selector text with currency prefix",
			snapshot: PageSnapshot{
				SelectorText: map[string]string{
					".payment-due__price": "Total: $1,299.99 USD",
				},
			},
			wantMinor:    129999,
			wantStrategy: "selector",
		},
		{
			name: "query parameter",
			snapshot: PageSnapshot{
				QueryParams: map[string]string{"cart_total": "75.50"},
			},
			wantMinor:    7550,
			wantStrategy: "query",
		},
		{
			name: "meta tag",
			snapshot: PageSnapshot{
				MetaTags: map[string]string{"checkout-total": "320.00"},
			},
			wantMinor:    32000,
			wantStrategy: "meta",
		},
	}

	detector := newDetector(t)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			minor, strategy := detector.DetectOrderTotal(tc.snapshot)
			assert.Equal(t, tc.wantMinor, minor)
			assert.Equal(t, tc.wantStrategy, strategy)
		})
	}
}

func TestDetectOrderTotal_PriorityOrder(t *testing.T) {
	// When several strategies could answer, the structured total wins.
	snapshot := PageSnapshot{
		CheckoutJSON: `{"total_price":"100.00"}`,
		SelectorText: map[string]string{".cart__total": "$999.99"},
		QueryParams:  map[string]string{"cart_total": "500.00"},
	}

	minor, strategy := newDetector(t).DetectOrderTotal(snapshot)
	assert.Equal(t, int64(10000), minor)
	assert.Equal(t, "structured", strategy)
}

func TestDetectOrderTotal_MalformedDataFallsThrough(t *testing.T) {
	// Broken JSON and garbage text fall through to the next strategy.
	snapshot := PageSnapshot{
		CheckoutJSON: `{"total_price": not json`,
		SelectorText: map[string]string{".payment-due__price": "no numbers here"},
		QueryParams:  map[string]string{"cart_total": "12.34"},
	}

	minor, strategy := newDetector(t).DetectOrderTotal(snapshot)
	assert.Equal(t, int64(1234), minor)
	assert.Equal(t, "query", strategy)
}

func TestDetectOrderTotal_ZeroAndNegativeIgnored(t *testing.T) {
	snapshot := PageSnapshot{
		CheckoutJSON: `{"total_price":"0.00"}`,
		QueryParams:  map[string]string{"cart_total": "42.00"},
	}

	minor, strategy := newDetector(t).DetectOrderTotal(snapshot)
	assert.Equal(t, int64(4200), minor)
	assert.Equal(t, "query", strategy)
}

func TestDetectOrderTotal_AllStrategiesFail(t *testing.T) {
	minor, strategy := newDetector(t).DetectOrderTotal(PageSnapshot{})
	assert.Equal(t, int64(0), minor)
	assert.Empty(t, strategy)
}

func TestDetectOrderTotal_Deterministic(t *testing.T) {
	snapshot := PageSnapshot{
		CheckoutJSON: `{"checkout":{"total_price":"1234.56"}}`,
		SelectorText: map[string]string{".cart__total": "$99.00"},
	}

	detector := newDetector(t)
	first, firstStrategy := detector.DetectOrderTotal(snapshot)
	for range 10 {
		minor, strategy := detector.DetectOrderTotal(snapshot)
		require.Equal(t, first, minor)
		require.Equal(t, firstStrategy, strategy)
	}
}
