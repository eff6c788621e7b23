package service

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"discountgate/internal/bridge"
	"discountgate/internal/policy/store"
	"discountgate/internal/signal"
	"discountgate/internal/signal/metrics"
	"discountgate/pkg/platform/sentinel"
	"discountgate/pkg/requestcontext"
)

// Detection is the combined signal read for one snapshot.
type Detection struct {
	TotalMinor         int64
	TotalStrategy      string
	Subscriber         bool
	SubscriptionSource string
}

// Service gathers the two page signals and maintains the shared validation
// context as a side effect of positive subscription detection.
type Service struct {
	totals        *signal.TotalDetector
	subscriptions *signal.SubscriptionDetector
	bridge        *bridge.Bridge
	policies      store.Store
	metrics       *metrics.Metrics
	logger        *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs the signal service. The policy store supplies the threshold
// and code written into the shared validation context.
func New(totals *signal.TotalDetector, subscriptions *signal.SubscriptionDetector, b *bridge.Bridge, policies store.Store, opts ...Option) *Service {
	s := &Service{
		totals:        totals,
		subscriptions: subscriptions,
		bridge:        b,
		policies:      policies,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Detect runs total and subscription detection concurrently. Neither signal
// can fail the call: detection always produces a usable Detection, possibly
// an empty one.
func (s *Service) Detect(ctx context.Context, snapshot signal.PageSnapshot) Detection {
	var det Detection

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		det.TotalMinor, det.TotalStrategy = s.totals.DetectOrderTotal(snapshot)
		return nil
	})
	g.Go(func() error {
		det.Subscriber, det.SubscriptionSource = s.subscriptions.Detect(gctx, snapshot.StoreID)
		return nil
	})
	_ = g.Wait()

	if s.metrics != nil {
		s.metrics.ObserveTotalDetection(det.TotalStrategy)
		s.metrics.ObserveSubscriptionDetection(det.SubscriptionSource)
	}

	if det.Subscriber {
		s.shareValidationContext(ctx, snapshot.StoreID)
	}

	return det
}

// shareValidationContext writes the denormalized context blob the first time
// a session turns up a positive subscription signal, so sibling pages skip
// re-detection. Failures are diagnostic only.
func (s *Service) shareValidationContext(ctx context.Context, storeID string) {
	if s.bridge.CartValidationSessionFlag(ctx, storeID) {
		return
	}

	rec, err := s.policies.Get(ctx, storeID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return
	}
	if err != nil {
		s.logger.WarnContext(ctx, "policy load for validation context failed",
			"store_id", storeID,
			"error", err,
		)
		return
	}
	if len(rec.RestrictedCodes) == 0 {
		return
	}

	vc := bridge.ValidationContext{
		Enabled:        true,
		ValidationType: bridge.ValidationTypeOrderAmount,
		MaximumAmount:  rec.MaxEligibleAmount,
		DiscountCode:   rec.RestrictedCodes[0],
		SubscribedAt:   requestcontext.Now(ctx),
	}
	if sub, ok := s.bridge.Subscription(ctx, storeID); ok {
		vc.SubscribedAt = sub.SubscribedAt
	}

	if err := s.bridge.WriteValidationContext(ctx, storeID, vc); err != nil {
		s.logger.WarnContext(ctx, "validation context write failed",
			"store_id", storeID,
			"error", err,
		)
		return
	}
	if err := s.bridge.SetCartValidationSessionFlag(ctx, storeID); err != nil {
		s.logger.WarnContext(ctx, "cart validation flag write failed",
			"store_id", storeID,
			"error", err,
		)
	}
}
