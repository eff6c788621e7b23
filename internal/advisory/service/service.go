package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tidwall/gjson"

	"discountgate/internal/advisory"
	"discountgate/internal/advisory/metrics"
	"discountgate/internal/policy/store"
	"discountgate/internal/signal"
	signalservice "discountgate/internal/signal/service"
	"discountgate/pkg/platform/sentinel"
)

// Signals abstracts the signal service so the advisory path is testable
// without real detection.
type Signals interface {
	Detect(ctx context.Context, snapshot signal.PageSnapshot) signalservice.Detection
}

// Service computes advisory plans from page snapshots. Every failure on this
// path degrades toward "no restriction": the advisory layer must never scare
// a visitor on bad evidence.
type Service struct {
	signals  Signals
	policies store.Store
	planner  *advisory.Planner
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs the advisory service.
func New(signals Signals, policies store.Store, planner *advisory.Planner, opts ...Option) *Service {
	s := &Service{
		signals:  signals,
		policies: policies,
		planner:  planner,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Plan runs detection and recomputes the advisory plan from scratch.
func (s *Service) Plan(ctx context.Context, snapshot signal.PageSnapshot) advisory.Plan {
	det := s.signals.Detect(ctx, snapshot)

	var rec *store.Record
	loaded, err := s.policies.Get(ctx, snapshot.StoreID)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
	case err != nil:
		s.logger.WarnContext(ctx, "policy load failed on advisory path",
			"store_id", snapshot.StoreID,
			"error", err,
		)
	default:
		rec = loaded
	}

	plan := s.planner.Build(advisory.PlanInput{
		Snapshot:   snapshot,
		TotalMinor: det.TotalMinor,
		Subscriber: det.Subscriber,
		Policy:     rec,
		Currency:   snapshotCurrency(snapshot),
	})

	if s.metrics != nil {
		s.metrics.ObservePlan(string(plan.State))
	}
	return plan
}

// snapshotCurrency pulls the display currency out of the checkout object when
// present. Missing currency just drops the code from warning text.
func snapshotCurrency(snapshot signal.PageSnapshot) string {
	if snapshot.CheckoutJSON == "" {
		return ""
	}
	for _, path := range []string{"currency", "checkout.currency", "presentment_currency"} {
		if res := gjson.Get(snapshot.CheckoutJSON, path); res.Type == gjson.String && res.Str != "" {
			return res.Str
		}
	}
	return ""
}
