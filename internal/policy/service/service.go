package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"discountgate/internal/audit"
	"discountgate/internal/policy"
	"discountgate/internal/policy/metrics"
	"discountgate/internal/policy/store"
	dErrors "discountgate/pkg/domain-errors"
	"discountgate/pkg/platform/sentinel"
	"discountgate/pkg/requestcontext"
)

// Service wraps the pure evaluator with policy lookup, metrics, tracing, and
// audit. The rule chain itself stays in the policy package; everything with a
// side effect lives here.
type Service struct {
	policies store.Store
	audit    audit.Publisher
	metrics  *metrics.Metrics
	logger   *slog.Logger
	tracer   trace.Tracer

	// ruleCache memoizes compiled custom rules by source text so repeated
	// evaluations for the same store skip recompilation.
	ruleMu    sync.RWMutex
	ruleCache map[string]*policy.CustomRule
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(s *Service) { s.audit = publisher }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs the evaluation service.
func New(policies store.Store, opts ...Option) (*Service, error) {
	if policies == nil {
		return nil, fmt.Errorf("policy store is required")
	}
	s := &Service{
		policies:  policies,
		logger:    slog.Default(),
		tracer:    otel.Tracer("discountgate/policy"),
		ruleCache: make(map[string]*policy.CustomRule),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Evaluate resolves the store's policy and runs the rule chain. A store with
// no configured policy has no restriction: the decision is allow. Store
// failures surface as errors; they are never silently converted to a block.
func (s *Service) Evaluate(ctx context.Context, req policy.EvaluateRequest) (policy.Decision, error) {
	ctx, span := s.tracer.Start(ctx, "policy.evaluate",
		trace.WithAttributes(attribute.String("store_id", req.StoreID)),
	)
	defer span.End()

	start := time.Now()

	rec, err := s.policies.Get(ctx, req.StoreID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return policy.Decision{Allowed: true}, nil
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncrementPolicyLoadFailures()
		}
		return policy.Decision{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load discount policy")
	}

	pol := policy.DiscountPolicy{
		StoreID:           rec.StoreID,
		MaxEligibleAmount: rec.MaxEligibleAmount,
		RestrictedCodes:   rec.RestrictedCodes,
	}
	if rec.CustomRule != "" {
		rule, err := s.compiledRule(rec.CustomRule)
		if err != nil {
			// A broken rule cannot widen eligibility; evaluation proceeds on
			// the default chain.
			s.logger.WarnContext(ctx, "custom rule compilation failed",
				"store_id", req.StoreID,
				"error", err,
			)
		} else {
			pol.CustomRule = rule
		}
	}

	decision := policy.Evaluate(req.Cart, req.Customer, pol)

	span.SetAttributes(
		attribute.Bool("decision.allowed", decision.Allowed),
		attribute.Int64("decision.total_minor", decision.TotalMinor),
	)
	if s.metrics != nil {
		s.metrics.ObserveEvaluation(decision.Allowed, time.Since(start))
	}

	if !decision.Allowed && s.audit != nil {
		event := audit.Event{
			Kind:         audit.KindDecisionBlocked,
			StoreID:      req.StoreID,
			RequestID:    requestcontext.RequestID(ctx),
			DeviceClass:  requestcontext.DeviceClass(ctx),
			Timestamp:    requestcontext.Now(ctx),
			TotalMinor:   decision.TotalMinor,
			ExcessMinor:  decision.ExcessAmount,
			MatchedCodes: decision.MatchedCodes,
			Message:      decision.Message,
		}
		if err := s.audit.Emit(ctx, event); err != nil {
			// Audit is best-effort on the decision path.
			s.logger.ErrorContext(ctx, "audit emit failed",
				"store_id", req.StoreID,
				"error", err,
			)
		}
	}

	return decision, nil
}

// UpdatePolicy upserts a store's policy record after validating the custom
// rule compiles. Audit records the change.
func (s *Service) UpdatePolicy(ctx context.Context, rec *store.Record) error {
	if rec.StoreID == "" {
		return dErrors.New(dErrors.CodeValidation, "store_id is required")
	}
	if rec.MaxEligibleAmount < 0 {
		return dErrors.New(dErrors.CodeValidation, "max_eligible_amount cannot be negative")
	}
	if rec.CustomRule != "" {
		if _, err := policy.CompileCustomRule(rec.CustomRule); err != nil {
			return dErrors.Wrap(err, dErrors.CodeValidation, "custom_rule does not compile")
		}
	}
	if err := s.policies.Put(ctx, rec); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store discount policy")
	}
	if s.audit != nil {
		_ = s.audit.Emit(ctx, audit.Event{
			Kind:      audit.KindPolicyUpdated,
			StoreID:   rec.StoreID,
			RequestID: requestcontext.RequestID(ctx),
			Timestamp: requestcontext.Now(ctx),
		})
	}
	return nil
}

// Policy returns a store's policy record.
func (s *Service) Policy(ctx context.Context, storeID string) (*store.Record, error) {
	rec, err := s.policies.Get(ctx, storeID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "no policy configured for store")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load discount policy")
	}
	return rec, nil
}

func (s *Service) compiledRule(source string) (*policy.CustomRule, error) {
	s.ruleMu.RLock()
	rule, ok := s.ruleCache[source]
	s.ruleMu.RUnlock()
	if ok {
		return rule, nil
	}

	rule, err := policy.CompileCustomRule(source)
	if err != nil {
		return nil, err
	}

	s.ruleMu.Lock()
	s.ruleCache[source] = rule
	s.ruleMu.Unlock()
	return rule, nil
}
