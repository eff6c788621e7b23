package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discountgate/internal/advisory"
	"discountgate/internal/policy/store"
	"discountgate/internal/signal"
	signalservice "discountgate/internal/signal/service"
)

const testStore = "shop.example.com"

type stubSignals struct {
	detection signalservice.Detection
}

func (s stubSignals) Detect(ctx context.Context, snapshot signal.PageSnapshot) signalservice.Detection {
	return s.detection
}

type failingPolicies struct{}

func (failingPolicies) Get(context.Context, string) (*store.Record, error) {
	return nil, errors.New("boom")
}

func (failingPolicies) Put(context.Context, *store.Record) error {
	return errors.New("boom")
}

func newService(t *testing.T, det signalservice.Detection, policies store.Store) *Service {
	t.Helper()
	return New(stubSignals{detection: det}, policies, advisory.NewPlanner(signal.DefaultStrategyConfig()))
}

func TestPlan_RestrictionActive(t *testing.T) {
	policies := store.NewInMemory()
	require.NoError(t, policies.Put(context.Background(), &store.Record{
		StoreID:           testStore,
		MaxEligibleAmount: 100000,
		RestrictedCodes:   []string{"WELCOME50"},
	}))

	svc := newService(t, signalservice.Detection{TotalMinor: 120000, Subscriber: true}, policies)

	plan := svc.Plan(context.Background(), signal.PageSnapshot{
		StoreID:      testStore,
		CheckoutJSON: `{"currency":"USD"}`,
	})

	assert.Equal(t, advisory.StateRestrictionActive, plan.State)
	require.NotNil(t, plan.Banner)
	assert.Contains(t, plan.Banner.Message, "1200.00 USD")
}

func TestPlan_NonSubscriberHasNoRestriction(t *testing.T) {
	policies := store.NewInMemory()
	require.NoError(t, policies.Put(context.Background(), &store.Record{
		StoreID:           testStore,
		MaxEligibleAmount: 100000,
		RestrictedCodes:   []string{"WELCOME50"},
	}))

	svc := newService(t, signalservice.Detection{TotalMinor: 120000, Subscriber: false}, policies)

	plan := svc.Plan(context.Background(), signal.PageSnapshot{StoreID: testStore})
	assert.Equal(t, advisory.StateNoRestriction, plan.State)
}

func TestPlan_PolicyStoreFailureFailsOpen(t *testing.T) {
	svc := newService(t, signalservice.Detection{TotalMinor: 120000, Subscriber: true}, failingPolicies{})

	plan := svc.Plan(context.Background(), signal.PageSnapshot{StoreID: testStore})
	assert.Equal(t, advisory.StateNoRestriction, plan.State)
	assert.Nil(t, plan.Banner)
}

func TestSnapshotCurrency(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"top level", `{"currency":"USD"}`, "USD"},
		{"nested", `{"checkout":{"currency":"EUR"}}`, "EUR"},
		{"absent", `{"total_price":"10.00"}`, ""},
		{"empty snapshot", "", ""},
		{"malformed", `{"currency":`, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := snapshotCurrency(signal.PageSnapshot{CheckoutJSON: tc.json})
			assert.Equal(t, tc.want, got)
		})
	}
}
