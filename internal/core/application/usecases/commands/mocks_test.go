package commands_test

import (
	"context"
	"testing"
	"time"

	"courierpos/internal/core/application/usecases/commands"
	"courierpos/internal/core/domain/model/audit"
	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/domain/model/override"
	"courierpos/internal/core/domain/model/payment"
	"courierpos/internal/core/domain/model/quote"
	"courierpos/internal/core/domain/model/ratetable"
	"courierpos/internal/core/domain/model/shipment"
	"courierpos/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockShipmentRepository struct{ mock.Mock }

func (m *MockShipmentRepository) Add(ctx context.Context, s *shipment.Shipment) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
func (m *MockShipmentRepository) Update(ctx context.Context, s *shipment.Shipment) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
func (m *MockShipmentRepository) Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Shipment), args.Error(1)
}

type MockPaymentRepository struct{ mock.Mock }

func (m *MockPaymentRepository) Add(ctx context.Context, tx *payment.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
func (m *MockPaymentRepository) Update(ctx context.Context, tx *payment.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
func (m *MockPaymentRepository) Get(ctx context.Context, id kernel.UUID) (*payment.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Transaction), args.Error(1)
}
func (m *MockPaymentRepository) GetAllByShipment(ctx context.Context, shipmentID kernel.UUID) ([]*payment.Transaction, error) {
	args := m.Called(ctx, shipmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Transaction), args.Error(1)
}

type MockOverrideRepository struct{ mock.Mock }

func (m *MockOverrideRepository) Add(ctx context.Context, o *override.Override) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}
func (m *MockOverrideRepository) Get(ctx context.Context, id kernel.UUID) (*override.Override, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*override.Override), args.Error(1)
}
func (m *MockOverrideRepository) TransitionFromPending(ctx context.Context, o *override.Override) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}
func (m *MockOverrideRepository) FindApproved(ctx context.Context, actionType override.ActionType, targetRef kernel.UUID) (*override.Override, error) {
	args := m.Called(ctx, actionType, targetRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*override.Override), args.Error(1)
}
func (m *MockOverrideRepository) GetAllPendingDue(ctx context.Context, now time.Time) ([]*override.Override, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*override.Override), args.Error(1)
}

type MockIdempotencyRepository struct{ mock.Mock }

func (m *MockIdempotencyRepository) Get(ctx context.Context, opType ports.OperationType, key string) (ports.IdempotencyRecord, error) {
	args := m.Called(ctx, opType, key)
	return args.Get(0).(ports.IdempotencyRecord), args.Error(1)
}
func (m *MockIdempotencyRepository) Add(ctx context.Context, record ports.IdempotencyRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

type MockAuditRepository struct{ mock.Mock }

func (m *MockAuditRepository) Add(ctx context.Context, event audit.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockShipmentUoW struct{ mock.Mock }

func (m *MockShipmentUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockShipmentUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockShipmentUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockShipmentUoW) ShipmentRepository() ports.ShipmentRepository {
	args := m.Called()
	return args.Get(0).(ports.ShipmentRepository)
}
func (m *MockShipmentUoW) IdempotencyRepository() ports.IdempotencyRepository {
	args := m.Called()
	return args.Get(0).(ports.IdempotencyRepository)
}
func (m *MockShipmentUoW) AuditRepository() ports.AuditRepository {
	args := m.Called()
	return args.Get(0).(ports.AuditRepository)
}

type MockShipmentUoWFactory struct{ mock.Mock }

func (m *MockShipmentUoWFactory) Create() commands.ShipmentUoW {
	args := m.Called()
	return args.Get(0).(commands.ShipmentUoW)
}

type MockPaymentUoW struct{ mock.Mock }

func (m *MockPaymentUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockPaymentUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockPaymentUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockPaymentUoW) ShipmentRepository() ports.ShipmentRepository {
	args := m.Called()
	return args.Get(0).(ports.ShipmentRepository)
}
func (m *MockPaymentUoW) PaymentRepository() ports.PaymentRepository {
	args := m.Called()
	return args.Get(0).(ports.PaymentRepository)
}
func (m *MockPaymentUoW) IdempotencyRepository() ports.IdempotencyRepository {
	args := m.Called()
	return args.Get(0).(ports.IdempotencyRepository)
}
func (m *MockPaymentUoW) AuditRepository() ports.AuditRepository {
	args := m.Called()
	return args.Get(0).(ports.AuditRepository)
}

type MockPaymentUoWFactory struct{ mock.Mock }

func (m *MockPaymentUoWFactory) Create() commands.PaymentUoW {
	args := m.Called()
	return args.Get(0).(commands.PaymentUoW)
}

type MockOverrideUoW struct{ mock.Mock }

func (m *MockOverrideUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockOverrideUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockOverrideUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockOverrideUoW) OverrideRepository() ports.OverrideRepository {
	args := m.Called()
	return args.Get(0).(ports.OverrideRepository)
}
func (m *MockOverrideUoW) AuditRepository() ports.AuditRepository {
	args := m.Called()
	return args.Get(0).(ports.AuditRepository)
}

type MockOverrideUoWFactory struct{ mock.Mock }

func (m *MockOverrideUoWFactory) Create() commands.OverrideUoW {
	args := m.Called()
	return args.Get(0).(commands.OverrideUoW)
}

type MockGatedActionUoW struct{ mock.Mock }

func (m *MockGatedActionUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockGatedActionUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockGatedActionUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockGatedActionUoW) ShipmentRepository() ports.ShipmentRepository {
	args := m.Called()
	return args.Get(0).(ports.ShipmentRepository)
}
func (m *MockGatedActionUoW) OverrideRepository() ports.OverrideRepository {
	args := m.Called()
	return args.Get(0).(ports.OverrideRepository)
}
func (m *MockGatedActionUoW) AuditRepository() ports.AuditRepository {
	args := m.Called()
	return args.Get(0).(ports.AuditRepository)
}

type MockGatedActionUoWFactory struct{ mock.Mock }

func (m *MockGatedActionUoWFactory) Create() commands.GatedActionUoW {
	args := m.Called()
	return args.Get(0).(commands.GatedActionUoW)
}

type MockRateTableProvider struct{ mock.Mock }

func (m *MockRateTableProvider) GetActiveVersion(ctx context.Context) (*ratetable.Version, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ratetable.Version), args.Error(1)
}

type MockPostingService struct{ mock.Mock }

func (m *MockPostingService) PostPayment(ctx context.Context, tx *payment.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

type MockCredentialVerifier struct{ mock.Mock }

func (m *MockCredentialVerifier) Verify(ctx context.Context, userID kernel.UUID, proof string) error {
	args := m.Called(ctx, userID, proof)
	return args.Error(0)
}

// Shared fixtures.

func money(t *testing.T, cents int64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoney(cents, "USD")
	require.NoError(t, err)
	return m
}

func operatorActor(t *testing.T) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(kernel.NewUUID(), []kernel.Role{kernel.RoleOperator})
	require.NoError(t, err)
	return a
}

func supervisorActor(t *testing.T) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(kernel.NewUUID(), []kernel.Role{kernel.RoleSupervisor})
	require.NoError(t, err)
	return a
}

func testRoute(t *testing.T) ratetable.Route {
	t.Helper()
	origin, err := kernel.UUIDFromString("11111111-1111-1111-1111-111111111111")
	require.NoError(t, err)
	destination, err := kernel.UUIDFromString("22222222-2222-2222-2222-222222222222")
	require.NoError(t, err)
	route, err := ratetable.NewRoute(origin, destination)
	require.NoError(t, err)
	return route
}

func testVersion(t *testing.T) *ratetable.Version {
	t.Helper()
	route := testRoute(t)
	v, err := ratetable.NewVersion(ratetable.VersionParams{
		Code:        "2026-03",
		Currency:    "USD",
		PublishedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DimFactor:   ratetable.DefaultDimFactor,
		PerKgRates: map[ratetable.ServiceLevel]kernel.Money{
			ratetable.Standard: money(t, 200),
		},
		BaseFreight: map[ratetable.Zone]map[ratetable.ServiceLevel]kernel.Money{
			"Z1": {ratetable.Standard: money(t, 1000)},
		},
		RouteZones: map[ratetable.Route]ratetable.Zone{route: "Z1"},
		InsuranceBP: map[ratetable.InsuranceTier]int64{
			ratetable.InsuranceNone: 0,
		},
		COD:   ratetable.NewFlatCODRule(money(t, 300)),
		TaxBP: 1000,
	})
	require.NoError(t, err)
	return &v
}

func testSpec(t *testing.T) quote.ShipmentSpec {
	t.Helper()
	w, err := kernel.NewWeight(5000)
	require.NoError(t, err)
	p, err := quote.NewParcelSpec(w, nil)
	require.NoError(t, err)
	spec, err := quote.NewShipmentSpec(testRoute(t), ratetable.Standard,
		[]quote.ParcelSpec{p}, money(t, 0), money(t, 0), ratetable.InsuranceNone)
	require.NoError(t, err)
	return spec
}

func bookedShipment(t *testing.T, totalCents int64, key string) *shipment.Shipment {
	t.Helper()
	subtotal := totalCents * 10 / 11
	q := quote.Quote{
		BaseFreight:      money(t, subtotal/2),
		WeightCharge:     money(t, subtotal-subtotal/2),
		FuelSurcharge:    money(t, 0),
		SurchargesTotal:  money(t, 0),
		InsuranceFee:     money(t, 0),
		CODFee:           money(t, 0),
		Subtotal:         money(t, subtotal),
		Tax:              money(t, totalCents-subtotal),
		Total:            money(t, totalCents),
		Currency:         "USD",
		RateTableVersion: "2026-03",
	}
	s, err := shipment.NewShipment(kernel.NewUUID(), testSpec(t), shipment.PayerSender,
		q, key, time.Now().UTC())
	require.NoError(t, err)
	return s
}

func pendingOverride(t *testing.T, actionType override.ActionType, requestedBy kernel.UUID, target *kernel.UUID) *override.Override {
	t.Helper()
	o, err := override.NewOverride(kernel.NewUUID(), actionType, requestedBy,
		"till discrepancy", target, "", time.Now().UTC(), 15*time.Minute)
	require.NoError(t, err)
	return o
}
