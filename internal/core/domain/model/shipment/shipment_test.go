package shipment_test

import (
	"testing"
	"time"

	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/domain/model/quote"
	"courierpos/internal/core/domain/model/ratetable"
	"courierpos/internal/core/domain/model/shipment"
	"courierpos/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(t *testing.T, cents int64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoney(cents, "USD")
	require.NoError(t, err)
	return m
}

func testSpec(t *testing.T) quote.ShipmentSpec {
	t.Helper()
	route, err := ratetable.NewRoute(kernel.NewUUID(), kernel.NewUUID())
	require.NoError(t, err)
	w, err := kernel.NewWeight(2500)
	require.NoError(t, err)
	p, err := quote.NewParcelSpec(w, nil)
	require.NoError(t, err)
	spec, err := quote.NewShipmentSpec(route, ratetable.Standard,
		[]quote.ParcelSpec{p}, money(t, 0), money(t, 0), ratetable.InsuranceNone)
	require.NoError(t, err)
	return spec
}

func testQuote(t *testing.T, totalCents int64) quote.Quote {
	t.Helper()
	subtotal := totalCents * 10 / 11
	return quote.Quote{
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
}

func bookedShipment(t *testing.T, totalCents int64) *shipment.Shipment {
	t.Helper()
	s, err := shipment.NewShipment(kernel.NewUUID(), testSpec(t), shipment.PayerSender,
		testQuote(t, totalCents), "key-1", time.Now())
	require.NoError(t, err)
	return s
}

func TestNewShipment(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		s := bookedShipment(t, 2200)

		assert.Equal(t, shipment.Booked, s.Status())
		assert.Equal(t, 0, s.LabelPrintCount())
		assert.Equal(t, "key-1", s.IdempotencyKey())
		assert.True(t, s.AmountPaid().IsZero())
	})

	t.Run("missing_idempotency_key", func(t *testing.T) {
		_, err := shipment.NewShipment(kernel.NewUUID(), testSpec(t), shipment.PayerSender,
			testQuote(t, 2200), "", time.Now())
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("bad_payer", func(t *testing.T) {
		_, err := shipment.NewShipment(kernel.NewUUID(), testSpec(t), "nobody",
			testQuote(t, 2200), "key-1", time.Now())
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("unconstructed", func(t *testing.T) {
		var s shipment.Shipment
		require.ErrorIs(t, s.Validate(), shipment.ErrShipmentIsNotConstructed)
	})
}

func TestShipment_ApplyPayment(t *testing.T) {
	t.Run("full_payment", func(t *testing.T) {
		s := bookedShipment(t, 2200)

		require.NoError(t, s.ApplyPayment(money(t, 2200)))

		assert.Equal(t, shipment.Paid, s.Status())
		outstanding, err := s.OutstandingBalance()
		require.NoError(t, err)
		assert.True(t, outstanding.IsZero())
	})

	t.Run("partial_then_full", func(t *testing.T) {
		s := bookedShipment(t, 2200)

		require.NoError(t, s.ApplyPayment(money(t, 1000)))
		assert.Equal(t, shipment.PartiallyPaid, s.Status())

		require.NoError(t, s.ApplyPayment(money(t, 1200)))
		assert.Equal(t, shipment.Paid, s.Status())
	})

	t.Run("overpayment_is_conflict", func(t *testing.T) {
		s := bookedShipment(t, 2200)

		err := s.ApplyPayment(money(t, 2300))
		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, shipment.Booked, s.Status())
	})

	t.Run("paid_accepts_no_more", func(t *testing.T) {
		s := bookedShipment(t, 2200)
		require.NoError(t, s.ApplyPayment(money(t, 2200)))

		require.ErrorIs(t, s.ApplyPayment(money(t, 100)), errs.ErrConflict)
	})

	t.Run("cancelled_accepts_none", func(t *testing.T) {
		s := bookedShipment(t, 2200)
		require.NoError(t, s.Cancel())

		require.ErrorIs(t, s.ApplyPayment(money(t, 100)), errs.ErrConflict)
	})

	t.Run("zero_amount_invalid", func(t *testing.T) {
		s := bookedShipment(t, 2200)
		require.ErrorIs(t, s.ApplyPayment(money(t, 0)), errs.ErrValueIsInvalid)
	})
}

func TestShipment_RecordLabelPrint(t *testing.T) {
	s := bookedShipment(t, 2200)

	require.NoError(t, s.RecordLabelPrint())
	require.NoError(t, s.RecordLabelPrint())
	assert.Equal(t, 2, s.LabelPrintCount())

	require.NoError(t, s.Cancel())
	require.ErrorIs(t, s.RecordLabelPrint(), errs.ErrConflict)
}

func TestShipment_Cancel(t *testing.T) {
	t.Run("booked", func(t *testing.T) {
		s := bookedShipment(t, 2200)
		require.NoError(t, s.Cancel())
		assert.Equal(t, shipment.Cancelled, s.Status())
	})

	t.Run("partially_paid", func(t *testing.T) {
		s := bookedShipment(t, 2200)
		require.NoError(t, s.ApplyPayment(money(t, 500)))
		require.NoError(t, s.Cancel())
	})

	t.Run("paid_cannot_cancel", func(t *testing.T) {
		s := bookedShipment(t, 2200)
		require.NoError(t, s.ApplyPayment(money(t, 2200)))
		require.ErrorIs(t, s.Cancel(), errs.ErrConflict)
	})

	t.Run("cancel_twice_is_conflict", func(t *testing.T) {
		s := bookedShipment(t, 2200)
		require.NoError(t, s.Cancel())
		require.ErrorIs(t, s.Cancel(), errs.ErrConflict)
	})
}

func TestRestoreShipment(t *testing.T) {
	s := bookedShipment(t, 2200)
	require.NoError(t, s.ApplyPayment(money(t, 1000)))

	restored, err := shipment.RestoreShipment(
		s.ID(), s.Spec(), s.PayerType(), s.Quote(), s.Status(),
		s.AmountPaid(), s.LabelPrintCount(), s.IdempotencyKey(), s.CreatedAt())

	require.NoError(t, err)
	assert.Equal(t, shipment.PartiallyPaid, restored.Status())
	assert.True(t, restored.ID().IsEqual(s.ID()))
	assert.True(t, restored.Quote().IsEqual(s.Quote()))
}
