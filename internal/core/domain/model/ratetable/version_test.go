package ratetable_test

import (
	"testing"
	"time"

	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/domain/model/ratetable"
	"courierpos/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usd(t *testing.T, cents int64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoney(cents, "USD")
	require.NoError(t, err)
	return m
}

func testRoute(t *testing.T) ratetable.Route {
	t.Helper()
	route, err := ratetable.NewRoute(kernel.NewUUID(), kernel.NewUUID())
	require.NoError(t, err)
	return route
}

func testVersion(t *testing.T, route ratetable.Route) ratetable.Version {
	t.Helper()
	v, err := ratetable.NewVersion(ratetable.VersionParams{
		Code:        "2026-03",
		Currency:    "USD",
		PublishedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		PerKgRates: map[ratetable.ServiceLevel]kernel.Money{
			ratetable.Standard: usd(t, 150),
			ratetable.Express:  usd(t, 250),
		},
		BaseFreight: map[ratetable.Zone]map[ratetable.ServiceLevel]kernel.Money{
			"Z1": {
				ratetable.Standard: usd(t, 500),
				ratetable.Express:  usd(t, 800),
			},
		},
		RouteZones: map[ratetable.Route]ratetable.Zone{route: "Z1"},
		InsuranceBP: map[ratetable.InsuranceTier]int64{
			ratetable.InsuranceBasic: 50,
		},
		COD:    ratetable.NewPercentCODRule(100, usd(t, 300)),
		TaxBP:  1000,
		FuelBP: 800,
	})
	require.NoError(t, err)
	return v
}

func TestNewVersion(t *testing.T) {
	route := testRoute(t)

	t.Run("valid", func(t *testing.T) {
		v := testVersion(t, route)

		assert.NoError(t, v.Validate())
		assert.Equal(t, "2026-03", v.Code())
		assert.Equal(t, "USD", v.Currency())
		assert.Equal(t, int64(ratetable.DefaultDimFactor), v.DimFactor())
		assert.Equal(t, int64(1000), v.TaxBP())
		assert.Equal(t, int64(800), v.FuelBP())
	})

	t.Run("empty code", func(t *testing.T) {
		_, err := ratetable.NewVersion(ratetable.VersionParams{Currency: "USD"})

		var required *errs.ValueIsRequiredError
		assert.ErrorAs(t, err, &required)
	})

	t.Run("bad currency", func(t *testing.T) {
		_, err := ratetable.NewVersion(ratetable.VersionParams{Code: "2026-03", Currency: "US"})
		assert.Error(t, err)
	})

	t.Run("negative percentages", func(t *testing.T) {
		_, err := ratetable.NewVersion(ratetable.VersionParams{
			Code: "2026-03", Currency: "USD", TaxBP: -1,
		})
		assert.Error(t, err)
	})

	t.Run("unknown service level in rates", func(t *testing.T) {
		_, err := ratetable.NewVersion(ratetable.VersionParams{
			Code: "2026-03", Currency: "USD",
			PerKgRates: map[ratetable.ServiceLevel]kernel.Money{
				"teleport": usd(t, 100),
			},
		})
		assert.Error(t, err)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		assert.Error(t, ratetable.Version{}.Validate())
	})
}

func TestVersion_Lookups(t *testing.T) {
	route := testRoute(t)
	v := testVersion(t, route)

	t.Run("zone for known route", func(t *testing.T) {
		zone, err := v.ZoneFor(route)
		require.NoError(t, err)
		assert.Equal(t, ratetable.Zone("Z1"), zone)
	})

	t.Run("unknown route", func(t *testing.T) {
		_, err := v.ZoneFor(testRoute(t))

		var failed *errs.ComputationFailedError
		assert.ErrorAs(t, err, &failed)
	})

	t.Run("per kg rate", func(t *testing.T) {
		rate, err := v.PerKgRate(ratetable.Express)
		require.NoError(t, err)
		assert.Equal(t, int64(250), rate.Amount())
	})

	t.Run("unpriced service level", func(t *testing.T) {
		_, err := v.PerKgRate(ratetable.Economy)

		var failed *errs.ComputationFailedError
		assert.ErrorAs(t, err, &failed)
	})

	t.Run("base freight", func(t *testing.T) {
		fee, err := v.BaseFreight("Z1", ratetable.Standard)
		require.NoError(t, err)
		assert.Equal(t, int64(500), fee.Amount())
	})

	t.Run("unknown zone", func(t *testing.T) {
		_, err := v.BaseFreight("Z9", ratetable.Standard)

		var failed *errs.ComputationFailedError
		assert.ErrorAs(t, err, &failed)
	})

	t.Run("absent insurance tier rates zero", func(t *testing.T) {
		assert.Equal(t, int64(50), v.InsuranceBP(ratetable.InsuranceBasic))
		assert.Equal(t, int64(0), v.InsuranceBP(ratetable.InsurancePremium))
	})
}

func TestVersion_CODFee(t *testing.T) {
	route := testRoute(t)
	v := testVersion(t, route)

	t.Run("zero amount carries no fee", func(t *testing.T) {
		fee, err := v.CODFee(usd(t, 0))
		require.NoError(t, err)
		assert.True(t, fee.IsZero())
	})

	t.Run("percent with floor", func(t *testing.T) {
		// 100bp of 20000 = 200, below the 300 floor
		fee, err := v.CODFee(usd(t, 20000))
		require.NoError(t, err)
		assert.Equal(t, int64(300), fee.Amount())
	})

	t.Run("percent above floor", func(t *testing.T) {
		fee, err := v.CODFee(usd(t, 100000))
		require.NoError(t, err)
		assert.Equal(t, int64(1000), fee.Amount())
	})
}

func TestFlatCODRule(t *testing.T) {
	rule := ratetable.NewFlatCODRule(usd(t, 400))

	assert.Equal(t, ratetable.CODFlat, rule.Mode())
	assert.Equal(t, int64(400), rule.Flat().Amount())
}

func TestSurchargeRule_Matches(t *testing.T) {
	heavy := func(g int64) kernel.Weight {
		w, err := kernel.NewWeight(g)
		require.NoError(t, err)
		return w
	}

	t.Run("no restrictions match everything", func(t *testing.T) {
		rule, err := ratetable.NewSurchargeRule("FUEL_LEVY", usd(t, 100), 0, 0, nil, nil)
		require.NoError(t, err)

		assert.True(t, rule.Matches(ratetable.Standard, "Z1", heavy(1)))
	})

	t.Run("weight threshold", func(t *testing.T) {
		rule, err := ratetable.NewSurchargeRule("HEAVY", usd(t, 500), 0, 10000, nil, nil)
		require.NoError(t, err)

		assert.False(t, rule.Matches(ratetable.Standard, "Z1", heavy(9999)))
		assert.True(t, rule.Matches(ratetable.Standard, "Z1", heavy(10000)))
	})

	t.Run("service level restriction", func(t *testing.T) {
		rule, err := ratetable.NewSurchargeRule("EXPRESS_HANDLING", usd(t, 200), 0, 0,
			[]ratetable.ServiceLevel{ratetable.Express}, nil)
		require.NoError(t, err)

		assert.True(t, rule.Matches(ratetable.Express, "Z1", heavy(1)))
		assert.False(t, rule.Matches(ratetable.Standard, "Z1", heavy(1)))
	})

	t.Run("zone restriction", func(t *testing.T) {
		rule, err := ratetable.NewSurchargeRule("REMOTE_AREA", usd(t, 900), 0, 0,
			nil, []ratetable.Zone{"Z3"})
		require.NoError(t, err)

		assert.True(t, rule.Matches(ratetable.Standard, "Z3", heavy(1)))
		assert.False(t, rule.Matches(ratetable.Standard, "Z1", heavy(1)))
	})

	t.Run("empty code rejected", func(t *testing.T) {
		_, err := ratetable.NewSurchargeRule("", usd(t, 100), 0, 0, nil, nil)
		assert.Error(t, err)
	})
}

func TestSurchargeRule_AmountFor(t *testing.T) {
	t.Run("flat only", func(t *testing.T) {
		rule, err := ratetable.NewSurchargeRule("FLAT", usd(t, 250), 0, 0, nil, nil)
		require.NoError(t, err)

		amount, err := rule.AmountFor(usd(t, 10000))
		require.NoError(t, err)
		assert.Equal(t, int64(250), amount.Amount())
	})

	t.Run("flat plus freight share", func(t *testing.T) {
		// 250 flat + 500bp of 10000 = 250 + 500
		rule, err := ratetable.NewSurchargeRule("MIXED", usd(t, 250), 500, 0, nil, nil)
		require.NoError(t, err)

		amount, err := rule.AmountFor(usd(t, 10000))
		require.NoError(t, err)
		assert.Equal(t, int64(750), amount.Amount())
	})
}
