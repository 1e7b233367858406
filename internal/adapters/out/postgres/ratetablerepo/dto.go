// Package ratetablerepo provides persistence for published rate table
// versions. A version row is immutable after publication; its rule sets are
// stored as JSONB documents and rebuilt through NewVersion on read, so a
// stored table that would not validate can never reach the calculator.
package ratetablerepo

import (
	"encoding/json"
	"time"

	"courierpos/internal/core/domain/model/kernel"
	"courierpos/internal/core/domain/model/ratetable"

	"github.com/google/uuid"
)

// VersionDTO represents one published rate table version.
type VersionDTO struct {
	Code        string    `gorm:"primaryKey"`
	Currency    string
	PublishedAt time.Time `gorm:"index"`
	DimFactor   int64
	TaxBP       int64
	FuelBP      int64

	PerKgRates  string `gorm:"type:jsonb"`
	BaseFreight string `gorm:"type:jsonb"`
	RouteZones  string `gorm:"type:jsonb"`
	Surcharges  string `gorm:"type:jsonb"`
	InsuranceBP string `gorm:"type:jsonb"`

	CODMode string
	CODFlat int64
	CODBP   int64
	CODMin  int64
}

// TableName specifies the database table name for rate table versions.
func (VersionDTO) TableName() string {
	return "rate_table_versions"
}

// routeZoneDTO is the JSON shape of one route-to-zone assignment.
type routeZoneDTO struct {
	Origin      uuid.UUID `json:"origin"`
	Destination uuid.UUID `json:"destination"`
	Zone        string    `json:"zone"`
}

// surchargeRuleDTO is the JSON shape of one surcharge rule.
type surchargeRuleDTO struct {
	Code           string   `json:"code"`
	Flat           int64    `json:"flat"`
	FreightBP      int64    `json:"freight_bp"`
	MinWeightGrams int64    `json:"min_weight_grams"`
	ServiceLevels  []string `json:"service_levels,omitempty"`
	Zones          []string `json:"zones,omitempty"`
}

// fromDomain converts a rate table version to its database representation.
func fromDomain(version ratetable.Version) (VersionDTO, error) {
	perKg := make(map[string]int64)
	for level, rate := range version.PerKgRates() {
		perKg[string(level)] = rate.Amount()
	}

	base := make(map[string]map[string]int64)
	for zone, levels := range version.BaseFreightTable() {
		row := make(map[string]int64, len(levels))
		for level, amount := range levels {
			row[string(level)] = amount.Amount()
		}
		base[string(zone)] = row
	}

	routes := make([]routeZoneDTO, 0, len(version.RouteZones()))
	for route, zone := range version.RouteZones() {
		routes = append(routes, routeZoneDTO{
			Origin:      route.Origin().Bytes(),
			Destination: route.Destination().Bytes(),
			Zone:        string(zone),
		})
	}

	surcharges := make([]surchargeRuleDTO, 0, len(version.Surcharges()))
	for _, rule := range version.Surcharges() {
		dto := surchargeRuleDTO{
			Code:           rule.Code(),
			Flat:           rule.Flat().Amount(),
			FreightBP:      rule.FreightBP(),
			MinWeightGrams: rule.MinWeightGrams(),
		}
		for _, level := range rule.ServiceLevels() {
			dto.ServiceLevels = append(dto.ServiceLevels, string(level))
		}
		for _, zone := range rule.Zones() {
			dto.Zones = append(dto.Zones, string(zone))
		}
		surcharges = append(surcharges, dto)
	}

	insurance := make(map[string]int64)
	for tier, bp := range version.InsuranceRates() {
		insurance[string(tier)] = bp
	}

	cod := version.COD()

	dto := VersionDTO{
		Code:        version.Code(),
		Currency:    version.Currency(),
		PublishedAt: version.PublishedAt(),
		DimFactor:   version.DimFactor(),
		TaxBP:       version.TaxBP(),
		FuelBP:      version.FuelBP(),
		CODMode:     string(cod.Mode()),
		CODFlat:     cod.Flat().Amount(),
		CODBP:       cod.BasisPoints(),
		CODMin:      cod.MinFee().Amount(),
	}

	for _, field := range []struct {
		target *string
		value  any
	}{
		{&dto.PerKgRates, perKg},
		{&dto.BaseFreight, base},
		{&dto.RouteZones, routes},
		{&dto.Surcharges, surcharges},
		{&dto.InsuranceBP, insurance},
	} {
		raw, err := json.Marshal(field.value)
		if err != nil {
			return VersionDTO{}, err
		}
		*field.target = string(raw)
	}

	return dto, nil
}

// toDomain converts a database DTO back into a rate table version.
func toDomain(dto VersionDTO) (*ratetable.Version, error) {
	money := func(amount int64) (kernel.Money, error) {
		return kernel.NewMoney(amount, dto.Currency)
	}

	var rawPerKg map[string]int64
	if err := json.Unmarshal([]byte(dto.PerKgRates), &rawPerKg); err != nil {
		return nil, err
	}
	perKg := make(map[ratetable.ServiceLevel]kernel.Money, len(rawPerKg))
	for level, amount := range rawPerKg {
		rate, err := money(amount)
		if err != nil {
			return nil, err
		}
		perKg[ratetable.ServiceLevel(level)] = rate
	}

	var rawBase map[string]map[string]int64
	if err := json.Unmarshal([]byte(dto.BaseFreight), &rawBase); err != nil {
		return nil, err
	}
	base := make(map[ratetable.Zone]map[ratetable.ServiceLevel]kernel.Money, len(rawBase))
	for zone, levels := range rawBase {
		row := make(map[ratetable.ServiceLevel]kernel.Money, len(levels))
		for level, amount := range levels {
			freight, err := money(amount)
			if err != nil {
				return nil, err
			}
			row[ratetable.ServiceLevel(level)] = freight
		}
		base[ratetable.Zone(zone)] = row
	}

	var rawRoutes []routeZoneDTO
	if err := json.Unmarshal([]byte(dto.RouteZones), &rawRoutes); err != nil {
		return nil, err
	}
	routes := make(map[ratetable.Route]ratetable.Zone, len(rawRoutes))
	for _, r := range rawRoutes {
		origin, err := kernel.UUIDFromBytes(r.Origin[:])
		if err != nil {
			return nil, err
		}
		destination, err := kernel.UUIDFromBytes(r.Destination[:])
		if err != nil {
			return nil, err
		}
		route, err := ratetable.NewRoute(origin, destination)
		if err != nil {
			return nil, err
		}
		routes[route] = ratetable.Zone(r.Zone)
	}

	var rawSurcharges []surchargeRuleDTO
	if err := json.Unmarshal([]byte(dto.Surcharges), &rawSurcharges); err != nil {
		return nil, err
	}
	surcharges := make([]ratetable.SurchargeRule, 0, len(rawSurcharges))
	for _, s := range rawSurcharges {
		flat, err := money(s.Flat)
		if err != nil {
			return nil, err
		}
		levels := make([]ratetable.ServiceLevel, 0, len(s.ServiceLevels))
		for _, level := range s.ServiceLevels {
			levels = append(levels, ratetable.ServiceLevel(level))
		}
		zones := make([]ratetable.Zone, 0, len(s.Zones))
		for _, zone := range s.Zones {
			zones = append(zones, ratetable.Zone(zone))
		}
		rule, err := ratetable.NewSurchargeRule(s.Code, flat, s.FreightBP, s.MinWeightGrams, levels, zones)
		if err != nil {
			return nil, err
		}
		surcharges = append(surcharges, rule)
	}

	var rawInsurance map[string]int64
	if err := json.Unmarshal([]byte(dto.InsuranceBP), &rawInsurance); err != nil {
		return nil, err
	}
	insurance := make(map[ratetable.InsuranceTier]int64, len(rawInsurance))
	for tier, bp := range rawInsurance {
		insurance[ratetable.InsuranceTier(tier)] = bp
	}

	var cod ratetable.CODRule
	if ratetable.CODMode(dto.CODMode) == ratetable.CODPercent {
		minFee, err := money(dto.CODMin)
		if err != nil {
			return nil, err
		}
		cod = ratetable.NewPercentCODRule(dto.CODBP, minFee)
	} else {
		flat, err := money(dto.CODFlat)
		if err != nil {
			return nil, err
		}
		cod = ratetable.NewFlatCODRule(flat)
	}

	version, err := ratetable.NewVersion(ratetable.VersionParams{
		Code:        dto.Code,
		Currency:    dto.Currency,
		PublishedAt: dto.PublishedAt,
		DimFactor:   dto.DimFactor,
		PerKgRates:  perKg,
		BaseFreight: base,
		RouteZones:  routes,
		Surcharges:  surcharges,
		InsuranceBP: insurance,
		COD:         cod,
		TaxBP:       dto.TaxBP,
		FuelBP:      dto.FuelBP,
	})
	if err != nil {
		return nil, err
	}

	return &version, nil
}
