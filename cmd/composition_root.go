package cmd

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"courierpos/internal/adapters/out/accounting"
	"courierpos/internal/adapters/out/crypto"
	"courierpos/internal/adapters/out/postgres"
	"courierpos/internal/adapters/out/postgres/ratetablerepo"
	"courierpos/internal/core/application/usecases/commands"
	"courierpos/internal/core/application/usecases/queries"
	"courierpos/internal/core/domain/services"
	"courierpos/internal/core/ports"
	"courierpos/internal/jobs"

	"gorm.io/gorm"
)

const defaultOverrideTTL = 15 * time.Minute

type CompositionRoot struct {
	configs    Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	logger     *slog.Logger
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		configs:    configs,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
	}
}

func (c *CompositionRoot) overrideTTL() time.Duration {
	minutes, err := strconv.Atoi(c.configs.OverrideTTLMinutes)
	if err != nil || minutes <= 0 {
		return defaultOverrideTTL
	}
	return time.Duration(minutes) * time.Minute
}

func (c *CompositionRoot) CreateRateTableProvider() ports.RateTableProvider {
	return ratetablerepo.NewGormRateTableRepository(c.gormDB)
}

func (c *CompositionRoot) CreatePostingService() ports.PostingService {
	if c.configs.AccountingURL == "" {
		return accounting.NewLogPostingService(c.logger)
	}
	return accounting.NewHTTPPostingService(c.configs.AccountingURL)
}

// CreateCredentialVerifier builds the argon2id verifier from the configured
// supervisor credential hashes.
func (c *CompositionRoot) CreateCredentialVerifier() ports.CredentialVerifier {
	lookup := crypto.StaticHashLookup{}
	for _, pair := range strings.Split(c.configs.SupervisorCredentials, ";") {
		userID, hash, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found || userID == "" || hash == "" {
			continue
		}
		lookup[userID] = hash
	}
	return crypto.NewArgon2idVerifier(lookup)
}

func (c *CompositionRoot) CreateCreateShipmentCommandHandler() commands.CreateShipmentCommandHandler {
	var f commands.ShipmentUoWFactory = FuncShipmentUoWFactory(func() commands.ShipmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateShipmentCommandHandler(f, c.CreateRateTableProvider(), services.NewQuoteCalculator())
}

func (c *CompositionRoot) CreateProcessPaymentCommandHandler() commands.ProcessPaymentCommandHandler {
	var f commands.PaymentUoWFactory = FuncPaymentUoWFactory(func() commands.PaymentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewProcessPaymentCommandHandler(f, c.CreatePostingService())
}

func (c *CompositionRoot) CreateRequestOverrideCommandHandler() commands.RequestOverrideCommandHandler {
	var f commands.OverrideUoWFactory = FuncOverrideUoWFactory(func() commands.OverrideUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRequestOverrideCommandHandler(f, c.overrideTTL())
}

func (c *CompositionRoot) CreateApproveOverrideCommandHandler() commands.ApproveOverrideCommandHandler {
	var f commands.OverrideUoWFactory = FuncOverrideUoWFactory(func() commands.OverrideUoW {
		return c.uowFactory.Create()
	})
	return commands.NewApproveOverrideCommandHandler(f, c.CreateCredentialVerifier())
}

func (c *CompositionRoot) CreateRejectOverrideCommandHandler() commands.RejectOverrideCommandHandler {
	var f commands.OverrideUoWFactory = FuncOverrideUoWFactory(func() commands.OverrideUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRejectOverrideCommandHandler(f)
}

func (c *CompositionRoot) CreateExpireOverridesCommandHandler() commands.ExpireOverridesCommandHandler {
	var f commands.OverrideUoWFactory = FuncOverrideUoWFactory(func() commands.OverrideUoW {
		return c.uowFactory.Create()
	})
	return commands.NewExpireOverridesCommandHandler(f)
}

func (c *CompositionRoot) CreateReprintLabelCommandHandler() commands.ReprintLabelCommandHandler {
	var f commands.GatedActionUoWFactory = FuncGatedActionUoWFactory(func() commands.GatedActionUoW {
		return c.uowFactory.Create()
	})
	return commands.NewReprintLabelCommandHandler(f)
}

func (c *CompositionRoot) CreateCancelShipmentCommandHandler() commands.CancelShipmentCommandHandler {
	var f commands.GatedActionUoWFactory = FuncGatedActionUoWFactory(func() commands.GatedActionUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelShipmentCommandHandler(f)
}

func (c *CompositionRoot) CreateQuoteShipmentQueryHandler() queries.QuoteShipmentQueryHandler {
	return queries.NewQuoteShipmentQueryHandler(c.CreateRateTableProvider(), services.NewQuoteCalculator())
}

func (c *CompositionRoot) CreateGetShipmentQueryHandler() queries.GetShipmentQueryHandler {
	return queries.NewGetShipmentQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetPendingOverridesQueryHandler() queries.GetPendingOverridesQueryHandler {
	return queries.NewGetPendingOverridesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateExpireOverridesCommandHandler(), c.logger)
}

type FuncShipmentUoWFactory func() commands.ShipmentUoW

func (f FuncShipmentUoWFactory) Create() commands.ShipmentUoW {
	return f()
}

type FuncPaymentUoWFactory func() commands.PaymentUoW

func (f FuncPaymentUoWFactory) Create() commands.PaymentUoW {
	return f()
}

type FuncOverrideUoWFactory func() commands.OverrideUoW

func (f FuncOverrideUoWFactory) Create() commands.OverrideUoW {
	return f()
}

type FuncGatedActionUoWFactory func() commands.GatedActionUoW

func (f FuncGatedActionUoWFactory) Create() commands.GatedActionUoW {
	return f()
}
