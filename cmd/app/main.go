package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"courierpos/cmd"
	apihttp "courierpos/internal/adapters/in/http"
	"courierpos/internal/adapters/out/postgres/auditrepo"
	"courierpos/internal/adapters/out/postgres/idempotencyrepo"
	"courierpos/internal/adapters/out/postgres/overriderepo"
	"courierpos/internal/adapters/out/postgres/paymentrepo"
	"courierpos/internal/adapters/out/postgres/ratetablerepo"
	"courierpos/internal/adapters/out/postgres/shipmentrepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	_ "github.com/lib/pq"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	createDbIfNotExists(configs)
	gormDB := mustOpenGorm(configs)
	mustMigrate(gormDB)

	root := cmd.NewCompositionRoot(configs, gormDB, logger)

	jobManager := root.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&root, configs)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:              goDotEnvVariable("HTTP_PORT"),
		DBHost:                goDotEnvVariable("DB_HOST"),
		DBPort:                goDotEnvVariable("DB_PORT"),
		DBUser:                goDotEnvVariable("DB_USER"),
		DBPassword:            goDotEnvVariable("DB_PASSWORD"),
		DBName:                goDotEnvVariable("DB_NAME"),
		DBSslMode:             goDotEnvVariable("DB_SSLMODE"),
		OverrideTTLMinutes:    goDotEnvVariable("OVERRIDE_TTL_MINUTES"),
		AccountingURL:         goDotEnvVariable("ACCOUNTING_URL"),
		SupervisorCredentials: goDotEnvVariable("SUPERVISOR_CREDENTIALS"),
		OpenAPIPath:           goDotEnvVariable("OPENAPI_PATH"),
	}
	if config.OpenAPIPath == "" {
		config.OpenAPIPath = "api/openapi.yml"
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

// createDbIfNotExists connects to the maintenance database and creates the
// application database when it is missing. Safe to run on every start.
func createDbIfNotExists(configs cmd.Config) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=postgres sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword, configs.DBSslMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer db.Close()

	var exists bool
	err = db.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)",
		configs.DBName).Scan(&exists)
	if err != nil {
		log.Fatalf("Failed to check database existence: %v", err)
	}
	if !exists {
		if _, err := db.Exec(fmt.Sprintf("CREATE DATABASE %q", configs.DBName)); err != nil {
			log.Fatalf("Failed to create database %s: %v", configs.DBName, err)
		}
	}
}

// mustOpenGorm opens the application database. TranslateError is required:
// the idempotency ledger and rate table repositories rely on unique
// violations surfacing as gorm.ErrDuplicatedKey.
func mustOpenGorm(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBSslMode)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	return db
}

func mustMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&shipmentrepo.ShipmentDTO{},
		&shipmentrepo.ParcelDTO{},
		&paymentrepo.TransactionDTO{},
		&overriderepo.OverrideDTO{},
		&idempotencyrepo.IdempotencyRecordDTO{},
		&auditrepo.EventDTO{},
		&ratetablerepo.VersionDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
}

func startWebServer(root *cmd.CompositionRoot, configs cmd.Config) {
	e := echo.New()

	validate, err := apihttp.NewValidationMiddleware(configs.OpenAPIPath)
	if err != nil {
		log.Fatalf("Failed to load API contract: %v", err)
	}
	e.Use(validate)

	server := apihttp.NewServer(
		root.CreateCreateShipmentCommandHandler(),
		root.CreateProcessPaymentCommandHandler(),
		root.CreateRequestOverrideCommandHandler(),
		root.CreateApproveOverrideCommandHandler(),
		root.CreateRejectOverrideCommandHandler(),
		root.CreateReprintLabelCommandHandler(),
		root.CreateCancelShipmentCommandHandler(),
		root.CreateQuoteShipmentQueryHandler(),
		root.CreateGetShipmentQueryHandler(),
		root.CreateGetPendingOverridesQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)))
}
