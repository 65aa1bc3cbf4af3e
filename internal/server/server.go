package server

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rentium/rentium-api/internal/constants"
	"github.com/rentium/rentium-api/internal/db"
	"github.com/rentium/rentium-api/internal/handlers"
	"github.com/rentium/rentium-api/internal/ledger"
	"github.com/rentium/rentium-api/internal/logger"
	"github.com/rentium/rentium-api/internal/rights"
	"github.com/rentium/rentium-api/internal/services"
	"go.uber.org/zap"
)

// Handler Definitions
var (
	recordHandler *handlers.RecordHandler
	ledgerHandler *handlers.LedgerHandler
	healthHandler *handlers.HealthHandler

	// Persistence
	journalStore *db.Store
)

// InitializeHandlers wires the ledger, record store and service from the
// environment. When DATABASE_URL is set the postgres journal is attached
// and previously persisted state is replayed before serving.
func InitializeHandlers() {
	maxRecords := constants.DefaultMaxRecordsPerPair
	if raw := os.Getenv(constants.EnvMaxRecordsPerPair); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			logger.Fatal("Invalid MAX_RECORDS_PER_PAIR value", zap.String("value", raw))
		}
		maxRecords = parsed
	}

	baseLedger := ledger.NewMemoryLedger()
	recordStore := rights.NewStore(maxRecords)

	var journal services.Journal
	if dbURL := os.Getenv(constants.EnvDatabaseURL); dbURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		store, err := db.Connect(ctx, dbURL)
		if err != nil {
			logger.Fatal("Unable to connect to database", zap.Error(err))
		}
		if err := store.EnsureSchema(ctx); err != nil {
			logger.Fatal("Unable to ensure database schema", zap.Error(err))
		}
		if err := store.LoadState(ctx, baseLedger, recordStore); err != nil {
			logger.Fatal("Unable to restore ledger state", zap.Error(err))
		}

		journalStore = store
		journal = store
		logger.Info("Postgres journal attached")
	} else {
		logger.Info("No DATABASE_URL configured, running without persistence")
	}

	service := services.NewRightsService(baseLedger, recordStore, journal)

	recordHandler = handlers.NewRecordHandler(service)
	ledgerHandler = handlers.NewLedgerHandler(service)
	healthHandler = handlers.NewHealthHandler()

	logger.Info("Handlers initialized",
		zap.Int("max_records_per_pair", maxRecords))
}

// Shutdown releases resources held by the server.
func Shutdown() {
	if journalStore != nil {
		journalStore.Close()
	}
}

// SetupRouter builds the gin engine with middleware and all routes.
func SetupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(handlers.RequestIDMiddleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders,
		handlers.CallerAddressHeader, handlers.RequestIDHeader)
	router.Use(cors.New(corsConfig))

	router.GET("/health", healthHandler.Health)

	v1 := router.Group("/api/v1")
	{
		// Issuance and open queries need no caller identity.
		v1.POST("/mint", ledgerHandler.Mint)
		v1.POST("/mint-batch", ledgerHandler.MintBatch)
		v1.GET("/holders/:address/assets/:asset_id/balance", ledgerHandler.GetBalance)
		v1.GET("/holders/:address/assets/:asset_id/frozen-balance", recordHandler.GetFrozenBalance)
		v1.GET("/holders/:address/assets/:asset_id/available-balance", recordHandler.GetAvailableBalance)
		v1.GET("/holders/:address/assets/:asset_id/records", recordHandler.ListRecords)
		v1.GET("/users/:address/assets/:asset_id/usable-balance", recordHandler.GetUsableBalance)
		v1.GET("/records/:record_id", recordHandler.GetRecord)

		// Owner-scoped mutations resolve the caller from the wallet header.
		gated := v1.Group("")
		gated.Use(handlers.CallerAddressMiddleware())
		{
			gated.POST("/records", recordHandler.CreateRecord)
			gated.DELETE("/records/:record_id", recordHandler.DeleteRecord)
			gated.POST("/transfers", ledgerHandler.Transfer)
			gated.POST("/approvals", ledgerHandler.SetApprovalForAll)
		}
	}

	return router
}

// NewRouter initializes handlers around the given service and returns a
// configured router. Tests use it to run the full HTTP surface against
// in-memory state.
func NewRouter(service *services.RightsService) *gin.Engine {
	recordHandler = handlers.NewRecordHandler(service)
	ledgerHandler = handlers.NewLedgerHandler(service)
	healthHandler = handlers.NewHealthHandler()
	return SetupRouter()
}
