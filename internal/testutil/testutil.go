// Package testutil holds shared helpers for tests: gin test servers and
// pre-wired in-memory service instances.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rentium/rentium-api/internal/ledger"
	"github.com/rentium/rentium-api/internal/rights"
	"github.com/rentium/rentium-api/internal/services"
)

// TestServer creates a test HTTP server with Gin
func TestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

// NewService builds a rights service over fresh in-memory state with the
// given per-pair record cap. No journal is attached.
func NewService(t *testing.T, maxRecords int) (*services.RightsService, *ledger.MemoryLedger) {
	t.Helper()

	baseLedger := ledger.NewMemoryLedger()
	store := rights.NewStore(maxRecords)
	return services.NewRightsService(baseLedger, store, nil), baseLedger
}
