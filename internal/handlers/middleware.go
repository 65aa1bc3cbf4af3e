package handlers

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rentium/rentium-api/internal/helpers"
)

const (
	// CallerAddressHeader carries the wallet address the request acts as.
	CallerAddressHeader = "X-Wallet-Address"

	// RequestIDHeader is echoed back on every response.
	RequestIDHeader = "X-Request-ID"

	callerContextKey = "caller_address"
)

// RequestIDMiddleware assigns each request a unique id, reusing the one the
// client supplied when present.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(RequestIDHeader, requestID)
		c.Set("request_id", requestID)
		c.Next()
	}
}

// CallerAddressMiddleware resolves the caller identity from the
// X-Wallet-Address header. Routes that mutate owner-scoped state mount it;
// the domain layer decides whether that identity is authorized.
func CallerAddressMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(CallerAddressHeader)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Error: "missing " + CallerAddressHeader + " header",
			})
			return
		}

		caller, err := helpers.ParseAddress(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Error: "invalid " + CallerAddressHeader + " header",
			})
			return
		}

		c.Set(callerContextKey, caller)
		c.Next()
	}
}

// callerAddress returns the address CallerAddressMiddleware stored.
func callerAddress(c *gin.Context) common.Address {
	caller, _ := c.Get(callerContextKey)
	addr, _ := caller.(common.Address)
	return addr
}
