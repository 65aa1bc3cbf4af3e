package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rentium/rentium-api/internal/helpers"
	"github.com/rentium/rentium-api/internal/rights"
	"github.com/rentium/rentium-api/internal/services"
)

// RecordHandler handles delegation-record operations and the frozen,
// available and usable balance queries derived from them.
type RecordHandler struct {
	service *services.RightsService
}

// NewRecordHandler creates a new RecordHandler instance
func NewRecordHandler(service *services.RightsService) *RecordHandler {
	return &RecordHandler{service: service}
}

// CreateRecordRequest is the payload for creating a delegation record
type CreateRecordRequest struct {
	Owner     string `json:"owner" binding:"required"`
	User      string `json:"user" binding:"required"`
	AssetID   uint64 `json:"asset_id"`
	Amount    uint64 `json:"amount"`
	ExpiresAt int64  `json:"expires_at"`
}

// RecordResponse represents one delegation record
type RecordResponse struct {
	ID        uint64 `json:"id"`
	Owner     string `json:"owner"`
	User      string `json:"user"`
	AssetID   uint64 `json:"asset_id"`
	Amount    uint64 `json:"amount"`
	ExpiresAt int64  `json:"expires_at"`
}

// CreateRecordResponse carries the id of a freshly created record
type CreateRecordResponse struct {
	RecordID uint64 `json:"record_id"`
}

func recordResponse(rec rights.Record) RecordResponse {
	return RecordResponse{
		ID:        rec.ID,
		Owner:     rec.Owner.Hex(),
		User:      rec.User.Hex(),
		AssetID:   rec.AssetID,
		Amount:    rec.Amount,
		ExpiresAt: rec.Expiry.Unix(),
	}
}

// CreateRecord godoc
// @Summary      Create a delegation record
// @Description  Grants a user a time-bound right to use a bounded quantity of the owner's asset
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        request  body  CreateRecordRequest  true  "Record creation request"
// @Success      201  {object}  CreateRecordResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /records [post]
func (h *RecordHandler) CreateRecord(c *gin.Context) {
	var req CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	owner, err := helpers.ParseAddress(req.Owner)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid owner address", err)
		return
	}
	user, err := helpers.ParseAddress(req.User)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid user address", err)
		return
	}

	recordID, err := h.service.CreateUserRecord(c.Request.Context(), callerAddress(c), services.CreateUserRecordParams{
		Owner:   owner,
		User:    user,
		AssetID: req.AssetID,
		Amount:  req.Amount,
		Expiry:  time.Unix(req.ExpiresAt, 0),
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	sendSuccess(c, http.StatusCreated, CreateRecordResponse{RecordID: recordID})
}

// DeleteRecord godoc
// @Summary      Delete a delegation record
// @Description  Removes a record and immediately frees its frozen quantity
// @Tags         records
// @Produce      json
// @Param        record_id  path  int  true  "Record id"
// @Success      200  {object}  SuccessResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /records/{record_id} [delete]
func (h *RecordHandler) DeleteRecord(c *gin.Context) {
	recordID, ok := recordIDParam(c)
	if !ok {
		return
	}

	if err := h.service.DeleteUserRecord(c.Request.Context(), callerAddress(c), recordID); err != nil {
		handleServiceError(c, err)
		return
	}

	sendSuccessMessage(c, http.StatusOK, "record deleted")
}

// GetRecord godoc
// @Summary      Fetch a delegation record
// @Description  Returns a record by id; expired records read as not found
// @Tags         records
// @Produce      json
// @Param        record_id  path  int  true  "Record id"
// @Success      200  {object}  RecordResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /records/{record_id} [get]
func (h *RecordHandler) GetRecord(c *gin.Context) {
	recordID, ok := recordIDParam(c)
	if !ok {
		return
	}

	rec, err := h.service.GetRecord(c.Request.Context(), recordID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, recordResponse(rec))
}

// ListRecords godoc
// @Summary      List a pair's records
// @Description  Returns the unexpired records of an (owner, asset) pair in creation order
// @Tags         records
// @Produce      json
// @Param        address   path  string  true  "Owner address"
// @Param        asset_id  path  int     true  "Asset id"
// @Success      200  {object}  map[string]interface{}
// @Router       /holders/{address}/assets/{asset_id}/records [get]
func (h *RecordHandler) ListRecords(c *gin.Context) {
	owner, assetID, ok := holderAssetParams(c)
	if !ok {
		return
	}

	records := h.service.RecordsFor(c.Request.Context(), owner, assetID)
	out := make([]RecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, recordResponse(rec))
	}

	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   out,
	})
}

// GetFrozenBalance godoc
// @Summary      Frozen balance
// @Description  Returns the quantity currently delegated and not yet expired
// @Tags         records
// @Produce      json
// @Param        address   path  string  true  "Owner address"
// @Param        asset_id  path  int     true  "Asset id"
// @Success      200  {object}  BalanceResponse
// @Router       /holders/{address}/assets/{asset_id}/frozen-balance [get]
func (h *RecordHandler) GetFrozenBalance(c *gin.Context) {
	owner, assetID, ok := holderAssetParams(c)
	if !ok {
		return
	}

	sendSuccess(c, http.StatusOK, BalanceResponse{
		Holder:  owner.Hex(),
		AssetID: assetID,
		Balance: h.service.FrozenBalanceOf(c.Request.Context(), owner, assetID),
	})
}

// GetAvailableBalance godoc
// @Summary      Available balance
// @Description  Returns the raw balance minus frozen quantity
// @Tags         records
// @Produce      json
// @Param        address   path  string  true  "Owner address"
// @Param        asset_id  path  int     true  "Asset id"
// @Success      200  {object}  BalanceResponse
// @Router       /holders/{address}/assets/{asset_id}/available-balance [get]
func (h *RecordHandler) GetAvailableBalance(c *gin.Context) {
	owner, assetID, ok := holderAssetParams(c)
	if !ok {
		return
	}

	available, err := h.service.AvailableBalanceOf(c.Request.Context(), owner, assetID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, BalanceResponse{
		Holder:  owner.Hex(),
		AssetID: assetID,
		Balance: available,
	})
}

// GetUsableBalance godoc
// @Summary      Usable balance
// @Description  Returns the quantity delegated to a user across all owners
// @Tags         records
// @Produce      json
// @Param        address   path  string  true  "User address"
// @Param        asset_id  path  int     true  "Asset id"
// @Success      200  {object}  BalanceResponse
// @Router       /users/{address}/assets/{asset_id}/usable-balance [get]
func (h *RecordHandler) GetUsableBalance(c *gin.Context) {
	user, assetID, ok := holderAssetParams(c)
	if !ok {
		return
	}

	sendSuccess(c, http.StatusOK, BalanceResponse{
		Holder:  user.Hex(),
		AssetID: assetID,
		Balance: h.service.UsableBalanceOf(c.Request.Context(), user, assetID),
	})
}

// recordIDParam parses the :record_id path parameter.
func recordIDParam(c *gin.Context) (uint64, bool) {
	recordID, err := strconv.ParseUint(c.Param("record_id"), 10, 64)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid record id", err)
		return 0, false
	}
	return recordID, true
}
