package handlers

import (
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/rentium/rentium-api/internal/helpers"
	"github.com/rentium/rentium-api/internal/services"
)

// LedgerHandler handles issuance, approvals, balance queries and the
// available-balance-gated transfer.
type LedgerHandler struct {
	service *services.RightsService
}

// NewLedgerHandler creates a new LedgerHandler instance
func NewLedgerHandler(service *services.RightsService) *LedgerHandler {
	return &LedgerHandler{service: service}
}

// MintRequest is the payload for minting units of a single asset
type MintRequest struct {
	To      string `json:"to" binding:"required"`
	AssetID uint64 `json:"asset_id"`
	Amount  uint64 `json:"amount"`
	Data    []byte `json:"data,omitempty"`
}

// MintBatchRequest is the payload for minting several assets in one call
type MintBatchRequest struct {
	To       string   `json:"to" binding:"required"`
	AssetIDs []uint64 `json:"asset_ids" binding:"required"`
	Amounts  []uint64 `json:"amounts" binding:"required"`
	Data     []byte   `json:"data,omitempty"`
}

// TransferRequest is the payload for a gated transfer
type TransferRequest struct {
	From    string `json:"from" binding:"required"`
	To      string `json:"to" binding:"required"`
	AssetID uint64 `json:"asset_id"`
	Amount  uint64 `json:"amount"`
}

// ApprovalRequest is the payload for granting or revoking an operator
type ApprovalRequest struct {
	Operator string `json:"operator" binding:"required"`
	Approved bool   `json:"approved"`
}

// BalanceResponse reports one balance figure for a (holder, asset) pair
type BalanceResponse struct {
	Holder  string `json:"holder"`
	AssetID uint64 `json:"asset_id"`
	Balance uint64 `json:"balance"`
}

// Mint godoc
// @Summary      Mint units of an asset
// @Description  Credits freshly issued units of one asset to a holder
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        request  body  MintRequest  true  "Mint request"
// @Success      200  {object}  SuccessResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /mint [post]
func (h *LedgerHandler) Mint(c *gin.Context) {
	var req MintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	to, err := helpers.ParseAddress(req.To)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid receiver address", err)
		return
	}

	if err := h.service.Mint(c.Request.Context(), to, req.AssetID, req.Amount, req.Data); err != nil {
		handleServiceError(c, err)
		return
	}

	sendSuccessMessage(c, http.StatusOK, "minted")
}

// MintBatch godoc
// @Summary      Mint several assets
// @Description  Credits several assets to one holder in a single call
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        request  body  MintBatchRequest  true  "Batch mint request"
// @Success      200  {object}  SuccessResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /mint-batch [post]
func (h *LedgerHandler) MintBatch(c *gin.Context) {
	var req MintBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	to, err := helpers.ParseAddress(req.To)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid receiver address", err)
		return
	}

	if err := h.service.MintBatch(c.Request.Context(), to, req.AssetIDs, req.Amounts, req.Data); err != nil {
		handleServiceError(c, err)
		return
	}

	sendSuccessMessage(c, http.StatusOK, "minted")
}

// Transfer godoc
// @Summary      Transfer units
// @Description  Moves units between holders, gated by the sender's available balance
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        request  body  TransferRequest  true  "Transfer request"
// @Success      200  {object}  SuccessResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /transfers [post]
func (h *LedgerHandler) Transfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	from, err := helpers.ParseAddress(req.From)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid sender address", err)
		return
	}
	to, err := helpers.ParseAddress(req.To)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid receiver address", err)
		return
	}

	if err := h.service.Transfer(c.Request.Context(), callerAddress(c), from, to, req.AssetID, req.Amount); err != nil {
		handleServiceError(c, err)
		return
	}

	sendSuccessMessage(c, http.StatusOK, "transferred")
}

// SetApprovalForAll godoc
// @Summary      Grant or revoke an operator
// @Description  Lets the caller approve an operator to act on its behalf across all assets
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        request  body  ApprovalRequest  true  "Approval request"
// @Success      200  {object}  SuccessResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /approvals [post]
func (h *LedgerHandler) SetApprovalForAll(c *gin.Context) {
	var req ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	operator, err := helpers.ParseAddress(req.Operator)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid operator address", err)
		return
	}

	if err := h.service.SetApprovalForAll(c.Request.Context(), callerAddress(c), operator, req.Approved); err != nil {
		handleServiceError(c, err)
		return
	}

	sendSuccessMessage(c, http.StatusOK, "approval updated")
}

// GetBalance godoc
// @Summary      Raw balance
// @Description  Returns the holder's raw balance, including frozen quantity
// @Tags         ledger
// @Produce      json
// @Param        address   path  string  true  "Holder address"
// @Param        asset_id  path  int     true  "Asset id"
// @Success      200  {object}  BalanceResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /holders/{address}/assets/{asset_id}/balance [get]
func (h *LedgerHandler) GetBalance(c *gin.Context) {
	holder, assetID, ok := holderAssetParams(c)
	if !ok {
		return
	}

	balance, err := h.service.BalanceOf(c.Request.Context(), holder, assetID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, BalanceResponse{
		Holder:  holder.Hex(),
		AssetID: assetID,
		Balance: balance,
	})
}

// holderAssetParams parses the :address and :asset_id path parameters,
// answering the request itself when either is malformed.
func holderAssetParams(c *gin.Context) (holder common.Address, assetID uint64, ok bool) {
	holder, err := helpers.ParseAddress(c.Param("address"))
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid address format", err)
		return holder, 0, false
	}

	assetID, err = strconv.ParseUint(c.Param("asset_id"), 10, 64)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid asset id", err)
		return holder, 0, false
	}

	return holder, assetID, true
}
