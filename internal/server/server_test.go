package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/rentium/rentium-api/internal/logger"
	"github.com/rentium/rentium-api/internal/server"
	"github.com/rentium/rentium-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.InitLogger("test")
}

const (
	ownerAddr    = "0x1111111111111111111111111111111111111111"
	renterAddr   = "0x2222222222222222222222222222222222222222"
	operatorAddr = "0x3333333333333333333333333333333333333333"
	strangerAddr = "0x4444444444444444444444444444444444444444"
	zeroAddr     = "0x0000000000000000000000000000000000000000"
)

var epoch = time.Unix(1_700_000_000, 0)

type testAPI struct {
	t       *testing.T
	baseURL string
	client  *http.Client
	clock   time.Time
}

// newTestAPI stands up the full router over in-memory state with a pinned
// clock and 5 units each of assets 1..5 minted to the owner.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	service, _ := testutil.NewService(t, 3)
	api := &testAPI{t: t, client: http.DefaultClient, clock: epoch}
	service.SetTimeSource(func() time.Time { return api.clock })

	ts := testutil.TestServer(t, server.NewRouter(service))
	api.baseURL = ts.URL

	resp := api.request(http.MethodPost, "/api/v1/mint-batch", "", map[string]interface{}{
		"to":        ownerAddr,
		"asset_ids": []uint64{1, 2, 3, 4, 5},
		"amounts":   []uint64{5, 5, 5, 5, 5},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	return api
}

func (a *testAPI) request(method, path, caller string, body interface{}) *http.Response {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, a.baseURL+path, reader)
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", "application/json")
	if caller != "" {
		req.Header.Set("X-Wallet-Address", caller)
	}

	resp, err := a.client.Do(req)
	require.NoError(a.t, err)
	return resp
}

func (a *testAPI) decode(resp *http.Response, out interface{}) {
	a.t.Helper()
	defer resp.Body.Close()
	require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out))
}

func (a *testAPI) createRecord(caller string, amount uint64, expiresAt int64) *http.Response {
	return a.request(http.MethodPost, "/api/v1/records", caller, map[string]interface{}{
		"owner":      ownerAddr,
		"user":       renterAddr,
		"asset_id":   3,
		"amount":     amount,
		"expires_at": expiresAt,
	})
}

func (a *testAPI) balance(path string) uint64 {
	a.t.Helper()

	resp := a.request(http.MethodGet, path, "", nil)
	require.Equal(a.t, http.StatusOK, resp.StatusCode)

	var out struct {
		Balance uint64 `json:"balance"`
	}
	a.decode(resp, &out)
	return out.Balance
}

func TestHealthEndpoint(t *testing.T) {
	api := newTestAPI(t)

	resp := api.request(http.MethodGet, "/health", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMintAndBalances(t *testing.T) {
	api := newTestAPI(t)

	for assetID := 1; assetID <= 5; assetID++ {
		path := fmt.Sprintf("/api/v1/holders/%s/assets/%d/balance", ownerAddr, assetID)
		assert.Equal(t, uint64(5), api.balance(path))
	}

	resp := api.request(http.MethodPost, "/api/v1/mint", "", map[string]interface{}{
		"to":       renterAddr,
		"asset_id": 1,
		"amount":   2,
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	path := fmt.Sprintf("/api/v1/holders/%s/assets/1/balance", renterAddr)
	assert.Equal(t, uint64(2), api.balance(path))
}

func TestCreateAndDeleteRecordOverHTTP(t *testing.T) {
	api := newTestAPI(t)

	resp := api.createRecord(ownerAddr, 2, epoch.Add(100*time.Second).Unix())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		RecordID uint64 `json:"record_id"`
	}
	api.decode(resp, &created)
	assert.Equal(t, uint64(1), created.RecordID)

	frozenPath := fmt.Sprintf("/api/v1/holders/%s/assets/3/frozen-balance", ownerAddr)
	availablePath := fmt.Sprintf("/api/v1/holders/%s/assets/3/available-balance", ownerAddr)
	assert.Equal(t, uint64(2), api.balance(frozenPath))
	assert.Equal(t, uint64(3), api.balance(availablePath))

	resp = api.request(http.MethodDelete, fmt.Sprintf("/api/v1/records/%d", created.RecordID), ownerAddr, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Zero(t, api.balance(frozenPath))
	assert.Equal(t, uint64(5), api.balance(availablePath))
}

func TestCreateRecordRejections(t *testing.T) {
	api := newTestAPI(t)
	future := epoch.Add(100 * time.Second).Unix()

	tests := []struct {
		name       string
		caller     string
		body       map[string]interface{}
		wantStatus int
	}{
		{
			name:   "amount above balance",
			caller: ownerAddr,
			body: map[string]interface{}{
				"owner": ownerAddr, "user": renterAddr,
				"asset_id": 3, "amount": 6, "expires_at": future,
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:   "zero user address",
			caller: ownerAddr,
			body: map[string]interface{}{
				"owner": ownerAddr, "user": zeroAddr,
				"asset_id": 3, "amount": 1, "expires_at": future,
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "zero amount",
			caller: ownerAddr,
			body: map[string]interface{}{
				"owner": ownerAddr, "user": renterAddr,
				"asset_id": 3, "amount": 0, "expires_at": future,
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "expiry in the past",
			caller: ownerAddr,
			body: map[string]interface{}{
				"owner": ownerAddr, "user": renterAddr,
				"asset_id": 3, "amount": 1, "expires_at": epoch.Unix(),
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "unauthorized caller",
			caller: strangerAddr,
			body: map[string]interface{}{
				"owner": ownerAddr, "user": renterAddr,
				"asset_id": 3, "amount": 1, "expires_at": future,
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:   "malformed owner address",
			caller: ownerAddr,
			body: map[string]interface{}{
				"owner": "not-an-address", "user": renterAddr,
				"asset_id": 3, "amount": 1, "expires_at": future,
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := api.request(http.MethodPost, "/api/v1/records", tt.caller, tt.body)
			resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestRecordLimitOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	future := epoch.Add(100 * time.Second).Unix()

	for i := 0; i < 3; i++ {
		resp := api.createRecord(ownerAddr, 1, future)
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := api.createRecord(ownerAddr, 1, future)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestMissingCallerHeader(t *testing.T) {
	api := newTestAPI(t)

	resp := api.createRecord("", 1, epoch.Add(100*time.Second).Unix())
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = api.request(http.MethodPost, "/api/v1/records", "garbage", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTransferOverHTTP(t *testing.T) {
	api := newTestAPI(t)

	resp := api.createRecord(ownerAddr, 2, epoch.Add(100*time.Second).Unix())
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	transfer := func(caller string, amount uint64) *http.Response {
		return api.request(http.MethodPost, "/api/v1/transfers", caller, map[string]interface{}{
			"from": ownerAddr, "to": renterAddr, "asset_id": 3, "amount": amount,
		})
	}

	// 4 exceeds the available 3
	resp = transfer(ownerAddr, 4)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Exactly the available amount passes
	resp = transfer(ownerAddr, 3)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// A stranger cannot move the owner's units
	resp = transfer(strangerAddr, 1)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	path := fmt.Sprintf("/api/v1/holders/%s/assets/3/balance", renterAddr)
	assert.Equal(t, uint64(3), api.balance(path))
}

func TestApprovalsOverHTTP(t *testing.T) {
	api := newTestAPI(t)

	resp := api.request(http.MethodPost, "/api/v1/approvals", ownerAddr, map[string]interface{}{
		"operator": operatorAddr,
		"approved": true,
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The operator can now create records on the owner's behalf
	resp = api.createRecord(operatorAddr, 1, epoch.Add(100*time.Second).Unix())
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestGetRecordAndLazyExpiryOverHTTP(t *testing.T) {
	api := newTestAPI(t)

	resp := api.createRecord(ownerAddr, 2, epoch.Add(100*time.Second).Unix())
	var created struct {
		RecordID uint64 `json:"record_id"`
	}
	api.decode(resp, &created)

	recordPath := fmt.Sprintf("/api/v1/records/%d", created.RecordID)
	resp = api.request(http.MethodGet, recordPath, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rec struct {
		ID        uint64 `json:"id"`
		Owner     string `json:"owner"`
		User      string `json:"user"`
		AssetID   uint64 `json:"asset_id"`
		Amount    uint64 `json:"amount"`
		ExpiresAt int64  `json:"expires_at"`
	}
	api.decode(resp, &rec)
	assert.Equal(t, created.RecordID, rec.ID)
	assert.Equal(t, ownerAddr, rec.Owner)
	assert.Equal(t, renterAddr, rec.User)
	assert.Equal(t, uint64(2), rec.Amount)

	usablePath := fmt.Sprintf("/api/v1/users/%s/assets/3/usable-balance", renterAddr)
	assert.Equal(t, uint64(2), api.balance(usablePath))

	// Advance the service clock past expiry; nothing was deleted
	api.clock = api.clock.Add(101 * time.Second)

	resp = api.request(http.MethodGet, recordPath, "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	frozenPath := fmt.Sprintf("/api/v1/holders/%s/assets/3/frozen-balance", ownerAddr)
	assert.Zero(t, api.balance(frozenPath))
	assert.Zero(t, api.balance(usablePath))
}

func TestListRecordsOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	future := epoch.Add(100 * time.Second).Unix()

	for i := 0; i < 2; i++ {
		resp := api.createRecord(ownerAddr, 1, future)
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := api.request(http.MethodGet,
		fmt.Sprintf("/api/v1/holders/%s/assets/3/records", ownerAddr), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list struct {
		Object string `json:"object"`
		Data   []struct {
			ID uint64 `json:"id"`
		} `json:"data"`
	}
	api.decode(resp, &list)
	assert.Equal(t, "list", list.Object)
	require.Len(t, list.Data, 2)
	assert.Equal(t, uint64(1), list.Data[0].ID)
	assert.Equal(t, uint64(2), list.Data[1].ID)
}

func TestMalformedPathParameters(t *testing.T) {
	api := newTestAPI(t)

	resp := api.request(http.MethodGet, "/api/v1/holders/bogus/assets/3/balance", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = api.request(http.MethodGet,
		fmt.Sprintf("/api/v1/holders/%s/assets/abc/balance", ownerAddr), "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = api.request(http.MethodGet, "/api/v1/records/abc", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = api.request(http.MethodDelete, "/api/v1/records/999", ownerAddr, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMintBatchLengthMismatchOverHTTP(t *testing.T) {
	api := newTestAPI(t)

	resp := api.request(http.MethodPost, "/api/v1/mint-batch", "", map[string]interface{}{
		"to":        ownerAddr,
		"asset_ids": []uint64{1, 2},
		"amounts":   []uint64{5},
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
