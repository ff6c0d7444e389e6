package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medledger/internal/domain"
	dErrors "medledger/pkg/domain-errors"
)

var testOperator = domain.Operator{
	Address: "0x90f8bf6a479f320ead074411a4b0e7944ea8c9c1",
	Key:     "test-operator-key",
}

func bridgeStub(t *testing.T, handle func(req rpcRequest) rpcResponse) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(handle(req))
	}))
}

func TestHTTPClient_RegisterIdentity_SignsAsOperator(t *testing.T) {
	var got rpcRequest
	srv := bridgeStub(t, func(req rpcRequest) rpcResponse {
		got = req
		return rpcResponse{Result: json.RawMessage(`{}`)}
	})
	defer srv.Close()

	c := NewHTTPClient(srv.URL, testOperator, time.Second)
	err := c.RegisterIdentity(context.Background(), "0xAB5801A7D398351B8BE11C439E05C5B3259AEC9B", "alice", domain.RoleDoctor)

	require.NoError(t, err)
	assert.Equal(t, "registerUser", got.Method)
	assert.Equal(t, testOperator.Address, got.From, "identity writes come from the operator, not the user")
	assert.Equal(t, testOperator.Key, got.Key)

	params := got.Params.(map[string]any)
	assert.Equal(t, "0xab5801a7d398351b8be11c439e05c5b3259aec9b", params["wallet"], "wallet normalized to lowercase")
	assert.EqualValues(t, 2, params["role"], "role travels as its wire ordinal")
}

func TestHTTPClient_GetIdentity(t *testing.T) {
	srv := bridgeStub(t, func(req rpcRequest) rpcResponse {
		return rpcResponse{Result: json.RawMessage(`{"username":"alice","role":2}`)}
	})
	defer srv.Close()

	c := NewHTTPClient(srv.URL, testOperator, time.Second)
	ident, err := c.GetIdentity(context.Background(), "0xAB5801A7D398351B8BE11C439E05C5B3259AEC9B")

	require.NoError(t, err)
	assert.Equal(t, domain.RoleDoctor, ident.Role)
	assert.Equal(t, "alice", ident.Username)
	assert.Equal(t, "0xab5801a7d398351b8be11c439e05c5b3259aec9b", ident.Wallet)
}

func TestHTTPClient_GetIdentity_Unregistered(t *testing.T) {
	srv := bridgeStub(t, func(req rpcRequest) rpcResponse {
		return rpcResponse{Error: &rpcError{Message: "execution reverted: User is not registered", Revert: true}}
	})
	defer srv.Close()

	c := NewHTTPClient(srv.URL, testOperator, time.Second)
	_, err := c.GetIdentity(context.Background(), "0xab5801a7d398351b8be11c439e05c5b3259aec9b")

	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnregisteredOnLedger))
}

func TestHTTPClient_AddRecord_RevertClassified(t *testing.T) {
	srv := bridgeStub(t, func(req rpcRequest) rpcResponse {
		return rpcResponse{Error: &rpcError{Message: "execution reverted: Only Doctors can add records on blockchain", Revert: true}}
	})
	defer srv.Close()

	c := NewHTTPClient(srv.URL, testOperator, time.Second)
	err := c.AddRecord(context.Background(), "0xffcf8fdee72ac11b5c542428b35eef5769c409f0", domain.MedicalRecord{
		Patient: "0x22d491bde2303f2f43325b2108d26f1eaba1e32b", DataRef: "cid123",
		Description: "flu", DrugUsed: "Tamiflu", Quantity: 2, Cause: "flu",
	})

	assert.True(t, dErrors.HasCode(err, dErrors.CodePermissionDenied))
}

func TestHTTPClient_GetPatientRecords(t *testing.T) {
	srv := bridgeStub(t, func(req rpcRequest) rpcResponse {
		assert.Equal(t, "getPatientRecords", req.Method)
		return rpcResponse{Result: json.RawMessage(`[
			{"dataHash":"cid123","description":"flu visit","drugUsed":"Tamiflu","quantity":2,"cause":"flu","creator":"0xffcf8fdee72ac11b5c542428b35eef5769c409f0","timestamp":1700000000}
		]`)}
	})
	defer srv.Close()

	c := NewHTTPClient(srv.URL, testOperator, time.Second)
	recs, err := c.GetPatientRecords(context.Background(), "0xffcf8fdee72ac11b5c542428b35eef5769c409f0", "0x22D491BDE2303F2F43325B2108D26F1EABA1E32B")

	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "cid123", recs[0].DataRef)
	assert.Equal(t, "Tamiflu", recs[0].DrugUsed)
	assert.EqualValues(t, 2, recs[0].Quantity)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), recs[0].Timestamp)
	assert.Equal(t, "0x22d491bde2303f2f43325b2108d26f1eaba1e32b", recs[0].Patient)
}

func TestHTTPClient_GetDrugDetails_ParallelArrays(t *testing.T) {
	srv := bridgeStub(t, func(req rpcRequest) rpcResponse {
		assert.Equal(t, "getDrugDetailsForManufacturer", req.Method)
		return rpcResponse{Result: json.RawMessage(`{
			"dataHashes":["cid123"],"drugsUsed":["Tamiflu"],"quantities":[2],
			"causes":["flu"],"timestamps":[1700000000],"creators":["0xffcf8fdee72ac11b5c542428b35eef5769c409f0"]
		}`)}
	})
	defer srv.Close()

	c := NewHTTPClient(srv.URL, testOperator, time.Second)
	cols, err := c.GetDrugDetails(context.Background(), "0x5aeda56215b167893e80b4fe645ba6d5bab767de", "0x22d491bde2303f2f43325b2108d26f1eaba1e32b")

	require.NoError(t, err)
	assert.Equal(t, 1, cols.Len())
	assert.Equal(t, []string{"Tamiflu"}, cols.Drugs)
	assert.Equal(t, []uint64{2}, cols.Quantities)
	assert.Equal(t, []string{"flu"}, cols.Causes)
}

func TestHTTPClient_BridgeDown(t *testing.T) {
	srv := bridgeStub(t, nil)
	srv.Close() // connection refused from here on

	c := NewHTTPClient(srv.URL, testOperator, time.Second)
	_, err := c.GetIdentity(context.Background(), "0xab5801a7d398351b8be11c439e05c5b3259aec9b")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeLedgerUnavailable))
}

func TestHTTPClient_MutatingTimeout_SubmissionUncertain(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer func() { close(block); srv.Close() }()

	c := NewHTTPClient(srv.URL, testOperator, 50*time.Millisecond)
	err := c.RegisterIdentity(context.Background(), "0xab5801a7d398351b8be11c439e05c5b3259aec9b", "alice", domain.RolePatient)

	assert.True(t, dErrors.HasCode(err, dErrors.CodeSubmissionUncertain),
		"a mutating call that timed out after submission must not look like a plain failure, got %v", err)
}

func TestHTTPClient_ReadTimeout_Unavailable(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer func() { close(block); srv.Close() }()

	c := NewHTTPClient(srv.URL, testOperator, 50*time.Millisecond)
	_, err := c.GetPatientRecords(context.Background(), "0xab5801a7d398351b8be11c439e05c5b3259aec9b", "0x22d491bde2303f2f43325b2108d26f1eaba1e32b")

	assert.True(t, dErrors.HasCode(err, dErrors.CodeLedgerUnavailable),
		"read timeouts carry no duplication risk and stay plain unavailability, got %v", err)
}

func TestHTTPClient_BridgeInternalError(t *testing.T) {
	srv := bridgeStub(t, func(req rpcRequest) rpcResponse {
		return rpcResponse{Error: &rpcError{Message: "nonce gap", Revert: false}}
	})
	defer srv.Close()

	c := NewHTTPClient(srv.URL, testOperator, time.Second)
	err := c.RegisterIdentity(context.Background(), "0xab5801a7d398351b8be11c439e05c5b3259aec9b", "alice", domain.RolePatient)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeLedgerUnavailable))
}
