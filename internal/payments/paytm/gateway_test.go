package paytm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.UnixMilli(1700000000000)

func newTestGateway(t *testing.T, cfg Config) *Gateway {
	t.Helper()
	if cfg.MerchantID == "" {
		cfg.MerchantID = "merchant01"
	}
	if cfg.MerchantKey == "" {
		cfg.MerchantKey = testKey
	}
	if cfg.OrderIDPrefix == "" {
		cfg.OrderIDPrefix = "AARAMB_"
	}
	cfg.Website = "WEBSTAGING"
	cfg.ChannelID = "WEB"
	cfg.IndustryType = "Retail"
	cfg.CallbackURL = "http://localhost/callback"

	g, err := New(cfg, WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return g
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config{MerchantKey: testKey})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	for _, key := range []string{"short", testKey + "abcdefgh", testKey + testKey} {
		_, err = New(Config{MerchantID: "m", MerchantKey: key})
		assert.ErrorIs(t, err, ErrInvalidRequest, "key of %d bytes", len(key))
	}

	g, err := New(Config{MerchantID: "m", MerchantKey: testKey})
	require.NoError(t, err)
	assert.Equal(t, stagingTransactionURL, g.TransactionURL())

	g, err = New(Config{MerchantID: "m", MerchantKey: testKey, Production: true})
	require.NoError(t, err)
	assert.Equal(t, productionTransactionURL, g.TransactionURL())
}

func TestBuildInitiationParams(t *testing.T) {
	g := newTestGateway(t, Config{})

	initiation, err := g.BuildInitiationParams("42", decimal.RequireFromString("499.5"), CustomerInfo{Email: "a@b.c", Phone: "9999999999"})
	require.NoError(t, err)

	assert.Equal(t, "AARAMB_42_1700000000000", initiation.TxnID)
	assert.Equal(t, initiation.TxnID, initiation.Params[FieldOrderID])
	assert.Equal(t, "merchant01", initiation.Params[FieldMID])
	assert.Equal(t, "499.5", initiation.Params[FieldTxnAmount])
	assert.Equal(t, "a@b.c", initiation.Params[FieldCustomerID])
	assert.Equal(t, "9999999999", initiation.Params[FieldMobile])
	assert.Equal(t, stagingTransactionURL, initiation.RedirectURL)
	assert.Equal(t, initiation.Signature, initiation.Params[FieldChecksum])
	assert.True(t, g.VerifyCallback(initiation.Params))
}

func TestBuildInitiationParamsValidation(t *testing.T) {
	g := newTestGateway(t, Config{})

	tests := []struct {
		name     string
		orderID  string
		amount   decimal.Decimal
		customer CustomerInfo
	}{
		{"empty order id", "", decimal.NewFromInt(10), CustomerInfo{Email: "a@b.c"}},
		{"order id with separator", "4_2", decimal.NewFromInt(10), CustomerInfo{Email: "a@b.c"}},
		{"zero amount", "42", decimal.Zero, CustomerInfo{Email: "a@b.c"}},
		{"negative amount", "42", decimal.NewFromInt(-1), CustomerInfo{Email: "a@b.c"}},
		{"missing email", "42", decimal.NewFromInt(10), CustomerInfo{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.BuildInitiationParams(tt.orderID, tt.amount, tt.customer)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestVerifyCallback(t *testing.T) {
	g := newTestGateway(t, Config{})

	params := map[string]string{
		FieldCallbackOrderID: "AARAMB_42_1700000000000",
		FieldTxnID:           "T1",
		FieldStatus:          StatusSuccess,
		FieldRespCode:        "01",
		FieldRespMsg:         "Txn Success",
		FieldCallbackAmount:  "499.00",
	}
	sig, err := GenerateSignature(params, testKey)
	require.NoError(t, err)
	params[FieldChecksum] = sig

	assert.True(t, g.VerifyCallback(params))

	cb := ParseCallback(params)
	assert.True(t, cb.Succeeded())
	assert.Equal(t, "42", g.ParseOrderID(cb.OrderID))

	params[FieldStatus] = "TXN_FAILURE"
	assert.False(t, g.VerifyCallback(params))

	delete(params, FieldChecksum)
	assert.False(t, g.VerifyCallback(params))
}

func TestParseOrderID(t *testing.T) {
	g := newTestGateway(t, Config{})

	assert.Equal(t, "42", g.ParseOrderID("AARAMB_42_1700000000000"))
	assert.Equal(t, "42", g.ParseOrderID("AARAMB_42"))
	assert.Equal(t, "42", g.ParseOrderID("42"))
	assert.Equal(t, "", g.ParseOrderID(""))
}

func TestQueryStatus(t *testing.T) {
	var received statusRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"body":{"resultInfo":{"resultStatus":"TXN_SUCCESS"}}}`))
	}))
	defer srv.Close()

	g := newTestGateway(t, Config{StatusURL: srv.URL})

	out, err := g.QueryStatus(context.Background(), "42")
	require.NoError(t, err)
	assert.Contains(t, out, "body")

	assert.Equal(t, "merchant01", received.Body[FieldMID])
	assert.Equal(t, "AARAMB_42_1700000000000", received.Body[FieldCallbackOrderID])
	assert.True(t, VerifySignature(received.Body, testKey, received.Body[FieldChecksum]))

	_, err = g.QueryStatus(context.Background(), "AARAMB_7_123")
	require.NoError(t, err)
	assert.Equal(t, "AARAMB_7_123", received.Body[FieldCallbackOrderID])
}

func TestQueryStatusErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	g := newTestGateway(t, Config{StatusURL: srv.URL})

	_, err := g.QueryStatus(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = g.QueryStatus(context.Background(), "42")
	assert.Error(t, err)
}
