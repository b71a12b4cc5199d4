package paytm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type statusRequest struct {
	Body map[string]string `json:"body"`
}

// QueryStatus performs a signed order status lookup. An orderID that already
// carries the merchant prefix is sent as is; otherwise a transaction id is
// derived from it. The decoded response is returned uninterpreted.
func (g *Gateway) QueryStatus(ctx context.Context, orderID string) (map[string]any, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, fmt.Errorf("%w: order id is required", ErrInvalidRequest)
	}
	gatewayOrderID := orderID
	if g.cfg.OrderIDPrefix == "" || !strings.HasPrefix(orderID, g.cfg.OrderIDPrefix) {
		gatewayOrderID = g.newTxnID(orderID)
	}

	params := map[string]string{
		FieldMID:             g.cfg.MerchantID,
		FieldCallbackOrderID: gatewayOrderID,
	}
	signature, err := GenerateSignature(params, g.cfg.MerchantKey)
	if err != nil {
		return nil, err
	}
	params[FieldChecksum] = signature

	payload, err := json.Marshal(statusRequest{Body: params})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.StatusURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paytm: status query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("paytm: status query returned status %d", resp.StatusCode)
	}

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("paytm: decode status response: %w", err)
	}
	return out, nil
}
