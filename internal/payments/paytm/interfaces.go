package paytm

import (
	"context"

	"github.com/shopspring/decimal"
)

type GatewayInterface interface {
	BuildInitiationParams(orderID string, amount decimal.Decimal, customer CustomerInfo) (Initiation, error)
	VerifyCallback(params map[string]string) bool
	ParseOrderID(gatewayOrderID string) string
	QueryStatus(ctx context.Context, orderID string) (map[string]any, error)
}

var _ GatewayInterface = (*Gateway)(nil)
