package paytm

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	stagingTransactionURL    = "https://securegw-stage.paytm.in/theia/processTransaction"
	productionTransactionURL = "https://securegw.paytm.in/theia/processTransaction"
	stagingStatusURL         = "https://securegw-stage.paytm.in/v3/order/status"
	productionStatusURL      = "https://securegw.paytm.in/v3/order/status"

	defaultTimeout = 10 * time.Second
)

// Gateway field names.
const (
	FieldMID          = "MID"
	FieldWebsite      = "WEBSITE"
	FieldChannelID    = "CHANNEL_ID"
	FieldIndustryType = "INDUSTRY_TYPE_ID"
	FieldOrderID      = "ORDER_ID"
	FieldCustomerID   = "CUST_ID"
	FieldTxnAmount    = "TXN_AMOUNT"
	FieldCallbackURL  = "CALLBACK_URL"
	FieldEmail        = "EMAIL"
	FieldMobile       = "MOBILE_NO"
	FieldChecksum     = "CHECKSUMHASH"

	// Callback and status query fields.
	FieldCallbackOrderID = "ORDERID"
	FieldTxnID           = "TXNID"
	FieldStatus          = "STATUS"
	FieldRespCode        = "RESPCODE"
	FieldRespMsg         = "RESPMSG"
	FieldCallbackAmount  = "TXNAMOUNT"

	StatusSuccess = "TXN_SUCCESS"
)

var (
	ErrInvalidRequest = errors.New("paytm: invalid request")
	ErrSignature      = errors.New("paytm: signature failure")
)

// Config is the merchant configuration the gateway is built with.
type Config struct {
	MerchantID    string
	MerchantKey   string
	Website       string
	ChannelID     string
	IndustryType  string
	OrderIDPrefix string
	CallbackURL   string
	Production    bool
	Timeout       time.Duration

	// Endpoint overrides; empty selects staging or production by Production.
	TransactionURL string
	StatusURL      string
}

type CustomerInfo struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Initiation is everything the browser needs to post to the gateway.
type Initiation struct {
	Params      map[string]string `json:"paytmParams"`
	Signature   string            `json:"-"`
	RedirectURL string            `json:"transactionUrl"`
	TxnID       string            `json:"txnId"`
}

// Callback is the gateway's redirect payload. Its fields are only
// meaningful once VerifyCallback has accepted the raw parameters.
type Callback struct {
	OrderID  string
	TxnID    string
	Status   string
	RespCode string
	RespMsg  string
	Amount   string
}

func (c Callback) Succeeded() bool {
	return c.Status == StatusSuccess
}

func ParseCallback(params map[string]string) Callback {
	return Callback{
		OrderID:  params[FieldCallbackOrderID],
		TxnID:    params[FieldTxnID],
		Status:   params[FieldStatus],
		RespCode: params[FieldRespCode],
		RespMsg:  params[FieldRespMsg],
		Amount:   params[FieldCallbackAmount],
	}
}

type Gateway struct {
	cfg        Config
	httpClient *http.Client
	now        func() time.Time
}

type Option func(*Gateway)

// WithClock injects the clock used for transaction id timestamps.
func WithClock(clock func() time.Time) Option {
	return func(g *Gateway) {
		if clock != nil {
			g.now = clock
		}
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) {
		if c != nil {
			g.httpClient = c
		}
	}
}

func New(cfg Config, opts ...Option) (*Gateway, error) {
	if strings.TrimSpace(cfg.MerchantID) == "" {
		return nil, fmt.Errorf("%w: merchant id is required", ErrInvalidRequest)
	}
	if len(cfg.MerchantKey) != MerchantKeyLength {
		return nil, fmt.Errorf("%w: merchant key must be %d bytes", ErrInvalidRequest, MerchantKeyLength)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.TransactionURL == "" {
		cfg.TransactionURL = stagingTransactionURL
		if cfg.Production {
			cfg.TransactionURL = productionTransactionURL
		}
	}
	if cfg.StatusURL == "" {
		cfg.StatusURL = stagingStatusURL
		if cfg.Production {
			cfg.StatusURL = productionStatusURL
		}
	}

	g := &Gateway{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *Gateway) TransactionURL() string {
	return g.cfg.TransactionURL
}

func (g *Gateway) newTxnID(orderID string) string {
	return g.cfg.OrderIDPrefix + orderID + "_" + strconv.FormatInt(g.now().UnixMilli(), 10)
}

// BuildInitiationParams assembles and signs the redirect parameters for an order.
func (g *Gateway) BuildInitiationParams(orderID string, amount decimal.Decimal, customer CustomerInfo) (Initiation, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return Initiation{}, fmt.Errorf("%w: order id is required", ErrInvalidRequest)
	}
	if strings.Contains(orderID, "_") {
		return Initiation{}, fmt.Errorf("%w: order id must not contain '_'", ErrInvalidRequest)
	}
	if !amount.IsPositive() {
		return Initiation{}, fmt.Errorf("%w: amount must be positive", ErrInvalidRequest)
	}
	if strings.TrimSpace(customer.Email) == "" {
		return Initiation{}, fmt.Errorf("%w: customer email is required", ErrInvalidRequest)
	}

	txnID := g.newTxnID(orderID)
	params := map[string]string{
		FieldMID:          g.cfg.MerchantID,
		FieldWebsite:      g.cfg.Website,
		FieldChannelID:    g.cfg.ChannelID,
		FieldIndustryType: g.cfg.IndustryType,
		FieldOrderID:      txnID,
		FieldCustomerID:   customer.Email,
		FieldTxnAmount:    amount.String(),
		FieldCallbackURL:  g.cfg.CallbackURL,
		FieldEmail:        customer.Email,
		FieldMobile:       customer.Phone,
	}

	signature, err := GenerateSignature(params, g.cfg.MerchantKey)
	if err != nil {
		return Initiation{}, err
	}
	params[FieldChecksum] = signature

	return Initiation{
		Params:      params,
		Signature:   signature,
		RedirectURL: g.cfg.TransactionURL,
		TxnID:       txnID,
	}, nil
}

// VerifyCallback recomputes the checksum over every received field except
// CHECKSUMHASH and compares it with the received one.
func (g *Gateway) VerifyCallback(params map[string]string) bool {
	return VerifySignature(params, g.cfg.MerchantKey, params[FieldChecksum])
}

// ParseOrderID recovers the caller's order id from a gateway ORDER_ID.
func (g *Gateway) ParseOrderID(gatewayOrderID string) string {
	id := strings.TrimPrefix(gatewayOrderID, g.cfg.OrderIDPrefix)
	if i := strings.IndexByte(id, '_'); i >= 0 {
		id = id[:i]
	}
	return id
}
