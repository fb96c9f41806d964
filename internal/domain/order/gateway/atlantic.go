package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"syafa-store/internal/pkg/config"
)

// ErrPaymentGateway covers transport failures and non-success responses
// from the Atlantic H2H deposit API.
var ErrPaymentGateway = errors.New("payment gateway error")

// AtlanticClient talks to the Atlantic H2H QRIS deposit API. The API is
// plain form-encoded REST; there is no vendor SDK.
type AtlanticClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewAtlanticClient(cfg config.AtlanticConfig) *AtlanticClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &AtlanticClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type depositResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		ID       string `json:"id"`
		QRImage  string `json:"qr_image"`
		QRString string `json:"qr_string"`
	} `json:"data"`
}

// CreateDeposit requests a QRIS ewallet deposit for the given amount,
// tagged with our reference id so the webhook can be correlated back.
func (a *AtlanticClient) CreateDeposit(ctx context.Context, reffID string, amount int) (*Deposit, error) {
	form := url.Values{}
	form.Set("api_key", a.apiKey)
	form.Set("reff_id", reffID)
	form.Set("nominal", strconv.Itoa(amount))
	form.Set("type", "ewallet")
	form.Set("method", "qris")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.baseURL+"/deposit/create", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}
	defer resp.Body.Close()

	var body depositResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrPaymentGateway, err)
	}

	if !body.Status {
		msg := body.Message
		if msg == "" {
			msg = "failed to create deposit"
		}
		return nil, fmt.Errorf("%w: %s", ErrPaymentGateway, msg)
	}

	return &Deposit{
		TransactionID: body.Data.ID,
		QRImageURL:    body.Data.QRImage,
		QRString:      body.Data.QRString,
	}, nil
}

var _ PaymentGateway = (*AtlanticClient)(nil)
