package gateway

import "context"

// Deposit is a QRIS payment request created at the gateway: a scannable
// image, the raw QR payload, and the gateway-side transaction id.
type Deposit struct {
	TransactionID string
	QRImageURL    string
	QRString      string
}

// PaymentGateway creates QRIS deposits tagged with our reference id. The
// gateway confirms payment asynchronously through the webhook endpoint.
type PaymentGateway interface {
	CreateDeposit(ctx context.Context, reffID string, amount int) (*Deposit, error)
}
