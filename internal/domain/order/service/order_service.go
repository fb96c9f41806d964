package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"syafa-store/internal/domain/order/gateway"
	"syafa-store/internal/domain/order/model"
	"syafa-store/internal/domain/order/provisioner"
	"syafa-store/internal/domain/order/store"
	"syafa-store/internal/pkg/config"
	"syafa-store/pkg/logger"
	"syafa-store/pkg/metrics"

	"go.uber.org/zap"
)

var (
	// ErrInvalidPackage is returned when the package id does not
	// resolve to a catalog entry.
	ErrInvalidPackage = errors.New("invalid package selected")

	// ErrInvalidEvent is returned for webhook payloads that are not
	// deposit events.
	ErrInvalidEvent = errors.New("invalid event type")
)

// WebhookData is the deposit notification payload from the gateway.
type WebhookData struct {
	Status        string `json:"status"`
	ReffID        string `json:"reff_id"`
	TransactionID string `json:"transaction_id"`
}

// WebhookResult classifies non-error webhook outcomes. The gateway may
// deliver non-success notifications and duplicates; neither is an
// application error.
type WebhookResult string

const (
	WebhookProcessed        WebhookResult = "processed"
	WebhookNotSuccessful    WebhookResult = "payment not successful"
	WebhookAlreadyProcessed WebhookResult = "order already processed"
	WebhookDuplicate        WebhookResult = "duplicate transaction"
	WebhookProvisionFailed  WebhookResult = "panel creation failed"
)

// Deduper remembers gateway transaction ids that were already handled.
// Optional hardening on top of the status gate; nil disables it. Check
// must be read-only: an id is recorded via Mark only once the delivery
// has won the status gate, so a transient failure before that point
// leaves the id unmarked and the gateway's retry can still go through.
type Deduper interface {
	Check(ctx context.Context, transactionID string) (bool, error)
	Mark(ctx context.Context, transactionID string) error
}

// OrderService drives the order lifecycle:
// pending -> processing -> success | failed.
type OrderService interface {
	CreateOrder(ctx context.Context, packageID int, username, email string) (*model.Order, error)
	GetOrder(ctx context.Context, reffID string) (*model.Order, error)
	HandleDepositWebhook(ctx context.Context, event string, data WebhookData) (WebhookResult, error)
}

type orderService struct {
	cfg     *config.Config
	store   store.OrderStore
	gateway gateway.PaymentGateway
	panel   provisioner.Provisioner
	dedup   Deduper
	metrics *metrics.Collector
}

func NewOrderService(
	cfg *config.Config,
	orderStore store.OrderStore,
	paymentGateway gateway.PaymentGateway,
	panel provisioner.Provisioner,
	dedup Deduper,
	collector *metrics.Collector,
) OrderService {
	return &orderService{
		cfg:     cfg,
		store:   orderStore,
		gateway: paymentGateway,
		panel:   panel,
		dedup:   dedup,
		metrics: collector,
	}
}

// CreateOrder builds a pending order, requests a QRIS deposit for it and
// persists the result. On gateway failure nothing is persisted: the
// client gets no order id and must resubmit (a fresh reference id is
// generated each call).
func (s *orderService) CreateOrder(ctx context.Context, packageID int, username, email string) (*model.Order, error) {
	pkg, ok := s.cfg.FindPackage(packageID)
	if !ok {
		return nil, ErrInvalidPackage
	}

	now := time.Now()
	order := &model.Order{
		ReffID:        generateReffID(),
		PackageID:     pkg.ID,
		PackageName:   pkg.Name,
		RAM:           pkg.RAM,
		Disk:          pkg.RAM, // disk mirrors ram
		CPU:           cpuCores(pkg.RAM),
		Price:         pkg.Price,
		PanelUsername: username,
		CustomerEmail: email,
		PaymentMethod: "qris",
		Status:        model.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	deposit, err := s.gateway.CreateDeposit(ctx, order.ReffID, order.Price)
	if err != nil {
		s.metrics.GatewayError()
		return nil, err
	}

	order.QRISURL = deposit.QRImageURL
	order.QRISContent = deposit.QRString
	order.AtlanticTransactionID = deposit.TransactionID

	if err := s.store.Put(ctx, order); err != nil {
		return nil, err
	}

	s.metrics.OrderCreated()
	logInfo("order created",
		zap.String("reff_id", order.ReffID),
		zap.Int("package_id", order.PackageID),
		zap.Int("price", order.Price),
	)
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, reffID string) (*model.Order, error) {
	return s.store.Get(ctx, reffID)
}

// HandleDepositWebhook confirms a payment and provisions the panel
// account and server. The atomic pending -> processing transition is the
// sole gate: concurrent or repeated deliveries lose the transition and
// are acknowledged without side effects.
func (s *orderService) HandleDepositWebhook(ctx context.Context, event string, data WebhookData) (WebhookResult, error) {
	if event != "deposit" {
		return "", ErrInvalidEvent
	}

	if data.Status != "success" {
		logInfo("payment not successful", zap.String("reff_id", data.ReffID), zap.String("status", data.Status))
		s.metrics.Webhook("not_successful")
		return WebhookNotSuccessful, nil
	}

	if s.dedup != nil && data.TransactionID != "" {
		seen, err := s.dedup.Check(ctx, data.TransactionID)
		if err != nil {
			// Dedup is best-effort hardening; the status gate below
			// still holds.
			logWarn("transaction dedup unavailable", zap.Error(err))
		} else if seen {
			s.metrics.Webhook("duplicate")
			return WebhookDuplicate, nil
		}
	}

	order, err := s.store.Get(ctx, data.ReffID)
	if err != nil {
		return "", err
	}

	won, err := s.store.TransitionStatus(ctx, order.ReffID, model.StatusPending, model.StatusProcessing)
	if err != nil {
		return "", err
	}
	if !won {
		s.metrics.Webhook("already_processed")
		return WebhookAlreadyProcessed, nil
	}

	// Record the transaction id only after winning the gate. Marking
	// earlier would make a transient failure (and the gateway's retry
	// of it) look like a duplicate and strand the paid order.
	if s.dedup != nil && data.TransactionID != "" {
		if err := s.dedup.Mark(ctx, data.TransactionID); err != nil {
			logWarn("transaction dedup mark failed", zap.Error(err))
		}
	}

	if data.TransactionID != "" {
		if _, err := s.store.Patch(ctx, order.ReffID, model.Patch{
			AtlanticTransactionID: &data.TransactionID,
		}); err != nil {
			return "", err
		}
	}

	if err := s.provision(ctx, order); err != nil {
		s.metrics.Webhook("failed")
		s.metrics.ProvisionFailed()
		return WebhookProvisionFailed, err
	}

	s.metrics.Webhook("processed")
	return WebhookProcessed, nil
}

// provision creates the panel user and server, then finalizes the order.
// Any failure is terminal: the order moves to failed and a new order is
// required to retry.
func (s *orderService) provision(ctx context.Context, order *model.Order) error {
	password := generatePassword()

	email := order.CustomerEmail
	if email == "" {
		email = fmt.Sprintf("%s@web-syafa-store.com", order.PanelUsername)
	}

	userID, err := s.panel.CreateUser(ctx, order.PanelUsername, email, password)
	if err != nil {
		s.markFailed(ctx, order.ReffID, err)
		return err
	}

	serverID, err := s.panel.CreateServer(ctx, provisioner.ServerRequest{
		Name:     fmt.Sprintf("%s-%s", order.PanelUsername, order.PackageName),
		UserID:   userID,
		MemoryMB: order.RAM,
		DiskMB:   order.Disk,
		CPUCores: order.CPU,
	})
	if err != nil {
		s.markFailed(ctx, order.ReffID, err)
		return err
	}

	success := model.StatusSuccess
	_, err = s.store.Patch(ctx, order.ReffID, model.Patch{
		Status:        &success,
		PanelDomain:   &s.cfg.Pterodactyl.PanelURL,
		PanelPassword: &password,
		UserID:        &userID,
		ServerID:      &serverID,
	})
	if err != nil {
		// The panel user and server exist at this point; only the
		// record update failed. Flag the inconsistency so an operator
		// can reconcile the stuck processing order.
		logWarn("panel resources created but order not finalized",
			zap.String("reff_id", order.ReffID),
			zap.Int("user_id", userID),
			zap.Int("server_id", serverID),
			zap.Error(err),
		)
		return err
	}

	logInfo("order provisioned",
		zap.String("reff_id", order.ReffID),
		zap.Int("user_id", userID),
		zap.Int("server_id", serverID),
	)
	return nil
}

func (s *orderService) markFailed(ctx context.Context, reffID string, cause error) {
	failed := model.StatusFailed
	msg := errorMessage(cause)
	if _, err := s.store.Patch(ctx, reffID, model.Patch{
		Status:       &failed,
		ErrorMessage: &msg,
	}); err != nil {
		logWarn("failed to mark order failed", zap.String("reff_id", reffID), zap.Error(err))
	}
	logWarn("provisioning failed", zap.String("reff_id", reffID), zap.Error(cause))
}

// errorMessage strips the sentinel prefix so the stored message matches
// what the panel reported.
func errorMessage(err error) string {
	msg := err.Error()
	prefix := provisioner.ErrProvisioning.Error() + ": "
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return msg
}

// generateReffID builds the store's opaque order reference:
// WEB_SYAFA_<unix-ms>_<8 hex>. The random suffix makes collisions
// negligible within a process lifetime.
func generateReffID() string {
	return fmt.Sprintf("WEB_SYAFA_%d_%s", time.Now().UnixMilli(), randomHex(4))
}

// generatePassword returns the 16-hex-char panel account password.
func generatePassword() string {
	return randomHex(8)
}

func randomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// cpuCores derives cores from RAM: one core per 512MB, rounded.
func cpuCores(ramMB int) int {
	return int(float64(ramMB)/512 + 0.5)
}

func logInfo(msg string, fields ...zap.Field) {
	if logger.Log != nil {
		logger.Log.Info(msg, fields...)
	}
}

func logWarn(msg string, fields ...zap.Field) {
	if logger.Log != nil {
		logger.Log.Warn(msg, fields...)
	}
}
