package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"syafa-store/internal/domain/order/model"
	"syafa-store/internal/domain/order/service"
	"syafa-store/internal/domain/order/store"
	"syafa-store/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, packageID int, username, email string) (*model.Order, error) {
	args := m.Called(ctx, packageID, username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, reffID string) (*model.Order, error) {
	args := m.Called(ctx, reffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) HandleDepositWebhook(ctx context.Context, event string, data service.WebhookData) (service.WebhookResult, error) {
	args := m.Called(ctx, event, data)
	return args.Get(0).(service.WebhookResult), args.Error(1)
}

func setupRouter(svc service.OrderService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewOrderHandler(svc)
	r := gin.New()
	r.POST("/api/create-order", h.CreateOrder)
	r.GET("/api/order-status/:reffId", h.GetOrderStatus)
	r.POST("/api/webhook", h.Webhook)
	r.GET("/api/health", h.Health)
	return r
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateOrderHandler(t *testing.T) {
	t.Run("Returns the order with payment details", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("CreateOrder", mock.Anything, 1, "alice", "").
			Return(&model.Order{
				ReffID:  "WEB_SYAFA_1_aa",
				Price:   15000,
				QRISURL: "https://cdn.example/qr.png",
				Status:  model.StatusPending,
			}, nil)

		w := doJSON(setupRouter(svc), http.MethodPost, "/api/create-order",
			gin.H{"packageId": 1, "panelUsername": "alice"})

		assert.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Success bool `json:"success"`
			Order   struct {
				ReffID string `json:"reff_id"`
			} `json:"order"`
			QRISURL string `json:"qrisUrl"`
			Amount  int    `json:"amount"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Equal(t, "WEB_SYAFA_1_aa", body.Order.ReffID)
		assert.Equal(t, "https://cdn.example/qr.png", body.QRISURL)
		assert.Equal(t, 15000, body.Amount)
		svc.AssertExpectations(t)
	})

	t.Run("Missing username is a binding error", func(t *testing.T) {
		svc := new(MockOrderService)
		w := doJSON(setupRouter(svc), http.MethodPost, "/api/create-order",
			gin.H{"packageId": 1})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "CreateOrder")
	})

	t.Run("Unknown package", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("CreateOrder", mock.Anything, 99, "alice", "").
			Return(nil, service.ErrInvalidPackage)

		w := doJSON(setupRouter(svc), http.MethodPost, "/api/create-order",
			gin.H{"packageId": 99, "panelUsername": "alice"})

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var body response.ErrorBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, response.ErrInvalidPackage, body.Code)
	})
}

func TestGetOrderStatusHandler(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("GetOrder", mock.Anything, "WEB_SYAFA_1_aa").
			Return(&model.Order{ReffID: "WEB_SYAFA_1_aa", Status: model.StatusSuccess}, nil)

		w := doJSON(setupRouter(svc), http.MethodGet, "/api/order-status/WEB_SYAFA_1_aa", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"success"`)
	})

	t.Run("Not found", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("GetOrder", mock.Anything, "WEB_SYAFA_missing").
			Return(nil, store.ErrOrderNotFound)

		w := doJSON(setupRouter(svc), http.MethodGet, "/api/order-status/WEB_SYAFA_missing", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)

		var body response.ErrorBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, response.ErrOrderNotFound, body.Code)
	})
}

func TestWebhookHandler(t *testing.T) {
	payload := gin.H{
		"event": "deposit",
		"data":  gin.H{"status": "success", "reff_id": "WEB_SYAFA_1_aa", "transaction_id": "TXN-1"},
	}

	t.Run("Processed", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("HandleDepositWebhook", mock.Anything, "deposit", service.WebhookData{
			Status: "success", ReffID: "WEB_SYAFA_1_aa", TransactionID: "TXN-1",
		}).Return(service.WebhookProcessed, nil)

		w := doJSON(setupRouter(svc), http.MethodPost, "/api/webhook", payload)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Payment processed successfully")
		svc.AssertExpectations(t)
	})

	t.Run("Invalid event", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("HandleDepositWebhook", mock.Anything, "refund", mock.Anything).
			Return(service.WebhookResult(""), service.ErrInvalidEvent)

		w := doJSON(setupRouter(svc), http.MethodPost, "/api/webhook",
			gin.H{"event": "refund", "data": gin.H{}})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid event type")
	})

	t.Run("Duplicate delivery is acknowledged at 200", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("HandleDepositWebhook", mock.Anything, "deposit", mock.Anything).
			Return(service.WebhookAlreadyProcessed, nil)

		w := doJSON(setupRouter(svc), http.MethodPost, "/api/webhook", payload)

		assert.Equal(t, http.StatusOK, w.Code)

		var body response.ErrorBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, "Order already processed", body.Error)
	})

	t.Run("Panel failure surfaces 500", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("HandleDepositWebhook", mock.Anything, "deposit", mock.Anything).
			Return(service.WebhookProvisionFailed, assert.AnError)

		w := doJSON(setupRouter(svc), http.MethodPost, "/api/webhook", payload)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Panel creation failed")
	})
}

func TestHealthHandler(t *testing.T) {
	w := doJSON(setupRouter(new(MockOrderService)), http.MethodGet, "/api/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
