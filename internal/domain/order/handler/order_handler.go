package handler

import (
	"errors"
	"net/http"
	"time"

	"syafa-store/internal/domain/order/gateway"
	"syafa-store/internal/domain/order/service"
	"syafa-store/internal/domain/order/store"
	"syafa-store/pkg/response"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

type CreateOrderInput struct {
	PackageID     int    `json:"packageId" binding:"required"`
	PanelUsername string `json:"panelUsername" binding:"required"`
	CustomerEmail string `json:"customerEmail"`
}

type WebhookInput struct {
	Event string              `json:"event" binding:"required"`
	Data  service.WebhookData `json:"data"`
}

// CreateOrder creates a pending order with a payable QRIS deposit.
// @Summary Create an order
// @Tags Order
// @Accept json
// @Produce json
// @Router /api/create-order [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), input.PackageID, input.PanelUsername, input.CustomerEmail)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPackage):
			response.Error(c, http.StatusBadRequest, response.ErrInvalidPackage, "Invalid package selected")
		case errors.Is(err, gateway.ErrPaymentGateway):
			response.Error(c, http.StatusBadGateway, response.ErrPaymentGateway, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to create order")
		}
		return
	}

	response.Success(c, gin.H{
		"order":   order,
		"qrisUrl": order.QRISURL,
		"amount":  order.Price,
	})
}

// GetOrderStatus returns the current order record.
// @Summary Get order status
// @Tags Order
// @Produce json
// @Router /api/order-status/{reffId} [get]
func (h *OrderHandler) GetOrderStatus(c *gin.Context) {
	order, err := h.service.GetOrder(c.Request.Context(), c.Param("reffId"))
	if err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, "Order not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to fetch order status")
		return
	}

	response.Success(c, gin.H{"order": order})
}

// Webhook handles deposit notifications from the payment gateway. Panel
// failures return 500 with a failure payload; duplicate and non-success
// notifications are acknowledged at 200 so the gateway does not retry.
// @Summary Payment gateway webhook
// @Tags Order
// @Accept json
// @Produce json
// @Router /api/webhook [post]
func (h *OrderHandler) Webhook(c *gin.Context) {
	var input WebhookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	result, err := h.service.HandleDepositWebhook(c.Request.Context(), input.Event, input.Data)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEvent):
			response.Error(c, http.StatusBadRequest, response.ErrInvalidEvent, "Invalid event type")
		case errors.Is(err, store.ErrOrderNotFound):
			response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, "Order not found")
		case result == service.WebhookProvisionFailed:
			response.Error(c, http.StatusInternalServerError, response.ErrProvisioning, "Panel creation failed")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Internal server error")
		}
		return
	}

	switch result {
	case service.WebhookProcessed:
		response.Success(c, gin.H{"message": "Payment processed successfully"})
	case service.WebhookNotSuccessful:
		response.Fail(c, response.CodeSuccess, "Payment not successful")
	case service.WebhookDuplicate, service.WebhookAlreadyProcessed:
		response.Fail(c, response.CodeSuccess, "Order already processed")
	default:
		response.Success(c, gin.H{"message": string(result)})
	}
}

// Health is the liveness probe.
// @Summary Health check
// @Tags Order
// @Produce json
// @Router /api/health [get]
func (h *OrderHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
