package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// The storefront and the payment gateway both speak the success/error
// envelope, so every JSON body carries an explicit "success" flag. Error
// bodies additionally carry a business code for API consumers.

// ErrorBody is the uniform error envelope.
type ErrorBody struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Error   string `json:"error"`
}

// Success writes an HTTP 200 response with the success flag set. Extra
// payload fields are merged beside the flag, matching the storefront
// contract ({success, order, qrisUrl, ...}).
func Success(c *gin.Context, data gin.H) {
	body := gin.H{"success": true}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Error writes an error response with the given HTTP status and business code.
func Error(c *gin.Context, httpCode int, errCode int, msg string) {
	c.JSON(httpCode, ErrorBody{
		Success: false,
		Code:    errCode,
		Error:   msg,
	})
}

// Fail writes a business failure at HTTP 200. Used for webhook
// acknowledgements that are not application errors (non-success payment
// notifications, duplicate deliveries), which the gateway must not retry.
func Fail(c *gin.Context, errCode int, msg string) {
	c.JSON(http.StatusOK, ErrorBody{
		Success: false,
		Code:    errCode,
		Error:   msg,
	})
}
