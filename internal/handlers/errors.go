package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/imrishuroy/fybyshop/internal/cart"
	"github.com/imrishuroy/fybyshop/internal/checkout"
	"github.com/imrishuroy/fybyshop/internal/orders"
)

// writeError maps domain errors to a status code and a stable error code.
func writeError(c *gin.Context, err error) {
	var ve *checkout.ValidationError
	var cf *checkout.OrderCreationFailedError

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation_failed", "fields": ve.Fields})
	case errors.As(err, &cf):
		c.JSON(http.StatusBadGateway, gin.H{"error": "order_creation_failed", "retryable": true})
	case errors.Is(err, checkout.ErrAuthRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth_required", "redirect": "/login"})
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusConflict, gin.H{"error": "empty_cart", "redirect": "/cart"})
	case errors.Is(err, checkout.ErrSubmissionInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "submission_in_progress"})
	case errors.Is(err, checkout.ErrOrderAlreadyCreated):
		c.JSON(http.StatusConflict, gin.H{"error": "order_already_created"})
	case errors.Is(err, checkout.ErrNotOnConfirmation):
		c.JSON(http.StatusConflict, gin.H{"error": "not_on_confirmation_step"})
	case errors.Is(err, checkout.ErrDeliveryRequired):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "delivery_required"})
	case errors.Is(err, checkout.ErrUnknownDeliveryOption),
		errors.Is(err, checkout.ErrUnknownPaymentMethod),
		errors.Is(err, checkout.ErrUnknownField),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, orders.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "msg": err.Error()})
	case errors.Is(err, checkout.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "checkout_not_found"})
	default:
		log.Printf("[http] %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}

func notFound(c *gin.Context, what string) {
	c.JSON(http.StatusNotFound, gin.H{"error": what + "_not_found"})
}
