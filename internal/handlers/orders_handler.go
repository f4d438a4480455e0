package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/imrishuroy/fybyshop/internal/auth"
	"github.com/imrishuroy/fybyshop/internal/orders"
	"github.com/imrishuroy/fybyshop/internal/receipt"
	"github.com/imrishuroy/fybyshop/internal/validation"
)

// GET /orders lists the caller's orders, newest first.
func (s *server) listOrders(c *gin.Context) {
	list, err := s.Orders.ListForUser(c.Request.Context(), auth.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list})
}

// ownOrder loads :id and checks the caller may see it. Admins see every order.
// It writes the error response itself and returns nil when the caller must stop.
func (s *server) ownOrder(c *gin.Context) *orders.Order {
	o, err := s.Orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return nil
	}
	userID := auth.UserID(c)
	if o == nil || (o.UserID != userID && !s.admins[userID]) {
		notFound(c, "order")
		return nil
	}
	return o
}

func (s *server) getOrder(c *gin.Context) {
	if o := s.ownOrder(c); o != nil {
		c.JSON(http.StatusOK, o)
	}
}

// GET /orders/:id/receipt.png renders the order summary as a QR code.
func (s *server) orderReceipt(c *gin.Context) {
	o := s.ownOrder(c)
	if o == nil {
		return
	}
	png, err := receipt.QRCode(*o)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// PATCH /orders/:id/status
func (s *server) updateOrderStatus(c *gin.Context) {
	var req validation.UpdateStatusRequest
	if err := validation.BindAndValidate(c, &req, s.v); err != nil {
		return
	}
	ok, err := s.Orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	if !ok {
		notFound(c, "order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "status": req.Status})
}
