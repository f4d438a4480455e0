package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/imrishuroy/fybyshop/internal/auth"
	"github.com/imrishuroy/fybyshop/internal/checkout"
	"github.com/imrishuroy/fybyshop/internal/notify"
	"github.com/imrishuroy/fybyshop/internal/orders"
	"github.com/imrishuroy/fybyshop/internal/validation"
)

// POST /checkout starts a checkout over the user's current cart. The customer
// form is prefilled from the profile when one exists.
func (s *server) startCheckout(c *gin.Context) {
	ctx := c.Request.Context()
	userID := auth.UserID(c)

	ct, err := s.Carts.GetCart(ctx, userID)
	if err != nil {
		writeError(c, err)
		return
	}

	prefill := &orders.CustomerInfo{Email: auth.Email(c)}
	if s.Profiles != nil {
		p, err := s.Profiles.Get(ctx, userID)
		if err != nil {
			log.Printf("[checkout] user=%s profile prefill skipped: %v", userID, err)
		} else if p != nil {
			prefill = p.CustomerInfo()
			if prefill.Email == "" {
				prefill.Email = auth.Email(c)
			}
		}
	}

	sess, err := checkout.New(s.Checkout, checkout.Deps{
		Orders: s.Orders,
		Cart:   s.Carts,
		Events: s.Events,
		Lookup: s.Orders,
	}, userID, ct, prefill)
	if err != nil {
		writeError(c, err)
		return
	}
	s.Sessions.Put(sess)
	c.JSON(http.StatusCreated, sess.Snapshot())
}

// withSession resolves :id to a session of the current user.
func (s *server) withSession(fn func(c *gin.Context, sess *checkout.Session)) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := s.Sessions.Get(c.Param("id"), auth.UserID(c))
		if err != nil {
			writeError(c, err)
			return
		}
		fn(c, sess)
	}
}

func (s *server) getCheckout(c *gin.Context, sess *checkout.Session) {
	c.JSON(http.StatusOK, sess.Snapshot())
}

func (s *server) selectDelivery(c *gin.Context, sess *checkout.Session) {
	var req validation.DeliveryRequest
	if err := validation.BindAndValidate(c, &req, s.v); err != nil {
		return
	}
	if err := sess.SelectDelivery(req.OptionID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

func (s *server) updateCustomer(c *gin.Context, sess *checkout.Session) {
	var req validation.CustomerFieldsRequest
	if err := validation.BindAndValidate(c, &req, s.v); err != nil {
		return
	}
	if err := sess.UpdateCustomer(req.Fields); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

func (s *server) selectPayment(c *gin.Context, sess *checkout.Session) {
	var req validation.PaymentRequest
	if err := validation.BindAndValidate(c, &req, s.v); err != nil {
		return
	}
	if err := sess.SelectPayment(req.Method); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

func (s *server) nextStep(c *gin.Context, sess *checkout.Session) {
	if _, err := sess.Next(); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

func (s *server) previousStep(c *gin.Context, sess *checkout.Session) {
	sess.Back()
	c.JSON(http.StatusOK, sess.Snapshot())
}

type submitResponse struct {
	OrderID     string                            `json:"orderId"`
	Order       *orders.Order                     `json:"order"`
	WhatsAppURL string                            `json:"whatsappUrl"`
	MobileMoney *checkout.MobileMoneyInstructions `json:"mobileMoney,omitempty"`
}

// POST /checkout/:id/submit creates the order. Retrying after a failure, or
// after success, never creates a second order.
func (s *server) submitCheckout(c *gin.Context, sess *checkout.Session) {
	id, err := sess.Submit(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	order := sess.Order()
	c.JSON(http.StatusCreated, submitResponse{
		OrderID:     id,
		Order:       order,
		WhatsAppURL: notify.WhatsAppLink(s.WhatsAppNumber, notify.OrderMessage(*order)),
		MobileMoney: sess.MobileMoney(),
	})
}
