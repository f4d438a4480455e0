// Package handlers exposes the storefront over HTTP with gin.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/imrishuroy/fybyshop/internal/account"
	"github.com/imrishuroy/fybyshop/internal/auth"
	"github.com/imrishuroy/fybyshop/internal/cart"
	"github.com/imrishuroy/fybyshop/internal/catalog"
	"github.com/imrishuroy/fybyshop/internal/checkout"
	"github.com/imrishuroy/fybyshop/internal/orders"
	"github.com/imrishuroy/fybyshop/internal/validation"
)

// CatalogService reads the product catalog.
type CatalogService interface {
	Products(ctx context.Context) ([]catalog.Product, error)
	Product(ctx context.Context, id string) (*catalog.Product, error)
	Categories(ctx context.Context) ([]catalog.Category, error)
	ByCategory(ctx context.Context, slug string) ([]catalog.Product, error)
}

// CartStore persists carts and favorites per user.
type CartStore interface {
	GetCart(ctx context.Context, userID string) (cart.Cart, error)
	SaveCart(ctx context.Context, userID string, c cart.Cart) error
	ClearCart(ctx context.Context, userID string) error
	checkout.CartUpdater
	GetFavorites(ctx context.Context, userID string) (cart.Favorites, error)
	SaveFavorites(ctx context.Context, userID string, f cart.Favorites) error
}

// OrderStore creates and reads orders.
type OrderStore interface {
	checkout.OrderCreator
	checkout.OrderLookup
	ListForUser(ctx context.Context, userID string) ([]orders.Order, error)
	UpdateStatus(ctx context.Context, orderID, status string) (bool, error)
}

// ProfileStore reads and updates shopper profiles.
type ProfileStore interface {
	Get(ctx context.Context, userID string) (*account.Profile, error)
	Update(ctx context.Context, userID, email string, u account.Update) (*account.Profile, error)
}

// Deps groups dependencies of the HTTP layer.
type Deps struct {
	Catalog        CatalogService
	Carts          CartStore
	Orders         OrderStore
	Profiles       ProfileStore
	Sessions       *checkout.Registry
	Checkout       checkout.Config
	Events         checkout.EventSink
	Signer         *auth.Signer
	WhatsAppNumber string
	// AdminIDs may change order statuses.
	AdminIDs []string
}

type server struct {
	Deps
	v      *validatorv10.Validate
	admins map[string]bool
}

// NewRouter builds the gin engine with every storefront route.
func NewRouter(d Deps) *gin.Engine {
	s := &server{Deps: d, v: validation.New(), admins: map[string]bool{}}
	for _, id := range d.AdminIDs {
		s.admins[id] = true
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/products", s.listProducts)
	r.GET("/products/suggest", s.suggestProducts)
	r.GET("/products/:id", s.getProduct)
	r.GET("/categories", s.listCategories)
	r.GET("/categories/:slug/products", s.productsByCategory)
	r.GET("/brands", s.listBrands)

	user := r.Group("/", auth.RequireUser(d.Signer))

	user.GET("/cart", s.getCart)
	user.POST("/cart/items", s.addCartItem)
	user.PATCH("/cart/items/:productId", s.updateCartItem)
	user.DELETE("/cart/items/:productId", s.removeCartItem)
	user.DELETE("/cart", s.clearCart)

	user.GET("/favorites", s.getFavorites)
	user.POST("/favorites", s.addFavorite)
	user.DELETE("/favorites/:productId", s.removeFavorite)

	user.POST("/checkout", s.startCheckout)
	user.GET("/checkout/:id", s.withSession(s.getCheckout))
	user.PUT("/checkout/:id/delivery", s.withSession(s.selectDelivery))
	user.PATCH("/checkout/:id/customer", s.withSession(s.updateCustomer))
	user.PUT("/checkout/:id/payment", s.withSession(s.selectPayment))
	user.POST("/checkout/:id/next", s.withSession(s.nextStep))
	user.POST("/checkout/:id/back", s.withSession(s.previousStep))
	user.POST("/checkout/:id/submit", s.withSession(s.submitCheckout))

	user.GET("/orders", s.listOrders)
	user.GET("/orders/:id", s.getOrder)
	user.GET("/orders/:id/receipt.png", s.orderReceipt)
	user.PATCH("/orders/:id/status", s.requireAdmin, s.updateOrderStatus)

	user.GET("/profile", s.getProfile)
	user.PUT("/profile", s.updateProfile)

	return r
}

func (s *server) requireAdmin(c *gin.Context) {
	if !s.admins[auth.UserID(c)] {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.Next()
}
