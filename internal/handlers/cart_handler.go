package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/imrishuroy/fybyshop/internal/auth"
	"github.com/imrishuroy/fybyshop/internal/cart"
	"github.com/imrishuroy/fybyshop/internal/validation"
)

type cartResponse struct {
	Items     []cart.Line `json:"items"`
	Subtotal  int64       `json:"subtotal"`
	ItemCount int         `json:"itemCount"`
}

func newCartResponse(c cart.Cart) cartResponse {
	lines := c.Lines
	if lines == nil {
		lines = []cart.Line{}
	}
	return cartResponse{Items: lines, Subtotal: c.Subtotal(), ItemCount: c.ItemCount()}
}

func (s *server) getCart(c *gin.Context) {
	ct, err := s.Carts.GetCart(c.Request.Context(), auth.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(ct))
}

// POST /cart/items adds a catalog product, merging with an existing line.
func (s *server) addCartItem(c *gin.Context) {
	var req validation.AddToCartRequest
	if err := validation.BindAndValidate(c, &req, s.v); err != nil {
		return
	}
	ctx := c.Request.Context()
	userID := auth.UserID(c)

	p, err := s.Catalog.Product(ctx, req.ProductID)
	if err != nil {
		writeError(c, err)
		return
	}
	if p == nil {
		notFound(c, "product")
		return
	}

	ct, err := s.Carts.GetCart(ctx, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	if ct, err = ct.Add(*p, req.Quantity); err != nil {
		writeError(c, err)
		return
	}
	if err := s.Carts.SaveCart(ctx, userID, ct); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(ct))
}

// PATCH /cart/items/:productId sets the quantity; zero or less removes the line.
func (s *server) updateCartItem(c *gin.Context) {
	var req validation.UpdateCartItemRequest
	if err := validation.BindAndValidate(c, &req, s.v); err != nil {
		return
	}
	s.editCart(c, func(ct cart.Cart) cart.Cart {
		return ct.UpdateQuantity(c.Param("productId"), *req.Quantity)
	})
}

func (s *server) removeCartItem(c *gin.Context) {
	s.editCart(c, func(ct cart.Cart) cart.Cart {
		return ct.Remove(c.Param("productId"))
	})
}

func (s *server) clearCart(c *gin.Context) {
	if err := s.Carts.ClearCart(c.Request.Context(), auth.UserID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart.Cart{}))
}

func (s *server) editCart(c *gin.Context, edit func(cart.Cart) cart.Cart) {
	ctx := c.Request.Context()
	userID := auth.UserID(c)

	ct, err := s.Carts.GetCart(ctx, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	ct = edit(ct)
	if err := s.Carts.SaveCart(ctx, userID, ct); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(ct))
}

func (s *server) getFavorites(c *gin.Context) {
	f, err := s.Carts.GetFavorites(c.Request.Context(), auth.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (s *server) addFavorite(c *gin.Context) {
	var req validation.FavoriteRequest
	if err := validation.BindAndValidate(c, &req, s.v); err != nil {
		return
	}
	ctx := c.Request.Context()

	p, err := s.Catalog.Product(ctx, req.ProductID)
	if err != nil {
		writeError(c, err)
		return
	}
	if p == nil {
		notFound(c, "product")
		return
	}
	s.editFavorites(c, func(f cart.Favorites) cart.Favorites { return f.Add(*p) })
}

func (s *server) removeFavorite(c *gin.Context) {
	s.editFavorites(c, func(f cart.Favorites) cart.Favorites { return f.Remove(c.Param("productId")) })
}

func (s *server) editFavorites(c *gin.Context, edit func(cart.Favorites) cart.Favorites) {
	ctx := c.Request.Context()
	userID := auth.UserID(c)

	f, err := s.Carts.GetFavorites(ctx, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	f = edit(f)
	if err := s.Carts.SaveFavorites(ctx, userID, f); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}
