package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/imrishuroy/fybyshop/internal/account"
	"github.com/imrishuroy/fybyshop/internal/auth"
	"github.com/imrishuroy/fybyshop/internal/validation"
)

// GET /profile returns the stored profile, or an empty one seeded from the token.
func (s *server) getProfile(c *gin.Context) {
	userID := auth.UserID(c)
	p, err := s.Profiles.Get(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	if p == nil {
		p = &account.Profile{UserID: userID, Email: auth.Email(c)}
	}
	c.JSON(http.StatusOK, p)
}

func (s *server) updateProfile(c *gin.Context) {
	var req validation.UpdateProfileRequest
	if err := validation.BindAndValidate(c, &req, s.v); err != nil {
		return
	}
	p, err := s.Profiles.Update(c.Request.Context(), auth.UserID(c), auth.Email(c), req.Update())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
