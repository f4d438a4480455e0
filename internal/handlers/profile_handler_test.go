package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/fybyshop/internal/account"
)

func TestProfile(t *testing.T) {
	env := newTestEnv(t)

	var p account.Profile
	w := env.do(t, http.MethodGet, "/profile", "u1", nil, &p)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1@example.com", p.Email)
	assert.Nil(t, p.Address)

	w = env.do(t, http.MethodPut, "/profile", "u1", map[string]any{
		"lastName":    "Kossou",
		"preferences": map[string]bool{"newsletter": true},
	}, &p)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Kossou", p.LastName)
	assert.True(t, p.Preferences.Newsletter)

	w = env.do(t, http.MethodPut, "/profile", "u1", map[string]any{
		"address":      map[string]string{"street": "Rue 1", "city": "Calavi", "country": "Bénin"},
		"clearAddress": true,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
