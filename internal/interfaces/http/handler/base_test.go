package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantStatus   int
		wantCode     string
		wantMessage  string
		wantRedirect string
	}{
		{
			name:        "not found",
			err:         shared.ErrNotFound,
			wantStatus:  http.StatusNotFound,
			wantCode:    dto.ErrCodeNotFound,
			wantMessage: "Resource not found",
		},
		{
			name:         "revoked token keeps its code",
			err:          shared.NewDomainError("TOKEN_REVOKED", "Session has ended"),
			wantStatus:   http.StatusUnauthorized,
			wantCode:     dto.ErrCodeTokenRevoked,
			wantMessage:  "Session has ended",
			wantRedirect: middleware.LoginPath,
		},
		{
			name:        "wrapped stock error",
			err:         fmt.Errorf("add: %w", shared.NewDomainError("INSUFFICIENT_STOCK", "Only 2 left in stock")),
			wantStatus:  http.StatusUnprocessableEntity,
			wantCode:    dto.ErrCodeInsufficientStock,
			wantMessage: "Only 2 left in stock",
		},
		{
			name:        "unmapped domain code",
			err:         shared.NewDomainError("SOMETHING_ODD", "odd"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "SOMETHING_ODD",
			wantMessage: "odd",
		},
		{
			name:        "plain error hides details",
			err:         errors.New("pq: relation does not exist"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    dto.ErrCodeInternal,
			wantMessage: "An error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h BaseHandler
			r := gin.New()
			r.Use(middleware.RequestID())
			r.GET("/", func(c *gin.Context) { h.HandleError(c, tt.err) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			require.Equal(t, tt.wantStatus, w.Code)
			env := decode(t, w, nil)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
			assert.Equal(t, tt.wantMessage, env.Error.Message)
			assert.NotEmpty(t, env.Error.RequestID)
			assert.Equal(t, tt.wantRedirect, env.Redirect)
		})
	}
}

func TestBaseHandler_Redirect(t *testing.T) {
	var h BaseHandler
	r := gin.New()
	r.GET("/", func(c *gin.Context) { h.Redirect(c, gin.H{"ok": true}, "/dashboard") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w, nil)
	assert.True(t, env.Success)
	assert.Equal(t, "/dashboard", env.Redirect)
}
