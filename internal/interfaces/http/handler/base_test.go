package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/safespace/backend/internal/domain/shared"
	"github.com/safespace/backend/internal/infrastructure/auth"
	"github.com/safespace/backend/internal/interfaces/http/dto"
	"github.com/safespace/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

func newTestRouter() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	return r
}

// withClaims stands in for JWTAuth
func withClaims(claims *auth.Claims) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTClaimsKey, claims)
		c.Set(middleware.JWTAdminIDKey, claims.AdminID)
		c.Set(middleware.JWTRoleKey, claims.Role)
		c.Next()
	}
}

func asAdmin(id uuid.UUID, role string) gin.HandlerFunc {
	return withClaims(&auth.Claims{AdminID: id.String(), Role: role})
}

func doRequest(r http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantReason string
	}{
		{
			name:       "mapped domain code",
			err:        shared.NewDomainError("BOOKING_NOT_FOUND", "Booking not found"),
			wantStatus: http.StatusNotFound,
			wantCode:   dto.ErrCodeNotFound,
			wantReason: "BOOKING_NOT_FOUND",
		},
		{
			name:       "wrapped domain error",
			err:        fmt.Errorf("submit: %w", shared.NewDomainError("PAYMENT_GATEWAY", "down")),
			wantStatus: http.StatusBadGateway,
			wantCode:   dto.ErrCodePaymentGateway,
			wantReason: "PAYMENT_GATEWAY",
		},
		{
			name:       "already normalized code",
			err:        shared.NewDomainError(dto.ErrCodeConflict, "conflict"),
			wantStatus: http.StatusConflict,
			wantCode:   dto.ErrCodeConflict,
		},
		{
			name:       "plain error hides detail",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   dto.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			r := newTestRouter()
			r.GET("/x", func(c *gin.Context) { h.HandleError(c, tt.err) })

			w := doRequest(r, http.MethodGet, "/x", nil, middleware.RequestIDHeader, "req-1")

			assert.Equal(t, tt.wantStatus, w.Code)
			env := decodeEnvelope(t, w)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
			assert.Equal(t, tt.wantReason, env.Error.Reason)
			assert.Equal(t, "req-1", env.Error.RequestID)
			assert.NotContains(t, w.Body.String(), "connection refused")
		})
	}
}

func TestBindError(t *testing.T) {
	type form struct {
		Email string `json:"email" binding:"required,email"`
	}
	h := &BaseHandler{}
	r := newTestRouter()
	r.POST("/x", func(c *gin.Context) {
		var f form
		if err := c.ShouldBindJSON(&f); err != nil {
			h.BindError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	w := doRequest(r, http.MethodPost, "/x", `{"email":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, dto.ErrCodeValidation, env.Error.Code)
	require.Len(t, env.Error.Details, 1)
	assert.Equal(t, "email", env.Error.Details[0].Field)

	w = doRequest(r, http.MethodPost, "/x", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidJSON, decodeEnvelope(t, w).Error.Code)
}

func TestPathUUID(t *testing.T) {
	h := &BaseHandler{}
	r := newTestRouter()
	r.GET("/x/:id", func(c *gin.Context) {
		id, ok := h.pathUUID(c, "id")
		if !ok {
			return
		}
		c.String(http.StatusOK, id.String())
	})

	id := uuid.New()
	w := doRequest(r, http.MethodGet, "/x/"+id.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id.String(), w.Body.String())

	w = doRequest(r, http.MethodGet, "/x/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidInput, decodeEnvelope(t, w).Error.Code)
}
