package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/safespace/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingForm struct {
	Email         string   `json:"email" binding:"required,email"`
	Sessions      string   `json:"sessions" binding:"required,oneof=200 550 900"`
	PreferredDate string   `json:"preferredDate" binding:"required,datetime=2006-01-02"`
	PreferredTime string   `json:"preferredTime" binding:"required,datetime=15:04"`
	Notes         string   `json:"notes" binding:"max=5"`
	Tags          []string `json:"tags" binding:"max=1"`
}

func TestHandleValidationError(t *testing.T) {
	SetupValidator()

	router := gin.New()
	router.Use(RequestID())
	router.POST("/book", func(c *gin.Context) {
		var form bookingForm
		if err := c.ShouldBindJSON(&form); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	body := `{"email":"nope","sessions":"300","preferredDate":"14/10/2026","preferredTime":"9am","notes":"too long","tags":["a","b"]}`
	req := httptest.NewRequest(http.MethodPost, "/book", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, "req-7")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-7", resp.Error.RequestID)

	got := map[string]string{}
	for _, d := range resp.Error.Details {
		got[d.Field] = d.Message
	}
	assert.Equal(t, "Invalid email format", got["email"])
	assert.Equal(t, "Must be one of: 200 550 900", got["sessions"])
	assert.Equal(t, "Must be a date in YYYY-MM-DD format", got["preferredDate"])
	assert.Equal(t, "Must be a time in HH:MM format", got["preferredTime"])
	assert.Equal(t, "Must be at most 5 characters", got["notes"])
	assert.Equal(t, "Must contain at most 1 items", got["tags"])
}

func TestFormatValidationErrors_NonValidatorError(t *testing.T) {
	resp := FormatValidationErrors(assert.AnError, "req-1")

	require.NotNil(t, resp.Error)
	assert.False(t, resp.Success)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Empty(t, resp.Error.Details)
}
