package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/lendingdesk/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupValidator(t *testing.T) {
	SetupValidator()
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	type withPeriod struct {
		Period string `binding:"period"`
	}
	assert.NoError(t, v.Struct(withPeriod{Period: "03/2026"}))
	assert.Error(t, v.Struct(withPeriod{Period: "3/2026"}))
	assert.Error(t, v.Struct(withPeriod{Period: "13/2026"}))
}

func TestHandleValidationError(t *testing.T) {
	SetupValidator()

	type input struct {
		LoanID string `json:"loan_id" binding:"required,uuid"`
		Period string `json:"period" binding:"required,period"`
		Type   string `json:"type" binding:"required,oneof=PERCENTAGE FIXED_AMOUNT"`
	}

	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		c.Set(RequestIDKey, "req-42")
		var in input
		if err := c.ShouldBindJSON(&in); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	t.Run("details name json fields", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/test", strings.NewReader(`{"loan_id":"x","period":"2026/03","type":"TIERED"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
		assert.Equal(t, "req-42", resp.Error.RequestID)
		require.Len(t, resp.Error.Details, 3)

		byField := map[string]string{}
		for _, d := range resp.Error.Details {
			byField[d.Field] = d.Message
		}
		assert.Equal(t, "Invalid UUID format", byField["loan_id"])
		assert.Equal(t, "Must be a period in MM/YYYY format", byField["period"])
		assert.Equal(t, "Must be one of: PERCENTAGE FIXED_AMOUNT", byField["type"])
	})

	t.Run("valid input passes", func(t *testing.T) {
		body := `{"loan_id":"0b6c3a9e-5b0b-4c8f-9d5e-6a9f8d1e2c33","period":"03/2026","type":"FIXED_AMOUNT"}`
		req := httptest.NewRequest("POST", "/test", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestGetValidationMessage(t *testing.T) {
	type sample struct {
		Required string `validate:"required"`
		Min      string `validate:"min=5"`
		Max      int    `validate:"max=10"`
		GT       int    `validate:"gt=0"`
	}

	v := validator.New()
	err := v.Struct(sample{Min: "ab", Max: 11})
	require.Error(t, err)

	messages := map[string]string{}
	for _, e := range err.(validator.ValidationErrors) {
		messages[e.Field()] = getValidationMessage(e)
	}
	assert.Equal(t, "This field is required", messages["Required"])
	assert.Equal(t, "Must be at least 5 characters", messages["Min"])
	assert.Equal(t, "Must be at most 10", messages["Max"])
	assert.Equal(t, "Must be greater than 0", messages["GT"])
}
