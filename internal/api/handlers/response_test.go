package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
		ok   bool
		code string
	}{
		{"valid", `{"amount": 10}`, true, ""},
		{"valid with trailing space", "{\"amount\": 10}\n  ", true, ""},
		{"second object", `{"amount": 10} {}`, false, "bad_request"},
		{"second value", `{"amount": 10} 5`, false, "bad_request"},
		{"trailing garbage", `{"amount": 10} x`, false, "bad_request"},
		{"unknown field", `{"amount": 10, "bonus": 1}`, false, "bad_request"},
		{"empty", ``, false, "bad_request"},
		{"fails validation", `{"amount": 0}`, false, "invalid_input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			var dst RechargeRequest
			ok := decodeJSON(rec, req, &dst)
			assert.Equal(t, tt.ok, ok)

			if tt.ok {
				assert.Equal(t, int64(10), dst.Amount)
				return
			}
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var resp apiError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error)
		})
	}
}
