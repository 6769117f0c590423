package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Name  string `json:"name"  validate:"required"`
	Count int    `json:"count" validate:"gte=1"`
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"name":"a","count":2}`},
		{name: "empty body", body: "", wantErr: true},
		{name: "malformed", body: `{"name":`, wantErr: true},
		{name: "unknown field", body: `{"name":"a","extra":true}`, wantErr: true},
		{name: "trailing value", body: `{"name":"a"}{"name":"b"}`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var p testPayload
			err := DecodeJSON(r, &p)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testPayload{Name: "a", Count: 2}, p)
		})
	}
}

func TestDecodeJSON_EmptyBody(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	var p testPayload
	assert.ErrorIs(t, DecodeJSON(r, &p), ErrEmptyBody)
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateRequest(&testPayload{Name: "a", Count: 1}))
	assert.Error(t, ValidateRequest(&testPayload{Count: 1}))
	assert.Error(t, ValidateRequest(&testPayload{Name: "a"}))
}
