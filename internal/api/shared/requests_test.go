package shared

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taskPayload struct {
	Title    string `json:"title"`
	Priority string `json:"priority"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantErr     bool
		errContains string
	}{
		{
			name: "valid payload",
			body: `{"title": "Ship release notes", "priority": "High"}`,
		},
		{
			name:        "trailing comma",
			body:        `{"title": "Ship release notes",}`,
			wantErr:     true,
			errContains: "invalid character",
		},
		{
			name:        "empty body",
			body:        "",
			wantErr:     true,
			errContains: "EOF",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(tc.body))

			var payload taskPayload
			err := DecodeJSON(req, &payload)

			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errContains)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Ship release notes", payload.Title)
			assert.Equal(t, "High", payload.Priority)
		})
	}
}

// failingBody errors on the first read, as a dropped connection would.
type failingBody struct{}

func (failingBody) Read(p []byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

func TestDecodeJSONBodyReadError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", failingBody{})

	var payload taskPayload
	err := DecodeJSON(req, &payload)

	assert.ErrorContains(t, err, "unexpected EOF")
}

// selfValidating exercises the custom-Validate branch of ValidateRequest.
type selfValidating struct {
	Title string
}

func (v *selfValidating) Validate() error {
	if v.Title == "" {
		return errors.New("title is required")
	}
	return nil
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     interface{}
		wantErr bool
	}{
		{
			name: "custom validator passes",
			req:  &selfValidating{Title: "Ship release notes"},
		},
		{
			name:    "custom validator rejects",
			req:     &selfValidating{},
			wantErr: true,
		},
		{
			name: "tag validation passes",
			req: &struct {
				Title string `validate:"required,max=100"`
			}{Title: "Ship release notes"},
		},
		{
			name: "tag validation rejects",
			req: &struct {
				Title string `validate:"required"`
			}{},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRequest(tc.req)

			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
