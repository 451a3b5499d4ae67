package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name    string
		baseURL string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			baseURL: "http://localhost:5000/api",
			wantErr: false,
		},
		{
			name:    "missing URL",
			baseURL: "",
			wantErr: true,
			errMsg:  "server URL is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.baseURL, nil, logger)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.baseURL, client.BaseURL())
		})
	}

	t.Run("trailing slash trimmed", func(t *testing.T) {
		client, err := NewClient("http://localhost:5000/api/", nil, logger)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:5000/api", client.BaseURL())
	})
}

func TestClientOptions(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("with timeout", func(t *testing.T) {
		client, err := NewClient("http://localhost:5000/api", nil, logger, WithTimeout(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})

	t.Run("with custom http client", func(t *testing.T) {
		customClient := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClient("http://localhost:5000/api", nil, logger, WithHTTPClient(customClient))
		require.NoError(t, err)
		assert.Equal(t, customClient, client.httpClient)
	})
}

func TestBearerAttachment(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name       string
		tokens     TokenSource
		wantHeader string
	}{
		{
			name:       "token present",
			tokens:     staticToken("t1"),
			wantHeader: "Bearer t1",
		},
		{
			name:       "token absent",
			tokens:     staticToken(""),
			wantHeader: "",
		},
		{
			name:       "nil source",
			tokens:     nil,
			wantHeader: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotHeader string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotHeader = r.Header.Get("Authorization")
				json.NewEncoder(w).Encode(Response{Success: true})
			}))
			defer server.Close()

			client, err := NewClient(server.URL, tt.tokens, logger)
			require.NoError(t, err)

			_, err = client.Get(context.Background(), "/movies", nil)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHeader, gotHeader)
		})
	}
}

func TestErrorEnvelope(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name        string
		status      int
		body        any
		wantMessage string
		validation  bool
		notFound    bool
		unauth      bool
	}{
		{
			name:   "validation failure with details",
			status: http.StatusUnprocessableEntity,
			body: Response{
				Success: false,
				Error:   "validation failed",
				Details: map[string][]string{"email": {"is invalid"}},
			},
			wantMessage: "validation failed",
			validation:  true,
		},
		{
			name:        "not found",
			status:      http.StatusNotFound,
			body:        Response{Success: false, Error: "movie not found"},
			wantMessage: "movie not found",
			notFound:    true,
		},
		{
			name:        "unauthorized",
			status:      http.StatusUnauthorized,
			body:        Response{Success: false, Error: "invalid token"},
			wantMessage: "invalid token",
			unauth:      true,
		},
		{
			name:        "forbidden counts as unauthorized",
			status:      http.StatusForbidden,
			body:        Response{Success: false, Error: "not your movie"},
			wantMessage: "not your movie",
			unauth:      true,
		},
		{
			name:        "message field fallback",
			status:      http.StatusBadRequest,
			body:        Response{Success: false, Message: "bad request body"},
			wantMessage: "bad request body",
		},
		{
			name:        "non-envelope body falls back to status text",
			status:      http.StatusBadGateway,
			body:        "<html>upstream exploded</html>",
			wantMessage: "Bad Gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				switch body := tt.body.(type) {
				case string:
					w.Write([]byte(body))
				default:
					json.NewEncoder(w).Encode(body)
				}
			}))
			defer server.Close()

			client, err := NewClient(server.URL, nil, logger)
			require.NoError(t, err)

			_, err = client.Get(context.Background(), "/movies", nil)
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.Equal(t, tt.validation, apiErr.IsValidation())
			assert.Equal(t, tt.notFound, apiErr.IsNotFound())
			assert.Equal(t, tt.unauth, apiErr.IsUnauthorized())
		})
	}
}

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{
		StatusCode: 422,
		Message:    "validation failed",
		Details: map[string][]string{
			"year":  {"must be between 1 and 2100"},
			"title": {"is required"},
		},
	}
	assert.Equal(t, "API error: status 422: validation failed (title: is required, year: must be between 1 and 2100)", err.Error())

	plain := &APIError{StatusCode: 404, Message: "movie not found"}
	assert.Equal(t, "API error: status 404: movie not found", plain.Error())
}

func TestDecodeData(t *testing.T) {
	t.Run("success payload", func(t *testing.T) {
		body := []byte(`{"success":true,"data":{"id":1,"username":"a"}}`)
		var user User
		require.NoError(t, DecodeData(body, &user))
		assert.Equal(t, int64(1), user.ID)
		assert.Equal(t, "a", user.Username)
	})

	t.Run("failure envelope", func(t *testing.T) {
		body := []byte(`{"success":false,"error":"nope"}`)
		err := DecodeData(body, &User{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nope")
	})

	t.Run("missing data", func(t *testing.T) {
		body := []byte(`{"success":true}`)
		err := DecodeData(body, &User{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no data")
	})

	t.Run("nil target skips payload decode", func(t *testing.T) {
		body := []byte(`{"success":true}`)
		require.NoError(t, DecodeData(body, nil))
	})
}
