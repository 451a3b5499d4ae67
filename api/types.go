package api

import (
	"encoding/json"
	"fmt"
	"time"
)

// User is the backend's user profile object.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Response is the backend's standard success envelope. The payload
// shape varies per endpoint, so Data is left raw for the caller to
// decode.
type Response struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    json.RawMessage     `json:"data,omitempty"`
	Error   string              `json:"error,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

// DecodeData unmarshals an envelope body and decodes its data payload
// into v. It returns an error if the envelope reports failure or
// carries no payload.
func DecodeData(body []byte, v any) error {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = resp.Message
		}
		if msg == "" {
			msg = "request failed"
		}
		return fmt.Errorf("API error: %s", msg)
	}

	if v == nil {
		return nil
	}
	if len(resp.Data) == 0 {
		return fmt.Errorf("response envelope has no data")
	}

	if err := json.Unmarshal(resp.Data, v); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}
