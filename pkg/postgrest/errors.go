package postgrest

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is returned by every call when the project URL or API key is missing.
	ErrNotConfigured = errors.New("postgrest: client is not configured (set SUPABASE_URL and SUPABASE_ANON_KEY)")
	// ErrUnreachable wraps transport failures.
	ErrUnreachable = errors.New("postgrest: service unreachable")
)

// Error is a non-2xx response from the row or auth API.
type Error struct {
	Status  int
	Code    string
	Message string
	Details string
	Hint    string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("postgrest: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("postgrest: %d: %s", e.Status, e.Message)
}

// decodeError builds an Error from a response body. Both the row API shape
// ({code, message, details, hint}) and the auth API shapes
// ({error, error_description} and {code, error_code, msg}) are understood.
func decodeError(status int, body []byte) *Error {
	e := &Error{Status: status}
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		e.Message = string(body)
		return e
	}
	str := func(k string) string {
		if s, ok := raw[k].(string); ok {
			return s
		}
		return ""
	}
	e.Code = firstNonEmpty(str("code"), str("error_code"), str("error"))
	e.Message = firstNonEmpty(str("message"), str("msg"), str("error_description"), string(body))
	e.Details = str("details")
	e.Hint = str("hint")
	return e
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
