package protocol

import (
	"encoding/json"
	"fmt"

	"mcserverd/internal/buffer"
)

// WriteJSON serializes v to JSON and writes it as a String field. Used for
// ServerStatus and every chat-component payload.
func WriteJSON(c *buffer.Cursor, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	WriteString(c, string(b))
	return nil
}

// ReadJSON reads a String field and unmarshals it into T.
func ReadJSON[T any](c *buffer.Cursor) (T, error) {
	var out T
	s, err := ReadString(c)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return out, nil
}
