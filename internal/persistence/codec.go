package persistence

import (
	"context"
	"encoding/json"
	"fmt"
)

// SchemaVersion is written into every stored envelope.
const SchemaVersion = 1

type envelope struct {
	Version int             `json:"v"`
	Data    json.RawMessage `json:"data"`
}

// Encode wraps v in a versioned envelope.
func Encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Version: SchemaVersion, Data: data})
}

// Decode unwraps raw into dst, failing closed on malformed or foreign data.
func Decode(raw []byte, dst any) bool {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return false
	}
	if env.Version != SchemaVersion || len(env.Data) == 0 {
		return false
	}
	return json.Unmarshal(env.Data, dst) == nil
}

// LoadJSON reads key into dst. Missing, malformed and unreadable values all
// report false; only the storage error is returned for logging.
func LoadJSON(ctx context.Context, store Store, key string, dst any) (bool, error) {
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	return Decode(raw, dst), nil
}

// SaveJSON encodes v and writes it to key.
func SaveJSON(ctx context.Context, store Store, key string, v any) error {
	raw, err := Encode(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
