package prefs

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

type PreferenceRepository interface {
	// GetAll returns the saved preference values for an account keyed by
	// preference name. Accounts with nothing saved get an empty map.
	GetAll(ctx context.Context, accountID uuid.UUID) (map[string]json.RawMessage, error)
	// Set saves one preference value, replacing any previous value.
	Set(ctx context.Context, accountID uuid.UUID, key string, value json.RawMessage) error
}
