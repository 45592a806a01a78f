// Package devwallets is the fallback store for wallet profiles and
// transaction histories used while the primary database is unreachable.
// Payloads are opaque JSON: a profile must be an object and a history an
// array.
package devwallets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/atxwallet/atxserver/internal/common"
)

var emptyHistory = []byte("[]")

// Store validates payloads and keys them by sanitized user identifier.
type Store struct {
	backend Backend
}

func NewStore(b Backend) *Store {
	return &Store{backend: b}
}

func (s *Store) PutProfile(ctx context.Context, userID string, payload []byte) error {
	if userID == "" {
		return fmt.Errorf("%w: missing id", common.ErrorBadRequest)
	}
	data, err := ValidateProfile(payload)
	if err != nil {
		return err
	}
	return s.backend.Write(ctx, profileKey(userID), data)
}

// GetProfile returns common.ErrorNotFound when no profile was stored.
func (s *Store) GetProfile(ctx context.Context, userID string) ([]byte, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing id", common.ErrorBadRequest)
	}
	return s.backend.Read(ctx, profileKey(userID))
}

func (s *Store) HeadProfile(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	return s.backend.Exists(ctx, profileKey(userID))
}

func (s *Store) DeleteProfile(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: missing id", common.ErrorBadRequest)
	}
	return s.backend.Remove(ctx, profileKey(userID))
}

func (s *Store) PutHistory(ctx context.Context, userID string, payload []byte) error {
	if userID == "" {
		return fmt.Errorf("%w: missing id", common.ErrorBadRequest)
	}
	data, err := ValidateHistory(payload)
	if err != nil {
		return err
	}
	return s.backend.Write(ctx, historyKey(userID), data)
}

// GetHistory returns an empty JSON array when no history was stored.
func (s *Store) GetHistory(ctx context.Context, userID string) ([]byte, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing id", common.ErrorBadRequest)
	}
	data, err := s.backend.Read(ctx, historyKey(userID))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return emptyHistory, nil
		}
		return nil, err
	}
	return data, nil
}

// ValidateProfile returns payload compacted, or common.ErrorBadRequest unless
// it is a JSON object.
func ValidateProfile(payload []byte) ([]byte, error) {
	return compactAs(payload, '{', "object")
}

// ValidateHistory returns payload compacted, or common.ErrorBadRequest unless
// it is a JSON array.
func ValidateHistory(payload []byte) ([]byte, error) {
	return compactAs(payload, '[', "array")
}

func compactAs(payload []byte, open byte, kind string) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, payload); err != nil || buf.Len() == 0 || buf.Bytes()[0] != open {
		return nil, fmt.Errorf("%w: body must be a JSON %s", common.ErrorBadRequest, kind)
	}
	return buf.Bytes(), nil
}
