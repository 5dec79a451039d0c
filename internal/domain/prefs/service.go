package prefs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Service struct {
	repo PreferenceRepository
}

func NewService(repo PreferenceRepository) *Service {
	return &Service{repo: repo}
}

// Get returns the account's preferences. A saved value that no longer parses
// falls back to its default rather than failing the whole read.
func (s *Service) Get(ctx context.Context, accountID uuid.UUID) (*Preferences, error) {
	saved, err := s.repo.GetAll(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("loading preferences: %w", err)
	}

	p := DefaultPreferences()
	if raw, ok := saved[KeyDateRange]; ok {
		var dr DateRangePref
		if err := json.Unmarshal(raw, &dr); err == nil && (dr.isZero() || dr.Validate() == nil) {
			p.DateRange = dr
		} else {
			log.Warn().Str("account_id", accountID.String()).
				Str("pref_key", KeyDateRange).Msg("ignoring unreadable preference value")
		}
	}
	if raw, ok := saved[KeySidebar]; ok {
		var sb SidebarPref
		if err := json.Unmarshal(raw, &sb); err == nil {
			p.Sidebar = sb
		} else {
			log.Warn().Str("account_id", accountID.String()).
				Str("pref_key", KeySidebar).Msg("ignoring unreadable preference value")
		}
	}
	return p, nil
}

func (s *Service) SetDateRange(ctx context.Context, accountID uuid.UUID, pref DateRangePref) error {
	if err := pref.Validate(); err != nil {
		return fmt.Errorf("invalid date range: %w", err)
	}
	value, err := json.Marshal(pref)
	if err != nil {
		return err
	}
	return s.repo.Set(ctx, accountID, KeyDateRange, value)
}

func (s *Service) SetSidebar(ctx context.Context, accountID uuid.UUID, collapsed bool) error {
	value, err := json.Marshal(SidebarPref{Collapsed: collapsed})
	if err != nil {
		return err
	}
	return s.repo.Set(ctx, accountID, KeySidebar, value)
}
