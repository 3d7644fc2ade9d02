// Package settings manages per-user app settings and the alerts derived
// from them. Settings live in the remote store; absent values fall back
// to the defaults below so a fresh account behaves sensibly offline.
package settings

import (
	"errors"
	"fmt"
	"time"

	"github.com/tawahcm/soquy/internal/models"
	"github.com/tawahcm/soquy/internal/remote"
)

// Defaults applied to any field the remote record leaves unset.
const (
	DefaultCashLowThreshold      = 300_000
	DefaultInactiveDaysThreshold = 2
	DefaultCashLowMessage        = "Tiền mặt sắp hết, nhớ rút thêm hoặc thu nợ nha!"
	DefaultInactiveMessage       = "Lâu rồi chưa ghi sổ, đừng quên nhập thu chi nhé!"
)

// Remote is the slice of the data API the service needs.
type Remote interface {
	GetSettings(userID string) (*models.AppSettings, error)
	UpsertSettings(s *models.AppSettings) (*models.AppSettings, error)
}

// Service reads and writes app settings for one user.
type Service struct {
	remote Remote
	userID string
}

// NewService creates a settings service scoped to one user.
func NewService(r Remote, userID string) *Service {
	return &Service{remote: r, userID: userID}
}

// Defaults returns a fully populated settings record for a user with no
// stored settings.
func Defaults(userID string) *models.AppSettings {
	threshold := int64(DefaultCashLowThreshold)
	days := DefaultInactiveDaysThreshold
	return &models.AppSettings{
		UserID:                userID,
		CashLowThreshold:      &threshold,
		InactiveDaysThreshold: &days,
		CashLowMessage:        DefaultCashLowMessage,
		InactiveMessage:       DefaultInactiveMessage,
	}
}

// Get fetches the user's settings with defaults merged over any unset
// fields. A missing remote record yields pure defaults, not an error.
func (s *Service) Get() (*models.AppSettings, error) {
	stored, err := s.remote.GetSettings(s.userID)
	if errors.Is(err, remote.ErrNotFound) {
		return Defaults(s.userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch settings: %w", err)
	}
	applyDefaults(stored)
	return stored, nil
}

// Set stores the given settings for the user and returns the persisted
// record with defaults merged in.
func (s *Service) Set(in *models.AppSettings) (*models.AppSettings, error) {
	in.UserID = s.userID
	stored, err := s.remote.UpsertSettings(in)
	if err != nil {
		return nil, fmt.Errorf("store settings: %w", err)
	}
	applyDefaults(stored)
	return stored, nil
}

// applyDefaults fills absent fields. The thresholds are pointers so a
// stored zero (alert disabled) survives the merge untouched.
func applyDefaults(s *models.AppSettings) {
	if s.CashLowThreshold == nil {
		threshold := int64(DefaultCashLowThreshold)
		s.CashLowThreshold = &threshold
	}
	if s.InactiveDaysThreshold == nil {
		days := DefaultInactiveDaysThreshold
		s.InactiveDaysThreshold = &days
	}
	if s.CashLowMessage == "" {
		s.CashLowMessage = DefaultCashLowMessage
	}
	if s.InactiveMessage == "" {
		s.InactiveMessage = DefaultInactiveMessage
	}
}

// AlertKind distinguishes the reminder classes the app raises.
type AlertKind string

const (
	AlertCashLow  AlertKind = "cash_low"
	AlertInactive AlertKind = "inactive"
)

// Alert is one reminder ready for display.
type Alert struct {
	Kind    AlertKind
	Message string
}

// Evaluate derives the active alerts from the current settings and ledger
// state. lastActivity is the newest entry's effective time; the zero time
// means an empty ledger, which never triggers the inactivity reminder.
// A threshold set to zero disables its alert.
func Evaluate(s *models.AppSettings, cashBalance int64, lastActivity, now time.Time) []Alert {
	var alerts []Alert
	if t := CashLowThreshold(s); t > 0 && cashBalance < t {
		alerts = append(alerts, Alert{Kind: AlertCashLow, Message: s.CashLowMessage})
	}
	if d := InactiveDaysThreshold(s); d > 0 && !lastActivity.IsZero() {
		idle := int(now.Sub(lastActivity).Hours() / 24)
		if idle >= d {
			alerts = append(alerts, Alert{Kind: AlertInactive, Message: s.InactiveMessage})
		}
	}
	return alerts
}

// CashLowThreshold unwraps the pointer field; nil reads as the default.
func CashLowThreshold(s *models.AppSettings) int64 {
	if s.CashLowThreshold == nil {
		return DefaultCashLowThreshold
	}
	return *s.CashLowThreshold
}

// InactiveDaysThreshold unwraps the pointer field; nil reads as the default.
func InactiveDaysThreshold(s *models.AppSettings) int {
	if s.InactiveDaysThreshold == nil {
		return DefaultInactiveDaysThreshold
	}
	return *s.InactiveDaysThreshold
}
