package settings

import (
	"testing"
	"time"

	"github.com/tawahcm/soquy/internal/models"
	"github.com/tawahcm/soquy/internal/remote"
)

type fakeRemote struct {
	stored *models.AppSettings
	getErr error
}

func (f *fakeRemote) GetSettings(userID string) (*models.AppSettings, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.stored, nil
}

func (f *fakeRemote) UpsertSettings(s *models.AppSettings) (*models.AppSettings, error) {
	copied := *s
	f.stored = &copied
	return &copied, nil
}

func int64Ptr(v int64) *int64 { return &v }

func TestGetFallsBackToDefaults(t *testing.T) {
	svc := NewService(&fakeRemote{getErr: remote.ErrNotFound}, "u1")

	s, err := svc.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := CashLowThreshold(s); got != DefaultCashLowThreshold {
		t.Errorf("got threshold %d, want %d", got, DefaultCashLowThreshold)
	}
	if got := InactiveDaysThreshold(s); got != DefaultInactiveDaysThreshold {
		t.Errorf("got inactive days %d, want %d", got, DefaultInactiveDaysThreshold)
	}
	if s.CashLowMessage == "" || s.InactiveMessage == "" {
		t.Error("default messages missing")
	}
}

func TestGetMergesDefaultsOverPartialRecord(t *testing.T) {
	fake := &fakeRemote{stored: &models.AppSettings{
		UserID: "u1", OpeningCash: 500000, CashLowThreshold: int64Ptr(100000),
	}}
	svc := NewService(fake, "u1")

	s, err := svc.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if s.OpeningCash != 500000 {
		t.Errorf("stored opening cash lost: %d", s.OpeningCash)
	}
	if got := CashLowThreshold(s); got != 100000 {
		t.Errorf("stored threshold overridden: %d", got)
	}
	if s.InactiveMessage != DefaultInactiveMessage {
		t.Errorf("unset message not defaulted: %q", s.InactiveMessage)
	}
}

// A stored zero threshold means the user turned the alert off; the
// default merge must not resurrect it.
func TestZeroThresholdSurvivesAndDisablesAlert(t *testing.T) {
	fake := &fakeRemote{stored: &models.AppSettings{
		UserID: "u1", CashLowThreshold: int64Ptr(0),
	}}
	svc := NewService(fake, "u1")

	s, err := svc.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := CashLowThreshold(s); got != 0 {
		t.Fatalf("zero threshold re-defaulted to %d", got)
	}

	now := time.Now()
	for _, alert := range Evaluate(s, 0, now, now) {
		if alert.Kind == AlertCashLow {
			t.Fatal("cash_low alert raised with the threshold turned off")
		}
	}
}

func TestSetRoundTrips(t *testing.T) {
	fake := &fakeRemote{}
	svc := NewService(fake, "u1")

	in := Defaults("ignored")
	in.OpeningBank = 2_000_000
	stored, err := svc.Set(in)
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if stored.UserID != "u1" {
		t.Errorf("got user %q, want the service's user", stored.UserID)
	}
	if fake.stored.OpeningBank != 2_000_000 {
		t.Errorf("opening bank not persisted: %d", fake.stored.OpeningBank)
	}
}

func TestEvaluateCashLow(t *testing.T) {
	s := Defaults("u1")
	now := time.Now()

	alerts := Evaluate(s, 250000, now, now)
	if len(alerts) != 1 || alerts[0].Kind != AlertCashLow {
		t.Fatalf("got %+v, want one cash_low alert", alerts)
	}
	if alerts[0].Message != DefaultCashLowMessage {
		t.Errorf("got message %q", alerts[0].Message)
	}

	if alerts := Evaluate(s, 300000, now, now); len(alerts) != 0 {
		t.Errorf("at threshold: got %+v, want none", alerts)
	}
}

func TestEvaluateInactivity(t *testing.T) {
	s := Defaults("u1")
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

	stale := now.AddDate(0, 0, -3)
	alerts := Evaluate(s, 1_000_000, stale, now)
	if len(alerts) != 1 || alerts[0].Kind != AlertInactive {
		t.Fatalf("got %+v, want one inactive alert", alerts)
	}

	fresh := now.AddDate(0, 0, -1)
	if alerts := Evaluate(s, 1_000_000, fresh, now); len(alerts) != 0 {
		t.Errorf("fresh activity: got %+v, want none", alerts)
	}

	// An empty ledger has no activity to be inactive about.
	if alerts := Evaluate(s, 1_000_000, time.Time{}, now); len(alerts) != 0 {
		t.Errorf("empty ledger: got %+v, want none", alerts)
	}
}

func TestEvaluateBothAlerts(t *testing.T) {
	s := Defaults("u1")
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

	alerts := Evaluate(s, 0, now.AddDate(0, 0, -5), now)
	if len(alerts) != 2 {
		t.Fatalf("got %d alerts, want 2", len(alerts))
	}
}
