package notify

import (
	"testing"

	"SMCAlert/internal/domain/models"
)

func alert(kind models.AlertKind, quality int, volConf, trendAligned bool) models.Alert {
	return models.Alert{
		Kind:            kind,
		Direction:       models.AlertBuy,
		QualityScore:    quality,
		VolumeConfirmed: volConf,
		TrendAligned:    trendAligned,
	}
}

func TestPreferencesZeroValueMatchesEverything(t *testing.T) {
	var p Preferences
	if !p.Match(alert(models.AlertZone, 0, false, false)) {
		t.Errorf("zero-value preferences rejected an alert")
	}
}

func TestPreferencesKindFilter(t *testing.T) {
	p := NewPreferences([]models.AlertKind{models.AlertEntry, models.AlertCHoCH}, 0, false, false)

	if !p.Match(alert(models.AlertEntry, 50, false, false)) {
		t.Errorf("entry alert rejected despite being enabled")
	}
	if p.Match(alert(models.AlertFVG, 90, true, true)) {
		t.Errorf("fvg alert passed despite not being enabled")
	}
}

func TestPreferencesMinQuality(t *testing.T) {
	p := NewPreferences(nil, 60, false, false)

	if p.Match(alert(models.AlertEntry, 59, true, true)) {
		t.Errorf("quality 59 passed a minimum of 60")
	}
	if !p.Match(alert(models.AlertEntry, 60, false, false)) {
		t.Errorf("quality 60 rejected by a minimum of 60")
	}
}

func TestPreferencesConfirmationFlags(t *testing.T) {
	p := NewPreferences(nil, 0, true, true)

	if p.Match(alert(models.AlertEntry, 90, false, true)) {
		t.Errorf("unconfirmed volume passed volume_confirmed_only")
	}
	if p.Match(alert(models.AlertEntry, 90, true, false)) {
		t.Errorf("counter-trend alert passed trend_aligned_only")
	}
	if !p.Match(alert(models.AlertEntry, 90, true, true)) {
		t.Errorf("fully confirmed alert rejected")
	}
}

func TestPreferencesFilterPreservesOrder(t *testing.T) {
	p := NewPreferences(nil, 50, false, false)
	in := []models.Alert{
		alert(models.AlertEntry, 80, false, false),
		alert(models.AlertNear, 30, false, false),
		alert(models.AlertBOS, 55, false, false),
	}

	out := p.Filter(in)
	if len(out) != 2 {
		t.Fatalf("filtered count = %d, want 2", len(out))
	}
	if out[0].Kind != models.AlertEntry || out[1].Kind != models.AlertBOS {
		t.Errorf("filter reordered alerts: %v, %v", out[0].Kind, out[1].Kind)
	}
}
