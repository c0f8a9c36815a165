package notify

import (
	"SMCAlert/internal/domain/models"
	"SMCAlert/pkg/config"
)

// Preferences filters which alerts are worth pushing to a channel.
// The zero value lets everything through.
type Preferences struct {
	kinds               map[models.AlertKind]bool // nil means all kinds
	minQuality          int
	volumeConfirmedOnly bool
	trendAlignedOnly    bool
}

func NewPreferences(kinds []models.AlertKind, minQuality int, volumeConfirmedOnly, trendAlignedOnly bool) Preferences {
	p := Preferences{
		minQuality:          minQuality,
		volumeConfirmedOnly: volumeConfirmedOnly,
		trendAlignedOnly:    trendAlignedOnly,
	}
	if len(kinds) > 0 {
		p.kinds = make(map[models.AlertKind]bool, len(kinds))
		for _, k := range kinds {
			p.kinds[k] = true
		}
	}
	return p
}

// PreferencesFromConfig builds the filter from the notify config section.
func PreferencesFromConfig(cfg *config.Config) Preferences {
	pc := cfg.Notify.Preferences
	kinds := make([]models.AlertKind, 0, len(pc.Kinds))
	for _, k := range pc.Kinds {
		kinds = append(kinds, models.AlertKind(k))
	}
	return NewPreferences(kinds, pc.MinQuality, pc.VolumeConfirmedOnly, pc.TrendAlignedOnly)
}

// Match reports whether a should be delivered.
func (p Preferences) Match(a models.Alert) bool {
	if p.kinds != nil && !p.kinds[a.Kind] {
		return false
	}
	if a.QualityScore < p.minQuality {
		return false
	}
	if p.volumeConfirmedOnly && !a.VolumeConfirmed {
		return false
	}
	if p.trendAlignedOnly && !a.TrendAligned {
		return false
	}
	return true
}

// Filter returns the alerts that pass Match, preserving order.
func (p Preferences) Filter(alerts []models.Alert) []models.Alert {
	var out []models.Alert
	for _, a := range alerts {
		if p.Match(a) {
			out = append(out, a)
		}
	}
	return out
}
