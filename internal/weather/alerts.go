package weather

import (
	"strings"
)

// Severity is the normalized alert severity.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
	SeverityExtreme  Severity = "extreme"
	SeverityCritical Severity = "critical"
	SeverityUnknown  Severity = "unknown"
)

// ParseSeverity maps a feed's severity string, case-insensitively.
// Anything unrecognised is SeverityUnknown.
func ParseSeverity(s string) Severity {
	switch sev := Severity(strings.ToLower(strings.TrimSpace(s))); sev {
	case SeverityMinor, SeverityModerate, SeveritySevere, SeverityExtreme, SeverityCritical:
		return sev
	default:
		return SeverityUnknown
	}
}

// IsSevere reports whether the alert may interrupt the user.
func (s Severity) IsSevere() bool {
	return s == SeveritySevere || s == SeverityExtreme || s == SeverityCritical
}

// AlertRecord is a normalized alert.
type AlertRecord struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// AlertView holds the informational list and the banner subset.
type AlertView struct {
	All    []AlertRecord `json:"all"`
	Severe []AlertRecord `json:"severe"`
}

// FilterAlerts normalizes the raw feed and derives both views, preserving feed order.
func FilterAlerts(raw []RawAlert) AlertView {
	view := AlertView{
		All:    make([]AlertRecord, 0, len(raw)),
		Severe: []AlertRecord{},
	}
	for _, a := range raw {
		rec := AlertRecord{
			Title:       strings.TrimSpace(a.Title),
			Description: strings.TrimSpace(a.Description),
			Severity:    ParseSeverity(a.Severity),
		}
		view.All = append(view.All, rec)
		if rec.Severity.IsSevere() {
			view.Severe = append(view.Severe, rec)
		}
	}
	return view
}
