package hermes

import "strings"

const (
	SubjectPeriodSelected = "bellwether.session.period.selected"
	SubjectRegionSelected = "bellwether.session.region.selected"

	StreamName   = "BELLWETHER_EVENTS"
	StreamMaxAge = "168h" // 7 days
)

// Region names contain spaces; subjects use the sanitized token form.
func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "_"
	}
	return strings.NewReplacer(" ", "_", ".", "_", "*", "_", ">", "_").Replace(s)
}

func SubjectEstimateComputed(region string) string {
	return "bellwether.estimate." + subjectToken(region) + ".computed"
}

func SubjectSanityFailed(region string) string {
	return "bellwether.estimate." + subjectToken(region) + ".sanity_failed"
}

func SubjectOverrideChanged(dimension string) string {
	return "bellwether.session.override." + subjectToken(dimension) + ".changed"
}
