package models

// Check result statuses as they appear in persisted reports.
const (
	StatusPass = "Pass"
	StatusFail = "Fail"
)

// CheckResult is one row of a validation report.
type CheckResult struct {
	Check   string
	Status  string
	Details string
}

// Report is the ordered outcome of one validation call. The validator never
// aggregates; callers decide what an overall failure means.
type Report []CheckResult

// AllPass reports whether every check in the report passed.
func (r Report) AllPass() bool {
	for _, c := range r {
		if c.Status != StatusPass {
			return false
		}
	}
	return true
}

// Failures returns the failing rows, preserving report order.
func (r Report) Failures() []CheckResult {
	var out []CheckResult
	for _, c := range r {
		if c.Status == StatusFail {
			out = append(out, c)
		}
	}
	return out
}
