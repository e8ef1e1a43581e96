// Package doctor runs the readiness checks behind `limit-up doctor`.
package doctor

// Status is the outcome of one check.
type Status string

const (
	StatusOK   Status = "OK"
	StatusWarn Status = "WARN"
	StatusFail Status = "FAIL"
)

// Result is one line of doctor output.
type Result struct {
	Status    Status
	CheckName string
	Message   string
	// Recommendation may span several lines.
	Recommendation string
}

// Worst returns the most severe status in results, StatusOK when empty.
func Worst(results []Result) Status {
	worst := StatusOK
	for _, r := range results {
		switch r.Status {
		case StatusFail:
			return StatusFail
		case StatusWarn:
			worst = StatusWarn
		}
	}
	return worst
}
