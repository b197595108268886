package scheduler

import "github.com/optimg/optimg/internal/model"

// Report aggregates the whole batch's outcomes. Results arrive in
// completion order, which carries no relation to input order.
type Report struct {
	Total     int
	Results   []model.JobResult
	Succeeded int
	Failed    int

	BytesIn  int64
	BytesOut int64
}

func (r *Report) add(res model.JobResult) {
	r.Results = append(r.Results, res)
	if res.Succeeded() {
		r.Succeeded++
		r.BytesIn += res.BytesIn
		r.BytesOut += res.BytesWritten
		return
	}
	r.Failed++
}

// AllSucceeded reports whether every dispatched job completed and wrote
// its output. The process exit code is zero only when this holds.
func (r Report) AllSucceeded() bool {
	return r.Failed == 0 && len(r.Results) == r.Total
}

// Failures returns the failed results for the per-file error summary.
func (r Report) Failures() []model.JobResult {
	out := make([]model.JobResult, 0, r.Failed)
	for _, res := range r.Results {
		if !res.Succeeded() {
			out = append(out, res)
		}
	}
	return out
}
