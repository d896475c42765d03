package application

import (
	"sync"

	"github.com/ericfisherdev/commitcheck/internal/domain/model"
)

// Problems collects the reports produced by tools during one review.
// It is safe for concurrent use.
type Problems struct {
	mu      sync.Mutex
	reports []model.Report
}

// NewProblems creates an empty collection.
func NewProblems() *Problems {
	return &Problems{}
}

// Add appends a report.
func (p *Problems) Add(report model.Report) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reports = append(p.reports, report)
}

// All returns a copy of the collected reports in insertion order.
func (p *Problems) All() []model.Report {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.Report, len(p.reports))
	copy(out, p.reports)
	return out
}

// Len returns the number of collected reports.
func (p *Problems) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.reports)
}
