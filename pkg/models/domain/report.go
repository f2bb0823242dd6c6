package domain

import "fmt"

// ReportScope selects between a single-stage report and the system-wide one.
type ReportScope string

const (
	ScopeCategory ReportScope = "category"
	ScopeOverall  ReportScope = "overall"
)

// ReportRequest is the input to the whole report pipeline.
// Category must be set iff Scope is ScopeCategory.
type ReportRequest struct {
	Scope     ReportScope
	Category  Category
	Records   []ScanRecord
	Analytics AnalyticsAggregate
	Users     []UserRecord
}

// Validate enforces the scope/category invariant.
func (r ReportRequest) Validate() error {
	switch r.Scope {
	case ScopeCategory:
		if !r.Category.Valid() {
			return fmt.Errorf("category scope requires a valid category, got %q", r.Category)
		}
	case ScopeOverall:
		if r.Category != "" {
			return fmt.Errorf("overall scope must not carry a category, got %q", r.Category)
		}
	default:
		return fmt.Errorf("unknown report scope %q", r.Scope)
	}
	return nil
}
