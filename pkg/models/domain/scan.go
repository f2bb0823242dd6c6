package domain

import "time"

// Category is the maturity stage assigned to a scanned Talisay fruit.
type Category string

const (
	CategoryGreen  Category = "GREEN"
	CategoryYellow Category = "YELLOW"
	CategoryBrown  Category = "BROWN"
)

// Categories lists every maturity stage in presentation order.
var Categories = []Category{CategoryGreen, CategoryYellow, CategoryBrown}

// DisplayName returns the human readable stage name used in reports.
func (c Category) DisplayName() string {
	switch c {
	case CategoryGreen:
		return "Green (Immature)"
	case CategoryYellow:
		return "Yellow (Mature)"
	case CategoryBrown:
		return "Brown (Fully Ripe)"
	default:
		return string(c)
	}
}

// Valid reports whether c is one of the known maturity stages.
func (c Category) Valid() bool {
	switch c {
	case CategoryGreen, CategoryYellow, CategoryBrown:
		return true
	}
	return false
}

// Dimensions holds the physical measurements estimated for a single scan.
// Every field is nullable: the estimator skips measurements it cannot
// derive (e.g. no reference coin in frame).
type Dimensions struct {
	LengthCM          *float64
	WidthCM           *float64
	KernelMassG       *float64
	WholeFruitWeightG *float64
}

// ScanRecord is one fruit scan as fetched from the scan log. Records are
// owned by the caller and read-only to the report pipeline.
type ScanRecord struct {
	ID       string
	Category Category

	// Confidence scores are fractions in [0,1] when present.
	OverallConfidence   *float64
	ColorConfidence     *float64
	OilYieldConfidence  *float64
	DetectionConfidence *float64

	OilYieldPercent *float64
	Dimensions      Dimensions

	HasSpots     bool
	CoinDetected bool

	ScannedAt time.Time
	UserName  string
	UserEmail string
}

// CategoryStats are the precomputed summary statistics for one maturity
// stage (or for the whole system when used as the overall block).
type CategoryStats struct {
	ScanCount int

	OilYieldMin *float64
	OilYieldAvg *float64
	OilYieldMax *float64

	AvgOverallConfidence  *float64
	AvgColorConfidence    *float64
	AvgOilConfidence      *float64
	HighConfidenceCount   int
	LowConfidenceCount    int

	AvgLengthCM          *float64
	AvgWidthCM           *float64
	AvgKernelMassG       *float64
	AvgWholeFruitWeightG *float64

	SpotsCount        int
	CoinDetectedCount int
}

// AnalyticsAggregate is a read-only snapshot of the analytics service
// output: per-stage statistics plus a system-wide rollup.
type AnalyticsAggregate struct {
	Overall    CategoryStats
	ByCategory map[Category]CategoryStats
}

// Stats returns the stats block for a stage, zero-valued when the
// analytics snapshot has no entry for it.
func (a AnalyticsAggregate) Stats(c Category) CategoryStats {
	if a.ByCategory == nil {
		return CategoryStats{}
	}
	return a.ByCategory[c]
}

// UserRecord is one row of the user roster included in system reports.
type UserRecord struct {
	Name     string
	Email    string
	Role     string
	JoinedAt *time.Time
}
