// Package report assembles analytics aggregates and scan history into
// the backend-agnostic report document consumed by the exporters.
package report

import (
	"fmt"
	"time"

	"github.com/agri-tools/fruit-atlas/pkg/models/domain"
	"github.com/agri-tools/fruit-atlas/pkg/services/format"
)

const reportTitle = "Talisay Fruit Analysis Report"

// BuildDocument dispatches on the request scope. The returned document
// is complete and validated; renderers may assume its invariants hold.
func BuildDocument(req domain.ReportRequest) (*domain.Document, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report request: %w", err)
	}

	var doc *domain.Document
	switch req.Scope {
	case domain.ScopeCategory:
		doc = BuildCategoryDocument(req.Category, req.Records, req.Analytics)
	default:
		doc = BuildOverallDocument(req.Records, req.Analytics, req.Users)
	}

	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("section builder produced malformed document: %w", err)
	}
	return doc, nil
}

// BuildCategoryDocument builds the single-stage report. Sections are
// emitted in a fixed order; that order is part of the compatibility
// surface for archival tooling and must not change casually.
func BuildCategoryDocument(cat domain.Category, records []domain.ScanRecord, analytics domain.AnalyticsAggregate) *domain.Document {
	filtered := filterByCategory(records, cat)
	stats := analytics.Stats(cat)

	doc := &domain.Document{
		Title:       reportTitle,
		Subtitle:    cat.DisplayName() + " Maturity Stage",
		GeneratedAt: time.Now().UTC(),
	}

	doc.Append(domain.SummarySection(categorySummary(cat, len(filtered), stats)))
	doc.Append(oilYieldSection(cat, stats))
	doc.Append(dimensionsSection(stats))
	doc.Append(confidenceSection(stats))
	doc.Append(qualitySection(stats))
	doc.Append(recordsGrid(filtered))

	return doc
}

// BuildOverallDocument builds the system-wide report: a superset of the
// per-stage sections plus static reference tables and the user roster.
func BuildOverallDocument(records []domain.ScanRecord, analytics domain.AnalyticsAggregate, users []domain.UserRecord) *domain.Document {
	overall := analytics.Overall

	doc := &domain.Document{
		Title:       reportTitle,
		Subtitle:    "System-Wide Summary",
		GeneratedAt: time.Now().UTC(),
	}

	doc.Append(domain.SummarySection(overallSummary(len(records), len(users), overall)))
	doc.Append(domain.KeyValueSection("System Overview", [][2]string{
		{"Total Scans", fmt.Sprintf("%d", overall.ScanCount)},
		{"Registered Users", fmt.Sprintf("%d", len(users))},
		{"Scans with Surface Spots", fmt.Sprintf("%d", overall.SpotsCount)},
		{"Reference Coin Detections", fmt.Sprintf("%d", overall.CoinDetectedCount)},
	}))
	doc.Append(categoryDistributionGrid(analytics))
	doc.Append(yieldComparisonGrid(analytics))
	doc.Append(confidenceSection(overall))
	doc.Append(dimensionsSection(overall))
	doc.Append(detectionQualitySection(overall))
	doc.Append(domain.DataGridSection("Nutritional Composition (per 100 g kernel)",
		[]string{"Component", "Amount", "Unit"}, nutritionalComposition))
	doc.Append(domain.DataGridSection("Fatty Acid Profile",
		[]string{"Fatty Acid", "Class", "Share of Oil"}, fattyAcidProfile))
	doc.Append(usersGrid(users))
	doc.Append(recordsGrid(records))

	return doc
}

func filterByCategory(records []domain.ScanRecord, cat domain.Category) []domain.ScanRecord {
	filtered := make([]domain.ScanRecord, 0, len(records))
	for _, r := range records {
		if r.Category == cat {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func categorySummary(cat domain.Category, count int, stats domain.CategoryStats) string {
	if count == 0 {
		return fmt.Sprintf(
			"No scan records found for the %s stage in the selected period. "+
				"The statistical tables below are included for completeness and contain no data.",
			cat.DisplayName())
	}

	ref := ReferenceRange(cat)
	return fmt.Sprintf(
		"This report covers %d scan(s) of %s Talisay fruit. Published studies place the "+
			"kernel oil yield for this stage between %.0f%% and %.0f%%; the system measured "+
			"an average of %s across the analyzed scans. %s",
		count, cat.DisplayName(), ref.MinPercent, ref.MaxPercent,
		format.PercentOr(stats.OilYieldAvg, 2), harvestAdvice[cat])
}

func overallSummary(recordCount, userCount int, overall domain.CategoryStats) string {
	if recordCount == 0 {
		return "No scan records found in the selected period. The statistical tables below " +
			"are included for completeness and contain no data."
	}
	return fmt.Sprintf(
		"This report summarizes %d scan(s) recorded across all maturity stages by %d registered "+
			"user(s) of the Talisay fruit analysis system. The system-wide average oil yield was %s. "+
			"Reference tables with published nutritional and fatty acid data are appended for comparison.",
		recordCount, userCount, format.PercentOr(overall.OilYieldAvg, 2))
}

func oilYieldSection(cat domain.Category, stats domain.CategoryStats) domain.Section {
	ref := ReferenceRange(cat)
	return domain.KeyValueSection("Oil Yield Statistics", [][2]string{
		{"Scans Analyzed", fmt.Sprintf("%d", stats.ScanCount)},
		{"Literature Reference Range", fmt.Sprintf("%.0f%% - %.0f%%", ref.MinPercent, ref.MaxPercent)},
		{"System Average Oil Yield", format.PercentOr(stats.OilYieldAvg, 2)},
		{"Minimum Oil Yield", format.PercentOr(stats.OilYieldMin, 2)},
		{"Maximum Oil Yield", format.PercentOr(stats.OilYieldMax, 2)},
	})
}

func dimensionsSection(stats domain.CategoryStats) domain.Section {
	return domain.KeyValueSection("Physical Dimensions", [][2]string{
		{"Average Length (cm)", format.NumberOr(stats.AvgLengthCM, 2)},
		{"Average Width (cm)", format.NumberOr(stats.AvgWidthCM, 2)},
		{"Average Kernel Mass (g)", format.NumberOr(stats.AvgKernelMassG, 2)},
		{"Average Whole Fruit Weight (g)", format.NumberOr(stats.AvgWholeFruitWeightG, 2)},
	})
}

func confidenceSection(stats domain.CategoryStats) domain.Section {
	return domain.KeyValueSection("Confidence Metrics", [][2]string{
		{"Average Overall Confidence", format.PercentOr(stats.AvgOverallConfidence, 1)},
		{"Average Color Confidence", format.PercentOr(stats.AvgColorConfidence, 1)},
		{"Average Oil Yield Confidence", format.PercentOr(stats.AvgOilConfidence, 1)},
		{"High Confidence Scans (>= 80%)", fmt.Sprintf("%d", stats.HighConfidenceCount)},
		{"Low Confidence Scans (< 50%)", fmt.Sprintf("%d", stats.LowConfidenceCount)},
	})
}

func qualitySection(stats domain.CategoryStats) domain.Section {
	return domain.KeyValueSection("Quality Indicators", [][2]string{
		{"Scans with Surface Spots", fmt.Sprintf("%d", stats.SpotsCount)},
		{"Reference Coin Detected", fmt.Sprintf("%d", stats.CoinDetectedCount)},
		{"Coin Detection Rate", shareOf(stats.CoinDetectedCount, stats.ScanCount)},
	})
}

func detectionQualitySection(stats domain.CategoryStats) domain.Section {
	return domain.KeyValueSection("Detection Quality", [][2]string{
		{"Scans with Surface Spots", fmt.Sprintf("%d", stats.SpotsCount)},
		{"Spot Incidence Rate", shareOf(stats.SpotsCount, stats.ScanCount)},
		{"Reference Coin Detections", fmt.Sprintf("%d", stats.CoinDetectedCount)},
		{"Coin Detection Rate", shareOf(stats.CoinDetectedCount, stats.ScanCount)},
	})
}

func categoryDistributionGrid(analytics domain.AnalyticsAggregate) domain.Section {
	total := analytics.Overall.ScanCount
	rows := make([][]string, 0, len(domain.Categories))
	for _, cat := range domain.Categories {
		stats := analytics.Stats(cat)
		rows = append(rows, []string{
			cat.DisplayName(),
			fmt.Sprintf("%d", stats.ScanCount),
			shareOf(stats.ScanCount, total),
		})
	}
	return domain.DataGridSection("Category Distribution",
		[]string{"Maturity Stage", "Scans", "Share"}, rows)
}

func yieldComparisonGrid(analytics domain.AnalyticsAggregate) domain.Section {
	rows := make([][]string, 0, len(domain.Categories))
	for _, cat := range domain.Categories {
		stats := analytics.Stats(cat)
		ref := ReferenceRange(cat)
		rows = append(rows, []string{
			cat.DisplayName(),
			format.PercentOr(stats.OilYieldMin, 2),
			format.PercentOr(stats.OilYieldAvg, 2),
			format.PercentOr(stats.OilYieldMax, 2),
			fmt.Sprintf("%.0f%% - %.0f%%", ref.MinPercent, ref.MaxPercent),
		})
	}
	return domain.DataGridSection("Oil Yield by Category",
		[]string{"Maturity Stage", "Minimum", "Average", "Maximum", "Literature Range"}, rows)
}

func usersGrid(users []domain.UserRecord) domain.Section {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			format.StringOr(u.Name, "N/A"),
			format.StringOr(u.Email, "N/A"),
			format.StringOr(u.Role, "N/A"),
			format.DateOr(u.JoinedAt),
		})
	}
	return domain.DataGridSection("Registered Users",
		[]string{"Name", "Email", "Role", "Joined"}, rows)
}

// recordsGrid renders the full per-scan grid in input (chronological)
// order; rows are never reordered here or in the renderers.
func recordsGrid(records []domain.ScanRecord) domain.Section {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		ts := r.ScannedAt
		rows = append(rows, []string{
			format.DateOr(&ts),
			r.Category.DisplayName(),
			format.PercentOr(r.OilYieldPercent, 2),
			format.PercentOr(r.OverallConfidence, 1),
			format.NumberOr(r.Dimensions.LengthCM, 2),
			format.NumberOr(r.Dimensions.WidthCM, 2),
			format.NumberOr(r.Dimensions.KernelMassG, 2),
			format.YesNo(r.HasSpots),
			format.YesNo(r.CoinDetected),
			format.StringOr(r.UserName, "N/A"),
		})
	}
	return domain.DataGridSection("Scan Records",
		[]string{"Date", "Maturity Stage", "Oil Yield", "Confidence",
			"Length (cm)", "Width (cm)", "Kernel Mass (g)", "Spots", "Coin Ref.", "User"}, rows)
}

func shareOf(part, total int) string {
	if total <= 0 {
		return format.MissingNumber
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(total)*100)
}
