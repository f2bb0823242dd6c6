// Package analytics computes the summary statistics snapshot the report
// builder consumes. Deployments backed by the remote analytics service
// receive the snapshot precomputed; local (CLI) runs derive it here from
// the scan log.
package analytics

import "github.com/agri-tools/fruit-atlas/pkg/models/domain"

// Confidence thresholds used when bucketing scans into quality counters.
// Fixed domain constants rather than configuration: they mirror the
// classification bands the analysis models were validated against.
const (
	HighConfidenceThreshold = 0.80
	LowConfidenceThreshold  = 0.50
)

// Aggregate derives the full analytics snapshot from raw scan records.
func Aggregate(records []domain.ScanRecord) domain.AnalyticsAggregate {
	agg := domain.AnalyticsAggregate{
		ByCategory: make(map[domain.Category]domain.CategoryStats, len(domain.Categories)),
	}

	byCategory := make(map[domain.Category][]domain.ScanRecord)
	for _, r := range records {
		byCategory[r.Category] = append(byCategory[r.Category], r)
	}

	agg.Overall = statsFor(records)
	for _, cat := range domain.Categories {
		agg.ByCategory[cat] = statsFor(byCategory[cat])
	}
	return agg
}

func statsFor(records []domain.ScanRecord) domain.CategoryStats {
	stats := domain.CategoryStats{ScanCount: len(records)}

	var yields, overall, color, oil accumulator
	var length, width, kernel, weight accumulator

	for _, r := range records {
		yields.add(r.OilYieldPercent)
		overall.add(r.OverallConfidence)
		color.add(r.ColorConfidence)
		oil.add(r.OilYieldConfidence)
		length.add(r.Dimensions.LengthCM)
		width.add(r.Dimensions.WidthCM)
		kernel.add(r.Dimensions.KernelMassG)
		weight.add(r.Dimensions.WholeFruitWeightG)

		if c := r.OverallConfidence; c != nil {
			if *c >= HighConfidenceThreshold {
				stats.HighConfidenceCount++
			}
			if *c < LowConfidenceThreshold {
				stats.LowConfidenceCount++
			}
		}
		if r.HasSpots {
			stats.SpotsCount++
		}
		if r.CoinDetected {
			stats.CoinDetectedCount++
		}
	}

	stats.OilYieldMin = yields.min()
	stats.OilYieldAvg = yields.avg()
	stats.OilYieldMax = yields.max()
	stats.AvgOverallConfidence = overall.avg()
	stats.AvgColorConfidence = color.avg()
	stats.AvgOilConfidence = oil.avg()
	stats.AvgLengthCM = length.avg()
	stats.AvgWidthCM = width.avg()
	stats.AvgKernelMassG = kernel.avg()
	stats.AvgWholeFruitWeightG = weight.avg()
	return stats
}

// accumulator folds nullable samples; absent values simply do not count.
type accumulator struct {
	sum      float64
	count    int
	lo, hi   float64
	hasBound bool
}

func (a *accumulator) add(v *float64) {
	if v == nil {
		return
	}
	a.sum += *v
	a.count++
	if !a.hasBound || *v < a.lo {
		a.lo = *v
	}
	if !a.hasBound || *v > a.hi {
		a.hi = *v
	}
	a.hasBound = true
}

func (a *accumulator) avg() *float64 {
	if a.count == 0 {
		return nil
	}
	v := a.sum / float64(a.count)
	return &v
}

func (a *accumulator) min() *float64 {
	if !a.hasBound {
		return nil
	}
	v := a.lo
	return &v
}

func (a *accumulator) max() *float64 {
	if !a.hasBound {
		return nil
	}
	v := a.hi
	return &v
}
