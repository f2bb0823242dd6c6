package report

import "github.com/agri-tools/fruit-atlas/pkg/models/domain"

// YieldRange is a literature-sourced oil yield interval for one maturity
// stage, in percent of kernel mass.
type YieldRange struct {
	MinPercent float64
	MaxPercent float64
}

// oilYieldReference maps each maturity stage to its published kernel oil
// yield range. Yellow (mature) fruits carry the highest oil content.
var oilYieldReference = map[domain.Category]YieldRange{
	domain.CategoryGreen:  {MinPercent: 30, MaxPercent: 40},
	domain.CategoryYellow: {MinPercent: 55, MaxPercent: 65},
	domain.CategoryBrown:  {MinPercent: 45, MaxPercent: 55},
}

// ReferenceRange returns the literature oil yield range for a stage.
func ReferenceRange(c domain.Category) YieldRange {
	return oilYieldReference[c]
}

// harvestAdvice is the stage-specific recommendation shown in the
// executive summary.
var harvestAdvice = map[domain.Category]string{
	domain.CategoryGreen:  "Fruits at this stage are not yet ripe; waiting for maturity will raise oil yield.",
	domain.CategoryYellow: "Fruits at this stage are at the optimal point for oil extraction.",
	domain.CategoryBrown:  "Fruits at this stage remain usable for extraction, though the yellow stage is optimal.",
}

// nutritionalComposition is the published proximate composition of the
// Talisay (Terminalia catappa) kernel per 100 g edible portion.
var nutritionalComposition = [][]string{
	{"Crude fat", "51.8", "g"},
	{"Protein", "23.8", "g"},
	{"Carbohydrate", "16.0", "g"},
	{"Crude fiber", "4.9", "g"},
	{"Ash", "4.3", "g"},
	{"Moisture", "4.1", "g"},
	{"Energy", "610", "kcal"},
}

// fattyAcidProfile is the published composition of extracted kernel oil.
var fattyAcidProfile = [][]string{
	{"Palmitic acid (C16:0)", "Saturated", "35.4%"},
	{"Oleic acid (C18:1)", "Monounsaturated", "31.5%"},
	{"Linoleic acid (C18:2)", "Polyunsaturated", "26.4%"},
	{"Stearic acid (C18:0)", "Saturated", "4.1%"},
	{"Other fatty acids", "Mixed", "2.6%"},
}
