package progress

import (
	"spkwork/domain/costing"
	"spkwork/domain/spk"

	"github.com/sirupsen/logrus"
)

type Totals struct {
	TotalProgressItem float64 `json:"totalProgressItem"`
	TotalCostUsed     float64 `json:"totalCostUsed"`
	GrandTotal        float64 `json:"grandTotal"`
}

// Aggregate recomputes every derived figure of a progress report from
// scratch: each item amount from its frozen unit rate and worked quantity,
// each cost entry from its definition and inputs, then the three totals.
// Nothing is carried over from a previous save.
//
// A cost entry whose definition no longer exists contributes nothing, the
// entry is skipped with a warning instead of failing the whole report.
func Aggregate(items []ProgressItem, costs []CostEntry) Totals {
	totals := Totals{}

	for i := range items {
		items[i].Amount = spk.ComputeLineAmount(items[i].UnitRate, items[i].WorkQty)
		totals.TotalProgressItem += items[i].Amount
	}

	for i := range costs {
		def, err := costing.DetailItemCostFunc(costs[i].ItemCostID)
		if err != nil {
			logrus.Warnln("skip cost entry, definition", costs[i].ItemCostID, "not resolvable:", err)
			costs[i].ComputedCost = 0
			costs[i].ComputedUnit = ""
			continue
		}
		costs[i].ComputedCost, costs[i].ComputedUnit = costing.ComputeCostEntry(costs[i].Inputs, def)
		totals.TotalCostUsed += costs[i].ComputedCost
	}

	totals.GrandTotal = totals.TotalProgressItem + totals.TotalCostUsed
	return totals
}
