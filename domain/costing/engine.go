package costing

// CostInputs carries the usage figures reported with a progress cost entry.
// Which fields matter depends on the referenced definition's category, the
// rest stay zero. FuelPrice is copied by the caller from the work order's
// diesel price snapshot.
type CostInputs struct {
	Headcount     float64 `json:"headcount"`
	HoursWorked   float64 `json:"hoursWorked"`
	HoursUsed     float64 `json:"hoursUsed"`
	UnitCount     float64 `json:"unitCount"`
	FuelUsed      float64 `json:"fuelUsed"`
	FuelPrice     float64 `json:"fuelPrice"`
	UnitsConsumed float64 `json:"unitsConsumed"`
	Nominal       float64 `json:"nominal"`
}

var MaterialUnitNameFunc = MaterialUnitName

// MaterialUnitName resolves the display name of a material unit. Failures
// fall back to the generic label.
func MaterialUnitName(def *ItemCost) string {
	if def.Details.Material == nil {
		return "unit"
	}
	unit, err := DetailMaterialUnitFunc(def.Details.Material.MaterialUnitID)
	if err != nil || unit.Name == "" {
		return "unit"
	}
	return unit.Name
}

// ComputeCostEntry computes the monetary cost of one entry together with the
// unit label the figure is denominated in.
func ComputeCostEntry(in CostInputs, def *ItemCost) (float64, string) {
	switch def.Category {
	case CategoryManpower:
		return def.CostPerHour * in.HoursWorked * in.Headcount, "man-hour"
	case CategoryEquipment:
		equipment := def.CostPerHour * in.HoursUsed * in.UnitCount
		fuel := in.FuelUsed * in.FuelPrice
		return equipment + fuel, "equipment-hour"
	case CategoryMaterial:
		price := 0.0
		if def.Details.Material != nil {
			price = def.Details.Material.PricePerUnit
		}
		return price * in.UnitsConsumed, MaterialUnitNameFunc(def)
	case CategorySecurity:
		daily := 0.0
		if def.Details.Security != nil {
			daily = def.Details.Security.DailyCost
		}
		return daily * in.Headcount, "day"
	default:
		return in.Nominal, "nominal"
	}
}
