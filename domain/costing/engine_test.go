package costing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeCostEntry(t *testing.T) {
	MaterialUnitNameFunc = func(def *ItemCost) string {
		return "sak"
	}

	tests := []struct {
		name string
		in   CostInputs
		def  ItemCost

		wantCost float64
		wantUnit string
	}{
		{
			name:     "manpower is cost per hour times hours worked times headcount",
			in:       CostInputs{HoursWorked: 8, Headcount: 3},
			def:      ItemCost{Category: CategoryManpower, CostPerHour: 50000},
			wantCost: 1200000,
			wantUnit: "man-hour",
		},
		{
			name: "equipment adds fuel usage at the entry fuel price",
			in:   CostInputs{HoursUsed: 4, UnitCount: 2, FuelUsed: 20, FuelPrice: 15000},
			def: ItemCost{Category: CategoryEquipment, CostPerHour: 100000,
				Details: CostDetails{Equipment: &EquipmentDetails{FuelConsumptionPerHour: 5}}},
			wantCost: 100000*4*2 + 20*15000,
			wantUnit: "equipment-hour",
		},
		{
			name: "material is price per unit times units consumed",
			in:   CostInputs{UnitsConsumed: 40},
			def: ItemCost{Category: CategoryMaterial,
				Details: CostDetails{Material: &MaterialDetails{MaterialUnitID: 7, PricePerUnit: 25000}}},
			wantCost: 1000000,
			wantUnit: "sak",
		},
		{
			name: "security is daily cost times headcount",
			in:   CostInputs{Headcount: 2},
			def: ItemCost{Category: CategorySecurity,
				Details: CostDetails{Security: &SecurityDetails{DailyCost: 150000}}},
			wantCost: 300000,
			wantUnit: "day",
		},
		{
			name:     "other passes the nominal through",
			in:       CostInputs{Nominal: 75000},
			def:      ItemCost{Category: CategoryOther},
			wantCost: 75000,
			wantUnit: "nominal",
		},
		{
			name:     "material without details costs nothing",
			in:       CostInputs{UnitsConsumed: 40},
			def:      ItemCost{Category: CategoryMaterial},
			wantCost: 0,
			wantUnit: "sak",
		},
		{
			name:     "zero inputs cost nothing",
			in:       CostInputs{},
			def:      ItemCost{Category: CategoryManpower, CostPerHour: 50000},
			wantCost: 0,
			wantUnit: "man-hour",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, unit := ComputeCostEntry(tt.in, &tt.def)
			assert.Equal(t, tt.wantCost, cost)
			assert.Equal(t, tt.wantUnit, unit)
		})
	}
}

func TestMaterialUnitNameFallback(t *testing.T) {
	MaterialUnitNameFunc = func(def *ItemCost) string {
		if def.Details.Material == nil {
			return "unit"
		}
		return "sak"
	}

	cost, unit := ComputeCostEntry(CostInputs{UnitsConsumed: 3}, &ItemCost{Category: CategoryMaterial})
	assert.Equal(t, 0.0, cost)
	assert.Equal(t, "unit", unit)
}
