package costing

import (
	"testing"

	"spkwork/bizerror"
	"spkwork/misc"

	. "github.com/onsi/gomega"
)

func TestCostDetailsValidate(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should accept the variant matching the category", func(t *testing.T) {
		Expect(CostDetails{Manpower: &ManpowerDetails{}}.Validate(CategoryManpower)).To(BeNil())
		Expect(CostDetails{Equipment: &EquipmentDetails{FuelConsumptionPerHour: 5}}.Validate(CategoryEquipment)).To(BeNil())
		Expect(CostDetails{Material: &MaterialDetails{MaterialUnitID: 7, PricePerUnit: 25000}}.Validate(CategoryMaterial)).To(BeNil())
		Expect(CostDetails{Security: &SecurityDetails{DailyCost: 150000}}.Validate(CategorySecurity)).To(BeNil())
		Expect(CostDetails{}.Validate(CategoryOther)).To(BeNil())
	})

	t.Run("should accept empty details where no variant is required", func(t *testing.T) {
		Expect(CostDetails{}.Validate(CategoryManpower)).To(BeNil())
		Expect(CostDetails{}.Validate(CategoryEquipment)).To(BeNil())
	})

	t.Run("should reject a variant of another category", func(t *testing.T) {
		err := CostDetails{Security: &SecurityDetails{DailyCost: 1}}.Validate(CategoryManpower)
		Expect(err).To(HaveOccurred())
		_, ok := err.(*misc.ErrBadParam)
		Expect(ok).To(BeTrue())

		Expect(CostDetails{Manpower: &ManpowerDetails{}}.Validate(CategoryEquipment)).To(HaveOccurred())
		Expect(CostDetails{Material: &MaterialDetails{MaterialUnitID: 1, PricePerUnit: 1}}.Validate(CategoryOther)).To(HaveOccurred())
	})

	t.Run("should require material unit and a positive price for material", func(t *testing.T) {
		Expect(CostDetails{}.Validate(CategoryMaterial)).To(Equal(
			&bizerror.ErrMissingRequiredDetail{Category: "material", Field: "materialUnitId"}))
		Expect(CostDetails{Material: &MaterialDetails{PricePerUnit: 100}}.Validate(CategoryMaterial)).To(Equal(
			&bizerror.ErrMissingRequiredDetail{Category: "material", Field: "materialUnitId"}))
		Expect(CostDetails{Material: &MaterialDetails{MaterialUnitID: 7}}.Validate(CategoryMaterial)).To(Equal(
			&bizerror.ErrMissingRequiredDetail{Category: "material", Field: "pricePerUnit"}))
		Expect(CostDetails{Material: &MaterialDetails{MaterialUnitID: 7, PricePerUnit: -1}}.Validate(CategoryMaterial)).To(Equal(
			&bizerror.ErrMissingRequiredDetail{Category: "material", Field: "pricePerUnit"}))
	})

	t.Run("should require a positive daily cost for security", func(t *testing.T) {
		Expect(CostDetails{}.Validate(CategorySecurity)).To(Equal(
			&bizerror.ErrMissingRequiredDetail{Category: "security", Field: "dailyCost"}))
		Expect(CostDetails{Security: &SecurityDetails{}}.Validate(CategorySecurity)).To(Equal(
			&bizerror.ErrMissingRequiredDetail{Category: "security", Field: "dailyCost"}))
	})
}

func TestCostDetailsColumnCodec(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should round trip through the text column", func(t *testing.T) {
		origin := CostDetails{Material: &MaterialDetails{MaterialUnitID: 7, PricePerUnit: 25000}}
		value, err := origin.Value()
		Expect(err).To(BeNil())

		restored := CostDetails{}
		Expect(restored.Scan(value)).To(BeNil())
		Expect(restored).To(Equal(origin))
		Expect(restored.Manpower).To(BeNil())
	})

	t.Run("should scan nil to empty details", func(t *testing.T) {
		details := CostDetails{Security: &SecurityDetails{DailyCost: 1}}
		Expect(details.Scan(nil)).To(BeNil())
		Expect(details).To(Equal(CostDetails{}))
	})
}
