package costing

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"

	"spkwork/bizerror"
	"spkwork/idgen"
	"spkwork/misc"
	"spkwork/persistence"
	"spkwork/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

type CostCategory string

const (
	CategoryManpower  CostCategory = "manpower"
	CategoryEquipment CostCategory = "equipment"
	CategoryMaterial  CostCategory = "material"
	CategorySecurity  CostCategory = "security"
	CategoryOther     CostCategory = "other"
)

var (
	itemCostIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateItemCostFunc = CreateItemCost
	QueryItemCostsFunc = QueryItemCosts
	DetailItemCostFunc = DetailItemCost
	UpdateItemCostFunc = UpdateItemCost
	DeleteItemCostFunc = DeleteItemCost
)

type OvertimeRule struct {
	AfterHours float64 `json:"afterHours"`
	Multiplier float64 `json:"multiplier"`
}

type ManpowerDetails struct {
	Overtime []OvertimeRule `json:"overtime,omitempty"`
}

type EquipmentDetails struct {
	FuelConsumptionPerHour float64 `json:"fuelConsumptionPerHour"`
	GpsCostPerMonth        float64 `json:"gpsCostPerMonth"`
}

type MaterialDetails struct {
	MaterialUnitID types.ID `json:"materialUnitId"`
	PricePerUnit   float64  `json:"pricePerUnit"`
}

type SecurityDetails struct {
	DailyCost float64 `json:"dailyCost"`
}

// CostDetails is a tagged union keyed by the owning definition's category.
// Exactly the variant matching the category may be set, everything else must
// be nil. Validated at construction instead of being silently cleared.
type CostDetails struct {
	Manpower  *ManpowerDetails  `json:"manpower,omitempty"`
	Equipment *EquipmentDetails `json:"equipment,omitempty"`
	Material  *MaterialDetails  `json:"material,omitempty"`
	Security  *SecurityDetails  `json:"security,omitempty"`
}

func (d CostDetails) Value() (driver.Value, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (d *CostDetails) Scan(src interface{}) error {
	if src == nil {
		*d = CostDetails{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	}
	return errors.New("unsupported source type of CostDetails")
}

func (d CostDetails) Validate(category CostCategory) error {
	mismatch := func(variant string) error {
		return &misc.ErrBadParam{Cause: errors.New(variant + " details are not allowed for " +
			string(category) + " category")}
	}
	if d.Manpower != nil && category != CategoryManpower {
		return mismatch("manpower")
	}
	if d.Equipment != nil && category != CategoryEquipment {
		return mismatch("equipment")
	}
	if d.Material != nil && category != CategoryMaterial {
		return mismatch("material")
	}
	if d.Security != nil && category != CategorySecurity {
		return mismatch("security")
	}

	switch category {
	case CategoryMaterial:
		if d.Material == nil || d.Material.MaterialUnitID == 0 {
			return &bizerror.ErrMissingRequiredDetail{Category: string(category), Field: "materialUnitId"}
		}
		if d.Material.PricePerUnit <= 0 {
			return &bizerror.ErrMissingRequiredDetail{Category: string(category), Field: "pricePerUnit"}
		}
	case CategorySecurity:
		if d.Security == nil || d.Security.DailyCost <= 0 {
			return &bizerror.ErrMissingRequiredDetail{Category: string(category), Field: "dailyCost"}
		}
	}
	return nil
}

// ItemCost is a reusable cost definition referenced by progress cost entries.
type ItemCost struct {
	ID   types.ID `json:"id" gorm:"primary_key"`
	Name string   `json:"name"`

	Category     CostCategory `json:"category"`
	CostPerMonth float64      `json:"costPerMonth"`
	CostPerHour  float64      `json:"costPerHour"`

	Details CostDetails `json:"details" gorm:"type:text"`

	CreateTime types.Timestamp `json:"createTime"`
}

type ItemCostCreation struct {
	Name string `json:"name" binding:"required"`

	Category     CostCategory `json:"category" binding:"required,oneof=manpower equipment material security other"`
	CostPerMonth float64      `json:"costPerMonth"`
	CostPerHour  float64      `json:"costPerHour"`

	Details CostDetails `json:"details"`
}

type ItemCostUpdating struct {
	Name         *string  `json:"name"`
	CostPerMonth *float64 `json:"costPerMonth"`
	CostPerHour  *float64 `json:"costPerHour"`

	Details *CostDetails `json:"details"`
}

type ItemCostQuery struct {
	Category string `form:"category"`
	Keyword  string `form:"keyword"`
}

func CreateItemCost(c *ItemCostCreation, sec *session.Context) (*ItemCost, error) {
	if !sec.HasRole("admin") {
		return nil, bizerror.ErrForbidden
	}
	if err := c.Details.Validate(c.Category); err != nil {
		return nil, err
	}

	record := ItemCost{ID: idgen.NextID(itemCostIdWorker), Name: c.Name,
		Category: c.Category, CostPerMonth: c.CostPerMonth, CostPerHour: c.CostPerHour,
		Details: c.Details, CreateTime: types.CurrentTimestamp()}

	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	if err := db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func QueryItemCosts(query *ItemCostQuery, sec *session.Context) (*[]ItemCost, error) {
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	q := db.Model(&ItemCost{}).Order("create_time DESC")
	if query.Category != "" {
		q = q.Where("category = ?", query.Category)
	}
	if query.Keyword != "" {
		q = q.Where("name LIKE ?", "%"+query.Keyword+"%")
	}
	var records []ItemCost
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}
	return &records, nil
}

func DetailItemCost(id types.ID) (*ItemCost, error) {
	record := ItemCost{}
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	if err := db.Where(&ItemCost{ID: id}).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &bizerror.ErrReferenceNotFound{EntityType: "item-cost", ID: id}
		}
		return nil, err
	}
	return &record, nil
}

func UpdateItemCost(id types.ID, u *ItemCostUpdating, sec *session.Context) (*ItemCost, error) {
	if !sec.HasRole("admin") {
		return nil, bizerror.ErrForbidden
	}

	var record *ItemCost
	err1 := persistence.ActiveDataSourceManager.GormDB(context.Background()).Transaction(func(tx *gorm.DB) error {
		origin := ItemCost{}
		if err := tx.Where(&ItemCost{ID: id}).First(&origin).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &bizerror.ErrReferenceNotFound{EntityType: "item-cost", ID: id}
			}
			return err
		}

		changes := map[string]interface{}{}
		if u.Name != nil {
			changes["name"] = *u.Name
		}
		if u.CostPerMonth != nil {
			changes["cost_per_month"] = *u.CostPerMonth
		}
		if u.CostPerHour != nil {
			changes["cost_per_hour"] = *u.CostPerHour
		}
		if u.Details != nil {
			if err := u.Details.Validate(origin.Category); err != nil {
				return err
			}
			changes["details"] = *u.Details
		}
		if len(changes) > 0 {
			if err := tx.Model(&ItemCost{}).Where(&ItemCost{ID: id}).Update(changes).Error; err != nil {
				return err
			}
		}

		updated := ItemCost{}
		if err := tx.Where(&ItemCost{ID: id}).First(&updated).Error; err != nil {
			return err
		}
		record = &updated
		return nil
	})
	if err1 != nil {
		return nil, err1
	}
	return record, nil
}

func DeleteItemCost(id types.ID, sec *session.Context) error {
	if !sec.HasRole("admin") {
		return bizerror.ErrForbidden
	}
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	return db.Delete(ItemCost{}, "id = ?", id).Error
}
