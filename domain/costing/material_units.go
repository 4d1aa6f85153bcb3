package costing

import (
	"context"
	"errors"

	"spkwork/bizerror"
	"spkwork/idgen"
	"spkwork/persistence"
	"spkwork/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	materialUnitIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateMaterialUnitFunc = CreateMaterialUnit
	QueryMaterialUnitsFunc = QueryMaterialUnits
	DetailMaterialUnitFunc = DetailMaterialUnit
	DeleteMaterialUnitFunc = DeleteMaterialUnit
)

// MaterialUnit is a unit of measure for material consumption, e.g. "sak"
// or "m3". The unit name labels computed material cost entries.
type MaterialUnit struct {
	ID         types.ID        `json:"id" gorm:"primary_key"`
	Name       string          `json:"name" gorm:"unique_index"`
	CreateTime types.Timestamp `json:"createTime"`
}

type MaterialUnitCreation struct {
	Name string `json:"name" binding:"required"`
}

func CreateMaterialUnit(c *MaterialUnitCreation, sec *session.Context) (*MaterialUnit, error) {
	if !sec.HasRole("admin") {
		return nil, bizerror.ErrForbidden
	}
	record := MaterialUnit{ID: idgen.NextID(materialUnitIdWorker), Name: c.Name,
		CreateTime: types.CurrentTimestamp()}
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	if err := db.Create(record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func QueryMaterialUnits(sec *session.Context) (*[]MaterialUnit, error) {
	var records []MaterialUnit
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	if err := db.Order("name ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return &records, nil
}

func DetailMaterialUnit(id types.ID) (*MaterialUnit, error) {
	record := MaterialUnit{}
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	if err := db.Where(&MaterialUnit{ID: id}).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &bizerror.ErrReferenceNotFound{EntityType: "material-unit", ID: id}
		}
		return nil, err
	}
	return &record, nil
}

func DeleteMaterialUnit(id types.ID, sec *session.Context) error {
	if !sec.HasRole("admin") {
		return bizerror.ErrForbidden
	}
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	return db.Delete(MaterialUnit{}, "id = ?", id).Error
}
