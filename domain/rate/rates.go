package rate

import (
	"context"
	"errors"

	"spkwork/bizerror"
	"spkwork/domain/item"
	"spkwork/idgen"
	"spkwork/persistence"
	"spkwork/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	rateIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateRateFunc = CreateRate
	QueryRatesFunc = QueryRates
	DetailRateFunc = DetailRate
	UpdateRateFunc = UpdateRate
	DeleteRateFunc = DeleteRate
)

// Rate is a versioned price code of the rate catalog. Items carry their own
// area-tiered prices per rate code, the catalog only tracks the code itself.
type Rate struct {
	ID            types.ID        `json:"id" gorm:"primary_key"`
	RateCode      string          `json:"rateCode" gorm:"unique_index"`
	EffectiveDate types.Timestamp `json:"effectiveDate"`
	IsActive      bool            `json:"isActive"`

	CreateTime types.Timestamp `json:"createTime"`
}

type RateCreation struct {
	RateCode      string          `json:"rateCode" binding:"required"`
	EffectiveDate types.Timestamp `json:"effectiveDate" binding:"required"`
}

type RateUpdating struct {
	EffectiveDate *types.Timestamp `json:"effectiveDate"`
	IsActive      *bool            `json:"isActive"`
}

type RateDeletion struct {
	AffectedItems int `json:"affectedItems"`
}

func CreateRate(c *RateCreation, sec *session.Context) (*Rate, error) {
	if !sec.HasRole("admin") {
		return nil, bizerror.ErrForbidden
	}
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())

	existing := Rate{}
	err := db.Where(&Rate{RateCode: c.RateCode}).First(&existing).Error
	if err == nil {
		return nil, &bizerror.ErrDuplicateRateCode{RateCode: c.RateCode}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	record := Rate{ID: idgen.NextID(rateIdWorker), RateCode: c.RateCode,
		EffectiveDate: c.EffectiveDate, IsActive: true, CreateTime: types.CurrentTimestamp()}
	if err := db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func QueryRates(sec *session.Context) (*[]Rate, error) {
	var records []Rate
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	if err := db.Order("rate_code ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return &records, nil
}

func DetailRate(id types.ID, sec *session.Context) (*Rate, error) {
	record := Rate{}
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	if err := db.Where(&Rate{ID: id}).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &bizerror.ErrReferenceNotFound{EntityType: "rate", ID: id}
		}
		return nil, err
	}
	return &record, nil
}

// UpdateRate only accepts effectiveDate and isActive changes, the code itself
// is immutable once items reference it.
func UpdateRate(id types.ID, u *RateUpdating, sec *session.Context) (*Rate, error) {
	if !sec.HasRole("admin") {
		return nil, bizerror.ErrForbidden
	}
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())

	record, err := DetailRate(id, sec)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if u.EffectiveDate != nil {
		changes["effective_date"] = *u.EffectiveDate
	}
	if u.IsActive != nil {
		changes["is_active"] = *u.IsActive
	}
	if len(changes) == 0 {
		return record, nil
	}
	if err := db.Model(&Rate{}).Where(&Rate{ID: id}).Update(changes).Error; err != nil {
		return nil, err
	}
	return DetailRate(id, sec)
}

// DeleteRate drops the catalog entry and strips the code from every item
// still carrying it, reporting how many items were touched.
func DeleteRate(id types.ID, sec *session.Context) (*RateDeletion, error) {
	if !sec.HasRole("admin") {
		return nil, bizerror.ErrForbidden
	}

	result := RateDeletion{}
	err := persistence.ActiveDataSourceManager.GormDB(context.Background()).Transaction(func(tx *gorm.DB) error {
		record := Rate{}
		if err := tx.Where(&Rate{ID: id}).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &bizerror.ErrReferenceNotFound{EntityType: "rate", ID: id}
			}
			return err
		}

		db := tx.Delete(item.ItemRate{}, "rate_code = ?", record.RateCode)
		if err := db.Error; err != nil {
			return err
		}
		result.AffectedItems = int(db.RowsAffected)

		return tx.Delete(Rate{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
