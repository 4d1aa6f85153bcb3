package solar

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
	priceIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateSolarPriceFunc = CreateSolarPrice
	QuerySolarPricesFunc = QuerySolarPrices
	LatestSolarPriceFunc = LatestSolarPrice
	UpdateSolarPriceFunc = UpdateSolarPrice
	DeleteSolarPriceFunc = DeleteSolarPrice
)

// SolarPrice is one entry of the diesel ("solar") reference price ledger.
// Work orders snapshot the newest entry at save time.
type SolarPrice struct {
	ID       types.ID `json:"id" gorm:"primary_key"`
	Price    float64  `json:"price"`
	Currency string   `json:"currency"`

	CreateTime types.Timestamp `json:"createTime"`
}

type SolarPriceCreation struct {
	Price float64 `json:"price" binding:"required,gt=0"`
}

func CreateSolarPrice(c *SolarPriceCreation, sec *session.Context) (*SolarPrice, error) {
	if !sec.HasRole("admin") {
		return nil, bizerror.ErrForbidden
	}
	record := SolarPrice{ID: idgen.NextID(priceIdWorker), Price: c.Price, Currency: "IDR",
		CreateTime: types.CurrentTimestamp()}
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	if err := db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func QuerySolarPrices(sec *session.Context) (*[]SolarPrice, error) {
	var records []SolarPrice
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	if err := db.Order("create_time DESC, id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return &records, nil
}

// LatestSolarPrice returns the newest ledger entry, or a zero price when the
// ledger is still empty.
func LatestSolarPrice() (*SolarPrice, error) {
	record := SolarPrice{}
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	if err := db.Order("create_time DESC, id DESC").First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &SolarPrice{Price: 0, Currency: "IDR"}, nil
		}
		return nil, err
	}
	return &record, nil
}

func UpdateSolarPrice(id types.ID, c *SolarPriceCreation, sec *session.Context) (*SolarPrice, error) {
	if !sec.HasRole("admin") {
		return nil, bizerror.ErrForbidden
	}
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	result := db.Model(&SolarPrice{}).Where(&SolarPrice{ID: id}).Update(map[string]interface{}{"price": c.Price})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, &bizerror.ErrReferenceNotFound{EntityType: "solarPrice", ID: id}
	}
	record := SolarPrice{}
	if err := db.Where(&SolarPrice{ID: id}).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func DeleteSolarPrice(id types.ID, sec *session.Context) error {
	if !sec.HasRole("admin") {
		return bizerror.ErrForbidden
	}
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	result := db.Delete(SolarPrice{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &bizerror.ErrReferenceNotFound{EntityType: "solarPrice", ID: id}
	}
	return nil
}
