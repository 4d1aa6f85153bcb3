package item

import (
	"context"
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

var (
	itemIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateItemFunc = CreateItem
	QueryItemsFunc = QueryItems
	DetailItemFunc = DetailItem
	UpdateItemFunc = UpdateItem
	DeleteItemFunc = DeleteItem
)

// Item is a catalog entry of priced work. Prices live in ItemRate child rows,
// one per rate code, of which at most one may be active.
type Item struct {
	ID              types.ID `json:"id" gorm:"primary_key"`
	ItemCode        string   `json:"itemCode" gorm:"unique_index"`
	Description     string   `json:"description"`
	UnitMeasurement string   `json:"unitMeasurement"`
	CategoryID      types.ID `json:"categoryId"`
	SubCategoryID   types.ID `json:"subCategoryId"`

	CreateTime types.Timestamp `json:"createTime"`
}

type ItemRate struct {
	ItemID   types.ID `json:"-" gorm:"primary_key;auto_increment:false"`
	RateCode string   `json:"rateCode" gorm:"primary_key"`

	NonRemoteAreas float64 `json:"nonRemoteAreas"`
	RemoteAreas    float64 `json:"remoteAreas"`
	IsActive       bool    `json:"isActive"`
	OrderNum       int     `json:"-"`
}

type ItemDetail struct {
	Item
	Rates []ItemRate `json:"rates" gorm:"-"`
}

type ItemCreation struct {
	ItemCode        string             `json:"itemCode" binding:"required"`
	Description     string             `json:"description"`
	UnitMeasurement string             `json:"unitMeasurement" binding:"required"`
	CategoryID      types.ID           `json:"categoryId" binding:"required"`
	SubCategoryID   types.ID           `json:"subCategoryId"`
	Rates           []ItemRateCreation `json:"rates"`
}

type ItemRateCreation struct {
	RateCode       string  `json:"rateCode" binding:"required"`
	NonRemoteAreas float64 `json:"nonRemoteAreas"`
	RemoteAreas    float64 `json:"remoteAreas"`
	IsActive       bool    `json:"isActive"`
}

type ItemUpdating struct {
	Description     *string   `json:"description"`
	UnitMeasurement *string   `json:"unitMeasurement"`
	CategoryID      *types.ID `json:"categoryId"`
	SubCategoryID   *types.ID `json:"subCategoryId"`
}

type ItemQuery struct {
	CategoryID    types.ID `form:"categoryId"`
	SubCategoryID types.ID `form:"subCategoryId"`
}

func CreateItem(c *ItemCreation, sec *session.Context) (*ItemDetail, error) {
	if !sec.HasRole("admin") {
		return nil, bizerror.ErrForbidden
	}

	activeCount := 0
	seen := map[string]bool{}
	for _, r := range c.Rates {
		if seen[r.RateCode] {
			return nil, &bizerror.ErrDuplicateRateCode{RateCode: r.RateCode}
		}
		seen[r.RateCode] = true
		if r.IsActive {
			activeCount++
		}
	}
	if activeCount > 1 {
		return nil, &misc.ErrBadParam{Cause: errors.New("only one rate can be active at a time")}
	}

	detail := &ItemDetail{Item: Item{ID: idgen.NextID(itemIdWorker), ItemCode: c.ItemCode,
		Description: c.Description, UnitMeasurement: c.UnitMeasurement,
		CategoryID: c.CategoryID, SubCategoryID: c.SubCategoryID, CreateTime: types.CurrentTimestamp()}}

	err := persistence.ActiveDataSourceManager.GormDB(context.Background()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(detail.Item).Error; err != nil {
			return err
		}
		for idx, r := range c.Rates {
			entry := ItemRate{ItemID: detail.ID, RateCode: r.RateCode,
				NonRemoteAreas: r.NonRemoteAreas, RemoteAreas: r.RemoteAreas,
				IsActive: r.IsActive, OrderNum: idx + 1}
			if err := tx.Create(entry).Error; err != nil {
				return err
			}
			detail.Rates = append(detail.Rates, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func QueryItems(query *ItemQuery, sec *session.Context) (*[]ItemDetail, error) {
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())

	q := db.Model(&Item{}).Order("item_code ASC")
	if query.CategoryID != 0 {
		q = q.Where(&Item{CategoryID: query.CategoryID})
	}
	if query.SubCategoryID != 0 {
		q = q.Where(&Item{SubCategoryID: query.SubCategoryID})
	}

	var records []Item
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}

	details := make([]ItemDetail, 0, len(records))
	for _, record := range records {
		var rates []ItemRate
		if err := db.Where(&ItemRate{ItemID: record.ID}).Order("order_num ASC").Find(&rates).Error; err != nil {
			return nil, err
		}
		details = append(details, ItemDetail{Item: record, Rates: rates})
	}
	return &details, nil
}

func DetailItem(id types.ID) (*ItemDetail, error) {
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())

	detail := ItemDetail{}
	if err := db.Where(&Item{ID: id}).First(&detail.Item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &bizerror.ErrReferenceNotFound{EntityType: "item", ID: id}
		}
		return nil, err
	}
	if err := db.Where(&ItemRate{ItemID: id}).Order("order_num ASC").Find(&detail.Rates).Error; err != nil {
		return nil, err
	}
	return &detail, nil
}

func UpdateItem(id types.ID, u *ItemUpdating, sec *session.Context) (*ItemDetail, error) {
	if !sec.HasRole("admin") {
		return nil, bizerror.ErrForbidden
	}
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())

	if _, err := DetailItem(id); err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if u.Description != nil {
		changes["description"] = *u.Description
	}
	if u.UnitMeasurement != nil {
		changes["unit_measurement"] = *u.UnitMeasurement
	}
	if u.CategoryID != nil {
		changes["category_id"] = *u.CategoryID
	}
	if u.SubCategoryID != nil {
		changes["sub_category_id"] = *u.SubCategoryID
	}
	if len(changes) > 0 {
		if err := db.Model(&Item{}).Where(&Item{ID: id}).Update(changes).Error; err != nil {
			return nil, err
		}
	}
	return DetailItem(id)
}

func DeleteItem(id types.ID, sec *session.Context) error {
	if !sec.HasRole("admin") {
		return bizerror.ErrForbidden
	}
	return persistence.ActiveDataSourceManager.GormDB(context.Background()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(Item{}, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(ItemRate{}, "item_id = ?", id).Error
	})
}
