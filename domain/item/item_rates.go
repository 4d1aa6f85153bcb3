package item

import (
	"context"
	"errors"

	"spkwork/bizerror"
	"spkwork/persistence"
	"spkwork/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var (
	AddItemRateFunc      = AddItemRate
	UpdateItemRateFunc   = UpdateItemRate
	RemoveItemRateFunc   = RemoveItemRate
	ActivateItemRateFunc = ActivateItemRate
)

type ItemRateUpdating struct {
	NonRemoteAreas float64 `json:"nonRemoteAreas"`
	RemoteAreas    float64 `json:"remoteAreas"`
}

// AddItemRate appends a rate entry to the item. When the new entry is added
// as active, every sibling is deactivated first so the "at most one active"
// invariant holds.
func AddItemRate(itemId types.ID, c *ItemRateCreation, sec *session.Context) (*ItemDetail, error) {
	if !sec.HasRole("admin") {
		return nil, bizerror.ErrForbidden
	}

	err := persistence.ActiveDataSourceManager.GormDB(context.Background()).Transaction(func(tx *gorm.DB) error {
		it := Item{}
		if err := tx.Where(&Item{ID: itemId}).First(&it).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &bizerror.ErrReferenceNotFound{EntityType: "item", ID: itemId}
			}
			return err
		}

		existing := ItemRate{}
		err := tx.Where(&ItemRate{ItemID: itemId, RateCode: c.RateCode}).First(&existing).Error
		if err == nil {
			return &bizerror.ErrDuplicateRateCode{RateCode: c.RateCode}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if c.IsActive {
			if err := tx.Model(&ItemRate{}).Where("item_id = ?", itemId).
				Update("is_active", false).Error; err != nil {
				return err
			}
		}

		var maxOrder struct{ MaxOrder int }
		if err := tx.Model(&ItemRate{}).Where("item_id = ?", itemId).
			Select("COALESCE(MAX(order_num), 0) AS max_order").Scan(&maxOrder).Error; err != nil {
			return err
		}

		entry := ItemRate{ItemID: itemId, RateCode: c.RateCode,
			NonRemoteAreas: c.NonRemoteAreas, RemoteAreas: c.RemoteAreas,
			IsActive: c.IsActive, OrderNum: maxOrder.MaxOrder + 1}
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}
	return DetailItem(itemId)
}

// UpdateItemRate changes the prices of an existing entry, activation state is
// kept and only changed through ActivateItemRate.
func UpdateItemRate(itemId types.ID, rateCode string, u *ItemRateUpdating, sec *session.Context) (*ItemDetail, error) {
	if !sec.HasRole("admin") {
		return nil, bizerror.ErrForbidden
	}

	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	result := db.Model(&ItemRate{}).Where("item_id = ? AND rate_code = ?", itemId, rateCode).
		Update(map[string]interface{}{"non_remote_areas": u.NonRemoteAreas, "remote_areas": u.RemoteAreas})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, &bizerror.ErrRateNotFound{RateCode: rateCode}
	}
	return DetailItem(itemId)
}

func RemoveItemRate(itemId types.ID, rateCode string, sec *session.Context) (*ItemDetail, error) {
	if !sec.HasRole("admin") {
		return nil, bizerror.ErrForbidden
	}

	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	result := db.Delete(ItemRate{}, "item_id = ? AND rate_code = ?", itemId, rateCode)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, &bizerror.ErrRateNotFound{RateCode: rateCode}
	}
	return DetailItem(itemId)
}

// ActivateItemRate flips the active entry of an item: deactivate all, then
// activate the requested code. The two writes share one transaction, so
// readers never observe the transient all-inactive window.
func ActivateItemRate(itemId types.ID, rateCode string, sec *session.Context) (*ItemDetail, error) {
	if !sec.HasRole("admin") {
		return nil, bizerror.ErrForbidden
	}

	err := persistence.ActiveDataSourceManager.GormDB(context.Background()).Transaction(func(tx *gorm.DB) error {
		it := Item{}
		if err := tx.Where(&Item{ID: itemId}).First(&it).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &bizerror.ErrReferenceNotFound{EntityType: "item", ID: itemId}
			}
			return err
		}

		if err := tx.Model(&ItemRate{}).Where("item_id = ?", itemId).
			Update("is_active", false).Error; err != nil {
			return err
		}

		result := tx.Model(&ItemRate{}).Where("item_id = ? AND rate_code = ?", itemId, rateCode).
			Update("is_active", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return &bizerror.ErrRateNotFound{RateCode: rateCode}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return DetailItem(itemId)
}
