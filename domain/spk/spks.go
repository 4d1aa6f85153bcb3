package spk

import (
	"context"
	"errors"

	"spkwork/bizerror"
	"spkwork/domain/solar"
	"spkwork/domain/state"
	"spkwork/event"
	"spkwork/idgen"
	"spkwork/misc"
	"spkwork/persistence"
	"spkwork/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	spkIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateSpkFunc = CreateSpk
	QuerySpksFunc = QuerySpks
	DetailSpkFunc = DetailSpk
	UpdateSpkFunc = UpdateSpk
	DeleteSpkFunc = DeleteSpk
	LoadSpksFunc  = LoadSpks
)

type Quantity struct {
	NonRemoteQty float64 `json:"nonRemoteQty"`
	RemoteQty    float64 `json:"remoteQty"`
}

type UnitRate struct {
	NonRemoteAreas float64 `json:"nonRemoteAreas"`
	RemoteAreas    float64 `json:"remoteAreas"`
}

// Spk is a work order. totalAmount and the line unit rates are derived at
// save time and never client-settable.
type Spk struct {
	ID       types.ID `json:"id" gorm:"primary_key"`
	SpkNo    string   `json:"spkNo" gorm:"unique_index"`
	SpkTitle string   `json:"spkTitle"`

	ProjectStartDate types.Timestamp `json:"projectStartDate"`
	ProjectEndDate   types.Timestamp `json:"projectEndDate"`
	LocationID       types.ID        `json:"locationId"`

	// point-in-time copy of the diesel reference price, not a live reference
	SolarPriceSnapshot float64 `json:"solarPriceSnapshot"`

	Status      state.State `json:"status"`
	TotalAmount float64     `json:"totalAmount"`

	CreateTime types.Timestamp `json:"createTime"`
}

type SpkItem struct {
	SpkID    types.ID `json:"-" gorm:"primary_key;auto_increment:false"`
	OrderNum int      `json:"-" gorm:"primary_key;auto_increment:false"`

	ItemID   types.ID `json:"itemId"`
	ItemCode string   `json:"itemCode"`
	RateCode string   `json:"rateCode"`

	Quantity Quantity `json:"quantity" gorm:"embedded;embedded_prefix:qty_"`
	UnitRate UnitRate `json:"unitRate" gorm:"embedded;embedded_prefix:rate_"`
	Amount   float64  `json:"amount"`
}

type SpkDetail struct {
	Spk
	Items []SpkItem `json:"lineItems" gorm:"-"`
}

type SpkItemCreation struct {
	ItemID   types.ID `json:"itemId" binding:"required"`
	RateCode string   `json:"rateCode" binding:"required"`
	Quantity Quantity `json:"quantity"`
}

type SpkCreation struct {
	SpkNo    string `json:"spkNo" binding:"required"`
	SpkTitle string `json:"spkTitle" binding:"required"`

	ProjectStartDate types.Timestamp `json:"projectStartDate" binding:"required"`
	ProjectEndDate   types.Timestamp `json:"projectEndDate" binding:"required"`
	LocationID       types.ID        `json:"locationId"`

	Items []SpkItemCreation `json:"lineItems"`
}

type SpkUpdating struct {
	SpkTitle         *string            `json:"spkTitle"`
	ProjectStartDate *types.Timestamp   `json:"projectStartDate"`
	ProjectEndDate   *types.Timestamp   `json:"projectEndDate"`
	LocationID       *types.ID          `json:"locationId"`
	Items            *[]SpkItemCreation `json:"lineItems"`
}

type SpkQuery struct {
	Status  string `form:"status"`
	Keyword string `form:"keyword"`
}

func CreateSpk(c *SpkCreation, sec *session.Context) (*SpkDetail, error) {
	if !sec.HasRole("admin") {
		return nil, bizerror.ErrForbidden
	}
	if !c.ProjectEndDate.Time().After(c.ProjectStartDate.Time()) {
		return nil, &misc.ErrBadParam{Cause: errors.New("projectEndDate must be after projectStartDate")}
	}

	latestPrice, err := solar.LatestSolarPriceFunc()
	if err != nil {
		return nil, err
	}

	detail := &SpkDetail{Spk: Spk{
		ID: idgen.NextID(spkIdWorker), SpkNo: c.SpkNo, SpkTitle: c.SpkTitle,
		ProjectStartDate: c.ProjectStartDate, ProjectEndDate: c.ProjectEndDate,
		LocationID: c.LocationID, SolarPriceSnapshot: latestPrice.Price,
		Status: StatusDraft, CreateTime: types.CurrentTimestamp(),
	}}

	var ev *event.EventRecord
	err1 := persistence.ActiveDataSourceManager.GormDB(context.Background()).Transaction(func(tx *gorm.DB) error {
		existing := Spk{}
		err := tx.Where(&Spk{SpkNo: c.SpkNo}).First(&existing).Error
		if err == nil {
			return &misc.ErrBadParam{Cause: errors.New("spkNo " + c.SpkNo + " already exists")}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		for idx, lc := range c.Items {
			line, err := ResolveLineItemFunc(lc.ItemID, lc.RateCode, lc.Quantity)
			if err != nil {
				return err
			}
			line.SpkID = detail.ID
			line.OrderNum = idx + 1
			detail.Items = append(detail.Items, *line)
		}
		detail.TotalAmount = SumLineAmounts(detail.Items)

		if err := tx.Create(detail.Spk).Error; err != nil {
			return err
		}
		for _, line := range detail.Items {
			if err := tx.Create(line).Error; err != nil {
				return err
			}
		}

		ev, err = event.CreateEvent("spk", detail.ID, detail.SpkNo, event.EventCategoryCreated,
			nil, &sec.Identity, tx)
		return err
	})
	if err1 != nil {
		return nil, err1
	}

	if event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}
	return detail, nil
}

func QuerySpks(query *SpkQuery, sec *session.Context) (*[]SpkDetail, error) {
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())

	q := db.Model(&Spk{}).Order("create_time DESC")
	if query.Status != "" {
		q = q.Where("status = ?", query.Status)
	}
	if query.Keyword != "" {
		q = q.Where("spk_no LIKE ? OR spk_title LIKE ?", "%"+query.Keyword+"%", "%"+query.Keyword+"%")
	}

	var records []Spk
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}

	details := make([]SpkDetail, 0, len(records))
	for _, record := range records {
		var items []SpkItem
		if err := db.Where(&SpkItem{SpkID: record.ID}).Order("order_num ASC").Find(&items).Error; err != nil {
			return nil, err
		}
		details = append(details, SpkDetail{Spk: record, Items: items})
	}
	return &details, nil
}

// LoadSpks pages through all work orders in id order, used by the index
// synchronizer.
func LoadSpks(page, size int) ([]SpkDetail, error) {
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())

	var records []Spk
	if err := db.Model(&Spk{}).Order("id ASC").
		Offset((page - 1) * size).Limit(size).Find(&records).Error; err != nil {
		return nil, err
	}

	details := make([]SpkDetail, 0, len(records))
	for _, record := range records {
		var items []SpkItem
		if err := db.Where(&SpkItem{SpkID: record.ID}).Order("order_num ASC").Find(&items).Error; err != nil {
			return nil, err
		}
		details = append(details, SpkDetail{Spk: record, Items: items})
	}
	return details, nil
}

func DetailSpk(id types.ID) (*SpkDetail, error) {
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	return findSpkDetail(db, id)
}

func findSpkDetail(db *gorm.DB, id types.ID) (*SpkDetail, error) {
	detail := SpkDetail{}
	if err := db.Where(&Spk{ID: id}).First(&detail.Spk).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &bizerror.ErrReferenceNotFound{EntityType: "spk", ID: id}
		}
		return nil, err
	}
	if err := db.Where(&SpkItem{SpkID: id}).Order("order_num ASC").Find(&detail.Items).Error; err != nil {
		return nil, err
	}
	return &detail, nil
}

// UpdateSpk applies field and line changes. Lines already on the work order
// keep their frozen unit rate: an incoming line matching a stored line by
// item and rate code is never re-resolved, only its amount is recomputed
// from the frozen rate when quantities changed. New lines are resolved once.
func UpdateSpk(id types.ID, u *SpkUpdating, sec *session.Context) (*SpkDetail, error) {
	if !sec.HasRole("admin") {
		return nil, bizerror.ErrForbidden
	}

	var detail *SpkDetail
	var ev *event.EventRecord
	err1 := persistence.ActiveDataSourceManager.GormDB(context.Background()).Transaction(func(tx *gorm.DB) error {
		origin, err := findSpkDetail(tx, id)
		if err != nil {
			return err
		}

		if u.ProjectStartDate != nil || u.ProjectEndDate != nil {
			start := origin.ProjectStartDate
			end := origin.ProjectEndDate
			if u.ProjectStartDate != nil {
				start = *u.ProjectStartDate
			}
			if u.ProjectEndDate != nil {
				end = *u.ProjectEndDate
			}
			if !end.Time().After(start.Time()) {
				return &misc.ErrBadParam{Cause: errors.New("projectEndDate must be after projectStartDate")}
			}
		}

		changes := map[string]interface{}{}
		if u.SpkTitle != nil {
			changes["spk_title"] = *u.SpkTitle
		}
		if u.ProjectStartDate != nil {
			changes["project_start_date"] = *u.ProjectStartDate
		}
		if u.ProjectEndDate != nil {
			changes["project_end_date"] = *u.ProjectEndDate
		}
		if u.LocationID != nil {
			changes["location_id"] = *u.LocationID
		}

		if u.Items != nil {
			newItems := make([]SpkItem, 0, len(*u.Items))
			for idx, lc := range *u.Items {
				var line *SpkItem
				for _, existing := range origin.Items {
					if existing.ItemID == lc.ItemID && existing.RateCode == lc.RateCode {
						frozen := existing
						frozen.Quantity = lc.Quantity
						frozen.Amount = ComputeLineAmount(frozen.UnitRate, lc.Quantity)
						line = &frozen
						break
					}
				}
				if line == nil {
					line, err = ResolveLineItemFunc(lc.ItemID, lc.RateCode, lc.Quantity)
					if err != nil {
						return err
					}
				}
				line.SpkID = id
				line.OrderNum = idx + 1
				newItems = append(newItems, *line)
			}

			if err := tx.Delete(SpkItem{}, "spk_id = ?", id).Error; err != nil {
				return err
			}
			for _, line := range newItems {
				if err := tx.Create(line).Error; err != nil {
					return err
				}
			}
			changes["total_amount"] = SumLineAmounts(newItems)

			latestPrice, err := solar.LatestSolarPriceFunc()
			if err != nil {
				return err
			}
			changes["solar_price_snapshot"] = latestPrice.Price
		}

		if len(changes) > 0 {
			if err := tx.Model(&Spk{}).Where(&Spk{ID: id}).Update(changes).Error; err != nil {
				return err
			}
		}

		detail, err = findSpkDetail(tx, id)
		if err != nil {
			return err
		}

		ev, err = event.CreateEvent("spk", id, detail.SpkNo, event.EventCategoryPropertyUpdated,
			nil, &sec.Identity, tx)
		return err
	})
	if err1 != nil {
		return nil, err1
	}

	if event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}
	return detail, nil
}

func DeleteSpk(id types.ID, sec *session.Context) error {
	if !sec.HasRole("admin") {
		return bizerror.ErrForbidden
	}

	var ev *event.EventRecord
	err1 := persistence.ActiveDataSourceManager.GormDB(context.Background()).Transaction(func(tx *gorm.DB) error {
		record := Spk{}
		err := tx.Where(&Spk{ID: id}).First(&record).Error
		if err == nil {
			ev, err = event.CreateEvent("spk", id, record.SpkNo, event.EventCategoryDeleted,
				nil, &sec.Identity, tx)
			if err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Delete(Spk{}, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(SpkItem{}, "spk_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(SpkStatusLog{}, "spk_id = ?", id).Error
	})
	if err1 != nil {
		return err1
	}

	if ev != nil && event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}
	return nil
}
