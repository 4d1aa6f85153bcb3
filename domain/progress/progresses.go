package progress

import (
	"context"
	"errors"

	"spkwork/bizerror"
	"spkwork/domain/costing"
	"spkwork/domain/spk"
	"spkwork/event"
	"spkwork/idgen"
	"spkwork/persistence"
	"spkwork/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	progressIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateProgressFunc  = CreateProgress
	QueryProgressesFunc = QueryProgresses
	DetailProgressFunc  = DetailProgress
	UpdateProgressFunc  = UpdateProgress
	DeleteProgressFunc  = DeleteProgress
)

type TimeDetails struct {
	StartTime types.Timestamp `json:"startTime"`
	EndTime   types.Timestamp `json:"endTime"`
	DcuTime   types.Timestamp `json:"dcuTime"`
}

type Images struct {
	StartImage string `json:"startImage"`
	EndImage   string `json:"endImage"`
	DcuImage   string `json:"dcuImage"`
}

// SpkProgress is one daily progress report against a work order. All totals
// are derived, see Aggregate.
type SpkProgress struct {
	ID    types.ID `json:"id" gorm:"primary_key"`
	SpkID types.ID `json:"spkId" gorm:"index"`

	ReporterID   types.ID        `json:"reporterId"`
	ProgressDate types.Timestamp `json:"progressDate"`

	TimeDetails TimeDetails `json:"timeDetails" gorm:"embedded;embedded_prefix:time_"`
	Images      Images      `json:"images" gorm:"embedded;embedded_prefix:image_"`

	TotalProgressItem float64 `json:"totalProgressItem"`
	TotalCostUsed     float64 `json:"totalCostUsed"`
	GrandTotal        float64 `json:"grandTotal"`

	CreateTime types.Timestamp `json:"createTime"`
}

// LineItemSnapshot is the frozen copy of the work order line a progress item
// reports against. It survives later edits to the work order.
type LineItemSnapshot struct {
	ItemID   types.ID `json:"itemId"`
	ItemCode string   `json:"itemCode"`
	RateCode string   `json:"rateCode"`
}

type ProgressItem struct {
	ProgressID types.ID `json:"-" gorm:"primary_key;auto_increment:false"`
	OrderNum   int      `json:"-" gorm:"primary_key;auto_increment:false"`

	LineItemSnapshot `gorm:"embedded;embedded_prefix:snap_"`
	EstQty           spk.Quantity `json:"estQty" gorm:"embedded;embedded_prefix:est_"`

	WorkQty  spk.Quantity `json:"workedQty" gorm:"embedded;embedded_prefix:work_"`
	UnitRate spk.UnitRate `json:"unitRate" gorm:"embedded;embedded_prefix:unit_"`
	Amount   float64      `json:"amount"`
}

type CostEntry struct {
	ProgressID types.ID `json:"-" gorm:"primary_key;auto_increment:false"`
	OrderNum   int      `json:"-" gorm:"primary_key;auto_increment:false"`

	ItemCostID types.ID `json:"itemCostId"`

	Inputs costing.CostInputs `json:"inputs" gorm:"embedded;embedded_prefix:input_"`

	ComputedUnit string  `json:"computedUnit"`
	ComputedCost float64 `json:"computedCost"`
}

type ProgressDetail struct {
	SpkProgress
	Items []ProgressItem `json:"progressItems" gorm:"-"`
	Costs []CostEntry    `json:"costEntries" gorm:"-"`
}

type ProgressItemCreation struct {
	ItemID   types.ID     `json:"itemId" binding:"required"`
	RateCode string       `json:"rateCode" binding:"required"`
	WorkQty  spk.Quantity `json:"workedQty"`
}

type CostEntryCreation struct {
	ItemCostID types.ID           `json:"itemCostId" binding:"required"`
	Inputs     costing.CostInputs `json:"inputs"`
}

type ProgressCreation struct {
	SpkID        types.ID        `json:"spkId" binding:"required"`
	ProgressDate types.Timestamp `json:"progressDate" binding:"required"`

	TimeDetails TimeDetails `json:"timeDetails"`
	Images      Images      `json:"images"`

	Items []ProgressItemCreation `json:"progressItems"`
	Costs []CostEntryCreation    `json:"costEntries"`
}

type ProgressUpdating struct {
	ProgressDate *types.Timestamp `json:"progressDate"`
	TimeDetails  *TimeDetails     `json:"timeDetails"`
	Images       *Images          `json:"images"`

	Items *[]ProgressItemCreation `json:"progressItems"`
	Costs *[]CostEntryCreation    `json:"costEntries"`
}

type ProgressQuery struct {
	SpkID types.ID `form:"spkId"`
}

// buildItems binds each reported item to a line of the work order by item id
// and rate code, freezing the line's snapshot and unit rate onto the report.
func buildItems(spkDetail *spk.SpkDetail, creations []ProgressItemCreation) ([]ProgressItem, error) {
	items := make([]ProgressItem, 0, len(creations))
	for idx, ic := range creations {
		var matched *spk.SpkItem
		for i := range spkDetail.Items {
			line := &spkDetail.Items[i]
			if line.ItemID == ic.ItemID && line.RateCode == ic.RateCode {
				matched = line
				break
			}
		}
		if matched == nil {
			return nil, &bizerror.ErrReferenceNotFound{EntityType: "spk-line-item", ID: ic.ItemID}
		}
		items = append(items, ProgressItem{
			OrderNum: idx + 1,
			LineItemSnapshot: LineItemSnapshot{ItemID: matched.ItemID,
				ItemCode: matched.ItemCode, RateCode: matched.RateCode},
			EstQty:   matched.Quantity,
			WorkQty:  ic.WorkQty,
			UnitRate: matched.UnitRate,
		})
	}
	return items, nil
}

// buildCosts materializes cost entries. An entry reported without an explicit
// fuel price inherits the work order's diesel price snapshot.
func buildCosts(spkDetail *spk.SpkDetail, creations []CostEntryCreation) []CostEntry {
	costs := make([]CostEntry, 0, len(creations))
	for idx, cc := range creations {
		entry := CostEntry{OrderNum: idx + 1, ItemCostID: cc.ItemCostID, Inputs: cc.Inputs}
		if entry.Inputs.FuelPrice == 0 {
			entry.Inputs.FuelPrice = spkDetail.SolarPriceSnapshot
		}
		costs = append(costs, entry)
	}
	return costs
}

func CreateProgress(c *ProgressCreation, sec *session.Context) (*ProgressDetail, error) {
	detail := &ProgressDetail{SpkProgress: SpkProgress{
		ID: idgen.NextID(progressIdWorker), SpkID: c.SpkID,
		ReporterID: sec.Identity.ID, ProgressDate: c.ProgressDate,
		TimeDetails: c.TimeDetails, Images: c.Images,
		CreateTime: types.CurrentTimestamp(),
	}}

	var ev *event.EventRecord
	err1 := persistence.ActiveDataSourceManager.GormDB(context.Background()).Transaction(func(tx *gorm.DB) error {
		spkDetail, err := spk.DetailSpkFunc(c.SpkID)
		if err != nil {
			return err
		}

		detail.Items, err = buildItems(spkDetail, c.Items)
		if err != nil {
			return err
		}
		detail.Costs = buildCosts(spkDetail, c.Costs)

		totals := Aggregate(detail.Items, detail.Costs)
		detail.TotalProgressItem = totals.TotalProgressItem
		detail.TotalCostUsed = totals.TotalCostUsed
		detail.GrandTotal = totals.GrandTotal

		if err := tx.Create(detail.SpkProgress).Error; err != nil {
			return err
		}
		for i := range detail.Items {
			detail.Items[i].ProgressID = detail.ID
			if err := tx.Create(detail.Items[i]).Error; err != nil {
				return err
			}
		}
		for i := range detail.Costs {
			detail.Costs[i].ProgressID = detail.ID
			if err := tx.Create(detail.Costs[i]).Error; err != nil {
				return err
			}
		}

		ev, err = event.CreateEvent("spk-progress", detail.ID, spkDetail.SpkNo,
			event.EventCategoryCreated, nil, &sec.Identity, tx)
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

func QueryProgresses(query *ProgressQuery, sec *session.Context) (*[]ProgressDetail, error) {
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())

	q := db.Model(&SpkProgress{}).Order("progress_date DESC")
	if query.SpkID != 0 {
		q = q.Where("spk_id = ?", query.SpkID)
	}
	var records []SpkProgress
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}

	details := make([]ProgressDetail, 0, len(records))
	for _, record := range records {
		detail := ProgressDetail{SpkProgress: record}
		if err := loadProgressRows(db, &detail); err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return &details, nil
}

func DetailProgress(id types.ID) (*ProgressDetail, error) {
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	return findProgressDetail(db, id)
}

func findProgressDetail(db *gorm.DB, id types.ID) (*ProgressDetail, error) {
	detail := ProgressDetail{}
	if err := db.Where(&SpkProgress{ID: id}).First(&detail.SpkProgress).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &bizerror.ErrReferenceNotFound{EntityType: "spk-progress", ID: id}
		}
		return nil, err
	}
	if err := loadProgressRows(db, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func loadProgressRows(db *gorm.DB, detail *ProgressDetail) error {
	if err := db.Where(&ProgressItem{ProgressID: detail.ID}).
		Order("order_num ASC").Find(&detail.Items).Error; err != nil {
		return err
	}
	return db.Where(&CostEntry{ProgressID: detail.ID}).
		Order("order_num ASC").Find(&detail.Costs).Error
}

// UpdateProgress replaces the changed parts of a report and recomputes all
// derived figures, existing rows are never patched in place.
func UpdateProgress(id types.ID, u *ProgressUpdating, sec *session.Context) (*ProgressDetail, error) {
	var detail *ProgressDetail
	var ev *event.EventRecord
	err1 := persistence.ActiveDataSourceManager.GormDB(context.Background()).Transaction(func(tx *gorm.DB) error {
		origin, err := findProgressDetail(tx, id)
		if err != nil {
			return err
		}
		spkDetail, err := spk.DetailSpkFunc(origin.SpkID)
		if err != nil {
			return err
		}

		items := origin.Items
		if u.Items != nil {
			items, err = buildItems(spkDetail, *u.Items)
			if err != nil {
				return err
			}
		}
		costs := origin.Costs
		if u.Costs != nil {
			costs = buildCosts(spkDetail, *u.Costs)
		}

		totals := Aggregate(items, costs)

		changes := map[string]interface{}{
			"total_progress_item": totals.TotalProgressItem,
			"total_cost_used":     totals.TotalCostUsed,
			"grand_total":         totals.GrandTotal,
		}
		if u.ProgressDate != nil {
			changes["progress_date"] = *u.ProgressDate
		}
		if u.TimeDetails != nil {
			changes["time_start_time"] = u.TimeDetails.StartTime
			changes["time_end_time"] = u.TimeDetails.EndTime
			changes["time_dcu_time"] = u.TimeDetails.DcuTime
		}
		if u.Images != nil {
			changes["image_start_image"] = u.Images.StartImage
			changes["image_end_image"] = u.Images.EndImage
			changes["image_dcu_image"] = u.Images.DcuImage
		}
		if err := tx.Model(&SpkProgress{}).Where(&SpkProgress{ID: id}).Update(changes).Error; err != nil {
			return err
		}

		if err := tx.Delete(ProgressItem{}, "progress_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(CostEntry{}, "progress_id = ?", id).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ProgressID = id
			items[i].OrderNum = i + 1
			if err := tx.Create(items[i]).Error; err != nil {
				return err
			}
		}
		for i := range costs {
			costs[i].ProgressID = id
			costs[i].OrderNum = i + 1
			if err := tx.Create(costs[i]).Error; err != nil {
				return err
			}
		}

		detail, err = findProgressDetail(tx, id)
		if err != nil {
			return err
		}
		ev, err = event.CreateEvent("spk-progress", id, spkDetail.SpkNo,
			event.EventCategoryPropertyUpdated, nil, &sec.Identity, tx)
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

func DeleteProgress(id types.ID, sec *session.Context) error {
	var ev *event.EventRecord
	err1 := persistence.ActiveDataSourceManager.GormDB(context.Background()).Transaction(func(tx *gorm.DB) error {
		record := SpkProgress{}
		err := tx.Where(&SpkProgress{ID: id}).First(&record).Error
		if err == nil {
			ev, err = event.CreateEvent("spk-progress", id, record.SpkID.String(),
				event.EventCategoryDeleted, nil, &sec.Identity, tx)
			if err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Delete(SpkProgress{}, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(ProgressItem{}, "progress_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(CostEntry{}, "progress_id = ?", id).Error
	})
	if err1 != nil {
		return err1
	}

	if ev != nil && event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}
	return nil
}
