package spk

import (
	"context"

	"spkwork/bizerror"
	"spkwork/domain/state"
	"spkwork/event"
	"spkwork/idgen"
	"spkwork/persistence"
	"spkwork/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	statusLogIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	TransitionSpkStatusFunc = TransitionSpkStatus
	QueryStatusLogsFunc     = QueryStatusLogs
)

type SpkStatusLog struct {
	ID    types.ID `json:"id" gorm:"primary_key"`
	SpkID types.ID `json:"spkId" gorm:"index"`

	FromStatus state.State `json:"fromStatus"`
	ToStatus   state.State `json:"toStatus"`

	CreatorID   types.ID        `json:"creatorId"`
	CreatorName string          `json:"creatorName"`
	CreateTime  types.Timestamp `json:"createTime"`
}

type StatusTransitionRequest struct {
	Status state.State `json:"status" binding:"required"`
}

// TransitionSpkStatus is the only path that may change a work order's status.
// The requested edge is validated against the Lifecycle table.
func TransitionSpkStatus(id types.ID, requested state.State, sec *session.Context) (*SpkDetail, error) {
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

		if !Lifecycle.Accepts(origin.Status, requested) {
			return &bizerror.ErrInvalidStatusTransition{SpkID: id,
				From: string(origin.Status), To: string(requested)}
		}

		now := types.CurrentTimestamp()
		if err := tx.Model(&Spk{}).Where(&Spk{ID: id}).Update("status", requested).Error; err != nil {
			return err
		}

		statusLog := SpkStatusLog{ID: idgen.NextID(statusLogIdWorker), SpkID: id,
			FromStatus: origin.Status, ToStatus: requested,
			CreatorID: sec.Identity.ID, CreatorName: sec.Identity.Name, CreateTime: now}
		if err := tx.Create(statusLog).Error; err != nil {
			return err
		}

		ev, err = event.CreateEvent("spk", id, origin.SpkNo, event.EventCategoryStatusTransitioned,
			[]event.UpdatedProperty{{PropertyName: "Status",
				OldValue: string(origin.Status), NewValue: string(requested)}},
			&sec.Identity, tx)
		if err != nil {
			return err
		}

		detail, err = findSpkDetail(tx, id)
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

func QueryStatusLogs(spkId types.ID, sec *session.Context) (*[]SpkStatusLog, error) {
	var logs []SpkStatusLog
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	if err := db.Where(&SpkStatusLog{SpkID: spkId}).Order("create_time ASC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return &logs, nil
}
