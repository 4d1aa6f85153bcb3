package indices

import (
	"context"
	"fmt"
	"sync"

	"spkwork/bizerror"
	"spkwork/client/es"
	"spkwork/domain/spk"
	"spkwork/event"
	"spkwork/session"

	"github.com/sirupsen/logrus"
)

var (
	SpkIndexEventHandlerName = "spkIndexer"

	lock    sync.Mutex
	running bool

	IndicesFullSyncFunc    = IndicesFullSync
	ScheduleNewSyncRunFunc = ScheduleNewSyncRun
)

func ScheduleNewSyncRun(sec *session.Context) (bool, error) {
	if !sec.HasRole("admin") {
		return false, bizerror.ErrForbidden
	}

	lock.Lock()
	if running {
		lock.Unlock()
		return false, nil
	}
	running = true
	lock.Unlock()

	waitRunning := sync.WaitGroup{}
	waitRunning.Add(1)
	go func() {
		waitRunning.Done()
		defer func() {
			lock.Lock()
			running = false
			lock.Unlock()
		}()
		IndicesFullSyncFunc()
	}()
	waitRunning.Wait()
	return true, nil
}

var (
	SyncBatchSize = 500
)

func IndicesFullSync() (err error) {
	defer func() {
		if ret := recover(); ret != nil {
			e, ok := ret.(error)
			if ok {
				err = e
			} else {
				err = fmt.Errorf("error on indices full sync: %v", ret)
			}
		}
	}()

	page := 1
	for {
		details, err := spk.LoadSpksFunc(page, SyncBatchSize)
		if err != nil {
			logrus.Warnf("indices fully sync: error on retrieve spks(page = %d, pageSize = %d): %v", page, SyncBatchSize, err)
			page++
			continue
		}

		if len(details) == 0 {
			logrus.Infof("indices fully sync: there are no more spk to index")
			return nil // loop exit
		}

		if err := IndexSpks(details); err != nil {
			logrus.Warnf("indices fully sync: error on index spks(page = %d, pageSize = %d): %v", page, SyncBatchSize, err)
		}
		page++
	}
}

func IndexSpkEventHandle(e *event.EventRecord) *event.EventHandleResult {
	if e.SourceType != "spk" {
		return nil
	}

	if e.EventCategory == event.EventCategoryDeleted {
		err := es.DeleteDocumentByIdFunc(context.Background(), SpkIndexName, e.Event.SourceId)
		if err != nil {
			return &event.EventHandleResult{
				Message:           fmt.Sprintf("delete spk index %d, %v", e.Event.SourceId, err),
				HandlerIdentifier: SpkIndexEventHandlerName,
			}
		}
		return &event.EventHandleResult{Success: true, HandlerIdentifier: SpkIndexEventHandlerName}
	}

	detail, err := spk.DetailSpkFunc(e.Event.SourceId)
	if err != nil {
		return &event.EventHandleResult{
			Message:           fmt.Sprintf("detail spk when index spk %d, %v", e.Event.SourceId, err),
			HandlerIdentifier: SpkIndexEventHandlerName,
		}
	}
	if err := IndexSpks([]spk.SpkDetail{*detail}); err != nil {
		return &event.EventHandleResult{
			Message:           fmt.Sprintf("index spk %d, %v", e.Event.SourceId, err),
			HandlerIdentifier: SpkIndexEventHandlerName,
		}
	}
	return &event.EventHandleResult{Success: true, HandlerIdentifier: SpkIndexEventHandlerName}
}
