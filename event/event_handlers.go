package event

import (
	"github.com/sirupsen/logrus"
)

// EventHandler reacts to a committed event record. Returning nil means the
// handler does not care about this record.
type EventHandler func(e *EventRecord) *EventHandleResult

type EventHandleResult struct {
	Success           bool
	Message           string
	HandlerIdentifier string
}

var EventHandlers []EventHandler

var InvokeHandlersFunc = invokeHandlers

// invokeHandlers runs after the owning transaction committed, handler
// failures are logged but never propagated back to the write path.
func invokeHandlers(record *EventRecord) []EventHandleResult {
	results := []EventHandleResult{}
	for _, handler := range EventHandlers {
		r := handler(record)
		if r == nil {
			continue
		}
		results = append(results, *r)

		if r.Success {
			logrus.Infoln("event handled:", r.HandlerIdentifier, record.SourceType, record.SourceId)
		} else {
			logrus.Errorln("event handler failed:", r.HandlerIdentifier, r.Message)
		}
	}
	return results
}
