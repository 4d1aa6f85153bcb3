package event

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/fundwit/go-commons/types"
)

type EventCategory string

const (
	EventCategoryCreated            EventCategory = "Created"
	EventCategoryPropertyUpdated    EventCategory = "PropertyUpdated"
	EventCategoryStatusTransitioned EventCategory = "StatusTransitioned"
	EventCategoryDeleted            EventCategory = "Deleted"
)

type UpdatedProperty struct {
	PropertyName string `json:"propertyName"`
	OldValue     string `json:"oldValue"`
	NewValue     string `json:"newValue"`
}

type UpdatedProperties []UpdatedProperty

func (p UpdatedProperties) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *UpdatedProperties) Scan(src interface{}) error {
	if src == nil {
		*p = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	}
	return errors.New("unsupported source type of UpdatedProperties")
}

type Event struct {
	SourceType string   `json:"sourceType"`
	SourceId   types.ID `json:"sourceId"`
	SourceDesc string   `json:"sourceDesc"`

	EventCategory     EventCategory     `json:"eventCategory"`
	UpdatedProperties UpdatedProperties `json:"updatedProperties" gorm:"type:text"`

	CreatorId   types.ID `json:"creatorId"`
	CreatorName string   `json:"creatorName"`
}

type EventRecord struct {
	ID types.ID `json:"id" gorm:"primary_key"`
	Event

	Synced    bool            `json:"synced"`
	Timestamp types.Timestamp `json:"timestamp"`
}
