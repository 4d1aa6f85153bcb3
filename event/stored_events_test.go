package event

import (
	"context"
	"testing"
	"time"

	"spkwork/persistence"
	"spkwork/testinfra"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
)

var (
	testDatabase *testinfra.TestDatabase
)

func setup(t *testing.T) {
	testDatabase = testinfra.StartMysqlTestDatabase("spkwork")
	assert.Nil(t, testDatabase.DS.GormDB(context.Background()).AutoMigrate(&EventRecord{}).Error)
	persistence.ActiveDataSourceManager = testDatabase.DS
}
func teardown(t *testing.T) {
	if testDatabase != nil {
		testinfra.StopMysqlTestDatabase(testDatabase)
	}
}

func TestEventPersistCreate(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should be able to persist event create", func(t *testing.T) {
		setup(t)
		defer teardown(t)

		record := EventRecord{
			Event: Event{
				SourceType: "spk",
				SourceId:   1234,
				SourceDesc: "SPK-2021-001",

				EventCategory: EventCategoryStatusTransitioned,
				UpdatedProperties: UpdatedProperties{{PropertyName: "Status",
					OldValue: "draft", NewValue: "active"}},

				CreatorId:   333,
				CreatorName: "user333",
			},
			Timestamp: types.TimestampOfDate(2021, 1, 1, 12, 12, 12, 0, time.Local),
			Synced:    true,
		}

		assert.Nil(t, eventPersistCreate(&record, testDatabase.DS.GormDB(context.Background())))

		// assert records in tables
		records := []EventRecord{}
		Expect(testDatabase.DS.GormDB(context.Background()).Model(&EventRecord{}).Find(&records).Error).To(BeNil())
		Expect(len(records)).To(Equal(1))
		Expect(records[0].SourceType).To(Equal("spk"))
		Expect(records[0].SourceId).To(Equal(types.ID(1234)))
		Expect(records[0].EventCategory).To(Equal(EventCategoryStatusTransitioned))
		Expect(records[0].UpdatedProperties).To(Equal(UpdatedProperties{{PropertyName: "Status",
			OldValue: "draft", NewValue: "active"}}))
		Expect(records[0].Synced).To(BeTrue())
	})
}
