package indices_test

import (
	"context"
	"errors"
	"testing"

	"spkwork/client/es"
	"spkwork/domain/spk"
	"spkwork/event"
	"spkwork/indices"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/gomega"
)

func TestIndexSpkEventHandle(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should ignore events of other source types", func(t *testing.T) {
		r := indices.IndexSpkEventHandle(&event.EventRecord{Event: event.Event{SourceType: "spk-progress"}})
		Expect(r).To(BeNil())
	})

	t.Run("should index the spk document on create and update events", func(t *testing.T) {
		spk.DetailSpkFunc = func(id types.ID) (*spk.SpkDetail, error) {
			return &spk.SpkDetail{Spk: spk.Spk{ID: id, SpkNo: "SPK-2021-001"}}, nil
		}
		var indexedId types.ID
		es.IndexFunc = func(ctx context.Context, index string, id types.ID, doc interface{}) error {
			Expect(index).To(Equal(indices.SpkIndexName))
			indexedId = id
			return nil
		}

		r := indices.IndexSpkEventHandle(&event.EventRecord{Event: event.Event{
			SourceType: "spk", SourceId: 123, EventCategory: event.EventCategoryCreated}})
		Expect(r.Success).To(BeTrue())
		Expect(r.HandlerIdentifier).To(Equal(indices.SpkIndexEventHandlerName))
		Expect(indexedId).To(Equal(types.ID(123)))
	})

	t.Run("should delete the document on delete events", func(t *testing.T) {
		var deletedId types.ID
		es.DeleteDocumentByIdFunc = func(ctx context.Context, index string, id types.ID) error {
			Expect(index).To(Equal(indices.SpkIndexName))
			deletedId = id
			return nil
		}

		r := indices.IndexSpkEventHandle(&event.EventRecord{Event: event.Event{
			SourceType: "spk", SourceId: 123, EventCategory: event.EventCategoryDeleted}})
		Expect(r.Success).To(BeTrue())
		Expect(deletedId).To(Equal(types.ID(123)))
	})

	t.Run("should report failures without panicking", func(t *testing.T) {
		spk.DetailSpkFunc = func(id types.ID) (*spk.SpkDetail, error) {
			return nil, errors.New("detail error")
		}
		r := indices.IndexSpkEventHandle(&event.EventRecord{Event: event.Event{
			SourceType: "spk", SourceId: 123, EventCategory: event.EventCategoryPropertyUpdated}})
		Expect(r.Success).To(BeFalse())
		Expect(r.Message).ToNot(BeZero())
	})
}

func TestIndicesFullSync(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should page until the source is drained", func(t *testing.T) {
		pages := [][]spk.SpkDetail{
			{{Spk: spk.Spk{ID: 1, SpkNo: "SPK-1"}}, {Spk: spk.Spk{ID: 2, SpkNo: "SPK-2"}}},
			{{Spk: spk.Spk{ID: 3, SpkNo: "SPK-3"}}},
			{},
		}
		spk.LoadSpksFunc = func(page, size int) ([]spk.SpkDetail, error) {
			Expect(size).To(Equal(indices.SyncBatchSize))
			return pages[page-1], nil
		}
		indexed := []types.ID{}
		es.IndexFunc = func(ctx context.Context, index string, id types.ID, doc interface{}) error {
			indexed = append(indexed, id)
			return nil
		}

		Expect(indices.IndicesFullSync()).To(BeNil())
		Expect(indexed).To(Equal([]types.ID{1, 2, 3}))
	})
}
