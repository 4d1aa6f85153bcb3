package search_test

import (
	"context"
	"errors"
	"testing"

	"spkwork/client/es"
	"spkwork/domain/spk"
	"spkwork/indices"
	"spkwork/indices/search"
	"spkwork/testinfra"

	. "github.com/onsi/gomega"
)

func TestSearchSpks(t *testing.T) {
	RegisterTestingT(t)
	sec := testinfra.BuildSecCtx(100, "mandor")

	t.Run("should build filters from the query and decode hits", func(t *testing.T) {
		var capturedIndex string
		var capturedQuery interface{}
		es.SearchFunc = func(ctx context.Context, index string, query interface{}) (*es.ESSearchResult, error) {
			capturedIndex = index
			capturedQuery = query
			return &es.ESSearchResult{Hits: es.ESSearchHits{Hits: []es.ESSearchHit{
				{Id: "10", Source: es.Source(`{"id":"10", "spkNo":"SPK-2021-002", "status":"active"}`)},
				{Id: "20", Source: es.Source(`{"id":"20", "spkNo":"SPK-2021-001", "status":"active"}`)},
			}}}, nil
		}

		details, err := search.SearchSpks(spk.SpkQuery{Status: "active", Keyword: "SPK-2021"}, sec)
		Expect(err).To(BeNil())
		Expect(capturedIndex).To(Equal(indices.SpkIndexName))

		Expect(capturedQuery).To(Equal(es.H{"size": 10000,
			"query": es.H{"bool": es.H{"filter": []es.H{
				{"term": es.H{"status": "active"}},
				{"bool": es.H{"should": []es.H{
					{"match": es.H{"spkNo": es.H{"query": "SPK-2021", "operator": "AND"}}},
					{"match": es.H{"spkTitle": es.H{"query": "SPK-2021", "operator": "AND"}}},
				}}},
			}}},
			"sort": []es.H{{"createTime": es.H{"order": "desc"}}}}))

		Expect(len(details)).To(Equal(2))
		Expect(details[0].SpkNo).To(Equal("SPK-2021-002"))
		Expect(details[1].SpkNo).To(Equal("SPK-2021-001"))
	})

	t.Run("should skip the filters on an empty query", func(t *testing.T) {
		es.SearchFunc = func(ctx context.Context, index string, query interface{}) (*es.ESSearchResult, error) {
			Expect(query).To(Equal(es.H{"size": 10000,
				"query": es.H{"bool": es.H{"filter": []es.H{}}},
				"sort":  []es.H{{"createTime": es.H{"order": "desc"}}}}))
			return &es.ESSearchResult{}, nil
		}

		details, err := search.SearchSpks(spk.SpkQuery{}, sec)
		Expect(err).To(BeNil())
		Expect(details).To(Equal([]spk.SpkDetail{}))
	})

	t.Run("should propagate search errors", func(t *testing.T) {
		es.SearchFunc = func(ctx context.Context, index string, query interface{}) (*es.ESSearchResult, error) {
			return nil, errors.New("search error")
		}
		_, err := search.SearchSpks(spk.SpkQuery{}, sec)
		Expect(err).To(Equal(errors.New("search error")))
	})
}
