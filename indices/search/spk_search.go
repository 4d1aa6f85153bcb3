package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"spkwork/client/es"
	"spkwork/domain/spk"
	"spkwork/indices"
	"spkwork/session"
)

var (
	SearchSpksFunc = SearchSpks
)

// SearchSpks runs the work order query against the elasticsearch index
// instead of the database.
func SearchSpks(q spk.SpkQuery, sec *session.Context) ([]spk.SpkDetail, error) {
	filters := make([]es.H, 0, 2)
	if q.Status != "" {
		filters = append(filters, es.H{"term": es.H{"status": q.Status}})
	}
	if q.Keyword != "" {
		filters = append(filters, es.H{"bool": es.H{"should": []es.H{
			{"match": es.H{"spkNo": es.H{"query": q.Keyword, "operator": "AND"}}},
			{"match": es.H{"spkTitle": es.H{"query": q.Keyword, "operator": "AND"}}},
		}}})
	}

	sorts := []es.H{{"createTime": es.H{"order": "desc"}}}

	root := es.H{"bool": es.H{"filter": filters}}
	r, err := es.SearchFunc(context.Background(), indices.SpkIndexName,
		es.H{"size": 10000, "query": root, "sort": sorts})
	if err != nil {
		return nil, err
	}

	details := make([]spk.SpkDetail, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		detail := spk.SpkDetail{}
		if err := json.NewDecoder(strings.NewReader(string(hit.Source))).Decode(&detail); err != nil {
			return nil, fmt.Errorf(string(hit.Source))
		}
		details = append(details, detail)
	}
	return details, nil
}
