package indices

import (
	"context"
	"fmt"

	"spkwork/client/es"
	"spkwork/domain/spk"

	"github.com/fundwit/go-commons/types"
	"github.com/sirupsen/logrus"
)

var (
	SpkIndexName = "spks"
)

type SpkDocument struct {
	spk.SpkDetail
}

type BatchActionError map[types.ID]error

func (e BatchActionError) Error() string {
	return fmt.Sprintf("%v", map[types.ID]error(e))
}

func IndexSpks(details []spk.SpkDetail) error {
	docs := make([]SpkDocument, 0, len(details))
	for _, detail := range details {
		docs = append(docs, SpkDocument{SpkDetail: detail})
	}

	if err := saveSpkDocuments(docs); err != nil {
		return err
	}
	return nil
}

func saveSpkDocuments(docs []SpkDocument) BatchActionError {
	errs := BatchActionError{}

	for _, doc := range docs {
		if err := es.IndexFunc(context.Background(), SpkIndexName, doc.ID, doc); err != nil {
			errs[doc.ID] = err
			logrus.Warnf("index spk %d %s %s\n", doc.ID, doc.SpkNo, err)
		} else {
			logrus.Infof("index spk %d %s successfully\n", doc.ID, doc.SpkNo)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
