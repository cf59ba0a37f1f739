package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"path"

	"github.com/shandysiswandi/twostep/internal/diagnostic/entity"
	"github.com/shandysiswandi/twostep/internal/pkg/instrument"
	"github.com/shandysiswandi/twostep/internal/pkg/storage"
)

const keyPrefix = "client-errors"

type Archive struct {
	store storage.Storage
	ins   instrument.Instrumentation
}

func New(store storage.Storage, ins instrument.Instrumentation) *Archive {
	return &Archive{store: store, ins: ins}
}

// Key is client-errors/YYYY/MM/DD/<id>.json, dated by when the report arrived.
func Key(r entity.ClientErrorReport) string {
	return path.Join(keyPrefix, r.ReceivedAt.UTC().Format("2006/01/02"), r.ID+".json")
}

func (a *Archive) SaveClientError(ctx context.Context, r entity.ClientErrorReport) (string, error) {
	ctx, span := a.ins.Tracer("diagnostic.outbound.archive").Start(ctx, "SaveClientError")
	defer span.End()

	body, err := json.Marshal(r)
	if err != nil {
		return "", err
	}

	key := Key(r)
	if _, err := a.store.Put(ctx, key, bytes.NewReader(body), storage.PutOptions{
		Size:        int64(len(body)),
		ContentType: "application/json",
		Metadata:    map[string]string{"source": r.Source},
	}); err != nil {
		return "", err
	}

	return key, nil
}
