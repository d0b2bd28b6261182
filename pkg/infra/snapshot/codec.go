package snapshot

import (
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/orgwatch/pkg/domain/model"
)

// encode renders a snapshot as an indented JSON document. Collections are
// normalized first so that empty ones are written as [] or {}.
func encode(snap *model.Snapshot) ([]byte, error) {
	snap.Normalize()

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode snapshot")
	}
	return append(raw, '\n'), nil
}

func decode(raw []byte) (*model.Snapshot, error) {
	var snap model.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, goerr.Wrap(err, "failed to decode snapshot", goerr.V("size", len(raw)))
	}
	snap.Normalize()
	return &snap, nil
}
