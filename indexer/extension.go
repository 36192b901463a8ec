package indexer

import (
	"encoding/json"
	"fmt"

	"github.com/availproject/avail-indexer/db"
	"github.com/availproject/avail-indexer/external/avail"
	"github.com/availproject/avail-indexer/types"
)

// extensionPayload is the schema shared by every header-extension version.
type extensionPayload struct {
	Commitment struct {
		Rows       int    `json:"rows"`
		Cols       int    `json:"cols"`
		DataRoot   string `json:"dataRoot"`
		Commitment string `json:"commitment"`
	} `json:"commitment"`
	AppLookup struct {
		Size  int             `json:"size"`
		Index json.RawMessage `json:"index"`
	} `json:"appLookup"`
}

// versionedExtension is the tagged union carried by the header sidecar.
// Exactly one version key is expected per header.
type versionedExtension struct {
	V1 *extensionPayload `json:"v1"`
	V2 *extensionPayload `json:"v2"`
	V3 *extensionPayload `json:"v3"`
}

// buildHeaderExtension parses the versioned header-extension sidecar into its
// extension/commitment/app-lookup triple. It returns nils when the header
// carries no sidecar; a malformed sidecar is a schema mismatch and propagates.
func buildHeaderExtension(header avail.Header) (*db.HeaderExtension, *db.Commitment, *db.AppLookup, error) {
	if len(header.Extension) == 0 {
		return nil, nil, nil, nil
	}

	var extension versionedExtension
	if err := json.Unmarshal(header.Extension, &extension); err != nil {
		return nil, nil, nil, fmt.Errorf("malformed header extension at block %d, err=%s", header.Number, err.Error())
	}

	version := ""
	var payload *extensionPayload
	for _, candidate := range []struct {
		tag  string
		data *extensionPayload
	}{
		{"v1", extension.V1},
		{"v2", extension.V2},
		{"v3", extension.V3},
	} {
		if candidate.data != nil {
			version = candidate.tag
			payload = candidate.data
		}
	}
	if payload == nil {
		return nil, nil, nil, fmt.Errorf("header extension at block %d has no known version key", header.Number)
	}

	id := types.BlockID(header.Number)
	extensionRecord := &db.HeaderExtension{
		ID:      id,
		Version: version,
	}
	commitmentRecord := &db.Commitment{
		ID:         id,
		Rows:       payload.Commitment.Rows,
		Cols:       payload.Commitment.Cols,
		DataRoot:   payload.Commitment.DataRoot,
		Commitment: payload.Commitment.Commitment,
	}
	lookupRecord := &db.AppLookup{
		ID:    id,
		Size:  payload.AppLookup.Size,
		Index: string(payload.AppLookup.Index),
	}
	return extensionRecord, commitmentRecord, lookupRecord, nil
}
