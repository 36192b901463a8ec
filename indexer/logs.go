package indexer

import (
	"github.com/availproject/avail-indexer/db"
	"github.com/availproject/avail-indexer/external/avail"
	"github.com/availproject/avail-indexer/types"
)

// buildLogs maps every digest log entry of the header to its record, one per
// entry in digest order. Only the kinds carrying a consensus-engine id keep
// their engine tag.
func buildLogs(header avail.Header) []*db.Log {
	logs := make([]*db.Log, 0, len(header.Digest))
	for idx, entry := range header.Digest {
		record := &db.Log{
			ID:          types.LogID(header.Number, idx),
			BlockHeight: header.Number,
			Type:        string(entry.Kind),
			Data:        entry.Data,
		}
		switch entry.Kind {
		case avail.LogConsensus, avail.LogSeal, avail.LogPreRuntime:
			record.Engine = entry.Engine
		}
		logs = append(logs, record)
	}
	return logs
}
