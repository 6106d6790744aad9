package payments

import (
	"errors"
	"iter"

	"github.com/rs/zerolog"
)

// IngestStats counts what happened to the records of a stream.
type IngestStats struct {
	Applied   int // records accepted by the ledger
	Rejected  int // records refused by the ledger
	Malformed int // lines that could not be decoded
}

// Records returns the number of lines read, malformed ones included.
func (s IngestStats) Records() int { return s.Applied + s.Rejected + s.Malformed }

// Ingester feeds a record stream into a Processor.
//
// Malformed lines and rejected records are reported on Log and skipped: a bad
// record never stops the stream. Use zerolog.Nop() to discard diagnostics.
type Ingester struct {
	Log zerolog.Logger
	// OnReject, if set, is called for every record refused by the ledger.
	OnReject func(Record, error)
}

// Ingest applies records to p in order.
//
// It only returns an error when the stream itself fails (the input cannot be
// read anymore). The ledger state is valid in every case.
func (in Ingester) Ingest(p *Processor, records iter.Seq2[Record, error]) (IngestStats, error) {
	var stats IngestStats
	for rec, err := range records {
		if err != nil {
			var derr *DecodeError
			if !errors.As(err, &derr) {
				return stats, err
			}
			stats.Malformed++
			in.Log.Warn().Int("line", derr.Line).Err(derr.Err).Msg("deserialize failed")
			continue
		}

		if err := p.Apply(rec); err != nil {
			stats.Rejected++
			ev := in.Log.Warn().Stringer("record", rec).Err(err)
			var lerr *Error
			if errors.As(err, &lerr) {
				ev = ev.Stringer("kind", lerr.Kind)
			}
			ev.Msg("failed to process record")
			if in.OnReject != nil {
				in.OnReject(rec, err)
			}
			continue
		}
		stats.Applied++
		in.Log.Debug().Stringer("record", rec).Msg("applied")
	}
	return stats, nil
}
