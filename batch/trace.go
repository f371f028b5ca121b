package batch

import (
	"fmt"
	"io"

	"github.com/ugorji/go/codec"

	"github.com/andydunstall/rumour/simulation"
)

type traceEntry struct {
	Row    int                    `codec:"row"`
	Config simulation.Config      `codec:"config"`
	Record simulation.RoundRecord `codec:"record"`
}

// TraceWriter writes round records as JSON lines. The records of a run are
// written together, and the runner writes runs in input order, so a trace
// is reproducible given the same seed.
type TraceWriter struct {
	w      io.Writer
	handle codec.JsonHandle
}

func NewTraceWriter(w io.Writer) *TraceWriter {
	return &TraceWriter{
		w: w,
	}
}

func (t *TraceWriter) Write(row Row, records []simulation.RoundRecord) error {
	var buf []byte
	for _, record := range records {
		var b []byte
		enc := codec.NewEncoderBytes(&b, &t.handle)
		if err := enc.Encode(&traceEntry{
			Row:    row.Index,
			Config: row.Config,
			Record: record,
		}); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		buf = append(buf, b...)
		buf = append(buf, '\n')
	}

	if _, err := t.w.Write(buf); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// recorder buffers the round records of a single run.
type recorder struct {
	records []simulation.RoundRecord
}

func (r *recorder) OnRound(record simulation.RoundRecord) {
	r.records = append(r.records, record)
}

func (r *recorder) OnQuorum(_ int, _ int) {}

var _ simulation.Observer = &recorder{}
