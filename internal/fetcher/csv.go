package fetcher

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"

	"github.com/peakops/snowplan-cli/internal/series"
)

// CSVOptions configures the depth-series CSV parser.
type CSVOptions struct {
	Delimiter  rune // default ','
	Comment    rune // comment character (0 = none)
	LazyQuotes bool
}

// StreamCSV reads a depth-series CSV and sends parsed records to a
// channel. The first row must be a header naming at least the time and
// depth columns. Caller must consume the record channel; both channels
// are closed when processing completes.
func StreamCSV(ctx context.Context, r io.Reader, opts CSVOptions) (<-chan series.Record, <-chan error) {
	recCh := make(chan series.Record, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(recCh)
		defer close(errCh)

		reader := csv.NewReader(r)
		if opts.Delimiter != 0 {
			reader.Comma = opts.Delimiter
		}
		if opts.Comment != 0 {
			reader.Comment = opts.Comment
		}
		reader.LazyQuotes = opts.LazyQuotes
		reader.FieldsPerRecord = -1 // header decides; rows may pad short

		var hm headerMap
		line := 0
		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}

			row, err := reader.Read()
			if err == io.EOF {
				if hm == nil {
					errCh <- eris.New("csv: empty input")
				}
				return
			}
			if err != nil {
				errCh <- eris.Wrap(err, "csv: read row")
				return
			}
			line++

			if hm == nil {
				hm, err = mapHeader(row)
				if err != nil {
					errCh <- err
					return
				}
				continue
			}

			rec, err := hm.record(row)
			if err != nil {
				errCh <- eris.Wrapf(err, "csv: line %d", line)
				return
			}

			select {
			case recCh <- rec:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}
		}
	}()

	return recCh, errCh
}

// ReadCSV collects a full depth series from r.
func ReadCSV(ctx context.Context, r io.Reader, opts CSVOptions) ([]series.Record, error) {
	recCh, errCh := StreamCSV(ctx, r, opts)

	var records []series.Record
	for rec := range recCh {
		records = append(records, rec)
	}
	if err := <-errCh; err != nil {
		return nil, err
	}
	return records, nil
}
