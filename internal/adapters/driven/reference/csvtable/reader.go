// Package csvtable reads reference tables from delimited text files.
package csvtable

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
	"github.com/custodia-labs/grantcheck/internal/core/ports/driven"
	"github.com/custodia-labs/grantcheck/internal/logger"
)

// Ensure Reader implements the interface.
var _ driven.ReferenceReader = (*Reader)(nil)

// candidates are the delimiters considered when sniffing, in tie-break order.
var candidates = []rune{',', ';', '\t'}

// Reader parses comma, semicolon or tab separated reference tables.
type Reader struct {
	// Delimiter forces a separator. Zero sniffs it from the header line.
	Delimiter rune
}

// New creates a reader that sniffs the delimiter.
func New() *Reader {
	return &Reader{}
}

// Read parses the table. The first record is the header; header names are
// trimmed, a UTF-8 byte order mark is dropped and short rows are padded
// with empty cells. A row with more non-empty cells than the header is
// rejected with domain.ErrInvalidInput; trailing empty cells are dropped.
func (r *Reader) Read(ctx context.Context, src io.Reader) (*domain.ReferenceTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(transform.NewReader(src, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	if err != nil {
		return nil, fmt.Errorf("read reference table: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: reference table is empty", domain.ErrInvalidInput)
	}

	delim := r.Delimiter
	if delim == 0 {
		delim = Sniff(data)
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read reference header: %w", err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	table := &domain.ReferenceTable{Columns: columns}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read reference row: %w", err)
		}
		if blank(record) {
			continue
		}
		if len(record) > len(columns) {
			line, _ := cr.FieldPos(0)
			if !blank(record[len(columns):]) {
				return nil, fmt.Errorf("%w: reference line %d has %d cells, header has %d",
					domain.ErrInvalidInput, line, len(record), len(columns))
			}
			logger.Debug("reference line %d has trailing empty cells, keeping %d", line, len(columns))
			record = record[:len(columns)]
		}
		cells := make([]string, len(columns))
		copy(cells, record)
		table.Rows = append(table.Rows, domain.ReferenceRow{Cells: cells})
	}

	logger.Debug("reference table: %d columns, %d rows, delimiter %q", len(columns), len(table.Rows), delim)
	return table, nil
}

// Sniff picks the candidate delimiter that occurs most often in the first
// line. Comma wins ties and is the fallback.
func Sniff(data []byte) rune {
	line := data
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		line = data[:i]
	}
	best, bestCount := ',', 0
	for _, c := range candidates {
		if n := bytes.Count(line, []byte(string(c))); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}

func blank(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
