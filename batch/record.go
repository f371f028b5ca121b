package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/andydunstall/rumour/simulation"
)

var inputHeader = []string{"n", "k", "voting_steps"}

// ParseError describes an input row that could not be parsed.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Row is a single input configuration.
type Row struct {
	// Index is the position of the row among the input rows, excluding the
	// header.
	Index int

	// Line is the line number of the row in the input.
	Line int

	// Fields contains the raw input fields.
	Fields []string

	Config simulation.Config

	// Err is set if the row could not be parsed.
	Err error
}

// ReadRows reads all rows from the CSV input. A leading 'n,k,voting_steps'
// header is skipped.
//
// Rows that can't be parsed are returned with Err set. An error is only
// returned if the input itself can't be read.
func ReadRows(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	// Check the number of fields per row ourselves so a bad row doesn't
	// fail the whole input.
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	var rows []Row
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := reader.FieldPos(0)

		if len(rows) == 0 && isHeader(fields) {
			continue
		}

		row := parseRow(line, fields)
		row.Index = len(rows)
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(line int, fields []string) Row {
	row := Row{
		Line:   line,
		Fields: fields,
	}

	if len(fields) != len(inputHeader) {
		row.Err = &ParseError{
			Line:   line,
			Reason: fmt.Sprintf("expected %d fields, got %d", len(inputHeader), len(fields)),
		}
		return row
	}

	values := make([]int, len(fields))
	for i, field := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			row.Err = &ParseError{
				Line:   line,
				Reason: fmt.Sprintf("%s: invalid integer: %q", inputHeader[i], field),
			}
			return row
		}
		values[i] = v
	}

	row.Config = simulation.Config{
		N:           values[0],
		K:           values[1],
		VotingSteps: values[2],
	}
	return row
}

func isHeader(fields []string) bool {
	if len(fields) != len(inputHeader) {
		return false
	}
	for i, field := range fields {
		if !strings.EqualFold(strings.TrimSpace(field), inputHeader[i]) {
			return false
		}
	}
	return true
}
