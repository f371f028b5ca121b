package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

var outputHeader = []string{
	"n",
	"k",
	"voting_steps",
	"num_iterations",
	"num_exchanges",
	"average_votes_held",
	"status",
	"error",
}

// WriteResults writes a header then one CSV row per result, in the given
// order.
func WriteResults(w io.Writer, results []Result) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(outputHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write(formatResult(result)); err != nil {
			return fmt.Errorf("write row: %d: %w", result.Row.Line, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatResult(result Result) []string {
	if result.Err != nil {
		// Echo the raw input fields since they may not be valid integers.
		record := make([]string, len(outputHeader))
		copy(record[:len(inputHeader)], result.Row.Fields)
		record[6] = result.Status()
		record[7] = result.Err.Error()
		return record
	}

	r := result.Result
	return []string{
		strconv.Itoa(r.Config.N),
		strconv.Itoa(r.Config.K),
		strconv.Itoa(r.Config.VotingSteps),
		strconv.Itoa(r.Rounds),
		strconv.Itoa(r.Exchanges),
		strconv.FormatFloat(r.AverageVotesHeld, 'f', -1, 64),
		result.Status(),
		"",
	}
}

// Output is an output file that only appears at its path once committed.
//
// Writes go to a temporary file in the same directory which is renamed into
// place on commit, so a failed batch never leaves a partial output or trace
// file.
type Output struct {
	path string
	tmp  *os.File
}

// CreateOutput creates the temporary output file. This fails if the output
// directory isn't writable.
func CreateOutput(path string) (*Output, error) {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, name+"-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create temp: %w", err)
	}
	return &Output{
		path: path,
		tmp:  tmp,
	}, nil
}

func (o *Output) Write(p []byte) (int, error) {
	return o.tmp.Write(p)
}

// Commit syncs the temporary file and renames it to the output path.
func (o *Output) Commit() error {
	if err := o.tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := o.tmp.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	if err := o.tmp.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Rename(o.tmp.Name(), o.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// Abort discards the temporary file.
func (o *Output) Abort() {
	o.tmp.Close()
	os.Remove(o.tmp.Name())
}
