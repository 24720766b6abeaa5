// Package driver loads environmental driver series from CSV files. The
// engine requires every channel fully materialized and aligned with the
// simulation horizon before a run starts; this package does that
// materialization and the horizon check, so length problems surface at load
// time with file context instead of inside the run.
package driver

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Load reads the CSV at path and returns one series per requested channel.
// channels maps each channel name to the CSV column it reads (header row
// required). Every requested column must exist, every cell must parse as a
// float, every row must have the header's width, and - when steps > 0 -
// every series must span exactly steps rows.
func Load(path string, channels map[string]string, steps int) (map[string][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening driver file: %w", err)
	}
	defer f.Close()

	series, err := Read(f, channels)
	if err != nil {
		return nil, fmt.Errorf("driver file %s: %w", path, err)
	}
	if steps > 0 {
		for channel, s := range series {
			if len(s) != steps {
				return nil, fmt.Errorf("driver file %s: channel %q has %d observations, horizon is %d steps",
					path, channel, len(s), steps)
			}
		}
	}
	return series, nil
}

// Read parses CSV driver data from r. Split from Load so tests and callers
// holding in-memory data skip the filesystem.
func Read(r io.Reader, channels map[string]string) (map[string][]float64, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	colIdx := make(map[string]int, len(channels))
	for channel, column := range channels {
		idx := -1
		for i, name := range header {
			if name == column {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("channel %q: no column %q in header %v", channel, column, header)
		}
		colIdx[channel] = idx
	}

	series := make(map[string][]float64, len(channels))
	for channel := range channels {
		series[channel] = []float64{}
	}

	for row := 2; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// csv.Reader reports ragged rows here with the line number.
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		for channel, idx := range colIdx {
			v, err := strconv.ParseFloat(record[idx], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %q is not a number", row, header[idx], record[idx])
			}
			series[channel] = append(series[channel], v)
		}
	}
	return series, nil
}
