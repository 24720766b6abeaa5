// Package export writes SOC trajectories to files an external analysis or
// plotting layer consumes: CSV for universal tooling, Parquet for columnar
// pipelines. The column set is the trajectory record of the library - step,
// one column per pool, total SOC, cumulative respiration.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BBenyamini/swesoc"
)

// Format selects an export encoding.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

// DetectFormat resolves an explicit format name, falling back to the file
// extension when the name is empty.
func DetectFormat(path, name string) (Format, error) {
	switch strings.ToLower(name) {
	case "csv":
		return FormatCSV, nil
	case "parquet":
		return FormatParquet, nil
	case "":
	default:
		return "", fmt.Errorf("unknown export format %q", name)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".parquet":
		return FormatParquet, nil
	}
	return "", fmt.Errorf("cannot infer export format from %q (use .csv or .parquet)", path)
}

// WriteFile writes traj to path in the given format ("" infers from the
// extension).
func WriteFile(path, format string, traj *swesoc.SOCTrajectory) error {
	f, err := DetectFormat(path, format)
	if err != nil {
		return err
	}
	switch f {
	case FormatCSV:
		return WriteCSVFile(path, traj)
	default:
		return WriteParquetFile(path, traj)
	}
}

// columns returns the header of a trajectory with n pools.
func columns(n int) []string {
	cols := make([]string, 0, n+3)
	cols = append(cols, "step")
	for i := 0; i < n; i++ {
		cols = append(cols, fmt.Sprintf("pool_%d", i))
	}
	return append(cols, "total", "respired")
}

// WriteCSV writes traj to w with a header row.
func WriteCSV(w io.Writer, traj *swesoc.SOCTrajectory) error {
	n := poolCount(traj)
	cw := csv.NewWriter(w)
	if err := cw.Write(columns(n)); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	record := make([]string, n+3)
	for k := 0; k < traj.Steps; k++ {
		record[0] = strconv.Itoa(k)
		for i, c := range traj.Pools[k] {
			record[1+i] = strconv.FormatFloat(c, 'g', -1, 64)
		}
		record[n+1] = strconv.FormatFloat(traj.Total[k], 'g', -1, 64)
		record[n+2] = strconv.FormatFloat(traj.Respired[k], 'g', -1, 64)
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing step %d: %w", k, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes traj to the CSV file at path.
func WriteCSVFile(path string, traj *swesoc.SOCTrajectory) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := WriteCSV(f, traj); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func poolCount(traj *swesoc.SOCTrajectory) int {
	if traj.Steps == 0 {
		return 0
	}
	return len(traj.Pools[0])
}
