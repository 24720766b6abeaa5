package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	writerfile "github.com/xitongsys/parquet-go-source/writerfile"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/BBenyamini/swesoc"
)

// buildParquetSchema declares the trajectory columns as a parquet-go JSON
// schema: step as INT64, every carbon column as DOUBLE. The pool count is
// only known at runtime, so the schema is assembled per trajectory rather
// than declared on a struct.
func buildParquetSchema(n int) string {
	fields := []map[string]string{
		{"Tag": "name=step, type=INT64, repetitiontype=OPTIONAL"},
	}
	for _, col := range columns(n)[1:] {
		fields = append(fields, map[string]string{
			"Tag": fmt.Sprintf("name=%s, type=DOUBLE, repetitiontype=OPTIONAL", col),
		})
	}
	out := map[string]any{
		"Tag":    "name=parquet_go_root, repetitiontype=REQUIRED",
		"Fields": fields,
	}
	b, _ := json.Marshal(out)
	return string(b)
}

// WriteParquetFile writes traj to a Snappy-compressed Parquet file at path.
func WriteParquetFile(path string, traj *swesoc.SOCTrajectory) error {
	n := poolCount(traj)

	buf := &bytes.Buffer{}
	pfw := writerfile.NewWriterFile(buf)
	pw, err := writer.NewJSONWriter(buildParquetSchema(n), pfw, 4)
	if err != nil {
		return fmt.Errorf("creating parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	cols := columns(n)
	for k := 0; k < traj.Steps; k++ {
		row := make(map[string]any, n+3)
		row["step"] = int64(k)
		for i, c := range traj.Pools[k] {
			row[cols[1+i]] = c
		}
		row["total"] = traj.Total[k]
		row["respired"] = traj.Respired[k]

		encoded, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("encoding step %d: %w", k, err)
		}
		if err := pw.Write(string(encoded)); err != nil {
			_ = pw.WriteStop()
			_ = pfw.Close()
			return fmt.Errorf("writing step %d: %w", k, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = pfw.Close()
		return fmt.Errorf("finalizing parquet file: %w", err)
	}
	if err := pfw.Close(); err != nil {
		return fmt.Errorf("closing parquet buffer: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}
	return nil
}
