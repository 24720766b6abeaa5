package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sample = `year, soil_temp, moisture
1990, 8.2, 0.61
1991, 8.9, 0.55
1992, 7.4, 0.70
`

func writeSample(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "drivers.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_TwoChannels(t *testing.T) {
	path := writeSample(t, sample)

	series, err := Load(path, map[string]string{
		"temperature": "soil_temp",
		"moisture":    "moisture",
	}, 3)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	temp := series["temperature"]
	if len(temp) != 3 || temp[0] != 8.2 || temp[2] != 7.4 {
		t.Errorf("temperature = %v, want [8.2 8.9 7.4]", temp)
	}
	if m := series["moisture"]; m[1] != 0.55 {
		t.Errorf("moisture[1] = %g, want 0.55", m[1])
	}
}

func TestLoad_HorizonMismatch(t *testing.T) {
	path := writeSample(t, sample)

	_, err := Load(path, map[string]string{"temperature": "soil_temp"}, 100)
	if err == nil {
		t.Fatal("a 3-row file passed a 100-step horizon check")
	}
	if !strings.Contains(err.Error(), "horizon") {
		t.Errorf("error %q does not mention the horizon", err)
	}
}

func TestLoad_MissingColumn(t *testing.T) {
	path := writeSample(t, sample)

	_, err := Load(path, map[string]string{"temperature": "air_temp"}, 0)
	if err == nil || !strings.Contains(err.Error(), "air_temp") {
		t.Fatalf("got %v, want an error naming the missing column", err)
	}
}

func TestRead_BadCell(t *testing.T) {
	_, err := Read(strings.NewReader("t\n1.5\noops\n"), map[string]string{"temperature": "t"})
	if err == nil {
		t.Fatal("a non-numeric cell was accepted")
	}
	if !strings.Contains(err.Error(), "row 3") || !strings.Contains(err.Error(), "oops") {
		t.Errorf("error %q does not carry row and cell context", err)
	}
}

func TestRead_RaggedRowRejected(t *testing.T) {
	_, err := Read(strings.NewReader("a,b\n1,2\n3\n"), map[string]string{"x": "a"})
	if err == nil {
		t.Fatal("a ragged row was accepted")
	}
}

func TestRead_EmptyBody(t *testing.T) {
	series, err := Read(strings.NewReader("t\n"), map[string]string{"temperature": "t"})
	if err != nil {
		t.Fatalf("Read failed on a header-only file: %v", err)
	}
	if got := series["temperature"]; len(got) != 0 {
		t.Errorf("got %v, want an empty series", got)
	}
}
