// Package report writes the external artifacts of a sweep: the CSV
// results file consumed by analysis tooling and a JSON index of past
// sweeps.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"curie/internal/model"
)

const sweepIndexFile = "sweep_index.json"

// ResultColumns is the stable CSV contract: one row of these seven
// columns per simulated temperature, in this order. The column names
// come from the original analysis tooling and must not change.
var ResultColumns = []string{
	"temperature",
	"moyenne_aimantation",
	"erreur_aimantation",
	"t_corr_aimantation",
	"moyenne_energie",
	"erreur_energie",
	"t_corr_energie",
}

// CSVReporter appends one row per completed temperature to a results
// file. Init creates the file fresh with the header; Append reopens in
// append mode so partial sweeps leave the completed rows behind.
type CSVReporter struct {
	path string
}

func NewCSVReporter(path string) *CSVReporter {
	return &CSVReporter{path: path}
}

func (r *CSVReporter) Path() string {
	return r.path
}

func (r *CSVReporter) Init() error {
	file, err := os.Create(r.path)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(ResultColumns); err != nil {
		_ = file.Close()
		return err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func (r *CSVReporter) Append(result model.Result) error {
	file, err := os.OpenFile(r.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(resultRow(result)); err != nil {
		_ = file.Close()
		return err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func resultRow(result model.Result) []string {
	return []string{
		formatFloat(result.Temperature),
		formatFloat(result.Magnetization.Mean),
		formatFloat(result.Magnetization.Error),
		formatFloat(result.Magnetization.CorrelationTime),
		formatFloat(result.Energy.Mean),
		formatFloat(result.Energy.Error),
		formatFloat(result.Energy.CorrelationTime),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

type SweepIndexEntry struct {
	SweepID      string `json:"sweep_id"`
	CreatedAtUTC string `json:"created_at_utc"`
	LatticeSize  int    `json:"lattice_size"`
	Temperatures int    `json:"temperatures"`
	Seed         int64  `json:"seed"`
	OutputPath   string `json:"output_path"`
}

func AppendSweepIndex(baseDir string, entry SweepIndexEntry) error {
	if entry.SweepID == "" {
		return fmt.Errorf("sweep id is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}

	index, err := ListSweepIndex(baseDir)
	if err != nil {
		return err
	}

	for i := range index {
		if index[i].SweepID == entry.SweepID {
			index[i] = entry
			return writeJSON(filepath.Join(baseDir, sweepIndexFile), index)
		}
	}

	index = append(index, entry)
	return writeJSON(filepath.Join(baseDir, sweepIndexFile), index)
}

func ListSweepIndex(baseDir string) ([]SweepIndexEntry, error) {
	path := filepath.Join(baseDir, sweepIndexFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []SweepIndexEntry{}, nil
		}
		return nil, err
	}

	var entries []SweepIndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAtUTC > entries[j].CreatedAtUTC
	})
	return entries, nil
}

// ExportResults copies a sweep's CSV artifact into outDir, keeping the
// file name.
func ExportResults(srcPath, outDir string) (string, error) {
	if _, err := os.Stat(srcPath); err != nil {
		return "", err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}

	dst := filepath.Join(outDir, filepath.Base(srcPath))
	if err := copyFile(srcPath, dst); err != nil {
		return "", err
	}
	return dst, nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
