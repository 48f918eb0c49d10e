// Package storage persists finished runs: one directory per run with
// a metadata.json describing the setup and outcome, and a samples.csv
// holding the trajectory.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/m-weigel/relorbit/internal/spacetime"
	"github.com/m-weigel/relorbit/internal/trajectory"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID                  string             `json:"id"`
	Timestamp           time.Time          `json:"timestamp"`
	Units               string             `json:"units"`
	Mass                float64            `json:"mass"`
	SchwarzschildRadius float64            `json:"schwarzschild_radius"`
	Integrator          string             `json:"integrator"`
	Dt                  float64            `json:"dt"`
	MaxProperTime       float64            `json:"max_proper_time"`
	Status              string             `json:"status"`
	Samples             int                `json:"samples"`
	Warnings            int                `json:"warnings"`
	Metrics             map[string]float64 `json:"metrics"`
}

var csvHeader = []string{
	"tau", "t", "r", "theta", "phi",
	"x", "y", "z",
	"ut", "ur", "utheta", "uphi",
	"drift",
}

// Save writes the run under a timestamped directory and returns its
// ID. The metadata's ID, Timestamp, Samples and Warnings fields are
// filled in from the record.
func (s *Store) Save(meta RunMetadata, rec *trajectory.Record) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}

	ts := time.Now().Unix()
	runID := fmt.Sprintf("run_%d", ts)
	runDir := filepath.Join(s.baseDir, runID)
	// Runs started within the same second get a numeric suffix
	// instead of sharing a directory.
	for n := 1; ; n++ {
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return "", err
		}
		runID = fmt.Sprintf("run_%d_%d", ts, n)
		runDir = filepath.Join(s.baseDir, runID)
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Samples = rec.Len()
	meta.Warnings = rec.Warnings()

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "samples.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}

	it := rec.Iter()
	for {
		sample, ok := it.Next()
		if !ok {
			break
		}
		x, y, z := trajectory.CartesianPoint(sample)
		row := make([]string, 0, len(csvHeader))
		for _, v := range []float64{
			sample.Tau,
			sample.State[spacetime.CoordT],
			sample.State[spacetime.CoordR],
			sample.State[spacetime.CoordTheta],
			sample.State[spacetime.CoordPhi],
			x, y, z,
			sample.State[spacetime.VelT],
			sample.State[spacetime.VelR],
			sample.State[spacetime.VelTheta],
			sample.State[spacetime.VelPhi],
			sample.Drift,
		} {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	return runID, w.Error()
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadRecord reads a saved trajectory back into a sealed record. The
// Cartesian columns are derived and not re-read.
func (s *Store) LoadRecord(runID string) (*trajectory.Record, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "samples.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	rec := trajectory.NewRecord()
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) != len(csvHeader) {
			return nil, fmt.Errorf("row %d has %d columns, want %d", i, len(row), len(csvHeader))
		}
		vals := make([]float64, len(row))
		for j, field := range row {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i, csvHeader[j], err)
			}
			vals[j] = v
		}

		x := make(spacetime.State, spacetime.StateDim)
		x[spacetime.CoordT] = vals[1]
		x[spacetime.CoordR] = vals[2]
		x[spacetime.CoordTheta] = vals[3]
		x[spacetime.CoordPhi] = vals[4]
		x[spacetime.VelT] = vals[8]
		x[spacetime.VelR] = vals[9]
		x[spacetime.VelTheta] = vals[10]
		x[spacetime.VelPhi] = vals[11]

		rec.Append(trajectory.Sample{
			Tau:   vals[0],
			T:     vals[1],
			State: x,
			Drift: vals[12],
		})
	}
	rec.Seal()
	return rec, nil
}
