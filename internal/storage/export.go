package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/m-weigel/relorbit/internal/trajectory"
)

type ExportData struct {
	Meta   RunMetadata  `json:"meta"`
	Taus   []float64    `json:"taus"`
	States [][]float64  `json:"states"`
	Drifts []float64    `json:"drifts"`
	Cartes [][3]float64 `json:"cartesian"`
}

func exportData(meta RunMetadata, rec *trajectory.Record) ExportData {
	n := rec.Len()
	data := ExportData{
		Meta:   meta,
		Taus:   make([]float64, 0, n),
		States: make([][]float64, 0, n),
		Drifts: make([]float64, 0, n),
		Cartes: make([][3]float64, 0, n),
	}
	it := rec.Iter()
	for {
		s, ok := it.Next()
		if !ok {
			break
		}
		data.Taus = append(data.Taus, s.Tau)
		data.States = append(data.States, s.State)
		data.Drifts = append(data.Drifts, s.Drift)
		x, y, z := trajectory.CartesianPoint(s)
		data.Cartes = append(data.Cartes, [3]float64{x, y, z})
	}
	return data
}

// ExportJSON writes the full trajectory to path as indented JSON.
func ExportJSON(path string, meta RunMetadata, rec *trajectory.Record) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeExport(file, meta, rec)
}

// ExportJSONTo streams the export to w, for piping from the CLI.
func ExportJSONTo(w io.Writer, meta RunMetadata, rec *trajectory.Record) error {
	return writeExport(w, meta, rec)
}

func writeExport(w io.Writer, meta RunMetadata, rec *trajectory.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exportData(meta, rec))
}
