package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MOHTADI05/Black-Scholes-Pricing-Model/internal/pricing"
)

// Places is the number of decimals prices are rounded to in CSV and table output.
const Places = 4

// Snapshot is what WriteJSON persists: the inputs and the evaluated grid.
type Snapshot struct {
	Params pricing.Params   `json:"params"`
	Price  float64          `json:"price"`
	Spec   pricing.GridSpec `json:"grid_spec"`
	Grid   *pricing.Grid    `json:"grid"`
}

func WriteJSON(s *Snapshot, outdir string) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outdir, "grid.json"), b, 0644)
}

func fixed(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(Places)
}

// WriteCSV writes the matrix with the spot axis as header row and the
// volatility axis as first column.
func WriteCSV(g *pricing.Grid, outdir string) error {
	f, err := os.Create(filepath.Join(outdir, "grid.csv"))
	if err != nil {
		return err
	}
	defer f.Close()
	return EncodeCSV(f, g)
}

func EncodeCSV(w io.Writer, g *pricing.Grid) error {
	cw := csv.NewWriter(w)
	header := make([]string, 0, len(g.SpotAxis)+1)
	header = append(header, `vol\spot`)
	for _, s := range g.SpotAxis {
		header = append(header, fixed(s))
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, row := range g.Matrix {
		rec := make([]string, 0, len(row)+1)
		rec = append(rec, fixed(g.VolAxis[i]))
		for _, v := range row {
			rec = append(rec, fixed(v))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTable prints the grid as an aligned text table, highest volatility
// first so it reads like the heatmap's y-axis.
func WriteTable(w io.Writer, g *pricing.Grid) error {
	width := len("vol\\spot")
	cells := make([][]string, len(g.Matrix))
	for i, row := range g.Matrix {
		cells[i] = make([]string, len(row))
		for j, v := range row {
			cells[i][j] = fixed(v)
			width = max(width, len(cells[i][j]))
		}
	}
	for _, s := range g.SpotAxis {
		width = max(width, len(fixed(s)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%*s", width, "vol\\spot")
	for _, s := range g.SpotAxis {
		fmt.Fprintf(&b, " %*s", width, fixed(s))
	}
	b.WriteByte('\n')

	for i := len(cells) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "%*s", width, decimal.NewFromFloat(g.VolAxis[i]*100).StringFixed(2)+"%")
		for _, c := range cells[i] {
			fmt.Fprintf(&b, " %*s", width, c)
		}
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}
