// Package export writes the cosponsor matrix, the politician table and the
// bill table. Every format keeps the same row order and field order, and
// always writes zero on the matrix diagonal.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cosponsor_spider/internal/cosponsor"
	"cosponsor_spider/internal/models"
)

type Exporter interface {
	Name() string
	Ext() string
	WriteMatrix(w io.Writer, m *cosponsor.Matrix) error
	WritePoliticians(w io.Writer, politicians []*models.Politician) error
	WriteBills(w io.Writer, bills []*models.Bill) error
	ReadPoliticians(r io.Reader) ([]PoliticianRow, error)
}

// PoliticianRow is one row of the politician table.
type PoliticianRow struct {
	Index      int    `json:"index"`
	Name       string `json:"name"`
	State      string `json:"state"`
	Party      string `json:"party"`
	TotalBills int    `json:"total_bills"`
	SoloBills  int    `json:"solo_bills"`
	Bills      []int  `json:"bills"`
}

func NewPoliticianRow(p *models.Politician) PoliticianRow {
	bills := p.Bills
	if bills == nil {
		bills = []int{}
	}
	return PoliticianRow{
		Index:      p.Index,
		Name:       p.Name(),
		State:      p.State,
		Party:      p.Party,
		TotalBills: p.TotalBills,
		SoloBills:  p.SoloBills,
		Bills:      bills,
	}
}

// BillRow is one row of the bill table.
type BillRow struct {
	Number           int    `json:"number"`
	Introduced       string `json:"introduced"`
	SponsorIndex     int    `json:"sponsor_index"`
	NumCosponsors    int    `json:"num_cosponsors"`
	CosponsorIndices []int  `json:"cosponsor_indices"`
}

func NewBillRow(b *models.Bill) BillRow {
	indices := b.CosponsorIndices
	if indices == nil {
		indices = []int{}
	}
	row := BillRow{
		Number:           b.Number,
		SponsorIndex:     b.SponsorIndex,
		NumCosponsors:    b.NumCosponsors(),
		CosponsorIndices: indices,
	}
	if !b.Introduced.IsZero() {
		row.Introduced = b.Introduced.Format("2006-01-02")
	}
	return row
}

// matrixRows is the dense matrix with the diagonal forced to zero.
func matrixRows(m *cosponsor.Matrix) [][]int {
	rows := m.Rows()
	for i := range rows {
		rows[i][i] = 0
	}
	return rows
}

func New(format string) (Exporter, error) {
	switch strings.ToLower(format) {
	case "matlab", "m", "":
		return Matlab{}, nil
	case "csv":
		return CSV{}, nil
	case "json":
		return JSON{}, nil
	}
	return nil, fmt.Errorf("unknown export format %q", format)
}

// Files are the three output paths for one chamber and session.
type Files struct {
	Matrix      string
	Politicians string
	Bills       string
}

func FilesFor(dir string, e Exporter, chamber models.Chamber, session int) Files {
	prefix := filepath.Join(dir, fmt.Sprintf("%s_%d_", chamber.Slug(), session))
	return Files{
		Matrix:      prefix + "cosponsor_matrix" + e.Ext(),
		Politicians: prefix + "members" + e.Ext(),
		Bills:       prefix + "bills" + e.Ext(),
	}
}

// WriteAll writes the three files into dir, creating it when needed.
func WriteAll(dir string, e Exporter, chamber models.Chamber, session int,
	m *cosponsor.Matrix, politicians []*models.Politician, bills []*models.Bill,
) (Files, error) {
	files := FilesFor(dir, e, chamber, session)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return files, fmt.Errorf("create output dir: %w", err)
	}

	if err := writeFile(files.Matrix, func(w io.Writer) error { return e.WriteMatrix(w, m) }); err != nil {
		return files, err
	}
	if err := writeFile(files.Politicians, func(w io.Writer) error { return e.WritePoliticians(w, politicians) }); err != nil {
		return files, err
	}
	if err := writeFile(files.Bills, func(w io.Writer) error { return e.WriteBills(w, bills) }); err != nil {
		return files, err
	}
	return files, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := write(w); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}
