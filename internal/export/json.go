package export

import (
	"encoding/json"
	"io"

	"cosponsor_spider/internal/cosponsor"
	"cosponsor_spider/internal/models"
)

// JSON writes each table as an indented array.
type JSON struct{}

func (JSON) Name() string { return "json" }
func (JSON) Ext() string { return ".json" }

type jsonMatrix struct {
	Order  []string `json:"order"`
	Counts [][]int  `json:"counts"`
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (JSON) WriteMatrix(w io.Writer, m *cosponsor.Matrix) error {
	return encode(w, jsonMatrix{Order: m.Order, Counts: matrixRows(m)})
}

func (JSON) WritePoliticians(w io.Writer, politicians []*models.Politician) error {
	rows := make([]PoliticianRow, 0, len(politicians))
	for _, p := range politicians {
		rows = append(rows, NewPoliticianRow(p))
	}
	return encode(w, rows)
}

func (JSON) WriteBills(w io.Writer, bills []*models.Bill) error {
	rows := make([]BillRow, 0, len(bills))
	for _, b := range bills {
		rows = append(rows, NewBillRow(b))
	}
	return encode(w, rows)
}

func (JSON) ReadPoliticians(r io.Reader) ([]PoliticianRow, error) {
	var rows []PoliticianRow
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, err
	}
	return rows, nil
}
