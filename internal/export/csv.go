package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cosponsor_spider/internal/cosponsor"
	"cosponsor_spider/internal/models"
)

// CSV writes one header row per table. List cells hold space-separated integers.
type CSV struct{}

func (CSV) Name() string { return "csv" }
func (CSV) Ext() string { return ".csv" }

var politicianHeader = []string{"index", "name", "state", "party", "total_bills", "solo_bills", "bills"}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}

func splitInts(s string) ([]int, error) {
	out := []int{}
	for _, f := range strings.Fields(s) {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (CSV) WriteMatrix(w io.Writer, m *cosponsor.Matrix) error {
	cw := csv.NewWriter(w)
	rows := matrixRows(m)

	header := make([]string, 0, len(rows)+1)
	header = append(header, "index")
	for i := range rows {
		header = append(header, strconv.Itoa(i+1))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, row := range rows {
		record := make([]string, 0, len(row)+1)
		record = append(record, strconv.Itoa(i+1))
		for _, n := range row {
			record = append(record, strconv.Itoa(n))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (CSV) WritePoliticians(w io.Writer, politicians []*models.Politician) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(politicianHeader); err != nil {
		return err
	}
	for _, p := range politicians {
		row := NewPoliticianRow(p)
		err := cw.Write([]string{
			strconv.Itoa(row.Index),
			row.Name,
			row.State,
			row.Party,
			strconv.Itoa(row.TotalBills),
			strconv.Itoa(row.SoloBills),
			joinInts(row.Bills),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (CSV) WriteBills(w io.Writer, bills []*models.Bill) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"number", "introduced", "sponsor_index", "num_cosponsors", "cosponsor_indices"}); err != nil {
		return err
	}
	for _, b := range bills {
		row := NewBillRow(b)
		err := cw.Write([]string{
			strconv.Itoa(row.Number),
			row.Introduced,
			strconv.Itoa(row.SponsorIndex),
			strconv.Itoa(row.NumCosponsors),
			joinInts(row.CosponsorIndices),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (CSV) ReadPoliticians(r io.Reader) ([]PoliticianRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(politicianHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv: missing header")
	}

	rows := make([]PoliticianRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		var row PoliticianRow
		if row.Index, err = strconv.Atoi(rec[0]); err != nil {
			return nil, err
		}
		row.Name, row.State, row.Party = rec[1], rec[2], rec[3]
		if row.TotalBills, err = strconv.Atoi(rec[4]); err != nil {
			return nil, err
		}
		if row.SoloBills, err = strconv.Atoi(rec[5]); err != nil {
			return nil, err
		}
		if row.Bills, err = splitInts(rec[6]); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
