package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"cosponsor_spider/internal/cosponsor"
	"cosponsor_spider/internal/models"
)

// Matlab writes MATLAB cell array literals, one assignment per file, e.g.
//
//	cosponsors = { { 0 3 } { 3 0 } };
type Matlab struct{}

func (Matlab) Name() string { return "matlab" }
func (Matlab) Ext() string { return ".m" }

type cellWriter struct {
	w   *bufio.Writer
	err error
}

func newCellWriter(w io.Writer) *cellWriter {
	return &cellWriter{w: bufio.NewWriter(w)}
}

func (c *cellWriter) put(s string) {
	if c.err == nil {
		_, c.err = c.w.WriteString(s)
	}
}

func (c *cellWriter) open(name string) { c.put(name + " = {") }
func (c *cellWriter) begin() { c.put(" {") }
func (c *cellWriter) end() { c.put(" }") }
func (c *cellWriter) num(n int) { c.put(" " + strconv.Itoa(n)) }
func (c *cellWriter) str(s string) { c.put(" " + quoteMatlab(s)) }

func (c *cellWriter) nums(ns []int) {
	c.begin()
	for _, n := range ns {
		c.num(n)
	}
	c.end()
}

// close ends the top-level cell; the semicolon suppresses MATLAB's echo.
func (c *cellWriter) close() error {
	c.end()
	c.put(";")
	if c.err != nil {
		return c.err
	}
	return c.w.Flush()
}

func quoteMatlab(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func (Matlab) WriteMatrix(w io.Writer, m *cosponsor.Matrix) error {
	c := newCellWriter(w)
	c.open("cosponsors")
	for _, row := range matrixRows(m) {
		c.nums(row)
	}
	return c.close()
}

func (Matlab) WritePoliticians(w io.Writer, politicians []*models.Politician) error {
	c := newCellWriter(w)
	c.open("members")
	for _, p := range politicians {
		row := NewPoliticianRow(p)
		c.begin()
		c.num(row.Index)
		c.str(row.Name)
		c.str(row.State)
		c.str(row.Party)
		c.num(row.TotalBills)
		c.num(row.SoloBills)
		c.nums(row.Bills)
		c.end()
	}
	return c.close()
}

func (Matlab) WriteBills(w io.Writer, bills []*models.Bill) error {
	c := newCellWriter(w)
	c.open("bills")
	for _, b := range bills {
		row := NewBillRow(b)
		c.begin()
		c.num(row.Number)
		c.str(row.Introduced)
		c.num(row.SponsorIndex)
		c.num(row.NumCosponsors)
		c.nums(row.CosponsorIndices)
		c.end()
	}
	return c.close()
}

func (Matlab) ReadPoliticians(r io.Reader) ([]PoliticianRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	t := &tokenizer{src: []rune(string(data))}

	if _, err := t.expect(tokIdent); err != nil {
		return nil, err
	}
	if _, err := t.expect(tokAssign); err != nil {
		return nil, err
	}
	if _, err := t.expect(tokOpen); err != nil {
		return nil, err
	}

	var rows []PoliticianRow
	for {
		tok, err := t.next()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokClose {
			break
		}
		if tok.kind != tokOpen {
			return nil, fmt.Errorf("matlab: expected row, got %q", tok.text)
		}
		row, err := readPoliticianRow(t)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	if _, err := t.expect(tokSemicolon); err != nil {
		return nil, err
	}
	return rows, nil
}

func readPoliticianRow(t *tokenizer) (PoliticianRow, error) {
	var row PoliticianRow
	var err error

	if row.Index, err = t.integer(); err != nil {
		return row, err
	}
	for _, dst := range []*string{&row.Name, &row.State, &row.Party} {
		tok, err := t.expect(tokString)
		if err != nil {
			return row, err
		}
		*dst = tok.text
	}
	if row.TotalBills, err = t.integer(); err != nil {
		return row, err
	}
	if row.SoloBills, err = t.integer(); err != nil {
		return row, err
	}

	if _, err := t.expect(tokOpen); err != nil {
		return row, err
	}
	row.Bills = []int{}
	for {
		tok, err := t.next()
		if err != nil {
			return row, err
		}
		if tok.kind == tokClose {
			break
		}
		if tok.kind != tokNumber {
			return row, fmt.Errorf("matlab: expected bill number, got %q", tok.text)
		}
		n, err := strconv.Atoi(tok.text)
		if err != nil {
			return row, err
		}
		row.Bills = append(row.Bills, n)
	}

	_, err = t.expect(tokClose)
	return row, err
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokIdent
	tokAssign
	tokOpen
	tokClose
	tokNumber
	tokString
	tokSemicolon
)

type token struct {
	kind tokKind
	text string
}

// tokenizer covers the subset of MATLAB literal syntax the writers emit.
type tokenizer struct {
	src []rune
	pos int
}

func (t *tokenizer) next() (token, error) {
	for t.pos < len(t.src) && unicode.IsSpace(t.src[t.pos]) {
		t.pos++
	}
	if t.pos >= len(t.src) {
		return token{kind: tokEOF}, nil
	}

	r := t.src[t.pos]
	switch {
	case r == '{':
		t.pos++
		return token{tokOpen, "{"}, nil
	case r == '}':
		t.pos++
		return token{tokClose, "}"}, nil
	case r == '=':
		t.pos++
		return token{tokAssign, "="}, nil
	case r == ';':
		t.pos++
		return token{tokSemicolon, ";"}, nil
	case r == '\'':
		return t.quoted()
	case r == '-' || unicode.IsDigit(r):
		start := t.pos
		t.pos++
		for t.pos < len(t.src) && unicode.IsDigit(t.src[t.pos]) {
			t.pos++
		}
		return token{tokNumber, string(t.src[start:t.pos])}, nil
	case unicode.IsLetter(r):
		start := t.pos
		for t.pos < len(t.src) && (unicode.IsLetter(t.src[t.pos]) || unicode.IsDigit(t.src[t.pos]) || t.src[t.pos] == '_') {
			t.pos++
		}
		return token{tokIdent, string(t.src[start:t.pos])}, nil
	}
	return token{}, fmt.Errorf("matlab: unexpected %q at offset %d", r, t.pos)
}

func (t *tokenizer) quoted() (token, error) {
	var b strings.Builder
	t.pos++
	for t.pos < len(t.src) {
		r := t.src[t.pos]
		t.pos++
		if r != '\'' {
			b.WriteRune(r)
			continue
		}
		if t.pos < len(t.src) && t.src[t.pos] == '\'' {
			b.WriteRune('\'')
			t.pos++
			continue
		}
		return token{tokString, b.String()}, nil
	}
	return token{}, fmt.Errorf("matlab: unterminated string")
}

func (t *tokenizer) expect(kind tokKind) (token, error) {
	tok, err := t.next()
	if err != nil {
		return tok, err
	}
	if tok.kind != kind {
		return tok, fmt.Errorf("matlab: unexpected token %q", tok.text)
	}
	return tok, nil
}

func (t *tokenizer) integer() (int, error) {
	tok, err := t.expect(tokNumber)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(tok.text)
}
