package cosponsor

import (
	"fmt"

	"cosponsor_spider/internal/models"
)

// Pair is an ordered pair of politician identifiers.
type Pair struct {
	A, B string
}

// Matrix holds shared-bill counts for every ordered pair of politicians.
// Rows and columns follow Order; the diagonal is always zero.
type Matrix struct {
	Order  []string
	Counts map[Pair]int
}

// CountPairs counts, for every ordered pair (A, B), the bills that appear in
// both bill lists. Self pairs are stored as zero.
func CountPairs(roster Roster) *Matrix {
	sorted := roster.Sorted()
	m := &Matrix{
		Order:  make([]string, len(sorted)),
		Counts: make(map[Pair]int, len(sorted)*len(sorted)),
	}

	for i, p := range sorted {
		m.Order[i] = p.ID
	}

	for _, a := range sorted {
		for _, b := range sorted {
			if a.ID == b.ID {
				m.Counts[Pair{a.ID, b.ID}] = 0
				continue
			}
			m.Counts[Pair{a.ID, b.ID}] = SharedBills(a, b)
		}
	}
	return m
}

func (m *Matrix) Size() int {
	return len(m.Order)
}

// Get returns the count for (a, b).
func (m *Matrix) Get(a, b string) (int, error) {
	n, ok := m.Counts[Pair{a, b}]
	if !ok {
		return 0, fmt.Errorf("%w: pair (%q, %q)", ErrUnknownPolitician, a, b)
	}
	return n, nil
}

// Rows renders the matrix densely in Order.
func (m *Matrix) Rows() [][]int {
	rows := make([][]int, len(m.Order))
	for i, a := range m.Order {
		rows[i] = make([]int, len(m.Order))
		for j, b := range m.Order {
			rows[i][j] = m.Counts[Pair{a, b}]
		}
	}
	return rows
}

// SharedBills is the raw overlap between two politicians, self pairs included.
func SharedBills(a, b *models.Politician) int {
	set := make(map[int]bool, len(b.Bills))
	for _, n := range b.Bills {
		set[n] = true
	}
	shared := 0
	for _, n := range a.Bills {
		if set[n] {
			shared++
			delete(set, n)
		}
	}
	return shared
}
