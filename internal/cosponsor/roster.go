// Package cosponsor turns fetched bills into the politician roster, the dense
// politician indices and the pairwise co-occurrence matrix.
package cosponsor

import (
	"errors"
	"fmt"
	"sort"

	"cosponsor_spider/internal/models"
)

var ErrUnknownPolitician = errors.New("unknown politician")

// Roster maps a politician identifier to its record.
type Roster map[string]*models.Politician

func (r Roster) Lookup(id string) (*models.Politician, error) {
	p, ok := r[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolitician, id)
	}
	return p, nil
}

// Sorted returns the politicians ordered by name, ties broken by identifier.
func (r Roster) Sorted() []*models.Politician {
	out := make([]*models.Politician, 0, len(r))
	for _, p := range r {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name() != out[j].Name() {
			return out[i].Name() < out[j].Name()
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Aggregate discovers every sponsor and cosponsor, then tallies bills per
// politician. A bill without cosponsors counts as a solo bill for its sponsor;
// otherwise every participant gets the bill with no regard to role. A
// politician listed more than once on a bill counts that bill once.
// A bill without a sponsor fails with ErrUnknownPolitician.
func Aggregate(bills []*models.Bill) (Roster, error) {
	roster := make(Roster)

	for _, bill := range bills {
		if bill.SponsorID == "" {
			return nil, fmt.Errorf("bill %d has no sponsor: %w", bill.Number, ErrUnknownPolitician)
		}
		for _, id := range bill.Participants() {
			if _, ok := roster[id]; ok {
				continue
			}
			label := bill.Labels[id]
			if label == "" {
				label = id
			}
			roster[id] = models.PoliticianFromLabel(id, label, bill.Chamber)
		}
	}

	for _, bill := range bills {
		if bill.NumCosponsors() == 0 {
			sponsor := roster[bill.SponsorID]
			sponsor.SoloBills++
			sponsor.TotalBills++
			sponsor.Bills = append(sponsor.Bills, bill.Number)
			continue
		}
		for _, id := range bill.Participants() {
			p := roster[id]
			p.TotalBills++
			p.Bills = append(p.Bills, bill.Number)
		}
	}

	return roster, nil
}

// AssignIndices numbers the politicians 1..N in name order and writes the
// sponsor and cosponsor indices onto every bill.
func AssignIndices(roster Roster, bills []*models.Bill) error {
	for i, p := range roster.Sorted() {
		p.Index = i + 1
	}

	for _, bill := range bills {
		sponsor, err := roster.Lookup(bill.SponsorID)
		if err != nil {
			return fmt.Errorf("bill %d sponsor: %w", bill.Number, err)
		}
		bill.SponsorIndex = sponsor.Index

		indices := make([]int, 0, len(bill.CosponsorIDs))
		for _, id := range bill.CosponsorIDs {
			p, err := roster.Lookup(id)
			if err != nil {
				return fmt.Errorf("bill %d cosponsor: %w", bill.Number, err)
			}
			indices = append(indices, p.Index)
		}
		bill.CosponsorIndices = indices
	}
	return nil
}
