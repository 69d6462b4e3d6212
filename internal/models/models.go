package models

import (
	"fmt"
	"strings"
	"time"
)

type Chamber string

const (
	ChamberSenate Chamber = "Senate"
	ChamberHouse  Chamber = "House"
)

// ParseChamber accepts "senate"/"house" in any case, plus the bill prefixes "S" and "HR".
func ParseChamber(s string) (Chamber, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "senate", "s":
		return ChamberSenate, nil
	case "house", "hr", "h.r":
		return ChamberHouse, nil
	}
	return "", fmt.Errorf("unknown chamber %q", s)
}

// Code is the lower-case short form used in bill identifiers and file names.
func (c Chamber) Code() string {
	if c == ChamberHouse {
		return "hr"
	}
	return "s"
}

func (c Chamber) Slug() string {
	return strings.ToLower(string(c))
}

type Bill struct {
	ID           string            `bson:"bill_id" json:"bill_id"`
	Number       int               `bson:"number" json:"number"`
	Title        string            `bson:"title" json:"title"`
	SponsorID    string            `bson:"sponsor_id" json:"sponsor_id"`
	CosponsorIDs []string          `bson:"cosponsor_ids" json:"cosponsor_ids"`
	Session      int               `bson:"session" json:"session"`
	Chamber      Chamber           `bson:"chamber" json:"chamber"`
	Introduced   time.Time         `bson:"introduced" json:"introduced"`
	Labels       map[string]string `bson:"labels" json:"labels"`

	SponsorIndex     int   `bson:"sponsor_index" json:"sponsor_index"`
	CosponsorIndices []int `bson:"cosponsor_indices" json:"cosponsor_indices"`
}

func BillID(chamber Chamber, number, session int) string {
	return fmt.Sprintf("%s%d-%d", chamber.Code(), number, session)
}

func (b *Bill) NumCosponsors() int {
	return len(b.CosponsorIDs)
}

// Participants returns the sponsor followed by the cosponsors, each identifier once.
func (b *Bill) Participants() []string {
	seen := make(map[string]bool, len(b.CosponsorIDs)+1)
	out := make([]string, 0, len(b.CosponsorIDs)+1)
	for _, id := range append([]string{b.SponsorID}, b.CosponsorIDs...) {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func (b *Bill) Label() string {
	return fmt.Sprintf("Bill #%d", b.Number)
}

func (b *Bill) String() string {
	return fmt.Sprintf("Bill #%d:\n%s\nIntroduced in the %s %s\nsponsored by %s\nwith %d cosponsors",
		b.Number, b.Title, Ordinal(b.Session), b.Chamber, b.SponsorID, b.NumCosponsors())
}

type Politician struct {
	ID        string  `bson:"_id" json:"id"`
	Chamber   Chamber `bson:"chamber" json:"chamber"`
	FirstName string  `bson:"first_name" json:"first_name"`
	LastName  string  `bson:"last_name" json:"last_name"`
	Title     string  `bson:"title" json:"title"`
	State     string  `bson:"state" json:"state"`
	Party     string  `bson:"party" json:"party"`

	Bills      []int `bson:"bills" json:"bills"`
	TotalBills int   `bson:"total_bills" json:"total_bills"`
	SoloBills  int   `bson:"solo_bills" json:"solo_bills"`
	Index      int   `bson:"index" json:"index"`
}

// Name is "Last, First", the key politicians are ordered by.
func (p *Politician) Name() string {
	if p.FirstName == "" {
		return p.LastName
	}
	return p.LastName + ", " + p.FirstName
}

func (p *Politician) Suffix() string {
	return "(" + p.Party + "-" + p.State + ")"
}

// Label renders e.g. "Rep Arthur Smith(R-IA)".
func (p *Politician) Label() string {
	return strings.TrimSpace(p.Title+" "+p.FirstName+" "+p.LastName) + p.Suffix()
}

func (p *Politician) String() string {
	return fmt.Sprintf("%s was involved in %d bills.", p.Label(), len(p.Bills))
}

// Ordinal renders 111 as "111th", 112 as "112th", 101 as "101st".
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
