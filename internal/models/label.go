package models

import (
	"regexp"
	"strings"
)

// labelRe matches page labels such as "Sen Reid, Harry [NV]" or "Rep Smith, Lamar [R-TX-21]".
var labelRe = regexp.MustCompile(`^\s*(?:(Sen|Rep|Del|Res\.?\s*Comm(?:issioner)?)\.?\s+)?([^,\[]+?)(?:,\s*([^\[]+?))?\s*(?:\[([^\]]*)\])?\s*$`)

// PoliticianFromLabel builds a record from the label printed next to a sponsor link.
// Parts that cannot be recognised are left empty for the correction step to fill in.
func PoliticianFromLabel(id, label string, chamber Chamber) *Politician {
	p := &Politician{ID: id, Chamber: chamber, Bills: []int{}}

	m := labelRe.FindStringSubmatch(label)
	if m == nil {
		p.LastName = strings.TrimSpace(label)
		return p
	}

	p.Title = m[1]
	p.LastName = strings.TrimSpace(m[2])
	p.FirstName = strings.TrimSpace(m[3])

	if m[4] != "" {
		parts := strings.Split(m[4], "-")
		if len(parts) == 1 {
			p.State = strings.TrimSpace(parts[0])
		} else {
			p.Party = strings.TrimSpace(parts[0])
			p.State = strings.TrimSpace(parts[1])
		}
	}

	if p.Title == "" {
		p.Title = "Rep"
		if chamber == ChamberSenate {
			p.Title = "Sen"
		}
	}
	return p
}
