package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoliticianFromLabel(t *testing.T) {
	cases := []struct {
		label                            string
		title, last, first, party, state string
	}{
		{"Sen Reid, Harry [NV]", "Sen", "Reid", "Harry", "", "NV"},
		{"Sen Kennedy, Edward M. [D-MA]", "Sen", "Kennedy", "Edward M.", "D", "MA"},
		{"Rep Smith, Lamar [R-TX-21]", "Rep", "Smith", "Lamar", "R", "TX"},
		{"Smith", "Sen", "Smith", "", "", ""},
	}

	for _, tc := range cases {
		p := PoliticianFromLabel("id", tc.label, ChamberSenate)
		assert.Equal(t, tc.title, p.Title, tc.label)
		assert.Equal(t, tc.last, p.LastName, tc.label)
		assert.Equal(t, tc.first, p.FirstName, tc.label)
		assert.Equal(t, tc.party, p.Party, tc.label)
		assert.Equal(t, tc.state, p.State, tc.label)
		assert.Equal(t, "id", p.ID)
		assert.NotNil(t, p.Bills)
	}
}
