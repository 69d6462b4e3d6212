package cosponsor

import (
	"fmt"
	"math/rand"
	"testing"

	"cosponsor_spider/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bill(number int, sponsor string, cosponsors ...string) *models.Bill {
	labels := map[string]string{sponsor: "Sen " + sponsor}
	for _, c := range cosponsors {
		labels[c] = "Sen " + c
	}
	if cosponsors == nil {
		cosponsors = []string{}
	}
	return &models.Bill{
		ID:           models.BillID(models.ChamberSenate, number, 111),
		Number:       number,
		SponsorID:    sponsor,
		CosponsorIDs: cosponsors,
		Session:      111,
		Chamber:      models.ChamberSenate,
		Labels:       labels,
	}
}

func TestSmithJonesScenario(t *testing.T) {
	bills := []*models.Bill{
		bill(1, "Smith"),
		bill(2, "Smith", "Jones"),
	}

	roster, err := Aggregate(bills)
	require.NoError(t, err)
	require.Len(t, roster, 2)

	smith, jones := roster["Smith"], roster["Jones"]
	assert.Equal(t, 2, smith.TotalBills)
	assert.Equal(t, 1, smith.SoloBills)
	assert.Equal(t, []int{1, 2}, smith.Bills)
	assert.Equal(t, 1, jones.TotalBills)
	assert.Equal(t, 0, jones.SoloBills)
	assert.Equal(t, []int{2}, jones.Bills)

	require.NoError(t, AssignIndices(roster, bills))
	assert.Equal(t, 1, jones.Index)
	assert.Equal(t, 2, smith.Index)
	assert.Equal(t, 2, bills[1].SponsorIndex)
	assert.Equal(t, []int{1}, bills[1].CosponsorIndices)
	assert.Equal(t, []int{}, bills[0].CosponsorIndices)

	m := CountPairs(roster)
	n, err := m.Get("Smith", "Jones")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, [][]int{{0, 1}, {1, 0}}, m.Rows())

	// the raw self overlap is the total bill count, the matrix hides it
	assert.Equal(t, 2, SharedBills(smith, smith))
}

func TestSponsorListedAsCosponsorCountsOnce(t *testing.T) {
	bills := []*models.Bill{bill(1, "a", "b", "a")}
	roster, err := Aggregate(bills)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, roster["a"].Bills)
	assert.Equal(t, 1, roster["a"].TotalBills)
}

func TestAssignIndicesUnknownPolitician(t *testing.T) {
	bills := []*models.Bill{bill(1, "a", "b")}
	roster, err := Aggregate(bills)
	require.NoError(t, err)
	delete(roster, "b")

	err = AssignIndices(roster, bills)
	assert.ErrorIs(t, err, ErrUnknownPolitician)
}

func TestAggregateBillWithoutSponsor(t *testing.T) {
	_, err := Aggregate([]*models.Bill{bill(1, "a"), bill(2, "")})
	assert.ErrorIs(t, err, ErrUnknownPolitician)
}

func TestMatrixGetUnknownPair(t *testing.T) {
	roster, err := Aggregate([]*models.Bill{bill(1, "a")})
	require.NoError(t, err)
	m := CountPairs(roster)
	_, err = m.Get("a", "z")
	assert.ErrorIs(t, err, ErrUnknownPolitician)
}

func TestSortedTiesBrokenByID(t *testing.T) {
	roster := Roster{
		"x2": {ID: "x2", LastName: "Smith", FirstName: "John"},
		"x1": {ID: "x1", LastName: "Smith", FirstName: "John"},
		"a":  {ID: "a", LastName: "Adams", FirstName: "Zed"},
	}
	var ids []string
	for _, p := range roster.Sorted() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"a", "x1", "x2"}, ids)
}

// randomSession builds a reproducible session of bills over a pool of politicians.
func randomSession(seed int64, numBills, numPoliticians int) []*models.Bill {
	rng := rand.New(rand.NewSource(seed))
	ids := make([]string, numPoliticians)
	for i := range ids {
		ids[i] = fmt.Sprintf("P%03d", i)
	}

	bills := make([]*models.Bill, 0, numBills)
	for n := 1; n <= numBills; n++ {
		sponsor := ids[rng.Intn(len(ids))]
		var cosponsors []string
		for k := rng.Intn(6); k > 0; k-- {
			cosponsors = append(cosponsors, ids[rng.Intn(len(ids))])
		}
		bills = append(bills, bill(n, sponsor, cosponsors...))
	}
	return bills
}

func TestPipelineProperties(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		bills := randomSession(seed, 200, 40)
		roster, err := Aggregate(bills)
		require.NoError(t, err)
		require.NoError(t, AssignIndices(roster, bills))
		m := CountPairs(roster)

		for _, b := range bills {
			assert.Len(t, b.CosponsorIndices, len(b.CosponsorIDs))
		}

		for _, p := range roster {
			assert.GreaterOrEqual(t, p.SoloBills, 0)
			assert.GreaterOrEqual(t, p.TotalBills, p.SoloBills)
			assert.Len(t, p.Bills, p.TotalBills)
		}

		sorted := roster.Sorted()
		for i, p := range sorted {
			assert.Equal(t, i+1, p.Index)
			if i > 0 {
				assert.LessOrEqual(t, sorted[i-1].Name(), p.Name())
			}
		}

		rows := m.Rows()
		require.Len(t, rows, len(roster))
		for i := range rows {
			require.Len(t, rows[i], len(roster))
			assert.Zero(t, rows[i][i])
			for j := range rows {
				assert.Equal(t, rows[i][j], rows[j][i])
				if i != j {
					assert.Equal(t, SharedBills(sorted[i], sorted[j]), rows[i][j])
				}
			}
		}
	}
}
