package fetcher

import (
	"os"
	"testing"
	"time"

	"cosponsor_spider/internal/config"
	"cosponsor_spider/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultSelectors() config.SelectorConfig {
	cfg := config.SpiderConfig{}.WithDefaults()
	return cfg.Source.Selectors
}

func TestParseBillPage(t *testing.T) {
	body, err := os.ReadFile("testdata/s12-111.html")
	require.NoError(t, err)

	bill, err := NewParser(defaultSelectors(), 111, models.ChamberSenate).Parse(body, "http://thomas.loc.gov/x")
	require.NoError(t, err)

	assert.Equal(t, "s12-111", bill.ID)
	assert.Equal(t, 12, bill.Number)
	assert.Equal(t, 111, bill.Session)
	assert.Equal(t, models.ChamberSenate, bill.Chamber)
	assert.Equal(t, "A bill to amend the Internal Revenue Code of 1986 to provide relief for small businesses.", bill.Title)
	assert.Equal(t, "R000146", bill.SponsorID)
	assert.Equal(t, "Sen Reid, Harry [NV]", bill.Labels["R000146"])
	assert.True(t, bill.Introduced.Equal(time.Date(2009, 1, 6, 0, 0, 0, 0, time.UTC)))

	assert.Equal(t, []string{"K000148", "D000563", "Sen Schumer, Charles E. [NY]"}, bill.CosponsorIDs)
	assert.Equal(t, "Sen Durbin, Richard [IL]", bill.Labels["D000563"])
}

func TestParseHouseBill(t *testing.T) {
	page := `<div id="content"><p class="bill-number">H.R.1762</p>
<p class="bill-sponsor"><a data-bioguide-id="S000583">Rep Smith, Lamar</a> [R-TX-21]</p></div>`

	bill, err := NewParser(defaultSelectors(), 112, models.ChamberSenate).Parse([]byte(page), "http://x/")
	require.NoError(t, err)

	assert.Equal(t, models.ChamberHouse, bill.Chamber)
	assert.Equal(t, 1762, bill.Number)
	assert.Equal(t, 112, bill.Session)
	assert.Equal(t, "hr1762-112", bill.ID)
	assert.Empty(t, bill.CosponsorIDs)
	assert.Equal(t, "Rep Smith, Lamar [R-TX-21]", bill.Labels["S000583"])
}

func TestParseTitleFallsBackToDocumentTitle(t *testing.T) {
	page := `<html><head><title>S.3 A bill to fund things</title></head><body>
<div id="content"><p class="bill-number">S.3</p>
<p class="bill-sponsor"><a data-bioguide-id="A000001">Sen Adams, Ann</a> [WA]</p>
<p>Some summary text about the bill, written at length, so that the page has a readable body.</p>
<p>Another paragraph of summary text, with commas, describing how the funding would be spent.</p>
<p>A third paragraph, again with commas, describing the committees the bill was referred to.</p></div></body></html>`

	bill, err := NewParser(defaultSelectors(), 111, models.ChamberSenate).Parse([]byte(page), "http://x/")
	require.NoError(t, err)
	assert.Contains(t, bill.Title, "A bill to fund things")
}

func TestParseErrors(t *testing.T) {
	p := NewParser(defaultSelectors(), 111, models.ChamberSenate)

	_, err := p.Parse([]byte(`<div id="content"><p class="bill-sponsor"><a>Sen X, Y</a></p></div>`), "http://x/")
	assert.ErrorIs(t, err, ErrParse)

	_, err = p.Parse([]byte(`<div id="content"><p class="bill-number">S.4</p></div>`), "http://x/")
	assert.ErrorIs(t, err, ErrParse)
}
