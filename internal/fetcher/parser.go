package fetcher

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cosponsor_spider/internal/config"
	"cosponsor_spider/internal/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

var (
	reWhitespace  = regexp.MustCompile(`\s+`)
	reBillNumber  = regexp.MustCompile(`(?i)\b(S|H\.?\s?R)\.?\s*(\d+)\b`)
	reBracket     = regexp.MustCompile(`\[([^\]]*)\]`)
	reIntroduced  = regexp.MustCompile(`(?i)introduced\s+(\d{1,2}/\d{1,2}/\d{4})`)
	reCongress    = regexp.MustCompile(`(\d+)(?:st|nd|rd|th)`)
	reTitlePrefix = regexp.MustCompile(`(?i)^title:\s*`)
)

// Parser extracts a Bill from one bill summary page. Scraping is best effort:
// only a missing bill number or sponsor makes a page unusable.
type Parser struct {
	sel     config.SelectorConfig
	session int
	chamber models.Chamber
}

func NewParser(sel config.SelectorConfig, session int, chamber models.Chamber) *Parser {
	return &Parser{sel: sel, session: session, chamber: chamber}
}

func (p *Parser) Parse(body []byte, pageURL string) (*models.Bill, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	chamber, number, err := p.billNumber(doc)
	if err != nil {
		return nil, err
	}

	bill := &models.Bill{
		Number:       number,
		Chamber:      chamber,
		Session:      p.congress(doc),
		Title:        p.title(doc, body, pageURL),
		CosponsorIDs: []string{},
		Labels:       make(map[string]string),
	}
	bill.ID = models.BillID(bill.Chamber, bill.Number, bill.Session)

	sponsor := doc.Find(p.sel.Sponsor).First()
	id, label, ok := p.member(sponsor)
	if !ok {
		return nil, fmt.Errorf("%w: no sponsor on bill %d", ErrParse, number)
	}
	bill.SponsorID = id
	bill.Labels[id] = label

	if m := reIntroduced.FindStringSubmatch(sponsor.Text()); m != nil {
		if t, err := time.Parse("1/2/2006", m[1]); err == nil {
			bill.Introduced = t
		}
	}

	doc.Find(p.sel.Cosponsors).Each(func(_ int, s *goquery.Selection) {
		id, label, ok := p.member(s)
		if !ok {
			return
		}
		bill.CosponsorIDs = append(bill.CosponsorIDs, id)
		bill.Labels[id] = label
	})

	return bill, nil
}

func (p *Parser) billNumber(doc *goquery.Document) (models.Chamber, int, error) {
	text := normalizeText(doc.Find(p.sel.Number).First().Text())
	m := reBillNumber.FindStringSubmatch(text)
	if m == nil {
		return "", 0, fmt.Errorf("%w: no bill number in %q", ErrParse, text)
	}

	n, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, fmt.Errorf("%w: bill number %q", ErrParse, m[2])
	}

	chamber, err := models.ParseChamber(strings.ReplaceAll(strings.ReplaceAll(m[1], ".", ""), " ", ""))
	if err != nil {
		chamber = p.chamber
	}
	return chamber, n, nil
}

func (p *Parser) congress(doc *goquery.Document) int {
	if p.sel.Congress == "" {
		return p.session
	}
	m := reCongress.FindStringSubmatch(doc.Find(p.sel.Congress).First().Text())
	if m == nil {
		return p.session
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return p.session
	}
	return n
}

// title falls back to readability's guess when the selector finds nothing.
func (p *Parser) title(doc *goquery.Document, body []byte, pageURL string) string {
	title := normalizeText(doc.Find(p.sel.Title).First().Text())
	title = reTitlePrefix.ReplaceAllString(title, "")
	if title != "" {
		return title
	}

	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(bytes.NewReader(body), parsedURL)
	if err != nil {
		return ""
	}
	return normalizeText(article.Title)
}

// member reads one sponsor or cosponsor entry: the link text, the bracketed
// party/state that follows it and the identifier attribute on the link.
func (p *Parser) member(s *goquery.Selection) (id, label string, ok bool) {
	if s.Length() == 0 {
		return "", "", false
	}

	link := s.Find("a").First()
	name := normalizeText(link.Text())
	text := normalizeText(s.Text())
	if name == "" {
		name = strings.TrimSpace(strings.SplitN(text, "[", 2)[0])
	}
	if name == "" {
		return "", "", false
	}

	label = name
	if m := reBracket.FindStringSubmatch(text); m != nil {
		label += " [" + strings.TrimSpace(m[1]) + "]"
	}

	if p.sel.IDAttr != "" {
		if v, exists := link.Attr(p.sel.IDAttr); exists && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), label, true
		}
	}
	return label, label, true
}

func normalizeText(text string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(text, " "))
}
