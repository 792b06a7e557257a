package gmaps

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"gmaps-scraper/models"
)

const infoFragmentSelector = `div.fontBodyMedium`

var websiteSelectors = []string{
	`a[data-item-id="authority"]`,
	`a[aria-label="Website"]`,
}

// ExtractCards parses the captured feed markup and returns one RawPlace
// bundle per result card, in feed order. A malformed card yields a bundle
// with absent fields, never an abort.
func ExtractCards(feedHTML string, scrapedAt time.Time) ([]*models.RawPlace, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(feedHTML))
	if err != nil {
		return nil, fmt.Errorf("gmaps: parse feed markup: %w", err)
	}

	var bundles []*models.RawPlace
	doc.Find(resultItemSelector).Each(func(_ int, card *goquery.Selection) {
		bundles = append(bundles, extractCard(card, scrapedAt))
	})
	return bundles, nil
}

func extractCard(card *goquery.Selection, scrapedAt time.Time) *models.RawPlace {
	name, _ := card.Find("a[aria-label]").First().Attr("aria-label")

	// Once joined, individual fragments are no longer addressable — all
	// later extraction works positionally on the joined string.
	var fragments []string
	card.Find(infoFragmentSelector).Each(func(_ int, el *goquery.Selection) {
		if t := strings.TrimSpace(el.Text()); t != "" {
			fragments = append(fragments, t)
		}
	})

	return &models.RawPlace{
		NameRaw:     name,
		InfoTextRaw: strings.Join(fragments, " · "),
		WebsiteRaw:  extractWebsite(card),
		ScrapedAt:   scrapedAt,
	}
}

// extractWebsite returns the card's external website link, rejecting Maps
// self-links.
func extractWebsite(card *goquery.Selection) string {
	for _, sel := range websiteSelectors {
		href, ok := card.Find(sel).First().Attr("href")
		if ok && href != "" && !strings.HasPrefix(href, "https://www.google.com/maps") {
			return href
		}
	}
	return ""
}
