package gmaps

import (
	"testing"
	"time"
)

const feedFixture = `
<div role="feed">
  <div class="Nv2PK">
    <a href="https://www.google.com/maps/place/olive" aria-label="The Olive Tree"></a>
    <div class="fontBodyMedium"><span>4.5 stars</span><span>(1,234)</span></div>
    <div class="fontBodyMedium">£20–30 · Italian · 221B Baker Street, London</div>
    <a data-item-id="authority" href="https://olivetree.example.com"></a>
  </div>
  <div class="Nv2PK">
    <a href="https://www.google.com/maps/place/taco" aria-label="Taco Corner"></a>
    <div class="fontBodyMedium">$$ · Closed · Opens 9AM · Mexican · 5 Elm St</div>
    <a data-item-id="authority" href="https://www.google.com/maps/place/taco"></a>
  </div>
  <div class="Nv2PK">
    <a href="https://www.google.com/maps/place/ghost"></a>
    <div class="fontBodyMedium"></div>
  </div>
</div>`

func TestExtractCards(t *testing.T) {
	bundles, err := ExtractCards(feedFixture, time.Now())
	if err != nil {
		t.Fatalf("ExtractCards: %v", err)
	}
	if len(bundles) != 3 {
		t.Fatalf("expected 3 bundles, got %d", len(bundles))
	}

	first := bundles[0]
	if first.NameRaw != "The Olive Tree" {
		t.Errorf("NameRaw = %q; want %q", first.NameRaw, "The Olive Tree")
	}
	if want := "4.5 stars(1,234) · £20–30 · Italian · 221B Baker Street, London"; first.InfoTextRaw != want {
		t.Errorf("InfoTextRaw = %q; want %q", first.InfoTextRaw, want)
	}
	if first.WebsiteRaw != "https://olivetree.example.com" {
		t.Errorf("WebsiteRaw = %q; want the authority link", first.WebsiteRaw)
	}
}

func TestExtractCardsRejectsMapsSelfLink(t *testing.T) {
	bundles, err := ExtractCards(feedFixture, time.Now())
	if err != nil {
		t.Fatalf("ExtractCards: %v", err)
	}
	if got := bundles[1].WebsiteRaw; got != "" {
		t.Errorf("WebsiteRaw = %q; want empty for a Maps self-link", got)
	}
}

func TestExtractCardsMalformedCardYieldsEmptyBundle(t *testing.T) {
	bundles, err := ExtractCards(feedFixture, time.Now())
	if err != nil {
		t.Fatalf("ExtractCards: %v", err)
	}

	ghost := bundles[2]
	if ghost.NameRaw != "" {
		t.Errorf("NameRaw = %q; want empty for a card without aria-label", ghost.NameRaw)
	}
	if ghost.InfoTextRaw != "" {
		t.Errorf("InfoTextRaw = %q; want empty", ghost.InfoTextRaw)
	}
}

func TestExtractCardsEmptyFeed(t *testing.T) {
	bundles, err := ExtractCards(`<div role="feed"></div>`, time.Now())
	if err != nil {
		t.Fatalf("ExtractCards: %v", err)
	}
	if len(bundles) != 0 {
		t.Errorf("expected no bundles, got %d", len(bundles))
	}
}
