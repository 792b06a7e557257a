package services

import (
	"strings"
	"testing"

	"gmaps-scraper/models"
	"gmaps-scraper/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger() }

func parseInfo(t *testing.T, name, info string) *models.Place {
	t.Helper()
	p := NewParser(newTestLogger())
	rec, ok := p.Parse(&models.RawPlace{NameRaw: name, InfoTextRaw: info})
	if !ok {
		t.Fatalf("Parse(%q, %q) discarded the bundle", name, info)
	}
	return rec
}

func TestParseFullListing(t *testing.T) {
	info := strings.Join([]string{
		"4.5 stars", "(1,234)", "£20–30 · Italian · 221B Baker Street, London",
	}, " · ")
	rec := parseInfo(t, "The Olive Tree", info)

	if rec.Rating != "4.5" {
		t.Errorf("Rating = %q; want %q", rec.Rating, "4.5")
	}
	if rec.Reviews != "(1,234)" {
		t.Errorf("Reviews = %q; want %q", rec.Reviews, "(1,234)")
	}
	if rec.Price != "£20–30" {
		t.Errorf("Price = %q; want %q", rec.Price, "£20–30")
	}
	if rec.Type != "Italian" {
		t.Errorf("Type = %q; want %q", rec.Type, "Italian")
	}
	if rec.Address != "221B Baker Street, London" {
		t.Errorf("Address = %q; want %q", rec.Address, "221B Baker Street, London")
	}
}

func TestParsePriceSymbolFallback(t *testing.T) {
	rec := parseInfo(t, "Taco Corner", "$$ · Closed · Opens 9AM · Mexican · 5 Elm St")

	if rec.Price != "$$" {
		t.Errorf("Price = %q; want symbol-only fallback %q", rec.Price, "$$")
	}
	if rec.Type != "Mexican" {
		t.Errorf("Type = %q; want %q", rec.Type, "Mexican")
	}
	// The status clause starts the remainder, so the whole tail is cut and
	// the address reverts to the sentinel.
	if rec.Address != models.Sentinel {
		t.Errorf("Address = %q; want sentinel", rec.Address)
	}
}

func TestParsePriceCleanSubmatchTrimsNoise(t *testing.T) {
	rec := parseInfo(t, "The Grill", "£20–30– · Steakhouse · 10 Downing Street")

	if rec.Price != "£20–30" {
		t.Errorf("Price = %q; want cleaned %q", rec.Price, "£20–30")
	}
	if rec.Type != "Steakhouse" {
		t.Errorf("Type = %q; want %q", rec.Type, "Steakhouse")
	}
	if rec.Address != "10 Downing Street" {
		t.Errorf("Address = %q; want %q", rec.Address, "10 Downing Street")
	}
}

func TestParsePhoneFromOriginalText(t *testing.T) {
	rec := parseInfo(t, "Brick Lane Curry", "Restaurant · +44 20 7946 0958 · 12 High St")

	if rec.Phone != "+44 20 7946 0958" {
		t.Errorf("Phone = %q; want %q", rec.Phone, "+44 20 7946 0958")
	}
	if rec.Address != "12 High St" {
		t.Errorf("Address = %q; want phone span removed, got %q", "12 High St", rec.Address)
	}
}

func TestParseMissingNameDiscardsBundle(t *testing.T) {
	p := NewParser(newTestLogger())

	for _, name := range []string{"", "   ", "N/A"} {
		if _, ok := p.Parse(&models.RawPlace{NameRaw: name, InfoTextRaw: "4.2 · Cafe"}); ok {
			t.Errorf("Parse with name %q produced a record; want discard", name)
		}
	}
}

func TestParseSentinelInvariant(t *testing.T) {
	inputs := []string{
		"",
		"· · ·",
		"4.5",
		"nothing recognizable here",
		"$$$",
	}
	p := NewParser(newTestLogger())

	for _, info := range inputs {
		rec, ok := p.Parse(&models.RawPlace{NameRaw: "Some Place", InfoTextRaw: info})
		if !ok {
			t.Fatalf("bundle with valid name discarded for info %q", info)
		}
		for field, val := range map[string]string{
			"Name": rec.Name, "Rating": rec.Rating, "Reviews": rec.Reviews,
			"Price": rec.Price, "Type": rec.Type, "Address": rec.Address,
			"Phone": rec.Phone, "Website": rec.Website,
		} {
			if val == "" {
				t.Errorf("info %q: field %s is empty; want value or sentinel", info, field)
			}
		}
	}
}

func TestParseTypeAddressCollision(t *testing.T) {
	rec := parseInfo(t, "Corner Bakery", "Bakery · Bakery")

	if rec.Address != "Bakery" {
		t.Errorf("Address = %q; want %q", rec.Address, "Bakery")
	}
	if rec.Type != models.Sentinel {
		t.Errorf("Type = %q; want sentinel on type/address collision", rec.Type)
	}
}

func TestParseNumericAddressRejected(t *testing.T) {
	rec := parseInfo(t, "Nameless", "Cafe · 123456")

	if rec.Address != models.Sentinel {
		t.Errorf("Address = %q; want sentinel for purely numeric remainder", rec.Address)
	}
}

func TestParseScrambledFragmentsCoverAllFields(t *testing.T) {
	fragments := []string{
		"(2,345)",
		"4.2 stars",
		"$25–35",
		"Greek",
		"7 Dials Court, London",
		"+44 20 1234 5678",
	}
	// Two different orders must produce the same record.
	a := parseInfo(t, "Santorini", strings.Join(fragments, " · "))

	scrambled := []string{fragments[4], fragments[2], fragments[0], fragments[5], fragments[1], fragments[3]}
	b := parseInfo(t, "Santorini", strings.Join(scrambled, " · "))

	for _, rec := range []*models.Place{a, b} {
		if rec.Rating != "4.2" || rec.Reviews != "(2,345)" || rec.Price != "$25–35" ||
			rec.Type != "Greek" || rec.Phone != "+44 20 1234 5678" {
			t.Errorf("record = %+v; fields not recovered from fragments", rec)
		}
		if !strings.Contains(rec.Address, "7 Dials Court") {
			t.Errorf("Address = %q; want the leftover fragment", rec.Address)
		}
	}
}

func TestParseTypePriorityOrder(t *testing.T) {
	rec := parseInfo(t, "Foyle's", "Used book store · 113 Charing Cross Rd")

	if rec.Type != "Used book store" {
		t.Errorf("Type = %q; want the specific category before %q", rec.Type, "Book store")
	}
}

func TestParseTypeStoresCanonicalSpelling(t *testing.T) {
	rec := parseInfo(t, "Noodle Bar", "CHINESE · 88 Gerrard Street")

	if rec.Type != "Chinese" {
		t.Errorf("Type = %q; want canonical spelling %q", rec.Type, "Chinese")
	}
}

func TestCleanTextIdempotent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  hello   world ", "hello world"},
		{"", "N/A"},
		{" icons gone", "icons gone"},
		{"already clean", "already clean"},
	}

	for _, tt := range tests {
		got := CleanText(tt.in)
		if got != tt.want {
			t.Errorf("CleanText(%q) = %q; want %q", tt.in, got, tt.want)
		}
		if again := CleanText(got); again != got {
			t.Errorf("CleanText not idempotent: %q → %q", got, again)
		}
	}
}

func TestRemoveFirstThreeTierDegrade(t *testing.T) {
	tests := []struct {
		buf  string
		span string
		want string
	}{
		{"a +44 123 b", "+44 123", "a  b"},
		{"a (b) a (b)", "(b)", "a  a (b)"},
		{"untouched", "missing", "untouched"},
	}

	for _, tt := range tests {
		if got := removeFirst(tt.buf, tt.span); got != tt.want {
			t.Errorf("removeFirst(%q, %q) = %q; want %q", tt.buf, tt.span, got, tt.want)
		}
	}
}
