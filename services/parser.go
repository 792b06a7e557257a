package services

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"gmaps-scraper/models"
	"gmaps-scraper/utils"
)

var (
	// ratingRegexp captures a one-decimal rating; a trailing unit word is
	// part of the consumed span but not the stored value
	ratingRegexp = regexp.MustCompile(`(\d\.\d)(?:\s*[Ss]tars?)?`)
	// reviewsRegexp captures a parenthesized, optionally thousands-grouped count
	reviewsRegexp = regexp.MustCompile(`\(\s*\d{1,3}(?:[,.]\d{3})*\s*\)`)
	// priceBroadRegexp is the greedy first-pass price match; it may pick up
	// trailing punctuation glued on by the page markup
	priceBroadRegexp = regexp.MustCompile(`[£$€₹¥฿]\s*[\d,.\-–+]+`)
	// priceCleanRegexp re-validates the broad match from its start, keeping
	// only a well-formed amount, range or tier
	priceCleanRegexp = regexp.MustCompile(`^[£$€₹¥฿]\s*(?:[\d.,]+(?:[–-][\d.,]+)?|[£$€₹¥฿]{0,2})\+?`)
	// priceSymRegexp is the symbol-only fallback ($, $$, $$$ …)
	priceSymRegexp = regexp.MustCompile(`[£$€₹¥฿]{1,4}`)
	// phoneRegexp requires an international prefix and digit runs of three or more
	phoneRegexp = regexp.MustCompile(`\+\d{1,4}[ \-]?(?:\(?\d{2,4}\)?|\d{2,4})[ \-]?\d{3,}[\s-]?\d{3,}`)
	// puaRegexp strips Private-Use-Area glyphs (decorative icons)
	puaRegexp = regexp.MustCompile(`[\x{E000}-\x{F8FF}]`)
	// statusTailRegexp truncates the address remainder from the first
	// open/closed/service indicator to the end. Deliberately unanchored.
	statusTailRegexp = regexp.MustCompile(`(?i)(\s*·\s*)?(Open|Closed|Closes|Opening|Hours|Serves|Delivers|Takeout|Dine-in|Pickup|Delivery|Offers|Ends|Starts|Temporary|Permanently).*$`)
	digitsOnlyRegexp = regexp.MustCompile(`^\d+$`)
)

// knownTypes is the canonical category table. Order is priority: more
// specific multi-word categories precede their generic subsumers, and the
// listed spelling is what gets stored regardless of the casing matched.
var knownTypes = []string{
	"Used book store", "Comic book store", "Rare book store",
	"Book store",
	"Restaurant", "Cafe", "Bar", "Pub", "Hotel", "Steakhouse", "Steak",
	"Chophouse", "Pakistani", "Indian", "Chinese", "Italian", "Thai",
	"Japanese", "Mexican", "Greek", "Turkish", "Lebanese", "Brunch",
	"Bakery", "Dessert", "Coffee", "Tea", "Fast Food", "Fine Dining", "Barbecue",
}

var knownTypeRegexps = compileTypeRegexps()

func compileTypeRegexps() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(knownTypes))
	for i, t := range knownTypes {
		res[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(t) + `\b`)
	}
	return res
}

// Parser turns RawPlace bundles into Place records via ordered,
// text-consuming extraction passes over a shrinking working buffer: each
// pass that matches records its field and removes the matched span, so
// later passes never re-match text already claimed.
type Parser struct {
	logger *utils.Logger
}

// NewParser creates a Parser with the given logger.
func NewParser(logger *utils.Logger) *Parser {
	return &Parser{logger: logger}
}

// ParseAll processes bundles in order and returns the records that survived
// the name check. A failure inside one bundle never aborts the batch.
func (p *Parser) ParseAll(raw []*models.RawPlace) []*models.Place {
	result := make([]*models.Place, 0, len(raw))

	for i, r := range raw {
		rec, ok := p.Parse(r)
		if !ok {
			p.logger.Debug("[parser] item %d/%d skipped (missing name)", i+1, len(raw))
			continue
		}
		result = append(result, rec)
	}

	p.logger.Info("[parser] Parsed %d → %d records (skipped %d)",
		len(raw), len(result), len(raw)-len(result))
	return result
}

// Parse transforms one bundle into a record. The second return value is
// false when the bundle has no usable name and was discarded.
func (p *Parser) Parse(raw *models.RawPlace) (*models.Place, bool) {
	name := CleanText(raw.NameRaw)
	if name == models.Sentinel {
		return nil, false
	}

	rec := models.NewPlace()
	rec.Name = name
	rec.Website = CleanText(raw.WebsiteRaw)
	rec.ScrapedAt = raw.ScrapedAt

	p.runPasses(raw, rec)
	sanitize(rec)
	return rec, true
}

// stage is one extraction pass: pure buffer in, buffer out, record updated
// on match.
type stage struct {
	name string
	run  func(buf string, rec *models.Place) string
}

func (p *Parser) pipeline(original string) []stage {
	return []stage{
		{"rating", extractRating},
		{"reviews", extractReviews},
		{"price", extractPrice},
		{"phone", extractPhone(original)},
		{"separators", stripSeparators},
		{"type", extractType},
		{"separators", stripSeparators},
		{"address", extractAddress},
	}
}

// runPasses executes the pipeline. A panic inside a pass is isolated to
// this bundle: fields already determined are kept, the rest stay sentinel.
func (p *Parser) runPasses(raw *models.RawPlace, rec *models.Place) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn("[parser] extraction failed for %q: %v — keeping determined fields", rec.Name, r)
		}
	}()

	original := CleanText(raw.InfoTextRaw)
	if original == models.Sentinel {
		return
	}

	buf := original
	for _, st := range p.pipeline(original) {
		buf = st.run(buf, rec)
		p.logger.Debug("[parser] pass %-10s → buffer %q", st.name, buf)
	}
}

func extractRating(buf string, rec *models.Place) string {
	loc := ratingRegexp.FindStringSubmatchIndex(buf)
	if loc == nil {
		return buf
	}
	rec.Rating = buf[loc[2]:loc[3]]
	return buf[:loc[0]] + buf[loc[1]:]
}

func extractReviews(buf string, rec *models.Place) string {
	loc := reviewsRegexp.FindStringIndex(buf)
	if loc == nil {
		return buf
	}
	rec.Reviews = CleanText(buf[loc[0]:loc[1]])
	return buf[:loc[0]] + buf[loc[1]:]
}

// extractPrice is two-tier: a currency amount (broad match, then an anchored
// clean re-match that drops glued trailing noise), falling back to a bare
// symbol run indicating a price tier. Only the original matched span leaves
// the buffer, never the post-cleaned substring.
func extractPrice(buf string, rec *models.Place) string {
	if loc := priceBroadRegexp.FindStringIndex(buf); loc != nil {
		broad := buf[loc[0]:loc[1]]
		if clean := priceCleanRegexp.FindString(broad); clean != "" {
			rec.Price = CleanText(clean)
			return buf[:loc[0]] + buf[loc[1]:]
		}
	}

	if loc := priceSymRegexp.FindStringIndex(buf); loc != nil {
		rec.Price = CleanText(buf[loc[0]:loc[1]])
		return buf[:loc[0]] + buf[loc[1]:]
	}
	return buf
}

// extractPhone matches against the original, unshrunk info text so earlier
// span removals cannot split a number. Buffer removal is best-effort.
func extractPhone(original string) func(string, *models.Place) string {
	return func(buf string, rec *models.Place) string {
		m := phoneRegexp.FindString(original)
		if m == "" {
			return buf
		}
		rec.Phone = CleanText(m)
		return removeFirst(buf, m)
	}
}

// removeFirst drops the first occurrence of span from buf: structured
// (quoted-pattern) removal first, then a literal substring removal, then
// the buffer unchanged.
func removeFirst(buf, span string) string {
	if re, err := regexp.Compile(regexp.QuoteMeta(span)); err == nil {
		if loc := re.FindStringIndex(buf); loc != nil {
			return buf[:loc[0]] + buf[loc[1]:]
		}
	}
	if idx := strings.Index(buf, span); idx >= 0 {
		return buf[:idx] + buf[idx+len(span):]
	}
	return buf
}

func stripSeparators(buf string, _ *models.Place) string {
	for strings.Contains(buf, "· ·") {
		buf = strings.ReplaceAll(buf, "· ·", "·")
	}
	return collapseSpace(strings.Trim(buf, " ·"))
}

func extractType(buf string, rec *models.Place) string {
	for i, re := range knownTypeRegexps {
		loc := re.FindStringIndex(buf)
		if loc == nil {
			continue
		}
		rec.Type = knownTypes[i]
		return buf[:loc[0]] + buf[loc[1]:]
	}
	return buf
}

func extractAddress(buf string, rec *models.Place) string {
	if buf == "" {
		return ""
	}
	addr := collapseSpace(statusTailRegexp.ReplaceAllString(buf, ""))
	if utf8.RuneCountInString(addr) < 5 {
		return ""
	}
	rec.Address = addr
	return ""
}

// sanitize enforces the cross-field invariants: type never equals address,
// and neither may be empty, sentinel-like, or purely numeric.
func sanitize(rec *models.Place) {
	if rec.Type == rec.Address {
		rec.Type = models.Sentinel
	}
	if rec.Type == "" || digitsOnlyRegexp.MatchString(rec.Type) {
		rec.Type = models.Sentinel
	}
	if rec.Address == "" || digitsOnlyRegexp.MatchString(rec.Address) {
		rec.Address = models.Sentinel
	}
	if rec.Website == "" {
		rec.Website = models.Sentinel
	}
}

// CleanText strips decorative Private-Use-Area glyphs, collapses whitespace
// runs to single spaces and trims the ends. Empty input normalizes to the
// sentinel. Idempotent.
func CleanText(s string) string {
	s = collapseSpace(s)
	if s == "" {
		return models.Sentinel
	}
	return s
}

func collapseSpace(s string) string {
	s = puaRegexp.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}
