package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gmaps-scraper/models"
	"gmaps-scraper/utils"
)

// Reporter prints the extracted records and computes summary statistics.
type Reporter struct {
	logger *utils.Logger
}

func NewReporter(logger *utils.Logger) *Reporter {
	return &Reporter{logger: logger}
}

// Generate computes the summary over a parsed batch.
func (r *Reporter) Generate(places []*models.Place) *models.SummaryReport {
	report := &models.SummaryReport{
		PlacesByCategory: make(map[string]int),
	}

	if len(places) == 0 {
		return report
	}

	report.TotalPlaces = len(places)

	var rated []*models.Place
	for _, p := range places {
		if p.Rating != models.Sentinel {
			report.RatedPlaces++
			rated = append(rated, p)
		}
		if p.Price != models.Sentinel {
			report.PricedPlaces++
		}
		if p.Phone != models.Sentinel {
			report.WithPhone++
		}
		if p.Type != models.Sentinel {
			report.PlacesByCategory[p.Type]++
		}
	}

	// Top 5 by rating
	sort.SliceStable(rated, func(i, j int) bool {
		return ratingValue(rated[i].Rating) > ratingValue(rated[j].Rating)
	})
	if len(rated) > 5 {
		report.TopRated = rated[:5]
	} else {
		report.TopRated = rated
	}

	return report
}

// PrintTable dumps every record to stdout in the fixed field order.
func (r *Reporter) PrintTable(places []*models.Place) {
	sep := strings.Repeat("─", 100)

	fmt.Println("\n--- Extracted Data ---")
	fmt.Printf("%-4s %-32s %-7s %-9s %-8s %-16s %-30s %-18s %s\n",
		"#", "Name", "Rating", "Reviews", "Price", "Type", "Address", "Phone Number", "Website")
	fmt.Println(sep)

	for i, p := range places {
		fmt.Printf("%-4d %-32s %-7s %-9s %-8s %-16s %-30s %-18s %s\n",
			i+1,
			truncate(p.Name, 30),
			p.Rating,
			p.Reviews,
			truncate(p.Price, 8),
			truncate(p.Type, 16),
			truncate(p.Address, 28),
			p.Phone,
			truncate(p.Website, 40),
		)
	}
	fmt.Println(sep)
}

// PrintSummary renders the summary statistics.
func (r *Reporter) PrintSummary(s *models.SummaryReport) {
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;33m  Scrape Summary\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Total places       : \033[1m%d\033[0m\n", s.TotalPlaces)
	fmt.Printf("  With rating        : \033[1m%d\033[0m\n", s.RatedPlaces)
	fmt.Printf("  With price info    : \033[1m%d\033[0m\n", s.PricedPlaces)
	fmt.Printf("  With phone number  : \033[1m%d\033[0m\n", s.WithPhone)
	fmt.Println()

	fmt.Printf("\033[1;33m  Top Rated\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(s.TopRated) == 0 {
		fmt.Printf("  No rated places found\n")
	} else {
		for i, p := range s.TopRated {
			fmt.Printf("  \033[1m%d.\033[0m %-40s \033[1;32m%s ★\033[0m %s\n",
				i+1, truncate(p.Name, 38), p.Rating, p.Reviews)
		}
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Places by Category\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(s.PlacesByCategory) == 0 {
		fmt.Printf("  No category data\n")
	} else {
		type catCount struct {
			cat   string
			count int
		}
		var cats []catCount
		for cat, cnt := range s.PlacesByCategory {
			cats = append(cats, catCount{cat, cnt})
		}
		sort.Slice(cats, func(i, j int) bool {
			if cats[i].count != cats[j].count {
				return cats[i].count > cats[j].count
			}
			return cats[i].cat < cats[j].cat
		})
		for _, c := range cats {
			bar := strings.Repeat("█", c.count)
			fmt.Printf("  %-30s %s (%d)\n", truncate(c.cat, 28), bar, c.count)
		}
	}
	fmt.Println()
}

func ratingValue(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
