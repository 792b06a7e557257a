package services

import (
	"testing"

	"gmaps-scraper/models"
)

func place(name, rating, price, phone, category string) *models.Place {
	p := models.NewPlace()
	p.Name = name
	p.Rating = rating
	p.Price = price
	p.Phone = phone
	p.Type = category
	return p
}

func TestReporterGenerate(t *testing.T) {
	places := []*models.Place{
		place("A", "4.5", "££", "+44 20 1111 2222", "Italian"),
		place("B", "3.9", models.Sentinel, models.Sentinel, "Italian"),
		place("C", models.Sentinel, "$", models.Sentinel, "Cafe"),
		place("D", "4.8", models.Sentinel, models.Sentinel, models.Sentinel),
	}

	r := NewReporter(newTestLogger())
	report := r.Generate(places)

	if report.TotalPlaces != 4 {
		t.Errorf("TotalPlaces = %d; want 4", report.TotalPlaces)
	}
	if report.RatedPlaces != 3 {
		t.Errorf("RatedPlaces = %d; want 3", report.RatedPlaces)
	}
	if report.PricedPlaces != 2 {
		t.Errorf("PricedPlaces = %d; want 2", report.PricedPlaces)
	}
	if report.WithPhone != 1 {
		t.Errorf("WithPhone = %d; want 1", report.WithPhone)
	}
	if report.PlacesByCategory["Italian"] != 2 {
		t.Errorf("PlacesByCategory[Italian] = %d; want 2", report.PlacesByCategory["Italian"])
	}
	if _, ok := report.PlacesByCategory[models.Sentinel]; ok {
		t.Error("sentinel categories must not be counted")
	}

	if len(report.TopRated) != 3 {
		t.Fatalf("TopRated length = %d; want 3", len(report.TopRated))
	}
	if report.TopRated[0].Name != "D" || report.TopRated[1].Name != "A" {
		t.Errorf("TopRated order = [%s %s %s]; want D first",
			report.TopRated[0].Name, report.TopRated[1].Name, report.TopRated[2].Name)
	}
}

func TestReporterGenerateEmpty(t *testing.T) {
	report := NewReporter(newTestLogger()).Generate(nil)
	if report.TotalPlaces != 0 || len(report.TopRated) != 0 {
		t.Errorf("empty batch produced non-empty report: %+v", report)
	}
}
