package storage

import "gmaps-scraper/models"

// PlaceWriter is the interface any storage backend must satisfy.
type PlaceWriter interface {
	Write(places []*models.Place) error
	Close() error
}
