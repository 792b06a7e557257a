package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"gmaps-scraper/models"
)

// PostgresWriter persists parsed place records to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS places (
			id           SERIAL PRIMARY KEY,
			name         TEXT        NOT NULL,
			rating       VARCHAR(16) NOT NULL DEFAULT 'N/A',
			reviews      VARCHAR(32) NOT NULL DEFAULT 'N/A',
			price        VARCHAR(32) NOT NULL DEFAULT 'N/A',
			place_type   TEXT        NOT NULL DEFAULT 'N/A',
			address      TEXT        NOT NULL DEFAULT 'N/A',
			phone_number VARCHAR(48) NOT NULL DEFAULT 'N/A',
			website      TEXT        NOT NULL DEFAULT 'N/A',
			scraped_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_places_name       ON places(name);
		CREATE INDEX IF NOT EXISTS idx_places_place_type ON places(place_type);
		CREATE INDEX IF NOT EXISTS idx_places_rating     ON places(rating);
	`)
	return err
}

// Clear deletes all existing places from the table.
func (pw *PostgresWriter) Clear() error {
	_, err := pw.db.Exec("DELETE FROM places")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write batch-inserts all parsed places, clearing old data first.
func (pw *PostgresWriter) Write(places []*models.Place) error {
	if len(places) == 0 {
		return nil
	}

	if err := pw.Clear(); err != nil {
		return err
	}

	const batchSize = 50
	for i := 0; i < len(places); i += batchSize {
		end := i + batchSize
		if end > len(places) {
			end = len(places)
		}
		if err := pw.insertBatch(places[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []*models.Place) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*9)

	for idx, p := range batch {
		base := idx * 9
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9))
		valueArgs = append(valueArgs,
			p.Name, p.Rating, p.Reviews, p.Price, p.Type, p.Address, p.Phone, p.Website, p.ScrapedAt)
	}

	query := fmt.Sprintf(`
		INSERT INTO places (name, rating, reviews, price, place_type, address, phone_number, website, scraped_at)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll retrieves all stored places in insertion order — used by the
// report service.
func (pw *PostgresWriter) FetchAll() ([]*models.Place, error) {
	rows, err := pw.db.Query(`
		SELECT name, rating, reviews, price, place_type, address, phone_number, website, scraped_at
		FROM places
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var places []*models.Place
	for rows.Next() {
		p := &models.Place{}
		if err := rows.Scan(
			&p.Name, &p.Rating, &p.Reviews, &p.Price, &p.Type,
			&p.Address, &p.Phone, &p.Website, &p.ScrapedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		places = append(places, p)
	}
	return places, rows.Err()
}
