package domain

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"listings-web/models"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS office (
	id            SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
	brand         TEXT NOT NULL DEFAULT '',
	tagline       TEXT NOT NULL DEFAULT '',
	hours         TEXT NOT NULL DEFAULT '',
	address       TEXT NOT NULL DEFAULT '',
	phone_display TEXT NOT NULL DEFAULT '',
	email         TEXT NOT NULL DEFAULT '',
	whatsapp      TEXT NOT NULL,
	updated       TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS properties (
	id         TEXT NOT NULL,
	mode       TEXT NOT NULL CHECK (mode IN ('sale', 'rent')),
	position   INTEGER NOT NULL,
	title      TEXT NOT NULL,
	location   TEXT NOT NULL DEFAULT '',
	image      TEXT NOT NULL DEFAULT '',
	price      BIGINT NOT NULL,
	dorms      DOUBLE PRECISION,
	baths      DOUBLE PRECISION,
	area_m2    DOUBLE PRECISION,
	parking    DOUBLE PRECISION,
	highlights TEXT[] NOT NULL DEFAULT '{}',
	PRIMARY KEY (mode, id)
);
`

// PostgresRepository stores listings in Postgres. It is both a
// ListingSource and a ListingRepository.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// OpenPostgres opens and pings a database using the lib/pq driver.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the tables when they are missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Load(ctx context.Context) (*models.ListingSet, error) {
	set := &models.ListingSet{
		Sales:   []models.Property{},
		Rentals: []models.Property{},
	}

	err := r.db.QueryRowContext(ctx, `
	SELECT brand, tagline, hours, address, phone_display, email, whatsapp, updated
	FROM office WHERE id = 1
	`).Scan(
		&set.Office.Brand,
		&set.Office.Tagline,
		&set.Office.Hours,
		&set.Office.Address,
		&set.Office.PhoneDisplay,
		&set.Office.Email,
		&set.Office.WhatsApp,
		&set.Updated,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: office row is missing", models.ErrInvalidPayload)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load office: %v", ErrSourceUnavailable, err)
	}

	rows, err := r.db.QueryContext(ctx, `
	SELECT id, mode, title, location, image, price, dorms, baths, area_m2, parking, highlights
	FROM properties
	ORDER BY mode, position
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: load properties: %v", ErrSourceUnavailable, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p                           models.Property
			mode                        string
			dorms, baths, area, parking sql.NullFloat64
			highlights                  []string
		)
		if err := rows.Scan(
			&p.ID, &mode, &p.Title, &p.Location, &p.Image, &p.Price,
			&dorms, &baths, &area, &parking, pq.Array(&highlights),
		); err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		p.Mode = models.Mode(mode)
		p.Details = models.Details{
			Dorms:   nullQuantity(dorms),
			Baths:   nullQuantity(baths),
			AreaM2:  nullQuantity(area),
			Parking: nullQuantity(parking),
		}
		p.Highlights = highlights

		if p.Mode == models.ModeRent {
			set.Rentals = append(set.Rentals, p)
		} else {
			set.Sales = append(set.Sales, p)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate properties: %w", err)
	}
	return checked(set)
}

// Save replaces the stored office and listings with set in one transaction.
func (r *PostgresRepository) Save(ctx context.Context, set *models.ListingSet) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO office (id, brand, tagline, hours, address, phone_display, email, whatsapp, updated)
	VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (id) DO UPDATE SET
		brand = EXCLUDED.brand, tagline = EXCLUDED.tagline, hours = EXCLUDED.hours,
		address = EXCLUDED.address, phone_display = EXCLUDED.phone_display,
		email = EXCLUDED.email, whatsapp = EXCLUDED.whatsapp, updated = EXCLUDED.updated
	`,
		set.Office.Brand,
		set.Office.Tagline,
		set.Office.Hours,
		set.Office.Address,
		set.Office.PhoneDisplay,
		set.Office.Email,
		set.Office.WhatsApp,
		set.Updated,
	)
	if err != nil {
		return fmt.Errorf("save office: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM properties`); err != nil {
		return fmt.Errorf("clear properties: %w", err)
	}

	query := `
	INSERT INTO properties (id, mode, position, title, location, image, price, dorms, baths, area_m2, parking, highlights)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	for _, mode := range []models.Mode{models.ModeSale, models.ModeRent} {
		for i, p := range set.Listings(mode) {
			highlights := p.Highlights
			if highlights == nil {
				highlights = []string{}
			}
			_, err := tx.ExecContext(
				ctx,
				query,
				p.ID,
				string(mode),
				i,
				p.Title,
				p.Location,
				p.Image,
				p.Price,
				nullFloat(p.Details.Dorms),
				nullFloat(p.Details.Baths),
				nullFloat(p.Details.AreaM2),
				nullFloat(p.Details.Parking),
				pq.Array(highlights),
			)
			if err != nil {
				return fmt.Errorf("save property %s: %w", p.ID, err)
			}
		}
	}

	return tx.Commit()
}

func nullQuantity(v sql.NullFloat64) models.Quantity {
	if !v.Valid {
		return models.Quantity{}
	}
	return models.Known(v.Float64)
}

func nullFloat(q models.Quantity) sql.NullFloat64 {
	return sql.NullFloat64{Float64: q.Value, Valid: q.Known}
}
