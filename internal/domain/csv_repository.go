package domain

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"listings-web/internal/format"
	"listings-web/models"
)

// CSVRepository exports listings as a flat CSV file, sales first.
type CSVRepository struct {
	filePath string
}

func NewCSVRepository(filePath string) *CSVRepository {
	return &CSVRepository{
		filePath: filePath,
	}
}

func (r *CSVRepository) Save(ctx context.Context, set *models.ListingSet) error {
	file, err := os.Create(r.filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	writer.Write([]string{
		"ID",
		"Mode",
		"Title",
		"Location",
		"Price",
		"Dorms",
		"Baths",
		"AreaM2",
		"Parking",
		"Highlights",
		"Image",
	})

	for _, mode := range []models.Mode{models.ModeSale, models.ModeRent} {
		for _, p := range set.Listings(mode) {
			if err := ctx.Err(); err != nil {
				return err
			}
			writer.Write([]string{
				p.ID,
				string(mode),
				p.Title,
				p.Location,
				strconv.FormatInt(p.Price, 10),
				p.Details.Dorms.Or(format.Placeholder),
				p.Details.Baths.Or(format.Placeholder),
				p.Details.AreaM2.Or(format.Placeholder),
				p.Details.Parking.Or(format.Placeholder),
				strings.Join(p.Highlights, " | "),
				p.Image,
			})
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("write %s: %w", r.filePath, err)
	}
	return nil
}
