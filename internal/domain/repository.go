package domain

import (
	"context"
	"errors"

	"listings-web/models"
)

// ErrSourceUnavailable is returned when the payload cannot be fetched at all.
var ErrSourceUnavailable = errors.New("listing source unavailable")

// ListingSource loads the full listing set. Every call goes back to the
// underlying store; nothing is cached.
type ListingSource interface {
	Load(ctx context.Context) (*models.ListingSet, error)
}

// ListingRepository persists a listing set, replacing what was there.
type ListingRepository interface {
	Save(ctx context.Context, set *models.ListingSet) error
}

// SourceFunc adapts a function to ListingSource.
type SourceFunc func(ctx context.Context) (*models.ListingSet, error)

func (f SourceFunc) Load(ctx context.Context) (*models.ListingSet, error) {
	return f(ctx)
}

func decode(data []byte) (*models.ListingSet, error) {
	payload, err := models.DecodePayload(data)
	if err != nil {
		return nil, err
	}
	return payload.ListingSet()
}

// checked applies the payload's required-field rules to a set assembled
// outside the decoder.
func checked(set *models.ListingSet) (*models.ListingSet, error) {
	return models.NewPayload(set).ListingSet()
}
