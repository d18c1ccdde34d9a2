package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePayload = `{
  "office": {
    "brand": "Corretaje Sur",
    "tagline": "Tu próxima casa",
    "hours": "Lun a Vie 9:00-18:00",
    "address": "Av. Siempre Viva 742",
    "phone_display": "+56 9 1234 5678",
    "email": "hola@corretajesur.cl",
    "whatsapp": "+56 9 1234 5678"
  },
  "sales": [
    {"id": "A1", "title": "Casa", "location": "X", "price_clp": 100000000,
     "details": {"dorms": 3, "baths": 2, "area_m2": 120.5},
     "highlights": ["Patio amplio", "Cerca de colegios"]}
  ],
  "rentals": [
    {"id": "R1", "title": "Depto", "location": "Centro", "price_clp_month": 450000}
  ],
  "updated": "2024-01-01"
}`

func TestDecodePayloadBuildsListingSet(t *testing.T) {
	p, err := DecodePayload([]byte(samplePayload))
	require.NoError(t, err)

	set, err := p.ListingSet()
	require.NoError(t, err)

	assert.Equal(t, "Corretaje Sur", set.Office.Brand)
	assert.Equal(t, "2024-01-01", set.Updated)
	require.Len(t, set.Sales, 1)
	require.Len(t, set.Rentals, 1)

	sale := set.Sales[0]
	assert.Equal(t, ModeSale, sale.Mode)
	assert.Equal(t, int64(100000000), sale.Price)
	assert.Equal(t, "3", sale.Details.Dorms.Or("—"))
	assert.Equal(t, "120.5", sale.Details.AreaM2.Or("—"))
	assert.Equal(t, "—", sale.Details.Parking.Or("—"))
	assert.Equal(t, "Patio amplio", sale.Teaser("Consultar detalles"))

	rent := set.Rentals[0]
	assert.Equal(t, ModeRent, rent.Mode)
	assert.Equal(t, int64(450000), rent.Price)
	assert.Equal(t, Details{}, rent.Details)
	assert.Equal(t, "Consultar detalles", rent.Teaser("Consultar detalles"))
}

func TestDecodePayloadRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":        `{"office":`,
		"missing office":  `{"sales": [], "rentals": []}`,
		"missing rentals": `{"office": {"whatsapp": "1"}, "sales": []}`,
		"sale without price": `{"office": {"whatsapp": "1"}, "rentals": [],
			"sales": [{"id": "A1", "title": "Casa"}]}`,
		"rental with sale price only": `{"office": {"whatsapp": "1"}, "sales": [],
			"rentals": [{"id": "R1", "title": "Depto", "price_clp": 10}]}`,
		"empty id": `{"office": {"whatsapp": "1"}, "rentals": [],
			"sales": [{"id": "", "title": "Casa", "price_clp": 1}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodePayload([]byte(body))
			require.ErrorIs(t, err, ErrInvalidPayload)
		})
	}
}

func TestListingSetChecksRequiredFields(t *testing.T) {
	p := &Payload{Sales: []PayloadProperty{}, Rentals: []PayloadProperty{}}
	_, err := p.ListingSet()
	require.ErrorIs(t, err, ErrInvalidPayload)

	p.Office.WhatsApp = "56912345678"
	set, err := p.ListingSet()
	require.NoError(t, err)
	assert.Empty(t, set.Sales)
}

func TestTeaserSkipsEmptyFirstHighlight(t *testing.T) {
	p := Property{Highlights: []string{"", "Vista al mar"}}
	assert.Equal(t, "fallback", p.Teaser("fallback"))
	p.Highlights = nil
	assert.Equal(t, "fallback", p.Teaser("fallback"))
}

func TestEncodePayloadKeepsModePrices(t *testing.T) {
	p, err := DecodePayload([]byte(samplePayload))
	require.NoError(t, err)
	set, err := p.ListingSet()
	require.NoError(t, err)

	out, err := EncodePayload(NewPayload(set))
	require.NoError(t, err)

	again, err := DecodePayload(out)
	require.NoError(t, err)
	roundTrip, err := again.ListingSet()
	require.NoError(t, err)
	assert.Equal(t, set, roundTrip)
	require.NotNil(t, again.Rentals[0].PriceCLPMonth)
	assert.Nil(t, again.Rentals[0].PriceCLP)
	assert.NotContains(t, string(out), `"parking"`)
}

func TestValidateRawBytes(t *testing.T) {
	require.NoError(t, Validate([]byte(samplePayload)))

	cases := map[string]string{
		"not json":       `{"office": {`,
		"trailing value": `{"office": {"whatsapp": "1"}, "sales": [], "rentals": []} {}`,
		"negative price": `{"office": {"whatsapp": "1"}, "rentals": [],
			"sales": [{"id": "A1", "title": "Casa", "price_clp": -5}]}`,
		"fractional price": `{"office": {"whatsapp": "1"}, "rentals": [],
			"sales": [{"id": "A1", "title": "Casa", "price_clp": 10.5}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			require.ErrorIs(t, Validate([]byte(body)), ErrInvalidPayload)
		})
	}
}

func TestDecodePayloadAcceptsIntegralNumberForms(t *testing.T) {
	for _, price := range []string{"100000000", "1e8", "100000000.0", "1.0E8"} {
		t.Run(price, func(t *testing.T) {
			body := `{"office": {"whatsapp": "1"}, "rentals": [],
				"sales": [{"id": "A1", "title": "Casa", "price_clp": ` + price + `}]}`
			p, err := DecodePayload([]byte(body))
			require.NoError(t, err)
			set, err := p.ListingSet()
			require.NoError(t, err)
			assert.Equal(t, int64(100000000), set.Sales[0].Price)
		})
	}
}

func TestAmountRejectsNonWholeNumbers(t *testing.T) {
	var a Amount
	require.Error(t, a.UnmarshalJSON([]byte(`12.5`)))
	require.Error(t, a.UnmarshalJSON([]byte(`1e300`)))
	require.Error(t, a.UnmarshalJSON([]byte(`"12"`)))
	require.NoError(t, a.UnmarshalJSON([]byte(`-3`)))
	assert.Equal(t, Amount(-3), a)
}
