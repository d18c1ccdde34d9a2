package models

import (
	"bytes"
	_ "embed"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidPayload is returned for payloads that cannot be rendered.
var ErrInvalidPayload = errors.New("invalid listings payload")

//go:embed schema/payload.schema.json
var payloadSchema string

const payloadSchemaURL = "payload.schema.json"

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(payloadSchemaURL, strings.NewReader(payloadSchema)); err != nil {
		panic(fmt.Sprintf("add payload schema: %v", err))
	}
	schema, err := compiler.Compile(payloadSchemaURL)
	if err != nil {
		panic(fmt.Sprintf("compile payload schema: %v", err))
	}
	return schema
}

// Payload is the wire form of properties.json.
type Payload struct {
	Office  PayloadOffice     `json:"office"`
	Sales   []PayloadProperty `json:"sales"`
	Rentals []PayloadProperty `json:"rentals"`
	Updated string            `json:"updated,omitempty"`
}

type PayloadOffice struct {
	Brand        string `json:"brand,omitempty"`
	Tagline      string `json:"tagline,omitempty"`
	Hours        string `json:"hours,omitempty"`
	Address      string `json:"address,omitempty"`
	PhoneDisplay string `json:"phone_display,omitempty"`
	Email        string `json:"email,omitempty"`
	WhatsApp     string `json:"whatsapp"`
}

type PayloadProperty struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Location      string          `json:"location,omitempty"`
	Image         string          `json:"image,omitempty"`
	PriceCLP      *Amount         `json:"price_clp,omitempty"`
	PriceCLPMonth *Amount         `json:"price_clp_month,omitempty"`
	Details       *PayloadDetails `json:"details,omitempty"`
	Highlights    []string        `json:"highlights,omitempty"`
}

// Amount is a whole number of pesos. It accepts any integral JSON number
// form, so 1e8 and 100000000.0 decode like 100000000.
type Amount int64

func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*a = Amount(n)
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("amount %s is not a number", raw)
	}
	if f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return fmt.Errorf("amount %s is not a whole number", raw)
	}
	*a = Amount(f)
	return nil
}

type PayloadDetails struct {
	Dorms   *float64 `json:"dorms,omitempty"`
	Baths   *float64 `json:"baths,omitempty"`
	AreaM2  *float64 `json:"area_m2,omitempty"`
	Parking *float64 `json:"parking,omitempty"`
}

// Validate checks raw payload bytes against the embedded JSON schema.
func Validate(data []byte) error {
	dec := stdjson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("%w: not valid JSON: %v", ErrInvalidPayload, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after the payload", ErrInvalidPayload)
	}
	if err := compiledSchema.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

// DecodePayload validates and decodes properties.json.
func DecodePayload(data []byte) (*Payload, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return &p, nil
}

// EncodePayload renders the payload as indented JSON.
func EncodePayload(p *Payload) ([]byte, error) {
	return json.Marshal(p, jsontext.WithIndent("  "))
}

// ListingSet converts the wire form into the rendering model, resolving
// absent optional fields. Required fields are checked again here so a
// payload built in code gets the same treatment as a decoded one.
func (p *Payload) ListingSet() (*ListingSet, error) {
	if strings.TrimSpace(p.Office.WhatsApp) == "" {
		return nil, fmt.Errorf("%w: office.whatsapp is required", ErrInvalidPayload)
	}
	if p.Sales == nil || p.Rentals == nil {
		return nil, fmt.Errorf("%w: sales and rentals are required", ErrInvalidPayload)
	}

	set := &ListingSet{
		Office: Office{
			Brand:        p.Office.Brand,
			Tagline:      p.Office.Tagline,
			Hours:        p.Office.Hours,
			Address:      p.Office.Address,
			PhoneDisplay: p.Office.PhoneDisplay,
			Email:        p.Office.Email,
			WhatsApp:     p.Office.WhatsApp,
		},
		Sales:   make([]Property, 0, len(p.Sales)),
		Rentals: make([]Property, 0, len(p.Rentals)),
		Updated: p.Updated,
	}

	for i, raw := range p.Sales {
		prop, err := raw.property(ModeSale)
		if err != nil {
			return nil, fmt.Errorf("sales[%d]: %w", i, err)
		}
		set.Sales = append(set.Sales, prop)
	}
	for i, raw := range p.Rentals {
		prop, err := raw.property(ModeRent)
		if err != nil {
			return nil, fmt.Errorf("rentals[%d]: %w", i, err)
		}
		set.Rentals = append(set.Rentals, prop)
	}
	return set, nil
}

func (raw PayloadProperty) property(mode Mode) (Property, error) {
	if raw.ID == "" || raw.Title == "" {
		return Property{}, fmt.Errorf("%w: id and title are required", ErrInvalidPayload)
	}

	price := raw.PriceCLP
	if mode == ModeRent {
		price = raw.PriceCLPMonth
	}
	if price == nil {
		return Property{}, fmt.Errorf("%w: %s has no price for %s", ErrInvalidPayload, raw.ID, mode)
	}

	prop := Property{
		ID:         raw.ID,
		Title:      raw.Title,
		Location:   raw.Location,
		Image:      raw.Image,
		Mode:       mode,
		Price:      int64(*price),
		Highlights: raw.Highlights,
	}
	if d := raw.Details; d != nil {
		prop.Details = Details{
			Dorms:   quantity(d.Dorms),
			Baths:   quantity(d.Baths),
			AreaM2:  quantity(d.AreaM2),
			Parking: quantity(d.Parking),
		}
	}
	return prop, nil
}

func quantity(v *float64) Quantity {
	if v == nil {
		return Quantity{}
	}
	return Known(*v)
}

// NewPayload builds the wire form of a listing set.
func NewPayload(set *ListingSet) *Payload {
	p := &Payload{
		Office: PayloadOffice{
			Brand:        set.Office.Brand,
			Tagline:      set.Office.Tagline,
			Hours:        set.Office.Hours,
			Address:      set.Office.Address,
			PhoneDisplay: set.Office.PhoneDisplay,
			Email:        set.Office.Email,
			WhatsApp:     set.Office.WhatsApp,
		},
		Sales:   make([]PayloadProperty, 0, len(set.Sales)),
		Rentals: make([]PayloadProperty, 0, len(set.Rentals)),
		Updated: set.Updated,
	}
	for _, prop := range set.Sales {
		p.Sales = append(p.Sales, payloadProperty(prop))
	}
	for _, prop := range set.Rentals {
		p.Rentals = append(p.Rentals, payloadProperty(prop))
	}
	return p
}

func payloadProperty(prop Property) PayloadProperty {
	price := Amount(prop.Price)
	raw := PayloadProperty{
		ID:         prop.ID,
		Title:      prop.Title,
		Location:   prop.Location,
		Image:      prop.Image,
		Highlights: prop.Highlights,
	}
	if prop.Mode == ModeRent {
		raw.PriceCLPMonth = &price
	} else {
		raw.PriceCLP = &price
	}
	if d := prop.Details; d != (Details{}) {
		raw.Details = &PayloadDetails{
			Dorms:   d.Dorms.ptr(),
			Baths:   d.Baths.ptr(),
			AreaM2:  d.AreaM2.ptr(),
			Parking: d.Parking.ptr(),
		}
	}
	return raw
}

func (q Quantity) ptr() *float64 {
	if !q.Known {
		return nil
	}
	v := q.Value
	return &v
}
