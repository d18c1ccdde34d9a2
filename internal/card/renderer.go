// Package card renders one listing as an HTML fragment.
package card

import (
	"fmt"
	"html/template"
	"strings"

	"listings-web/internal/format"
	"listings-web/internal/links"
	"listings-web/models"
)

// FallbackTeaser is shown when a listing has no highlights.
const FallbackTeaser = "Consultar detalles"

const (
	rentSuffix  = "/mes"
	saleMessage = "Hola, me interesa la propiedad %s (%s) en %s. ¿Me compartes más info?"
	rentMessage = "Hola, quiero consultar por arriendo %s (%s) en %s. ¿Disponibilidad y requisitos?"
)

const cardTemplate = `<article class="card prop" data-id="{{.ID}}">
  <div class="img">
    <img loading="lazy" src="{{.Image}}" alt="{{.Alt}}">
    <div class="badge">{{.Badge}}</div>
  </div>
  <div class="body">
    <h3>{{.Title}}</h3>
    <div class="loc">{{icon "pin"}} {{.Location}}</div>
    <div class="price">{{.Price}}</div>
    <div class="mini" aria-label="Detalles de la propiedad">{{range .Badges}}<span>{{icon .Key}} {{.Text}}</span>{{end}}</div>
    <div class="small teaser">{{.Teaser}}</div>
    <div class="actions">
      <a class="btn primary" href="{{.ChatURL}}" target="_blank" rel="noopener">Consultar por WhatsApp</a>
      <button class="btn" type="button" data-copy="{{.ID}}">Copiar ID</button>
    </div>
  </div>
</article>
`

type badge struct {
	Key  string
	Text string
}

type view struct {
	ID       string
	Title    string
	Location string
	Image    string
	Alt      string
	Badge    string
	Price    string
	Badges   []badge
	Teaser   string
	ChatURL  string
}

// Renderer turns properties into card markup.
type Renderer struct {
	fmt  *format.Formatter
	tmpl *template.Template
}

// New returns a renderer that prices listings with f. A nil f uses the
// default locale.
func New(f *format.Formatter) *Renderer {
	if f == nil {
		f = format.New(format.DefaultLocale)
	}
	tmpl := template.Must(template.New("card").Funcs(template.FuncMap{
		"icon": format.IconFor,
	}).Parse(cardTemplate))
	return &Renderer{fmt: f, tmpl: tmpl}
}

// Card renders p as it appears in the grid for mode.
func (r *Renderer) Card(p models.Property, mode models.Mode, office models.Office) (template.HTML, error) {
	var b strings.Builder
	if err := r.tmpl.Execute(&b, r.view(p, mode, office)); err != nil {
		return "", fmt.Errorf("render card %s: %w", p.ID, err)
	}
	return template.HTML(b.String()), nil
}

// Grid renders every property of one listing sequence, in order.
func (r *Renderer) Grid(props []models.Property, mode models.Mode, office models.Office) (template.HTML, error) {
	var b strings.Builder
	for _, p := range props {
		card, err := r.Card(p, mode, office)
		if err != nil {
			return "", err
		}
		b.WriteString(string(card))
	}
	return template.HTML(b.String()), nil
}

// Message is the chat text a visitor sends about p.
func Message(p models.Property, mode models.Mode) string {
	if mode == models.ModeRent {
		return fmt.Sprintf(rentMessage, p.ID, p.Title, p.Location)
	}
	return fmt.Sprintf(saleMessage, p.ID, p.Title, p.Location)
}

// PriceLabel is the formatted price for mode.
func (r *Renderer) PriceLabel(p models.Property, mode models.Mode) string {
	if mode == models.ModeRent {
		return r.fmt.Currency(p.Price) + rentSuffix
	}
	return r.fmt.Currency(p.Price)
}

func (r *Renderer) view(p models.Property, mode models.Mode, office models.Office) view {
	modeBadge := "Venta"
	if mode == models.ModeRent {
		modeBadge = "Arriendo"
	}
	d := p.Details
	return view{
		ID:       p.ID,
		Title:    p.Title,
		Location: p.Location,
		Image:    p.Image,
		Alt:      p.Title + " – " + p.Location,
		Badge:    modeBadge,
		Price:    r.PriceLabel(p, mode),
		Badges: []badge{
			{Key: "bed", Text: d.Dorms.Or(format.Placeholder) + "D"},
			{Key: "bath", Text: d.Baths.Or(format.Placeholder) + "B"},
			{Key: "area", Text: d.AreaM2.Or(format.Placeholder) + " m²"},
			{Key: "park", Text: d.Parking.Or(format.Placeholder) + " est."},
		},
		Teaser:  p.Teaser(FallbackTeaser),
		ChatURL: links.Chat(office.WhatsApp, Message(p, mode)),
	}
}
