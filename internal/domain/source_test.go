package domain

import (
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listings-web/models"
)

const fixture = "testdata/properties.json"

func TestFileSourceLoad(t *testing.T) {
	set, err := NewFileSource(fixture).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Corretaje Sur", set.Office.Brand)
	require.Len(t, set.Sales, 2)
	require.Len(t, set.Rentals, 1)
	assert.Equal(t, "V-101", set.Sales[0].ID)
	assert.Equal(t, models.ModeRent, set.Rentals[0].Mode)
	assert.False(t, set.Rentals[0].Details.Parking.Known)
}

func TestFileSourceRereadsOnEveryLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "properties.json")
	data, err := os.ReadFile(fixture)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	src := NewFileSource(path)
	first, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-05-02", first.Updated)

	require.NoError(t, os.WriteFile(path, []byte(`{"office":{"whatsapp":"1"},"sales":[],"rentals":[],"updated":"later"}`), 0o644))
	second, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "later", second.Updated)
}

func TestFileSourceErrors(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "missing.json")).Load(context.Background())
	require.ErrorIs(t, err, ErrSourceUnavailable)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"sales": []}`), 0o644))
	_, err = NewFileSource(bad).Load(context.Background())
	require.ErrorIs(t, err, models.ErrInvalidPayload)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewFileSource(fixture).Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestHTTPSourceBypassesCaches(t *testing.T) {
	data, err := os.ReadFile(fixture)
	require.NoError(t, err)

	var gotCacheControl, gotPragma string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCacheControl = r.Header.Get("Cache-Control")
		gotPragma = r.Header.Get("Pragma")
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}))
	defer srv.Close()

	set, err := NewHTTPSource(srv.URL+"/properties.json", srv.Client()).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, set.Sales, 2)
	assert.Contains(t, gotCacheControl, "no-cache")
	assert.Equal(t, "no-cache", gotPragma)
}

func TestHTTPSourceFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		default:
			w.Write([]byte(`<html>not json</html>`))
		}
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL+"/missing", srv.Client()).Load(context.Background())
	require.ErrorIs(t, err, ErrSourceUnavailable)

	_, err = NewHTTPSource(srv.URL+"/html", srv.Client()).Load(context.Background())
	require.ErrorIs(t, err, models.ErrInvalidPayload)

	_, err = NewHTTPSource("http://127.0.0.1:0/none", nil).Load(context.Background())
	require.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestCSVRepositorySave(t *testing.T) {
	set, err := NewFileSource(fixture).Load(context.Background())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "listings.csv")
	require.NoError(t, NewCSVRepository(path).Save(context.Background(), set))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 4)
	assert.Equal(t, "ID", records[0][0])
	assert.Equal(t, []string{"V-101", "sale", "Casa en condominio", "Reñaca", "245000000", "4", "3", "180", "2", "Vista al mar | Quincho", "https://images.corretajesur.cl/v101.jpg"}, records[1])
	assert.Equal(t, "—", records[2][5])
	assert.Equal(t, "rent", records[3][1])
	assert.Equal(t, "64.5", records[3][7])
}

func TestSourceFunc(t *testing.T) {
	want := &models.ListingSet{Updated: "x"}
	got, err := SourceFunc(func(context.Context) (*models.ListingSet, error) { return want, nil }).Load(context.Background())
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestCheckedRejectsMissingRequiredFields(t *testing.T) {
	good, err := NewFileSource(fixture).Load(context.Background())
	require.NoError(t, err)

	got, err := checked(good)
	require.NoError(t, err)
	assert.Equal(t, good, got)

	noContact := *good
	noContact.Office.WhatsApp = ""
	_, err = checked(&noContact)
	require.ErrorIs(t, err, models.ErrInvalidPayload)

	untitled := *good
	untitled.Sales = append([]models.Property(nil), good.Sales...)
	untitled.Sales[0].Title = ""
	_, err = checked(&untitled)
	require.ErrorIs(t, err, models.ErrInvalidPayload)
}
