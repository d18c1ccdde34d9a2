package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listings-web/config"
	"listings-web/internal/domain"
	"listings-web/internal/page"
	"listings-web/internal/port"
	"listings-web/models"
)

func fixtureService(t *testing.T) *PageService {
	t.Helper()
	return NewPageService(domain.NewFileSource(filepath.Join("testdata", "properties.json")), config.Default(), port.NopLogger{})
}

type memoryRepo struct {
	saved *models.ListingSet
	err   error
}

func (r *memoryRepo) Save(_ context.Context, set *models.ListingSet) error {
	r.saved = set
	return r.err
}

type recordingClipboard struct{ text string }

func (c *recordingClipboard) WriteText(text string) error {
	c.text = text
	return nil
}

func TestBuildReadyPage(t *testing.T) {
	p, err := fixtureService(t).Build(context.Background())
	require.NoError(t, err)
	require.NoError(t, p.Err)

	assert.Equal(t, page.StateReady, p.State)
	assert.Contains(t, p.HTML, `data-id="V-101"`)
	assert.Contains(t, p.HTML, "$245.000.000")
}

func TestBuildShowsNoticeOnLoadFailure(t *testing.T) {
	boom := errors.New("boom")
	svc := NewPageService(domain.SourceFunc(func(context.Context) (*models.ListingSet, error) {
		return nil, boom
	}), config.Default(), port.NopLogger{})

	p, err := svc.Build(context.Background())
	require.NoError(t, err)
	assert.ErrorIs(t, p.Err, boom)
	assert.Equal(t, page.StateErrorShown, p.State)
	assert.NotContains(t, p.HTML, "article")
}

func TestBuildAppliesFetchTimeout(t *testing.T) {
	cfg := config.Default()
	svc := NewPageService(domain.SourceFunc(func(ctx context.Context) (*models.ListingSet, error) {
		deadline, ok := ctx.Deadline()
		assert.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(cfg.Data.FetchTimeout), deadline, time.Second)
		return nil, errors.New("stop here")
	}), cfg, port.NopLogger{})

	p, err := svc.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, page.StateErrorShown, p.State)
}

func TestPayloadReencodes(t *testing.T) {
	out, err := fixtureService(t).Payload(context.Background())
	require.NoError(t, err)

	p, err := models.DecodePayload(out)
	require.NoError(t, err)
	assert.Len(t, p.Sales, 2)
	assert.Len(t, p.Rentals, 1)
}

func TestExportSavesEverything(t *testing.T) {
	repo := &memoryRepo{}
	n, err := fixtureService(t).Export(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.NotNil(t, repo.saved)
	assert.Equal(t, "V-101", repo.saved.Sales[0].ID)

	_, err = fixtureService(t).Export(context.Background(), &memoryRepo{err: errors.New("disk full")})
	require.ErrorContains(t, err, "disk full")
}

func TestCopyWritesListingID(t *testing.T) {
	clip := &recordingClipboard{}
	require.NoError(t, fixtureService(t).Copy(context.Background(), "A-201", clip, nil))
	assert.Equal(t, "A-201", clip.text)

	err := fixtureService(t).Copy(context.Background(), `no"such`, clip, nil)
	require.ErrorContains(t, err, "no listing")
}

func TestWriteStatic(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, fixtureService(t).WriteStatic(context.Background(), dir))

	for _, name := range []string{"index.html", "properties.json", "assets/app.js", "assets/styles.css"} {
		_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name)))
		assert.NoError(t, err, name)
	}
	_, err := os.Stat(filepath.Join(dir, "assets", "index.html"))
	assert.True(t, os.IsNotExist(err))

	html, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(html), "V-102"))
}
