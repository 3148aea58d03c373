package content

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "content.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteStore(db)
}

func TestGetBeforeFirstSave(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Get(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveThenGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := SiteContent{
		HeroTitle:       "Welcome",
		HeroDescription: "Fresh **ink**.",
		HeroButton:      "Shop now",
		SiteTitle:       "docushop",
		SiteDescription: "Stationery.",
	}
	require.NoError(t, store.Save(ctx, in))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, in.HeroTitle, got.HeroTitle)
	assert.Equal(t, in.HeroDescription, got.HeroDescription)
	assert.False(t, got.UpdatedAt.IsZero())

	// Second save replaces, never duplicates.
	in.HeroTitle = "Updated"
	require.NoError(t, store.Save(ctx, in))
	got, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Updated", got.HeroTitle)
}

func TestHeroHTMLRendersMarkdownSafely(t *testing.T) {
	c := SiteContent{HeroDescription: "Fresh **ink** <script>alert(1)</script>"}
	html := string(c.HeroHTML())
	assert.Contains(t, html, "<strong>ink</strong>")
	assert.NotContains(t, html, "<script>")
}

func TestDefaultIsPopulated(t *testing.T) {
	d := Default()
	assert.NotEmpty(t, d.HeroTitle)
	assert.NotEmpty(t, d.SiteTitle)
}
