package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbarbosa/newsdeck/pkg/models"
)

func TestMarkdownIncludesTitleMetaAndLink(t *testing.T) {
	r := NewArticleRenderer()

	out := r.Markdown(models.Article{
		Title:       "Go 1.26 released",
		URL:         "https://example.com/go",
		Source:      "Example News",
		Author:      "A. Writer",
		PublishedAt: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
	})

	assert.Contains(t, out, "# Go 1.26 released")
	assert.Contains(t, out, "Example News")
	assert.Contains(t, out, "Mar 14, 2026")
	assert.Contains(t, out, "A. Writer")
	assert.Contains(t, out, "[Read the full story](https://example.com/go)")
}

func TestMarkdownConvertsHTMLDescription(t *testing.T) {
	r := NewArticleRenderer()

	out := r.Markdown(models.Article{
		Title:       "Title",
		URL:         "https://example.com",
		Description: "<p>Plain <strong>bold</strong> text</p>",
	})

	assert.Contains(t, out, "Plain **bold** text")
	assert.NotContains(t, out, "<p>")
}

func TestMarkdownSkipsEmptyMeta(t *testing.T) {
	r := NewArticleRenderer()

	out := r.Markdown(models.Article{Title: "Bare", URL: "https://example.com"})

	assert.NotContains(t, out, "*")
}

func TestRenderProducesStyledOutput(t *testing.T) {
	r := NewArticleRenderer()

	out, err := r.Render(models.Article{
		Title: "Title",
		URL:   "https://example.com",
	}, 60)

	require.NoError(t, err)
	assert.Contains(t, out, "Title")
}
