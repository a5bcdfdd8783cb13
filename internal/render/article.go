// Package render formats an article for the terminal reading view.
// Provider descriptions frequently carry HTML fragments; they get
// converted to markdown first so glamour can style them.
package render

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/charmbracelet/glamour"

	"github.com/rbarbosa/newsdeck/pkg/models"
)

type ArticleRenderer struct {
	converter *md.Converter
}

func NewArticleRenderer() *ArticleRenderer {
	return &ArticleRenderer{converter: md.NewConverter("", true, nil)}
}

// Markdown builds the markdown document for an article.
func (r *ArticleRenderer) Markdown(article models.Article) string {
	var s strings.Builder

	s.WriteString(fmt.Sprintf("# %s\n\n", article.Title))

	meta := []string{}
	if article.Source != "" {
		meta = append(meta, article.Source)
	}
	if !article.PublishedAt.IsZero() {
		meta = append(meta, article.PublishedAt.Format("Jan 2, 2006"))
	}
	if article.Author != "" {
		meta = append(meta, article.Author)
	}
	if len(meta) > 0 {
		s.WriteString(fmt.Sprintf("*%s*\n\n", strings.Join(meta, " · ")))
	}

	if article.Description != "" {
		desc, err := r.converter.ConvertString(article.Description)
		if err != nil {
			desc = article.Description
		}
		s.WriteString(desc)
		s.WriteString("\n\n")
	}

	s.WriteString(fmt.Sprintf("[Read the full story](%s)\n", article.URL))

	return s.String()
}

// Render produces the styled terminal output for an article, wrapped to
// the given width.
func (r *ArticleRenderer) Render(article models.Article, width int) (string, error) {
	if width <= 0 {
		width = 80
	}

	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}

	out, err := tr.Render(r.Markdown(article))
	if err != nil {
		return "", fmt.Errorf("rendering article: %w", err)
	}
	return out, nil
}
