package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rbarbosa/newsdeck/internal/render"
	"github.com/rbarbosa/newsdeck/pkg/models"
)

// readerModel is the article reading view.
type readerModel struct {
	renderer *render.ArticleRenderer
	article  models.Article
	content  string
}

func newReaderModel(renderer *render.ArticleRenderer) readerModel {
	return readerModel{renderer: renderer}
}

func (m readerModel) open(article models.Article, width int) readerModel {
	m.article = article
	out, err := m.renderer.Render(article, width)
	if err != nil {
		out = fmt.Sprintf("%s\n\n%s\n", article.Title, article.Description)
	}
	m.content = out
	return m
}

func (m readerModel) Update(msg tea.Msg) (readerModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "backspace":
			return m, func() tea.Msg { return closeReaderMsg{} }
		case "s":
			article := m.article
			return m, func() tea.Msg { return openPickerMsg{article: article} }
		}
	}
	return m, nil
}

func (m readerModel) View() string {
	return m.content + "\n" + helpStyle.Render("s: save to collection • esc: back")
}
