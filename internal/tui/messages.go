package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rbarbosa/newsdeck/pkg/models"
)

// sessionExpiredMsg arrives whenever the session-expired event fires,
// from explicit logout or a 401 intercepted by the gateway.
type sessionExpiredMsg struct{}

// sessionResolvedMsg ends the startup profile resolution.
type sessionResolvedMsg struct{}

// loggedInMsg is emitted after a successful login or registration.
type loggedInMsg struct{}

// Navigation messages between views.
type openCollectionMsg struct{ id string }
type backToCollectionsMsg struct{}
type openReaderMsg struct{ article models.Article }
type closeReaderMsg struct{}
type openPickerMsg struct{ article models.Article }
type closePickerMsg struct{}

// toastMsg shows a transient notification in the status line.
type toastMsg struct {
	text  string
	isErr bool
}

type clearToastMsg struct{ seq int }

func toast(text string) tea.Cmd {
	return func() tea.Msg { return toastMsg{text: text} }
}

func toastError(text string) tea.Cmd {
	return func() tea.Msg { return toastMsg{text: text, isErr: true} }
}

const toastDuration = 3 * time.Second
