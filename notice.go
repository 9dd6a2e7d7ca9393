package main

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	titleLoginFailed     = "Login failed"
	titleException       = "Exception occurred"
	titleRegisterFailed  = "Registration failed"
	titleRegistered      = "Registration complete"
	textUserNotFound     = "User not found"
	textWrongPassword    = "Wrong password"
	textInvalidSelection = "Invalid selection: no role chosen"
	textDatabaseError    = "Database error, see log for details"
	textPasswordTooLong  = "Password is too long (72 bytes at most)"
)

// notice is a modal message box. While one is shown the owning view only
// listens for the keys that dismiss it.
type notice struct {
	title string
	text  string
}

func dismissesNotice(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc, tea.KeySpace:
		return true
	}
	return false
}

func (n *notice) render(st styles) string {
	var b strings.Builder
	b.WriteString(st.NoticeT.Render(n.title))
	b.WriteString("\n")
	b.WriteString(n.text)
	b.WriteString("\n\n")
	b.WriteString(st.Blurred.Render("enter: ok"))
	return st.Notice.Render(b.String())
}
