package main

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type splashFocus int

const (
	focusID splashFocus = iota
	focusPassword
	focusRole
	focusRegister
	focusLogin
	splashFocusCount
)

// followUpViews maps each role to the constructor of the screen shown after
// a successful login.
var followUpViews = map[Role]func(a app, s session) view{
	roleStudent: newStudentView,
	roleTeacher: newTeacherView,
}

type splash struct {
	a       app
	idInput textinput.Model
	pwInput textinput.Model
	role    Role
	focus   splashFocus
	notice  *notice
}

func newTextInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 64
	ti.Width = 24
	ti.Prompt = ""
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

func newSplash(a app) splash {
	pw := newTextInput("password")
	pw.EchoMode = textinput.EchoPassword
	pw.EchoCharacter = '•'

	m := splash{
		a:       a,
		idInput: newTextInput("identifier"),
		pwInput: pw,
		role:    roleStudent,
	}
	m.setFocus(focusID)
	return m
}

// withIdentity fills in the identifier and role, used when returning from
// registration.
func (m splash) withIdentity(id string, role Role) splash {
	m.idInput.SetValue(id)
	m.role = role
	m.setFocus(focusPassword)
	return m
}

func (m splash) Init() tea.Cmd {
	return nil
}

func (m splash) Title() string {
	return "User login"
}

func (m *splash) setFocus(f splashFocus) {
	m.focus = f
	m.idInput.Blur()
	m.pwInput.Blur()
	switch f {
	case focusID:
		m.idInput.Focus()
	case focusPassword:
		m.pwInput.Focus()
	}
}

func (m splash) Update(msg tea.Msg) (view, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.notice != nil {
		if dismissesNotice(key) {
			m.notice = nil
		}
		return m, nil
	}

	switch key.Type {
	case tea.KeyTab, tea.KeyDown:
		m.setFocus((m.focus + 1) % splashFocusCount)
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.setFocus((m.focus + splashFocusCount - 1) % splashFocusCount)
		return m, nil
	case tea.KeyEnter:
		return m.enter()
	case tea.KeyEsc:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusID:
		m.idInput, cmd = m.idInput.Update(msg)
	case focusPassword:
		m.pwInput, cmd = m.pwInput.Update(msg)
	case focusRole:
		switch key.String() {
		case "left", "right", " ", "h", "l":
			m.toggleRole()
		case "s":
			m.role = roleStudent
		case "t":
			m.role = roleTeacher
		}
	}
	return m, cmd
}

func (m *splash) toggleRole() {
	if m.role == roleStudent {
		m.role = roleTeacher
	} else {
		m.role = roleStudent
	}
}

// enter handles the enter key. In the identifier field it moves on to the
// password unless one is already typed; the register button registers; any
// other focus submits, the login button being the default.
func (m splash) enter() (view, tea.Cmd) {
	switch m.focus {
	case focusID:
		if m.pwInput.Value() == "" {
			m.setFocus(focusPassword)
			return m, nil
		}
		return m.submit()
	case focusRegister:
		return m.register()
	default:
		return m.submit()
	}
}

func (m splash) submit() (view, tea.Cmd) {
	s, err := m.a.h.login(m.a.ctx, m.role, m.idInput.Value(), m.pwInput.Value())
	switch {
	case err == nil:
		return m, switchTo(followUpViews[m.role](m.a, s))
	case errors.Is(err, errEmptyID):
		m.setFocus(focusID)
	case errors.Is(err, errEmptyPassword):
		m.setFocus(focusPassword)
	case errors.Is(err, errInvalidRole):
		m.notice = &notice{title: titleException, text: textInvalidSelection}
	case errors.Is(err, errUserNotFound):
		m.notice = &notice{title: titleLoginFailed, text: textUserNotFound}
	case errors.Is(err, errWrongPassword):
		m.notice = &notice{title: titleLoginFailed, text: textWrongPassword}
	default:
		m.notice = &notice{title: titleLoginFailed, text: textDatabaseError}
	}
	return m, nil
}

func (m splash) register() (view, tea.Cmd) {
	if !m.role.valid() {
		m.notice = &notice{title: titleException, text: textInvalidSelection}
		return m, nil
	}
	return m, switchTo(newRegisterView(m.a, m.role))
}

func (m splash) View() string {
	st := m.a.st
	var b strings.Builder

	b.WriteString(st.Title.Render(m.Title()))
	b.WriteString("\n")

	radio := func(r Role, label string) string {
		mark := "( )"
		if m.role == r {
			mark = "(•)"
		}
		s := mark + " " + label
		if m.focus == focusRole {
			return st.Focused.Render(s)
		}
		return s
	}
	b.WriteString(radio(roleStudent, "Student") + "  " + radio(roleTeacher, "Teacher"))
	b.WriteString("\n\n")

	field := func(label string, ti textinput.Model, focused bool) string {
		l := st.Label.Render(label)
		if focused {
			l = st.Focused.Render(l)
		}
		return l + " " + ti.View()
	}
	b.WriteString(field("ID:", m.idInput, m.focus == focusID))
	b.WriteString("\n")
	b.WriteString(field("PWD:", m.pwInput, m.focus == focusPassword))
	b.WriteString("\n\n")

	button := func(label string, focused bool) string {
		if focused {
			return st.ButtonOn.Render("[ " + label + " ]")
		}
		return st.Button.Render("[ " + label + " ]")
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		button("Register", m.focus == focusRegister),
		button("Login", m.focus == focusLogin),
	))

	if m.notice != nil {
		b.WriteString("\n\n")
		b.WriteString(m.notice.render(st))
	}

	b.WriteString("\n")
	b.WriteString(st.Help.Render("tab: next • ←/→: role • enter: login • esc: quit"))
	return st.Panel.Render(b.String())
}
