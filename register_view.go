package main

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	regID = iota
	regName
	regPassword
	regConfirm
	regFieldCount
)

type registerView struct {
	a      app
	role   Role
	inputs [regFieldCount]textinput.Model
	focus  int
	notice *notice
}

func newRegisterView(a app, role Role) registerView {
	var inputs [regFieldCount]textinput.Model
	inputs[regID] = newTextInput("identifier")
	inputs[regName] = newTextInput("full name")
	inputs[regPassword] = newTextInput("password")
	inputs[regConfirm] = newTextInput("repeat password")
	for _, i := range []int{regPassword, regConfirm} {
		inputs[i].EchoMode = textinput.EchoPassword
		inputs[i].EchoCharacter = '•'
	}

	m := registerView{a: a, role: role, inputs: inputs}
	m.setFocus(regID)
	return m
}

func (m registerView) Init() tea.Cmd {
	return nil
}

func (m registerView) Title() string {
	if m.role == roleTeacher {
		return "Register teacher"
	}
	return "Register student"
}

func (m *registerView) setFocus(i int) {
	m.focus = i
	for j := range m.inputs {
		if j == i {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

func (m registerView) Update(msg tea.Msg) (view, tea.Cmd) {
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
		m.setFocus((m.focus + 1) % regFieldCount)
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.setFocus((m.focus + regFieldCount - 1) % regFieldCount)
		return m, nil
	case tea.KeyEsc:
		return m, switchTo(newSplash(m.a))
	case tea.KeyEnter:
		if m.focus < regConfirm {
			m.setFocus(m.focus + 1)
			return m, nil
		}
		return m.submit()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m registerView) submit() (view, tea.Cmd) {
	r := registration{
		role:     m.role,
		id:       m.inputs[regID].Value(),
		name:     m.inputs[regName].Value(),
		password: m.inputs[regPassword].Value(),
		confirm:  m.inputs[regConfirm].Value(),
	}

	err := m.a.h.register(m.a.ctx, r)
	switch {
	case err == nil:
		next := newSplash(m.a).withIdentity(strings.TrimSpace(r.id), m.role)
		next.notice = &notice{title: titleRegistered, text: "You can log in now"}
		return m, switchTo(next)
	case errors.Is(err, errEmptyID):
		m.setFocus(regID)
	case errors.Is(err, errEmptyName):
		m.setFocus(regName)
	case errors.Is(err, errEmptyPassword):
		m.setFocus(regPassword)
	case errors.Is(err, errPasswordTooLong):
		m.inputs[regPassword].SetValue("")
		m.inputs[regConfirm].SetValue("")
		m.setFocus(regPassword)
		m.notice = &notice{title: titleRegisterFailed, text: textPasswordTooLong}
	case errors.Is(err, errPasswordMismatch):
		m.inputs[regConfirm].SetValue("")
		m.setFocus(regConfirm)
		m.notice = &notice{title: titleRegisterFailed, text: "Passwords do not match"}
	case errors.Is(err, errUserAlreadyExists):
		m.setFocus(regID)
		m.notice = &notice{title: titleRegisterFailed, text: "User already exists"}
	case errors.Is(err, errInvalidRole):
		m.notice = &notice{title: titleException, text: textInvalidSelection}
	default:
		m.notice = &notice{title: titleRegisterFailed, text: textDatabaseError}
	}
	return m, nil
}

func (m registerView) View() string {
	st := m.a.st
	var b strings.Builder

	b.WriteString(st.Title.Render(m.Title()))
	b.WriteString("\n")

	labels := [regFieldCount]string{"ID:", "Name:", "PWD:", "Again:"}
	for i, ti := range m.inputs {
		l := st.Label.Render(labels[i])
		if i == m.focus {
			l = st.Focused.Render(l)
		}
		b.WriteString(l + " " + ti.View() + "\n")
	}

	if m.notice != nil {
		b.WriteString("\n")
		b.WriteString(m.notice.render(st))
	}

	b.WriteString("\n")
	b.WriteString(st.Help.Render("tab: next • enter: next/submit • esc: back"))
	return st.Panel.Render(b.String())
}
