package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	tabKey   = tea.KeyMsg{Type: tea.KeyTab}
)

func newTestApp(t *testing.T, store userStore) app {
	t.Helper()
	return app{
		ctx: context.Background(),
		h:   newTestHandler(t, store),
		st:  defaultStyles(),
	}
}

func filledSplash(a app, role Role, id, password string, focus splashFocus) splash {
	m := newSplash(a)
	m.role = role
	m.idInput.SetValue(id)
	m.pwInput.SetValue(password)
	m.setFocus(focus)
	return m
}

func typeText(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// switchTarget runs cmd and returns the view it hands off to, or nil.
func switchTarget(t *testing.T, cmd tea.Cmd) view {
	t.Helper()
	if cmd == nil {
		return nil
	}
	sw, ok := cmd().(switchViewMsg)
	if !ok {
		return nil
	}
	return sw.next
}

func TestSplash_Defaults(t *testing.T) {
	m := newSplash(newTestApp(t, newFakeStore(t)))

	assert.Equal(t, roleStudent, m.role)
	assert.Equal(t, focusID, m.focus)
	assert.True(t, m.idInput.Focused())
	assert.Equal(t, "User login", m.Title())
	assert.Contains(t, m.View(), "(•) Student")
}

func TestSplash_EmptyFieldsRefocus(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		password  string
		from      splashFocus
		wantFocus splashFocus
	}{
		{"empty identifier from password field", "", "test_pas_123", focusPassword, focusID},
		{"empty identifier from login button", "", "", focusLogin, focusID},
		{"empty password from password field", "s1001", "", focusPassword, focusPassword},
		{"empty password from login button", "s1001", "", focusLogin, focusPassword},
		{"empty password from role group", "s1001", "", focusRole, focusPassword},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			store := newFakeStore(t)
			m := filledSplash(newTestApp(t, store), roleStudent, test.id, test.password, test.from)

			v, cmd := m.Update(enterKey)
			got := v.(splash)

			assert.Equal(t, test.wantFocus, got.focus)
			assert.Nil(t, got.notice)
			assert.Nil(t, cmd)
			assert.Zero(t, store.lookups)
		})
	}
}

func TestSplash_EnterInIdentifierField(t *testing.T) {
	store := newFakeStore(t)
	a := newTestApp(t, store)

	// password still empty: move on to the password field
	m := filledSplash(a, roleStudent, "s1001", "", focusID)
	v, cmd := m.Update(enterKey)
	got := v.(splash)
	assert.Equal(t, focusPassword, got.focus)
	assert.True(t, got.pwInput.Focused())
	assert.Nil(t, cmd)
	assert.Zero(t, store.lookups)

	// password already typed: submit
	m = filledSplash(a, roleStudent, "s1001", "test_pas_123", focusID)
	_, cmd = m.Update(enterKey)
	assert.IsType(t, studentView{}, switchTarget(t, cmd))
	assert.Equal(t, 1, store.lookups)
}

func TestSplash_LoginFailures(t *testing.T) {
	tests := []struct {
		name      string
		role      Role
		id        string
		password  string
		storeErr  error
		wantTitle string
		wantText  string
	}{
		{"unknown student", roleStudent, "s404", "test_pas_123", nil, titleLoginFailed, textUserNotFound},
		{"unknown teacher", roleTeacher, "s1001", "test_pas_123", nil, titleLoginFailed, textUserNotFound},
		{"wrong password", roleStudent, "s1001", "wrong", nil, titleLoginFailed, textWrongPassword},
		{"no role", roleNone, "s1001", "test_pas_123", nil, titleException, textInvalidSelection},
		{"database down", roleStudent, "s1001", "test_pas_123", errors.New("dial tcp: refused"), titleLoginFailed, textDatabaseError},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			store := newFakeStore(t)
			store.err = test.storeErr
			m := filledSplash(newTestApp(t, store), test.role, test.id, test.password, focusPassword)

			v, cmd := m.Update(enterKey)
			got := v.(splash)

			assert.Nil(t, cmd)
			require.NotNil(t, got.notice)
			assert.Equal(t, test.wantTitle, got.notice.title)
			assert.Equal(t, test.wantText, got.notice.text)
			assert.Contains(t, got.View(), test.wantText)

			// the form keeps its input for correction
			assert.Equal(t, test.id, got.idInput.Value())
			assert.Equal(t, test.password, got.pwInput.Value())
		})
	}
}

func TestSplash_LoginHandsOffToRoleView(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		id       string
		password string
		from     splashFocus
	}{
		{"student via password field", roleStudent, "s1001", "test_pas_123", focusPassword},
		{"student via login button", roleStudent, "s1001", "test_pas_123", focusLogin},
		{"teacher via password field", roleTeacher, "t2001", "teach_pas_456", focusPassword},
		{"teacher via role group", roleTeacher, "t2001", "teach_pas_456", focusRole},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m := filledSplash(newTestApp(t, newFakeStore(t)), test.role, test.id, test.password, test.from)

			v, cmd := m.Update(enterKey)
			assert.Nil(t, v.(splash).notice)

			next := switchTarget(t, cmd)
			require.NotNil(t, next)

			var s session
			switch fv := next.(type) {
			case studentView:
				assert.Equal(t, roleStudent, test.role)
				s = fv.session
			case teacherView:
				assert.Equal(t, roleTeacher, test.role)
				s = fv.session
			default:
				t.Fatalf("unexpected follow-up view %T", next)
			}
			assert.Equal(t, test.id, s.user.ID())
			assert.Equal(t, test.role, s.user.Role())
			assert.NotEmpty(t, s.token)
		})
	}
}

func TestSplash_Register(t *testing.T) {
	a := newTestApp(t, newFakeStore(t))

	m := filledSplash(a, roleTeacher, "", "", focusRegister)
	_, cmd := m.Update(enterKey)
	next := switchTarget(t, cmd)
	require.IsType(t, registerView{}, next)
	assert.Equal(t, roleTeacher, next.(registerView).role)
	assert.Equal(t, "Register teacher", next.Title())

	m = filledSplash(a, roleNone, "", "", focusRegister)
	v, cmd := m.Update(enterKey)
	assert.Nil(t, cmd)
	got := v.(splash)
	require.NotNil(t, got.notice)
	assert.Equal(t, titleException, got.notice.title)
	assert.Equal(t, textInvalidSelection, got.notice.text)
}

func TestSplash_NoticeIsModal(t *testing.T) {
	store := newFakeStore(t)
	m := filledSplash(newTestApp(t, store), roleStudent, "s404", "pw", focusPassword)

	v, _ := m.Update(enterKey)
	require.NotNil(t, v.(splash).notice)

	// typing does not reach the form while the notice is shown
	v, _ = v.Update(typeText("x"))
	require.NotNil(t, v.(splash).notice)
	assert.Equal(t, "pw", v.(splash).pwInput.Value())

	v, _ = v.Update(enterKey)
	got := v.(splash)
	assert.Nil(t, got.notice)
	assert.Equal(t, 1, store.lookups)
	assert.Equal(t, "s404", got.idInput.Value())
}

func TestSplash_FocusCycleAndRole(t *testing.T) {
	m := newSplash(newTestApp(t, newFakeStore(t)))

	var v view = m
	want := []splashFocus{focusPassword, focusRole, focusRegister, focusLogin, focusID}
	for _, f := range want {
		v, _ = v.Update(tabKey)
		assert.Equal(t, f, v.(splash).focus)
	}

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, focusLogin, v.(splash).focus)

	m = v.(splash)
	m.setFocus(focusRole)
	v, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, roleTeacher, v.(splash).role)
	assert.True(t, strings.Contains(v.View(), "(•) Teacher"))
	v, _ = v.Update(typeText("s"))
	assert.Equal(t, roleStudent, v.(splash).role)
}

func TestSplash_TypingFillsFocusedField(t *testing.T) {
	m := newSplash(newTestApp(t, newFakeStore(t)))

	v, _ := m.Update(typeText("s1001"))
	v, _ = v.Update(tabKey)
	v, _ = v.Update(typeText("secret"))

	got := v.(splash)
	assert.Equal(t, "s1001", got.idInput.Value())
	assert.Equal(t, "secret", got.pwInput.Value())
	assert.NotContains(t, got.View(), "secret")
}
