package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type examsLoadedMsg struct {
	exams []studentExam
	err   error
}

type coursesLoadedMsg struct {
	courses []course
	err     error
}

func newListTable(columns []table.Column) table.Model {
	return table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
}

// studentView is shown after a student logs in.
type studentView struct {
	a       app
	session session
	table   table.Model
	loaded  bool
	err     error
}

func newStudentView(a app, s session) view {
	return studentView{
		a:       a,
		session: s,
		table: newListTable([]table.Column{
			{Title: "Course", Width: 30},
			{Title: "Points", Width: 8},
		}),
	}
}

func (m studentView) Title() string {
	return "Student: " + m.session.user.Name()
}

func (m studentView) Init() tea.Cmd {
	a, id := m.a, m.session.user.ID()
	return func() tea.Msg {
		exams, err := a.h.db.getStudentExams(a.ctx, id)
		return examsLoadedMsg{exams: exams, err: err}
	}
}

func (m studentView) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case examsLoadedMsg:
		m.loaded = true
		if msg.err != nil {
			m.a.h.log.Error("failed to get student exams", zap.String("id", m.session.user.ID()), zap.Error(msg.err))
			m.err = msg.err
			return m, nil
		}
		rows := make([]table.Row, 0, len(msg.exams))
		for _, e := range msg.exams {
			rows = append(rows, table.Row{e.CourseName, strconv.Itoa(e.Points)})
		}
		m.table.SetRows(rows)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m studentView) View() string {
	return renderFollowUp(m.a.st, m.session, "Exams", m.loaded, m.err, len(m.table.Rows()), m.table.View())
}

// teacherView is shown after a teacher logs in.
type teacherView struct {
	a       app
	session session
	table   table.Model
	loaded  bool
	err     error
}

func newTeacherView(a app, s session) view {
	return teacherView{
		a:       a,
		session: s,
		table: newListTable([]table.Column{
			{Title: "Course", Width: 30},
			{Title: "Seats", Width: 8},
		}),
	}
}

func (m teacherView) Title() string {
	return "Teacher: " + m.session.user.Name()
}

func (m teacherView) Init() tea.Cmd {
	a, id := m.a, m.session.user.ID()
	return func() tea.Msg {
		courses, err := a.h.db.getTeacherCourses(a.ctx, id)
		return coursesLoadedMsg{courses: courses, err: err}
	}
}

func (m teacherView) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case coursesLoadedMsg:
		m.loaded = true
		if msg.err != nil {
			m.a.h.log.Error("failed to get teacher courses", zap.String("id", m.session.user.ID()), zap.Error(msg.err))
			m.err = msg.err
			return m, nil
		}
		rows := make([]table.Row, 0, len(msg.courses))
		for _, c := range msg.courses {
			rows = append(rows, table.Row{c.Name, strconv.Itoa(c.NumberOfSeats)})
		}
		m.table.SetRows(rows)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m teacherView) View() string {
	return renderFollowUp(m.a.st, m.session, "Courses", m.loaded, m.err, len(m.table.Rows()), m.table.View())
}

func renderFollowUp(st styles, s session, heading string, loaded bool, err error, rows int, tableView string) string {
	var b strings.Builder

	b.WriteString(st.Title.Render(fmt.Sprintf("Welcome, %s", s.user.Name())))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s\n", s.user.Role(), s.user.ID()))
	if !s.expiresAt.IsZero() {
		b.WriteString(st.Blurred.Render("session valid until " + s.expiresAt.Format("15:04")))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(st.NoticeT.Render(heading))
	b.WriteString("\n")

	switch {
	case !loaded:
		b.WriteString("Loading...")
	case err != nil:
		b.WriteString(st.Error.Render(textDatabaseError))
	case rows == 0:
		b.WriteString("Nothing recorded yet.")
	default:
		b.WriteString(tableView)
	}

	b.WriteString("\n")
	b.WriteString(st.Help.Render("↑/↓: scroll • q: quit"))
	return st.Panel.Render(b.String())
}
