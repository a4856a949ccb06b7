// Package ui is the terminal shell around the reading pipeline. It owns key
// dispatch and screen rendering only; pagination, reflow and position
// tracking live in internal/layout.
package ui

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yuanying/tread/internal/epub"
	"github.com/yuanying/tread/internal/layout"
	"github.com/yuanying/tread/internal/state"
)

var (
	statusStyle = lipgloss.NewStyle().Reverse(true)
	menuStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	faintStyle    = lipgloss.NewStyle().Faint(true)
)

// statusBarHeight is the number of screen rows reserved below the page.
const statusBarHeight = 1

// App is the reader application model.
type App struct {
	book  *epub.Book
	nav   *layout.Navigator
	store *state.Store
	st    *state.ReaderState
	keys  KeyMap

	width  int
	height int

	showContents bool
	menuCursor   int
	showHelp     bool
	statusMsg    string
}

// NewApp wires the pipeline into a bubbletea model. The navigator should
// already be positioned (restored state applied by the caller).
func NewApp(book *epub.Book, nav *layout.Navigator, store *state.Store, st *state.ReaderState, keys KeyMap) *App {
	return &App{
		book:   book,
		nav:    nav,
		store:  store,
		st:     st,
		keys:   keys,
		width:  80,
		height: 24,
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.SetWindowTitle(fmt.Sprintf("tread - %s", a.book.Title))
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.nav.Resize(layout.Viewport{
			Width:  msg.Width,
			Height: max(1, msg.Height-statusBarHeight),
		})
		return a, nil

	case tea.KeyMsg:
		if a.showContents {
			return a.updateContents(msg)
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}
		return a.updateReader(msg)
	}
	return a, nil
}

func (a *App) updateReader(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.statusMsg = ""
	switch {
	case key.Matches(msg, a.keys.Quit):
		a.saveState()
		return a, tea.Quit

	case key.Matches(msg, a.keys.NextPage):
		a.boundary(a.nav.NextPage(), "end of book")

	case key.Matches(msg, a.keys.PrevPage):
		a.boundary(a.nav.PrevPage(), "start of book")

	case key.Matches(msg, a.keys.NextChapter):
		a.withHistory(func() error { return a.nav.NextChapter() }, "end of book")

	case key.Matches(msg, a.keys.PrevChapter):
		a.withHistory(func() error { return a.nav.PrevChapter() }, "start of book")

	case key.Matches(msg, a.keys.GotoStart):
		a.nav.FirstPage()

	case key.Matches(msg, a.keys.GotoEnd):
		a.nav.LastPage()

	case key.Matches(msg, a.keys.Back):
		pos, ok := a.st.Pop()
		if !ok {
			a.statusMsg = "no previous position"
			break
		}
		if err := a.nav.JumpTo(pos); err != nil {
			a.statusMsg = err.Error()
		}

	case key.Matches(msg, a.keys.Contents):
		a.showContents = true
		a.menuCursor = a.nav.Chapter()

	case key.Matches(msg, a.keys.Help):
		a.showHelp = true
	}
	return a, nil
}

func (a *App) updateContents(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.MenuClose):
		a.showContents = false

	case key.Matches(msg, a.keys.MenuUp):
		if a.menuCursor > 0 {
			a.menuCursor--
		}

	case key.Matches(msg, a.keys.MenuDown):
		if a.menuCursor < a.nav.ChapterCount()-1 {
			a.menuCursor++
		}

	case key.Matches(msg, a.keys.MenuSelect):
		a.showContents = false
		a.withHistory(func() error {
			return a.nav.JumpTo(layout.Position{Chapter: a.menuCursor})
		}, "")
	}
	return a, nil
}

// boundary turns ErrBoundary into a status message; anything else is
// unexpected and shown verbatim.
func (a *App) boundary(err error, msg string) {
	if err == nil {
		return
	}
	if msg != "" && errors.Is(err, layout.ErrBoundary) {
		a.statusMsg = msg
		return
	}
	a.statusMsg = err.Error()
}

// withHistory records the position before a jump so Back can return to it.
func (a *App) withHistory(jump func() error, boundaryMsg string) {
	before := a.nav.Position()
	if err := jump(); err != nil {
		a.boundary(err, boundaryMsg)
		return
	}
	a.st.Push(before)
}

// saveState writes the current position on session end. Persistence is
// best-effort: a failure is logged, never fatal.
func (a *App) saveState() {
	a.st.Position = a.nav.Position()
	if err := a.store.Save(state.BookID(a.book.Path), a.st); err != nil {
		log.Printf("warning: %v", err)
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if a.showContents {
		return a.viewContents()
	}
	if a.showHelp {
		return a.viewHelp()
	}

	var b strings.Builder
	page := a.nav.Current()
	for _, line := range page.Lines {
		b.WriteString(line.Text)
		b.WriteByte('\n')
	}
	// Short final pages leave the status bar pinned to the bottom row.
	for i := len(page.Lines); i < a.height-statusBarHeight; i++ {
		b.WriteByte('\n')
	}
	b.WriteString(a.statusBar())
	return b.String()
}

func (a *App) statusBar() string {
	left := fmt.Sprintf(" %s - %s", a.book.Title, a.nav.ChapterTitle(a.nav.Chapter()))
	right := fmt.Sprintf("ch %d/%d  pg %d/%d ",
		a.nav.Chapter()+1, a.nav.ChapterCount(),
		a.nav.PageIndex()+1, a.nav.PageCount(a.nav.Chapter()))
	if a.statusMsg != "" {
		right = a.statusMsg + "  " + right
	}

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return statusStyle.Render(left + strings.Repeat(" ", gap) + right)
}

func (a *App) viewContents() string {
	var b strings.Builder
	b.WriteString("Contents\n\n")
	for i := 0; i < a.nav.ChapterCount(); i++ {
		title := fmt.Sprintf("%2d  %s", i+1, a.nav.ChapterTitle(i))
		if i == a.menuCursor {
			b.WriteString(selectedStyle.Render(title))
		} else {
			b.WriteString(title)
		}
		b.WriteByte('\n')
	}
	b.WriteString(faintStyle.Render("\nenter: open  esc: close"))
	return menuStyle.Render(b.String())
}

func (a *App) viewHelp() string {
	rows := []string{
		"tread keys",
		"",
		"j / space     next page",
		"k             previous page",
		"n / p         next / previous chapter",
		"g / G         start / end of chapter",
		"c             contents",
		"B             back to previous position",
		"h / ?         this help",
		"q             quit",
		"",
		"press any key to close",
	}
	return menuStyle.Render(strings.Join(rows, "\n"))
}
