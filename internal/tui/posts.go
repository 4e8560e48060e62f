package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/gerunddev/inkwell/internal/config"
	"github.com/gerunddev/inkwell/internal/post"
	"github.com/gerunddev/inkwell/internal/styles"
)

// PostsMsg is sent when the post list is ready
type PostsMsg struct {
	Posts []*post.Post
	Err   error
}

// PreviewMsg is sent when a post preview is ready
type PreviewMsg struct {
	Content string
	Err     error
}

// PreviewFunc renders a post for the preview pane
type PreviewFunc func(p *post.Post) (string, error)

type postsModel struct {
	table       table.Model
	viewport    viewport.Model
	filter      textinput.Model
	posts       []*post.Post
	visible     []*post.Post
	err         error
	ready       bool
	filtering   bool
	previewing  bool
	selected    *post.Post
	previewFunc PreviewFunc
}

// InitPostsModel creates the post browser. query pre-fills the filter.
func InitPostsModel(query string, previewFunc PreviewFunc) postsModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Title", Width: 40},
		{Title: "Tags", Width: 24},
		{Title: "Page", Width: 24},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(20),
	)

	ts := table.DefaultStyles()
	ts.Header = styles.TableHeaderStyle
	ts.Selected = styles.SelectedStyle
	t.SetStyles(ts)

	vp := viewport.New(100, 20)
	vp.Style = styles.ViewportStyle

	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter by title or tag"
	ti.SetValue(query)

	return postsModel{
		table:       t,
		viewport:    vp,
		filter:      ti,
		previewFunc: previewFunc,
	}
}

func (m postsModel) Init() tea.Cmd {
	return nil
}

func (m postsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 6

	case tea.KeyMsg:
		switch {
		case m.filtering:
			switch msg.String() {
			case "enter", "esc":
				m.filtering = false
				m.filter.Blur()
				m.table.Focus()
				return m, nil
			}
			m.filter, cmd = m.filter.Update(msg)
			m.applyFilter()
			return m, cmd

		case m.previewing:
			switch msg.String() {
			case "q", "esc":
				m.previewing = false
				return m, nil
			}
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd

		default:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "/":
				m.filtering = true
				m.table.Blur()
				return m, m.filter.Focus()
			case "enter", "p":
				idx := m.table.Cursor()
				if idx >= 0 && idx < len(m.visible) {
					m.selected = m.visible[idx]
					m.previewing = true
					m.viewport.SetContent(styles.DimStyle.Render("Rendering..."))
					return m, m.loadPreview(m.selected)
				}
				return m, nil
			}
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case PostsMsg:
		m.ready = true
		m.posts = msg.Posts
		m.err = msg.Err
		m.applyFilter()
		return m, nil

	case PreviewMsg:
		content := msg.Content
		if msg.Err != nil {
			content = styles.ErrorStyle.Render("✗ " + msg.Err.Error())
		}
		m.viewport.SetContent(content)
		m.viewport.GotoTop()
		return m, nil
	}

	return m, nil
}

func (m *postsModel) applyFilter() {
	m.visible = FilterPosts(m.posts, m.filter.Value())

	rows := make([]table.Row, 0, len(m.visible))
	for _, p := range m.visible {
		rows = append(rows, table.Row{
			p.Date.Format(config.DateLayout),
			p.Title,
			strings.Join(p.Tags, ", "),
			p.URL,
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(0)
	}
}

func (m postsModel) loadPreview(p *post.Post) tea.Cmd {
	return func() tea.Msg {
		if m.previewFunc == nil {
			return PreviewMsg{Content: string(p.Body)}
		}
		content, err := m.previewFunc(p)
		return PreviewMsg{Content: content, Err: err}
	}
}

func (m postsModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("Inkwell Posts"))
	b.WriteString("\n\n")

	if m.err != nil {
		return styles.ErrorStyle.Render("✗ Error: "+m.err.Error()) + "\n"
	}

	if !m.ready {
		return b.String()
	}

	if m.previewing && m.selected != nil {
		b.WriteString(styles.LabelStyle.Render(fmt.Sprintf("Preview: %s", m.selected.Title)))
		b.WriteString("\n\n")
		b.WriteString(m.viewport.View())
		b.WriteString("\n\n")
		b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • esc/q back"))
		b.WriteString("\n")
		return b.String()
	}

	count := fmt.Sprintf("Posts: %d", len(m.visible))
	if len(m.visible) != len(m.posts) {
		count = fmt.Sprintf("Posts: %d of %d", len(m.visible), len(m.posts))
	}
	b.WriteString(styles.LabelStyle.Render(count))
	if m.filtering || m.filter.Value() != "" {
		b.WriteString("  ")
		b.WriteString(m.filter.View())
	}
	b.WriteString("\n\n")
	b.WriteString(styles.TableStyle.Render(m.table.View()))
	b.WriteString("\n\n")
	if m.filtering {
		b.WriteString(styles.HelpStyle.Render("type to filter • enter/esc done"))
	} else {
		b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • / filter • enter/p preview • q quit"))
	}
	b.WriteString("\n")

	return b.String()
}

// FilterPosts returns the posts whose title or tags fuzzy-match query, best
// match first. An empty query returns posts unchanged.
func FilterPosts(posts []*post.Post, query string) []*post.Post {
	query = strings.TrimSpace(query)
	if query == "" {
		return posts
	}

	searchStrings := make([]string, len(posts))
	for i, p := range posts {
		searchStrings[i] = p.Title + " " + strings.Join(p.Tags, " ")
	}

	matches := fuzzy.Find(query, searchStrings)

	results := make([]*post.Post, 0, len(matches))
	for _, match := range matches {
		results = append(results, posts[match.Index])
	}
	return results
}
