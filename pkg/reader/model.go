package reader

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

const defaultWrap = 80

// Option は Model の設定を変更します。
type Option func(*Model)

// WithURLResolver は画像の相対 URL を表示用の絶対 URL に変換する関数を設定します。
func WithURLResolver(fn func(string) string) Option {
	return func(m *Model) {
		if fn != nil {
			m.resolveURL = fn
		}
	}
}

// WithGlamourStyle は本文の描画スタイルを指定します ("dark", "light", "notty" など)。
func WithGlamourStyle(style string) Option {
	return func(m *Model) { m.glamourStyle = style }
}

type styles struct {
	title   lipgloss.Style
	page    lipgloss.Style
	image   lipgloss.Style
	missing lipgloss.Style
	help    lipgloss.Style
}

// Model はページをめくって読む bubbletea のモデルです。
type Model struct {
	nav          *Navigator
	resolveURL   func(string) string
	glamourStyle string
	width        int
	styles       styles
	rendered     map[int]string
}

// NewModel は表紙を開いた状態の Model を返します。
func NewModel(doc *domain.StoryDocument, opts ...Option) Model {
	m := Model{
		nav:        NewNavigator(doc),
		resolveURL: func(s string) string { return s },
		width:      defaultWrap,
		rendered:   make(map[int]string),
	}
	m.styles = styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e3dccb")).Background(lipgloss.Color("#2a1a10")).Padding(0, 1),
		page:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		image:   lipgloss.NewStyle().Foreground(lipgloss.Color("110")).Underline(true),
		missing: lipgloss.NewStyle().Foreground(lipgloss.Color("180")).Italic(true),
		help:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Navigator は内部のページ位置を返します。
func (m Model) Navigator() *Navigator { return m.nav }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 0 && msg.Width != m.width {
			m.width = msg.Width
			m.rendered = make(map[int]string)
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "right", "l", " ", "pgdown":
			m.nav.Next()
		case "left", "h", "pgup":
			m.nav.Prev()
		case "home", "g":
			m.nav.First()
		case "end", "G":
			m.nav.Last()
		}
	}
	return m, nil
}

func (m Model) View() string {
	view := m.nav.Current()

	var b strings.Builder
	b.WriteString(m.styles.title.Render(view.Title))
	b.WriteString("\n")

	if view.IsCover {
		b.WriteString(m.styles.page.Render("Capa"))
	} else {
		b.WriteString(m.styles.page.Render(fmt.Sprintf("Página %d de %d", view.Page+1, m.nav.TotalPages())))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderImage(view))
	b.WriteString("\n")

	if !view.IsCover {
		b.WriteString(m.renderText(view))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.help.Render("←/h anterior • →/l/espaço próxima • q sair"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderImage(view PageView) string {
	if !view.Resolved {
		return m.styles.missing.Render(fmt.Sprintf("[ilustração indisponível: %s]", view.Descriptor))
	}
	return m.styles.image.Render(m.resolveURL(view.ImageURL))
}

func (m Model) renderText(view PageView) string {
	if out, ok := m.rendered[view.Page]; ok {
		return out
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(m.width)}
	if m.glamourStyle != "" {
		opts = append(opts, glamour.WithStandardStyle(m.glamourStyle))
	} else {
		opts = append(opts, glamour.WithAutoStyle())
	}

	out := view.Text
	if r, err := glamour.NewTermRenderer(opts...); err == nil {
		if md, err := r.Render(view.Text); err == nil {
			out = md
		}
	}
	m.rendered[view.Page] = out
	return out
}

// Run はターミナルで物語を開き、利用者が閉じるまでブロックします。
func Run(ctx context.Context, doc *domain.StoryDocument, opts ...Option) error {
	p := tea.NewProgram(NewModel(doc, opts...), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
