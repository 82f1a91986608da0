package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/GeekNeuron/OpenPos/internal/app"
	"github.com/GeekNeuron/OpenPos/internal/clients/positionapi"
	"github.com/GeekNeuron/OpenPos/internal/i18n"
	"github.com/GeekNeuron/OpenPos/internal/render"
	"github.com/GeekNeuron/OpenPos/internal/theme"
)

// Settings persists language and theme choices. *preferences.Store satisfies it.
type Settings interface {
	SetLanguage(lang string) error
	SetTheme(name string) error
}

// Config wires the model to its collaborators
type Config struct {
	State    *app.State
	Fetcher  app.Fetcher
	Settings Settings                    // Optional
	Progress <-chan positionapi.Progress // Optional retry notifications
	Language string
	Theme    string
	APIURL   string

	MaxWidth  int
	MaxHeight int

	Log zerolog.Logger
}

type Model struct {
	state    *app.State
	fetcher  app.Fetcher
	settings Settings
	progress <-chan positionapi.Progress
	log      zerolog.Logger
	apiURL   string

	tr *i18n.Translator
	th theme.Theme

	// Fetch
	loading     bool
	cancelFetch context.CancelFunc
	retryNote   string
	err         error
	lastUpdated time.Time

	// Display list
	empty render.EmptyState
	gen   uint64

	// UI state
	width     int
	height    int
	maxWidth  int
	maxHeight int
	ready     bool
	searching bool

	toast   string
	toastID int

	contentDirty bool
	scrollTop    bool

	// Components
	viewport viewport.Model
	search   textinput.Model
	spinner  spinner.Model
	help     help.Model
}

// Messages

// RefreshMsg asks the model to fetch positions again. It is sent by the
// refresh key and by the scheduler.
type RefreshMsg struct{}

type positionsMsg struct {
	token  uint64
	result app.LoadResult
	err    error
}

type progressMsg positionapi.Progress

type toastExpiredMsg struct {
	id int
}

const toastDuration = 4 * time.Second

// NewModel creates the root model
func NewModel(cfg Config) Model {
	search := textinput.New()
	search.Prompt = "/ "
	search.CharLimit = 32

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	m := Model{
		state:     cfg.State,
		fetcher:   cfg.Fetcher,
		settings:  cfg.Settings,
		progress:  cfg.Progress,
		log:       cfg.Log.With().Str("component", "ui").Logger(),
		apiURL:    cfg.APIURL,
		tr:        i18n.New(cfg.Language),
		th:        theme.ByName(cfg.Theme),
		maxWidth:  cfg.MaxWidth,
		maxHeight: cfg.MaxHeight,
		search:    search,
		spinner:   sp,
		help:      help.New(),
	}
	m.search.Placeholder = m.tr.T("search.placeholder", nil)
	m.search.SetValue(m.state.View().SymbolSearch)
	m.applyTheme()
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		func() tea.Msg { return RefreshMsg{} },
		m.spinner.Tick,
	}
	if m.progress != nil {
		cmds = append(cmds, waitProgress(m.progress))
	}
	return tea.Batch(cmds...)
}

// Commands

// startFetch cancels any in-flight fetch and starts a new generation
func (m *Model) startFetch() tea.Cmd {
	if m.cancelFetch != nil {
		m.cancelFetch()
	}
	token := m.state.BeginFetch()
	ctx, cancel := context.WithCancel(positionapi.WithFetchID(context.Background(), token))
	m.cancelFetch = cancel
	m.loading = true
	m.retryNote = ""

	fetcher, log := m.fetcher, m.log
	return func() tea.Msg {
		res, err := app.Load(ctx, fetcher, log)
		return positionsMsg{token: token, result: res, err: err}
	}
}

func waitProgress(ch <-chan positionapi.Progress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return progressMsg(p)
	}
}

func (m *Model) showToast(text string) tea.Cmd {
	m.toastID++
	m.toast = text
	id := m.toastID
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}
