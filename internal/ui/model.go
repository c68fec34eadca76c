package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"admingrid/internal/columns"
	"admingrid/internal/config"
	"admingrid/internal/filter"
	"admingrid/internal/grid"
	"admingrid/internal/model"
	"admingrid/internal/route"
	"admingrid/internal/source"
	"admingrid/internal/util/logx"
)

const drainPerTick = 500

// Options describe the screen the grid is mounted on.
type Options struct {
	Title string
	// Columns fixes the column set; when nil it is inferred from the
	// first rows loaded.
	Columns []grid.Column[model.Record]
	// Route is the current screen path. Together with a navigator it
	// makes rows clickable: enter navigates to Route/<row id>.
	Route     string
	Navigator route.Navigator
	// OnRowClick replaces route navigation entirely.
	OnRowClick func(model.Record)
}

type modalKind int

const (
	modalNone modalKind = iota
	modalHelp
	modalInspector
	modalLogs
)

type helpItem struct {
	group string
	text  string
	key   tea.Key
}

type loadedMsg struct {
	rows []model.Record
	err  error
}

type tickMsg struct{}

type Model struct {
	ctx  context.Context
	cfg  *config.Config
	opts Options

	// Data
	grid    *grid.Table[model.Record]
	ring    *model.Ring
	feed    <-chan model.Record
	errs    <-chan error
	loading bool
	loadErr error

	// UI
	tbl        table.Model
	filterIn   FilterInput
	sizes      PageSizeSelector
	pager      PaginationNav
	styles     Styles
	keymap     KeyMap
	selCol     int
	termWidth  int
	termHeight int
	clipboard  func(string)

	// status
	paused    bool
	rowsDirty bool
	lastMsg   string
	lastNav   string

	// Modal popup
	modalActive bool
	modalKind   modalKind
	modalVP     viewport.Model
	modalTitle  string
	modalBody   string
	helpItems   []helpItem
	helpSel     int
}

func New(ctx context.Context, cfg *config.Config, opts Options) (*Model, error) {
	if opts.Title == "" {
		opts.Title = "admingrid"
	}
	m := &Model{
		ctx:       ctx,
		cfg:       cfg,
		opts:      opts,
		styles:    NewStyles(cfg.Theme != config.ThemeLight),
		keymap:    DefaultKeyMap(),
		clipboard: copyToClipboard,
		loading:   true,
	}
	if cfg.Follow {
		m.ring = model.NewRing(cfg.MaxRows)
	}
	if m.opts.Navigator == nil && m.opts.Route != "" {
		m.opts.Navigator = route.NewRecorder(m.opts.Route)
	}
	m.filterIn = NewFilterInput("filter rows... (/regex/ allowed)", m.applyFilter)
	m.filterIn.SetValue(cfg.Filter)
	m.tbl = table.New(table.WithFocused(true), table.WithHeight(cfg.PageSize+1))
	ts := table.DefaultStyles()
	ts.Header = m.styles.TableStyles.Header
	ts.Cell = m.styles.TableStyles.Cell
	ts.Selected = m.styles.TableStyles.Selected
	if m.rowClick() == nil {
		ts.Selected = m.styles.TableStyles.ReadOnly
	}
	m.tbl.SetStyles(ts)
	m.modalVP = viewport.New(80, 20)
	if opts.Columns != nil {
		if err := m.initGrid(opts.Columns); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func Run(ctx context.Context, cfg *config.Config, opts Options) error {
	m, err := New(ctx, cfg, opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m *Model) Init() tea.Cmd {
	opt := m.cfg.SourceOptions()
	opt.Logger = logx.Logger()
	if m.cfg.Follow {
		m.feed, m.errs = source.Follow(m.ctx, opt)
		return tick()
	}
	ctx := m.ctx
	return func() tea.Msg {
		rows, err := source.Load(ctx, opt)
		return loadedMsg{rows: rows, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m *Model) initGrid(cols []grid.Column[model.Record]) error {
	g, err := grid.New(cols, grid.Options[model.Record]{
		PageSizes:  m.cfg.PageSizes,
		PageSize:   m.cfg.PageSize,
		Filter:     filter.Policy{Mode: m.cfg.FilterMode, CaseSensitive: m.cfg.CaseSensitive},
		RowID:      model.Record.ID,
		OnRowClick: m.rowClick(),
		Logger:     logx.Logger(),
	})
	if err != nil {
		return err
	}
	m.grid = g
	m.sizes = NewPageSizeSelector(g.PageSizes(), g.State().PageSize, m.applyPageSize)
	m.pager = NewPaginationNav(m.gotoPage)
	if q := m.filterIn.Value(); q != "" {
		if err := g.SetFilter(q); err != nil {
			m.lastMsg = err.Error()
		}
	}
	if st, err := grid.ParseSort(m.cfg.Sort); err != nil {
		m.lastMsg = err.Error()
	} else if st.Active() {
		if err := g.SetSort(st); err != nil {
			m.lastMsg = err.Error()
		}
	}
	m.refresh()
	return nil
}

// rowClick picks the click handler: the caller's callback, else route
// navigation, else nil for a read-only table.
func (m *Model) rowClick() func(model.Record) {
	if m.opts.OnRowClick != nil {
		return m.opts.OnRowClick
	}
	if m.opts.Navigator == nil {
		return nil
	}
	nav := route.NavigatorFunc(func(path string) {
		m.lastNav = path
		m.lastMsg = "→ " + path
		logx.Infof("navigate: %s", path)
		m.opts.Navigator.Navigate(path)
	})
	return route.RowClick(nav, m.opts.Route, model.Record.ID)
}

func (m *Model) setRows(rows []model.Record) error {
	if m.grid == nil {
		specs := columns.Infer(model.Discover(string(m.cfg.Source), rows))
		cols, err := columns.Build(specs)
		if err != nil {
			return err
		}
		if err := m.initGrid(cols); err != nil {
			return err
		}
	}
	m.grid.SetData(rows)
	m.refresh()
	return nil
}

func (m *Model) applyFilter(q string) error {
	if m.grid == nil {
		return nil
	}
	err := m.grid.SetFilter(q)
	m.refresh()
	return err
}

func (m *Model) applyPageSize(n int) error {
	if err := m.grid.SetPageSize(n); err != nil {
		return err
	}
	m.refresh()
	return nil
}

func (m *Model) gotoPage(i int) {
	m.grid.GotoPage(i)
	m.refresh()
}

// refresh pushes the grid's current page into the table widget.
func (m *Model) refresh() {
	if m.grid == nil {
		return
	}
	ncols := len(m.grid.Columns())
	if m.selCol >= ncols {
		m.selCol = max(ncols-1, 0)
	}
	rows := pageRows(m.grid)
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(headerColumns(m.grid, m.selCol))
	m.tbl.SetRows(rows)
	st := m.grid.State()
	h := st.PageSize + 1
	if m.termHeight > 0 {
		h = min(h, max(m.termHeight-6, 2))
	}
	m.tbl.SetHeight(h)
	if c := m.tbl.Cursor(); c >= len(rows) || c < 0 {
		m.tbl.SetCursor(max(len(rows)-1, 0))
	}
	m.pager.Sync(st)
}

func (m *Model) currentRow() (model.Record, bool) {
	if m.grid == nil {
		return nil, false
	}
	page := m.grid.Page()
	i := m.tbl.Cursor()
	if i < 0 || i >= len(page) {
		return nil, false
	}
	return page[i], true
}

// drain pulls pending rows and errors without blocking.
func (m *Model) drain() {
	for i := 0; i < drainPerTick; i++ {
		select {
		case rec, ok := <-m.feed:
			if !ok {
				m.feed = nil
				i = drainPerTick
				break
			}
			m.ring.Push(rec)
			m.rowsDirty = true
		default:
			i = drainPerTick
		}
	}
	for j := 0; j < 20; j++ {
		select {
		case err, ok := <-m.errs:
			if !ok {
				m.errs = nil
				return
			}
			m.lastMsg = err.Error()
			logx.Errorf("source: %v", err)
		default:
			return
		}
	}
}

func (m *Model) flush() {
	if !m.rowsDirty || m.paused {
		return
	}
	rows, _, _ := m.ring.Snapshot()
	if err := m.setRows(rows); err != nil {
		m.lastMsg = err.Error()
		return
	}
	m.rowsDirty = false
	m.loading = false
}

// Grid exposes the underlying table state.
func (m *Model) Grid() *grid.Table[model.Record] { return m.grid }

func (m *Model) Status() string { return m.lastMsg }

func (m *Model) sourceLabel() string {
	switch {
	case m.cfg.URL != "":
		return m.cfg.URL
	case m.cfg.FilePath == "-":
		return "stdin"
	case m.cfg.FilePath != "":
		return m.cfg.FilePath
	}
	return "demo"
}

func (m *Model) countLabel() string {
	if m.grid == nil {
		return ""
	}
	st := m.grid.State()
	if st.RowCount == st.TotalRows {
		return fmt.Sprintf("%d rows", st.TotalRows)
	}
	return fmt.Sprintf("%d of %d rows", st.RowCount, st.TotalRows)
}
