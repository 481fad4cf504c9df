// Package tui is the terminal front end: a bubbletea program that owns
// the braille map canvas, the trip timeline, and the album panel, and
// drives the mapview controller from key and mouse input.
package tui

import (
	list "github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	table "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"tripmap/internal/mapview"
	"tripmap/internal/overlay"
	"tripmap/internal/travel"
	"tripmap/internal/travel/client"
)

// Options carries the dependencies the model needs.
type Options struct {
	API       *client.Client
	Log       zerolog.Logger
	ArcPoints int
	// Overlay is optional base geometry (coastlines, borders) for the
	// canvas to draw under the routes.
	Overlay *overlay.Data
}

// eventBuf collects controller events raised while the model is inside
// an Update call. Model copies share the pointer, so events reach
// whichever copy drains next.
type eventBuf struct {
	display    travel.Item
	displaySet bool
	mode       mapview.Mode
	modeSet    bool
	err        error
}

type Model struct {
	width  int
	height int
	ready  bool // MapReady delivered after the first real size

	log zerolog.Logger
	api *client.Client

	reg    *mapview.Registry
	canvas *Canvas
	ctl    *mapview.Controller
	events *eventBuf

	// Timeline sidebar
	showTimeline bool
	timeline     list.Model
	lastFocusKey string

	// Trip selector overlay
	showTrips bool
	tripList  list.Model
	haveTrips bool

	// Albums overlay
	showAlbums bool
	albumsTbl  table.Model
	albumsFor  string

	spin     spinner.Model
	loading  bool
	autoload bool // fetch the trip list on startup

	errText string

	status      string
	helpVisible bool

	// hover state
	hovering     bool
	hoverPos     [2]float64 // lat, lng
	lastHoverKey string
}

// New wires the canvas, registry, renderer and controller together and
// returns a model that will fetch the trip list once it starts.
func New(opts Options) Model {
	log := opts.Log.With().Str("component", "tui").Logger()

	reg := mapview.NewRegistry()
	ren := mapview.NewRenderer(reg, opts.ArcPoints, opts.Log)
	canvas := NewCanvas(reg, opts.Log)
	canvas.SetBase(opts.Overlay)
	buf := &eventBuf{}
	events := mapview.Events{
		DisplayItemChanged: func(it travel.Item) { buf.display, buf.displaySet = it, true },
		ModeChanged:        func(mo mapview.Mode) { buf.mode, buf.modeSet = mo, true },
		RenderFailed:       func(err error) { buf.err = err },
	}
	ctl := mapview.NewController(canvas, reg, ren, events, opts.Log)

	m := Model{
		log:          log,
		api:          opts.API,
		reg:          reg,
		canvas:       canvas,
		ctl:          ctl,
		events:       buf,
		showTimeline: true,
		status:       "tripmap ready",
		helpVisible:  true,
		autoload:     opts.API != nil,
		loading:      opts.API != nil,
	}

	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.timeline = list.New(nil, d, 0, 0)
	m.timeline.Title = "Timeline"
	m.timeline.SetShowHelp(false)
	m.timeline.SetShowStatusBar(false)
	m.timeline.SetFilteringEnabled(true)

	td := list.NewDefaultDelegate()
	m.tripList = list.New(nil, td, 0, 0)
	m.tripList.Title = "Trips"
	m.tripList.SetShowHelp(false)
	m.tripList.SetShowStatusBar(false)
	m.tripList.SetFilteringEnabled(true)

	m.albumsTbl = table.New(table.WithFocused(true))
	m.albumsTbl.SetHeight(12)

	m.spin = spinner.New()
	m.spin.Spinner = spinner.Dot
	m.spin.Style = dimStyle

	return m
}

// NewWithRoute preloads a trip from a local JSON file instead of the
// backend; the trip list is not fetched at startup.
func NewWithRoute(opts Options, path string) (Model, error) {
	m := New(opts)
	trip, err := travel.LoadFile(path)
	if err != nil {
		return Model{}, err
	}
	m.autoload = false
	m.loading = false
	m.setTrip(trip)
	m.status = "loaded " + trip.Name
	return m, nil
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	if m.autoload && m.api != nil {
		cmds = append(cmds, m.spin.Tick, fetchTrips(m.api))
	}
	return tea.Batch(cmds...)
}

// setTrip installs a trip in the controller and rebuilds the timeline.
func (m *Model) setTrip(trip *travel.Trip) {
	m.ctl.SetTrip(trip)
	m.timeline.SetItems(timelineEntries(trip))
	m.timeline.Select(0)
	if trip != nil {
		m.timeline.Title = trip.Name
	}
	// Suppress focus-follows-cursor for the initial selection.
	m.lastFocusKey = ""
	if e, ok := m.timeline.SelectedItem().(timelineEntry); ok {
		m.lastFocusKey = e.item.ItemKey()
	}
	m.showAlbums = false
	m.albumsFor = ""
	m.drainEvents()
}

// drainEvents applies controller events buffered during the last
// controller calls.
func (m *Model) drainEvents() {
	b := m.events
	if b.modeSet {
		m.status = "mode: " + string(b.mode)
		b.modeSet = false
	}
	if b.displaySet {
		if b.display != nil {
			m.status = itemStatus(b.display)
		} else {
			m.status = "selection cleared"
		}
		b.displaySet = false
	}
	if b.err != nil {
		m.errText = b.err.Error()
		b.err = nil
	}
}
