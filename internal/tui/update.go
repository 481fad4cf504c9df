package tui

import (
	"fmt"

	list "github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"tripmap/internal/mapview"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		ls := m.layout()
		m.canvas.SetSize(ls.mapW, ls.mapH)
		m.timeline.SetSize(sidebarWidth-2, ls.contentH)
		m.tripList.SetSize(min(46, ls.contentW-8), min(14, ls.contentH-4))
		if !m.ready && ls.mapW > 0 && ls.mapH > 0 {
			m.ready = true
			m.ctl.MapReady()
			m.drainEvents()
		}
		return m, nil

	case tickMsg:
		// The tick drains renders the guard deferred and steps viewport
		// transitions.
		m.ctl.Flush()
		m.canvas.Step()
		m.drainEvents()
		return m, tickCmd()

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tripsMsg:
		m.loading = false
		m.haveTrips = true
		if len(msg.trips) == 1 {
			m.loading = true
			return m, tea.Batch(m.spin.Tick, fetchTrip(m.api, msg.trips[0].ID))
		}
		m.tripList.SetItems(tripEntries(msg.trips))
		m.showTrips = true
		m.status = fmt.Sprintf("%d trips", len(msg.trips))
		return m, nil

	case tripMsg:
		m.loading = false
		m.showTrips = false
		m.errText = ""
		m.setTrip(msg.trip)
		m.status = "loaded " + msg.trip.Name
		return m, nil

	case albumsMsg:
		m.loading = false
		// Drop a response that raced a selection change.
		if di := m.ctl.DisplayItem(); di == nil || di.ItemKey() != msg.itemKey {
			return m, nil
		}
		cols, rows := albumTable(msg.albums, msg.media)
		m.albumsTbl.SetRows(nil)
		m.albumsTbl.SetColumns(cols)
		m.albumsTbl.SetRows(rows)
		m.albumsFor = msg.itemKey
		m.showAlbums = true
		return m, nil

	case errMsg:
		m.loading = false
		m.errText = msg.err.Error()
		m.log.Error().Err(msg.err).Msg("fetch failed")
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The trip selector captures input while open.
	if m.showTrips {
		if m.tripList.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.tripList, cmd = m.tripList.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "esc", "t":
			m.showTrips = false
			return m, nil
		case "enter":
			if e, ok := m.tripList.SelectedItem().(tripEntry); ok {
				m.showTrips = false
				m.loading = true
				m.status = "loading " + e.title
				return m, tea.Batch(m.spin.Tick, fetchTrip(m.api, e.id))
			}
			return m, nil
		case "ctrl+c", "q":
			m.ctl.Dispose()
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.tripList, cmd = m.tripList.Update(msg)
		return m, cmd
	}

	// So does the albums panel.
	if m.showAlbums {
		switch msg.String() {
		case "esc", "a":
			m.showAlbums = false
			return m, nil
		case "ctrl+c", "q":
			m.ctl.Dispose()
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.albumsTbl, cmd = m.albumsTbl.Update(msg)
		return m, cmd
	}

	// While the timeline is filtering, it gets every key.
	if m.showTimeline && m.timeline.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.timeline, cmd = m.timeline.Update(msg)
		m.focusCursor()
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.ctl.Dispose()
		return m, tea.Quit

	case "tab":
		m.showTimeline = !m.showTimeline
		ls := m.layout()
		m.canvas.SetSize(ls.mapW, ls.mapH)

	case "t":
		if !m.haveTrips {
			if m.api == nil {
				m.status = "no backend configured"
				return m, nil
			}
			m.loading = true
			m.status = "loading trips"
			return m, tea.Batch(m.spin.Tick, fetchTrips(m.api))
		}
		m.showTrips = true

	case "1", "w":
		m.ctl.SetMode(mapview.ModeWorld)
		m.drainEvents()

	case "2":
		m.ctl.SetMode(mapview.ModeRegion)
		m.drainEvents()

	case "3":
		m.ctl.SetMode(mapview.ModeLocal)
		m.drainEvents()
		if m.ctl.Mode() != mapview.ModeLocal {
			m.status = "local mode needs a selected item"
		}

	case "enter":
		if e, ok := m.timeline.SelectedItem().(timelineEntry); ok && m.showTimeline {
			m.ctl.SelectItem(e.item)
			m.lastFocusKey = e.item.ItemKey()
			m.drainEvents()
		}

	case " ":
		if e, ok := m.timeline.SelectedItem().(timelineEntry); ok && m.showTimeline {
			m.ctl.FocusItem(e.item)
			m.lastFocusKey = e.item.ItemKey()
			m.drainEvents()
		}

	case "esc":
		if m.errText != "" {
			m.errText = ""
			return m, nil
		}
		m.ctl.CloseDetail()
		m.drainEvents()

	case "a":
		di := m.ctl.DisplayItem()
		trip := m.ctl.Trip()
		switch {
		case di == nil:
			m.status = "select an item first"
		case m.api == nil || trip == nil || trip.ID == "":
			m.status = "albums need the backend"
		case m.albumsFor == di.ItemKey():
			m.showAlbums = true
		default:
			m.loading = true
			m.status = "loading albums"
			return m, tea.Batch(m.spin.Tick, fetchAlbums(m.api, trip.ID, di))
		}

	case "r":
		m.errText = ""
		if m.api == nil {
			return m, nil
		}
		m.loading = true
		if trip := m.ctl.Trip(); trip != nil && trip.ID != "" {
			m.status = "reloading " + trip.Name
			return m, tea.Batch(m.spin.Tick, fetchTrip(m.api, trip.ID))
		}
		m.status = "loading trips"
		return m, tea.Batch(m.spin.Tick, fetchTrips(m.api))

	case "b":
		if !m.canvas.HasBase() {
			m.status = "no base layer loaded (start with -overlay)"
			return m, nil
		}
		if m.canvas.ToggleBase() {
			m.status = "base layer on"
		} else {
			m.status = "base layer off"
		}

	case "h":
		m.helpVisible = !m.helpVisible

	case "+", "=":
		m.canvas.ZoomBy(1)
		m.status = fmt.Sprintf("zoom %.0f", m.canvas.Zoom())

	case "-", "_":
		m.canvas.ZoomBy(-1)
		m.status = fmt.Sprintf("zoom %.0f", m.canvas.Zoom())

	case "left":
		m.canvas.Pan(-2, 0)

	case "right":
		m.canvas.Pan(2, 0)

	case "up", "down":
		if m.showTimeline {
			var cmd tea.Cmd
			m.timeline, cmd = m.timeline.Update(msg)
			m.focusCursor()
			return m, cmd
		}
		if msg.String() == "up" {
			m.canvas.Pan(0, -1)
		} else {
			m.canvas.Pan(0, 1)
		}

	default:
		if m.showTimeline {
			var cmd tea.Cmd
			m.timeline, cmd = m.timeline.Update(msg)
			m.focusCursor()
			return m, cmd
		}
	}
	return m, nil
}

// focusCursor keeps the map focus on the item under the timeline
// cursor.
func (m *Model) focusCursor() {
	if m.ctl.Trip() == nil {
		return
	}
	e, ok := m.timeline.SelectedItem().(timelineEntry)
	if !ok {
		return
	}
	key := e.item.ItemKey()
	if key == m.lastFocusKey {
		return
	}
	m.lastFocusKey = key
	m.ctl.FocusItem(e.item)
	m.drainEvents()
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	ls := m.layout()
	cx := msg.X - ls.mapX
	cy := msg.Y - ls.mapY
	if cx < 0 || cx >= ls.mapW || cy < 0 || cy >= ls.mapH {
		m.hovering = false
		return m, nil
	}
	m.hovering = true
	if p, ok := m.canvas.LatLngAt(cx, cy); ok {
		m.hoverPos = [2]float64{p.Lat, p.Lng}
	}

	if msg.Action == tea.MouseActionPress {
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.canvas.ZoomBy(1)
			return m, nil
		case tea.MouseButtonWheelDown:
			m.canvas.ZoomBy(-1)
			return m, nil
		}
	}

	key := m.canvas.HitTest(cx, cy)
	if trip := m.ctl.Trip(); key != "" && trip != nil {
		if it := trip.Item(key); it != nil {
			click := msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft
			switch {
			case click:
				m.ctl.SelectItem(it)
				m.lastFocusKey = key
				m.drainEvents()
			case key != m.lastHoverKey:
				m.ctl.FocusItem(it)
				m.drainEvents()
			}
		}
	}
	m.lastHoverKey = key
	return m, nil
}
