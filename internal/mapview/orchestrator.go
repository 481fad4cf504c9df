package mapview

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"tripmap/internal/travel"
)

// RenderCooldown is how long the guard holds after a render completes,
// absorbing tightly-spaced re-renders from simultaneous state changes.
const RenderCooldown = 100 * time.Millisecond

// guardState serializes renders. Transitions through Controller.render
// are the only way to mutate it.
type guardState int

const (
	guardIdle guardState = iota
	guardRendering
	guardCooldown
)

// Events are the controller's outward callbacks. Nil callbacks are
// skipped. DisplayItemChanged fires when the display item's identity
// changes, including to nil.
type Events struct {
	DisplayItemChanged func(item travel.Item)
	ModeChanged        func(mode Mode)
	RenderFailed       func(err error)
}

// Controller owns the mode/selection state machine: it translates
// selection, focus, mode and data-refresh events into renders and
// framing commands. Not safe for concurrent use; the UI event loop
// serializes access, matching the single-threaded model the render
// guard assumes.
type Controller struct {
	m      Map
	reg    *Registry
	ren    *Renderer
	events Events
	log    zerolog.Logger

	now func() time.Time

	trip    *travel.Trip
	mode    Mode
	active  travel.Item
	focused travel.Item

	guard      guardState
	guardUntil time.Time
	// pending records a render that was dropped (guard) or deferred
	// (map not ready); Flush and MapReady retry it.
	pending bool

	deb Debouncer

	lastDisplayKey string
	lastMode       Mode
}

// NewController wires the state machine to its map, registry and
// renderer. The initial mode is world.
func NewController(m Map, reg *Registry, ren *Renderer, events Events, log zerolog.Logger) *Controller {
	return &Controller{
		m:        m,
		reg:      reg,
		ren:      ren,
		events:   events,
		log:      log,
		now:      time.Now,
		mode:     ModeWorld,
		lastMode: ModeWorld,
	}
}

// Mode returns the current view mode.
func (c *Controller) Mode() Mode { return c.mode }

// Trip returns the current trip, possibly nil.
func (c *Controller) Trip() *travel.Trip { return c.trip }

// ActiveItem returns the pointer-selected item, or nil.
func (c *Controller) ActiveItem() travel.Item { return c.active }

// FocusedItem returns the keyboard-focused item, or nil.
func (c *Controller) FocusedItem() travel.Item { return c.focused }

// DisplayItem is the single item framed and highlighted: the active
// item when set, else the focused one, else nil.
func (c *Controller) DisplayItem() travel.Item {
	if c.active != nil {
		return c.active
	}
	return c.focused
}

// SelectItem handles a pointer selection: the item becomes active, any
// keyboard focus is dropped, and the view goes local.
func (c *Controller) SelectItem(item travel.Item) {
	if item == nil {
		return
	}
	c.active, c.focused = item, nil
	c.mode = ModeLocal
	c.commit()
}

// FocusItem handles keyboard navigation: the item becomes focused, any
// pointer selection is dropped, and the view goes local.
func (c *Controller) FocusItem(item travel.Item) {
	if item == nil {
		return
	}
	c.active, c.focused = nil, item
	c.mode = ModeLocal
	c.commit()
}

// CloseDetail clears whichever of active/focused is set. The mode is
// untouched: a local view with nothing selected renders empty until
// the next selection or mode switch.
func (c *Controller) CloseDetail() {
	if c.active == nil && c.focused == nil {
		return
	}
	c.active, c.focused = nil, nil
	c.commit()
}

// SetMode switches the view mode. Switching to local without a display
// item is ignored: local frames an item, and there is nothing to frame.
func (c *Controller) SetMode(mode Mode) {
	switch mode {
	case ModeWorld, ModeRegion, ModeLocal:
	default:
		c.log.Warn().Str("mode", string(mode)).Msg("ignoring unknown view mode")
		return
	}
	if mode == c.mode {
		return
	}
	if mode == ModeLocal && c.DisplayItem() == nil {
		c.log.Warn().Msg("ignoring switch to local mode with nothing selected")
		return
	}
	c.mode = mode
	c.commit()
}

// SetTrip installs a refreshed trip, rebinding active/focused by item
// key before the next render; items that no longer exist are cleared.
// A nil trip clears everything drawn.
func (c *Controller) SetTrip(trip *travel.Trip) {
	c.trip = trip
	if trip == nil {
		c.active, c.focused = nil, nil
	} else {
		if c.active != nil {
			c.active = trip.Item(c.active.ItemKey())
		}
		if c.focused != nil {
			c.focused = trip.Item(c.focused.ItemKey())
		}
	}
	c.commit()
}

// MapReady attaches the layer groups and performs the first render, or
// retries one that ran before the map was up.
func (c *Controller) MapReady() {
	c.reg.Attach()
	c.commit()
}

// Flush retries a dropped render once the guard has released. The UI
// calls it on its tick; between state changes it is a no-op.
func (c *Controller) Flush() {
	if c.pending {
		c.commit()
	}
}

// Dispose tears the layer groups down on shutdown.
func (c *Controller) Dispose() {
	c.reg.Dispose()
}

// commit applies the current state: render, frame, re-measure, then
// notify listeners of identity changes.
func (c *Controller) commit() {
	c.render()
	c.frame()
	c.m.InvalidateSize()
	c.emit()
}

func (c *Controller) render() {
	if c.guard == guardCooldown && !c.now().Before(c.guardUntil) {
		c.guard = guardIdle
	}
	if c.guard != guardIdle {
		c.pending = true
		c.log.Debug().Str("mode", string(c.mode)).Msg("render dropped by guard")
		return
	}

	c.guard = guardRendering
	err := c.ren.Render(c.trip, c.mode, c.DisplayItem())
	if errors.Is(err, ErrLayerUnavailable) {
		// Nothing was drawn or cleared; no cooldown to honor.
		c.guard = guardIdle
		c.pending = true
		c.log.Debug().Msg("layers not attached; render deferred until map ready")
		return
	}
	c.guard = guardCooldown
	c.guardUntil = c.now().Add(RenderCooldown)

	if err != nil {
		c.pending = false
		c.log.Error().Err(err).Str("mode", string(c.mode)).Msg("render failed")
		if c.events.RenderFailed != nil {
			c.events.RenderFailed(err)
		}
		return
	}
	c.pending = false
}

// frame issues the viewport command for the current state: fixed views
// for world and region, a debounced fitBounds for local.
func (c *Controller) frame() {
	if c.trip == nil {
		return
	}
	switch c.mode {
	case ModeWorld:
		c.m.SetView(WorldCenter, WorldZoom, true)

	case ModeRegion:
		region := c.trip.FocusRegion()
		c.m.SetView(region.Center, region.Zoom, true)

	case ModeLocal:
		item := c.DisplayItem()
		if item == nil {
			return
		}
		b, err := ItemBounds(item)
		if err != nil {
			c.log.Warn().Err(err).Str("item", item.ItemKey()).Msg("cannot frame item")
			return
		}
		rule := RuleFor(item)
		opts := FitOptions{
			PadX:    rule.PadX,
			PadY:    rule.PadY,
			MaxZoom: rule.MaxZoom,
			MinZoom: rule.MinZoom,
			Animate: true,
		}
		seg, isSegment := item.(*travel.Segment)
		flight := isSegment && seg.Type == travel.TypeFlight
		target := c.m.BoundsZoom(b, opts)
		if !c.deb.ShouldFit(c.now(), item.ItemKey(), flight, c.m.Zoom(), target) {
			c.log.Debug().Str("item", item.ItemKey()).Msg("framing debounced")
			return
		}
		c.m.FitBounds(b, opts)
	}
}

func (c *Controller) emit() {
	if key := displayKey(c.DisplayItem()); key != c.lastDisplayKey {
		c.lastDisplayKey = key
		if c.events.DisplayItemChanged != nil {
			c.events.DisplayItemChanged(c.DisplayItem())
		}
	}
	if c.mode != c.lastMode {
		c.lastMode = c.mode
		if c.events.ModeChanged != nil {
			c.events.ModeChanged(c.mode)
		}
	}
}

func displayKey(item travel.Item) string {
	if item == nil {
		return ""
	}
	return item.ItemKey()
}
