// Package editor turns pointer and key events into graph edits.
//
// A Controller owns the graph, the renderer and the surface it paints to.
// Every mutation is followed by a full repaint. Adding a transition needs a
// symbol from the user; rather than blocking for it the controller parks in
// PendingLabel and waits for SupplyLabel or CancelLabel.
package editor

import (
	"errors"
	"log/slog"

	"github.com/ha1tch/fsm-canvas/pkg/graph"
	"github.com/ha1tch/fsm-canvas/pkg/render"
)

// Mode is the controller's interaction state.
type Mode int

const (
	ModeIdle Mode = iota
	ModeMovingState
	ModeDrawingTransition
	ModePendingLabel
	ModeDeleting
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeMovingState:
		return "moving"
	case ModeDrawingTransition:
		return "drawing"
	case ModePendingLabel:
		return "label"
	case ModeDeleting:
		return "delete"
	default:
		return "unknown"
	}
}

// ErrNoPendingLabel is returned by SupplyLabel when no transition is
// waiting for a symbol.
var ErrNoPendingLabel = errors.New("no transition awaiting a label")

// Controller is single-threaded: call it only from the UI event loop.
type Controller struct {
	g       *graph.Graph
	r       *render.Renderer
	surface render.Surface
	log     *slog.Logger

	mode      Mode
	held      string // state being moved
	from, to  string // edge being drawn or awaiting its label
	preview   *render.Preview
	deleteKey string

	onLabel  func(from, to string)
	onChange func(*graph.Graph)
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for rejected gestures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithRenderer replaces the default renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(c *Controller) {
		if r != nil {
			c.r = r
		}
	}
}

// WithDeleteKey sets the key held for delete mode.
func WithDeleteKey(key string) Option {
	return func(c *Controller) {
		if key != "" {
			c.deleteKey = key
		}
	}
}

// OnLabelRequest registers the callback fired when a transition needs its
// symbol. The callback must not block; answer later with SupplyLabel.
func OnLabelRequest(fn func(from, to string)) Option {
	return func(c *Controller) { c.onLabel = fn }
}

// OnChange registers a hook fired after every graph mutation.
func OnChange(fn func(*graph.Graph)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// New creates a controller editing g and painting to s. A nil g starts
// with an empty graph.
func New(g *graph.Graph, s render.Surface, opts ...Option) *Controller {
	if g == nil {
		g = graph.New()
	}
	c := &Controller{
		g:         g,
		r:         render.New(),
		surface:   s,
		log:       slog.New(slog.DiscardHandler),
		deleteKey: DefaultDeleteKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Graph returns the model being edited.
func (c *Controller) Graph() *graph.Graph { return c.g }

// Mode returns the current interaction state.
func (c *Controller) Mode() Mode { return c.mode }

// Pending returns the endpoints of the transition awaiting a symbol.
func (c *Controller) Pending() (from, to string, ok bool) {
	if c.mode != ModePendingLabel {
		return "", "", false
	}
	return c.from, c.to, true
}

// Repaint redraws the scene.
func (c *Controller) Repaint() {
	if c.surface == nil {
		return
	}
	c.r.Paint(c.surface, c.g, c.preview)
}

func (c *Controller) changed() {
	c.Repaint()
	if c.onChange != nil {
		c.onChange(c.g)
	}
}

func (c *Controller) reset() {
	c.mode = ModeIdle
	c.held, c.from, c.to = "", "", ""
	c.preview = nil
}

// abort drops the current gesture after a model error. The model is
// unchanged because every graph operation validates before mutating.
func (c *Controller) abort(op string, err error) {
	c.log.Warn("gesture rejected", "op", op, "error", err)
	c.reset()
	c.Repaint()
}

// HandlePointer applies a pointer event.
func (c *Controller) HandlePointer(ev PointerEvent) {
	switch c.mode {
	case ModePendingLabel:
		// the label prompt owns input until it is answered
		return
	case ModeMovingState:
		c.dragState(ev)
		return
	case ModeDrawingTransition:
		c.dragEdge(ev)
		return
	}

	if ev.Kind != PointerDown && ev.Kind != PointerDoubleClick {
		return
	}
	hit := c.g.FindStateAt(ev.X, ev.Y)

	switch Classify(ev, hit, c.mode == ModeDeleting) {
	case GestureCreate:
		c.g.AddState(ev.X, ev.Y)
		c.changed()

	case GestureMoveStart:
		c.mode = ModeMovingState
		c.held = hit.ID

	case GestureDrawEdge:
		c.mode = ModeDrawingTransition
		c.from = hit.ID
		c.preview = &render.Preview{FromX: hit.X, FromY: hit.Y, ToX: ev.X, ToY: ev.Y}

	case GestureMarkStart:
		if hit == nil {
			c.g.ClearStart()
		} else if err := c.g.SetStart(hit.ID); err != nil {
			c.abort("set start", err)
			return
		}
		c.changed()

	case GestureMarkFinal:
		if err := c.g.ToggleFinal(hit.ID); err != nil {
			c.abort("toggle final", err)
			return
		}
		c.changed()

	case GestureDelete:
		if hit != nil {
			if err := c.g.RemoveState(hit.ID); err != nil {
				c.log.Warn("gesture rejected", "op", "remove state", "error", err)
				return
			}
			c.changed()
			return
		}
		if t := c.g.FindTransitionNear(ev.X, ev.Y); t != nil && c.g.RemoveTransition(t) {
			c.changed()
		}
	}
}

func (c *Controller) dragState(ev PointerEvent) {
	switch ev.Kind {
	case PointerMove:
		if err := c.g.MoveState(c.held, ev.X, ev.Y); err != nil {
			c.abort("move state", err)
			return
		}
		c.changed()
	case PointerUp:
		c.reset()
	}
}

func (c *Controller) dragEdge(ev PointerEvent) {
	switch ev.Kind {
	case PointerMove:
		if c.preview != nil {
			c.preview.ToX, c.preview.ToY = ev.X, ev.Y
		}
		c.Repaint()
	case PointerUp:
		target := c.g.FindStateAt(ev.X, ev.Y)
		c.preview = nil
		if target == nil {
			c.reset()
			c.Repaint()
			return
		}
		c.mode = ModePendingLabel
		c.to = target.ID
		c.Repaint()
		if c.onLabel != nil {
			c.onLabel(c.from, c.to)
		}
	}
}

// HandleKey applies a key event. Holding the delete key from Idle enters
// delete mode and releasing it leaves. Escape drops a pending label or an
// edge being drawn.
func (c *Controller) HandleKey(ev KeyEvent) {
	switch ev.Key {
	case c.deleteKey:
		if !ev.Released && c.mode == ModeIdle {
			c.mode = ModeDeleting
		} else if ev.Released && c.mode == ModeDeleting {
			c.mode = ModeIdle
		}
	case KeyEscape:
		if ev.Released {
			return
		}
		switch c.mode {
		case ModePendingLabel:
			c.CancelLabel()
		case ModeDrawingTransition:
			c.reset()
			c.Repaint()
		}
	}
}

// SupplyLabel answers a label request. A non-empty symbol adds the
// transition; an empty one cancels. Either way the controller returns to
// Idle.
func (c *Controller) SupplyLabel(symbol string) error {
	if c.mode != ModePendingLabel {
		return ErrNoPendingLabel
	}
	from, to := c.from, c.to
	c.reset()
	if symbol == "" {
		c.Repaint()
		return nil
	}
	if _, err := c.g.AddTransition(from, to, symbol); err != nil {
		c.abort("add transition", err)
		return err
	}
	c.changed()
	return nil
}

// CancelLabel drops the pending transition without touching the model.
func (c *Controller) CancelLabel() {
	if c.mode != ModePendingLabel {
		return
	}
	c.reset()
	c.Repaint()
}

// Load replaces the model, for example after an import, and resets the
// interaction. It repaints but does not fire the change hook.
func (c *Controller) Load(g *graph.Graph) {
	if g == nil {
		g = graph.New()
	}
	c.g = g
	c.reset()
	c.Repaint()
}

// Clear empties the model and resets the interaction.
func (c *Controller) Clear() {
	c.g.Clear()
	c.reset()
	c.changed()
}
