package editor

import "github.com/ha1tch/fsm-canvas/pkg/graph"

// Gesture is the action a pointer press maps to.
type Gesture int

const (
	GestureNone Gesture = iota
	GestureCreate
	GestureMoveStart
	GestureDrawEdge
	GestureMarkStart
	GestureMarkFinal
	GestureDelete
)

func (g Gesture) String() string {
	switch g {
	case GestureCreate:
		return "create"
	case GestureMoveStart:
		return "move"
	case GestureDrawEdge:
		return "draw-edge"
	case GestureMarkStart:
		return "mark-start"
	case GestureMarkFinal:
		return "mark-final"
	case GestureDelete:
		return "delete"
	default:
		return "none"
	}
}

// Classify maps a press to a gesture given the state under the pointer
// (nil for empty canvas) and whether the delete key is held. Only Down and
// DoubleClick events start gestures; drags and releases are handled by the
// controller's current mode.
func Classify(ev PointerEvent, hit *graph.State, deleting bool) Gesture {
	switch ev.Kind {
	case PointerDoubleClick:
		if deleting || hit != nil {
			return GestureNone
		}
		return GestureCreate

	case PointerDown:
		if deleting {
			if ev.Button == ButtonPrimary {
				return GestureDelete
			}
			return GestureNone
		}
		ctrl := ev.Mods.Has(ModCtrl)
		switch ev.Button {
		case ButtonPrimary:
			if ctrl {
				return GestureMarkStart
			}
			if hit != nil && ev.Mods == ModNone {
				return GestureMoveStart
			}
		case ButtonSecondary:
			if hit == nil {
				return GestureNone
			}
			if ctrl {
				return GestureMarkFinal
			}
			if ev.Mods == ModNone {
				return GestureDrawEdge
			}
		}
	}
	return GestureNone
}
