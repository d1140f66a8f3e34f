package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/fsm-canvas/internal/config"
	"github.com/ha1tch/fsm-canvas/pkg/editor"
	"github.com/ha1tch/fsm-canvas/pkg/graph"
	"github.com/ha1tch/fsm-canvas/pkg/store"
	"github.com/ha1tch/fsm-canvas/pkg/workspace"
)

const (
	doubleClickInterval = 400 * time.Millisecond
	requestTimeout      = 15 * time.Second
)

type uiMode int

const (
	modeCanvas uiMode = iota
	modeInput
)

// MessageType for status messages
type MessageType int

const (
	MsgInfo MessageType = iota
	MsgError
	MsgSuccess
	MsgWarning
)

// UI is the terminal front end. Everything except the network calls
// started by background runs on the event loop.
type UI struct {
	screen tcell.Screen
	ctl    *editor.Controller
	ws     *workspace.Workspace
	cfg    config.Config
	log    *slog.Logger

	configPath string // settings such as last_dir are saved here when set

	deleteKey string
	mode      uiMode
	quit      bool

	message     string
	messageType MessageType
	modified    bool
	activeID    int // 0 until saved or opened

	inputPrompt string
	inputBuffer string
	inputAction func(string)
	inputCancel func()

	// pointer tracking; tcell reports button state, not transitions
	buttons   tcell.ButtonMask
	pressed   editor.Button
	lastClick time.Time
	lastCol   int
	lastRow   int
	clock     func() time.Time
}

func newUI(screen tcell.Screen, backend workspace.Backend, st store.Store, cfg config.Config, log *slog.Logger) *UI {
	ui := &UI{
		screen:    screen,
		cfg:       cfg,
		log:       log,
		deleteKey: cfg.DeleteKey,
		clock:     time.Now,
	}
	if ui.deleteKey == "" {
		ui.deleteKey = editor.DefaultDeleteKey
	}
	ui.ctl = editor.New(nil, newCellSurface(screen, footerRows),
		editor.WithLogger(log),
		editor.WithDeleteKey(ui.deleteKey),
		editor.OnLabelRequest(ui.requestLabel),
		editor.OnChange(func(*graph.Graph) {
			ui.modified = true
			ui.ws.Touch()
		}),
	)
	ui.ws = workspace.New(ui.ctl, backend, st, workspace.WithLogger(log))
	if id, err := ui.ws.Active(context.Background()); err == nil {
		ui.activeID = id
	}
	return ui
}

func (ui *UI) run() {
	for !ui.quit {
		ui.draw()
		ui.screen.Show()

		ev := ui.screen.PollEvent()
		if ev == nil {
			return
		}
		ui.handleEvent(ev)
	}
}

func (ui *UI) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		ui.screen.Sync()
	case *tcell.EventKey:
		ui.handleKey(ev)
	case *tcell.EventMouse:
		ui.handleMouse(ev)
	case *tcell.EventInterrupt:
		if fn, ok := ev.Data().(func()); ok {
			fn()
		}
	}
}

func (ui *UI) showMessage(msg string, msgType MessageType) {
	ui.message = msg
	ui.messageType = msgType
}

// prompt opens the input box. cancel may be nil.
func (ui *UI) prompt(label, initial string, action func(string), cancel func()) {
	ui.mode = modeInput
	ui.inputPrompt = label
	ui.inputBuffer = initial
	ui.inputAction = action
	ui.inputCancel = cancel
}

// requestLabel opens the symbol prompt. Results fetched before the edge
// was drawn no longer apply, since loading them would drop the edge.
func (ui *UI) requestLabel(from, to string) {
	ui.ws.Touch()
	ui.prompt(fmt.Sprintf("Symbol %s→%s: ", from, to), "", func(symbol string) {
		if err := ui.ctl.SupplyLabel(symbol); err != nil {
			ui.showMessage(err.Error(), MsgError)
		}
	}, ui.ctl.CancelLabel)
}

// keyName follows the controller's key naming: tcell key names for
// special keys, the rune itself otherwise.
func keyName(ev *tcell.EventKey) string {
	if ev.Key() == tcell.KeyRune {
		return string(ev.Rune())
	}
	if name, ok := tcell.KeyNames[ev.Key()]; ok {
		return name
	}
	return ""
}

func (ui *UI) handleKey(ev *tcell.EventKey) {
	if ui.mode == modeInput {
		ui.handleInputKey(ev)
		return
	}

	// terminals report no key release, so the delete key toggles
	if keyName(ev) == ui.deleteKey {
		held := ui.ctl.Mode() == editor.ModeDeleting
		ui.ctl.HandleKey(editor.KeyEvent{Key: ui.deleteKey, Released: held})
		return
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		ui.ctl.HandleKey(editor.KeyEvent{Key: editor.KeyEscape})
		return
	case tcell.KeyCtrlC, tcell.KeyCtrlQ:
		ui.quit = true
		return
	case tcell.KeyCtrlS:
		ui.save()
		return
	case tcell.KeyRune:
	default:
		return
	}

	switch ev.Rune() {
	case 'q', 'Q':
		ui.quit = true
	case 'n', 'N':
		ui.ctl.Clear()
		ui.modified = false
		ui.showMessage("New canvas", MsgInfo)
	case 'o', 'O':
		ui.promptID("Open id: ", ui.open)
	case 'm', 'M':
		ui.minimize()
	case 'c', 'C':
		ui.convert()
	case 'r', 'R':
		ui.prompt("Input: ", "", ui.recognize, nil)
	case 't', 'T':
		ui.typeOf()
	case 'k', 'K':
		initial := ""
		if ui.activeID > 0 {
			initial = fmt.Sprint(ui.activeID)
		}
		ui.prompt("Toggle compare id: ", initial, ui.withID(ui.toggleComparison), nil)
	case 'e', 'E':
		ui.compare()
	case 'p', 'P':
		ui.prompt("Export to: ", filepath.Join(ui.cfg.LastDir, "automaton."+ui.cfg.FileType), ui.export, nil)
	}
}

func (ui *UI) handleInputKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		ui.mode = modeCanvas
		if ui.inputCancel != nil {
			ui.inputCancel()
		}
	case tcell.KeyEnter:
		ui.mode = modeCanvas
		if ui.inputAction != nil {
			ui.inputAction(ui.inputBuffer)
		}
		ui.inputBuffer = ""
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if r := []rune(ui.inputBuffer); len(r) > 0 {
			ui.inputBuffer = string(r[:len(r)-1])
		}
	case tcell.KeyRune:
		ui.inputBuffer += string(ev.Rune())
	}
}

func translateMods(m tcell.ModMask) editor.Mods {
	var out editor.Mods
	if m&tcell.ModCtrl != 0 {
		out |= editor.ModCtrl
	}
	if m&tcell.ModShift != 0 {
		out |= editor.ModShift
	}
	if m&tcell.ModAlt != 0 {
		out |= editor.ModAlt
	}
	return out
}

// tcell: Button1 = primary, Button2 = secondary, Button3 = middle
func buttonOf(b tcell.ButtonMask) editor.Button {
	switch {
	case b&tcell.Button1 != 0:
		return editor.ButtonPrimary
	case b&tcell.Button2 != 0:
		return editor.ButtonSecondary
	default:
		return editor.ButtonMiddle
	}
}

// handleMouse turns tcell's button snapshots into down, move and up
// events, adding a double click for two primary presses on one cell.
func (ui *UI) handleMouse(ev *tcell.EventMouse) {
	if ui.mode == modeInput {
		return
	}
	col, row := ev.Position()
	x, y := toCanvas(col, row)
	buttons := ev.Buttons() & (tcell.Button1 | tcell.Button2 | tcell.Button3)
	mods := translateMods(ev.Modifiers())
	prev := ui.buttons
	ui.buttons = buttons

	switch {
	case prev == 0 && buttons != 0:
		ui.pressed = buttonOf(buttons)
		ui.ctl.HandlePointer(editor.PointerEvent{Kind: editor.PointerDown, Button: ui.pressed, Mods: mods, X: x, Y: y})
		if ui.pressed == editor.ButtonPrimary && ui.isDoubleClick(col, row) {
			ui.ctl.HandlePointer(editor.PointerEvent{Kind: editor.PointerDoubleClick, Button: ui.pressed, Mods: mods, X: x, Y: y})
		}
	case prev != 0 && buttons == 0:
		ui.ctl.HandlePointer(editor.PointerEvent{Kind: editor.PointerUp, Button: ui.pressed, Mods: mods, X: x, Y: y})
	default:
		ui.ctl.HandlePointer(editor.PointerEvent{Kind: editor.PointerMove, Button: ui.pressed, Mods: mods, X: x, Y: y})
	}
}

func (ui *UI) isDoubleClick(col, row int) bool {
	now := ui.clock()
	if !ui.lastClick.IsZero() && now.Sub(ui.lastClick) < doubleClickInterval &&
		col == ui.lastCol && row == ui.lastRow {
		ui.lastClick = time.Time{} // no triple click
		return true
	}
	ui.lastClick, ui.lastCol, ui.lastRow = now, col, row
	return false
}
