package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/fsm-canvas/internal/config"
	"github.com/ha1tch/fsm-canvas/pkg/client"
	"github.com/ha1tch/fsm-canvas/pkg/render"
	"github.com/ha1tch/fsm-canvas/pkg/workspace"
)

// post hands fn to the event loop.
func (ui *UI) post(fn func()) {
	if err := ui.screen.PostEvent(tcell.NewEventInterrupt(fn)); err != nil {
		ui.log.Warn("dropped result", "error", err)
	}
}

// background runs work off the event loop. The func it returns is run on
// the loop once work is done.
func (ui *UI) background(op string, work func(ctx context.Context) func()) {
	ui.showMessage(op+"...", MsgInfo)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		ui.post(work(ctx))
	}()
}

// describe turns an operation error into a status line.
func describe(err error) string {
	var rej *client.RejectedError
	switch {
	case errors.As(err, &rej):
		return rej.Detail
	case errors.Is(err, client.ErrNetwork):
		return "backend unreachable"
	case errors.Is(err, workspace.ErrNoActive):
		return "save first (Ctrl+S)"
	case errors.Is(err, workspace.ErrIncompleteComparison):
		return "select two automata with K"
	}
	return err.Error()
}

func (ui *UI) fail(op string, err error) {
	ui.log.Warn("operation failed", "op", op, "error", err)
	ui.showMessage(op+" failed: "+describe(err), MsgError)
}

func (ui *UI) withID(fn func(int)) func(string) {
	return func(s string) {
		id, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || id <= 0 {
			ui.showMessage(fmt.Sprintf("Invalid id %q", s), MsgError)
			return
		}
		fn(id)
	}
}

func (ui *UI) promptID(label string, fn func(int)) {
	ui.prompt(label, "", ui.withID(fn), nil)
}

func (ui *UI) save() {
	doc := ui.ws.Snapshot()
	ui.background("Saving", func(ctx context.Context) func() {
		id, err := ui.ws.SaveDocument(ctx, doc)
		return func() {
			if err != nil {
				ui.fail("Save", err)
				return
			}
			ui.activeID = id
			ui.modified = false
			ui.showMessage(fmt.Sprintf("Saved as #%d", id), MsgSuccess)
		}
	})
}

// replace fetches a document off the loop and loads it onto the canvas
// unless the canvas changed in the meantime.
func (ui *UI) replace(op string, fetch func(ctx context.Context) (workspace.Update, error)) {
	ui.background(op, func(ctx context.Context) func() {
		u, err := fetch(ctx)
		return func() {
			if err != nil {
				ui.fail(op, err)
				return
			}
			warns, err := ui.ws.Apply(context.Background(), u)
			if errors.Is(err, workspace.ErrStale) {
				ui.showMessage(op+" result discarded: canvas changed", MsgWarning)
				return
			}
			if err != nil {
				ui.fail(op, err)
				return
			}
			ui.activeID = u.ID
			ui.modified = false
			if len(warns) > 0 {
				ui.showMessage(fmt.Sprintf("Loaded #%d, %d items dropped", u.ID, len(warns)), MsgWarning)
				return
			}
			ui.showMessage(fmt.Sprintf("Loaded #%d", u.ID), MsgSuccess)
		}
	})
}

func (ui *UI) open(id int) {
	ui.replace("Open", func(ctx context.Context) (workspace.Update, error) {
		return ui.ws.FetchOpen(ctx, id)
	})
}

func (ui *UI) minimize() {
	ui.replace("Minimize", ui.ws.FetchMinimize)
}

func (ui *UI) convert() {
	ui.replace("Convert", ui.ws.FetchConvert)
}

func (ui *UI) recognize(input string) {
	ui.background("Recognizing", func(ctx context.Context) func() {
		ok, err := ui.ws.Recognize(ctx, input)
		return func() {
			switch {
			case err != nil:
				ui.fail("Recognize", err)
			case ok:
				ui.showMessage(fmt.Sprintf("%q accepted", input), MsgSuccess)
			default:
				ui.showMessage(fmt.Sprintf("%q rejected", input), MsgWarning)
			}
		}
	})
}

func (ui *UI) typeOf() {
	ui.background("Checking type", func(ctx context.Context) func() {
		t, err := ui.ws.Type(ctx)
		return func() {
			if err != nil {
				ui.fail("Type", err)
				return
			}
			ui.showMessage("Type: "+string(t), MsgInfo)
		}
	})
}

func (ui *UI) toggleComparison(id int) {
	ui.background("Selecting", func(ctx context.Context) func() {
		sel, err := ui.ws.ToggleComparison(ctx, id)
		return func() {
			if err != nil {
				ui.fail("Select", err)
				return
			}
			ui.showMessage(fmt.Sprintf("Compare: %v", sel), MsgInfo)
		}
	})
}

func (ui *UI) compare() {
	ui.background("Comparing", func(ctx context.Context) func() {
		eq, err := ui.ws.Compare(ctx)
		return func() {
			switch {
			case err != nil:
				ui.fail("Compare", err)
			case eq:
				ui.showMessage("Equivalent", MsgSuccess)
			default:
				ui.showMessage("Not equivalent", MsgWarning)
			}
		}
	})
}

func (ui *UI) export(path string) {
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		ui.fail("Export", err)
		return
	}
	defer f.Close()
	opts := render.ExportOptions{
		Format: render.FormatFromPath(path, ui.cfg.FileType),
		Width:  800,
		Height: 600,
	}
	if err := render.Export(f, ui.ctl.Graph(), opts); err != nil {
		ui.fail("Export", err)
		return
	}
	ui.rememberDir(filepath.Dir(path))
	ui.showMessage("Exported to "+path, MsgSuccess)
}

// rememberDir records dir as the starting point of the next export.
func (ui *UI) rememberDir(dir string) {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	ui.cfg.LastDir = dir
	if ui.configPath == "" {
		return
	}
	// flag overrides in ui.cfg stay out of the file
	saved, err := config.Load(ui.configPath)
	if err != nil {
		ui.log.Warn("failed to reload config", "path", ui.configPath, "error", err)
		return
	}
	saved.LastDir = dir
	if err := config.Save(ui.configPath, saved); err != nil {
		ui.log.Warn("failed to save config", "path", ui.configPath, "error", err)
	}
}
