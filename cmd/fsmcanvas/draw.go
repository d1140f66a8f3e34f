package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/fsm-canvas/pkg/editor"
)

// Styles
var (
	styleDefault  = tcell.StyleDefault
	styleTrans    = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleLabel    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo  = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgOK    = tcell.StyleDefault.Foreground(tcell.ColorGreen).Background(tcell.ColorNavy)
	styleMsgWarn  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorNavy)
	styleHelp     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleInput    = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleBorder   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleDeleting = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorMaroon).Bold(true)
)

// footerRows is the status bar plus the help line.
const footerRows = 2

func (ui *UI) draw() {
	ui.screen.Clear()
	w, h := ui.screen.Size()

	ui.ctl.Repaint()
	if ui.mode == modeInput {
		ui.drawInputBox(w, h)
	}
	ui.drawStatusBar(w, h)
}

func (ui *UI) drawStatusBar(w, h int) {
	y := h - 1
	for x := 0; x < w; x++ {
		ui.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	info := "[unsaved]"
	if ui.activeID > 0 {
		info = fmt.Sprintf("#%d", ui.activeID)
	}
	if ui.modified {
		info += " *"
	}
	ui.drawString(1, y, info, styleStatus)

	mode := ui.modeString()
	style := styleStatus
	if ui.ctl.Mode() == editor.ModeDeleting {
		style = styleDeleting
	}
	ui.drawString(w/2-len(mode)/2, y, mode, style)

	if ui.message != "" {
		style := styleMsgInfo
		switch ui.messageType {
		case MsgError:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgOK
		case MsgWarning:
			style = styleMsgWarn
		}
		ui.drawString(w-len([]rune(ui.message))-2, y, ui.message, style)
	}

	y = h - 2
	for x := 0; x < w; x++ {
		ui.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	ui.drawString(1, y, ui.helpString(), styleHelp)
}

func (ui *UI) drawInputBox(w, h int) {
	boxW := 50
	if boxW > w {
		boxW = w
	}
	boxH := 3
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	ui.drawBox(boxX, boxY, boxW, boxH, styleInput)
	ui.drawString(boxX+2, boxY+1, ui.inputPrompt, styleInput)
	ui.drawString(boxX+2+len([]rune(ui.inputPrompt)), boxY+1, ui.inputBuffer+"_", styleInput)
}

func (ui *UI) drawBox(x, y, w, h int, style tcell.Style) {
	ui.screen.SetContent(x, y, '┌', nil, styleBorder)
	ui.screen.SetContent(x+w-1, y, '┐', nil, styleBorder)
	ui.screen.SetContent(x, y+h-1, '└', nil, styleBorder)
	ui.screen.SetContent(x+w-1, y+h-1, '┘', nil, styleBorder)

	for i := x + 1; i < x+w-1; i++ {
		ui.screen.SetContent(i, y, '─', nil, styleBorder)
		ui.screen.SetContent(i, y+h-1, '─', nil, styleBorder)
	}
	for i := y + 1; i < y+h-1; i++ {
		ui.screen.SetContent(x, i, '│', nil, styleBorder)
		ui.screen.SetContent(x+w-1, i, '│', nil, styleBorder)
	}
	for row := y + 1; row < y+h-1; row++ {
		for col := x + 1; col < x+w-1; col++ {
			ui.screen.SetContent(col, row, ' ', nil, style)
		}
	}
}

func (ui *UI) drawString(x, y int, s string, style tcell.Style) {
	i := 0
	for _, r := range s {
		ui.screen.SetContent(x+i, y, r, nil, style)
		i++
	}
}

func (ui *UI) modeString() string {
	if ui.mode == modeInput {
		return "INPUT"
	}
	switch ui.ctl.Mode() {
	case editor.ModeMovingState:
		return "MOVE"
	case editor.ModeDrawingTransition:
		return "TRANSITION"
	case editor.ModePendingLabel:
		return "LABEL"
	case editor.ModeDeleting:
		return "DELETE"
	}
	return ""
}

func (ui *UI) helpString() string {
	if ui.mode == modeInput {
		return "Type text  Enter:Confirm  Esc:Cancel"
	}
	if ui.ctl.Mode() == editor.ModeDeleting {
		return "Click a state or transition to delete  " + ui.deleteKey + ":Leave delete mode"
	}
	return "DblClick:State  Drag:Move  RDrag:Transition  Ctrl+Click:Start  Ctrl+RClick:Final  " +
		ui.deleteKey + ":Delete  ^S:Save  O:Open  M:Minimize  C:Convert  R:Recognize  T:Type  K:Compare-select  E:Compare  P:Export  N:New  Q:Quit"
}
