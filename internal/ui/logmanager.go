package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"fyne.io/fyne/v2/widget"
)

const DefaultMaxLogMessages = 100

// LogUIManager keeps the last messages shown in the status line and lets the
// user page through them.
type LogUIManager struct {
	logMessages     []string
	currentLogIndex int
	maxLogMessages  int

	statusLogLabel   *widget.Label
	statusLogUpBtn   *widget.Button
	statusLogDownBtn *widget.Button
}

func NewLogUIManager(logLabel *widget.Label, upBtn, downBtn *widget.Button, maxMessages int) *LogUIManager {
	if maxMessages <= 0 {
		maxMessages = DefaultMaxLogMessages
	}
	return &LogUIManager{
		logMessages:      make([]string, 0, maxMessages),
		currentLogIndex:  -1,
		maxLogMessages:   maxMessages,
		statusLogLabel:   logLabel,
		statusLogUpBtn:   upBtn,
		statusLogDownBtn: downBtn,
	}
}

// AddLogMessage appends message and shows it. Must run on the UI thread.
func (lm *LogUIManager) AddLogMessage(message string) {
	lm.logMessages = append(lm.logMessages, message)
	if len(lm.logMessages) > lm.maxLogMessages {
		lm.logMessages = lm.logMessages[len(lm.logMessages)-lm.maxLogMessages:]
	}
	lm.currentLogIndex = len(lm.logMessages) - 1
	lm.UpdateLogDisplay()
}

// Current returns the message on display.
func (lm *LogUIManager) Current() string {
	if lm.currentLogIndex < 0 || lm.currentLogIndex >= len(lm.logMessages) {
		return ""
	}
	return lm.logMessages[lm.currentLogIndex]
}

func (lm *LogUIManager) UpdateLogDisplay() {
	if lm.statusLogLabel == nil || lm.statusLogUpBtn == nil || lm.statusLogDownBtn == nil {
		return
	}
	if len(lm.logMessages) == 0 {
		lm.statusLogLabel.SetText("")
		lm.statusLogUpBtn.Disable()
		lm.statusLogDownBtn.Disable()
		return
	}

	if lm.currentLogIndex < 0 {
		lm.currentLogIndex = 0
	} else if lm.currentLogIndex >= len(lm.logMessages) {
		lm.currentLogIndex = len(lm.logMessages) - 1
	}

	lm.statusLogLabel.SetText(fmt.Sprintf("[%d/%d] %s", lm.currentLogIndex+1, len(lm.logMessages), lm.logMessages[lm.currentLogIndex]))
	if lm.currentLogIndex <= 0 {
		lm.statusLogUpBtn.Disable()
	} else {
		lm.statusLogUpBtn.Enable()
	}
	if lm.currentLogIndex >= len(lm.logMessages)-1 {
		lm.statusLogDownBtn.Disable()
	} else {
		lm.statusLogDownBtn.Enable()
	}
}

func (lm *LogUIManager) ShowPreviousLogMessage() {
	if len(lm.logMessages) == 0 || lm.currentLogIndex <= 0 {
		return
	}
	lm.currentLogIndex--
	lm.UpdateLogDisplay()
}

func (lm *LogUIManager) ShowNextLogMessage() {
	if len(lm.logMessages) == 0 || lm.currentLogIndex >= len(lm.logMessages)-1 {
		return
	}
	lm.currentLogIndex++
	lm.UpdateLogDisplay()
}

// uiLogHandler passes records to next and mirrors those at or above level
// into the window through sink.
type uiLogHandler struct {
	next  slog.Handler
	level slog.Leveler
	sink  func(string)
	attrs []slog.Attr
}

func newUILogHandler(next slog.Handler, level slog.Leveler, sink func(string)) *uiLogHandler {
	return &uiLogHandler{next: next, level: level, sink: sink}
}

func (h *uiLogHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return l >= h.level.Level() || h.next.Enabled(ctx, l)
}

func (h *uiLogHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error
	if h.next.Enabled(ctx, r.Level) {
		err = h.next.Handle(ctx, r)
	}
	if r.Level >= h.level.Level() && h.sink != nil {
		h.sink(formatRecord(r, h.attrs))
	}
	return err
}

func (h *uiLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &uiLogHandler{
		next:  h.next.WithAttrs(attrs),
		level: h.level,
		sink:  h.sink,
		attrs: append(append([]slog.Attr(nil), h.attrs...), attrs...),
	}
}

func (h *uiLogHandler) WithGroup(name string) slog.Handler {
	return &uiLogHandler{next: h.next.WithGroup(name), level: h.level, sink: h.sink, attrs: h.attrs}
}

// formatRecord renders "message key=value ..." for the status line.
func formatRecord(r slog.Record, attrs []slog.Attr) string {
	var b strings.Builder
	if r.Level >= slog.LevelWarn {
		b.WriteString(r.Level.String())
		b.WriteString(": ")
	}
	b.WriteString(r.Message)
	write := func(a slog.Attr) bool {
		b.WriteString(" ")
		b.WriteString(a.Key)
		b.WriteString("=")
		b.WriteString(a.Value.String())
		return true
	}
	for _, a := range attrs {
		write(a)
	}
	r.Attrs(write)
	return b.String()
}
