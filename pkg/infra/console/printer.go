package console

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/shipper/pkg/domain/interfaces"
	"github.com/m-mizutani/shipper/pkg/domain/model"
)

// Printer writes notifications as colored lines
type Printer struct {
	w io.Writer
}

var _ interfaces.Notifier = (*Printer)(nil)

var levelColors = map[model.NotificationLevel]*color.Color{
	model.LevelInfo:    color.New(color.Reset),
	model.LevelSuccess: color.New(color.FgGreen),
	model.LevelWarning: color.New(color.FgYellow),
	model.LevelNotice:  color.New(color.FgCyan, color.Bold),
}

// NewPrinter creates a Printer writing to w, or stdout if w is nil
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{w: w}
}

// Notify implements interfaces.Notifier
func (p *Printer) Notify(ctx context.Context, n model.Notification) {
	if noColor() {
		fmt.Fprintln(p.w, n.String())
		return
	}

	c, ok := levelColors[n.Level]
	if !ok {
		c = levelColors[model.LevelInfo]
	}
	c.Fprintln(p.w, n.String())
}

// noColor returns true if color output should be disabled
func noColor() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}
	return color.NoColor
}
