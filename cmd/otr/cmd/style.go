package cmd

import (
	"fmt"
	"io"

	"charm.land/lipgloss/v2"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#a9b1d6"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
	sectionStyle = lipgloss.NewStyle().PaddingLeft(2)
)

// printer writes styled lines, downsampling colors to what w supports.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = lipgloss.Fprintln(p.w, fmt.Sprintf(format, args...))
}

func (p *printer) block(lines ...string) {
	if p.err != nil || len(lines) == 0 {
		return
	}
	_, p.err = lipgloss.Fprintln(p.w, sectionStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
}

// field renders "label: value" with a fixed label column.
func field(label string, value any) string {
	l := labelStyle.Render(label + ":")
	pad := 12 - lipgloss.Width(l)
	if pad < 1 {
		pad = 1
	}
	return fmt.Sprintf("%s%*s%v", l, pad, "", value)
}

func status(ok bool, good, bad string) string {
	if ok {
		return okStyle.Render(good)
	}
	return warnStyle.Render(bad)
}
