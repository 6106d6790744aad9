package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/payments/logger"
)

// writeMarkdown writes md to w, rendered for the terminal when w is one.
func writeMarkdown(w io.Writer, md string) {
	if logger.IsTerminal(w) {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
		if err == nil {
			if out, err := r.Render(md); err == nil {
				md = out
			}
		}
	}
	fmt.Fprint(w, md)
}

// printMarkdown writes md to stdout.
func printMarkdown(md string) { writeMarkdown(os.Stdout, md) }
