// Package status renders persisted stack outputs for the terminal.
package status

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/homelab-infra/unifictl/internal/state"
)

// styleFunc is a single-string styling function.
type styleFunc func(string) string

// sf wraps a lipgloss.Style into a styleFunc.
func sf(s lipgloss.Style) styleFunc {
	return func(str string) string { return s.Render(str) }
}

func plain(str string) string { return str }

// palette holds the styles of one rendering.
type palette struct {
	title, section, ready, failed, dim, key styleFunc
}

func newPalette(styled bool) palette {
	if !styled {
		return palette{
			title: plain, section: func(s string) string { return "\n" + s }, ready: plain, failed: plain, dim: plain,
			key: func(s string) string { return fmt.Sprintf("%-*s", keyWidth, s) },
		}
	}
	return palette{
		title:   sf(titleStyle),
		section: sf(sectionStyle),
		ready:   sf(readyStyle),
		failed:  sf(failedStyle),
		dim:     sf(dimStyle),
		key:     sf(keyStyle),
	}
}

// IsInteractive reports whether f is a terminal.
func IsInteractive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Render writes the outputs of one stack. Styles are applied only when
// styled is set.
func Render(w io.Writer, out *state.Outputs, styled bool) error {
	p := newPalette(styled)
	var b strings.Builder

	title := "unifictl: " + out.Stack
	if out.Region != "" {
		title += fmt.Sprintf(" (%s)", out.Region)
	}
	b.WriteString(p.title(title))
	b.WriteString(" ")
	if out.WebAdminURL != "" {
		b.WriteString(p.ready(checkMark + " deployed"))
	} else {
		b.WriteString(p.failed(crossMark + " incomplete"))
	}
	b.WriteString("\n")
	b.WriteString(p.dim(fmt.Sprintf("created %s, updated %s", formatTime(out.CreatedAt), formatTime(out.UpdatedAt))))
	b.WriteString("\n")

	b.WriteString(p.section("Endpoints"))
	b.WriteString("\n")
	row(&b, p, "web admin", out.WebAdminURL)
	row(&b, p, "application load balancer", out.ALBDNSName)
	row(&b, p, "network load balancer", out.NLBDNSName)

	if len(out.DNSRecords) > 0 {
		b.WriteString(p.section("DNS records"))
		b.WriteString("\n")
		for _, r := range out.DNSRecords {
			row(&b, p, r.Type, r.Name)
		}
	}

	if len(out.Resources) > 0 {
		b.WriteString(p.section(fmt.Sprintf("Resources (%d)", len(out.Resources))))
		b.WriteString("\n")
		keys := make([]string, 0, len(out.Resources))
		for k := range out.Resources {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			row(&b, p, k, out.Resources[k])
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderHistory writes one line per saved apply, newest first.
func RenderHistory(w io.Writer, history []*state.Outputs, styled bool) error {
	p := newPalette(styled)
	var b strings.Builder

	if len(history) == 0 {
		b.WriteString(p.dim("no applies recorded"))
		b.WriteString("\n")
	}
	for _, out := range history {
		url := out.WebAdminURL
		if url == "" {
			url = p.failed("incomplete")
		}
		fmt.Fprintf(&b, "%s  %s  %d resources\n", p.dim(formatTime(out.UpdatedAt)), url, len(out.Resources))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func row(b *strings.Builder, p palette, key, value string) {
	if value == "" {
		value = p.dim("-")
	}
	fmt.Fprintf(b, "  %s %s\n", p.key(key), value)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.UTC().Format(time.RFC3339)
}
