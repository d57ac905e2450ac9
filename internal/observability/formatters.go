// Package observability provides formatted terminal output for the CLI:
// alert logs, pending choices, decoded records and format listings.
package observability

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pterm/pterm"

	"github.com/jonathan/pku-porter/internal/alerts"
	"github.com/jonathan/pku-porter/internal/formats"
	"github.com/jonathan/pku-porter/internal/types"
)

const (
	// lineWidth is the widest content line printed inside a box
	lineWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 8
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = truncate(line, lineWidth)
	}
	fmt.Fprintln(p.out, pterm.DefaultBox.WithTitle(title).Sprint(strings.Join(lines, "\n")))
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

// wrap breaks text into lines of at most lineWidth runes at spaces.
func wrap(text, indent string) string {
	var sb strings.Builder
	for _, para := range strings.Split(text, "\n") {
		width := 0
		sb.WriteString(indent)
		for i, word := range strings.Fields(para) {
			n := utf8.RuneCountInString(word)
			if i > 0 && width+1+n > lineWidth-len(indent) {
				sb.WriteString("\n" + indent)
				width = 0
			} else if i > 0 {
				sb.WriteByte(' ')
				width++
			}
			sb.WriteString(word)
			width += n
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// PrintAlerts outputs the alert log of an export.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintAlerts(list []*alerts.Alert) {
	if len(list) == 0 {
		fmt.Fprintln(p.out, pterm.Success.Sprint("No alerts: every field was exported as given"))
		return
	}

	var sb strings.Builder
	for i, a := range list {
		sb.WriteString(fmt.Sprintf("⚠ %s  %s\n", a.Category, pterm.FgYellow.Sprint(a.Type.String())))
		sb.WriteString(wrap(a.Message, "  "))
		if i < len(list)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox(fmt.Sprintf("ALERTS (%d)", len(list)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintChoices outputs the pending choices with their numbered options.
func (p *Printer) PrintChoices(choices []*alerts.Choice) {
	if len(choices) == 0 {
		return
	}

	var sb strings.Builder
	for i, c := range choices {
		sb.WriteString(c.Category + "\n")
		if c.Message != "" {
			sb.WriteString(wrap(c.Message, "  "))
		}
		for j, o := range c.Options {
			sb.WriteString(fmt.Sprintf("  [%d] %s", j, o.Name))
			if o.Description != "" {
				sb.WriteString(" - " + o.Description)
			}
			sb.WriteString("\n")
		}
		if i < len(choices)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("PENDING CHOICES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRecord outputs a human-readable summary of a canonical record.
func (p *Printer) PrintRecord(rec *types.PKU) {
	if rec == nil {
		return
	}

	var sb strings.Builder
	field := func(label, value string) {
		if value != "" {
			sb.WriteString(fmt.Sprintf("%-10s %s\n", label+":", value))
		}
	}

	species := rec.SpeciesName()
	if form := rec.FormName(); form != "" {
		species += " (" + form + ")"
	}
	field("Species", species)
	field("Nickname", str(rec.Nickname))
	if rec.IsEgg() {
		field("Egg", "Yes")
	}
	field("Level", num(rec.Level))
	field("Nature", str(rec.Nature))
	field("Gender", str(rec.Gender))
	field("Ability", str(rec.Ability))
	field("Item", str(rec.Item))
	if rec.Shiny != nil && *rec.Shiny {
		field("Shiny", "Yes")
	}
	if rec.PID != nil {
		field("PID", fmt.Sprintf("0x%08X", *rec.PID))
	}
	if gi := rec.GameInfo; gi != nil {
		ot := str(gi.OT)
		if gi.ID != nil {
			id := uint32(*gi.ID)
			ot = strings.TrimSpace(fmt.Sprintf("%s (ID %05d / SID %05d)", ot, id&0xFFFF, id>>16))
		}
		field("OT", ot)
		field("Game", str(gi.OriginGame))
	}
	if ci := rec.CatchInfo; ci != nil {
		field("Ball", str(ci.Ball))
		met := str(ci.MetLocation)
		if ci.MetLevel != nil {
			met = strings.TrimSpace(met + " at level " + strconv.Itoa(*ci.MetLevel))
		}
		field("Met", met)
	}

	if len(rec.Moves) > 0 {
		sb.WriteString("\nMoves:\n")
		for _, m := range rec.Moves {
			sb.WriteString(fmt.Sprintf("  • %s\n", str(m.Name)))
		}
	}
	if len(rec.Ribbons) > 0 {
		sb.WriteString("\nRibbons:\n")
		count := min(len(rec.Ribbons), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", rec.Ribbons[i]))
		}
		if len(rec.Ribbons) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(rec.Ribbons)-maxItemsToShow))
		}
	}

	p.printBox("RECORD", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFormats outputs a table of the registered formats.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintFormats(fs []formats.Format) {
	data := pterm.TableData{{"Name", "Extension", "Kind", "Import", "Description"}}
	for _, f := range fs {
		kind := "text"
		if f.Binary() {
			kind = "binary"
		}
		_, importable := f.(formats.Importer)
		data = append(data, []string{f.Name(), "." + f.Extension(), kind, yesNo(importable), f.Description()})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		fmt.Fprintln(p.out, err)
		return
	}
	fmt.Fprintln(p.out, table)
}

// PrintEligibility outputs whether a record can be exported to each format.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintEligibility(species string, results []formats.Eligibility) {
	fmt.Fprintln(p.out, pterm.DefaultSection.Sprint(species))
	for _, r := range results {
		if r.OK {
			fmt.Fprintln(p.out, pterm.Success.Sprint(r.Format))
			continue
		}
		fmt.Fprintln(p.out, pterm.Error.Sprintf("%s: %s", r.Format, r.Reason))
	}
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func num(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
