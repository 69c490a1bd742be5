// Package render prints checker results to a terminal with color, the
// same role the teacher's pkg/output plays for violations: group by
// origin, colorize by severity, summarize at the end. Here the grouping
// key is a function name (breadcrumbs' outermost entry) rather than a
// file, and the two severities are "hard type error" versus "use-after-
// consume" (spec.md's occurrence-checking toggle draws exactly that line).
package render

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/joshniemela/checkir/pkg/checker"
)

const outputLineWidth = 60

// Finding pairs one checked unit (a source path, typically a loaded IR
// program file) with the error it produced, if any.
type Finding struct {
	Path string
	Err  error // a *checker.TypeError, or a lower-level load/decode error
}

// Stats carries run totals for the summary footer.
type Stats struct {
	UnitsChecked int
	UnitsSkipped int
	Duration     float64
}

// Console writes findings to a terminal with fatih/color highlighting.
type Console struct {
	writer  io.Writer
	noColor bool
}

// NewConsole creates a Console writing to os.Stdout.
func NewConsole() *Console {
	return &Console{writer: os.Stdout}
}

// WithWriter sets a custom writer.
func (c *Console) WithWriter(w io.Writer) *Console {
	c.writer = w
	return c
}

// WithNoColor disables colored output.
func (c *Console) WithNoColor(v bool) *Console {
	c.noColor = v
	if v {
		color.NoColor = true
	}
	return c
}

// Write renders every finding, grouped by the name of the function each
// error's breadcrumb trail names first, and prints a summary footer.
func (c *Console) Write(findings []Finding, stats Stats) error {
	failed := failuresOnly(findings)
	if len(failed) == 0 {
		c.printSuccess(stats)
		return nil
	}

	c.printHeader(stats)
	c.printFindings(failed)
	c.printSummary(failed)
	return nil
}

func failuresOnly(findings []Finding) []Finding {
	out := make([]Finding, 0, len(findings))
	for _, f := range findings {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

func (c *Console) printHeader(stats Stats) {
	fmt.Fprintln(c.writer)
	fmt.Fprintln(c.writer, "CHECKIR RESULTS")
	fmt.Fprintln(c.writer, strings.Repeat("=", outputLineWidth))
	fmt.Fprintf(c.writer, "Units checked: %d\n", stats.UnitsChecked)
	if stats.UnitsSkipped > 0 {
		fmt.Fprintf(c.writer, "Units skipped: %d\n", stats.UnitsSkipped)
	}
	fmt.Fprintln(c.writer)
}

func (c *Console) printSuccess(stats Stats) {
	green := color.New(color.FgGreen, color.Bold)
	fmt.Fprintln(c.writer)
	green.Fprintln(c.writer, "No type errors found!")
	fmt.Fprintf(c.writer, "Units checked: %d\n", stats.UnitsChecked)
	fmt.Fprintln(c.writer)
}

func (c *Console) printFindings(findings []Finding) {
	byFunc := make(map[string][]Finding)
	var order []string
	for _, f := range findings {
		name := functionName(f.Err)
		if _, ok := byFunc[name]; !ok {
			order = append(order, name)
		}
		byFunc[name] = append(byFunc[name], f)
	}
	sort.Strings(order)

	for _, name := range order {
		cyan := color.New(color.FgCyan, color.Bold)
		cyan.Fprintf(c.writer, "%s\n", name)
		for _, f := range byFunc[name] {
			c.printFinding(f)
		}
		fmt.Fprintln(c.writer)
	}
}

func (c *Console) printFinding(f Finding) {
	gray := color.New(color.FgHiBlack)
	gray.Fprintf(c.writer, "  %s: ", f.Path)

	sevColor, label := severityOf(f.Err)
	sevColor.Fprintf(c.writer, "[%s] ", label)

	fmt.Fprintf(c.writer, "%s\n", f.Err.Error())
}

func (c *Console) printSummary(findings []Finding) {
	fmt.Fprintln(c.writer, strings.Repeat("-", outputLineWidth))
	fmt.Fprintf(c.writer, "SUMMARY: %d issues found\n", len(findings))

	var consumption, hard int
	for _, f := range findings {
		if isConsumptionError(f.Err) {
			consumption++
		} else {
			hard++
		}
	}
	if hard > 0 {
		color.New(color.FgRed, color.Bold).Fprintf(c.writer, "  Type errors: %d\n", hard)
	}
	if consumption > 0 {
		color.New(color.FgYellow).Fprintf(c.writer, "  Use-after-consume: %d\n", consumption)
	}
	fmt.Fprintln(c.writer)
}

// functionName pulls the outermost "function NAME" breadcrumb out of a
// *checker.TypeError, falling back to a catch-all bucket for anything
// else (a load/decode error with no breadcrumbs of its own).
func functionName(err error) string {
	te, ok := err.(*checker.TypeError)
	if !ok || len(te.Breadcrumbs) == 0 {
		return "(no function)"
	}
	return te.Breadcrumbs[0]
}

func isConsumptionError(err error) bool {
	te, ok := err.(*checker.TypeError)
	if !ok {
		return false
	}
	_, ok = te.Case.(checker.UseAfterConsume)
	return ok
}

func severityOf(err error) (*color.Color, string) {
	if isConsumptionError(err) {
		return color.New(color.FgYellow), "CONSUME"
	}
	return color.New(color.FgRed), "TYPE"
}
