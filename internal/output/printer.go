// Package output renders batch reports and history for the terminal and
// as JSON files.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/quantmind-br/reposync/internal/domain"
	"github.com/quantmind-br/reposync/internal/history"
)

// Marker glyphs
const (
	markOK   = "✓"
	markFail = "✗"
	markWarn = "!"
)

// CheckStatus is the outcome of one doctor check
type CheckStatus int

const (
	CheckOK CheckStatus = iota
	CheckWarn
	CheckFailed
)

// Check is one line of the doctor report
type Check struct {
	Name   string
	Status CheckStatus
	Detail string
}

// Printer writes human-readable output
type Printer struct {
	out   io.Writer
	plain bool
}

// PrinterOptions contains options for creating a printer
type PrinterOptions struct {
	Output io.Writer
	// Plain disables all styling
	Plain bool
}

// NewPrinter creates a printer. A nil output writes to stdout.
func NewPrinter(opts PrinterOptions) *Printer {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	return &Printer{out: out, plain: opts.Plain}
}

func (p *Printer) render(style lipgloss.Style, s string) string {
	if p.plain {
		return s
	}
	return style.Render(s)
}

// DryRun lists every selected repository with the URL it would be
// cloned from, followed by the selected count
func (p *Printer) DryRun(report *domain.Report) {
	width := nameWidth(report.Selected)
	for _, d := range report.Selected {
		fmt.Fprintf(p.out, "%s  %s\n",
			p.render(NameStyle, pad(d.Name, width)),
			p.render(MutedStyle, d.URL()))
	}
	fmt.Fprintln(p.out, p.render(TitleStyle,
		fmt.Sprintf("%d %s selected (dry run)", report.Total, plural(report.Total, "repository", "repositories"))))
}

// Summary prints the batch totals and every failed job with its cause
func (p *Printer) Summary(report *domain.Report) {
	if report.DryRun {
		p.DryRun(report)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Synced %d/%d in %s\n", report.Completed, report.Total, report.Duration.Round(time.Millisecond))
	b.WriteString(p.render(SuccessStyle, fmt.Sprintf("%s %d succeeded", markOK, report.Succeeded)))
	b.WriteString("  ")
	failed := fmt.Sprintf("%s %d failed", markFail, report.Failed)
	if report.Failed > 0 {
		failed = p.render(ErrorStyle, failed)
	} else {
		failed = p.render(MutedStyle, failed)
	}
	b.WriteString(failed)

	if p.plain {
		fmt.Fprintln(p.out, b.String())
	} else {
		fmt.Fprintln(p.out, BoxStyle.Render(b.String()))
	}

	failures := report.FailedResults()
	sort.Slice(failures, func(i, j int) bool {
		return failures[i].Job.Name() < failures[j].Job.Name()
	})
	for _, res := range failures {
		fmt.Fprintf(p.out, "%s %s %s\n",
			p.render(ErrorStyle, markFail),
			p.render(NameStyle, res.Job.Name()),
			p.render(MutedStyle, cause(res.Err)))
	}
}

// History prints the recorded outcomes as a table, one row per repository
func (p *Printer) History(records []history.Record) {
	if len(records) == 0 {
		fmt.Fprintln(p.out, p.render(MutedStyle, "No history recorded yet"))
		return
	}

	table := tablewriter.NewWriter(p.out)
	table.SetHeader([]string{"", "Repo", "Action", "Finished", "Took", "Error"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetColumnSeparator("")
	table.SetCenterSeparator("")
	table.SetRowSeparator("")

	for _, r := range records {
		mark := p.render(SuccessStyle, markOK)
		errText := ""
		if !r.OK {
			mark = p.render(ErrorStyle, markFail)
			errText = p.render(ErrorStyle, r.Error)
		}
		table.Append([]string{
			mark,
			p.render(NameStyle, r.Name),
			string(r.Action),
			p.render(MutedStyle, r.FinishedAt.Local().Format(time.RFC3339)),
			r.Duration.Round(time.Millisecond).String(),
			errText,
		})
	}
	table.Render()
}

// Checks prints the doctor report and returns whether no check failed
func (p *Printer) Checks(checks []Check) bool {
	allPassed := true
	fmt.Fprintln(p.out, p.render(TitleStyle, "Checking system dependencies..."))
	for _, c := range checks {
		var mark string
		switch c.Status {
		case CheckOK:
			mark = p.render(SuccessStyle, markOK)
		case CheckWarn:
			mark = p.render(WarnStyle, markWarn)
		default:
			mark = p.render(ErrorStyle, markFail)
			allPassed = false
		}
		line := fmt.Sprintf("  %s %s", mark, c.Name)
		if c.Detail != "" {
			line += " " + p.render(MutedStyle, "("+c.Detail+")")
		}
		fmt.Fprintln(p.out, line)
	}

	fmt.Fprintln(p.out)
	if allPassed {
		fmt.Fprintln(p.out, p.render(SuccessStyle, "All critical checks passed!"))
	} else {
		fmt.Fprintln(p.out, p.render(ErrorStyle, "Some checks failed. Please resolve the issues above."))
	}
	return allPassed
}

// cause strips the "<action> <repo>: " prefix of a job error
func cause(err error) string {
	if err == nil {
		return ""
	}
	var jobErr *domain.JobError
	if errors.As(err, &jobErr) && jobErr.Err != nil {
		return jobErr.Err.Error()
	}
	return err.Error()
}

func nameWidth(ds []domain.Descriptor) int {
	width := 0
	for _, d := range ds {
		width = max(width, len(d.Name))
	}
	return width
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
