// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/docsynth/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
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
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// clip shortens s to at most n runes
func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// writeList writes up to maxItemsToShow bullet lines under a heading
func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
	sb.WriteString("\n")
}

// PrintDocument dispatches to the printer for the document's payload
func (p *Printer) PrintDocument(doc types.Document) {
	switch {
	case doc.Quotation != nil:
		p.PrintQuotation(doc.Quotation)
	case doc.Project != nil:
		p.PrintProject(doc.Project)
	case doc.Report != nil:
		p.PrintReport(doc.Report)
	}
}

// PrintQuotation outputs the line items and totals of a quotation.
func (p *Printer) PrintQuotation(q *types.QuotationDocument) {
	if q == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Number:   %s\n", q.Number))
	sb.WriteString(fmt.Sprintf("Service:  %s (%s)\n", q.ServiceName, q.Tier))
	if q.Client != "" {
		sb.WriteString(fmt.Sprintf("Client:   %s\n", q.Client))
	}
	sb.WriteString("\n")

	if len(q.Items) == 0 {
		sb.WriteString("No catalog items for this service and tier\n\n")
	}
	for i, item := range q.Items {
		sb.WriteString(fmt.Sprintf("%2d. %s\n", i+1, item.Description))
		sb.WriteString(fmt.Sprintf("    %g %s × %.2f = %.2f\n", item.Quantity, item.Unit, item.UnitPrice, item.Total))
	}

	sb.WriteString(fmt.Sprintf("Subtotal:       %12.2f %s\n", q.Subtotal, q.Currency))
	sb.WriteString(fmt.Sprintf("Tax (%.0f%%):      %12.2f %s\n", q.TaxRate*100, q.Tax, q.Currency))
	sb.WriteString(fmt.Sprintf("Total:          %12.2f %s\n", q.Total, q.Currency))
	sb.WriteString(fmt.Sprintf("Execution: %d days, valid %d days", q.ExecutionDays, q.ValidityDays))

	if len(q.PendingQuestions) > 0 {
		sb.WriteString("\n\n")
		writeList(&sb, "Pending questions", q.PendingQuestions)
	}

	p.printBox("QUOTATION", strings.TrimSpace(sb.String()))
}

// PrintProject outputs the phases and, for complex plans, the schedule.
func (p *Printer) PrintProject(pr *types.ProjectDocument) {
	if pr == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Code:     %s\n", pr.Code))
	sb.WriteString(fmt.Sprintf("Project:  %s\n", pr.Name))
	sb.WriteString(fmt.Sprintf("Duration: %d days", pr.TotalDurationDays))
	if pr.StartDate != "" {
		sb.WriteString(fmt.Sprintf(" (%s → %s)", pr.StartDate, pr.EndDate))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Budget:   %.2f %s\n\n", pr.EstimatedBudget, pr.Currency))

	sb.WriteString("Phases:\n")
	for i, ph := range pr.Phases {
		sb.WriteString(fmt.Sprintf("  %d. %-30s %3d days\n", i+1, ph.Name, ph.DurationDays))
	}
	sb.WriteString("\n")

	if len(pr.Schedule) > 0 {
		sb.WriteString("Schedule:\n")
		for _, task := range pr.Schedule {
			deps := "-"
			if len(task.DependsOn) > 0 {
				parts := make([]string, len(task.DependsOn))
				for i, d := range task.DependsOn {
					parts[i] = fmt.Sprintf("%d", d)
				}
				deps = strings.Join(parts, ",")
			}
			sb.WriteString(fmt.Sprintf("  T%d day %d +%d (after %s)\n", task.ID, task.StartOffsetDays, task.DurationDays, deps))
		}
		sb.WriteString("\n")
	}

	risks := make([]string, 0, len(pr.Risks))
	for _, r := range pr.Risks {
		risks = append(risks, r.Description)
	}
	writeList(&sb, "Risks", risks)

	p.printBox("PROJECT PLAN", strings.TrimSpace(sb.String()))
}

// PrintReport outputs the section outline and financial indicators.
func (p *Printer) PrintReport(r *types.ReportDocument) {
	if r == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Code:     %s\n", r.Code))
	sb.WriteString(fmt.Sprintf("Title:    %s\n", r.Title))
	sb.WriteString(fmt.Sprintf("Type:     %s\n\n", r.ReportType))

	sections := make([]string, 0, len(r.Sections))
	for _, s := range r.Sections {
		sections = append(sections, s.Title)
	}
	sb.WriteString("Sections:\n")
	for _, s := range sections {
		sb.WriteString(fmt.Sprintf("  %s\n", s))
	}
	sb.WriteString("\n")

	if k := r.KPIs; k != nil {
		sb.WriteString("Financial indicators:\n")
		sb.WriteString(fmt.Sprintf("  Investment:  %.2f\n", k.Investment))
		sb.WriteString(fmt.Sprintf("  ROI:         %.2f%%\n", k.ROIPercent))
		sb.WriteString(fmt.Sprintf("  Payback:     %.1f months\n", k.PaybackMonths))
		sb.WriteString(fmt.Sprintf("  IRR:         %.2f%%\n", k.ProjectedIRRPercent))
		sb.WriteString(fmt.Sprintf("  NPV:         %.2f\n\n", k.NPV))
	}

	writeList(&sb, "Recommendations", r.Recommendations)
	if len(r.Bibliography) > 0 {
		sb.WriteString(fmt.Sprintf("Bibliography: %d entries (%s)", len(r.Bibliography), r.CitationStyle))
	}

	p.printBox("REPORT", strings.TrimSpace(sb.String()))
}

// PrintAttempts outputs the provider attempt ledger of an orchestrated response.
func (p *Printer) PrintAttempts(resp types.OrchestrateResponse) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Request:  %s\n", resp.RequestID))
	sb.WriteString(fmt.Sprintf("Served by: %s (%s)", resp.ProviderUsed, resp.CostClass))
	if resp.Fallback {
		sb.WriteString(" [fallback]")
	}
	sb.WriteString("\n\n")

	if len(resp.Attempts) == 0 {
		sb.WriteString("No external providers attempted")
	}
	for _, a := range resp.Attempts {
		mark := "✓"
		switch a.Status {
		case types.AttemptFailed:
			mark = "✗"
		case types.AttemptSkipped:
			mark = "-"
		}
		sb.WriteString(fmt.Sprintf("%s %d. %s %dms", mark, a.Priority, a.Provider, a.DurationMS))
		if a.FailureKind != "" {
			sb.WriteString(fmt.Sprintf(" [%s]", a.FailureKind))
		}
		sb.WriteString("\n")
	}

	p.printBox("PROVIDER ATTEMPTS", strings.TrimSpace(sb.String()))
}

// PrintProviders outputs provider descriptors, marking the configured ones.
func (p *Printer) PrintProviders(all []types.ProviderDescriptor, configured map[types.ProviderKind]bool) {
	var sb strings.Builder
	for _, d := range all {
		mark := " "
		if configured[d.Kind] {
			mark = "●"
		}
		sb.WriteString(fmt.Sprintf("%s %d. %-20s %-8s %s\n", mark, d.Priority, d.Name, d.CostClass, d.Model))
	}
	sb.WriteString("\n● configured, deterministic engine always available")

	p.printBox("PROVIDERS", sb.String())
}
