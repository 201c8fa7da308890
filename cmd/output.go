package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/jekabolt/grbpwr-waitlist/internal/dto"
	"github.com/jekabolt/grbpwr-waitlist/internal/entity"
	"github.com/jekabolt/grbpwr-waitlist/internal/waitlist"
	"github.com/spf13/cobra"
)

var stderr io.Writer = os.Stderr

const timeLayout = "2006-01-02 15:04"

// print writes v as JSON with --json, otherwise renders it with text.
func (o *rootOptions) print(cmd *cobra.Command, v any, text func(p *printer)) error {
	w := cmd.OutOrStdout()
	if o.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonView(v))
	}
	p := &printer{tw: tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)}
	text(p)
	return p.tw.Flush()
}

// jsonView swaps storage types for their API views.
func jsonView(v any) any {
	switch t := v.(type) {
	case []entity.WaitlistEntry:
		return dto.ConvertWaitlistEntries(t)
	case []entity.AuditLog:
		return dto.ConvertAuditLogs(t)
	}
	return v
}

type printer struct {
	tw *tabwriter.Writer
}

func (p *printer) row(cols ...any) {
	strs := make([]string, len(cols))
	for i, c := range cols {
		strs[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(p.tw, strings.Join(strs, "\t"))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}

func (p *printer) entries(entries []entity.WaitlistEntry) {
	if len(entries) == 0 {
		p.row("no pending entries")
		return
	}
	p.row("ID", "TYPE", "SLUG", "REASON", "VERSION", "REVIEW", "BAD DISCOUNT", "QUEUED")
	for i := range entries {
		e := &entries[i]
		p.row(e.Id, e.Type(), e.ProductSlug, e.Reason, e.Version,
			yesNo(e.RequiresManualReview), yesNo(e.HasInvalidDiscount), e.CreatedAt.Format(timeLayout))
	}
}

func (p *printer) diff(d *entity.DiffResult) {
	p.row("Entry:", d.WaitlistId)
	p.row("Kind:", d.Kind)
	p.row("Slug:", d.ProductSlug)
	if d.ProductId != "" {
		p.row("Product:", d.ProductId)
	}
	p.row("Summary:", d.Summary)
	if d.Stale {
		p.row("Warning:", "product changed after the entry was queued")
	}
	if len(d.Changes) > 0 {
		p.row("")
		p.row("FIELD", "CHANGE", "CURRENT", "PROPOSED", "%")
		for _, c := range d.Changes {
			pct := "-"
			if c.PercentageChange.Valid {
				pct = c.PercentageChange.Decimal.StringFixed(2)
			}
			p.row(waitlist.FieldDisplayName(c.Field), c.Change,
				waitlist.DisplayValue(c.Current), waitlist.DisplayValue(c.Proposed), pct)
		}
	}
	v := d.Validation
	p.row("")
	p.row("Valid:", yesNo(v.IsValid))
	p.row("Manual review:", yesNo(v.RequiresManualReview))
	for _, issue := range v.Issues {
		p.row("Issue:", issue)
	}
	for _, r := range v.ReviewReasons {
		p.row("Review reason:", r)
	}
}

func (p *printer) outcome(out waitlist.Outcome) {
	if !out.OK {
		p.row(fmt.Sprintf("%s %s failed", out.Action, out.Id), out.Kind, out.Message)
		return
	}
	switch {
	case out.ProductId != "":
		p.row(fmt.Sprintf("%s %s ok", out.Action, out.Id), "product "+out.ProductId)
	case out.Version != 0:
		p.row(fmt.Sprintf("%s %s ok", out.Action, out.Id), fmt.Sprintf("version %d", out.Version))
	default:
		p.row(fmt.Sprintf("%s %s ok", out.Action, out.Id))
	}
	if out.Stale {
		p.row("warning: product changed after the entry was queued")
	}
}

func (p *printer) bulk(verb string, res entity.BulkResult) {
	p.row(fmt.Sprintf("%s: %d, failed: %d", verb, res.Succeeded, res.Failed))
}

func (p *printer) stats(st *entity.QueueStats) {
	if st.Sampled {
		p.row(fmt.Sprintf("warning: only the oldest %d pending entries were read", st.SampleLimit))
	}
	p.row("Total entries:", st.TotalEntries)
	p.row("New products:", st.NewProducts)
	p.row("Pending updates:", st.PendingUpdates)
	p.row("Manual review:", st.ManualReviewRequired)
	p.row("Invalid discounts:", st.InvalidDiscounts)
	p.row("Average version:", st.Versions.Average.StringFixed(2))
	p.row("Max version:", st.Versions.Max)
	if st.AveragePriceDropPercentage.Valid {
		p.row("Average price drop %:", st.AveragePriceDropPercentage.Decimal.StringFixed(2))
	}
	p.row("Health:", st.Health.Status)
	p.row("Error rate %:", st.Health.ErrorRate.StringFixed(2))
	p.row("Manual review rate %:", st.Health.ManualReviewRate.StringFixed(2))

	if len(st.Categories) > 0 {
		p.row("")
		p.row("CATEGORY", "COUNT")
		for _, k := range sortedKeys(st.Categories) {
			p.row(k, st.Categories[k])
		}
	}
	if len(st.RecentEntries) > 0 {
		p.row("")
		p.row("RECENT", "TYPE", "SLUG", "REASON", "QUEUED")
		for _, e := range st.RecentEntries {
			p.row(e.Id, e.Type, e.ProductSlug, e.Reason, e.CreatedAt.Format(timeLayout))
		}
	}
}

func (p *printer) audit(logs []entity.AuditLog) {
	if len(logs) == 0 {
		p.row("no audit records")
		return
	}
	p.row("ID", "ACTION", "ACTOR", "TARGET", "REASON", "AT")
	for _, l := range logs {
		reason := "-"
		if l.Reason.Valid {
			reason = l.Reason.String
		}
		p.row(l.Id, l.Action, l.Actor, l.TargetType+"/"+l.TargetId, reason, l.CreatedAt.Format(timeLayout))
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
