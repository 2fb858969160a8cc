package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/olekukonko/tablewriter"

	"github.com/matchsight/matchsight/internal/recommend"
	"github.com/matchsight/matchsight/internal/store"
	"github.com/matchsight/matchsight/internal/valuation"
)

// Table writes data as a formatted table to stdout
func Table(data interface{}) error {
	return TableTo(os.Stdout, data)
}

// TableTo writes data as a formatted table to the given writer
func TableTo(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case []store.ProfileSummary:
		return profilesTable(w, v)
	case []store.BackupInfo:
		return backupsTable(w, v)
	case []store.ImportRecord:
		return importsTable(w, v)
	case []valuation.RankedProfile:
		return rankingTable(w, v)
	case *valuation.ScoreReport:
		return scoreReport(w, v)
	case []recommend.Summary:
		return summariesTable(w, v)
	case []recommend.UnansweredQuestion:
		return unansweredTable(w, v)
	case []recommend.DistributionRow:
		return distributionTable(w, v)
	case []recommend.Mismatch:
		return mismatchReport(w, v)
	case recommend.Reanswer:
		return reanswerReport(w, v)
	case recommend.CoverPlan:
		return coverReport(w, v)
	default:
		return fmt.Errorf("unsupported data type for table output: %T", data)
	}
}

func profilesTable(w io.Writer, profiles []store.ProfileSummary) error {
	if len(profiles) == 0 {
		fmt.Fprintln(w, "No profiles stored.")
		return nil
	}

	t := tablewriter.NewTable(w)
	t.Header("USERNAME", "MATCH %", "QUESTIONS", "FETCHED")
	for _, p := range profiles {
		t.Append([]string{
			p.Username,
			strconv.Itoa(p.MatchPercent),
			strconv.Itoa(p.QuestionCount),
			p.FetchedAt.Format("Jan 02, 2006"),
		})
	}
	return t.Render()
}

func backupsTable(w io.Writer, backups []store.BackupInfo) error {
	if len(backups) == 0 {
		fmt.Fprintln(w, "No question backups stored.")
		return nil
	}

	t := tablewriter.NewTable(w)
	t.Header("ACCOUNT", "ROLE", "SAVED")
	for _, b := range backups {
		t.Append([]string{b.Account, string(b.Role), b.SavedAt.Format("Jan 02, 2006")})
	}
	return t.Render()
}

func importsTable(w io.Writer, records []store.ImportRecord) error {
	if len(records) == 0 {
		fmt.Fprintln(w, "No imports recorded.")
		return nil
	}

	t := tablewriter.NewTable(w)
	t.Header("SOURCE", "KIND", "IMPORTED", "SKIPPED", "WHEN")
	for _, r := range records {
		t.Append([]string{
			r.Source,
			r.Kind,
			strconv.Itoa(r.Imported),
			strconv.Itoa(r.Skipped),
			r.CreatedAt.Format("Jan 02, 2006"),
		})
	}
	return t.Render()
}

// rankingTable renders a profile ranking. The input arrives ascending, best
// profile last, and is printed in that order so the best result lands at the
// bottom, nearest the prompt.
func rankingTable(w io.Writer, ranked []valuation.RankedProfile) error {
	if len(ranked) == 0 {
		fmt.Fprintln(w, "No profiles to rank.")
		return nil
	}

	t := tablewriter.NewTable(w)
	t.Header("USERNAME", "RATING", "ANSWERED")
	for _, r := range ranked {
		t.Append([]string{r.Username, ColorRating(r.Rating), strconv.Itoa(r.Answered)})
	}
	return t.Render()
}

func scoreReport(w io.Writer, report *valuation.ScoreReport) error {
	for _, v := range report.Valued {
		fmt.Fprintln(w, v.Question)
		fmt.Fprintf(w, "  %s : %s\n", ColorRating(v.Rating), v.Answer)
	}
	if len(report.Valued) > 0 {
		fmt.Fprintln(w)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, cat := range append(append([]string{}, report.Categories...), valuation.Overall) {
		fmt.Fprintf(tw, "%s\t%d / %d\n", cat, report.Score.Ratings[cat], report.Score.Answered[cat])
	}
	return tw.Flush()
}

func summariesTable(w io.Writer, summaries []recommend.Summary) error {
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No answered questions match.")
		return nil
	}

	t := tablewriter.NewTable(w)
	t.Header("F", "MY", "THEIR", "N", "QUESTION", "IMPORTANCE", "ANSWER")
	for _, s := range summaries {
		t.Append(summaryRow(s))
	}
	return t.Render()
}

func summaryRow(s recommend.Summary) []string {
	return []string{
		fmt.Sprintf("%.2f", s.Fraction),
		strconv.Itoa(s.MyWrong),
		strconv.Itoa(s.TheirWrong),
		strconv.Itoa(s.Answered),
		s.Text,
		string(s.Importance),
		s.Answer,
	}
}

// SummaryBlock renders one answer summary in the two-line layout used by
// status checks.
func SummaryBlock(w io.Writer, s recommend.Summary) {
	fmt.Fprintf(w, "%.2f %-3d%-3d%-4d%s\n", s.Fraction, s.MyWrong, s.TheirWrong, s.Answered, s.Text)
	fmt.Fprintf(w, "          %-19s%s\n", s.Importance, s.Answer)
}

func unansweredTable(w io.Writer, unanswered []recommend.UnansweredQuestion) error {
	if len(unanswered) == 0 {
		fmt.Fprintln(w, "No unanswered questions recorded.")
		return nil
	}

	t := tablewriter.NewTable(w)
	t.Header("SEEN", "QUESTION")
	for _, u := range unanswered {
		t.Append([]string{strconv.Itoa(u.Seen), u.Text})
	}
	return t.Render()
}

func distributionTable(w io.Writer, rows []recommend.DistributionRow) error {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No statistics recorded.")
		return nil
	}

	max := 0
	for _, r := range rows {
		if r.Count > max {
			max = r.Count
		}
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%3d -- %-4d %s\n", r.N, r.Count, strings.Repeat("#", scaleBar(r.Count, max, 40)))
	}
	return nil
}

// scaleBar maps count into a bar of at most width characters, keeping
// nonzero counts visible.
func scaleBar(count, max, width int) int {
	if count == 0 || max == 0 {
		return 0
	}
	n := count * width / max
	if n == 0 {
		n = 1
	}
	return n
}

func mismatchReport(w io.Writer, mismatches []recommend.Mismatch) error {
	if len(mismatches) == 0 {
		fmt.Fprintln(w, "No mismatches between the two accounts.")
		return nil
	}

	for _, m := range mismatches {
		fmt.Fprintln(w, m.Text)
		for _, f := range m.Fields {
			fmt.Fprintf(w, "  %s: %s (real) != %s (shadow)\n", strings.ToUpper(f.Field), f.Real, f.Shadow)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func reanswerReport(w io.Writer, r recommend.Reanswer) error {
	fmt.Fprintf(w, " %s\n", r.Text)
	fmt.Fprintf(w, "  current answer: %s\n", r.Answer)
	fmt.Fprintf(w, "  compatible answers: %s\n", strings.Join(r.CompatibleAnswers, " | "))
	fmt.Fprintf(w, "  importance: %s\n", r.Importance)
	return nil
}

func coverReport(w io.Writer, plan recommend.CoverPlan) error {
	if len(plan.Candidates) == 0 {
		fmt.Fprintln(w, "No questions to answer under the current cutoffs.")
		return nil
	}

	for i, step := range plan.Steps {
		fmt.Fprintf(w, "Visit %d: %s (claims %d, ratio %.2f)\n", i+1, step.Username, len(step.Claimed), step.Ratio)
		for _, c := range step.Claimed {
			fmt.Fprintf(w, "  %s\n", c.Text)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "All candidates (%d):\n", len(plan.Candidates))
	for _, c := range plan.Candidates {
		fmt.Fprintf(w, "  %s\n", c.Text)
	}
	return nil
}
