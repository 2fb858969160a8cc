package recommend

import (
	"strings"
	"testing"

	"github.com/matchsight/matchsight/internal/corpus"
	"github.com/matchsight/matchsight/internal/profile"
)

func strptr(s string) *string { return &s }

func emptyCorpus() *corpus.Corpus {
	return &corpus.Corpus{
		QuestionCount:   map[string]int{},
		Responses:       map[int64][]corpus.Response{},
		Stats:           map[int64]*corpus.Stats{},
		Answered:        map[int64]string{},
		Unanswered:      map[int64]string{},
		ShadowQuestions: map[int64]corpus.BackupAnswer{},
		RealQuestions:   map[int64]corpus.BackupAnswer{},
	}
}

func TestAnswerMismatches(t *testing.T) {
	c := emptyCorpus()
	c.Answered[1] = "Drink?"
	c.RealQuestions[1] = corpus.BackupAnswer{
		Answer:     "Often",
		Importance: profile.ImportanceSomewhatImportant,
		Matches:    []string{"Often", "Sometimes"},
	}
	c.ShadowQuestions[1] = corpus.BackupAnswer{
		Answer:     "Sometimes",
		Importance: profile.ImportanceSomewhatImportant,
		Matches:    []string{"Sometimes", "Often"},
	}
	// Same on both accounts; must not appear.
	c.RealQuestions[2] = corpus.BackupAnswer{Answer: "Yes", Matches: []string{"Yes"}}
	c.ShadowQuestions[2] = corpus.BackupAnswer{Answer: "Yes", Matches: []string{"Yes"}}
	// Only in one backup; not comparable.
	c.RealQuestions[3] = corpus.BackupAnswer{Answer: "No"}

	eng := New(c)
	mismatches := eng.AnswerMismatches()
	if len(mismatches) != 1 {
		t.Fatalf("got %d mismatches, want 1", len(mismatches))
	}

	m := mismatches[0]
	if m.ID != 1 || m.Text != "Drink?" {
		t.Errorf("mismatch = %+v, want question 1", m)
	}
	// Match sets compare order-normalized, so only the answer differs.
	if len(m.Fields) != 1 || m.Fields[0].Field != "answer" {
		t.Fatalf("Fields = %+v, want only the answer diff", m.Fields)
	}
	if m.Fields[0].Real != "Often" || m.Fields[0].Shadow != "Sometimes" {
		t.Errorf("answer diff = %+v", m.Fields[0])
	}
}

func TestAnswerMismatches_AllFields(t *testing.T) {
	c := emptyCorpus()
	c.RealQuestions[1] = corpus.BackupAnswer{
		Answer:     "A",
		Importance: profile.ImportanceMandatory,
		Matches:    []string{"A"},
	}
	c.ShadowQuestions[1] = corpus.BackupAnswer{
		Answer:     "B",
		Importance: profile.ImportanceNotImportant,
		Matches:    []string{"B"},
	}

	mismatches := New(c).AnswerMismatches()
	if len(mismatches) != 1 || len(mismatches[0].Fields) != 3 {
		t.Fatalf("mismatches = %+v, want one question with three diffs", mismatches)
	}
}

func TestShadowUnanswered(t *testing.T) {
	c := emptyCorpus()
	c.Unanswered[1] = "Seen twice"
	c.Unanswered[2] = "Seen once"
	c.Unanswered[3] = "Also seen once"
	q := profile.Question{Options: []profile.AnswerOption{{Text: "Yes"}}}
	c.Responses[1] = []corpus.Response{{Username: "a", Question: q}, {Username: "b", Question: q}}
	c.Responses[2] = []corpus.Response{{Username: "a", Question: q}}
	c.Responses[3] = []corpus.Response{{Username: "b", Question: q}}

	list := New(c).ShadowUnanswered()
	if len(list) != 3 {
		t.Fatalf("got %d entries, want 3", len(list))
	}
	if list[0].ID != 1 || list[0].Seen != 2 {
		t.Errorf("list[0] = %+v, want the most-seen question", list[0])
	}
	// Ties order by text.
	if list[1].Text != "Also seen once" || list[2].Text != "Seen once" {
		t.Errorf("tied entries out of order: %+v", list)
	}
}

func TestAnsweredDistribution(t *testing.T) {
	c := emptyCorpus()
	for id, n := range map[int64]int{10: 3, 11: 3, 12: 5, 13: 7} {
		c.Stats[id] = &corpus.Stats{Answered: n}
	}

	rows := New(c).AnsweredDistribution()
	if len(rows) != 5 {
		t.Fatalf("got %d rows, want 5 (dense 3..7)", len(rows))
	}
	wantCounts := map[int]int{3: 2, 4: 0, 5: 1, 6: 0, 7: 1}
	for i, row := range rows {
		if row.N != 3+i {
			t.Errorf("rows[%d].N = %d, want %d", i, row.N, 3+i)
		}
		if row.Count != wantCounts[row.N] {
			t.Errorf("rows[%d] (n=%d) count = %d, want %d", i, row.N, row.Count, wantCounts[row.N])
		}
	}

	if got := New(emptyCorpus()).AnsweredDistribution(); got != nil {
		t.Errorf("empty corpus distribution = %v, want nil", got)
	}
}

func TestAnswerSummary(t *testing.T) {
	c := emptyCorpus()
	c.Answered[1] = "Smoke?"
	c.Stats[1] = &corpus.Stats{MyWrong: 1, TheirWrong: 2, Answered: 10}
	c.ShadowQuestions[1] = corpus.BackupAnswer{Answer: "No", Importance: profile.ImportanceMandatory}

	s, ok := New(c).AnswerSummary(1)
	if !ok {
		t.Fatal("AnswerSummary reported no stats")
	}
	if s.Fraction != 0.3 {
		t.Errorf("Fraction = %v, want 0.3", s.Fraction)
	}
	if s.Answer != "No" || s.Importance != profile.ImportanceMandatory {
		t.Errorf("shadow fields = %+v", s)
	}

	if _, ok := New(c).AnswerSummary(99); ok {
		t.Error("summary produced for a question without stats")
	}
}

func TestBestToAnswer(t *testing.T) {
	c := emptyCorpus()
	c.Answered[1] = "Worst"
	c.Stats[1] = &corpus.Stats{MyWrong: 5, TheirWrong: 5, Answered: 20}
	c.Answered[2] = "Best"
	c.Stats[2] = &corpus.Stats{MyWrong: 0, TheirWrong: 0, Answered: 20}
	c.Answered[3] = "Middle"
	c.Stats[3] = &corpus.Stats{MyWrong: 1, TheirWrong: 1, Answered: 20}
	c.Answered[4] = "Thin"
	c.Stats[4] = &corpus.Stats{Answered: 3}

	list := New(c).BestToAnswer(5)
	if len(list) != 3 {
		t.Fatalf("got %d summaries, want 3 (n-cutoff drops the thin one)", len(list))
	}
	wantOrder := []string{"Best", "Middle", "Worst"}
	for i, want := range wantOrder {
		if list[i].Text != want {
			t.Errorf("list[%d] = %s, want %s", i, list[i].Text, want)
		}
	}
}

func TestBestToAnswer_TieBreaks(t *testing.T) {
	c := emptyCorpus()
	// Two perfect records: the better-attested one ranks earlier.
	c.Answered[2] = "A question"
	c.Stats[2] = &corpus.Stats{MyWrong: 0, TheirWrong: 0, Answered: 10}
	c.Answered[3] = "C question"
	c.Stats[3] = &corpus.Stats{MyWrong: 0, TheirWrong: 0, Answered: 20}
	c.Answered[1] = "B question"
	c.Stats[1] = &corpus.Stats{MyWrong: 2, TheirWrong: 0, Answered: 10}

	list := New(c).BestToAnswer(0)
	wantOrder := []int64{3, 2, 1}
	for i, want := range wantOrder {
		if list[i].ID != want {
			t.Errorf("list[%d].ID = %d, want %d", i, list[i].ID, want)
		}
	}
}

func TestHelpReanswer(t *testing.T) {
	c := emptyCorpus()
	c.Answered[1] = "Pets?"
	c.ShadowQuestions[1] = corpus.BackupAnswer{Answer: "Dogs", Importance: profile.ImportanceLittleImportant}
	mk := func(answer string, matches bool) corpus.Response {
		return corpus.Response{Question: profile.Question{
			ID:                 1,
			TheirAnswer:        strptr(answer),
			TheirAnswerMatches: matches,
		}}
	}
	c.Responses[1] = []corpus.Response{
		mk("Dogs", true),
		mk("Cats", true),
		mk("Cats", true),
		mk("Birds", false),
		{Question: profile.Question{ID: 1}}, // no answer given
	}

	r, ok := New(c).HelpReanswer(1)
	if !ok {
		t.Fatal("HelpReanswer reported unanswered")
	}
	if r.Answer != "Dogs" {
		t.Errorf("Answer = %q, want Dogs", r.Answer)
	}
	want := []string{"Cats", "Dogs"}
	if len(r.CompatibleAnswers) != len(want) {
		t.Fatalf("CompatibleAnswers = %v, want %v", r.CompatibleAnswers, want)
	}
	for i := range want {
		if r.CompatibleAnswers[i] != want[i] {
			t.Errorf("CompatibleAnswers[%d] = %s, want %s", i, r.CompatibleAnswers[i], want[i])
		}
	}

	if _, ok := New(c).HelpReanswer(2); ok {
		t.Error("reanswer produced for a never-answered question")
	}
}

func TestQuestionsToAnswer_Candidates(t *testing.T) {
	c := emptyCorpus()
	// Good candidate: low fraction, enough data, absent from the real backup.
	c.Answered[1] = "Good"
	c.Stats[1] = &corpus.Stats{MyWrong: 0, TheirWrong: 0, Answered: 20}
	// Too mismatched.
	c.Answered[2] = "Risky"
	c.Stats[2] = &corpus.Stats{MyWrong: 5, TheirWrong: 5, Answered: 20}
	// Not enough data.
	c.Answered[3] = "Thin"
	c.Stats[3] = &corpus.Stats{Answered: 2}
	// Already answered on the real account.
	c.Answered[4] = "Done"
	c.Stats[4] = &corpus.Stats{Answered: 20}
	c.RealQuestions[4] = corpus.BackupAnswer{Answer: "Yes"}

	plan := New(c).QuestionsToAnswer(0.1, 10, false)
	if len(plan.Candidates) != 1 || plan.Candidates[0].ID != 1 {
		t.Fatalf("Candidates = %+v, want only question 1", plan.Candidates)
	}
	if plan.Steps != nil {
		t.Errorf("Steps = %+v, want none without --by-profile", plan.Steps)
	}
}

func TestQuestionsToAnswer_GreedyCover(t *testing.T) {
	c := emptyCorpus()
	for _, id := range []int64{1, 2, 3} {
		c.Stats[id] = &corpus.Stats{Answered: 20}
	}
	c.Answered[1] = "Q1"
	c.Answered[2] = "Q2"
	c.Answered[3] = "Q3"

	q := func(id int64) profile.Question {
		return profile.Question{ID: id, Options: []profile.AnswerOption{{Text: "Yes"}}}
	}
	// p1 exposes all three candidates among ten questions; p2 exposes two of
	// them among two. p2's ratio wins the first pick, p1 claims the rest.
	c.QuestionCount["p1"] = 10
	c.QuestionCount["p2"] = 2
	c.Responses[1] = []corpus.Response{{Username: "p1", Question: q(1)}}
	c.Responses[2] = []corpus.Response{
		{Username: "p1", Question: q(2)},
		{Username: "p2", Question: q(2)},
	}
	c.Responses[3] = []corpus.Response{
		{Username: "p1", Question: q(3)},
		{Username: "p2", Question: q(3)},
	}

	plan := New(c).QuestionsToAnswer(1.0, 0, true)
	if len(plan.Candidates) != 3 {
		t.Fatalf("Candidates = %+v, want all three", plan.Candidates)
	}
	if len(plan.Steps) != 2 {
		t.Fatalf("Steps = %+v, want two visits", plan.Steps)
	}
	if plan.Steps[0].Username != "p2" || len(plan.Steps[0].Claimed) != 2 {
		t.Errorf("first step = %+v, want p2 claiming Q2 and Q3", plan.Steps[0])
	}
	if plan.Steps[0].Ratio != 1.0 {
		t.Errorf("first step ratio = %v, want 1.0", plan.Steps[0].Ratio)
	}
	if plan.Steps[1].Username != "p1" || len(plan.Steps[1].Claimed) != 1 {
		t.Errorf("second step = %+v, want p1 claiming Q1", plan.Steps[1])
	}
}

func TestQuestionsToAnswer_CoverTieBreaksAscending(t *testing.T) {
	c := emptyCorpus()
	c.Stats[1] = &corpus.Stats{Answered: 20}
	c.Answered[1] = "Q1"
	q := profile.Question{ID: 1, Options: []profile.AnswerOption{{Text: "Yes"}}}
	// Both profiles expose the lone candidate with identical ratios.
	c.QuestionCount["zeta"] = 4
	c.QuestionCount["alpha"] = 4
	c.Responses[1] = []corpus.Response{
		{Username: "zeta", Question: q},
		{Username: "alpha", Question: q},
	}

	plan := New(c).QuestionsToAnswer(1.0, 0, true)
	if len(plan.Steps) != 1 || plan.Steps[0].Username != "alpha" {
		t.Errorf("Steps = %+v, want a single visit to alpha", plan.Steps)
	}
}

func TestCheckStatus(t *testing.T) {
	c := emptyCorpus()
	long := strings.Repeat("x", 60)
	c.Answered[1] = long
	c.Stats[1] = &corpus.Stats{Answered: 5}
	c.Answered[2] = "Totally different"
	c.Stats[2] = &corpus.Stats{Answered: 5}

	// Matching is on the first 50 characters only.
	s, ok := New(c).CheckStatus(strings.Repeat("x", 50) + "yyyy")
	if !ok {
		t.Fatal("CheckStatus found nothing")
	}
	if s.ID != 1 {
		t.Errorf("matched question %d, want 1", s.ID)
	}

	if _, ok := New(c).CheckStatus("no such question"); ok {
		t.Error("CheckStatus matched a missing question")
	}
}

func TestCheckStatus_DeterministicScan(t *testing.T) {
	c := emptyCorpus()
	c.Answered[5] = "Same text"
	c.Answered[3] = "Same text"
	c.Stats[3] = &corpus.Stats{Answered: 1}
	c.Stats[5] = &corpus.Stats{Answered: 2}

	s, ok := New(c).CheckStatus("Same text")
	if !ok {
		t.Fatal("CheckStatus found nothing")
	}
	if s.ID != 3 {
		t.Errorf("matched question %d, want the lowest id", s.ID)
	}
}
