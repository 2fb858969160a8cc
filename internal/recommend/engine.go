// Package recommend derives reports and revisit recommendations from corpus
// aggregates: backup cross-checks, answer-performance rankings, and the
// greedy covering heuristic over stored profiles.
package recommend

import (
	"sort"
	"strings"

	"github.com/matchsight/matchsight/internal/corpus"
	"github.com/matchsight/matchsight/internal/profile"
)

// Engine answers recommendation queries over a built corpus.
type Engine struct {
	c *corpus.Corpus
}

// New returns an Engine over the given corpus.
func New(c *corpus.Corpus) *Engine {
	return &Engine{c: c}
}

// FieldDiff is one differing field between the two account backups.
type FieldDiff struct {
	Field  string `json:"field"`
	Real   string `json:"real"`
	Shadow string `json:"shadow"`
}

// Mismatch is a question answered differently by the two accounts.
type Mismatch struct {
	ID     int64       `json:"id"`
	Text   string      `json:"text"`
	Fields []FieldDiff `json:"fields"`
}

// AnswerMismatches compares every question present in both backups field by
// field — answer, importance, and the match sets order-normalized — and
// returns only the questions with differing fields, sorted by (text, id).
// The question text comes from the answered registry when known.
func (e *Engine) AnswerMismatches() []Mismatch {
	var mismatches []Mismatch
	for id, real := range e.c.RealQuestions {
		shadow, ok := e.c.ShadowQuestions[id]
		if !ok {
			continue
		}

		var fields []FieldDiff
		if real.Answer != shadow.Answer {
			fields = append(fields, FieldDiff{Field: "answer", Real: real.Answer, Shadow: shadow.Answer})
		}
		if real.Importance != shadow.Importance {
			fields = append(fields, FieldDiff{
				Field:  "importance",
				Real:   string(real.Importance),
				Shadow: string(shadow.Importance),
			})
		}
		if joinSorted(real.Matches) != joinSorted(shadow.Matches) {
			fields = append(fields, FieldDiff{
				Field:  "matches",
				Real:   strings.Join(real.Matches, " OR "),
				Shadow: strings.Join(shadow.Matches, " OR "),
			})
		}
		if len(fields) == 0 {
			continue
		}
		mismatches = append(mismatches, Mismatch{
			ID:     id,
			Text:   e.questionText(id),
			Fields: fields,
		})
	}
	sortByTextID(mismatches, func(m Mismatch) (string, int64) { return m.Text, m.ID })
	return mismatches
}

// UnansweredQuestion is a question the viewer never answered, with how many
// stored profiles expose it.
type UnansweredQuestion struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
	Seen int    `json:"seen"`
}

// ShadowUnanswered lists the unanswered registry ordered by visibility:
// descending by the number of profiles exposing the question, ties ascending
// by text then id.
func (e *Engine) ShadowUnanswered() []UnansweredQuestion {
	list := make([]UnansweredQuestion, 0, len(e.c.Unanswered))
	for id, text := range e.c.Unanswered {
		list = append(list, UnansweredQuestion{ID: id, Text: text, Seen: len(e.c.Responses[id])})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Seen != list[j].Seen {
			return list[i].Seen > list[j].Seen
		}
		if list[i].Text != list[j].Text {
			return list[i].Text < list[j].Text
		}
		return list[i].ID < list[j].ID
	})
	return list
}

// DistributionRow is one bucket of the answered-count histogram.
type DistributionRow struct {
	N     int `json:"n"`
	Count int `json:"count"`
}

// AnsweredDistribution histograms the Answered counter over all questions
// with stats. The result is dense: every integer between the observed
// minimum and maximum appears, zero-count gaps included. Nil when there are
// no stats.
func (e *Engine) AnsweredDistribution() []DistributionRow {
	if len(e.c.Stats) == 0 {
		return nil
	}

	counts := map[int]int{}
	min, max := 0, 0
	first := true
	for _, st := range e.c.Stats {
		counts[st.Answered]++
		if first || st.Answered < min {
			min = st.Answered
		}
		if first || st.Answered > max {
			max = st.Answered
		}
		first = false
	}

	rows := make([]DistributionRow, 0, max-min+1)
	for n := min; n <= max; n++ {
		rows = append(rows, DistributionRow{N: n, Count: counts[n]})
	}
	return rows
}

// Summary describes how one of the viewer's answers performs across the
// corpus.
type Summary struct {
	ID         int64              `json:"id"`
	Fraction   float64            `json:"fraction"` // (MyWrong+TheirWrong)/Answered
	MyWrong    int                `json:"my_wrong"`
	TheirWrong int                `json:"their_wrong"`
	Answered   int                `json:"answered"`
	Text       string             `json:"text"`
	Importance profile.Importance `json:"importance,omitempty"`
	Answer     string             `json:"answer,omitempty"`
}

// AnswerSummary builds the summary for one answered question. The boolean is
// false when the question has no stats. Importance and the viewer's answer
// come from the shadow backup and stay empty when the backup lacks the id.
func (e *Engine) AnswerSummary(id int64) (Summary, bool) {
	st, ok := e.c.Stats[id]
	if !ok {
		return Summary{}, false
	}
	s := Summary{
		ID:         id,
		MyWrong:    st.MyWrong,
		TheirWrong: st.TheirWrong,
		Answered:   st.Answered,
		Text:       e.c.Answered[id],
	}
	if st.Answered > 0 {
		s.Fraction = float64(st.MyWrong+st.TheirWrong) / float64(st.Answered)
	}
	if shadow, ok := e.c.ShadowQuestions[id]; ok {
		s.Importance = shadow.Importance
		s.Answer = shadow.Answer
	}
	return s, true
}

// BestToAnswer ranks the viewer's answered questions by how badly they
// perform: ascending by (fraction, myWrong, theirWrong, -answered), final
// ties by (text, id). Questions with fewer than nCutoff recorded responses
// are dropped.
func (e *Engine) BestToAnswer(nCutoff int) []Summary {
	var summaries []Summary
	for id := range e.c.Answered {
		s, ok := e.AnswerSummary(id)
		if !ok || s.Answered < nCutoff {
			continue
		}
		summaries = append(summaries, s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if a.Fraction != b.Fraction {
			return a.Fraction < b.Fraction
		}
		if a.MyWrong != b.MyWrong {
			return a.MyWrong < b.MyWrong
		}
		if a.TheirWrong != b.TheirWrong {
			return a.TheirWrong < b.TheirWrong
		}
		if a.Answered != b.Answered {
			return a.Answered > b.Answered
		}
		if a.Text != b.Text {
			return a.Text < b.Text
		}
		return a.ID < b.ID
	})
	return summaries
}

// Reanswer collects what the viewer needs to reconsider an answer: the
// current shadow answer, the distinct answers given by respondents who were
// flagged compatible, and the question's importance.
type Reanswer struct {
	ID                int64              `json:"id"`
	Text              string             `json:"text"`
	Answer            string             `json:"answer,omitempty"`
	CompatibleAnswers []string           `json:"compatible_answers"`
	Importance        profile.Importance `json:"importance,omitempty"`
}

// HelpReanswer builds the reanswer report for a question id. The boolean is
// false when the viewer never answered the question.
func (e *Engine) HelpReanswer(id int64) (Reanswer, bool) {
	text, ok := e.c.Answered[id]
	if !ok {
		return Reanswer{}, false
	}
	r := Reanswer{ID: id, Text: text}
	if shadow, ok := e.c.ShadowQuestions[id]; ok {
		r.Answer = shadow.Answer
		r.Importance = shadow.Importance
	}

	seen := map[string]bool{}
	for _, resp := range e.c.Responses[id] {
		q := resp.Question
		if q.TheirAnswer == nil || !q.TheirAnswerMatches {
			continue
		}
		if !seen[*q.TheirAnswer] {
			seen[*q.TheirAnswer] = true
			r.CompatibleAnswers = append(r.CompatibleAnswers, *q.TheirAnswer)
		}
	}
	sort.Strings(r.CompatibleAnswers)
	return r, true
}

// Candidate is a question worth answering on the primary account.
type Candidate struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// CoverStep is one pick of the greedy covering heuristic.
type CoverStep struct {
	Username string      `json:"username"`
	Ratio    float64     `json:"ratio"`
	Claimed  []Candidate `json:"claimed"`
}

// CoverPlan is the result of QuestionsToAnswer: the greedy revisit steps
// (empty when byProfile is off) and the full candidate list.
type CoverPlan struct {
	Steps      []CoverStep `json:"steps,omitempty"`
	Candidates []Candidate `json:"candidates"`
}

// QuestionsToAnswer finds the questions the primary account should answer:
// questions the real backup lacks, with at least nCutoff recorded responses
// and a mismatch fraction below fCutoff. With byProfile set it also runs the
// greedy covering heuristic, repeatedly picking the profile maximizing
// claimed-candidates over its total question count; ratio ties break
// ascending by username. Claimed and candidate lists are sorted by
// (text, id).
func (e *Engine) QuestionsToAnswer(fCutoff float64, nCutoff int, byProfile bool) CoverPlan {
	var candidates []Candidate
	for id, st := range e.c.Stats {
		if _, ok := e.c.RealQuestions[id]; ok {
			continue
		}
		if st.Answered < nCutoff {
			continue
		}
		f := float64(st.MyWrong+st.TheirWrong) / float64(st.Answered)
		if f >= fCutoff {
			continue
		}
		candidates = append(candidates, Candidate{ID: id, Text: e.questionText(id)})
	}
	sortByTextID(candidates, func(c Candidate) (string, int64) { return c.Text, c.ID })

	plan := CoverPlan{Candidates: candidates}
	if byProfile {
		plan.Steps = e.coverByProfile(candidates)
	}
	return plan
}

// coverByProfile runs the greedy set cover: each step claims, for the best
// profile, every unclaimed candidate it exposes.
func (e *Engine) coverByProfile(candidates []Candidate) []CoverStep {
	pool := make(map[int64]Candidate, len(candidates))
	for _, c := range candidates {
		pool[c.ID] = c
	}

	var steps []CoverStep
	for len(pool) > 0 {
		// Count unclaimed candidates per exposing profile.
		exposed := map[string][]Candidate{}
		for id, cand := range pool {
			for _, resp := range e.c.Responses[id] {
				exposed[resp.Username] = append(exposed[resp.Username], cand)
			}
		}
		if len(exposed) == 0 {
			break
		}

		usernames := make([]string, 0, len(exposed))
		for username := range exposed {
			usernames = append(usernames, username)
		}
		sort.Strings(usernames)

		// Strictly-greater comparison over ascending usernames keeps ratio
		// ties deterministic.
		bestUser, bestRatio := "", 0.0
		for _, username := range usernames {
			total := e.c.QuestionCount[username]
			if total == 0 {
				continue
			}
			ratio := float64(len(exposed[username])) / float64(total)
			if ratio > bestRatio {
				bestRatio = ratio
				bestUser = username
			}
		}
		if bestUser == "" {
			break
		}

		claimed := exposed[bestUser]
		sortByTextID(claimed, func(c Candidate) (string, int64) { return c.Text, c.ID })
		for _, c := range claimed {
			delete(pool, c.ID)
		}
		steps = append(steps, CoverStep{Username: bestUser, Ratio: bestRatio, Claimed: claimed})
	}
	return steps
}

// statusPrefixLen is how much of the question text CheckStatus compares.
const statusPrefixLen = 50

// CheckStatus finds the first answered question whose registered text shares
// its first 50 characters with text; scan order is ascending (text, id) so
// the match is deterministic. The boolean is false when nothing matches.
func (e *Engine) CheckStatus(text string) (Summary, bool) {
	type entry struct {
		id   int64
		text string
	}
	entries := make([]entry, 0, len(e.c.Answered))
	for id, t := range e.c.Answered {
		entries = append(entries, entry{id: id, text: t})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].text != entries[j].text {
			return entries[i].text < entries[j].text
		}
		return entries[i].id < entries[j].id
	})

	want := prefix(text, statusPrefixLen)
	for _, en := range entries {
		if prefix(en.text, statusPrefixLen) == want {
			return e.AnswerSummary(en.id)
		}
	}
	return Summary{}, false
}

// questionText resolves the display text of a question id from the
// registries, falling back to the first recorded response.
func (e *Engine) questionText(id int64) string {
	if text, ok := e.c.Answered[id]; ok {
		return text
	}
	if text, ok := e.c.Unanswered[id]; ok {
		return text
	}
	if responses := e.c.Responses[id]; len(responses) > 0 {
		return responses[0].Question.Text
	}
	return ""
}

func prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n])
}

func joinSorted(values []string) string {
	sorted := make([]string, len(values))
	copy(sorted, values)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x00")
}

// sortByTextID sorts a slice by an extracted (text, id) key.
func sortByTextID[T any](items []T, key func(T) (string, int64)) {
	sort.Slice(items, func(i, j int) bool {
		ti, ii := key(items[i])
		tj, ij := key(items[j])
		if ti != tj {
			return ti < tj
		}
		return ii < ij
	})
}
