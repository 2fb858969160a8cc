// Package corpus builds per-question aggregates over a batch of profile
// snapshots and the two account backups. A corpus is rebuilt from scratch
// each analysis session; there is no incremental update.
package corpus

import (
	"github.com/matchsight/matchsight/internal/profile"
)

// Stats counts how a question performed across profiles the viewer
// personally answered.
type Stats struct {
	MyWrong    int `json:"my_wrong"`    // viewer's answer flagged incompatible
	TheirWrong int `json:"their_wrong"` // respondent's answer flagged incompatible
	Answered   int `json:"answered"`    // profiles where the viewer answered
}

// Response is one profile's exposure of a question.
type Response struct {
	Username string
	Question profile.Question
}

// BackupAnswer is an account backup entry normalized for comparison: the
// account's own answer, the question's importance tier, and the options the
// account flagged compatible.
type BackupAnswer struct {
	Answer     string             `json:"answer"`
	Importance profile.Importance `json:"importance"`
	Matches    []string           `json:"matches"`
}

// Corpus holds the aggregates for one batch of snapshots.
type Corpus struct {
	// QuestionCount is each profile's raw question count, used by the greedy
	// cover ratio.
	QuestionCount map[string]int
	// Responses lists, per question id, every profile exposing it, in input
	// order.
	Responses map[int64][]Response
	// Stats holds per-question counters, present only for questions the
	// viewer answered on at least one profile.
	Stats map[int64]*Stats
	// Answered maps question ids the viewer has answered to their first-seen
	// text.
	Answered map[int64]string
	// Unanswered maps question ids the viewer has not answered — and that the
	// shadow backup also lacks — to their first-seen text.
	Unanswered map[int64]string
	// ShadowQuestions and RealQuestions are the normalized account backups.
	ShadowQuestions map[int64]BackupAnswer
	RealQuestions   map[int64]BackupAnswer
}

// Build ingests a batch of snapshots and the two backups. Profiles should be
// supplied in a deterministic order (the store returns them sorted by
// username); first-seen registry text follows that order. Either backup may
// be nil. Questions with no answer options are malformed and are excluded
// from all aggregates.
func Build(profiles []profile.Profile, shadow, real *profile.AccountBackup) *Corpus {
	c := &Corpus{
		QuestionCount:   map[string]int{},
		Responses:       map[int64][]Response{},
		Stats:           map[int64]*Stats{},
		Answered:        map[int64]string{},
		Unanswered:      map[int64]string{},
		ShadowQuestions: normalizeBackup(shadow),
		RealQuestions:   normalizeBackup(real),
	}

	for i := range profiles {
		p := &profiles[i]
		c.QuestionCount[p.Username] = len(p.Questions)
		for _, q := range p.Questions {
			if q.ID == 0 || len(q.Options) == 0 {
				continue
			}
			c.Responses[q.ID] = append(c.Responses[q.ID], Response{
				Username: p.Username,
				Question: q,
			})

			if q.MyAnswer != nil {
				if _, ok := c.Answered[q.ID]; !ok {
					c.Answered[q.ID] = q.Text
				}
				st := c.Stats[q.ID]
				if st == nil {
					st = &Stats{}
					c.Stats[q.ID] = st
				}
				st.Answered++
				if !q.MyAnswerMatches {
					st.MyWrong++
				}
				if !q.TheirAnswerMatches {
					st.TheirWrong++
				}
				continue
			}

			if _, ok := c.Unanswered[q.ID]; ok {
				continue
			}
			if _, ok := c.ShadowQuestions[q.ID]; ok {
				continue
			}
			c.Unanswered[q.ID] = q.Text
		}
	}
	return c
}

// normalizeBackup flattens a backup's tiers into id-keyed entries. The answer
// is the option flagged as the account's own; matches are the options flagged
// compatible, in option order.
func normalizeBackup(b *profile.AccountBackup) map[int64]BackupAnswer {
	normalized := map[int64]BackupAnswer{}
	if b == nil {
		return normalized
	}
	for _, imp := range profile.ImportanceOrder {
		for _, q := range b.Tier(imp) {
			if q.ID == 0 || len(q.Options) == 0 {
				continue
			}
			entry := BackupAnswer{Importance: imp}
			for _, opt := range q.Options {
				if opt.IsUsers && entry.Answer == "" {
					entry.Answer = opt.Text
				}
				if opt.IsMatch {
					entry.Matches = append(entry.Matches, opt.Text)
				}
			}
			normalized[q.ID] = entry
		}
	}
	return normalized
}
