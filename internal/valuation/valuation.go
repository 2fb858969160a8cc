package valuation

import (
	"sort"

	"github.com/matchsight/matchsight/internal/profile"
)

// CategorySkipped marks a question the operator declined to categorize. It is
// a terminal state: the question counts as rated and is never prompted again.
// Reserved; config validation keeps it out of the category table.
const CategorySkipped = "skipped"

// Overall is the synthetic category holding the sum across all categories.
const Overall = "overall"

// Store is the scoring model: the category taxonomy plus per-question and
// per-detail integer ratings. Ratings are zero-centered; 0 marks a standard
// value for someone the viewer would date.
type Store struct {
	// Categories maps short keys to category labels, e.g. "s" -> "sex".
	Categories map[string]string
	// QuestionCategory maps question ids to category keys, or CategorySkipped.
	QuestionCategory map[int64]string
	// QuestionRating maps question ids to answer-text -> rating.
	QuestionRating map[int64]map[string]int
	// DetailCategory maps detail names (bodytype, ...) to category keys.
	DetailCategory map[string]string
	// DetailRating maps detail names to value-text -> rating.
	DetailRating map[string]map[string]int

	dir  string
	slot string
}

// DefaultCategories returns the default four-category taxonomy.
func DefaultCategories() map[string]string {
	return map[string]string{
		"s": "sex",      // frequency, openness, interests
		"m": "mindset",  // ethics, religion, politics, science
		"p": "physical", // height, bodytype, picture rating
		"l": "life",     // activities, interests, staying up late
	}
}

// New returns a Store bound to the given slot under dir. If the slot file
// exists it is loaded; otherwise the store starts with the given categories
// (or the defaults when nil) and empty rating mappings. A missing slot is not
// an error.
func New(dir, slot string, categories map[string]string) (*Store, error) {
	s := &Store{dir: dir, slot: slot}
	if SlotExists(dir, slot) {
		if err := s.Load(""); err != nil {
			return nil, err
		}
		return s, nil
	}
	if categories == nil {
		categories = DefaultCategories()
	}
	s.Categories = categories
	s.QuestionCategory = map[int64]string{}
	s.QuestionRating = map[int64]map[string]int{}
	s.DetailCategory = map[string]string{}
	s.DetailRating = map[string]map[string]int{}
	return s, nil
}

// Slot returns the store's bound slot name.
func (s *Store) Slot() string {
	return s.slot
}

// categoryLabel resolves a stored category key to its label. Keys missing
// from the table (legacy slots stored labels directly) fall back to
// themselves.
func (s *Store) categoryLabel(key string) string {
	if label, ok := s.Categories[key]; ok {
		return label
	}
	return key
}

// FullyRated reports whether a question needs no further rating: its category
// is set (possibly to CategorySkipped) and every currently known answer
// option has a rating entry. New options on a known question make it
// incomplete again.
func (s *Store) FullyRated(id int64, options []profile.AnswerOption) bool {
	if _, ok := s.QuestionCategory[id]; !ok {
		return false
	}
	ratings, ok := s.QuestionRating[id]
	if !ok {
		return false
	}
	for _, opt := range options {
		if _, ok := ratings[opt.Text]; !ok {
			return false
		}
	}
	return true
}

// Score is the result of scoring one profile: per-category rating sums and
// answered counts, both keyed by category label plus Overall.
type Score struct {
	Ratings  map[string]int `json:"ratings"`
	Answered map[string]int `json:"answered"`
}

// ScoreProfile scores a profile against the model. A question contributes
// when its category is set and not skipped, the respondent answered it, and
// the given answer has a rating entry. Pure function of (profile, store).
func (s *Store) ScoreProfile(p *profile.Profile) Score {
	ratings := map[string]int{}
	answered := map[string]int{}
	for _, q := range p.Questions {
		if q.TheirAnswer == nil {
			continue
		}
		key, ok := s.QuestionCategory[q.ID]
		if !ok || key == CategorySkipped {
			continue
		}
		rating, ok := s.QuestionRating[q.ID][*q.TheirAnswer]
		if !ok {
			continue
		}
		label := s.categoryLabel(key)
		answered[label]++
		ratings[label] += rating
	}

	ratingTotal, answeredTotal := 0, 0
	for _, v := range ratings {
		ratingTotal += v
	}
	for _, v := range answered {
		answeredTotal += v
	}
	ratings[Overall] = ratingTotal
	answered[Overall] = answeredTotal
	return Score{Ratings: ratings, Answered: answered}
}

// ValuedAnswer is one answered question with a nonzero rating.
type ValuedAnswer struct {
	Rating   int    `json:"rating"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ValuedAnswers lists every answer on the profile carrying a nonzero rating,
// sorted ascending by rating, then question text, then answer.
func (s *Store) ValuedAnswers(p *profile.Profile) []ValuedAnswer {
	var valued []ValuedAnswer
	for _, q := range p.Questions {
		if q.TheirAnswer == nil {
			continue
		}
		rating, ok := s.QuestionRating[q.ID][*q.TheirAnswer]
		if !ok || rating == 0 {
			continue
		}
		valued = append(valued, ValuedAnswer{
			Rating:   rating,
			Question: q.Text,
			Answer:   *q.TheirAnswer,
		})
	}
	sort.Slice(valued, func(i, j int) bool {
		if valued[i].Rating != valued[j].Rating {
			return valued[i].Rating < valued[j].Rating
		}
		if valued[i].Question != valued[j].Question {
			return valued[i].Question < valued[j].Question
		}
		return valued[i].Answer < valued[j].Answer
	})
	return valued
}

// RankedProfile is one profile's score in a ranking.
type RankedProfile struct {
	Username string `json:"username"`
	Rating   int    `json:"rating"`
	Answered int    `json:"answered"`
}

// RankProfiles scores every profile on the given category (Overall when
// empty) and returns them sorted ascending by (rating, answered, username):
// the numerically best profile is the LAST element. Callers rendering the
// ranking should keep that order so the best result lands nearest the
// prompt.
func (s *Store) RankProfiles(profiles []profile.Profile, category string) []RankedProfile {
	if category == "" {
		category = Overall
	}
	ranked := make([]RankedProfile, 0, len(profiles))
	for i := range profiles {
		score := s.ScoreProfile(&profiles[i])
		ranked = append(ranked, RankedProfile{
			Username: profiles[i].Username,
			Rating:   score.Ratings[category],
			Answered: score.Answered[category],
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Rating != ranked[j].Rating {
			return ranked[i].Rating < ranked[j].Rating
		}
		if ranked[i].Answered != ranked[j].Answered {
			return ranked[i].Answered < ranked[j].Answered
		}
		return ranked[i].Username < ranked[j].Username
	})
	return ranked
}

// CategoryLabels returns the category labels sorted ascending, without
// Overall.
func (s *Store) CategoryLabels() []string {
	labels := make([]string, 0, len(s.Categories))
	for _, label := range s.Categories {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// ScoreReport is the full read-only rating view of one profile: the valued
// answers followed by the per-category summary.
type ScoreReport struct {
	Username   string         `json:"username"`
	Valued     []ValuedAnswer `json:"valued"`
	Score      Score          `json:"score"`
	Categories []string       `json:"categories"`
}

// Report builds the ScoreReport for a profile.
func (s *Store) Report(p *profile.Profile) *ScoreReport {
	return &ScoreReport{
		Username:   p.Username,
		Valued:     s.ValuedAnswers(p),
		Score:      s.ScoreProfile(p),
		Categories: s.CategoryLabels(),
	}
}
