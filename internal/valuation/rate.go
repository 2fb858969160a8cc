package valuation

import (
	"errors"
	"sort"
	"strings"

	"github.com/matchsight/matchsight/internal/profile"
)

// ErrQuestionNotFound is returned by ReviseQuestion when no question matches
// the given text. Callers treat it as a report, not a failure.
var ErrQuestionNotFound = errors.New("question not found")

// Interactor supplies answers for an interactive rating pass. The same pass
// logic runs under the terminal prompter, a scripted driver, or a test fake.
type Interactor interface {
	// AskCategory presents an item and its observed options and returns the
	// chosen category key, or skip=true to leave the item uncategorized.
	AskCategory(item string, options []string) (key string, skip bool, err error)
	// AskRating returns a zero-centered integer rating for the prompt. The
	// implementation keeps asking until it has a valid integer; an error
	// means the pass was interrupted.
	AskRating(prompt string) (int, error)
}

// Progress reports rating-pass progress through an explicit callback rather
// than shared counters.
type Progress struct {
	Rated int    // items newly rated this pass
	Saved bool   // whether this update coincided with a persist
	Item  string // the item just reached
}

// ProgressFunc receives Progress updates. May be nil.
type ProgressFunc func(Progress)

func (f ProgressFunc) report(p Progress) {
	if f != nil {
		f(p)
	}
}

// RateQuestions walks the backup's importance tiers in descending priority
// and prompts for every question that is not yet fully rated, so an
// interrupted pass resumes where it stopped. The store is persisted every
// saveInterval newly rated questions and once more at the end; an error from
// the interactor aborts the pass with the last persisted state intact.
// Returns the number of questions rated this pass.
func (s *Store) RateQuestions(b *profile.AccountBackup, in Interactor, saveInterval int, progress ProgressFunc) (int, error) {
	rated := 0
	for _, imp := range profile.ImportanceOrder {
		for _, q := range b.Tier(imp) {
			if s.FullyRated(q.ID, q.Options) {
				continue
			}
			rated++
			saved := false
			if saveInterval > 0 && rated%saveInterval == 0 {
				if err := s.Save(""); err != nil {
					return rated, err
				}
				saved = true
			}
			progress.report(Progress{Rated: rated, Saved: saved, Item: q.Text})
			if err := s.rateQuestion(q, in); err != nil {
				return rated, err
			}
		}
	}
	return rated, s.Save("")
}

// ReviseQuestion re-rates the first question in tier order whose text matches
// exactly, bypassing the fully-rated skip. Returns ErrQuestionNotFound when
// no question matches.
func (s *Store) ReviseQuestion(b *profile.AccountBackup, text string, in Interactor) error {
	for _, imp := range profile.ImportanceOrder {
		for _, q := range b.Tier(imp) {
			if q.Text != text {
				continue
			}
			if err := s.rateQuestion(q, in); err != nil {
				return err
			}
			return s.Save("")
		}
	}
	return ErrQuestionNotFound
}

// rateQuestion runs the category-then-options flow for one question. A skip
// stores the skipped sentinel and a zero rating for every option, which makes
// the question fully rated without affecting any score.
func (s *Store) rateQuestion(q profile.BackupQuestion, in Interactor) error {
	options := make([]string, len(q.Options))
	for i, opt := range q.Options {
		options[i] = opt.Text
	}

	key, skip, err := s.askCategory(q.Text, options, in)
	if err != nil {
		return err
	}

	if s.QuestionRating[q.ID] == nil {
		s.QuestionRating[q.ID] = map[string]int{}
	}
	if skip {
		s.QuestionCategory[q.ID] = CategorySkipped
		for _, opt := range q.Options {
			s.QuestionRating[q.ID][opt.Text] = 0
		}
		return nil
	}

	s.QuestionCategory[q.ID] = key
	for _, opt := range q.Options {
		rating, err := in.AskRating(normalizeRatingPrompt(opt.Text))
		if err != nil {
			return err
		}
		s.QuestionRating[q.ID][opt.Text] = rating
	}
	return nil
}

// RateDetails collects the distinct values observed for every detail name
// across all profiles (flattening list-valued details) and prompts for a
// category and per-value ratings. A skipped detail stays uncategorized for
// the pass. Saves once at the end.
func (s *Store) RateDetails(profiles []profile.Profile, in Interactor) error {
	values := DetailValues(profiles)

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		key, skip, err := s.askCategory(name, values[name], in)
		if err != nil {
			return err
		}
		if skip {
			continue
		}
		s.DetailCategory[name] = key
		if s.DetailRating[name] == nil {
			s.DetailRating[name] = map[string]int{}
		}
		for _, v := range values[name] {
			rating, err := in.AskRating(v)
			if err != nil {
				return err
			}
			s.DetailRating[name][v] = rating
		}
	}
	return s.Save("")
}

// DetailValues returns the sorted distinct values observed per detail name
// across the given profiles.
func DetailValues(profiles []profile.Profile) map[string][]string {
	seen := map[string]map[string]bool{}
	for i := range profiles {
		for name, value := range profiles[i].Details {
			if seen[name] == nil {
				seen[name] = map[string]bool{}
			}
			for _, v := range value {
				seen[name][v] = true
			}
		}
	}

	values := make(map[string][]string, len(seen))
	for name, set := range seen {
		list := make([]string, 0, len(set))
		for v := range set {
			list = append(list, v)
		}
		sort.Strings(list)
		values[name] = list
	}
	return values
}

// askCategory keeps asking until the interactor produces a skip or a key
// present in the category table.
func (s *Store) askCategory(item string, options []string, in Interactor) (string, bool, error) {
	for {
		key, skip, err := in.AskCategory(item, options)
		if err != nil {
			return "", false, err
		}
		if skip {
			return "", true, nil
		}
		if _, ok := s.Categories[key]; ok {
			return key, false, nil
		}
	}
}

// normalizeRatingPrompt replaces en dashes, which some terminals render as
// mojibake, before an option text becomes a prompt.
func normalizeRatingPrompt(text string) string {
	return strings.ReplaceAll(text, "–", "-")
}
