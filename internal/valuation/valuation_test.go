package valuation

import (
	"testing"

	"github.com/matchsight/matchsight/internal/profile"
)

func strptr(s string) *string { return &s }

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), "test", nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func TestScoreProfile(t *testing.T) {
	s := testStore(t)
	s.QuestionCategory[1] = "s"
	s.QuestionRating[1] = map[string]int{"Often": 5}

	p := &profile.Profile{
		Username: "alice",
		Questions: []profile.Question{
			{ID: 1, Text: "How often?", TheirAnswer: strptr("Often")},
		},
	}

	score := s.ScoreProfile(p)
	if got := score.Ratings["sex"]; got != 5 {
		t.Errorf("Ratings[sex] = %d, want 5", got)
	}
	if got := score.Answered["sex"]; got != 1 {
		t.Errorf("Answered[sex] = %d, want 1", got)
	}
	if got := score.Ratings[Overall]; got != 5 {
		t.Errorf("Ratings[overall] = %d, want 5", got)
	}
}

func TestScoreProfile_SkipsAndOverall(t *testing.T) {
	s := testStore(t)
	s.QuestionCategory[1] = "s"
	s.QuestionRating[1] = map[string]int{"Yes": 3}
	s.QuestionCategory[2] = "m"
	s.QuestionRating[2] = map[string]int{"No": -2}
	s.QuestionCategory[3] = CategorySkipped
	s.QuestionRating[3] = map[string]int{"Maybe": 0}
	// id 4 rated but never categorized; must not contribute
	s.QuestionRating[4] = map[string]int{"Yes": 9}

	p := &profile.Profile{
		Username: "bob",
		Questions: []profile.Question{
			{ID: 1, TheirAnswer: strptr("Yes")},
			{ID: 2, TheirAnswer: strptr("No")},
			{ID: 3, TheirAnswer: strptr("Maybe")},
			{ID: 4, TheirAnswer: strptr("Yes")},
			{ID: 5, TheirAnswer: nil},                // unanswered
			{ID: 1, TheirAnswer: strptr("Whenever")}, // answer without rating entry
		},
	}

	score := s.ScoreProfile(p)
	want := map[string]int{"sex": 3, "mindset": -2, Overall: 1}
	for cat, w := range want {
		if got := score.Ratings[cat]; got != w {
			t.Errorf("Ratings[%s] = %d, want %d", cat, got, w)
		}
	}

	total := 0
	for cat, v := range score.Ratings {
		if cat != Overall {
			total += v
		}
	}
	if total != score.Ratings[Overall] {
		t.Errorf("overall %d does not equal category sum %d", score.Ratings[Overall], total)
	}
	if got := score.Answered[Overall]; got != 2 {
		t.Errorf("Answered[overall] = %d, want 2", got)
	}
}

func TestScoreProfile_Deterministic(t *testing.T) {
	s := testStore(t)
	s.QuestionCategory[1] = "l"
	s.QuestionRating[1] = map[string]int{"Yes": 2}
	p := &profile.Profile{
		Username:  "carol",
		Questions: []profile.Question{{ID: 1, TheirAnswer: strptr("Yes")}},
	}

	first := s.ScoreProfile(p)
	for i := 0; i < 5; i++ {
		again := s.ScoreProfile(p)
		if again.Ratings["life"] != first.Ratings["life"] || again.Answered["life"] != first.Answered["life"] {
			t.Fatalf("score changed on repeat: %+v vs %+v", again, first)
		}
	}
}

func TestFullyRated(t *testing.T) {
	s := testStore(t)
	options := []profile.AnswerOption{{Text: "Yes"}, {Text: "No"}}

	if s.FullyRated(1, options) {
		t.Error("unknown question reported fully rated")
	}

	s.QuestionCategory[1] = "s"
	s.QuestionRating[1] = map[string]int{"Yes": 1}
	if s.FullyRated(1, options) {
		t.Error("question with a missing option rating reported fully rated")
	}

	s.QuestionRating[1]["No"] = 0
	if !s.FullyRated(1, options) {
		t.Error("complete question not reported fully rated")
	}

	// A new option appearing later reopens the question.
	grown := append(options, profile.AnswerOption{Text: "Sometimes"})
	if s.FullyRated(1, grown) {
		t.Error("question with a new option still reported fully rated")
	}
}

func TestValuedAnswers(t *testing.T) {
	s := testStore(t)
	s.QuestionRating[1] = map[string]int{"Yes": -4}
	s.QuestionRating[2] = map[string]int{"No": 0}
	s.QuestionRating[3] = map[string]int{"Maybe": 2}

	p := &profile.Profile{
		Username: "dora",
		Questions: []profile.Question{
			{ID: 3, Text: "B?", TheirAnswer: strptr("Maybe")},
			{ID: 2, Text: "C?", TheirAnswer: strptr("No")},
			{ID: 1, Text: "A?", TheirAnswer: strptr("Yes")},
		},
	}

	valued := s.ValuedAnswers(p)
	if len(valued) != 2 {
		t.Fatalf("got %d valued answers, want 2 (zero ratings excluded)", len(valued))
	}
	if valued[0].Rating != -4 || valued[1].Rating != 2 {
		t.Errorf("valued answers not sorted ascending by rating: %+v", valued)
	}
}

func TestRankProfiles(t *testing.T) {
	s := testStore(t)
	s.QuestionCategory[1] = "m"
	s.QuestionRating[1] = map[string]int{"Yes": 10, "No": -10}

	profiles := []profile.Profile{
		{Username: "good", Questions: []profile.Question{{ID: 1, TheirAnswer: strptr("Yes")}}},
		{Username: "bad", Questions: []profile.Question{{ID: 1, TheirAnswer: strptr("No")}}},
		{Username: "blank"},
	}

	ranked := s.RankProfiles(profiles, "")
	if len(ranked) != 3 {
		t.Fatalf("got %d ranked profiles, want 3", len(ranked))
	}
	// Ascending: worst first, best last.
	wantOrder := []string{"bad", "blank", "good"}
	for i, want := range wantOrder {
		if ranked[i].Username != want {
			t.Errorf("ranked[%d] = %s, want %s", i, ranked[i].Username, want)
		}
	}

	byCat := s.RankProfiles(profiles, "mindset")
	if byCat[2].Rating != 10 {
		t.Errorf("category ranking best rating = %d, want 10", byCat[2].Rating)
	}
}

func TestRankProfiles_TiesByUsername(t *testing.T) {
	s := testStore(t)
	profiles := []profile.Profile{
		{Username: "zoe"},
		{Username: "amy"},
	}
	ranked := s.RankProfiles(profiles, "")
	if ranked[0].Username != "amy" || ranked[1].Username != "zoe" {
		t.Errorf("tied profiles not ordered by username: %+v", ranked)
	}
}

func TestCategoryLabels(t *testing.T) {
	s := testStore(t)
	labels := s.CategoryLabels()
	want := []string{"life", "mindset", "physical", "sex"}
	if len(labels) != len(want) {
		t.Fatalf("got %d labels, want %d", len(labels), len(want))
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("labels[%d] = %s, want %s", i, labels[i], want[i])
		}
	}
}
