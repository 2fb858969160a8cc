package profile

import (
	"strings"
	"testing"
)

func TestParseProfiles_SingleObject(t *testing.T) {
	doc := `{
		"username": "  alice  ",
		"match_percent": 87,
		"questions": [
			{"id": 1, "text": " Do you smoke? ", "answer_options": [{"text": "Yes"}, {"text": "No"}],
			 "my_answer": "No", "their_answer": ""}
		],
		"details": {"diet": "vegan", "languages": ["english", "german"]}
	}`

	profiles, err := ParseProfiles(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseProfiles failed: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("got %d profiles, want 1", len(profiles))
	}

	p := profiles[0]
	if p.Username != "alice" {
		t.Errorf("Username = %q, want trimmed alice", p.Username)
	}
	q := p.Questions[0]
	if q.Text != "Do you smoke?" {
		t.Errorf("Text = %q, want trimmed", q.Text)
	}
	if q.MyAnswer == nil || *q.MyAnswer != "No" {
		t.Errorf("MyAnswer = %v, want No", q.MyAnswer)
	}
	if q.TheirAnswer != nil {
		t.Errorf("blank TheirAnswer should collapse to nil, got %q", *q.TheirAnswer)
	}

	// Details decode from both the string and the list export forms.
	if got := p.Details["diet"]; len(got) != 1 || got[0] != "vegan" {
		t.Errorf("Details[diet] = %v", got)
	}
	if got := p.Details["languages"]; len(got) != 2 || got[1] != "german" {
		t.Errorf("Details[languages] = %v", got)
	}
}

func TestParseProfiles_Array(t *testing.T) {
	doc := ` [
		{"username": "alice", "questions": []},
		{"username": "bob", "questions": []}
	]`

	profiles, err := ParseProfiles(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseProfiles failed: %v", err)
	}
	if len(profiles) != 2 || profiles[0].Username != "alice" || profiles[1].Username != "bob" {
		t.Errorf("profiles = %+v", profiles)
	}
}

func TestParseProfiles_MissingUsername(t *testing.T) {
	_, err := ParseProfiles(strings.NewReader(`{"username": "  ", "questions": []}`))
	if err == nil {
		t.Fatal("expected error for blank username")
	}
}

func TestParseBackup(t *testing.T) {
	doc := `{
		"mandatory": [
			{"id": 7, "text": " Smoke? ", "answer_options": [
				{"text": "No", "is_users": true, "is_match": true},
				{"text": "Yes"}
			]}
		],
		"not_important": [
			{"id": 8, "text": "Cats?", "answer_options": [{"text": "Yes"}]}
		]
	}`

	b, err := ParseBackup(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseBackup failed: %v", err)
	}
	if b.Len() != 2 {
		t.Errorf("Len = %d, want 2", b.Len())
	}
	if b.Mandatory[0].Text != "Smoke?" {
		t.Errorf("Text = %q, want trimmed", b.Mandatory[0].Text)
	}
	if !b.Mandatory[0].Options[0].IsUsers || !b.Mandatory[0].Options[0].IsMatch {
		t.Errorf("option flags lost: %+v", b.Mandatory[0].Options[0])
	}
}

func TestTier(t *testing.T) {
	b := &AccountBackup{
		VeryImportant: []BackupQuestion{{ID: 1}},
	}
	if len(b.Tier(ImportanceVeryImportant)) != 1 {
		t.Error("Tier(very_important) missed its list")
	}
	if b.Tier(Importance("bogus")) != nil {
		t.Error("unknown tier should be nil")
	}

	total := 0
	for _, imp := range ImportanceOrder {
		total += len(b.Tier(imp))
	}
	if total != b.Len() {
		t.Errorf("tier walk saw %d questions, Len() = %d", total, b.Len())
	}
}
