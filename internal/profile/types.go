package profile

import "encoding/json"

// Importance is the priority rank the platform assigns to a question.
type Importance string

const (
	ImportanceMandatory         Importance = "mandatory"
	ImportanceVeryImportant     Importance = "very_important"
	ImportanceSomewhatImportant Importance = "somewhat_important"
	ImportanceLittleImportant   Importance = "little_important"
	ImportanceNotImportant      Importance = "not_important"
)

// ImportanceOrder lists the tiers in descending priority. Rating passes and
// backup scans always walk tiers in this order.
var ImportanceOrder = []Importance{
	ImportanceMandatory,
	ImportanceVeryImportant,
	ImportanceSomewhatImportant,
	ImportanceLittleImportant,
	ImportanceNotImportant,
}

// AnswerOption is one selectable answer of a question. IsUsers marks the
// option equal to the viewer's own answer; IsMatch marks it flagged
// compatible by the platform's matching logic.
type AnswerOption struct {
	Text    string `json:"text"`
	IsUsers bool   `json:"is_users"`
	IsMatch bool   `json:"is_match"`
}

// Question is a question as it appears on a fetched profile. MyAnswer and
// TheirAnswer are nil when the respective account has not answered.
type Question struct {
	ID                 int64          `json:"id"`
	Text               string         `json:"text"`
	Importance         Importance     `json:"importance,omitempty"`
	Options            []AnswerOption `json:"answer_options"`
	MyAnswer           *string        `json:"my_answer,omitempty"`
	TheirAnswer        *string        `json:"their_answer,omitempty"`
	MyAnswerMatches    bool           `json:"my_answer_matches"`
	TheirAnswerMatches bool           `json:"their_answer_matches"`
}

// DetailValue holds a profile detail value. The platform exports details as
// either a single string or a list; both decode into the flattened form.
type DetailValue []string

func (d *DetailValue) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*d = DetailValue{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*d = DetailValue(many)
	return nil
}

// LookingFor captures the platform's match-preference block. Passthrough
// only; the analysis core never interprets it.
type LookingFor struct {
	Gentation string   `json:"gentation,omitempty"`
	Single    bool     `json:"single,omitempty"`
	NearMe    bool     `json:"near_me,omitempty"`
	Kinds     []string `json:"kinds,omitempty"`
	AgeMin    int      `json:"age_min,omitempty"`
	AgeMax    int      `json:"age_max,omitempty"`
}

// Profile is an immutable snapshot of a fetched profile. Only Username,
// Details and Questions feed the analysis core; the remaining fields are
// stored for display.
type Profile struct {
	Username     string                 `json:"username"`
	Age          int                    `json:"age,omitempty"`
	MatchPercent int                    `json:"match_percent,omitempty"`
	EnemyPercent int                    `json:"enemy_percent,omitempty"`
	Location     string                 `json:"location,omitempty"`
	Gender       string                 `json:"gender,omitempty"`
	Orientation  string                 `json:"orientation,omitempty"`
	Details      map[string]DetailValue `json:"details,omitempty"`
	Questions    []Question             `json:"questions"`
	Essays       map[string]string      `json:"essays,omitempty"`
	Photos       []string               `json:"photos,omitempty"`
	LookingFor   *LookingFor            `json:"looking_for,omitempty"`
}

// BackupQuestion is a question as it appears in an account's question
// backup: full option list with the account's own answer and match flags.
type BackupQuestion struct {
	ID          int64          `json:"id"`
	Text        string         `json:"text"`
	Explanation string         `json:"explanation,omitempty"`
	Options     []AnswerOption `json:"answer_options"`
}

// AccountBackup holds an account's answered questions, one ordered list per
// importance tier.
type AccountBackup struct {
	Mandatory         []BackupQuestion `json:"mandatory"`
	VeryImportant     []BackupQuestion `json:"very_important"`
	SomewhatImportant []BackupQuestion `json:"somewhat_important"`
	LittleImportant   []BackupQuestion `json:"little_important"`
	NotImportant      []BackupQuestion `json:"not_important"`
}

// Tier returns the question list for the given importance tier.
func (b *AccountBackup) Tier(imp Importance) []BackupQuestion {
	switch imp {
	case ImportanceMandatory:
		return b.Mandatory
	case ImportanceVeryImportant:
		return b.VeryImportant
	case ImportanceSomewhatImportant:
		return b.SomewhatImportant
	case ImportanceLittleImportant:
		return b.LittleImportant
	case ImportanceNotImportant:
		return b.NotImportant
	default:
		return nil
	}
}

// Len returns the total number of questions across all tiers.
func (b *AccountBackup) Len() int {
	n := 0
	for _, imp := range ImportanceOrder {
		n += len(b.Tier(imp))
	}
	return n
}
