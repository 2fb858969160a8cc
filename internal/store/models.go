package store

import "time"

// Role identifies which account a question backup belongs to.
type Role string

const (
	// RoleReal is the account the viewer interacts with others from.
	RoleReal Role = "real"
	// RoleShadow is the account used only to retrieve profile information.
	RoleShadow Role = "shadow"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleReal || r == RoleShadow
}

// ProfileSummary is a stored snapshot's listing row; the full record lives in
// the data column.
type ProfileSummary struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	MatchPercent  int       `json:"match_percent"`
	QuestionCount int       `json:"question_count"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// BackupInfo describes a stored question backup.
type BackupInfo struct {
	ID      string    `json:"id"`
	Account string    `json:"account"`
	Role    Role      `json:"role"`
	SavedAt time.Time `json:"saved_at"`
}

// ImportRecord logs one import run.
type ImportRecord struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Kind      string    `json:"kind"`
	Imported  int       `json:"imported"`
	Skipped   int       `json:"skipped"`
	CreatedAt time.Time `json:"created_at"`
}
