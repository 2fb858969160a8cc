package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseProfiles decodes exported profile snapshots from r. The export may be
// a single profile object or an array of them. Fields not listed on Profile
// are dropped at this boundary; the stored record is exactly the snapshot
// schema, nothing more.
func ParseProfiles(r io.Reader) ([]Profile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile export: %w", err)
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	var profiles []Profile
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(data, &profiles); err != nil {
			return nil, fmt.Errorf("failed to parse profile export: %w", err)
		}
	} else {
		var p Profile
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to parse profile export: %w", err)
		}
		profiles = []Profile{p}
	}

	for i := range profiles {
		if err := normalizeProfile(&profiles[i]); err != nil {
			return nil, err
		}
	}
	return profiles, nil
}

// ParseProfilesFile decodes exported profile snapshots from a file.
func ParseProfilesFile(path string) ([]Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return ParseProfiles(f)
}

// ParseBackup decodes an exported question backup from r.
func ParseBackup(r io.Reader) (*AccountBackup, error) {
	var b AccountBackup
	dec := json.NewDecoder(r)
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("failed to parse question backup: %w", err)
	}
	for _, imp := range ImportanceOrder {
		for i := range b.Tier(imp) {
			q := &b.Tier(imp)[i]
			q.Text = strings.TrimSpace(q.Text)
		}
	}
	return &b, nil
}

// ParseBackupFile decodes an exported question backup from a file.
func ParseBackupFile(path string) (*AccountBackup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return ParseBackup(f)
}

// normalizeProfile cleans a decoded snapshot: usernames and question text are
// trimmed, and blank optional answers collapse to absent.
func normalizeProfile(p *Profile) error {
	p.Username = strings.TrimSpace(p.Username)
	if p.Username == "" {
		return fmt.Errorf("profile snapshot is missing a username")
	}
	for i := range p.Questions {
		q := &p.Questions[i]
		q.Text = strings.TrimSpace(q.Text)
		q.MyAnswer = blankToNil(q.MyAnswer)
		q.TheirAnswer = blankToNil(q.TheirAnswer)
	}
	return nil
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
