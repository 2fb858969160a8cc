package valuation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// schemaVersion is written into every slot file. Loads copy only the fields
// the current schema recognizes and default the rest, so older slot files
// keep working.
const schemaVersion = 1

// slotFile is the on-disk document for a valuation slot. Every field is
// optional on load; absent mappings default to empty.
type slotFile struct {
	Schema           int                       `json:"schema"`
	Categories       map[string]string         `json:"categories,omitempty"`
	QuestionCategory map[int64]string          `json:"question_category,omitempty"`
	QuestionRating   map[int64]map[string]int  `json:"question_rating,omitempty"`
	DetailCategory   map[string]string         `json:"detail_category,omitempty"`
	DetailRating     map[string]map[string]int `json:"detail_rating,omitempty"`
}

// SlotPath returns the file path of a named slot under dir.
func SlotPath(dir, slot string) string {
	return filepath.Join(dir, slot+".json")
}

// SlotExists reports whether a named slot file exists under dir.
func SlotExists(dir, slot string) bool {
	_, err := os.Stat(SlotPath(dir, slot))
	return err == nil
}

// ListSlots returns the slot names present under dir, sorted. A missing
// directory is an empty list.
func ListSlots(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read valuations directory: %w", err)
	}

	var slots []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
			continue
		}
		slots = append(slots, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(slots)
	return slots, nil
}

// Save persists the store to the named slot (the bound slot when name is
// empty). The document is written to a temporary file and renamed into
// place, so an interrupted save never leaves a half-written slot.
func (s *Store) Save(name string) error {
	if name == "" {
		name = s.slot
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create valuations directory: %w", err)
	}

	doc := slotFile{
		Schema:           schemaVersion,
		Categories:       s.Categories,
		QuestionCategory: s.QuestionCategory,
		QuestionRating:   s.QuestionRating,
		DetailCategory:   s.DetailCategory,
		DetailRating:     s.DetailRating,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode valuations: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".slot-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write valuations: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write valuations: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, SlotPath(s.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace slot %s: %w", name, err)
	}
	return nil
}

// Load restores the store from the named slot (the bound slot when name is
// empty). Fields absent from the file — older schemas — default to empty
// mappings rather than failing.
func (s *Store) Load(name string) error {
	if name == "" {
		name = s.slot
	}
	data, err := os.ReadFile(SlotPath(s.dir, name))
	if err != nil {
		return fmt.Errorf("failed to read slot %s: %w", name, err)
	}

	var doc slotFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse slot %s: %w", name, err)
	}

	s.Categories = doc.Categories
	s.QuestionCategory = doc.QuestionCategory
	s.QuestionRating = doc.QuestionRating
	s.DetailCategory = doc.DetailCategory
	s.DetailRating = doc.DetailRating

	if s.Categories == nil {
		s.Categories = map[string]string{}
	}
	if s.QuestionCategory == nil {
		s.QuestionCategory = map[int64]string{}
	}
	if s.QuestionRating == nil {
		s.QuestionRating = map[int64]map[string]int{}
	}
	if s.DetailCategory == nil {
		s.DetailCategory = map[string]string{}
	}
	if s.DetailRating == nil {
		s.DetailRating = map[string]map[string]int{}
	}
	return nil
}
