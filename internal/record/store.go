// Package record persists learning records as JSON documents in a
// date-partitioned directory tree:
//
//	<root>/2026-03-14/generated_20260314_091205.json
//	<root>/2026-03-15/completed_20260315_183042.json
//
// Each write targets a uniquely named document, so there is no
// update-in-place and no locking. A completed document is distinct from
// its originating generated document; the two share a record_id.
package record

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/abhisek/readling/internal/exercise"
)

const stampLayout = "20060102_150405"
const partitionLayout = "2006-01-02"

// NotFoundError indicates a read of a record that does not exist.
type NotFoundError struct {
	RecordID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("record %s not found", e.RecordID)
}

// Store is a filesystem-backed record store rooted at one directory.
type Store struct {
	root string
}

// NewStore creates a Store rooted at dir. The directory is created lazily
// on first write.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// Put writes the record as a new document for the given phase and
// returns its record ID. Generated documents are stamped with the
// record's creation time (which is also the record ID); completed
// documents are stamped with the evaluation time, keeping the generated
// evidence intact.
func (s *Store) Put(rec *exercise.LearningRecord, phase exercise.Phase) (string, error) {
	stamp := rec.CreatedAt
	if phase == exercise.PhaseCompleted {
		if rec.CompletedAt == nil {
			return "", fmt.Errorf("completed record %s has no completion time", rec.RecordID)
		}
		stamp = *rec.CompletedAt
	}

	dir := filepath.Join(s.root, stamp.Format(partitionLayout))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create partition dir: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}

	name := fmt.Sprintf("%s_%s.json", phase, stamp.Format(stampLayout))
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write record: %w", err)
	}

	return rec.RecordID, nil
}

// Get returns the record with the given ID. When a completed document
// exists for the ID it wins over the generated one. Returns
// *NotFoundError when neither exists.
func (s *Store) Get(recordID string) (*exercise.LearningRecord, error) {
	if rec, err := s.findCompleted(recordID); err != nil {
		return nil, err
	} else if rec != nil {
		return rec, nil
	}
	return s.GetPhase(recordID, exercise.PhaseGenerated)
}

// GetPhase returns the stored document for one specific phase of a record.
func (s *Store) GetPhase(recordID string, phase exercise.Phase) (*exercise.LearningRecord, error) {
	if phase == exercise.PhaseCompleted {
		rec, err := s.findCompleted(recordID)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return nil, &NotFoundError{RecordID: recordID}
		}
		return rec, nil
	}

	// The generated document's partition is derivable from the ID itself.
	t, err := time.Parse(stampLayout, recordID)
	if err != nil {
		return nil, &NotFoundError{RecordID: recordID}
	}
	path := filepath.Join(s.root, t.Format(partitionLayout),
		fmt.Sprintf("%s_%s.json", exercise.PhaseGenerated, recordID))
	rec, err := readRecord(path)
	if os.IsNotExist(err) {
		return nil, &NotFoundError{RecordID: recordID}
	}
	return rec, err
}

// List returns the record IDs present in one date partition, ordered by
// stamp. IDs appearing in both phases are reported once.
func (s *Store) List(date string) ([]string, error) {
	dir := filepath.Join(s.root, date)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read partition %s: %w", date, err)
	}

	seen := make(map[string]bool)
	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		rec, err := readRecord(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		if !seen[rec.RecordID] {
			seen[rec.RecordID] = true
			ids = append(ids, rec.RecordID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// ListAll returns every stored record, newest first, with the completed
// document winning when a record has both phases.
func (s *Store) ListAll() ([]*exercise.LearningRecord, error) {
	partitions, err := os.ReadDir(s.root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read record root: %w", err)
	}

	byID := make(map[string]*exercise.LearningRecord)
	for _, p := range partitions {
		if !p.IsDir() {
			continue
		}
		dir := filepath.Join(s.root, p.Name())
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
				continue
			}
			rec, err := readRecord(filepath.Join(dir, entry.Name()))
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: skipping unreadable record %s: %v\n", entry.Name(), err)
				continue
			}
			prev, ok := byID[rec.RecordID]
			if !ok || (prev.Status == exercise.StatusGenerated && rec.Status == exercise.StatusCompleted) {
				byID[rec.RecordID] = rec
			}
		}
	}

	records := make([]*exercise.LearningRecord, 0, len(byID))
	for _, rec := range byID {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].RecordID > records[j].RecordID
	})
	return records, nil
}

// findCompleted scans partitions newest-first for a completed document
// with the given record ID. Returns (nil, nil) when none exists.
func (s *Store) findCompleted(recordID string) (*exercise.LearningRecord, error) {
	partitions, err := os.ReadDir(s.root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read record root: %w", err)
	}

	names := make([]string, 0, len(partitions))
	for _, p := range partitions {
		if p.IsDir() {
			names = append(names, p.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	for _, name := range names {
		dir := filepath.Join(s.root, name)
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !isPhaseFile(entry.Name(), exercise.PhaseCompleted) {
				continue
			}
			rec, err := readRecord(filepath.Join(dir, entry.Name()))
			if err != nil {
				continue
			}
			if rec.RecordID == recordID {
				return rec, nil
			}
		}
	}
	return nil, nil
}

func isPhaseFile(name string, phase exercise.Phase) bool {
	prefix := string(phase) + "_"
	return filepath.Ext(name) == ".json" && len(name) > len(prefix) && name[:len(prefix)] == prefix
}

func readRecord(path string) (*exercise.LearningRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rec exercise.LearningRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse record %s: %w", filepath.Base(path), err)
	}
	return &rec, nil
}
