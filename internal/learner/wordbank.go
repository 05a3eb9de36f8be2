package learner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadWords reads a learner's word bank, one word per line. A missing
// file is an empty bank, not an error.
func (d *Dir) LoadWords(name string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(d.root, name, wordsFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read word bank: %w", err)
	}

	var words []string
	for _, line := range strings.Split(string(data), "\n") {
		if w := strings.TrimSpace(line); w != "" {
			words = append(words, w)
		}
	}
	return words, nil
}

// SaveWords writes the word bank, one word per line.
func (d *Dir) SaveWords(name string, words []string) error {
	dir := filepath.Join(d.root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create learner dir: %w", err)
	}
	content := strings.Join(words, "\n")
	if content != "" {
		content += "\n"
	}
	if err := os.WriteFile(filepath.Join(dir, wordsFile), []byte(content), 0o644); err != nil {
		return fmt.Errorf("write word bank: %w", err)
	}
	return nil
}

// AddWords appends new words to the bank, skipping case-insensitive
// duplicates. Returns how many were actually added.
func (d *Dir) AddWords(name string, words []string) (int, error) {
	existing, err := d.LoadWords(name)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]bool, len(existing))
	for _, w := range existing {
		seen[strings.ToLower(w)] = true
	}

	added := 0
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" || seen[strings.ToLower(w)] {
			continue
		}
		seen[strings.ToLower(w)] = true
		existing = append(existing, w)
		added++
	}

	if added == 0 {
		return 0, nil
	}
	return added, d.SaveWords(name, existing)
}

// DedupWords rewrites the bank with duplicates removed. Returns how many
// were dropped.
func (d *Dir) DedupWords(name string) (int, error) {
	words, err := d.LoadWords(name)
	if err != nil {
		return 0, err
	}
	deduped := Dedup(words)
	removed := len(words) - len(deduped)
	if removed == 0 {
		return 0, nil
	}
	return removed, d.SaveWords(name, deduped)
}

// Dedup removes case-insensitive duplicates, keeping first occurrences
// in order.
func Dedup(words []string) []string {
	seen := make(map[string]bool, len(words))
	var out []string
	for _, w := range words {
		key := strings.ToLower(strings.TrimSpace(w))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, strings.TrimSpace(w))
	}
	return out
}
