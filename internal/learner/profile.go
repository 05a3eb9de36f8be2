// Package learner owns the per-learner profile and word bank files the
// generation pipeline reads. Layout:
//
//	<root>/<name>/profile.json
//	<root>/<name>/words.txt
package learner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/abhisek/readling/internal/exercise"
)

const (
	// MinLexile and MaxLexile bound the reading-difficulty scale.
	MinLexile = 200
	MaxLexile = 1700

	profileFile = "profile.json"
	wordsFile   = "words.txt"
)

// Profile is the stored learner configuration.
type Profile struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Lexile int    `json:"lexile_level"`

	// Provider and Model remember the last selection so repeat runs
	// don't need the flags.
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
}

// Validate checks the profile's numeric bounds.
func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("learner name is required")
	}
	if p.Age < 1 || p.Age > 100 {
		return fmt.Errorf("age %d out of range [1,100]", p.Age)
	}
	if p.Lexile < MinLexile || p.Lexile > MaxLexile {
		return fmt.Errorf("lexile level %d out of range [%d,%d]", p.Lexile, MinLexile, MaxLexile)
	}
	return nil
}

// Dir manages learner files under one root directory.
type Dir struct {
	root string
}

// NewDir creates a Dir rooted at root.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// Save validates and writes a profile.
func (d *Dir) Save(p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	dir := filepath.Join(d.root, p.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create learner dir: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, profileFile), data, 0o644); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

// Load reads a learner's profile.
func (d *Dir) Load(name string) (Profile, error) {
	data, err := os.ReadFile(filepath.Join(d.root, name, profileFile))
	if os.IsNotExist(err) {
		return Profile{}, fmt.Errorf("learner %q not found (create with: readling user create)", name)
	}
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse profile for %q: %w", name, err)
	}
	return p, nil
}

// List returns all learner names, sorted.
func (d *Dir) List() ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read learners dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Exists reports whether a learner profile is present.
func (d *Dir) Exists(name string) bool {
	_, err := os.Stat(filepath.Join(d.root, name, profileFile))
	return err == nil
}

// CoreProfile assembles the read-only view the generation pipeline
// consumes: profile numbers plus the deduplicated word bank.
func (d *Dir) CoreProfile(name string) (exercise.LearnerProfile, error) {
	p, err := d.Load(name)
	if err != nil {
		return exercise.LearnerProfile{}, err
	}
	words, err := d.LoadWords(name)
	if err != nil {
		return exercise.LearnerProfile{}, err
	}
	return exercise.LearnerProfile{
		Age:      p.Age,
		Lexile:   p.Lexile,
		WordBank: Dedup(words),
	}, nil
}
