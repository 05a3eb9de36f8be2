package learner

import (
	"testing"
)

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		wantErr bool
	}{
		{"valid", Profile{Name: "mia", Age: 8, Lexile: 600}, false},
		{"min lexile", Profile{Name: "mia", Age: 8, Lexile: MinLexile}, false},
		{"max lexile", Profile{Name: "mia", Age: 8, Lexile: MaxLexile}, false},
		{"empty name", Profile{Age: 8, Lexile: 600}, true},
		{"lexile too low", Profile{Name: "mia", Age: 8, Lexile: 100}, true},
		{"lexile too high", Profile{Name: "mia", Age: 8, Lexile: 1800}, true},
		{"zero age", Profile{Name: "mia", Lexile: 600}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	d := NewDir(t.TempDir())

	p := Profile{Name: "mia", Age: 9, Lexile: 700, Provider: "DeepSeek", Model: "deepseek-chat"}
	if err := d.Save(p); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := d.Load("mia")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != p {
		t.Errorf("Load = %+v, want %+v", got, p)
	}

	if !d.Exists("mia") {
		t.Error("Exists = false")
	}
	if d.Exists("nobody") {
		t.Error("Exists(nobody) = true")
	}
}

func TestLoadMissingProfile(t *testing.T) {
	d := NewDir(t.TempDir())
	if _, err := d.Load("ghost"); err == nil {
		t.Fatal("expected error for missing learner")
	}
}

func TestListSorted(t *testing.T) {
	d := NewDir(t.TempDir())
	for _, name := range []string{"zoe", "adam", "mia"} {
		if err := d.Save(Profile{Name: name, Age: 10, Lexile: 500}); err != nil {
			t.Fatalf("Save %s: %v", name, err)
		}
	}

	names, err := d.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"adam", "mia", "zoe"}
	if len(names) != len(want) {
		t.Fatalf("names = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestCoreProfileDedupesWords(t *testing.T) {
	d := NewDir(t.TempDir())
	if err := d.Save(Profile{Name: "mia", Age: 9, Lexile: 700}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := d.SaveWords("mia", []string{"Fox", "river", "fox", "River", "winter"}); err != nil {
		t.Fatalf("SaveWords: %v", err)
	}

	core, err := d.CoreProfile("mia")
	if err != nil {
		t.Fatalf("CoreProfile: %v", err)
	}
	if core.Age != 9 || core.Lexile != 700 {
		t.Errorf("core = %+v", core)
	}

	want := []string{"Fox", "river", "winter"}
	if len(core.WordBank) != len(want) {
		t.Fatalf("WordBank = %v, want %v", core.WordBank, want)
	}
	for i := range want {
		if core.WordBank[i] != want[i] {
			t.Errorf("WordBank[%d] = %q, want %q", i, core.WordBank[i], want[i])
		}
	}
}
