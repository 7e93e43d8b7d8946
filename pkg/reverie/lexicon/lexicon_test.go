package lexicon

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultLexicon(t *testing.T) {
	lex := Default()

	if !lex.IsPositive("happy") || !lex.IsPositive("gentle") {
		t.Error("happy and gentle should be positive")
	}
	if !lex.IsNegative("scared") || !lex.IsNegative("stress") {
		t.Error("scared and stress should be negative")
	}
	if lex.IsPositive("scared") || lex.IsNegative("happy") {
		t.Error("positive and negative sets should not overlap")
	}

	if got := lex.Boost("not"); got != -0.5 {
		t.Errorf("Boost(not) = %v, want -0.5", got)
	}
	if got := lex.Boost("no"); got != -0.2 {
		t.Errorf("Boost(no) = %v, want -0.2", got)
	}
	if got := lex.Boost("monster"); got != 0 {
		t.Errorf("Boost(monster) = %v, want 0", got)
	}

	stats := lex.Stats()
	if stats.Positive != 14 || stats.Negative != 26 || stats.Boosters != 3 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.EmotionKeywords != 10+6+7+12 {
		t.Errorf("EmotionKeywords = %d, want 35", stats.EmotionKeywords)
	}
}

func TestDefaultReturnsIndependentCopies(t *testing.T) {
	a := Default()
	kw := a.Keywords(Fear)
	kw[0] = "mutated"

	if a.Keywords(Fear)[0] == "mutated" {
		t.Error("Keywords should return a copy")
	}
}

func TestNewNormalizesWords(t *testing.T) {
	lex, err := New(Spec{
		Positive: []string{" Calm ", "", "CALM"},
		Boosters: map[string]float64{" NOT ": -1},
		Emotions: map[Emotion][]string{Joy: {"Calm", "calm", " "}},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if !lex.IsPositive("calm") {
		t.Error("calm should be positive after normalization")
	}
	if lex.Stats().Positive != 1 {
		t.Errorf("expected 1 positive word, got %d", lex.Stats().Positive)
	}
	if lex.Boost("not") != -1 {
		t.Error("booster key should be normalized")
	}
	if kw := lex.Keywords(Joy); len(kw) != 1 || kw[0] != "calm" {
		t.Errorf("Keywords(joy) = %v, want [calm]", kw)
	}
}

func TestNewRejectsNeutralCategory(t *testing.T) {
	_, err := New(Spec{Emotions: map[Emotion][]string{Neutral: {"meh"}}})
	if err == nil {
		t.Error("neutral should not be accepted as a keyword category")
	}
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	data := []byte(`
positive: [sunrise]
negative: [falling]
boosters:
  hardly: -0.3
emotions:
  fear: [falling]
  joy: [sunrise]
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	lex, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML: %v", err)
	}
	if !lex.IsPositive("sunrise") || !lex.IsNegative("falling") {
		t.Error("word lists not loaded")
	}
	if lex.Boost("hardly") != -0.3 {
		t.Error("booster not loaded")
	}
	if len(lex.Keywords(Anger)) != 0 {
		t.Error("missing category should have no keywords")
	}
}

func TestLoadFromYAMLErrors(t *testing.T) {
	if _, err := LoadFromYAML("/nonexistent/lexicon.yaml"); err == nil {
		t.Error("Should error on nonexistent file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("emotions:\n  dread: [doom]\n"), 0644)
	if _, err := LoadFromYAML(path); err == nil {
		t.Error("Should error on unknown emotion category")
	}

	os.WriteFile(path, []byte("positive: [unclosed\n"), 0644)
	if _, err := LoadFromYAML(path); err == nil {
		t.Error("Should error on malformed YAML")
	}
}

func TestSpecRoundTrip(t *testing.T) {
	lex := Default()
	again, err := New(lex.Spec())
	if err != nil {
		t.Fatalf("New(Spec()): %v", err)
	}
	if again.Stats() != lex.Stats() {
		t.Errorf("stats differ after round trip: %+v vs %+v", again.Stats(), lex.Stats())
	}
}

func TestEmotionText(t *testing.T) {
	for _, e := range []Emotion{Fear, Anger, Sad, Joy, Neutral} {
		got, err := ParseEmotion(string(e))
		if err != nil || got != e {
			t.Errorf("ParseEmotion(%q) = %q, %v", e, got, err)
		}
	}
	if _, err := ParseEmotion("Fear "); err != nil {
		t.Errorf("ParseEmotion should be case-insensitive: %v", err)
	}
	if _, err := ParseEmotion("dread"); err == nil {
		t.Error("ParseEmotion should reject unknown labels")
	}

	data, err := json.Marshal(struct {
		E Emotion `json:"e"`
	}{Sad})
	if err != nil || string(data) != `{"e":"sad"}` {
		t.Errorf("Marshal = %s, %v", data, err)
	}

	var out struct {
		E Emotion `json:"e"`
	}
	if err := json.Unmarshal([]byte(`{"e":"bored"}`), &out); err == nil {
		t.Error("Unmarshal should reject unknown label")
	}
}
