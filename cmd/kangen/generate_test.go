package main

import (
	"path/filepath"
	"testing"

	"github.com/kangen/kangen/pkg/anki"
	"github.com/kangen/kangen/pkg/config"
)

func TestDeckFromConfig(t *testing.T) {
	d := deckFromConfig(config.Default())
	if d.ID != anki.DefaultDeckID || d.Name != anki.DefaultDeckName {
		t.Errorf("default config produced deck %d %q", d.ID, d.Name)
	}

	cfg := config.Default()
	cfg.Deck.DeckID = 42
	cfg.Deck.Name = "My Kanji"
	d = deckFromConfig(cfg)
	if d.ID != 42 || d.Name != "My Kanji" {
		t.Errorf("deck = %d %q, want configured identity", d.ID, d.Name)
	}

	// A zero ID keeps the default while the name still applies.
	cfg = config.Default()
	cfg.Deck.DeckID = 0
	cfg.Deck.Name = "Named Only"
	d = deckFromConfig(cfg)
	if d.ID != anki.DefaultDeckID || d.Name != "Named Only" {
		t.Errorf("deck = %d %q, want default ID with configured name", d.ID, d.Name)
	}
}

func TestModelFromConfig(t *testing.T) {
	m := modelFromConfig(config.Default())
	if m.ID != anki.DefaultModelID {
		t.Errorf("default config produced model %d", m.ID)
	}
	if len(m.Fields) != 5 {
		t.Errorf("model has %d fields, want the kanji card layout", len(m.Fields))
	}

	cfg := config.Default()
	cfg.Deck.ModelID = 7
	if m := modelFromConfig(cfg); m.ID != 7 {
		t.Errorf("model ID = %d, want 7", m.ID)
	}
}

func TestConfirmOverwriteMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.apkg")
	if err := confirmOverwrite(path); err != nil {
		t.Errorf("confirmOverwrite(missing) = %v, want nil without prompting", err)
	}
}

func TestGenerateFlagDefaults(t *testing.T) {
	out, err := generateCmd.Flags().GetString("output")
	if err != nil {
		t.Fatal(err)
	}
	if out != "deck.apkg" {
		t.Errorf("--output default = %q, want deck.apkg", out)
	}
	force, err := generateCmd.Flags().GetBool("force")
	if err != nil {
		t.Fatal(err)
	}
	if force {
		t.Error("--force defaults to true")
	}
}
