package anki

import (
	"archive/zip"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
)

// Package accumulates notes for one deck and serializes them as .apkg.
type Package struct {
	Deck  Deck
	Model Model
	Notes []Note
}

// NewPackage pairs a deck with its note model.
func NewPackage(deck Deck, model Model) *Package {
	return &Package{Deck: deck, Model: model}
}

// AddNote appends one note. The values must line up with the model's
// fields.
func (p *Package) AddNote(fields ...string) error {
	if len(fields) != len(p.Model.Fields) {
		return fmt.Errorf("note has %d fields, model %q wants %d",
			len(fields), p.Model.Name, len(p.Model.Fields))
	}
	p.Notes = append(p.Notes, Note{Fields: fields})
	return nil
}

// WriteFile builds the collection database in a temporary file and zips it
// together with an empty media manifest into path.
func (p *Package) WriteFile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp("", "kangen-*.anki2")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	db, err := sql.Open("sqlite3", tmpPath)
	if err != nil {
		return fmt.Errorf("open collection db: %w", err)
	}
	writeErr := writeCollection(db, p.Deck, p.Model, p.Notes)
	closeErr := db.Close()
	if writeErr != nil {
		return writeErr
	}
	if closeErr != nil {
		return closeErr
	}

	collection, err := os.ReadFile(tmpPath)
	if err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(out)

	w, err := zw.Create("collection.anki2")
	if err == nil {
		_, err = w.Write(collection)
	}
	if err == nil {
		w, err = zw.Create("media")
	}
	if err == nil {
		_, err = w.Write([]byte("{}"))
	}
	if err != nil {
		zw.Close()
		out.Close()
		os.Remove(path)
		return fmt.Errorf("write package zip: %w", err)
	}

	if err := zw.Close(); err != nil {
		out.Close()
		os.Remove(path)
		return err
	}
	return out.Close()
}
