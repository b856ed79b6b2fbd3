package anki

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// collectionSchema is the Anki 2 collection layout (schema version 11),
// matching what genanki emits.
const collectionSchema = `
CREATE TABLE col (
    id integer primary key,
    crt integer not null,
    mod integer not null,
    scm integer not null,
    ver integer not null,
    dty integer not null,
    usn integer not null,
    ls integer not null,
    conf text not null,
    models text not null,
    decks text not null,
    dconf text not null,
    tags text not null
);
CREATE TABLE notes (
    id integer primary key,
    guid text not null,
    mid integer not null,
    mod integer not null,
    usn integer not null,
    tags text not null,
    flds text not null,
    sfld integer not null,
    csum integer not null,
    flags integer not null,
    data text not null
);
CREATE TABLE cards (
    id integer primary key,
    nid integer not null,
    did integer not null,
    ord integer not null,
    mod integer not null,
    usn integer not null,
    type integer not null,
    queue integer not null,
    due integer not null,
    ivl integer not null,
    factor integer not null,
    reps integer not null,
    lapses integer not null,
    left integer not null,
    odue integer not null,
    odid integer not null,
    flags integer not null,
    data text not null
);
CREATE TABLE revlog (
    id integer primary key,
    cid integer not null,
    usn integer not null,
    ease integer not null,
    ivl integer not null,
    lastIvl integer not null,
    factor integer not null,
    time integer not null,
    type integer not null
);
CREATE TABLE graves (
    usn integer not null,
    oid integer not null,
    type integer not null
);
CREATE INDEX ix_notes_usn on notes (usn);
CREATE INDEX ix_cards_usn on cards (usn);
CREATE INDEX ix_revlog_usn on revlog (usn);
CREATE INDEX ix_cards_nid on cards (nid);
CREATE INDEX ix_cards_sched on cards (did, queue, due);
CREATE INDEX ix_revlog_cid on revlog (cid);
CREATE INDEX ix_notes_csum on notes (csum)
`

// Fixed collection timestamps, kept identical to genanki's so repeated
// runs over the same cards produce equivalent collections.
const (
	collectionCrt = 1411124400
	collectionMod = 1425279151694
	collectionScm = 1425279151690
	collectionVer = 11
)

// Stock entries every collection carries: the default deck and the default
// scheduling configuration group.
const (
	defaultDeckEntry = `{"collapsed": false, "conf": 1, "desc": "", "dyn": 0, "extendNew": 10, "extendRev": 50, "id": 1, "lrnToday": [0, 0], "mod": 1425279151, "name": "Default", "newToday": [0, 0], "revToday": [0, 0], "timeToday": [0, 0], "usn": 0}`

	defaultDconf = `{"1": {"autoplay": true, "dyn": false, "id": 1, "lapse": {"delays": [10], "leechAction": 0, "leechFails": 8, "minInt": 1, "mult": 0}, "maxTaken": 60, "mod": 0, "name": "Default", "new": {"bury": true, "delays": [1, 10], "initialFactor": 2500, "ints": [1, 4, 7], "order": 1, "perDay": 20, "separate": true}, "replayq": true, "rev": {"bury": true, "ease4": 1.3, "fuzz": 0.05, "ivlFct": 1, "maxIvl": 36500, "minSpace": 1, "perDay": 100}, "timer": 0, "usn": 0}}`
)

const latexPre = `\documentclass[12pt]{article}
\special{papersize=3in,5in}
\usepackage[utf8]{inputenc}
\usepackage{amssymb,amsmath}
\pagestyle{empty}
\setlength{\parindent}{0in}
\begin{document}
`

type fieldJSON struct {
	Name   string   `json:"name"`
	Ord    int      `json:"ord"`
	Sticky bool     `json:"sticky"`
	RTL    bool     `json:"rtl"`
	Font   string   `json:"font"`
	Size   int      `json:"size"`
	Media  []string `json:"media"`
}

type templateJSON struct {
	Name  string `json:"name"`
	Ord   int    `json:"ord"`
	Qfmt  string `json:"qfmt"`
	Afmt  string `json:"afmt"`
	Bqfmt string `json:"bqfmt"`
	Bafmt string `json:"bafmt"`
	Did   *int64 `json:"did"`
	Bfont string `json:"bfont"`
	Bsize int    `json:"bsize"`
}

type modelJSON struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Type      int            `json:"type"`
	Mod       int64          `json:"mod"`
	Usn       int            `json:"usn"`
	Sortf     int            `json:"sortf"`
	Did       int64          `json:"did"`
	Tmpls     []templateJSON `json:"tmpls"`
	Flds      []fieldJSON    `json:"flds"`
	CSS       string         `json:"css"`
	LatexPre  string         `json:"latexPre"`
	LatexPost string         `json:"latexPost"`
	LatexSVG  bool           `json:"latexsvg"`
	Req       []any          `json:"req"`
	Tags      []string       `json:"tags"`
	Vers      []string       `json:"vers"`
}

type deckJSON struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Desc             string `json:"desc"`
	ExtendRev        int    `json:"extendRev"`
	ExtendNew        int    `json:"extendNew"`
	Usn              int    `json:"usn"`
	Collapsed        bool   `json:"collapsed"`
	BrowserCollapsed bool   `json:"browserCollapsed"`
	NewToday         [2]int `json:"newToday"`
	RevToday         [2]int `json:"revToday"`
	LrnToday         [2]int `json:"lrnToday"`
	TimeToday        [2]int `json:"timeToday"`
	Dyn              int    `json:"dyn"`
	Conf             int    `json:"conf"`
	Mod              int64  `json:"mod"`
}

// templateReq lists, per template, the fields whose presence generates a
// card. Anki's scheduler consults this on import.
func templateReq(m Model) []any {
	reqs := make([]any, 0, len(m.Templates))
	for ord, t := range m.Templates {
		fieldOrds := []int{}
		for fo, f := range m.Fields {
			if strings.Contains(t.Qfmt, "{{"+f.Name+"}}") {
				fieldOrds = append(fieldOrds, fo)
			}
		}
		kind := "all"
		if len(fieldOrds) == 0 {
			kind = "none"
		}
		reqs = append(reqs, []any{ord, kind, fieldOrds})
	}
	return reqs
}

func modelsJSON(deck Deck, model Model) (string, error) {
	flds := make([]fieldJSON, len(model.Fields))
	for i, f := range model.Fields {
		flds[i] = fieldJSON{
			Name:  f.Name,
			Ord:   i,
			Font:  "Liberation Sans",
			Size:  20,
			Media: []string{},
		}
	}
	tmpls := make([]templateJSON, len(model.Templates))
	for i, t := range model.Templates {
		tmpls[i] = templateJSON{
			Name: t.Name,
			Ord:  i,
			Qfmt: t.Qfmt,
			Afmt: t.Afmt,
		}
	}
	out, err := json.Marshal(map[string]modelJSON{
		strconv.FormatInt(model.ID, 10): {
			ID:        model.ID,
			Name:      model.Name,
			Did:       deck.ID,
			Tmpls:     tmpls,
			Flds:      flds,
			CSS:       model.CSS,
			LatexPre:  latexPre,
			LatexPost: `\end{document}`,
			Req:       templateReq(model),
			Tags:      []string{},
			Vers:      []string{},
		},
	})
	return string(out), err
}

func decksJSON(deck Deck) (string, error) {
	out, err := json.Marshal(map[string]any{
		"1": json.RawMessage(defaultDeckEntry),
		strconv.FormatInt(deck.ID, 10): deckJSON{
			ID:        deck.ID,
			Name:      deck.Name,
			Desc:      deck.Description,
			ExtendRev: 50,
			ExtendNew: 10,
			Conf:      1,
		},
	})
	return string(out), err
}

func confJSON(model Model) (string, error) {
	out, err := json.Marshal(map[string]any{
		"activeDecks":   []int{1},
		"addToCur":      true,
		"collapseTime":  1200,
		"curDeck":       1,
		"curModel":      strconv.FormatInt(model.ID, 10),
		"dueCounts":     true,
		"estTimes":      true,
		"newBury":       true,
		"newSpread":     0,
		"nextPos":       1,
		"sortBackwards": false,
		"sortType":      "noteFld",
		"timeLim":       0,
	})
	return string(out), err
}

// writeCollection fills an empty SQLite database with the collection
// metadata and one note plus one card per input note.
func writeCollection(db *sql.DB, deck Deck, model Model, notes []Note) error {
	for _, s := range strings.Split(collectionSchema, ";") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("create collection schema: %w", err)
		}
	}

	conf, err := confJSON(model)
	if err != nil {
		return err
	}
	models, err := modelsJSON(deck, model)
	if err != nil {
		return err
	}
	decks, err := decksJSON(deck)
	if err != nil {
		return err
	}

	_, err = db.Exec(
		`INSERT INTO col VALUES (1, ?, ?, ?, ?, 0, 0, 0, ?, ?, ?, ?, '{}')`,
		collectionCrt, collectionMod, collectionScm, collectionVer,
		conf, models, decks, defaultDconf,
	)
	if err != nil {
		return fmt.Errorf("insert col row: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin notes tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	insertNote, err := tx.Prepare(
		`INSERT INTO notes VALUES (?, ?, ?, ?, -1, '', ?, ?, ?, 0, '')`)
	if err != nil {
		return err
	}
	defer insertNote.Close()

	insertCard, err := tx.Prepare(
		`INSERT INTO cards VALUES (?, ?, ?, 0, ?, -1, 0, 0, ?, 0, 0, 0, 0, 0, 0, 0, 0, '')`)
	if err != nil {
		return err
	}
	defer insertCard.Close()

	baseID := time.Now().UnixMilli()
	mod := time.Now().Unix()
	for i, n := range notes {
		noteID := baseID + int64(i)
		flds := strings.Join(n.Fields, "\x1f")
		sortField := ""
		if len(n.Fields) > 0 {
			sortField = n.Fields[0]
		}

		_, err := insertNote.Exec(noteID, guidFor(n.Fields...), model.ID, mod,
			flds, sortField, fieldChecksum(sortField))
		if err != nil {
			return fmt.Errorf("insert note %d: %w", i, err)
		}

		// due = position, so new cards come up in deck order.
		cardID := baseID + int64(len(notes)+i)
		if _, err := insertCard.Exec(cardID, noteID, deck.ID, mod, i); err != nil {
			return fmt.Errorf("insert card %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %d notes: %w", len(notes), err)
	}
	return nil
}
