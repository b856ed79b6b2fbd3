// Package anki writes genanki-compatible .apkg deck packages: a zip
// holding an Anki 2 SQLite collection plus an empty media manifest.
package anki

// Defaults for the kanji deck. The IDs are stable so re-imports update the
// same deck and model instead of creating duplicates.
const (
	DefaultDeckID    = 1558220604
	DefaultDeckName  = "KanGen Flashcards"
	DefaultModelID   = 2126758096
	DefaultModelName = "Kanji Model"
)

// Field is one note field of a model.
type Field struct {
	Name string
}

// Template is one card template of a model. Qfmt and Afmt hold the Anki
// mustache HTML for the question and answer sides.
type Template struct {
	Name string
	Qfmt string
	Afmt string
}

// Model describes the note type: field order, card templates, styling.
type Model struct {
	ID        int64
	Name      string
	Fields    []Field
	Templates []Template
	CSS       string
}

// Deck identifies the target deck inside the collection.
type Deck struct {
	ID          int64
	Name        string
	Description string
}

// Note is one row of field values, in model field order.
type Note struct {
	Fields []string
}

const kanjiCSS = `.card {
    font-family: sans-serif;
    text-align: center;
    font-size: 24px;
    color: black;
    background-color: white;
}
h1 {
    font-size: 100px;
}
#answer {
    margin: 20px 0;
}
`

const recognitionAnswer = `{{FrontSide}}
<hr id="answer">
<div class="meaning">{{Meaning}}</div><br>
<div class="readings">
    <b>On:</b> {{On-yomi}}<br>
    <b>Kun:</b> {{Kun-yomi}}
</div><br>
<div class="examples">
    <i>{{Example}}</i>
</div>`

// KanjiModel returns the five-field recognition model used for generated
// decks.
func KanjiModel() Model {
	return Model{
		ID:   DefaultModelID,
		Name: DefaultModelName,
		Fields: []Field{
			{Name: "Kanji"},
			{Name: "Meaning"},
			{Name: "On-yomi"},
			{Name: "Kun-yomi"},
			{Name: "Example"},
		},
		Templates: []Template{
			{
				Name: "Recognition card",
				Qfmt: "<h1>{{Kanji}}</h1>",
				Afmt: recognitionAnswer,
			},
		},
		CSS: kanjiCSS,
	}
}

// DefaultDeck returns the stock deck identity.
func DefaultDeck() Deck {
	return Deck{ID: DefaultDeckID, Name: DefaultDeckName}
}
