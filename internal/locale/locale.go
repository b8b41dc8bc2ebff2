// Package locale holds the user-facing strings of the link editor and their
// translations.
package locale

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. The English text doubles as the key.
const (
	ErrorRequestingTitle   = "Error requesting title"
	ErrorRequestingKeyword = "Error requesting keyword"
	InvalidLink            = "This link is invalid"
	Unlink                 = "Unlink"
	EditLink               = "Edit link"
	ShowPreview            = "show preview of wiki"
	Keyword                = "keyword"
)

var translations = map[language.Tag]map[string]string{
	language.English: {
		ErrorRequestingTitle:   ErrorRequestingTitle,
		ErrorRequestingKeyword: ErrorRequestingKeyword,
		InvalidLink:            InvalidLink,
		Unlink:                 Unlink,
		EditLink:               EditLink,
		ShowPreview:            ShowPreview,
		Keyword:                Keyword,
	},
	language.German: {
		ErrorRequestingTitle:   "Fehler beim Abrufen des Titels",
		ErrorRequestingKeyword: "Fehler beim Abrufen des Schlagworts",
		InvalidLink:            "Dieser Link ist ungültig",
		Unlink:                 "Link entfernen",
		EditLink:               "Link bearbeiten",
		ShowPreview:            "Vorschau des Wikis anzeigen",
		Keyword:                "Schlagwort",
	},
}

var cat = newCatalog()

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, text := range msgs {
			if err := b.SetString(tag, key, text); err != nil {
				panic("locale: " + err.Error())
			}
		}
	}
	return b
}

// Translator renders message keys in one language.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a translator for the given BCP 47 tag. Unknown or malformed
// tags fall back to English.
func New(tag string) *Translator {
	t := language.English
	if parsed, err := language.Parse(tag); err == nil {
		if _, i, conf := cat.Matcher().Match(parsed); conf != language.No {
			t = cat.Languages()[i]
		}
	}
	return &Translator{tag: t, printer: message.NewPrinter(t, message.Catalog(cat))}
}

// T returns the translation of key.
func (t *Translator) T(key string) string {
	return t.printer.Sprintf(key)
}

// Language returns the tag the translator matched.
func (t *Translator) Language() language.Tag { return t.tag }
