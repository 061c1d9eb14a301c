// SPDX-License-Identifier: MIT

package epg

import "maps"

// CreditKind is one of the ten XMLTV credit element names.
type CreditKind string

// Credit kinds in XMLTV order.
const (
	Director    CreditKind = "director"
	Actor       CreditKind = "actor"
	Writer      CreditKind = "writer"
	Adapter     CreditKind = "adapter"
	Producer    CreditKind = "producer"
	Composer    CreditKind = "composer"
	Editor      CreditKind = "editor"
	Presenter   CreditKind = "presenter"
	Commentator CreditKind = "commentator"
	Guest       CreditKind = "guest"
)

// CreditOrder lists the kinds in emission order.
var CreditOrder = []CreditKind{Director, Actor, Writer, Adapter, Producer, Composer, Editor, Presenter, Commentator, Guest}

var defaultCredits = map[string]CreditKind{
	"Acteur":        Actor,
	"Auteur":        Writer,
	"Créateur":      Writer,
	"Dialogue":      Writer,
	"Guest Star":    Guest,
	"Interprète":    Actor,
	"Invité":        Guest,
	"Mise en scène": Director,
	"Musique":       Composer,
	"Présentateur":  Presenter,
	"Réalisateur":   Director,
	"Scénariste":    Writer,
}

// ETSI EN 300 468 content descriptor labels, keyed by capitalised vendor genre.
var defaultCategories = map[string]string{
	"Ballet":               "Music / Ballet / Dance",
	"Concert":              "Music / Ballet / Dance",
	"Dessin animé":         "Children's / Youth programmes",
	"Documentaire sportif": "Sports",
	"Documentaire":         "News / Current affairs",
	"Emission sportive":    "Sports",
	"Feuilleton":           "Movie / Drama",
	"Film":                 "Movie / Drama",
	"Magazine sportif":     "Sports",
	"Magazine":             "Magazines / Reports / Documentary",
	"Opéra":                "Music / Ballet / Dance",
	"Spectacle":            "Show / Game show",
	"Série":                "Movie / Drama",
	"Théâtre":              "Arts / Culture (without music)",
	"Téléfilm":             "Movie / Drama",
}

// Tables are the lookup tables a Mapper is built with.
type Tables struct {
	// Credits maps vendor positions to credit kinds.
	Credits map[string]CreditKind
	// Categories maps capitalised vendor genres to ETSI categories.
	Categories map[string]string
}

// DefaultTables returns fresh copies of the built-in tables.
func DefaultTables() Tables {
	return Tables{
		Credits:    maps.Clone(defaultCredits),
		Categories: maps.Clone(defaultCategories),
	}
}
