package validator

import (
	"fmt"
	"strings"

	"github.com/arcanaland/deckspawn/internal/card"
	"github.com/arcanaland/deckspawn/internal/deckapi"
)

type ValidationResults struct {
	Errors   []string
	Warnings []string
}

// OK reports whether no errors were recorded
func (r ValidationResults) OK() bool {
	return len(r.Errors) == 0
}

type Validator struct {
	Deck    *deckapi.Response
	Results ValidationResults
}

func NewValidator(deck *deckapi.Response) *Validator {
	return &Validator{
		Deck:    deck,
		Results: ValidationResults{},
	}
}

func (v *Validator) Validate() (ValidationResults, error) {
	if v.Deck == nil {
		return v.Results, fmt.Errorf("no deck to validate")
	}

	v.validateHeader()
	for i, entry := range v.Deck.Cards {
		v.validateCard(i, entry)
	}

	return v.Results, nil
}

func (v *Validator) validateHeader() {
	if strings.TrimSpace(v.Deck.Name) == "" {
		v.Results.Errors = append(v.Results.Errors, "deck name is missing")
	}

	if len(v.Deck.Cards) == 0 {
		v.Results.Errors = append(v.Results.Errors, "deck has no cards")
	}
}

// validateCard only warns: every card is still spawned
func (v *Validator) validateCard(index int, entry deckapi.CardEntry) {
	label := entry.Name
	if label == "" {
		label = entry.Key
	}
	if label == "" {
		label = fmt.Sprintf("#%d", index+1)
		v.Results.Warnings = append(v.Results.Warnings,
			fmt.Sprintf("card %s has no name", label))
	}

	if strings.TrimSpace(entry.Img) == "" {
		v.Results.Warnings = append(v.Results.Warnings,
			fmt.Sprintf("card %s has no image, a placeholder will be used", label))
	}

	if entry.Quantity < 1 {
		v.Results.Warnings = append(v.Results.Warnings,
			fmt.Sprintf("card %s has quantity %d, spawning one copy", label, entry.Quantity))
	}

	if strings.TrimSpace(entry.Zone) == "" {
		v.Results.Warnings = append(v.Results.Warnings,
			fmt.Sprintf("card %s has no zone, using %q", label, card.DefaultZone))
	}

	for i, face := range entry.OtherFaces {
		if strings.TrimSpace(face.Img) == "" {
			v.Results.Warnings = append(v.Results.Warnings,
				fmt.Sprintf("card %s face %d has no image", label, i+2))
		}
	}
}
