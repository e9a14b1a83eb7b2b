package validator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arcanaland/deckspawn/internal/deckapi"
)

func TestValidateCleanDeck(t *testing.T) {
	res, err := NewValidator(&deckapi.Response{
		Name: "Clean",
		Cards: deckapi.CardList{
			{Key: "A", Name: "A", Img: "a.png", Quantity: 2, Zone: "main"},
		},
	}).Validate()
	require.NoError(t, err)
	require.True(t, res.OK())
	require.Empty(t, res.Warnings)
}

func TestValidateWarnings(t *testing.T) {
	res, err := NewValidator(&deckapi.Response{
		Name: "Messy",
		Cards: deckapi.CardList{
			{Key: "A", Name: "A", Quantity: 0},
			{Key: "B", Name: "B", Img: "b.png", Quantity: 1, Zone: "ruler",
				OtherFaces: []deckapi.FaceEntry{{Name: "B back"}}},
		},
	}).Validate()
	require.NoError(t, err)
	require.True(t, res.OK())
	require.Equal(t, []string{
		"card A has no image, a placeholder will be used",
		"card A has quantity 0, spawning one copy",
		`card A has no zone, using "main"`,
		"card B face 2 has no image",
	}, res.Warnings)
}

func TestValidateErrors(t *testing.T) {
	res, err := NewValidator(&deckapi.Response{}).Validate()
	require.NoError(t, err)
	require.False(t, res.OK())
	require.Equal(t, []string{"deck name is missing", "deck has no cards"}, res.Errors)

	_, err = NewValidator(nil).Validate()
	require.Error(t, err)
}
