package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanIngredientText_TruncatesAtStopPhrase(t *testing.T) {
	text := "Water, Glycerin, Niacinamide Contact us for wholesale inquiries"
	got := CleanIngredientText(text)
	assert.Equal(t, "Water, Glycerin, Niacinamide", got)
}

func TestCleanIngredientText_EarliestStopPhraseWins(t *testing.T) {
	text := "Water, Glycerin shop now copyright 2024"
	got := CleanIngredientText(text)
	assert.Equal(t, "Water, Glycerin", got)
}

func TestCleanIngredientText_RemovesHTMLAndSizes(t *testing.T) {
	text := "Water, <b>Glycerin</b>, Panthenol 50 ml"
	got := CleanIngredientText(text)
	assert.NotContains(t, got, "<b>")
	assert.NotContains(t, got, "50 ml")
	assert.Contains(t, got, "Glycerin")
}

func TestSplitIngredients(t *testing.T) {
	got := SplitIngredients("Water, Glycerin, water, Niacinamide")
	assert.Equal(t, []string{"Water", "Glycerin", "Niacinamide"}, got)
}
