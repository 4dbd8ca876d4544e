package scraper

import (
	"strings"
	"testing"

	"skincare-analyzer/internal/pkg/common"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	common.Logger = zap.NewNop()
}

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractIngredientText_SummaryBlock(t *testing.T) {
	doc := docFromHTML(t, `
		<html><body>
		<details>
			<summary>See Full Ingredient List</summary>
			<p>Water, Glycerin, Niacinamide, Panthenol, Ceramide NP</p>
		</details>
		</body></html>`)

	got := ExtractIngredientText(doc)
	assert.Contains(t, got, "Water, Glycerin, Niacinamide")
}

func TestExtractIngredientText_HeadingSiblings(t *testing.T) {
	doc := docFromHTML(t, `
		<html><body>
		<h3>Ingredients</h3>
		<div>Water, Glycerin, Cetearyl Alcohol, Phenoxyethanol, Sodium Hyaluronate, Tocopherol</div>
		</body></html>`)

	got := ExtractIngredientText(doc)
	assert.Contains(t, got, "Cetearyl Alcohol")
}

func TestExtractIngredientText_RegexFallback(t *testing.T) {
	doc := docFromHTML(t, `
		<html><body>
		<div>Product details. Ingredients: Water, Glycerin, Niacinamide, Squalane, Panthenol, Allantoin, Xanthan Gum</div>
		</body></html>`)

	got := ExtractIngredientText(doc)
	assert.Contains(t, got, "Squalane")
}

func TestExtractIngredientText_ShortContentFailsGate(t *testing.T) {
	doc := docFromHTML(t, `
		<html><body>
		<h3>Ingredients</h3>
		<div>Water</div>
		</body></html>`)

	assert.Equal(t, "", ExtractIngredientText(doc))
}

func TestExtractIngredientText_NoMatch(t *testing.T) {
	doc := docFromHTML(t, `<html><body><p>About our company and shipping policy.</p></body></html>`)
	assert.Equal(t, "", ExtractIngredientText(doc))
}

func TestLooksLikeIngredientList(t *testing.T) {
	assert.True(t, looksLikeIngredientList("Water, Glycerin, Niacinamide", 20))
	assert.False(t, looksLikeIngredientList("Water", 20))
	assert.False(t, looksLikeIngredientList("a long sentence without any separators at all here", 20))
}
