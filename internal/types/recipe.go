package types

import "github.com/google/uuid"

// IngredientAmount is one submitted (ingredient, quantity) pair.
// The same ingredient may legally appear more than once in a
// submission; the association writer merges duplicates by summing.
type IngredientAmount struct {
	IngredientID uuid.UUID
	Amount       int
}

// RecipeInput carries everything a create or update may set.
// The author is never part of the input; it is fixed server-side.
type RecipeInput struct {
	Name        string
	Text        string
	Image       string
	CookingTime int
	TagIDs      []uuid.UUID
	Ingredients []IngredientAmount
}

// RecipeFilter narrows a recipe listing. The viewer-relative filters
// only take effect for authenticated viewers.
type RecipeFilter struct {
	Author           *uuid.UUID
	TagSlugs         []string
	IsFavorited      bool
	IsInShoppingCart bool
}

// RecipeFlags are the viewer-relative booleans attached to every
// recipe projection.
type RecipeFlags struct {
	IsFavorited      bool
	IsInShoppingCart bool
}

// ReportRow is one aggregated line of the shopping report.
type ReportRow struct {
	Name            string
	Amount          int
	MeasurementUnit string
}
