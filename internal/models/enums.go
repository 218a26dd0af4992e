package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Category is the dietary class of a recipe.
type Category string

const (
	CategoryVeg    Category = "veg"
	CategoryVegan  Category = "vegan"
	CategoryNonVeg Category = "non-veg"
)

// Difficulty is how hard a recipe is to prepare.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Unit is the measure an ingredient quantity is expressed in.
type Unit string

const (
	UnitGram       Unit = "gram"
	UnitKilogram   Unit = "kilogram"
	UnitTeaspoon   Unit = "teaspoon"
	UnitTablespoon Unit = "tablespoon"
	UnitCup        Unit = "cup"
	UnitPiece      Unit = "piece"
)

// choice is one member of a closed set: its stored code plus accepted spellings.
type choice[T ~string] struct {
	value   T
	label   string
	aliases []string
}

var categories = []choice[Category]{
	{CategoryVeg, "Vegetarian", []string{"vegetarian"}},
	{CategoryVegan, "Vegan", nil},
	{CategoryNonVeg, "Non-Vegetarian", []string{"non-vegetarian", "nonveg", "non_veg"}},
}

var difficulties = []choice[Difficulty]{
	{DifficultyEasy, "Easy", nil},
	{DifficultyMedium, "Medium", nil},
	{DifficultyHard, "Hard", nil},
}

var units = []choice[Unit]{
	{UnitGram, "Grams", []string{"g", "grams"}},
	{UnitKilogram, "Kilograms", []string{"kg", "kilograms"}},
	{UnitTeaspoon, "Teaspoons", []string{"tsp", "teaspoons"}},
	{UnitTablespoon, "Tablespoons", []string{"tbsp", "tablespoons"}},
	{UnitCup, "Cups", []string{"cups"}},
	{UnitPiece, "Pieces", []string{"pcs", "pc", "pieces"}},
}

// parseChoice resolves raw against set. Empty input yields the first member. A raw
// value may be the code, the label, an alias, or the zero-based position in set.
func parseChoice[T ~string](set []choice[T], raw, kind string) (T, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return set[0].value, nil
	}
	for _, c := range set {
		if s == string(c.value) || s == strings.ToLower(c.label) {
			return c.value, nil
		}
		for _, a := range c.aliases {
			if s == a {
				return c.value, nil
			}
		}
	}
	if i, err := strconv.Atoi(s); err == nil && i >= 0 && i < len(set) {
		return set[i].value, nil
	}
	var zero T
	return zero, fmt.Errorf("%q is not a valid %s", strings.TrimSpace(raw), kind)
}

func labelOf[T ~string](set []choice[T], v T) string {
	for _, c := range set {
		if c.value == v {
			return c.label
		}
	}
	return string(v)
}

func ParseCategory(raw string) (Category, error) {
	return parseChoice(categories, raw, "category")
}

func ParseDifficulty(raw string) (Difficulty, error) {
	return parseChoice(difficulties, raw, "difficulty")
}

func ParseUnit(raw string) (Unit, error) {
	return parseChoice(units, raw, "unit")
}

func (c Category) Label() string   { return labelOf(categories, c) }
func (d Difficulty) Label() string { return labelOf(difficulties, d) }
func (u Unit) Label() string       { return labelOf(units, u) }

// Valid reports whether c is a member of the closed set.
func (c Category) Valid() bool {
	switch c {
	case CategoryVeg, CategoryVegan, CategoryNonVeg:
		return true
	}
	return false
}

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

func (u Unit) Valid() bool {
	switch u {
	case UnitGram, UnitKilogram, UnitTeaspoon, UnitTablespoon, UnitCup, UnitPiece:
		return true
	}
	return false
}
