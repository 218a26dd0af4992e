package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/types"
)

const (
	maxIngredientName = 100
	quantityPlaces    = 3

	// A non-zero quantity with a larger exponent is at least 10^8. A smaller one
	// carries more trailing zeros than any form field plausibly holds.
	maxExponent = 7
	minExponent = -(quantityPlaces + 32)
)

// maxQuantity is the first value that no longer fits numeric(10,3).
var maxQuantity = decimal.New(1, 7)

// NormalizeIngredientName is the merge key for ingredient rows: NFC, trimmed,
// inner whitespace collapsed and Unicode case folded.
func NormalizeIngredientName(name string) string {
	name = norm.NFC.String(name)
	name = strings.Join(strings.Fields(name), " ")
	// A Caser is stateful, so each call gets its own.
	return norm.NFC.String(cases.Fold().String(name))
}

// ZipIngredientRows turns the positional form arrays into rows. Shorter arrays are
// padded with empty strings.
func ZipIngredientRows(names, quantities, units, optionals []string) []types.IngredientRow {
	n := max(len(names), len(quantities), len(units), len(optionals))
	at := func(s []string, i int) string {
		if i < len(s) {
			return s[i]
		}
		return ""
	}

	rows := make([]types.IngredientRow, n)
	for i := range rows {
		rows[i] = types.IngredientRow{
			Name:     at(names, i),
			Quantity: at(quantities, i),
			Unit:     at(units, i),
			Optional: at(optionals, i),
		}
	}
	return rows
}

// MergeIngredients parses rows and merges those sharing a normalized name. The
// quantities of duplicates are added exactly; the last unit and optional flag
// win. Rows with an empty name are skipped. Results keep first-seen order.
func MergeIngredients(rows []types.IngredientRow) ([]models.Ingredient, FieldErrors) {
	fe := FieldErrors{}
	merged := make([]models.Ingredient, 0, len(rows))
	index := make(map[string]int, len(rows))

	for i, row := range rows {
		name := NormalizeIngredientName(row.Name)
		if name == "" {
			continue
		}
		field := func(f string) string { return fmt.Sprintf("ingredients.%d.%s", i, f) }

		ok := true
		if len([]rune(name)) > maxIngredientName {
			fe.Add(field("name"), fmt.Sprintf("Ensure this value has at most %d characters.", maxIngredientName))
			ok = false
		}
		qty, err := parseQuantity(row.Quantity)
		if err != nil {
			fe.Add(field("quantity"), err.Error())
			ok = false
		}
		unit, err := models.ParseUnit(row.Unit)
		if err != nil {
			fe.Add(field("unit"), "Select a valid choice. "+err.Error()+".")
			ok = false
		}
		optional, err := parseFlag(row.Optional)
		if err != nil {
			fe.Add(field("optional"), err.Error())
			ok = false
		}
		if !ok {
			continue
		}

		if j, seen := index[name]; seen {
			merged[j].Quantity = merged[j].Quantity.Add(qty)
			merged[j].Unit = unit
			merged[j].Optional = optional
			if !merged[j].Quantity.LessThan(maxQuantity) {
				fe.Add(field("quantity"), "Combined quantity is too large.")
			}
			continue
		}

		index[name] = len(merged)
		merged = append(merged, models.Ingredient{
			Name:     name,
			Quantity: qty,
			Unit:     unit,
			Optional: optional,
			Position: len(merged),
		})
	}
	return merged, fe
}

func parseQuantity(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	qty, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errors.New("Enter a number.")
	}
	// Comparisons rescale the coefficient by the exponent, so extreme exponents
	// are settled before any of them run.
	switch {
	case qty.IsZero():
		return decimal.Zero, nil
	case qty.IsNegative():
		return decimal.Zero, errors.New("Ensure this value is greater than or equal to 0.")
	case qty.Exponent() > maxExponent:
		return decimal.Zero, fmt.Errorf("Ensure this value is less than %s.", maxQuantity)
	case qty.Exponent() < minExponent:
		return decimal.Zero, fmt.Errorf("Ensure that there are no more than %d decimal places.", quantityPlaces)
	}
	switch {
	case qty.Exponent() < -quantityPlaces && !qty.Equal(qty.Truncate(quantityPlaces)):
		return decimal.Zero, fmt.Errorf("Ensure that there are no more than %d decimal places.", quantityPlaces)
	case !qty.LessThan(maxQuantity):
		return decimal.Zero, fmt.Errorf("Ensure this value is less than %s.", maxQuantity)
	}
	return qty, nil
}

// parseFlag reads a checkbox style boolean. Empty means false.
func parseFlag(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "0", "false", "off", "no", "n", "f":
		return false, nil
	case "1", "true", "on", "yes", "y", "t":
		return true, nil
	}
	return false, fmt.Errorf("%q is not a valid boolean.", strings.TrimSpace(raw))
}
