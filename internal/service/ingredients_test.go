package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/types"
)

func TestNormalizeIngredientName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{" Tomato ", "tomato"},
		{"TOMATO", "tomato"},
		{"  red \t  onion ", "red onion"},
		{"Straße", "strasse"},
		{"STRASSE", "strasse"},
		{"Café", "café"},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeIngredientName(tt.in))
		})
	}
}

func TestZipIngredientRowsPadsShortArrays(t *testing.T) {
	rows := ZipIngredientRows(
		[]string{"salt", "pepper", "oil"},
		[]string{"1", "2"},
		[]string{"tsp"},
		nil,
	)

	require.Len(t, rows, 3)
	assert.Equal(t, types.IngredientRow{Name: "salt", Quantity: "1", Unit: "tsp"}, rows[0])
	assert.Equal(t, types.IngredientRow{Name: "pepper", Quantity: "2"}, rows[1])
	assert.Equal(t, types.IngredientRow{Name: "oil"}, rows[2])
	assert.Empty(t, ZipIngredientRows(nil, nil, nil, nil))
}

func TestMergeIngredients(t *testing.T) {
	rows := []types.IngredientRow{
		{Name: "Tomato", Quantity: "100", Unit: "0", Optional: "True"},
		{Name: "Salt", Quantity: "0.1", Unit: "tsp"},
		{Name: "", Quantity: "5"},
		{Name: "tomato", Quantity: "50", Unit: "0", Optional: "False"},
		{Name: "SALT", Quantity: "0.2", Unit: "teaspoons"},
	}

	merged, fe := MergeIngredients(rows)
	require.Empty(t, fe)
	require.Len(t, merged, 2)

	assert.Equal(t, "tomato", merged[0].Name)
	assert.Equal(t, "150", merged[0].Quantity.String())
	assert.Equal(t, models.UnitGram, merged[0].Unit)
	assert.False(t, merged[0].Optional)
	assert.Equal(t, 0, merged[0].Position)

	assert.Equal(t, "salt", merged[1].Name)
	assert.Equal(t, "0.3", merged[1].Quantity.String())
	assert.Equal(t, models.UnitTeaspoon, merged[1].Unit)
	assert.Equal(t, 1, merged[1].Position)
}

func TestMergeIngredientsLastUnitWins(t *testing.T) {
	merged, fe := MergeIngredients([]types.IngredientRow{
		{Name: "flour", Quantity: "1", Unit: "cup"},
		{Name: "Flour", Quantity: "200", Unit: "gram"},
	})
	require.Empty(t, fe)
	require.Len(t, merged, 1)
	assert.Equal(t, models.UnitGram, merged[0].Unit)
	assert.Equal(t, "201", merged[0].Quantity.String())
}

func TestMergeIngredientsMissingQuantityIsZero(t *testing.T) {
	merged, fe := MergeIngredients([]types.IngredientRow{{Name: "parsley"}})
	require.Empty(t, fe)
	require.Len(t, merged, 1)
	assert.True(t, merged[0].Quantity.IsZero())
	assert.False(t, merged[0].Optional)
}

func TestMergeIngredientsFieldErrors(t *testing.T) {
	long := make([]byte, maxIngredientName+1)
	for i := range long {
		long[i] = 'a'
	}

	_, fe := MergeIngredients([]types.IngredientRow{
		{Name: "a", Quantity: "abc"},
		{Name: "b", Quantity: "-1"},
		{Name: "c", Quantity: "1.2345"},
		{Name: "d", Quantity: "10000000"},
		{Name: "e", Unit: "bucket"},
		{Name: "f", Optional: "maybe"},
		{Name: string(long)},
	})

	assert.Equal(t, []string{"Enter a number."}, fe["ingredients.0.quantity"])
	assert.Contains(t, fe, "ingredients.1.quantity")
	assert.Contains(t, fe, "ingredients.2.quantity")
	assert.Contains(t, fe, "ingredients.3.quantity")
	assert.Contains(t, fe, "ingredients.4.unit")
	assert.Contains(t, fe, "ingredients.5.optional")
	assert.Contains(t, fe, "ingredients.6.name")
}

func TestMergeIngredientsCombinedQuantityTooLarge(t *testing.T) {
	_, fe := MergeIngredients([]types.IngredientRow{
		{Name: "rice", Quantity: "9999999"},
		{Name: "rice", Quantity: "1"},
	})
	assert.Contains(t, fe, "ingredients.1.quantity")
}

func TestParseQuantityAcceptsTrailingZeros(t *testing.T) {
	qty, err := parseQuantity("1.50000")
	require.NoError(t, err)
	assert.Equal(t, "1.5", qty.String())
}

func TestParseQuantityRejectsExtremeExponentsQuickly(t *testing.T) {
	tests := []struct {
		raw     string
		message string
	}{
		{"1e30000000", "Ensure this value is less than 10000000."},
		{"1e2000000000", "Ensure this value is less than 10000000."},
		{"1e-30000000", "Ensure that there are no more than 3 decimal places."},
		{"1e-2000000000", "Ensure that there are no more than 3 decimal places."},
		{"-1e30000000", "Ensure this value is greater than or equal to 0."},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			start := time.Now()
			_, fe := MergeIngredients([]types.IngredientRow{{Name: "salt", Quantity: tt.raw, Unit: "g"}})
			assert.Less(t, time.Since(start), time.Second)
			assert.Equal(t, []string{tt.message}, fe["ingredients.0.quantity"])
		})
	}
}

func TestParseQuantityZeroWithAnyExponent(t *testing.T) {
	for _, raw := range []string{"0e30000000", "0e-30000000", "0.000"} {
		start := time.Now()
		qty, err := parseQuantity(raw)
		require.NoError(t, err, raw)
		assert.True(t, qty.IsZero(), raw)
		assert.Less(t, time.Since(start), time.Second)
	}
}

func TestParseQuantityKeepsNormalRange(t *testing.T) {
	for _, raw := range []string{"9999999.999", "1e6", "2.5e-3", "0.1000000000"} {
		_, err := parseQuantity(raw)
		assert.NoError(t, err, raw)
	}
}

func TestParseFlag(t *testing.T) {
	for _, raw := range []string{"", "false", "False", "0", "off"} {
		v, err := parseFlag(raw)
		require.NoError(t, err)
		assert.False(t, v, raw)
	}
	for _, raw := range []string{"True", "true", "1", "on", "yes"} {
		v, err := parseFlag(raw)
		require.NoError(t, err)
		assert.True(t, v, raw)
	}
	_, err := parseFlag("maybe")
	assert.Error(t, err)
}
