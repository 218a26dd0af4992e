package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/testhelpers"
)

func newRecipe(author *models.User, title string) *models.Recipe {
	return &models.Recipe{
		AuthorID:   author.ID,
		Title:      title,
		Category:   models.CategoryVeg,
		Difficulty: models.DifficultyEasy,
		Servings:   2,
		PrepTime:   10,
		TotalTime:  30,
		Nutrition:  &models.Nutrition{Calories: 100},
		Ingredients: []models.Ingredient{
			{Name: "tomato", Quantity: decimal.RequireFromString("1.5"), Unit: models.UnitKilogram},
		},
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, database.IsUniqueViolation(nil))
	assert.True(t, database.IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, database.IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, database.IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, database.IsUniqueViolation(errors.New("UNIQUE constraint failed: recipes.author_id, recipes.title")))
	assert.False(t, database.IsUniqueViolation(errors.New("no such table")))
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "app.db?_foreign_keys=on&_busy_timeout=5000", database.SQLiteDSN("app.db"))
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=on&_busy_timeout=5000", database.SQLiteDSN("file:x?mode=memory"))
}

func testSchema(t *testing.T, db *gorm.DB) {
	author := testhelpers.CreateUser(t, db, "alice")

	recipe := newRecipe(author, "Soup")
	require.NoError(t, db.Create(recipe).Error)

	err := db.Create(newRecipe(author, "Soup")).Error
	assert.True(t, database.IsUniqueViolation(err), "got %v", err)

	// another author may reuse the title
	other := testhelpers.CreateUser(t, db, "bob")
	require.NoError(t, db.Create(newRecipe(other, "Soup")).Error)

	var ing models.Ingredient
	require.NoError(t, db.Where("recipe_id = ?", recipe.ID).First(&ing).Error)
	assert.True(t, decimal.RequireFromString("1.5").Equal(ing.Quantity), "got %s", ing.Quantity)

	// deleting the author cascades to the whole aggregate
	require.NoError(t, db.Delete(&models.User{}, "id = ?", author.ID).Error)
	var count int64
	db.Model(&models.Recipe{}).Where("author_id = ?", author.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.Ingredient{}).Where("recipe_id = ?", recipe.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.Nutrition{}).Where("recipe_id = ?", recipe.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.Profile{}).Where("user_id = ?", author.ID).Count(&count)
	assert.Zero(t, count)
}

func TestSchemaSQLite(t *testing.T) {
	testSchema(t, testhelpers.NewSQLiteDB(t))
}

func TestSchemaPostgres(t *testing.T) {
	db := testhelpers.NewPostgresDB(t)
	testSchema(t, db)

	require.NoError(t, database.HealthCheck(context.Background(), db))
}

func TestMigrateDownPostgres(t *testing.T) {
	db := testhelpers.NewPostgresDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, database.MigrateDown(ctx, sqlDB))
	assert.False(t, db.Migrator().HasTable("recipes"))

	require.NoError(t, database.MigrateUp(ctx, sqlDB))
	assert.True(t, db.Migrator().HasTable("recipes"))
}
