package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/logging"
	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/storage"
	"github.com/pageza/recipebox/backend/internal/types"
)

type seedRecipe struct {
	recipe      types.RecipeForm
	ingredients []types.IngredientRow
	calories    string
}

var recipes = []seedRecipe{
	{
		recipe: types.RecipeForm{
			Title: "Tomato Basil Pasta", Category: "veg", Cuisine: "Italian", Difficulty: "easy",
			Servings: "2", PrepTime: "10", TotalTime: "25", Featured: "true",
			Instructions: "Boil the pasta. Simmer tomatoes with garlic, toss with basil and pasta.",
		},
		ingredients: []types.IngredientRow{
			{Name: "Spaghetti", Quantity: "200", Unit: "g"},
			{Name: "Tomato", Quantity: "3", Unit: "pcs"},
			{Name: "Garlic", Quantity: "2", Unit: "pcs"},
			{Name: "Basil", Quantity: "0.25", Unit: "cups", Optional: "true"},
		},
		calories: "520",
	},
	{
		recipe: types.RecipeForm{
			Title: "Chickpea Curry", Category: "vegan", Cuisine: "Indian", Difficulty: "medium",
			Servings: "4", PrepTime: "15", TotalTime: "40",
			Instructions: "Fry onion and spices, add tomatoes and chickpeas, simmer until thick.",
		},
		ingredients: []types.IngredientRow{
			{Name: "Chickpeas", Quantity: "400", Unit: "g"},
			{Name: "Onion", Quantity: "1", Unit: "pcs"},
			{Name: "Garam masala", Quantity: "2", Unit: "tsp"},
			{Name: "Coconut milk", Quantity: "1", Unit: "cups"},
		},
		calories: "380",
	},
	{
		recipe: types.RecipeForm{
			Title: "Roast Chicken", Category: "non-veg", Cuisine: "French", Difficulty: "hard",
			Servings: "6", PrepTime: "20", TotalTime: "110", Featured: "true",
			Instructions: "Season the chicken, roast at 200C until the juices run clear, rest before carving.",
		},
		ingredients: []types.IngredientRow{
			{Name: "Whole chicken", Quantity: "1.8", Unit: "kg"},
			{Name: "Butter", Quantity: "2", Unit: "tbsp"},
			{Name: "Thyme", Quantity: "1", Unit: "tsp", Optional: "true"},
		},
		calories: "610",
	},
}

func main() {
	email := flag.String("email", "demo@example.com", "Email of the demo author")
	password := flag.String("password", "demopassword", "Password of the demo author")
	flag.Parse()

	ctx := context.Background()
	log := logging.New(os.Stdout, false)

	if err := seed(ctx, log, *email, *password); err != nil {
		log.Error(ctx, "seeding failed", "error", err)
		os.Exit(1)
	}
}

func seed(ctx context.Context, log logging.Logger, email, password string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	if err := database.RunMigrations(ctx, db); err != nil {
		return err
	}
	store, err := storage.NewLocalStore(cfg.MediaDir, cfg.MediaBaseURL)
	if err != nil {
		return err
	}

	auth := service.NewAuthService(db, store, log, cfg.JWTSecret, cfg.TokenTTL)
	author, err := demoAuthor(ctx, auth, email, password)
	if err != nil {
		return err
	}

	svc := service.NewRecipeService(db, store, log, cfg.MaxUploadSize)
	for _, r := range recipes {
		sub := &types.RecipeSubmission{
			Recipe:      r.recipe,
			Nutrition:   types.NutritionForm{Calories: r.calories},
			Ingredients: r.ingredients,
		}
		recipe, err := svc.Submit(ctx, author.ID, sub)
		if errors.Is(err, service.ErrDuplicateTitle) {
			log.Info(ctx, "recipe already seeded", "title", r.recipe.Title)
			continue
		}
		if err != nil {
			return err
		}
		log.Info(ctx, "seeded recipe", "id", recipe.ID, "title", recipe.Title)
	}
	return nil
}

// demoAuthor logs in as the demo user, registering it on the first run.
func demoAuthor(ctx context.Context, auth *service.AuthService, email, password string) (*models.User, error) {
	user, err := auth.Login(ctx, email, password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		return auth.Register(ctx, email, "demo", password)
	}
	return user, err
}
