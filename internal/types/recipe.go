package types

// RecipeForm carries the recipe scalar fields exactly as submitted. Conversion and
// validation happen in the service layer so that every field error is reported together.
type RecipeForm struct {
	Title        string `form:"title" json:"title"`
	Category     string `form:"category" json:"category"`
	Cuisine      string `form:"cuisine" json:"cuisine"`
	Difficulty   string `form:"difficulty" json:"difficulty"`
	Servings     string `form:"servings" json:"servings"`
	PrepTime     string `form:"prep_time" json:"prep_time"`
	TotalTime    string `form:"total_time" json:"total_time"`
	Instructions string `form:"instructions" json:"instructions"`
	Featured     string `form:"featured" json:"featured"`
}

// NutritionForm carries the nutrition scalar fields as submitted.
type NutritionForm struct {
	Calories      string `form:"calories" json:"calories"`
	Protein       string `form:"protein" json:"protein"`
	Fat           string `form:"fat" json:"fat"`
	Sugar         string `form:"sugar" json:"sugar"`
	Fiber         string `form:"fiber" json:"fiber"`
	Carbohydrates string `form:"carbohydrates" json:"carbohydrates"`
}

// IngredientRow is one submitted ingredient line, still unparsed.
type IngredientRow struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
	Optional string `json:"optional"`
}

// Upload is an uploaded file read into memory.
type Upload struct {
	Filename string
	Size     int64
	Data     []byte
}

// RecipeSubmission is everything a user sends to create or edit a recipe.
type RecipeSubmission struct {
	Recipe      RecipeForm
	Nutrition   NutritionForm
	Ingredients []IngredientRow
	Images      []Upload
}
