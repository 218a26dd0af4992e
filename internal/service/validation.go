package service

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/storage"
	"github.com/pageza/recipebox/backend/internal/types"
)

// RecipeInput is a recipe form after type conversion.
type RecipeInput struct {
	Title        string            `json:"title" validate:"required,max=200"`
	Category     models.Category   `json:"category" validate:"enum"`
	Cuisine      string            `json:"cuisine" validate:"max=50"`
	Difficulty   models.Difficulty `json:"difficulty" validate:"enum"`
	Servings     int               `json:"servings" validate:"min=1"`
	PrepTime     int               `json:"prep_time" validate:"min=0"`
	TotalTime    int               `json:"total_time" validate:"min=5,max=300,gtefield=PrepTime"`
	Instructions string            `json:"instructions" validate:"required"`
	Featured     bool              `json:"featured"`
}

// NutritionInput holds non-negative nutrition facts.
type NutritionInput struct {
	Calories      int `json:"calories" validate:"min=0"`
	Protein       int `json:"protein" validate:"min=0"`
	Fat           int `json:"fat" validate:"min=0"`
	Sugar         int `json:"sugar" validate:"min=0"`
	Fiber         int `json:"fiber" validate:"min=0"`
	Carbohydrates int `json:"carbohydrates" validate:"min=0"`
}

// Validator checks inputs and reports problems keyed by json field name.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
		e, ok := fl.Field().Interface().(interface{ Valid() bool })
		return ok && e.Valid()
	})
	return &Validator{v: v}
}

// Struct validates s and returns its field errors, empty when s is valid.
func (val *Validator) Struct(s any) FieldErrors {
	fe := FieldErrors{}
	err := val.v.Struct(s)
	if err == nil {
		return fe
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fe.Add("__all__", err.Error())
		return fe
	}
	for _, e := range verrs {
		fe.Add(e.Field(), message(e))
	}
	return fe
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "min":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this value has at most %s characters.", e.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", e.Param())
	case "gtefield":
		return "Total time must be greater than or equal to prep time."
	case "enum":
		return "Select a valid choice."
	}
	return fmt.Sprintf("Failed on the %q rule.", e.Tag())
}

// RecipeForm converts and validates the recipe fields. A field that could not
// be converted reports only its conversion error.
func (val *Validator) RecipeForm(form types.RecipeForm) (RecipeInput, FieldErrors) {
	conv := FieldErrors{}
	in := RecipeInput{
		Title:        strings.TrimSpace(form.Title),
		Cuisine:      strings.TrimSpace(form.Cuisine),
		Instructions: strings.TrimSpace(form.Instructions),
	}

	var err error
	if in.Category, err = models.ParseCategory(form.Category); err != nil {
		conv.Add("category", "Select a valid choice. "+err.Error()+".")
	}
	if in.Difficulty, err = models.ParseDifficulty(form.Difficulty); err != nil {
		conv.Add("difficulty", "Select a valid choice. "+err.Error()+".")
	}
	in.Servings = parseInt(conv, "servings", form.Servings, 1)
	in.PrepTime = parseInt(conv, "prep_time", form.PrepTime, -1)
	in.TotalTime = parseInt(conv, "total_time", form.TotalTime, -1)
	if in.Featured, err = parseFlag(form.Featured); err != nil {
		conv.Add("featured", err.Error())
	}

	return in, combine(conv, val.Struct(in))
}

// NutritionForm converts and validates the nutrition fields. Empty means zero.
func (val *Validator) NutritionForm(form types.NutritionForm) (NutritionInput, FieldErrors) {
	conv := FieldErrors{}
	in := NutritionInput{
		Calories:      parseInt(conv, "calories", form.Calories, 0),
		Protein:       parseInt(conv, "protein", form.Protein, 0),
		Fat:           parseInt(conv, "fat", form.Fat, 0),
		Sugar:         parseInt(conv, "sugar", form.Sugar, 0),
		Fiber:         parseInt(conv, "fiber", form.Fiber, 0),
		Carbohydrates: parseInt(conv, "carbohydrates", form.Carbohydrates, 0),
	}
	return in, combine(conv, val.Struct(in))
}

// Uploads checks size and content of every image.
func (val *Validator) Uploads(uploads []types.Upload, maxSize int64) ([]string, FieldErrors) {
	fe := FieldErrors{}
	contentTypes := make([]string, len(uploads))
	for i, up := range uploads {
		if maxSize > 0 && int64(len(up.Data)) > maxSize {
			fe.Add("images", fmt.Sprintf("%s: file exceeds %d bytes.", up.Filename, maxSize))
			continue
		}
		ct, err := storage.DetectImage(up.Data)
		if err != nil {
			fe.Add("images", fmt.Sprintf("%s: upload a valid image.", up.Filename))
			continue
		}
		contentTypes[i] = ct
	}
	return contentTypes, fe
}

// parseInt converts raw, recording a field error on failure. An empty value
// yields def, or a required error when def is negative.
func parseInt(fe FieldErrors, field, raw string, def int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if def < 0 {
			fe.Add(field, "This field is required.")
			return 0
		}
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		fe.Add(field, "Enter a whole number.")
		return 0
	}
	return n
}

// combine keeps conversion errors and drops rule errors for the same fields.
func combine(conv, rules FieldErrors) FieldErrors {
	for field, msgs := range rules {
		if !conv.Has(field) {
			conv[field] = msgs
		}
	}
	return conv
}
