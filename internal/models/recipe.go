package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Recipe is the aggregate root. It exclusively owns its Nutrition, Ingredients and Images.
type Recipe struct {
	ID           uuid.UUID     `gorm:"type:varchar(36);primarykey" json:"id"`
	AuthorID     uuid.UUID     `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipes_author_title,priority:1" json:"author_id"`
	Author       *User         `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Title        string        `gorm:"size:200;not null;uniqueIndex:idx_recipes_author_title,priority:2" json:"title"`
	Category     Category      `gorm:"size:10;not null" json:"category"`
	Cuisine      string        `gorm:"size:50" json:"cuisine"`
	Difficulty   Difficulty    `gorm:"size:10;not null" json:"difficulty"`
	Servings     int           `gorm:"not null" json:"servings"`
	PrepTime     int           `gorm:"not null" json:"prep_time"`
	TotalTime    int           `gorm:"not null" json:"total_time"`
	Instructions string        `gorm:"type:text" json:"instructions"`
	Featured     bool          `gorm:"not null;index" json:"featured"`
	Likes        int           `gorm:"not null" json:"likes"`
	Nutrition    *Nutrition    `gorm:"constraint:OnDelete:CASCADE" json:"nutrition,omitempty"`
	Ingredients  []Ingredient  `gorm:"constraint:OnDelete:CASCADE" json:"ingredients,omitempty"`
	Images       []RecipeImage `gorm:"constraint:OnDelete:CASCADE" json:"images,omitempty"`
	CreatedAt    time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RecipeOrder is the default listing order.
const RecipeOrder = "created_at DESC, title ASC"

type Ingredient struct {
	ID       uuid.UUID       `gorm:"type:varchar(36);primarykey" json:"id"`
	RecipeID uuid.UUID       `gorm:"type:varchar(36);not null;index" json:"recipe_id"`
	Name     string          `gorm:"size:100;not null" json:"name"`
	Quantity decimal.Decimal `gorm:"type:decimal(10,3);not null" json:"quantity"`
	Unit     Unit            `gorm:"size:12;not null" json:"unit"`
	Optional bool            `gorm:"not null" json:"optional"`
	Position int             `gorm:"not null" json:"-"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Nutrition holds per-serving facts. All values are non-negative.
type Nutrition struct {
	ID            uuid.UUID `gorm:"type:varchar(36);primarykey" json:"-"`
	RecipeID      uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex" json:"-"`
	Calories      int       `gorm:"not null" json:"calories"`
	Protein       int       `gorm:"not null" json:"protein"`
	Fat           int       `gorm:"not null" json:"fat"`
	Sugar         int       `gorm:"not null" json:"sugar"`
	Fiber         int       `gorm:"not null" json:"fiber"`
	Carbohydrates int       `gorm:"not null" json:"carbohydrates"`
}

func (Nutrition) TableName() string {
	return "nutrition"
}

func (n *Nutrition) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// RecipeImage points at an object in the image store. Images are read newest first.
type RecipeImage struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	RecipeID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"recipe_id"`
	Key         string    `gorm:"size:500;not null" json:"-"`
	URL         string    `gorm:"size:1000;not null" json:"url"`
	Filename    string    `gorm:"size:255" json:"filename"`
	ContentType string    `gorm:"size:100" json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

func (img *RecipeImage) BeforeCreate(tx *gorm.DB) error {
	if img.ID == uuid.Nil {
		img.ID = uuid.New()
	}
	return nil
}
