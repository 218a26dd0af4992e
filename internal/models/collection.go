package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Collection groups recipes for one owner. It references recipes without owning them.
type Collection struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	OwnerID   uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_collections_owner_title,priority:1" json:"owner_id"`
	Owner     *User     `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Title     string    `gorm:"size:200;not null;uniqueIndex:idx_collections_owner_title,priority:2" json:"title"`
	Recipes   []Recipe  `gorm:"many2many:collection_recipes;constraint:OnDelete:CASCADE" json:"recipes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Collection) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// All returns every model managed by the schema, parents first.
func All() []any {
	return []any{
		&User{},
		&Profile{},
		&Recipe{},
		&Nutrition{},
		&Ingredient{},
		&RecipeImage{},
		&Collection{},
	}
}
