// Package gorm provides GORM model definitions and repositories
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecipeModel represents the GORM model for catalog recipes
type RecipeModel struct {
	ID       string `gorm:"type:varchar(64);primaryKey"`
	Position int    `gorm:"not null;default:0;index"`
	Title    string `gorm:"type:varchar(255);not null"`

	Description  string         `gorm:"type:text"`
	Ingredients  IngredientList `gorm:"type:json"`
	Instructions StringSlice    `gorm:"type:json"`
	ImageURL     string         `gorm:"type:text"`

	// Timing (stored in minutes)
	PrepTimeMinutes int `gorm:"column:prep_time_minutes;default:0"`
	CookTimeMinutes int `gorm:"column:cook_time_minutes;default:0"`
	Servings        int `gorm:"default:0"`

	// Nutrition per serving
	Calories int     `gorm:"default:0"`
	Protein  float64 `gorm:"default:0"`
	Carbs    float64 `gorm:"default:0"`
	Fat      float64 `gorm:"default:0"`

	// Editorial rating shown in the catalog
	AverageRating float64 `gorm:"column:average_rating;default:0"`
	ReviewCount   int     `gorm:"column:review_count;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for RecipeModel
func (RecipeModel) TableName() string {
	return "recipes"
}

// RatingModel represents a single recorded rating
type RatingModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	RecipeID  string    `gorm:"type:varchar(64);not null;index"`
	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	CreatedAt time.Time
}

// TableName specifies the table name for RatingModel
func (RatingModel) TableName() string {
	return "recipe_ratings"
}

// VideoRecordModel associates a generated video with a recipe
type VideoRecordModel struct {
	RecipeID  string    `gorm:"type:varchar(64);primaryKey"`
	URL       string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for VideoRecordModel
func (VideoRecordModel) TableName() string {
	return "recipe_videos"
}

// AllModels lists every model managed by AutoMigrate
func AllModels() []interface{} {
	return []interface{}{
		&RecipeModel{},
		&RatingModel{},
		&VideoRecordModel{},
	}
}

// IngredientModel is the stored form of one ingredient line
type IngredientModel struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`

	IsAvailable bool `json:"is_available"`
}

// IngredientList custom type for storing ingredient lines as JSON
type IngredientList []IngredientModel

// Scan implements the sql.Scanner interface
func (l *IngredientList) Scan(value interface{}) error {
	return scanJSON(value, l, "IngredientList")
}

// Value implements the driver.Valuer interface
func (l IngredientList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return valueJSON(l)
}

// StringSlice custom type for handling string slices in JSON
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	return scanJSON(value, s, "StringSlice")
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return valueJSON(s)
}

func scanJSON(value interface{}, dest interface{}, name string) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("cannot scan %T into %s", value, name)
	}
}

func valueJSON(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// BeforeCreate hook for RatingModel
func (r *RatingModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
