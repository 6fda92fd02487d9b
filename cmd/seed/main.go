package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"gorm.io/gorm"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/models"
)

type ingredientFixture struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type tagFixture struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

var defaultTags = []tagFixture{
	{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
	{Name: "Lunch", Color: "#49B64E", Slug: "lunch"},
	{Name: "Dinner", Color: "#8775D2", Slug: "dinner"},
}

func main() {
	ingredientsPath := flag.String("ingredients", "data/ingredients.json", "Path to the ingredient catalog fixture")
	tagsPath := flag.String("tags", "", "Optional path to a tag fixture, defaults to built-in tags")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seedTags(db, *tagsPath); err != nil {
		log.Fatalf("Failed to seed tags: %v", err)
	}

	if err := seedIngredients(db, *ingredientsPath); err != nil {
		log.Fatalf("Failed to seed ingredients: %v", err)
	}

	log.Println("Seeding complete")
}

func seedTags(db *gorm.DB, path string) error {
	tags := defaultTags
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read tag fixture: %w", err)
		}
		tags = nil
		if err := json.Unmarshal(data, &tags); err != nil {
			return fmt.Errorf("parse tag fixture: %w", err)
		}
	}

	for _, fixture := range tags {
		tag := models.Tag{Name: fixture.Name, Color: fixture.Color, Slug: fixture.Slug}
		if err := db.Where("slug = ?", fixture.Slug).FirstOrCreate(&tag).Error; err != nil {
			return fmt.Errorf("seed tag %q: %w", fixture.Slug, err)
		}
	}

	log.Printf("Seeded %d tags", len(tags))
	return nil
}

func seedIngredients(db *gorm.DB, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read ingredient fixture: %w", err)
	}

	var fixtures []ingredientFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("parse ingredient fixture: %w", err)
	}

	created := 0
	for _, fixture := range fixtures {
		ingredient := models.Ingredient{
			Name:            fixture.Name,
			MeasurementUnit: fixture.MeasurementUnit,
		}
		result := db.Where("name = ? AND measurement_unit = ?", fixture.Name, fixture.MeasurementUnit).
			FirstOrCreate(&ingredient)
		if result.Error != nil {
			return fmt.Errorf("seed ingredient %q: %w", fixture.Name, result.Error)
		}
		if result.RowsAffected > 0 {
			created++
		}
	}

	log.Printf("Seeded %d of %d ingredients", created, len(fixtures))
	return nil
}
