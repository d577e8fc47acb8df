package repository

import (
	"context"
	"fmt"
	"io"
	"os"
	"restoran_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// SeedFile is the reference data loaded at startup: menu categories with
// their items, and the dining-room tables.
type SeedFile struct {
	Categories []SeedCategory `yaml:"categories"`
	Tables     []SeedTable    `yaml:"tables"`
}

type SeedCategory struct {
	Name         string     `yaml:"name"`
	Description  string     `yaml:"description"`
	DisplayOrder int        `yaml:"display_order"`
	Items        []SeedItem `yaml:"items"`
}

type SeedItem struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Price       decimal.Decimal `yaml:"price"`
	ImageUrl    string          `yaml:"image_url"`
	IsAvailable *bool           `yaml:"is_available"`
}

type SeedTable struct {
	TableNumber int    `yaml:"table_number"`
	Capacity    int    `yaml:"capacity"`
	Location    string `yaml:"location"`
	IsAvailable *bool  `yaml:"is_available"`
}

// ParseSeed decodes and checks a seed document.
func ParseSeed(r io.Reader) (*SeedFile, error) {
	var seed SeedFile

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}

	for i, c := range seed.Categories {
		if c.Name == "" {
			return nil, fmt.Errorf("categories[%d]: name is required", i)
		}
		for j, item := range c.Items {
			if item.Name == "" {
				return nil, fmt.Errorf("categories[%d].items[%d]: name is required", i, j)
			}
			if item.Price.IsNegative() {
				return nil, fmt.Errorf("categories[%d].items[%d]: price must not be negative", i, j)
			}
		}
	}
	for i, t := range seed.Tables {
		if t.TableNumber <= 0 {
			return nil, fmt.Errorf("tables[%d]: table_number must be positive", i)
		}
		if t.Capacity <= 0 {
			return nil, fmt.Errorf("tables[%d]: capacity must be positive", i)
		}
	}

	return &seed, nil
}

// LoadSeedFile reads and applies the seed document at path.
func LoadSeedFile(ctx context.Context, path string, store SeedRepository, logger *gecho.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	seed, err := ParseSeed(f)
	if err != nil {
		return err
	}

	return ApplySeed(ctx, seed, store, logger)
}

// ApplySeed writes the seed through store. Existing rows are matched on
// category name, item name within a category and table number.
func ApplySeed(ctx context.Context, seed *SeedFile, store SeedRepository, logger *gecho.Logger) error {
	items := 0
	for _, c := range seed.Categories {
		category, err := store.SeedCategory(ctx, &tables.MenuCategory{
			Name:         c.Name,
			Description:  c.Description,
			DisplayOrder: c.DisplayOrder,
		})
		if err != nil {
			return fmt.Errorf("failed to seed category %q: %w", c.Name, err)
		}

		for _, it := range c.Items {
			err := store.SeedMenuItem(ctx, &tables.MenuItem{
				CategoryId:  category.Id,
				Name:        it.Name,
				Description: it.Description,
				Price:       it.Price.Round(2),
				ImageUrl:    it.ImageUrl,
				IsAvailable: boolOr(it.IsAvailable, true),
			})
			if err != nil {
				return fmt.Errorf("failed to seed menu item %q: %w", it.Name, err)
			}
			items++
		}
	}

	for _, t := range seed.Tables {
		err := store.SeedTable(ctx, &tables.RestaurantTable{
			TableNumber: t.TableNumber,
			Capacity:    t.Capacity,
			Location:    t.Location,
			IsAvailable: boolOr(t.IsAvailable, true),
		})
		if err != nil {
			return fmt.Errorf("failed to seed table %d: %w", t.TableNumber, err)
		}
	}

	logger.Info("Seed data applied",
		gecho.Field("categories", len(seed.Categories)),
		gecho.Field("menu_items", items),
		gecho.Field("tables", len(seed.Tables)),
	)
	return nil
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
