// Package seed loads catalog files and writes them to the store.
package seed

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"foodstore/internal/domain/entity"
)

// Catalog is the on-disk import format, accepted as YAML or JSON.
type Catalog struct {
	Categories []CategoryRecord `yaml:"categories" json:"categories"`
	Products   []ProductRecord  `yaml:"products" json:"products"`
}

type CategoryRecord struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	Slug string `yaml:"slug" json:"slug"`
	URL  string `yaml:"url" json:"url"`
}

type ProductRecord struct {
	ID                 string         `yaml:"id" json:"id"`
	Title              string         `yaml:"title" json:"title"`
	Description        string         `yaml:"description" json:"description"`
	Category           string         `yaml:"category" json:"category"`
	Brand              string         `yaml:"brand" json:"brand"`
	Price              float64        `yaml:"price" json:"price"`
	DiscountPercentage float64        `yaml:"discountPercentage" json:"discountPercentage"`
	Rating             float64        `yaml:"rating" json:"rating"`
	Stock              int            `yaml:"stock" json:"stock"`
	Tags               []string       `yaml:"tags" json:"tags"`
	Thumbnail          string         `yaml:"thumbnail" json:"thumbnail"`
	Images             []string       `yaml:"images" json:"images"`
	Reviews            []ReviewRecord `yaml:"reviews" json:"reviews"`
}

type ReviewRecord struct {
	ID           string `yaml:"id" json:"id"`
	ReviewerName string `yaml:"reviewerName" json:"reviewerName"`
	Rating       int    `yaml:"rating" json:"rating"`
	Comment      string `yaml:"comment" json:"comment"`
	Date         string `yaml:"date" json:"date"`
	AuthorID     string `yaml:"authorId" json:"authorId"`
}

// LoadFile decodes path as JSON when it ends in .json and as YAML otherwise.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(raw, strings.EqualFold(filepath.Ext(path), ".json"))
}

func Parse(raw []byte, isJSON bool) (*Catalog, error) {
	var c Catalog
	var err error
	if isJSON {
		err = json.Unmarshal(raw, &c)
	} else {
		err = yaml.Unmarshal(raw, &c)
	}
	if err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return &c, nil
}

func (r CategoryRecord) Entity() (*entity.Category, error) {
	if strings.TrimSpace(r.Name) == "" {
		return nil, fmt.Errorf("category %q: name is required", r.ID)
	}
	slug := r.Slug
	if slug == "" {
		slug = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(r.Name), " ", "-"))
	}
	id := r.ID
	if id == "" {
		id = slug
	}
	return &entity.Category{ID: id, Name: r.Name, Slug: slug, URL: r.URL}, nil
}

// Entity validates the record. Reviews without an id get one from newID.
func (r ProductRecord) Entity(newID func() string) (*entity.Product, error) {
	if strings.TrimSpace(r.Title) == "" {
		return nil, fmt.Errorf("product %q: title is required", r.ID)
	}
	if r.Rating < 0 || r.Rating > entity.MaxRating {
		return nil, fmt.Errorf("product %q: rating %v out of range", r.ID, r.Rating)
	}
	if r.Stock < 0 {
		return nil, fmt.Errorf("product %q: stock must not be negative", r.ID)
	}

	p := &entity.Product{
		ID:                 r.ID,
		Title:              r.Title,
		Description:        r.Description,
		Category:           r.Category,
		Brand:              r.Brand,
		Price:              r.Price,
		DiscountPercentage: r.DiscountPercentage,
		Rating:             r.Rating,
		Stock:              r.Stock,
		Tags:               nonNil(r.Tags),
		Thumbnail:          r.Thumbnail,
		Images:             nonNil(r.Images),
		Reviews:            make([]entity.Review, 0, len(r.Reviews)),
	}

	for i, rr := range r.Reviews {
		if !entity.ValidRating(rr.Rating) {
			return nil, fmt.Errorf("product %q review %d: rating %d out of range", r.ID, i, rr.Rating)
		}
		date := time.Now().UTC()
		if rr.Date != "" {
			parsed, err := time.Parse(time.RFC3339, rr.Date)
			if err != nil {
				return nil, fmt.Errorf("product %q review %d: %w", r.ID, i, err)
			}
			date = parsed
		}
		id := rr.ID
		if id == "" {
			id = newID()
		}
		p.Reviews = append(p.Reviews, entity.Review{
			ID:           id,
			ReviewerName: rr.ReviewerName,
			Rating:       rr.Rating,
			Comment:      rr.Comment,
			Date:         date,
			AuthorID:     rr.AuthorID,
		})
	}

	return p, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
