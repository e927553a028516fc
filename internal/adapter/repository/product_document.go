package repository

import (
	"fmt"
	"math"
	"time"

	"foodstore/internal/domain/entity"
	"foodstore/pkg/errors"
)

// productFromData coerces a raw product document. Documents in the
// collection are written by several clients, so fields are read without
// trusting their declared shape and any mismatch fails the whole read.
func productFromData(id string, data map[string]interface{}) (*entity.Product, error) {
	if data == nil {
		return nil, shapeError(id, "document", "no data")
	}

	var (
		p   = &entity.Product{ID: id}
		err error
	)

	if p.Title, err = requiredString(data, "title"); err != nil {
		return nil, shapeError(id, "title", err.Error())
	}
	if p.Category, err = optionalString(data, "category"); err != nil {
		return nil, shapeError(id, "category", err.Error())
	}
	if p.Description, err = optionalString(data, "description"); err != nil {
		return nil, shapeError(id, "description", err.Error())
	}
	if p.Brand, err = optionalString(data, "brand"); err != nil {
		return nil, shapeError(id, "brand", err.Error())
	}
	if p.Thumbnail, err = optionalString(data, "thumbnail"); err != nil {
		return nil, shapeError(id, "thumbnail", err.Error())
	}
	if p.Price, err = number(data, "price"); err != nil {
		return nil, shapeError(id, "price", err.Error())
	}
	if p.Price < 0 {
		return nil, shapeError(id, "price", "must not be negative")
	}
	if p.DiscountPercentage, err = number(data, "discountPercentage"); err != nil {
		return nil, shapeError(id, "discountPercentage", err.Error())
	}
	if p.Rating, err = number(data, "rating"); err != nil {
		return nil, shapeError(id, "rating", err.Error())
	}
	if p.Rating < 0 || p.Rating > entity.MaxRating {
		return nil, shapeError(id, "rating", fmt.Sprintf("%v outside 0-5", p.Rating))
	}

	stock, err := number(data, "stock")
	if err != nil {
		return nil, shapeError(id, "stock", err.Error())
	}
	if stock < 0 || stock != math.Trunc(stock) {
		return nil, shapeError(id, "stock", fmt.Sprintf("%v is not a non-negative integer", stock))
	}
	p.Stock = int(stock)

	if p.Tags, err = stringList(data, "tags"); err != nil {
		return nil, shapeError(id, "tags", err.Error())
	}
	if p.Images, err = stringList(data, "images"); err != nil {
		return nil, shapeError(id, "images", err.Error())
	}

	p.Reviews = []entity.Review{}
	if raw, ok := data["reviews"]; ok && raw != nil {
		list, ok := raw.([]interface{})
		if !ok {
			return nil, shapeError(id, "reviews", fmt.Sprintf("expected array, got %T", raw))
		}
		for i, item := range list {
			m, ok := item.(map[string]interface{})
			if !ok {
				return nil, shapeError(id, fmt.Sprintf("reviews[%d]", i), fmt.Sprintf("expected map, got %T", item))
			}
			review, err := reviewFromData(m)
			if err != nil {
				return nil, shapeError(id, fmt.Sprintf("reviews[%d]", i), err.Error())
			}
			p.Reviews = append(p.Reviews, review)
		}
	}

	return p, nil
}

func reviewFromData(data map[string]interface{}) (entity.Review, error) {
	var (
		r   entity.Review
		err error
	)

	if r.ID, err = optionalString(data, "id"); err != nil {
		return r, fmt.Errorf("id: %w", err)
	}
	if r.ReviewerName, err = optionalString(data, "reviewerName"); err != nil {
		return r, fmt.Errorf("reviewerName: %w", err)
	}
	if r.Comment, err = optionalString(data, "comment"); err != nil {
		return r, fmt.Errorf("comment: %w", err)
	}
	if r.AuthorID, err = optionalString(data, "uid"); err != nil {
		return r, fmt.Errorf("uid: %w", err)
	}

	rating, err := number(data, "rating")
	if err != nil {
		return r, fmt.Errorf("rating: %w", err)
	}
	if rating != math.Trunc(rating) || !entity.ValidRating(int(rating)) {
		return r, fmt.Errorf("rating: %v outside 1-5", rating)
	}
	r.Rating = int(rating)

	switch v := data["date"].(type) {
	case nil:
	case time.Time:
		r.Date = v
	case string:
		// Older documents carry ISO-8601 strings.
		if r.Date, err = time.Parse(time.RFC3339Nano, v); err != nil {
			return r, fmt.Errorf("date: %w", err)
		}
	default:
		return r, fmt.Errorf("date: unexpected %T", v)
	}

	return r, nil
}

func shapeError(id, field, reason string) error {
	return errors.Validation(fmt.Sprintf("product %s has malformed field %s: %s", id, field, reason), nil)
}

func requiredString(data map[string]interface{}, key string) (string, error) {
	v, ok := data[key]
	if !ok || v == nil {
		return "", fmt.Errorf("missing")
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %T", v)
	}
	return s, nil
}

func optionalString(data map[string]interface{}, key string) (string, error) {
	v, ok := data[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %T", v)
	}
	return s, nil
}

func number(data map[string]interface{}, key string) (float64, error) {
	switch v := data[key].(type) {
	case nil:
		return 0, nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}

func stringList(data map[string]interface{}, key string) ([]string, error) {
	out := []string{}
	raw, ok := data[key]
	if !ok || raw == nil {
		return out, nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("expected array, got %T", raw)
	}
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("element %d: expected string, got %T", i, item)
		}
		out = append(out, s)
	}
	return out, nil
}
