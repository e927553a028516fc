package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"foodstore/internal/domain/entity"
	"foodstore/internal/domain/repository"
	"foodstore/pkg/errors"
)

const categoriesCollection = "categories"

type firestoreCategoryRepository struct {
	client *firestore.Client
}

func NewFirestoreCategoryRepository(client *firestore.Client) repository.CategoryRepository {
	return &firestoreCategoryRepository{
		client: client,
	}
}

func (r *firestoreCategoryRepository) List(ctx context.Context) ([]*entity.Category, error) {
	iter := r.client.Collection(categoriesCollection).Documents(ctx)
	defer iter.Stop()

	categories := []*entity.Category{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.QueryFailure("Failed to fetch categories", err)
		}

		var category entity.Category
		if err := doc.DataTo(&category); err != nil {
			return nil, errors.Validation("Malformed category document "+doc.Ref.ID, err)
		}
		category.ID = doc.Ref.ID
		categories = append(categories, &category)
	}

	return categories, nil
}

func (r *firestoreCategoryRepository) Upsert(ctx context.Context, category *entity.Category) error {
	col := r.client.Collection(categoriesCollection)
	if category.ID == "" {
		category.ID = category.Slug
	}
	if category.ID == "" {
		category.ID = col.NewDoc().ID
	}

	if _, err := col.Doc(category.ID).Set(ctx, category); err != nil {
		return errors.StoreFailure("Failed to save category", err)
	}
	return nil
}
