package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"foodstore/internal/domain/entity"
	"foodstore/internal/domain/repository"
	"foodstore/pkg/errors"
)

const productsCollection = "products"

type firestoreProductRepository struct {
	client *firestore.Client
}

func NewFirestoreProductRepository(client *firestore.Client) repository.ProductRepository {
	return &firestoreProductRepository{
		client: client,
	}
}

func (r *firestoreProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	doc, err := r.client.Collection(productsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Product", err)
		}
		return nil, errors.StoreFailure("Failed to fetch product", err)
	}

	return productFromData(doc.Ref.ID, doc.Data())
}

// filtered applies the category filter and ordering shared by every read.
func (r *firestoreProductRepository) filtered(q entity.ProductQuery) firestore.Query {
	query := r.client.Collection(productsCollection).Query

	if q.Category != "" {
		query = query.Where("category", "==", q.Category)
	}

	if q.OrderBy != "" {
		dir := firestore.Asc
		if q.Direction == entity.SortDesc {
			dir = firestore.Desc
		}
		query = query.OrderBy(q.OrderBy, dir)
	}

	return query
}

func (r *firestoreProductRepository) Page(ctx context.Context, q entity.ProductQuery) ([]*entity.Product, error) {
	query := r.filtered(q)

	// The store cannot skip by offset cheaply, so the documents before the
	// page are read (projected down to the ordering field) and the page
	// continues after the last of them.
	if q.Skip > 0 {
		cursorQuery := query.Limit(q.Skip)
		if q.OrderBy != "" {
			cursorQuery = cursorQuery.Select(q.OrderBy)
		} else {
			cursorQuery = cursorQuery.Select()
		}

		skipped, err := cursorQuery.Documents(ctx).GetAll()
		if err != nil {
			return nil, errors.QueryFailure("Failed to fetch products", err)
		}
		if len(skipped) < q.Skip {
			return []*entity.Product{}, nil
		}
		query = query.StartAfter(skipped[len(skipped)-1])
	}

	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	return r.collect(ctx, query)
}

func (r *firestoreProductRepository) All(ctx context.Context, q entity.ProductQuery) ([]*entity.Product, error) {
	return r.collect(ctx, r.filtered(q))
}

func (r *firestoreProductRepository) Count(ctx context.Context, q entity.ProductQuery) (int, error) {
	// Ordering does not change the count and would exclude documents
	// missing the field.
	q.OrderBy = ""

	query := r.filtered(q)
	results, err := query.NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, errors.QueryFailure("Failed to count products", err)
	}

	switch v := results["all"].(type) {
	case *firestorepb.Value:
		return int(v.GetIntegerValue()), nil
	case int64:
		return int(v), nil
	default:
		return 0, errors.QueryFailure("Failed to count products", fmt.Errorf("unexpected count type %T", v))
	}
}

func (r *firestoreProductRepository) collect(ctx context.Context, query firestore.Query) ([]*entity.Product, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	products := []*entity.Product{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.QueryFailure("Failed to fetch products", err)
		}

		product, err := productFromData(doc.Ref.ID, doc.Data())
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, nil
}

func (r *firestoreProductRepository) Upsert(ctx context.Context, product *entity.Product) error {
	col := r.client.Collection(productsCollection)
	if product.ID == "" {
		product.ID = col.NewDoc().ID
	}
	if product.Reviews == nil {
		product.Reviews = []entity.Review{}
	}

	if _, err := col.Doc(product.ID).Set(ctx, product); err != nil {
		return errors.StoreFailure("Failed to save product", err)
	}

	return nil
}

func (r *firestoreProductRepository) UpdateReviews(ctx context.Context, id string, fn func(*entity.Product) error) (*entity.Product, error) {
	ref := r.client.Collection(productsCollection).Doc(id)

	var updated *entity.Product
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Product", err)
			}
			return err
		}

		product, err := productFromData(doc.Ref.ID, doc.Data())
		if err != nil {
			return err
		}

		if err := fn(product); err != nil {
			return err
		}
		if product.Reviews == nil {
			product.Reviews = []entity.Review{}
		}

		updated = product
		return tx.Update(ref, []firestore.Update{
			{Path: "reviews", Value: product.Reviews},
		})
	})
	if err != nil {
		if _, ok := errors.As(err); ok {
			return nil, err
		}
		return nil, errors.StoreFailure("Failed to update reviews", err)
	}

	return updated, nil
}
