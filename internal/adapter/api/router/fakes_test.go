package router

import (
	"context"
	"sort"
	"sync"

	"foodstore/internal/domain/entity"
	"foodstore/pkg/errors"
)

type productStore struct {
	mu       sync.Mutex
	products []*entity.Product
	err      error
}

func copyProduct(p *entity.Product) *entity.Product {
	c := *p
	c.Reviews = append([]entity.Review{}, p.Reviews...)
	return &c
}

func (s *productStore) GetByID(_ context.Context, id string) (*entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			return copyProduct(p), nil
		}
	}
	return nil, errors.NotFound("Product", nil)
}

func (s *productStore) matching(q entity.ProductQuery) []*entity.Product {
	out := []*entity.Product{}
	for _, p := range s.products {
		if q.Category == "" || p.Category == q.Category {
			out = append(out, copyProduct(p))
		}
	}
	if q.OrderBy == "price" {
		sort.SliceStable(out, func(i, j int) bool {
			if q.Direction == entity.SortDesc {
				return out[i].Price > out[j].Price
			}
			return out[i].Price < out[j].Price
		})
	}
	return out
}

func (s *productStore) Page(_ context.Context, q entity.ProductQuery) ([]*entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	all := s.matching(q)
	if q.Skip >= len(all) && q.Skip > 0 {
		return []*entity.Product{}, nil
	}
	all = all[q.Skip:]
	if q.Limit > 0 && len(all) > q.Limit {
		all = all[:q.Limit]
	}
	return all, nil
}

func (s *productStore) Count(_ context.Context, q entity.ProductQuery) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	return len(s.matching(q)), nil
}

func (s *productStore) All(_ context.Context, q entity.ProductQuery) ([]*entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.matching(q), nil
}

func (s *productStore) Upsert(_ context.Context, product *entity.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, copyProduct(product))
	return nil
}

func (s *productStore) UpdateReviews(_ context.Context, id string, fn func(*entity.Product) error) (*entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.products {
		if p.ID != id {
			continue
		}
		working := copyProduct(p)
		if err := fn(working); err != nil {
			return nil, err
		}
		s.products[i] = copyProduct(working)
		return working, nil
	}
	return nil, errors.NotFound("Product", nil)
}

type userStore struct {
	mu    sync.Mutex
	users []*entity.User
}

func (s *userStore) Create(_ context.Context, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := *user
	s.users = append(s.users, &u)
	return nil
}

func (s *userStore) find(match func(*entity.User) bool) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			c := *u
			return &c, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (s *userStore) GetByID(_ context.Context, id string) (*entity.User, error) {
	return s.find(func(u *entity.User) bool { return u.ID == id })
}

func (s *userStore) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return s.find(func(u *entity.User) bool { return u.Email == email })
}

func (s *userStore) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return s.find(func(u *entity.User) bool { return u.Username == username })
}

type categoryStore struct {
	categories []*entity.Category
}

func (s *categoryStore) List(context.Context) ([]*entity.Category, error) {
	return s.categories, nil
}

func (s *categoryStore) Upsert(_ context.Context, c *entity.Category) error {
	s.categories = append(s.categories, c)
	return nil
}

type stubIdentity struct{}

func (stubIdentity) CreateUser(_ context.Context, email, _, _ string) (string, error) {
	return "uid-" + email, nil
}

func (stubIdentity) DeleteUser(context.Context, string) error { return nil }
