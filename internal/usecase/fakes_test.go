package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"foodstore/internal/domain/entity"
	"foodstore/pkg/errors"
)

// memoryProductRepo mimics the document store: documents keep insertion
// order unless a query orders them, and Skip is honoured like a cursor.
type memoryProductRepo struct {
	mu       sync.Mutex
	products []*entity.Product
	err      error
	queries  []entity.ProductQuery
	counts   int
}

func newMemoryProductRepo(products ...*entity.Product) *memoryProductRepo {
	return &memoryProductRepo{products: products}
}

func clone(p *entity.Product) *entity.Product {
	c := *p
	c.Reviews = append([]entity.Review{}, p.Reviews...)
	c.Tags = append([]string{}, p.Tags...)
	return &c
}

func (r *memoryProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, p := range r.products {
		if p.ID == id {
			return clone(p), nil
		}
	}
	return nil, errors.NotFound("Product", nil)
}

func (r *memoryProductRepo) matching(q entity.ProductQuery) []*entity.Product {
	out := []*entity.Product{}
	for _, p := range r.products {
		if q.Category == "" || p.Category == q.Category {
			out = append(out, clone(p))
		}
	}
	if q.OrderBy != "" {
		key := func(p *entity.Product) float64 {
			if q.OrderBy == "price" {
				return p.Price
			}
			return p.Rating
		}
		sort.SliceStable(out, func(i, j int) bool {
			if q.Direction == entity.SortDesc {
				return key(out[i]) > key(out[j])
			}
			return key(out[i]) < key(out[j])
		})
	}
	return out
}

func (r *memoryProductRepo) Page(_ context.Context, q entity.ProductQuery) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, q)
	if r.err != nil {
		return nil, r.err
	}
	all := r.matching(q)
	if q.Skip > len(all) || (q.Skip > 0 && q.Skip == len(all)) {
		return []*entity.Product{}, nil
	}
	all = all[q.Skip:]
	if q.Limit > 0 && len(all) > q.Limit {
		all = all[:q.Limit]
	}
	return all, nil
}

func (r *memoryProductRepo) Count(_ context.Context, q entity.ProductQuery) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts++
	if r.err != nil {
		return 0, r.err
	}
	return len(r.matching(q)), nil
}

func (r *memoryProductRepo) All(_ context.Context, q entity.ProductQuery) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, q)
	if r.err != nil {
		return nil, r.err
	}
	return r.matching(q), nil
}

func (r *memoryProductRepo) Upsert(_ context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = append(r.products, clone(product))
	return nil
}

func (r *memoryProductRepo) UpdateReviews(_ context.Context, id string, fn func(*entity.Product) error) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for i, p := range r.products {
		if p.ID != id {
			continue
		}
		working := clone(p)
		if err := fn(working); err != nil {
			return nil, err
		}
		r.products[i] = clone(working)
		return working, nil
	}
	return nil, errors.NotFound("Product", nil)
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deleted []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
		c.deleted = append(c.deleted, k)
	}
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []entity.ReviewEvent
}

func (p *recordingPublisher) Publish(e entity.ReviewEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

type memoryUserRepo struct {
	mu        sync.Mutex
	users     map[string]*entity.User
	err       error
	createErr error
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: map[string]*entity.User{}}
}

func (r *memoryUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.users[user.ID]; ok {
		return errors.Conflict("User already registered")
	}
	u := *user
	r.users[user.ID] = &u
	return nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, errors.NotFound("User", nil)
}

func (r *memoryUserRepo) find(match func(*entity.User) bool) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if match(u) {
			c := *u
			return &c, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email })
}

func (r *memoryUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Username == username })
}

type stubIdentity struct {
	calls     int
	live      map[string]bool
	deleteErr error
}

func (s *stubIdentity) CreateUser(_ context.Context, email, _, _ string) (string, error) {
	s.calls++
	if s.live == nil {
		s.live = map[string]bool{}
	}
	uid := "uid-" + email
	s.live[uid] = true
	return uid, nil
}

func (s *stubIdentity) DeleteUser(_ context.Context, uid string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.live, uid)
	return nil
}

type stubIssuer struct{}

func (stubIssuer) Issue(uid, _ string) (string, time.Time, error) {
	return "token-" + uid, time.Now().Add(time.Hour), nil
}
