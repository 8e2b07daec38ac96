package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lbsshop/storefront-api/internal/core/domain"
	"github.com/lbsshop/storefront-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

var (
	adminCaller  = ports.Caller{UserID: "admin-1", Role: domain.RoleAdmin}
	clientCaller = ports.Caller{UserID: "user-1", Role: domain.RoleClient}
	otherCaller  = ports.Caller{UserID: "user-2", Role: domain.RoleClient}
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrDuplicateEmail
		}
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) CountByRole(_ context.Context, role string) (int64, error) {
	var n int64
	for _, u := range r.users {
		if role == "" || u.Role == role {
			n++
		}
	}
	return n, nil
}

type stubProductRepo struct {
	products map[string]*domain.Product
}

func newStubProductRepo(products ...*domain.Product) *stubProductRepo {
	r := &stubProductRepo{products: make(map[string]*domain.Product)}
	for _, p := range products {
		clone := *p
		r.products[p.ID] = &clone
	}
	return r
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) error {
	clone := *p
	r.products[p.ID] = &clone
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) List(_ context.Context, f domain.ProductFilter) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range r.products {
		if f.Matches(p) {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *domain.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return domain.ErrProductNotFound
	}
	clone := *p
	r.products[p.ID] = &clone
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id string) error {
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.products)), nil
}

type stubCategoryRepo struct {
	categories map[string]*domain.Category
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{categories: make(map[string]*domain.Category)}
}

func (r *stubCategoryRepo) nameTaken(name, exceptID string) bool {
	for _, c := range r.categories {
		if c.ID != exceptID && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

func (r *stubCategoryRepo) Create(_ context.Context, c *domain.Category) error {
	if r.nameTaken(c.Name, "") {
		return domain.ErrDuplicateCategory
	}
	clone := *c
	r.categories[c.ID] = &clone
	return nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id string) (*domain.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCategoryRepo) List(_ context.Context) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, c := range r.categories {
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubCategoryRepo) Update(_ context.Context, c *domain.Category) error {
	if _, ok := r.categories[c.ID]; !ok {
		return domain.ErrCategoryNotFound
	}
	if r.nameTaken(c.Name, c.ID) {
		return domain.ErrDuplicateCategory
	}
	clone := *c
	r.categories[c.ID] = &clone
	return nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id string) error {
	delete(r.categories, id)
	return nil
}

type stubCartRepo struct {
	carts    map[string]*domain.Cart
	clearErr error // if set, Clear returns this error
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{carts: make(map[string]*domain.Cart)}
}

func cloneCart(c *domain.Cart) *domain.Cart {
	clone := &domain.Cart{UserID: c.UserID, Items: make([]domain.CartItem, len(c.Items))}
	copy(clone.Items, c.Items)
	return clone
}

func (r *stubCartRepo) Get(_ context.Context, userID string) (*domain.Cart, error) {
	c, ok := r.carts[userID]
	if !ok {
		return domain.NewCart(userID), nil
	}
	return cloneCart(c), nil
}

func (r *stubCartRepo) AddItem(_ context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	c, ok := r.carts[userID]
	if !ok {
		c = domain.NewCart(userID)
		r.carts[userID] = c
	}
	c.Add(productID, quantity)
	return cloneCart(c), nil
}

func (r *stubCartRepo) RemoveItem(_ context.Context, userID, productID string) (*domain.Cart, error) {
	c, ok := r.carts[userID]
	if !ok {
		return domain.NewCart(userID), nil
	}
	c.Remove(productID)
	return cloneCart(c), nil
}

func (r *stubCartRepo) Clear(_ context.Context, userID string) error {
	if r.clearErr != nil {
		return r.clearErr
	}
	delete(r.carts, userID)
	return nil
}

type stubOrderRepo struct {
	mu        sync.Mutex
	orders    map[string]*domain.Order
	createErr error
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[string]*domain.Order)}
}

func cloneOrder(o *domain.Order) *domain.Order {
	clone := *o
	clone.Items = append([]domain.OrderItem(nil), o.Items...)
	if o.PaymentArtifact != nil {
		a := *o.PaymentArtifact
		clone.PaymentArtifact = &a
	}
	return &clone
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *stubOrderRepo) sorted(keep func(*domain.Order) bool) []*domain.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Order{}
	for _, o := range r.orders {
		if keep(o) {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *stubOrderRepo) ListByUser(_ context.Context, userID string) ([]*domain.Order, error) {
	return r.sorted(func(o *domain.Order) bool { return o.UserID == userID }), nil
}

func (r *stubOrderRepo) List(_ context.Context) ([]*domain.Order, error) {
	return r.sorted(func(*domain.Order) bool { return true }), nil
}

// UpdateStatus mirrors the conditional update of the real repositories.
func (r *stubOrderRepo) UpdateStatus(_ context.Context, id string, from, to domain.OrderStatus, artifact *domain.PaymentArtifact) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if o.Status != from || (artifact != nil && o.PaymentArtifact != nil) {
		return nil, domain.ErrStatusConflict
	}
	o.Status = to
	if artifact != nil {
		a := *artifact
		o.PaymentArtifact = &a
	}
	o.UpdatedAt = time.Now().UTC()
	return cloneOrder(o), nil
}

func (r *stubOrderRepo) Summary(_ context.Context) (int64, float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var revenue float64
	for _, o := range r.orders {
		revenue += o.Total
	}
	return int64(len(r.orders)), revenue, nil
}

// ---------------------------------------------------------------------------
// Security stubs
// ---------------------------------------------------------------------------

// plainHasher prefixes the password so tests stay fast and deterministic.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

type stubTokens struct {
	issued []ports.Claims
}

func (t *stubTokens) Issue(claims ports.Claims, _ time.Duration) (string, error) {
	t.issued = append(t.issued, claims)
	return "token-" + claims.UserID, nil
}

func (t *stubTokens) Verify(token string) (*ports.Claims, error) {
	for _, c := range t.issued {
		if "token-"+c.UserID == token {
			clone := c
			return &clone, nil
		}
	}
	return nil, domain.ErrTokenInvalid
}

type stubArtifacts struct {
	issued int
}

func (a *stubArtifacts) Issue(o *domain.Order, at time.Time) (*domain.PaymentArtifact, error) {
	a.issued++
	return &domain.PaymentArtifact{Payload: "proof:" + o.ID, QRCode: "data:image/png;base64,AA==", ConfirmedAt: at}, nil
}

func (a *stubArtifacts) Decode(payload string) (*domain.PaymentProof, error) {
	if !strings.HasPrefix(payload, "proof:") {
		return nil, domain.ErrInvalidArtifact
	}
	return &domain.PaymentProof{OrderID: strings.TrimPrefix(payload, "proof:"), Status: domain.ProofStatusPaid}, nil
}

type countingRecorder struct {
	created     map[string]int
	clearFailed int
	transitions int
	confirmed   int
	authFails   map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{created: map[string]int{}, authFails: map[string]int{}}
}

func (r *countingRecorder) OrderCreated(source string) { r.created[source]++ }
func (r *countingRecorder) CartClearFailed() { r.clearFailed++ }
func (r *countingRecorder) StatusTransition(_, _ domain.OrderStatus) { r.transitions++ }
func (r *countingRecorder) PaymentConfirmed() { r.confirmed++ }
func (r *countingRecorder) AuthFailure(reason string) { r.authFails[reason]++ }

var errBoom = errors.New("boom")
