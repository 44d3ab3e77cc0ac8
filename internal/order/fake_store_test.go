package order

import (
	"context"
	"sort"
	"sync"
	"time"

	"ration-be/internal/inventory"
	"ration-be/internal/quota"
	"ration-be/internal/rationcard"
)

// fakeStore is an in-memory Repository with the same conditional-write
// semantics as the SQL one: a transaction works on a private copy, each
// CAS compares against the committed state, and the copy replaces the
// committed state only when the callback succeeds.
type fakeStore struct {
	mu        sync.Mutex
	customers map[string]*CustomerRef
	items     map[string]*inventory.Item
	orders    map[string]*Order

	// afterInventoryRead runs once per Inventory call with direct access
	// to the committed state, simulating a concurrent writer.
	afterInventoryRead func(s *fakeStore)
	txCount            int
}

type fakeState struct {
	customers map[string]*CustomerRef
	items     map[string]*inventory.Item
	orders    map[string]*Order
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		customers: map[string]*CustomerRef{},
		items:     map[string]*inventory.Item{},
		orders:    map[string]*Order{},
	}
}

func (s *fakeStore) clone() *fakeState {
	st := &fakeState{
		customers: make(map[string]*CustomerRef, len(s.customers)),
		items:     make(map[string]*inventory.Item, len(s.items)),
		orders:    make(map[string]*Order, len(s.orders)),
	}
	for k, v := range s.customers {
		c := *v
		st.customers[k] = &c
	}
	for k, v := range s.items {
		it := *v
		st.items[k] = &it
	}
	for k, v := range s.orders {
		st.orders[k] = cloneOrder(v)
	}
	return st
}

func cloneOrder(o *Order) *Order {
	c := *o
	c.Items = append([]OrderItem(nil), o.Items...)
	return &c
}

func (s *fakeStore) WithTx(ctx context.Context, fn func(tx TxRepository) error) error {
	s.mu.Lock()
	s.txCount++
	work := s.clone()
	s.mu.Unlock()

	if err := fn(&fakeTx{store: s, work: work}); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers, s.items, s.orders = work.customers, work.items, work.orders
	return nil
}

func (s *fakeStore) GetByID(ctx context.Context, id string) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (s *fakeStore) List(ctx context.Context, filter ListFilter) ([]*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*Order{}
	for _, o := range s.orders {
		if filter.CustomerID != nil && o.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) CountByStatus(ctx context.Context) (map[Status]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := map[Status]int{}
	for _, o := range s.orders {
		counts[o.Status]++
	}
	return counts, nil
}

func (s *fakeStore) stock(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[id].Quantity
}

func (s *fakeStore) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

type fakeTx struct {
	store *fakeStore
	work  *fakeState
}

func (t *fakeTx) Customer(ctx context.Context, customerID string) (*CustomerRef, error) {
	c, ok := t.work.customers[customerID]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	ref := *c
	return &ref, nil
}

func (t *fakeTx) BumpCustomerVersion(ctx context.Context, customerID string, version int64) error {
	t.store.mu.Lock()
	committed := t.store.customers[customerID].Version
	t.store.mu.Unlock()

	c := t.work.customers[customerID]
	if committed != version || c.Version != version {
		return ErrStaleCustomer
	}
	c.Version++
	return nil
}

func (t *fakeTx) Inventory(ctx context.Context, ids []string) (map[string]*inventory.Item, error) {
	out := map[string]*inventory.Item{}
	for _, id := range ids {
		if it, ok := t.work.items[id]; ok {
			c := *it
			out[id] = &c
		}
	}
	if hook := t.store.afterInventoryRead; hook != nil {
		t.store.mu.Lock()
		hook(t.store)
		t.store.mu.Unlock()
	}
	return out, nil
}

func (t *fakeTx) ListInventory(ctx context.Context) ([]*inventory.Item, error) {
	out := []*inventory.Item{}
	for _, it := range t.work.items {
		c := *it
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (t *fakeTx) AdjustStock(ctx context.Context, commodityID string, version int64, delta int) error {
	t.store.mu.Lock()
	committed, ok := t.store.items[commodityID]
	var committedVersion int64
	if ok {
		committedVersion = committed.Version
	}
	t.store.mu.Unlock()

	it, ok := t.work.items[commodityID]
	if !ok || committedVersion != version || it.Version != version || it.Quantity+delta < 0 {
		return ErrStaleInventory
	}
	it.Quantity += delta
	it.Version++
	return nil
}

func (t *fakeTx) OrdersSince(ctx context.Context, customerID string, since time.Time) ([]*Order, error) {
	out := []*Order{}
	for _, o := range t.work.orders {
		if o.CustomerID == customerID && !o.OrderDate.Before(since) {
			out = append(out, cloneOrder(o))
		}
	}
	return out, nil
}

func (t *fakeTx) Insert(ctx context.Context, o *Order) error {
	t.work.orders[o.ID] = cloneOrder(o)
	return nil
}

func (t *fakeTx) GetByID(ctx context.Context, id string) (*Order, error) {
	o, ok := t.work.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (t *fakeTx) UpdateStatus(ctx context.Context, id string, from, to Status) error {
	t.store.mu.Lock()
	committed, ok := t.store.orders[id]
	committedStatus := Status("")
	if ok {
		committedStatus = committed.Status
	}
	t.store.mu.Unlock()

	o := t.work.orders[id]
	if committedStatus != from || o.Status != from {
		return ErrStaleStatus
	}
	o.Status = to
	return nil
}

// fakeQuotas serves card quotas from a map.
type fakeQuotas map[rationcard.Type]*quota.CardTypeQuota

func (f fakeQuotas) Get(ctx context.Context, cardType rationcard.Type) (*quota.CardTypeQuota, error) {
	q, ok := f[cardType]
	if !ok {
		return nil, quota.ErrQuotaNotFound
	}
	return q, nil
}

func (f fakeQuotas) List(ctx context.Context) ([]*quota.CardTypeQuota, error) {
	out := []*quota.CardTypeQuota{}
	for _, q := range f {
		out = append(out, q)
	}
	return out, nil
}

func (f fakeQuotas) Upsert(ctx context.Context, q *quota.CardTypeQuota) error {
	f[q.CardType] = q
	return nil
}
