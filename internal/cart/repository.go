package cart

import (
	"ration-be/internal/logger"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// Repository stores carts by customer id.
type Repository interface {
	Get(customerID string) (*Cart, bool)
	Put(c *Cart)
	Delete(customerID string)
	Len() int
}

type repository struct {
	cache *lru.Cache[string, *Cart]
}

// NewRepository returns an in-memory store holding at most size carts;
// the least recently used cart is evicted first.
func NewRepository(size int) (Repository, error) {
	if size <= 0 {
		size = 1024
	}
	cache, err := lru.New[string, *Cart](size)
	if err != nil {
		return nil, err
	}
	return &repository{cache: cache}, nil
}

func (r *repository) Get(customerID string) (*Cart, bool) {
	c, ok := r.cache.Get(customerID)
	if !ok {
		return nil, false
	}
	if c.SchemaVersion != schemaVersion {
		logger.L().Info("discarding cart with stale schema",
			zap.String("customer_id", customerID),
			zap.Int("schema_version", c.SchemaVersion),
		)
		r.cache.Remove(customerID)
		return nil, false
	}
	return c.clone(), true
}

func (r *repository) Put(c *Cart) {
	r.cache.Add(c.CustomerID, c.clone())
}

func (r *repository) Delete(customerID string) {
	r.cache.Remove(customerID)
}

func (r *repository) Len() int {
	return r.cache.Len()
}
