package cart

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	pkgerrors "github.com/arduinodayph/adph-merch/pkg/errors"
	"github.com/arduinodayph/adph-merch/pkg/logger"
	redisclient "github.com/arduinodayph/adph-merch/pkg/redis"
)

var cartIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidateCartID rejects ids that cannot be used as a storage key segment.
func ValidateCartID(cartID string) error {
	if !cartIDPattern.MatchString(cartID) {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid cart id")
	}
	return nil
}

type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(cartID string) string
}

// Store persists cart snapshots in Redis.
type Store struct {
	kv   kvStore
	ttl  time.Duration
	logg *logger.Logger
}

// NewStore wires a Redis-backed cart store.
func NewStore(kv kvStore, ttl time.Duration, logg *logger.Logger) (*Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("cart kv store required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cart ttl must be positive")
	}
	return &Store{kv: kv, ttl: ttl, logg: logg}, nil
}

// Load returns the stored cart. Missing keys are an empty cart; corrupt payloads are discarded.
func (s *Store) Load(ctx context.Context, cartID string) (Cart, error) {
	key := s.kv.CartKey(cartID)
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if redisclient.IsNil(err) {
			return Cart{}, nil
		}
		return Cart{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	c, err := Decode([]byte(raw))
	if errors.Is(err, ErrCorruptSnapshot) {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithCartID(ctx, cartID), "cart.snapshot_discarded")
		}
		if delErr := s.kv.Del(ctx, key); delErr != nil {
			return Cart{}, pkgerrors.Wrap(pkgerrors.CodeDependency, delErr, "discard cart")
		}
		return Cart{}, nil
	}
	return c, err
}

// Save writes the cart, or removes the key when nothing purchasable remains.
func (s *Store) Save(ctx context.Context, cartID string, c Cart) error {
	key := s.kv.CartKey(cartID)
	if len(c.Purchasable()) == 0 {
		if err := s.kv.Del(ctx, key); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}
		return nil
	}
	payload, err := Encode(c)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.kv.Set(ctx, key, payload, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

// Delete removes the stored cart.
func (s *Store) Delete(ctx context.Context, cartID string) error {
	if err := s.kv.Del(ctx, s.kv.CartKey(cartID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart")
	}
	return nil
}
