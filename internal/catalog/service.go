package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/arduinodayph/adph-merch/pkg/db/models"
	pkgerrors "github.com/arduinodayph/adph-merch/pkg/errors"
	"github.com/arduinodayph/adph-merch/pkg/logger"
	redisclient "github.com/arduinodayph/adph-merch/pkg/redis"
	"github.com/shopspring/decimal"
)

const (
	cacheName = "merch_items:active"

	msgLoadFailed   = "Unable to load collection."
	msgItemNotFound = "Item not found."
)

// Item is the storefront view of a merch item.
type Item struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Image       string          `json:"image"`
	Tone        string          `json:"tone"`
	Tag         string          `json:"tag"`
	Price       decimal.Decimal `json:"price"`
	Sizes       []string        `json:"sizes"`
	WeightGrams int             `json:"weightGrams"`
}

// FromModel maps a row to its storefront view.
func FromModel(m models.MerchItem) Item {
	return Item{
		ID:          m.ID.String(),
		Name:        m.Name,
		Image:       m.Image,
		Tone:        m.Tone,
		Tag:         m.Tag,
		Price:       m.Price,
		Sizes:       m.SizeOptions(),
		WeightGrams: m.WeightGrams,
	}
}

type itemReader interface {
	ListActive(ctx context.Context) ([]models.MerchItem, error)
}

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(name string) string
}

// Service exposes the storefront collection.
type Service interface {
	ListActive(ctx context.Context) ([]Item, error)
	FindActive(ctx context.Context, id string) (*Item, error)
}

// ServiceParams groups the catalog service dependencies. Cache is optional.
type ServiceParams struct {
	Repo     itemReader
	Cache    cacheStore
	CacheTTL time.Duration
	Logger   *logger.Logger
}

type service struct {
	repo     itemReader
	cache    cacheStore
	cacheTTL time.Duration
	logg     *logger.Logger
}

// NewService builds a catalog service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     params.Repo,
		cache:    params.Cache,
		cacheTTL: params.CacheTTL,
		logg:     params.Logger,
	}, nil
}

func (s *service) ListActive(ctx context.Context) ([]Item, error) {
	if items, ok := s.readCache(ctx); ok {
		return items, nil
	}

	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, msgLoadFailed)
	}
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, FromModel(row))
	}

	s.writeCache(ctx, items)
	return items, nil
}

func (s *service) FindActive(ctx context.Context, id string) (*Item, error) {
	items, err := s.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			item := items[i]
			return &item, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgItemNotFound)
}

func (s *service) readCache(ctx context.Context) ([]Item, bool) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, s.cache.CacheKey(cacheName))
	if err != nil {
		if !redisclient.IsNil(err) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "catalog.cache_read_failed")
		}
		return nil, false
	}
	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "catalog.cache_decode_failed")
		return nil, false
	}
	return items, true
}

func (s *service) writeCache(ctx context.Context, items []Item) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.CacheKey(cacheName), payload, s.cacheTTL); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "catalog.cache_write_failed")
	}
}
