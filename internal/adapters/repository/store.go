// Package repository provides the dashboard's dataset: the built-in seed or a
// validated YAML file.
package repository

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/trendboard/internal/domain/analytics"
	"github.com/okian/trendboard/pkg/metrics"
)

// maxEngagement is the upper bound of a percentage rate.
const maxEngagement = 100.0

// Store provides read access to the category dataset.
type Store interface {
	// All returns the dataset in its defined order.
	All(ctx context.Context) ([]analytics.CategoryMetric, error)

	// Count returns the number of categories.
	Count(ctx context.Context) int
}

// MemoryStore is an immutable in-memory Store.
type MemoryStore struct {
	items  []analytics.CategoryMetric
	source string
}

// NewSeedStore returns a store over the built-in seed.
func NewSeedStore() *MemoryStore {
	return &MemoryStore{items: analytics.Seed(), source: "seed"}
}

// NewMemoryStore validates items and stores a private copy.
func NewMemoryStore(items []analytics.CategoryMetric) (*MemoryStore, error) {
	if err := Validate(items); err != nil {
		return nil, err
	}
	return &MemoryStore{items: slices.Clone(items), source: "memory"}, nil
}

// Open returns the seed store when path is empty and a file store otherwise.
func Open(ctx context.Context, path string) (*MemoryStore, error) {
	var (
		s   *MemoryStore
		err error
	)
	if strings.TrimSpace(path) == "" {
		s = NewSeedStore()
	} else if s, err = LoadFile(ctx, path); err != nil {
		return nil, err
	}
	metrics.UpdateDatasetSize(len(s.items))
	return s, nil
}

// record is the on-disk shape of one category.
type record struct {
	Category         string  `koanf:"category"`
	AvgEngagement    float64 `koanf:"avg_engagement"`
	TotalImpressions int     `koanf:"total_impressions"`
	FollowerGrowth   int     `koanf:"follower_growth"`
}

// LoadFile reads a YAML dataset of the form
//
//	categories:
//	  - category: Technology
//	    avg_engagement: 4.2
//	    total_impressions: 125000
//	    follower_growth: 850
func LoadFile(_ context.Context, path string) (*MemoryStore, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadDataset, path, err)
	}

	var recs []record
	if err := k.UnmarshalWithConf("categories", &recs, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDataset, path, err)
	}

	items := make([]analytics.CategoryMetric, len(recs))
	for i, r := range recs {
		items[i] = analytics.CategoryMetric{
			Category:         strings.TrimSpace(r.Category),
			AvgEngagement:    r.AvgEngagement,
			TotalImpressions: r.TotalImpressions,
			FollowerGrowth:   r.FollowerGrowth,
		}
	}
	if err := Validate(items); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &MemoryStore{items: items, source: path}, nil
}

// Validate checks dataset invariants: at least one record, unique non-empty
// categories, finite engagement in [0, 100] and non-negative counts.
func Validate(items []analytics.CategoryMetric) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: no categories", ErrInvalidDataset)
	}
	seen := make(map[string]struct{}, len(items))
	for i, it := range items {
		switch {
		case it.Category == "":
			return fmt.Errorf("%w: record %d has no category", ErrInvalidDataset, i)
		case math.IsNaN(it.AvgEngagement) || math.IsInf(it.AvgEngagement, 0):
			return fmt.Errorf("%w: %s engagement is not a finite number", ErrInvalidDataset, it.Category)
		case it.AvgEngagement < 0 || it.AvgEngagement > maxEngagement:
			return fmt.Errorf("%w: %s engagement %.2f outside [0, 100]", ErrInvalidDataset, it.Category, it.AvgEngagement)
		case it.TotalImpressions < 0:
			return fmt.Errorf("%w: %s has negative impressions", ErrInvalidDataset, it.Category)
		case it.FollowerGrowth < 0:
			return fmt.Errorf("%w: %s has negative follower growth", ErrInvalidDataset, it.Category)
		}
		if _, dup := seen[it.Category]; dup {
			return fmt.Errorf("%w: duplicate category %q", ErrInvalidDataset, it.Category)
		}
		seen[it.Category] = struct{}{}
	}
	return nil
}

// All returns a copy of the dataset.
func (s *MemoryStore) All(_ context.Context) ([]analytics.CategoryMetric, error) {
	return slices.Clone(s.items), nil
}

// Count returns the number of categories.
func (s *MemoryStore) Count(_ context.Context) int {
	return len(s.items)
}

// Source names where the dataset came from: "seed", "memory" or a file path.
func (s *MemoryStore) Source() string {
	return s.source
}
