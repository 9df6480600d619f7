package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/zatekoja/carefinder/internal/domain/entities"
	"github.com/zatekoja/carefinder/internal/domain/repositories"
	"github.com/zatekoja/carefinder/internal/infrastructure/observability"
)

// DefaultCategoryIcon is used when no icon rule matches
const DefaultCategoryIcon = "🏥"

type iconRule struct {
	keywords []string
	icon     string
}

// First match wins; keywords are compared against the lower-cased name.
var iconRules = []iconRule{
	{[]string{"dental"}, "🦷"},
	{[]string{"eye", "vision"}, "👁️"},
	{[]string{"mental"}, "🧠"},
	{[]string{"primary"}, "🏥"},
	{[]string{"urgent"}, "🚑"},
	{[]string{"pharmacy"}, "💊"},
}

// CategoryIcon returns the display icon for a category name
func CategoryIcon(name string) string {
	lower := strings.ToLower(name)
	for _, rule := range iconRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.icon
			}
		}
	}
	return DefaultCategoryIcon
}

// SummarizeCategories trims names, drops empty ones, merges duplicates by
// summing their counts and returns them alphabetically with icons.
func SummarizeCategories(counts []repositories.CategoryCount) []entities.CategorySummary {
	merged := make(map[string]int, len(counts))
	for _, c := range counts {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		merged[name] += c.Count
	}

	out := make([]entities.CategorySummary, 0, len(merged))
	for name, count := range merged {
		out = append(out, entities.CategorySummary{Name: name, Count: count, Icon: CategoryIcon(name)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// CategoryService lists provider categories
type CategoryService struct {
	repo    repositories.ProviderRepository
	metrics *observability.Metrics
}

// NewCategoryService creates a new category service
func NewCategoryService(repo repositories.ProviderRepository, metrics *observability.Metrics) *CategoryService {
	return &CategoryService{repo: repo, metrics: metrics}
}

// List returns the category summary built from the store
func (s *CategoryService) List(ctx context.Context) ([]entities.CategorySummary, error) {
	ctx, span := observability.StartSpan(ctx, "CategoryService.List")
	defer span.End()

	start := time.Now()
	counts, err := s.repo.CategoryCounts(ctx)
	observability.RecordStoreMetric(ctx, s.metrics, "category_counts", time.Since(start), err)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	return SummarizeCategories(counts), nil
}
