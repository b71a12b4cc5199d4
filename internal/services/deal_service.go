package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/infra/cache"
	"storefront/internal/infra/storage"
	"storefront/internal/repository"
	"storefront/internal/scheduler"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	categoriesKey = "deal:categories"
	categoriesTTL = 5 * time.Minute
)

var hundred = decimal.NewFromInt(100)

// DealInput is the admin edit of the singleton deal. A nil IsActive means
// active; a non-empty Image is uploaded and replaces ImageURL.
type DealInput struct {
	Title       string
	Description string
	Discount    *int
	EndDate     *time.Time
	Categories  []string
	IsActive    *bool
	Image       string
}

type ApplyResult struct {
	Updated            int64    `json:"updatedProducts"`
	ApplicableProducts int64    `json:"affectedProducts"`
	DealTitle          string   `json:"dealTitle"`
	Categories         []string `json:"categories"`
}

type DealService struct {
	deals    repository.DealRepository
	products repository.ProductRepository
	uploader storage.Uploader
	cache    cache.Cache
	clock    scheduler.Clock
	logger   *zap.Logger
}

func NewDealService(deals repository.DealRepository, products repository.ProductRepository, uploader storage.Uploader, logger *zap.Logger) *DealService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DealService{
		deals:    deals,
		products: products,
		uploader: uploader,
		cache:    cache.Noop{},
		clock:    scheduler.SystemClock{},
		logger:   logger,
	}
}

func (s *DealService) SetCache(c cache.Cache) {
	if c != nil {
		s.cache = c
	}
}

func (s *DealService) SetClock(c scheduler.Clock) {
	if c != nil {
		s.clock = c
	}
}

// GetActiveDeal returns the active deal with its applicable product count,
// or nil. An active deal found past its end date is retired first.
func (s *DealService) GetActiveDeal(ctx context.Context) (*domain.Deal, error) {
	d, err := s.deals.FindActive(ctx)
	if err != nil || d == nil {
		return nil, err
	}

	if d.Expired(s.clock.Now()) {
		if err := s.retire(ctx, d); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if err := s.countApplicable(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// UpsertDeal overwrites the singleton deal. Discounts of the previous terms
// are removed before the new ones are applied so no product is discounted
// twice across an edit.
func (s *DealService) UpsertDeal(ctx context.Context, in DealInput) (*domain.Deal, error) {
	if err := validateDealInput(in); err != nil {
		return nil, err
	}

	d, err := s.deals.FindCurrent(ctx)
	if err != nil {
		return nil, err
	}
	if d == nil {
		d = &domain.Deal{}
	}

	if in.Image != "" {
		url, err := s.UploadImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		d.ImageURL = url
	}

	if d.ID != 0 {
		if _, err := s.RemoveFromProducts(ctx, d.ID); err != nil {
			return nil, err
		}
	}

	d.Title = strings.TrimSpace(in.Title)
	d.Description = strings.TrimSpace(in.Description)
	d.Discount = *in.Discount
	d.EndDate = *in.EndDate
	d.Categories = normalizeCategories(in.Categories)
	d.IsActive = true
	if in.IsActive != nil {
		d.IsActive = *in.IsActive
	}

	if err := s.deals.Save(ctx, d); err != nil {
		return nil, err
	}
	s.logger.Info("deal saved",
		zap.Uint64("deal_id", d.ID),
		zap.Int("discount", d.Discount),
		zap.Strings("categories", d.Categories),
		zap.Bool("active", d.IsActive),
	)

	if err := s.countApplicable(ctx, d); err != nil {
		return nil, err
	}
	if d.Applies() {
		if _, err := s.ApplyToProducts(ctx, d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func validateDealInput(in DealInput) error {
	var missing []string
	if strings.TrimSpace(in.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(in.Description) == "" {
		missing = append(missing, "description")
	}
	if in.Discount == nil {
		missing = append(missing, "discount")
	}
	if in.EndDate == nil || in.EndDate.IsZero() {
		missing = append(missing, "endDate")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", ErrInvalidInput, strings.Join(missing, ", "))
	}
	if *in.Discount < 0 || *in.Discount > 100 {
		return fmt.Errorf("%w: discount must be between 0 and 100", ErrInvalidInput)
	}
	return nil
}

func normalizeCategories(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, c := range in {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// ApplyToProducts discounts every product in the deal's categories not yet
// stamped with it, in one batch. Inactive or category-less deals are a no-op.
func (s *DealService) ApplyToProducts(ctx context.Context, d *domain.Deal) (int64, error) {
	if d == nil || !d.Applies() {
		return 0, nil
	}

	candidates, err := s.products.FindForDeal(ctx, d.Categories, d.ID)
	if err != nil {
		return 0, err
	}
	updates := planApply(d, candidates)
	if len(updates) == 0 {
		return 0, nil
	}

	n, err := s.products.ApplyPriceUpdates(ctx, updates)
	if err != nil {
		return 0, fmt.Errorf("apply deal %d: %w", d.ID, err)
	}
	s.logger.Info("deal applied to products", zap.Uint64("deal_id", d.ID), zap.String("title", d.Title), zap.Int64("products", n))
	return n, nil
}

// RemoveFromProducts restores the pre-discount price of every product
// stamped with dealID and clears the stamp. OldPrice is left in place.
func (s *DealService) RemoveFromProducts(ctx context.Context, dealID uint64) (int64, error) {
	stamped, err := s.products.FindByDeal(ctx, dealID)
	if err != nil {
		return 0, err
	}
	updates := planRemove(stamped)
	if len(updates) == 0 {
		return 0, nil
	}

	n, err := s.products.ApplyPriceUpdates(ctx, updates)
	if err != nil {
		return 0, fmt.Errorf("remove deal %d: %w", dealID, err)
	}
	s.logger.Info("deal removed from products", zap.Uint64("deal_id", dealID), zap.Int64("products", n))
	return n, nil
}

// planApply computes the batch for applying d. The first pre-discount
// snapshot is kept so a repeated application never compounds.
func planApply(d *domain.Deal, products []domain.Product) []domain.PriceUpdate {
	stamp := d.Stamp()
	factor := decimal.NewFromInt(int64(100 - d.Discount))

	updates := make([]domain.PriceUpdate, 0, len(products))
	for _, p := range products {
		if p.DealID != nil && *p.DealID == d.ID {
			continue
		}
		base, ok := p.BasePrice()
		if !ok {
			base = p.Price
		}
		updates = append(updates, domain.PriceUpdate{
			ProductID: p.ID,
			Price:     discounted(p.Price, factor),
			OldPrice:  decimal.NewNullDecimal(base),
			Deal:      stamp,
		})
	}
	return updates
}

func planRemove(products []domain.Product) []domain.PriceUpdate {
	updates := make([]domain.PriceUpdate, 0, len(products))
	for _, p := range products {
		price, ok := p.BasePrice()
		if !ok {
			price = p.Price
		}
		updates = append(updates, domain.PriceUpdate{
			ProductID: p.ID,
			Price:     price,
		})
	}
	return updates
}

// discounted rounds once to a whole currency unit, half away from zero.
func discounted(price, factor decimal.Decimal) decimal.Decimal {
	return price.Mul(factor).Div(hundred).Round(0)
}

// ExpirySweep retires every active deal past its end date and returns how
// many were retired. Deals whose discounts could not be removed stay active
// so the next sweep retries them.
func (s *DealService) ExpirySweep(ctx context.Context) (int, error) {
	expired, err := s.deals.FindExpiredActive(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}

	retired := 0
	for i := range expired {
		if err := s.retire(ctx, &expired[i]); err != nil {
			s.logger.Error("expired deal cleanup failed", zap.Uint64("deal_id", expired[i].ID), zap.Error(err))
			continue
		}
		retired++
	}
	if retired > 0 {
		s.logger.Info("expired deals retired", zap.Int("count", retired))
	}
	return retired, nil
}

func (s *DealService) retire(ctx context.Context, d *domain.Deal) error {
	if _, err := s.RemoveFromProducts(ctx, d.ID); err != nil {
		return err
	}
	if err := s.deals.Deactivate(ctx, d.ID); err != nil {
		return err
	}
	d.IsActive = false
	s.logger.Info("deal expired", zap.Uint64("deal_id", d.ID), zap.Time("end_date", d.EndDate))
	return nil
}

// ApplyCurrent reapplies the active deal on demand.
func (s *DealService) ApplyCurrent(ctx context.Context) (ApplyResult, error) {
	d, err := s.deals.FindActive(ctx)
	if err != nil {
		return ApplyResult{}, err
	}
	if d == nil {
		return ApplyResult{}, fmt.Errorf("%w: no active deal", ErrDealNotFound)
	}

	n, err := s.ApplyToProducts(ctx, d)
	if err != nil {
		return ApplyResult{}, err
	}
	if err := s.countApplicable(ctx, d); err != nil {
		return ApplyResult{}, err
	}
	return ApplyResult{
		Updated:            n,
		ApplicableProducts: d.ApplicableProducts,
		DealTitle:          d.Title,
		Categories:         d.Categories,
	}, nil
}

// RemoveCurrent strips the singleton deal's discounts whatever its state.
func (s *DealService) RemoveCurrent(ctx context.Context) (*domain.Deal, int64, error) {
	d, err := s.deals.FindCurrent(ctx)
	if err != nil {
		return nil, 0, err
	}
	if d == nil {
		return nil, 0, fmt.Errorf("%w: no deal", ErrDealNotFound)
	}
	n, err := s.RemoveFromProducts(ctx, d.ID)
	if err != nil {
		return nil, 0, err
	}
	return d, n, nil
}

func (s *DealService) Categories(ctx context.Context) ([]string, error) {
	var cached []string
	hit, err := s.cache.Get(ctx, categoriesKey, &cached)
	if err != nil {
		s.logger.Warn("category cache read failed", zap.Error(err))
	}
	if hit {
		return cached, nil
	}

	categories, err := s.products.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, categoriesKey, categories, categoriesTTL); err != nil {
		s.logger.Warn("category cache write failed", zap.Error(err))
	}
	return categories, nil
}

func (s *DealService) UploadImage(ctx context.Context, image string) (string, error) {
	if strings.TrimSpace(image) == "" {
		return "", fmt.Errorf("%w: no image provided", ErrInvalidInput)
	}
	if s.uploader == nil {
		return "", fmt.Errorf("image upload is not configured")
	}
	url, err := s.uploader.UploadBase64(ctx, image)
	if err != nil {
		return "", fmt.Errorf("upload deal image: %w", err)
	}
	return url, nil
}

func (s *DealService) countApplicable(ctx context.Context, d *domain.Deal) error {
	n, err := s.products.CountByCategories(ctx, d.Categories)
	if err != nil {
		return err
	}
	d.ApplicableProducts = n
	return nil
}
