package cart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"multibuy-autoadd/internal/discount"
	"multibuy-autoadd/internal/domain"
)

type Service struct {
	repo         cartRepo
	skuRepo      skuRepo
	discountRepo discountRepo
	engine       *discount.Engine
	logger       *log.Logger
}

type cartRepo interface {
	Create(ctx context.Context, currency string) (*domain.Cart, error)
	GetByID(ctx context.Context, id int64) (*domain.Cart, error)
	SaveItem(ctx context.Context, item *domain.CartItem) error
	DeleteItem(ctx context.Context, item *domain.CartItem) error
	UpdateTotals(ctx context.Context, cart *domain.Cart) error
}

type skuRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.SKU, error)
}

type discountRepo interface {
	ListEnabled(ctx context.Context) ([]domain.MultiBuyDiscount, error)
}

func New(repo cartRepo, skuRepo skuRepo, discountRepo discountRepo, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		repo:         repo,
		skuRepo:      skuRepo,
		discountRepo: discountRepo,
		engine:       discount.NewEngine(logger),
		logger:       logger,
	}
}

// Evaluation is a recalculated cart together with the discount outcome.
type Evaluation struct {
	Cart      *domain.Cart           `json:"cart"`
	Discounts []discount.Application `json:"discounts"`
}

func (s *Service) Create(ctx context.Context, currency string) (*domain.Cart, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return nil, fmt.Errorf("%w: currency required", domain.ErrInvalid)
	}
	return s.repo.Create(ctx, currency)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Cart, error) {
	return s.repo.GetByID(ctx, id)
}

// AddItem adds manually chosen units of a SKU and recalculates the cart.
func (s *Service) AddItem(ctx context.Context, cartID, skuID int64, units int) (*Evaluation, error) {
	if units <= 0 {
		return nil, fmt.Errorf("%w: units must be positive", domain.ErrInvalid)
	}
	sku, err := s.skuRepo.GetByID(ctx, skuID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: sku %d not found", domain.ErrInvalid, skuID)
		}
		return nil, err
	}
	if !sku.Enabled {
		return nil, fmt.Errorf("%w: sku %d is disabled", domain.ErrInvalid, skuID)
	}

	cart, err := s.repo.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if sku.Currency != "" && !strings.EqualFold(sku.Currency, cart.Currency) {
		return nil, fmt.Errorf("%w: sku currency %s does not match cart currency %s", domain.ErrInvalid, sku.Currency, cart.Currency)
	}

	item := cart.EnsureItem(*sku)
	manual := item.Units - item.AutoAddedUnits
	cart.SetItemUnits(item, manual+units, item.AutoAddedUnits)
	if err := s.saveWithBundle(ctx, cart, item); err != nil {
		return nil, err
	}
	s.logger.Printf("cart service: cart_id=%d sku_id=%d added=%d", cart.ID, skuID, units)
	return s.recalculate(ctx, cart)
}

// ChangeItemUnits sets the manually chosen units of a line. Auto-added
// units are kept; a line left without units is removed on recalculation.
func (s *Service) ChangeItemUnits(ctx context.Context, cartID, itemID int64, units int) (*Evaluation, error) {
	cart, err := s.repo.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	item := cart.ItemByID(itemID)
	if item == nil || item.IsBundleItem() {
		return nil, domain.ErrNotFound
	}
	cart.SetItemUnits(item, max(units, 0), item.AutoAddedUnits)
	if err := s.saveWithBundle(ctx, cart, item); err != nil {
		return nil, err
	}
	s.logger.Printf("cart service: cart_id=%d item_id=%d units=%d", cart.ID, itemID, units)
	return s.recalculate(ctx, cart)
}

func (s *Service) Recalculate(ctx context.Context, cartID int64) (*Evaluation, error) {
	cart, err := s.repo.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return s.recalculate(ctx, cart)
}

// recalculate runs one auto-add pass, commits its lines, then prices the
// resulting cart.
func (s *Service) recalculate(ctx context.Context, cart *domain.Cart) (*Evaluation, error) {
	discounts, err := s.discountRepo.ListEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("list discounts: %w", err)
	}

	skus := cartCurrencySKUs{skus: s.skuRepo, currency: cart.Currency}
	adder := discount.NewAutoAdder(cart.Items, skus, s.repo, s.logger)
	if _, err := s.engine.Evaluate(ctx, cart.Items, discounts, adder); err != nil {
		return nil, fmt.Errorf("auto add pass: %w", err)
	}
	if err := adder.UpdateAutoAddedItemsInShoppingCart(ctx, cart); err != nil {
		return nil, fmt.Errorf("commit auto added items: %w", err)
	}

	prices := discount.NewPriceApplicator()
	res, err := s.engine.Evaluate(ctx, cart.Items, discounts, prices)
	if err != nil {
		return nil, fmt.Errorf("pricing pass: %w", err)
	}

	cart.SubtotalCents = cart.Subtotal()
	cart.DiscountCents = min(prices.Total(), cart.SubtotalCents)
	cart.TotalCents = cart.SubtotalCents - cart.DiscountCents
	if err := s.repo.UpdateTotals(ctx, cart); err != nil {
		return nil, err
	}
	s.logger.Printf("cart service: cart_id=%d subtotal=%d discount=%d total=%d",
		cart.ID, cart.SubtotalCents, cart.DiscountCents, cart.TotalCents)

	applications := res.Applications
	if applications == nil {
		applications = []discount.Application{}
	}
	return &Evaluation{Cart: cart, Discounts: applications}, nil
}

func (s *Service) saveWithBundle(ctx context.Context, cart *domain.Cart, item *domain.CartItem) error {
	if err := s.repo.SaveItem(ctx, item); err != nil {
		return err
	}
	for _, child := range cart.BundleItems(item) {
		if err := s.repo.SaveItem(ctx, child); err != nil {
			return err
		}
	}
	return nil
}

// cartCurrencySKUs hides SKUs priced in another currency than the cart, so
// the auto adder treats them as unknown and moves on to the next candidate.
type cartCurrencySKUs struct {
	skus     skuRepo
	currency string
}

func (c cartCurrencySKUs) GetByID(ctx context.Context, id int64) (*domain.SKU, error) {
	sku, err := c.skus.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.currency != "" && sku.Currency != "" && !strings.EqualFold(sku.Currency, c.currency) {
		return nil, fmt.Errorf("%w: sku %d is priced in %s", domain.ErrNotFound, id, sku.Currency)
	}
	return sku, nil
}
