package discount

import (
	"cmp"
	"context"
	"io"
	"log"
	"slices"
	"time"

	"multibuy-autoadd/internal/domain"
)

// Application summarizes how one discount fared in a pass.
type Application struct {
	DiscountID   int64 `json:"discountId"`
	Applications int   `json:"applications"`
	Rewarded     int   `json:"rewarded"`
	Missed       int   `json:"missed"`
	MissAccepted bool  `json:"missAccepted"`
}

type Result struct {
	Applications []Application `json:"applications"`
}

// Engine evaluates multi-buy discounts against cart lines.
type Engine struct {
	logger *log.Logger
	now    func() time.Time
}

func NewEngine(logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Engine{logger: logger, now: time.Now}
}

// Evaluate resets every applicator, then walks the active discounts by
// priority. Rewarded units are reported through ApplyDiscount and consumed
// so later discounts cannot reward them again. Shortfalls are offered to the
// applicators in order until one accepts.
func (e *Engine) Evaluate(ctx context.Context, items []*domain.CartItem, discounts []domain.MultiBuyDiscount, applicators ...Applicator) (Result, error) {
	for _, a := range applicators {
		a.Reset()
	}

	now := e.now()
	active := make([]*domain.MultiBuyDiscount, 0, len(discounts))
	for i := range discounts {
		if discounts[i].ActiveAt(now) && discounts[i].MinUnits > 0 {
			active = append(active, &discounts[i])
		}
	}
	slices.SortStableFunc(active, func(a, b *domain.MultiBuyDiscount) int {
		return cmp.Or(cmp.Compare(a.Priority, b.Priority), cmp.Compare(a.ID, b.ID))
	})

	consumed := make(map[*domain.CartItem]int)
	var res Result
	for _, d := range active {
		app := Application{DiscountID: d.ID}

		qualifying := 0
		for _, item := range items {
			// Auto-added units are gifts and never qualify.
			if !item.IsBundleItem() && d.IsCondition(item.SKUID) {
				qualifying += item.Units - item.AutoAddedUnits
			}
		}
		app.Applications = qualifying / d.MinUnits
		if d.MaxApplications > 0 && app.Applications > d.MaxApplications {
			app.Applications = d.MaxApplications
		}
		if app.Applications == 0 {
			continue
		}

		for _, skuID := range d.RewardSKUIDs {
			if app.Rewarded == app.Applications {
				break
			}
			item := domain.FindItem(items, skuID)
			if item == nil {
				continue
			}
			free := item.Units - consumed[item]
			if free <= 0 {
				continue
			}
			units := min(free, app.Applications-app.Rewarded)
			consumed[item] += units
			app.Rewarded += units
			for _, a := range applicators {
				a.ApplyDiscount(d, item, units)
			}
		}

		app.Missed = app.Applications - app.Rewarded
		if app.Missed > 0 {
			for _, a := range applicators {
				ok, err := a.AcceptsMissedDiscount(ctx, d, app.Missed)
				if err != nil {
					return Result{}, err
				}
				if ok {
					app.MissAccepted = true
					break
				}
			}
		}
		e.logger.Printf("discount engine: discount_id=%d applications=%d rewarded=%d missed=%d accepted=%t",
			d.ID, app.Applications, app.Rewarded, app.Missed, app.MissAccepted)
		res.Applications = append(res.Applications, app)
	}
	return res, nil
}
