package httpserver

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"multibuy-autoadd/internal/domain"
)

type handlers struct {
	deps   Deps
	logger *log.Logger
}

type createCartRequest struct {
	Currency string `json:"currency" binding:"required"`
}

type addItemRequest struct {
	SKUID int64 `json:"skuId" binding:"required"`
	Units int   `json:"units" binding:"required"`
}

type changeItemRequest struct {
	Units *int `json:"units" binding:"required"`
}

type createDiscountRequest struct {
	Name            string     `json:"name" binding:"required"`
	Enabled         *bool      `json:"enabled"`
	AutoAdd         bool       `json:"autoAdd"`
	Priority        int        `json:"priority"`
	MinUnits        int        `json:"minUnits"`
	MaxApplications int        `json:"maxApplications"`
	RewardPercent   *int       `json:"rewardPercent"`
	ConditionSKUIDs []int64    `json:"conditionSkuIds"`
	RewardSKUIDs    []int64    `json:"rewardSkuIds"`
	ValidFrom       *time.Time `json:"validFrom"`
	ValidTo         *time.Time `json:"validTo"`
}

type listResponse[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}

func newList[T any](items []T) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Count: len(items), Results: items}
}

func (h *handlers) listSKUs(c *gin.Context) {
	skus, err := h.deps.SKUSvc.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newList(skus))
}

func (h *handlers) getSKU(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	sku, err := h.deps.SKUSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sku)
}

func (h *handlers) listDiscounts(c *gin.Context) {
	discounts, err := h.deps.DiscountSvc.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newList(discounts))
}

func (h *handlers) getDiscount(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	d, err := h.deps.DiscountSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *handlers) createDiscount(c *gin.Context) {
	var req createDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	d := domain.MultiBuyDiscount{
		Name:            req.Name,
		Enabled:         true,
		AutoAdd:         req.AutoAdd,
		Priority:        req.Priority,
		MinUnits:        req.MinUnits,
		MaxApplications: req.MaxApplications,
		Percent:         100,
		ConditionSKUIDs: req.ConditionSKUIDs,
		RewardSKUIDs:    req.RewardSKUIDs,
		ValidFrom:       req.ValidFrom,
		ValidTo:         req.ValidTo,
	}
	if req.Enabled != nil {
		d.Enabled = *req.Enabled
	}
	if req.RewardPercent != nil {
		d.Percent = *req.RewardPercent
	}
	created, err := h.deps.DiscountSvc.Create(c.Request.Context(), d)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) createCart(c *gin.Context) {
	var req createCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "currency required"})
		return
	}
	cart, err := h.deps.CartSvc.Create(c.Request.Context(), req.Currency)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cart)
}

func (h *handlers) getCart(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	cart, err := h.deps.CartSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handlers) addCartItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "skuId and units required"})
		return
	}
	res, err := h.deps.CartSvc.AddItem(c.Request.Context(), id, req.SKUID, req.Units)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handlers) changeCartItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}
	var req changeItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "units required"})
		return
	}
	res, err := h.deps.CartSvc.ChangeItemUnits(c.Request.Context(), id, itemID, *req.Units)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handlers) recalculateCart(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	res, err := h.deps.CartSvc.Recalculate(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func (h *handlers) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Printf("http: %s %s request_id=%s error=%v", c.Request.Method, c.FullPath(), c.GetString(requestIDKey), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
