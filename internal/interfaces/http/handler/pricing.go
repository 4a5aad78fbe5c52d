package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	pricingapp "github.com/safespace/backend/internal/application/pricing"
	"github.com/safespace/backend/internal/domain/pricing"
	"github.com/safespace/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// PricingService quotes packages
type PricingService interface {
	Check(ctx context.Context, input pricingapp.CheckInput) (*pricing.PriceQuote, error)
	Packages() []pricingapp.PackageInfo
}

// PriceCheckRequest is the price check body
type PriceCheckRequest struct {
	Sessions          string `json:"sessions"`
	PromoCode         string `json:"promoCode"`
	PreferredCurrency string `json:"preferredCurrency"`
}

// PriceInfo is a rounded quote
type PriceInfo struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Symbol    string  `json:"symbol"`
	GHSAmount float64 `json:"ghsAmount"`
}

// PriceCheckResponse is the price check success body
type PriceCheckResponse struct {
	Success      bool      `json:"success"`
	PriceInfo    PriceInfo `json:"priceInfo"`
	PromoApplied bool      `json:"promoApplied"`
}

// PriceCheckError is the price check failure body
type PriceCheckError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// PackageResponse describes a package
type PackageResponse struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Sessions  int     `json:"sessions"`
	GHSAmount float64 `json:"ghsAmount"`
}

const (
	msgUnsupportedPackage = "Invalid session package"
	msgPriceFailed        = "Failed to calculate price"
)

// PricingHandler serves price checks. Its bodies are flat rather than the
// dto envelope because the booking page consumes them directly.
type PricingHandler struct {
	BaseHandler
	service PricingService
}

// NewPricingHandler creates a pricing handler
func NewPricingHandler(service PricingService) *PricingHandler {
	return &PricingHandler{service: service}
}

// Check handles POST /pricing/check
func (h *PricingHandler) Check(c *gin.Context) {
	log := logger.GetGinLogger(c)
	defer func() {
		if r := recover(); r != nil {
			log.Error("Price calculation panicked", zap.Any("panic", r))
			c.AbortWithStatusJSON(http.StatusInternalServerError, PriceCheckError{Error: msgPriceFailed})
		}
	}()

	var req PriceCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, PriceCheckError{Error: "Invalid request body"})
		return
	}

	quote, err := h.service.Check(c.Request.Context(), pricingapp.CheckInput{
		PackageID:         req.Sessions,
		PromoCode:         req.PromoCode,
		PreferredCurrency: req.PreferredCurrency,
		Headers:           c.Request.Header,
	})
	if err != nil {
		if errors.Is(err, pricing.ErrUnsupportedPackage) {
			c.JSON(http.StatusBadRequest, PriceCheckError{Error: msgUnsupportedPackage})
			return
		}
		log.Error("Price calculation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, PriceCheckError{Error: msgPriceFailed})
		return
	}

	c.JSON(http.StatusOK, PriceCheckResponse{
		Success:      true,
		PriceInfo:    priceInfoFrom(quote),
		PromoApplied: quote.PromoApplied,
	})
}

// Packages handles GET /pricing/packages
func (h *PricingHandler) Packages(c *gin.Context) {
	pkgs := h.service.Packages()
	out := make([]PackageResponse, len(pkgs))
	for i, p := range pkgs {
		out[i] = PackageResponse{ID: p.ID, Label: p.Label, Sessions: p.Sessions, GHSAmount: p.GHSAmount}
	}
	h.Success(c, out)
}

func priceInfoFrom(q *pricing.PriceQuote) PriceInfo {
	return PriceInfo{
		Amount:    q.Amount.Float64(),
		Currency:  string(q.Currency()),
		Symbol:    q.Symbol,
		GHSAmount: q.GHSAmount.Float64(),
	}
}
