package dto

import (
	"github.com/shopspring/decimal"
)

// GetExchangeRateParams defines query parameters for a rate lookup.
// Date defaults to today when absent.
type GetExchangeRateParams struct {
	Currency string `form:"currency" binding:"required,uppercase,len=3"`
	Date     string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// ExchangeRateResponse defines the rate returned for a currency on a date,
// quoted as "1 unit of Currency = Rate KRW".
type ExchangeRateResponse struct {
	Currency string          `json:"currency"`
	Date     string          `json:"date"`
	Rate     decimal.Decimal `json:"rate"`
}

// CountryResponse defines one selectable destination country.
type CountryResponse struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
}
