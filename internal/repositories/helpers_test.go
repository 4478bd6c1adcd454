package repositories

import "github.com/shopspring/decimal"

func priced(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
