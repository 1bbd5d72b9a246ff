package kernel

import "github.com/shopspring/decimal"

// moneyScale is the number of fractional digits kept for every amount (cents).
const moneyScale = 2

// RoundMoney rounds half away from zero to cents.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyScale)
}

// MoneyFromFloat converts configuration values such as 2.99 into a cent-rounded decimal.
func MoneyFromFloat(f float64) decimal.Decimal {
	return RoundMoney(decimal.NewFromFloat(f))
}
