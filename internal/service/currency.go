package service

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/kalongo/booking-pricing/internal/storage"
)

// NormalizeCurrency upper-cases code; an empty code means TZS.
func NormalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return storage.BaseCurrency
	}
	return code
}

// LookupCurrency returns display info for code. Unknown codes are shown with
// the code itself as symbol and two decimals.
func LookupCurrency(code string) CurrencyInfo {
	code = NormalizeCurrency(code)
	if info, ok := currencyInfo[code]; ok {
		return info
	}
	return CurrencyInfo{Code: code, Symbol: code, Name: code, Decimals: 2, SpaceAfterSymbol: true}
}

// ConvertFromBase converts a TZS amount to currency. TZS is returned as is;
// otherwise the live table is used when it has the currency and the static
// table, which is quoted the other way round, when it does not.
func ConvertFromBase(amountTZS int64, currency string, rates storage.RateTable) Conversion {
	code := NormalizeCurrency(currency)
	amount := decimal.NewFromInt(amountTZS)

	if code == storage.BaseCurrency {
		return Conversion{Currency: code, Amount: amount, Rate: 1, Source: RateSourceIdentity}
	}

	if rates.Base == "" || strings.EqualFold(rates.Base, storage.BaseCurrency) {
		if rate, ok := rates.GetRate(code); ok {
			return Conversion{
				Currency: code,
				Amount:   amount.Mul(decimal.NewFromFloat(rate)),
				Rate:     rate,
				Source:   RateSourceLive,
			}
		}
	}

	tzsPerUnit := fallbackTZSPerUnit(code)
	return Conversion{
		Currency: code,
		Amount:   amount.Div(decimal.NewFromInt(tzsPerUnit)),
		Rate:     1 / float64(tzsPerUnit),
		Source:   RateSourceFallback,
	}
}

func fallbackTZSPerUnit(code string) int64 {
	if v, ok := fallbackRates[code]; ok && v > 0 {
		return v
	}
	return defaultFallbackRate
}

// FormatAmount renders amount for display: rounded to the currency's decimals,
// grouped in thousands, with its symbol in front.
func FormatAmount(amount decimal.Decimal, currency string) string {
	info := LookupCurrency(currency)
	rounded := amount.Round(int32(info.Decimals))

	p := message.NewPrinter(language.English)
	formatted := p.Sprint(number.Decimal(rounded.InexactFloat64(), number.Scale(info.Decimals)))

	if info.SpaceAfterSymbol {
		return info.Symbol + " " + formatted
	}
	return info.Symbol + formatted
}

// FormatBase formats a TZS amount.
func FormatBase(amountTZS int64) string {
	return FormatAmount(decimal.NewFromInt(amountTZS), storage.BaseCurrency)
}
