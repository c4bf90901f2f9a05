package services

// Currency - поддерживаемая валюта
type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
}

var supportedCurrencies = []Currency{
	{Code: "USD", Symbol: "$"},
	{Code: "EUR", Symbol: "€"},
	{Code: "GBP", Symbol: "£"},
	{Code: "JPY", Symbol: "¥"},
	{Code: "CAD", Symbol: "C$"},
	{Code: "AUD", Symbol: "A$"},
	{Code: "CHF", Symbol: "CHF"},
	{Code: "CNY", Symbol: "¥"},
	{Code: "INR", Symbol: "₹"},
	{Code: "BRL", Symbol: "R$"},
}

func SupportedCurrencies() []Currency {
	out := make([]Currency, len(supportedCurrencies))
	copy(out, supportedCurrencies)
	return out
}

func IsSupportedCurrency(code string) bool {
	for _, currency := range supportedCurrencies {
		if currency.Code == code {
			return true
		}
	}
	return false
}
