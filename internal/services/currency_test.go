package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSupportedCurrency(t *testing.T) {
	for _, code := range []string{"USD", "EUR", "GBP", "JPY", "CAD", "AUD", "CHF", "CNY", "INR", "BRL"} {
		assert.True(t, IsSupportedCurrency(code), code)
	}
	assert.False(t, IsSupportedCurrency("usd"), "codes are case-sensitive")
	assert.False(t, IsSupportedCurrency("RUB"))
	assert.False(t, IsSupportedCurrency(""))
}

func TestSupportedCurrenciesIsCopy(t *testing.T) {
	list := SupportedCurrencies()
	assert.Len(t, list, 10)

	list[0].Code = "XXX"
	fresh := SupportedCurrencies()
	assert.NotEqual(t, "XXX", fresh[0].Code)
}
