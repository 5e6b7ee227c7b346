package redsys

// ISO alfabetik kod -> gateway'in numeric kodu. Liste statik; gateway yeni
// para birimi kabul ederse buraya eklenir.
var currencyNumeric = map[string]string{
	"EUR": "978",
	"USD": "840",
	"GBP": "826",
	"CHF": "756",
	"JPY": "392",
	"SEK": "752",
	"NOK": "578",
	"DKK": "208",
	"PLN": "985",
	"TRY": "949",
}

// CurrencyCode returns the gateway numeric code for an ISO alphabetic code.
func CurrencyCode(iso string) (string, bool) {
	code, ok := currencyNumeric[iso]
	return code, ok
}
