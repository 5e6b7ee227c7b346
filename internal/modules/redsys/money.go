package redsys

import "fmt"

// Money: minor unit (cent) + ISO para birimi. Gateway'e her zaman string gider,
// uygulama içinde integer kalır.
type Money struct {
	Cents    int64
	Currency string
}

func (m Money) IsPositive() bool { return m.Cents > 0 }

// String sadece log/tool çıktısı için; wire format Builder'da.
func (m Money) String() string {
	major := float64(m.Cents) / 100.0
	switch m.Currency {
	case "EUR":
		return fmt.Sprintf("€%.2f", major)
	case "USD":
		return fmt.Sprintf("$%.2f", major)
	case "GBP":
		return fmt.Sprintf("£%.2f", major)
	default:
		return fmt.Sprintf("%.2f %s", major, m.Currency)
	}
}
