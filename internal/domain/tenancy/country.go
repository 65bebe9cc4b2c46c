// Package tenancy reúne las reglas de alta de un cabinet: país, moneda y slug.
package tenancy

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/comptavision/comptavision-api/internal/domain"
)

// Moneda por país. Senegal opera en franco CFA de África Occidental;
// el resto de cabinets (Camerún por defecto) en franco CFA de África Central.
const (
	CurrencyXOF     = "XOF"
	CurrencyXAF     = "XAF"
	currencySenegal = "SN"
)

// CanonicalCountry valida un código de país ISO 3166 (alpha-2, alpha-3 o numérico)
// y lo devuelve en alpha-2 mayúsculas.
func CanonicalCountry(country string) (string, error) {
	region, err := language.ParseRegion(strings.ToUpper(strings.TrimSpace(country)))
	if err != nil || !region.IsCountry() {
		return "", domain.ErrInvalidInput
	}
	return region.String(), nil
}

// CurrencyFor devuelve la moneda del cabinet a partir del país canónico.
func CurrencyFor(country string) string {
	if country == currencySenegal {
		return CurrencyXOF
	}
	return CurrencyXAF
}
