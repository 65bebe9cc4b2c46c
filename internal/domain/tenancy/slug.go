package tenancy

import (
	"github.com/gosimple/slug"

	"github.com/comptavision/comptavision-api/internal/domain"
)

const maxSlugLen = 63

// NormalizeSlug pasa el slug a minúsculas ASCII separadas por guiones
// ("Cabinet Démo" → "cabinet-demo"). La unicidad se comprueba sobre el valor normalizado.
func NormalizeSlug(raw string) (string, error) {
	s := slug.Make(raw)
	if s == "" || len(s) > maxSlugLen || !slug.IsSlug(s) {
		return "", domain.ErrInvalidInput
	}
	return s, nil
}
