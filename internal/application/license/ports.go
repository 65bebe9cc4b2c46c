package license

import (
	"context"

	"github.com/comptavision/comptavision-api/internal/domain/entity"
	"github.com/comptavision/comptavision-api/internal/domain/repository"
)

// TxRunner ejecuta la activación dentro de una transacción: la licencia (bloqueada)
// y el tenant se actualizan juntos o ninguno.
type TxRunner interface {
	RunActivation(ctx context.Context, fn func(
		licenseRepo repository.LicenseRepository,
		tenantRepo repository.TenantRepository,
	) error) error
}

// CertificateGenerator genera el certificado PDF de una licencia. tenant es nil si no está vinculada.
type CertificateGenerator interface {
	GenerateLicenseCertificate(ctx context.Context, license *entity.License, tenant *entity.Tenant) ([]byte, error)
}
