package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comptavision/comptavision-api/internal/domain/entity"
	"github.com/comptavision/comptavision-api/internal/domain/licensing"
	"github.com/comptavision/comptavision-api/internal/infrastructure/pdf"
)

func TestGenerateLicenseCertificate_SinTenant(t *testing.T) {
	now := time.Date(2025, time.August, 1, 9, 0, 0, 0, time.UTC)
	l := licensing.NewPending("lic-1", "CV-2025-AB12-CD34", entity.PlanStarter, 5, 365, nil, now)

	out, err := pdf.NewCertificateGenerator("").GenerateLicenseCertificate(context.Background(), l, nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateLicenseCertificate_ConTenant(t *testing.T) {
	now := time.Date(2025, time.August, 1, 9, 0, 0, 0, time.UTC)
	l := licensing.NewPending("lic-1", "CV-2025-AB12-CD34", entity.PlanProfessional, 10, 30, nil, now)
	tenant := &entity.Tenant{ID: "t-1", Slug: "cabinet-demo", Name: "Cabinet Démo", Country: "CM", Currency: "XAF"}
	require.NoError(t, licensing.Activate(l, tenant.ID, now))

	out, err := pdf.NewCertificateGenerator("ComptaVision").GenerateLicenseCertificate(context.Background(), l, tenant)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
