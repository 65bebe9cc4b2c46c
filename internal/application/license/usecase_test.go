package license_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comptavision/comptavision-api/internal/application/dto"
	"github.com/comptavision/comptavision-api/internal/application/license"
	"github.com/comptavision/comptavision-api/internal/domain"
	"github.com/comptavision/comptavision-api/internal/domain/entity"
	"github.com/comptavision/comptavision-api/internal/domain/licensing"
	"github.com/comptavision/comptavision-api/internal/testutil"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var t0 = time.Date(2025, time.August, 1, 9, 0, 0, 0, time.UTC)

// clock reloj manipulable desde el test.
type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

type fixture struct {
	store  *testutil.Store
	clock  *clock
	uc     *license.LicenseUseCase
	tenant *entity.Tenant
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore()
	c := &clock{now: t0}
	tenant := &entity.Tenant{
		ID:        uuid.New().String(),
		Slug:      "cabinet-demo",
		Name:      "Cabinet Démo",
		Country:   "CM",
		Currency:  "XAF",
		Plan:      entity.PlanStarter,
		Status:    entity.TenantStatusSuspended,
		CreatedAt: t0,
		UpdatedAt: t0,
	}
	store.PutTenant(tenant)
	uc := license.NewLicenseUseCase(store, store.Licenses(), store.Tenants(), nil,
		license.Defaults{TermDays: 365, Seats: 5, Plan: entity.PlanStarter}, zerolog.Nop()).
		WithClock(c.Now)
	return &fixture{store: store, clock: c, uc: uc, tenant: tenant}
}

func (f *fixture) create(t *testing.T, plan string, termDays int) *dto.LicenseResponse {
	t.Helper()
	out, err := f.uc.Create(context.Background(), dto.CreateLicenseRequest{Plan: plan, TermDays: &termDays})
	require.NoError(t, err)
	return out
}

func (f *fixture) activate(key, slug string) (*dto.ActivateLicenseResponse, error) {
	return f.uc.Activate(context.Background(), dto.ActivateLicenseRequest{LicenseKey: key, TenantSlug: slug})
}

// ──────────────────────────────────────────────────────────────────────────────
// Create / List / Get
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_ValoresPorDefecto(t *testing.T) {
	f := newFixture(t)

	out, err := f.uc.Create(context.Background(), dto.CreateLicenseRequest{})
	require.NoError(t, err)

	assert.Equal(t, entity.LicenseStatusPending, out.Status)
	assert.Equal(t, entity.PlanStarter, out.Plan)
	assert.Equal(t, 5, out.Seats)
	assert.Equal(t, t0, out.IssuedAt)
	assert.Equal(t, t0.AddDate(0, 0, 365), out.ExpiresAt)
	assert.Nil(t, out.TenantID)
	assert.Nil(t, out.ActivatedAt)
	assert.True(t, licensing.IsWellFormedKey(out.LicenseKey))
}

func TestCreate_ValoresExplicitos(t *testing.T) {
	f := newFixture(t)
	seats, term := 12, 30
	note := "piloto"

	out, err := f.uc.Create(context.Background(), dto.CreateLicenseRequest{
		Plan: "professional", Seats: &seats, TermDays: &term, Note: &note,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PlanProfessional, out.Plan)
	assert.Equal(t, 12, out.Seats)
	assert.Equal(t, t0.AddDate(0, 0, 30), out.ExpiresAt)
	require.NotNil(t, out.Note)
	assert.Equal(t, "piloto", *out.Note)
}

func TestCreate_SeatsInvalidos(t *testing.T) {
	f := newFixture(t)
	zero := 0
	_, err := f.uc.Create(context.Background(), dto.CreateLicenseRequest{Seats: &zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_FueraDeRango_NoPersiste(t *testing.T) {
	f := newFixture(t)
	seats := licensing.MaxSeats + 1
	_, err := f.uc.Create(context.Background(), dto.CreateLicenseRequest{Seats: &seats})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrPersistence)

	days := licensing.MaxTermDays + 1
	_, err = f.uc.Create(context.Background(), dto.CreateLicenseRequest{TermDays: &days})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := f.uc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, list.Total)

	maxSeats, maxDays := licensing.MaxSeats, licensing.MaxTermDays
	out, err := f.uc.Create(context.Background(), dto.CreateLicenseRequest{Seats: &maxSeats, TermDays: &maxDays})
	require.NoError(t, err)
	assert.Equal(t, licensing.MaxSeats, out.Seats)
}

func TestListYGet(t *testing.T) {
	f := newFixture(t)
	first := f.create(t, "", 30)
	f.clock.now = t0.Add(time.Hour)
	second := f.create(t, "", 30)

	list, err := f.uc.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, list.Total)
	assert.Equal(t, second.ID, list.Items[0].ID, "más reciente primero")
	assert.Equal(t, first.ID, list.Items[1].ID)

	got, err := f.uc.Get(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.LicenseKey, got.LicenseKey)

	_, err = f.uc.Get(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrLicenseNotFound)

	_, err = f.uc.Get(context.Background(), "no-es-uuid")
	assert.ErrorIs(t, err, domain.ErrLicenseNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Activate
// ──────────────────────────────────────────────────────────────────────────────

func TestActivate_PendingEleveTenant(t *testing.T) {
	f := newFixture(t)
	lic := f.create(t, entity.PlanProfessional, 30)
	f.clock.now = t0.AddDate(0, 0, 1)

	out, err := f.activate(lic.LicenseKey, "cabinet-demo")
	require.NoError(t, err)

	assert.Equal(t, entity.LicenseStatusActive, out.License.Status)
	require.NotNil(t, out.License.TenantID)
	assert.Equal(t, f.tenant.ID, *out.License.TenantID)
	require.NotNil(t, out.License.ActivatedAt)
	assert.Equal(t, t0.AddDate(0, 0, 1), *out.License.ActivatedAt)

	tn := f.store.Tenant(f.tenant.ID)
	assert.Equal(t, entity.TenantStatusActive, tn.Status)
	assert.Equal(t, entity.PlanProfessional, tn.Plan)
}

func TestActivate_Idempotente(t *testing.T) {
	f := newFixture(t)
	lic := f.create(t, "", 30)

	first, err := f.activate(lic.LicenseKey, "cabinet-demo")
	require.NoError(t, err)
	f.clock.now = t0.Add(2 * time.Hour)
	second, err := f.activate(lic.LicenseKey, "cabinet-demo")
	require.NoError(t, err)

	assert.Equal(t, first.License.Status, second.License.Status)
	assert.Equal(t, *first.License.TenantID, *second.License.TenantID)
	assert.Equal(t, *first.License.ActivatedAt, *second.License.ActivatedAt)
}

func TestActivate_ClaveNormalizada(t *testing.T) {
	f := newFixture(t)
	lic := f.create(t, "", 30)

	_, err := f.activate("  "+strings.ToLower(lic.LicenseKey)+" ", "Cabinet-Demo")
	assert.NoError(t, err)
}

func TestActivate_VencidaPasaAExpired(t *testing.T) {
	f := newFixture(t)
	lic := f.create(t, "", 30)
	f.clock.now = t0.AddDate(0, 0, 31)

	_, err := f.activate(lic.LicenseKey, "cabinet-demo")
	assert.ErrorIs(t, err, domain.ErrLicenseExpired)

	stored := f.store.License(lic.ID)
	assert.Equal(t, entity.LicenseStatusExpired, stored.Status)
	assert.Equal(t, lic.ExpiresAt, stored.ExpiresAt)
	assert.Nil(t, stored.TenantID)

	// Segundo intento: mismo error, sin más cambios.
	f.clock.now = t0.AddDate(0, 0, 40)
	_, err = f.activate(lic.LicenseKey, "cabinet-demo")
	assert.ErrorIs(t, err, domain.ErrLicenseExpired)
	again := f.store.License(lic.ID)
	assert.Equal(t, stored.UpdatedAt, again.UpdatedAt)
	assert.Equal(t, lic.ExpiresAt, again.ExpiresAt)

	assert.Equal(t, entity.TenantStatusSuspended, f.store.Tenant(f.tenant.ID).Status)
}

func TestActivate_EjemploExtremoAExtremo(t *testing.T) {
	f := newFixture(t)
	expiring := f.create(t, "", 30)
	fresh := f.create(t, "", 30)

	f.clock.now = t0.AddDate(0, 0, 31)
	_, err := f.activate(expiring.LicenseKey, "cabinet-demo")
	require.ErrorIs(t, err, domain.ErrLicenseExpired)
	assert.Equal(t, entity.LicenseStatusExpired, f.store.License(expiring.ID).Status)

	f.clock.now = t0.AddDate(0, 0, 1)
	out, err := f.activate(fresh.LicenseKey, "cabinet-demo")
	require.NoError(t, err)
	assert.Equal(t, entity.LicenseStatusActive, out.License.Status)
	assert.Equal(t, entity.TenantStatusActive, f.store.Tenant(f.tenant.ID).Status)
}

func TestActivate_FalloAlMarcarExpired_NoSeSilencia(t *testing.T) {
	f := newFixture(t)
	lic := f.create(t, "", 30)
	f.clock.now = t0.AddDate(0, 0, 31)
	f.store.Faults.LicenseUpdate = errors.New("disco lleno")

	_, err := f.activate(lic.LicenseKey, "cabinet-demo")
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, entity.LicenseStatusPending, f.store.License(lic.ID).Status)
}

func TestActivate_Revocada(t *testing.T) {
	f := newFixture(t)
	lic := f.create(t, "", 30)
	_, err := f.uc.Revoke(context.Background(), lic.ID)
	require.NoError(t, err)

	_, err = f.activate(lic.LicenseKey, "cabinet-demo")
	assert.ErrorIs(t, err, domain.ErrLicenseRevoked)

	// También después de vencer.
	f.clock.now = t0.AddDate(1, 0, 0)
	_, err = f.activate(lic.LicenseKey, "cabinet-demo")
	assert.ErrorIs(t, err, domain.ErrLicenseRevoked)
	assert.Equal(t, entity.LicenseStatusRevoked, f.store.License(lic.ID).Status)
}

func TestActivate_NoEncontrada(t *testing.T) {
	f := newFixture(t)
	_, err := f.activate("CV-2025-ZZZZ-ZZZZ", "cabinet-demo")
	assert.ErrorIs(t, err, domain.ErrLicenseNotFound)
}

func TestActivate_TenantInexistente(t *testing.T) {
	f := newFixture(t)
	lic := f.create(t, "", 30)

	_, err := f.activate(lic.LicenseKey, "no-existe")
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)
	assert.Equal(t, entity.LicenseStatusPending, f.store.License(lic.ID).Status)
}

func TestActivate_CamposObligatorios(t *testing.T) {
	f := newFixture(t)
	_, err := f.activate("", "cabinet-demo")
	assert.ErrorIs(t, err, domain.ErrMissingFields)
	_, err = f.activate("CV-2025-AAAA-BBBB", " ")
	assert.ErrorIs(t, err, domain.ErrMissingFields)
}

func TestActivate_OtroTenant_Conflicto(t *testing.T) {
	f := newFixture(t)
	other := &entity.Tenant{
		ID: uuid.New().String(), Slug: "otro-cabinet", Name: "Otro", Country: "SN",
		Currency: "XOF", Plan: entity.PlanStarter, Status: entity.TenantStatusActive,
	}
	f.store.PutTenant(other)
	lic := f.create(t, entity.PlanEnterprise, 30)

	_, err := f.activate(lic.LicenseKey, "cabinet-demo")
	require.NoError(t, err)

	_, err = f.activate(lic.LicenseKey, "otro-cabinet")
	assert.ErrorIs(t, err, domain.ErrLicenseConflict)
	assert.Equal(t, f.tenant.ID, *f.store.License(lic.ID).TenantID)
	assert.Equal(t, entity.PlanStarter, f.store.Tenant(other.ID).Plan)
}

func TestActivate_FalloTenant_ErrorDeIntegridadYRollback(t *testing.T) {
	f := newFixture(t)
	lic := f.create(t, "", 30)
	f.store.Faults.TenantUpdate = errors.New("deadlock detected")

	_, err := f.activate(lic.LicenseKey, "cabinet-demo")
	assert.ErrorIs(t, err, domain.ErrIntegrity)

	stored := f.store.License(lic.ID)
	assert.Equal(t, entity.LicenseStatusPending, stored.Status)
	assert.Nil(t, stored.TenantID)
	assert.Nil(t, stored.ActivatedAt)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update / Revoke
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_SobrescribeCampos(t *testing.T) {
	f := newFixture(t)
	lic := f.create(t, "", 30)
	seats := 9
	plan := "enterprise"
	newExp := t0.AddDate(0, 6, 0)

	out, err := f.uc.Update(context.Background(), lic.ID, dto.UpdateLicenseRequest{
		Plan: &plan, Seats: &seats, ExpiresAt: &newExp,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PlanEnterprise, out.Plan)
	assert.Equal(t, 9, out.Seats)
	assert.Equal(t, newExp, out.ExpiresAt)
	assert.Equal(t, lic.LicenseKey, out.LicenseKey)
}

func TestUpdate_EstadoDesconocido(t *testing.T) {
	f := newFixture(t)
	lic := f.create(t, "", 30)
	bogus := "ARCHIVED"
	_, err := f.uc.Update(context.Background(), lic.ID, dto.UpdateLicenseRequest{Status: &bogus})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdate_RevocadaNoSeReabre(t *testing.T) {
	f := newFixture(t)
	lic := f.create(t, "", 30)
	_, err := f.uc.Revoke(context.Background(), lic.ID)
	require.NoError(t, err)

	active := entity.LicenseStatusActive
	_, err = f.uc.Update(context.Background(), lic.ID, dto.UpdateLicenseRequest{Status: &active})
	assert.ErrorIs(t, err, domain.ErrLicenseRevoked)
}

func TestRevoke_Idempotente(t *testing.T) {
	f := newFixture(t)
	lic := f.create(t, "", 30)

	first, err := f.uc.Revoke(context.Background(), lic.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LicenseStatusRevoked, first.Status)

	f.clock.now = t0.Add(time.Hour)
	second, err := f.uc.Revoke(context.Background(), lic.ID)
	require.NoError(t, err)
	assert.Equal(t, first.UpdatedAt, second.UpdatedAt)

	_, err = f.uc.Revoke(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrLicenseNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Certificate
// ──────────────────────────────────────────────────────────────────────────────

type fakeCertGen struct {
	license *entity.License
	tenant  *entity.Tenant
}

func (g *fakeCertGen) GenerateLicenseCertificate(_ context.Context, l *entity.License, t *entity.Tenant) ([]byte, error) {
	g.license, g.tenant = l, t
	return []byte("%PDF-1.3"), nil
}

func TestCertificate_IncluyeTenantVinculado(t *testing.T) {
	f := newFixture(t)
	gen := &fakeCertGen{}
	uc := license.NewLicenseUseCase(f.store, f.store.Licenses(), f.store.Tenants(), gen,
		license.Defaults{}, zerolog.Nop()).WithClock(f.clock.Now)

	lic, err := uc.Create(context.Background(), dto.CreateLicenseRequest{})
	require.NoError(t, err)
	_, err = uc.Activate(context.Background(), dto.ActivateLicenseRequest{LicenseKey: lic.LicenseKey, TenantSlug: "cabinet-demo"})
	require.NoError(t, err)

	pdf, name, err := uc.Certificate(context.Background(), lic.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.3"), pdf)
	assert.Equal(t, "licencia-"+lic.LicenseKey+".pdf", name)
	require.NotNil(t, gen.tenant)
	assert.Equal(t, f.tenant.ID, gen.tenant.ID)
}

func TestCertificate_SinGenerador(t *testing.T) {
	f := newFixture(t)
	lic := f.create(t, "", 30)
	_, _, err := f.uc.Certificate(context.Background(), lic.ID)
	assert.Error(t, err)
}
