package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comptavision/comptavision-api/internal/domain/entity"
	"github.com/comptavision/comptavision-api/internal/domain/repository"
	"github.com/comptavision/comptavision-api/internal/testutil"
)

func demoTenant(store *testutil.Store) *entity.Tenant {
	now := time.Now()
	t := &entity.Tenant{
		ID: uuid.New().String(), Slug: demoSlug, Name: "Cabinet Démo", Country: "CM", Currency: "XAF",
		Plan: entity.PlanStarter, Status: entity.TenantStatusActive, CreatedAt: now, UpdatedAt: now,
	}
	store.PutTenant(t)
	return t
}

func clientsOf(t *testing.T, store *testutil.Store, tenantID string) []*entity.Client {
	t.Helper()
	var out []*entity.Client
	err := store.RunInTenant(context.Background(), tenantID, func(repos repository.TenantScopedRepos) error {
		var err error
		out, err = repos.Clients.ListByTenant(context.Background(), tenantID)
		return err
	})
	require.NoError(t, err)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// ensureDemoClient
// ──────────────────────────────────────────────────────────────────────────────

func TestEnsureDemoClient_CreaUnaSolaVez(t *testing.T) {
	store := testutil.NewStore()
	tenant := demoTenant(store)
	ctx := context.Background()

	created, err := ensureDemoClient(ctx, store, tenant.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, created)

	created, err = ensureDemoClient(ctx, store, tenant.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, created)

	clients := clientsOf(t, store, tenant.ID)
	require.Len(t, clients, 1)
	assert.Equal(t, "Client Démo", clients[0].Name)
	assert.Equal(t, tenant.ID, clients[0].TenantID)
	assert.Equal(t, []string{tenant.ID, tenant.ID, tenant.ID}, store.TenantBindings)
}

func TestEnsureDemoClient_ReintentoTrasFallo(t *testing.T) {
	store := testutil.NewStore()
	tenant := demoTenant(store)
	ctx := context.Background()

	store.Faults.ClientCreate = errors.New("insert falló")
	created, err := ensureDemoClient(ctx, store, tenant.ID, time.Now())
	require.Error(t, err)
	assert.False(t, created)
	assert.Empty(t, clientsOf(t, store, tenant.ID))

	// El cabinet ya existe; una nueva ejecución completa el cliente que faltaba.
	store.Faults.ClientCreate = nil
	created, err = ensureDemoClient(ctx, store, tenant.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, created)
	assert.Len(t, clientsOf(t, store, tenant.ID), 1)
}

func TestEnsureDemoClient_SinTenant(t *testing.T) {
	_, err := ensureDemoClient(context.Background(), testutil.NewStore(), "", time.Now())
	assert.Error(t, err)
}
