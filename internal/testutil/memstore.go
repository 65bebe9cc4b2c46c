// Package testutil ofrece un Credential Store en memoria que implementa los puertos
// de repositorio y los TxRunner de la aplicación, con transacciones reales
// (todo o nada) e inyección de fallos. Solo para tests.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/comptavision/comptavision-api/internal/domain"
	"github.com/comptavision/comptavision-api/internal/domain/entity"
	"github.com/comptavision/comptavision-api/internal/domain/repository"
)

// Faults errores a devolver en operaciones concretas (nil = sin fallo).
type Faults struct {
	TenantUpdate   error
	LicenseUpdate  error
	UserCreate     error
	ClientCreate   error
	TouchLastLogin error
	Lookup         error
}

type state struct {
	tenants  map[string]entity.Tenant
	users    map[string]entity.User
	licenses map[string]entity.License
	clients  map[string]entity.Client
}

func newState() *state {
	return &state{
		tenants:  map[string]entity.Tenant{},
		users:    map[string]entity.User{},
		licenses: map[string]entity.License{},
		clients:  map[string]entity.Client{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.tenants {
		c.tenants[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.licenses {
		c.licenses[k] = v
	}
	for k, v := range s.clients {
		c.clients[k] = v
	}
	return c
}

// Store almacén en memoria seguro para uso concurrente. Las transacciones se serializan.
type Store struct {
	mu     sync.Mutex
	st     *state
	Faults Faults
	txMode bool

	// TenantBindings registra el tenant fijado en cada RunInTenant, en orden.
	TenantBindings []string
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Tenants repositorio de tenants fuera de transacción.
func (s *Store) Tenants() repository.TenantRepository { return &tenantRepo{s: s} }

// Users repositorio de usuarios fuera de transacción.
func (s *Store) Users() repository.UserRepository { return &userRepo{s: s} }

// Licenses repositorio de licencias fuera de transacción.
func (s *Store) Licenses() repository.LicenseRepository { return &licenseRepo{s: s} }

// Clients repositorio de clientes fuera de transacción.
func (s *Store) Clients() repository.ClientRepository { return &clientRepo{s: s} }

// RunRegistration implementa auth.TxRunner.
func (s *Store) RunRegistration(ctx context.Context, fn func(repository.TenantRepository, repository.UserRepository) error) error {
	return s.inTx(func(tx *Store) error {
		return fn(tx.Tenants(), tx.Users())
	})
}

// RunActivation implementa license.TxRunner.
func (s *Store) RunActivation(ctx context.Context, fn func(repository.LicenseRepository, repository.TenantRepository) error) error {
	return s.inTx(func(tx *Store) error {
		return fn(tx.Licenses(), tx.Tenants())
	})
}

// RunInTenant implementa repository.TenantTxRunner. Los clientes quedan filtrados por
// el tenant fijado, igual que haría la política RLS.
func (s *Store) RunInTenant(ctx context.Context, tenantID string, fn func(repository.TenantScopedRepos) error) error {
	if tenantID == "" {
		return domain.ErrTenantRequired
	}
	s.mu.Lock()
	s.TenantBindings = append(s.TenantBindings, tenantID)
	s.mu.Unlock()
	return s.inTx(func(tx *Store) error {
		return fn(repository.TenantScopedRepos{
			Tenants: tx.Tenants(),
			Users:   tx.Users(),
			Clients: &clientRepo{s: tx, rlsTenant: tenantID},
		})
	})
}

// inTx ejecuta fn sobre una copia del estado y la publica solo si fn no falla.
func (s *Store) inTx(fn func(tx *Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := &Store{st: s.st.clone(), Faults: s.Faults, txMode: true}
	if err := fn(tx); err != nil {
		return err
	}
	s.st = tx.st
	return nil
}

// ── Helpers de siembra y lectura directa ─────────────────────────────────────

// PutTenant inserta o reemplaza un tenant.
func (s *Store) PutTenant(t *entity.Tenant) {
	s.lock()
	defer s.unlock()
	s.st.tenants[t.ID] = *t
}

// PutUser inserta o reemplaza un usuario.
func (s *Store) PutUser(u *entity.User) {
	s.lock()
	defer s.unlock()
	s.st.users[u.ID] = *u
}

// PutLicense inserta o reemplaza una licencia.
func (s *Store) PutLicense(l *entity.License) {
	s.lock()
	defer s.unlock()
	s.st.licenses[l.ID] = *l
}

// Tenant lee un tenant (nil si no existe).
func (s *Store) Tenant(id string) *entity.Tenant {
	s.lock()
	defer s.unlock()
	if t, ok := s.st.tenants[id]; ok {
		return &t
	}
	return nil
}

// User lee un usuario (nil si no existe).
func (s *Store) User(id string) *entity.User {
	s.lock()
	defer s.unlock()
	if u, ok := s.st.users[id]; ok {
		return &u
	}
	return nil
}

// License lee una licencia (nil si no existe).
func (s *Store) License(id string) *entity.License {
	s.lock()
	defer s.unlock()
	if l, ok := s.st.licenses[id]; ok {
		return &l
	}
	return nil
}

// Counts devuelve el número de tenants y usuarios.
func (s *Store) Counts() (tenants, users int) {
	s.lock()
	defer s.unlock()
	return len(s.st.tenants), len(s.st.users)
}

// txMode indica que el Store es la vista de una transacción (el mutex ya está tomado).
func (s *Store) lock() {
	if !s.txMode {
		s.mu.Lock()
	}
}

func (s *Store) unlock() {
	if !s.txMode {
		s.mu.Unlock()
	}
}

// ── Tenants ──────────────────────────────────────────────────────────────────

type tenantRepo struct{ s *Store }

func (r *tenantRepo) Create(_ context.Context, t *entity.Tenant) error {
	r.s.lock()
	defer r.s.unlock()
	for _, existing := range r.s.st.tenants {
		if existing.Slug == t.Slug {
			return domain.ErrDuplicateSlug
		}
	}
	r.s.st.tenants[t.ID] = *t
	return nil
}

func (r *tenantRepo) GetByID(_ context.Context, id string) (*entity.Tenant, error) {
	r.s.lock()
	defer r.s.unlock()
	if r.s.Faults.Lookup != nil {
		return nil, r.s.Faults.Lookup
	}
	if t, ok := r.s.st.tenants[id]; ok {
		return &t, nil
	}
	return nil, nil
}

func (r *tenantRepo) GetBySlug(_ context.Context, slug string) (*entity.Tenant, error) {
	r.s.lock()
	defer r.s.unlock()
	if r.s.Faults.Lookup != nil {
		return nil, r.s.Faults.Lookup
	}
	for _, t := range r.s.st.tenants {
		if t.Slug == slug {
			t := t
			return &t, nil
		}
	}
	return nil, nil
}

func (r *tenantRepo) Update(_ context.Context, t *entity.Tenant) error {
	r.s.lock()
	defer r.s.unlock()
	if r.s.Faults.TenantUpdate != nil {
		return r.s.Faults.TenantUpdate
	}
	prev, ok := r.s.st.tenants[t.ID]
	if !ok {
		return domain.ErrNotFound
	}
	next := *t
	next.Slug = prev.Slug // inmutable
	r.s.st.tenants[t.ID] = next
	return nil
}

// ── Users ────────────────────────────────────────────────────────────────────

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.lock()
	defer r.s.unlock()
	if r.s.Faults.UserCreate != nil {
		return r.s.Faults.UserCreate
	}
	for _, existing := range r.s.st.users {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	if _, ok := r.s.st.tenants[u.TenantID]; !ok {
		return domain.ErrTenantNotFound
	}
	r.s.st.users[u.ID] = *u
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.lock()
	defer r.s.unlock()
	if r.s.Faults.Lookup != nil {
		return nil, r.s.Faults.Lookup
	}
	if u, ok := r.s.st.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.lock()
	defer r.s.unlock()
	if r.s.Faults.Lookup != nil {
		return nil, r.s.Faults.Lookup
	}
	for _, u := range r.s.st.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) Update(_ context.Context, u *entity.User) error {
	r.s.lock()
	defer r.s.unlock()
	if _, ok := r.s.st.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.users[u.ID] = *u
	return nil
}

func (r *userRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	r.s.lock()
	defer r.s.unlock()
	if r.s.Faults.TouchLastLogin != nil {
		return r.s.Faults.TouchLastLogin
	}
	u, ok := r.s.st.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.LastLoginAt = &at
	r.s.st.users[id] = u
	return nil
}

func (r *userRepo) ListByTenant(_ context.Context, tenantID string) ([]*entity.User, error) {
	r.s.lock()
	defer r.s.unlock()
	var list []*entity.User
	for _, u := range r.s.st.users {
		if u.TenantID == tenantID {
			u := u
			list = append(list, &u)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

// ── Licenses ─────────────────────────────────────────────────────────────────

type licenseRepo struct{ s *Store }

func (r *licenseRepo) Create(_ context.Context, l *entity.License) error {
	r.s.lock()
	defer r.s.unlock()
	for _, existing := range r.s.st.licenses {
		if existing.LicenseKey == l.LicenseKey {
			return domain.ErrDuplicate
		}
	}
	r.s.st.licenses[l.ID] = *l
	return nil
}

func (r *licenseRepo) GetByID(_ context.Context, id string) (*entity.License, error) {
	r.s.lock()
	defer r.s.unlock()
	if l, ok := r.s.st.licenses[id]; ok {
		return &l, nil
	}
	return nil, nil
}

func (r *licenseRepo) GetByKey(_ context.Context, key string) (*entity.License, error) {
	r.s.lock()
	defer r.s.unlock()
	for _, l := range r.s.st.licenses {
		if l.LicenseKey == key {
			l := l
			return &l, nil
		}
	}
	return nil, nil
}

func (r *licenseRepo) GetByKeyForUpdate(ctx context.Context, key string) (*entity.License, error) {
	return r.GetByKey(ctx, key)
}

func (r *licenseRepo) Update(_ context.Context, l *entity.License) error {
	r.s.lock()
	defer r.s.unlock()
	if r.s.Faults.LicenseUpdate != nil {
		return r.s.Faults.LicenseUpdate
	}
	prev, ok := r.s.st.licenses[l.ID]
	if !ok {
		return domain.ErrNotFound
	}
	next := *l
	next.LicenseKey = prev.LicenseKey // inmutable
	r.s.st.licenses[l.ID] = next
	return nil
}

func (r *licenseRepo) List(_ context.Context) ([]*entity.License, error) {
	r.s.lock()
	defer r.s.unlock()
	list := make([]*entity.License, 0, len(r.s.st.licenses))
	for _, l := range r.s.st.licenses {
		l := l
		list = append(list, &l)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].IssuedAt.After(list[j].IssuedAt) })
	return list, nil
}

// ── Clients ──────────────────────────────────────────────────────────────────

type clientRepo struct {
	s         *Store
	rlsTenant string
}

func (r *clientRepo) visible(c entity.Client) bool {
	return r.rlsTenant == "" || c.TenantID == r.rlsTenant
}

func (r *clientRepo) Create(_ context.Context, c *entity.Client) error {
	r.s.lock()
	defer r.s.unlock()
	if r.s.Faults.ClientCreate != nil {
		return r.s.Faults.ClientCreate
	}
	if !r.visible(*c) {
		return domain.ErrForbidden
	}
	r.s.st.clients[c.ID] = *c
	return nil
}

func (r *clientRepo) ListByTenant(_ context.Context, tenantID string) ([]*entity.Client, error) {
	r.s.lock()
	defer r.s.unlock()
	var list []*entity.Client
	for _, c := range r.s.st.clients {
		if c.TenantID == tenantID && r.visible(c) {
			c := c
			list = append(list, &c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}
