package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/comptavision/comptavision-api/internal/application/auth"
)

var _ auth.LoginLimiter = (*LoginLimiter)(nil)

// Prefijo de las claves de intentos fallidos: auth:login:fail:{email}.
const loginFailPrefix = "auth:login:fail"

// LoginFailKey devuelve la clave de contador para un email.
func LoginFailKey(email string) string {
	return fmt.Sprintf("%s:%s", loginFailPrefix, strings.ToLower(strings.TrimSpace(email)))
}

// LoginLimiter cuenta intentos fallidos por email con INCR + EXPIRE.
// El bloqueo dura lockFor desde el último fallo.
type LoginLimiter struct {
	rdb         goredis.Cmdable
	maxAttempts int64
	lockFor     time.Duration
}

// NewLoginLimiter construye el limitador.
func NewLoginLimiter(rdb goredis.Cmdable, maxAttempts int, lockFor time.Duration) *LoginLimiter {
	return &LoginLimiter{rdb: rdb, maxAttempts: int64(maxAttempts), lockFor: lockFor}
}

// Allowed informa si el email aún no alcanzó el máximo de fallos.
func (l *LoginLimiter) Allowed(ctx context.Context, email string) (bool, error) {
	n, err := l.rdb.Get(ctx, LoginFailKey(email)).Int64()
	if errors.Is(err, goredis.Nil) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("login limiter get: %w", err)
	}
	return n < l.maxAttempts, nil
}

// RecordFailure incrementa el contador y renueva su expiración.
func (l *LoginLimiter) RecordFailure(ctx context.Context, email string) error {
	key := LoginFailKey(email)
	_, err := l.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, l.lockFor)
		return nil
	})
	if err != nil {
		return fmt.Errorf("login limiter incr: %w", err)
	}
	return nil
}

// Reset borra el contador tras un login correcto.
func (l *LoginLimiter) Reset(ctx context.Context, email string) error {
	if err := l.rdb.Del(ctx, LoginFailKey(email)).Err(); err != nil {
		return fmt.Errorf("login limiter del: %w", err)
	}
	return nil
}
