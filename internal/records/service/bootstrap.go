package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oakfieldhealth/wardgate/internal/records/domain"
	"github.com/oakfieldhealth/wardgate/internal/records/store"
	"github.com/oakfieldhealth/wardgate/pkg/cryptox"
	"github.com/oakfieldhealth/wardgate/pkg/idx"
)

// BootstrapService provisions the fixed role set and, optionally, demo
// accounts on an empty database. It never touches a store that already has
// users, so a restart cannot resurrect deleted accounts.
type BootstrapService struct {
	Store    store.Store
	Logger   *slog.Logger
	SeedDemo bool
}

// demoAccounts mirror the credentials printed on the login screen of the
// development deployment. SeedDemo must be off in anything public.
var demoAccounts = []struct {
	Username string
	Password string
	Role     string
}{
	{"admin", "admin123", domain.RoleAdmin},
	{"dr_bob", "doc123", domain.RoleDoctor},
	{"alice_recep", "rec123", domain.RoleReceptionist},
}

// Bootstrap ensures roles exist and seeds demo users when enabled. Safe to
// call on every startup.
func (s *BootstrapService) Bootstrap(ctx context.Context) error {
	roleIDs, err := s.ensureRoles(ctx)
	if err != nil {
		return err
	}

	if !s.SeedDemo {
		return nil
	}

	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return fmt.Errorf("check users: %w", err)
	}
	if !empty {
		return nil
	}

	now := time.Now()
	for _, acc := range demoAccounts {
		hash, err := cryptox.HashPassword(acc.Password)
		if err != nil {
			return fmt.Errorf("hash demo password: %w", err)
		}
		u := domain.User{
			ID:           idx.New().String(),
			Username:     acc.Username,
			PasswordHash: hash,
			RoleID:       roleIDs[acc.Role],
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.Store.Users().CreateUser(ctx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", acc.Username, err)
		}
		s.Logger.Info("seeded demo user",
			slog.String("username", acc.Username),
			slog.String("role", acc.Role))
	}
	return nil
}

// ensureRoles creates any of the three fixed roles that do not exist yet and
// returns a name -> id map.
func (s *BootstrapService) ensureRoles(ctx context.Context) (map[string]string, error) {
	ids := make(map[string]string, 3)
	now := time.Now()
	for _, name := range []string{domain.RoleAdmin, domain.RoleDoctor, domain.RoleReceptionist} {
		role, err := s.Store.Roles().GetRoleByName(ctx, name)
		if err == nil {
			ids[name] = role.ID
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("lookup role %s: %w", name, err)
		}
		role = domain.Role{
			ID:        idx.New().String(),
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.Store.Roles().CreateRole(ctx, role); err != nil {
			return nil, fmt.Errorf("create role %s: %w", name, err)
		}
		ids[name] = role.ID
	}
	return ids, nil
}
