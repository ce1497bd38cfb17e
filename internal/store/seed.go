package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/realdesk/pkg/types"
)

// HashFunc hashes a plain-text password for storage.
type HashFunc func(password string) (string, error)

// Demo account created by Seed.
const (
	SeedAdminUsername = "admin"
	SeedAdminPassword = "admin123"
)

const seedAdminAvatar = "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?ixlib=rb-1.2.1&auto=format&fit=facearea&facepad=2&w=256&h=256&q=80"

// seedWorkflows are the sample automations created on first start.
var seedWorkflows = []types.WorkflowPatch{
	{
		Name:        types.Ptr("Respuesta automática a leads"),
		Description: types.Ptr("Envía respuestas automáticas a nuevos leads"),
		Status:      types.Ptr(types.WorkflowActive),
		Progress:    types.Ptr(100),
		Type:        types.Ptr("lead-response"),
	},
	{
		Name:        types.Ptr("Notificaciones a clientes"),
		Description: types.Ptr("Envía notificaciones sobre nuevas propiedades a clientes"),
		Status:      types.Ptr(types.WorkflowActive),
		Progress:    types.Ptr(100),
		Type:        types.Ptr("notification"),
	},
	{
		Name:        types.Ptr("Actualización de precios"),
		Description: types.Ptr("Actualiza precios basados en el mercado"),
		Status:      types.Ptr(types.WorkflowPaused),
		Progress:    types.Ptr(60),
		Type:        types.Ptr("price-update"),
	},
	{
		Name:        types.Ptr("Sincronización con portales"),
		Description: types.Ptr("Sincroniza propiedades con portales inmobiliarios"),
		Status:      types.Ptr(types.WorkflowError),
		Progress:    types.Ptr(30),
		Type:        types.Ptr("portal-sync"),
	},
}

// Seed creates the demo admin account when the user directory is empty and
// the sample workflows when the workflow table is empty. Workflows go
// through the store, so each one logs a "workflow-created" activity. Seed is
// idempotent.
func Seed(ctx context.Context, s types.Store, hash HashFunc, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	users, err := s.Users().Count(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if users == 0 {
		pw, err := hash(SeedAdminPassword)
		if err != nil {
			return fmt.Errorf("hashing seed password: %w", err)
		}
		avatar := seedAdminAvatar
		admin, err := s.Users().Create(ctx, types.User{
			Username:     SeedAdminUsername,
			PasswordHash: pw,
			FullName:     "Ana García",
			Role:         types.RoleAdmin,
			Avatar:       &avatar,
		})
		if err != nil {
			return fmt.Errorf("seeding admin user: %w", err)
		}
		log.Info("seeded admin user", zap.Int64("user_id", admin.ID), zap.String("username", admin.Username))
	}

	workflows, err := s.Workflows().List(ctx)
	if err != nil {
		return fmt.Errorf("listing workflows: %w", err)
	}
	if len(workflows) > 0 {
		return nil
	}
	for _, wp := range seedWorkflows {
		if _, err := s.Workflows().Create(ctx, wp.New()); err != nil {
			return fmt.Errorf("seeding workflow %s: %w", *wp.Name, err)
		}
	}
	log.Info("seeded sample workflows", zap.Int("count", len(seedWorkflows)))
	return nil
}
