package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jinzhu/copier"
	dbutils "github.com/tendant/db-utils/db"

	"github.com/tenauth/tenauth/pkg/attempt"
	"github.com/tenauth/tenauth/pkg/config"
	"github.com/tenauth/tenauth/pkg/extauth"
	"github.com/tenauth/tenauth/pkg/lockout"
	"github.com/tenauth/tenauth/pkg/login"
	"github.com/tenauth/tenauth/pkg/password"
	"github.com/tenauth/tenauth/pkg/settings"
	"github.com/tenauth/tenauth/pkg/tenant"
	"github.com/tenauth/tenauth/pkg/token"
	"github.com/tenauth/tenauth/pkg/uow"
	"github.com/tenauth/tenauth/pkg/user"
)

type DemoDbConfig struct {
	Enabled  bool   `env:"DEMO_PG_ENABLED" env-default:"false"`
	Host     string `env:"DEMO_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"DEMO_PG_PORT" env-default:"5432"`
	Database string `env:"DEMO_PG_DATABASE" env-default:"tenauth_db"`
	User     string `env:"DEMO_PG_USER" env-default:"tenauth"`
	Password string `env:"DEMO_PG_PASSWORD" env-default:"pwd"`
}

func (d DemoDbConfig) toDbConfig() dbutils.DbConfig {
	return dbutils.DbConfig{
		Host:     d.Host,
		Port:     d.Port,
		Database: d.Database,
		User:     d.User,
		Password: d.Password,
	}
}

type Config struct {
	DbConfig    DemoDbConfig
	LoginConfig config.LoginConfig
	TokenConfig config.TokenConfig
}

func main() {
	cfg := Config{}
	cleanenv.ReadEnv(&cfg)

	if err := cfg.LoginConfig.Validate(); err != nil {
		slog.Error("Invalid login config", "err", err)
		os.Exit(-1)
	}
	if err := cfg.TokenConfig.Validate(); err != nil {
		slog.Error("Invalid token config", "err", err)
		os.Exit(-1)
	}

	ctx := context.Background()

	var manager uow.Manager
	var tenants tenant.Repository
	var users user.Repository
	var roles user.RoleRepository
	var attempts attempt.Repository

	if cfg.DbConfig.Enabled {
		pool, err := dbutils.NewDbPool(ctx, cfg.DbConfig.toDbConfig())
		if err != nil {
			slog.Error("Failed creating dbpool", "db", cfg.DbConfig.Database, "host", cfg.DbConfig.Host, "err", err)
			os.Exit(-1)
		}
		manager = uow.NewPgxManager(pool)
		tenants = tenant.NewPostgresRepository(pool)
		users = user.NewPostgresRepository(pool)
		roles = user.NewPostgresRoleRepository(pool)
		attempts = attempt.NewPostgresRepository(pool)
	} else {
		manager = uow.NewInMemoryManager()
		inMemTenants := tenant.NewInMemoryRepository()
		inMemUsers := user.NewInMemoryRepository()
		inMemRoles := user.NewInMemoryRoleRepository()
		tenants = inMemTenants
		users = inMemUsers
		roles = inMemRoles
		attempts = attempt.NewInMemoryRepository()

		seed(inMemTenants, inMemUsers, inMemRoles)
	}

	hasher := password.NewBcryptHasher()

	var lockoutSettings lockout.Settings
	copier.Copy(&lockoutSettings, &cfg.LoginConfig)
	lockoutSettings.Enabled = cfg.LoginConfig.LockoutEnabled
	lockoutProvider := lockout.NewInMemoryProvider(lockoutSettings)

	appSettings := settings.NewStaticProvider()
	appSettings.SetForApplication(settings.IsEmailConfirmationRequiredForLogin, cfg.LoginConfig.RequireConfirmedEmail)

	registry := extauth.NewRegistry(
		extauth.NewStaticSource("demo-directory", map[string]string{
			"directory.user@example.com": "directory-pass",
		}),
	)

	service := login.NewService(
		tenant.NewResolver(tenants, cfg.LoginConfig.MultiTenancyEnabled),
		users,
		extauth.NewBridge(registry, users, roles, hasher),
		password.NewValidator(hasher),
		lockout.NewPolicy(lockoutProvider, manager),
		attempt.NewRecorder(attempts, nil, manager),
		appSettings,
		token.NewJwtFactory(cfg.TokenConfig.Secret, cfg.TokenConfig.Issuer, cfg.TokenConfig.Audience, cfg.TokenConfig.Expiration),
		manager,
	)

	runSampleLogins(ctx, service)
}

func seed(tenants *tenant.InMemoryRepository, users *user.InMemoryRepository, roles *user.InMemoryRoleRepository) {
	tenants.AddTenant(tenant.Tenant{ID: 1, TenancyName: tenant.DefaultTenantName, IsActive: true})
	tenants.AddTenant(tenant.Tenant{ID: 2, TenancyName: "acme", IsActive: true})

	tenantID := int64(2)
	roles.AddRole(user.Role{TenantID: &tenantID, Name: "member", IsDefault: true})

	hasher := password.NewBcryptHasher()
	hash, err := hasher.Hash("correct-horse")
	if err != nil {
		slog.Error("Failed to hash seed password", "err", err)
		os.Exit(-1)
	}
	users.AddUser(user.User{
		TenantID:         &tenantID,
		UserName:         "alice",
		Email:            "alice@example.com",
		PasswordHash:     hash,
		IsActive:         true,
		IsEmailConfirmed: true,
	})
}

func runSampleLogins(ctx context.Context, service *login.Service) {
	samples := []struct {
		identifier  string
		password    string
		tenancyName string
	}{
		{"alice@example.com", "correct-horse", "acme"},
		{"alice@example.com", "wrong-password", "acme"},
		{"directory.user@example.com", "directory-pass", "acme"},
		{"nobody@example.com", "whatever", "ghost-tenant"},
	}

	for _, sample := range samples {
		result, err := service.LoginByPassword(ctx, sample.identifier, sample.password, sample.tenancyName, true)
		if err != nil {
			slog.Error("Login failed", "identifier", sample.identifier, "err", err)
			continue
		}
		slog.Info("Login outcome",
			"identifier", sample.identifier,
			"tenancy", sample.tenancyName,
			"outcome", result.Code.String(),
			"hasToken", result.IdentityToken != "")
	}
}
