package cli

import (
	"context"
	"fmt"

	"github.com/matchsight/matchsight/internal/config"
	"github.com/matchsight/matchsight/internal/corpus"
	"github.com/matchsight/matchsight/internal/profile"
	"github.com/matchsight/matchsight/internal/store"
	"github.com/matchsight/matchsight/internal/valuation"
)

// openStore loads config and opens the snapshot database.
func openStore() (*config.Config, *store.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return cfg, db, nil
}

// openValuations binds the valuation store to the selected slot, loading it
// when a save exists and starting fresh otherwise.
func openValuations(cfg *config.Config) (*valuation.Store, error) {
	slot := slotName
	if slot == "" {
		slot = cfg.Valuations.DefaultSlot
	}
	vs, err := valuation.New(cfg.Valuations.Dir, slot, cfg.Rating.Categories)
	if err != nil {
		return nil, fmt.Errorf("failed to open valuation slot %s: %w", slot, err)
	}
	return vs, nil
}

// loadProfiles returns every stored snapshot, sorted by username.
func loadProfiles(ctx context.Context, db *store.DB) ([]profile.Profile, error) {
	profiles, err := db.LoadProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("no profiles stored (run 'matchsight import profiles' first)")
	}
	return profiles, nil
}

// loadBackup fetches the stored backup for a role. Required backups missing
// from the store are an error with a pointer at the import command.
func loadBackup(ctx context.Context, db *store.DB, role store.Role, required bool) (*profile.AccountBackup, error) {
	b, err := db.GetBackup(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s backup: %w", role, err)
	}
	if b == nil && required {
		return nil, fmt.Errorf("no %s backup stored (run 'matchsight import backup --role %s' first)", role, role)
	}
	return b, nil
}

// viewerRole is the account whose answers appear on fetched profiles: the
// shadow account when one is configured, the real account otherwise.
func viewerRole(cfg *config.Config) store.Role {
	if cfg.Accounts.HasShadow() {
		return store.RoleShadow
	}
	return store.RoleReal
}

// buildCorpus assembles the analysis corpus from the snapshot store. The
// real backup is required; the shadow backup falls back to the real one for
// single-account setups.
func buildCorpus(ctx context.Context, cfg *config.Config, db *store.DB) (*corpus.Corpus, error) {
	profiles, err := loadProfiles(ctx, db)
	if err != nil {
		return nil, err
	}
	real, err := loadBackup(ctx, db, store.RoleReal, true)
	if err != nil {
		return nil, err
	}
	shadow := real
	if cfg.Accounts.HasShadow() {
		shadow, err = loadBackup(ctx, db, store.RoleShadow, true)
		if err != nil {
			return nil, err
		}
	}
	return corpus.Build(profiles, shadow, real), nil
}
