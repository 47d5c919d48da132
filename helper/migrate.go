package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"voyage/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const migrationSource = "file://migrations/postgres"

const (
	ActionUp      = "up"
	ActionDown    = "down"
	ActionStepUp  = "step-up"
	ActionDrop    = "drop"
	ActionVersion = "version"
)

var ErrUnknownAction = errors.New("unknown migration action")

// migration steps keyed by action. Each returns a past-tense verb for the log line.
var steps = map[string]func(mig *migrate.Migrate) (string, error){
	ActionUp: func(mig *migrate.Migrate) (string, error) {
		return "applied", mig.Up()
	},
	ActionStepUp: func(mig *migrate.Migrate) (string, error) {
		return "applied one step", mig.Steps(1)
	},
	ActionDown: func(mig *migrate.Migrate) (string, error) {
		return "rolled back one step", mig.Steps(-1)
	},
	ActionDrop: func(mig *migrate.Migrate) (string, error) {
		return "rolled back", mig.Down()
	},
}

func databaseName(cfg *config.Config) string {
	return cfg.DB.Postgres.Prefix + cfg.DB.Postgres.Write.Name
}

func connect(cfg *config.Config) (*migrate.Migrate, error) {
	write := cfg.DB.Postgres.Write

	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(write.Username, write.Password),
		Host:   net.JoinHostPort(write.Host, write.Port),
		Path:   "/" + databaseName(cfg),
	}

	query := dsn.Query()
	query.Set("sslmode", write.SSLMode)
	query.Set("x-migrations-table", cfg.DB.Postgres.MigrationTable)
	dsn.RawQuery = query.Encode()

	mig, err := migrate.New(migrationSource, dsn.String())
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return mig, nil
}

// Runner executes one migration action against the write database.
func Runner(cfg *config.Config, action string) error {
	step, ok := steps[action]
	if !ok && action != ActionVersion {
		return fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	mig, err := connect(cfg)
	if err != nil {
		return err
	}

	defer mig.Close()

	if action == ActionVersion {
		version, dirty, err := mig.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			return fmt.Errorf("failed to read migration version: %w", err)
		}

		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("current schema version")

		return nil
	}

	verb, err := step(mig)
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run %s migration: %w", action, err)
	}

	log.Info().Str("action", action).Str("database", databaseName(cfg)).Msgf("schema migrations %s", verb)

	return nil
}

func Up(cfg *config.Config) error {
	return Runner(cfg, ActionUp)
}
