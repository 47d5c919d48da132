package postgres

//nolint:revive
import (
	"fmt"
	"net"
	"time"
	"voyage/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
)

// Connection splits catalog and audit traffic between a read replica and the primary.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

type endpoint struct {
	name     string
	host     string
	port     string
	username string
	password string
	dbName   string
	sslMode  string
}

func New(config *config.Config) *Connection {
	pg := config.DB.Postgres

	read := endpoint{"read", pg.Read.Host, pg.Read.Port, pg.Read.Username, pg.Read.Password, dbName(config, pg.Read.Name), pg.Read.SSLMode}
	write := endpoint{"write", pg.Write.Host, pg.Write.Port, pg.Write.Username, pg.Write.Password, dbName(config, pg.Write.Name), pg.Write.SSLMode}

	return &Connection{
		Read:  connect(read, pg.MaxRetry, pg.RetryWaitTime),
		Write: connect(write, pg.MaxRetry, pg.RetryWaitTime),
	}
}

func dbName(config *config.Config, baseName string) string {
	return config.DB.Postgres.Prefix + baseName
}

func connect(ep endpoint, maxRetry, waitTime int) *sqlx.DB {
	descriptor := fmt.Sprintf(
		"postgres://%s:%s@%s/%s?sslmode=%s",
		ep.username,
		ep.password,
		net.JoinHostPort(ep.host, ep.port),
		ep.dbName,
		ep.sslMode,
	)

	for retry := range max(maxRetry, 1) {
		sqlDB, err := sqlx.Connect("postgres", descriptor)
		if err == nil {
			log.Info().
				Str("name", ep.name).
				Str("host", ep.host).
				Str("dbName", ep.dbName).
				Msg("Connected to database")

			sqlDB.SetMaxIdleConns(postgresMaxIdleConnection)
			sqlDB.SetMaxOpenConns(postgresMaxOpenConnection)

			return sqlDB
		}

		log.Error().
			Err(err).
			Str("name", ep.name).
			Str("host", ep.host).
			Int("attempt", retry+1).
			Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitTime) * time.Second)
	}

	log.Fatal().Str("name", ep.name).Msg("Could not connect to database")

	return nil
}
