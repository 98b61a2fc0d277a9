package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LedgerMode selects how the settlement ledger is reached.
type LedgerMode string

const (
	LedgerLive      LedgerMode = "live"
	LedgerSimulated LedgerMode = "simulated"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	JWTSecret   string
	JWTTTLHours int

	// Ledger network
	LedgerMode      LedgerMode
	LedgerRPCURL    string
	LedgerAuthToken string
	// Method segment of issued DIDs: did:<method>:<wallet_address>
	DIDMethod string
	// Platform credential used to finish/cancel escrows when the caller
	// does not supply one.
	PlatformSeed string

	// Default sweep
	SweepInterval  time.Duration
	SweepGraceDays int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func Load() *Config {
	// Optional; env vars win over .env contents.
	_ = godotenv.Load()

	c := &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "invoicelane"),
		MySQLUser: getenv("MYSQL_USER", "invoicelane"),
		MySQLPass: getenv("MYSQL_PASS", "invoicelane"),

		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:      getenvInt("REDIS_DB", 0),
		IdempTTLSecs: getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),

		JWTSecret:   getenv("JWT_SECRET", ""),
		JWTTTLHours: getenvInt("JWT_TTL_HOURS", 168),

		LedgerMode:      LedgerMode(getenv("LEDGER_MODE", string(LedgerSimulated))),
		LedgerRPCURL:    getenv("LEDGER_RPC_URL", "http://localhost:8545"),
		LedgerAuthToken: getenv("LEDGER_AUTH_TOKEN", ""),
		DIDMethod:       getenv("DID_METHOD", "ledger"),
		PlatformSeed:    getenv("PLATFORM_SEED", ""),

		SweepInterval:  time.Duration(getenvInt("SWEEP_INTERVAL_SECONDS", 3600)) * time.Second,
		SweepGraceDays: getenvInt("SWEEP_GRACE_DAYS", 3),
	}
	return c
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.JWTSecret == "" {
		return errors.New("missing JWT_SECRET")
	}
	switch c.LedgerMode {
	case LedgerLive, LedgerSimulated:
	default:
		return fmt.Errorf("invalid LEDGER_MODE %q (want live or simulated)", c.LedgerMode)
	}
	if c.LedgerMode == LedgerLive && c.LedgerRPCURL == "" {
		return errors.New("missing LEDGER_RPC_URL for live ledger mode")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
