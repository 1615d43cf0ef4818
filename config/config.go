package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	JWT          JWTConfig
	Solana       SolanaConfig
	Distribution DistributionConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

type SolanaConfig struct {
	RPCURL                   string
	PlatformWalletAddress    string
	PlatformWalletPrivateKey string
	TeamWalletAddress        string
	TokenMint                string // ALLY mint
	GenesisTokenMint         string // Seeker genesis token, tier detection
	TokenDecimals            uint8
	ScanSignatureLimit       int
}

type DistributionConfig struct {
	Enabled            bool
	Weekday            time.Weekday // distribution day, default Friday
	HourUTC            int          // schedule hour, default 20
	DistributionPct    float64      // share of revenue paid to users
	TeamFeePct         float64      // share sent to the team wallet
	OpsFeePct          float64      // share left in the platform wallet
	GameFeePct         float64      // platform cut of each game pot
	MinPoolSize        float64      // ALLY, below this the run aborts
	MinUserEarning     int64        // ALLY, floor for an individual payout
	PayoutWorkers      int
	PayoutTimeout      time.Duration
	LeaseTTL           time.Duration
	AdminWallets       []string // operator endpoints allow-list
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DATABASE_URL", "host=localhost user=korus password=korus dbname=korus port=5432 sslmode=disable"),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "change-me-in-production"),
			Expiry: getDuration("JWT_EXPIRY", 168*time.Hour),
			Issuer: getEnv("JWT_ISSUER", "korus"),
		},
		Solana: SolanaConfig{
			RPCURL:                   getEnv("SOLANA_RPC_URL", "https://api.devnet.solana.com"),
			PlatformWalletAddress:    getEnv("PLATFORM_WALLET_ADDRESS", ""),
			PlatformWalletPrivateKey: getEnv("PLATFORM_WALLET_PRIVATE_KEY", ""),
			TeamWalletAddress:        getEnv("TEAM_WALLET_ADDRESS", ""),
			TokenMint:                getEnv("ALLY_TOKEN_MINT", ""),
			GenesisTokenMint:         getEnv("GENESIS_TOKEN_MINT", ""),
			TokenDecimals:            uint8(getInt("ALLY_TOKEN_DECIMALS", 6)),
			ScanSignatureLimit:       getInt("SCAN_SIGNATURE_LIMIT", 1000),
		},
		Distribution: DistributionConfig{
			Enabled:         getBool("DISTRIBUTION_ENABLED", true),
			Weekday:         time.Weekday(getInt("DISTRIBUTION_WEEKDAY", int(time.Friday))),
			HourUTC:         getInt("DISTRIBUTION_HOUR_UTC", 20),
			DistributionPct: getFloat("DISTRIBUTION_PERCENT", 50),
			TeamFeePct:      getFloat("TEAM_FEE_PERCENT", 45),
			OpsFeePct:       getFloat("OPERATIONS_FEE_PERCENT", 5),
			GameFeePct:      getFloat("GAME_FEE_PERCENT", 5),
			MinPoolSize:     getFloat("MIN_POOL_SIZE", 1000),
			MinUserEarning:  int64(getInt("MIN_USER_EARNING", 10)),
			PayoutWorkers:   getInt("PAYOUT_WORKERS", 4),
			PayoutTimeout:   getDuration("PAYOUT_TIMEOUT", 90*time.Second),
			LeaseTTL:        getDuration("DISTRIBUTION_LEASE_TTL", 30*time.Minute),
			AdminWallets:    getList("ADMIN_WALLETS"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
