package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config captures everything main needs to wire the service.
type Config struct {
	Addr string

	PostgresDSN string
	RedisURL    string

	// Ledger bridge endpoint and the operator identity used for identity
	// mirror writes. The operator key is injected, never hard-coded.
	LedgerURL       string
	LedgerTimeout   time.Duration
	OperatorAddress string
	OperatorKey     string

	JWTSigningKey string
	SessionTTL    time.Duration
	BcryptCost    int

	// Kafka audit stream; empty brokers disable the publisher and audit
	// events stay on the in-process worker only.
	AuditBrokers []string
	AuditTopic   string
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Addr:            getenv("MEDLEDGER_ADDR", ":8080"),
		PostgresDSN:     getenv("MEDLEDGER_POSTGRES_DSN", ""),
		RedisURL:        getenv("MEDLEDGER_REDIS_URL", ""),
		LedgerURL:       getenv("MEDLEDGER_LEDGER_URL", "http://127.0.0.1:7545"),
		LedgerTimeout:   getduration("MEDLEDGER_LEDGER_TIMEOUT", 15*time.Second),
		OperatorAddress: getenv("MEDLEDGER_OPERATOR_ADDRESS", ""),
		OperatorKey:     getenv("MEDLEDGER_OPERATOR_KEY", ""),
		JWTSigningKey:   getenv("MEDLEDGER_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		SessionTTL:      getduration("MEDLEDGER_SESSION_TTL", 12*time.Hour),
		BcryptCost:      getint("MEDLEDGER_BCRYPT_COST", bcrypt.DefaultCost),
		AuditBrokers:    getlist("MEDLEDGER_AUDIT_BROKERS"),
		AuditTopic:      getenv("MEDLEDGER_AUDIT_TOPIC", "medledger.audit"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getlist(key string) []string {
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
