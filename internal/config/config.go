package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	JWTSecret       string
	TokenTTL        time.Duration
	BcryptCost      int
	LogLevel        string
	StaffLogins     []string
	ShutdownTimeout time.Duration

	ShippingThreshold decimal.Decimal
	ShippingSurcharge decimal.Decimal

	EthUSDRate           decimal.Decimal
	RateOracleURL        string
	MerchantAddress      string
	PaymentTTL           time.Duration
	PaymentAutoConfirm   bool
	PaymentWebhookSecret string

	ChainBlockTime time.Duration
	ChainMineAfter time.Duration

	MonitorInterval  time.Duration
	MinConfirmations int64
	TxTimeout        time.Duration
	MonitorBatchSize int
	MonitorWorkers   int

	OutboxInterval time.Duration
	KafkaBrokers   []string
	KafkaTopic     string

	RedisAddr      string
	IdempotencyTTL time.Duration
}

const (
	defaultRunAddress        = ":8080"
	defaultJWTSecret         = "change-me-in-production"
	defaultTokenTTL          = 24 * time.Hour
	defaultLogLevel          = "info"
	defaultShutdownTimeout   = 10 * time.Second
	defaultShippingThreshold = "999"
	defaultShippingSurcharge = "50"
	defaultEthUSDRate        = "2000"
	defaultMerchantAddress   = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"
	defaultPaymentTTL        = time.Hour
	defaultChainBlockTime    = 12 * time.Second
	defaultMonitorInterval   = 30 * time.Second
	defaultMinConfirmations  = 12
	defaultTxTimeout         = 24 * time.Hour
	defaultMonitorBatchSize  = 100
	defaultMonitorWorkers    = 1
	defaultOutboxInterval    = time.Second
	defaultKafkaTopic        = "gencart.events"
	defaultIdempotencyTTL    = 24 * time.Hour
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:           getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:          getString(lookup, "DATABASE_URI", ""),
		JWTSecret:            getString(lookup, "JWT_SECRET", defaultJWTSecret),
		TokenTTL:             getDuration(lookup, "TOKEN_TTL", defaultTokenTTL),
		BcryptCost:           getInt(lookup, "BCRYPT_COST", 0),
		LogLevel:             getString(lookup, "LOG_LEVEL", defaultLogLevel),
		ShutdownTimeout:      getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		RateOracleURL:        getString(lookup, "RATE_ORACLE_URL", ""),
		MerchantAddress:      getString(lookup, "MERCHANT_ADDRESS", defaultMerchantAddress),
		PaymentTTL:           getDuration(lookup, "PAYMENT_TTL", defaultPaymentTTL),
		PaymentAutoConfirm:   getBool(lookup, "PAYMENT_AUTO_CONFIRM", false),
		PaymentWebhookSecret: getString(lookup, "PAYMENT_WEBHOOK_SECRET", ""),
		ChainBlockTime:       getDuration(lookup, "CHAIN_BLOCK_TIME", defaultChainBlockTime),
		ChainMineAfter:       getDuration(lookup, "CHAIN_MINE_AFTER", 0),
		MonitorInterval:      getDuration(lookup, "MONITOR_INTERVAL", defaultMonitorInterval),
		MinConfirmations:     int64(getInt(lookup, "MIN_CONFIRMATIONS", defaultMinConfirmations)),
		TxTimeout:            getDuration(lookup, "TX_TIMEOUT", defaultTxTimeout),
		MonitorBatchSize:     getInt(lookup, "MONITOR_BATCH_SIZE", defaultMonitorBatchSize),
		MonitorWorkers:       getInt(lookup, "MONITOR_WORKERS", defaultMonitorWorkers),
		OutboxInterval:       getDuration(lookup, "OUTBOX_INTERVAL", defaultOutboxInterval),
		KafkaTopic:           getString(lookup, "KAFKA_TOPIC", defaultKafkaTopic),
		RedisAddr:            getString(lookup, "REDIS_ADDR", ""),
		IdempotencyTTL:       getDuration(lookup, "IDEMPOTENCY_TTL", defaultIdempotencyTTL),
	}

	fs := flag.NewFlagSet("gencart", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		tokenTTLStr        = cfg.TokenTTL.String()
		paymentTTLStr      = cfg.PaymentTTL.String()
		blockTimeStr       = cfg.ChainBlockTime.String()
		mineAfterStr       = cfg.ChainMineAfter.String()
		monitorIntervalStr = cfg.MonitorInterval.String()
		txTimeoutStr       = cfg.TxTimeout.String()
		outboxIntervalStr  = cfg.OutboxInterval.String()
		idempotencyTTLStr  = cfg.IdempotencyTTL.String()
		thresholdStr       = getString(lookup, "SHIPPING_THRESHOLD", defaultShippingThreshold)
		surchargeStr       = getString(lookup, "SHIPPING_SURCHARGE", defaultShippingSurcharge)
		ethRateStr         = getString(lookup, "ETH_USD_RATE", defaultEthUSDRate)
		kafkaBrokersStr    = getString(lookup, "KAFKA_BROKERS", "")
		staffLoginsStr     = getString(lookup, "STAFF_LOGINS", "")
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN, empty for the in-memory store")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&tokenTTLStr, "token-ttl", tokenTTLStr, "Auth token lifetime")
	fs.IntVar(&cfg.BcryptCost, "bcrypt-cost", cfg.BcryptCost, "bcrypt cost, 0 for the library default")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&staffLoginsStr, "staff-logins", staffLoginsStr, "Comma separated logins registered as staff")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&thresholdStr, "shipping-threshold", thresholdStr, "Subtotal at which shipping becomes free")
	fs.StringVar(&surchargeStr, "shipping-surcharge", surchargeStr, "Shipping cost below the threshold")
	fs.StringVar(&ethRateStr, "eth-usd-rate", ethRateStr, "USD price of one ETH")
	fs.StringVar(&cfg.RateOracleURL, "rate-oracle-url", cfg.RateOracleURL, "Price feed base URL, empty to use the fixed ETH rate")
	fs.StringVar(&cfg.MerchantAddress, "merchant-address", cfg.MerchantAddress, "Address receiving blockchain payments")
	fs.StringVar(&paymentTTLStr, "payment-ttl", paymentTTLStr, "Blockchain payment expiry")
	fs.BoolVar(&cfg.PaymentAutoConfirm, "payment-auto-confirm", cfg.PaymentAutoConfirm, "Confirm blockchain payments during checkout")
	fs.StringVar(&cfg.PaymentWebhookSecret, "payment-webhook-secret", cfg.PaymentWebhookSecret, "Shared secret for payment webhooks")
	fs.StringVar(&blockTimeStr, "chain-block-time", blockTimeStr, "Block interval of the simulated chain")
	fs.StringVar(&mineAfterStr, "chain-mine-after", mineAfterStr, "Delay before the simulated chain mines a submitted hash, 0 disables mining")
	fs.StringVar(&monitorIntervalStr, "monitor-interval", monitorIntervalStr, "Interval between transaction monitor polls")
	fs.Int64Var(&cfg.MinConfirmations, "min-confirmations", cfg.MinConfirmations, "Confirmations required to accept a transaction")
	fs.StringVar(&txTimeoutStr, "tx-timeout", txTimeoutStr, "Age after which unmined transactions fail")
	fs.IntVar(&cfg.MonitorBatchSize, "monitor-batch", cfg.MonitorBatchSize, "Pending transactions checked per poll")
	fs.IntVar(&cfg.MonitorWorkers, "monitor-workers", cfg.MonitorWorkers, "Concurrent transaction checks")
	fs.StringVar(&outboxIntervalStr, "outbox-interval", outboxIntervalStr, "Interval between outbox relay runs")
	fs.StringVar(&kafkaBrokersStr, "kafka-brokers", kafkaBrokersStr, "Comma separated Kafka brokers, empty to log events")
	fs.StringVar(&cfg.KafkaTopic, "kafka-topic", cfg.KafkaTopic, "Kafka topic for domain events")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address for idempotency keys")
	fs.StringVar(&idempotencyTTLStr, "idempotency-ttl", idempotencyTTLStr, "Idempotency key retention")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	durations := []struct {
		name   string
		raw    string
		target *time.Duration
		def    time.Duration
	}{
		{"shutdown timeout", shutdownTimeoutStr, &cfg.ShutdownTimeout, defaultShutdownTimeout},
		{"token ttl", tokenTTLStr, &cfg.TokenTTL, defaultTokenTTL},
		{"payment ttl", paymentTTLStr, &cfg.PaymentTTL, defaultPaymentTTL},
		{"chain block time", blockTimeStr, &cfg.ChainBlockTime, defaultChainBlockTime},
		{"monitor interval", monitorIntervalStr, &cfg.MonitorInterval, defaultMonitorInterval},
		{"tx timeout", txTimeoutStr, &cfg.TxTimeout, defaultTxTimeout},
		{"outbox interval", outboxIntervalStr, &cfg.OutboxInterval, defaultOutboxInterval},
		{"idempotency ttl", idempotencyTTLStr, &cfg.IdempotencyTTL, defaultIdempotencyTTL},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.name, err)
		}
		if v <= 0 {
			v = d.def
		}
		*d.target = v
	}

	mineAfter, err := time.ParseDuration(mineAfterStr)
	if err != nil {
		return nil, fmt.Errorf("invalid chain mine after: %w", err)
	}
	if mineAfter < 0 {
		mineAfter = 0
	}
	cfg.ChainMineAfter = mineAfter

	amounts := []struct {
		name      string
		raw       string
		target    *decimal.Decimal
		def       string
		allowZero bool
	}{
		{"shipping threshold", thresholdStr, &cfg.ShippingThreshold, defaultShippingThreshold, true},
		{"shipping surcharge", surchargeStr, &cfg.ShippingSurcharge, defaultShippingSurcharge, true},
		{"eth usd rate", ethRateStr, &cfg.EthUSDRate, defaultEthUSDRate, false},
	}
	for _, a := range amounts {
		v, err := decimal.NewFromString(a.raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", a.name, err)
		}
		if v.IsNegative() || (v.IsZero() && !a.allowZero) {
			v = decimal.RequireFromString(a.def)
		}
		*a.target = v
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = string(content)
	}

	cfg.KafkaBrokers = splitList(kafkaBrokersStr)
	cfg.StaffLogins = splitList(staffLoginsStr)

	if cfg.MinConfirmations <= 0 {
		cfg.MinConfirmations = defaultMinConfirmations
	}

	if cfg.MonitorBatchSize <= 0 {
		cfg.MonitorBatchSize = defaultMonitorBatchSize
	}

	if cfg.MonitorWorkers <= 0 {
		cfg.MonitorWorkers = defaultMonitorWorkers
	}

	if cfg.KafkaTopic == "" {
		cfg.KafkaTopic = defaultKafkaTopic
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getBool(lookup envLookup, key string, def bool) bool {
	if v, ok := lookup(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
