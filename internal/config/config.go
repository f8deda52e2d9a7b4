package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	RoleWorker = "worker"
	RoleMtaSts = "mta-sts"
	RoleCLI    = "dnsctl"
)

const defaultResolvers = "1.1.1.1:53,8.8.8.8:53,9.9.9.9:53"

type Config struct {
	CoreDatabaseURL string
	TemporalAddress string
	HTTPListenAddr  string
	MetricsAddr     string
	LogLevel        string

	ServiceName string
	Version     string
	Environment string

	TemporalTLSCert       string
	TemporalTLSKey        string
	TemporalTLSCACert     string
	TemporalTLSServerName string

	// DNSResolvers are the upstream recursive resolvers polled in parallel.
	// Each address counts as one vote in consensus.
	DNSResolvers      []string
	MinDNSResolutions int
	DNSQueryTimeout   time.Duration
	PollCron          string
}

func Load() (*Config, error) {
	cfg := &Config{
		CoreDatabaseURL:       getEnv("CORE_DATABASE_URL", ""),
		TemporalAddress:       getEnv("TEMPORAL_ADDRESS", "localhost:7233"),
		HTTPListenAddr:        getEnv("HTTP_LISTEN_ADDR", ":8090"),
		MetricsAddr:           getEnv("METRICS_ADDR", ""),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		ServiceName:           getEnv("SERVICE_NAME", ""),
		Version:               getEnv("VERSION", ""),
		Environment:           getEnv("ENVIRONMENT", "production"),
		TemporalTLSCert:       getEnv("TEMPORAL_TLS_CERT", ""),
		TemporalTLSKey:        getEnv("TEMPORAL_TLS_KEY", ""),
		TemporalTLSCACert:     getEnv("TEMPORAL_TLS_CA_CERT", ""),
		TemporalTLSServerName: getEnv("TEMPORAL_TLS_SERVER_NAME", ""),
		DNSResolvers:          splitList(getEnv("DNS_RESOLVERS", defaultResolvers)),
		PollCron:              getEnv("POLL_CRON", "*/30 * * * *"),
	}

	minRes, err := strconv.Atoi(getEnv("MIN_DNS_RESOLUTIONS", "2"))
	if err != nil {
		return nil, fmt.Errorf("parse MIN_DNS_RESOLUTIONS: %w", err)
	}
	cfg.MinDNSResolutions = minRes

	timeout, err := time.ParseDuration(getEnv("DNS_QUERY_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("parse DNS_QUERY_TIMEOUT: %w", err)
	}
	cfg.DNSQueryTimeout = timeout

	return cfg, nil
}

// Validate checks that every variable the given binary needs is set and
// reports all missing ones at once.
func (c *Config) Validate(role string) error {
	var missing []string
	require := func(v, name string) {
		if v == "" {
			missing = append(missing, name)
		}
	}

	switch role {
	case RoleWorker:
		require(c.CoreDatabaseURL, "CORE_DATABASE_URL")
		require(c.TemporalAddress, "TEMPORAL_ADDRESS")
		require(c.PollCron, "POLL_CRON")
		c.requireResolvers(&missing)
	case RoleMtaSts:
		require(c.CoreDatabaseURL, "CORE_DATABASE_URL")
		require(c.HTTPListenAddr, "HTTP_LISTEN_ADDR")
	case RoleCLI:
		require(c.CoreDatabaseURL, "CORE_DATABASE_URL")
		c.requireResolvers(&missing)
	default:
		return fmt.Errorf("unknown role %q", role)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables for %s: %s", role, strings.Join(missing, ", "))
	}

	if (c.TemporalTLSCert == "") != (c.TemporalTLSKey == "") {
		return fmt.Errorf("TEMPORAL_TLS_CERT and TEMPORAL_TLS_KEY must both be set")
	}
	if c.MinDNSResolutions < 1 {
		return fmt.Errorf("MIN_DNS_RESOLUTIONS must be at least 1, got %d", c.MinDNSResolutions)
	}
	if c.MinDNSResolutions > len(c.DNSResolvers) {
		return fmt.Errorf("MIN_DNS_RESOLUTIONS (%d) exceeds the number of DNS_RESOLVERS (%d)",
			c.MinDNSResolutions, len(c.DNSResolvers))
	}
	if c.DNSQueryTimeout <= 0 {
		return fmt.Errorf("DNS_QUERY_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) requireResolvers(missing *[]string) {
	if len(c.DNSResolvers) == 0 {
		*missing = append(*missing, "DNS_RESOLVERS")
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
