// Package storage indexes extracted reviews into Elasticsearch.
package storage

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"

	"github.com/jonesrussell/north-cloud/reviews/internal/config/elasticsearch"
	"github.com/jonesrussell/north-cloud/reviews/internal/logger"
)

// ErrNoConfig is returned when no Elasticsearch configuration is supplied.
var ErrNoConfig = errors.New("elasticsearch configuration is required")

// NewClient creates an Elasticsearch client and verifies it with a ping.
func NewClient(ctx context.Context, cfg *elasticsearch.Config, log logger.Interface) (*es.Client, error) {
	if cfg == nil {
		return nil, ErrNoConfig
	}
	if log == nil {
		log = logger.NewNoOp()
	}

	if len(cfg.Addresses) > 0 {
		log.Debug("Connecting to Elasticsearch", "addresses", cfg.Addresses)
	}

	transport, err := CreateTransport(cfg)
	if err != nil {
		return nil, err
	}

	client, err := es.NewClient(CreateClientConfig(cfg, transport))
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, DefaultPingTimeout)
	defer cancel()

	res, err := client.Ping(client.Ping.WithContext(pingCtx))
	if err != nil {
		return nil, fmt.Errorf("failed to ping Elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error pinging Elasticsearch: %s", res.String())
	}

	return client, nil
}

// CreateTransport creates an HTTP transport with TLS configuration.
func CreateTransport(cfg *elasticsearch.Config) (*http.Transport, error) {
	transport := &http.Transport{}

	if cfg.TLS == nil || !cfg.TLS.Enabled {
		return transport, nil
	}

	tlsConfig := &tls.Config{
		//nolint:gosec // InsecureSkipVerify is configurable for development/testing environments
		InsecureSkipVerify: cfg.TLS.InsecureSkipVerify,
		MinVersion:         tls.VersionTLS12,
	}

	if cfg.TLS.CertFile != "" && cfg.TLS.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("load client certificate: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	if cfg.TLS.CAFile != "" {
		pem, err := os.ReadFile(cfg.TLS.CAFile)
		if err != nil {
			return nil, fmt.Errorf("read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in %s", cfg.TLS.CAFile)
		}
		tlsConfig.RootCAs = pool
	}

	transport.TLSClientConfig = tlsConfig
	return transport, nil
}

// CreateClientConfig creates an Elasticsearch client configuration.
func CreateClientConfig(cfg *elasticsearch.Config, transport http.RoundTripper) es.Config {
	clientConfig := es.Config{
		Addresses: cfg.Addresses,
		Transport: transport,
	}

	if cfg.APIKey != "" {
		clientConfig.APIKey = cfg.APIKey
	} else if cfg.Username != "" && cfg.Password != "" {
		clientConfig.Username = cfg.Username
		clientConfig.Password = cfg.Password
	}

	if cfg.Retry.Enabled {
		initial, maxWait := cfg.Retry.InitialWait, cfg.Retry.MaxWait
		clientConfig.MaxRetries = cfg.Retry.MaxRetries
		clientConfig.RetryOnStatus = []int{
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout,
			http.StatusTooManyRequests,
		}
		clientConfig.RetryBackoff = func(attempt int) time.Duration {
			wait := initial * time.Duration(1<<(attempt-1))
			if wait > maxWait {
				return maxWait
			}
			return wait
		}
	} else {
		clientConfig.DisableRetry = true
	}

	return clientConfig
}
