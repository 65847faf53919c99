package testutils

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/elasticsearch"
	"github.com/testcontainers/testcontainers-go/wait"
)

// DefaultElasticsearchStartupTimeout bounds container start.
const DefaultElasticsearchStartupTimeout = 90 * time.Second

// ElasticsearchPassword is the password of the test container's elastic user.
const ElasticsearchPassword = "changeme"

// ElasticsearchContainer manages a test Elasticsearch instance.
type ElasticsearchContainer struct {
	Container testcontainers.Container
	Address   string
}

// StartElasticsearch starts an Elasticsearch container for integration tests.
// Stop it with Stop.
func StartElasticsearch(ctx context.Context) (*ElasticsearchContainer, error) {
	esContainer, err := elasticsearch.Run(
		ctx,
		"docker.elastic.co/elasticsearch/elasticsearch:8.11.0",
		elasticsearch.WithPassword(ElasticsearchPassword),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/").WithPort("9200/tcp").WithStartupTimeout(DefaultElasticsearchStartupTimeout),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start Elasticsearch container: %w", err)
	}

	host, err := esContainer.Host(ctx)
	if err != nil {
		_ = esContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	mappedPort, err := esContainer.MappedPort(ctx, "9200")
	if err != nil {
		_ = esContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	return &ElasticsearchContainer{
		Container: esContainer,
		Address:   "http://" + net.JoinHostPort(host, mappedPort.Port()),
	}, nil
}

// GetAddresses returns the address in the form the Elasticsearch config expects.
func (c *ElasticsearchContainer) GetAddresses() []string {
	return []string{c.Address}
}

// Stop terminates the container.
func (c *ElasticsearchContainer) Stop(ctx context.Context) error {
	if c == nil || c.Container == nil {
		return nil
	}
	return c.Container.Terminate(ctx)
}
