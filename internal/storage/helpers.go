package storage

import (
	"context"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// closeResponse closes res.Body, logging close failures with the given op fields.
func (s *Storage) closeResponse(res *esapi.Response, op string, fields ...any) {
	if closeErr := res.Body.Close(); closeErr != nil {
		s.logger.Warn("Failed to close response body",
			append([]any{"operation", op, "error", closeErr}, fields...)...)
	}
}

// transportError logs a request that never produced a response and wraps err.
func (s *Storage) transportError(op, index string, err error) error {
	s.logger.Error("Storage operation failed", "operation", op, "index", index, "error", err)
	return fmt.Errorf("%s %s: %w", op, index, err)
}

// responseError converts a non-2xx response into a *ResponseError.
func responseError(op, index string, res *esapi.Response) error {
	return &ResponseError{
		Op:     op,
		Index:  index,
		Status: res.StatusCode,
		Body:   res.String(),
	}
}

// Ping checks that the cluster answers.
func (s *Storage) Ping(ctx context.Context) error {
	if s.client == nil {
		return ErrClientNotInitialized
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultPingTimeout)
	defer cancel()

	res, err := s.client.Ping(s.client.Ping.WithContext(ctx))
	if err != nil {
		return s.transportError("ping", "", err)
	}
	defer s.closeResponse(res, "ping")

	if res.IsError() {
		return responseError("ping", "", res)
	}
	return nil
}
