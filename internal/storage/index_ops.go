package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// CreateIndex creates index, applying mapping when it is non-empty.
func (s *Storage) CreateIndex(ctx context.Context, index string, mapping map[string]any) error {
	if s.client == nil {
		return ErrClientNotInitialized
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.IndexTimeout)
	defer cancel()

	opts := []func(*esapi.IndicesCreateRequest){
		s.client.Indices.Create.WithContext(ctx),
	}
	if len(mapping) > 0 {
		var buf bytes.Buffer
		if encodeErr := json.NewEncoder(&buf).Encode(mapping); encodeErr != nil {
			return fmt.Errorf("encode mapping: %w", encodeErr)
		}
		opts = append(opts, s.client.Indices.Create.WithBody(&buf))
	}

	res, err := s.client.Indices.Create(index, opts...)
	if err != nil {
		return s.transportError("create index", index, err)
	}
	defer s.closeResponse(res, "create index", "index", index)

	if res.IsError() {
		return responseError("create index", index, res)
	}

	s.logger.Info("Created index", "index", index)
	return nil
}

// DeleteIndex deletes index.
func (s *Storage) DeleteIndex(ctx context.Context, index string) error {
	if s.client == nil {
		return ErrClientNotInitialized
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.IndexTimeout)
	defer cancel()

	res, err := s.client.Indices.Delete([]string{index}, s.client.Indices.Delete.WithContext(ctx))
	if err != nil {
		return s.transportError("delete index", index, err)
	}
	defer s.closeResponse(res, "delete index", "index", index)

	if res.IsError() {
		return responseError("delete index", index, res)
	}

	s.logger.Info("Deleted index", "index", index)
	return nil
}

// IndexExists reports whether index exists.
func (s *Storage) IndexExists(ctx context.Context, index string) (bool, error) {
	if s.client == nil {
		return false, ErrClientNotInitialized
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultPingTimeout)
	defer cancel()

	res, err := s.client.Indices.Exists([]string{index}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, s.transportError("index exists", index, err)
	}
	defer s.closeResponse(res, "index exists", "index", index)

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, responseError("index exists", index, res)
	}
}

// EnsureIndex creates index with mapping unless it already exists.
func (s *Storage) EnsureIndex(ctx context.Context, index string, mapping map[string]any) error {
	exists, err := s.IndexExists(ctx, index)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.CreateIndex(ctx, index, mapping)
}

// Refresh makes recent writes to index searchable.
func (s *Storage) Refresh(ctx context.Context, index string) error {
	if s.client == nil {
		return ErrClientNotInitialized
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.IndexTimeout)
	defer cancel()

	res, err := s.client.Indices.Refresh(
		s.client.Indices.Refresh.WithContext(ctx),
		s.client.Indices.Refresh.WithIndex(index),
	)
	if err != nil {
		return s.transportError("refresh", index, err)
	}
	defer s.closeResponse(res, "refresh", "index", index)

	if res.IsError() {
		return responseError("refresh", index, res)
	}
	return nil
}
