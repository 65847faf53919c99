package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// IndexDocument indexes a document in Elasticsearch under id, replacing any
// previous version.
func (s *Storage) IndexDocument(ctx context.Context, index, id string, document any) error {
	if s.client == nil {
		return ErrClientNotInitialized
	}

	body, err := json.Marshal(document)
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", id, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.IndexTimeout)
	defer cancel()

	opts := []func(*esapi.IndexRequest){
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(id),
	}
	if s.opts.Refresh {
		opts = append(opts, s.client.Index.WithRefresh("true"))
	}

	res, err := s.client.Index(index, bytes.NewReader(body), opts...)
	if err != nil {
		return s.transportError("index", index, err)
	}
	defer s.closeResponse(res, "index", "index", index, "doc_id", id)

	if res.IsError() {
		return responseError("index", index, res)
	}

	s.logger.Debug("Document indexed", "index", index, "doc_id", id)
	return nil
}

// Count returns the number of documents in index matching query. A nil query
// counts every document.
func (s *Storage) Count(ctx context.Context, index string, query map[string]any) (int64, error) {
	if s.client == nil {
		return 0, ErrClientNotInitialized
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.SearchTimeout)
	defer cancel()

	opts := []func(*esapi.CountRequest){
		s.client.Count.WithContext(ctx),
		s.client.Count.WithIndex(index),
	}
	if query != nil {
		body, err := json.Marshal(map[string]any{"query": query})
		if err != nil {
			return 0, fmt.Errorf("marshal count query: %w", err)
		}
		opts = append(opts, s.client.Count.WithBody(bytes.NewReader(body)))
	}

	res, err := s.client.Count(opts...)
	if err != nil {
		return 0, s.transportError("count", index, err)
	}
	defer s.closeResponse(res, "count", "index", index)

	if res.IsError() {
		return 0, responseError("count", index, res)
	}

	var result struct {
		Count *int64 `json:"count"`
	}
	if decodeErr := json.NewDecoder(res.Body).Decode(&result); decodeErr != nil {
		return 0, fmt.Errorf("decode count: %w", decodeErr)
	}
	if result.Count == nil {
		return 0, ErrInvalidCount
	}

	return *result.Count, nil
}
