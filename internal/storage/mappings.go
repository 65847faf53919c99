package storage

// Index settings
const (
	defaultShards   = 1
	defaultReplicas = 0
)

// ReviewMapping returns the index body for review documents.
func ReviewMapping() map[string]any {
	return map[string]any{
		"settings": map[string]any{
			"number_of_shards":   defaultShards,
			"number_of_replicas": defaultReplicas,
		},
		"mappings": map[string]any{
			"dynamic": "strict",
			"properties": map[string]any{
				"id":           map[string]string{"type": "keyword"},
				"product_id":   map[string]string{"type": "keyword"},
				"product_name": map[string]any{"type": "text", "fields": map[string]any{"raw": map[string]string{"type": "keyword"}}},
				"product_url":  map[string]string{"type": "keyword"},
				"marketplace":  map[string]string{"type": "keyword"},
				"content":      map[string]string{"type": "text"},
				"rating":       map[string]string{"type": "float"},
				"has_rating":   map[string]string{"type": "boolean"},
				"title":        map[string]string{"type": "text"},
				"author":       map[string]string{"type": "keyword"},
				"review_date":  map[string]string{"type": "keyword"},
				"extracted_at": map[string]string{"type": "date"},
			},
		},
	}
}
