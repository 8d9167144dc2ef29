// Package search keeps active articles in an Elasticsearch index for title search.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/news-portal-api/internal/application"
	"github.com/oksasatya/news-portal-api/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

const articleMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "keyword"},
      "writer_id":   {"type": "keyword"},
      "writer_name": {"type": "text"},
      "title":       {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "slug":        {"type": "keyword"},
      "category":    {"type": "keyword"},
      "description": {"type": "text"},
      "date":        {"type": "keyword"},
      "image":       {"type": "keyword", "index": false},
      "status":      {"type": "keyword"},
      "view_count":  {"type": "long"},
      "created_at":  {"type": "date"},
      "updated_at":  {"type": "date"}
    }
  }
}`

// ArticleIndex is an application.ArticleIndex backed by Elasticsearch.
type ArticleIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewArticleIndex(es *elasticsearch.Client, index string) *ArticleIndex {
	return &ArticleIndex{es: es, index: index}
}

// EnsureIndex creates the index with its mapping unless it already exists.
func (x *ArticleIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := esapi.IndicesExistsRequest{Index: []string{x.index}}.Do(c, x.es)
	if err != nil {
		return fmt.Errorf("es index exists: %w", err)
	}
	_ = res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}
	return x.create(c)
}

func (x *ArticleIndex) create(ctx context.Context) error {
	res, err := esapi.IndicesCreateRequest{Index: x.index, Body: strings.NewReader(articleMapping)}.Do(ctx, x.es)
	return checkResponse("es create index", res, err)
}

func (x *ArticleIndex) Index(ctx context.Context, a entity.Article) error {
	b, err := json.Marshal(a)
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := esapi.IndexRequest{Index: x.index, DocumentID: a.ID, Body: bytes.NewReader(b), Refresh: "false"}.Do(c, x.es)
	return checkResponse("es index article", res, err)
}

// Remove deletes the article document. A missing document is not an error.
func (x *ArticleIndex) Remove(ctx context.Context, id string) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := esapi.DeleteRequest{Index: x.index, DocumentID: id}.Do(c, x.es)
	if err == nil && res.StatusCode == http.StatusNotFound {
		_ = res.Body.Close()
		return nil
	}
	return checkResponse("es delete article", res, err)
}

// escapeWildcard makes term match literally inside a wildcard pattern.
func escapeWildcard(term string) string {
	return strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`).Replace(term)
}

func searchQuery(term string, limit int) map[string]any {
	return map[string]any{
		"size": limit,
		"sort": []any{map[string]any{"created_at": map[string]any{"order": "desc"}}},
		"query": map[string]any{
			"bool": map[string]any{
				"filter": []any{
					map[string]any{"term": map[string]any{"status": string(entity.StatusActive)}},
				},
				"must": []any{
					map[string]any{"wildcard": map[string]any{
						"title.raw": map[string]any{
							"value":            "*" + escapeWildcard(term) + "*",
							"case_insensitive": true,
						},
					}},
				},
			},
		},
	}
}

func (x *ArticleIndex) Search(ctx context.Context, term string, limit int) ([]entity.Article, error) {
	b, err := json.Marshal(searchQuery(term, limit))
	if err != nil {
		return nil, err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := x.es.Search(x.es.Search.WithContext(c), x.es.Search.WithIndex(x.index), x.es.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, fmt.Errorf("es search: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source entity.Article `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("es search decode: %w", err)
	}
	out := make([]entity.Article, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

// Reindex bulk loads articles into the live index, then deletes documents that are
// not in articles and were last updated before the run started. The index itself is
// never dropped.
func (x *ArticleIndex) Reindex(ctx context.Context, articles []entity.Article) error {
	cutoff := time.Now().UTC()
	if err := x.EnsureIndex(ctx); err != nil {
		return err
	}

	ids := make([]string, 0, len(articles))
	if len(articles) > 0 {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		for _, a := range articles {
			if err := enc.Encode(map[string]any{"index": map[string]any{"_id": a.ID}}); err != nil {
				return err
			}
			if err := enc.Encode(a); err != nil {
				return err
			}
			ids = append(ids, a.ID)
		}
		res, err := esapi.BulkRequest{Index: x.index, Body: &buf, Refresh: "true"}.Do(ctx, x.es)
		if err := checkResponse("es bulk index", res, err); err != nil {
			return err
		}
	}

	b, err := json.Marshal(staleQuery(ids, cutoff))
	if err != nil {
		return err
	}
	refresh := true
	res, err := esapi.DeleteByQueryRequest{
		Index:     []string{x.index},
		Body:      bytes.NewReader(b),
		Conflicts: "proceed",
		Refresh:   &refresh,
	}.Do(ctx, x.es)
	return checkResponse("es delete stale articles", res, err)
}

// staleQuery matches documents outside keep that were updated before cutoff.
func staleQuery(keep []string, cutoff time.Time) map[string]any {
	q := map[string]any{
		"filter": []any{
			map[string]any{"range": map[string]any{"updated_at": map[string]any{"lt": cutoff.Format(time.RFC3339Nano)}}},
		},
	}
	if len(keep) > 0 {
		q["must_not"] = []any{map[string]any{"ids": map[string]any{"values": keep}}}
	}
	return map[string]any{"query": map[string]any{"bool": q}}
}

func checkResponse(op string, res *esapi.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("%s: %s %s", op, res.Status(), strings.TrimSpace(string(body)))
	}
	return nil
}

var _ application.ArticleIndex = (*ArticleIndex)(nil)
