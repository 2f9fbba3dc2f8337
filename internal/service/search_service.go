package service

import (
	"encoding/json"
	"html"
	"log"
	"strings"

	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"

	"github.com/smartsoil/teamhub/internal/model"
)

type SearchService interface {
	IndexThread(thread *model.Thread) error
	DeleteThread(id string) error
	Search(query string, limit int64) ([]SearchHit, error)
}

// SearchHit is one thread match.
type SearchHit struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type meiliSearchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	if client == nil {
		return nil
	}

	s := &meiliSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	sortable := []string{"created_at"}
	if _, err := s.client.Index("threads").UpdateSortableAttributes(&sortable); err != nil {
		log.Printf("failed to update threads sortable attributes: %v", err)
	}
}

type meiliThreadDoc struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   int64  `json:"created_at"`
}

func (s *meiliSearchService) cleanForIndex(content string) string {
	sanitized := s.sanitizer.Sanitize(content)
	clean := html.UnescapeString(sanitized)
	return strings.Join(strings.Fields(clean), " ")
}

func (s *meiliSearchService) IndexThread(thread *model.Thread) error {
	doc := meiliThreadDoc{
		ID:          thread.ID.String(),
		Name:        thread.Name,
		Description: s.cleanForIndex(thread.Description),
		CreatedAt:   thread.CreatedAt.Unix(),
	}

	primaryKey := "id"
	_, err := s.client.Index("threads").AddDocuments([]meiliThreadDoc{doc}, &primaryKey)
	return err
}

func (s *meiliSearchService) DeleteThread(id string) error {
	_, err := s.client.Index("threads").DeleteDocument(id)
	return err
}

func (s *meiliSearchService) Search(query string, limit int64) ([]SearchHit, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	res, err := s.client.Index("threads").Search(query, &meilisearch.SearchRequest{
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	hits := make([]SearchHit, 0, len(res.Hits))
	for _, raw := range res.Hits {
		data, err := json.Marshal(raw)
		if err != nil {
			continue
		}
		var hit SearchHit
		if err := json.Unmarshal(data, &hit); err != nil {
			log.Printf("failed to decode search hit: %v", err)
			continue
		}
		hits = append(hits, hit)
	}

	return hits, nil
}
