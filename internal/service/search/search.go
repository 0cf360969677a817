// Package search mirrors contacts into an elasticsearch index and answers
// free-text queries against it. The ownership rule from the SQL side is
// preserved here with a user_id filter, so non-admins never see foreign
// rows through search either.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/contacthub/contacthub/internal/models"
)

const Index = "contacts"

type Indexer struct {
	ES    *elasticsearch.Client
	Index string
}

func NewIndexer(es *elasticsearch.Client) *Indexer {
	return &Indexer{ES: es, Index: Index}
}

// IndexContact upserts a contact document. Nil indexers are no-ops so the
// server can run without elasticsearch configured.
func (ix *Indexer) IndexContact(ctx context.Context, contact *models.Contact) error {
	if ix == nil || ix.ES == nil {
		return nil
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(contact); err != nil {
		return fmt.Errorf("search: encode contact: %w", err)
	}

	res, err := ix.ES.Index(
		ix.Index,
		&buf,
		ix.ES.Index.WithContext(ctx),
		ix.ES.Index.WithDocumentID(strconv.FormatUint(uint64(contact.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("search: index contact: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("search: index contact: %s", res.Status())
	}
	return nil
}

func (ix *Indexer) RemoveContact(ctx context.Context, contactID uint) error {
	if ix == nil || ix.ES == nil {
		return nil
	}

	res, err := ix.ES.Delete(
		ix.Index,
		strconv.FormatUint(uint64(contactID), 10),
		ix.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("search: remove contact: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("search: remove contact: %s", res.Status())
	}
	return nil
}

// Search runs a fuzzy multi_match over name and email, restricted to the
// requester's rows unless the requester is an admin.
func (ix *Indexer) Search(ctx context.Context, userID uint, role, query string, from, size int) (int64, []models.Contact, error) {
	if ix == nil || ix.ES == nil {
		return 0, nil, fmt.Errorf("search: elasticsearch is not configured")
	}

	must := map[string]interface{}{
		"multi_match": map[string]interface{}{
			"query":     query,
			"fields":    []string{"name^2", "email"},
			"fuzziness": "AUTO",
		},
	}
	boolQuery := map[string]interface{}{"must": must}
	if role != models.RoleAdmin {
		boolQuery["filter"] = map[string]interface{}{
			"term": map[string]interface{}{"userId": userID},
		}
	}

	body := map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"from":  from,
		"size":  size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := ix.ES.Search(
		ix.ES.Search.WithContext(ctx),
		ix.ES.Search.WithIndex(ix.Index),
		ix.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: query failed: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: query failed: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Contact `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("search: decode response: %w", err)
	}

	contacts := make([]models.Contact, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		contacts[i] = hit.Source
	}
	return r.Hits.Total.Value, contacts, nil
}
