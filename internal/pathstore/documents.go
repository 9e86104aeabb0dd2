package pathstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgallion1/docoutline/internal/outline"
)

const documentsPrefix = "outlines/documents"

// DocumentKey is the pathstore key of a published outline.
func DocumentKey(docID string) string {
	return documentsPrefix + "/" + docID
}

// DocumentRecord is the published form of an outline.
type DocumentRecord struct {
	DocID       string          `json:"doc_id"`
	Filename    string          `json:"filename"`
	ContentHash string          `json:"content_hash"`
	Source      outline.Source  `json:"source"`
	Title       string          `json:"title"`
	Outline     []outline.Entry `json:"outline"`
	CreatedAt   time.Time       `json:"created_at"`
}

// PublishDocument writes rec under its document key.
func (c *Client) PublishDocument(ctx context.Context, rec DocumentRecord) error {
	return c.PutNode(ctx, DocumentKey(rec.DocID), NodeRequest{
		Value:      rec,
		MemoryType: "metacognitive",
		Salience:   0.5,
		Source:     "docoutline:" + rec.DocID,
	})
}

// GetDocument returns a published outline, or (nil, nil) when none exists.
func (c *Client) GetDocument(ctx context.Context, docID string) (*DocumentRecord, error) {
	node, err := c.GetNode(ctx, DocumentKey(docID))
	if err != nil || node == nil {
		return nil, err
	}
	var rec DocumentRecord
	if err := json.Unmarshal(node.Value, &rec); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", docID, err)
	}
	return &rec, nil
}

// DeleteDocument removes a published outline.
func (c *Client) DeleteDocument(ctx context.Context, docID string) error {
	return c.DeleteNode(ctx, DocumentKey(docID), true)
}

// ListDocuments returns up to limit published outlines.
func (c *Client) ListDocuments(ctx context.Context, limit int) ([]DocumentRecord, error) {
	nodes, err := c.ListChildren(ctx, documentsPrefix, limit)
	if err != nil {
		return nil, err
	}
	out := make([]DocumentRecord, 0, len(nodes))
	for _, n := range nodes {
		var rec DocumentRecord
		if err := json.Unmarshal(n.Value, &rec); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", n.Key, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
