package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/docsynth/internal/types"
)

// SaveDocument stores a generated document and returns the stored record
func (db *DB) SaveDocument(ctx context.Context, in SaveDocumentInput) (*StoredDocument, error) {
	if err := in.Document.Check(); err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	content, err := json.Marshal(in.Document)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}

	stored := &StoredDocument{
		ID:        uuid.New(),
		Kind:      in.Document.Kind,
		Service:   in.Document.Service(),
		Tier:      in.Document.Tier(),
		Reference: Reference(in.Document),
		Client:    clientOf(in.Document),
		Summary:   in.Summary,
		Provider:  in.Provider,
		Document:  in.Document,
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO documents (id, kind, service, tier, reference, client, summary, provider, content)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at`,
		stored.ID, stored.Kind, stored.Service, stored.Tier, stored.Reference,
		stored.Client, stored.Summary, stored.Provider, content,
	).Scan(&stored.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}
	return stored, nil
}

// GetDocument returns a stored document by id, or nil if it does not exist
func (db *DB) GetDocument(ctx context.Context, id uuid.UUID) (*StoredDocument, error) {
	var stored StoredDocument
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, kind, service, tier, reference, client, summary, provider, content, created_at
		 FROM documents WHERE id = $1`,
		id,
	).Scan(&stored.ID, &stored.Kind, &stored.Service, &stored.Tier, &stored.Reference,
		&stored.Client, &stored.Summary, &stored.Provider, &content, &stored.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	if err := json.Unmarshal(content, &stored.Document); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document %s: %w", id, err)
	}
	return &stored, nil
}

// ListDocuments returns document summaries, newest first
func (db *DB) ListDocuments(ctx context.Context, opts ListOptions) ([]DocumentSummary, error) {
	opts = opts.normalized()

	var kind *types.DocumentKind
	if opts.Kind != "" {
		kind = &opts.Kind
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, kind, service, tier, reference, client, summary, created_at
		 FROM documents
		 WHERE ($1::text IS NULL OR kind = $1)
		 ORDER BY created_at DESC, id
		 LIMIT $2 OFFSET $3`,
		kind, opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var out []DocumentSummary
	for rows.Next() {
		var s DocumentSummary
		if err := rows.Scan(&s.ID, &s.Kind, &s.Service, &s.Tier, &s.Reference, &s.Client, &s.Summary, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return out, nil
}
