package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/Adamaq01/Tachi/internal/domain"
)

var (
	ErrImportNotFound = errors.New("import not found")
	ErrImportExists   = errors.New("import already exists")
)

// CreateImport persists a finished import document. Import documents
// are written exactly once and never updated; attempting to write the
// same import ID twice is an error.
func (s *Store) CreateImport(_ context.Context, doc *domain.ImportDocument) error {
	key := buildKey(importPrefix, doc.ImportID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check import exists: %w", err)
	}
	if exists {
		return ErrImportExists
	}

	return s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshal import: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return err
		}

		idxKey := buildKey(importUserIdxPrefix, doc.UserID, doc.ImportID)
		return txn.Set(idxKey, []byte(doc.ImportID))
	})
}

// GetImport retrieves an import document by ID.
func (s *Store) GetImport(_ context.Context, importID string) (*domain.ImportDocument, error) {
	var doc domain.ImportDocument
	if err := s.get(buildKey(importPrefix, importID), &doc); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrImportNotFound
		}
		return nil, fmt.Errorf("get import: %w", err)
	}
	return &doc, nil
}

// ListImportsForUser returns a user's imports, most recent first.
func (s *Store) ListImportsForUser(ctx context.Context, userID string) ([]*domain.ImportDocument, error) {
	prefix := buildKey(importUserIdxPrefix, userID, "")
	var importIDs []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				importIDs = append(importIDs, string(val))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list user imports: %w", err)
	}

	imports := make([]*domain.ImportDocument, 0, len(importIDs))
	for _, importID := range importIDs {
		doc, err := s.GetImport(ctx, importID)
		if errors.Is(err, ErrImportNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		imports = append(imports, doc)
	}

	sort.Slice(imports, func(i, j int) bool {
		return imports[i].TimeStarted > imports[j].TimeStarted
	})

	return imports, nil
}
