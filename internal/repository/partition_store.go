package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

const partitionPrefix = "org_"

// TableName derives the partition table name for a tenant. The mapping is a
// pure function of the current normalized organization name.
func TableName(tenantName string) string {
	return partitionPrefix + tenantName
}

// quoteIdent quotes a dynamic identifier for Postgres. Tenant names are
// validated to [a-z0-9_-] before they reach the store, but hyphens still
// require quoting.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// PartitionStore manages the isolated per-tenant data partitions. Each
// partition is a dynamically named table of opaque JSONB documents.
type PartitionStore interface {
	// Materialize creates the partition if absent. Calling it on an existing
	// partition is a no-op and never touches its contents.
	Materialize(ctx context.Context, tenantName string) error
	// CopyAndReplace copies all documents of the old partition into a newly
	// materialized partition under the new name, then drops the old one. The
	// old partition is dropped only after the copy completed without error.
	CopyAndReplace(ctx context.Context, oldName, newName string) error
	// Drop deletes the partition and all its contents. Idempotent.
	Drop(ctx context.Context, tenantName string) error
	// Insert stores an opaque JSON document in the tenant's partition.
	Insert(ctx context.Context, tenantName string, doc []byte) error
	// Count returns the number of documents in the tenant's partition.
	Count(ctx context.Context, tenantName string) (int64, error)
}

type gormPartitionStore struct {
	db *gorm.DB
}

// NewPartitionStore creates a partition store over the given database handle.
func NewPartitionStore(db *gorm.DB) PartitionStore {
	return &gormPartitionStore{db: db}
}

func (s *gormPartitionStore) Materialize(ctx context.Context, tenantName string) error {
	table := quoteIdent(TableName(tenantName))
	create := fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (id BIGSERIAL PRIMARY KEY, doc JSONB NOT NULL DEFAULT '{}'::jsonb, created_at TIMESTAMPTZ NOT NULL DEFAULT now())`,
		table,
	)
	if err := s.db.WithContext(ctx).Exec(create).Error; err != nil {
		return fmt.Errorf("materialize partition %s: %w", TableName(tenantName), err)
	}

	// Marker index on created_at, matching the one every partition gets at
	// creation time.
	index := fmt.Sprintf(
		`CREATE INDEX IF NOT EXISTS %s ON %s (created_at)`,
		quoteIdent(TableName(tenantName)+"_created_at_idx"), table,
	)
	if err := s.db.WithContext(ctx).Exec(index).Error; err != nil {
		return fmt.Errorf("materialize partition %s: %w", TableName(tenantName), err)
	}
	return nil
}

func (s *gormPartitionStore) CopyAndReplace(ctx context.Context, oldName, newName string) error {
	if err := s.Materialize(ctx, newName); err != nil {
		return err
	}

	// Single statement: if the copy fails partway the old partition is left
	// untouched and only the new partition may hold a partial copy.
	copyStmt := fmt.Sprintf(
		`INSERT INTO %s (doc, created_at) SELECT doc, created_at FROM %s`,
		quoteIdent(TableName(newName)), quoteIdent(TableName(oldName)),
	)
	if err := s.db.WithContext(ctx).Exec(copyStmt).Error; err != nil {
		return fmt.Errorf("copy partition %s to %s: %w", TableName(oldName), TableName(newName), err)
	}

	return s.Drop(ctx, oldName)
}

func (s *gormPartitionStore) Drop(ctx context.Context, tenantName string) error {
	drop := fmt.Sprintf(`DROP TABLE IF EXISTS %s`, quoteIdent(TableName(tenantName)))
	if err := s.db.WithContext(ctx).Exec(drop).Error; err != nil {
		return fmt.Errorf("drop partition %s: %w", TableName(tenantName), err)
	}
	return nil
}

func (s *gormPartitionStore) Insert(ctx context.Context, tenantName string, doc []byte) error {
	insert := fmt.Sprintf(`INSERT INTO %s (doc) VALUES (?)`, quoteIdent(TableName(tenantName)))
	return s.db.WithContext(ctx).Exec(insert, string(doc)).Error
}

func (s *gormPartitionStore) Count(ctx context.Context, tenantName string) (int64, error) {
	var count int64
	query := fmt.Sprintf(`SELECT count(*) FROM %s`, quoteIdent(TableName(tenantName)))
	if err := s.db.WithContext(ctx).Raw(query).Scan(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
