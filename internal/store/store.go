// Package store persists document chunks and their embeddings in Postgres.
// It is a plain record store: similarity ranking happens in the retriever,
// never in SQL, so reads return the embedding vector per record.
package store

import (
	"context"
	"database/sql"
	"time"

	"docchat/internal/config"
	"docchat/internal/models"

	"github.com/pgvector/pgvector-go"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

// VectorSize matches the dimensionality of both embedding tiers
// (text-embedding-3-small and text-embedding-ada-002).
const VectorSize = 1536

// Document is one stored chunk of an uploaded file. Records are written in
// batch at ingestion time and never updated.
type Document struct {
	bun.BaseModel `bun:"table:documents,alias:d"`

	ID        int64           `bun:"id,pk,autoincrement"`
	Content   string          `bun:"content,notnull"`
	Embedding pgvector.Vector `bun:"embedding,notnull,type:vector(1536)"`
	Filename  string          `bun:"filename,notnull"`
	Partition string          `bun:"database_name,notnull"`
	FileType  string          `bun:"file_type,notnull"`
	UploadID  string          `bun:"upload_id,notnull"`
	CreatedAt time.Time       `bun:"created_at,notnull"`
}

type Store struct {
	db *bun.DB
}

// Connect opens the Postgres connection described by the config.
func Connect(cfg *config.Config) *Store {
	dsn := cfg.DatabaseURL + "?sslmode=disable"
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithPassword(cfg.DatabaseKey),
	))
	db := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return &Store{db: db}
}

// New wraps an existing bun.DB, mainly for tests.
func New(db *bun.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Init creates the documents table if it does not exist.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.db.NewCreateTable().Model((*Document)(nil)).IfNotExists().Exec(ctx)
	return err
}

// Documents returns the candidate set for retrieval. A non-sentinel partition
// is applied as a WHERE clause, so scoping happens before any scoring.
func (s *Store) Documents(ctx context.Context, partition string) ([]Document, error) {
	var docs []Document
	q := s.db.NewSelect().
		Model(&docs).
		Column("content", "embedding", "filename", "database_name", "file_type").
		Order("id")
	if partition != "" && partition != models.PartitionAll {
		q = q.Where("database_name = ?", partition)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return docs, nil
}

// SaveDocuments bulk-inserts one ingestion's chunks inside a transaction, so
// a write failure leaves no partial batch behind.
func (s *Store) SaveDocuments(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&docs).Exec(ctx)
		return err
	})
}

// Partitions lists the distinct partition names currently stored.
func (s *Store) Partitions(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.NewSelect().
		Model((*Document)(nil)).
		ColumnExpr("DISTINCT database_name").
		OrderExpr("database_name").
		Scan(ctx, &names)
	if err != nil {
		return nil, err
	}
	return names, nil
}
