package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bifshteksex/crdt-engine/internal/change"
	"github.com/bifshteksex/crdt-engine/internal/wire"
)

// Store persists ChangePacks and snapshots keyed by document key,
// mirroring the board server's snapshot/element repositories but
// shaped around a ChangePack instead of row-per-element CRUD (§4.M).
type Store struct {
	db *pgxpool.Pool
}

// New wraps an existing pool.
func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// SaveChanges appends each change to the server-seq-ordered log,
// allocating a server seq per change from the document's counter, and
// returns the checkpoint reached after the append.
func (s *Store) SaveChanges(ctx context.Context, documentKey string, changes []*change.Change) (change.Checkpoint, error) {
	var checkpoint change.Checkpoint

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return checkpoint, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, ch := range changes {
		wireChange, err := wire.FromChange(ch)
		if err != nil {
			return checkpoint, fmt.Errorf("failed to encode change: %w", err)
		}
		data, err := marshalChangeWire(wireChange)
		if err != nil {
			return checkpoint, err
		}

		var serverSeq uint64
		err = tx.QueryRow(ctx, `
			INSERT INTO gateway_server_seq (document_key, seq)
			VALUES ($1, 1)
			ON CONFLICT (document_key) DO UPDATE SET seq = gateway_server_seq.seq + 1
			RETURNING seq
		`, documentKey).Scan(&serverSeq)
		if err != nil {
			return checkpoint, fmt.Errorf("failed to allocate server seq: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO gateway_changes (document_key, server_seq, client_seq, actor_id, lamport, payload)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, documentKey, serverSeq, ch.ID().ClientSeq(), string(ch.ID().ActorID()), ch.ID().Lamport(), data)
		if err != nil {
			return checkpoint, fmt.Errorf("failed to insert change: %w", err)
		}

		checkpoint = change.Checkpoint{ServerSeq: serverSeq, ClientSeq: ch.ID().ClientSeq()}
	}

	if err := tx.Commit(ctx); err != nil {
		return checkpoint, fmt.Errorf("failed to commit change batch: %w", err)
	}
	return checkpoint, nil
}

// ListChangesAfter returns every change recorded for documentKey with a
// server seq strictly greater than afterServerSeq, in server-seq order.
func (s *Store) ListChangesAfter(ctx context.Context, documentKey string, afterServerSeq uint64) ([]*change.Change, error) {
	rows, err := s.db.Query(ctx, `
		SELECT payload FROM gateway_changes
		WHERE document_key = $1 AND server_seq > $2
		ORDER BY server_seq ASC
	`, documentKey, afterServerSeq)
	if err != nil {
		return nil, fmt.Errorf("failed to list changes: %w", err)
	}
	defer rows.Close()

	var out []*change.Change
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan change row: %w", err)
		}
		wireChange, err := unmarshalChangeWire(data)
		if err != nil {
			return nil, err
		}
		ch, err := wireChange.ToChange()
		if err != nil {
			return nil, fmt.Errorf("failed to decode stored change: %w", err)
		}
		out = append(out, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating changes: %w", err)
	}
	return out, nil
}

// SaveSnapshot stores the canonical snapshot bytes for documentKey at
// serverSeq, superseding any prior snapshot with a lower seq. A stored
// snapshot at the same or a higher seq is left in place.
func (s *Store) SaveSnapshot(ctx context.Context, documentKey string, serverSeq uint64, snapshot []byte) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO gateway_snapshots (document_key, server_seq, snapshot)
		VALUES ($1, $2, $3)
		ON CONFLICT (document_key) DO UPDATE
		SET server_seq = EXCLUDED.server_seq, snapshot = EXCLUDED.snapshot
		WHERE gateway_snapshots.server_seq < EXCLUDED.server_seq
	`, documentKey, serverSeq, snapshot)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// LoadLatestSnapshot returns the most recently stored snapshot for
// documentKey, or pgx.ErrNoRows if none exists.
func (s *Store) LoadLatestSnapshot(ctx context.Context, documentKey string) (snapshot []byte, serverSeq uint64, err error) {
	err = s.db.QueryRow(ctx, `
		SELECT snapshot, server_seq FROM gateway_snapshots WHERE document_key = $1
	`, documentKey).Scan(&snapshot, &serverSeq)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, 0, fmt.Errorf("no snapshot for %q: %w", documentKey, err)
		}
		return nil, 0, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return snapshot, serverSeq, nil
}
