// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

// Package explorerview persists accepted-block score breakdowns into
// Postgres for an explorer to query, grounded on the coinjoin
// engine's pgx-backed analytics store (internal/db/postgres.go):
// pgxpool.New for the connection, a single upsert statement per
// accepted row, and a batched insert for the per-proof contribution
// rows (mirroring that store's evidence_edge batch insert). Persist
// is called once per consensuscore.Core.SubmitBlock BlockAccepted
// outcome and never influences the decision itself.
package explorerview

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/animicaorg/consensus/fixedpoint"
	"github.com/animicaorg/consensus/header"
	"github.com/animicaorg/consensus/policy"
	"github.com/animicaorg/consensus/scorer"
)

// Store is the explorer's read-model sink.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pooled connection and verifies it with a ping,
// matching the teacher's Connect.
func Connect(ctx context.Context, connStr string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("explorerview: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("explorerview: ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// BlockAccepted is the read-model row this store persists: one block's
// committed score breakdown.
type BlockAccepted struct {
	Height     uint64
	HeaderHash header.Hash
	ParentHash header.Hash
	Theta      fixedpoint.Fixed
	S          fixedpoint.Fixed
	Hu         fixedpoint.Fixed
	Psi        fixedpoint.Fixed
	Breakdown  []scorer.Contribution
	Timestamp  uint64
}

// Persist upserts one accepted block's summary row and batch-inserts
// its per-proof contribution rows inside a single transaction, the
// same two-step shape as the teacher's SaveAnalysisResult.
func (s *Store) Persist(ctx context.Context, b BlockAccepted) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("explorerview: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const upsertBlock = `
		INSERT INTO block_scores (height, header_hash, parent_hash, theta, s, hu, psi, ts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (header_hash) DO UPDATE
		SET theta = EXCLUDED.theta, s = EXCLUDED.s, hu = EXCLUDED.hu, psi = EXCLUDED.psi;
	`
	_, err = tx.Exec(ctx, upsertBlock,
		b.Height, b.HeaderHash[:], b.ParentHash[:],
		int64(b.Theta), int64(b.S), int64(b.Hu), int64(b.Psi), b.Timestamp)
	if err != nil {
		return fmt.Errorf("explorerview: upsert block_scores: %w", err)
	}

	if len(b.Breakdown) > 0 {
		const insertContribution = `
			INSERT INTO block_contributions (header_hash, proof_type, nullifier, psi_raw, psi_adjusted, taken)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (header_hash, nullifier) DO NOTHING;
		`
		batch := &pgx.Batch{}
		for _, c := range b.Breakdown {
			batch.Queue(insertContribution,
				b.HeaderHash[:], c.Type.String(), c.Nullifier[:],
				int64(c.PsiRaw), int64(c.PsiAdj), int64(c.Taken))
		}
		results := tx.SendBatch(ctx, batch)
		for range b.Breakdown {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("explorerview: insert block_contributions: %w", err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("explorerview: insert block_contributions: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("explorerview: commit: %w", err)
	}
	return nil
}

// AlphaSnapshot persists the current fairness weight for one proof
// type at a given height, for the explorer's alpha-over-time chart.
func (s *Store) AlphaSnapshot(ctx context.Context, height uint64, t policy.ProofType, alpha fixedpoint.Fixed) error {
	const upsert = `
		INSERT INTO alpha_history (height, proof_type, alpha)
		VALUES ($1, $2, $3)
		ON CONFLICT (height, proof_type) DO UPDATE SET alpha = EXCLUDED.alpha;
	`
	_, err := s.pool.Exec(ctx, upsert, height, t.String(), int64(alpha))
	if err != nil {
		return fmt.Errorf("explorerview: upsert alpha_history: %w", err)
	}
	return nil
}
