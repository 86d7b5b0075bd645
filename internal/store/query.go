// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/instruction-engine/pkg/types"
)

const defaultLimit = 100

// Query filters stored results. Zero fields do not filter.
type Query struct {
	Outcome types.Outcome

	// Rule keeps results carrying a violation of this rule.
	Rule string

	// MinScore and MaxScore bound the conversion score, inclusive. Scores
	// can be negative, so the bounds are pointers.
	MinScore *int
	MaxScore *int

	// Text keeps results with an item containing this substring.
	Text string

	// Limit caps the number of results. Zero uses 100.
	Limit int
}

// Entry is one stored conversion as returned by List.
type Entry struct {
	Filename    string        `json:"filename" yaml:"filename"`
	Outcome     types.Outcome `json:"outcome" yaml:"outcome"`
	Score       int           `json:"conversion_score" yaml:"conversion_score"`
	Items       int           `json:"items" yaml:"items"`
	Violations  int           `json:"violations" yaml:"violations"`
	ConvertedAt time.Time     `json:"converted_at" yaml:"converted_at"`
}

// List returns the stored conversions matching q, ordered by filename.
func (s *Store) List(ctx context.Context, q Query) ([]Entry, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT c.filename, c.outcome, c.score, c.item_count, c.converted_at,
			(SELECT count(*) FROM violations v WHERE v.filename = c.filename)
		FROM conversions c
		WHERE 1=1`)

	if q.Outcome != "" {
		qb.WriteString(` AND c.outcome = ?`)
		args = append(args, string(q.Outcome))
	}
	if q.Rule != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM violations v WHERE v.filename = c.filename AND v.rule = ?)`)
		args = append(args, q.Rule)
	}
	if q.MinScore != nil {
		qb.WriteString(` AND c.score >= ?`)
		args = append(args, *q.MinScore)
	}
	if q.MaxScore != nil {
		qb.WriteString(` AND c.score <= ?`)
		args = append(args, *q.MaxScore)
	}
	if q.Text != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM items i WHERE i.filename = c.filename AND i.text LIKE ? ESCAPE '\')`)
		args = append(args, "%"+escapeLike(q.Text)+"%")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	qb.WriteString(` ORDER BY c.filename LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying conversions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			outcome string
			at      string
		)
		if err := rows.Scan(&e.Filename, &outcome, &e.Score, &e.Items, &at, &e.Violations); err != nil {
			return nil, fmt.Errorf("scanning conversion: %w", err)
		}
		e.Outcome = types.Outcome(outcome)
		e.ConvertedAt, _ = time.Parse(time.RFC3339Nano, at)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Items returns the stored work instruction items of filename in order.
// Aborted and unknown documents have no items; use Load to tell them apart.
func (s *Store) Items(ctx context.Context, filename string) ([]types.WorkInstructionTextItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_name, text, sub_text FROM items WHERE filename = ? ORDER BY position`, filename)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var items []types.WorkInstructionTextItem
	for rows.Next() {
		var (
			it      types.WorkInstructionTextItem
			group   sql.NullString
			subText sql.NullString
		)
		if err := rows.Scan(&it.ID, &group, &it.Text, &subText); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		it.GroupName = group.String
		it.SubText = subText.String
		items = append(items, it)
	}
	return items, rows.Err()
}

// Load rebuilds the full conversion result stored for filename.
func (s *Store) Load(ctx context.Context, filename string) (types.ConversionResult, error) {
	var (
		result types.ConversionResult
		source sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT filename, score, source_filename FROM conversions WHERE filename = ?`, filename,
	).Scan(&result.Filename, &result.ConversionScore, &source)
	if errors.Is(err, sql.ErrNoRows) {
		return result, fmt.Errorf("%w: %s", ErrNotFound, filename)
	}
	if err != nil {
		return result, fmt.Errorf("querying conversion %s: %w", filename, err)
	}

	items, err := s.Items(ctx, filename)
	if err != nil {
		return result, err
	}
	if len(items) > 0 {
		result.WorkInstructions = types.WorkInstruction{Items: items, SourceFilename: source.String}
	}

	vrows, err := s.db.QueryContext(ctx,
		`SELECT rule, message, critical FROM violations WHERE filename = ? ORDER BY position`, filename)
	if err != nil {
		return result, fmt.Errorf("querying violations: %w", err)
	}
	for vrows.Next() {
		var (
			v   types.RuleViolation
			msg sql.NullString
		)
		if err := vrows.Scan(&v.Rule, &msg, &v.Critical); err != nil {
			vrows.Close()
			return result, fmt.Errorf("scanning violation: %w", err)
		}
		v.Message = msg.String
		result.RuleViolations = append(result.RuleViolations, v)
	}
	vrows.Close()
	if err := vrows.Err(); err != nil {
		return result, err
	}

	prows, err := s.db.QueryContext(ctx,
		`SELECT reason, points FROM penalties WHERE filename = ? ORDER BY position`, filename)
	if err != nil {
		return result, fmt.Errorf("querying penalties: %w", err)
	}
	defer prows.Close()
	for prows.Next() {
		var p types.Penalty
		if err := prows.Scan(&p.Reason, &p.Points); err != nil {
			return result, fmt.Errorf("scanning penalty: %w", err)
		}
		result.Penalties = append(result.Penalties, p)
	}
	return result, prows.Err()
}
