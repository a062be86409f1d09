package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/sitegraph"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ sitegraph.RunService = (*RunService)(nil)

// RunService implements sitegraph.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun stores run and every page and link of graph in one transaction.
func (s *RunService) CreateRun(ctx context.Context, run *sitegraph.Run, graph *sitegraph.Graph) error {
	if err := run.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id := uuid.New().String()
	createdAt := time.Now().UTC()
	pageCount := graph.Len()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, start_url, domain, strategy, max_depth, page_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, run.StartURL, run.Domain, string(run.Strategy), run.MaxDepth, pageCount,
		createdAt.Format(timeFormat)); err != nil {
		return err
	}

	pageStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pages (run_id, url, position, title, depth, status, content_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer pageStmt.Close()

	linkStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO links (run_id, page_url, position, target_url)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer linkStmt.Close()

	for i, p := range graph.Pages() {
		if _, err := pageStmt.ExecContext(ctx, id, p.URL, i, p.Title, p.Depth, p.Status, p.ContentHash); err != nil {
			return err
		}
		for j, link := range p.Links {
			if _, err := linkStmt.ExecContext(ctx, id, p.URL, j, link); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	run.ID = id
	run.PageCount = pageCount
	run.CreatedAt = createdAt
	return nil
}

// FindRunByID retrieves a run by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*sitegraph.Run, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx, `
		SELECT id, start_url, domain, strategy, max_depth, page_count, created_at
		FROM runs
		WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, sitegraph.Errorf(sitegraph.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// FindGraph rebuilds the graph stored for a run, in discovery order.
func (s *RunService) FindGraph(ctx context.Context, runID string) (*sitegraph.Graph, error) {
	if _, err := s.FindRunByID(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT url, title, depth, status, content_hash
		FROM pages
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*sitegraph.Page
	byURL := make(map[string]*sitegraph.Page)
	for rows.Next() {
		var p sitegraph.Page
		if err := rows.Scan(&p.URL, &p.Title, &p.Depth, &p.Status, &p.ContentHash); err != nil {
			return nil, err
		}
		pages = append(pages, &p)
		byURL[p.URL] = &p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	linkRows, err := s.db.QueryContext(ctx, `
		SELECT page_url, target_url
		FROM links
		WHERE run_id = ?
		ORDER BY page_url, position ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer linkRows.Close()

	for linkRows.Next() {
		var pageURL, target string
		if err := linkRows.Scan(&pageURL, &target); err != nil {
			return nil, err
		}
		if p, ok := byURL[pageURL]; ok {
			p.Links = append(p.Links, target)
		}
	}
	if err := linkRows.Err(); err != nil {
		return nil, err
	}

	return sitegraph.NewGraph(pages), nil
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter sitegraph.RunFilter) ([]*sitegraph.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, start_url, domain, strategy, max_depth, page_count, created_at FROM runs WHERE 1=1")

	if filter.Domain != nil {
		query.WriteString(" AND domain = ?")
		args = append(args, *filter.Domain)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")

	if filter.Offset > 0 && filter.Limit <= 0 {
		// SQLite requires LIMIT before OFFSET.
		query.WriteString(" LIMIT -1")
	}
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*sitegraph.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// DeleteRun permanently removes a run. Its pages and links cascade.
func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return sitegraph.Errorf(sitegraph.ENOTFOUND, "run not found")
	}

	return nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*sitegraph.Run, error) {
	var run sitegraph.Run
	var strategy, createdAt string

	if err := row.Scan(&run.ID, &run.StartURL, &run.Domain, &strategy, &run.MaxDepth,
		&run.PageCount, &createdAt); err != nil {
		return nil, err
	}
	run.Strategy = sitegraph.Strategy(strategy)

	var err error
	run.CreatedAt, err = parseRFC3339(createdAt, "created_at")
	if err != nil {
		return nil, err
	}
	return &run, nil
}
