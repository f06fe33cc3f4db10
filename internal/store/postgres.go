package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const backlogColumns = `id, project_id, item_type, title, description, status, parent_id,
	sprint_id, assignee_id, story_points, business_value,
	tags, required_skills, acceptance_criteria,
	created_at, updated_at`

func scanBacklogItem(row pgx.Row) (*BacklogItem, error) {
	item := &BacklogItem{}
	var description sql.NullString
	var storyPoints, businessValue sql.NullInt32

	err := row.Scan(
		&item.ID, &item.ProjectID, &item.Type, &item.Title, &description, &item.Status, &item.ParentID,
		&item.SprintID, &item.AssigneeID, &storyPoints, &businessValue,
		&item.Tags, &item.RequiredSkills, &item.AcceptanceCriteria,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		item.Description = description.String
	}
	if storyPoints.Valid {
		n := int(storyPoints.Int32)
		item.StoryPoints = &n
	}
	if businessValue.Valid {
		n := int(businessValue.Int32)
		item.BusinessValue = &n
	}
	return item, nil
}

func (s *PostgresStore) CreateBacklogItem(ctx context.Context, item *BacklogItem) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO backlog_items (project_id, item_type, title, description, status, parent_id,
			sprint_id, assignee_id, story_points, business_value,
			tags, required_skills, acceptance_criteria)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`,
		item.ProjectID, item.Type, item.Title, item.Description, item.Status, item.ParentID,
		item.SprintID, item.AssigneeID, item.StoryPoints, item.BusinessValue,
		item.Tags, item.RequiredSkills, item.AcceptanceCriteria,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

func (s *PostgresStore) GetBacklogItem(ctx context.Context, id uuid.UUID) (*BacklogItem, error) {
	item, err := scanBacklogItem(s.pool.QueryRow(ctx, `
		SELECT `+backlogColumns+`
		FROM backlog_items WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *PostgresStore) ListBacklogItems(ctx context.Context, filter BacklogFilter) ([]*BacklogItem, error) {
	query := `SELECT ` + backlogColumns + ` FROM backlog_items WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.ProjectID != nil {
		n++
		query += fmt.Sprintf(" AND project_id = $%d", n)
		args = append(args, *filter.ProjectID)
	}
	if filter.Type != "" {
		n++
		query += fmt.Sprintf(" AND item_type = $%d", n)
		args = append(args, string(filter.Type))
	}
	if filter.Status != nil {
		n++
		query += fmt.Sprintf(" AND status = $%d", n)
		args = append(args, string(*filter.Status))
	}
	if filter.ParentID != nil {
		n++
		query += fmt.Sprintf(" AND parent_id = $%d", n)
		args = append(args, *filter.ParentID)
	}
	if filter.SprintID != nil {
		n++
		query += fmt.Sprintf(" AND sprint_id = $%d", n)
		args = append(args, *filter.SprintID)
	}

	query += " ORDER BY created_at ASC"

	if filter.Limit > 0 {
		n++
		query += fmt.Sprintf(" LIMIT $%d", n)
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*BacklogItem
	for rows.Next() {
		item, err := scanBacklogItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *PostgresStore) UpdateBacklogItem(ctx context.Context, item *BacklogItem) error {
	return s.pool.QueryRow(ctx, `
		UPDATE backlog_items
		SET item_type = $2, title = $3, description = $4, status = $5, parent_id = $6,
			sprint_id = $7, assignee_id = $8, story_points = $9, business_value = $10,
			tags = $11, required_skills = $12, acceptance_criteria = $13,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		item.ID, item.Type, item.Title, item.Description, item.Status, item.ParentID,
		item.SprintID, item.AssigneeID, item.StoryPoints, item.BusinessValue,
		item.Tags, item.RequiredSkills, item.AcceptanceCriteria,
	).Scan(&item.UpdatedAt)
}

func (s *PostgresStore) UpdateBacklogItemStatus(ctx context.Context, id uuid.UUID, status ItemStatus) (*BacklogItem, error) {
	item, err := scanBacklogItem(s.pool.QueryRow(ctx, `
		UPDATE backlog_items SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+backlogColumns, id, string(status)))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteBacklogItemCascade removes the item and every descendant reachable
// through parent_id. Returns the number of rows deleted.
func (s *PostgresStore) DeleteBacklogItemCascade(ctx context.Context, id uuid.UUID) (int, error) {
	tag, err := s.pool.Exec(ctx, `
		WITH RECURSIVE descendants AS (
			SELECT id FROM backlog_items WHERE id = $1
			UNION ALL
			SELECT b.id FROM backlog_items b
			JOIN descendants d ON b.parent_id = d.id
		)
		DELETE FROM backlog_items WHERE id IN (SELECT id FROM descendants)`, id)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// FindBacklogDuplicate looks for an existing item with the same
// (title, parent_id, item_type) identity within a project.
func (s *PostgresStore) FindBacklogDuplicate(ctx context.Context, projectID uuid.UUID, title string, parentID *uuid.UUID, itemType ItemType) (*BacklogItem, error) {
	query := `SELECT ` + backlogColumns + ` FROM backlog_items
		WHERE project_id = $1 AND LOWER(title) = LOWER($2) AND item_type = $3`
	args := []interface{}{projectID, title, string(itemType)}
	if parentID != nil {
		query += " AND parent_id = $4"
		args = append(args, *parentID)
	} else {
		query += " AND parent_id IS NULL"
	}
	query += " ORDER BY created_at DESC LIMIT 1"

	item, err := scanBacklogItem(s.pool.QueryRow(ctx, query, args...))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *PostgresStore) GetProjectStats(ctx context.Context, projectID uuid.UUID) (*ProjectStats, error) {
	stats := &ProjectStats{
		ByStatus: make(map[ItemStatus]int),
		ByType:   make(map[ItemType]int),
	}

	rows, err := s.pool.Query(ctx, `
		SELECT status, item_type, COUNT(*),
			COALESCE(SUM(story_points), 0),
			COALESCE(SUM(story_points) FILTER (WHERE status = 'done'), 0)
		FROM backlog_items WHERE project_id = $1
		GROUP BY status, item_type`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status ItemStatus
		var itemType ItemType
		var count, points, donePoints int
		if err := rows.Scan(&status, &itemType, &count, &points, &donePoints); err != nil {
			return nil, err
		}
		stats.TotalItems += count
		stats.ByStatus[status] += count
		stats.ByType[itemType] += count
		stats.TotalPoints += points
		stats.DonePoints += donePoints
	}
	return stats, rows.Err()
}
