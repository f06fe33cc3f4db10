package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const sprintColumns = `id, project_id, name, goal, start_date, end_date, program_increment_id, created_at, updated_at`

func scanSprint(row pgx.Row) (*Sprint, error) {
	sp := &Sprint{}
	var goal sql.NullString
	err := row.Scan(&sp.ID, &sp.ProjectID, &sp.Name, &goal, &sp.StartDate, &sp.EndDate,
		&sp.ProgramIncrementID, &sp.CreatedAt, &sp.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if goal.Valid {
		sp.Goal = goal.String
	}
	return sp, nil
}

func (s *PostgresStore) CreateSprint(ctx context.Context, sp *Sprint) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO sprints (project_id, name, goal, start_date, end_date, program_increment_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		sp.ProjectID, sp.Name, sp.Goal, sp.StartDate, sp.EndDate, sp.ProgramIncrementID,
	).Scan(&sp.ID, &sp.CreatedAt, &sp.UpdatedAt)
}

func (s *PostgresStore) GetSprint(ctx context.Context, id uuid.UUID) (*Sprint, error) {
	sp, err := scanSprint(s.pool.QueryRow(ctx, `
		SELECT `+sprintColumns+` FROM sprints WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sp, nil
}

func (s *PostgresStore) ListSprints(ctx context.Context, projectID uuid.UUID) ([]*Sprint, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+sprintColumns+` FROM sprints
		WHERE project_id = $1 ORDER BY start_date ASC NULLS LAST, created_at ASC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sprints []*Sprint
	for rows.Next() {
		sp, err := scanSprint(rows)
		if err != nil {
			return nil, err
		}
		sprints = append(sprints, sp)
	}
	return sprints, rows.Err()
}

func (s *PostgresStore) UpdateSprint(ctx context.Context, sp *Sprint) error {
	return s.pool.QueryRow(ctx, `
		UPDATE sprints
		SET name = $2, goal = $3, start_date = $4, end_date = $5, program_increment_id = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		sp.ID, sp.Name, sp.Goal, sp.StartDate, sp.EndDate, sp.ProgramIncrementID,
	).Scan(&sp.UpdatedAt)
}

func (s *PostgresStore) DeleteSprint(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM sprints WHERE id = $1`, id)
	return err
}

const piColumns = `id, project_id, name, objective, start_date, end_date, created_at, updated_at`

func scanProgramIncrement(row pgx.Row) (*ProgramIncrement, error) {
	pi := &ProgramIncrement{}
	var objective sql.NullString
	err := row.Scan(&pi.ID, &pi.ProjectID, &pi.Name, &objective, &pi.StartDate, &pi.EndDate,
		&pi.CreatedAt, &pi.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if objective.Valid {
		pi.Objective = objective.String
	}
	return pi, nil
}

func (s *PostgresStore) CreateProgramIncrement(ctx context.Context, pi *ProgramIncrement) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO program_increments (project_id, name, objective, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		pi.ProjectID, pi.Name, pi.Objective, pi.StartDate, pi.EndDate,
	).Scan(&pi.ID, &pi.CreatedAt, &pi.UpdatedAt)
}

func (s *PostgresStore) GetProgramIncrement(ctx context.Context, id uuid.UUID) (*ProgramIncrement, error) {
	pi, err := scanProgramIncrement(s.pool.QueryRow(ctx, `
		SELECT `+piColumns+` FROM program_increments WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return pi, nil
}

func (s *PostgresStore) ListProgramIncrements(ctx context.Context, projectID uuid.UUID) ([]*ProgramIncrement, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+piColumns+` FROM program_increments
		WHERE project_id = $1 ORDER BY start_date ASC NULLS LAST, created_at ASC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pis []*ProgramIncrement
	for rows.Next() {
		pi, err := scanProgramIncrement(rows)
		if err != nil {
			return nil, err
		}
		pis = append(pis, pi)
	}
	return pis, rows.Err()
}

func (s *PostgresStore) UpdateProgramIncrement(ctx context.Context, pi *ProgramIncrement) error {
	return s.pool.QueryRow(ctx, `
		UPDATE program_increments
		SET name = $2, objective = $3, start_date = $4, end_date = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		pi.ID, pi.Name, pi.Objective, pi.StartDate, pi.EndDate,
	).Scan(&pi.UpdatedAt)
}

func (s *PostgresStore) DeleteProgramIncrement(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM program_increments WHERE id = $1`, id)
	return err
}

const resourceColumns = `id, name, role, skills, created_at, updated_at`

func scanResource(row pgx.Row) (*Resource, error) {
	r := &Resource{}
	var role sql.NullString
	var skillsJSON []byte
	err := row.Scan(&r.ID, &r.Name, &role, &skillsJSON, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if role.Valid {
		r.Role = role.String
	}
	if skillsJSON != nil {
		_ = json.Unmarshal(skillsJSON, &r.Skills)
	}
	return r, nil
}

func (s *PostgresStore) CreateResource(ctx context.Context, r *Resource) error {
	skillsJSON, _ := json.Marshal(r.Skills)
	return s.pool.QueryRow(ctx, `
		INSERT INTO resources (name, role, skills)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`,
		r.Name, r.Role, skillsJSON,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
}

func (s *PostgresStore) GetResource(ctx context.Context, id uuid.UUID) (*Resource, error) {
	r, err := scanResource(s.pool.QueryRow(ctx, `
		SELECT `+resourceColumns+` FROM resources WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *PostgresStore) ListResources(ctx context.Context) ([]*Resource, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+resourceColumns+` FROM resources ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resources []*Resource
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, r)
	}
	return resources, rows.Err()
}

func (s *PostgresStore) UpdateResource(ctx context.Context, r *Resource) error {
	skillsJSON, _ := json.Marshal(r.Skills)
	return s.pool.QueryRow(ctx, `
		UPDATE resources SET name = $2, role = $3, skills = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		r.ID, r.Name, r.Role, skillsJSON,
	).Scan(&r.UpdatedAt)
}

func (s *PostgresStore) DeleteResource(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM resources WHERE id = $1`, id)
	return err
}
