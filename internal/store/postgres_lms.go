package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const courseColumns = `id, title, description, category, price_cents, published, created_at, updated_at`

func scanCourse(row pgx.Row) (*Course, error) {
	c := &Course{}
	var description, category sql.NullString
	err := row.Scan(&c.ID, &c.Title, &description, &category, &c.PriceCents, &c.Published,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		c.Description = description.String
	}
	if category.Valid {
		c.Category = category.String
	}
	return c, nil
}

func (s *PostgresStore) CreateCourse(ctx context.Context, c *Course) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO courses (title, description, category, price_cents, published)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		c.Title, c.Description, c.Category, c.PriceCents, c.Published,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (s *PostgresStore) GetCourse(ctx context.Context, id uuid.UUID) (*Course, error) {
	c, err := scanCourse(s.pool.QueryRow(ctx, `
		SELECT `+courseColumns+` FROM courses WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *PostgresStore) ListCourses(ctx context.Context) ([]*Course, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+courseColumns+` FROM courses ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (s *PostgresStore) UpdateCourse(ctx context.Context, c *Course) error {
	return s.pool.QueryRow(ctx, `
		UPDATE courses
		SET title = $2, description = $3, category = $4, price_cents = $5, published = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		c.ID, c.Title, c.Description, c.Category, c.PriceCents, c.Published,
	).Scan(&c.UpdatedAt)
}

func (s *PostgresStore) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	return err
}

const videoColumns = `id, course_id, title, url, duration_seconds, position, created_at, updated_at`

func scanVideo(row pgx.Row) (*Video, error) {
	v := &Video{}
	err := row.Scan(&v.ID, &v.CourseID, &v.Title, &v.URL, &v.DurationSeconds, &v.Position,
		&v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *PostgresStore) CreateVideo(ctx context.Context, v *Video) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO videos (course_id, title, url, duration_seconds, position)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		v.CourseID, v.Title, v.URL, v.DurationSeconds, v.Position,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
}

func (s *PostgresStore) GetVideo(ctx context.Context, id uuid.UUID) (*Video, error) {
	v, err := scanVideo(s.pool.QueryRow(ctx, `
		SELECT `+videoColumns+` FROM videos WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *PostgresStore) ListVideosByCourse(ctx context.Context, courseID uuid.UUID) ([]*Video, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+videoColumns+` FROM videos
		WHERE course_id = $1 ORDER BY position ASC, created_at ASC`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []*Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func (s *PostgresStore) UpdateVideo(ctx context.Context, v *Video) error {
	return s.pool.QueryRow(ctx, `
		UPDATE videos
		SET title = $2, url = $3, duration_seconds = $4, position = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		v.ID, v.Title, v.URL, v.DurationSeconds, v.Position,
	).Scan(&v.UpdatedAt)
}

func (s *PostgresStore) DeleteVideo(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	return err
}

func (s *PostgresStore) CreateDocument(ctx context.Context, d *Document) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO documents (video_id, title, url, content_type, size_bytes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		d.VideoID, d.Title, d.URL, d.ContentType, d.SizeBytes,
	).Scan(&d.ID, &d.CreatedAt)
}

func (s *PostgresStore) ListDocumentsByVideo(ctx context.Context, videoID uuid.UUID) ([]*Document, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, video_id, title, url, content_type, size_bytes, created_at
		FROM documents WHERE video_id = $1 ORDER BY created_at ASC`, videoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		d := &Document{}
		var contentType sql.NullString
		if err := rows.Scan(&d.ID, &d.VideoID, &d.Title, &d.URL, &contentType, &d.SizeBytes, &d.CreatedAt); err != nil {
			return nil, err
		}
		if contentType.Valid {
			d.ContentType = contentType.String
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *PostgresStore) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	return err
}
