package storyboard

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLiteStore persists projects into normalized projects/scenes/shots
// tables. Save rewrites the project's rows inside one transaction so a
// failed write never leaves a half-updated project behind.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Save(ctx context.Context, p *Project) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO projects (name, title, fps, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			title = excluded.title,
			fps = excluded.fps,
			updated_at = excluded.updated_at
	`, p.Name, p.Title, p.FPS, p.CreatedAt.Format(time.RFC3339), p.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM shots WHERE project_name = ?", p.Name); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM scenes WHERE project_name = ?", p.Name); err != nil {
		return err
	}

	for i := range p.Scenes {
		scene := &p.Scenes[i]
		_, err := tx.ExecContext(ctx, `
			INSERT INTO scenes (project_name, number, title, purpose, duration, transition_duration)
			VALUES (?, ?, ?, ?, ?, ?)
		`, p.Name, scene.Number, scene.Title, scene.Purpose, scene.Duration, scene.TransitionDuration)
		if err != nil {
			return err
		}

		for j := range scene.Shots {
			shot := &scene.Shots[j]
			_, err := tx.ExecContext(ctx, `
				INSERT INTO shots (project_name, scene_number, number, narration, description, media_ref, duration, transition_duration)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, p.Name, scene.Number, shot.Number, shot.Narration, shot.Description, shot.MediaRef, shot.Duration, shot.TransitionDuration)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) Load(ctx context.Context, name string) (*Project, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, title, fps, created_at, updated_at
		FROM projects WHERE name = ?
	`, name)

	var p Project
	var createdAt, updatedAt string
	err := row.Scan(&p.Name, &p.Title, &p.FPS, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	if err := s.loadScenes(ctx, &p); err != nil {
		return nil, err
	}

	// Range validation on load is the storage layer's responsibility; the
	// builder only re-checks structural emptiness.
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("stored project %q is invalid: %w", name, err)
	}
	return &p, nil
}

func (s *SQLiteStore) loadScenes(ctx context.Context, p *Project) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT number, title, purpose, duration, transition_duration
		FROM scenes WHERE project_name = ? ORDER BY number
	`, p.Name)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var sc Scene
		if err := rows.Scan(&sc.Number, &sc.Title, &sc.Purpose, &sc.Duration, &sc.TransitionDuration); err != nil {
			return err
		}
		p.Scenes = append(p.Scenes, sc)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	shotRows, err := s.db.QueryContext(ctx, `
		SELECT scene_number, number, narration, description, media_ref, duration, transition_duration
		FROM shots WHERE project_name = ? ORDER BY scene_number, number
	`, p.Name)
	if err != nil {
		return err
	}
	defer shotRows.Close()

	for shotRows.Next() {
		var sceneNumber int
		var sh Shot
		if err := shotRows.Scan(&sceneNumber, &sh.Number, &sh.Narration, &sh.Description, &sh.MediaRef, &sh.Duration, &sh.TransitionDuration); err != nil {
			return err
		}
		scene := p.SceneByNumber(sceneNumber)
		if scene == nil {
			return fmt.Errorf("shot %d references missing scene %d", sh.Number, sceneNumber)
		}
		scene.Shots = append(scene.Shots, sh)
	}
	return shotRows.Err()
}

func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM projects ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	// scenes and shots cascade via foreign keys
	_, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE name = ?", name)
	return err
}
