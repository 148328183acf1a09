package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sqlite "modernc.org/sqlite" // pure go sqlite driver
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/huwdunnit/snookerup/internal/domain/criteria"
	"github.com/huwdunnit/snookerup/internal/domain/model"
	"github.com/huwdunnit/snookerup/internal/domain/page"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	first_name TEXT NOT NULL DEFAULT '',
	last_name  TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL UNIQUE,
	password   TEXT NOT NULL DEFAULT '',
	admin      INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS routines (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL DEFAULT '',
	description    TEXT NOT NULL DEFAULT '[]',
	tags           TEXT NOT NULL DEFAULT '[]',
	cushion_limits TEXT NOT NULL DEFAULT '[]',
	colours        TEXT NOT NULL DEFAULT '[]',
	balls          TEXT,
	images         TEXT NOT NULL DEFAULT '[]',
	can_loop       INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS scores (
	id            TEXT PRIMARY KEY,
	value         INTEGER NOT NULL DEFAULT 0,
	user_id       TEXT NOT NULL,
	routine_id    TEXT NOT NULL,
	date_time     INTEGER NOT NULL,
	cushion_limit INTEGER,
	colours       TEXT,
	num_balls     INTEGER,
	loop          INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_scores_user ON scores(user_id);
CREATE INDEX IF NOT EXISTS idx_scores_routine ON scores(routine_id);
`

// SQLiteStore is a Store backed by an embedded SQLite database. List
// criteria translate to a single conjunctive WHERE clause, so filtering
// and counting happen inside the database. Native order is rowid, i.e.
// insertion order.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and
// ensures the schema exists.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

var _ Store = (*SQLiteStore)(nil)

func (s *SQLiteStore) InsertUser(ctx context.Context, u model.User) (model.User, error) {
	defer observe("insert_user", time.Now())
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, first_name, last_name, email, password, admin) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.FirstName, u.LastName, u.Email, u.Password, u.Admin)
	if err != nil {
		var serr *sqlite.Error
		if errors.As(err, &serr) && serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return model.User{}, ErrDuplicateEmail
		}
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (s *SQLiteStore) GetUser(ctx context.Context, id string) (model.User, error) {
	defer observe("get_user", time.Now())
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, email, password, admin FROM users WHERE id = ?`, id))
}

func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	defer observe("get_user_by_email", time.Now())
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, email, password, admin FROM users WHERE email = ?`, email))
}

func (s *SQLiteStore) scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Password, &u.Admin)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

func (s *SQLiteStore) ListUsers(ctx context.Context, pg page.Request) ([]model.User, int64, error) {
	defer observe("list_users", time.Now())
	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, email, password, admin FROM users ORDER BY rowid LIMIT ? OFFSET ?`,
		pg.Size, pg.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Password, &u.Admin); err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (s *SQLiteStore) InsertRoutine(ctx context.Context, r model.Routine) (model.Routine, error) {
	defer observe("insert_routine", time.Now())
	var balls any
	if r.Balls != nil {
		b, err := json.Marshal(r.Balls)
		if err != nil {
			return model.Routine{}, fmt.Errorf("encode balls: %w", err)
		}
		balls = string(b)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO routines (id, title, description, tags, cushion_limits, colours, balls, images, can_loop)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Title, encodeList(r.Description), encodeList(r.Tags),
		encodeList(r.CushionLimits), encodeList(r.Colours), balls, encodeList(r.Images), r.CanLoop)
	if err != nil {
		return model.Routine{}, fmt.Errorf("insert routine: %w", err)
	}
	return r, nil
}

func (s *SQLiteStore) GetRoutine(ctx context.Context, id string) (model.Routine, error) {
	defer observe("get_routine", time.Now())
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, tags, cushion_limits, colours, balls, images, can_loop
		 FROM routines WHERE id = ?`, id)
	if err != nil {
		return model.Routine{}, fmt.Errorf("get routine: %w", err)
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return model.Routine{}, err
		}
		return model.Routine{}, ErrNotFound
	}
	return scanRoutine(rows)
}

func (s *SQLiteStore) ListRoutines(ctx context.Context, crit criteria.RoutineCriteria, pg page.Request) ([]model.Routine, int64, error) {
	defer observe("list_routines", time.Now())
	where, args := "", []any{}
	if len(crit.Tags) > 0 {
		// OR semantics: a routine matches when any supplied tag appears
		// in its tag set.
		placeholders := strings.Repeat("?,", len(crit.Tags))
		where = ` WHERE EXISTS (SELECT 1 FROM json_each(routines.tags) WHERE json_each.value IN (` +
			placeholders[:len(placeholders)-1] + `))`
		for _, t := range crit.Tags {
			args = append(args, t)
		}
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM routines`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count routines: %w", err)
	}

	query := `SELECT id, title, description, tags, cushion_limits, colours, balls, images, can_loop
		 FROM routines` + where + ` ORDER BY rowid LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, append(args, pg.Size, pg.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("list routines: %w", err)
	}
	defer func() { _ = rows.Close() }()

	routines := []model.Routine{}
	for rows.Next() {
		r, err := scanRoutine(rows)
		if err != nil {
			return nil, 0, err
		}
		routines = append(routines, r)
	}
	return routines, total, rows.Err()
}

func (s *SQLiteStore) InsertScore(ctx context.Context, sc model.Score) (model.Score, error) {
	defer observe("insert_score", time.Now())
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (id, value, user_id, routine_id, date_time, cushion_limit, colours, num_balls, loop)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sc.ID, sc.Value, sc.UserID, sc.RoutineID, sc.DateTime.Unix(),
		sc.CushionLimit, sc.Colours, sc.NumBalls, sc.Loop)
	if err != nil {
		return model.Score{}, fmt.Errorf("insert score: %w", err)
	}
	return sc, nil
}

func (s *SQLiteStore) GetScore(ctx context.Context, id string) (model.Score, error) {
	defer observe("get_score", time.Now())
	rows, err := s.db.QueryContext(ctx, scoreSelect+` WHERE id = ?`, id)
	if err != nil {
		return model.Score{}, fmt.Errorf("get score: %w", err)
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return model.Score{}, err
		}
		return model.Score{}, ErrNotFound
	}
	return scanScore(rows)
}

const scoreSelect = `SELECT id, value, user_id, routine_id, date_time, cushion_limit, colours, num_balls, loop FROM scores`

func (s *SQLiteStore) ListScores(ctx context.Context, crit criteria.ScoreCriteria, pg page.Request) ([]model.Score, int64, error) {
	defer observe("list_scores", time.Now())
	where, args := scoreWhere(crit)

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scores`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count scores: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, scoreSelect+where+` ORDER BY rowid LIMIT ? OFFSET ?`,
		append(args, pg.Size, pg.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("list scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	scores := []model.Score{}
	for rows.Next() {
		sc, err := scanScore(rows)
		if err != nil {
			return nil, 0, err
		}
		scores = append(scores, sc)
	}
	return scores, total, rows.Err()
}

func (s *SQLiteStore) DeleteScore(ctx context.Context, id string) error {
	defer observe("delete_score", time.Now())
	res, err := s.db.ExecContext(ctx, `DELETE FROM scores WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete score: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete score: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Counts returns the number of records per collection, for metrics.
func (s *SQLiteStore) Counts(ctx context.Context) (users, routines, scores int) {
	_ = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&users)
	_ = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM routines`).Scan(&routines)
	_ = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scores`).Scan(&scores)
	return users, routines, scores
}

// scoreWhere builds the conjunctive WHERE clause for score criteria.
// Unset fields contribute no clause; the date bounds are inclusive.
func scoreWhere(crit criteria.ScoreCriteria) (string, []any) {
	clauses := []string{}
	args := []any{}
	if crit.From != nil {
		clauses = append(clauses, "date_time >= ?")
		args = append(args, crit.From.Unix())
	}
	if crit.To != nil {
		clauses = append(clauses, "date_time <= ?")
		args = append(args, crit.To.Unix())
	}
	if crit.RoutineID != nil {
		clauses = append(clauses, "routine_id = ?")
		args = append(args, *crit.RoutineID)
	}
	if crit.UserID != nil {
		clauses = append(clauses, "user_id = ?")
		args = append(args, *crit.UserID)
	}
	if crit.CushionLimit != nil {
		clauses = append(clauses, "cushion_limit = ?")
		args = append(args, *crit.CushionLimit)
	}
	if crit.Colours != nil {
		clauses = append(clauses, "colours = ?")
		args = append(args, *crit.Colours)
	}
	if crit.NumBalls != nil {
		clauses = append(clauses, "num_balls = ?")
		args = append(args, *crit.NumBalls)
	}
	if crit.Loop != nil {
		clauses = append(clauses, "loop = ?")
		args = append(args, *crit.Loop)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoutine(row rowScanner) (model.Routine, error) {
	var (
		r                                              model.Routine
		description, tags, cushionLimits, colours, img string
		balls                                          sql.NullString
	)
	if err := row.Scan(&r.ID, &r.Title, &description, &tags, &cushionLimits, &colours, &balls, &img, &r.CanLoop); err != nil {
		return model.Routine{}, fmt.Errorf("scan routine: %w", err)
	}
	if err := errors.Join(
		decodeList(description, &r.Description),
		decodeList(tags, &r.Tags),
		decodeList(cushionLimits, &r.CushionLimits),
		decodeList(colours, &r.Colours),
		decodeList(img, &r.Images),
	); err != nil {
		return model.Routine{}, fmt.Errorf("decode routine %s: %w", r.ID, err)
	}
	if balls.Valid {
		r.Balls = &model.Balls{}
		if err := json.Unmarshal([]byte(balls.String), r.Balls); err != nil {
			return model.Routine{}, fmt.Errorf("decode routine %s balls: %w", r.ID, err)
		}
	}
	return r, nil
}

func scanScore(row rowScanner) (model.Score, error) {
	var (
		sc           model.Score
		unix         int64
		cushionLimit sql.NullInt64
		colours      sql.NullString
		numBalls     sql.NullInt64
	)
	if err := row.Scan(&sc.ID, &sc.Value, &sc.UserID, &sc.RoutineID, &unix, &cushionLimit, &colours, &numBalls, &sc.Loop); err != nil {
		return model.Score{}, fmt.Errorf("scan score: %w", err)
	}
	sc.DateTime = model.NewDateTime(time.Unix(unix, 0).UTC())
	if cushionLimit.Valid {
		v := int(cushionLimit.Int64)
		sc.CushionLimit = &v
	}
	if colours.Valid {
		v := colours.String
		sc.Colours = &v
	}
	if numBalls.Valid {
		v := int(numBalls.Int64)
		sc.NumBalls = &v
	}
	return sc, nil
}

func encodeList[T any](list []T) string {
	if list == nil {
		return "[]"
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func decodeList[T any](raw string, into *[]T) error {
	if raw == "" || raw == "[]" {
		return nil
	}
	return json.Unmarshal([]byte(raw), into)
}
