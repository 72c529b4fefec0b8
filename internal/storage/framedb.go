package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	_ "github.com/mattn/go-sqlite3"

	"github.com/san-kum/arena/internal/dynamo"
)

const frameSchema = `
CREATE TABLE bodies (
	frame INTEGER,
	id    INTEGER, -- body index
	t     REAL,
	x     REAL,
	y     REAL,
	vx    REAL,
	vy    REAL,
	mass  REAL);
CREATE INDEX idx_frame ON bodies (frame, id);
`

const (
	insertBody  = `INSERT INTO bodies VALUES (?, ?, ?, ?, ?, ?, ?, ?);`
	queryFrame  = `SELECT t, x, y, vx, vy, mass FROM bodies WHERE frame = ? ORDER BY id ASC;`
	countFrames = `SELECT COUNT(DISTINCT frame) FROM bodies;`
)

var (
	ErrDBExists      = errors.New("storage: frame database already exists")
	ErrFrameMismatch = errors.New("storage: frame database does not match run")
)

// FrameDB stores frames one row per body, keyed by (frame, id).
type FrameDB struct {
	db *sql.DB
}

// CreateFrameDB creates a new database at path. It refuses to overwrite an
// existing file.
func CreateFrameDB(path string) (*FrameDB, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrDBExists, path)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?_journal_mode=OFF&_synchronous=OFF")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(frameSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &FrameDB{db: db}, nil
}

func OpenFrameDB(path string) (*FrameDB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, err
	}
	return &FrameDB{db: db}, nil
}

// WriteFrames inserts frames in a single transaction, numbering them from
// the given first index.
func (f *FrameDB) WriteFrames(first int, frames []dynamo.Frame) error {
	tx, err := f.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(insertBody)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i, fr := range frames {
		for id, b := range fr.Bodies {
			if _, err := stmt.Exec(first+i, id, fr.Time, b.Position[0], b.Position[1], b.Velocity[0], b.Velocity[1], b.Mass); err != nil {
				tx.Rollback()
				return fmt.Errorf("frame %d body %d: %w", first+i, id, err)
			}
		}
	}

	return tx.Commit()
}

func (f *FrameDB) ReadFrame(frame int) (dynamo.Frame, error) {
	rows, err := f.db.Query(queryFrame, frame)
	if err != nil {
		return dynamo.Frame{}, err
	}
	defer rows.Close()

	var out dynamo.Frame
	for rows.Next() {
		var b dynamo.Body
		var x, y, vx, vy float64
		if err := rows.Scan(&out.Time, &x, &y, &vx, &vy, &b.Mass); err != nil {
			return dynamo.Frame{}, err
		}
		b.Position = mgl64.Vec2{x, y}
		b.Velocity = mgl64.Vec2{vx, vy}
		out.Bodies = append(out.Bodies, b)
	}
	if err := rows.Err(); err != nil {
		return dynamo.Frame{}, err
	}
	if out.Bodies == nil {
		return dynamo.Frame{}, fmt.Errorf("frame %d: %w", frame, sql.ErrNoRows)
	}
	return out, nil
}

func (f *FrameDB) FrameCount() (int, error) {
	var n int
	err := f.db.QueryRow(countFrames).Scan(&n)
	return n, err
}

// ReadFrames reads every stored frame in frame order.
func (f *FrameDB) ReadFrames() ([]dynamo.Frame, error) {
	n, err := f.FrameCount()
	if err != nil {
		return nil, err
	}
	frames := make([]dynamo.Frame, 0, n)
	for i := 0; i < n; i++ {
		fr, err := f.ReadFrame(i)
		if err != nil {
			return nil, err
		}
		frames = append(frames, fr)
	}
	return frames, nil
}

// VerifyFrameDB reopens the database at path read-only and checks that it
// holds exactly frames, numbered from 0.
func VerifyFrameDB(path string, frames []dynamo.Frame) error {
	db, err := OpenFrameDB(path)
	if err != nil {
		return err
	}
	defer db.Close()

	got, err := db.ReadFrames()
	if err != nil {
		return err
	}
	if len(got) != len(frames) {
		return fmt.Errorf("%w: %d frames stored, want %d", ErrFrameMismatch, len(got), len(frames))
	}
	for i := range frames {
		if got[i].Time != frames[i].Time || len(got[i].Bodies) != len(frames[i].Bodies) {
			return fmt.Errorf("%w: frame %d", ErrFrameMismatch, i)
		}
		for id := range frames[i].Bodies {
			if got[i].Bodies[id] != frames[i].Bodies[id] {
				return fmt.Errorf("%w: frame %d body %d", ErrFrameMismatch, i, id)
			}
		}
	}
	return nil
}

func (f *FrameDB) Close() error {
	return f.db.Close()
}
