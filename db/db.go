package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cmdpad/model"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when no command has the requested id.
var ErrNotFound = errors.New("command not found")

type DB struct {
	conn *sql.DB
}

// Open opens (creating if needed) the command store at path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}

	return db, nil
}

func (d *DB) migrate() error {
	_, err := d.conn.Exec(`
		CREATE TABLE IF NOT EXISTS commands (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tags TEXT NOT NULL,
			description TEXT,
			command TEXT NOT NULL
		)
	`)
	return err
}

func (d *DB) Close() error {
	return d.conn.Close()
}

// List returns every command in storage order.
func (d *DB) List() ([]model.Command, error) {
	rows, err := d.conn.Query(`
		SELECT id, tags, COALESCE(description, ''), command
		FROM commands
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list commands: %w", err)
	}
	defer rows.Close()

	var commands []model.Command
	for rows.Next() {
		var c model.Command
		if err := rows.Scan(&c.ID, &c.Tags, &c.Description, &c.Cmd); err != nil {
			return nil, fmt.Errorf("scan command: %w", err)
		}
		commands = append(commands, c)
	}
	return commands, rows.Err()
}

func (d *DB) Get(id int64) (model.Command, error) {
	c := model.Command{ID: id}
	err := d.conn.QueryRow(
		`SELECT tags, COALESCE(description, ''), command FROM commands WHERE id = ?`,
		id,
	).Scan(&c.Tags, &c.Description, &c.Cmd)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Command{}, fmt.Errorf("get %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Command{}, fmt.Errorf("get %d: %w", id, err)
	}
	return c, nil
}

func (d *DB) Add(tags, description, cmd string) (int64, error) {
	result, err := d.conn.Exec(
		`INSERT INTO commands (tags, description, command) VALUES (?, ?, ?)`,
		tags, description, cmd,
	)
	if err != nil {
		return 0, fmt.Errorf("add command: %w", err)
	}
	return result.LastInsertId()
}

func (d *DB) Update(id int64, tags, description, cmd string) error {
	result, err := d.conn.Exec(
		`UPDATE commands SET tags = ?, description = ?, command = ? WHERE id = ?`,
		tags, description, cmd, id,
	)
	if err != nil {
		return fmt.Errorf("update %d: %w", id, err)
	}
	return expectOne(result, id)
}

func (d *DB) Delete(id int64) error {
	result, err := d.conn.Exec(`DELETE FROM commands WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete %d: %w", id, err)
	}
	return expectOne(result, id)
}

func expectOne(result sql.Result, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("command %d: %w", id, ErrNotFound)
	}
	return nil
}
