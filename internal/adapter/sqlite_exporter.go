package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	m "pointcov.dev/pkg/pointcov/internal/model"
)

const exportSchema = `
CREATE TABLE files (
    id INTEGER PRIMARY KEY,
    path TEXT NOT NULL,
    short_path TEXT NOT NULL,
    hash TEXT
);

CREATE TABLE categories (
    file_id INTEGER NOT NULL REFERENCES files(id),
    category TEXT NOT NULL,
    discovered INTEGER NOT NULL,
    hit INTEGER NOT NULL,
    percentage REAL,
    PRIMARY KEY (file_id, category)
);

CREATE TABLE points (
    file_id INTEGER NOT NULL REFERENCES files(id),
    category TEXT NOT NULL,
    point_id INTEGER NOT NULL,
    label TEXT,
    start_line INTEGER NOT NULL,
    start_col INTEGER NOT NULL,
    end_line INTEGER NOT NULL,
    end_col INTEGER NOT NULL,
    hit INTEGER NOT NULL,
    left_span TEXT,
    right_span TEXT,
    arms INTEGER,
    extent TEXT,
    PRIMARY KEY (file_id, category, point_id)
);

CREATE INDEX idx_points_hit ON points(category, hit);
`

// sqliteHeader opens every SQLite database file.
const sqliteHeader = "SQLite format 3\x00"

// ErrNotSQLiteDatabase is returned instead of overwriting a file that is not
// a SQLite database.
var ErrNotSQLiteDatabase = errors.New("not a sqlite database")

// SQLiteExporter writes reports into a fresh SQLite database for ad-hoc
// querying. Percentages that are undefined are stored as NULL.
type SQLiteExporter interface {
	Export(ctx context.Context, path m.Path, reports []m.FileReport) error
}

// LocalSQLiteExporter is the zombiezen-backed SQLiteExporter.
type LocalSQLiteExporter struct{}

// NewSQLiteExporter constructs a LocalSQLiteExporter.
func NewSQLiteExporter() *LocalSQLiteExporter {
	return &LocalSQLiteExporter{}
}

// Export replaces the database at path with the given reports.
func (e *LocalSQLiteExporter) Export(ctx context.Context, path m.Path, reports []m.FileReport) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := removeDatabase(path); err != nil {
		return err
	}

	conn, err := sqlite.OpenConn(string(path), sqlite.OpenCreate, sqlite.OpenReadWrite, sqlite.OpenWAL)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if err := sqlitex.ExecuteTransient(conn, "PRAGMA synchronous = NORMAL", nil); err != nil {
		return err
	}

	if err := sqlitex.ExecuteScript(conn, exportSchema, nil); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	endFn, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer endFn(&err)

	for i, report := range reports {
		if err = ctx.Err(); err != nil {
			return err
		}

		fileID := int64(i + 1)
		if err = insertFile(conn, fileID, report.Source); err != nil {
			return err
		}

		if err = insertCategories(conn, fileID, report.Categories); err != nil {
			return err
		}
	}

	slog.Debug("sqlite export written", "path", path, "files", len(reports))

	return nil
}

func insertFile(conn *sqlite.Conn, id int64, file m.File) error {
	stmt, err := conn.Prepare(`INSERT INTO files (id, path, short_path, hash) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare file insert: %w", err)
	}

	stmt.BindInt64(1, id)
	stmt.BindText(2, string(file.FullPath))
	stmt.BindText(3, string(file.ShortPath))
	bindTextOrNull(stmt, 4, file.Hash)

	if _, err := stmt.Step(); err != nil {
		return fmt.Errorf("insert file %s: %w", file.ShortPath, err)
	}

	return stmt.Reset()
}

func insertCategories(conn *sqlite.Conn, fileID int64, categories []m.CategoryReport) error {
	catStmt, err := conn.Prepare(`INSERT INTO categories (file_id, category, discovered, hit, percentage) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare category insert: %w", err)
	}

	pointStmt, err := conn.Prepare(`INSERT INTO points (file_id, category, point_id, label, start_line, start_col, end_line, end_col, hit, left_span, right_span, arms, extent) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare point insert: %w", err)
	}

	for _, cr := range categories {
		catStmt.BindInt64(1, fileID)
		catStmt.BindText(2, cr.Category.String())
		catStmt.BindInt64(3, int64(cr.Discovered))
		catStmt.BindInt64(4, int64(cr.Hit))

		if cr.Percentage.Defined() {
			catStmt.BindFloat(5, float64(cr.Percentage))
		} else {
			catStmt.BindNull(5)
		}

		if _, err := catStmt.Step(); err != nil {
			return fmt.Errorf("insert category %s: %w", cr.Category, err)
		}

		_ = catStmt.Reset()

		for _, p := range cr.Points {
			bindPoint(pointStmt, fileID, cr.Category, p)

			if _, err := pointStmt.Step(); err != nil {
				return fmt.Errorf("insert point %s %d: %w", cr.Category, p.ID, err)
			}

			_ = pointStmt.Reset()
		}
	}

	return nil
}

func bindPoint(stmt *sqlite.Stmt, fileID int64, category m.Category, p m.PointReport) {
	stmt.BindInt64(1, fileID)
	stmt.BindText(2, category.String())
	stmt.BindInt64(3, int64(p.ID))
	bindTextOrNull(stmt, 4, p.Label)
	stmt.BindInt64(5, int64(p.Span.Start.Line))
	stmt.BindInt64(6, int64(p.Span.Start.Column))
	stmt.BindInt64(7, int64(p.Span.End.Line))
	stmt.BindInt64(8, int64(p.Span.End.Column))
	stmt.BindBool(9, p.Hit)
	bindSpanOrNull(stmt, 10, p.Left)
	bindSpanOrNull(stmt, 11, p.Right)

	if p.Arms != nil {
		stmt.BindInt64(12, int64(*p.Arms))
	} else {
		stmt.BindNull(12)
	}

	bindSpanOrNull(stmt, 13, p.Extent)
}

func bindTextOrNull(stmt *sqlite.Stmt, param int, value string) {
	if value == "" {
		stmt.BindNull(param)
		return
	}

	stmt.BindText(param, value)
}

func bindSpanOrNull(stmt *sqlite.Stmt, param int, span *m.Span) {
	if span == nil {
		stmt.BindNull(param)
		return
	}

	stmt.BindText(param, span.String())
}

// removeDatabase deletes an earlier export at path with its WAL files. Files
// that are not SQLite databases are left alone.
func removeDatabase(path m.Path) error {
	info, err := os.Stat(string(path))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrNotSQLiteDatabase, path)
	}

	if info.Size() > 0 {
		ok, err := hasSQLiteHeader(path)
		if err != nil {
			return err
		}

		if !ok {
			return fmt.Errorf("%w: refusing to overwrite %s", ErrNotSQLiteDatabase, path)
		}
	}

	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(string(path) + suffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", string(path)+suffix, err)
		}
	}

	return nil
}

func hasSQLiteHeader(path m.Path) (bool, error) {
	f, err := os.Open(string(path))
	if err != nil {
		return false, err
	}

	defer func() {
		_ = f.Close()
	}()

	header := make([]byte, len(sqliteHeader))
	if _, err := io.ReadFull(f, header); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return false, nil
		}

		return false, err
	}

	return string(header) == sqliteHeader, nil
}
