package index

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/emilycares/java-lsp/java"
)

// Store persists declaration models in SQLite so a workspace does not have
// to rescan its jars on every start.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS classes (
  id              INTEGER PRIMARY KEY,
  name            TEXT NOT NULL,
  package         TEXT NOT NULL DEFAULT '',
  kind            TEXT NOT NULL,
  access          INTEGER NOT NULL,
  super_class     TEXT NOT NULL DEFAULT '',
  interfaces      TEXT NOT NULL DEFAULT '',
  source          TEXT NOT NULL DEFAULT '',
  UNIQUE(package, name)
);

CREATE TABLE IF NOT EXISTS fields (
  id              INTEGER PRIMARY KEY,
  class_id        INTEGER NOT NULL REFERENCES classes(id),
  ordinal         INTEGER NOT NULL,
  name            TEXT NOT NULL,
  access          INTEGER NOT NULL,
  type            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS methods (
  id              INTEGER PRIMARY KEY,
  class_id        INTEGER NOT NULL REFERENCES classes(id),
  ordinal         INTEGER NOT NULL,
  name            TEXT NOT NULL,
  access          INTEGER NOT NULL,
  return_type     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS parameters (
  id              INTEGER PRIMARY KEY,
  method_id       INTEGER NOT NULL REFERENCES methods(id),
  ordinal         INTEGER NOT NULL,
  name            TEXT NOT NULL DEFAULT '',
  type            TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_classes_name ON classes(name);
CREATE INDEX IF NOT EXISTS idx_classes_source ON classes(source);
CREATE INDEX IF NOT EXISTS idx_fields_class ON fields(class_id);
CREATE INDEX IF NOT EXISTS idx_methods_class ON methods(class_id);
CREATE INDEX IF NOT EXISTS idx_parameters_method ON parameters(method_id);
`

// SaveClass transactionally replaces the stored rows of one class. source
// records where the class came from, a file or archive path.
func (s *Store) SaveClass(source string, class *java.Class) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteClassTx(tx, class.Package, class.Name); err != nil {
		return err
	}

	res, err := tx.Exec(
		"INSERT INTO classes (name, package, kind, access, super_class, interfaces, source) VALUES (?, ?, ?, ?, ?, ?, ?)",
		class.Name, class.Package, string(class.Kind), uint16(class.Access),
		class.SuperClass, strings.Join(class.Interfaces, ","), source,
	)
	if err != nil {
		return fmt.Errorf("insert class: %w", err)
	}
	classID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("class id: %w", err)
	}

	for i, field := range class.Fields {
		_, err := tx.Exec(
			"INSERT INTO fields (class_id, ordinal, name, access, type) VALUES (?, ?, ?, ?, ?)",
			classID, i, field.Name, uint16(field.Access), field.Type.String(),
		)
		if err != nil {
			return fmt.Errorf("insert field: %w", err)
		}
	}

	for i, method := range class.Methods {
		res, err := tx.Exec(
			"INSERT INTO methods (class_id, ordinal, name, access, return_type) VALUES (?, ?, ?, ?, ?)",
			classID, i, method.Name, uint16(method.Access), method.ReturnType.String(),
		)
		if err != nil {
			return fmt.Errorf("insert method: %w", err)
		}
		methodID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("method id: %w", err)
		}
		for j, param := range method.Parameters {
			_, err := tx.Exec(
				"INSERT INTO parameters (method_id, ordinal, name, type) VALUES (?, ?, ?, ?)",
				methodID, j, param.Name, param.Type.String(),
			)
			if err != nil {
				return fmt.Errorf("insert parameter: %w", err)
			}
		}
	}

	return tx.Commit()
}

// SaveIndex persists every class the index currently holds.
func (s *Store) SaveIndex(ix *Index) error {
	for _, path := range ix.ClassPaths() {
		if err := s.SaveClass("", ix.Get(path)); err != nil {
			return err
		}
	}
	return nil
}

// LoadClass reads one class back by fully qualified name. Returns nil
// without error when the class is not stored.
func (s *Store) LoadClass(classPath string) (*java.Class, error) {
	pkg, name := splitClassPath(classPath)

	row := s.db.QueryRow(
		"SELECT id, name, package, kind, access, super_class, interfaces FROM classes WHERE package = ? AND name = ?",
		pkg, name,
	)
	class, classID, err := scanClass(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadMembers(classID, class); err != nil {
		return nil, err
	}
	return class, nil
}

// LoadAll reads every stored class into a fresh slice, ordered by name.
func (s *Store) LoadAll() ([]*java.Class, error) {
	rows, err := s.db.Query(
		"SELECT id, name, package, kind, access, super_class, interfaces FROM classes ORDER BY package, name",
	)
	if err != nil {
		return nil, fmt.Errorf("query classes: %w", err)
	}
	defer rows.Close()

	var classes []*java.Class
	var ids []int64
	for rows.Next() {
		class, id, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, class)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan classes: %w", err)
	}

	for i, class := range classes {
		if err := s.loadMembers(ids[i], class); err != nil {
			return nil, err
		}
	}
	return classes, nil
}

// DeleteSource transactionally removes every class recorded under a source
// path, child rows first.
func (s *Store) DeleteSource(source string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query("SELECT package, name FROM classes WHERE source = ?", source)
	if err != nil {
		return fmt.Errorf("query classes by source: %w", err)
	}
	type key struct{ pkg, name string }
	var keys []key
	for rows.Next() {
		var k key
		if err := rows.Scan(&k.pkg, &k.name); err != nil {
			rows.Close()
			return fmt.Errorf("scan class key: %w", err)
		}
		keys = append(keys, k)
	}
	rows.Close()

	for _, k := range keys {
		if err := deleteClassTx(tx, k.pkg, k.name); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func deleteClassTx(tx *sql.Tx, pkg, name string) error {
	var classID int64
	err := tx.QueryRow("SELECT id FROM classes WHERE package = ? AND name = ?", pkg, name).Scan(&classID)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("query class id: %w", err)
	}

	for _, q := range []string{
		"DELETE FROM parameters WHERE method_id IN (SELECT id FROM methods WHERE class_id = ?)",
		"DELETE FROM methods WHERE class_id = ?",
		"DELETE FROM fields WHERE class_id = ?",
		"DELETE FROM classes WHERE id = ?",
	} {
		if _, err := tx.Exec(q, classID); err != nil {
			return fmt.Errorf("delete class rows: %w", err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClass(row rowScanner) (*java.Class, int64, error) {
	var (
		id         int64
		class      java.Class
		kind       string
		access     uint16
		interfaces string
	)
	err := row.Scan(&id, &class.Name, &class.Package, &kind, &access, &class.SuperClass, &interfaces)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, 0, err
		}
		return nil, 0, fmt.Errorf("scan class: %w", err)
	}
	class.Kind = java.ClassKind(kind)
	class.Access = java.Access(access)
	if interfaces != "" {
		class.Interfaces = strings.Split(interfaces, ",")
	}
	return &class, id, nil
}

func (s *Store) loadMembers(classID int64, class *java.Class) error {
	rows, err := s.db.Query(
		"SELECT name, access, type FROM fields WHERE class_id = ? ORDER BY ordinal",
		classID,
	)
	if err != nil {
		return fmt.Errorf("query fields: %w", err)
	}
	for rows.Next() {
		var (
			field  java.Field
			access uint16
			typ    string
		)
		if err := rows.Scan(&field.Name, &access, &typ); err != nil {
			rows.Close()
			return fmt.Errorf("scan field: %w", err)
		}
		field.Access = java.Access(access)
		field.Type = typeFromString(typ)
		class.Fields = append(class.Fields, field)
	}
	rows.Close()

	rows, err = s.db.Query(
		"SELECT id, name, access, return_type FROM methods WHERE class_id = ? ORDER BY ordinal",
		classID,
	)
	if err != nil {
		return fmt.Errorf("query methods: %w", err)
	}
	var methodIDs []int64
	for rows.Next() {
		var (
			id     int64
			method java.Method
			access uint16
			ret    string
		)
		if err := rows.Scan(&id, &method.Name, &access, &ret); err != nil {
			rows.Close()
			return fmt.Errorf("scan method: %w", err)
		}
		method.Access = java.Access(access)
		method.ReturnType = typeFromString(ret)
		class.Methods = append(class.Methods, method)
		methodIDs = append(methodIDs, id)
	}
	rows.Close()

	for i, methodID := range methodIDs {
		params, err := s.loadParameters(methodID)
		if err != nil {
			return err
		}
		class.Methods[i].Parameters = params
	}
	return nil
}

func (s *Store) loadParameters(methodID int64) ([]java.Parameter, error) {
	rows, err := s.db.Query(
		"SELECT name, type FROM parameters WHERE method_id = ? ORDER BY ordinal",
		methodID,
	)
	if err != nil {
		return nil, fmt.Errorf("query parameters: %w", err)
	}
	defer rows.Close()

	var params []java.Parameter
	for rows.Next() {
		var (
			param java.Parameter
			typ   string
		)
		if err := rows.Scan(&param.Name, &typ); err != nil {
			return nil, fmt.Errorf("scan parameter: %w", err)
		}
		param.Type = typeFromString(typ)
		params = append(params, param)
	}
	return params, rows.Err()
}

// typeFromString reverses JType.String: trailing [] pairs build arrays,
// the rest is a primitive name or a class name.
func typeFromString(s string) java.JType {
	if strings.HasSuffix(s, "[]") {
		return java.ArrayOf(typeFromString(strings.TrimSuffix(s, "[]")))
	}
	if t, ok := java.PrimitiveType(s); ok {
		return t
	}
	return java.ClassOf(s)
}

func splitClassPath(full string) (pkg, name string) {
	lastDot := strings.LastIndex(full, ".")
	if lastDot == -1 {
		return "", full
	}
	return full[:lastDot], full[lastDot+1:]
}
