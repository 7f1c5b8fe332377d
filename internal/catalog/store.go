package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/power-toys/internal/component"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS switches (
	id        TEXT PRIMARY KEY,
	footprint TEXT,
	rdson     REAL,
	vbr       REAL,
	vgsth     REAL,
	rg        REAL,
	qg        REAL,
	qgd       REAL,
	qg_soft   REAL,
	cosse     REAL,
	cosst     REAL,
	qrr       REAL,
	qgs2      REAL,
	vplateau  REAL,
	kdyn      REAL,
	ktemp     REAL,
	vgs       REAL,
	vgs_min   REAL
);

CREATE TABLE IF NOT EXISTS inductors (
	id         TEXT PRIMARY KEY,
	inductance REAL,
	isat       REAL,
	length     REAL,
	width      REAL,
	height     REAL,
	dcr        REAL
);

CREATE TABLE IF NOT EXISTS evaluation_log (
	id            TEXT PRIMARY KEY,
	topology      TEXT NOT NULL,
	parts         TEXT NOT NULL,
	params_json   TEXT,
	total_loss    REAL,
	efficiency    REAL,
	outcome       TEXT NOT NULL,
	reason        TEXT,
	created_at    TEXT NOT NULL
);
`

var inductorColumns = []string{"inductance", "isat", "length", "width", "height", "dcr"}

// #endregion schema

// #region store-struct
// Store is the sqlite-backed component repository.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. runlog).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion constructor

// #region find
// Find looks the id up among switches, then inductors.
func (s *Store) Find(id string) (Record, error) {
	sw, err := s.FindSwitch(id)
	if err == nil {
		return Record{Kind: KindSwitch, Switch: &sw}, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Record{}, err
	}
	ind, err := s.FindInductor(id)
	if err == nil {
		return Record{Kind: KindInductor, Inductor: &ind}, nil
	}
	return Record{}, err
}

func switchSelect() string {
	cols := make([]string, len(component.SwitchParams))
	for i, p := range component.SwitchParams {
		cols[i] = string(p)
	}
	return "SELECT id, footprint, " + strings.Join(cols, ", ") + " FROM switches"
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSwitch(row rowScanner) (SwitchRecord, error) {
	var (
		rec       SwitchRecord
		footprint sql.NullString
		vals      = make([]sql.NullFloat64, len(component.SwitchParams))
	)
	dest := []any{&rec.ID, &footprint}
	for i := range vals {
		dest = append(dest, &vals[i])
	}
	if err := row.Scan(dest...); err != nil {
		return SwitchRecord{}, err
	}
	rec.Footprint = footprint.String
	rec.Params = make(map[component.SwitchParam]float64, len(vals))
	for i, p := range component.SwitchParams {
		if vals[i].Valid {
			rec.Params[p] = vals[i].Float64
		}
	}
	return rec, nil
}

// FindSwitch reads one MOSFET row.
func (s *Store) FindSwitch(id string) (SwitchRecord, error) {
	rec, err := scanSwitch(s.db.QueryRow(switchSelect()+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return SwitchRecord{}, fmt.Errorf("switch %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return SwitchRecord{}, fmt.Errorf("find switch %q: %w", id, err)
	}
	return rec, nil
}

func scanInductor(row rowScanner) (InductorRecord, error) {
	var (
		rec  InductorRecord
		vals [6]sql.NullFloat64
	)
	if err := row.Scan(&rec.ID, &vals[0], &vals[1], &vals[2], &vals[3], &vals[4], &vals[5]); err != nil {
		return InductorRecord{}, err
	}
	rec.Inductance = vals[0].Float64
	rec.Isat = vals[1].Float64
	rec.Length = vals[2].Float64
	rec.Width = vals[3].Float64
	rec.Height = vals[4].Float64
	rec.DCR = vals[5].Float64
	return rec, nil
}

// FindInductor reads one inductor row.
func (s *Store) FindInductor(id string) (InductorRecord, error) {
	rec, err := scanInductor(s.db.QueryRow(
		"SELECT id, "+strings.Join(inductorColumns, ", ")+" FROM inductors WHERE id = ?", id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return InductorRecord{}, fmt.Errorf("inductor %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return InductorRecord{}, fmt.Errorf("find inductor %q: %w", id, err)
	}
	return rec, nil
}

// #endregion find

// #region save
// SaveSwitch inserts or replaces a MOSFET row. Unset parameters are stored as NULL.
func (s *Store) SaveSwitch(rec SwitchRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("save switch: empty id")
	}
	cols := []string{"id", "footprint"}
	args := []any{rec.ID, rec.Footprint}
	for _, p := range component.SwitchParams {
		cols = append(cols, string(p))
		if v, ok := rec.Params[p]; ok {
			args = append(args, v)
		} else {
			args = append(args, nil)
		}
	}
	if _, err := s.db.Exec(upsert("switches", cols), args...); err != nil {
		return fmt.Errorf("save switch %q: %w", rec.ID, err)
	}
	return nil
}

// SaveInductor inserts or replaces an inductor row.
func (s *Store) SaveInductor(rec InductorRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("save inductor: empty id")
	}
	cols := append([]string{"id"}, inductorColumns...)
	args := []any{rec.ID, rec.Inductance, rec.Isat, rec.Length, rec.Width, rec.Height, rec.DCR}
	if _, err := s.db.Exec(upsert("inductors", cols), args...); err != nil {
		return fmt.Errorf("save inductor %q: %w", rec.ID, err)
	}
	return nil
}

func upsert(table string, cols []string) string {
	marks := make([]string, len(cols))
	sets := make([]string, 0, len(cols)-1)
	for i, c := range cols {
		marks[i] = "?"
		if c != "id" {
			sets = append(sets, c+" = excluded."+c)
		}
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		table, strings.Join(cols, ", "), strings.Join(marks, ", "), strings.Join(sets, ", "))
}

// #endregion save

// #region list
// ListSwitches returns every MOSFET rated at least minVbr, ordered by id.
// A zero minVbr lists all rows, including those with unknown vbr.
func (s *Store) ListSwitches(minVbr float64) ([]SwitchRecord, error) {
	q := switchSelect()
	var args []any
	if minVbr > 0 {
		q += " WHERE vbr >= ?"
		args = append(args, minVbr)
	}
	rows, err := s.db.Query(q+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("list switches: %w", err)
	}
	defer rows.Close()

	var out []SwitchRecord
	for rows.Next() {
		rec, err := scanSwitch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan switch: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListInductors returns every inductor ordered by id.
func (s *Store) ListInductors() ([]InductorRecord, error) {
	rows, err := s.db.Query("SELECT id, " + strings.Join(inductorColumns, ", ") + " FROM inductors ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list inductors: %w", err)
	}
	defer rows.Close()

	var out []InductorRecord
	for rows.Next() {
		rec, err := scanInductor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inductor: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// #endregion list

// #region repair
// Repair replaces NULL footprints with '' and NULL numerics with 0 so that
// exported sheets carry no blanks. Returns the number of rows touched.
func (s *Store) Repair() (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var total int64
	swCols := []string{"footprint"}
	for _, p := range component.SwitchParams {
		swCols = append(swCols, string(p))
	}
	for _, t := range []struct {
		table string
		cols  []string
	}{
		{"switches", swCols},
		{"inductors", inductorColumns},
	} {
		sets := make([]string, len(t.cols))
		nulls := make([]string, len(t.cols))
		for i, c := range t.cols {
			def := "0"
			if c == "footprint" {
				def = "''"
			}
			sets[i] = fmt.Sprintf("%s = COALESCE(%s, %s)", c, c, def)
			nulls[i] = c + " IS NULL"
		}
		res, err := tx.Exec(fmt.Sprintf("UPDATE %s SET %s WHERE %s",
			t.table, strings.Join(sets, ", "), strings.Join(nulls, " OR ")))
		if err != nil {
			return 0, fmt.Errorf("repair %s: %w", t.table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("repair %s: %w", t.table, err)
		}
		total += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return total, nil
}

// #endregion repair

// #region exists
func (s *Store) exists(table, id string) (bool, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM "+table+" WHERE id = ?", id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("lookup %s %q: %w", table, id, err)
	}
	return n > 0, nil
}

// #endregion exists
