package facilityspread

import (
	"database/sql"
	"fmt"

	"github.com/segmentio/ksuid"
	_ "github.com/mattn/go-sqlite3"
)

// CensusSQLiteLogger is a CensusLogger that writes tick rows into a SQLite
// table instead of a CSV file, following the teacher's SQLiteLogger
// WAL-mode-open/prepare/exec-per-row/commit-on-close pattern
// (sqlite_logger.go), generalized from one table per genotype-event kind
// to one Census table per run.
type CensusSQLiteLogger struct {
	path      string
	runID     ksuid.KSUID
	tableName string

	db   *sql.DB
	tx   *sql.Tx
	stmt *sql.Stmt
}

// NewCensusSQLiteLogger creates a logger that will write to a table named
// Census_<runID> in the SQLite database at path.
func NewCensusSQLiteLogger(path string, runID ksuid.KSUID) *CensusSQLiteLogger {
	return &CensusSQLiteLogger{
		path:      path,
		runID:     runID,
		tableName: "Census_" + runID.String(),
	}
}

// Init opens the database, connecting with WAL journaling and exclusive
// locking as the teacher's OpenSQLiteDBOptimized does, and creates this
// run's table.
func (l *CensusSQLiteLogger) Init() error {
	db, err := openSQLiteDBOptimized(l.path)
	if err != nil {
		return err
	}
	l.db = db

	createStmt := fmt.Sprintf(`create table %s (
		tick integer not null primary key,
		s integer, e integer, p integer, i_s integer, i_a integer, r integer, h integer, d integer,
		newly_s integer, newly_e integer, newly_p integer, newly_i_s integer,
		newly_i_a integer, newly_r integer, newly_h integer, newly_d integer
	)`, l.tableName)
	if _, err := l.db.Exec(createStmt); err != nil {
		return fmt.Errorf("%q: %s", err, createStmt)
	}

	tx, err := l.db.Begin()
	if err != nil {
		return err
	}
	l.tx = tx

	insertStmt := fmt.Sprintf(
		`insert into %s values(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`, l.tableName)
	stmt, err := tx.Prepare(insertStmt)
	if err != nil {
		return err
	}
	l.stmt = stmt
	return nil
}

// WriteTick inserts one tick's row within the logger's open transaction.
func (l *CensusSQLiteLogger) WriteTick(rec CensusRecord) error {
	_, err := l.stmt.Exec(
		rec.Tick,
		rec.Counts[Susceptible], rec.Counts[Exposed], rec.Counts[Presymp], rec.Counts[InfectedSymp],
		rec.Counts[InfectedAsymp], rec.Counts[Recovered], rec.Counts[Hospitalized], rec.Counts[Dead],
		rec.Newly[Susceptible], rec.Newly[Exposed], rec.Newly[Presymp], rec.Newly[InfectedSymp],
		rec.Newly[InfectedAsymp], rec.Newly[Recovered], rec.Newly[Hospitalized], rec.Newly[Dead],
	)
	return err
}

// Flush commits the current transaction and opens a fresh one, so a crash
// after a day boundary loses at most one day of rows.
func (l *CensusSQLiteLogger) Flush() error {
	if err := l.stmt.Close(); err != nil {
		return err
	}
	if err := l.tx.Commit(); err != nil {
		return err
	}
	tx, err := l.db.Begin()
	if err != nil {
		return err
	}
	l.tx = tx

	insertStmt := fmt.Sprintf(
		`insert into %s values(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`, l.tableName)
	stmt, err := tx.Prepare(insertStmt)
	if err != nil {
		return err
	}
	l.stmt = stmt
	return nil
}

// Close commits any pending transaction and closes the database handle.
func (l *CensusSQLiteLogger) Close() error {
	if l.stmt != nil {
		l.stmt.Close()
	}
	if l.tx != nil {
		if err := l.tx.Commit(); err != nil {
			l.db.Close()
			return err
		}
	}
	return l.db.Close()
}

// openSQLiteDBOptimized establishes a database connection using WAL
// journaling and exclusive locking, as the teacher's OpenSQLiteDBOptimized
// does for its per-instance databases.
func openSQLiteDBOptimized(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_journal=WAL&_locking=EXCLUSIVE&_sync=NORMAL", path)
	return sql.Open("sqlite3", dsn)
}
