package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/prtime/internal/contract"
	"github.com/huangsam/prtime/schema"
)

// Table names for run history tracking.
const (
	runsTable        = "prtime_runs"
	prEstimatesTable = "prtime_pr_estimates"
)

// RunStoreImpl implements the RunStore interface.
type RunStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// NewRunStore creates a new RunStore with the specified backend.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (contract.RunStore, error) {
	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetHistoryDBFilePath()
		}
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		driverName = "mysql"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.NoneBackend:
		// Return a no-op store for disabled tracking
		return &RunStoreImpl{
			db:         nil,
			backend:    backend,
			driverName: "",
		}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Check that the server is running and the connection string is correct", backend, err)
	}

	// Create the table schemas
	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &RunStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
	}, nil
}

// createHistoryTables creates the run history tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{prEstimatesTable, getCreatePREstimatesQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for prtime_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				repo VARCHAR(255) NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				total_prs INT,
				total_hours DOUBLE,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				repo TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				total_prs INT,
				total_hours DOUBLE PRECISION,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				repo TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_prs INTEGER,
				total_hours REAL,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreatePREstimatesQuery returns the CREATE TABLE query for prtime_pr_estimates.
func getCreatePREstimatesQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(prEstimatesTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				pr_number INT NOT NULL,
				title VARCHAR(512) NOT NULL,
				author VARCHAR(100) NOT NULL,
				commits INT NOT NULL,
				sessions INT NOT NULL,
				hours DOUBLE NOT NULL,
				test_hours DOUBLE NOT NULL,
				PRIMARY KEY (run_id, pr_number)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				pr_number INT NOT NULL,
				title TEXT NOT NULL,
				author TEXT NOT NULL,
				commits INT NOT NULL,
				sessions INT NOT NULL,
				hours DOUBLE PRECISION NOT NULL,
				test_hours DOUBLE PRECISION NOT NULL,
				PRIMARY KEY (run_id, pr_number)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				pr_number INTEGER NOT NULL,
				title TEXT NOT NULL,
				author TEXT NOT NULL,
				commits INTEGER NOT NULL,
				sessions INTEGER NOT NULL,
				hours REAL NOT NULL,
				test_hours REAL NOT NULL,
				PRIMARY KEY (run_id, pr_number)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new estimation run and returns its unique ID.
func (rs *RunStoreImpl) BeginRun(repo string, startTime time.Time, configParams map[string]any) (int64, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return 0, nil
	}

	// Serialize config params to JSON
	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)

	var runID int64
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (repo, start_time, config_params) VALUES ($1, $2, $3) RETURNING run_id`, quotedTableName)
		err = rs.db.QueryRow(query, repo, startTime, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (repo, start_time, config_params) VALUES (?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = rs.db.Exec(query, repo, formatTime(startTime, rs.backend), string(configJSON))
		if err != nil {
			return 0, err
		}
		runID, err = result.LastInsertId()
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	return runID, nil
}

// EndRun updates the run with completion data.
func (rs *RunStoreImpl) EndRun(runID int64, endTime time.Time, totalPRs int, totalHours float64) error {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	// First, get the start_time to calculate duration
	quotedTableName := quoteTableName(runsTable, rs.backend)

	var query string
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = $1`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = ?`, quotedTableName)
	}

	row := rs.db.QueryRow(query, runID)

	var startTime time.Time
	switch rs.backend {
	case schema.SQLiteBackend:
		var startTimeStr string
		if err := row.Scan(&startTimeStr); err != nil {
			return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
		}
		var err error
		startTime, err = time.Parse(time.RFC3339Nano, startTimeStr)
		if err != nil {
			return fmt.Errorf("failed to parse start_time: %w", err)
		}
	default: // MySQL and PostgreSQL store as native datetime
		if err := row.Scan(&startTime); err != nil {
			return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
		}
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	var updateQuery string
	var args []any

	switch rs.backend {
	case schema.PostgreSQLBackend:
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = $1, run_duration_ms = $2, total_prs = $3, total_hours = $4 WHERE run_id = $5`, quotedTableName)
		args = []any{endTime, durationMs, totalPRs, totalHours, runID}
	default: // SQLite and MySQL
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, total_prs = ?, total_hours = ? WHERE run_id = ?`, quotedTableName)
		args = []any{formatTime(endTime, rs.backend), durationMs, totalPRs, totalHours, runID}
	}

	_, err := rs.db.Exec(updateQuery, args...)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	return nil
}

// RecordPREstimate stores the estimate for a single pull request.
func (rs *RunStoreImpl) RecordPREstimate(runID int64, estimate schema.PREstimate) error {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(prEstimatesTable, rs.backend)

	var query string
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`
			INSERT INTO %s (run_id, pr_number, title, author, commits, sessions, hours, test_hours)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`
			INSERT INTO %s (run_id, pr_number, title, author, commits, sessions, hours, test_hours)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, quotedTableName)
	}

	_, err := rs.db.Exec(query, runID, estimate.Number, estimate.Title, estimate.Author,
		estimate.Commits, estimate.Sessions, estimate.Hours, estimate.TestHours)
	if err != nil {
		return fmt.Errorf("failed to insert PR estimate: %w", err)
	}

	return nil
}

// ListRuns returns the most recent runs, newest first.
func (rs *RunStoreImpl) ListRuns(limit int) ([]schema.RunRecord, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)

	var query string
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT run_id, repo, start_time, end_time, run_duration_ms, total_prs, total_hours, config_params
			FROM %s ORDER BY run_id DESC LIMIT $1`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`SELECT run_id, repo, start_time, end_time, run_duration_ms, total_prs, total_hours, config_params
			FROM %s ORDER BY run_id DESC LIMIT ?`, quotedTableName)
	}

	rows, err := rs.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord

	for rows.Next() {
		record, err := rs.scanRunRecord(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return results, nil
}

// GetAllRuns retrieves every run from the store, oldest first.
func (rs *RunStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)
	query := fmt.Sprintf(`SELECT run_id, repo, start_time, end_time, run_duration_ms, total_prs, total_hours, config_params
		FROM %s ORDER BY run_id`, quotedTableName)

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord

	for rows.Next() {
		record, err := rs.scanRunRecord(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return results, nil
}

// scanRunRecord scans a single run row, handling the SQLite text timestamps.
func (rs *RunStoreImpl) scanRunRecord(rows *sql.Rows) (schema.RunRecord, error) {
	var record schema.RunRecord
	var totalPRs sql.NullInt32
	var totalHours sql.NullFloat64

	switch rs.backend {
	case schema.SQLiteBackend:
		var startTimeStr string
		var endTimeStr *string
		if err := rows.Scan(&record.RunID, &record.Repo, &startTimeStr, &endTimeStr, &record.DurationMs, &totalPRs, &totalHours, &record.ConfigParams); err != nil {
			return record, fmt.Errorf("failed to scan run: %w", err)
		}
		startTime, err := time.Parse(time.RFC3339Nano, startTimeStr)
		if err != nil {
			return record, fmt.Errorf("failed to parse start_time: %w", err)
		}
		record.StartTime = startTime
		if endTimeStr != nil {
			endTime, err := time.Parse(time.RFC3339Nano, *endTimeStr)
			if err != nil {
				return record, fmt.Errorf("failed to parse end_time: %w", err)
			}
			record.EndTime = &endTime
		}
	default: // MySQL and PostgreSQL
		if err := rows.Scan(&record.RunID, &record.Repo, &record.StartTime, &record.EndTime, &record.DurationMs, &totalPRs, &totalHours, &record.ConfigParams); err != nil {
			return record, fmt.Errorf("failed to scan run: %w", err)
		}
	}

	record.TotalPRs = totalPRs.Int32
	record.TotalHours = totalHours.Float64
	return record, nil
}

// ListPREstimates returns the per-PR rows for a run.
func (rs *RunStoreImpl) ListPREstimates(runID int64) ([]schema.PREstimateRecord, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(prEstimatesTable, rs.backend)

	var query string
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT run_id, pr_number, title, author, commits, sessions, hours, test_hours
			FROM %s WHERE run_id = $1 ORDER BY pr_number`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`SELECT run_id, pr_number, title, author, commits, sessions, hours, test_hours
			FROM %s WHERE run_id = ? ORDER BY pr_number`, quotedTableName)
	}

	rows, err := rs.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query PR estimates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.PREstimateRecord

	for rows.Next() {
		var record schema.PREstimateRecord
		if err := rows.Scan(&record.RunID, &record.PRNumber, &record.Title, &record.Author,
			&record.Commits, &record.Sessions, &record.Hours, &record.TestHours); err != nil {
			return nil, fmt.Errorf("failed to scan PR estimate: %w", err)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating PR estimates: %w", err)
	}

	return results, nil
}

// GetAllPREstimates retrieves every per-PR row from the store.
func (rs *RunStoreImpl) GetAllPREstimates() ([]schema.PREstimateRecord, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(prEstimatesTable, rs.backend)
	query := fmt.Sprintf(`SELECT run_id, pr_number, title, author, commits, sessions, hours, test_hours
		FROM %s ORDER BY run_id, pr_number`, quotedTableName)

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query PR estimates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.PREstimateRecord

	for rows.Next() {
		var record schema.PREstimateRecord
		if err := rows.Scan(&record.RunID, &record.PRNumber, &record.Title, &record.Author,
			&record.Commits, &record.Sessions, &record.Hours, &record.TestHours); err != nil {
			return nil, fmt.Errorf("failed to scan PR estimate: %w", err)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating PR estimates: %w", err)
	}

	return results, nil
}

// Close closes the underlying connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (rs *RunStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if rs.backend == schema.NoneBackend || rs.db == nil {
		return status, nil
	}

	// Get total runs
	runsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(runsTable, rs.backend))
	row := rs.db.QueryRow(runsQuery)
	if err := row.Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		// Get last run info
		lastRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", quoteTableName(runsTable, rs.backend))
		row = rs.db.QueryRow(lastRunQuery)

		switch rs.backend {
		case schema.SQLiteBackend:
			var lastRunID int64
			var lastRunTimeStr string
			if err := row.Scan(&lastRunID, &lastRunTimeStr); err != nil {
				return status, fmt.Errorf("failed to get last run info: %w", err)
			}
			status.LastRunID = lastRunID
			lastRunTime, err := time.Parse(time.RFC3339Nano, lastRunTimeStr)
			if err != nil {
				return status, fmt.Errorf("failed to parse last run time: %w", err)
			}
			status.LastRunTime = lastRunTime
		default: // MySQL and PostgreSQL store as native datetime
			if err := row.Scan(&status.LastRunID, &status.LastRunTime); err != nil {
				return status, fmt.Errorf("failed to get last run info: %w", err)
			}
		}

		// Get oldest run time
		oldestRunQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quoteTableName(runsTable, rs.backend))
		row = rs.db.QueryRow(oldestRunQuery)

		switch rs.backend {
		case schema.SQLiteBackend:
			var oldestRunTimeStr string
			if err := row.Scan(&oldestRunTimeStr); err != nil {
				return status, fmt.Errorf("failed to get oldest run time: %w", err)
			}
			oldestRunTime, err := time.Parse(time.RFC3339Nano, oldestRunTimeStr)
			if err != nil {
				return status, fmt.Errorf("failed to parse oldest run time: %w", err)
			}
			status.OldestRunTime = oldestRunTime
		default: // MySQL and PostgreSQL store as native datetime
			if err := row.Scan(&status.OldestRunTime); err != nil {
				return status, fmt.Errorf("failed to get oldest run time: %w", err)
			}
		}

		// Get total PRs estimated
		prsQuery := fmt.Sprintf("SELECT COALESCE(SUM(total_prs), 0) FROM %s", quoteTableName(runsTable, rs.backend))
		row = rs.db.QueryRow(prsQuery)
		if err := row.Scan(&status.TotalPRsEstimated); err != nil {
			return status, fmt.Errorf("failed to get total PRs estimated: %w", err)
		}
	}

	// Get table sizes
	tables := []string{runsTable, prEstimatesTable}
	for _, table := range tables {
		quotedTable := quoteTableName(table, rs.backend)
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTable)
		row = rs.db.QueryRow(countQuery)
		var count int64
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.Format(time.RFC3339Nano)
	default:
		return t
	}
}
