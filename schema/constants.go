package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string

	// PRFilter represents which pull requests are fetched for estimation.
	PRFilter string
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All pull request filters supported.
const (
	MergedPRs PRFilter = "merged" // default
	ClosedPRs PRFilter = "closed"
	OpenPRs   PRFilter = "open"
	AllPRs    PRFilter = "all"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidPRFilters lists all valid pull request filters.
var ValidPRFilters = map[PRFilter]struct{}{
	MergedPRs: {},
	ClosedPRs: {},
	OpenPRs:   {},
	AllPRs:    {},
}

// DefaultTestPatterns are the path patterns that mark a commit as test work.
// Patterns ending with '/' match path segments; patterns starting with '.'
// or '_' match suffixes; everything else is a substring match.
var DefaultTestPatterns = []string{
	"_test.go",
	"test/",
	"tests/",
	"spec/",
	".spec.",
	".test.",
}
