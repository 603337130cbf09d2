//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestPrtimeWithMySQL tests the prtime CLI with a MySQL backend.
func TestPrtimeWithMySQL(t *testing.T) {
	connStr := startMySQL(t)

	// Set environment variables
	_ = os.Setenv("PRTIME_CACHE_BACKEND", "mysql")
	_ = os.Setenv("PRTIME_CACHE_DB_CONNECT", connStr)
	_ = os.Setenv("PRTIME_HISTORY_BACKEND", "mysql")
	_ = os.Setenv("PRTIME_HISTORY_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("PRTIME_CACHE_BACKEND") }()
	defer func() { _ = os.Unsetenv("PRTIME_CACHE_DB_CONNECT") }()
	defer func() { _ = os.Unsetenv("PRTIME_HISTORY_BACKEND") }()
	defer func() { _ = os.Unsetenv("PRTIME_HISTORY_DB_CONNECT") }()

	runBackendCommands(t)
}

// TestPrtimeWithPostgres tests the prtime CLI with a PostgreSQL backend.
func TestPrtimeWithPostgres(t *testing.T) {
	connStr := startPostgres(t)

	// Set environment variables
	_ = os.Setenv("PRTIME_CACHE_BACKEND", "postgresql")
	_ = os.Setenv("PRTIME_CACHE_DB_CONNECT", connStr)
	_ = os.Setenv("PRTIME_HISTORY_BACKEND", "postgresql")
	_ = os.Setenv("PRTIME_HISTORY_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("PRTIME_CACHE_BACKEND") }()
	defer func() { _ = os.Unsetenv("PRTIME_CACHE_DB_CONNECT") }()
	defer func() { _ = os.Unsetenv("PRTIME_HISTORY_BACKEND") }()
	defer func() { _ = os.Unsetenv("PRTIME_HISTORY_DB_CONNECT") }()

	runBackendCommands(t)
}

// runBackendCommands exercises the cache and history commands against the
// configured backend. Estimation commands need GitHub access, so only the
// storage surface is covered here.
func runBackendCommands(t *testing.T) {
	// Run prtime cache clear
	err := runPrtimeCommand(t, "cache", "clear")
	require.NoError(t, err)

	// Run prtime history clear
	err = runPrtimeCommand(t, "history", "clear")
	require.NoError(t, err)

	// Run prtime history migrate
	err = runPrtimeCommand(t, "history", "migrate")
	require.NoError(t, err)

	// Run prtime cache status
	err = runPrtimeCommand(t, "cache", "status")
	require.NoError(t, err)

	// Run prtime history status
	err = runPrtimeCommand(t, "history", "status")
	require.NoError(t, err)
}

// startMySQL starts a MySQL container and returns its connection string.
func startMySQL(t *testing.T) string {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "prtime",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mysqlC.Terminate(ctx) })

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	return fmt.Sprintf("root:secret123@tcp(%s:%s)/prtime?parseTime=true", host, port.Port())
}

// startPostgres starts a PostgreSQL container and returns its connection string.
func startPostgres(t *testing.T) string {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })
	time.Sleep(5 * time.Second)

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())
}

func runPrtimeCommand(t *testing.T, args ...string) error {
	prtimePath := getPrtimeBinary()
	cmd := exec.Command(prtimePath, args...)
	cmd.Dir = "../" // Run from project root
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
		return err
	}
	return nil
}
