// Shared container plumbing for the integration tests.
// Expects a reachable Docker daemon; callers skip in short mode.

package helpers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/quotesmgmt/quotes-api/data"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// MySQLContainer holds a running MySQL test database
type MySQLContainer struct {
	Container testcontainers.Container
	Host      string
	Port      string
	Database  string
	User      string
	Password  string
}

// Terminate stops the container; safe to call from a defer
func (m *MySQLContainer) Terminate(t *testing.T) {
	if m.Container == nil {
		return
	}
	if err := m.Container.Terminate(context.Background()); err != nil {
		t.Logf("Failed to terminate MySQL container: %v", err)
	}
}

// StartMySQL starts a MySQL container, waits until it accepts connections
// and seeds the schema from the embedded DDL.
func StartMySQL(t *testing.T) *MySQLContainer {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mysql:8",
			ExposedPorts: []string{"3306/tcp"},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": "rootpass",
				"MYSQL_DATABASE":      "quotes_app",
				"MYSQL_USER":          "quotes",
				"MYSQL_PASSWORD":      "quotespass",
			},
			WaitingFor: wait.ForListeningPort("3306/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start MySQL container: %v", err)
	}

	mc := &MySQLContainer{
		Container: container,
		Database:  "quotes_app",
		User:      "quotes",
		Password:  "quotespass",
	}

	mc.Host, err = container.Host(ctx)
	if err != nil {
		mc.Terminate(t)
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "3306/tcp")
	if err != nil {
		mc.Terminate(t)
		t.Fatalf("Failed to get container port: %v", err)
	}
	mc.Port = port.Port()

	if err := mc.seedSchema(); err != nil {
		mc.Terminate(t)
		t.Fatalf("Failed to seed schema: %v", err)
	}

	return mc
}

// seedSchema applies the embedded DDL once the server really answers
func (m *MySQLContainer) seedSchema() error {
	dsn := fmt.Sprintf("root:rootpass@tcp(%s:%s)/", m.Host, m.Port)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	// The listening port opens before the server accepts logins
	for i := 0; i < 30; i++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	if err != nil {
		return fmt.Errorf("mysql not ready after 30 seconds: %w", err)
	}

	if _, err := db.Exec("GRANT ALL PRIVILEGES ON quotes_app.* TO 'quotes'@'%'"); err != nil {
		return err
	}
	if _, err := db.Exec("FLUSH PRIVILEGES"); err != nil {
		return err
	}

	return executeSQL(db, data.InitdbMySQLTables)
}

// executeSQL runs a multi-statement script, skipping comment lines
func executeSQL(db *sql.DB, script string) error {
	var sb strings.Builder
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	for _, stmt := range strings.Split(sb.String(), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("%s : when executing > %s", err.Error(), stmt)
		}
	}
	return nil
}
