package surrealdb

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/surrealdb/surrealdb.go"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/cambiolabs/cambio/internal/common"
)

var (
	surrealOnce sync.Once
	surrealAddr string
	surrealErr  error
	dbCounter   atomic.Int64
)

// startSurrealDB starts one shared SurrealDB container per test run and
// returns its WebSocket RPC address.
func startSurrealDB(t *testing.T) string {
	t.Helper()

	surrealOnce.Do(func() {
		ctx := context.Background()

		req := testcontainers.ContainerRequest{
			Image:        "surrealdb/surrealdb:v3.0.0",
			ExposedPorts: []string{"8000/tcp"},
			Cmd:          []string{"start", "--user", "root", "--pass", "root"},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("8000/tcp"),
				wait.ForLog("Started web server"),
			).WithDeadline(60 * time.Second),
		}

		container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		})
		if err != nil {
			surrealErr = fmt.Errorf("start SurrealDB container: %w", err)
			return
		}

		host, err := container.Host(ctx)
		if err != nil {
			container.Terminate(ctx)
			surrealErr = fmt.Errorf("get SurrealDB host: %w", err)
			return
		}

		mappedPort, err := container.MappedPort(ctx, "8000/tcp")
		if err != nil {
			container.Terminate(ctx)
			surrealErr = fmt.Errorf("get SurrealDB port: %w", err)
			return
		}

		surrealAddr = fmt.Sprintf("ws://%s:%s/rpc", host, mappedPort.Port())
	})

	if surrealErr != nil {
		t.Fatalf("SurrealDB container failed: %v", surrealErr)
	}
	return surrealAddr
}

// testManager connects to the shared container with a fresh database so tests
// stay isolated from each other.
func testManager(t *testing.T) *Manager {
	t.Helper()

	if os.Getenv("CAMBIO_TEST_DOCKER") != "true" {
		t.Skip("Docker tests disabled (set CAMBIO_TEST_DOCKER=true to enable)")
	}

	addr := startSurrealDB(t)
	ctx := context.Background()

	db, err := surrealdb.New(addr)
	if err != nil {
		t.Fatalf("connect to SurrealDB: %v", err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": "root",
		"pass": "root",
	}); err != nil {
		t.Fatalf("sign in to SurrealDB: %v", err)
	}

	dbName := fmt.Sprintf("test_%d", dbCounter.Add(1))
	if err := db.Use(ctx, "cambio_test", dbName); err != nil {
		t.Fatalf("select namespace/database: %v", err)
	}

	m, err := newManager(db, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("initialize manager: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}
