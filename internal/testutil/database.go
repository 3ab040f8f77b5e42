package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/database"
)

// SetupTestDB creates an in-memory SQLite database for testing with every migration applied.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// SetupFileDB creates a file-backed SQLite database under t.TempDir() with every
// migration applied. Use it where the pragmas and pool settings of a real
// database file matter, such as concurrent writers.
func SetupFileDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatalf("Failed to open file database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate file database: %v", err)
	}

	return db
}
