package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	"draftflow/lib/telemetry"

	"github.com/mazen160/go-random"
	_ "modernc.org/sqlite"
)

type ServiceParams struct {
	Name string
	// if unspecified, it will skip setting up a db
	DbSchema string
	// if unspecified, it will use `:memory:`
	DbPath string
}

type ServiceResult struct {
	DB *sql.DB
}

// SetupService prepares quiet logging, telemetry and (optionally) an
// in-memory sqlite database for a service test.
func SetupService(t testing.TB, params ServiceParams) (ServiceResult, func()) {
	cleanup := telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", params.Name))

	if params.DbSchema == "" {
		return ServiceResult{}, cleanup
	}

	dbpath := params.DbPath
	if dbpath == "" {
		dbpath = ":memory:"
	}
	sqlite, err := sql.Open("sqlite", dbpath)
	if err != nil {
		t.Fatal(err)
	}
	_, err = sqlite.Exec(params.DbSchema)
	if err != nil {
		t.Fatal(err)
	}

	return ServiceResult{DB: sqlite}, func() {
		sqlite.Close()
		cleanup()
	}
}

// RandomPlayer generates a distinct, plausible-looking player name for
// fixture rows.
func RandomPlayer(t testing.TB) string {
	first, err := random.String(1)
	if err != nil {
		t.Fatal(err)
	}
	last, err := random.String(8)
	if err != nil {
		t.Fatal(err)
	}
	return fmt.Sprintf("%s. %s", first, last)
}
