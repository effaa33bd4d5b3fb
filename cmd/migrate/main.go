package main

import (
	"flag"
	"os"

	"streamvault_agent/db"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func main() {
	// Load .env if present, don't fail if missing
	_ = godotenv.Load()

	var (
		downFlag = flag.Bool("down", false, "Run migrations down instead of up")
		driver   = flag.String("driver", os.Getenv("DB_DRIVER"), "Database driver: sqlite or postgres")
		dbConn   = os.Getenv("DB_CONN")
	)
	flag.Parse()

	if *driver == "" {
		*driver = "sqlite"
	}
	if dbConn == "" {
		logrus.Fatal("DB_CONN environment variable is required")
	}

	if err := runMigrations(*driver, dbConn, *downFlag); err != nil {
		logrus.Fatalf("Migration failed: %+v", err)
	}
}

func runMigrations(driver, creds string, migrateDown bool) error {
	conn, err := sqlx.Open(driver, creds)
	if err != nil {
		return errors.Errorf("cannot open %s db connection: %v", driver, err)
	}
	defer conn.Close()

	return db.RunMigrations(conn.DB, driver, migrateDown)
}
