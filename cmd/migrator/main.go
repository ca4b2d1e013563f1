package main

import (
	"flag"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/boolmaze-server/internal/config"
	"github.com/vancomm/boolmaze-server/internal/database"
)

func main() {
	var envPath string
	flag.StringVar(&envPath, "env", ".env", "env file path")
	flag.Parse()

	if err := config.Load(envPath); err != nil {
		logrus.Fatalf("unable to load %s: %s", envPath, err)
	}

	log, err := config.NewLogger()
	if err != nil {
		logrus.Fatal("unable to set up logging: ", err)
	}

	records, err := config.NewRecords()
	if err != nil {
		log.WithError(err).Fatal("invalid database config")
	}

	switch records.Kind {
	case config.RecordsSQLite:
		db, err := database.OpenSQLite(records.Path)
		if err != nil {
			log.WithError(err).Fatal("failed to migrate sqlite db")
		}
		db.Close()
		log.WithField("path", records.Path).Info("migration successful")
	case config.RecordsPostgres:
		migrator, err := database.Migrate(records.URL)
		if err != nil {
			log.WithError(err).Fatal("failed to migrate db")
		}
		defer migrator.Close()

		version, dirty, err := migrator.Version()
		if err != nil {
			log.WithError(err).Error("failed to check migration version")
			return
		}
		log.WithFields(logrus.Fields{
			"version": version,
			"dirty":   dirty,
		}).Info("migration successful")
	default:
		log.Fatal("no database configured, set DATABASE_URL, POSTGRES_HOST or SQLITE_PATH")
	}
}
