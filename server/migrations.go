package server

import (
	"github.com/BurntSushi/migration"
	"github.com/cyclopcam/dbh"
	"github.com/cyclopcam/logs"
	"gorm.io/gorm"
)

// Open or create the DB
func openDB(log logs.Log, config dbh.DBConfig) (*gorm.DB, error) {
	log.Infof("Opening analysis DB")
	return dbh.OpenDB(log, config, migrations(log), 0)
}

func migrations(log logs.Log) []migration.Migrator {
	migs := []migration.Migrator{}
	idx := 0

	migs = append(migs, dbh.MakeMigrationFromSQL(log, &idx,
		`
		CREATE TABLE video_analysis(
			id BIGSERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			exercise_type TEXT NOT NULL,
			video_filename TEXT NOT NULL,
			created_at BIGINT NOT NULL,
			result TEXT,
			feedback TEXT
		);
		CREATE INDEX idx_video_analysis_user_id ON video_analysis(user_id);
	`))

	return migs
}
