package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/trezcool/schoolinsights/core"
	"github.com/trezcool/schoolinsights/core/analytics"
	"github.com/trezcool/schoolinsights/core/records"
	emailsvc "github.com/trezcool/schoolinsights/services/email"
	logsvc "github.com/trezcool/schoolinsights/services/logger"
	"github.com/trezcool/schoolinsights/storage"
	"github.com/trezcool/schoolinsights/storage/database"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	tmpls, err := core.ParseEmailTemplates(filepath.Join(conf.WorkDir, "assets", "templates", "email"), conf.AppName, conf.Debug)
	if err != nil {
		logger.Fatal(fmt.Sprintf("parsing email templates: %v", err), err)
	}
	mailSvc := emailsvc.NewService(conf, tmpls, logger)

	// start CLI
	cli := commandLine{
		conf: conf,
		out:  os.Stdout,
		loadTables: func(ctx context.Context) (records.Tables, error) {
			return storage.LoadTables(ctx, conf, logger)
		},
		migrateDB: func(ctx context.Context, command string, args ...string) error {
			db, err := database.Open(ctx, conf.Database)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()
			return database.Migrate(db, command, args...)
		},
		engine:  analytics.NewEngine(analytics.NewSettings(conf.Analytics)),
		mailSvc: mailSvc,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("\nerror: %s\n", err), err)
		}
		os.Exit(1)
	}
}
