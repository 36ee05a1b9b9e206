package main

import (
	"errors"

	"github.com/pressly/goose"

	"github.com/vvladislovv/GreMiuv/storage/database"
)

var gooseRunFunc = goose.Run // mockable

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errors.New("database is disabled; enable it in config to run migrations")
	}
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(args[0], cli.db.DB, database.MigrationsDir(), arguments...)
}
