package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/vvladislovv/GreMiuv/core"
	"github.com/vvladislovv/GreMiuv/core/identity"
	"github.com/vvladislovv/GreMiuv/storage/database"
	"github.com/vvladislovv/GreMiuv/storage/database/inmem"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up the fallback-identity store
	var (
		db    *sqlx.DB
		store identity.FallbackStore
		err   error
	)
	if conf.Database.Disabled {
		store = inmem.NewHostIdentityRepository()
	} else {
		db, err = database.Open(conf)
		errAndDie(err)
		defer db.Close()
		store = database.NewHostIdentityRepository(db)
	}

	// start CLI
	cli := commandLine{
		db:    db,
		store: store,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
