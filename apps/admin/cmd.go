package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vvladislovv/GreMiuv/core"
	"github.com/vvladislovv/GreMiuv/core/identity"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db    *sqlx.DB
	store identity.FallbackStore
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [args]                  - manage database migrations (goose commands)")
	fmt.Println("  setfio -telegram-id ID -fio FIO         - map a host user to a student identity")
	fmt.Println("  showfio -telegram-id ID                 - show the stored identity for a host user")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	setFIOCmd := flag.NewFlagSet("setfio", flag.ExitOnError)
	setFIOTelegramID := setFIOCmd.Int64("telegram-id", 0, "The host user's Telegram id.")
	setFIOFio := setFIOCmd.String("fio", "", "The student's FIO display string.")

	showFIOCmd := flag.NewFlagSet("showfio", flag.ExitOnError)
	showFIOTelegramID := showFIOCmd.Int64("telegram-id", 0, "The host user's Telegram id.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "setfio":
		if err := setFIOCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *setFIOTelegramID <= 0 || core.CleanString(*setFIOFio) == "" {
			setFIOCmd.Usage()
			return errHelp
		}
		return cli.setFIO(*setFIOTelegramID, core.CleanString(*setFIOFio))
	case "showfio":
		if err := showFIOCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *showFIOTelegramID <= 0 {
			showFIOCmd.Usage()
			return errHelp
		}
		return cli.showFIO(*showFIOTelegramID)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) setFIO(telegramID int64, fio string) error {
	if err := cli.store.SaveIdentity(context.Background(), telegramID, fio); err != nil {
		return err
	}
	fmt.Printf("identity for %d set to %q\n", telegramID, fio)
	return nil
}

func (cli *commandLine) showFIO(telegramID int64) error {
	fio, err := cli.store.LastIdentity(context.Background(), telegramID)
	if err != nil {
		return err
	}
	fmt.Println(fio)
	return nil
}
