package main

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/vvladislovv/GreMiuv/core/identity"
	"github.com/vvladislovv/GreMiuv/storage/database/inmem"
)

func setup(t *testing.T) *commandLine {
	// the driver never connects here; migrate calls are mocked
	db, err := sqlx.Open("postgres", "")
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	return &commandLine{
		db:    db,
		store: inmem.NewHostIdentityRepository(),
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "group", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_setFIO(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"setfio"}, wantErr: errHelp},
		{name: "id but no fio", args: []string{"setfio", "-telegram-id", "42"}, wantErr: errHelp},
		{name: "fio but no id", args: []string{"setfio", "-fio", "Иванов И.И."}, wantErr: errHelp},
		{name: "blank fio", args: []string{"setfio", "-telegram-id", "42", "-fio", "   "}, wantErr: errHelp},
		{name: "set", args: []string{"setfio", "-telegram-id", "42", "-fio", "Иванов И.И."}},
		{name: "overwrite", args: []string{"setfio", "-telegram-id", "42", "-fio", "Петров П.П."}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				fio, err := cli.store.LastIdentity(context.Background(), 42)
				if err != nil {
					t.Fatalf("LastIdentity() failed: %v", err)
				}
				if fio != tt.args[len(tt.args)-1] {
					t.Errorf("stored fio = %q, want %q", fio, tt.args[len(tt.args)-1])
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_showFIO(t *testing.T) {
	cli := setup(t)

	if err := cli.store.SaveIdentity(context.Background(), 7, "Сидорова А.А."); err != nil {
		t.Fatalf("SaveIdentity() failed: %v", err)
	}

	tests := []cliTest{
		{name: "no args", args: []string{"showfio"}, wantErr: errHelp},
		{name: "unknown host user", args: []string{"showfio", "-telegram-id", "404"}, wantErr: identity.ErrNoIdentity},
		{name: "known host user", args: []string{"showfio", "-telegram-id", "7"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
