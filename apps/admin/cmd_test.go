package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"testing"

	"github.com/darasa-app/darasa/core/user"
	dummydb "github.com/darasa-app/darasa/storage/database/dummy"
)

func setup(t *testing.T) *commandLine {
	t.Helper()
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags)

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	return &commandLine{
		usrRepo:   dummydb.NewUserRepository(db),
		schedRepo: dummydb.NewScheduleRepository(db),
		newsRepo:  dummydb.NewNewsRepository(db),
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s requires a VERSION argument", command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to requires a VERSION argument"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if tt.wantErrStr != "" {
				if err == nil || err.Error() != tt.wantErrStr {
					t.Errorf("cli.run() error = %v, wantErrStr %q", err, tt.wantErrStr)
				}
				return
			}
			if err != nil {
				t.Errorf("cli.run() unexpected error = %v", err)
			}
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()

	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("Sup3r.Secret!"), nil }

	if err := cli.run([]string{"admin", "adduser", "-name", "Jane Roe", "-email", "jane@test.cd", "-role", "teacher"}); err != nil {
		t.Fatalf("cli.run() failed: %v", err)
	}

	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{Email: "jane@test.cd"})
	if err != nil {
		t.Fatalf("GetUser() failed: %v", err)
	}
	if usr.Role != user.RoleTeacher {
		t.Errorf("Role = %v; want %v", usr.Role, user.RoleTeacher)
	}
	if !usr.Active() {
		t.Error("user should be active")
	}
	if err = usr.CheckPassword("Sup3r.Secret!"); err != nil {
		t.Error("password was not set")
	}

	// running again updates in place
	if err = cli.run([]string{"admin", "adduser", "-name", "Jane Roe", "-email", "jane@test.cd", "-role", "admin"}); err != nil {
		t.Fatalf("cli.run() failed: %v", err)
	}
	usr, err = cli.usrRepo.GetUser(ctx, user.GetFilter{Email: "jane@test.cd"})
	if err != nil {
		t.Fatalf("GetUser() failed: %v", err)
	}
	if usr.Role != user.RoleAdmin {
		t.Errorf("Role = %v; want %v", usr.Role, user.RoleAdmin)
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("0ld.Secret!"), nil }
	if err := cli.run([]string{"admin", "adduser", "-name", "Max Power", "-email", "max@test.cd"}); err != nil {
		t.Fatalf("cli.run() failed: %v", err)
	}

	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("N3w.Secret!"), nil }
	if err := cli.run([]string{"admin", "resetpassword", "-email", "max@test.cd"}); err != nil {
		t.Fatalf("cli.run() failed: %v", err)
	}

	usr, err := cli.usrRepo.GetUser(context.Background(), user.GetFilter{Email: "max@test.cd"})
	if err != nil {
		t.Fatalf("GetUser() failed: %v", err)
	}
	if err = usr.CheckPassword("N3w.Secret!"); err != nil {
		t.Error("password was not reset")
	}
}
