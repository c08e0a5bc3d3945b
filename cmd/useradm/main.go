// Command useradm creates a user account directly against the database,
// for bootstrapping a deployment before the HTTP API is reachable.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/avetrov/securenote/internal/server"
	"github.com/avetrov/securenote/internal/server/config"
	"github.com/avetrov/securenote/internal/server/ratelimit"
	sessionsrepo "github.com/avetrov/securenote/internal/server/repositories/sessions"
	usersrepo "github.com/avetrov/securenote/internal/server/repositories/users"
	"github.com/avetrov/securenote/internal/server/services"
	"golang.org/x/term"

	_ "modernc.org/sqlite"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run() error {

	ctx := context.Background()
	cfg := config.LoadConfig()

	reader := bufio.NewReader(os.Stdin)
	fmt.Println("Enter user name")

	username, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	username = strings.TrimSpace(username)

	fmt.Println("Enter password")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return err
	}

	fmt.Println("Confirm password")
	confirm, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return err
	}

	db, err := sql.Open("sqlite", server.DSN(cfg.DatabasePath))
	if err != nil {
		return err
	}
	defer db.Close()

	if err := server.RunMigrations(ctx, db); err != nil {
		return err
	}

	limiter := ratelimit.New(cfg.MaxLoginAttempts, cfg.LoginAttemptWindow)
	svc := services.NewAuthService(usersrepo.NewSQLiteRepository(db), sessionsrepo.NewSQLiteRepository(db), limiter, cfg)

	user, err := svc.Register(ctx, username, string(password), string(confirm))
	if err != nil {
		return err
	}

	fmt.Printf("Success! Created user %s\n", user.Username)
	return nil
}
