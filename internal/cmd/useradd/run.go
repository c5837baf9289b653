// Package useradd implements the "topicnotes useradd" CLI subcommand.
// It creates an account directly in the SQLite database, without the
// server running; useful for bootstrapping and scripted provisioning.
package useradd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
	"topicnotes/internal/db"
	"topicnotes/internal/notes"
	"topicnotes/internal/validate"
)

// Options captures CLI flags for account creation. Secret and SecretEnv are
// mutually exclusive; with neither set, the secret is prompted.
type Options struct {
	DBPath    string
	Username  string
	Secret    string
	SecretEnv bool
}

func Run(args []string) error {
	fs := flag.NewFlagSet("useradd", flag.ContinueOnError)
	var opt Options
	fs.StringVar(&opt.DBPath, "db", "./topicnotes.db", "sqlite database path")
	fs.StringVar(&opt.Username, "username", "", "username for the new account")
	fs.StringVar(&opt.Secret, "secret", "", "set the secret non-interactively")
	fs.BoolVar(&opt.SecretEnv, "secret-env", false, "read the secret from TOPICNOTES_SECRET")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := validate.Username(opt.Username); err != nil {
		return err
	}
	secret, err := resolveSecret(opt.Secret, opt.SecretEnv)
	if err != nil {
		return err
	}

	ctx := context.Background()
	d, err := db.Open(ctx, opt.DBPath)
	if err != nil {
		return err
	}
	defer d.Close()

	id, err := notes.NewCredentials(d, 0).Register(ctx, opt.Username, secret)
	if err != nil {
		return err
	}
	fmt.Printf("created user %q (id %d)\n", opt.Username, id)
	return nil
}

func resolveSecret(flagValue string, fromEnv bool) (string, error) {
	if flagValue != "" && fromEnv {
		return "", errors.New("choose one of --secret or --secret-env")
	}
	if fromEnv {
		v := strings.TrimSpace(os.Getenv("TOPICNOTES_SECRET"))
		if v == "" {
			return "", errors.New("TOPICNOTES_SECRET is empty")
		}
		return v, nil
	}
	if flagValue != "" {
		return flagValue, nil
	}
	return promptSecret("Set account secret")
}

func promptSecret(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		for {
			fmt.Fprintf(os.Stderr, "%s: ", label)
			p1b, err := term.ReadPassword(fd)
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return "", err
			}
			fmt.Fprint(os.Stderr, "Confirm secret: ")
			p2b, err := term.ReadPassword(fd)
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return "", err
			}
			p1 := strings.TrimSpace(string(p1b))
			p2 := strings.TrimSpace(string(p2b))
			if p1 == "" {
				fmt.Fprintln(os.Stderr, "secret cannot be empty")
				continue
			}
			if p1 != p2 {
				fmt.Fprintln(os.Stderr, "secrets do not match")
				continue
			}
			return p1, nil
		}
	}

	// Non-interactive fallback (e.g. piped input). Echo suppression is not
	// possible here.
	r := bufio.NewReader(os.Stdin)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New("secret cannot be empty")
	}
	return line, nil
}
