package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"cms-dashboard/internal/auth"
	"cms-dashboard/internal/cache"
	"cms-dashboard/internal/config"
	"cms-dashboard/internal/data"
	"cms-dashboard/internal/logger"
	"cms-dashboard/internal/richtext"
	"cms-dashboard/internal/service"
	"cms-dashboard/internal/storage"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// env is what every command needs: the configuration, a logger and an open,
// migrated database. The caller must defer env.Close().
type env struct {
	cfg *config.Config
	log logger.Logger
	db  *sqlx.DB
}

func newEnv() (*env, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	log := logger.New(cfg.Log, os.Stderr)
	if err := data.ApplyMigrations(cfg.DB.Driver, cfg.DB.DSN, cfg.DB.Migrations); err != nil {
		return nil, err
	}
	db, err := data.NewDB(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, db: db}, nil
}

func (e *env) Close() error {
	return e.db.Close()
}

// readPassword prompts on a terminal, or reads one line from stdin when it
// is not a terminal.
func readPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, prompt)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// markdownPayload converts a markdown file into a stored document payload.
// An empty path yields an empty document.
func markdownPayload(path string) (string, error) {
	if path == "" {
		return richtext.Empty().String(), nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := richtext.FromMarkdown(src)
	if err != nil {
		return "", fmt.Errorf("converting %s: %w", path, err)
	}
	return doc.String(), nil
}

var rootCmd = &cobra.Command{
	Use:          "cmsctl",
	Short:        "Administer the content dashboard",
	SilenceUsage: true,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()
		fmt.Println("Migrations applied.")
		return nil
	},
}

// user command
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage dashboard accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add <email>",
	Short: "Create an editor account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}
		users := service.NewAuthService(data.NewUserRepository(e.db))
		user, err := users.Register(cmd.Context(), args[0], password)
		if err != nil {
			return fmt.Errorf("creating account: %w", err)
		}

		enforcer, err := auth.NewEnforcer(e.cfg.DB.Driver, e.cfg.DB.DSN)
		if err != nil {
			return fmt.Errorf("opening policies: %w", err)
		}
		auth.SeedDefaultPolicies(enforcer, e.log)
		if err := auth.GrantEditor(enforcer, user.Email); err != nil {
			return err
		}
		fmt.Printf("Created editor %s\n", user.Email)
		return nil
	},
}

var userPasswdCmd = &cobra.Command{
	Use:   "passwd <email>",
	Short: "Change the password of an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		password, err := readPassword("New password: ")
		if err != nil {
			return err
		}
		users := service.NewAuthService(data.NewUserRepository(e.db))
		if err := users.SetPassword(cmd.Context(), args[0], password); err != nil {
			return fmt.Errorf("changing password: %w", err)
		}
		fmt.Printf("Password changed for %s\n", strings.ToLower(args[0]))
		return nil
	},
}

// seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill documents from markdown files",
}

var seedAboutCmd = &cobra.Command{
	Use:   "about",
	Short: "Replace the about document",
	RunE: func(cmd *cobra.Command, args []string) error {
		profilePath, _ := cmd.Flags().GetString("profile")
		worksPath, _ := cmd.Flags().GetString("works")
		profile, err := markdownPayload(profilePath)
		if err != nil {
			return err
		}
		works, err := markdownPayload(worksPath)
		if err != nil {
			return err
		}

		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		// The icon is left alone, so no object store is needed.
		about := service.NewAboutService(data.NewSQLAboutRepository(e.db), storage.NewMemoryStore(""), e.log)
		if _, err := about.Save(cmd.Context(), profile, works, nil); err != nil {
			return fmt.Errorf("saving about: %w", err)
		}
		fmt.Println("About document saved.")
		return nil
	},
}

var seedContactCmd = &cobra.Command{
	Use:   "contact <file.md>",
	Short: "Replace the contact document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := markdownPayload(args[0])
		if err != nil {
			return err
		}

		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		contact := service.NewContactService(data.NewSQLContactRepository(e.db))
		if _, err := contact.Save(cmd.Context(), content); err != nil {
			return fmt.Errorf("saving contact: %w", err)
		}
		fmt.Println("Contact document saved.")
		return nil
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge-cache",
	Short: "Remove expired download URLs from the cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
		c, err := cache.New(cfg.Cache)
		if err != nil {
			return err
		}
		defer c.Close()
		n, err := c.PurgeExpired()
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d expired entries.\n", n)
		return nil
	},
}

func init() {
	// user subcommands
	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userPasswdCmd)

	// seed subcommands
	seedCmd.AddCommand(seedAboutCmd)
	seedCmd.AddCommand(seedContactCmd)
	seedAboutCmd.Flags().String("profile", "", "Markdown file with the profile")
	seedAboutCmd.Flags().String("works", "", "Markdown file with the works")

	// root commands
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(cachePurgeCmd)
}
