package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose bool

	// migrate flags
	resetSchema bool
	withSeed    bool

	// login flags
	loginRole     string
	loginID       string
	loginPassword string

	cfg    config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "schoolportal",
	Short: "School portal login screen",
	Long: `Log in to the school portal as a student or a teacher.

Run without arguments to start the interactive login screen.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = loadConfig(); err != nil {
			return err
		}
		logger, err = newLogger(cfg, verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runPortal,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema",
	RunE:  runMigrate,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate without the interactive screen and print a session token",
	Long: `Authenticates a student or teacher and prints a signed session token.

The password is read from --password or, if omitted, from the first line of stdin.

Example:
  echo test_pas_123 | schoolportal login --role student --id s1001`,
	RunE: runLogin,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami [token]",
	Short: "Verify a session token and print its claims",
	Args:  cobra.ExactArgs(1),
	RunE:  runWhoami,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	migrateCmd.Flags().BoolVar(&resetSchema, "reset", false, "Drop existing tables first")
	migrateCmd.Flags().BoolVar(&withSeed, "seed", false, "Populate the database with example data")

	loginCmd.Flags().StringVar(&loginRole, "role", string(roleStudent), "Role to log in as (student|teacher)")
	loginCmd.Flags().StringVar(&loginID, "id", "", "User identifier")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password (read from stdin when empty)")
	_ = loginCmd.MarkFlagRequired("id")

	rootCmd.AddCommand(migrateCmd, loginCmd, whoamiCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newHandler(ctx context.Context) (handler, dbConnection, error) {
	db, err := createDatabaseConnection(ctx, cfg, logger)
	if err != nil {
		return handler{}, dbConnection{}, err
	}

	return handler{
		db:       db,
		sessions: newSessionIssuer(cfg.SecretKey, cfg.SessionTTL),
		log:      logger,
	}, db, nil
}

func runPortal(cmd *cobra.Command, args []string) error {
	if err := cfg.requireSecret(); err != nil {
		return err
	}

	ctx := cmd.Context()
	h, db, err := newHandler(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	a := app{ctx: ctx, h: h, st: defaultStyles()}
	p := tea.NewProgram(newWindow(newSplash(a), logger), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err = p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	db, err := createDatabaseConnection(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err = db.migrate(ctx, resetSchema); err != nil {
		return err
	}
	if withSeed {
		if err = db.seed(ctx); err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), "schema ready")
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	if err := cfg.requireSecret(); err != nil {
		return err
	}

	role, err := parseRole(loginRole)
	if err != nil {
		return fmt.Errorf("bad --role %q: %w", loginRole, err)
	}

	password := loginPassword
	if password == "" {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	ctx := cmd.Context()
	h, db, err := newHandler(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	return printLogin(cmd, h, role, loginID, password)
}

func printLogin(cmd *cobra.Command, h handler, role Role, id, password string) error {
	s, err := h.login(cmd.Context(), role, id, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, s.token)
	fmt.Fprintf(out, "# %s %s (%s), expires %s\n", s.user.Role(), s.user.ID(), s.user.Name(), s.expiresAt.Format(time.RFC3339))
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	if err := cfg.requireSecret(); err != nil {
		return err
	}

	claims, err := newSessionIssuer(cfg.SecretKey, cfg.SessionTTL).verify(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s), expires %s\n",
		claims.Role, claims.Subject, claims.Name, claims.ExpiresAt.Time.Format(time.RFC3339))
	return nil
}
