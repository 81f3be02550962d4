package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/goalflow-backend/internal/app"
	"github.com/yungbote/goalflow-backend/internal/platform/ctxutil"
	"github.com/yungbote/goalflow-backend/internal/platform/dbctx"
	"github.com/yungbote/goalflow-backend/internal/platform/logger"
	"github.com/yungbote/goalflow-backend/internal/services"
)

var (
	renormUser   string
	renormParent string

	tokenUser string
	tokenTTL  time.Duration
)

func main() {
	root := &cobra.Command{
		Use:           "goalflow",
		Short:         "Goal tree and weekly progress tracker backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Migrate the schema and serve the HTTP API",
		RunE:  runServe,
	}
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema and exit",
		RunE:  runMigrate,
	}
	renormCmd := &cobra.Command{
		Use:   "renormalize",
		Short: "Respace display order for one sibling group of a user's goals",
		RunE:  runRenormalize,
	}
	renormCmd.Flags().StringVar(&renormUser, "user", "", "owner user id (required)")
	renormCmd.Flags().StringVar(&renormParent, "parent", "", "parent goal id; empty for root goals")
	_ = renormCmd.MarkFlagRequired("user")

	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for a user",
		RunE:  runToken,
	}
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user id; a new one is generated when empty")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime; defaults to TOKEN_TTL")

	root.AddCommand(serveCmd, migrateCmd, renormCmd, tokenCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "goalflow:", err)
		os.Exit(1)
	}
}

func open() (*app.App, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, err
	}
	return app.New(cfg)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := open()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.Migrate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := a.Start(ctx); err != nil {
		return err
	}
	return a.Run(ctx)
}

func runMigrate(_ *cobra.Command, _ []string) error {
	a, err := open()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.Migrate(); err != nil {
		return err
	}
	a.Log.Info("Schema is up to date")
	return nil
}

func runRenormalize(cmd *cobra.Command, _ []string) error {
	owner, err := uuid.Parse(renormUser)
	if err != nil {
		return fmt.Errorf("--user: %w", err)
	}
	var parent *uuid.UUID
	if renormParent != "" {
		id, err := uuid.Parse(renormParent)
		if err != nil {
			return fmt.Errorf("--parent: %w", err)
		}
		parent = &id
	}

	a, err := open()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := ctxutil.WithRequestData(cmd.Context(), &ctxutil.RequestData{UserID: owner})
	moves, err := a.Services.Goal.Renormalize(dbctx.Context{Ctx: ctx}, parent)
	if err != nil {
		return err
	}
	for _, m := range moves {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%g\n", m.GoalID, m.DisplayOrder)
	}
	a.Log.Info("Renormalized goals", "user_id", owner, "moved", len(moves))
	return nil
}

func runToken(cmd *cobra.Command, _ []string) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.JWTSecretKey == "" {
		return fmt.Errorf("JWT_SECRET_KEY is not set")
	}
	user := uuid.New()
	if tokenUser != "" {
		if user, err = uuid.Parse(tokenUser); err != nil {
			return fmt.Errorf("--user: %w", err)
		}
	}
	ttl := tokenTTL
	if ttl <= 0 {
		ttl = cfg.TokenTTL
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return err
	}
	defer log.Sync()
	tok, err := services.NewAuthService(log, cfg.JWTSecretKey, uuid.Nil).IssueToken(user, ttl)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "user_id=%s\ntoken=%s\n", user, tok)
	return nil
}
