package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joestump/linkeditor/internal/auth"
	"github.com/joestump/linkeditor/internal/store"
)

func newTokenCmd() *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Manage lookup API tokens",
	}

	var (
		name    string
		expires time.Duration
	)
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an API token and print it once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTokenStore(func(ts auth.TokenStore, log *zap.SugaredLogger) error {
				return createToken(cmd.Context(), cmd.OutOrStdout(), ts, log, name, expires)
			})
		},
	}
	createCmd.Flags().StringVar(&name, "name", "", "token name")
	createCmd.Flags().DurationVar(&expires, "expires", 0, "lifetime of the token, 0 for no expiry")
	_ = createCmd.MarkFlagRequired("name")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List API tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTokenStore(func(ts auth.TokenStore, _ *zap.SugaredLogger) error {
				return listTokens(cmd.Context(), cmd.OutOrStdout(), ts, time.Now())
			})
		},
	}

	revokeCmd := &cobra.Command{
		Use:   "revoke <id>",
		Short: "Revoke an API token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTokenStore(func(ts auth.TokenStore, log *zap.SugaredLogger) error {
				return revokeToken(cmd.Context(), ts, log, args[0])
			})
		},
	}

	tokenCmd.AddCommand(createCmd, listCmd, revokeCmd)
	return tokenCmd
}

func withTokenStore(fn func(auth.TokenStore, *zap.SugaredLogger) error) error {
	cfg, log, err := loadServer()
	if err != nil {
		return err
	}
	defer log.Sync()

	database, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	return fn(auth.NewSQLTokenStore(database), log)
}

func createToken(ctx context.Context, w io.Writer, ts auth.TokenStore, log *zap.SugaredLogger, name string, expires time.Duration) error {
	plaintext, hash, err := auth.GenerateToken()
	if err != nil {
		return fmt.Errorf("generate token: %w", err)
	}
	var expiresAt *time.Time
	if expires > 0 {
		t := time.Now().Add(expires)
		expiresAt = &t
	}
	rec, err := ts.Create(ctx, name, hash, expiresAt)
	if err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	log.Infow("token created", "id", rec.ID, "name", rec.Name)
	fmt.Fprintln(w, plaintext)
	return nil
}

func listTokens(ctx context.Context, w io.Writer, ts auth.TokenStore, now time.Time) error {
	records, err := ts.List(ctx)
	if err != nil {
		return fmt.Errorf("list tokens: %w", err)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tLAST USED")
	for _, r := range records {
		status := "active"
		switch {
		case r.RevokedAt.Valid:
			status = "revoked"
		case !r.Usable(now):
			status = "expired"
		}
		lastUsed := "never"
		if r.LastUsedAt.Valid {
			lastUsed = r.LastUsedAt.Time.UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Name, status, lastUsed)
	}
	return tw.Flush()
}

func revokeToken(ctx context.Context, ts auth.TokenStore, log *zap.SugaredLogger, id string) error {
	if err := ts.Revoke(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("token %q not found", id)
		}
		return fmt.Errorf("revoke token: %w", err)
	}
	log.Infow("token revoked", "id", id)
	return nil
}
