// Command grantcredits adjusts a user's entitlement ledger from the shell.
// It can grant paid requests and reset the free usage window, for support
// and manual reconciliation after payment incidents.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"aihelper/internal/adapter/repo"
	"aihelper/internal/infra"
)

func main() {
	var (
		userFlag      string
		creditsFlag   int
		resetFreeFlag bool
	)

	flag.StringVar(&userFlag, "user", "", "user ID to update (UUID)")
	flag.IntVar(&creditsFlag, "credits", 0, "paid requests to grant (0 grants nothing)")
	flag.BoolVar(&resetFreeFlag, "reset-free", false, "reset the free usage window to now")
	flag.Parse()

	userID := strings.TrimSpace(userFlag)
	if userID == "" {
		exitWithError(errors.New("-user is required"))
	}
	if creditsFlag < 0 {
		exitWithError(errors.New("-credits must not be negative"))
	}
	if creditsFlag == 0 && !resetFreeFlag {
		exitWithError(errors.New("nothing to do: pass -credits or -reset-free"))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "grantcredits").Logger()
	runner := infra.NewSQLRunner(pool, logger)
	accounts := repo.NewQuotaAccountRepository(runner)

	acct, err := accounts.GetOrCreate(ctx, userID)
	if err != nil {
		exitWithError(fmt.Errorf("failed to load account: %w", err))
	}

	if resetFreeFlag {
		if err := accounts.ResetFree(ctx, userID, time.Now().UTC()); err != nil {
			exitWithError(fmt.Errorf("failed to reset free usage: %w", err))
		}
		fmt.Printf("free usage reset (was %d used)\n", acct.FreeRequestsUsed)
	}

	if creditsFlag > 0 {
		balance, err := accounts.AddPaid(ctx, userID, creditsFlag)
		if err != nil {
			exitWithError(fmt.Errorf("failed to grant credits: %w", err))
		}
		fmt.Printf("granted %d paid requests, balance now %d\n", creditsFlag, balance)
	}
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
