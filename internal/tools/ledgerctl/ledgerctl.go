// Package ledgerctl implements the operator CLI for the Bits ledger:
// account provisioning, manual adjustments and grants, and the
// leaderboard, history, and reconciliation read surfaces.
package ledgerctl

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/bitarcade/internal/platform/config"
	"github.com/louisbranch/bitarcade/internal/platform/id"
	"github.com/louisbranch/bitarcade/internal/platform/timeouts"
	"github.com/louisbranch/bitarcade/internal/services/ledger/domain"
	"github.com/louisbranch/bitarcade/internal/services/ledger/engine"
	"github.com/louisbranch/bitarcade/internal/services/ledger/storage/sqlite"
)

const defaultLimit = 20

// Config holds ledgerctl command configuration.
type Config struct {
	Provision   bool
	Adjust      bool
	ClaimDaily  bool
	GrantLogin  bool
	Leaderboard bool
	History     bool
	Reconcile   bool

	AccountID  string
	Role       string
	OAuth      bool
	Amount     int64
	Reason     string
	ActorID    string
	Limit      int
	JSONOutput bool

	DBPath  string        `env:"BITARCADE_LEDGER_DB_PATH"`
	Timeout time.Duration `env:"BITARCADE_LEDGERCTL_TIMEOUT" envDefault:"1m"`
}

type envConfig struct {
	DBPath  string        `env:"BITARCADE_LEDGER_DB_PATH"`
	Timeout time.Duration `env:"BITARCADE_LEDGERCTL_TIMEOUT" envDefault:"1m"`
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var envCfg envConfig
	if err := config.ParseEnv(&envCfg); err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:  envCfg.DBPath,
		Timeout: envCfg.Timeout,
		Limit:   defaultLimit,
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join("data", "ledger.db")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = timeouts.CLI
	}

	fs.BoolVar(&cfg.Provision, "provision", false, "create an account and grant its signup bonus")
	fs.BoolVar(&cfg.Adjust, "adjust", false, "apply a manual balance adjustment (requires -amount, -reason, -actor-id)")
	fs.BoolVar(&cfg.ClaimDaily, "claim-daily", false, "claim the daily reward on behalf of an account")
	fs.BoolVar(&cfg.GrantLogin, "grant-login", false, "record a login bonus for an account")
	fs.BoolVar(&cfg.Leaderboard, "leaderboard", false, "print accounts ordered by balance")
	fs.BoolVar(&cfg.History, "history", false, "print recent ledger entries for an account")
	fs.BoolVar(&cfg.Reconcile, "reconcile", false, "compare an account's balance against its entry sum")
	fs.StringVar(&cfg.AccountID, "account-id", "", "account id (generated for -provision when omitted)")
	fs.StringVar(&cfg.Role, "role", "", "account role for -provision (USER, ADMIN, OWNER; default USER)")
	fs.BoolVar(&cfg.OAuth, "oauth", false, "mark the provisioned account as an oauth signup")
	fs.Int64Var(&cfg.Amount, "amount", 0, "signed adjustment amount in Bits")
	fs.StringVar(&cfg.Reason, "reason", string(domain.ReasonAdminAdjust), "adjustment reason tag")
	fs.StringVar(&cfg.ActorID, "actor-id", "", "acting admin account id for -adjust")
	fs.IntVar(&cfg.Limit, "limit", cfg.Limit, "max rows for -leaderboard and -history")
	fs.BoolVar(&cfg.JSONOutput, "json", false, "output JSON instead of text")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "path to ledger sqlite database (default: BITARCADE_LEDGER_DB_PATH or data/ledger.db)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "overall timeout")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// operation returns the single selected operation name, or an error when
// zero or several are selected.
func (c Config) operation() (string, error) {
	var selected []string
	for _, op := range []struct {
		name string
		on   bool
	}{
		{"provision", c.Provision},
		{"adjust", c.Adjust},
		{"claim-daily", c.ClaimDaily},
		{"grant-login", c.GrantLogin},
		{"leaderboard", c.Leaderboard},
		{"history", c.History},
		{"reconcile", c.Reconcile},
	} {
		if op.on {
			selected = append(selected, op.name)
		}
	}
	switch len(selected) {
	case 0:
		return "", errors.New("select one of -provision, -adjust, -claim-daily, -grant-login, -leaderboard, -history, -reconcile")
	case 1:
		return selected[0], nil
	default:
		return "", fmt.Errorf("flags -%s are mutually exclusive", strings.Join(selected, ", -"))
	}
}

// Run executes the ledgerctl command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}

	op, err := cfg.operation()
	if err != nil {
		return err
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open ledger store: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			fmt.Fprintf(errOut, "Error: close ledger store: %v\n", closeErr)
		}
	}()

	svc, err := engine.New(store, engine.Config{})
	if err != nil {
		return fmt.Errorf("build ledger service: %w", err)
	}

	switch op {
	case "provision":
		return runProvision(ctx, cfg, svc, out)
	case "adjust":
		return runAdjust(ctx, cfg, svc, out)
	case "claim-daily":
		return runClaimDaily(ctx, cfg, svc, out)
	case "grant-login":
		return runGrantLogin(ctx, cfg, svc, out)
	case "leaderboard":
		return runLeaderboard(ctx, cfg, svc, out)
	case "history":
		return runHistory(ctx, cfg, svc, out)
	case "reconcile":
		return runReconcile(ctx, cfg, svc, out)
	default:
		return fmt.Errorf("unknown operation %q", op)
	}
}

func runProvision(ctx context.Context, cfg Config, svc *engine.Service, out io.Writer) error {
	accountID := strings.TrimSpace(cfg.AccountID)
	if accountID == "" {
		generated, err := id.NewID()
		if err != nil {
			return fmt.Errorf("generate account id: %w", err)
		}
		accountID = generated
	}

	account, err := svc.CreateAccount(ctx, accountID, domain.Role(cfg.Role), cfg.OAuth)
	if err != nil {
		return err
	}

	if cfg.JSONOutput {
		return writeJSON(out, map[string]any{
			"account_id": account.ID,
			"role":       string(account.Role),
			"balance":    account.Balance,
		})
	}
	fmt.Fprintf(out, "provisioned account %s (%s) with balance %d\n", account.ID, account.Role, account.Balance)
	return nil
}

func runAdjust(ctx context.Context, cfg Config, svc *engine.Service, out io.Writer) error {
	newBalance, err := svc.AdjustBalance(ctx, cfg.AccountID, cfg.Amount, domain.Reason(cfg.Reason), cfg.ActorID)
	if err != nil {
		return err
	}

	if cfg.JSONOutput {
		return writeJSON(out, map[string]any{
			"account_id":  cfg.AccountID,
			"requested":   cfg.Amount,
			"new_balance": newBalance,
		})
	}
	fmt.Fprintf(out, "adjusted account %s by %d, new balance %d\n", cfg.AccountID, cfg.Amount, newBalance)
	return nil
}

func runClaimDaily(ctx context.Context, cfg Config, svc *engine.Service, out io.Writer) error {
	newBalance, err := svc.ClaimDaily(ctx, cfg.AccountID)
	if err != nil {
		return err
	}

	if cfg.JSONOutput {
		return writeJSON(out, map[string]any{
			"account_id":  cfg.AccountID,
			"new_balance": newBalance,
		})
	}
	fmt.Fprintf(out, "daily reward claimed for %s, new balance %d\n", cfg.AccountID, newBalance)
	return nil
}

func runGrantLogin(ctx context.Context, cfg Config, svc *engine.Service, out io.Writer) error {
	newBalance, err := svc.GrantLoginBonus(ctx, cfg.AccountID)
	if err != nil {
		return err
	}

	if cfg.JSONOutput {
		return writeJSON(out, map[string]any{
			"account_id":  cfg.AccountID,
			"new_balance": newBalance,
		})
	}
	fmt.Fprintf(out, "login bonus granted to %s, new balance %d\n", cfg.AccountID, newBalance)
	return nil
}

func runLeaderboard(ctx context.Context, cfg Config, svc *engine.Service, out io.Writer) error {
	rows, err := svc.Leaderboard(ctx, cfg.Limit)
	if err != nil {
		return err
	}

	if cfg.JSONOutput {
		type row struct {
			Rank      int    `json:"rank"`
			AccountID string `json:"account_id"`
			Balance   int64  `json:"balance"`
			Role      string `json:"role"`
		}
		report := make([]row, 0, len(rows))
		for i, r := range rows {
			report = append(report, row{Rank: i + 1, AccountID: r.AccountID, Balance: r.Balance, Role: string(r.Role)})
		}
		return writeJSON(out, report)
	}

	for i, r := range rows {
		fmt.Fprintf(out, "%3d. %-30s %10d %s\n", i+1, r.AccountID, r.Balance, r.Role)
	}
	return nil
}

func runHistory(ctx context.Context, cfg Config, svc *engine.Service, out io.Writer) error {
	entries, err := svc.RecentEntries(ctx, cfg.AccountID, cfg.Limit)
	if err != nil {
		return err
	}

	if cfg.JSONOutput {
		type row struct {
			ID        int64           `json:"id"`
			Amount    int64           `json:"amount"`
			Reason    string          `json:"reason"`
			Metadata  json.RawMessage `json:"metadata,omitempty"`
			CreatedAt string          `json:"created_at"`
		}
		report := make([]row, 0, len(entries))
		for _, e := range entries {
			report = append(report, row{
				ID:        e.ID,
				Amount:    e.Amount,
				Reason:    string(e.Reason),
				Metadata:  e.Metadata,
				CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
		return writeJSON(out, report)
	}

	for _, e := range entries {
		fmt.Fprintf(out, "%s %+6d %-20s %s\n", e.CreatedAt.UTC().Format(time.RFC3339), e.Amount, e.Reason, e.Metadata)
	}
	return nil
}

func runReconcile(ctx context.Context, cfg Config, svc *engine.Service, out io.Writer) error {
	report, err := svc.Reconcile(ctx, cfg.AccountID)
	if err != nil {
		return err
	}

	if cfg.JSONOutput {
		if err := writeJSON(out, map[string]any{
			"account_id": report.AccountID,
			"balance":    report.Balance,
			"entry_sum":  report.EntrySum,
			"consistent": report.Consistent(),
		}); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out, "account %s: balance %d, entry sum %d\n", report.AccountID, report.Balance, report.EntrySum)
	}

	if !report.Consistent() {
		return fmt.Errorf("account %s does not reconcile: balance %d, entry sum %d", report.AccountID, report.Balance, report.EntrySum)
	}
	return nil
}

func writeJSON(out io.Writer, value any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
