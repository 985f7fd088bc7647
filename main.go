package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/tobiusaolo/Cariya-wallet/api"
	"github.com/tobiusaolo/Cariya-wallet/config"
	"github.com/tobiusaolo/Cariya-wallet/logger"
	"github.com/tobiusaolo/Cariya-wallet/models"
	"github.com/tobiusaolo/Cariya-wallet/sandbox"
	"github.com/tobiusaolo/Cariya-wallet/screens"
	"github.com/tobiusaolo/Cariya-wallet/session"
)

const usage = `cariya - terminal client for the Cariya micro-savings platform

Usage: cariya [-config file] <command> [flags]

Commands:
  register     create an account and sign in
  login        sign in with mobile number and password
  logout       sign out
  dashboard    credit score, balance and milestone rollup
  savings      savings overview and mini statements
  save         record a savings installment
  donors       donor discovery list
  compliance   annual compliance standing
  activity     log a monthly activity
  profile      view your profile
  edit         update your profile
  sandbox      run a local stand-in API server
`

func main() {
	configPath := flag.String("config", defaultConfigPath(), "path to config file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	if err := cfg.EnsureDataDir(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Development, logger.LogLevel(cfg.LogLevel), cfg.LogPath()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "cariya.yaml"
	}
	return filepath.Join(home, ".cariya-wallet", "config.yaml")
}

func run(cfg *config.Config, command string, args []string) error {
	if command == "sandbox" {
		return sandbox.New().Run(cfg.SandboxAddr)
	}

	store, err := session.OpenBolt(cfg.SessionPath())
	if err != nil {
		// A broken session db must not lock the user out of the app; fall
		// back to an in-memory session for this run.
		logger.Get().Warn("session storage unavailable, continuing without persistence", zap.Error(err))
		return runWith(cfg, &session.MemoryStore{}, command, args)
	}
	defer store.Close()
	return runWith(cfg, store, command, args)
}

func runWith(cfg *config.Config, store session.Store, command string, args []string) error {
	manager := session.NewManager(store, session.Options{
		CompatTokenFallback: cfg.CompatTokenFallback,
	})
	manager.Bootstrap()

	client, err := api.New(api.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.HTTPTimeout,
		Tokens:  manager,
	})
	if err != nil {
		return err
	}

	deps := screens.Deps{Client: client, Session: manager, Cfg: cfg}
	ctx := context.Background()
	out := os.Stdout

	switch command {
	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		first := fs.String("first-name", "", "first name")
		surname := fs.String("surname", "", "surname")
		mobile := fs.String("mobile", "", "mobile number (+256XXXXXXXXX)")
		children := fs.Int("children", 0, "number of children")
		ages := fs.String("ages", "", "children ages by birth order, e.g. 2/4/6")
		fs.Parse(args)
		return screens.Register(ctx, deps, out, models.Registration{
			FirstName:      *first,
			Surname:        *surname,
			MobileNumber:   *mobile,
			NumChildren:    *children,
			AgesOfChildren: *ages,
		})

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		mobile := fs.String("mobile", "", "mobile number (+256XXXXXXXXX)")
		password := fs.String("password", "", "password")
		fs.Parse(args)
		return screens.Login(ctx, deps, out, *mobile, *password)

	case "logout":
		screens.Logout(deps, out)
		return nil

	case "dashboard":
		return screens.Dashboard(ctx, deps, out)

	case "savings":
		return screens.Savings(ctx, deps, out)

	case "save":
		fs := flag.NewFlagSet("save", flag.ExitOnError)
		amount := fs.Float64("amount", 0, "amount to save")
		date := fs.String("date", "", "date (YYYY-MM-DD, default today)")
		activity := fs.String("activity", "", "what the saving came from")
		fs.Parse(args)
		return screens.AddSavings(ctx, deps, out, models.SavingsEntry{
			Amount:   *amount,
			Date:     *date,
			Activity: *activity,
		})

	case "donors":
		return screens.Donors(ctx, deps, out)

	case "compliance":
		return screens.Compliance(ctx, deps, out)

	case "activity":
		fs := flag.NewFlagSet("activity", flag.ExitOnError)
		name := fs.String("name", "", "activity description")
		partner := fs.String("partner", "", "partner organization")
		month := fs.Int("month", 0, "month number (1-12)")
		fs.Parse(args)
		return screens.Activity(ctx, deps, out, models.MonthlyActivity{
			Activity: *name,
			Partner:  *partner,
			Month:    *month,
		})

	case "profile":
		return screens.Profile(ctx, deps, out)

	case "edit":
		fs := flag.NewFlagSet("edit", flag.ExitOnError)
		first := fs.String("first-name", "", "first name")
		surname := fs.String("surname", "", "surname")
		mobile := fs.String("mobile", "", "mobile number")
		children := fs.Int("children", 0, "number of children")
		ages := fs.String("ages", "", "children ages by birth order")
		fs.Parse(args)
		return screens.EditProfile(ctx, deps, out, models.Registration{
			FirstName:      *first,
			Surname:        *surname,
			MobileNumber:   *mobile,
			NumChildren:    *children,
			AgesOfChildren: *ages,
		})

	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}
