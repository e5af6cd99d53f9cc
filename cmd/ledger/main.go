package main

import (
	"context"
	"flag"
	"log"
	"math/big"
	"net/http"
	"os"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spolu/tally/ledger"
	"github.com/spolu/tally/ledger/app"
	"github.com/spolu/tally/ledger/model"
	"github.com/spolu/tally/lib/db"
	"github.com/spolu/tally/lib/errors"
	"github.com/spolu/tally/lib/out"
	"github.com/zenazn/goji/bind"
	"github.com/zenazn/goji/graceful"
	"goji.io"
	yaml "gopkg.in/yaml.v3"
)

var actFlag string

var envFlag string
var dsnFlag string
var hstFlag string
var prtFlag string

var cfgFlag string

func init() {
	flag.StringVar(&actFlag, "action",
		"run", "The action to perform (run, init)")

	flag.StringVar(&envFlag, "env",
		"qa", "The environment to run in (qa, production), default: qa")
	flag.StringVar(&dsnFlag, "db_dsn",
		"", "The DSN of the database to use, default: sqlite3://~/.tally/ledger-$env.db")
	flag.StringVar(&hstFlag, "host",
		"127.0.0.1", "The externally accessible host name of this ledger")
	flag.StringVar(&prtFlag, "port",
		"", "The port to listen on, default: 2480 (prod) or 2481 (qa)")

	flag.StringVar(&cfgFlag, "config",
		"~/.tally/ledger.yaml", "The ledger bootstrap configuration file (init action)")

	bind.WithFlag()
	if fl := log.Flags(); fl&log.Ltime != 0 {
		log.SetFlags(fl | log.Lmicroseconds)
	}
	graceful.DoubleKickWindow(2 * time.Second)
}

// Serve runs the mux on the default bind address and drains in-flight
// connections on shutdown signals.
func Serve(mux *goji.Mux) {
	listener := bind.Default()

	// Mount at the root of net/http's default mux so its built-in handlers
	// stay reachable.
	http.Handle("/", mux)

	log.Println("Listening on", listener.Addr())

	graceful.HandleSignals()
	bind.Ready()
	graceful.PreHook(func() { log.Printf("Received signal, stopping gracefully") })
	graceful.PostHook(func() { log.Printf("Stopped") })

	if err := graceful.Serve(listener, http.DefaultServeMux); err != nil {
		log.Fatal(err)
	}

	graceful.Wait()
}

func main() {
	if !flag.Parsed() {
		flag.Parse()
	}

	ctx, err := app.BackgroundContextFromFlags(
		envFlag, dsnFlag, hstFlag, prtFlag,
	)
	if err != nil {
		log.Fatal(errors.Details(err))
	}

	validActions := []string{"run", "init"}
	switch actFlag {
	case "run":
		mux, err := app.Build(ctx)
		if err != nil {
			log.Fatal(errors.Details(err))
		}
		Serve(mux)
	case "init":
		initLedger(ctx, cfgFlag)
	default:
		log.Fatalf("Invalid action `%s`, valid actions are: %s",
			actFlag, strings.Join(validActions, ", "))
	}
}

// bootstrap is the YAML configuration used to initialize the ledger.
type bootstrap struct {
	Name        string `yaml:"name"`
	Symbol      string `yaml:"symbol"`
	Description string `yaml:"description"`
	Decimals    int8   `yaml:"decimals"`
	Fee         string `yaml:"fee"`
	SupplyCap   int64  `yaml:"supply_cap"`
	OpenMint    bool   `yaml:"open_mint"`
	Owner       string `yaml:"owner"`
}

func initLedger(
	ctx context.Context,
	path string,
) {
	path, err := homedir.Expand(path)
	if err != nil {
		log.Fatal(errors.Details(err))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		out.Errof("[Error] Unable to read configuration: %s\n", path)
		log.Fatal(errors.Details(err))
	}

	var config bootstrap
	if err := yaml.Unmarshal(data, &config); err != nil {
		out.Errof("[Error] Invalid configuration: %s\n", path)
		log.Fatal(errors.Details(err))
	}

	owner, err := ledger.ParseAccount(config.Owner)
	if err != nil {
		out.Errof("[Error] Invalid owner account: %s\n", config.Owner)
		log.Fatal(errors.Details(err))
	}

	var fee model.Amount
	if config.Fee != "" {
		if _, success := (*big.Int)(&fee).SetString(config.Fee, 10); !success {
			out.Errof("[Error] Invalid fee: %s\n", config.Fee)
			log.Fatalf("Invalid fee: %s", config.Fee)
		}
	}

	ctx = db.Begin(ctx)
	defer db.LoggedRollback(ctx)

	l, err := model.CreateLedger(ctx,
		config.Name, config.Symbol, config.Description, config.Decimals,
		fee, config.SupplyCap, config.OpenMint, *owner)
	if err != nil {
		switch errors.Cause(err).(type) {
		case model.ErrUniqueConstraintViolation:
			out.Errof("[Error] The ledger is already initialized.\n")
			os.Exit(1)
		}
		log.Fatal(errors.Details(err))
	}

	db.Commit(ctx)

	out.Statf("[Initialized ledger] name:%s symbol:%s owner:%s\n",
		l.Name, l.Symbol, l.OwnerAccount().String())
	out.Normf("\n")
	out.Normf("Start the ledger with:\n")
	out.Boldf("  ledger -action=run -env=%s\n", envFlag)
}
