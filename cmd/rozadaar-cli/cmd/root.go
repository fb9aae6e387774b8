package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"rozadaar/internal/adapters/httpclient"
	"rozadaar/internal/adapters/keyring"
	"rozadaar/internal/adapters/sqlite"
	"rozadaar/internal/adapters/timesource"
	"rozadaar/internal/application"
	"rozadaar/internal/application/clock"
	"rozadaar/internal/application/reconcile"
	"rozadaar/internal/config"
	"rozadaar/internal/logger"
	"rozadaar/internal/ports"
)

var (
	apiURL     string
	dataPath   string
	secret     string
	locationID string
	tzName     string

	store      *sqlite.Store
	log        logger.Logger
	loc        *time.Location
	catalog    *application.Catalog
	corrector  *clock.Corrector
	remote     *httpclient.Client
	reconciler *reconcile.Reconciler
)

var rootCmd = &cobra.Command{
	Use:   "rozadaar-cli",
	Short: "Sehri and Iftar countdown from the command line",
	Long: `rozadaar-cli reads the cached Ramadan timetable, counts down to the
next Sehri or Iftar, and keeps the cache in sync with the remote source.

Admin commands (push, edit, notes add/delete, stats) need the shared secret, from
--secret, ROZADAAR_SECRET, or the OS keyring after "rozadaar-cli login".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		l, err := time.LoadLocation(tzName)
		if err != nil {
			return fmt.Errorf("unknown time zone %q: %w", tzName, err)
		}
		loc = l

		store, err = sqlite.Open(dataPath)
		if err != nil {
			return err
		}

		ctx := context.Background()
		log = logger.NewStderrLogger("rozadaar-cli")
		state := application.NewLocalState(store, log)
		catalog = application.LoadCatalog(ctx, state)

		corrector = clock.NewCorrector(ports.SystemClock, state, timesource.Defaults(apiURL), log)
		corrector.Load(ctx)

		remote = httpclient.New(apiURL)
		reconciler = reconcile.NewReconciler(remote, catalog, nil, corrector, log)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store == nil {
			return nil
		}
		return store.Close()
	},
}

// adminSecret returns the secret for admin commands, falling back to the keyring
func adminSecret() string {
	return keyring.Resolve(secret, keyring.NewStore())
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&apiURL, "api", config.APIURL(), "remote base URL")
	flags.StringVarP(&dataPath, "data", "d", config.StatePath(), "path to the local state database")
	flags.StringVar(&secret, "secret", config.Secret(), "admin secret for writes")
	flags.StringVarP(&locationID, "location", "l", "", "location id (default: the selected location)")
	flags.StringVar(&tzName, "tz", config.Timezone(), "IANA time zone of the timetable")
}
