package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/emersion/go-autostart"
	"github.com/spf13/cobra"

	"rozadaar/internal/adapters/dispatch"
	"rozadaar/internal/adapters/sound"
	"rozadaar/internal/application/commands"
	"rozadaar/internal/application/countdown"
	"rozadaar/internal/application/scheduler"
	"rozadaar/internal/config"
	"rozadaar/internal/domain"
	"rozadaar/internal/ports"
)

// alertSinks adds the chime and the optional MQTT broker to base. The
// returned func disconnects from the broker.
func alertSinks(clientID string, base ...ports.AlertDispatcher) (dispatch.Multi, func()) {
	sinks := dispatch.Multi(base)
	if config.Sound() {
		sinks = append(sinks, sound.NewPlayer(log))
	}

	broker := config.MQTTBroker()
	if broker == "" {
		return sinks, func() {}
	}
	mqttSink, disconnect, err := dispatch.DialMQTT(broker, clientID, log)
	if err != nil {
		log.Warning("mqtt disabled: %v", err)
		return sinks, func() {}
	}
	return append(sinks, mqttSink), disconnect
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run alerts in the background without a UI",
	Long: `Keep the clock and cache in sync and fire Sehri and Iftar alerts until
interrupted. Alerts are logged, play a chime (unless ROZADAAR_SOUND=off),
and are published to ROZADAAR_MQTT_BROKER when set. The start is reported to
the analytics API as an installed visit unless ROZADAAR_ANALYTICS=off.

Use "rozadaar-cli autostart enable" to start the daemon on login.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logAlert := ports.DispatcherFunc(func(_ context.Context, event domain.AlertEvent) error {
			log.Info("%s: %s", event.Title, event.Message)
			return nil
		})
		sinks, closeSinks := alertSinks("rozadaar-daemon", logAlert)
		defer closeSinks()

		engine := countdown.NewEngine(corrector, sinks, loc, log)
		sched := scheduler.New(engine, catalog, corrector, reconciler, remote, log, scheduler.Options{
			SyncInterval: config.SyncInterval(),
		})

		if config.Analytics() {
			go func() {
				if err := commands.NewTrackVisitCommand(remote, catalog, true, "rozadaar-daemon").Execute(ctx); err != nil {
					log.Warning("tracking visit: %v", err)
				}
			}()
		}

		log.Info("daemon started for %s", catalog.Selected().NameEn)
		return sched.Run(ctx)
	},
}

// autostartApp describes the login item that runs the daemon with the
// current data and API settings
func autostartApp(exe string) *autostart.App {
	return &autostart.App{
		Name:        "rozadaar",
		DisplayName: "Rozadaar Ramadan alerts",
		Exec:        []string{exe, "daemon", "--data", dataPath, "--api", apiURL, "--tz", tzName},
	}
}

func currentAutostart() (*autostart.App, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, err
	}
	return autostartApp(exe), nil
}

var autostartCmd = &cobra.Command{
	Use:   "autostart",
	Short: "Start the alert daemon on login",
	Long: `Register or remove a login item that runs "rozadaar-cli daemon".

Examples:
  rozadaar-cli autostart enable
  rozadaar-cli autostart status
  rozadaar-cli autostart disable`,
}

var autostartEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Run the daemon on login",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := currentAutostart()
		if err != nil {
			return err
		}
		if app.IsEnabled() {
			// rewrite so changed flags take effect
			if err := app.Disable(); err != nil {
				return fmt.Errorf("replacing autostart entry: %w", err)
			}
		}
		if err := app.Enable(); err != nil {
			return fmt.Errorf("enabling autostart: %w", err)
		}
		fmt.Println("Autostart enabled.")
		return nil
	},
}

var autostartDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Stop running the daemon on login",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := currentAutostart()
		if err != nil {
			return err
		}
		if !app.IsEnabled() {
			fmt.Println("Autostart is not enabled.")
			return nil
		}
		if err := app.Disable(); err != nil {
			return fmt.Errorf("disabling autostart: %w", err)
		}
		fmt.Println("Autostart disabled.")
		return nil
	},
}

var autostartStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the daemon runs on login",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := currentAutostart()
		if err != nil {
			return err
		}
		if app.IsEnabled() {
			fmt.Printf("enabled: %v\n", app.Exec)
		} else {
			fmt.Println("disabled")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(autostartCmd)
	autostartCmd.AddCommand(autostartEnableCmd)
	autostartCmd.AddCommand(autostartDisableCmd)
	autostartCmd.AddCommand(autostartStatusCmd)
}
