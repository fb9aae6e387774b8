package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"rozadaar/internal/adapters/browser"
	"rozadaar/internal/adapters/dispatch"
	"rozadaar/internal/adapters/editor"
	"rozadaar/internal/adapters/httpclient"
	"rozadaar/internal/adapters/keyring"
	"rozadaar/internal/adapters/sound"
	"rozadaar/internal/adapters/sqlite"
	"rozadaar/internal/adapters/timesource"
	"rozadaar/internal/adapters/tui"
	"rozadaar/internal/application"
	"rozadaar/internal/application/clock"
	"rozadaar/internal/application/commands"
	"rozadaar/internal/application/countdown"
	"rozadaar/internal/application/reconcile"
	"rozadaar/internal/application/scheduler"
	"rozadaar/internal/config"
	"rozadaar/internal/logger"
	"rozadaar/internal/ports"
)

func main() {
	apiFlag := flag.String("api", config.APIURL(), "remote base URL")
	dataFlag := flag.String("data", config.StatePath(), "path to the local state database")
	flag.Parse()

	if err := run(*apiFlag, *dataFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(apiURL, dataPath string) error {
	log, err := logger.NewFileLogger(config.LogPath(), "rozadaar")
	if err != nil {
		return err
	}
	defer log.Close()

	store, err := sqlite.Open(dataPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loc := config.Location()
	state := application.NewLocalState(store, log)
	catalog := application.LoadCatalog(ctx, state)

	corrector := clock.NewCorrector(ports.SystemClock, state, timesource.Defaults(apiURL), log)
	corrector.Load(ctx)

	remote := httpclient.New(apiURL)
	reconciler := reconcile.NewReconciler(remote, catalog, nil, corrector, log)

	app := tui.NewApp(tui.Deps{
		Catalog:    catalog,
		Clock:      corrector,
		Loc:        loc,
		Reconciler: reconciler,
		Editor:     editor.NewOpener(),
		Links:      browser.NewOpener(),
		Secret:     keyring.Resolve(config.Secret(), keyring.NewStore()),
		Log:        log,
	})

	sinks := dispatch.Multi{app.Dispatcher()}
	if config.Sound() {
		sinks = append(sinks, sound.NewPlayer(log))
	}
	if broker := config.MQTTBroker(); broker != "" {
		mqttSink, disconnect, err := dispatch.DialMQTT(broker, "rozadaar-tui", log)
		if err != nil {
			log.Warning("mqtt disabled: %v", err)
		} else {
			defer disconnect()
			sinks = append(sinks, mqttSink)
		}
	}

	engine := countdown.NewEngine(corrector, sinks, loc, log)
	sched := scheduler.New(engine, catalog, corrector, reconciler, remote, log, scheduler.Options{
		SyncInterval: config.SyncInterval(),
		OnTick:       app.OnTick,
	})
	app.Attach(sched)

	if config.Analytics() {
		go func() {
			if err := commands.NewTrackVisitCommand(remote, catalog, false, "rozadaar").Execute(ctx); err != nil {
				log.Warning("tracking visit: %v", err)
			}
		}()
	}

	done := make(chan error, 1)
	go func() { done <- sched.Run(ctx) }()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithReportFocus())
	_, err = p.Run()

	cancel()
	if schedErr := <-done; schedErr != nil {
		log.Error("scheduler: %v", schedErr)
	}
	return err
}
