package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/trim21/errgo"
	_ "go.uber.org/automaxprocs"

	"binheap/internal/config"
	"binheap/internal/pkg/global"
	"binheap/internal/script"
	"binheap/internal/session"
	"binheap/internal/web"
)

const usage = `Usage:
  binheap [flags] serve             serve JSON-RPC api
  binheap [flags] run <script...>   run heap scripts

Flags:
`

func main() {
	if err := start(); err != nil {
		log.Error().Err(err).Send()
		os.Exit(1)
	}
}

func start() error {
	var configFilePath = pflag.String("config-file", "config.toml", "path to config file")
	var address = pflag.String("address", "", "web interface address (default 127.0.0.1:8004)")
	var token = pflag.String("token", "", "token required in Authorization header")
	var logLevel = pflag.String("log-level", "", "log level (default info)")
	var maxHeaps = pflag.Int("max-heaps", 0, "max number of heaps, 0 means no limit (default 1000)")
	var parallel = pflag.Int("parallel", 0, "number of scripts run at the same time (default 4)")
	var debug = pflag.Bool("debug", false, "enable debug routes and result validation")

	var profiling = pflag.Bool("profile", false, "enable profiling for CPU and Memory")
	var profileCpu = pflag.Bool("profile-cpu", false, "enable CPU profiling only")
	var profileMem = pflag.Bool("profile-memory", false, "enable Memory profiling only")

	pflag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		pflag.PrintDefaults()
	}

	// this avoids 'pflag: help requested' error when calling for help message.
	if slices.Contains(os.Args[1:], "--help") || slices.Contains(os.Args[1:], "-h") {
		pflag.Usage()
		fmt.Println("\nNote: extra options will override config file, but won't change config file.")
		return nil
	}

	pflag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime})

	cfg, err := config.LoadFromFile(*configFilePath)
	if err != nil {
		return errgo.Wrap(err, "failed to load config")
	}

	flags := pflag.CommandLine
	if flags.Changed("address") {
		cfg.App.Address = *address
	}
	if flags.Changed("token") {
		cfg.App.Token = *token
	}
	if flags.Changed("log-level") {
		cfg.App.LogLevel = *logLevel
	}
	if flags.Changed("max-heaps") {
		cfg.App.MaxHeaps = *maxHeaps
	}
	if flags.Changed("parallel") {
		cfg.App.Parallel = *parallel
	}
	if flags.Changed("debug") {
		cfg.App.Debug = *debug
	}

	if err := cfg.Validate(); err != nil {
		return errgo.Wrap(err, "invalid options")
	}

	level, _ := cfg.Level()
	zerolog.SetGlobalLevel(level)

	if *profileCpu || *profileMem || *profiling {
		var opt []func(*profile.Profile)
		if *profileCpu || *profiling {
			opt = append(opt, profile.CPUProfile)
		}
		if *profileMem || *profiling {
			opt = append(opt, profile.MemProfile)
		}
		defer profile.Start(opt...).Stop()
	}

	args := pflag.Args()
	if len(args) == 0 {
		args = []string{"serve"}
	}

	switch args[0] {
	case "serve":
		return serve(cfg)
	case "run":
		return run(cfg, args[1:])
	}

	pflag.Usage()

	return fmt.Errorf("unknown command %q", args[0])
}

func run(cfg config.Config, paths []string) error {
	if len(paths) == 0 {
		return errors.New("no script given")
	}

	var failed int
	for _, r := range script.RunFiles(paths, cfg.App.Parallel, cfg.App.MaxHeaps) {
		if len(paths) > 1 {
			fmt.Printf("==> %s <==\n", r.Path)
		}

		fmt.Print(r.Output)

		if r.Err != nil {
			failed++
			log.Error().Err(r.Err).Str("script", r.Path).Msg("script failed")
		}
	}

	if failed != 0 {
		return fmt.Errorf("%d of %d scripts failed", failed, len(paths))
	}

	return nil
}

func serve(cfg config.Config) error {
	limit, err := cfg.BodyLimit()
	if err != nil {
		return err
	}

	store := session.New(cfg.App.MaxHeaps)

	server := &http.Server{
		Addr: cfg.App.Address,
		Handler: web.New(store, web.Options{
			Token:     cfg.App.Token,
			BodyLimit: limit,
			Debug:     cfg.App.Debug,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()

		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdown); err != nil {
			log.Err(err).Msg("failed to shutdown server")
		}
	}()

	log.Info().Str("version", global.Version).Msgf("start http server at http://%s/docs/", cfg.App.Address)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errgo.Wrap(err, "failed to start http server")
	}

	log.Info().Uint64("ops", store.Ops()).Msg("server stopped")

	return nil
}
