// cmd/server/main.go
package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Hareesh108/haruDB/internal/catalog"
	"github.com/Hareesh108/haruDB/internal/engine"
	"github.com/Hareesh108/haruDB/internal/netserver"
)

const dbVersion = "v0.1.0"

func main() {
	var (
		socketPath       string
		dataDir          string
		maxSharedPerPass int
		maxSelectThreads int
		maxBtreeKeys     int
		verbose          bool
		backupOnShutdown bool
		backupDir        string
	)

	root := &cobra.Command{
		Use:   "harudb-server",
		Short: "Run and administer the haruDB column-store engine",
	}
	root.PersistentFlags().StringVar(&socketPath, "socket", "/tmp/harudb.sock", "path to the local stream socket")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the engine, listening on --socket until shutdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(serveOptions{
				socketPath:       socketPath,
				dataDir:          dataDir,
				maxSharedPerPass: maxSharedPerPass,
				maxSelectThreads: maxSelectThreads,
				maxBtreeKeys:     maxBtreeKeys,
				verbose:          verbose,
				backupOnShutdown: backupOnShutdown,
				backupDir:        backupDir,
			})
		},
	}
	serveCmd.Flags().StringVar(&dataDir, "data-dir", "./data", "directory holding the persisted catalog")
	serveCmd.Flags().IntVar(&maxSharedPerPass, "max-shared-per-pass", engine.DefaultMaxSharedPerPass, "comparators fused per shared-scan bucket")
	serveCmd.Flags().IntVar(&maxSelectThreads, "max-select-threads", engine.MaxSelectThreads, "worker pool size for the batch scheduler")
	serveCmd.Flags().IntVar(&maxBtreeKeys, "max-btree-keys", engine.DefaultMaxBtreeKeys, "B+tree node fanout for newly created indexes")
	serveCmd.Flags().BoolVar(&backupOnShutdown, "backup-on-shutdown", false, "archive the data directory to --backup-dir before persisting on shutdown")
	serveCmd.Flags().StringVar(&backupDir, "backup-dir", "./backups", "directory for timestamped tar.gz backups (with --backup-on-shutdown)")

	shutdownCmd := &cobra.Command{
		Use:   "shutdown",
		Short: "Ask a running server on --socket to persist and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShutdown(socketPath)
		},
	}

	root.AddCommand(serveCmd, shutdownCmd)

	// Bare invocation (no subcommand) keeps the server's original shape:
	// serve with whatever flags were given.
	root.RunE = serveCmd.RunE
	root.Flags().AddFlagSet(serveCmd.Flags())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type serveOptions struct {
	socketPath       string
	dataDir          string
	maxSharedPerPass int
	maxSelectThreads int
	maxBtreeKeys     int
	verbose          bool
	backupOnShutdown bool
	backupDir        string
}

func runServe(opts serveOptions) error {
	level := zerolog.InfoLevel
	if opts.verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		Level(level).
		With().Timestamp().Logger()

	if err := os.MkdirAll(opts.dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir %s: %w", opts.dataDir, err)
	}

	cat, err := loadOrCreateCatalog(opts.dataDir, log)
	if err != nil {
		return err
	}
	engine.Log = log

	ln, err := netserver.Listen(opts.socketPath)
	if err != nil {
		return err
	}
	log.Info().Str("socket", opts.socketPath).Str("version", dbVersion).Msg("haruDB server started")

	persist := func(reason string) error {
		log.Info().Str("reason", reason).Msg("persisting catalog")
		if opts.backupOnShutdown {
			bm := catalog.NewBackupManager(opts.dataDir)
			backupPath := filepath.Join(opts.backupDir, fmt.Sprintf("harudb-%s.tar.gz", time.Now().UTC().Format("20060102T150405Z")))
			if err := bm.CreateBackup(backupPath, reason); err != nil {
				log.Error().Err(err).Msg("backup before shutdown failed")
			} else {
				log.Info().Str("backup", backupPath).Msg("backup written")
			}
		}
		return catalog.Dump(cat, opts.dataDir)
	}

	srv := &netserver.Server{
		Catalog:          cat,
		Log:              log,
		MaxSharedPerPass: opts.maxSharedPerPass,
		MaxSelectThreads: opts.maxSelectThreads,
		MaxBtreeKeys:     opts.maxBtreeKeys,
		OnShutdown: func() error {
			return persist("shutdown command")
		},
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		if err := persist("signal"); err != nil {
			log.Error().Err(err).Msg("persist on signal")
		}
		ln.Close()
	}()

	return srv.Serve(ln)
}

// runShutdown drives the client half of the shutdown command (spec §6): dial
// the running server's socket, send "shutdown()", and report its reply. This
// lets an operator stop the engine without an interactive REPL session.
func runShutdown(socketPath string) error {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", socketPath, err)
	}
	defer conn.Close()

	if err := netserver.WriteFrame(conn, netserver.StatusOKDone, []byte("shutdown()")); err != nil {
		return fmt.Errorf("send shutdown: %w", err)
	}
	h, payload, err := netserver.ReadFrame(conn)
	if err != nil {
		return fmt.Errorf("read shutdown response: %w", err)
	}
	if h.Status != netserver.StatusOKDone {
		return fmt.Errorf("shutdown rejected: %s", string(payload))
	}
	fmt.Println("server shutting down")
	return nil
}

func loadOrCreateCatalog(dataDir string, log zerolog.Logger) (*engine.Catalog, error) {
	if _, err := os.Stat(filepath.Join(dataDir, "all_databases")); err == nil {
		log.Info().Str("data-dir", dataDir).Msg("restoring catalog from disk")
		return catalog.Restore(dataDir)
	}
	log.Info().Msg("starting with an empty catalog")
	return engine.NewCatalog(), nil
}
