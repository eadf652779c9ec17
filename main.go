// main.go
//
// Entry point.
//
//	dq1password [serve]                  run the HTTP API (default)
//	dq1password decode <password>        print the decoded state as JSON
//	dq1password encode <state.json|->    print the password for a JSON state
//	dq1password generate <pattern> [n]   stream up to n (default 10) matching passwords
//	dq1password count <pattern>          print the number of matching passwords
//
// Configuration comes from the environment (and .env); see internal/config.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/dq1password/assets"
	"github.com/robalobadob/dq1password/internal/catalog"
	"github.com/robalobadob/dq1password/internal/config"
	"github.com/robalobadob/dq1password/internal/httpserver"
	"github.com/robalobadob/dq1password/internal/password"
	"github.com/robalobadob/dq1password/internal/sqlite"
	"github.com/robalobadob/dq1password/internal/store"
)

var errUsage = errors.New("usage: dq1password [serve | decode <password> | encode <state.json|-> | generate <pattern> [limit] | count <pattern>]")

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	zerolog.SetGlobalLevel(cfg.Level())

	args := os.Args[1:]
	cmd := "serve"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}
	if cmd != "serve" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	}

	if err := catalog.Init(cfg.CatalogFile); err != nil {
		log.Fatal().Err(err).Str("file", cfg.CatalogFile).Msg("failed to load catalog")
	}

	if err := run(cfg, cmd, args, os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		log.Fatal().Err(err).Str("command", cmd).Msg("failed")
	}
}

func run(cfg config.Config, cmd string, args []string, stdin io.Reader, stdout io.Writer) error {
	switch cmd {
	case "serve":
		return serve(cfg)
	case "decode":
		if len(args) != 1 {
			return errUsage
		}
		st, err := password.Decode(args[0])
		if err != nil {
			return err
		}
		return printJSON(stdout, struct {
			State   password.State  `json:"state"`
			Summary catalog.Summary `json:"summary"`
		}{st, catalog.Describe(st)})
	case "encode":
		if len(args) != 1 {
			return errUsage
		}
		st, err := readState(args[0], stdin)
		if err != nil {
			return err
		}
		text, err := password.Encode(st)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, text)
		return err
	case "generate":
		if len(args) < 1 || len(args) > 2 {
			return errUsage
		}
		limit := 10
		if len(args) == 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("limit: %w", err)
			}
			limit = n
		}
		if limit <= 0 {
			return fmt.Errorf("%w: limit must be positive, got %d", password.ErrInvalidPattern, limit)
		}
		p, err := password.ParsePattern(args[0])
		if err != nil {
			return err
		}
		// stream; the walk stops once limit lines are out or a write fails
		var written int
		var werr error
		p.Walk(func(pw string) bool {
			if _, werr = fmt.Fprintln(stdout, pw); werr != nil {
				return false
			}
			written++
			return written < limit
		})
		return werr
	case "count":
		if len(args) != 1 {
			return errUsage
		}
		n, err := password.Count(args[0])
		if err != nil {
			return err
		}
		if n == maxCount {
			_, err = fmt.Fprintf(stdout, ">=%d\n", n)
			return err
		}
		_, err = fmt.Fprintln(stdout, n)
		return err
	default:
		return errUsage
	}
}

const maxCount = ^uint64(0)

func readState(path string, stdin io.Reader) (password.State, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return password.State{}, err
		}
		defer f.Close()
		r = f
	}
	var st password.State
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&st); err != nil {
		return password.State{}, fmt.Errorf("read state: %w", err)
	}
	return st, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func serve(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.OpenMigrated(ctx, cfg.DBPath, assets.Migrations())
	if err != nil {
		return fmt.Errorf("open database %s: %w", cfg.DBPath, err)
	}
	defer db.Close()

	srv := httpserver.New(cfg, store.NewMemoryStore(0), db)
	hs := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("db", cfg.DBPath).Msg("starting dq1password server")
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return hs.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
