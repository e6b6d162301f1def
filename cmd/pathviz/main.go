// Command pathviz runs the A* visualizer in a terminal (-ui tui) or serves it
// over websockets for a browser (-ui web).
//
//	pathviz -config pathviz.yaml -ui web -addr :8080 -runlog runs.db
//	pathviz -ui tui -width 40 -height 20 -dynamic
//	pathviz -runlog runs.db -runs 20
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/pathviz/config"
	"github.com/katalvlaran/pathviz/runlog"
	"github.com/katalvlaran/pathviz/server"
	"github.com/katalvlaran/pathviz/session"
	"github.com/katalvlaran/pathviz/tui"
)

type flags struct {
	config  string
	ui      string
	addr    string
	width   int
	height  int
	seed    int64
	tick    time.Duration
	animate bool
	dynamic bool
	stale   bool
	runlog  string
	runs    int
	qr      bool
}

func main() {
	var f flags
	flag.StringVar(&f.config, "config", "", "YAML config file (defaults apply when empty)")
	flag.StringVar(&f.ui, "ui", "tui", "front-end: tui or web")
	flag.StringVar(&f.addr, "addr", "", "HTTP listen address for -ui web")
	flag.IntVar(&f.width, "width", 0, "grid width")
	flag.IntVar(&f.height, "height", 0, "grid height")
	flag.Int64Var(&f.seed, "seed", 0, "random seed (0 = time based)")
	flag.DurationVar(&f.tick, "tick", 0, "animation tick")
	flag.BoolVar(&f.animate, "animate", true, "animate searches")
	flag.BoolVar(&f.dynamic, "dynamic", false, "moving obstacles block the search")
	flag.BoolVar(&f.stale, "detect-stale", false, "report found paths crossed by moving obstacles")
	flag.StringVar(&f.runlog, "runlog", "", "SQLite file for run summaries")
	flag.IntVar(&f.runs, "runs", 0, "print the last N logged runs and exit")
	flag.BoolVar(&f.qr, "qr", true, "print a QR code of the viewer URL (-ui web)")
	flag.Parse()

	cfg, err := loadConfig(f)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if f.runs > 0 {
		if err := printRuns(cfg.RunLog.Path, f.runs); err != nil {
			log.Fatalf("runs: %v", err)
		}
		return
	}

	if err := run(cfg, f); err != nil {
		log.Fatal(err)
	}
}

// loadConfig reads the config file and applies the flags the user set.
func loadConfig(f flags) (config.Config, error) {
	cfg := config.Default()
	if f.config != "" {
		var err error
		if cfg, err = config.Load(f.config); err != nil {
			return cfg, err
		}
	}

	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "addr":
			cfg.Server.Addr = f.addr
		case "width":
			cfg.Grid.Width = f.width
		case "height":
			cfg.Grid.Height = f.height
		case "seed":
			cfg.Seed = f.seed
		case "tick":
			cfg.Tick = f.tick
		case "animate":
			cfg.Search.Animate = f.animate
		case "dynamic":
			cfg.Search.Dynamic = f.dynamic
		case "detect-stale":
			cfg.Search.DetectStale = f.stale
		case "runlog":
			cfg.RunLog.Path = f.runlog
		}
	})
	return cfg, cfg.Validate()
}

func run(cfg config.Config, f flags) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var opts []session.Option
	if cfg.RunLog.Path != "" {
		st, err := runlog.Open(cfg.RunLog.Path)
		if err != nil {
			return err
		}
		defer st.Close()
		rec := runlog.NewRecorder(st)
		defer func() {
			if err := rec.Close(); err != nil {
				log.Printf("runlog: %v", err)
			}
			if n := rec.Dropped(); n > 0 {
				log.Printf("runlog: dropped %d summaries", n)
			}
		}()
		opts = append(opts, session.WithRecorder(rec))
	}

	sess, err := session.New(cfg, opts...)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sess.Run(ctx) })

	switch f.ui {
	case "web":
		serveWeb(ctx, g, sess, cfg.Server.Addr, f.qr)
	case "tui":
		screen, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		if err := screen.Init(); err != nil {
			return err
		}
		defer screen.Fini()
		ui := tui.New(screen, sess)
		g.Go(func() error {
			if err := ui.Run(ctx); err != nil {
				return err
			}
			return errQuit
		})
	default:
		return fmt.Errorf("unknown -ui %q", f.ui)
	}

	err = g.Wait()
	if errors.Is(err, errQuit) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// errQuit ends the group when the user leaves the terminal UI.
var errQuit = errors.New("quit")

func serveWeb(ctx context.Context, g *errgroup.Group, sess *session.Session, addr string, qr bool) {
	srv := server.New(sess)
	hs := &http.Server{Addr: addr, Handler: srv.Handler()}

	g.Go(func() error { return srv.Run(ctx) })
	g.Go(func() error {
		log.Printf("Server starting on %s", addr)
		if err := hs.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return hs.Shutdown(shutdownCtx)
	})

	url := viewerURL(addr)
	log.Printf("Viewer at %s", url)
	if qr {
		if code, err := qrText(url); err != nil {
			log.Printf("qr: %v", err)
		} else {
			fmt.Fprint(os.Stderr, code)
		}
	}
}

func printRuns(path string, n int) error {
	if path == "" {
		return errors.New("-runlog is required")
	}
	st, err := runlog.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	runs, err := st.Recent(ctx, n)
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Printf("%s  %-9s %3dx%-3d (%d,%d)->(%d,%d)  explored=%-5d path=%-4d movers=%-3d %s\n",
			r.StartedAt.Format(time.DateTime), r.Status, r.Width, r.Height,
			r.Start.X, r.Start.Y, r.End.X, r.End.Y, r.Explored, r.PathLen, r.Movers, r.Duration)
	}

	stats, err := st.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("total=%d avg_explored=%.1f by_status=%v\n", stats.Total, stats.AvgVisits, stats.ByStatus)
	return nil
}
