// Package main is the entry point for the tablo table editor.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/tablo-edit/tablo/internal/cli"
	"github.com/tablo-edit/tablo/internal/command"
	"github.com/tablo-edit/tablo/internal/config"
	"github.com/tablo-edit/tablo/internal/diff"
	"github.com/tablo-edit/tablo/internal/markdown"
	"github.com/tablo-edit/tablo/internal/script"
	"github.com/tablo-edit/tablo/internal/session"
	"github.com/tablo-edit/tablo/internal/table"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var configPath string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.Usage = usage
	flag.Parse()

	if showVersion {
		fmt.Printf("tablo %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		return 0
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
		return 2
	}

	cfg, err := config.Load(resolveConfigPath(configPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	switch args[0] {
	case "fmt":
		return runFmt(cfg, args[1:])
	case "diff":
		return runDiff(cfg, args[1:])
	case "apply":
		return runApply(cfg, args[1:])
	case "map":
		return runMap(cfg, args[1:])
	case "watch":
		return runWatch(cfg, args[1:])
	}

	fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
	usage()
	return 2
}

func usage() {
	fmt.Fprintf(os.Stderr, "tablo - Markdown table versioning and reconciliation\n\n")
	fmt.Fprintf(os.Stderr, "Usage: tablo [options] <command> [args]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  fmt <file>              Reformat the tables in a document\n")
	fmt.Fprintf(os.Stderr, "  diff <old> <new>        Reconcile two documents into an annotated grid\n")
	fmt.Fprintf(os.Stderr, "  apply <file>            Apply JSON edit commands from stdin\n")
	fmt.Fprintf(os.Stderr, "  map <file> <script>     Run a Lua transform over every cell\n")
	fmt.Fprintf(os.Stderr, "  watch <file>            Reload and report when the document changes\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  tablo fmt -w notes.md\n")
	fmt.Fprintf(os.Stderr, "  tablo diff before.md after.md\n")
	fmt.Fprintf(os.Stderr, "  echo '{\"command\":\"sort\",\"column\":1,\"direction\":\"asc\"}' | tablo apply notes.md\n")
	fmt.Fprintf(os.Stderr, "  tablo map notes.md upper.lua\n")
}

// resolveConfigPath falls back to the per-user config file. A missing
// file loads defaults, so the fallback never has to exist.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "tablo", "config.toml")
}

func runFmt(cfg config.Config, args []string) int {
	fs := flag.NewFlagSet("fmt", flag.ExitOnError)
	write := fs.Bool("w", false, "Write result back to the file instead of stdout")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: tablo fmt [-w] <file>")
		return 2
	}
	path := fs.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	out := markdown.FormatDocument(string(data), markdown.RenderOptions{
		MinColumnWidth: cfg.Render.MinColumnWidth,
	})

	if *write {
		if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}
	fmt.Print(out)
	return 0
}

func runDiff(cfg config.Config, args []string) int {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "Emit the annotated grid as JSON")
	fs.Parse(args)
	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Usage: tablo diff [-json] <old> <new>")
		return 2
	}

	oldTable, err := firstTable(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	newTable, err := firstTable(fs.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	cd := diff.ComputeColumnDiff(oldTable.Headers(), newTable.Headers())
	rd := diff.ComputeRowDiff(oldTable.RowKeys(), newTable.RowKeys())
	grid, err := diff.Reconcile(newTable, cd, rd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if *asJSON {
		out, err := command.EncodeGrid(grid)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Println(string(out))
		return 0
	}

	fmt.Println(cli.RenderGrid(grid, cli.GridOptions{
		Placeholder:    cfg.Render.Placeholder,
		MinColumnWidth: cfg.Render.MinColumnWidth,
	}))
	if cd.Ambiguous {
		fmt.Fprintln(os.Stderr, "Warning: duplicate headers make the column alignment ambiguous")
	}
	return 0
}

func runApply(cfg config.Config, args []string) int {
	fs := flag.NewFlagSet("apply", flag.ExitOnError)
	dryRun := fs.Bool("n", false, "Apply commands but do not write the file back")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: tablo apply [-n] <file>")
		return 2
	}

	s, err := session.Open(fs.Arg(0), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	eng := s.Engine()

	scanner := bufio.NewScanner(os.Stdin)
	line := 0
	for scanner.Scan() {
		line++
		msg := scanner.Bytes()
		if len(msg) == 0 {
			continue
		}
		cmd, err := command.Decode(msg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: line %d: %v\n", line, err)
			return 1
		}
		if err := eng.Apply(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Error: line %d: %s: %v\n", line, cmd.Description(), err)
			return 1
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if !*dryRun {
		if err := s.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	out, err := command.EncodeSnapshot(eng.Snapshot())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Println(string(out))
	return 0
}

func runMap(cfg config.Config, args []string) int {
	fs := flag.NewFlagSet("map", flag.ExitOnError)
	dryRun := fs.Bool("n", false, "Run the transform but do not write the file back")
	fs.Parse(args)
	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Usage: tablo map [-n] <file> <script>")
		return 2
	}

	src, err := os.ReadFile(fs.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	s, err := session.Open(fs.Arg(0), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	n, err := script.Run(s.Engine(), string(src))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintf(os.Stderr, "%d cells changed\n", n)

	if n > 0 && !*dryRun {
		if err := s.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}
	return 0
}

func runWatch(cfg config.Config, args []string) int {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: tablo watch <file>")
		return 2
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)

	s, err := session.Open(fs.Arg(0), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	s.Commit("watch start")

	debounce := time.Duration(cfg.Session.DebounceMillis) * time.Millisecond
	w, err := session.NewWatcher(s.Path(), debounce)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer w.Close()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	logger.Printf("watching %s", s.Path())
	for {
		select {
		case <-signals:
			return 0

		case err, ok := <-w.Errors():
			if !ok {
				return 0
			}
			logger.Printf("watch error: %v", err)

		case _, ok := <-w.Events():
			if !ok {
				return 0
			}
			revs := s.Revisions()
			last := revs[len(revs)-1]

			if err := s.Reload(); err != nil {
				logger.Printf("reload failed: %v", err)
				continue
			}

			grid, err := s.DiffAgainst(last.ID)
			if err != nil {
				logger.Printf("diff failed: %v", err)
				continue
			}
			if grid.HasChanges() {
				fmt.Println(cli.RenderGrid(grid, cli.GridOptions{
					Placeholder:    cfg.Render.Placeholder,
					MinColumnWidth: cfg.Render.MinColumnWidth,
				}))
			} else {
				logger.Printf("reloaded, no table changes")
			}
			s.Commit("reload")
		}
	}
}

// firstTable parses the first Markdown table of the file at path.
func firstTable(path string) (*table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	pt, err := markdown.ParseFirst(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pt.Table, nil
}
