// Package main serves a Godot web export from builds/web for local testing.
package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/f4ah6o/webserve-go/internal/build"
	"github.com/f4ah6o/webserve-go/internal/config"
	"github.com/f4ah6o/webserve-go/internal/console"
	"github.com/f4ah6o/webserve-go/internal/server"
)

func init() {
	// Request handling never logs; keep library chatter out of the console too.
	log.SetOutput(io.Discard)
}

func main() {
	wd, err := os.Getwd()
	if err != nil {
		console.Fatal(os.Stderr, err, "")
		os.Exit(1)
	}
	cfg, err := config.Load(wd)
	if err != nil {
		console.Fatal(os.Stderr, err, "")
		os.Exit(1)
	}
	os.Exit(serve(wd, cfg, os.Stdout, os.Stderr))
}

// serve runs the server until the process receives SIGINT or SIGTERM.
func serve(workDir string, cfg config.Config, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, workDir, cfg, stdout, stderr)
}

// run serves cfg.Root until ctx is done and returns the exit code.
func run(ctx context.Context, workDir string, cfg config.Config, stdout, stderr io.Writer) int {
	if err := config.CheckRoot(cfg); err != nil {
		console.Fatal(stderr, err, exportHint(workDir, cfg.Root))
		return 1
	}

	// Inspection is advisory; the files may still be servable.
	info, inspectErr := build.Inspect(cfg.Root)

	srv := server.New(cfg)
	ln, err := srv.Listen()
	if err != nil {
		console.Fatal(stderr, err, "")
		return 1
	}

	console.Banner(stdout, cfg, info, inspectErr)

	if err := srv.Serve(ctx, ln); err != nil {
		console.Fatal(stderr, err, "")
		return 1
	}
	console.Stopped(stdout)
	return 0
}

// exportHint tells the operator where the export is expected, relative to
// workDir when the root lies beneath it.
func exportHint(workDir, root string) string {
	dir := root
	if rel, err := filepath.Rel(workDir, root); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		dir = filepath.ToSlash(rel)
	}
	return "Please export your Godot project to " + dir + " first."
}
