// Package console prints the operator-facing messages of the server.
package console

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/f4ah6o/webserve-go/internal/build"
	"github.com/f4ah6o/webserve-go/internal/config"
)

var (
	bold   = color.New(color.Bold)
	cyan   = color.New(color.FgCyan)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
)

// Banner prints the startup notice: where the build is served from and how to
// stop it. inspectErr is the error, if any, returned by build.Inspect.
func Banner(w io.Writer, cfg config.Config, info *build.Info, inspectErr error) {
	fmt.Fprintf(w, "🚀 Serving Godot web build at %s\n", cyan.Sprint(cfg.URL()))
	fmt.Fprintf(w, "📁 Serving from: %s\n", cfg.Root)
	if inspectErr != nil {
		fmt.Fprintf(w, "%s cannot read %s: %v\n", yellow.Sprint("⚠️  Warning:"), build.IndexFile, inspectErr)
	}
	if info != nil {
		if info.Title != "" {
			fmt.Fprintf(w, "🎮 %s\n", bold.Sprint(info.Title))
		}
		if !info.HasIndex {
			fmt.Fprintf(w, "%s no %s in the build directory\n", yellow.Sprint("⚠️  Warning:"), build.IndexFile)
		}
		for _, p := range info.Missing {
			fmt.Fprintf(w, "%s %s references missing file %s\n", yellow.Sprint("⚠️  Warning:"), build.IndexFile, p)
		}
	}
	fmt.Fprintf(w, "\n🌐 Open your browser and navigate to: %s\n", cyan.Sprint(cfg.URL()))
	fmt.Fprintf(w, "\nPress Ctrl+C to stop the server\n\n")
}

// Stopped prints the shutdown notice.
func Stopped(w io.Writer) {
	fmt.Fprintf(w, "\n\nServer stopped.\n")
}

// Fatal prints err and, when hint is not empty, what to do about it.
func Fatal(w io.Writer, err error, hint string) {
	fmt.Fprintf(w, "%s %v\n", red.Sprint("Error:"), err)
	if hint != "" {
		fmt.Fprintln(w, hint)
	}
}
