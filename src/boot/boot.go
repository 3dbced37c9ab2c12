// Package boot gets the process ready for gorig before gorig initializes.
//
// gorig reads <sys.mode>.yaml from ./_bin/ or ./ in its init and exits when
// there is none, and it prints its banner to stdout. A command line tool runs
// from any directory and owns stdout, so boot points gorig at a fallback
// config and sends init output to stderr until Done is called.
//
// boot must only import packages viper already depends on. Go initializes
// the first ready package in import path order, so that keeps boot ahead of
// viper and of every gorig package.
package boot

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	modeEnv     = "GORIG_SYS_MODE"
	defaultMode = "local"
)

var (
	wd      string
	moved   bool
	restore = func() {}
)

func init() {
	wd, _ = os.Getwd()
	restore = quiet()
	dir, err := Prepare(wd, Mode(), FallbackDir())
	if err != nil || dir == wd {
		return
	}
	moved = os.Chdir(dir) == nil
}

// Done returns to the caller's working directory and stdout. Call it from
// the init of package main, which runs after every gorig package.
func Done() {
	if moved {
		_ = os.Chdir(wd)
		moved = false
	}
	restore()
	restore = func() {}
}

// Mode is the config name gorig will look for.
func Mode() string {
	if m := os.Getenv(modeEnv); m != "" {
		return m
	}
	return defaultMode
}

// FallbackDir is where the config is written when the working directory has
// none: the user cache dir, else the temp dir.
func FallbackDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "logalyzer")
}

// HasConfig reports whether gorig would find a config for mode in dir.
func HasConfig(dir, mode string) bool {
	for _, sub := range []string{"_bin", "."} {
		for _, ext := range []string{".yaml", ".yml"} {
			if fi, err := os.Stat(filepath.Join(dir, sub, mode+ext)); err == nil && !fi.IsDir() {
				return true
			}
		}
	}
	return false
}

// Prepare returns the directory gorig should read its config from. That is
// wd when it carries a config for mode. Otherwise Config is written to
// fallback and fallback is returned.
func Prepare(wd, mode, fallback string) (string, error) {
	if HasConfig(wd, mode) {
		return wd, nil
	}
	if err := os.MkdirAll(fallback, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(fallback, mode+".yaml"), []byte(Config(fallback)), 0o644); err != nil {
		return "", err
	}
	return fallback, nil
}

// Config is the fallback gorig config. It runs gorig in prod mode, which
// keeps its loggers off stdout, and keeps log files below dir.
func Config(dir string) string {
	logs := filepath.ToSlash(filepath.Join(dir, "logs"))
	var b strings.Builder
	b.WriteString("sys:\n  mode: prod\n")
	b.WriteString("logger:\n")
	for _, key := range []string{"commons", "console"} {
		b.WriteString("  " + key + ":\n")
		b.WriteString("    root: " + quote(logs+"/"+key+"/") + "\n")
	}
	return b.String()
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
