// Command nodeuri prints the display name and server address of proxy node
// URIs read from arguments, files or stdin.
package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Resinat/nodeuri/internal/buildinfo"
	"github.com/Resinat/nodeuri/internal/config"
	"github.com/Resinat/nodeuri/internal/geoip"
	"github.com/Resinat/nodeuri/internal/inspect"
	"github.com/Resinat/nodeuri/internal/subscription"
	"github.com/Resinat/nodeuri/pkg/nodeuri"
	"github.com/sirupsen/logrus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type cliOptions struct {
	file         string
	subscription bool
	format       string
	dedupe       bool
	prefix       string
	geoipDB      string
	concurrency  int
	version      bool
	args         []string
}

// run is main without the process globals. It returns the exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	// 1. Environment config provides flag defaults
	envCfg, err := config.LoadEnvConfig()
	if err != nil {
		fmt.Fprintf(stderr, "fatal: %v\n", err)
		return 1
	}

	// 2. Flags override env
	opts, err := parseFlags(args, envCfg, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "fatal: %v\n", err)
		return 1
	}
	if opts.version {
		fmt.Fprintf(stdout, "nodeuri %s (commit %s, built %s)\n",
			buildinfo.Version, buildinfo.GitCommit, buildinfo.BuildTime)
		return 0
	}

	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetLevel(envCfg.LogLevel)

	// 3. Collect input
	uris, err := collectURIs(opts, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "fatal: %v\n", err)
		return 1
	}

	// 4. Optional GeoIP
	var geo *geoip.Service
	if opts.geoipDB != "" {
		geo, err = geoip.Open(opts.geoipDB, envCfg.GeoIPCacheEntries, nil)
		if err != nil {
			fmt.Fprintf(stderr, "fatal: %v\n", err)
			return 1
		}
		defer func() {
			if err := geo.Close(); err != nil {
				logger.WithError(err).Warn("[geoip] close failed")
			}
		}()
		logger.WithField("path", opts.geoipDB).Debug("[geoip] database opened")
	}

	// 5. Inspect and print
	report, err := inspect.Run(ctx, uris, inspect.Options{
		Decoder:       nodeuri.NewDecoder(nodeuri.WithLogger(logger)),
		Concurrency:   opts.concurrency,
		Dedupe:        opts.dedupe,
		DisplayPrefix: opts.prefix,
		GeoIP:         geo,
		Logger:        logger,
	})
	if err != nil {
		fmt.Fprintf(stderr, "fatal: %v\n", err)
		return 1
	}
	if err := writeReport(stdout, config.OutputFormat(opts.format), report); err != nil {
		fmt.Fprintf(stderr, "fatal: write report: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, envCfg *config.EnvConfig, stderr io.Writer) (*cliOptions, error) {
	opts := &cliOptions{}
	fs := flag.NewFlagSet("nodeuri", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.file, "file", "", "read node URIs from `path` (\"-\" for stdin)")
	fs.BoolVar(&opts.subscription, "subscription", false, "treat input as a subscription body (plain or Base64)")
	fs.StringVar(&opts.format, "format", string(envCfg.OutputFormat), "output format: text, json or yaml")
	fs.BoolVar(&opts.dedupe, "dedupe", envCfg.Dedupe, "drop repeated endpoints, keeping the first")
	fs.StringVar(&opts.prefix, "prefix", envCfg.DisplayPrefix, "label names as \"prefix - name\"")
	fs.StringVar(&opts.geoipDB, "geoip-db", envCfg.GeoIPDB, "GeoLite2-Country database `path`")
	fs.IntVar(&opts.concurrency, "concurrency", envCfg.Concurrency, "decode workers")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	opts.args = fs.Args()

	opts.format = strings.ToLower(strings.TrimSpace(opts.format))
	if !config.OutputFormat(opts.format).IsValid() {
		return nil, fmt.Errorf("-format: invalid value %q (allowed: %s, %s, %s)",
			opts.format, config.OutputText, config.OutputJSON, config.OutputYAML)
	}
	if opts.concurrency <= 0 {
		return nil, fmt.Errorf("-concurrency: must be positive, got %d", opts.concurrency)
	}
	return opts, nil
}

// collectURIs gathers input from positional args, -file and stdin, in that
// precedence. Stdin is only read when nothing else was given.
func collectURIs(opts *cliOptions, stdin io.Reader) ([]string, error) {
	var body []byte
	switch {
	case len(opts.args) > 0:
		body = []byte(strings.Join(opts.args, "\n"))
	case opts.file != "" && opts.file != "-":
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", opts.file, err)
		}
		body = data
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		body = data
	}

	if opts.subscription {
		return subscription.SplitNodeURIs(body)
	}
	return nonEmptyLines(body)
}

func nonEmptyLines(body []byte) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(body))
	sc.Buffer(make([]byte, 64*1024), 16<<20)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
