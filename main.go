package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/heathj/saba/config"
	"github.com/heathj/saba/export"
	"github.com/heathj/saba/fetch"
	"github.com/heathj/saba/parser"
)

var interruptSignals = []os.Signal{
	os.Interrupt,
	syscall.SIGTERM,
}

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logrus.WithError(err).Fatal("cannot load config")
	}

	format := flag.String("format", cfg.OutputFormat, "output format: tree, html, xml or tokens")
	debug := flag.Bool("debug", cfg.ParserDebug, "panic on tree construction invariant violations")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <http-url|file|->...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	cfg.OutputFormat = *format
	cfg.ParserDebug = *debug
	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	setupLogger(logrus.StandardLogger(), cfg)

	ctx, stop := signal.NotifyContext(context.Background(), interruptSignals...)
	defer stop()

	inputs := flag.Args()
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	if err := run(ctx, cfg, inputs, os.Stdin, os.Stdout); err != nil {
		logrus.WithError(err).Fatal("cannot render input")
	}
}

func setupLogger(l *logrus.Logger, cfg config.Config) {
	level, _ := cfg.Level()
	l.SetLevel(level)
	l.SetOutput(os.Stderr)
	if cfg.IsDevelopment() {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{})
	}
}

// run renders every input concurrently and writes the results to out in the
// order the inputs were given.
func run(ctx context.Context, cfg config.Config, inputs []string, stdin io.Reader, out io.Writer) error {
	client := fetch.NewHTTPClient(
		fetch.WithTimeout(cfg.FetchTimeout),
		fetch.WithUserAgent(cfg.UserAgent),
	)

	results := make([]string, len(inputs))
	waitGroup, ctx := errgroup.WithContext(ctx)
	for i, input := range inputs {
		i, input := i, input
		waitGroup.Go(func() error {
			src, err := readInput(ctx, client, input, stdin)
			if err != nil {
				return err
			}
			results[i], err = render(cfg, input, src)
			return err
		})
	}
	if err := waitGroup.Wait(); err != nil {
		return err
	}

	for i, r := range results {
		if len(inputs) > 1 {
			fmt.Fprintf(out, "==> %s <==\n", inputs[i])
		}
		if _, err := io.WriteString(out, strings.TrimRight(r, "\n")+"\n"); err != nil {
			return errors.Wrap(err, "write output")
		}
	}
	return nil
}

func readInput(ctx context.Context, client *fetch.HTTPClient, input string, stdin io.Reader) ([]byte, error) {
	switch {
	case input == "-":
		b, err := io.ReadAll(stdin)
		return b, errors.Wrap(err, "read stdin")
	case strings.HasPrefix(input, "http://"):
		host, port, path, err := fetch.ParseURL(input)
		if err != nil {
			return nil, err
		}
		resp, err := client.Get(ctx, host, port, path)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 400 {
			logrus.WithFields(logrus.Fields{
				"url":    input,
				"status": resp.StatusCode,
			}).Warn("rendering error page")
		}
		return []byte(resp.Body), nil
	default:
		b, err := os.ReadFile(input)
		return b, errors.Wrapf(err, "read %s", input)
	}
}

func render(cfg config.Config, input string, src []byte) (string, error) {
	if cfg.OutputFormat == config.FormatTokens {
		z := parser.NewHTMLTokenizer(bytes.NewReader(src), parser.WithLogger(logrus.WithField("input", input)))
		var sb strings.Builder
		for _, t := range parser.Tokenize(z) {
			sb.WriteString(t.String())
			sb.WriteByte('\n')
		}
		return sb.String(), nil
	}

	p := parser.NewParser(bytes.NewReader(src),
		parser.WithDebug(cfg.ParserDebug),
		parser.WithLogger(logrus.WithField("input", input)),
	)
	doc := p.Start().Document
	logrus.WithFields(logrus.Fields{
		"input":        input,
		"nodes":        doc.Len(),
		"quirks":       doc.QuirksMode,
		"parse_errors": p.TreeConstructor.ParseErrors(),
	}).Info("parsed")

	switch cfg.OutputFormat {
	case config.FormatHTML:
		return doc.OuterHTML(doc.Root()), nil
	case config.FormatXML:
		return export.ToXML(doc, 2)
	default:
		return doc.String(), nil
	}
}
