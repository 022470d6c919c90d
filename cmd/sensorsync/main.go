package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/datacounter"
	"github.com/xaionaro-go/observability"
	"github.com/xaionaro-go/sensorsync/pkg/config"
	"github.com/xaionaro-go/sensorsync/pkg/dataset"
	"github.com/xaionaro-go/sensorsync/pkg/export"
	_ "github.com/xaionaro-go/sensorsync/pkg/payload/video/implementations/framedir"
)

const progressInterval = time.Second

type flags struct {
	LoggerLevel  logger.Level
	ConfigPath   string
	Linearize    bool
	StepMS       uint64
	Format       export.Format
	LoadPayloads bool
	OutputPath   string
}

func newFlagSet(name string) (*pflag.FlagSet, *flags) {
	f := &flags{
		LoggerLevel: logger.LevelInfo,
		Format:      export.FormatText,
	}
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.Var(&f.LoggerLevel, "log-level", "Log level")
	fs.StringVar(&f.ConfigPath, "config", "", "path to a YAML config file")
	fs.BoolVar(&f.Linearize, "linearize", false, "fill the gaps between touch timestamps")
	fs.Uint64Var(&f.StepMS, "step", 0, "step in ms between synthesized touch timestamps (derived from the video FPS if zero)")
	fs.Var(&f.Format, "format", "output format: text or json")
	fs.BoolVar(&f.LoadPayloads, "load-payloads", false, "load the frames and observations (validates the recording)")
	fs.StringVar(&f.OutputPath, "output", "", "output file (stdout if empty)")
	return fs, f
}

// loadConfig reads the config file (if any) and overrides its values
// with the flags explicitly set on the command line.
func loadConfig(fs *pflag.FlagSet, f *flags) (config.Config, error) {
	cfg := config.Default()
	if f.ConfigPath != "" {
		var err error
		cfg, err = config.Read(f.ConfigPath)
		if err != nil {
			return cfg, err
		}
	}
	if fs.Changed("linearize") {
		cfg.Linearize = f.Linearize
	}
	if fs.Changed("step") {
		cfg.StepMS = f.StepMS
	}
	if fs.Changed("format") {
		cfg.Format = f.Format
	}
	if fs.Changed("load-payloads") {
		cfg.LoadPayloads = f.LoadPayloads
	}
	return cfg, nil
}

func main() {
	fs, f := newFlagSet(os.Args[0])
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <recording root>\n", os.Args[0])
		fs.PrintDefaults()
	}
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}

	l := logrus.Default().WithLevel(f.LoggerLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	logger.Default = func() logger.Logger {
		return l
	}
	defer belt.Flush(ctx)

	cfg, err := loadConfig(fs, f)
	assertNoError(err)
	assertNoError(run(ctx, fs.Arg(0), cfg, f.OutputPath, os.Stdout))
}

// run synchronizes the recording at root and writes the result to
// outputPath, or to stdout if outputPath is empty.
func run(
	ctx context.Context,
	root string,
	cfg config.Config,
	outputPath string,
	stdout io.Writer,
) (_err error) {
	logger.Debugf(ctx, "config: %#+v", cfg)

	output := stdout
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("unable to create the output file: %w", err)
		}
		defer func() {
			if err := file.Close(); err != nil && _err == nil {
				_err = fmt.Errorf("unable to close the output file: %w", err)
			}
		}()
		output = file
	}
	wc := datacounter.NewWriterCounter(output)

	ctx, cancelFn := context.WithCancel(ctx)
	defer cancelFn()

	logger.Infof(ctx, "opening %s", root)
	d, err := dataset.Open(ctx, root, cfg.DatasetOptions())
	if err != nil {
		return fmt.Errorf("unable to open the recording: %w", err)
	}
	defer d.Close()
	if cfg.Linearize {
		logger.Infof(ctx, "step: %dms", d.Step())
	}

	w, err := export.NewWriter(cfg.Format, wc)
	if err != nil {
		return err
	}

	var count atomic.Uint64
	observability.Go(ctx, func() {
		logger.Tracef(ctx, "started the progress printer loop")
		t := time.NewTicker(progressInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				logger.Debugf(ctx, "synchronized: %d, written: %d bytes", count.Load(), wc.Count())
			}
		}
	})

	write := func(ts dataset.Timestamps) error {
		if err := w.Write(ts); err != nil {
			return err
		}
		count.Add(1)
		return nil
	}
	if cfg.LoadPayloads {
		for item, err := range d.Samples(ctx) {
			if err != nil {
				return err
			}
			if err := write(item.Timestamps); err != nil {
				return err
			}
		}
	} else {
		for ts, err := range d.Tuples(ctx) {
			if err != nil {
				return err
			}
			if err := write(ts); err != nil {
				return err
			}
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("unable to flush the output: %w", err)
	}
	logger.Infof(ctx, "synchronized %d samples, written %d bytes", count.Load(), wc.Count())
	return nil
}

func assertNoError(err error) {
	if err != nil {
		panic(err)
	}
}
