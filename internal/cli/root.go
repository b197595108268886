// Package cli wires the command surface: one subcommand per output
// codec, a shared flag set for pipeline operations and batch options,
// and the run loop that hands compiled work to the scheduler.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wb-go/wbf/zlog"

	"github.com/optimg/optimg/internal/codec"
	"github.com/optimg/optimg/internal/config"
	"github.com/optimg/optimg/internal/model"
	"github.com/optimg/optimg/internal/naming"
	"github.com/optimg/optimg/internal/pipeline"
	"github.com/optimg/optimg/internal/processor"
	"github.com/optimg/optimg/internal/scheduler"
	"github.com/optimg/optimg/internal/storage"
)

// errBatchFailed signals a partial failure after the per-file errors
// have already been logged; main maps it to a nonzero exit code.
var errBatchFailed = errors.New("some files failed to process")

// NewRootCommand builds the full command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "optimg <codec> [flags] <files...>",
		Short:         "Batch image optimizer",
		Long:          "optimg decodes, transforms and re-encodes batches of images in parallel.\nOperations apply in the order they are written on the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	for _, c := range codecCommands() {
		root.AddCommand(c)
	}
	return root
}

// rawArgsKey carries the unparsed argument list through the command
// context so runBatch can recover the declaration order of operations.
type rawArgsKey struct{}

// Execute runs the CLI against os.Args and returns the batch outcome.
func Execute(ctx context.Context) error {
	return ExecuteArgs(ctx, os.Args[1:])
}

// ExecuteArgs runs the CLI against an explicit argument list.
func ExecuteArgs(ctx context.Context, args []string) error {
	root := NewRootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(context.WithValue(ctx, rawArgsKey{}, args))
}

// rawArgs recovers the invocation's argument list from the context,
// falling back to the process argv for commands executed directly.
func rawArgs(ctx context.Context) []string {
	if args, ok := ctx.Value(rawArgsKey{}).([]string); ok {
		return args
	}
	return os.Args[1:]
}

// addSharedFlags registers the flags every codec subcommand accepts.
// The pipeline operation flags are repeatable; their declaration order
// is recovered by ScanTokens, not by this flag set.
func addSharedFlags(cmd *cobra.Command) {
	fl := cmd.Flags()

	fl.StringArray("resize", nil, "resize to WIDTHxHEIGHT, N% or @FACTOR (repeatable, order matters)")
	fl.StringArray("quantization", nil, "reduce colors, optional quality 1-100 via --quantization=Q (repeatable)")
	fl.Lookup("quantization").NoOptDefVal = "75"
	fl.Count("premultiply", "premultiply alpha (repeatable, order matters)")
	fl.Count("srgb", "convert colors to sRGB using the embedded ICC profile (repeatable)")

	fl.String("filter", "", "resize kernel: point, triangle, catmull-rom, mitchell, lanczos3")
	fl.String("dithering", "", "error diffusion level 1-100 for quantization, via --dithering=N")
	fl.Lookup("dithering").NoOptDefVal = "75"

	fl.StringP("directory", "d", "", "write outputs into this directory instead of next to inputs")
	fl.BoolP("recursive", "r", false, "mirror input directory structure under --directory")
	fl.StringP("suffix", "s", "", "insert a suffix before the output extension")
	fl.Lookup("suffix").NoOptDefVal = "@updated"
	fl.BoolP("backup", "b", false, "rename each input to <name>.backup before writing")
	fl.IntP("threads", "t", 0, "worker count 1-16 (default: logical cores)")
	fl.String("config", "", "config file (default: ./optimg.yaml, $HOME/optimg.yaml)")
}

// batchOptions are the shared flag values of one invocation.
type batchOptions struct {
	naming    naming.Options
	threads   int
	modifiers pipeline.Modifiers
	config    string
}

func readBatchOptions(cmd *cobra.Command) (batchOptions, error) {
	fl := cmd.Flags()
	var opts batchOptions
	var err error

	if opts.naming.OutputDir, err = fl.GetString("directory"); err != nil {
		return opts, err
	}
	if opts.naming.Recursive, err = fl.GetBool("recursive"); err != nil {
		return opts, err
	}
	if opts.naming.Suffix, err = fl.GetString("suffix"); err != nil {
		return opts, err
	}
	if opts.naming.Backup, err = fl.GetBool("backup"); err != nil {
		return opts, err
	}
	if opts.threads, err = fl.GetInt("threads"); err != nil {
		return opts, err
	}
	if opts.modifiers.Filter, err = fl.GetString("filter"); err != nil {
		return opts, err
	}
	if opts.modifiers.Dithering, err = fl.GetString("dithering"); err != nil {
		return opts, err
	}
	if opts.config, err = fl.GetString("config"); err != nil {
		return opts, err
	}

	if opts.naming.Recursive && opts.naming.OutputDir == "" {
		return opts, model.ConfigErrorf("--recursive requires --directory")
	}
	if err := pipeline.ValidateThreads(opts.threads); err != nil {
		return opts, err
	}
	return opts, nil
}

// runBatch is the shared body of every codec subcommand: compile the
// pipeline, resolve paths, then hand the jobs to the worker pool.
func runBatch(cmd *cobra.Command, files []string, enc codec.Encoder) error {
	ctx := cmd.Context()

	opts, err := readBatchOptions(cmd)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.config)
	if err != nil {
		return err
	}
	if opts.threads == 0 {
		opts.threads = cfg.Threads
		if err := pipeline.ValidateThreads(opts.threads); err != nil {
			return err
		}
	}
	if opts.modifiers.Filter == "" {
		opts.modifiers.Filter = cfg.Filter
	}

	spec, err := pipeline.Compile(ScanTokens(rawArgs(ctx)), opts.modifiers)
	if err != nil {
		return err
	}

	inputs := filterRegularFiles(files)
	if len(inputs) == 0 {
		return model.ConfigErrorf("no readable input files")
	}

	var mirror scheduler.Mirror
	if cfg.Mirror.Enabled {
		m, err := storage.NewMirror(ctx,
			cfg.Mirror.Endpoint,
			cfg.Mirror.AccessKey, cfg.Mirror.SecretKey,
			cfg.Mirror.BucketName, cfg.Mirror.UseSSL,
		)
		if err != nil {
			return fmt.Errorf("failed to connect to mirror: %w", err)
		}
		mirror = m
	}

	plans := naming.Resolve(inputs, enc.Extension(), opts.naming)
	jobs := make([]scheduler.Job, 0, len(plans))
	for _, plan := range plans {
		jobs = append(jobs, scheduler.NewJob(plan.Input, plan.Output, opts.naming.Backup, spec, enc))
	}

	sched := scheduler.New(opts.threads, processor.New(spec), mirror)
	zlog.Logger.Info().
		Int("files", len(jobs)).
		Int("workers", sched.Workers()).
		Str("codec", enc.Name()).
		Int("operations", spec.Len()).
		Msg("starting batch")

	report := sched.Run(ctx, jobs)
	logSummary(report)

	if !report.AllSucceeded() {
		return errBatchFailed
	}
	return nil
}

// filterRegularFiles drops arguments that are not regular files so a
// stray directory or typo fails loudly up front instead of inside a
// worker.
func filterRegularFiles(files []string) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			zlog.Logger.Warn().Str("file", f).Err(err).Msg("skipping unreadable input")
			continue
		}
		if !info.Mode().IsRegular() {
			zlog.Logger.Warn().Str("file", f).Msg("skipping non-regular input")
			continue
		}
		out = append(out, f)
	}
	return out
}

func logSummary(report scheduler.Report) {
	saved := 0.0
	if report.BytesIn > 0 {
		saved = 100 * (1 - float64(report.BytesOut)/float64(report.BytesIn))
	}
	zlog.Logger.Info().
		Int("total", report.Total).
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Int64("bytes_in", report.BytesIn).
		Int64("bytes_out", report.BytesOut).
		Str("saved", fmt.Sprintf("%.1f%%", saved)).
		Msg("batch finished")

	for _, res := range report.Failures() {
		zlog.Logger.Error().
			Str("input", res.InputPath).
			Str("kind", string(res.Kind)).
			Err(res.Err).
			Msg("file failed")
	}
}
