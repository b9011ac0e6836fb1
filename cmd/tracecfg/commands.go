package main

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ezrec/tracecfg/cfg"
	"github.com/ezrec/tracecfg/config"
	"github.com/ezrec/tracecfg/internal"
	"github.com/ezrec/tracecfg/record"
	"github.com/ezrec/tracecfg/trace"
	"github.com/ezrec/tracecfg/translate"
)

// BinaryExt is the file extension of binary traces.
const BinaryExt = ".mp"

var ErrStdinRepeated = errors.New(translate.From("standard input named more than once"))

// options are the settings shared by every command.
type options struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "tracecfg",
		Short: "tracecfg - control-flow graphs from execution traces",
		Long: `tracecfg partitions an execution trace into basic blocks and links them
into a control-flow graph.

Commands:
  build       Build the graph of one or more trace segments
  encode      Convert a text trace to a binary trace

Traces ending in ` + BinaryExt + ` are read as binary traces; '-' reads a text
trace from standard input.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file path (default ./"+config.ConfigFile+")")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging")

	root.AddCommand(newBuildCmd(opts))
	root.AddCommand(newEncodeCmd(opts))

	return root
}

// load reads the configuration, with command line overrides.
func (opts *options) load() (conf *config.Config, err error) {
	if len(opts.configPath) != 0 {
		conf, err = config.LoadFromFile(opts.configPath)
	} else {
		conf, err = config.Load()
	}
	if err != nil {
		return
	}

	if opts.verbose {
		conf.Verbose = true
	}

	return
}

func newBuildCmd(opts *options) *cobra.Command {
	var format string
	var name string
	var entry string

	cmd := &cobra.Command{
		Use:   "build [flags] TRACE...",
		Short: "Build the graph of one or more trace segments",
		Long: `Feeds every trace segment, in order, into one graph builder and prints
the graph. The entry point is taken from the first segment's .entry, then
--entry, then the config, then the first step of the first segment.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := opts.load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if cmd.Flags().Changed("format") {
				conf.Format = config.Format(format)
			}
			if cmd.Flags().Changed("name") {
				conf.GraphName = name
			}
			if cmd.Flags().Changed("entry") {
				var addr int64
				addr, err = strconv.ParseInt(entry, 0, 64)
				if err != nil {
					return fmt.Errorf("--entry %v: %w", entry, config.ErrEntry)
				}
				at := int(addr)
				conf.Entry = &at
			}
			err = conf.Validate()
			if err != nil {
				return err
			}

			return runBuild(cmd.OutOrStdout(), cmd.InOrStdin(), conf, args)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(config.FormatListing), "Output format (listing or dot)")
	cmd.Flags().StringVarP(&name, "name", "n", "cfg", "DOT graph name")
	cmd.Flags().StringVarP(&entry, "entry", "e", "", "Entry point when the trace has no .entry")

	return cmd
}

func newEncodeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "encode INPUT OUTPUT",
		Short: "Convert a text trace to a binary trace",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := opts.load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			tr, err := readTrace(args[0], cmd.InOrStdin(), conf)
			if err != nil {
				return err
			}

			ouf, err := os.Create(args[1])
			if err != nil {
				return fmt.Errorf("%v: %w", args[1], err)
			}
			defer ouf.Close()

			err = trace.WriteTrace(ouf, tr)
			if err != nil {
				return fmt.Errorf("%v: %w", args[1], err)
			}

			return ouf.Close()
		},
	}
}

// readTrace reads a text or binary trace from path.
func readTrace(path string, stdin io.Reader, conf *config.Config) (tr *trace.Trace, err error) {
	var inf io.Reader = stdin
	if path != "-" {
		var file *os.File
		file, err = os.Open(path)
		if err != nil {
			return
		}
		defer file.Close()
		inf = file
	}

	if strings.HasSuffix(path, BinaryExt) {
		tr, err = trace.ReadTrace(inf)
	} else {
		p := &trace.Parser{Verbose: conf.Verbose}
		for equ, value := range conf.Predefine {
			p.Predefine(equ, value)
		}
		tr, err = p.Parse(inf)
	}
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
	}

	return
}

// build feeds the trace segments into a new builder. A precondition
// violation in the builder aborts the build with an error.
func build(entry int, verbose bool, segments ...iter.Seq2[int, record.Record]) (g *cfg.Graph, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		perr, ok := r.(error)
		if !ok {
			panic(r)
		}
		g = nil
		err = fmt.Errorf("building graph: %w", perr)
	}()

	b := cfg.NewBuilder(entry)
	b.Verbose = verbose
	b.Consume(internal.IterSeq2Concat(segments...))

	g = b.Graph()
	return
}

func runBuild(out io.Writer, stdin io.Reader, conf *config.Config, paths []string) (err error) {
	var segments []iter.Seq2[int, record.Record]
	var first *trace.Trace

	stdinSeen := false
	for _, path := range paths {
		if path == "-" {
			if stdinSeen {
				err = ErrStdinRepeated
				return
			}
			stdinSeen = true
		}
	}

	for _, path := range paths {
		var tr *trace.Trace
		tr, err = readTrace(path, stdin, conf)
		if err != nil {
			return
		}
		if first == nil {
			first = tr
		}
		segments = append(segments, tr.All())
	}

	entry := first.Entry
	if !first.EntrySet && conf.Entry != nil {
		entry = *conf.Entry
	}

	g, err := build(entry, conf.Verbose, segments...)
	if err != nil {
		return
	}

	if conf.Verbose {
		log.Printf("tracecfg: %d blocks, %d edges", g.Len(), g.EdgeCount())
	}

	switch conf.Format {
	case config.FormatDot:
		err = cfg.WriteDot(out, g, conf.GraphName)
	case config.FormatListing:
		for blk := range g.Nodes() {
			_, err = translate.Fprintf(out, "; block %d @ %#x\n", int(blk.ID()), blk.Start())
			if err == nil {
				_, err = io.WriteString(out, blk.String()+"\n")
			}
			if err != nil {
				break
			}
		}
	}

	return
}
