package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"

	"github.com/ChloeMayhewELT/HeapStorageMacro/generator"
	"github.com/ChloeMayhewELT/HeapStorageMacro/loader"
	"github.com/hashicorp/go-multierror"
	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

type options struct {
	configPath string
	output     string
	tags       []string
	equal      bool
	verbose    bool
	watch      bool
	stats      bool
	graph      string
	jobs       int
}

func (o *options) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.configPath, "config", "", "config file (default: heapgen.toml in the package directory or a parent)")
	fs.StringVarP(&o.output, "output", "o", "", "generated file name (default: <package>_heapgen.go)")
	fs.StringSliceVar(&o.tags, "tags", nil, "build tags the generated file is constrained by")
	fs.BoolVar(&o.equal, "equal", false, "generate Equal methods")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "log debug output")
	fs.BoolVarP(&o.watch, "watch", "w", false, "regenerate when package files change")
	fs.BoolVar(&o.stats, "stats", false, "print a table of generated accessors")
	fs.StringVar(&o.graph, "graph", "", "write a graphviz file showing which structs hold which")
	fs.IntVarP(&o.jobs, "jobs", "j", runtime.GOMAXPROCS(0), "packages generated in parallel")
}

func newRootCmd(logger *log.Logger) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "heapgen [flags] [packages]",
		Short: "Generate accessors for heap.Box struct fields",
		Long: `heapgen writes a getter and a setter for every unexported struct field of
type heap.Box[T], into <package>_heapgen.go next to the package sources.

Accessor names can be changed with struct tags:
  heap:"Name"       getter Name, setter SetName
  heap:",readonly"  no setter
  heap:"-"          no accessors
or with rules in a heapgen.toml file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.verbose {
				logger.SetLevel(log.DebugLevel)
			}
			genOpts := generator.Options{
				ConfigPath: opts.configPath,
				Output:     opts.output,
				Graph:      opts.graph != "",
			}
			if cmd.Flags().Changed("tags") {
				genOpts.BuildTags = opts.tags
			}
			if cmd.Flags().Changed("equal") {
				genOpts.Equal = &opts.equal
			}
			if len(args) == 0 {
				if pkg := os.Getenv("GOPACKAGE"); pkg != "" {
					logger.Debugf("running for go generate in package %v", pkg)
				}
				args = []string{"."}
			}
			if opts.jobs < 1 {
				return fmt.Errorf("--jobs must be at least 1, got %v", opts.jobs)
			}

			ctx := cmd.Context()
			pkgs, err := loader.ResolvePatterns(&loader.Config{
				Context:         ctx,
				PackagePatterns: args,
				Log:             logger,
			})
			if err != nil {
				return err
			}
			if len(pkgs) == 0 {
				return fmt.Errorf("no packages matched %v", args)
			}

			gen := &generation{
				opts:   genOpts,
				jobs:   opts.jobs,
				logger: logger,
			}
			results, err := gen.run(ctx, pkgs)
			if opts.stats {
				printStats(cmd.OutOrStdout(), results)
			}
			if opts.graph != "" {
				if err := writeGraph(opts.graph, results); err != nil {
					return err
				}
			}
			if !opts.watch {
				return err
			}
			if err != nil {
				logger.Error(err)
			}
			return watch(ctx, pkgs, settleDelay, func(ctx context.Context, pkgs []loader.Resolved) error {
				_, err := gen.run(ctx, pkgs)
				return err
			}, logger)
		},
	}
	opts.addFlags(cmd.Flags())
	return cmd
}

type generation struct {
	opts   generator.Options
	jobs   int
	logger log.FieldLogger
}

// run generates pkgs in parallel. Failing packages don't stop the others,
// their errors are returned together.
func (g *generation) run(ctx context.Context, pkgs []loader.Resolved) ([]*generator.Result, error) {
	var (
		mu      sync.Mutex
		errs    *multierror.Error
		results = make([]*generator.Result, len(pkgs))
	)
	var eg errgroup.Group
	eg.SetLimit(g.jobs)
	for i, pkg := range pkgs {
		eg.Go(func() error {
			opts := g.opts
			opts.Dir = pkg.Dir
			res, err := generator.Run(ctx, opts, g.logger)
			if err != nil {
				mu.Lock()
				errs = multierror.Append(errs, err)
				mu.Unlock()
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = eg.Wait()
	return results, errs.ErrorOrNil()
}

func printStats(w io.Writer, results []*generator.Result) {
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Package", "Structs", "Recursive", "Boxed fields", "Status"})
	var structs, recursive, fields int
	for _, res := range results {
		if res == nil {
			continue
		}
		structs += res.Structs
		recursive += res.Recursive
		fields += res.Fields
		tbl.Append([]string{
			res.PkgPath,
			fmt.Sprint(res.Structs),
			fmt.Sprint(res.Recursive),
			fmt.Sprint(res.Fields),
			res.Status.String(),
		})
	}
	tbl.Append([]string{"==TOTAL==", fmt.Sprint(structs), fmt.Sprint(recursive), fmt.Sprint(fields), ""})
	tbl.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT})
	tbl.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	tbl.SetCenterSeparator("|")
	tbl.Render()
}

// writeGraph writes the graphs of all packages into one file, which
// graphviz renders one after the other.
func writeGraph(path string, results []*generator.Result) error {
	var buf bytes.Buffer
	for _, res := range results {
		if res != nil {
			buf.Write(res.Graph)
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0666)
}
