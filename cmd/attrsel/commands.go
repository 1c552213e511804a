// Command attrsel selects dataset attributes by simulated annealing.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	annealing "github.com/itay955/Weka.Simulated-Annealing-Based-Attribute-Selection"
	"github.com/itay955/Weka.Simulated-Annealing-Based-Attribute-Selection/dataset"
	"github.com/itay955/Weka.Simulated-Annealing-Based-Attribute-Selection/internal/service"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "attrsel",
		Short:        "Attribute subset selection by simulated annealing",
		SilenceUsage: true,
	}
	root.AddCommand(newSearchCmd(), newServeCmd(), newVersionCmd())
	return root
}

// ── search ──────────────────────────────────────────────────────────

const usageSearch = `Load a JSON or CSV dataset and print the best attribute subset found.

The dataset format follows the file extension. Search options may also come
from a YAML, JSON or TOML file given with --config; keys are the long flag
names, or the field names of a request's "params" (min-steps or minSteps).
Flags on the command line win over the file.`

func newSearchCmd() *cobra.Command {
	p := annealing.DefaultParams()
	var (
		class      string
		evaluator  string
		format     string
		configFile string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "search <dataset.json|dataset.csv>",
		Short: "Search a dataset file for its best attribute subset",
		Long:  usageSearch,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfig(cmd.Flags(), configFile); err != nil {
				return err
			}
			if err := p.Validate(); err != nil {
				return err
			}
			out, err := outputFormat(format)
			if err != nil {
				return err
			}

			ds, err := dataset.LoadFile(args[0])
			if err != nil {
				return err
			}
			if class != "" {
				if err := ds.SetClass(class); err != nil {
					return err
				}
			}

			logger := newLogger(cmd.ErrOrStderr(), verbose, p.Debug)
			logger.Info("dataset loaded", "relation", ds.Relation,
				"attributes", ds.NumAttributes(), "rows", ds.NumRows())

			resp, err := service.Search(cmd.Context(), ds, evaluator, p, annealing.WithLogger(logger))
			if err != nil {
				return err
			}
			return out(cmd.OutOrStdout(), ds, resp)
		},
	}

	fs := cmd.Flags()
	p.RegisterFlags(fs)
	fs.StringVar(&class, "class", "", "class attribute: name, 1-based position, first or last (overrides the dataset)")
	fs.StringVarP(&evaluator, "evaluator", "E", "cfs", "subset evaluator: cfs or redundancy")
	fs.StringVarP(&format, "format", "o", "text", "output format: text, json or yaml")
	fs.StringVar(&configFile, "config", "", "read options from a config file")
	fs.BoolVarP(&verbose, "verbose", "v", false, "log search progress to stderr")
	return cmd
}

// applyConfig copies values from a config file into flags that were not set
// on the command line. Values go through the flags' own parsers, so a bad
// number in the file fails the same way as on the command line. Keys may be
// spelled as flags ("min-steps") or as request fields ("minSteps").
func applyConfig(fs *pflag.FlagSet, path string) error {
	if path == "" {
		return nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	names := make(map[string]string)
	fs.VisitAll(func(f *pflag.Flag) { names[configKey(f.Name)] = f.Name })

	for _, key := range v.AllKeys() {
		name, ok := names[configKey(key)]
		if !ok {
			return fmt.Errorf("config %s: unknown option %q", path, key)
		}
		if name == "config" {
			continue
		}
		switch v.Get(key).(type) {
		case []any, map[string]any:
			return fmt.Errorf("config %s: %s: want a single value", path, key)
		}
		f := fs.Lookup(name)
		if f.Changed {
			continue
		}
		if err := fs.Set(name, v.GetString(key)); err != nil {
			return fmt.Errorf("config %s: %s: %w", path, key, err)
		}
	}
	return nil
}

// configKey folds "min-steps", "minSteps" and "min_steps" together.
func configKey(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer("-", "", "_", "").Replace(s)
}

func newLogger(w io.Writer, verbose, debug bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case debug:
		level = slog.LevelDebug
	case verbose:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

type writeFunc func(w io.Writer, ds *dataset.Dataset, resp service.Response) error

func outputFormat(name string) (writeFunc, error) {
	switch strings.ToLower(name) {
	case "", "text":
		return writeText, nil
	case "json":
		return writeJSON, nil
	case "yaml", "yml":
		return writeYAML, nil
	}
	return nil, fmt.Errorf("unknown output format %q", name)
}

func writeText(w io.Writer, ds *dataset.Dataset, resp service.Response) error {
	fmt.Fprintf(w, "=== Attribute selection on %s ===\n\n", relationName(ds))
	fmt.Fprintf(w, "Instances:  %d\n", ds.NumRows())
	fmt.Fprintf(w, "Attributes: %d\n", ds.NumAttributes())
	if ds.HasClass() {
		fmt.Fprintf(w, "Class:      %s\n", ds.Attributes[ds.ClassIndex].Name)
	}
	fmt.Fprintf(w, "Evaluator:  %s\n", resp.Evaluator)
	fmt.Fprintf(w, "Options:    %s\n\n", strings.Join(resp.Options, " "))
	_, err := io.WriteString(w, resp.Summary)
	return err
}

func writeJSON(w io.Writer, _ *dataset.Dataset, resp service.Response) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func writeYAML(w io.Writer, _ *dataset.Dataset, resp service.Response) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(resp); err != nil {
		return err
	}
	return enc.Close()
}

func relationName(ds *dataset.Dataset) string {
	if ds.Relation == "" {
		return "unnamed relation"
	}
	return ds.Relation
}

// ── version ─────────────────────────────────────────────────────────

func newVersionCmd() *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := map[string]string{
				"version":    version,
				"go_version": runtime.Version(),
				"platform":   runtime.GOOS + "/" + runtime.GOARCH,
			}
			if jsonOutput {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(info)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "attrsel %s\nGo version: %s\nPlatform: %s\n",
				info["version"], info["go_version"], info["platform"])
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print as JSON")
	return cmd
}
