package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arloliu/simtrace"
	"github.com/arloliu/simtrace/catalog"
	"github.com/arloliu/simtrace/encoding"
	"github.com/arloliu/simtrace/format"
)

// UnpackOptions holds flags for the unpack command.
type UnpackOptions struct {
	*RootOptions
	Path   string
	From   int64
	To     int64
	Fields []string
}

// NewUnpackCommand creates the unpack command.
func NewUnpackCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UnpackOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "unpack",
		Short: "Print the value history of an element",
		Long: `Reconstruct the value of one element at every logged tick in a range.

Ticks where the element recorded nothing are printed as "-".

Examples:
  simtrace unpack --db trace.db --path top.core0.rob
  simtrace unpack --db trace.db --path top.core0.rob --from 100 --to 200 --fields uid,pc
  simtrace unpack --db trace.db --path top.core0.retired --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnpack(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Path, "path", "", "dotted element path (required)")
	_ = cmd.MarkFlagRequired("path")
	cmd.Flags().Int64Var(&opts.From, "from", -1, "first tick (negative for the start of the trace)")
	cmd.Flags().Int64Var(&opts.To, "to", -1, "last tick (negative for the end of the trace)")
	cmd.Flags().StringSliceVar(&opts.Fields, "fields", nil, "struct fields to decode (default all)")

	return cmd
}

func runUnpack(opts *UnpackOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()

	e, err := opts.openEngine(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	res, err := e.Unpack(ctx, opts.Path, simtrace.Range(opts.From, opts.To), simtrace.WithFields(opts.Fields...))
	if err != nil {
		return queryError("failed to unpack element", err)
	}

	render, err := valueRenderer(e, opts.Path)
	if err != nil {
		return queryError("failed to unpack element", err)
	}

	return opts.output(cmd).Success(res, func(w io.Writer) error {
		for tick, v := range res.All() {
			if _, err := fmt.Fprintf(w, "%d\t%s\n", tick, render(v)); err != nil {
				return err
			}
		}

		return nil
	})
}

// valueRenderer returns the text renderer for values of the element at path.
func valueRenderer(e *simtrace.Engine, path string) (func(any) string, error) {
	col, err := e.Catalog().CollectableByPath(path)
	if err != nil {
		return nil, err
	}

	if col.Tag.Kind == catalog.KindScalar || col.Tag.Kind == catalog.KindEnum {
		return func(v any) string {
			if v == nil {
				return "-"
			}

			return encoding.FormatValue(v, format.DisplayNone)
		}, nil
	}

	layout, err := e.StructLayout(path)
	if err != nil {
		return nil, err
	}
	dec, err := encoding.NewStructDecoder(layout)
	if err != nil {
		return nil, err
	}

	return func(v any) string {
		switch val := v.(type) {
		case encoding.Record:
			return dec.FormatRecord(val)
		case []encoding.Record:
			items := make([]string, len(val))
			for i, rec := range val {
				if rec == nil {
					items[i] = "_"
					continue
				}
				items[i] = dec.FormatRecord(rec)
			}

			return "[" + strings.Join(items, " ") + "]"
		default:
			return "-"
		}
	}, nil
}
