package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arloliu/simtrace/catalog"
)

// NewTicksCommand creates the ticks command.
func NewTicksCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "ticks",
		Short:         "List every logged tick",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			e, err := rootOpts.openEngine(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			ticks, err := e.AllTicks(ctx)
			if err != nil {
				return WrapExitError(ExitFailure, "failed to list ticks", err)
			}

			return rootOpts.output(cmd).Success(ticks, func(w io.Writer) error {
				for _, t := range ticks {
					if _, err := fmt.Fprintln(w, t); err != nil {
						return err
					}
				}

				return nil
			})
		},
	}
}

// NewSizesCommand creates the sizes command.
func NewSizesCommand(rootOpts *RootOptions) *cobra.Command {
	var tick int64

	cmd := &cobra.Command{
		Use:   "sizes",
		Short: "Print the fill level of every container at a tick",
		Long: `Print how many items every container element held at one logged tick.

Containers that recorded nothing at the tick are omitted.

Examples:
  simtrace sizes --db trace.db --tick 1200`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			e, err := rootOpts.openEngine(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			sizes, err := e.IterableSizesAt(ctx, tick)
			if err != nil {
				return queryError("failed to compute container sizes", err)
			}

			return rootOpts.output(cmd).Success(sizes, func(w io.Writer) error {
				paths := make([]string, 0, len(sizes))
				for p := range sizes {
					paths = append(paths, p)
				}
				sort.Strings(paths)
				for _, p := range paths {
					if _, err := fmt.Fprintf(w, "%s\t%d\n", p, sizes[p]); err != nil {
						return err
					}
				}

				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&tick, "tick", 0, "tick to inspect (required)")
	_ = cmd.MarkFlagRequired("tick")

	return cmd
}

// FieldInfo describes one struct field in layout output.
type FieldInfo struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Width     int    `json:"width"`
	Display   string `json:"display"`
	Displayed bool   `json:"displayed_by_default"`
}

// LayoutInfo is the output of the layout command.
type LayoutInfo struct {
	Path         string      `json:"path"`
	Struct       string      `json:"struct"`
	Width        int         `json:"width"`
	QueueMaxSize int         `json:"queue_max_size,omitempty"`
	Fields       []FieldInfo `json:"fields"`
}

// NewLayoutCommand creates the layout command.
func NewLayoutCommand(rootOpts *RootOptions) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:           "layout",
		Short:         "Print the struct layout of a struct or container element",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			e, err := rootOpts.openEngine(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			layout, err := e.StructLayout(path)
			if err != nil {
				return queryError("failed to read layout", err)
			}

			info := LayoutInfo{Path: path, Struct: layout.Name, Width: layout.Width()}
			if n, err := e.QueueMaxSize(path); err == nil {
				info.QueueMaxSize = n
			}
			for _, f := range layout.Fields {
				info.Fields = append(info.Fields, FieldInfo{
					Name:      f.Name,
					Type:      f.Type,
					Width:     f.Decoder().Width(),
					Display:   f.Display.String(),
					Displayed: f.DisplayedByDefault,
				})
			}

			return rootOpts.output(cmd).Success(info, func(w io.Writer) error {
				if _, err := fmt.Fprintf(w, "%s (%d bytes)\n", info.Struct, info.Width); err != nil {
					return err
				}
				for _, f := range info.Fields {
					if _, err := fmt.Fprintf(w, "  %s\t%s\t%d\t%s\n", f.Name, f.Type, f.Width, f.Display); err != nil {
						return err
					}
				}

				return nil
			})
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "dotted element path (required)")
	_ = cmd.MarkFlagRequired("path")

	return cmd
}

// TreeEntry is one element of the tree command output.
type TreeEntry struct {
	Path          string `json:"path"`
	Type          string `json:"type,omitempty"`
	AutoCollected bool   `json:"auto_collected,omitempty"`
}

// NewTreeCommand creates the tree command.
func NewTreeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "tree",
		Short:         "Print the element tree",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := rootOpts.openEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			cat := e.Catalog()
			var entries []TreeEntry
			var depths []int
			walkTree(cat, cat.Root().ID, 0, func(id int64, depth int) {
				path, _ := cat.Path(id)
				entry := TreeEntry{Path: path}
				if col, err := cat.Collectable(id); err == nil {
					entry.Type = col.Tag.String()
					entry.AutoCollected = col.AutoCollected
				}
				entries = append(entries, entry)
				depths = append(depths, depth)
			})

			return rootOpts.output(cmd).Success(entries, func(w io.Writer) error {
				for i, entry := range entries {
					name := entry.Path[strings.LastIndexByte(entry.Path, '.')+1:]
					line := strings.Repeat("  ", depths[i]) + name
					if entry.Type != "" {
						line += "\t" + entry.Type
					}
					if _, err := fmt.Fprintln(w, line); err != nil {
						return err
					}
				}

				return nil
			})
		},
	}
}

// walkTree visits the descendants of id depth-first, in child id order.
func walkTree(cat *catalog.Catalog, id int64, depth int, visit func(id int64, depth int)) {
	for _, child := range cat.Children(id) {
		visit(child, depth)
		walkTree(cat, child, depth+1, visit)
	}
}
