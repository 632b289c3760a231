package cli

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ballast/internal/massfile"
	"github.com/roach88/ballast/internal/render"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Values string
	Output string
}

// RenderResult describes a rendered mass file written to a location.
type RenderResult struct {
	Template string `json:"template"`
	Output   string `json:"output"`
	Rows     int    `json:"rows"`
}

func (r RenderResult) String() string {
	return fmt.Sprintf("Rendered %s (%d rows): %s", r.Template, r.Rows, r.Output)
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <template>",
		Short: "Fill the template lines of a mass file",
		Long: `Execute a mass file as a template against a YAML values document and check
that the result parses as a mass file. Without -o the result is printed.

Examples:
  ballast correct boat.txt --budget budget.yaml --emit-values values.yaml
  ballast render boat.txt --values values.yaml -o boat-ballasted.txt`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Values, "values", "", "YAML values document (required)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the result to this location")

	return cmd
}

func runRender(opts *RenderOptions, loc string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger(cmd.ErrOrStderr())
	st := opts.store(logger)
	ctx := cmd.Context()

	if opts.Values == "" {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidArgs, "--values is required", nil)
	}

	src, err := st.Read(ctx, loc)
	if err != nil {
		return fail(formatter, fmt.Sprintf("reading template %s", loc), err)
	}
	data, err := st.Read(ctx, opts.Values)
	if err != nil {
		return fail(formatter, fmt.Sprintf("reading values %s", opts.Values), err)
	}
	values, err := render.ParseValues(data)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeParseFailed, err.Error(), nil)
	}

	out, err := render.Render(loc, src, values)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeParseFailed, err.Error(), nil)
	}
	table, err := massfile.Parse(bytes.NewReader(out))
	if err != nil {
		return fail(formatter, "rendered output is not a mass file", err)
	}
	if len(table.Templates) > 0 {
		return formatter.Fail(ExitCommandError, ErrCodeParseFailed,
			fmt.Sprintf("rendered output still has a template on line %d", table.Templates[0].Line), nil)
	}

	if opts.Output == "" {
		if formatter.Format == "json" {
			return formatter.Success(map[string]interface{}{"template": loc, "rows": len(table.Rows), "content": string(out)})
		}
		_, err := cmd.OutOrStdout().Write(out)
		return err
	}

	if err := st.Write(ctx, opts.Output, out); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("writing %s: %v", opts.Output, err), nil)
	}
	return formatter.Success(RenderResult{Template: loc, Output: opts.Output, Rows: len(table.Rows)})
}
