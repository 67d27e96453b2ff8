package main

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/halo/editor"
	"github.com/gogpu/halo/shader"
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
	pathColor = color.New(color.Bold)
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file.wgsl>...",
		Short: "Validate shader files",
		Long:  `Validate each file as a fragment shader body and print its diagnostics. Exits with status 1 when any file is invalid.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := cmd.Flags().GetInt("jobs")
			if err != nil {
				return fmt.Errorf("failed to get jobs flag: %w", err)
			}
			results, err := checkFiles(cmd.Context(), shader.Naga, args, jobs)
			if err != nil {
				return err
			}
			invalid := 0
			for i := range results {
				if !results[i].ok() {
					invalid++
				}
				printCheckResult(cmd.OutOrStdout(), &results[i])
			}
			if invalid > 0 {
				return errInvalid
			}
			return nil
		},
	}
	cmd.Flags().Int("jobs", 0, "max parallel validations (0=auto)")
	return cmd
}

type checkResult struct {
	Path     string
	Text     string
	Artifact *shader.Artifact
	Err      error
}

func (r *checkResult) ok() bool {
	return r.Err == nil && r.Artifact != nil
}

// checkFiles validates paths concurrently. Results keep the order of paths;
// a file that cannot be read is reported in its result, not as an error.
func checkFiles(ctx context.Context, v shader.Validator, paths []string, jobs int) ([]checkResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]checkResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			res := &results[i]
			res.Path = path
			text, err := editor.ReadShaderFile(path)
			if err != nil {
				res.Err = err
				return nil
			}
			res.Text = text
			res.Artifact, res.Err = v.Validate(gctx, text)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func printCheckResult(w io.Writer, r *checkResult) {
	if r.ok() {
		fmt.Fprintf(w, "%s: %s (entry point %s)\n", pathColor.Sprint(r.Path), okColor.Sprint("ok"), r.Artifact.EntryPoint)
		return
	}
	d, isDiag := r.Err.(*shader.Diagnostic)
	if !isDiag {
		fmt.Fprintf(w, "%s: %s %v\n", pathColor.Sprint(r.Path), failColor.Sprint("error:"), r.Err)
		return
	}
	lines := strings.Split(d.Remap(shader.PrologueLen).Format(r.Text), "\n")
	fmt.Fprintf(w, "%s: %s\n", pathColor.Sprint(r.Path), failColor.Sprint(lines[0]))
	for _, line := range lines[1:] {
		fmt.Fprintln(w, line)
	}
}
