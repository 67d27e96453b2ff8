package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gogpu/halo"
	"github.com/gogpu/halo/editor"
	"github.com/gogpu/halo/internal/logging"
	"github.com/gogpu/halo/internal/ui"
	"github.com/gogpu/halo/internal/watch"
	"github.com/gogpu/halo/render"
)

type watchOptions struct {
	backend string
	width   uint32
	height  uint32
	fps     int
	tui     bool
	noAuto  bool
}

func newWatchCmd() *cobra.Command {
	var o watchOptions
	cmd := &cobra.Command{
		Use:   "watch [file.wgsl]",
		Short: "Validate and render a shader every time it is saved",
		Long: `Watch a shader file, validate every change and render it offscreen on a
headless device. Without a file, the last shader from preferences is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			store, err := openPrefs(cmd)
			if err != nil {
				return err
			}
			p, err := store.Load()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				p.LastPath = args[0]
			}
			if p.LastPath == "" {
				return errors.New("no shader file given and none in preferences")
			}
			if _, err := os.Stat(p.LastPath); err != nil {
				return err
			}

			opts := []halo.Option{halo.WithBackend(o.backend)}
			if o.noAuto {
				// --no-auto applies to this run only.
				p.AutoValidate = false
			} else {
				opts = append(opts, halo.WithPrefsStore(store))
			}
			app, err := halo.New(opts...)
			if err != nil {
				return err
			}
			defer app.Close()
			return runWatch(ctx, app, p, o, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&o.backend, "backend", "auto", "GPU backend (auto|vulkan|metal|dx12|gl|software|noop)")
	cmd.Flags().Uint32Var(&o.width, "width", 640, "render target width in pixels")
	cmd.Flags().Uint32Var(&o.height, "height", 360, "render target height in pixels")
	cmd.Flags().IntVar(&o.fps, "fps", 30, "frames rendered per second")
	cmd.Flags().BoolVar(&o.tui, "tui", false, "show the interactive status view")
	cmd.Flags().BoolVar(&o.noAuto, "no-auto", false, "do not validate on change")
	return cmd
}

func runWatch(ctx context.Context, app *halo.App, p editor.Prefs, o watchOptions, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	session := app.Session()
	events := session.Subscribe()
	session.Init(ctx, p)

	file, err := watch.NewFile(session.Path(), watch.DefaultDebounce)
	if err != nil {
		return err
	}
	defer file.Close()
	go func() {
		err := file.Run(ctx, func() {
			text, err := editor.ReadShaderFile(file.Path())
			if err != nil {
				logging.Logger().Warn("shader not reloaded", "path", file.Path(), "err", err)
				return
			}
			if err := session.Replace(ctx, text); err != nil {
				logging.Logger().Warn("shader not replaced", "err", err)
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Logger().Warn("watch stopped", "err", err)
		}
	}()

	target, err := app.NewTarget(o.width, o.height)
	if err != nil {
		return err
	}
	defer target.Destroy()

	renderErr := make(chan error, 1)
	go func() {
		renderErr <- renderLoop(ctx, app, target, o.fps)
	}()

	if o.tui {
		model := ui.NewWatchModel(ui.Config{
			Path:     file.Path(),
			Events:   events,
			Text:     session.Text,
			Validate: func() { session.Validate(ctx) },
			Backend:  o.backend,
		})
		_, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
		cancel()
		if rerr := <-renderErr; rerr != nil {
			return rerr
		}
		if err != nil && !errors.Is(err, tea.ErrProgramKilled) && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}

	fmt.Fprintf(out, "watching %s\n", file.Path())
	for {
		select {
		case <-ctx.Done():
			return <-renderErr
		case err := <-renderErr:
			return err
		case ev, ok := <-events:
			if !ok {
				return <-renderErr
			}
			printEvent(out, ev, session.Text())
		}
	}
}

// renderLoop draws one frame per tick until ctx is done. Pipeline build
// failures have already been reported to the session and do not stop it.
func renderLoop(ctx context.Context, app *halo.App, target *render.Target, fps int) error {
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			err := app.RenderFrame(target)
			var cerr *render.CompileError
			if err != nil && !errors.As(err, &cerr) {
				return err
			}
		}
	}
}

func printEvent(w io.Writer, ev editor.Event, text string) {
	switch ev.Status.State {
	case editor.Validated:
		fmt.Fprintf(w, "%s version %d\n", okColor.Sprint("validated"), ev.Version)
	case editor.Invalid:
		fmt.Fprintf(w, "%s\n", failColor.Sprint("invalid"))
		if ev.Status.Diagnostic != nil {
			fmt.Fprintln(w, ev.Status.Diagnostic.Format(text))
		}
	default:
		fmt.Fprintln(w, ev.Status.State.String())
	}
}
