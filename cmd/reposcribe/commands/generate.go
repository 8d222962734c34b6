package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jrsteele09/reposcribe/docgen"
	"github.com/jrsteele09/reposcribe/internal/app"
	"github.com/jrsteele09/reposcribe/internal/errors"
	"github.com/jrsteele09/reposcribe/internal/gitremote"
	"github.com/jrsteele09/reposcribe/repositories"
	"github.com/jrsteele09/reposcribe/tui"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// clipboard receives --copy output.
var clipboard docgen.Clipboard = docgen.SystemClipboard{}

type generateOptions struct {
	outDir      string
	copy        bool
	containsAPI bool
	plain       bool
}

// NewGenerateCommand creates the generate command
func NewGenerateCommand() *cobra.Command {
	opts := generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate [repository]",
		Short: "Generate a README for a repository",
		Long: `Generates documentation for the named repository (name or owner/name) and writes
<name>-README.md. Without a name the repository is taken from the origin remote of
the git working copy in the current directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			if !cmd.Flags().Changed("api") {
				opts.containsAPI = a.Config.GetContainsAPI()
			}
			return generate(cmd.Context(), a, name, opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", ".", "Directory the README is written to")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "Also copy the README to the clipboard")
	cmd.Flags().BoolVar(&opts.containsAPI, "api", true, "Document the repository's API surface")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "Print progress lines instead of the interactive view")
	return cmd
}

func generate(ctx context.Context, a *app.App, name string, opts generateOptions, out io.Writer) error {
	if err := requireSession(ctx, a); err != nil {
		return err
	}
	repo, err := resolveRepository(ctx, a, name)
	if err != nil {
		return err
	}

	workflow := a.NewWorkflow(repo, docgen.WithContainsAPI(opts.containsAPI))
	var snap docgen.Snapshot
	if opts.plain || !isTerminal(out) {
		snap, err = tui.RunPlain(ctx, workflow, out)
	} else {
		snap, err = tui.RunProgress(ctx, workflow)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("generation abandoned")
	}
	if snap.State == docgen.StateFailed {
		return fmt.Errorf("%s", snap.Error)
	}
	if err != nil {
		return err
	}

	path, err := workflow.WriteFile(opts.outDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %s\n", path)

	if opts.copy {
		if err := workflow.CopyToClipboard(clipboard); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		fmt.Fprintln(out, "Copied to clipboard")
	}
	return nil
}

// resolveRepository finds name in the user's repositories. An empty name
// means the origin remote of the working copy; a remote that is not in the
// listing is still generated for from its web URL.
func resolveRepository(ctx context.Context, a *app.App, name string) (repositories.Repository, error) {
	var remote *gitremote.Remote
	if name == "" {
		var err error
		if remote, err = gitremote.Origin("."); err != nil {
			return repositories.Repository{}, fmt.Errorf("no repository given and none found in the current directory: %w", err)
		}
		name = remote.FullName()
	}

	list, err := a.Directory.List(ctx)
	if err == nil {
		if r, ok := repositories.FindByName(list, name); ok {
			return r, nil
		}
	}
	if remote != nil {
		if err != nil {
			log.Debug().Err(err).Msg("listing failed, using the origin remote")
		}
		return repositories.Repository{Name: remote.Name, FullName: remote.FullName(), URL: remote.WebURL()}, nil
	}
	if err != nil {
		return repositories.Repository{}, err
	}
	return repositories.Repository{}, fmt.Errorf("%w: %s", errors.ErrRepositoryNotFound, name)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
