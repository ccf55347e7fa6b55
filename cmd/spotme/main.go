// Command spotme works on portfolio documents stored as JSON files: it
// creates them, checks them and renders them the way the editor preview or
// the public page would.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/khoahotran/spotme/internal/application/render"
	"github.com/khoahotran/spotme/internal/domain/portfolio"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "spotme",
		Short:         "Inspect and render portfolio documents",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newNewCommand(), newValidateCommand(), newRenderCommand())
	return root
}

func newNewCommand() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "new <username>",
		Short: "Print the default document a new user starts from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := portfolio.NewDefault(uuid.New(), args[0], email, time.Now())
			if err := p.Validate(); err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), p)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "contact email to prefill")
	return cmd
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a portfolio document against the section schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readDocument(args[0])
			if err != nil {
				return err
			}
			if err := validateDocument(p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", args[0])
			return nil
		},
	}
}

func newRenderCommand() *cobra.Command {
	var (
		mode       string
		darkChrome bool
	)
	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a portfolio document to its view model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := render.Context{AllowDarkChrome: darkChrome}
			switch render.Mode(mode) {
			case render.ModePreview, render.ModePublic:
				ctx.Mode = render.Mode(mode)
			default:
				return fmt.Errorf("unknown mode %q, want preview or public", mode)
			}

			p, err := readDocument(args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), render.Render(p, ctx))
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(render.ModePreview), "rendering context: preview or public")
	cmd.Flags().BoolVar(&darkChrome, "dark-chrome", false, "let navigation and footer follow a dark theme")
	return cmd
}

func readDocument(path string) (*portfolio.Portfolio, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p := &portfolio.Portfolio{}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return p.Clone(), nil
}

// validateDocument runs every section through the same checks the editors
// apply to patches.
func validateDocument(p *portfolio.Portfolio) error {
	errs := []error{p.Validate()}
	for _, patch := range []portfolio.Patch{
		portfolio.SkillsPatch{Skills: &p.Skills.Skills},
		portfolio.ProjectsPatch{Projects: &p.Projects.Projects},
	} {
		errs = append(errs, portfolio.Validate(patch))
	}
	return errors.Join(errs...)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
