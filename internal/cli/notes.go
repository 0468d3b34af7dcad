package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"technotes/framework/container"
	"technotes/framework/mediator"
	"technotes/internal/application"
	"technotes/internal/notes"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"

	timeLayout = "2006-01-02 15:04:05 MST"
)

var (
	bold  = color.New(color.Bold).SprintFunc()
	faint = color.New(color.Faint).SprintFunc()
)

func newNotesCommand(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Print the notes served by the application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, logger, err := loadRuntime(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			services := container.NewCollection()
			container.AddInstance(services, logger)
			provider, err := application.AddApplication(services).Build()
			if err != nil {
				return fmt.Errorf("build service provider: %w", err)
			}

			m, err := container.Resolve[*mediator.Mediator](provider)
			if err != nil {
				return fmt.Errorf("resolve mediator: %w", err)
			}

			list, err := application.GetAllNotes(cmd.Context(), m)
			if err != nil {
				return err
			}
			return writeNotes(cmd.OutOrStdout(), list, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json or yaml")
	return cmd
}

func writeNotes(w io.Writer, list []notes.Note, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case formatText, "":
		return writeNotesText(w, list)
	case formatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(list); err != nil {
			return fmt.Errorf("encode notes as json: %w", err)
		}
		return nil
	case formatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(list); err != nil {
			return fmt.Errorf("encode notes as yaml: %w", err)
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}

func writeNotesText(w io.Writer, list []notes.Note) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No notes found.")
		return err
	}

	for _, note := range list {
		status := color.YellowString("draft")
		if publishedAt, ok := note.Published(); ok {
			status = color.GreenString("published") + " " + faint(publishedAt.Format(timeLayout))
		}

		if _, err := fmt.Fprintf(w, "%s %s  %s\n    %s\n",
			faint(fmt.Sprintf("#%d", note.ID)),
			bold(note.Title),
			status,
			note.Content,
		); err != nil {
			return err
		}
	}
	return nil
}
