package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/manifest-service/internal/adapter/manifestapi"
	"github.com/user/manifest-service/internal/config"
	"github.com/user/manifest-service/internal/entity"
	"github.com/user/manifest-service/internal/generator"
	"github.com/user/manifest-service/pkg/logger"
)

const (
	outputText = "text"
	outputJSON = "json"
)

type generateOptions struct {
	apiURL   string
	output   string
	logLevel string
}

func newGenerateCommand() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate <url>",
		Short: "Validate a site URL and fetch its generated manifest",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.apiURL != "" {
				return nil
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts.apiURL = cfg.APIURL
			if opts.apiURL == "" {
				return errors.New("no manifest service configured: pass --api-url or set API_URL")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.apiURL, "api-url", "", "base URL of the manifest service (default $API_URL)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", outputText, "output format: text or json")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "warn", "log level")
	return cmd
}

func runGenerate(cmd *cobra.Command, opts *generateOptions, rawURL string) error {
	if opts.output != outputText && opts.output != outputJSON {
		return fmt.Errorf("unknown output format %q", opts.output)
	}

	log, err := logger.New(opts.logLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	container := generator.NewContainer(generator.New(manifestapi.NewClient(opts.apiURL, &http.Client{})))

	opErr := container.UpdateLink(rawURL)
	if opErr == nil {
		log.Debug("requesting manifest", zap.String("api_url", opts.apiURL), zap.String("url", rawURL))
		opErr = container.GetManifestInformation(cmd.Context())
	}
	if opErr != nil {
		log.Debug("manifest request failed", zap.Error(opErr))
	}

	if err := render(cmd.OutOrStdout(), opts.output, container.State()); err != nil {
		return err
	}
	return opErr
}

func render(w io.Writer, format string, state entity.State) error {
	if format == outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	}

	var b strings.Builder
	if state.URL != nil {
		fmt.Fprintf(&b, "URL:          %s\n", *state.URL)
	}
	if state.Error != nil {
		fmt.Fprintf(&b, "Error:        %s\n", *state.Error)
	}
	if state.ManifestID != nil {
		fmt.Fprintf(&b, "Manifest ID:  %s\n", *state.ManifestID)
	}
	if m := state.Manifest; m != nil {
		fmt.Fprintf(&b, "Name:         %s\n", deref(m.Name))
		fmt.Fprintf(&b, "Short name:   %s\n", deref(m.ShortName))
		fmt.Fprintf(&b, "Start URL:    %s\n", deref(m.StartURL))
		fmt.Fprintf(&b, "Display:      %s\n", m.Display)
		fmt.Fprintf(&b, "Orientation:  %s\n", deref(m.Orientation))
		fmt.Fprintf(&b, "Lang:         %s\n", deref(m.Lang))
		fmt.Fprintf(&b, "Theme color:  %s\n", deref(m.ThemeColor))
	}
	if len(state.Icons) > 0 {
		b.WriteString("Icons:\n")
		for _, icon := range state.Icons {
			if icon.Sizes != "" {
				fmt.Fprintf(&b, "  - %s (%s)\n", icon.Src, icon.Sizes)
			} else {
				fmt.Fprintf(&b, "  - %s\n", icon.Src)
			}
		}
	}
	writeList(&b, "Suggestions", state.Suggestions)
	writeList(&b, "Warnings", state.Warnings)
	writeList(&b, "Errors", state.Errors)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "  - %s\n", item)
	}
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
