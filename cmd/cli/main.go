package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/hamed0406/demodash/internal/backend"
	"github.com/hamed0406/demodash/internal/config"
)

// errNotOK makes the process exit non-zero without cobra printing usage.
var errNotOK = errors.New("backend call did not succeed")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errNotOK) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var backendURL string

	root := &cobra.Command{
		Use:           "demodash",
		Short:         "Smoke-test the dashboard backend from a terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&backendURL, "backend", "", "backend base URL (default: $BACKEND_URL or "+config.DefaultBackendURL+")")

	clientFor := func() (*backend.Client, error) {
		cfg := config.FromEnv()
		if backendURL != "" {
			cfg.BackendURL = strings.TrimRight(backendURL, "/")
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return backend.NewClient(cfg), nil
	}

	root.AddCommand(&cobra.Command{
		Use:   "health",
		Short: "GET {backend}/health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := clientFor()
			if err != nil {
				return err
			}
			res := c.CheckHealth(context.Background())
			if err := printJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if !res.OK() {
				return errNotOK
			}
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "submit [json]",
		Short: "POST a JSON object to {backend}/api/data (reads stdin when no argument is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := clientFor()
			if err != nil {
				return err
			}
			text, err := readDocument(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			res := c.SubmitText(context.Background(), text)
			if err := printJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if !res.OK() {
				return errNotOK
			}
			return nil
		},
	})

	return root
}

func readDocument(in io.Reader, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	b, err := io.ReadAll(bufio.NewReader(in))
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), nil
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
