package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/lzjever/microsvc/internal/api"
)

var (
	probeURL     string
	probeTimeout time.Duration
)

var errUnhealthy = errors.New("service unhealthy")

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check /health and /readyz of a running instance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return probe(NewClient(probeURL, probeTimeout), cmd.OutOrStdout())
	},
}

func probe(c *Client, out io.Writer) error {
	var health api.HealthResponse
	code, err := c.Get("/health", &health)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "health:\t%d %s (%s)\n", code, health.Status, health.Service)

	var ready api.ReadyResponse
	rcode, err := c.Get("/readyz", &ready)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "ready:\t%d %s\n", rcode, ready.Status)
	names := make([]string, 0, len(ready.Checks))
	for name := range ready.Checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %s:\t%s\n", name, ready.Checks[name])
	}

	if code != http.StatusOK || rcode != http.StatusOK {
		return errUnhealthy
	}
	return nil
}

func init() {
	probeCmd.Flags().StringVarP(&probeURL, "url", "u", "http://localhost:8000", "Base URL of the service")
	probeCmd.Flags().DurationVar(&probeTimeout, "timeout", 5*time.Second, "Per-request timeout")
	rootCmd.AddCommand(probeCmd)
}
