package cli

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/bacc/internal/config"
	"github.com/AbdelazizMoustafa10m/bacc/internal/devserver"
	"github.com/AbdelazizMoustafa10m/bacc/internal/logging"
)

var (
	serveFlagAddr string
	watchFlagURL  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local calculation and survey server",
	Long: `Run a development server that implements the calculation endpoint and
the survey endpoint, so the CLI and the web calculator can be used end to
end offline. Submissions are kept in memory and streamed to websocket
subscribers (see bacc watch).

Endpoints:
  POST /api/calculate-bacc
  POST /api/survey-responses
  GET  /api/survey-responses
  GET  /api/survey-responses/{id}
  GET  /ws/survey-responses
  GET  /health`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream survey submissions from a running dev server",
	Long: `Connect to the live feed of a running bacc dev server and print each
stored survey submission as it arrives. Stops on Ctrl+C or when the server
shuts down.

The URL defaults to the feed of the configured server address.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlagAddr, "addr", "", "Listen address (env: BACC_SERVER_ADDR, default :5050)")
	watchCmd.Flags().StringVar(&watchFlagURL, "url", "", "Feed URL, e.g. ws://localhost:5050/ws/survey-responses")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	resolved, _, err := loadAndResolveConfig(&config.CLIOverrides{
		ServerAddr: stringOverride(cmd, "addr", serveFlagAddr),
	})
	if err != nil {
		return err
	}
	addr := resolved.Config.Server.Addr

	if flagDryRun {
		fmt.Fprintf(cmd.ErrOrStderr(), "dry run: would listen on %s\n", addr)
		return nil
	}

	ctx, cancel := signalContext()
	defer cancel()

	srv := devserver.New(devserver.WithLogger(logging.New(logging.ComponentDevServer)))
	fmt.Fprintf(cmd.ErrOrStderr(), "Serving on %s (Ctrl+C to stop)\n", addr)
	return srv.ListenAndServe(ctx, addr)
}

func runWatch(cmd *cobra.Command, args []string) error {
	feedURL := watchFlagURL
	if feedURL == "" {
		resolved, _, err := loadAndResolveConfig(nil)
		if err != nil {
			return err
		}
		feedURL = feedURLFor(resolved.Config.Server.Addr)
	}

	ctx, cancel := signalContext()
	defer cancel()

	out := cmd.OutOrStdout()
	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)\n", feedURL)
	return devserver.Watch(ctx, feedURL, func(resp devserver.SurveyResponse) {
		fmt.Fprintln(out, formatSubmission(resp))
	})
}

// feedURLFor builds the websocket feed URL of a server listening on addr.
// A listen address without a host ("":5050") maps to localhost.
func feedURLFor(addr string) string {
	host := addr
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	u := url.URL{Scheme: "ws", Host: host, Path: devserver.PathFeed}
	return u.String()
}

// formatSubmission renders one submission as a header line followed by its
// answers in key order.
func formatSubmission(resp devserver.SurveyResponse) string {
	var sb strings.Builder
	sb.WriteString(styleSection.Render(resp.ID))
	fmt.Fprintf(&sb, "  %s  %d answer(s)\n", resp.ReceivedAt.Local().Format(time.DateTime), len(resp.Responses))

	keys := make([]string, 0, len(resp.Responses))
	for k := range resp.Responses {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, "  %-*s %s\n", fieldWidth, k, string(resp.Responses[k]))
	}
	return strings.TrimRight(sb.String(), "\n")
}
