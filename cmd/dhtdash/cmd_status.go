package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/api"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/stats"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the status of a running server",
	Long:  `Query a running dhtdash server for its health, the current model and the latest readings.`,
	RunE:  runStatus,
}

var statusServer string

func init() {
	statusCmd.Flags().StringVar(&statusServer, "server", "", "server URL (default http://localhost:$SERVER_PORT)")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	server := statusServer
	if server == "" {
		server = "http://localhost:" + getEnv("SERVER_PORT", "5000")
	}

	client := api.NewClient(server, api.WithTimeout(10*time.Second))
	return printStatus(cmd, client)
}

func printStatus(cmd *cobra.Command, client *api.Client) error {
	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	health, err := client.Health(ctx)
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	fmt.Fprintf(w, "Server:   %s (version %s, source %s)\n", health.Status, health.Version, health.Source)
	if health.Database != "" {
		fmt.Fprintf(w, "Database: %s\n", health.Database)
	}

	model, err := client.GetModel(ctx)
	var apiErr *api.Error
	switch {
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict:
		fmt.Fprintf(w, "Model:    not trained")
		if apiErr.Response.Details != "" {
			fmt.Fprintf(w, " (%s)", apiErr.Response.Details)
		}
		fmt.Fprintln(w)
	case err != nil:
		return err
	default:
		fmt.Fprintf(w, "Model:    %d samples, confidence %d%%, trained %s\n",
			model.Outcome.SampleCount, model.ConfidencePercent, model.TrainedAt.Format(time.RFC3339))
	}

	summary, err := client.GetStats(ctx, defaultObservationResults)
	if err != nil {
		return err
	}
	printSeries(w, "Temp", summary.Temperature, "°C")
	printSeries(w, "Humidity", summary.Humidity, "%")
	return nil
}

func printSeries(w io.Writer, label string, s stats.Series, unit string) {
	if s.Last == nil {
		fmt.Fprintf(w, "%-9s no readings\n", label+":")
		return
	}
	fmt.Fprintf(w, "%-9s last %.1f%s, avg %.2f%s over %d readings\n", label+":", *s.Last, unit, *s.Average, unit, s.Count)
}
