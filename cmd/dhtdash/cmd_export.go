package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export observations as CSV",
	Long:  `Write the newest observations from the configured source as CSV (time,temp,hum,entry_id).`,
	RunE:  runExport,
}

var (
	exportResults int
	exportOutput  string
)

func init() {
	exportCmd.Flags().IntVar(&exportResults, "results", defaultObservationResults, "observations to export")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "-", "output file, - for stdout (e.g. "+export.FileName+")")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	observations, err := a.source.Observations(cmd.Context(), exportResults)
	if err != nil {
		return fmt.Errorf("failed to fetch observations: %w", err)
	}

	var out io.Writer = cmd.OutOrStdout()
	if exportOutput != "-" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", exportOutput, err)
		}
		defer f.Close()
		out = f
	}

	if err := export.WriteCSV(out, observations); err != nil {
		return err
	}

	if exportOutput != "-" {
		log.Printf("✓ Exported %d observations to %s", len(observations), exportOutput)
	}
	return nil
}
