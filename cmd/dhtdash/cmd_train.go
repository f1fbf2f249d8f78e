package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/forecast"
	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/models"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the forecast model once and print a prediction",
	Long: `Fetch the newest observations from the configured source, fit the
temperature and humidity trends and print the model statistics together
with a prediction for the requested day and hour.`,
	RunE: runTrain,
}

var (
	trainResults int
	trainDays    int
	trainHour    int
)

func init() {
	trainCmd.Flags().IntVar(&trainResults, "results", 0, "observations to train on (default TRAIN_RESULTS)")
	trainCmd.Flags().IntVar(&trainDays, "days", defaultPredictDays, "days ahead to predict")
	trainCmd.Flags().IntVar(&trainHour, "hour", defaultPredictHour, "hour of day to predict (0-23)")
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, args []string) error {
	if trainHour < 0 || trainHour > 23 {
		return fmt.Errorf("hour must be between 0 and 23")
	}
	if trainDays < 0 || trainDays > maxPredictDays {
		return fmt.Errorf("days must be between 0 and %d", maxPredictDays)
	}

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	results := trainResults
	if results <= 0 {
		results = cfg.TrainResults
	}

	observations, err := a.source.Observations(cmd.Context(), results)
	if err != nil {
		return fmt.Errorf("failed to fetch observations: %w", err)
	}

	outcome, err := forecast.Train(observations, cfg.Location)
	if err != nil {
		return err
	}

	var last models.Observation
	if len(observations) > 0 {
		last = observations[len(observations)-1]
	}

	target := forecast.TargetInstant(time.Now(), trainDays, trainHour, cfg.Location)
	prediction, err := forecast.PredictAt(outcome, target, last)
	if err != nil {
		return err
	}

	printTraining(cmd.OutOrStdout(), outcome, prediction, cfg.Location)
	return nil
}

func printTraining(w io.Writer, outcome *forecast.Outcome, p *forecast.Prediction, loc *time.Location) {
	fmt.Fprintf(w, "Model trained on %d samples (%s to %s)\n",
		outcome.SampleCount,
		outcome.FirstSample.In(loc).Format(models.TimeLayout),
		outcome.LastSample.In(loc).Format(models.TimeLayout))
	fmt.Fprintf(w, "Temperature: R²=%.4f RMSE=%.3f°C\n", outcome.TemperatureR2, outcome.TemperatureRMSE)
	fmt.Fprintf(w, "Humidity:    R²=%.4f RMSE=%.3f%%\n", outcome.HumidityR2, outcome.HumidityRMSE)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Prediction for %s\n", p.Target.In(loc).Format(models.TimeLayout))
	fmt.Fprintf(w, "Temperature: %.1f°C, %s\n", p.Temperature.Predicted, p.Temperature.Summary())
	fmt.Fprintf(w, "Humidity:    %.1f%%, %s\n", p.Humidity.Predicted, p.Humidity.Summary())
	fmt.Fprintf(w, "Confidence:  %d%%", p.ConfidencePercent)
	if p.LowConfidence {
		fmt.Fprint(w, " (low: the data does not follow a clear trend)")
	}
	fmt.Fprintln(w)
}
