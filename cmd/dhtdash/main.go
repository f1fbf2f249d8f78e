package main

import (
	"context"
	"fmt"
	"log"
	"os"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dhtdash",
	Short: "dhtdash - DHT22 sensor dashboard backend",
	Long: `dhtdash serves temperature and humidity readings from an ESP8266/DHT22
sensor, either straight from a ThingSpeak channel or from a local database,
and forecasts both variables with a least-squares trend model.`,
	SilenceUsage: true,
}

func main() {
	// A missing .env file is fine; the environment may already be set
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠ Failed to load .env: %v", err)
	}

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
