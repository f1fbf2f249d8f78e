package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/CACL1000/dashboard-esp8266-dht22Sensor/pkg/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long:  `Apply pending schema migrations to the DB_* / DATABASE_URL database, or list them with --status.`,
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

var migrateStatus bool

func init() {
	migrateCmd.Flags().BoolVar(&migrateStatus, "status", false, "list migrations without applying them")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	dm, err := database.NewDatabaseManager()
	if err != nil {
		return err
	}
	defer dm.Close()

	ctx := cmd.Context()
	if !migrateStatus {
		n, err := dm.Migrate(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s)\n", n)
	}

	states, err := dm.MigrationStatus(ctx)
	if err != nil {
		return err
	}
	return printMigrations(cmd.OutOrStdout(), states)
}

func printMigrations(w io.Writer, states []database.MigrationState) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tNAME\tAPPLIED")
	for _, s := range states {
		applied := "pending"
		if s.AppliedAt != nil {
			applied = s.AppliedAt.Local().Format(time.DateTime)
		}
		fmt.Fprintf(tw, "%06d\t%s\t%s\n", s.Version, s.Name, applied)
	}
	return tw.Flush()
}
