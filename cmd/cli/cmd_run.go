package main

import (
	"fmt"
	"strings"

	"github.com/sguter90/anomalymaestro/pkg/models"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run fetch, detect and visualize once",
	Long:  `Run the fetch → detect → visualize sequence in-process and print each tool result.`,
	RunE:  runPipeline,
}

func init() {
	runCmd.Flags().String("sensor", models.DefaultSensorID, "sensor ID")
	runCmd.Flags().String("parameter", string(models.DefaultParameter), "parameter (temperature, humidity, pressure)")
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	app := appFromCommand(cmd)
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	sensorID, _ := cmd.Flags().GetString("sensor")
	parameter, _ := cmd.Flags().GetString("parameter")

	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintln(out, "AnomalyMaestro pipeline")
	fmt.Fprintln(out, strings.Repeat("=", 60))

	fmt.Fprintln(out, "1. Fetch sensor data:", app.Service.FetchSensorData(ctx, sensorID))
	fmt.Fprintln(out, "2. Detect anomalies:", app.Service.DetectAnomalies(ctx, sensorID, parameter))
	fmt.Fprintln(out, "3. Visualization:", app.Service.VisualizeAnomalies(ctx))

	fmt.Fprintln(out, strings.Repeat("=", 60))
	return nil
}
