package main

import (
	"fmt"

	"github.com/sguter90/anomalymaestro/pkg/models"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Count the readings of a sensor",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := appFromCommand(cmd)
		sensorID, _ := cmd.Flags().GetString("sensor")
		fmt.Fprintln(cmd.OutOrStdout(), app.Service.FetchSensorData(cmd.Context(), sensorID))
		return nil
	},
}

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect anomalies and print the report",
	Long: `Score the readings of one sensor with the Isolation Forest detector and print
the anomaly report. With --visualize the chart is rendered and hosted as well.`,
	RunE: runDetect,
}

func init() {
	fetchCmd.Flags().String("sensor", models.DefaultSensorID, "sensor ID")

	detectCmd.Flags().String("sensor", models.DefaultSensorID, "sensor ID")
	detectCmd.Flags().String("parameter", string(models.DefaultParameter), "parameter (temperature, humidity, pressure)")
	detectCmd.Flags().Bool("visualize", false, "render and host the anomaly chart")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	app := appFromCommand(cmd)
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	sensorID, _ := cmd.Flags().GetString("sensor")
	parameter, _ := cmd.Flags().GetString("parameter")
	visualize, _ := cmd.Flags().GetBool("visualize")

	fmt.Fprintln(out, app.Service.DetectAnomalies(ctx, sensorID, parameter))

	if visualize {
		fmt.Fprintln(out, app.Service.VisualizeAnomalies(ctx))
	}
	return nil
}
