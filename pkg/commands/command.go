package commands

import (
	"fmt"

	"github.com/sguter90/anomalymaestro/pkg/models"
)

// Command is one of the fixed correction actions
type Command int

const (
	ResetHVACSystem Command = iota
	RecalibrateSensor
	ActivateBackupCooling
	NotifyMaintenanceTeam
	AdjustTemperatureThreshold

	numCommands
)

// All returns the catalog in its stable order
func All() []Command {
	all := make([]Command, 0, numCommands)
	for c := Command(0); c < numCommands; c++ {
		all = append(all, c)
	}
	return all
}

// String returns the symbolic command name
func (c Command) String() string {
	switch c {
	case ResetHVACSystem:
		return "reset_hvac_system"
	case RecalibrateSensor:
		return "recalibrate_sensor"
	case ActivateBackupCooling:
		return "activate_backup_cooling"
	case NotifyMaintenanceTeam:
		return "notify_maintenance_team"
	case AdjustTemperatureThreshold:
		return "adjust_temperature_threshold"
	default:
		return fmt.Sprintf("Command(%d)", int(c))
	}
}

// Outcome returns the simulated result of running the command
func (c Command) Outcome() string {
	switch c {
	case ResetHVACSystem:
		return "HVAC system has been reset. System restarting..."
	case RecalibrateSensor:
		return "Sensor recalibration initiated. This will take 5 minutes to complete."
	case ActivateBackupCooling:
		return "Backup cooling system activated. Temperature should normalize in 10-15 minutes."
	case NotifyMaintenanceTeam:
		return "Maintenance team has been notified. Ticket #MT-2025-0124 created."
	case AdjustTemperatureThreshold:
		return "Temperature threshold adjusted from 30.0°C to 32.0°C."
	default:
		return ""
	}
}

// Valid reports whether c is part of the catalog
func (c Command) Valid() bool {
	return c >= 0 && c < numCommands
}

// Parse resolves a symbolic name to a Command
func Parse(name string) (Command, error) {
	for _, c := range All() {
		if c.String() == name {
			return c, nil
		}
	}
	return -1, models.NewError(models.KindUnknownCommand,
		fmt.Sprintf("Error: Unknown command '%s'. Use get_available_commands to see available options.", name), nil)
}
