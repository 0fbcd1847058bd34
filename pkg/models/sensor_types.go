package models

import (
	"fmt"
	"strings"
)

// Parameter names a numeric attribute of a SensorReading
type Parameter string

// Parameter constants match the column names of the data source
const (
	ParameterTemperature Parameter = "temperature"
	ParameterHumidity    Parameter = "humidity"
	ParameterPressure    Parameter = "pressure"
)

// DefaultSensorID and DefaultParameter are used when a caller omits them
const (
	DefaultSensorID  = "S001"
	DefaultParameter = ParameterTemperature
)

// ParameterInfo holds display metadata about a parameter
type ParameterInfo struct {
	Name  string
	Label string
	Unit  string
}

// ParameterRegistry maps parameters to their information
var ParameterRegistry = map[Parameter]ParameterInfo{
	ParameterTemperature: {
		Name:  string(ParameterTemperature),
		Label: "Temperature",
		Unit:  "°C",
	},
	ParameterHumidity: {
		Name:  string(ParameterHumidity),
		Label: "Humidity",
		Unit:  "%",
	},
	ParameterPressure: {
		Name:  string(ParameterPressure),
		Label: "Pressure",
		Unit:  "hPa",
	},
}

// Parameters returns all known parameters in column order
func Parameters() []Parameter {
	return []Parameter{ParameterTemperature, ParameterHumidity, ParameterPressure}
}

// ParseParameter resolves a column name to a Parameter
func ParseParameter(name string) (Parameter, error) {
	p := Parameter(name)
	if _, ok := ParameterRegistry[p]; !ok {
		names := make([]string, 0, len(ParameterRegistry))
		for _, known := range Parameters() {
			names = append(names, string(known))
		}
		return "", ParameterNotFound(name, fmt.Errorf("valid: %s", strings.Join(names, ", ")))
	}
	return p, nil
}

// ParameterNotFound is the InvalidParameter error for a name the data does not carry
func ParameterNotFound(name string, cause error) *Error {
	return NewError(KindInvalidParameter, fmt.Sprintf("Parameter '%s' not found in sensor data", name), cause)
}

// Info returns the display metadata for the parameter
func (p Parameter) Info() ParameterInfo {
	if info, ok := ParameterRegistry[p]; ok {
		return info
	}
	return ParameterInfo{Name: string(p), Label: string(p)}
}
