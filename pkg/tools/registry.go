package tools

import (
	"context"
	"fmt"
	"sync"

	"github.com/sguter90/anomalymaestro/pkg/metrics"
)

// Tool names as exposed to callers
const (
	FetchSensorData      = "fetch_sensor_data"
	DetectAnomalies      = "detect_anomalies"
	VisualizeAnomalies   = "visualize_anomalies"
	GetAvailableCommands = "get_available_commands"
	ExecuteCorrection    = "execute_correction"
)

// Handler runs a tool with string arguments and returns its text result
type Handler func(ctx context.Context, args map[string]string) string

// Tool describes a named, independently invocable operation
type Tool struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Args        []string `json:"args"`
	Handler     Handler  `json:"-"`
}

// Registry holds all registered tools
type Registry struct {
	mu      sync.RWMutex
	tools   map[string]Tool
	order   []string
	metrics *metrics.Metrics
}

// NewRegistry creates a new tool registry. m may be nil.
func NewRegistry(m *metrics.Metrics) *Registry {
	return &Registry{
		tools:   make(map[string]Tool),
		metrics: m,
	}
}

// Register adds a tool to the registry, replacing any tool with the same name
func (r *Registry) Register(t Tool) {
	if t.Name == "" || t.Handler == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[t.Name]; !exists {
		r.order = append(r.order, t.Name)
	}
	r.tools[t.Name] = t
}

// Get retrieves a tool by name
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	return t, ok
}

// All returns all registered tools in registration order
func (r *Registry) All() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name])
	}
	return tools
}

// Invoke runs the named tool. Only an unregistered name is an error; tool
// failures are part of the returned text.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]string) (string, error) {
	t, ok := r.Get(name)
	if !ok {
		return "", fmt.Errorf("unknown tool %q", name)
	}
	if args == nil {
		args = map[string]string{}
	}

	r.metrics.ObserveTool(name)
	return t.Handler(ctx, args), nil
}

// NewServiceRegistry registers the five pipeline tools backed by svc
func NewServiceRegistry(svc *Service, m *metrics.Metrics) *Registry {
	r := NewRegistry(m)

	r.Register(Tool{
		Name:        FetchSensorData,
		Description: "Fetch sensor data from the configured data source.",
		Args:        []string{"sensor_id"},
		Handler: func(ctx context.Context, args map[string]string) string {
			return svc.FetchSensorData(ctx, args["sensor_id"])
		},
	})
	r.Register(Tool{
		Name:        DetectAnomalies,
		Description: "Detect anomalies in sensor data using the Isolation Forest algorithm.",
		Args:        []string{"sensor_id", "parameter"},
		Handler: func(ctx context.Context, args map[string]string) string {
			return svc.DetectAnomalies(ctx, args["sensor_id"], args["parameter"])
		},
	})
	r.Register(Tool{
		Name:        VisualizeAnomalies,
		Description: "Generate a chart of the detected anomalies and return a viewable URL.",
		Handler: func(ctx context.Context, args map[string]string) string {
			return svc.VisualizeAnomalies(ctx)
		},
	})
	r.Register(Tool{
		Name:        GetAvailableCommands,
		Description: "Get the list of available correction commands.",
		Handler: func(ctx context.Context, args map[string]string) string {
			return svc.GetAvailableCommands()
		},
	})
	r.Register(Tool{
		Name:        ExecuteCorrection,
		Description: "Execute a correction command to address detected anomalies.",
		Args:        []string{"command"},
		Handler: func(ctx context.Context, args map[string]string) string {
			return svc.ExecuteCorrection(ctx, args["command"])
		},
	})

	return r
}
