package commands

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Execution describes a dispatched command
type Execution struct {
	Command    Command
	Outcome    string
	ExecutedAt time.Time
}

// Notifier receives every successful execution
type Notifier interface {
	Notify(ctx context.Context, exec Execution) error
}

// Registry validates and dispatches correction commands. It never touches
// detection state.
type Registry struct {
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewRegistry creates a registry. notifier may be nil.
func NewRegistry(notifier Notifier, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		notifier: notifier,
		logger:   logger.Named("commands"),
		now:      time.Now,
	}
}

// List returns the command names in catalog order
func (r *Registry) List() []string {
	all := All()
	names := make([]string, len(all))
	for i, c := range all {
		names[i] = c.String()
	}
	return names
}

// Execute dispatches the named command and returns its outcome. Unknown names
// fail with UnknownCommand. Notifier failures are logged only.
func (r *Registry) Execute(ctx context.Context, name string) (string, error) {
	c, err := Parse(name)
	if err != nil {
		r.logger.Warn("rejected unknown command", zap.String("command", name))
		return "", err
	}

	exec := Execution{
		Command:    c,
		Outcome:    c.Outcome(),
		ExecutedAt: r.now().UTC(),
	}

	r.logger.Info("✓ executed correction command", zap.String("command", c.String()))

	if r.notifier != nil {
		if err := r.notifier.Notify(ctx, exec); err != nil {
			r.logger.Error("failed to publish command execution", zap.String("command", c.String()), zap.Error(err))
		}
	}

	return exec.Outcome, nil
}
