package progress

import (
	"github.com/pearl-labs/pearl-deploy/internal/domain/config"
	"github.com/pearl-labs/pearl-deploy/internal/usecase"
)

// ProvideSink selects the spinner for interactive runs and the no-op sink otherwise
func ProvideSink(cfg *config.RuntimeConfig) usecase.ProgressSink {
	if cfg.NonInteractive {
		return NewNopSink()
	}
	return NewSpinnerProgressReporter()
}
