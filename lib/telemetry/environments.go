package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"statshub-collector/lib/configutil"
)

var setupTestEnvironments = map[string]bool{}

// SetupForTesting configures telemetry for a test binary, ensuring it is
// not set up more than once per service name. The returned cleanup is a
// no-op for every call after the first.
func SetupForTesting(serviceName string) func() {
	if setupTestEnvironments[serviceName] {
		return func() {}
	}
	setupTestEnvironments[serviceName] = true

	InitSlog(true)
	err := SetupFromEnv(context.Background(), serviceName)
	if err != nil {
		panic(err)
	}

	return func() {
		err := Shutdown(context.Background())
		if err != nil {
			panic(err)
		}
	}
}

// SetupFromEnv searches up the filesystem from the cwd for a file called
// telemetry.json5 and uses it to set up telemetry. Without one the global
// no-op providers stay installed, so instrumented code still runs.
func SetupFromEnv(ctx context.Context, serviceName string) error {
	cfg, err := configutil.ReadRecursively[config]("telemetry.json5")
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("no telemetry.json5 found, telemetry disabled")
		return nil
	}
	if err != nil {
		return err
	}
	return Setup(ctx, serviceName, cfg)
}
