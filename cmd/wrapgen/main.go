package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	slogotel "github.com/remychantenay/slog-otel"

	"github.com/greatliontech/wrapgen/internal/container"
	"github.com/greatliontech/wrapgen/internal/generate"
	"github.com/greatliontech/wrapgen/internal/target"
	"github.com/greatliontech/wrapgen/internal/telemetry"
	"github.com/greatliontech/wrapgen/pkg/component"
)

var version = "0.0.0-dev"

func main() {
	// Create a context that is canceled when SIGTERM or SIGINT is received.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	var (
		configFile string
		outputDir  string
		engineName string
		runSetup   bool
		logLevelS  string
	)

	flag.StringVar(&configFile, "config", "config.yaml", "path to the component description")
	flag.StringVar(&outputDir, "output", "target", "output directory for the artifact bundle")
	flag.StringVar(&engineName, "engine", "native", "execution environment: native or docker")
	flag.BoolVar(&runSetup, "setup", false, "build or pull the container image now")
	flag.StringVar(&logLevelS, "log-level", "error", "log level")

	flag.Parse()

	logLevel := new(slog.Level)
	*logLevel = slog.LevelError
	if err := logLevel.UnmarshalText([]byte(logLevelS)); err != nil {
		slog.Error("Failed to parse log level", "err", err)
		os.Exit(1)
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})

	slog.SetDefault(slog.New(slogotel.OtelHandler{
		Next: handler,
	}))

	slog.Info("Starting wrapgen", "version", version)

	telShutdown, err := telemetry.Setup(ctx,
		telemetry.WithVersion(version),
		telemetry.WithInstanceId(uuid.NewString()),
	)
	if err != nil {
		slog.Error("Failed to set up telemetry", "err", err)
		os.Exit(1)
	}

	code := run(ctx, configFile, outputDir, engineName, runSetup)

	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := telShutdown(sctx); err != nil {
		slog.Error("Failed to shutdown telemetry", "err", err)
	}
	os.Exit(code)
}

func run(ctx context.Context, configFile, outputDir, engineName string, runSetup bool) int {
	comp, err := component.FromFile(configFile)
	if err != nil {
		slog.Error("Failed to load component description", "err", err)
		return 1
	}

	var (
		executor string
		mod      generate.Modification
		imageRef string
	)
	switch engineName {
	case "native":
		executor, err = generate.NativeExecutor(comp)
		if err != nil {
			slog.Error("Failed to resolve executor", "err", err)
			return 1
		}
	case "docker":
		eng, err := container.NewEngine(comp)
		if err != nil {
			slog.Error("Failed to resolve container engine", "err", err)
			return 1
		}
		executor, err = eng.Executor()
		if err != nil {
			slog.Error("Failed to resolve executor", "err", err)
			return 1
		}
		mod = eng.Modification()
		imageRef = eng.Ref()
		if runSetup {
			if err := eng.Setup(ctx, true); err != nil {
				slog.Error("Failed to set up container image", "err", err)
				return 1
			}
		}
	default:
		slog.Error("Unknown engine", "engine", engineName)
		return 1
	}

	wrapper, err := generate.New(version).Generate(ctx, comp, executor, mod)
	if err != nil {
		slog.Error("Failed to generate wrapper", "err", err)
		return 1
	}

	tgt, err := target.New(ctx, outputDir)
	if err != nil {
		slog.Error("Failed to open output directory", "err", err)
		return 1
	}
	defer tgt.Close()

	info := target.NewBuildInfo(comp, configFile, engineName, imageRef, version)
	if err := tgt.Write(ctx, comp, wrapper, info); err != nil {
		slog.Error("Failed to write artifact bundle", "err", err)
		return 1
	}

	slog.Info("Build complete", "component", comp.Name, "engine", engineName, "dir", tgt.Dir())
	return 0
}
