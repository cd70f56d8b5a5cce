package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
	"lintgate.dev/pkg/lintgate/internal/adapter"
	"lintgate.dev/pkg/lintgate/internal/domain"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "lintgate"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	registryFlagName      = "registry"
	reportFlagName        = "report"
	noCacheFlagName       = "no-cache"
	excludeFlagName       = "exclude"
	verboseFlagName       = "verbose"
	runParallelFlagName   = "parallel"
	timeoutFlagName       = "timeout"
	checkerFlagName       = "checker"
	filterIncludeFlagName = "filter-include"
	filterExcludeFlagName = "filter-exclude"

	runParallelConfigKey = "run.parallel"
	checkerCommandKey    = "checker.command"
	checkerTimeoutKey    = "checker.timeout"
	filterIncludeKey     = "filter.include"
	filterExcludeKey     = "filter.exclude"
	pathsRootsKey        = "paths.roots"
	pathsExtensionsKey   = "paths.extensions"
	pathsRecursiveKey    = "paths.recursive"
	excludeConfigKey     = "paths.exclude"
	hashAlgorithmKey     = "hash.algorithm"
	registryStrictKey    = "registry-strict"

	defaultRegistryPath   = "hashRegister.txt"
	defaultReportPath     = ""
	defaultNoCache        = false
	defaultRunParallel    = 1
	defaultCheckerTimeout = time.Minute
	defaultSourceRoot     = "src"
	defaultRecursive      = true
	defaultRegistryStrict = false

	envPrefix = "LINTGATE"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".lintgate.log"
	defaultLogLevel      = "info"
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(registryFlagName, defaultRegistryPath)
	viper.SetDefault(reportFlagName, defaultReportPath)
	viper.SetDefault(noCacheFlagName, defaultNoCache)
	viper.SetDefault(runParallelConfigKey, defaultRunParallel)
	viper.SetDefault(checkerCommandKey, adapter.DefaultCheckerCommand)
	viper.SetDefault(checkerTimeoutKey, int64(defaultCheckerTimeout.Seconds()))
	viper.SetDefault(filterIncludeKey, []string{})
	viper.SetDefault(filterExcludeKey, domain.DefaultFilterExcludes)
	viper.SetDefault(pathsRootsKey, []string{defaultSourceRoot})
	viper.SetDefault(pathsExtensionsKey, adapter.DefaultExtensions)
	viper.SetDefault(pathsRecursiveKey, defaultRecursive)
	viper.SetDefault(excludeConfigKey, []string{})
	viper.SetDefault(hashAlgorithmKey, adapter.DefaultHashAlgorithm)
	viper.SetDefault(registryStrictKey, defaultRegistryStrict)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return
		}

		fmt.Fprintf(os.Stderr, "lintgate: ignoring %s: %v\n", configFileName, err)
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
