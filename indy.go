// Package indy implements the Indy-lang interpreter: a line-oriented
// declarative command language for sequential, interactive console
// programs. Script text flows through a line classifier and a block
// parser into a tree of commands and nested blocks, which an executor
// walks against a flat string variable environment with injected
// console I/O and sleep.
package indy

import (
	"os"
	"strings"
	"time"
)

// Indy is the interpreter facade
type Indy struct {
	config   *Config
	logger   *Logger
	executor *Executor
}

// New creates a new Indy interpreter. A nil config selects
// DefaultConfig; absent fields of a partial config fall back to the
// process console.
func New(config *Config) *Indy {
	config = normalizeConfig(config)

	logger := NewLogger(config.Verbose)
	bindLogger(logger, config)

	return &Indy{
		config:   config,
		logger:   logger,
		executor: NewExecutor(logger, config.Output, config.Input, config.Sleep),
	}
}

// normalizeConfig fills unset collaborators with console defaults
func normalizeConfig(config *Config) *Config {
	if config == nil {
		return DefaultConfig()
	}
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.Input == nil {
		config.Input = os.Stdin
	}
	if config.Diagnostics == nil {
		config.Diagnostics = os.Stderr
	}
	if config.Sleep == nil {
		config.Sleep = time.Sleep
	}
	return config
}

// bindLogger routes the logger's streams for a normalized config: a
// custom diagnostics sink receives both streams, the default keeps
// verbose messages on stdout and errors on stderr.
func bindLogger(logger *Logger, config *Config) {
	logger.SetEnabled(config.Verbose)
	if config.Diagnostics != os.Stderr {
		logger.SetOutput(config.Diagnostics, config.Diagnostics)
	} else {
		logger.SetOutput(os.Stdout, os.Stderr)
	}
	logger.SetContextLines(config.ContextLines)
}

// Configure replaces the configuration and rebinds the diagnostic and
// I/O surfaces
func (i *Indy) Configure(config *Config) {
	config = normalizeConfig(config)
	i.config = config
	bindLogger(i.logger, config)
	i.executor = NewExecutor(i.logger, config.Output, config.Input, config.Sleep)
}

// GetConfig returns a copy of the current configuration
func (i *Indy) GetConfig() *Config {
	configCopy := *i.config
	return &configCopy
}

// Logger exposes the interpreter's diagnostics sink
func (i *Indy) Logger() *Logger {
	return i.logger
}

// Execute parses and runs script source against a fresh environment.
// The returned error is non-nil only for fatal parse-time failures;
// runtime issues degrade gracefully per the language's design.
func (i *Indy) Execute(source string) error {
	return i.run(source, "", NewEnvironment())
}

// ExecuteFile parses and runs script source with filename tracking for
// error positions
func (i *Indy) ExecuteFile(source, filename string) error {
	return i.run(source, filename, NewEnvironment())
}

// ExecuteWithEnv parses and runs script source against a caller-owned
// environment, so variables persist across calls (REPL sessions)
func (i *Indy) ExecuteWithEnv(source string, env *Environment) error {
	if env == nil {
		env = NewEnvironment()
	}
	return i.run(source, "", env)
}

func (i *Indy) run(source, filename string, env *Environment) error {
	result, perr := Parse(source, filename)
	if perr != nil {
		if !i.config.ShowErrorContext {
			perr.Context = nil
		}
		i.logger.ScriptError(perr)
		return perr
	}

	for _, ignored := range result.Ignored {
		i.logger.Debug("Ignoring line %d outside script block: '%s'",
			ignored.Number, strings.TrimSpace(ignored.Raw))
	}

	i.executor.Run(result.Root, env)
	return nil
}
