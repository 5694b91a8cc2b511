package eval

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/tliron/commonlog"
)

// Default configuration values.
const (
	DefaultRacket = "racket"
	DefaultFlag   = "-u"
	DefaultShell  = "sh"

	// Extension is the dialect-appropriate extension for generated
	// source files.
	Extension = ".rkt"

	// tempPattern names freshly allocated temporary source files.
	tempPattern = "ob-racket-*" + Extension
)

// Config holds the engine configuration. The zero value is usable;
// defaults are applied by New.
type Config struct {
	// Racket is the external interpreter binary.
	// Default: "racket".
	Racket string `toml:"racket"`

	// Flag is the interpreter flag on the default command template,
	// selecting unbuffered one-shot execution of the source file.
	// Default: "-u".
	Flag string `toml:"flag"`

	// Shell is the host shell used to run constructed commands.
	// Default: "sh".
	Shell string `toml:"shell"`

	// TempDir is the directory for freshly allocated source files.
	// Empty means the system temporary directory. If set, it must
	// exist.
	TempDir string `toml:"temp-dir"`

	// HLineTo is the Racket token substituted for horizontal-rule
	// markers inside list-valued variable bindings.
	// Default: "null".
	HLineTo string `toml:"hline-to"`

	// NilTo is the token that absence sentinels in coerced tabular
	// results are rewritten to.
	// Default: "hline".
	NilTo string `toml:"nil-to"`

	// Logger receives engine diagnostics, including each constructed
	// command before it runs. Defaults to the "ob-racket" scope.
	Logger commonlog.Logger `toml:"-"`
}

// Validate checks the configuration.
// Returns ErrConfiguration if a set field is unusable.
func (c *Config) Validate() error {
	if c.TempDir != "" {
		info, err := os.Stat(c.TempDir)
		if err != nil {
			return fmt.Errorf("%w: temp-dir: %v", ErrConfiguration, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%w: temp-dir %q is not a directory", ErrConfiguration, c.TempDir)
		}
	}
	return nil
}

// applyDefaults sets default values for unset fields.
func (c *Config) applyDefaults() {
	if c.Racket == "" {
		c.Racket = DefaultRacket
	}
	if c.Flag == "" {
		c.Flag = DefaultFlag
	}
	if c.Shell == "" {
		c.Shell = DefaultShell
	}
	if c.NilTo == "" {
		c.NilTo = "hline"
	}
	if c.Logger == nil {
		c.Logger = commonlog.GetLogger("ob-racket")
	}
}

// LoadConfig reads an ob-racket.toml configuration file. Fields absent
// from the file keep their zero value; New applies defaults on top.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: cannot read %s: %v", ErrConfiguration, path, err)
	}
	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("%w: parse error in %s: %v", ErrConfiguration, path, err)
	}
	return c, nil
}
