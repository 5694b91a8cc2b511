package eval

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/tliron/commonlog"

	"github.com/stardiviner/ob-racket/params"
	"github.com/stardiviner/ob-racket/results"
	"github.com/stardiviner/ob-racket/source"
	"github.com/stardiviner/ob-racket/template"
)

// keyInFile is the well-known command-template placeholder for the
// source-file path. The output-artifact placeholder shares its name with
// the out-file header argument.
const keyInFile = "in-file"

// Evaluator is a caller-supplied evaluation function. It receives the
// written source file's path and the output-artifact path (empty when no
// artifact parameter is present) and returns the raw result text.
type Evaluator func(srcPath, outPath string) (string, error)

// EvalResult is the raw outcome of realizing a block's result.
type EvalResult struct {
	// Raw is the captured or short-circuited text.
	Raw string

	// SourceFile is the path the assembled program was written to.
	// Empty for modes that write nothing.
	SourceFile string

	// Warnings are non-fatal diagnostics raised during assembly.
	Warnings []source.Warning
}

// Result is the coerced outcome returned to the host.
type Result struct {
	// Value is the coerced result: a plain string or a []any of rows.
	Value any

	// Raw is the uncoerced captured text.
	Raw string

	// SourceFile is the path of the written program, when one exists.
	SourceFile string

	// Duration is the total evaluation time.
	Duration time.Duration

	// Warnings are non-fatal diagnostics raised during evaluation.
	Warnings []source.Warning

	// ColNames and RowNames carry the block's table naming hints,
	// passed through opaquely for the host reassembler.
	ColNames any
	RowNames any
}

// Engine evaluates code blocks. It is stateless across invocations and
// safe for concurrent use as long as concurrent callers use distinct
// explicit file and artifact paths; freshly allocated temporary paths
// never collide.
type Engine struct {
	cfg Config
	log commonlog.Logger
}

// New creates an Engine with the given configuration.
// Returns ErrConfiguration if a set field is unusable.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &Engine{cfg: cfg, log: cfg.Logger}, nil
}

// InitiateSession reports that persistent sessions are unsupported for
// this dialect. It never creates partial session state.
func (e *Engine) InitiateSession(name string) error {
	return ErrSessionsUnsupported
}

// modeKind enumerates the evaluation strategies.
type modeKind int

const (
	modeCommand modeKind = iota
	modeBody
	modeCode
	modeDebug
	modeFile
	modeCustom
)

type mode struct {
	kind   modeKind
	custom Evaluator
}

// resolveMode maps the evaluation-mode parameter onto a tagged variant,
// once, before any side effect.
func resolveMode(set *params.Set) (mode, error) {
	v, ok := set.Get(params.KeyEval)
	if !ok || v == nil {
		return mode{kind: modeCommand}, nil
	}
	switch x := v.(type) {
	case string:
		switch x {
		case "":
			return mode{kind: modeCommand}, nil
		case "body":
			return mode{kind: modeBody}, nil
		case "code":
			return mode{kind: modeCode}, nil
		case "debug":
			return mode{kind: modeDebug}, nil
		case "file":
			return mode{kind: modeFile}, nil
		}
		return mode{}, &UnsupportedEvalModeError{Value: v}
	case Evaluator:
		return mode{kind: modeCustom, custom: x}, nil
	case func(string, string) (string, error):
		return mode{kind: modeCustom, custom: x}, nil
	}
	return mode{}, &UnsupportedEvalModeError{Value: v}
}

// Evaluate realizes a block's raw result according to its evaluation
// mode. The parameter set is read-only; derived entries are injected
// into a clone. At most one file is written and, on the default path
// only, exactly one external process runs, synchronously, with its
// standard output captured.
func (e *Engine) Evaluate(ctx context.Context, body string, vars source.Bindings, set *params.Set) (EvalResult, error) {
	m, err := resolveMode(set)
	if err != nil {
		return EvalResult{}, err
	}

	switch m.kind {
	case modeBody:
		return EvalResult{Raw: body}, nil
	case modeDebug:
		return EvalResult{Raw: set.String()}, nil
	}

	src, warnings, err := source.Assemble(body, vars, e.assemblySet(set))
	if err != nil {
		return EvalResult{}, err
	}
	for _, w := range warnings {
		e.log.Warningf("%s", w.Message)
	}

	if m.kind == modeCode {
		return EvalResult{Raw: src, Warnings: warnings}, nil
	}

	srcPath, err := e.writeSource(src, set)
	if err != nil {
		return EvalResult{}, err
	}
	outPath, err := artifactPath(set)
	if err != nil {
		return EvalResult{}, err
	}

	switch m.kind {
	case modeFile:
		return EvalResult{Raw: srcPath, SourceFile: srcPath, Warnings: warnings}, nil
	case modeCustom:
		raw, err := m.custom(srcPath, outPath)
		if err != nil {
			return EvalResult{}, err
		}
		return EvalResult{Raw: raw, SourceFile: srcPath, Warnings: warnings}, nil
	}

	line, err := e.buildCommand(set, srcPath, outPath)
	if err != nil {
		return EvalResult{}, err
	}
	e.log.Infof("running: %s", line)
	raw := e.runShell(ctx, line)
	return EvalResult{Raw: raw, SourceFile: srcPath, Warnings: warnings}, nil
}

// Run evaluates a block and coerces the captured text into a host value.
func (e *Engine) Run(ctx context.Context, body string, vars source.Bindings, set *params.Set) (Result, error) {
	start := time.Now()
	er, err := e.Evaluate(ctx, body, vars, set)
	if err != nil {
		return Result{}, err
	}
	colNames, _ := set.Get(params.KeyColNames)
	rowNames, _ := set.Get(params.KeyRowNames)
	return Result{
		Value:      results.Coerce(er.Raw, results.OptionsFrom(set, e.cfg.NilTo)),
		Raw:        er.Raw,
		SourceFile: er.SourceFile,
		Duration:   time.Since(start),
		Warnings:   er.Warnings,
		ColNames:   colNames,
		RowNames:   rowNames,
	}, nil
}

// assemblySet injects configured assembly defaults without mutating the
// caller's set.
func (e *Engine) assemblySet(set *params.Set) *params.Set {
	if e.cfg.HLineTo == "" || set.Has(params.KeyHLine) {
		return set
	}
	return set.Clone().Put(params.KeyHLine, e.cfg.HLineTo)
}

// writeSource writes the assembled program to the caller-specified path
// or to a freshly allocated temporary path, and returns the absolute
// path.
func (e *Engine) writeSource(src string, set *params.Set) (string, error) {
	if path := set.GetString(params.KeyFile); path != "" {
		if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
			return "", err
		}
		return filepath.Abs(path)
	}
	f, err := os.CreateTemp(e.cfg.TempDir, tempPattern)
	if err != nil {
		return "", err
	}
	if _, err := f.WriteString(src); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return filepath.Abs(f.Name())
}

func artifactPath(set *params.Set) (string, error) {
	path := set.GetString(params.KeyOutFile)
	if path == "" {
		return "", nil
	}
	return filepath.Abs(path)
}

// buildCommand expands the command template against the parameter set
// plus the two well-known placeholders, substituted with shell-escaped
// absolute paths.
func (e *Engine) buildCommand(set *params.Set, srcPath, outPath string) (string, error) {
	expansion := set.Clone()
	expansion.Put(keyInFile, shellquote.Join(srcPath))
	if outPath != "" {
		expansion.Put(params.KeyOutFile, shellquote.Join(outPath))
	}

	spec := template.Seq(
		template.Text(e.cfg.Racket+" "+e.cfg.Flag+" "),
		template.Key(keyInFile),
	)
	if v, ok := set.Get(params.KeyCommand); ok && v != nil {
		switch x := v.(type) {
		case template.Spec:
			spec = x
		case string:
			spec = template.Literal(x)
		default:
			return "", fmt.Errorf("eval: command template must be a string or template spec, got %T", v)
		}
	}
	return template.Expand(spec, expansion)
}

// runShell runs the constructed command via the host shell and captures
// standard output. Exit status is deliberately not classified: whatever
// the process wrote to stdout is the result, and a failing process that
// wrote nothing yields an empty result. Standard error is inherited from
// the calling process so interpreter diagnostics stay visible.
func (e *Engine) runShell(ctx context.Context, line string) string {
	cmd := exec.CommandContext(ctx, e.cfg.Shell, "-c", line)
	cmd.Stderr = os.Stderr
	out, _ := cmd.Output()
	return string(out)
}
