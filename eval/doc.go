// Package eval orchestrates one-shot evaluation of Racket code blocks.
//
// The engine assembles a complete program from a block's body, variable
// bindings, and header arguments, realizes a result according to the
// block's evaluation mode, and coerces captured output into a host
// value. Evaluation is stateless: every call writes its own source file
// and spawns its own process; nothing is pooled or reused, and no
// interpreter state survives between calls.
//
// # Evaluation modes
//
// The evaluation-mode header argument selects one of six strategies,
// resolved once at the start of evaluation:
//
//   - absent: assemble the program, write it to a file, build a shell
//     command from a template, run it, and capture standard output
//   - "body": return the block body unchanged; nothing is written or run
//   - "code": return the assembled program text; nothing is written or run
//   - "debug": return a diagnostic rendering of the parameter set
//   - "file": write the program and return the source file's path
//   - a custom [Evaluator] function: invoked with the source file path
//     and the output-artifact path
//
// Any other value for the mode parameter fails with
// [*UnsupportedEvalModeError] before any file is written.
//
// # Basic usage
//
//	engine, err := eval.New(eval.Config{})
//	if err != nil {
//	    return err
//	}
//	set := params.New().
//	    Put(params.KeyLang, "racket").
//	    Put(params.KeyResultType, "value")
//	res, err := engine.Run(ctx, "(+ 1 2)", nil, set)
//	// res.Value == "3"
//
// # Process boundary
//
// The engine does not classify process exit status: whatever the process
// wrote to standard output is returned as-is, and a failing process that
// wrote nothing yields an empty result rather than an error. Standard
// error is not captured; it surfaces wherever the calling process's
// stderr goes. Cancellation is the caller's concern via ctx.
//
// # Sessions
//
// Persistent interactive sessions are not supported for this dialect.
// [Engine.InitiateSession] always fails with [ErrSessionsUnsupported]
// and never creates partial session state.
package eval
