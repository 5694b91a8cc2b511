// Command ob-racket evaluates a single Racket code block the way a
// literate-programming host would: the block body comes from a file
// argument or standard input, header arguments come from flags, and the
// coerced result is printed to standard output.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/stardiviner/ob-racket/eval"
	"github.com/stardiviner/ob-racket/params"
	"github.com/stardiviner/ob-racket/source"

	_ "github.com/tliron/commonlog/simple"
)

type varFlags []string

func (v *varFlags) String() string { return strings.Join(*v, ",") }

func (v *varFlags) Set(s string) error {
	*v = append(*v, s)
	return nil
}

func main() {
	var (
		lang       = flag.String("lang", "racket", "language dialect for the block")
		resultType = flag.String("results", source.ResultTypeValue, `result realization: "value" or "output"`)
		evalMode   = flag.String("eval", "", `evaluation mode override: "body", "code", "debug" or "file"`)
		command    = flag.String("cmd", "", "literal shell command overriding the default template")
		file       = flag.String("file", "", "write the assembled program to this path")
		outFile    = flag.String("out-file", "", "output-artifact path passed to the command")
		configPath = flag.String("config", "", "ob-racket.toml configuration file")
		verbosity  = flag.Int("v", 0, "log verbosity")
	)
	var vars varFlags
	flag.Var(&vars, "var", "name=value variable binding (repeatable)")
	flag.Parse()

	commonlog.Configure(*verbosity, nil)

	cfg := eval.Config{}
	if *configPath != "" {
		var err error
		cfg, err = eval.LoadConfig(*configPath)
		if err != nil {
			fatal(err)
		}
	}
	engine, err := eval.New(cfg)
	if err != nil {
		fatal(err)
	}

	body, err := readBody(flag.Args())
	if err != nil {
		fatal(err)
	}

	set := params.New().
		Put(params.KeyLang, *lang).
		Put(params.KeyResultType, *resultType)
	if *evalMode != "" {
		set.Put(params.KeyEval, *evalMode)
	}
	if *command != "" {
		set.Put(params.KeyCommand, *command)
	}
	if *file != "" {
		set.Put(params.KeyFile, *file)
	}
	if *outFile != "" {
		set.Put(params.KeyOutFile, *outFile)
	}

	bindings, err := parseVars(vars)
	if err != nil {
		fatal(err)
	}

	res, err := engine.Run(context.Background(), body, bindings, set)
	if err != nil {
		fatal(err)
	}
	for _, w := range res.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w.Message)
	}
	printValue(res.Value)
}

func readBody(args []string) (string, error) {
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		return string(data), err
	}
	data, err := io.ReadAll(os.Stdin)
	return string(data), err
}

// parseVars converts repeated name=value flags into bindings, keeping
// flag order. Integer-looking values bind as numbers.
func parseVars(vars varFlags) (source.Bindings, error) {
	var out source.Bindings
	for _, pair := range vars {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid -var %q: want name=value", pair)
		}
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			out = append(out, source.Binding{Name: name, Value: n})
			continue
		}
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			out = append(out, source.Binding{Name: name, Value: f})
			continue
		}
		out = append(out, source.Binding{Name: name, Value: value})
	}
	return out, nil
}

func printValue(value any) {
	rows, ok := value.([]any)
	if !ok {
		fmt.Println(value)
		return
	}
	for _, row := range rows {
		cells, ok := row.([]any)
		if !ok {
			fmt.Println(row)
			continue
		}
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = fmt.Sprintf("%v", c)
		}
		fmt.Println(strings.Join(parts, "\t"))
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "ob-racket:", err)
	os.Exit(1)
}
