package main

// A `bibql` CLI for parsing bibliographic search queries (modern
// `field:value` syntax and SPIRES `find ...` syntax) and printing the
// canonical form, the raw parse tree, or the token stream.

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"go.elastic.co/ecszap"
	"go.uber.org/zap"

	"github.com/bibql/go-bibql/internal/alias"
	"github.com/bibql/go-bibql/internal/ansipainter"
	"github.com/bibql/go-bibql/internal/bibql"
	"github.com/bibql/go-bibql/internal/walkers"
)

// flags
var flags = pflag.NewFlagSet("bibql", pflag.ExitOnError)
var flagVerbose = flags.BoolP("verbose", "v", false, "verbose output")
var flagHelp = flags.BoolP("help", "h", false, "print this help")
var flagTokens = flags.BoolP("tokens", "t", false, "print the token stream instead of parsing")
var flagRaw = flags.BoolP("raw", "r", false, "print the parse tree before any pass is applied")
var flagPass = flags.StringP("pass", "p", "canonicalise",
	"named pass to apply before printing")
var flagColor = flags.String("color", "auto",
	`when to color output: "auto", "always" or "never"`)

func errorOut(msg string) {
	fmt.Fprintf(os.Stderr, "error: %s\n", msg)
}

func usage() {
	fmt.Printf("usage: bibql [OPTIONS] [QUERY]\n")
	flags.PrintDefaults()
}

// tokenRole maps a scanned token to its painting role.
func tokenRole(toks []bibql.ScannedToken, i int) string {
	switch toks[i].Kind {
	case "word":
		if i+1 < len(toks) && toks[i+1].Kind == ":" {
			return "keyword"
		}
		return "value"
	case "xword":
		return "value"
	case "whitespace":
		return "ws"
	case "single-quoted string", "double-quoted string":
		return "quoted"
	case "regex string":
		return "regex"
	case "error":
		return "error"
	default:
		return "operator"
	}
}

// highlight re-lexes a printed query and paints each token by role.
func highlight(query string, painter *ansipainter.ANSIPainter) string {
	var b strings.Builder
	toks := bibql.Scan(query)
	for i, t := range toks {
		if t.Kind == "EOF" {
			break
		}
		painter.Paint(&b, tokenRole(toks, i))
		b.WriteString(t.Text)
		painter.Reset(&b)
	}
	return b.String()
}

func runQuery(query string, reg *walkers.Registry, painter *ansipainter.ANSIPainter, log *zap.Logger) error {
	if *flagTokens {
		for _, t := range bibql.Scan(query) {
			fmt.Printf("%4d  %-22s %q\n", t.Offset, t.Kind, t.Text)
		}
		return nil
	}

	tree, err := bibql.Parse(query)
	if err != nil {
		return err
	}
	log.Debug("parsed", zap.String("query", query), zap.String("tree", tree.String()))

	if *flagRaw {
		fmt.Println(tree.String())
		return nil
	}

	pass, err := reg.Get(*flagPass)
	if err != nil {
		return err
	}
	var out string
	switch p := pass.(type) {
	case walkers.TransformPass:
		canonical, err := p.Transform(tree)
		if err != nil {
			return err
		}
		printer, err := reg.Get("print")
		if err != nil {
			return err
		}
		out, err = printer.(walkers.RenderPass).Render(canonical)
		if err != nil {
			return err
		}
	case walkers.RenderPass:
		out, err = p.Render(tree)
		if err != nil {
			return err
		}
	}
	fmt.Println(highlight(out, painter))
	return nil
}

func main() {
	flags.SortFlags = false
	flags.Usage = usage
	flags.Parse(os.Args[1:])

	if *flagHelp {
		usage()
		os.Exit(0)
	}

	// Setup logging.
	encoderConfig := ecszap.NewDefaultEncoderConfig()
	logLevel := zap.FatalLevel
	if *flagVerbose {
		logLevel = zap.DebugLevel
	}
	core := ecszap.NewCore(encoderConfig, os.Stderr, logLevel)
	logger := zap.New(core, zap.AddCaller()).Named("bibql")

	cfg, err := loadConfig()
	if err != nil {
		errorOut(err.Error())
		os.Exit(1)
	}

	// The alias table: built-in SPIRES set, then config overrides.
	table := alias.New()
	if field, ok := cfg.GetString("defaultField"); ok {
		table.SetDefault(field)
	}
	if tree := cfg.GetTree("aliases"); tree != nil {
		if err := table.MergeTOML(tree); err != nil {
			errorOut(err.Error())
			os.Exit(1)
		}
	}

	// A broken pass registration is a startup failure.
	reg, err := walkers.Default(table)
	if err != nil {
		errorOut(err.Error())
		os.Exit(1)
	}

	colorMode := *flagColor
	if !flags.Changed("color") {
		if c, ok := cfg.GetString("color"); ok {
			colorMode = c
		}
	}
	var painter *ansipainter.ANSIPainter
	switch colorMode {
	case "always":
		painter = ansipainter.DefaultPainter
	case "never":
		painter = ansipainter.NoColorPainter
	case "auto":
		if isatty.IsTerminal(os.Stdout.Fd()) {
			painter = ansipainter.DefaultPainter
		} else {
			painter = ansipainter.NoColorPainter
		}
	default:
		errorOut(fmt.Sprintf("unknown --color value: %q", colorMode))
		usage()
		os.Exit(2)
	}

	exitCode := 0
	if flags.NArg() > 0 {
		query := strings.Join(flags.Args(), " ")
		if err := runQuery(query, reg, painter, logger); err != nil {
			errorOut(err.Error())
			exitCode = 1
		}
	} else {
		// One query per line on stdin.
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if err := runQuery(scanner.Text(), reg, painter, logger); err != nil {
				errorOut(err.Error())
				exitCode = 1
			}
		}
		if err := scanner.Err(); err != nil {
			errorOut(fmt.Sprintf("reading stdin: %s", err))
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}
