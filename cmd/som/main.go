// Command som is the launcher for the som interpreter: it loads one or more
// class source files, optionally evaluates a top-level expression, and
// reports errors the way the core surfaces them (kind, selector, receiver
// class).
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/variadico/lctime"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"gopkg.in/yaml.v2"

	"github.com/somlang/som"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	fs := flag.NewFlagSet("som", flag.ContinueOnError)
	var (
		expr       = fs.String("e", "", "evaluate `expression` after loading the given files")
		encodingFl = fs.String("encoding", "utf8", "source file encoding: utf8, latin1, utf16le, utf16be")
		configPath = fs.String("config", "", "path to a YAML configuration file")
		debug      = fs.Bool("debug", false, "log file loading, -e evaluation, and GC runs with timestamps")
		gc         = fs.Bool("gc", false, "run a mark-compact collection after loading")
		doc        = fs.Bool("doc", false, "print every installed class's name and comment, then exit")
		version    = fs.Bool("version", false, "print the interpreter version and exit")
	)
	if err := fs.Parse(argv); err != nil {
		return 2
	}
	if *version {
		fmt.Println(som.Version)
		return 0
	}

	cfg := som.Config{Encoding: *encodingFl, Debug: *debug}
	if *configPath != "" {
		if err := loadConfig(*configPath, &cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	logger := log.New(os.Stderr, "som: ", 0)
	vm := som.NewVM(cfg.HeapLimit, logger)
	vm.Debug = cfg.Debug

	for _, path := range fs.Args() {
		logDebug(vm, "loading %s", path)
		src, err := readSource(path, cfg.Encoding)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if _, err := vm.DoString(src); err != nil {
			reportError(vm, err)
			return 1
		}
	}

	if *doc {
		printDoc(vm)
		return 0
	}

	if *expr != "" {
		logDebug(vm, "evaluating -e expression")
		result, err := vm.EvalExpression(*expr)
		if err != nil {
			reportError(vm, err)
			return 1
		}
		obj := vm.Heap.Get(result)
		fmt.Printf("%v\n", obj.Value)
	}

	if *gc {
		logDebug(vm, "running gc")
		vm.Collect()
	}

	return 0
}

// readSource reads path and transcodes it to UTF-8 if enc names a non-UTF-8
// source encoding. The .som source format itself is ASCII-compatible, but
// string literals and comments are not assumed to be.
func readSource(path, enc string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	dec, err := decoderFor(enc)
	if err != nil {
		return "", fmt.Errorf("som: %s: %w", path, err)
	}
	if dec == nil {
		return string(raw), nil
	}
	out, err := dec.Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("som: %s: decoding as %s: %w", path, enc, err)
	}
	return string(out), nil
}

func decoderFor(enc string) (*encoding.Decoder, error) {
	switch strings.ToLower(enc) {
	case "", "utf8", "utf-8":
		return nil, nil
	case "latin1", "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder(), nil
	case "utf16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder(), nil
	case "utf16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder(), nil
	default:
		return nil, fmt.Errorf("unknown encoding %q", enc)
	}
}

func loadConfig(path string, cfg *som.Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("som: reading config: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("som: parsing config %s: %w", path, err)
	}
	return nil
}

// printDoc walks every TagClass object reachable from Globals and prints its
// name and attached comment, the introspection the -doc flag promises.
func printDoc(vm *som.VM) {
	for _, addr := range vm.Globals {
		obj := vm.Heap.Get(addr)
		if obj.Tag != som.TagClass {
			continue
		}
		cd := obj.Value.(*som.ClassData)
		if cd.IsMetaclass {
			continue
		}
		if cd.Comment != "" {
			fmt.Printf("%s: %s\n", cd.Name, cd.Comment)
		} else {
			fmt.Println(cd.Name)
		}
	}
}

// logDebug writes a locale-formatted timestamped trace line when -debug is
// set; it's a no-op otherwise.
func logDebug(vm *som.VM, format string, args ...any) {
	if !vm.Debug {
		return
	}
	ts := lctime.Strftime("%c", time.Now())
	vm.Logger.Printf("[%s] %s", ts, fmt.Sprintf(format, args...))
}

// reportError prints err with whatever class/selector context the core
// attached, and the activation stack the core captured when it escaped, if
// -debug is set.
func reportError(vm *som.VM, err error) {
	var somErr *som.Error
	if errors.As(err, &somErr) {
		fmt.Fprintln(os.Stderr, somErr.Error())
		if vm.Debug {
			for _, frame := range somErr.Trace {
				fmt.Fprintf(os.Stderr, "\tat %s\n", frame)
			}
		}
		return
	}
	fmt.Fprintln(os.Stderr, err)
}
