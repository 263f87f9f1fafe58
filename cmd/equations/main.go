package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

func main() {
	var (
		inname, verb, confname string
		with                   [][2]string
		nl, echo, serve        bool
	)
	addwith := func(s string) error {
		d, err := parseGiven(s)
		if err != nil {
			return err
		}
		with = append(with, d)
		return nil
	}
	flag.StringVar(&inname, "in", "", "input file (default stdin if no args given)")
	flag.StringVar(&verb, "fmt", "%g", "result formatting string")
	flag.Func("given", "name=value variable definition (any number of times)", addwith)
	flag.BoolVar(&nl, "n", false, "compile separate input lines as separate equations")
	flag.BoolVar(&echo, "echo", false, "print parse trees")
	flag.StringVar(&confname, "config", "", "YAML config file (default $"+envConfigFilePath+")")
	flag.BoolVar(&serve, "serve", false, "serve evaluations over HTTP instead of reading equations")
	flag.Parse()

	conf, err := loadConfig(confname)
	if err != nil {
		fatal("reading config", err)
	}
	initLogger(conf.Logging, os.Stderr)

	g, err := conf.Grammar.build()
	if err != nil {
		fatal("building grammar", err)
	}
	for _, d := range with {
		nm, vl := d[0], d[1]
		r, err := g.Evaluate(vl)
		if err != nil {
			fatal("setting "+nm, err)
		}
		g.Variable(nm, r)
	}

	if serve {
		conf.limitDepth(g)
		router := newRouter(g, conf.Server)
		slog.Info("serving evaluations", slog.String("addr", conf.Server.Addr))
		if err := router.Run(conf.Server.Addr); err != nil {
			fatal("serving", err)
		}
		return
	}

	var srcs []string
	f, err := infile(inname, flag.NArg() == 0)
	if err != nil {
		fatal("opening input", err)
	}
	if f != nil {
		b, err := io.ReadAll(f)
		if err != nil {
			fatal("reading input", err)
		}
		srcs = append(srcs, split(string(b), nl)...)
	}
	for _, arg := range flag.Args() {
		srcs = append(srcs, split(arg, nl)...)
	}

	verb += "\n"
	for _, src := range srcs {
		e, err := g.Compile(src)
		if err != nil {
			fmt.Println(err)
			continue
		}
		if echo {
			fmt.Printf("%v : ", e)
		}
		fmt.Printf(verb, e.Eval())
	}
}

// parseGiven parses a -given flag value.
func parseGiven(s string) ([2]string, error) {
	d := strings.SplitN(s, "=", 2)
	if len(d) != 2 || strings.TrimSpace(d[0]) == "" {
		return [2]string{}, fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
	}
	return [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])}, nil
}

// split divides input into equations. Without nl, the whole input is one
// equation. Blank equations are dropped either way.
func split(s string, nl bool) []string {
	parts := []string{s}
	if nl {
		parts = strings.Split(s, "\n")
	}
	r := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			r = append(r, p)
		}
	}
	return r
}

func infile(inname string, std bool) (io.Reader, error) {
	var f *os.File
	switch {
	case inname != "" && inname != "-":
		in, err := os.Open(inname)
		if err != nil {
			return nil, err
		}
		f = in
	case inname == "-", std:
		f = os.Stdin
	}
	if f == nil {
		return nil, nil
	}
	return bufio.NewReader(f), nil
}

func fatal(what string, err error) {
	slog.Error(what, slog.String("error", err.Error()))
	os.Exit(1)
}
