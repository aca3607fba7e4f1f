package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	calculatordomain "github.com/smallbiznis/lightmeasure/internal/calculator/domain"
	unitdomain "github.com/smallbiznis/lightmeasure/internal/unit/domain"
)

var errUsage = errors.New("usage")

type env struct {
	svc    calculatordomain.Service
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	summary string
	run     func(ctx context.Context, e *env, args []string) error
}

var commands = map[string]command{
	"price":         {"price -weight W [-unit U]", runPrice},
	"weight":        {"weight -price P [-unit U]", runWeight},
	"bulk":          {"bulk -mode weight_to_price|price_to_weight [-unit U] [-file F] [-export PATH]", runBulk},
	"rate":          {"rate [-set TEXT] [-base U]", runRate},
	"unit":          {"unit -set U", runUnit},
	"history":       {"history", runHistory},
	"clear-history": {"clear-history", runClearHistory},
	"units":         {"units", runUnits},
}

func lookupCommand(name string) (command, bool) {
	cmd, ok := commands[name]
	return cmd, ok
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "Light Measure: price and weight calculator\n\n")
	fmt.Fprintf(w, "Usage:\n")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  lightmeasure %s\n", commands[name].summary)
	}
}

func newFlagSet(name string, e *env) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errUsage
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(fs.Output(), "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		return errUsage
	}
	return nil
}

// resolveUnit falls back to the preferred unit when raw is empty.
func resolveUnit(e *env, raw string) (unitdomain.Code, error) {
	if strings.TrimSpace(raw) == "" {
		return e.svc.PreferredUnit(), nil
	}
	return unitdomain.Parse(raw)
}

func runPrice(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("price", e)
	weight := fs.String("weight", "", "weight to price")
	unitFlag := fs.String("unit", "", "unit of -weight (default: preferred unit)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	u, err := resolveUnit(e, *unitFlag)
	if err != nil {
		return err
	}
	res, err := e.svc.PriceFromWeight(ctx, *weight, u)
	if res != nil {
		fmt.Fprintln(e.stdout, res.Text)
	}
	return err
}

func runWeight(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("weight", e)
	price := fs.String("price", "", "amount to convert into a weight")
	unitFlag := fs.String("unit", "", "unit of the result (default: preferred unit)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	u, err := resolveUnit(e, *unitFlag)
	if err != nil {
		return err
	}
	res, err := e.svc.WeightFromPrice(ctx, *price, u)
	if res != nil {
		fmt.Fprintln(e.stdout, res.Text)
	}
	return err
}

func runBulk(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("bulk", e)
	mode := fs.String("mode", string(calculatordomain.WeightToPrice), "weight_to_price or price_to_weight")
	unitFlag := fs.String("unit", "", "unit of the values (default: preferred unit)")
	file := fs.String("file", "", "read values from file instead of stdin, one per line")
	exportPath := fs.String("export", "", "write results to PATH (.csv or .pdf)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	u, err := resolveUnit(e, *unitFlag)
	if err != nil {
		return err
	}

	lines, err := readLines(e.stdin, *file)
	if err != nil {
		return err
	}

	results, bulkErr := e.svc.Bulk(ctx, lines, calculatordomain.BulkMode(strings.TrimSpace(*mode)), u)
	if results == nil {
		return bulkErr
	}

	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INPUT\tRESULT")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\n", r.Input, r.Result)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if *exportPath != "" {
		if err := e.svc.ExportBulk(ctx, results, *exportPath); err != nil {
			if bulkErr != nil {
				fmt.Fprintf(e.stderr, "warning: %v\n", bulkErr)
			}
			return err
		}
		fmt.Fprintf(e.stdout, "Results exported to %s\n", *exportPath)
	}
	return bulkErr
}

func readLines(stdin io.Reader, path string) ([]string, error) {
	r := stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", calculatordomain.ErrIO, err)
		}
		defer f.Close()
		r = f
	}

	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", calculatordomain.ErrIO, err)
	}
	return lines, nil
}

func runRate(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("rate", e)
	set := fs.String("set", "", "price per base unit")
	base := fs.String("base", "", "base unit the rate is quoted in")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	var errs []error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "set":
			errs = append(errs, e.svc.SetRate(ctx, *set))
		case "base":
			u, err := unitdomain.Parse(*base)
			if err != nil {
				errs = append(errs, err)
				return
			}
			errs = append(errs, e.svc.SetBaseUnit(ctx, u))
		}
	})
	var warning error
	for _, err := range errs {
		switch {
		case err == nil:
		case errors.Is(err, calculatordomain.ErrPersistence):
			warning = err
		default:
			return err
		}
	}

	rate := e.svc.Rate()
	if !rate.Configured() {
		fmt.Fprintf(e.stdout, "Rate: not set (per %s)\n", e.svc.BaseUnit())
		return warning
	}
	fmt.Fprintf(e.stdout, "Rate: %s per %s\n", rate.Text, e.svc.BaseUnit())
	return warning
}

func runUnit(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("unit", e)
	set := fs.String("set", "", "preferred unit")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if *set != "" {
		u, err := unitdomain.Parse(*set)
		if err != nil {
			return err
		}
		if err := e.svc.SetPreferredUnit(ctx, u); err != nil {
			fmt.Fprintf(e.stdout, "Preferred unit: %s\n", e.svc.PreferredUnit())
			return err
		}
	}
	fmt.Fprintf(e.stdout, "Preferred unit: %s\n", e.svc.PreferredUnit())
	return nil
}

func runHistory(ctx context.Context, e *env, args []string) error {
	if err := parseFlags(newFlagSet("history", e), args); err != nil {
		return err
	}
	history := e.svc.History()
	if len(history) == 0 {
		fmt.Fprintln(e.stdout, "No history yet.")
		return nil
	}
	for _, entry := range history {
		fmt.Fprintln(e.stdout, entry)
	}
	return nil
}

func runClearHistory(ctx context.Context, e *env, args []string) error {
	if err := parseFlags(newFlagSet("clear-history", e), args); err != nil {
		return err
	}
	err := e.svc.ClearHistory(ctx)
	fmt.Fprintln(e.stdout, "History cleared.")
	return err
}

func runUnits(ctx context.Context, e *env, args []string) error {
	if err := parseFlags(newFlagSet("units", e), args); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tGRAMS")
	for _, u := range unitdomain.Units() {
		fmt.Fprintf(tw, "%s\t%s\t%g\n", u.Code, u.DisplayName, u.FactorToGrams)
	}
	return tw.Flush()
}
