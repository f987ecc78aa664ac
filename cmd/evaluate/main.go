package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"hiring-assistant/internal/cfg"
	"hiring-assistant/internal/evaluator"
	"hiring-assistant/internal/features"
	"hiring-assistant/internal/ml"
	"hiring-assistant/internal/storage"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("evaluate", flag.ContinueOnError)
	fs.SetOutput(stderr)

	spec := features.RegressionSpec()
	values := make(map[string]*string, spec.Len())
	for _, f := range spec.Fields() {
		values[f.Name] = fs.String(f.Name, "", fmt.Sprintf("%s (%s)", f.Label, f.RangeHint()))
	}
	var (
		model     = fs.String("model", "", "Classifier: KNN, Decision Tree, SVM, Naive Bayes, Logistic Regression (default from config)")
		modelsDir = fs.String("models", "", "Directory with model artifacts (overrides config)")
		asJSON    = fs.Bool("json", false, "Print the result as JSON")
		logLevel  = fs.String("log-level", "warn", "Log level: debug, info, warn, error")
		timeout   = fs.Duration("timeout", 30*time.Second, "Model loading timeout")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	c, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}
	cfg.ConfigureLogging(*logLevel, "console")
	if *modelsDir != "" {
		c.ModelsDir = *modelsDir
	}
	if *model == "" {
		*model = c.DefaultModel
	}

	var opts []ml.LoadOption
	if c.ModelStorePath != "" {
		store, err := storage.New(c.ModelStorePath)
		if err != nil {
			fmt.Fprintf(stderr, "model store: %v\n", err)
			return 1
		}
		defer store.Close()
		opts = append(opts, ml.WithStore(store))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	registry := ml.Load(ctx, c.Sources(), opts...)

	raw := make(features.RawInput, len(values))
	for name, v := range values {
		raw[name] = *v
	}

	eval := evaluator.New(registry, evaluator.WithValidator(features.Validator{EnforceRanges: c.EnforceRanges}))
	res, err := eval.Evaluate(raw, *model)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return 1
		}
		return 0
	}
	fmt.Fprintf(stdout, "Performance score: %.2f\n", res.PerformanceScore)
	fmt.Fprintf(stdout, "Decision: %s  (%s)\n", res.Decision, res.Model)
	return 0
}
