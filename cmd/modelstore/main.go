package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"hiring-assistant/internal/common"
	"hiring-assistant/internal/storage"
)

const usage = `usage: modelstore [-db path] <command> [flags]

commands:
  import -name NAME -file FILE   validate and store a model artifact
  list                           list stored artifacts
  history -name NAME             list every import of NAME
  delete -name NAME              remove the current artifact for NAME
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("modelstore", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	dbPath := fs.String("db", os.Getenv(common.EnvModelStorePath), "Path to the model store database")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 || *dbPath == "" {
		fs.Usage()
		return 2
	}

	store, err := storage.New(*dbPath)
	if err != nil {
		fmt.Fprintf(stderr, "open store: %v\n", err)
		return 1
	}
	defer store.Close()

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "import":
		return runImport(store, rest, stdout, stderr)
	case "list":
		return runList(store, stdout, stderr)
	case "history":
		return runHistory(store, rest, stdout, stderr)
	case "delete":
		return runDelete(store, rest, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		fs.Usage()
		return 2
	}
}

func nameFlag(cmd string, args []string, stderr io.Writer, withFile bool) (name, file string, ok bool) {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	n := fs.String("name", "", "Model name, e.g. regression or \"Decision Tree\"")
	var f *string
	if withFile {
		f = fs.String("file", "", "Artifact JSON file")
	}
	if err := fs.Parse(args); err != nil {
		return "", "", false
	}
	if *n == "" {
		fmt.Fprintln(stderr, "-name is required")
		return "", "", false
	}
	if withFile {
		if *f == "" {
			fmt.Fprintln(stderr, "-file is required")
			return "", "", false
		}
		file = *f
	}
	return *n, file, true
}

func runImport(store *storage.Store, args []string, stdout, stderr io.Writer) int {
	name, file, ok := nameFlag("import", args, stderr, true)
	if !ok {
		return 2
	}
	data, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(stderr, "read artifact: %v\n", err)
		return 1
	}
	info, err := store.PutArtifact(name, data)
	if err != nil {
		fmt.Fprintf(stderr, "import: %v\n", err)
		return 1
	}
	if !common.IsClassifier(name) && name != common.ModelRegression {
		fmt.Fprintf(stderr, "note: %q is not a built-in model name; reference it from the models config\n", name)
	}
	fmt.Fprintf(stdout, "imported %s (%s, %d bytes)\n", info.Name, info.Kind, info.Size)
	return 0
}

func runList(store *storage.Store, stdout, stderr io.Writer) int {
	list, err := store.ListArtifacts()
	if err != nil {
		fmt.Fprintf(stderr, "list: %v\n", err)
		return 1
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tVERSION\tSIZE\tIMPORTED")
	for _, a := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", a.Name, a.Kind, orDash(a.Version), a.Size, a.ImportedAt.Format(time.RFC3339))
	}
	tw.Flush()
	return 0
}

func runHistory(store *storage.Store, args []string, stdout, stderr io.Writer) int {
	name, _, ok := nameFlag("history", args, stderr, false)
	if !ok {
		return 2
	}
	history, err := store.History(name, time.Unix(0, 0), time.Now())
	if err != nil {
		fmt.Fprintf(stderr, "history: %v\n", err)
		return 1
	}
	for _, a := range history {
		fmt.Fprintf(stdout, "%s  %s  %s  %d bytes\n", a.ImportedAt.Format(time.RFC3339), a.Kind, orDash(a.Version), a.Size)
	}
	return 0
}

func runDelete(store *storage.Store, args []string, stdout, stderr io.Writer) int {
	name, _, ok := nameFlag("delete", args, stderr, false)
	if !ok {
		return 2
	}
	if err := store.DeleteArtifact(name); err != nil {
		fmt.Fprintf(stderr, "delete: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "deleted %s\n", name)
	return 0
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
