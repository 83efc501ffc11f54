// Command corpuslint checks a markdown tutorial corpus for metadata problems:
// missing front matter fields, broken series ordering, drifting series names,
// mixed date formats, and stale "Next up" links. It exits non-zero when any
// error-severity finding exists, so it slots into CI.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	corpus "github.com/garethredfern/redfern-dev-sub002"
	"github.com/garethredfern/redfern-dev-sub002/content"
	"github.com/garethredfern/redfern-dev-sub002/lint"
)

type options struct {
	ContentDir   string `long:"content-dir" short:"c" env:"CONTENT_DIR" default:"content" description:"Markdown corpus root"`
	RegistryPath string `long:"registry" env:"REGISTRY_PATH" default:"corpus.yaml" description:"Series registry file"`
	JSON         bool   `long:"json" description:"Emit findings as JSON"`
	Quiet        bool   `long:"quiet" short:"q" description:"Only print error-severity findings"`
}

func main() {
	_ = godotenv.Load()

	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}

	registry, err := corpus.LoadRegistry(opts.RegistryPath)
	if err != nil {
		log.Fatalf("corpuslint: %v", err)
	}

	loader := content.NewLoader(os.DirFS(opts.ContentDir), content.LoaderConfig{Recursive: true})
	results, err := loader.LoadAll(context.Background(), ".")
	if err != nil {
		log.Fatalf("corpuslint: %v", err)
	}

	report := lint.Run(results, lint.Options{SeriesTitles: registry})

	if opts.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			log.Fatalf("corpuslint: %v", err)
		}
	} else {
		for _, f := range report.Findings {
			if opts.Quiet && f.Severity != lint.Error {
				continue
			}
			fmt.Printf("%s: %s [%s] %s\n", f.Path, f.Severity, f.Rule, f.Message)
		}
		fmt.Printf("%d files checked: %d errors, %d warnings\n",
			len(results), report.Errors(), report.Warnings())
	}

	if report.Errors() > 0 {
		os.Exit(1)
	}
}
