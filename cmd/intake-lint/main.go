package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/goliatone/go-intake/pkg/schema"
)

type violation struct {
	file     string
	location string
	message  string
}

func main() {
	flag.Usage = func() {
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-operation id] [paths...]\n", filepath.Base(os.Args[0])); err != nil {
			panic(err)
		}
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "\nCheck intake form definitions and their x-intake extensions.\n"); err != nil {
			panic(err)
		}
		flag.PrintDefaults()
	}
	operationID := flag.String("operation", "", "OpenAPI operation describing the form")
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{filepath.Join("pkg", "schema", schema.DefaultFormPath)}
	}

	ctx := context.Background()
	var violations []violation
	for _, path := range paths {
		linted, err := lintFile(ctx, path, *operationID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lint %s: %v\n", path, err)
			os.Exit(1)
		}
		violations = append(violations, linted...)
	}

	if len(violations) > 0 {
		sort.Slice(violations, func(i, j int) bool {
			if violations[i].file == violations[j].file {
				if violations[i].location == violations[j].location {
					return violations[i].message < violations[j].message
				}
				return violations[i].location < violations[j].location
			}
			return violations[i].file < violations[j].file
		})
		for _, v := range violations {
			fmt.Fprintf(os.Stderr, "%s: %s -> %s\n", v.file, v.location, v.message)
		}
		os.Exit(1)
	}
}

// lintFile reports extension problems and definition errors. A document the
// loader rejects becomes a single "definition" violation.
func lintFile(ctx context.Context, path, operationID string) ([]violation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	src := schema.SourceFromFile(path)
	doc, err := schema.NewDocument(src, raw)
	if err != nil {
		return nil, err
	}

	found, err := schema.LintExtensions(ctx, doc)
	if err != nil {
		return nil, err
	}
	out := make([]violation, 0, len(found)+1)
	for _, v := range found {
		out = append(out, violation{file: path, location: v.Location, message: v.Message})
	}

	loader := schema.NewLoader(schema.WithOperationID(operationID))
	if _, err := loader.Decode(ctx, doc); err != nil {
		out = append(out, violation{file: path, location: "definition", message: err.Error()})
	}
	return out, nil
}
