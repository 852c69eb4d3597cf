// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// configdoc generates documentation for config.yaml from Go struct tags.
//
//	go run ./cmd/configdoc > doc/CONFIG_REFERENCE.md
//	go run ./cmd/configdoc yaml > config.example.yaml
package main

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/aplane-algo/faucet/internal/config"
)

// fieldDoc is one documented config key.
type fieldDoc struct {
	Key         string
	Type        string
	Default     string
	Description string
}

// envDoc is one environment variable read by faucetctl.
type envDoc struct {
	Name        string
	Description string
}

var envVars = []envDoc{
	{config.DataDirEnv, "Data directory (config.yaml, keypair, local ledger)"},
	{"FAUCET_DEBUG", "Set to any value to enable debug logging"},
}

func main() {
	format := "markdown"
	if len(os.Args) > 1 {
		format = os.Args[1]
	}

	fields := collect(reflect.TypeOf(config.Config{}), "")
	switch format {
	case "markdown", "md":
		writeMarkdown(os.Stdout, fields)
	case "yaml":
		writeYAML(os.Stdout, fields)
	default:
		fmt.Fprintln(os.Stderr, "Usage: configdoc [markdown|yaml]")
		os.Exit(1)
	}
}

// collect walks the exported, yaml-tagged fields of t. Nested struct
// pointers are flattened with dotted keys.
func collect(t reflect.Type, prefix string) []fieldDoc {
	var docs []fieldDoc
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			continue
		}
		if prefix != "" {
			name = prefix + "." + name
		}

		if field.Type.Kind() == reflect.Ptr && field.Type.Elem().Kind() == reflect.Struct {
			docs = append(docs, collect(field.Type.Elem(), name)...)
			continue
		}
		docs = append(docs, fieldDoc{
			Key:         name,
			Type:        typeName(field.Type),
			Default:     field.Tag.Get("default"),
			Description: field.Tag.Get("description"),
		})
	}
	return docs
}

func typeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int64:
		if t.String() == "time.Duration" {
			return "duration"
		}
		return "int"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
		return "int"
	case reflect.Slice:
		return "[]" + typeName(t.Elem())
	case reflect.Map:
		return "map[" + typeName(t.Key()) + "]" + typeName(t.Elem())
	case reflect.Ptr:
		return "*" + typeName(t.Elem())
	default:
		return t.Kind().String()
	}
}

func writeMarkdown(w io.Writer, fields []fieldDoc) {
	fmt.Fprintln(w, "# Configuration Reference")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Auto-generated from Go struct tags. Do not edit manually.")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: `%s` in the faucetctl data directory (`-d` or `%s`)\n", config.FileName, config.DataDirEnv)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Field | Type | Default | Description |")
	fmt.Fprintln(w, "|-------|------|---------|-------------|")
	for _, f := range fields {
		def := "(none)"
		if f.Default != "" {
			def = "`" + f.Default + "`"
		}
		desc := f.Description
		if desc == "" {
			desc = "(no description)"
		}
		fmt.Fprintf(w, "| `%s` | %s | %s | %s |\n", f.Key, f.Type, def, desc)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "## Environment Variables")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Variable | Description |")
	fmt.Fprintln(w, "|----------|-------------|")
	for _, env := range envVars {
		fmt.Fprintf(w, "| `%s` | %s |\n", env.Name, env.Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Data directory resolution: `-d <path>`, then `"+config.DataDirEnv+"`, then `~/.faucet`.")
}

// writeYAML prints a config.yaml with every key commented out at its default.
func writeYAML(w io.Writer, fields []fieldDoc) {
	fmt.Fprintln(w, "# faucetctl configuration. Uncomment a key to override its default.")
	for _, f := range fields {
		fmt.Fprintln(w)
		if f.Description != "" {
			fmt.Fprintf(w, "# %s\n", f.Description)
		}
		fmt.Fprintf(w, "# %s: %s\n", f.Key, f.Default)
	}
}
