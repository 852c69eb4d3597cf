// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// Package main implements a source scanner for key handling mistakes.
//
// Two checks run over non-test Go files:
//   - math/rand must not be imported by packages that create or hold keys
//   - secrets must not be passed to print, log or error formatting calls
package main

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Packages that generate keys, seal them, or derive addresses.
var criticalDirs = []string{
	"internal/crypto",
	"internal/signer",
	"internal/pda",
	"internal/faucet",
}

var mathRandImport = regexp.MustCompile(`"math/rand(/v2)?"`)

// Calls whose arguments end up on a terminal, in a log or in an error.
var outputCall = regexp.MustCompile(`\b(fmt\.(Print|Println|Printf|Fprint|Fprintln|Fprintf|Sprintf|Errorf)|util\.(Debug|Info|Warn)|slog\.(Debug|Info|Warn|Error)|log\.\w+|\.Field)\(`)

// Identifiers holding secret material.
var secretIdent = regexp.MustCompile(`(?i)\b(passphrase|privkey|privatekey|secretkey|secret|plaintext|opened)\b`)

var stringLiteral = regexp.MustCompile("\"(\\\\.|[^\"\\\\])*\"|`[^`]*`")

type finding struct {
	file   string
	line   int
	text   string
	reason string
}

func (f finding) String() string {
	return fmt.Sprintf("%s:%d\n  Line: %s\n  Issue: %s", f.file, f.line, strings.TrimSpace(f.text), f.reason)
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: keysafety <repo-root>")
		os.Exit(1)
	}

	findings, checked, err := scan(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "keysafety: %v\n", err)
		os.Exit(2)
	}

	fmt.Printf("Key Safety Analysis\n")
	fmt.Printf("===================\n")
	fmt.Printf("Files checked: %d\n\n", checked)
	if len(findings) == 0 {
		fmt.Println("No issues found.")
		return
	}
	fmt.Printf("Potential issues: %d\n\n", len(findings))
	for _, f := range findings {
		fmt.Printf("%s\n\n", f)
	}
	os.Exit(1)
}

// scan checks every non-test Go file under root, skipping vendored and
// hidden directories.
func scan(root string) ([]finding, int, error) {
	var findings []finding
	checked := 0

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor" || name == "testdata") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		fileFindings, err := checkFile(path, isCritical(filepath.ToSlash(rel)))
		if err != nil {
			return err
		}
		checked++
		findings = append(findings, fileFindings...)
		return nil
	})
	return findings, checked, err
}

func isCritical(rel string) bool {
	for _, dir := range criticalDirs {
		if strings.HasPrefix(rel, dir+"/") {
			return true
		}
	}
	return false
}

func checkFile(path string, critical bool) ([]finding, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	var findings []finding
	scanner := bufio.NewScanner(file)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "//") {
			continue
		}

		if critical && mathRandImport.MatchString(line) {
			findings = append(findings, finding{path, lineNum, line, "math/rand import in key handling package, use crypto/rand"})
		}

		if loc := outputCall.FindStringIndex(line); loc != nil {
			args := stringLiteral.ReplaceAllString(line[loc[1]:], `""`)
			if m := secretIdent.FindString(args); m != "" {
				findings = append(findings, finding{path, lineNum, line, fmt.Sprintf("%q passed to output or error formatting", m)})
			}
		}
	}
	return findings, scanner.Err()
}
