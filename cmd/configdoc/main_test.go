// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package main

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/aplane-algo/faucet/internal/config"
)

func TestCollect_Config(t *testing.T) {
	fields := collect(reflect.TypeOf(config.Config{}), "")

	byKey := make(map[string]fieldDoc)
	for _, f := range fields {
		byKey[f.Key] = f
	}
	for _, key := range []string{"backend", "rpc_url", "program_id", "keypair", "store", "withdraw_cooldown", "passphrase_command_argv", "passphrase_command_env"} {
		if _, ok := byKey[key]; !ok {
			t.Errorf("key %q missing", key)
		}
	}
	if got := byKey["withdraw_cooldown"].Type; got != "duration" {
		t.Errorf("withdraw_cooldown type = %q", got)
	}
	if got := byKey["passphrase_command_argv"].Type; got != "[]string" {
		t.Errorf("passphrase_command_argv type = %q", got)
	}
	if got := byKey["passphrase_command_env"].Type; got != "map[string]string" {
		t.Errorf("passphrase_command_env type = %q", got)
	}
	if got := byKey["backend"].Default; got != config.BackendLocal {
		t.Errorf("backend default = %q", got)
	}
}

func TestCollect_Nested(t *testing.T) {
	type inner struct {
		Port int `yaml:"port" default:"80"`
	}
	type outer struct {
		Name   string `yaml:"name,omitempty"`
		Server *inner `yaml:"server"`
		Skip   string `yaml:"-"`
		hidden string
	}

	got := collect(reflect.TypeOf(outer{}), "")
	want := []fieldDoc{
		{Key: "name", Type: "string"},
		{Key: "server.port", Type: "int", Default: "80"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("collect = %+v, want %+v", got, want)
	}
}

func TestWriters(t *testing.T) {
	fields := []fieldDoc{{Key: "backend", Type: "string", Default: "local", Description: "Where transactions go"}}

	var md bytes.Buffer
	writeMarkdown(&md, fields)
	if !strings.Contains(md.String(), "| `backend` | string | `local` | Where transactions go |") {
		t.Errorf("markdown row missing:\n%s", md.String())
	}
	if !strings.Contains(md.String(), config.DataDirEnv) {
		t.Error("markdown lacks environment variables")
	}

	var y bytes.Buffer
	writeYAML(&y, fields)
	if !strings.Contains(y.String(), "# Where transactions go\n# backend: local\n") {
		t.Errorf("yaml output:\n%s", y.String())
	}
}
