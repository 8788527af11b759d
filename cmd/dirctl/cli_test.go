package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestPlansListTable(t *testing.T) {
	out, err := run(t, "plans", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "premium")
	assert.Contains(t, out, "unlimited")
	assert.Less(t, bytes.Index([]byte(out), []byte("free")), bytes.Index([]byte(out), []byte("basic")))
}

func TestPlansListJSON(t *testing.T) {
	out, err := run(t, "plans", "list", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"key": "free"`)
	assert.Contains(t, out, `"products_limit": 10`)
}

func TestPlansListUnknownFormat(t *testing.T) {
	_, err := run(t, "plans", "list", "-o", "xml")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestPlansValidate(t *testing.T) {
	bad := writeFile(t, "plans.yaml", `
plans:
  - {key: free, name: F, price: 0}
  - {key: basic, name: B, price: 10}
`)
	_, err := run(t, "plans", "validate", bad)
	assert.ErrorContains(t, err, "missing plan")
}

func TestScheduleCheckOpen(t *testing.T) {
	path := writeFile(t, "hours.json", `{
  "schedule": {
    "monday": {"isOpen": true, "ranges": [{"start": "08:00", "end": "14:00"}]},
    "sunday": {"isOpen": false, "ranges": []}
  }
}`)
	out, err := run(t, "schedule", "check", path, "--at", "2024-06-03T10:00:00-06:00", "--tz", "America/Mexico_City")
	require.NoError(t, err)
	assert.Contains(t, out, "open:   true")
	assert.Contains(t, out, "today:  monday 08:00-14:00")
}

func TestScheduleCheckFallbackAndIssues(t *testing.T) {
	path := writeFile(t, "hours.yaml", `
open_time: "09:00"
close_time: "18:00"
schedule:
  tuesday: {isOpen: true, ranges: [{start: "22:00", end: "02:00"}]}
`)
	out, err := run(t, "schedule", "check", path, "--at", "2024-06-04T23:00:00-06:00", "--tz", "America/Mexico_City")
	assert.ErrorContains(t, err, "1 malformed schedule entries")
	assert.Contains(t, out, "open:   false")
	assert.Contains(t, out, "overnight")
}

func TestScheduleCheckUnknownDay(t *testing.T) {
	path := writeFile(t, "hours.yaml", `
schedule:
  lunes: {isOpen: true}
`)
	_, err := run(t, "schedule", "check", path)
	assert.ErrorContains(t, err, `unknown weekday "lunes"`)
}

func TestTokenIssueRejectsUnknownRole(t *testing.T) {
	_, err := run(t, "token", "issue", "--sub", "u1", "--role", "superuser")
	assert.ErrorContains(t, err, `unknown role "superuser"`)
}

func TestSeedDryRun(t *testing.T) {
	path := writeFile(t, "seed.yaml", `
regions:
  - {name: Jalisco, slug: jalisco, cities: [{name: Guadalajara, slug: guadalajara}]}
venues:
  - {slug: cafe, name: {es: Café}, region: jalisco, city: guadalajara, plan: basic}
`)
	out, err := run(t, "seed", "--file", path, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "1 regions, 1 venues ok")
}
