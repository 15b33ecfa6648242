package app

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func run(t *testing.T, mr *miniredis.Miniredis, stdin string, args ...string) (string, error) {
	t.Helper()
	out, _, err := runApp(t, mr, stdin, args...)
	return out, err
}

func runApp(t *testing.T, mr *miniredis.Miniredis, stdin string, args ...string) (string, *App, error) {
	t.Helper()
	a := newApp()
	var out bytes.Buffer
	a.cmd.SetOut(&out)
	a.cmd.SetErr(&out)
	a.cmd.SetIn(strings.NewReader(stdin))
	a.cmd.SetArgs(append([]string{"--redis-addr", mr.Addr(), "--prefix", "cli:"}, args...))
	err := a.execute(context.Background())
	return out.String(), a, err
}

const authJSON = `{
  "accountId": "991fad18c511",
  "applicationKeyId": "0029fad18c5110000000003",
  "applicationKey": "K001MZBacL1ZMs6JvjtyabN9",
  "authorizationToken": "4_0029fad18c5110000000003_01abcd_acct",
  "apiUrl": "https://api001.backblazeb2.com",
  "downloadUrl": "https://f001.backblazeb2.com",
  "recommendedPartSize": 5242880,
  "allowed": {"bucketId": "4_z27c", "bucketName": "pics", "capabilities": ["listBuckets", "readFiles"], "namePrefix": null}
}`

func TestImportShowClear(t *testing.T) {
	mr := miniredis.RunT(t)

	out, err := run(t, mr, "", "show")
	if err != nil || !strings.Contains(out, "no session stored") {
		t.Fatalf("show on empty: out=%q err=%v", out, err)
	}

	if out, err := run(t, mr, authJSON, "import"); err != nil || !strings.Contains(out, "991fad18c511") {
		t.Fatalf("import: out=%q err=%v", out, err)
	}
	if got, _ := mr.Get("cli:realm"); got != "production" {
		t.Fatalf("realm defaulted to %q", got)
	}

	out, err = run(t, mr, "", "show")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	for _, want := range []string{"https://api001.backblazeb2.com", "5242880", "listBuckets,readFiles", "restricted to bucket  pics"} {
		if !strings.Contains(out, want) {
			t.Fatalf("show output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "K001MZBacL1ZMs6JvjtyabN9") {
		t.Fatalf("secret printed without --reveal:\n%s", out)
	}
	if out, _ := run(t, mr, "", "show", "--reveal"); !strings.Contains(out, "K001MZBacL1ZMs6JvjtyabN9") {
		t.Fatalf("--reveal should print secrets:\n%s", out)
	}

	if _, err := run(t, mr, "", "clear"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(mr.Keys()) != 0 {
		t.Fatalf("keys left: %v", mr.Keys())
	}
}

func TestImportRejectsIncompleteAuthorization(t *testing.T) {
	mr := miniredis.RunT(t)
	if _, err := run(t, mr, `{"accountId":"x"}`, "import"); err == nil {
		t.Fatalf("expected error for incomplete authorization")
	}
	if _, err := run(t, mr, `{"accountId":"x","bogus":1}`, "import"); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestBucketCommands(t *testing.T) {
	mr := miniredis.RunT(t)

	if out, err := run(t, mr, "", "buckets", "replace", "pics=4_z27c", "docs=4_z99x"); err != nil || !strings.Contains(out, "cached 2") {
		t.Fatalf("replace: %q %v", out, err)
	}
	if out, err := run(t, mr, "", "buckets", "put", "pics", "4_new"); err != nil || !strings.Contains(out, "updated pics") {
		t.Fatalf("put: %q %v", out, err)
	}
	if out, err := run(t, mr, "", "buckets", "lookup", "pics"); err != nil || strings.TrimSpace(out) != "4_new" {
		t.Fatalf("lookup: %q %v", out, err)
	}
	out, err := run(t, mr, "", "buckets", "list")
	if err != nil || !strings.Contains(out, "docs") || !strings.Contains(out, "4_z99x") {
		t.Fatalf("list: %q %v", out, err)
	}
	if out, err := run(t, mr, "", "buckets", "rm", "docs"); err != nil || !strings.Contains(out, "removed docs") {
		t.Fatalf("rm: %q %v", out, err)
	}
	if out, err := run(t, mr, "", "buckets", "rm", "docs"); err != nil || !strings.Contains(out, "was not cached") {
		t.Fatalf("rm again: %q %v", out, err)
	}
	if _, err := run(t, mr, "", "buckets", "lookup", "docs"); err == nil {
		t.Fatalf("lookup of uncached bucket should fail")
	}
	if _, err := run(t, mr, "", "buckets", "replace", "broken"); err == nil {
		t.Fatalf("malformed NAME=ID should fail")
	}
	if _, err := run(t, mr, "", "buckets", "replace"); err != nil {
		t.Fatal(err)
	}
	if mr.Exists("cli:bucket-map") {
		t.Fatalf("empty replace should delete the cache")
	}
}

func TestMask(t *testing.T) {
	if got := mask("abc"); got != "***" {
		t.Fatalf("mask(abc)=%q", got)
	}
	if got := mask("abcdefgh"); got != "abcdef**" {
		t.Fatalf("mask=%q", got)
	}
}

func TestConnectionClosedWhenSubcommandFails(t *testing.T) {
	mr := miniredis.RunT(t)

	_, a, err := runApp(t, mr, "", "buckets", "lookup", "missing")
	if err == nil {
		t.Fatalf("lookup of uncached bucket should fail")
	}
	if a.be != nil || a.store != nil {
		t.Fatalf("backend left open after failed subcommand")
	}

	if _, a, err = runApp(t, mr, "", "clear"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if a.be != nil {
		t.Fatalf("backend left open after successful subcommand")
	}
	if err := a.teardown(context.Background()); err != nil {
		t.Fatalf("second teardown: %v", err)
	}
}
