package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/robalobadob/dq1password/internal/catalog"
	"github.com/robalobadob/dq1password/internal/config"
	"github.com/robalobadob/dq1password/internal/password"
)

const heroPassword = "ざぼちずどぢぎきつたうずせれえむるのぢえ"

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	if err := catalog.Init(""); err != nil {
		t.Fatalf("catalog: %v", err)
	}
	var out bytes.Buffer
	err := run(config.Config{}, args[0], args[1:], strings.NewReader(stdin), &out)
	return out.String(), err
}

func TestDecodeCommand(t *testing.T) {
	out, err := runCLI(t, "", "decode", heroPassword)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, want := range []string{`"xp": 1234`, `"gold": 5678`, `"weapon": "はがねのつるぎ"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %s:\n%s", want, out)
		}
	}

	if _, err := runCLI(t, "", "decode", "ざぼちずどぢぎきつたうずせれえむるのぢお"); !errors.Is(err, password.ErrChecksumMismatch) {
		t.Fatalf("decode bad checksum = %v", err)
	}
}

func TestEncodeCommand(t *testing.T) {
	state := `{"name":"しどー","xp":1234,"gold":5678,"weapon":5,"armor":5,"shield":2,"herbs":6,"keys":6,
	"items":[1,2,3,4,5,6,7,8],"equippedDragonScale":true,"equippedFightersRing":true,
	"gotDeathNecklace":true,"defeatedGolem":true,"defeatedDragon":true,"salt":5}`

	out, err := runCLI(t, state, "encode", "-")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if strings.TrimSpace(out) != heroPassword {
		t.Fatalf("encode = %q", out)
	}

	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte(state), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err = runCLI(t, "", "encode", path)
	if err != nil || strings.TrimSpace(out) != heroPassword {
		t.Fatalf("encode file = %q, %v", out, err)
	}

	if _, err := runCLI(t, `{"hp": 3}`, "encode", "-"); err == nil {
		t.Fatal("unknown field should fail")
	}
}

func TestGenerateAndCountCommands(t *testing.T) {
	pattern := "ざぼちずどぢぎきつたうずせれえむるの??"
	out, err := runCLI(t, "", "generate", pattern, "3")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	lines := strings.Fields(out)
	if len(lines) != 3 || lines[0] != "ざぼちずどぢぎきつたうずせれえむるのあぢ" {
		t.Fatalf("generate = %v", lines)
	}

	out, err = runCLI(t, "", "count", pattern)
	if err != nil || strings.TrimSpace(out) != "14" {
		t.Fatalf("count = %q, %v", out, err)
	}
	out, err = runCLI(t, "", "count", "????????????????????")
	if err != nil || !strings.HasPrefix(out, ">=") {
		t.Fatalf("saturated count = %q, %v", out, err)
	}
}

type failingWriter struct{ left int }

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.left == 0 {
		return 0, errors.New("disk full")
	}
	w.left--
	return len(p), nil
}

func TestGenerateStreamsAndStops(t *testing.T) {
	if err := catalog.Init(""); err != nil {
		t.Fatalf("catalog: %v", err)
	}
	w := &failingWriter{left: 2}
	err := run(config.Config{}, "generate", []string{"????????????????????", "100"}, strings.NewReader(""), w)
	if err == nil || err.Error() != "disk full" {
		t.Fatalf("generate into failing writer = %v", err)
	}

	out, err := runCLI(t, "", "generate", "????????????????????", "1")
	if err != nil || len(strings.Fields(out)) != 1 {
		t.Fatalf("generate limit 1 = %q, %v", out, err)
	}
	if _, err := runCLI(t, "", "generate", "????????????????????", "0"); !errors.Is(err, password.ErrInvalidPattern) {
		t.Fatalf("generate limit 0 = %v", err)
	}
}

func TestUsage(t *testing.T) {
	cases := [][]string{
		{"decode"},
		{"generate"},
		{"count", "a", "b"},
		{"frobnicate"},
	}
	for _, args := range cases {
		if _, err := runCLI(t, "", args...); !errors.Is(err, errUsage) {
			t.Fatalf("%v: err = %v, want usage", args, err)
		}
	}
	if _, err := runCLI(t, "", "generate", "????????????????????", "ten"); err == nil {
		t.Fatal("non-numeric limit should fail")
	}
}
