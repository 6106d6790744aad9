package cmd

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/payments"
	"github.com/google/go-cmp/cmp"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	content := EnvKafkaTopic + "=from-file\n" + EnvPostgresDSN + "=postgres://file\n"
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvKafkaTopic, "")
	os.Unsetenv(EnvKafkaTopic)
	t.Setenv(EnvPostgresDSN, "postgres://already-set")

	if err := LoadDotEnv(file, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv() unexpected error: %v", err)
	}
	if got := os.Getenv(EnvKafkaTopic); got != "from-file" {
		t.Errorf("%s = %q, want the value from the file", EnvKafkaTopic, got)
	}
	if got := os.Getenv(EnvPostgresDSN); got != "postgres://already-set" {
		t.Errorf("%s = %q, want the environment to win over the file", EnvPostgresDSN, got)
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, "a:9092, b:9092,,")
	if got := envOr("", EnvKafkaBrokers); got != "a:9092, b:9092,," {
		t.Errorf("envOr() = %q, want the environment value", got)
	}
	if got := envOr("c:9092", EnvKafkaBrokers); got != "c:9092" {
		t.Errorf("envOr() = %q, want the flag value", got)
	}
	if diff := cmp.Diff([]string{"a:9092", "b:9092"}, splitList(envOr("", EnvKafkaBrokers))); diff != "" {
		t.Errorf("splitList() mismatch (-want +got):\n%s", diff)
	}
	if got := splitList(""); got != nil {
		t.Errorf("splitList(\"\") = %q, want nil", got)
	}
}

func TestRegister(t *testing.T) {
	var out bytes.Buffer
	commander := subcommands.NewCommander(flag.NewFlagSet("txp", flag.ContinueOnError), "txp")
	commander.Output = &out
	Register(commander)

	var names []string
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		names = append(names, c.Name())
	})
	if diff := cmp.Diff([]string{"process", "audit", "convert", "topic"}, names); diff != "" {
		t.Errorf("registered commands mismatch (-want +got):\n%s", diff)
	}

	// Every registered command is known to the shell completion.
	completion := Completion()
	for _, name := range names {
		if _, ok := completion.Sub[name]; !ok {
			t.Errorf("command %q has no completion", name)
		}
	}
}

func TestCompletion_Predictions(t *testing.T) {
	completion := Completion()
	got := completion.Sub["process"].Flags["format"].Predict("")
	if diff := cmp.Diff([]string{formatCSV, formatJSON, formatMarkdown}, got); diff != "" {
		t.Errorf("process -format predictions mismatch (-want +got):\n%s", diff)
	}
	topics := completion.Sub["topic"].Args.Predict("")
	if !strings.Contains(strings.Join(topics, " "), "disputes") {
		t.Errorf("topic predictions = %v, want the disputes topic", topics)
	}
}

func TestAudit(t *testing.T) {
	var out bytes.Buffer
	err := audit(zerolog.Nop(), payments.DecodeCSV(strings.NewReader(transactions)), &out)
	if err != nil {
		t.Fatalf("audit() unexpected error: %v", err)
	}
	if got, want := out.String(), "2 accounts consistent with 4 applied records\n"; got != want {
		t.Errorf("audit() = %q, want %q", got, want)
	}
}
