package inspect

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/netip"
	"testing"

	"github.com/Resinat/nodeuri/internal/geoip"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fixedCountry string

func (c fixedCountry) Lookup(netip.Addr) string { return string(c) }
func (c fixedCountry) Close() error             { return nil }

func TestRun_PreservesOrderAndDecodes(t *testing.T) {
	vmess := "vmess://" + base64.StdEncoding.EncodeToString([]byte(`{"ps":"VM","add":"vm.example.net","port":8443}`))
	uris := []string{
		"trojan://pw@a.example.com:443#Trojan%20A",
		vmess,
		"garbage",
		"vless://id@b.example.org:8080?type=ws#B",
	}

	report, err := Run(context.Background(), uris, Options{Concurrency: 2, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Total != 4 || len(report.Entries) != 4 {
		t.Fatalf("unexpected sizes: total=%d entries=%d", report.Total, len(report.Entries))
	}
	if report.Undecodable != 1 {
		t.Fatalf("undecodable: got %d, want 1", report.Undecodable)
	}

	want := []struct {
		name, host, port, provider string
	}{
		{"Trojan A", "a.example.com", "443", "example.com"},
		{"VM", "vm.example.net", "8443", "example.net"},
		{"", "", "", ""},
		{"B", "b.example.org", "8080", "example.org"},
	}
	for i, w := range want {
		e := report.Entries[i]
		if e.Index != i || e.URI != uris[i] {
			t.Fatalf("entry %d out of order: %+v", i, e)
		}
		if e.Name != w.name || e.Host != w.host || e.Port != w.port || e.Provider != w.provider {
			t.Fatalf("entry %d: got %+v, want %+v", i, e, w)
		}
	}
	if report.Entries[2].Hash != "" {
		t.Fatalf("undecodable entry should carry no hash, got %q", report.Entries[2].Hash)
	}
	if _, err := uuid.Parse(report.ID); err != nil {
		t.Fatalf("report ID %q is not a uuid: %v", report.ID, err)
	}
}

func TestRun_DuplicatesCountedWithoutDedupe(t *testing.T) {
	uris := []string{
		"trojan://pw@node.example.com:443#First",
		"trojan://other@NODE.example.com:443#Second",
	}
	report, err := Run(context.Background(), uris, Options{Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	if report.Duplicates != 1 {
		t.Fatalf("duplicates: got %d, want 1", report.Duplicates)
	}
	if len(report.Entries) != 2 {
		t.Fatalf("entries should be kept without dedupe, got %d", len(report.Entries))
	}
	if report.Entries[0].Hash != report.Entries[1].Hash {
		t.Fatal("same endpoint should hash the same regardless of host case and name")
	}
}

func TestRun_DedupeFirstWins(t *testing.T) {
	var uris []string
	for i := 0; i < 50; i++ {
		uris = append(uris, fmt.Sprintf("trojan://pw@dup.example.com:443#Copy%d", i))
	}
	uris = append(uris, "ss://YWVzLTEyOC1nY206cGFzcw==@other.example.net:8388#Other")

	report, err := Run(context.Background(), uris, Options{Concurrency: 16, Dedupe: true, Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Entries) != 2 {
		t.Fatalf("expected 2 entries after dedupe, got %d", len(report.Entries))
	}
	if report.Entries[0].Name != "Copy0" {
		t.Fatalf("first occurrence should win, got %q", report.Entries[0].Name)
	}
	if report.Duplicates != 49 {
		t.Fatalf("duplicates: got %d, want 49", report.Duplicates)
	}

	providers := map[string]int{}
	for _, p := range report.Providers {
		providers[p.Domain] = p.Count
	}
	if providers["example.com"] != 1 || providers["example.net"] != 1 {
		t.Fatalf("provider counts should reflect deduped entries, got %v", report.Providers)
	}
}

func TestRun_ProvidersSorted(t *testing.T) {
	uris := []string{
		"trojan://pw@a.zeta.com:1#x",
		"trojan://pw@b.alpha.com:1#x",
		"trojan://pw@c.zeta.com:1#x",
		"trojan://pw@d.beta.com:1#x",
		"trojan://pw@1.2.3.4:1#x",
	}
	report, err := Run(context.Background(), uris, Options{Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	want := []ProviderCount{
		{"zeta.com", 2},
		{"1.2.3.4", 1},
		{"alpha.com", 1},
		{"beta.com", 1},
	}
	if len(report.Providers) != len(want) {
		t.Fatalf("providers: got %v, want %v", report.Providers, want)
	}
	for i := range want {
		if report.Providers[i] != want[i] {
			t.Fatalf("providers[%d]: got %v, want %v", i, report.Providers[i], want[i])
		}
	}
}

func TestRun_DisplayPrefixLeavesURIUntouched(t *testing.T) {
	uri := "trojan://pw@a.example.com:443#HK%2001"
	report, err := Run(context.Background(), []string{uri, "garbage"}, Options{DisplayPrefix: "MySub", Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	e := report.Entries[0]
	if e.Name != "HK 01" || e.Label != "MySub - HK 01" {
		t.Fatalf("unexpected name/label: %q / %q", e.Name, e.Label)
	}
	if e.URI != uri {
		t.Fatalf("uri rewritten: %q", e.URI)
	}
	if got := report.Entries[1].Label; got != "MySub" {
		t.Fatalf("nameless entry label: got %q, want MySub", got)
	}
}

func TestRun_GeoIPAnnotation(t *testing.T) {
	svc, err := geoip.NewService(fixedCountry("de"), 16)
	if err != nil {
		t.Fatal(err)
	}
	defer svc.Close()

	uris := []string{
		"trojan://pw@203.0.113.7:443#ip",
		"trojan://pw@name.example.com:443#name",
	}
	report, err := Run(context.Background(), uris, Options{GeoIP: svc, Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	if got := report.Entries[0].Country; got != "de" {
		t.Fatalf("ip host country: got %q, want de", got)
	}
	if got := report.Entries[1].Country; got != "" {
		t.Fatalf("named host should not be annotated, got %q", got)
	}
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := Run(ctx, []string{"trojan://pw@a.example.com:443"}, Options{Logger: quietLogger()})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if report != nil {
		t.Fatalf("expected nil report, got %+v", report)
	}
}

func TestRun_EmptyInput(t *testing.T) {
	report, err := Run(context.Background(), nil, Options{Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	if report.Total != 0 || len(report.Entries) != 0 || len(report.Providers) != 0 {
		t.Fatalf("unexpected report for empty input: %+v", report)
	}
}

func TestRun_LogsSummary(t *testing.T) {
	logger, hook := test.NewNullLogger()
	_, err := Run(context.Background(), []string{"trojan://pw@a.example.com:443", "nope"}, Options{Logger: logger})
	if err != nil {
		t.Fatal(err)
	}

	var found bool
	for _, entry := range hook.AllEntries() {
		if entry.Message == "[inspect] run finished" {
			found = true
			if entry.Data["total"] != 2 || entry.Data["undecodable"] != 1 {
				t.Fatalf("unexpected summary fields: %v", entry.Data)
			}
		}
	}
	if !found {
		t.Fatal("expected run summary log entry")
	}
}
