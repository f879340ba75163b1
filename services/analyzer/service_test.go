package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"asnatlas/lib/scrapers/bgphe"
	"asnatlas/lib/scrapers/website"

	"github.com/stretchr/testify/require"
)

type fakeRouting struct {
	// ASNs whose fetch should fail entirely
	failing map[string]bool
	// ASN -> company website to hand back
	websites map[string]string
	calls    []string
}

func (f *fakeRouting) GetRoutingInfo(ctx context.Context, asn string) (bgphe.RoutingInfo, error) {
	f.calls = append(f.calls, asn)
	if f.failing[asn] {
		return bgphe.RoutingInfo{ASN: asn}, fmt.Errorf("connection refused")
	}
	prefixes := 42
	return bgphe.RoutingInfo{
		ASN:                   asn,
		CompanyWebsite:        f.websites[asn],
		PrefixesOriginatedAll: &prefixes,
	}, nil
}

type fakeCompany struct {
	failing bool
	calls   []string
}

func (f *fakeCompany) GetCompanyInfo(ctx context.Context, url string) (*website.CompanyInfo, error) {
	f.calls = append(f.calls, url)
	if f.failing {
		return nil, fmt.Errorf("unreachable")
	}
	return &website.CompanyInfo{WebsiteURL: url, Title: "Acme"}, nil
}

func newTestService(t *testing.T, routing RoutingScraper, company CompanyScraper, opts Options) (*Service, *Tracker, string) {
	dir := t.TempDir()
	tracker := NewTracker(filepath.Join(dir, "processed_asns.json"))
	opts.OutputDir = filepath.Join(dir, "output")
	if opts.Delay == 0 {
		opts.Delay = time.Millisecond
	}
	return NewService(routing, company, tracker, opts), tracker, dir
}

func TestRunHappyPath(t *testing.T) {
	routing := &fakeRouting{websites: map[string]string{"65001": "http://acme.net"}}
	company := &fakeCompany{}
	service, tracker, dir := newTestService(t, routing, company, Options{})

	result, err := service.Run(context.Background(), []string{"AS65001", "1.1"}, "")
	require.NoError(t, err)

	require.Equal(t, 2, result.Requested)
	require.Equal(t, 0, result.Invalid)
	require.Equal(t, 2, result.Succeeded)
	require.Equal(t, 0, result.Failed)
	require.Equal(t, []string{"65001", "65537"}, routing.calls)
	require.Equal(t, []string{"http://acme.net"}, company.calls)

	require.True(t, tracker.Contains("65001"))
	require.True(t, tracker.Contains("65537"))

	// report exists under the output dir and parses back
	require.Equal(t, filepath.Join(dir, "output"), filepath.Dir(result.OutputPath))
	raw, err := os.ReadFile(result.OutputPath)
	require.NoError(t, err)
	var records []Record
	require.NoError(t, json.Unmarshal(raw, &records))
	require.Len(t, records, 2)
	require.Equal(t, "65001", records[0].ASN)
	require.NotNil(t, records[0].BGPInfo)
	require.NotNil(t, records[0].CompanyInfo)
	require.Equal(t, "Acme", records[0].CompanyInfo.Title)
	require.Nil(t, records[1].CompanyInfo)
	require.False(t, records[0].ScrapedAt.IsZero())
}

func TestRunInvalidASNsAreSkipped(t *testing.T) {
	routing := &fakeRouting{}
	service, _, _ := newTestService(t, routing, &fakeCompany{}, Options{})

	result, err := service.Run(context.Background(), []string{"banana", "4200000000", "65001"}, "")
	require.NoError(t, err)
	require.Equal(t, 2, result.Invalid)
	require.Equal(t, 1, result.Succeeded)
	require.Equal(t, []string{"65001"}, routing.calls)
}

func TestRunNothingValid(t *testing.T) {
	routing := &fakeRouting{}
	service, _, _ := newTestService(t, routing, &fakeCompany{}, Options{})

	result, err := service.Run(context.Background(), []string{"banana"}, "")
	require.NoError(t, err)
	require.Empty(t, routing.calls)
	require.Empty(t, result.Records)
	require.Empty(t, result.OutputPath)
}

func TestRunAllAlreadyProcessedWritesNoReport(t *testing.T) {
	routing := &fakeRouting{}
	service, tracker, dir := newTestService(t, routing, &fakeCompany{}, Options{})
	tracker.MarkProcessed("65001")

	result, err := service.Run(context.Background(), []string{"65001"}, "")
	require.NoError(t, err)
	require.Equal(t, 1, result.Skipped)
	require.Equal(t, 0, result.Succeeded)
	require.Empty(t, routing.calls)
	require.Empty(t, result.OutputPath)

	_, statErr := os.Stat(filepath.Join(dir, "output"))
	require.True(t, os.IsNotExist(statErr))
}

func TestRunForceBypassesFilter(t *testing.T) {
	routing := &fakeRouting{}
	service, tracker, _ := newTestService(t, routing, &fakeCompany{}, Options{Force: true})
	tracker.MarkProcessed("65001")

	result, err := service.Run(context.Background(), []string{"65001"}, "")
	require.NoError(t, err)
	require.Equal(t, 0, result.Skipped)
	require.Equal(t, 1, result.Succeeded)
	require.Equal(t, []string{"65001"}, routing.calls)
	// force does not clear tracking state
	require.True(t, tracker.Contains("65001"))
}

func TestRunItemFailureEmitsErrorRecord(t *testing.T) {
	routing := &fakeRouting{failing: map[string]bool{"65001": true}}
	service, tracker, _ := newTestService(t, routing, &fakeCompany{}, Options{})

	result, err := service.Run(context.Background(), []string{"65001", "65002"}, "")
	require.NoError(t, err)
	require.Equal(t, 1, result.Failed)
	require.Equal(t, 1, result.Succeeded)

	require.Len(t, result.Records, 2)
	require.Equal(t, "65001", result.Records[0].ASN)
	require.Contains(t, result.Records[0].Error, "connection refused")
	require.Nil(t, result.Records[0].BGPInfo)

	// a failed item is retried on the next run
	require.False(t, tracker.Contains("65001"))
	require.True(t, tracker.Contains("65002"))
}

func TestRunCompanyLookupFailureStillMarksProcessed(t *testing.T) {
	routing := &fakeRouting{websites: map[string]string{"65001": "http://down.example.net"}}
	service, tracker, _ := newTestService(t, routing, &fakeCompany{failing: true}, Options{})

	result, err := service.Run(context.Background(), []string{"65001"}, "")
	require.NoError(t, err)
	require.Equal(t, 1, result.Succeeded)
	require.Equal(t, 0, result.Failed)
	require.Nil(t, result.Records[0].CompanyInfo)
	require.NotNil(t, result.Records[0].BGPInfo)
	require.True(t, tracker.Contains("65001"))
}

func TestRunPeriodicCheckpoint(t *testing.T) {
	routing := &fakeRouting{}
	service, tracker, _ := newTestService(t, routing, &fakeCompany{}, Options{CheckpointEvery: 2})

	batch := []string{"65001", "65002", "65003"}
	_, err := service.Run(context.Background(), batch, "")
	require.NoError(t, err)

	reloaded := NewTracker(tracker.Stats().TrackingFile)
	require.Equal(t, 3, reloaded.Stats().TotalProcessed)
}

func TestRunDelaysAfterFinalItem(t *testing.T) {
	routing := &fakeRouting{}
	service, _, _ := newTestService(t, routing, &fakeCompany{}, Options{Delay: 50 * time.Millisecond})

	start := time.Now()
	result, err := service.Run(context.Background(), []string{"65001"}, "")
	require.NoError(t, err)
	require.False(t, result.Interrupted)
	require.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestRunCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	routing := &fakeRouting{}
	service, _, _ := newTestService(t, routing, &fakeCompany{}, Options{})

	result, err := service.Run(ctx, []string{"65001"}, "")
	require.NoError(t, err)
	require.True(t, result.Interrupted)
	require.Empty(t, routing.calls)
	require.Empty(t, result.Records)
}

func TestRunExplicitOutputPath(t *testing.T) {
	routing := &fakeRouting{}
	service, _, dir := newTestService(t, routing, &fakeCompany{}, Options{})
	out := filepath.Join(dir, "custom", "report.json")

	result, err := service.Run(context.Background(), []string{"65001"}, out)
	require.NoError(t, err)
	require.Equal(t, out, result.OutputPath)
	_, statErr := os.Stat(out)
	require.NoError(t, statErr)
}
