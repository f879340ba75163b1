// Package analyzer drives resumable batch runs: validate the requested
// ASNs, skip the ones a previous run already handled, scrape the rest
// sequentially and persist the results.
package analyzer

import (
	"context"
	"log/slog"
	"time"

	"asnatlas/lib/asn"
	"asnatlas/lib/scrapers/bgphe"
	"asnatlas/lib/scrapers/website"
)

type RoutingScraper interface {
	GetRoutingInfo(ctx context.Context, asn string) (bgphe.RoutingInfo, error)
}

type CompanyScraper interface {
	GetCompanyInfo(ctx context.Context, url string) (*website.CompanyInfo, error)
}

type Options struct {
	// directory for auto-generated report filenames
	OutputDir string
	// pause after each item, a courtesy to the remote site; zero means
	// no pause
	Delay time.Duration
	// tracker flush interval in items
	CheckpointEvery int
	// process ASNs even when the tracker says they are done
	Force bool
}

type Service struct {
	routing RoutingScraper
	company CompanyScraper
	tracker *Tracker
	opts    Options
}

func NewService(routing RoutingScraper, company CompanyScraper, tracker *Tracker, opts Options) *Service {
	if opts.OutputDir == "" {
		opts.OutputDir = "data/output"
	}
	if opts.CheckpointEvery <= 0 {
		opts.CheckpointEvery = 5
	}
	return &Service{
		routing: routing,
		company: company,
		tracker: tracker,
		opts:    opts,
	}
}

type RunResult struct {
	Requested   int
	Invalid     int
	Skipped     int
	Succeeded   int
	Failed      int
	OutputPath  string
	Interrupted bool
	Records     []Record
}

// Run processes the requested ASN tokens in order. A single item's failure
// never aborts the batch; only failure to write the final report does.
// When every valid ASN was already processed, no report file is produced.
func (s *Service) Run(ctx context.Context, requested []string, outputPath string) (RunResult, error) {
	result := RunResult{Requested: len(requested)}

	var valid []string
	for _, token := range requested {
		normalized, suggestion := asn.ValidateAndSuggest(token)
		if suggestion != "" {
			slog.Warn("skipping invalid ASN", "input", token, "reason", suggestion)
			result.Invalid++
			continue
		}
		valid = append(valid, normalized)
	}
	if len(valid) == 0 {
		slog.Warn("no valid ASNs to process")
		return result, nil
	}

	pending := valid
	if !s.opts.Force {
		var alreadyDone []string
		pending, alreadyDone = s.tracker.Filter(valid)
		result.Skipped = len(alreadyDone)
		if len(alreadyDone) > 0 {
			slog.Info("skipping already-processed ASNs", "count", len(alreadyDone))
		}
		if len(pending) == 0 {
			slog.Info("everything in this batch was already processed")
			return result, nil
		}
	}

	if outputPath == "" {
		outputPath = BatchFilename(s.opts.OutputDir)
	}
	slog.Info(
		"starting batch",
		"total", len(pending),
		"force", s.opts.Force,
		"output", outputPath,
	)

	for i, a := range pending {
		if ctx.Err() != nil {
			result.Interrupted = true
			break
		}

		slog.Info("processing", "asn", a, "progress", i+1, "total", len(pending))
		record, processed := s.processOne(ctx, a)
		if ctx.Err() != nil {
			// the in-flight item was abandoned, don't record it
			result.Interrupted = true
			break
		}

		result.Records = append(result.Records, record)
		if processed {
			s.tracker.MarkProcessed(a)
			result.Succeeded++
		} else {
			result.Failed++
			slog.Error("failed to process", "asn", a, "err", record.Error)
		}

		if (i+1)%s.opts.CheckpointEvery == 0 {
			if err := s.tracker.Checkpoint(); err != nil {
				slog.Warn("tracker checkpoint failed", "err", err)
			}
		}

		select {
		case <-time.After(s.opts.Delay):
		case <-ctx.Done():
			// cancellation during the trailing pause is not an
			// interruption, every item already ran
			if i < len(pending)-1 {
				result.Interrupted = true
			}
		}
		if result.Interrupted {
			break
		}
	}

	if err := s.tracker.Checkpoint(); err != nil {
		slog.Warn("tracker checkpoint failed", "err", err)
	}

	if len(result.Records) > 0 {
		if err := WriteReport(outputPath, result.Records); err != nil {
			return result, err
		}
		result.OutputPath = outputPath
		slog.Info("report written", "path", outputPath, "records", len(result.Records))
	}

	return result, nil
}

// processOne assembles the record for a single ASN. The second return value
// reports whether the ASN counts as processed for tracking purposes: routing
// info obtained, regardless of how the optional company lookup went.
func (s *Service) processOne(ctx context.Context, a string) (Record, bool) {
	info, err := s.routing.GetRoutingInfo(ctx, a)
	if err != nil {
		if ctx.Err() != nil {
			return Record{}, false
		}
		return errorRecord(a, err), false
	}

	var company *website.CompanyInfo
	if info.CompanyWebsite != "" {
		company, err = s.company.GetCompanyInfo(ctx, info.CompanyWebsite)
		if err != nil {
			slog.Warn(
				"company website lookup failed",
				"asn", a,
				"url", info.CompanyWebsite,
				"err", err,
			)
		}
	}

	return Record{
		ASN:         a,
		BGPInfo:     &info,
		CompanyInfo: company,
		ScrapedAt:   time.Now(),
	}, true
}
