package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-prospecting/internal/entity"
)

const (
	DefaultMaxPages  = 3
	DefaultPageDelay = 2 * time.Second
)

type DiscoveryReport struct {
	Pages      int `json:"pages"`
	Fetched    int `json:"fetched"`
	Survivors  int `json:"survivors"`
	Duplicates int `json:"duplicates"`
}

// NothingNew reports a search that returned results, all of them already processed.
func (r DiscoveryReport) NothingNew() bool {
	return r.Survivors == 0
}

// CandidateDiscovery pagina o diretório até atingir o rendimento mínimo,
// descartando candidatos já presentes no ledger.
type CandidateDiscovery struct {
	Directory DirectorySearcher
	Ledger    Ledger
	Logger    *zap.Logger

	MaxPages    int
	PageDelay   time.Duration
	CallTimeout time.Duration
}

func NewCandidateDiscovery(directory DirectorySearcher, ledger Ledger, logger *zap.Logger) *CandidateDiscovery {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CandidateDiscovery{
		Directory:   directory,
		Ledger:      ledger,
		Logger:      logger,
		MaxPages:    DefaultMaxPages,
		PageDelay:   DefaultPageDelay,
		CallTimeout: 30 * time.Second,
	}
}

// Discover always starts from page 1. Page order and item order are the provider's.
func (d *CandidateDiscovery) Discover(ctx context.Context, tenantID string, criteria entity.SearchCriteria, minYield int) ([]entity.Candidate, DiscoveryReport, error) {
	var (
		report    DiscoveryReport
		survivors []entity.Candidate
		pageToken string
		inRun     = make(map[string]struct{})
	)

	maxPages := d.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	query := criteria.Query()

	for {
		if report.Pages > 0 {
			if err := sleepCtx(ctx, d.PageDelay); err != nil {
				return nil, report, err
			}
		}

		page, err := d.fetchPage(ctx, query, pageToken)
		if err != nil {
			return nil, report, fmt.Errorf("busca no diretório (página %d): %w", report.Pages+1, err)
		}
		report.Pages++
		report.Fetched += len(page.Items)

		for _, item := range page.Items {
			if _, dup := inRun[item.ExternalID]; dup {
				report.Duplicates++
				continue
			}
			seen, err := d.Ledger.HasBeenProcessed(ctx, tenantID, item.ExternalID)
			if err != nil {
				return nil, report, fmt.Errorf("consulta ao ledger (%s): %w", item.ExternalID, err)
			}
			if seen {
				report.Duplicates++
				continue
			}
			inRun[item.ExternalID] = struct{}{}
			survivors = append(survivors, item)
		}
		report.Survivors = len(survivors)

		d.Logger.Debug("página do diretório processada",
			zap.Int("page", report.Pages),
			zap.Int("items", len(page.Items)),
			zap.Int("survivors", report.Survivors),
			zap.Bool("has_next", page.NextPageToken != ""))

		if page.NextPageToken == "" || report.Survivors >= minYield || report.Pages >= maxPages {
			break
		}
		pageToken = page.NextPageToken
	}

	return survivors, report, nil
}

func (d *CandidateDiscovery) fetchPage(ctx context.Context, query, pageToken string) (entity.SearchPage, error) {
	if d.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.CallTimeout)
		defer cancel()
	}
	return d.Directory.Search(ctx, query, pageToken)
}
