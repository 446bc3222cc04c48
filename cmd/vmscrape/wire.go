package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/John-Robertt/vmscrape/internal/app/scrape"
	"github.com/John-Robertt/vmscrape/internal/classify"
	"github.com/John-Robertt/vmscrape/internal/config"
	"github.com/John-Robertt/vmscrape/internal/infra/httpx"
	"github.com/John-Robertt/vmscrape/internal/infra/snapshot"
	"github.com/John-Robertt/vmscrape/internal/site"
)

// buildService 按配置组装 resolve → assemble → store 链路。
func buildService(cfg config.Config, fs afero.Fs, log logrus.FieldLogger) (*scrape.Service, error) {
	client, err := httpx.NewClient(httpx.Options{
		Timeout:   cfg.HTTP.Timeout,
		ProxyURL:  cfg.HTTP.ProxyURL,
		UserAgent: cfg.HTTP.UserAgent,
	})
	if err != nil {
		return nil, err
	}
	fetcher := httpx.Fetcher{Client: client}

	resolver := site.Resolver{
		BaseURL:   cfg.Site.BaseURL,
		Selectors: cfg.Site.SearchSelectors,
		Fetcher:   fetcher,
	}
	assembler := site.Assembler{
		Fetcher: fetcher,
		Selectors: site.PageSelectors{
			Title:             cfg.Site.TitleSelectors,
			SummaryContainers: cfg.Site.SummaryContainers,
			Screenshots:       cfg.Site.ScreenshotSelector,
			MaxScreenshots:    cfg.Site.MaxScreenshots,
			MinSummaryLen:     cfg.Site.MinSummaryLen,
		},
		Rules: classify.Rules{
			TrustedHost: cfg.Site.TrustedHost,
			Blocked:     cfg.Site.BlockedPatterns,
		},
	}
	store := snapshot.NewFileStore(fs, cfg.Store.Path)

	return scrape.New(resolver, assembler, store, log), nil
}
