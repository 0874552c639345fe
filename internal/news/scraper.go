package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"sector-news-agents/internal/interfaces"
	"sector-news-agents/internal/logger"
	"sector-news-agents/internal/types"
)

// Scraper collects sector news from Indian financial news sites as a
// last-resort source when neither a news file nor the retrieval API is
// available.
type Scraper struct {
	sources []ScrapeSource
	region  string
	timeout time.Duration
}

var _ interfaces.NewsSource = (*Scraper)(nil)

// ScrapeSource defines a news source configuration
type ScrapeSource struct {
	Name       string
	BaseURL    string
	SearchPath string // e.g. "/news/tags/{query}.html"
	Selectors  ArticleSelectors
	RateLimit  time.Duration
}

// ArticleSelectors defines CSS selectors for extracting article data
type ArticleSelectors struct {
	ArticleContainer string
	Title            string
	URL              string
	Content          string
}

// NewScraper creates a scraper over the default sources.
func NewScraper(region string, timeout time.Duration) *Scraper {
	return &Scraper{
		sources: defaultSources(),
		region:  region,
		timeout: timeout,
	}
}

func defaultSources() []ScrapeSource {
	return []ScrapeSource{
		{
			Name:       "MoneyControl",
			BaseURL:    "https://www.moneycontrol.com",
			SearchPath: "/news/tags/{query}.html",
			Selectors: ArticleSelectors{
				ArticleContainer: "li.clearfix",
				Title:            "h2 a, h3 a",
				URL:              "h2 a, h3 a",
				Content:          "p",
			},
			RateLimit: 2 * time.Second,
		},
		{
			Name:       "EconomicTimes",
			BaseURL:    "https://economictimes.indiatimes.com",
			SearchPath: "/topic/{query}",
			Selectors: ArticleSelectors{
				ArticleContainer: "div.story-box",
				Title:            "a",
				URL:              "a",
				Content:          "p",
			},
			RateLimit: 2 * time.Second,
		},
		{
			Name:       "BusinessStandard",
			BaseURL:    "https://www.business-standard.com",
			SearchPath: "/search?q={query}",
			Selectors: ArticleSelectors{
				ArticleContainer: "div.listing-txt",
				Title:            "a.Hdng",
				URL:              "a.Hdng",
				Content:          "p",
			},
			RateLimit: 2 * time.Second,
		},
	}
}

// FetchNews scrapes up to limit stories matching the query across all
// sources. Failed sources are skipped; the batch continues.
func (s *Scraper) FetchNews(ctx context.Context, query string, limit int) ([]types.NewsItem, error) {
	logger.Info(ctx, "Starting news scraping", "query", query, "sources", len(s.sources))

	perSource := limit / len(s.sources)
	if perSource < 1 {
		perSource = 1
	}

	all := []types.NewsItem{}
	for _, source := range s.sources {
		items, err := s.scrapeSource(ctx, source, query, perSource)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to scrape source", err, "source", source.Name, "query", query)
			continue
		}
		all = append(all, items...)

		time.Sleep(source.RateLimit)
	}

	logger.Info(ctx, "News scraping completed", "query", query, "items", len(all))
	return all, nil
}

func (s *Scraper) scrapeSource(ctx context.Context, source ScrapeSource, query string, limit int) ([]types.NewsItem, error) {
	items := []types.NewsItem{}
	articleURLs := []string{}
	now := time.Now().UTC().Format(time.RFC3339)

	c := colly.NewCollector(
		colly.AllowedDomains(hostOf(source.BaseURL)),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})

	c.OnHTML(source.Selectors.ArticleContainer, func(e *colly.HTMLElement) {
		if len(items) >= limit {
			return
		}

		title := strings.TrimSpace(e.ChildText(source.Selectors.Title))
		if title == "" {
			return
		}

		articleURL := e.ChildAttr(source.Selectors.URL, "href")
		if articleURL != "" && !strings.HasPrefix(articleURL, "http") {
			articleURL = source.BaseURL + articleURL
		}

		summary := strings.TrimSpace(e.ChildText(source.Selectors.Content))

		items = append(items, types.NewsItem{
			ID:       fmt.Sprintf("N_%s_%d", strings.ToLower(source.Name), len(items)+1),
			Headline: title,
			Summary:  summary,
			Datetime: now,
			Source:   source.Name,
			Region:   s.region,
		})
		articleURLs = append(articleURLs, articleURL)
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Scraping error", err, "source", source.Name, "url", r.Request.URL.String())
	})

	searchURL := source.BaseURL + strings.ReplaceAll(source.SearchPath, "{query}", url.PathEscape(strings.ToLower(query)))
	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", searchURL, err)
	}
	c.Wait()

	items = s.enrichSummaries(ctx, items, articleURLs, source)

	for i := range items {
		if err := validateItem(&items[i]); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// enrichSummaries fetches article pages for stories whose listing snippet was
// too thin to score.
func (s *Scraper) enrichSummaries(ctx context.Context, items []types.NewsItem, articleURLs []string, source ScrapeSource) []types.NewsItem {
	enriched := make([]types.NewsItem, len(items))
	copy(enriched, items)

	c := colly.NewCollector(colly.AllowedDomains(hostOf(source.BaseURL)))
	c.SetRequestTimeout(s.timeout)

	var body string
	c.OnHTML("article, div.article-body, div.content-body, div.story-content", func(e *colly.HTMLElement) {
		paragraphs := []string{}
		e.DOM.Find("p").Each(func(_ int, sel *goquery.Selection) {
			text := strings.TrimSpace(sel.Text())
			if len(text) > 20 {
				paragraphs = append(paragraphs, text)
			}
		})
		body = strings.Join(paragraphs, "\n\n")
	})

	for i := range enriched {
		if len(enriched[i].Summary) >= 100 || i >= len(articleURLs) || articleURLs[i] == "" {
			continue
		}
		body = ""
		if err := c.Visit(articleURLs[i]); err != nil {
			logger.Warn(ctx, "Failed to enrich article summary", "source", source.Name, "error", err)
			continue
		}
		if body != "" {
			enriched[i].Summary = body
		}

		time.Sleep(500 * time.Millisecond)
	}

	return enriched
}

func hostOf(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
