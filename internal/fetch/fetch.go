// Package fetch renders job posting pages in headless Chrome and extracts the
// posting title and description text.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const pageLoadTimeout = 30 * time.Second

// ErrNoDescription is returned when a page renders without usable text.
var ErrNoDescription = errors.New("no job description found on page")

// descriptionSelectors are tried in order; the first non-empty match wins.
var descriptionSelectors = []string{
	`.jobs-description-content__text`,
	`.show-more-less-html__markup`,
	`.jobs-box__html-content`,
	`#job-details`,
	`.description__text`,
	`#content .job-post`,
	`.posting-page .section-wrapper`,
	`[data-automation-id="jobPostingDescription"]`,
	`main`,
}

var showMoreSelectors = []string{
	`button[aria-label*="Show more"]`,
	`button[aria-label*="see more"]`,
	`.show-more-less-html__button`,
}

// Posting is the text content of a job page.
type Posting struct {
	URL   string
	Title string
	Text  string
}

// Fetcher loads job pages through a headless browser.
type Fetcher struct {
	logger  *zap.Logger
	timeout time.Duration
}

// New returns a Fetcher. A nil logger discards browser diagnostics.
func New(logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{logger: logger, timeout: pageLoadTimeout}
}

// Fetch renders rawURL and returns its title and description text.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Posting, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	ctx, cancel := f.browserContext(ctx)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, f.timeout)
	defer cancelTimeout()

	var title, text string
	err := chromedp.Run(ctx,
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(2*time.Second),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// Expanding collapsed descriptions is best effort.
			for _, sel := range showMoreSelectors {
				_ = chromedp.Evaluate(clickScript(sel), nil).Do(ctx)
			}
			return nil
		}),
		chromedp.Title(&title),
		chromedp.Evaluate(extractScript(descriptionSelectors), &text),
	)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", rawURL, err)
	}

	posting := &Posting{
		URL:   rawURL,
		Title: CleanTitle(title),
		Text:  CollapseWhitespace(text),
	}
	if posting.Text == "" {
		return nil, fmt.Errorf("%s: %w", rawURL, ErrNoDescription)
	}

	f.logger.Debug("fetched job posting",
		zap.String("url", rawURL),
		zap.String("title", posting.Title),
		zap.Int("chars", len(posting.Text)))
	return posting, nil
}

// browserContext creates a new browser context with appropriate options
func (f *Fetcher) browserContext(parent context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(parent, opts...)
	sugar := f.logger.Sugar()
	ctx, cancel2 := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, v ...interface{}) {
		msg := fmt.Sprintf(format, v...)
		if strings.Contains(msg, "could not unmarshal event") {
			return
		}
		sugar.Debug(msg)
	}))

	return ctx, func() {
		cancel2()
		cancel()
	}
}

func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid url %q: scheme must be http or https", rawURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid url %q: missing host", rawURL)
	}
	return nil
}

// CleanTitle drops the site suffix common in page titles, e.g.
// "Backend Engineer - Acme | Greenhouse" becomes "Backend Engineer".
func CleanTitle(title string) string {
	title = strings.TrimSpace(title)
	for _, sep := range []string{" | ", " - ", " – "} {
		if i := strings.Index(title, sep); i > 0 {
			title = title[:i]
		}
	}
	return strings.TrimSpace(title)
}

// CollapseWhitespace joins lines of page text, keeping one blank line between
// paragraphs.
func CollapseWhitespace(text string) string {
	var paras []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			paras = append(paras, strings.Join(cur, " "))
			cur = nil
		}
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return strings.Join(paras, "\n\n")
}

func clickScript(selector string) string {
	return fmt.Sprintf(`(() => { const el = document.querySelector(%q); if (el) el.click(); return true; })()`, selector)
}

func extractScript(selectors []string) string {
	quoted := make([]string, len(selectors))
	for i, s := range selectors {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf(`(() => {
		for (const sel of [%s]) {
			const el = document.querySelector(sel);
			if (el && el.innerText && el.innerText.trim()) return el.innerText;
		}
		return document.body ? document.body.innerText : "";
	})()`, strings.Join(quoted, ", "))
}
