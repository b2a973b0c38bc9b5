package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kapu/copichat-persona-go/internal/constants"
	"github.com/kapu/copichat-persona-go/internal/service/cache"
	"github.com/kapu/copichat-persona-go/pkg/errors"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Infobox image labels, canonical English first, then the Japanese label used
// by ja.wikipedia templates. Ordered: the first non-blank capture wins.
var infoboxImagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^\s*\|\s*image\s*=\s*([^\n|{}]+)`),
	regexp.MustCompile(`(?m)^\s*\|\s*画像\s*=\s*([^\n|{}]+)`),
}

// File namespace prefixes stripped from captured filenames.
var filePrefixes = []string{"File:", "ファイル:", "画像:", "Image:"}

const cacheKeyInfoboxImage = "persona:portrait:%s"

// ImageResolver extracts the subject's canonical portrait. The general
// page-image API often returns a decorative or unrelated image; the infobox
// image is the portrait the article's editors chose, so it takes priority.
type ImageResolver struct {
	requester      Requester
	cache          *cache.CacheService
	logger         *zap.Logger
	thumbnailWidth int
}

func NewImageResolver(requester Requester, cacheSvc *cache.CacheService, thumbnailWidth int, logger *zap.Logger) *ImageResolver {
	if thumbnailWidth <= 0 {
		thumbnailWidth = constants.WikiConfig.ThumbnailWidth
	}
	return &ImageResolver{
		requester:      requester,
		cache:          cacheSvc,
		logger:         logger,
		thumbnailWidth: thumbnailWidth,
	}
}

// ResolveInfoboxImage returns a sized thumbnail URL for the page's infobox
// portrait, or "" when nothing could be resolved. Best-effort by contract:
// it never returns an error, callers fall back to the page-image hint.
//
// Two extraction paths run concurrently and are joined here: the wikitext
// infobox parameter (authoritative) and a rendered-HTML infobox scrape
// (fallback). The wikitext result wins whenever both produce a URL.
func (r *ImageResolver) ResolveInfoboxImage(ctx context.Context, resolvedTitle string) string {
	if strings.TrimSpace(resolvedTitle) == "" {
		return ""
	}

	cacheKey := fmt.Sprintf(cacheKeyInfoboxImage, resolvedTitle)
	if r.cache != nil {
		var cached string
		if found, err := r.cache.Get(ctx, cacheKey, &cached); err == nil && found && cached != "" {
			r.logger.Debug("Portrait cache hit", zap.String("title", resolvedTitle))
			return cached
		}
	}

	var wikitextURL, htmlURL string
	var wikitextErr, htmlErr error

	p := pool.New().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		wikitextURL, wikitextErr = r.resolveFromWikitext(ctx, resolvedTitle)
		return nil
	})
	p.Go(func(ctx context.Context) error {
		htmlURL, htmlErr = r.resolveFromHTML(ctx, resolvedTitle)
		return nil
	})
	_ = p.Wait()

	resolved := wikitextURL
	if resolved == "" {
		resolved = htmlURL
	}

	if resolved == "" && (wikitextErr != nil || htmlErr != nil) {
		cause := wikitextErr
		if cause == nil {
			cause = htmlErr
		}
		resErr := errors.NewImageResolutionError("人物画像の解決に失敗しました", resolvedTitle, cause)
		r.logger.Debug("Portrait resolution failed", zap.Error(resErr))
	}

	if resolved != "" && r.cache != nil {
		if err := r.cache.Set(ctx, cacheKey, resolved, constants.CacheTTL.InfoboxImage); err != nil {
			r.logger.Warn("Failed to cache portrait", zap.String("title", resolvedTitle), zap.Error(err))
		}
	}

	r.logger.Debug("Portrait resolution finished",
		zap.String("title", resolvedTitle),
		zap.Bool("from_wikitext", wikitextURL != ""),
		zap.Bool("from_html", wikitextURL == "" && htmlURL != ""),
	)

	return resolved
}

func (r *ImageResolver) resolveFromWikitext(ctx context.Context, title string) (string, error) {
	wikitext, err := r.fetchLeadWikitext(ctx, title)
	if err != nil {
		return "", err
	}

	filename := ExtractInfoboxFilename(wikitext)
	if filename == "" {
		return "", nil
	}

	thumbURL, err := r.fileThumbnail(ctx, filename)
	if err != nil {
		return "", fmt.Errorf("file info lookup for %q: %w", filename, err)
	}

	return thumbURL, nil
}

// ExtractInfoboxFilename scans raw wikitext for the first infobox image
// parameter and returns the cleaned filename, or "" when no pattern matches.
func ExtractInfoboxFilename(wikitext string) string {
	for _, pattern := range infoboxImagePatterns {
		match := pattern.FindStringSubmatch(wikitext)
		if match == nil {
			continue
		}

		filename := match[1]
		if idx := strings.Index(filename, "<!--"); idx != -1 {
			filename = filename[:idx]
		}
		filename = strings.Trim(filename, "[] \t")
		for _, prefix := range filePrefixes {
			filename = strings.TrimPrefix(filename, prefix)
		}
		filename = strings.TrimSpace(filename)

		if filename != "" {
			return filename
		}
	}
	return ""
}

type revisionsResponse struct {
	Query struct {
		Pages []struct {
			Revisions []struct {
				Slots struct {
					Main struct {
						Content string `json:"content"`
					} `json:"main"`
				} `json:"slots"`
			} `json:"revisions"`
		} `json:"pages"`
	} `json:"query"`
}

func (r *ImageResolver) fetchLeadWikitext(ctx context.Context, title string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("titles", title)
	params.Set("prop", "revisions")
	params.Set("rvprop", "content")
	params.Set("rvslots", "main")
	params.Set("rvsection", "0")
	params.Set("redirects", "1")

	body, err := r.requester.DoRequest(ctx, params)
	if err != nil {
		return "", err
	}

	var resp revisionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("revisions decode failed: %w", err)
	}

	if len(resp.Query.Pages) == 0 || len(resp.Query.Pages[0].Revisions) == 0 {
		return "", fmt.Errorf("no revision content for %q", title)
	}

	return resp.Query.Pages[0].Revisions[0].Slots.Main.Content, nil
}

type imageInfoResponse struct {
	Query struct {
		Pages []struct {
			ImageInfo []struct {
				ThumbURL string `json:"thumburl"`
				URL      string `json:"url"`
			} `json:"imageinfo"`
		} `json:"pages"`
	} `json:"query"`
}

func (r *ImageResolver) fileThumbnail(ctx context.Context, filename string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("titles", "File:"+filename)
	params.Set("prop", "imageinfo")
	params.Set("iiprop", "url")
	params.Set("iiurlwidth", strconv.Itoa(r.thumbnailWidth))

	body, err := r.requester.DoRequest(ctx, params)
	if err != nil {
		return "", err
	}

	var resp imageInfoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("imageinfo decode failed: %w", err)
	}

	if len(resp.Query.Pages) == 0 || len(resp.Query.Pages[0].ImageInfo) == 0 {
		return "", fmt.Errorf("no image info for %q", filename)
	}

	info := resp.Query.Pages[0].ImageInfo[0]
	if info.ThumbURL != "" {
		return info.ThumbURL, nil
	}
	return info.URL, nil
}

type parseResponse struct {
	Parse struct {
		Text string `json:"text"`
	} `json:"parse"`
}

// resolveFromHTML renders the page and pulls the first image out of its
// infobox table. Lower fidelity than the wikitext path (the src is whatever
// size the article renders at) but survives templates the regexes miss.
func (r *ImageResolver) resolveFromHTML(ctx context.Context, title string) (string, error) {
	params := url.Values{}
	params.Set("action", "parse")
	params.Set("page", title)
	params.Set("prop", "text")
	params.Set("redirects", "1")

	body, err := r.requester.DoRequest(ctx, params)
	if err != nil {
		return "", err
	}

	var resp parseResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parse response decode failed: %w", err)
	}
	if resp.Parse.Text == "" {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.Parse.Text))
	if err != nil {
		return "", fmt.Errorf("infobox html parse failed: %w", err)
	}

	src, exists := doc.Find("table.infobox img").First().Attr("src")
	if !exists || src == "" {
		return "", nil
	}

	if strings.HasPrefix(src, "//") {
		src = "https:" + src
	}

	return src, nil
}
