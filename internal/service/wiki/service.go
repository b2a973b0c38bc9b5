package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/kapu/copichat-persona-go/internal/constants"
	"github.com/kapu/copichat-persona-go/internal/domain"
	"github.com/kapu/copichat-persona-go/internal/service/cache"
	"go.uber.org/zap"
)

// Rejection reasons shown to users, from the original web app.
const (
	ReasonNoArticle    = "Wikipedia記事が見つかりませんでした"
	ReasonLookupFailed = "Wikipedia情報の取得に失敗しました"
)

const cacheKeyEvidence = "persona:evidence:%s"

// Service is the Evidence Fetcher: title search plus page-detail retrieval
// against the encyclopedia API.
type Service struct {
	requester      Requester
	cache          *cache.CacheService
	logger         *zap.Logger
	thumbnailWidth int
}

func NewService(requester Requester, cacheSvc *cache.CacheService, thumbnailWidth int, logger *zap.Logger) *Service {
	if thumbnailWidth <= 0 {
		thumbnailWidth = constants.WikiConfig.ThumbnailWidth
	}
	return &Service{
		requester:      requester,
		cache:          cacheSvc,
		logger:         logger,
		thumbnailWidth: thumbnailWidth,
	}
}

type searchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

type pageResponse struct {
	Query struct {
		Pages []struct {
			Title     string `json:"title"`
			Missing   bool   `json:"missing"`
			Extract   string `json:"extract"`
			Thumbnail *struct {
				Source string `json:"source"`
			} `json:"thumbnail"`
			Categories []struct {
				Title string `json:"title"`
			} `json:"categories"`
		} `json:"pages"`
	} `json:"query"`
}

// FetchEvidence resolves a name to an EvidenceRecord. Absence of a page is
// not an error: it is Exists=false with a reason. An unreachable search
// endpoint also degrades to Exists=false ("lookup failed"); the caller
// cannot tell the two apart at this layer.
func (s *Service) FetchEvidence(ctx context.Context, name string) *domain.EvidenceRecord {
	cacheKey := fmt.Sprintf(cacheKeyEvidence, name)
	if s.cache != nil {
		var cached domain.EvidenceRecord
		if found, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && found {
			s.logger.Debug("Evidence cache hit", zap.String("name", name))
			return &cached
		}
	}

	record := s.fetchEvidence(ctx, name)

	if s.cache != nil {
		ttl := constants.CacheTTL.Evidence
		if !record.Exists {
			ttl = constants.CacheTTL.NegativeLookup
		}
		if err := s.cache.Set(ctx, cacheKey, record, ttl); err != nil {
			s.logger.Warn("Failed to cache evidence", zap.String("name", name), zap.Error(err))
		}
	}

	return record
}

func (s *Service) fetchEvidence(ctx context.Context, name string) *domain.EvidenceRecord {
	title, err := s.search(ctx, name)
	if err != nil {
		s.logger.Warn("Wiki search failed", zap.String("name", name), zap.Error(err))
		return &domain.EvidenceRecord{Exists: false, Reason: ReasonLookupFailed}
	}
	if title == "" {
		s.logger.Info("No wiki page found", zap.String("name", name))
		return &domain.EvidenceRecord{Exists: false, Reason: ReasonNoArticle}
	}

	record := &domain.EvidenceRecord{
		Exists:        true,
		ResolvedTitle: title,
	}

	// The search step already proved existence: a failing detail fetch only
	// costs us summary and categories, never the whole record.
	extract, categories, thumbnail, err := s.pageDetail(ctx, title)
	if err != nil {
		s.logger.Warn("Page detail fetch failed, degrading to empty evidence",
			zap.String("title", title),
			zap.Error(err),
		)
		record.Categories = []string{}
		return record
	}

	record.Summary = extract
	record.Categories = categories
	record.ThumbnailURL = thumbnail

	s.logger.Debug("Evidence fetched",
		zap.String("title", title),
		zap.Int("summary_chars", len([]rune(extract))),
		zap.Int("categories", len(categories)),
		zap.Bool("has_thumbnail", thumbnail != ""),
	)

	return record
}

func (s *Service) search(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", "5")

	body, err := s.requester.DoRequest(ctx, params)
	if err != nil {
		return "", err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("search decode failed: %w", err)
	}

	if len(resp.Query.Search) == 0 {
		return "", nil
	}

	return resp.Query.Search[0].Title, nil
}

func (s *Service) pageDetail(ctx context.Context, title string) (extract string, categories []string, thumbnail string, err error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("titles", title)
	params.Set("prop", "extracts|pageimages|categories")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("piprop", "thumbnail")
	params.Set("pithumbsize", strconv.Itoa(s.thumbnailWidth))
	params.Set("cllimit", strconv.Itoa(constants.WikiConfig.CategoryLimit))

	body, err := s.requester.DoRequest(ctx, params)
	if err != nil {
		return "", nil, "", err
	}

	var resp pageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", nil, "", fmt.Errorf("page decode failed: %w", err)
	}

	if len(resp.Query.Pages) == 0 || resp.Query.Pages[0].Missing {
		return "", nil, "", fmt.Errorf("page %q missing from detail response", title)
	}

	page := resp.Query.Pages[0]

	categories = make([]string, 0, len(page.Categories))
	for _, cat := range page.Categories {
		categories = append(categories, cat.Title)
	}

	if page.Thumbnail != nil {
		thumbnail = page.Thumbnail.Source
	}

	return page.Extract, categories, thumbnail, nil
}
