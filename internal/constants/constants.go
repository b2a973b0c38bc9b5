package constants

import "time"

var CacheTTL = struct {
	Evidence        time.Duration
	InfoboxImage    time.Duration
	NegativeLookup  time.Duration
	GeneratedPersona time.Duration
}{
	Evidence:         30 * time.Minute, // 검색+페이지 상세 결과
	InfoboxImage:     6 * time.Hour,    // 초상화 URL은 거의 변하지 않음
	NegativeLookup:   5 * time.Minute,  // 존재하지 않는 문서의 재조회 억제
	GeneratedPersona: 24 * time.Hour,   // 동일 이름 재요청 시 생성 비용 절약
}

var RetryConfig = struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Jitter      time.Duration
}{
	MaxAttempts: 3,
	BaseDelay:   500 * time.Millisecond,
	Jitter:      250 * time.Millisecond,
}

var CircuitBreakerConfig = struct {
	FailureThreshold    int
	ResetTimeout        time.Duration
	RateLimitTimeout    time.Duration
	HealthCheckInterval time.Duration
	HealthCheckTimeout  time.Duration
}{
	FailureThreshold:    3,
	ResetTimeout:        30 * time.Second,
	RateLimitTimeout:    1 * time.Hour,
	HealthCheckInterval: 10 * time.Minute,
	HealthCheckTimeout:  10 * time.Second,
}

var WikiConfig = struct {
	BaseURL        string
	Timeout        time.Duration
	CategoryLimit  int
	ThumbnailWidth int
	UserAgent      string
}{
	BaseURL:        "https://ja.wikipedia.org/w/api.php",
	Timeout:        15 * time.Second,
	CategoryLimit:  500, // 카테고리 수가 특필성 판정 재료이므로 상한을 크게 잡음
	ThumbnailWidth: 256,
	UserAgent:      "copichat-persona/1.0 (persona synthesis backend)",
}

// NotabilityConfig is the strict policy from the shipped web route. Both
// thresholds are overridable through config.
var NotabilityConfig = struct {
	MinSummaryChars int
	MinCategories   int
}{
	MinSummaryChars: 150,
	MinCategories:   3,
}

var PipelineLimits = struct {
	MinNameLength    int
	MaxNameLength    int
	MaxSummaryPrompt int // 프롬프트에 넣는 요약의 최대 길이 (runes)
	StageTimeout     time.Duration
}{
	MinNameLength:    2,
	MaxNameLength:    100,
	MaxSummaryPrompt: 1000,
	StageTimeout:     60 * time.Second,
}

var ServerConfig = struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
}{
	ReadTimeout:     15 * time.Second,
	WriteTimeout:    120 * time.Second, // 생성 호출 포함
	ShutdownTimeout: 10 * time.Second,
	MaxBodyBytes:    16 * 1024,
}
