package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
)

// defaultAssetDir: 리소스가 저장될 하위 폴더명
const defaultAssetDir = "assets"

// errInvalidInput: 파싱 불가능한 입력 URL (I/O 전에 즉시 실패)
var errInvalidInput = errors.New("유효하지 않은 URL")

// cloneJob: 한 번의 미러링 작업. 생성 이후 필드는 변경되지 않으며,
// URL→로컬 경로 맵은 run이 소유하고 각 단계에 참조로만 넘깁니다.
type cloneJob struct {
	rawURL    string
	baseURL   *url.URL
	outputDir string
	assetDir  string

	concurrency int
	batchDelay  time.Duration
	userAgent   UAProvider
	log         *logrus.Logger
}

// cloneOptions: 작업 생성 시 주입 가능한 설정
type cloneOptions struct {
	Concurrency int
	BatchDelay  time.Duration
	UserAgent   UAProvider
	Log         *logrus.Logger
}

// cloneManifest: 작업 종료 시 반환되는 요약 (도구 호출 결과의 JSON 형태)
type cloneManifest struct {
	Status          string `json:"status"`
	Message         string `json:"message"`
	Dir             string `json:"dir"`
	AssetsCount     int    `json:"assetsCount"`
	FailedDownloads int    `json:"failedDownloads"`
}

// newCloneJob: 입력 URL을 검증하고 <정제된 호스트>_<epoch ms> 출력 폴더를 정합니다.
func newCloneJob(rawURL, outBase string, opts cloneOptions) (*cloneJob, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, fmt.Errorf("%w: 빈 문자열", errInvalidInput)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidInput, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: http/https 절대 URL이 필요합니다 (%s)", errInvalidInput, rawURL)
	}

	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	if opts.BatchDelay <= 0 {
		opts.BatchDelay = defaultBatchDelay
	}
	if opts.UserAgent == nil {
		opts.UserAgent = randomUserAgent
	}
	if opts.Log == nil {
		opts.Log = logrus.New()
	}

	dirName := fmt.Sprintf("%s_%d", sanitizeHost(u.Host), time.Now().UnixMilli())
	return &cloneJob{
		rawURL:      rawURL,
		baseURL:     u,
		outputDir:   filepath.Join(outBase, dirName),
		assetDir:    defaultAssetDir,
		concurrency: opts.Concurrency,
		batchDelay:  opts.BatchDelay,
		userAgent:   opts.UserAgent,
		log:         opts.Log,
	}, nil
}

// run: 미러링 단계를 엄격한 순서로 수행합니다.
// 디렉토리 준비 → 루트 문서 요청/파싱 → 리소스 탐색 → 배치 다운로드 →
// CSS 내부 참조 해석(맵 확장) → 문서 재작성 → index.html 저장 → 매니페스트.
// 다운로드 단계가 완전히 끝난 뒤에만 재작성이 시작되므로 맵은 단계 간 경합이 없습니다.
func (j *cloneJob) run(ctx context.Context) (*cloneManifest, error) {
	if err := os.MkdirAll(filepath.Join(j.outputDir, j.assetDir), 0755); err != nil {
		return nil, fmt.Errorf("출력 폴더 생성 실패: %w", err)
	}

	origin := j.baseURL.Scheme + "://" + j.baseURL.Host + "/"
	f := newFetcher(origin, j.userAgent, j.log)

	pageBytes, err := f.fetchBytes(ctx, j.baseURL.String())
	if err != nil {
		return nil, fmt.Errorf("페이지 요청 실패: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(pageBytes))
	if err != nil {
		return nil, fmt.Errorf("HTML 파싱 실패: %w", err)
	}

	targets := discoverAssets(doc, j.baseURL, j.log)
	j.log.WithField("count", len(targets)).Info("리소스 탐색 완료")

	bd := newBatchDownloader(f, j.concurrency, j.batchDelay, j.log)
	outcomes := bd.downloadAll(ctx, targets, j.outputDir, j.assetDir)

	urlMap := make(map[string]string, len(outcomes))
	failed := 0
	var totalBytes int64
	for _, out := range outcomes {
		if out.ok() {
			urlMap[out.URL] = out.LocalPath
			totalBytes += out.Size
			continue
		}
		failed++
		j.log.WithField("url", out.URL).Warnf("다운로드 실패: %s", out.Err)
	}

	// 내려받은 스타일시트 내부의 url(...) 참조 처리 (.css 판정만 대소문자 무시)
	for _, out := range outcomes {
		if !out.ok() || !isCSSURL(out.URL) {
			continue
		}
		cssURL, err := url.Parse(out.URL)
		if err != nil {
			continue
		}
		nestedFailed, err := resolveCSSReferences(ctx, f, out.LocalPath, cssURL, j.outputDir, j.assetDir, urlMap, j.log)
		failed += nestedFailed
		if err != nil {
			j.log.WithField("css", out.LocalPath).Warnf("CSS 처리 실패: %v", err)
		}
	}

	rewriteDocument(doc, j.baseURL, urlMap, j.log)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc.Get(0)); err != nil {
		return nil, fmt.Errorf("HTML 직렬화 실패: %w", err)
	}
	indexPath := filepath.Join(j.outputDir, "index.html")
	if err := os.WriteFile(indexPath, buf.Bytes(), 0644); err != nil {
		return nil, fmt.Errorf("index.html 저장 실패: %w", err)
	}

	fmt.Printf("Total %d files, saved %s bytes\n", len(urlMap)+1, formatComma(totalBytes+int64(buf.Len())))

	return &cloneManifest{
		Status:          "success",
		Message:         fmt.Sprintf("%s 미러링 완료 (리소스 %d개, 실패 %d개)", j.rawURL, len(urlMap), failed),
		Dir:             j.outputDir,
		AssetsCount:     len(urlMap),
		FailedDownloads: failed,
	}, nil
}

// isCSSURL: URL 경로가 .css로 끝나는지 (이 단계에서만 대소문자를 무시합니다)
func isCSSURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return strings.EqualFold(path.Ext(u.Path), ".css")
}
