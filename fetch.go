package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// fetchTimeout: 개별 리소스 요청 타임아웃
const fetchTimeout = 30 * time.Second

// httpStatusError: 2xx가 아닌 응답
type httpStatusError struct{ Code int }

func (e *httpStatusError) Error() string { return fmt.Sprintf("HTTP 상태 %d", e.Code) }

// fetcher: 30초 타임아웃 클라이언트 + 요청 헤더(무작위 UA, Referer) 담당
type fetcher struct {
	client    *http.Client
	userAgent UAProvider
	referer   string
	log       *logrus.Logger
}

func newFetcher(referer string, ua UAProvider, log *logrus.Logger) *fetcher {
	if ua == nil {
		ua = randomUserAgent
	}
	return &fetcher{
		client:    &http.Client{Timeout: fetchTimeout},
		userAgent: ua,
		referer:   referer,
		log:       log,
	}
}

// fetchBytes: 단일 GET. 2xx면 본문 바이트를, 그 외에는 오류를 반환합니다.
// 오류는 절대 이 경계를 넘어 전파되지 않고 호출 측에서 데이터로 기록됩니다.
func (f *fetcher) fetchBytes(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent())
	req.Header.Set("Accept", "*/*")
	if f.referer != "" {
		req.Header.Set("Referer", f.referer)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &httpStatusError{Code: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

// downloadAsset: 경로 정제 → GET → 파일 기록까지 한 번에 수행합니다.
// 실패는 downloadOutcome.Err에 담기며 작업 전체를 중단시키지 않습니다.
func (f *fetcher) downloadAsset(ctx context.Context, target *url.URL, outputRoot, assetDir string) downloadOutcome {
	rel, err := sanitizeAssetPath(target, outputRoot, assetDir)
	if err != nil {
		return downloadOutcome{URL: target.String(), Err: err.Error()}
	}

	data, err := f.fetchBytes(ctx, target.String())
	if err != nil {
		return downloadOutcome{URL: target.String(), Err: err.Error()}
	}

	full := filepath.Join(outputRoot, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return downloadOutcome{URL: target.String(), Err: err.Error()}
	}
	if err := os.WriteFile(full, data, 0644); err != nil {
		return downloadOutcome{URL: target.String(), Err: err.Error()}
	}

	f.log.WithFields(logrus.Fields{"url": target.String(), "path": rel, "bytes": len(data)}).
		Debug("리소스 저장 완료")
	return downloadOutcome{URL: target.String(), LocalPath: rel, Size: int64(len(data))}
}
