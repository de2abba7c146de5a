package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gorilla/css/scanner"
	"github.com/sirupsen/logrus"
)

// url(...) 재작성용 패턴 (탐색은 토큰 스캐너, 치환은 정규식)
var cssURLPattern = regexp.MustCompile(`url\(\s*['"]?([^'")]+?)['"]?\s*\)`)

// resolveCSSReferences: 이미 내려받은 스타일시트의 url(...) 참조를 처리합니다.
//  1. 토큰 스캔으로 참조 URL 수집, 맵에 없는 것은 추가로 다운로드해 맵 확장
//  2. 시트 자신의 디렉토리 기준 상대 경로로 재작성 (내용이 실제로 바뀐 경우에만 저장)
//
// data: URI는 항상 그대로 두고, 해석 불가능한 참조도 원문 유지.
// 반환값은 중첩 리소스 다운로드 실패 개수입니다.
func resolveCSSReferences(ctx context.Context, f *fetcher, cssRel string, cssURL *url.URL, outputRoot, assetDir string, urlMap map[string]string, log *logrus.Logger) (int, error) {
	full := filepath.Join(outputRoot, filepath.FromSlash(cssRel))
	data, err := os.ReadFile(full)
	if err != nil {
		return 0, fmt.Errorf("스타일시트 읽기 실패: %w", err)
	}
	css := string(data)

	failed := 0
	for _, ref := range scanCSSURLs(css, log) {
		abs, err := resolveRef(cssURL, ref)
		if err != nil {
			log.WithFields(logrus.Fields{"css": cssRel, "ref": ref}).Warnf("CSS 참조 무시: %v", err)
			continue
		}
		if _, ok := urlMap[abs.String()]; ok {
			continue
		}
		out := f.downloadAsset(ctx, abs, outputRoot, assetDir)
		if !out.ok() {
			failed++
			log.WithFields(logrus.Fields{"css": cssRel, "url": out.URL}).Warnf("중첩 리소스 실패: %s", out.Err)
			continue
		}
		urlMap[out.URL] = out.LocalPath
	}

	rewritten := rewriteCSSText(css, cssRel, cssURL, urlMap)
	if rewritten != css {
		if err := os.WriteFile(full, []byte(rewritten), 0644); err != nil {
			return failed, fmt.Errorf("스타일시트 저장 실패: %w", err)
		}
	}
	return failed, nil
}

// scanCSSURLs: TokenURI 토큰에서 url(...) 내부 값을 추출합니다.
// 깨진 항목은 경고 후 건너뛰고, data: 등 무시 대상 스키마는 제외합니다.
func scanCSSURLs(css string, log *logrus.Logger) []string {
	sc := scanner.New(css)
	var refs []string
	for {
		tok := sc.Next()
		if tok.Type == scanner.TokenEOF || tok.Type == scanner.TokenError {
			if tok.Type == scanner.TokenError {
				log.Warnf("CSS 토큰 오류, 이후 스캔 중단: %s", tok.Value)
			}
			break
		}
		if tok.Type != scanner.TokenURI {
			continue
		}
		ref, ok := unwrapCSSURL(tok.Value)
		if !ok {
			log.Warnf("잘못된 url() 항목 건너뜀: %s", tok.Value)
			continue
		}
		if shouldIgnoreLink(ref) {
			continue
		}
		refs = append(refs, ref)
	}
	return refs
}

// unwrapCSSURL: "url('x')" 형태의 토큰에서 x만 꺼냅니다.
func unwrapCSSURL(token string) (string, bool) {
	v := strings.TrimSpace(token)
	if len(v) < len("url()") || !strings.HasPrefix(strings.ToLower(v), "url(") || !strings.HasSuffix(v, ")") {
		return "", false
	}
	v = v[len("url(") : len(v)-1]
	v = strings.TrimSpace(v)
	v = strings.Trim(v, `"'`)
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	return v, true
}

// rewriteCSSText: 맵에 있는 참조를 시트 디렉토리 기준 상대 경로로 바꿉니다.
// 맵에 없는 참조와 data: URI는 원문 그대로.
func rewriteCSSText(css, cssRel string, cssURL *url.URL, urlMap map[string]string) string {
	cssDir := path.Dir(cssRel)
	return cssURLPattern.ReplaceAllStringFunc(css, func(match string) string {
		parts := cssURLPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		ref := strings.TrimSpace(parts[1])
		if shouldIgnoreLink(ref) {
			return match
		}
		abs, err := resolveRef(cssURL, ref)
		if err != nil {
			return match
		}
		local, ok := urlMap[abs.String()]
		if !ok {
			return match
		}
		rel, err := filepath.Rel(filepath.FromSlash(cssDir), filepath.FromSlash(local))
		if err != nil {
			return match
		}
		return fmt.Sprintf("url('%s')", filepath.ToSlash(rel))
	})
}
