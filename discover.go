package main

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

// assetRule: 리소스 참조를 담을 수 있는 (선택자, 속성) 조합 하나
type assetRule struct {
	Selector string
	Attr     string
	IsSrcset bool // 콤마로 구분된 다중 값 목록 여부
	IsMedia  bool // 다운로드 실패 시 placeholder 이미지로 대체할 속성 여부
}

// assetCatalogue: 탐색/재작성이 공유하는 고정 카탈로그
var assetCatalogue = []assetRule{
	{Selector: `link[rel="stylesheet"]`, Attr: "href"},
	{Selector: `link[rel~="icon"]`, Attr: "href"},
	{Selector: `link[rel="apple-touch-icon"]`, Attr: "href"},
	{Selector: `script[src]`, Attr: "src"},
	{Selector: `img[src]`, Attr: "src", IsMedia: true},
	{Selector: `img[srcset]`, Attr: "srcset", IsSrcset: true},
	{Selector: `source[src]`, Attr: "src", IsMedia: true},
	{Selector: `source[srcset]`, Attr: "srcset", IsSrcset: true},
	{Selector: `video[src]`, Attr: "src", IsMedia: true},
	{Selector: `video[poster]`, Attr: "poster", IsMedia: true},
	{Selector: `audio[src]`, Attr: "src", IsMedia: true},
	{Selector: `embed[src]`, Attr: "src"},
	{Selector: `object[data]`, Attr: "data"},
	{Selector: `input[type="image"]`, Attr: "src", IsMedia: true},
	{Selector: `meta[property="og:image"]`, Attr: "content"},
	{Selector: `meta[name="twitter:image"]`, Attr: "content"},
}

// srcsetEntry: srcset 항목 하나. 첫 토큰만 URL이고 나머지 힌트는 그대로 보존합니다.
type srcsetEntry struct {
	URL        string
	Descriptor string // 너비/밀도 힌트 ("2x", "640w" 등), 없을 수 있음
}

// parseSrcset: 콤마로 항목을 나누고 각 항목을 공백으로 분리합니다.
func parseSrcset(val string) []srcsetEntry {
	var entries []srcsetEntry
	for _, part := range strings.Split(val, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Fields(part)
		e := srcsetEntry{URL: fields[0]}
		if len(fields) > 1 {
			e.Descriptor = strings.Join(fields[1:], " ")
		}
		entries = append(entries, e)
	}
	return entries
}

// joinSrcset: parseSrcset의 역변환
func joinSrcset(entries []srcsetEntry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Descriptor != "" {
			parts = append(parts, e.URL+" "+e.Descriptor)
		} else {
			parts = append(parts, e.URL)
		}
	}
	return strings.Join(parts, ", ")
}

// discoverAssets: 카탈로그의 모든 조합을 훑어 절대 URL의 중복 제거 집합을 만듭니다.
// 발견 순서를 유지하며, 파싱 불가능한 참조는 경고만 남기고 계속 진행합니다.
func discoverAssets(doc *goquery.Document, base *url.URL, log *logrus.Logger) []*url.URL {
	seen := make(map[string]struct{})
	var found []*url.URL

	add := func(ref string) {
		if shouldIgnoreLink(ref) {
			return
		}
		abs, err := resolveRef(base, ref)
		if err != nil {
			log.WithField("ref", ref).Warnf("참조 무시: %v", err)
			return
		}
		key := abs.String()
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		found = append(found, abs)
	}

	for _, rule := range assetCatalogue {
		doc.Find(rule.Selector).Each(func(_ int, s *goquery.Selection) {
			val, ok := s.Attr(rule.Attr)
			if !ok || strings.TrimSpace(val) == "" {
				return
			}
			if rule.IsSrcset {
				for _, e := range parseSrcset(val) {
					add(e.URL)
				}
				return
			}
			add(val)
		})
	}
	return found
}
