package main

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

const (
	placeholderWidth  = 400
	placeholderHeight = 300
)

// placeholderRef: 다운로드하지 못한 이미지/미디어 대신 넣을 대체 이미지 URL.
// 요소에 선언된 width/height를 따르고, 없으면 400x300.
func placeholderRef(s *goquery.Selection) string {
	w := attrDimension(s, "width", placeholderWidth)
	h := attrDimension(s, "height", placeholderHeight)
	return fmt.Sprintf("https://placehold.co/%dx%d", w, h)
}

func attrDimension(s *goquery.Selection, name string, fallback int) int {
	val, ok := s.Attr(name)
	if !ok {
		return fallback
	}
	val = strings.TrimSuffix(strings.TrimSpace(val), "px")
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// rewriteDocument: 카탈로그의 모든 (선택자, 속성)에 대해 문서를 재작성합니다.
//   - srcset: 각 항목의 URL 토큰만 교체, 힌트는 보존, 맵에 없으면 원문 유지
//   - 단일 값: 맵에 있으면 로컬 경로로 교체, 없으면 이미지/미디어 속성에 한해 placeholder
//   - 그 외 속성의 미해결 URL은 그대로 둡니다
func rewriteDocument(doc *goquery.Document, base *url.URL, urlMap map[string]string, log *logrus.Logger) {
	for _, rule := range assetCatalogue {
		doc.Find(rule.Selector).Each(func(_ int, s *goquery.Selection) {
			val, ok := s.Attr(rule.Attr)
			if !ok || strings.TrimSpace(val) == "" {
				return
			}
			if rule.IsSrcset {
				s.SetAttr(rule.Attr, rewriteSrcset(val, base, urlMap))
				return
			}
			if shouldIgnoreLink(val) {
				return
			}
			abs, err := resolveRef(base, val)
			if err != nil {
				log.WithField("ref", val).Warnf("재작성 건너뜀: %v", err)
				return
			}
			if local, mapped := urlMap[abs.String()]; mapped {
				s.SetAttr(rule.Attr, local)
				return
			}
			if rule.IsMedia {
				s.SetAttr(rule.Attr, placeholderRef(s))
			}
		})
	}
}

// rewriteSrcset: 항목별로 URL 토큰만 로컬 경로로 바꾸고 다시 조립합니다.
func rewriteSrcset(val string, base *url.URL, urlMap map[string]string) string {
	entries := parseSrcset(val)
	for i, e := range entries {
		if shouldIgnoreLink(e.URL) {
			continue
		}
		abs, err := resolveRef(base, e.URL)
		if err != nil {
			continue
		}
		if local, ok := urlMap[abs.String()]; ok {
			entries[i].URL = local
		}
	}
	return joinSrcset(entries)
}
