package main

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// errPathTraversal: 정제된 경로가 출력 루트를 벗어났을 때 (절대 우회 불가)
var errPathTraversal = errors.New("출력 폴더 밖으로 벗어나는 경로")

// 일반적인 파일시스템에서 사용할 수 없는 문자들 → 언더스코어 치환
var illegalPathChars = strings.NewReplacer(
	":", "_", "?", "_", "#", "_", "<", "_",
	">", "_", "\\", "_", "|", "_", "*", "_", `"`, "_",
)

// resolveRef: 상대/절대 참조 문자열을 기준 URL에 대한 절대 URL로 변환합니다.
// 파싱 불가능한 참조는 오류로 보고만 하고, 호출 측은 다음 참조를 계속 처리합니다.
func resolveRef(base *url.URL, ref string) (*url.URL, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.New("빈 참조 문자열")
	}
	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("참조 파싱 실패 %q: %w", ref, err)
	}
	return base.ResolveReference(u), nil
}

// shouldIgnoreLink: 수집 대상이 아닌 스키마(data, mailto 등)를 필터링합니다.
func shouldIgnoreLink(link string) bool {
	link = strings.TrimSpace(strings.ToLower(link))
	if link == "" {
		return true
	}
	if strings.HasPrefix(link, "data:") ||
		strings.HasPrefix(link, "#") ||
		strings.HasPrefix(link, "about:") ||
		strings.HasPrefix(link, "javascript:") ||
		strings.HasPrefix(link, "mailto:") ||
		strings.HasPrefix(link, "tel:") ||
		strings.HasPrefix(link, "sms:") ||
		strings.HasPrefix(link, "blob:") {
		return true
	}
	return false
}

// sanitizeAssetPath: 절대 URL을 출력 루트 기준의 안전한 상대 경로로 변환합니다.
// 스킴/호스트를 버리고 path 컴포넌트만 취해 assetDir 하위에 배치하며,
// 최종 절대 경로가 출력 루트 내부인지 반드시 검증합니다.
func sanitizeAssetPath(u *url.URL, outputRoot, assetDir string) (string, error) {
	p := strings.TrimPrefix(u.Path, "/")
	p = illegalPathChars.Replace(p)
	if p == "" {
		p = "index.html"
	}
	rel := filepath.Join(assetDir, filepath.FromSlash(p))

	absRoot, err := filepath.Abs(outputRoot)
	if err != nil {
		return "", err
	}
	absTarget, err := filepath.Abs(filepath.Join(outputRoot, rel))
	if err != nil {
		return "", err
	}
	if absTarget != absRoot && !strings.HasPrefix(absTarget, absRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", errPathTraversal, u.String())
	}
	return filepath.ToSlash(rel), nil
}

// sanitizeHost: 호스트명을 출력 폴더 이름에 쓸 수 있는 형태로 정제합니다.
func sanitizeHost(host string) string {
	return illegalPathChars.Replace(host)
}
