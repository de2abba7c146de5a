package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanCSSURLs(t *testing.T) {
	css := `
body { background: url("img/bg.png"); }
.a { background: url(icon.svg); }
.b { background: url('data:image/png;base64,AA=='); }
@font-face { src: url(font.woff2) format('woff2'); }
`
	got := scanCSSURLs(css, testLogger())
	assert.Equal(t, []string{"img/bg.png", "icon.svg", "font.woff2"}, got)
}

func TestUnwrapCSSURL(t *testing.T) {
	tests := []struct {
		token string
		want  string
		ok    bool
	}{
		{`url("a.png")`, "a.png", true},
		{`url('a.png')`, "a.png", true},
		{`url(a.png)`, "a.png", true},
		{`url(  a.png  )`, "a.png", true},
		{`URL(a.png)`, "a.png", true},
		{`url()`, "", false},
		{`notaurl(a.png)`, "", false},
	}
	for _, tt := range tests {
		got, ok := unwrapCSSURL(tt.token)
		assert.Equal(t, tt.ok, ok, "token=%q", tt.token)
		if tt.ok {
			assert.Equal(t, tt.want, got, "token=%q", tt.token)
		}
	}
}

func TestRewriteCSSText(t *testing.T) {
	cssURL, err := url.Parse("https://example.com/static/css/style.css")
	require.NoError(t, err)
	urlMap := map[string]string{
		"https://example.com/static/img/bg.png": "assets/static/img/bg.png",
	}
	css := `body { background: url("/static/img/bg.png"); }
.x { background: url("missing.png"); }
.y { background: url(data:image/gif;base64,AA==); }`

	got := rewriteCSSText(css, "assets/static/css/style.css", cssURL, urlMap)

	assert.Contains(t, got, "url('../img/bg.png')", "매핑된 참조는 시트 기준 상대 경로")
	assert.Contains(t, got, `url("missing.png")`, "미해결 참조는 원문 유지")
	assert.Contains(t, got, "data:image/gif;base64,AA==", "data: URI는 절대 건드리지 않음")
}

func TestRewriteCSSTextIdempotent(t *testing.T) {
	cssURL, err := url.Parse("https://example.com/static/css/style.css")
	require.NoError(t, err)
	urlMap := map[string]string{
		"https://example.com/static/img/bg.png": "assets/static/img/bg.png",
	}
	css := `body { background: url("/static/img/bg.png"); }`

	once := rewriteCSSText(css, "assets/static/css/style.css", cssURL, urlMap)
	twice := rewriteCSSText(once, "assets/static/css/style.css", cssURL, urlMap)
	assert.Equal(t, once, twice)
}

func TestResolveCSSReferences(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/img/bg.png" {
			w.Write([]byte("png-bytes"))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	root := t.TempDir()
	cssRel := "assets/css/style.css"
	cssFull := filepath.Join(root, filepath.FromSlash(cssRel))
	require.NoError(t, os.MkdirAll(filepath.Dir(cssFull), 0755))
	cssBody := `body { background: url("/img/bg.png"); }
.x { background: url("/img/missing.png"); }`
	require.NoError(t, os.WriteFile(cssFull, []byte(cssBody), 0644))

	cssURL, err := url.Parse(srv.URL + "/css/style.css")
	require.NoError(t, err)

	f := newFetcher("", pinnedUA, testLogger())
	urlMap := make(map[string]string)
	failed, err := resolveCSSReferences(context.Background(), f, cssRel, cssURL, root, "assets", urlMap, testLogger())
	require.NoError(t, err)

	assert.Equal(t, 1, failed, "404 참조 하나는 실패로 집계")
	assert.Equal(t, "assets/img/bg.png", urlMap[srv.URL+"/img/bg.png"])
	assert.FileExists(t, filepath.Join(root, "assets", "img", "bg.png"))

	rewritten, err := os.ReadFile(cssFull)
	require.NoError(t, err)
	assert.Contains(t, string(rewritten), "url('../img/bg.png')")
	assert.Contains(t, string(rewritten), `url("/img/missing.png")`, "실패 참조는 원문 유지")

	// 두 번째 실행: 추가 다운로드도, 파일 내용 변화도 없어야 한다
	failed, err = resolveCSSReferences(context.Background(), f, cssRel, cssURL, root, "assets", urlMap, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, failed, "여전히 같은 참조 하나만 실패")
	again, err := os.ReadFile(cssFull)
	require.NoError(t, err)
	assert.Equal(t, string(rewritten), string(again))
}
