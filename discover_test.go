package main

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const discoverFixture = `<!DOCTYPE html>
<html><head>
<title>fixture</title>
<link rel="stylesheet" href="/static/style.css">
<link rel="icon" href="/favicon.ico">
<meta property="og:image" content="https://cdn.example.com/og.png">
<script src="app.js"></script>
</head><body>
<img src="logo.png" width="100">
<img src="logo.png">
<img src="fallback.png" srcset="small.png 1x, large.png 2x">
<video poster="poster.jpg" src="movie.mp4"></video>
<img src="data:image/png;base64,AAAA">
<object data="chart.svg"></object>
</body></html>`

func TestDiscoverAssets(t *testing.T) {
	base, err := url.Parse("https://example.com/page/")
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(discoverFixture))
	require.NoError(t, err)

	found := discoverAssets(doc, base, testLogger())
	var urls []string
	for _, u := range found {
		urls = append(urls, u.String())
	}

	assert.ElementsMatch(t, []string{
		"https://example.com/static/style.css",
		"https://example.com/favicon.ico",
		"https://cdn.example.com/og.png",
		"https://example.com/page/app.js",
		"https://example.com/page/logo.png",
		"https://example.com/page/fallback.png",
		"https://example.com/page/small.png",
		"https://example.com/page/large.png",
		"https://example.com/page/poster.jpg",
		"https://example.com/page/movie.mp4",
		"https://example.com/page/chart.svg",
	}, urls, "중복 없이 절대 URL 집합이 나와야 한다 (data: 제외)")
}

func TestDiscoverAssetsBadRefContinues(t *testing.T) {
	base, err := url.Parse("https://example.com/")
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<html><body><img src="%zz"><img src="ok.png"></body></html>`))
	require.NoError(t, err)

	found := discoverAssets(doc, base, testLogger())
	require.Len(t, found, 1)
	assert.Equal(t, "https://example.com/ok.png", found[0].String())
}

func TestParseSrcset(t *testing.T) {
	got := parseSrcset(" a.png 1x, b.png 2x ,c.png,  d.png  640w ")
	assert.Equal(t, []srcsetEntry{
		{URL: "a.png", Descriptor: "1x"},
		{URL: "b.png", Descriptor: "2x"},
		{URL: "c.png"},
		{URL: "d.png", Descriptor: "640w"},
	}, got)
}

func TestJoinSrcset(t *testing.T) {
	entries := []srcsetEntry{
		{URL: "assets/a.png", Descriptor: "1x"},
		{URL: "b.png", Descriptor: "2x"},
		{URL: "c.png"},
	}
	assert.Equal(t, "assets/a.png 1x, b.png 2x, c.png", joinSrcset(entries))
}
