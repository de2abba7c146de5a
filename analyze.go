package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gabriel-vasile/mimetype"
)

// analysisReport: analyzeWebsite 결과. cloneWebsite가 만든 디렉토리에 대한
// 파일 통계와 진입 페이지의 구조 요약.
type analysisReport struct {
	Dir        string         `json:"dir"`
	TotalFiles int            `json:"totalFiles"`
	TotalBytes int64          `json:"totalBytes"`
	FileTypes  map[string]int `json:"fileTypes"`
	Page       pageSummary    `json:"page"`
}

type pageSummary struct {
	Title       string `json:"title"`
	Stylesheets int    `json:"stylesheets"`
	Scripts     int    `json:"scripts"`
	Images      int    `json:"images"`
	Anchors     int    `json:"anchors"`
}

// analyzeWebsite: 미러 디렉토리를 순회하며 종류별 파일 수와 용량을 집계하고,
// index.html을 파싱해 한 페이지 구조 요약을 만듭니다.
func analyzeWebsite(dir string) (*analysisReport, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("분석할 디렉토리가 아닙니다: %s", dir)
	}

	report := &analysisReport{Dir: dir, FileTypes: make(map[string]int)}
	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		report.TotalFiles++
		report.TotalBytes += fi.Size()
		report.FileTypes[classifyFile(p)]++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("디렉토리 순회 실패: %w", err)
	}

	fh, err := os.Open(filepath.Join(dir, "index.html"))
	if err != nil {
		return nil, fmt.Errorf("index.html 열기 실패: %w", err)
	}
	defer fh.Close()

	doc, err := goquery.NewDocumentFromReader(fh)
	if err != nil {
		return nil, fmt.Errorf("index.html 파싱 실패: %w", err)
	}
	report.Page = pageSummary{
		Title:       strings.TrimSpace(doc.Find("title").First().Text()),
		Stylesheets: doc.Find(`link[rel="stylesheet"]`).Length(),
		Scripts:     doc.Find("script[src]").Length(),
		Images:      doc.Find("img").Length(),
		Anchors:     doc.Find("a[href]").Length(),
	}
	return report, nil
}

// classifyFile: 확장자로 분류하고, 확장자가 없으면 내용을 스니핑합니다.
func classifyFile(p string) string {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".html", ".htm":
		return "html"
	case ".css":
		return "css"
	case ".js", ".mjs":
		return "js"
	case ".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".ico", ".bmp", ".avif":
		return "image"
	case ".woff", ".woff2", ".ttf", ".otf", ".eot":
		return "font"
	case ".json", ".xml", ".txt":
		return "data"
	case "":
		return sniffFileType(p)
	default:
		return "other"
	}
}

func sniffFileType(p string) string {
	mt, err := mimetype.DetectFile(p)
	if err != nil {
		return "other"
	}
	s := mt.String()
	switch {
	case strings.HasPrefix(s, "image/"):
		return "image"
	case strings.HasPrefix(s, "text/html"):
		return "html"
	case strings.Contains(s, "javascript"):
		return "js"
	case strings.Contains(s, "css"):
		return "css"
	case strings.HasPrefix(s, "font/"):
		return "font"
	default:
		return "other"
	}
}
