package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// Express 정적 서버 보일러플레이트. 미러 디렉토리를 그대로 서빙합니다.
const serverJSTemplate = `// {{.Name}} - 자동 생성된 정적 서빙 스캐폴드
const express = require('express');
const path = require('path');

const app = express();
const PORT = process.env.PORT || 3000;

app.use(express.static(__dirname));

app.get('/', (req, res) => {
  res.sendFile(path.join(__dirname, 'index.html'));
});

app.listen(PORT, () => {
  console.log('{{.Title}} mirror serving at http://localhost:' + PORT);
});
`

const packageJSONTemplate = `{
  "name": "{{.Name}}",
  "version": "1.0.0",
  "description": "Static mirror scaffold ({{.Files}} files)",
  "main": "server.js",
  "scripts": {
    "start": "node server.js"
  },
  "dependencies": {
    "express": "^4.19.0"
  }
}
`

// generateNodeApp: 미러 디렉토리에 server.js / package.json을 생성합니다.
// 이미 존재하는 스캐폴드는 덮어쓰지 않습니다.
func generateNodeApp(dir string, report *analysisReport) error {
	for _, name := range []string{"server.js", "package.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return fmt.Errorf("%s가 이미 존재합니다: %s", name, dir)
		}
	}

	title := report.Page.Title
	if title == "" {
		title = filepath.Base(dir)
	}
	data := struct {
		Name  string
		Title string
		Files int
	}{
		Name:  scaffoldPackageName(dir),
		Title: title,
		Files: report.TotalFiles,
	}

	files := map[string]string{
		"server.js":    serverJSTemplate,
		"package.json": packageJSONTemplate,
	}
	for name, tmpl := range files {
		t, err := template.New(name).Parse(tmpl)
		if err != nil {
			return err
		}
		out, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("%s 생성 실패: %w", name, err)
		}
		if err := t.Execute(out, data); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
	}
	return nil
}

// scaffoldPackageName: 디렉토리 이름을 npm 패키지 이름 규칙에 맞춥니다.
func scaffoldPackageName(dir string) string {
	name := strings.ToLower(filepath.Base(dir))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		out = "cloned-site"
	}
	return out
}
