/*
===============================================================================================
[프로그램 명세서 및 작동 논리]

1. 프로그램 개요
   - 이 프로그램은 살아있는 웹 페이지 하나를 로컬 디스크로 미러링하는 도구입니다.
   - 페이지를 내려받고, 참조된 모든 리소스(스크립트/스타일/이미지/미디어/CSS 내부 참조)를
     제한된 동시성으로 수집한 뒤, 모든 참조를 로컬 복사본 경로로 재작성하여
     자체 완결적인 디렉토리 트리를 만듭니다.

2. 데이터 처리 파이프라인
   Step 1. 입력 URL 검증 (파싱 불가 시 즉시 실패)
   Step 2. 출력 폴더 준비 (<정제된 호스트>_<epoch ms>/assets)
   Step 3. 루트 문서 요청 (무작위 User-Agent + Referer) 및 파싱
   Step 4. (선택자, 속성) 카탈로그 기반 리소스 탐색 (srcset 다중 값 포함)
   Step 5. 배치 다운로드: 동시 5개, 배치 사이 1000ms 간격
   Step 6. .css 리소스의 url(...) 재귀 해석 → 맵 확장 → 시트 상대 경로로 재작성
   Step 7. 문서 재작성 (실패한 이미지는 선언된 크기의 placeholder로 대체)
   Step 8. index.html 저장 및 매니페스트(JSON) 출력

3. 안전장치 및 제약
   - 개별 요청 타임아웃 30초, 작업 전체 타임아웃은 --timeout 옵션 (기본: 제한 없음)
   - 정제된 저장 경로가 출력 루트를 벗어나면 해당 리소스는 무조건 건너뜁니다
   - 리소스 하나의 실패는 작업을 중단시키지 않고 매니페스트에 집계됩니다

4. 부가 동작
   - --analyze: 생성된 디렉토리의 파일 종류별 통계와 페이지 구조 요약 출력
   - --generate: 미러를 그대로 서빙하는 Node(Express) 스캐폴드 생성
===============================================================================================
*/

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
)

var (
	outBase     = flag.StringP("out", "o", "cloned_sites", "결과물이 저장될 기본 폴더")
	runAnalyze  = flag.Bool("analyze", false, "클론 후 디렉토리 분석 리포트 출력")
	runGenerate = flag.Bool("generate", false, "클론 후 Node(Express) 서빙 스캐폴드 생성")
	jobTimeout  = flag.Duration("timeout", 0, "작업 전체 타임아웃 (0 = 제한 없음)")
	concurrency = flag.Int("concurrency", defaultConcurrency, "동시 다운로드 수")
	batchDelay  = flag.Duration("batch-delay", defaultBatchDelay, "배치 사이 최소 간격")
	verbose     = flag.BoolP("verbose", "v", false, "디버그 로그 출력")
)

func main() {
	flag.Parse()

	fmt.Println("===================================================")
	fmt.Println("          cc-site-cloner : web page mirror")
	fmt.Println("===================================================")

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "사용법: %s [옵션] <url>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
		os.Exit(2)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	ctx := context.Background()
	if *jobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *jobTimeout)
		defer cancel()
	}

	job, err := newCloneJob(flag.Arg(0), *outBase, cloneOptions{
		Concurrency: *concurrency,
		BatchDelay:  *batchDelay,
		Log:         log,
	})
	if err != nil {
		// 도구 호출 결과 규약: 잘못된 입력은 짧은 오류 문자열 하나
		fmt.Fprintf(os.Stderr, "❌ 오류: %v\n", err)
		os.Exit(1)
	}

	absOut, _ := filepath.Abs(job.outputDir)
	fmt.Printf("🚀 작업 시작\n   🔗 소스: %s\n   📂 출력: %s\n", job.rawURL, absOut)
	fmt.Println("==================================================")

	start := time.Now()
	manifest, err := job.run(ctx)
	fmt.Println("==================================================")
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			fmt.Fprintf(os.Stderr, "*** Warning : Timeout (%v 초과)\n", *jobTimeout)
		} else {
			fmt.Fprintf(os.Stderr, "❌ 오류 발생: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Printf("✅ 작업 완료! (%v)\n", time.Since(start).Round(time.Millisecond))
	printJSON(manifest)

	if *runAnalyze || *runGenerate {
		report, err := analyzeWebsite(manifest.Dir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ 분석 실패: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("📊 분석 리포트")
		printJSON(report)

		if *runGenerate {
			if err := generateNodeApp(manifest.Dir, report); err != nil {
				fmt.Fprintf(os.Stderr, "❌ 스캐폴드 생성 실패: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("🛠️  Node 스캐폴드 생성 완료: %s\n", manifest.Dir)
		}
	}
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "JSON 직렬화 실패: %v\n", err)
		return
	}
	fmt.Println(string(out))
}

// formatComma: 천 단위 구분 기호를 넣어 숫자를 표시합니다.
func formatComma(n int64) string {
	in := fmt.Sprintf("%d", n)
	numOfDigits := len(in)
	if n < 0 {
		numOfDigits--
	}
	numOfCommas := (numOfDigits - 1) / 3
	if numOfCommas == 0 {
		return in
	}
	out := make([]byte, len(in)+numOfCommas)
	if n < 0 {
		in, out[0] = in[1:], '-'
	}
	for i, j, k := len(in)-1, len(out)-1, 0; ; i, j = i-1, j-1 {
		out[j] = in[i]
		if i == 0 {
			return string(out)
		}
		if k++; k == 3 {
			j, k = j-1, 0
			out[j] = ','
		}
	}
}
