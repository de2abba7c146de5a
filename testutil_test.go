package main

import (
	"io"

	"github.com/sirupsen/logrus"
)

// testLogger: 테스트 출력에 로그가 섞이지 않도록 버리는 로거
func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// pinnedUA: 요청 헤더 검증용 고정 User-Agent
func pinnedUA() string { return "test-agent/1.0" }
