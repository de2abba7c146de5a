package main

import "math/rand"

// UAProvider: User-Agent 선택 함수. 테스트에서는 고정 값을 주입할 수 있습니다.
type UAProvider func() string

// 기본 User-Agent 풀. 단순한 봇 차단을 피하기 위한 용도일 뿐입니다.
var userAgentPool = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
}

// randomUserAgent: 풀에서 무작위로 하나를 고릅니다.
func randomUserAgent() string {
	return userAgentPool[rand.Intn(len(userAgentPool))]
}
