package main

import (
	"context"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

const (
	// defaultConcurrency: 동시에 진행할 수 있는 최대 요청 수
	defaultConcurrency = 5
	// defaultBatchDelay: 연속한 배치 시작 사이의 최소 간격
	defaultBatchDelay = 1000 * time.Millisecond
)

// downloadOutcome: URL 하나에 대한 시도 결과. Err이 비어 있으면 성공.
type downloadOutcome struct {
	URL       string
	LocalPath string // 출력 루트 기준 상대 경로 (성공 시)
	Size      int64
	Err       string
}

func (o downloadOutcome) ok() bool { return o.Err == "" }

// batchDownloader: 세마포어로 동시 요청 수를 제한하고,
// rate limiter로 배치 간 간격을 보장하는 다운로드 스케줄러.
type batchDownloader struct {
	fetcher   *fetcher
	sem       *semaphore.Weighted
	limiter   *rate.Limiter
	batchSize int
	log       *logrus.Logger
}

func newBatchDownloader(f *fetcher, concurrency int, delay time.Duration, log *logrus.Logger) *batchDownloader {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	if delay < 0 {
		delay = defaultBatchDelay
	}
	return &batchDownloader{
		fetcher:   f,
		sem:       semaphore.NewWeighted(int64(concurrency)),
		limiter:   rate.NewLimiter(rate.Every(delay), 1),
		batchSize: concurrency,
		log:       log,
	}
}

// downloadAll: 입력 URL 전부에 대해 결과를 정확히 하나씩 반환합니다.
// 배치 내부는 병렬, 배치 사이는 순차. 개별 실패는 다른 다운로드에 영향을 주지 않습니다.
func (b *batchDownloader) downloadAll(ctx context.Context, targets []*url.URL, outputRoot, assetDir string) []downloadOutcome {
	outcomes := make([]downloadOutcome, len(targets))

	for start := 0; start < len(targets); start += b.batchSize {
		if err := b.limiter.Wait(ctx); err != nil {
			// 작업 자체가 취소된 경우: 남은 URL은 전부 실패로 기록
			for i := start; i < len(targets); i++ {
				outcomes[i] = downloadOutcome{URL: targets[i].String(), Err: err.Error()}
			}
			break
		}

		end := min(start+b.batchSize, len(targets))
		b.log.WithFields(logrus.Fields{"from": start, "to": end - 1, "total": len(targets)}).
			Debug("배치 시작")

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				if err := b.sem.Acquire(gctx, 1); err != nil {
					outcomes[i] = downloadOutcome{URL: targets[i].String(), Err: err.Error()}
					return nil
				}
				defer b.sem.Release(1)
				outcomes[i] = b.fetcher.downloadAsset(gctx, targets[i], outputRoot, assetDir)
				return nil
			})
		}
		g.Wait() //nolint:errcheck // 고루틴은 항상 nil을 반환, 실패는 outcomes에 기록됨
	}
	return outcomes
}
