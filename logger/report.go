package logger

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

var (
	apiRequests      int64
	apiFailures      int64
	rateLimitWaitMs  int64
	listingsPrimary  int64
	listingsFallback int64
	componentWarns   sync.Map // map[string]*int64
	componentErrors  sync.Map // map[string]*int64
)

func recordWarn(component string) {
	v, _ := componentWarns.LoadOrStore(component, new(int64))
	atomic.AddInt64(v.(*int64), 1)
}

func recordError(component string) {
	v, _ := componentErrors.LoadOrStore(component, new(int64))
	atomic.AddInt64(v.(*int64), 1)
}

// RecordRequest counts a successfully completed API call.
func RecordRequest() {
	atomic.AddInt64(&apiRequests, 1)
}

// RecordFailure counts an API call that ended in any failure kind.
func RecordFailure() {
	atomic.AddInt64(&apiFailures, 1)
}

// RecordRateLimitWait accumulates time spent blocked on the quota limiter.
func RecordRateLimitWait(d time.Duration) {
	atomic.AddInt64(&rateLimitWaitMs, d.Milliseconds())
}

// RecordListings counts normalized market listings by their source feed.
func RecordListings(source string, n int) {
	if source == "bazaar" {
		atomic.AddInt64(&listingsFallback, int64(n))
		return
	}
	atomic.AddInt64(&listingsPrimary, int64(n))
}

// StartReport begins periodic logging of runtime and API statistics.
func StartReport(ctx context.Context, log *Log, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return
			case <-ticker.C:
				logReport(ctx, log)
			}
		}
	}()
}

func logReport(ctx context.Context, log *Log) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	warns := map[string]int64{}
	componentWarns.Range(func(k, v any) bool {
		warns[k.(string)] = atomic.LoadInt64(v.(*int64))
		return true
	})
	errors := map[string]int64{}
	componentErrors.Range(func(k, v any) bool {
		errors[k.(string)] = atomic.LoadInt64(v.(*int64))
		return true
	})

	fields := Fields{
		"api_requests":       atomic.LoadInt64(&apiRequests),
		"api_failures":       atomic.LoadInt64(&apiFailures),
		"rate_wait_ms":       atomic.LoadInt64(&rateLimitWaitMs),
		"listings_primary":   atomic.LoadInt64(&listingsPrimary),
		"listings_fallback":  atomic.LoadInt64(&listingsFallback),
		"component_warns":    warns,
		"component_errors":   errors,
		"goroutines":         runtime.NumGoroutine(),
		"heap_mb":            int64(memStats.HeapAlloc) / 1024 / 1024,
		"gc_cycles":          memStats.NumGC,
	}

	log.WithComponent("report").WithFields(fields).Info("runtime report")

	data := []cwtypes.MetricDatum{
		{MetricName: aws.String("APIRequests"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(atomic.LoadInt64(&apiRequests)))},
		{MetricName: aws.String("APIFailures"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(atomic.LoadInt64(&apiFailures)))},
		{MetricName: aws.String("RateLimitWaitMs"), Unit: cwtypes.StandardUnitMilliseconds, Value: aws.Float64(float64(atomic.LoadInt64(&rateLimitWaitMs)))},
		{MetricName: aws.String("ListingsPrimary"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(atomic.LoadInt64(&listingsPrimary)))},
		{MetricName: aws.String("ListingsFallback"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(atomic.LoadInt64(&listingsFallback)))},
		{MetricName: aws.String("HeapMB"), Unit: cwtypes.StandardUnitMegabytes, Value: aws.Float64(float64(memStats.HeapAlloc) / 1024 / 1024)},
		{MetricName: aws.String("Goroutines"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(runtime.NumGoroutine()))},
	}

	for component, count := range errors {
		data = append(data, cwtypes.MetricDatum{
			MetricName: aws.String("ComponentErrors"),
			Unit:       cwtypes.StandardUnitCount,
			Dimensions: []cwtypes.Dimension{{Name: aws.String("Component"), Value: aws.String(component)}},
			Value:      aws.Float64(float64(count)),
		})
	}

	publishMetrics(ctx, data)
}
