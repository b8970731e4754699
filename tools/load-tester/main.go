package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the viewer")
	chatroom := flag.String("chatroom", "general", "Chatroom to exercise")
	queries := flag.String("queries", "hello,ping,the", "Comma-separated search queries")
	days := flag.String("days", "", "Comma-separated YYYY/MM/DD day pages to request alongside searches")
	concurrency := flag.Int("c", 10, "Number of concurrent workers")
	duration := flag.Duration("d", 30*time.Second, "Duration of the load test")
	rps := flag.Int("rps", 50, "Requests per second limit")
	flag.Parse()

	targets := buildTargets(*baseURL, *chatroom, splitList(*queries), splitList(*days))
	if len(targets) == 0 {
		log.Fatal("nothing to request: give at least one query or day")
	}

	runID := uuid.NewString()
	log.Printf("Starting load test %s on %s (%d targets)", runID, *baseURL, len(targets))
	log.Printf("Concurrency: %d, Duration: %s, RPS: %d", *concurrency, *duration, *rps)

	var wg sync.WaitGroup
	var successCount, limitedCount, errorCount atomic.Int64
	var latencyTotal atomic.Int64
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	limiter := rate.NewLimiter(rate.Limit(*rps), 10) // Allow small bursts

	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			client := &http.Client{
				Timeout: 30 * time.Second,
			}

			for n := 0; ; n++ {
				if err := limiter.Wait(ctx); err != nil {
					return
				}

				target := targets[rand.IntN(len(targets))]
				req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
				if err != nil {
					continue // Should not happen
				}
				req.Header.Set("X-Request-ID", fmt.Sprintf("%s-%d-%d", runID, workerID, n))

				start := time.Now()
				resp, err := client.Do(req)
				if err != nil {
					if ctx.Err() == nil {
						errorCount.Add(1)
					}
					continue
				}
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				latencyTotal.Add(int64(time.Since(start)))

				switch resp.StatusCode {
				case http.StatusOK:
					successCount.Add(1)
				case http.StatusTooManyRequests:
					limitedCount.Add(1)
				default:
					errorCount.Add(1)
				}
			}
		}(i)
	}

	wg.Wait()

	totalRequests := successCount.Load() + limitedCount.Load() + errorCount.Load()
	actualRPS := float64(totalRequests) / duration.Seconds()
	var meanLatency time.Duration
	if completed := successCount.Load() + limitedCount.Load(); completed > 0 {
		meanLatency = time.Duration(latencyTotal.Load() / completed)
	}

	log.Println("Load test finished.")
	log.Printf("Total Requests: %d", totalRequests)
	log.Printf("Successful (200 OK): %d", successCount.Load())
	log.Printf("Rate limited (429): %d", limitedCount.Load())
	log.Printf("Errors: %d", errorCount.Load())
	log.Printf("Actual RPS: %.2f, mean latency: %s", actualRPS, meanLatency)
}

func buildTargets(base, chatroom string, queries, days []string) []string {
	base = strings.TrimRight(base, "/")
	room := base + "/chat/" + url.PathEscape(chatroom) + "/"

	var targets []string
	for _, q := range queries {
		targets = append(targets, room+"search?q="+url.QueryEscape(q))
	}
	for _, d := range days {
		targets = append(targets, room+strings.Trim(d, "/")+"/")
	}
	return targets
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
