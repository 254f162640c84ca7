// Command cachecheck hits the cached read endpoints of a running server twice
// and reports whether the expected Redis key was written and how the second
// call compares with the first.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"studyhall/internal/shared/config"
	"studyhall/internal/shared/constants"
	"studyhall/internal/shared/timeslot"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

type CheckResult struct {
	Name      string        `json:"name"`
	Endpoint  string        `json:"endpoint"`
	CacheKey  string        `json:"cache_key"`
	KeyStored bool          `json:"key_stored"`
	FirstCall time.Duration `json:"first_call"`
	Second    time.Duration `json:"second_call"`
	Status    int           `json:"status"`
	Error     string        `json:"error,omitempty"`
}

type checkCase struct {
	name     string
	endpoint string
	key      string
	admin    bool
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "server root URL")
	output := flag.String("out", "", "write the JSON report to this file")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis connection failed: %v", err)
	}

	userToken := os.Getenv("CACHECHECK_TOKEN")
	adminToken := os.Getenv("CACHECHECK_ADMIN_TOKEN")
	if userToken == "" {
		log.Fatal("CACHECHECK_TOKEN must hold an access token")
	}

	today := timeslot.Today(time.Now(), cfg.Location())
	month := time.Now().In(cfg.Location()).Format(timeslot.MonthLayout)
	api := *baseURL + cfg.GetAPIBasePath()

	cases := []checkCase{
		{"seat list", "/seats", constants.CACHE_KEY_SEATS_LIST, false},
		{"availability", "/seats/available?date=" + today + "&start=09:00&end=11:00",
			constants.BuildAvailabilityKey(today, "09:00", "11:00"), false},
		{"monthly ranking", "/ranking/monthly", constants.BuildRankingMonthlyKey(10), false},
		{"total ranking", "/ranking/total", constants.BuildRankingTotalKey(10), false},
		{"daily statistics", "/admin/statistics/daily?date=" + today, constants.BuildStatisticsDailyKey(today), true},
		{"monthly statistics", "/admin/statistics/monthly?month=" + month, constants.BuildStatisticsMonthlyKey(month), true},
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	var results []CheckResult
	for _, tc := range cases {
		token := userToken
		if tc.admin {
			if adminToken == "" {
				fmt.Printf("skip  %-20s (no CACHECHECK_ADMIN_TOKEN)\n", tc.name)
				continue
			}
			token = adminToken
		}

		// start cold so the first call is a miss
		client.Del(ctx, tc.key)
		res := CheckResult{Name: tc.name, Endpoint: tc.endpoint, CacheKey: tc.key}

		res.FirstCall, res.Status, res.Error = call(httpClient, api+tc.endpoint, token)
		if res.Error == "" {
			n, err := client.Exists(ctx, tc.key).Result()
			if err != nil {
				res.Error = err.Error()
			}
			res.KeyStored = n == 1
			res.Second, _, _ = call(httpClient, api+tc.endpoint, token)
		}

		results = append(results, res)
		printResult(res)
	}

	if *output != "" {
		data, _ := json.MarshalIndent(results, "", "  ")
		if err := os.WriteFile(*output, data, 0o644); err != nil {
			log.Fatalf("failed to write report: %v", err)
		}
		fmt.Printf("\nreport written to %s\n", *output)
	}
}

func call(client *http.Client, url, token string) (time.Duration, int, string) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return 0, 0, err.Error()
	}
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return time.Since(start), 0, err.Error()
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	elapsed := time.Since(start)
	if resp.StatusCode >= 400 {
		return elapsed, resp.StatusCode, fmt.Sprintf("HTTP %d", resp.StatusCode)
	}
	return elapsed, resp.StatusCode, ""
}

func printResult(r CheckResult) {
	if r.Error != "" {
		fmt.Printf("FAIL  %-20s %s\n", r.Name, r.Error)
		return
	}
	state := "stored"
	if !r.KeyStored {
		state = "NOT stored"
	}
	fmt.Printf("ok    %-20s key %s, %v -> %v\n", r.Name, state, r.FirstCall, r.Second)
}
