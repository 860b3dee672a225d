package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	webguard "github.com/arinellipar/webguard"
	"github.com/arinellipar/webguard/route"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func main() {
	var (
		tokens      = flag.Int("tokens", 10000, "number of access tokens to pre-issue")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations per phase")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		strict      = flag.Bool("strict", false, "enable strict validation (revocation denylist lookups)")
	)
	flag.Parse()

	if *tokens <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "tokens, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	cfg := webguard.DefaultConfig()
	cfg.JWT.Secret = []byte("loadtest-secret-loadtest-secret!")
	cfg.JWT.AccessTTL = time.Hour
	cfg.Metrics.Enabled = true
	cfg.Metrics.EnableLatencyHistograms = true
	if *strict {
		cfg.ValidationMode = webguard.ModeStrict
		cfg.Revocation.Enabled = true
	}

	engine, err := webguard.New().WithConfig(cfg).WithRedis(client).Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine build: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	fmt.Printf("issuing %d tokens...\n", *tokens)
	startIssue := time.Now()
	issued := make([]string, *tokens)
	for i := range issued {
		role := webguard.RoleUser
		if i%10 == 0 {
			role = webguard.RoleAdmin
		}
		token, err := engine.IssueToken(fmt.Sprintf("user-%d", i), "", role)
		if err != nil {
			fmt.Fprintf(os.Stderr, "issue failed: %v\n", err)
			os.Exit(1)
		}
		issued[i] = token
	}
	fmt.Printf("issued in %s\n", time.Since(startIssue).Round(time.Millisecond))

	authorizeStats := runPhase(*ops, *concurrency, func(r *rand.Rand) bool {
		token := issued[r.Intn(len(issued))]
		result := engine.Authorize(ctx, token, webguard.LevelUser)
		return result.Authorized
	})

	adminStats := runPhase(*ops, *concurrency, func(r *rand.Rand) bool {
		token := issued[r.Intn(len(issued))]
		result := engine.Authorize(ctx, token, webguard.LevelAdmin)
		// USER-role denials are the expected outcome for 90% of tokens;
		// only internal errors count as failures.
		return result.Authorized || result.Code != webguard.CodeAuthError
	})

	classifier := route.NewClassifier(route.DefaultMatrix(), nil)
	paths := samplePaths()
	classifyStats := runPhase(*ops, *concurrency, func(r *rand.Rand) bool {
		_, _ = classifier.Classify(paths[r.Intn(len(paths))])
		return true
	})

	fmt.Println("---- results ----")
	printStats("authorize-user", authorizeStats)
	printStats("authorize-admin", adminStats)
	printStats("classify", classifyStats)

	snap := engine.MetricsSnapshot()
	fmt.Printf("authz success=%d invalid=%d insufficient=%d errors=%d\n",
		snap.Counters[webguard.MetricAuthzSuccess],
		snap.Counters[webguard.MetricAuthzTokenInvalid],
		snap.Counters[webguard.MetricAuthzInsufficientPrivileges],
		snap.Counters[webguard.MetricAuthzError],
	)
}

func runPhase(ops, concurrency int, op func(*rand.Rand) bool) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				ok := op(r)
				d := time.Since(t0)
				if !ok {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

func samplePaths() []string {
	return []string{
		"/",
		"/blog",
		"/blog/understanding-vat-changes",
		"/blog/category/tax-news",
		"/about",
		"/services/payroll",
		"/contact",
		"/dashboard",
		"/dashboard/posts",
		"/profile",
		"/settings",
		"/auth/login",
		"/api/posts",
		"/api/posts/understanding-vat-changes",
		"/api/categories",
		"/api/admin/posts",
		"/api/profile",
		"/api/unknown/thing",
	}
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
