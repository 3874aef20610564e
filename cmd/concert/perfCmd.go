package concert

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ValentinKolb/dConcert/cmd/util"
	"github.com/ValentinKolb/dConcert/lib/concert"
	"github.com/ValentinKolb/dConcert/lib/repository"
	"github.com/ValentinKolb/dConcert/rpc/common"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for concert servers",
		Long:    "Runs every benchmark with the configured number of threads and reports latency percentiles and throughput. Concerts created by a benchmark are deleted afterwards.",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	log = logger.GetLogger("cli")

	perfTitlePrefix  = "__perf"
	perfNumThreads   = 10
	perfOpsPerThread = 1000
	perfConcerts     = 100
	perfSkip         = make([]string, 0)
)

func init() {
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. create,list)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "ops"
	perfTestCmd.Flags().Int(key, 1000, util.WrapString("Number of operations every thread performs per benchmark"))
	key = "concerts"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many concerts are created before a benchmark that reads or modifies concerts"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	perfNumThreads = max(viper.GetInt("threads"), 1)
	perfOpsPerThread = max(viper.GetInt("ops"), 1)
	perfConcerts = max(viper.GetInt("concerts"), 1)
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {
	fmt.Println("Performance testing tool for concert servers")

	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetClientConfig().String())
	fmt.Printf("Service: %s\n", util.GetServiceName())
	fmt.Printf("Threads: %d, Ops per thread: %d\n", perfNumThreads, perfOpsPerThread)
	fmt.Println()

	fmt.Println("starting tests...")

	b := &benchmark{
		repo:         rpcRepository,
		registry:     metrics.NewRegistry(),
		threads:      perfNumThreads,
		opsPerThread: perfOpsPerThread,
		concerts:     perfConcerts,
	}

	var results []perfResult
	for _, bench := range benchmarks() {
		if shouldSkip(bench.name) {
			results = append(results, perfResult{Name: bench.name, Skipped: true})
			printResult(results[len(results)-1])
			continue
		}
		result := b.run(bench)
		results = append(results, result)
		printResult(result)
	}

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, util.GetClientConfig()); err != nil {
			return fmt.Errorf("failed to export results to CSV: %w", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Benchmarks
// --------------------------------------------------------------------------

// perfBenchmark is a single benchmark. op is called with the ids of the
// prepared concerts and a running counter of the calling thread.
type perfBenchmark struct {
	name    string
	prepare bool
	op      func(b *benchmark, ids []int64, i int) error
}

func benchmarks() []perfBenchmark {
	return []perfBenchmark{
		{
			name: "create",
			op: func(b *benchmark, _ []int64, i int) error {
				_, err := b.create(i)
				return err
			},
		},
		{
			name:    "get",
			prepare: true,
			op: func(b *benchmark, ids []int64, i int) error {
				_, _, err := b.repo.Get(ids[i%len(ids)])
				return err
			},
		},
		{
			name: "get-missing",
			op: func(b *benchmark, _ []int64, i int) error {
				_, _, err := b.repo.Get(-int64(i) - 1)
				return err
			},
		},
		{
			name:    "update",
			prepare: true,
			op: func(b *benchmark, ids []int64, i int) error {
				_, err := b.repo.Update(perfConcert(ids[i%len(ids)], i))
				return err
			},
		},
		{
			name:    "list",
			prepare: true,
			op: func(b *benchmark, _ []int64, _ int) error {
				_, err := b.repo.List()
				return err
			},
		},
		{
			name:    "delete",
			prepare: true,
			op: func(b *benchmark, ids []int64, i int) error {
				_, err := b.repo.Delete(ids[i%len(ids)])
				return err
			},
		},
		{
			name:    "mixed",
			prepare: true,
			op: func(b *benchmark, ids []int64, i int) error {
				id := ids[i%len(ids)]
				var err error
				switch i % 4 {
				case 0:
					_, err = b.create(i)
				case 1:
					_, _, err = b.repo.Get(id)
				case 2:
					_, err = b.repo.Update(perfConcert(id, i))
				case 3:
					_, err = b.repo.List()
				}
				return err
			},
		},
	}
}

// benchmark runs benchmarks against a repository and records the latency of
// every operation in a metrics registry
type benchmark struct {
	repo         repository.IConcertRepository
	registry     metrics.Registry
	threads      int
	opsPerThread int
	concerts     int

	// created holds the ids of all concerts created by the running benchmark
	created *xsync.MapOf[int64, struct{}]
}

// perfResult is the outcome of a single benchmark
type perfResult struct {
	Name       string
	Skipped    bool
	Ops        int64
	Errors     int64
	Mean       time.Duration
	P50        time.Duration
	P95        time.Duration
	P99        time.Duration
	Max        time.Duration
	OpsPerSec  float64
	TotalTime  time.Duration
	Remaining  int
	CleanupErr error
}

func (b *benchmark) run(bench perfBenchmark) perfResult {
	b.created = xsync.NewMapOf[int64, struct{}]()

	timer := metrics.GetOrRegisterTimer(bench.name+".latency", b.registry)
	errCounter := metrics.GetOrRegisterCounter(bench.name+".errors", b.registry)

	ids := []int64{0}
	if bench.prepare {
		ids = b.prepare(bench.name)
	}

	var wg sync.WaitGroup
	start := time.Now()
	for t := 0; t < b.threads; t++ {
		wg.Add(1)
		go func(t int) {
			defer wg.Done()
			for i := 0; i < b.opsPerThread; i++ {
				counter := t*b.opsPerThread + i
				opStart := time.Now()
				err := bench.op(b, ids, counter)
				timer.UpdateSince(opStart)
				if err != nil {
					errCounter.Inc(1)
					log.Debugf("(%s) - operation failed: %v", bench.name, err)
				}
			}
		}(t)
	}
	wg.Wait()
	elapsed := time.Since(start)

	result := perfResult{
		Name:      bench.name,
		TotalTime: elapsed,
	}
	result.fill(timer.Snapshot(), errCounter.Count())
	result.Remaining, result.CleanupErr = b.cleanup()
	return result
}

// prepare creates the concerts a benchmark works on
func (b *benchmark) prepare(name string) []int64 {
	ids := make([]int64, 0, b.concerts)
	for i := 0; i < b.concerts; i++ {
		id, err := b.create(i)
		if err != nil {
			log.Warningf("(%s) - error creating concert: %v", name, err)
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		ids = append(ids, 0)
	}
	return ids
}

// create creates a concert and remembers its id for the cleanup
func (b *benchmark) create(i int) (int64, error) {
	created, err := b.repo.Create(concert.New(fmt.Sprintf("%s-%d", perfTitlePrefix, i), perfDate(i)))
	if err != nil {
		return 0, err
	}
	id, ok := created.ID()
	if !ok {
		return 0, fmt.Errorf("created concert has no id")
	}
	b.created.Store(id, struct{}{})
	return id, nil
}

// cleanup deletes all concerts created by the running benchmark and returns
// how many of them could not be deleted
func (b *benchmark) cleanup() (int, error) {
	var errs []error
	remaining := 0
	b.created.Range(func(id int64, _ struct{}) bool {
		if _, err := b.repo.Delete(id); err != nil {
			remaining++
			errs = append(errs, err)
		}
		return true
	})
	if len(errs) > 0 {
		return remaining, fmt.Errorf("failed to delete %d concert(s), first error: %w", remaining, errs[0])
	}
	return 0, nil
}

// fill copies the values of a timer snapshot into the result
func (r *perfResult) fill(t metrics.Timer, errs int64) {
	r.Ops = t.Count()
	r.Errors = errs
	if r.Ops == 0 {
		return
	}
	ps := t.Percentiles([]float64{0.5, 0.95, 0.99})
	r.Mean = time.Duration(t.Mean())
	r.P50 = time.Duration(ps[0])
	r.P95 = time.Duration(ps[1])
	r.P99 = time.Duration(ps[2])
	r.Max = time.Duration(t.Max())
	if r.TotalTime > 0 {
		r.OpsPerSec = float64(r.Ops) / r.TotalTime.Seconds()
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	for _, skip := range perfSkip {
		if test == strings.TrimSpace(skip) {
			return true
		}
	}
	return false
}

func perfDate(i int) time.Time {
	return time.Date(2030, 1, 1, 20, 0, 0, 0, time.UTC).AddDate(0, 0, i%365)
}

func perfConcert(id int64, i int) concert.Concert {
	return concert.NewWithID(id, fmt.Sprintf("%s-updated-%d", perfTitlePrefix, i), perfDate(i+1))
}

// printResult prints the result of a benchmark in a formatted way
func printResult(r perfResult) {
	if r.Skipped {
		fmt.Printf("%-14sskipped\n", r.Name)
		return
	}

	fmt.Printf("%-14s%8d ops  %6d errors  mean %-10s p50 %-10s p95 %-10s p99 %-10s %8.0f ops/sec\n",
		r.Name, r.Ops, r.Errors, r.Mean, r.P50, r.P95, r.P99, r.OpsPerSec)
	if r.CleanupErr != nil {
		fmt.Printf("%-14scleanup: %v\n", "", r.CleanupErr)
	}
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results []perfResult, config *common.ClientConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := []string{
		"Test", "Skipped", "Ops", "Errors", "MeanNs", "P50Ns", "P95Ns", "P99Ns", "MaxNs", "OpsPerSec",
		"Endpoints", "TimeoutSec", "RetryCount", "ConnectionsPerEndpoint",
		"Service", "Serializer", "Transport",
		"Threads", "OpsPerThread", "Concerts",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range results {
		row := []string{
			r.Name,
			strconv.FormatBool(r.Skipped),
			strconv.FormatInt(r.Ops, 10),
			strconv.FormatInt(r.Errors, 10),
			strconv.FormatInt(r.Mean.Nanoseconds(), 10),
			strconv.FormatInt(r.P50.Nanoseconds(), 10),
			strconv.FormatInt(r.P95.Nanoseconds(), 10),
			strconv.FormatInt(r.P99.Nanoseconds(), 10),
			strconv.FormatInt(r.Max.Nanoseconds(), 10),
			fmt.Sprintf("%.0f", r.OpsPerSec),
			strings.Join(config.Transport.Endpoints, ";"),
			strconv.Itoa(config.TimeoutSecond),
			strconv.Itoa(config.Transport.RetryCount),
			strconv.Itoa(config.Transport.ConnectionsPerEndpoint),
			util.GetServiceName(),
			viper.GetString("serializer"),
			viper.GetString("transport"),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfOpsPerThread),
			strconv.Itoa(perfConcerts),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %w", r.Name, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
