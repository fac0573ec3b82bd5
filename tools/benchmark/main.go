package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/alitto/pond/v2"

	"github.com/feral-file/trait-inventory/internal/api/shared/dto"
)

const (
	defaultAPIURL = "http://localhost:8080"
)

type Config struct {
	APIURL      string
	APIKey      string
	TraitID     string
	Requests    int           // Total reservation attempts
	Wallets     int           // Number of distinct wallets the attempts are spread over
	Concurrency int           // Number of concurrent workers
	Timeout     time.Duration // Timeout for each HTTP request
	Release     bool          // Cancel the created reservations when done
	OutputFile  string        // Output markdown file path (optional)
}

// BenchmarkStats holds the outcome of one contention run against a trait
type BenchmarkStats struct {
	TraitID        string
	Requests       int
	Wallets        int
	Concurrency    int
	StartTime      time.Time
	Duration       time.Duration
	Before         *dto.AvailabilityResponse
	After          *dto.AvailabilityResponse
	StatusCounts   map[int]int
	TransportErrs  int
	Latencies      []time.Duration
	ReservationIDs []string
	Released       int
}

// Created is the number of reservations the API granted
func (s *BenchmarkStats) Created() int {
	return len(s.ReservationIDs)
}

// Oversold reports whether more units were granted than were available before the run
func (s *BenchmarkStats) Oversold() bool {
	if s.Before == nil || s.Before.Unlimited {
		return false
	}
	return s.Created() > s.Before.Remaining
}

// Failed is the number of attempts that ended with a server error or no response
func (s *BenchmarkStats) Failed() int {
	failed := s.TransportErrs
	for status, count := range s.StatusCounts {
		if status >= http.StatusInternalServerError {
			failed += count
		}
	}
	return failed
}

func main() {
	cfg := parseFlags()

	if cfg.TraitID == "" {
		fmt.Println("Error: trait-id is required")
		flag.Usage()
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	client := newAPIClient(cfg.APIURL, cfg.APIKey, cfg.Timeout)

	fmt.Printf("Benchmarking %s against %s\n", cfg.TraitID, cfg.APIURL)
	fmt.Printf("%d reservation attempts from %d wallets with %d workers\n\n", cfg.Requests, cfg.Wallets, cfg.Concurrency)

	stats, err := runBenchmark(ctx, cfg, client)
	if err != nil {
		fmt.Printf("Error running benchmark: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("BENCHMARK RESULTS")
	fmt.Println(strings.Repeat("=", 80))
	printStats(stats)

	if cfg.OutputFile != "" {
		if err := writeMarkdownReport(cfg.OutputFile, stats); err != nil {
			fmt.Printf("\n⚠️  Warning: Failed to write markdown file: %v\n", err)
		} else {
			fmt.Printf("\n✓ Report written to: %s\n", cfg.OutputFile)
		}
	}

	if stats.Oversold() {
		os.Exit(2)
	}
}

func parseFlags() *Config {
	cfg, err := parseArgs(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// parseArgs resolves the run settings. Built-in defaults are overridden by the
// profile, which is in turn overridden by flags given on the command line.
func parseArgs(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	fs.StringVar(&cfg.APIURL, "api-url", defaultAPIURL, "Trait inventory API base URL")
	fs.StringVar(&cfg.APIKey, "api-key", "", "API key used for the cleanup call (optional)")
	fs.StringVar(&cfg.TraitID, "trait-id", "", "Trait ID to contend on (required)")
	fs.IntVar(&cfg.Requests, "requests", 100, "Total reservation attempts")
	fs.IntVar(&cfg.Wallets, "wallets", 20, "Number of distinct wallets")
	fs.IntVar(&cfg.Concurrency, "concurrency", 10, "Number of concurrent workers")
	fs.BoolVar(&cfg.Release, "release", true, "Cancel the created reservations when done")
	fs.StringVar(&cfg.OutputFile, "output", "", "Output markdown file path (optional)")

	var timeoutSeconds int
	fs.IntVar(&timeoutSeconds, "timeout", 10, "Timeout for each request in seconds")

	configFile := fs.String("config", "", "Path to a saved profile (defaults to ~/"+defaultProfileName+" when present)")
	saveConfig := fs.String("save-config", "", "Write the resolved settings to this profile path")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.Timeout = time.Duration(timeoutSeconds) * time.Second

	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	if path, ok := resolveProfilePath(*configFile); ok {
		profile, err := LoadProfile(path)
		if err != nil {
			return nil, err
		}
		profile.applyTo(cfg, explicit)
	}

	if cfg.Requests <= 0 {
		cfg.Requests = 100
	}
	if cfg.Wallets <= 0 {
		cfg.Wallets = 1
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 10
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	if *saveConfig != "" {
		if err := SaveProfile(*saveConfig, profileFromConfig(cfg)); err != nil {
			return nil, fmt.Errorf("failed to save profile: %w", err)
		}
	}

	return cfg, nil
}

// apiClient is a minimal client of the reservation endpoints
type apiClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func newAPIClient(baseURL, apiKey string, timeout time.Duration) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *apiClient) do(ctx context.Context, method, path string, body interface{}, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "ApiKey "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < http.StatusBadRequest {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
		return resp.StatusCode, nil
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func (c *apiClient) availability(ctx context.Context, traitID string) (*dto.AvailabilityResponse, error) {
	var out dto.AvailabilityResponse
	status, err := c.do(ctx, http.MethodGet, "/api/v1/traits/"+traitID+"/availability", nil, &out)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("availability returned %d", status)
	}
	return &out, nil
}

func (c *apiClient) reserve(ctx context.Context, traitID, wallet, asset string) (int, *dto.CreateReservationsResponse, error) {
	var out dto.CreateReservationsResponse
	status, err := c.do(ctx, http.MethodPost, "/api/v1/reservations", dto.CreateReservationRequest{
		TraitIDs:      []string{traitID},
		WalletAddress: wallet,
		AssetID:       asset,
	}, &out)
	if err != nil {
		return status, nil, err
	}
	return status, &out, nil
}

func (c *apiClient) bulkCancel(ctx context.Context, ids []string) (int, error) {
	var out dto.BulkCancelResponse
	status, err := c.do(ctx, http.MethodPost, "/api/v1/reservations/bulk-cancel", dto.BulkCancelRequest{ReservationIDs: ids}, &out)
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, fmt.Errorf("bulk cancel returned %d", status)
	}
	return out.CancelledCount, nil
}

// runBenchmark fires cfg.Requests concurrent reservations for one trait and
// compares the granted count with the supply available beforehand
func runBenchmark(ctx context.Context, cfg *Config, client *apiClient) (*BenchmarkStats, error) {
	before, err := client.availability(ctx, cfg.TraitID)
	if err != nil {
		return nil, fmt.Errorf("failed to read availability: %w", err)
	}

	stats := &BenchmarkStats{
		TraitID:      cfg.TraitID,
		Requests:     cfg.Requests,
		Wallets:      cfg.Wallets,
		Concurrency:  cfg.Concurrency,
		StartTime:    time.Now(),
		Before:       before,
		StatusCounts: make(map[int]int),
	}

	var mu sync.Mutex
	runID := stats.StartTime.Format("20060102150405")

	pool := pond.NewPool(cfg.Concurrency, pond.WithContext(ctx))
	for i := 0; i < cfg.Requests; i++ {
		wallet := fmt.Sprintf("bench-%s-wallet-%d", runID, i%cfg.Wallets)
		asset := fmt.Sprintf("bench-%s-asset-%d", runID, i)

		pool.Submit(func() {
			start := time.Now()
			status, resp, err := client.reserve(ctx, cfg.TraitID, wallet, asset)
			latency := time.Since(start)

			mu.Lock()
			defer mu.Unlock()
			stats.Latencies = append(stats.Latencies, latency)
			if err != nil && status == 0 {
				stats.TransportErrs++
				return
			}
			stats.StatusCounts[status]++
			if status == http.StatusCreated && resp != nil {
				for _, r := range resp.Reservations {
					stats.ReservationIDs = append(stats.ReservationIDs, r.ID)
				}
			}
		})
	}
	pool.StopAndWait()
	stats.Duration = time.Since(stats.StartTime)

	stats.After, err = client.availability(ctx, cfg.TraitID)
	if err != nil {
		fmt.Printf("Warning: failed to read availability after run: %v\n", err)
	}

	if cfg.Release && len(stats.ReservationIDs) > 0 {
		stats.Released, err = releaseAll(ctx, client, stats.ReservationIDs)
		if err != nil {
			fmt.Printf("Warning: failed to release reservations: %v\n", err)
		}
	}

	return stats, nil
}

// releaseAll cancels ids in batches the bulk endpoint accepts
func releaseAll(ctx context.Context, client *apiClient, ids []string) (int, error) {
	const batchSize = 100

	released := 0
	for start := 0; start < len(ids); start += batchSize {
		end := start + batchSize
		if end > len(ids) {
			end = len(ids)
		}
		n, err := client.bulkCancel(ctx, ids[start:end])
		if err != nil {
			return released, err
		}
		released += n
	}
	return released, nil
}

func printStats(stats *BenchmarkStats) {
	fmt.Printf("\nTrait:        %s\n", stats.TraitID)
	fmt.Printf("Attempts:     %d (%d wallets, %d workers)\n", stats.Requests, stats.Wallets, stats.Concurrency)
	fmt.Printf("Duration:     %s (%s)\n", formatDuration(stats.Duration), formatRate(stats.Requests, stats.Duration))
	fmt.Printf("Latency:      p50 %s, p95 %s, p99 %s\n",
		formatDuration(percentile(stats.Latencies, 50)),
		formatDuration(percentile(stats.Latencies, 95)),
		formatDuration(percentile(stats.Latencies, 99)),
	)

	fmt.Printf("\nResponses:\n")
	for _, status := range sortedStatuses(stats.StatusCounts) {
		count := stats.StatusCounts[status]
		fmt.Printf("  %d %-24s %6d (%s)\n", status, http.StatusText(status), count, percentageString(count, stats.Requests))
	}
	if stats.TransportErrs > 0 {
		fmt.Printf("  transport errors %17d (%s)\n", stats.TransportErrs, percentageString(stats.TransportErrs, stats.Requests))
	}

	fmt.Printf("\nInventory:\n")
	fmt.Printf("  Before:   %s\n", describeAvailability(stats.Before))
	fmt.Printf("  After:    %s\n", describeAvailability(stats.After))
	fmt.Printf("  Granted:  %d\n", stats.Created())
	if stats.Released > 0 {
		fmt.Printf("  Released: %d\n", stats.Released)
	}

	fmt.Printf("\n%s ", statusEmoji(stats.Oversold(), stats.Failed()))
	if stats.Oversold() {
		fmt.Printf("OVERSOLD: granted %d with only %d available\n", stats.Created(), stats.Before.Remaining)
	} else {
		fmt.Printf("No oversell detected\n")
	}
}

func describeAvailability(a *dto.AvailabilityResponse) string {
	if a == nil {
		return "unknown"
	}
	if a.Unlimited {
		return "unlimited"
	}
	return fmt.Sprintf("%d remaining (%d reserved, %d pending purchases)", a.Remaining, a.ActiveReservations, a.PendingPurchases)
}

func sortedStatuses(counts map[int]int) []int {
	statuses := make([]int, 0, len(counts))
	for status := range counts {
		statuses = append(statuses, status)
	}
	sort.Ints(statuses)
	return statuses
}

func writeMarkdownReport(path string, stats *BenchmarkStats) error {
	var sb strings.Builder

	sb.WriteString("# Reservation Benchmark Report\n\n")
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n\n", time.Now().Format(time.RFC3339)))

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n|---|---|\n")
	sb.WriteString(fmt.Sprintf("| Trait | `%s` |\n", stats.TraitID))
	sb.WriteString(fmt.Sprintf("| Attempts | %d |\n", stats.Requests))
	sb.WriteString(fmt.Sprintf("| Wallets | %d |\n", stats.Wallets))
	sb.WriteString(fmt.Sprintf("| Workers | %d |\n", stats.Concurrency))
	sb.WriteString(fmt.Sprintf("| Duration | %s |\n", formatDuration(stats.Duration)))
	sb.WriteString(fmt.Sprintf("| Throughput | %s |\n", formatRate(stats.Requests, stats.Duration)))
	sb.WriteString(fmt.Sprintf("| Latency p50 / p95 / p99 | %s / %s / %s |\n",
		formatDuration(percentile(stats.Latencies, 50)),
		formatDuration(percentile(stats.Latencies, 95)),
		formatDuration(percentile(stats.Latencies, 99)),
	))
	sb.WriteString(fmt.Sprintf("| Granted | %d |\n", stats.Created()))
	sb.WriteString(fmt.Sprintf("| Available before | %s |\n", describeAvailability(stats.Before)))
	sb.WriteString(fmt.Sprintf("| Available after | %s |\n", describeAvailability(stats.After)))
	sb.WriteString(fmt.Sprintf("| Verdict | %s %s |\n\n", statusEmoji(stats.Oversold(), stats.Failed()), verdict(stats)))

	sb.WriteString("## Responses\n\n")
	sb.WriteString("| Status | Count | Share |\n|---|---|---|\n")
	for _, status := range sortedStatuses(stats.StatusCounts) {
		count := stats.StatusCounts[status]
		sb.WriteString(fmt.Sprintf("| %d %s | %d | %s |\n", status, http.StatusText(status), count, percentageString(count, stats.Requests)))
	}
	if stats.TransportErrs > 0 {
		sb.WriteString(fmt.Sprintf("| transport error | %d | %s |\n", stats.TransportErrs, percentageString(stats.TransportErrs, stats.Requests)))
	}

	return os.WriteFile(path, []byte(sb.String()), 0644)
}

func verdict(stats *BenchmarkStats) string {
	if stats.Oversold() {
		return "oversold"
	}
	return "no oversell"
}
