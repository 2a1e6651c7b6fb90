package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult represents a parsed benchmark result.
type BenchmarkResult struct {
	Name        string
	Family      string
	Case        string
	Iterations  int
	NsPerOp     float64
	BytesPerOp  int64
	AllocsPerOp int64
}

var (
	inputFile = flag.String(
		"input",
		"",
		"Input file with benchmark output (stdin if not specified)",
	)
	outputFile = flag.String("output", "", "Output markdown file (stdout if not specified)")
	quiet      = flag.Bool("quiet", false, "Suppress progress output")
)

func main() {
	flag.Parse()

	// Read benchmark output
	var scanner *bufio.Scanner
	var inputF *os.File
	if *inputFile != "" {
		f, err := os.Open(*inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening input file: %v\n", err)
			os.Exit(1)
		}
		inputF = f
		scanner = bufio.NewScanner(f)
	} else {
		scanner = bufio.NewScanner(os.Stdin)
	}

	// Parse benchmarks
	results := parseBenchmarks(scanner)

	if !*quiet {
		fmt.Fprintf(os.Stderr, "Parsed %d benchmark results\n", len(results))
	}

	// Generate markdown report
	report := generateMarkdownReport(results)

	// Write output
	if *outputFile != "" {
		err := os.WriteFile(*outputFile, []byte(report), 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			if inputF != nil {
				inputF.Close()
			}
			os.Exit(1)
		}
		if !*quiet {
			fmt.Fprintf(os.Stderr, "Report written to %s\n", *outputFile)
		}
	} else {
		fmt.Fprint(os.Stdout, report)
	}

	// Close input file if opened
	if inputF != nil {
		inputF.Close()
	}
}

func parseBenchmarks(scanner *bufio.Scanner) []BenchmarkResult {
	var results []BenchmarkResult

	// Regex to parse benchmark output lines
	// BenchmarkPage8K_FillDrain-8    50000    24810 ns/op    0 B/op    0 allocs/op
	benchmarkRegex := regexp.MustCompile(
		`^(Benchmark\S+)\s+(\d+)\s+([\d.]+)\s+ns/op(?:\s+([\d.]+)\s+(?:B|MB)/op)?(?:\s+([\d.]+)\s+allocs/op)?`,
	)

	for scanner.Scan() {
		line := scanner.Text()

		// Try to parse as JSON (from -json flag)
		var testEvent map[string]any
		if err := json.Unmarshal([]byte(line), &testEvent); err == nil {
			if output, ok := testEvent["Output"].(string); ok {
				line = output
			}
		}

		// Parse benchmark line
		matches := benchmarkRegex.FindStringSubmatch(strings.TrimSpace(line))
		if matches == nil {
			continue
		}

		name := matches[1]
		iterations, _ := strconv.Atoi(matches[2])
		nsPerOp, _ := strconv.ParseFloat(matches[3], 64)

		var bytesPerOp int64
		var allocsPerOp int64

		if matches[4] != "" {
			bytesPerOp, _ = strconv.ParseInt(matches[4], 10, 64)
		}
		if matches[5] != "" {
			allocsPerOp, _ = strconv.ParseInt(matches[5], 10, 64)
		}

		family, benchCase := splitBenchmarkName(name)

		results = append(results, BenchmarkResult{
			Name:        name,
			Family:      family,
			Case:        benchCase,
			Iterations:  iterations,
			NsPerOp:     nsPerOp,
			BytesPerOp:  bytesPerOp,
			AllocsPerOp: allocsPerOp,
		})
	}

	return results
}

func splitBenchmarkName(name string) (string, string) {
	// Remove the -N GOMAXPROCS suffix
	// Format: Benchmark<Family>_<Case>-<procs> or Benchmark<Family>/<sub>-<procs>
	if dashIdx := strings.LastIndex(name, "-"); dashIdx > 0 {
		if _, err := strconv.Atoi(name[dashIdx+1:]); err == nil {
			name = name[:dashIdx]
		}
	}

	name = strings.TrimPrefix(name, "Benchmark")

	// Sub-benchmark names split on the slash, flat names on the first underscore
	if slashIdx := strings.Index(name, "/"); slashIdx > 0 {
		return name[:slashIdx], name[slashIdx+1:]
	}
	if underscoreIdx := strings.Index(name, "_"); underscoreIdx > 0 {
		return name[:underscoreIdx], name[underscoreIdx+1:]
	}
	return name, ""
}

func generateMarkdownReport(results []BenchmarkResult) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Benchmark Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05")))

	// Summary statistics
	zeroAlloc := 0
	var fastest, slowest *BenchmarkResult
	for i := range results {
		r := &results[i]
		if r.AllocsPerOp == 0 {
			zeroAlloc++
		}
		if fastest == nil || r.NsPerOp < fastest.NsPerOp {
			fastest = r
		}
		if slowest == nil || r.NsPerOp > slowest.NsPerOp {
			slowest = r
		}
	}

	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Total benchmarks**: %d\n", len(results)))
	if len(results) > 0 {
		sb.WriteString(
			fmt.Sprintf(
				"- **Zero-allocation**: %d (%.1f%%)\n",
				zeroAlloc,
				float64(zeroAlloc)/float64(len(results))*100,
			),
		)
		sb.WriteString(
			fmt.Sprintf("- **Fastest**: %s (%s ns/op)\n", fastest.Name, formatNumber(fastest.NsPerOp)),
		)
		sb.WriteString(
			fmt.Sprintf("- **Slowest**: %s (%s ns/op)\n", slowest.Name, formatNumber(slowest.NsPerOp)),
		)
	}
	sb.WriteString("\n")

	// Per-family tables
	families := groupByFamily(results)

	names := make([]string, 0, len(families))
	for family := range families {
		names = append(names, family)
	}
	sort.Strings(names)

	for _, family := range names {
		group := families[family]
		sort.Slice(group, func(i, j int) bool {
			return group[i].Case < group[j].Case
		})

		sb.WriteString(fmt.Sprintf("## %s\n\n", family))
		sb.WriteString("| Benchmark | ns/op | ops/sec | B/op | allocs/op |\n")
		sb.WriteString("|-----------|-------|---------|------|-----------|\n")

		for _, r := range group {
			opsPerSec := 0.0
			if r.NsPerOp > 0 {
				opsPerSec = 1e9 / r.NsPerOp
			}

			benchCase := r.Case
			if benchCase == "" {
				benchCase = family
			}

			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %d |\n",
				benchCase,
				formatNumber(r.NsPerOp),
				formatNumber(opsPerSec),
				formatBytes(r.BytesPerOp),
				r.AllocsPerOp,
			))
		}

		sb.WriteString("\n")
	}

	// Notes
	sb.WriteString("## Notes\n\n")
	sb.WriteString("- **ns/op**: Wall time per operation, lower is better\n")
	sb.WriteString("- **ops/sec**: Derived throughput at one operation per iteration\n")
	sb.WriteString("- **B/op, allocs/op**: Go heap traffic only; slab objects live in mapped regions\n")

	return sb.String()
}

func groupByFamily(results []BenchmarkResult) map[string][]BenchmarkResult {
	families := make(map[string][]BenchmarkResult)
	for _, r := range results {
		families[r.Family] = append(families[r.Family], r)
	}
	return families
}

func formatNumber(n float64) string {
	if n >= 1000000 {
		return fmt.Sprintf("%.2fM", n/1000000)
	} else if n >= 1000 {
		return fmt.Sprintf("%.1fK", n/1000)
	}
	return fmt.Sprintf("%.0f", n)
}

func formatBytes(b int64) string {
	if b >= 1024*1024 {
		return fmt.Sprintf("%.2fMB", float64(b)/(1024*1024))
	} else if b >= 1024 {
		return fmt.Sprintf("%.1fKB", float64(b)/1024)
	}
	return fmt.Sprintf("%dB", b)
}
