package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"policy-log-analytics/internal/analyzer"
	"policy-log-analytics/internal/ingest"
	"policy-log-analytics/internal/report"
)

// One-shot analysis over a CSV log export, printed to stdout. The service
// under cmd/ is the long-running deployment; this entry point covers ad hoc
// use on a local file.
func main() {
	var (
		windowSize = flag.Int("window", analyzer.DefaultWindowSize, "number of records before each failure to scan for errors")
		patterns   = flag.String("patterns", "authentication failed,connection timeout,disk space low,POLICY_DEPLOYMENT failed", "comma-separated message patterns to count")
		queryLog   = flag.String("query-log", "", "optional DNS query log to scan for recurring client IPs")
		threshold  = flag.Int("threshold", 2, "minimum occurrences for an IP to count as recurring")
		topN       = flag.Int("top", 3, "how many top policies and devices to report")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <log-export.csv>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	sourceFile := flag.Arg(0)

	suite, err := analyzer.New(analyzer.Options{
		WindowSize:          *windowSize,
		Patterns:            splitPatterns(*patterns),
		TopN:                *topN,
		SampleSize:          5,
		RecurrenceThreshold: *threshold,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid analyzer configuration")
	}

	records, err := ingest.NewCSVIngestor().ReadFile(sourceFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", sourceFile).Msg("Failed to read log export")
	}

	result := suite.Analyze(records, sourceFile)

	if *queryLog != "" {
		ips, err := ingest.NewQueryLogIngestor().ExtractIPsFromFile(*queryLog)
		if err != nil {
			log.Fatal().Err(err).Str("file", *queryLog).Msg("Failed to read query log")
		}
		result.RecurringIPs = analyzer.RecurringIPs(analyzer.CountIPs(ips), *threshold)
	}

	report.Write(os.Stdout, result)
}

func splitPatterns(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
