package ingest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/rs/zerolog/log"
)

// QueryLogIngestor extracts client addresses from plaintext resolver query
// logs of the shape "... client 192.168.0.1#53124: query: example.com ...".
type QueryLogIngestor interface {
	ExtractIPs(r io.Reader) ([]string, error)
	ExtractIPsFromFile(path string) ([]string, error)
}

type queryLogIngestor struct {
	clientRegex *regexp.Regexp
}

func NewQueryLogIngestor() QueryLogIngestor {
	return &queryLogIngestor{
		clientRegex: regexp.MustCompile(`client\s+(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})#`),
	}
}

func (q *queryLogIngestor) ExtractIPs(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	ips := make([]string, 0)
	var lines int
	for scanner.Scan() {
		lines++
		for _, match := range q.clientRegex.FindAllStringSubmatch(scanner.Text(), -1) {
			ips = append(ips, match[1])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan query log: %w", err)
	}
	log.Debug().Int("lines", lines).Int("ips", len(ips)).Msg("Extracted client IPs from query log")
	return ips, nil
}

func (q *queryLogIngestor) ExtractIPsFromFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open query log %s: %w", path, err)
	}
	defer file.Close()
	return q.ExtractIPs(file)
}
