package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"policy-log-analytics/internal/model"
)

// CSVIngestor turns delimited log exports into ordered record sequences. The
// first row names the fields; rows are mapped by position and short rows are
// padded with empty fields rather than rejected, so one malformed line never
// aborts a run.
type CSVIngestor interface {
	Read(r io.Reader, sourceFile string) (model.RecordSequence, error)
	ReadFile(path string) (model.RecordSequence, error)
	ReadFileFrom(path string, offset int64) (model.RecordSequence, int64, error)
}

type csvIngestor struct{}

func NewCSVIngestor() CSVIngestor {
	return &csvIngestor{}
}

func (c *csvIngestor) Read(r io.Reader, sourceFile string) (model.RecordSequence, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return model.RecordSequence{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	records := make(model.RecordSequence, 0)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Skip the bad row, keep the run alive.
			log.Warn().Err(err).Str("file", sourceFile).Msg("Skipping malformed CSV row")
			continue
		}
		records = append(records, rowToRecord(header, row, sourceFile))
	}

	log.Debug().Str("file", sourceFile).Int("records", len(records)).Msg("Read CSV records")
	return records, nil
}

func (c *csvIngestor) ReadFile(path string) (model.RecordSequence, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	defer file.Close()
	return c.Read(file, path)
}

// ReadFileFrom resumes reading at a byte offset recorded by a previous pass.
// The header row is always re-read from the start of the file so resumed rows
// map to the right field names. Returns the records found and the offset to
// resume from next time.
func (c *csvIngestor) ReadFileFrom(path string, offset int64) (model.RecordSequence, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, offset, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	defer file.Close()

	headerLine, headerEnd, err := readHeaderLine(file)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return model.RecordSequence{}, 0, nil
		}
		return nil, offset, err
	}

	headerReader := csv.NewReader(strings.NewReader(headerLine))
	header, err := headerReader.Read()
	if err != nil {
		return nil, offset, fmt.Errorf("failed to parse CSV header of %s: %w", path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	if offset < headerEnd {
		offset = headerEnd
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, offset, fmt.Errorf("failed to seek %s to offset %d: %w", path, offset, err)
	}

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	records := make(model.RecordSequence, 0)
	newOffset := offset
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("Skipping malformed CSV row")
			newOffset = offset + reader.InputOffset()
			continue
		}
		records = append(records, rowToRecord(header, row, path))
		newOffset = offset + reader.InputOffset()
	}
	return records, newOffset, nil
}

func rowToRecord(header, row []string, sourceFile string) model.LogRecord {
	record := model.LogRecord{SourceFile: sourceFile}
	for i, name := range header {
		if name == "" {
			continue
		}
		value := ""
		if i < len(row) {
			value = row[i]
		}
		record.SetField(name, value)
	}
	return record
}

func readHeaderLine(file *os.File) (string, int64, error) {
	reader := bufio.NewReader(file)
	line, err := reader.ReadString('\n')
	end := int64(len(line))
	if err != nil && err != io.EOF {
		return "", 0, fmt.Errorf("failed to read CSV header line: %w", err)
	}
	if line == "" {
		return "", 0, io.EOF
	}
	return strings.TrimRight(line, "\r\n"), end, nil
}
