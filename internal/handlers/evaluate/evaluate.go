package evaluate

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kondukto-io/dspolicy/internal/core/domain"
	"github.com/kondukto-io/dspolicy/internal/core/port/evaluator"
	"github.com/kondukto-io/dspolicy/internal/core/port/track"
	evaluateusecase "github.com/kondukto-io/dspolicy/internal/core/usecase/evaluate"
	"github.com/kondukto-io/dspolicy/pkg/logger"
	"github.com/kondukto-io/dspolicy/pkg/metrics"
	"github.com/kondukto-io/dspolicy/pkg/parser"
	"github.com/kondukto-io/dspolicy/pkg/reporter"
)

const maxLineSize = 1 << 20

// Run evaluates the queries given on the command line or in a queries
// file and reports every decision
func Run(cmd cobra.Command, services evaluator.Services) error {
	var outputFile = cmd.Flag("output-file-name").Value.String()
	var metricsFile = cmd.Flag("metrics-file").Value.String()
	var queriesFile = cmd.Flag("queries").Value.String()

	report := reporter.NewReporter(outputFile)
	if report.Err != nil {
		return fmt.Errorf("failed to create reporter: %w", report.Err)
	}
	defer report.Close()

	var m = metrics.New()
	var uc = evaluateusecase.New(services, track.Multi{report, m})

	if queriesFile != "" {
		f, err := os.Open(queriesFile)
		if err != nil {
			return fmt.Errorf("failed to open queries file: %w", err)
		}
		defer f.Close()

		n, err := Replay(f, uc)
		if err != nil {
			return err
		}
		logger.Log.Infof("replayed %d queries from [%s]", n, queriesFile)
	} else {
		query, err := parser.ToQuery(queryFlags(cmd))
		if err != nil {
			return fmt.Errorf("failed to parse query: %w", err)
		}

		if _, err := uc.Evaluate(query); err != nil {
			return err
		}
	}

	report.PrintReportTable()

	if metricsFile != "" {
		if err := m.WriteTextfile(metricsFile); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
		logger.Log.Debugf("metrics written to [%s]", metricsFile)
	}

	return nil
}

// Replay evaluates one JSON query per line. Queries that cannot be
// decoded or evaluated are logged and skipped. It returns the number of
// evaluated queries.
func Replay(r io.Reader, uc evaluator.UseCase) (int, error) {
	var n, line int

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var query domain.Query
		if err := json.Unmarshal(raw, &query); err != nil {
			logger.Log.Warnf("line %d: failed to decode query: %v", line, err)
			continue
		}

		if _, err := uc.Evaluate(query); err != nil {
			logger.Log.Warnf("line %d: %v", line, err)
			continue
		}
		n++
	}

	if err := scanner.Err(); err != nil {
		return n, fmt.Errorf("failed to read queries: %w", err)
	}

	return n, nil
}

func queryFlags(cmd cobra.Command) parser.QueryFlags {
	return parser.QueryFlags{
		DeliveryService: cmd.Flag("ds").Value.String(),
		Operation:       cmd.Flag("operation").Value.String(),
		URL:             cmd.Flag("url").Value.String(),
		ClientIP:        cmd.Flag("client").Value.String(),
		Location:        cmd.Flag("location").Value.String(),
		Cache:           cmd.Flag("cache").Value.String(),
		CacheLocation:   cmd.Flag("cache-location").Value.String(),
	}
}
