package cli

import (
	"github.com/spf13/cobra"

	"github.com/kondukto-io/dspolicy/internal/handlers/evaluate"
)

func initEvaluateCommand() *cobra.Command {
	evaluateCMD := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluates a routing query, or replays a file of queries, against the configuration",
		Run: func(cmd *cobra.Command, args []string) {
			reg, err := loadRegistry()
			if err != nil {
				qwe(exitCodeError, err, "failed to load configuration")
			}

			if err := evaluate.Run(*cmd, reg); err != nil {
				qwe(exitCodeError, err, "failed to evaluate")
			}
		},
	}

	evaluateCMD.Flags().String("queries", "", "file with one JSON query per line")
	evaluateCMD.Flags().String("ds", "", "delivery service id")
	evaluateCMD.Flags().String("operation", "http", "http || dns")
	evaluateCMD.Flags().String("url", "", "request url, or the query name of a DNS request")
	evaluateCMD.Flags().String("client", "", "client IP address")
	evaluateCMD.Flags().String("location", "", "client location (lat=39.7,long=-104.9,countryCode=US)")
	evaluateCMD.Flags().String("cache", "", "selected cache (fqdn[:port[:httpsPort]])")
	evaluateCMD.Flags().String("cache-location", "", "cache location id of the selected cache")
	evaluateCMD.Flags().String("metrics-file", "", "write result counters to a prometheus textfile")
	evaluateCMD.Flags().StringP("output-file-name", "o", "/tmp/dspolicy.out", "output file name")

	return evaluateCMD
}
