package cli

import (
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/kondukto-io/dspolicy/internal/core/domain"
	"github.com/kondukto-io/dspolicy/internal/core/port/deliveryservice"
)

func initValidateCommand() *cobra.Command {
	validateCMD := &cobra.Command{
		Use:   "validate",
		Short: "Validates the configuration and state files and prints a summary",
		Run: func(cmd *cobra.Command, args []string) {
			reg, err := loadRegistry()
			if err != nil {
				qwe(exitCodeError, err, "invalid configuration")
			}

			gen := reg.Current()
			data := pterm.TableData{
				{"Delivery Service", "Routing Name", "Protocol", "Geo Entries", "HTTP Bypass", "DNS Bypass", "Trans Info", "Available"},
			}
			for _, id := range gen.IDs() {
				data = append(data, summaryRow(gen.Services[id]))
			}

			if err := pterm.DefaultTable.WithHasHeader().WithHeaderRowSeparator("-").WithData(data).Render(); err != nil {
				qwe(exitCodeError, err, "failed to render summary")
			}

			qwm(exitCodeSuccess, "configuration generation "+strconv.FormatUint(gen.Version, 10)+" is valid")
		},
	}

	return validateCMD
}

func summaryRow(ds deliveryservice.UseCase) []string {
	cfg := ds.Config()

	protocol := "HTTP"
	if cfg.DNS {
		protocol = "DNS"
	}

	httpBypass := "-"
	if cfg.Bypass.HTTP != nil && cfg.Bypass.HTTP.FQDN != "" {
		httpBypass = cfg.Bypass.HTTP.FQDN
		if cfg.Bypass.HTTP.Port != nil {
			httpBypass += ":" + strconv.Itoa(*cfg.Bypass.HTTP.Port)
		}
	}

	dnsBypass := "-"
	if cfg.Bypass.DNS != nil {
		records, _ := ds.FailureDNSResponse(domain.Request{Type: domain.RequestTypeDNS})
		dnsBypass = dnsAnswer(records)
	}

	return []string{
		ds.ID(),
		cfg.RoutingName,
		protocol,
		strconv.Itoa(len(cfg.GeoEnabled)),
		httpBypass,
		dnsBypass,
		string(cfg.TransInfo),
		strconv.FormatBool(ds.IsAvailable()),
	}
}

func dnsAnswer(records []domain.InetRecord) string {
	if len(records) == 0 {
		return "(none)"
	}

	values := make([]string, 0, len(records))
	for _, rec := range records {
		if rec.IsAlias() {
			values = append(values, rec.CNAME)
			continue
		}
		values = append(values, rec.Address.String())
	}

	return strings.Join(values, " ") + " ttl=" + strconv.Itoa(records[0].TTL)
}
