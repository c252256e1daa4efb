package cli

import (
	"errors"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/kondukto-io/dspolicy/bundle"
	"github.com/kondukto-io/dspolicy/internal/core/domain"
	"github.com/kondukto-io/dspolicy/internal/core/port/deliveryservice"
	"github.com/kondukto-io/dspolicy/pkg/parser"
	"github.com/kondukto-io/dspolicy/pkg/policy"
)

var errGeoMismatch = errors.New("geo policy decisions differ")

func initGeoCommand() *cobra.Command {
	geoCMD := &cobra.Command{
		Use:   "geo",
		Short: "Checks a client location against the geo allow-lists",
		Run: func(cmd *cobra.Command, args []string) {
			reg, err := loadRegistry()
			if err != nil {
				qwe(exitCodeError, err, "failed to load configuration")
			}

			loc, err := parser.ParseLocation(cmd.Flag("location").Value.String())
			if err != nil {
				qwe(exitCodeError, err, "failed to parse location")
			}

			var services []deliveryservice.UseCase
			if id := cmd.Flag("ds").Value.String(); id != "" {
				ds, err := reg.Get(id)
				if err != nil {
					qwe(exitCodeError, err)
				}
				services = append(services, ds)
			} else {
				gen := reg.Current()
				for _, id := range gen.IDs() {
					services = append(services, gen.Services[id])
				}
			}

			data := pterm.TableData{{"Delivery Service", "Allowed", "Rego", "Support Location"}}
			var mismatch bool
			for _, ds := range services {
				allowed := ds.IsAllowed(loc)

				rego, err := regoAllowed(cmd, ds.Config().GeoEnabled, loc)
				if err != nil {
					qwe(exitCodeError, err, "failed to evaluate geo policy")
				}
				mismatch = mismatch || rego != allowed

				support := "-"
				if l := ds.SupportLocation(loc); l != nil {
					support = strconv.FormatFloat(l.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(l.Longitude, 'f', -1, 64)
				}

				data = append(data, []string{ds.ID(), strconv.FormatBool(allowed), strconv.FormatBool(rego), support})
			}

			if err := pterm.DefaultTable.WithHasHeader().WithHeaderRowSeparator("-").WithData(data).Render(); err != nil {
				qwe(exitCodeError, err, "failed to render geo decisions")
			}

			if mismatch {
				qwe(exitCodeError, errGeoMismatch)
			}
		},
	}

	geoCMD.Flags().String("ds", "", "delivery service id, all services when empty")
	geoCMD.Flags().String("location", "", "client location (lat=39.7,long=-104.9,countryCode=US)")

	return geoCMD
}

func regoAllowed(cmd *cobra.Command, constraints []domain.GeoConstraint, loc *domain.Geolocation) (bool, error) {
	data, err := policy.NewGeoData(constraints)
	if err != nil {
		return false, err
	}

	input, err := policy.NewGeoInput(loc)
	if err != nil {
		return false, err
	}

	p, err := policy.New(bundle.Bundle, data)
	if err != nil {
		return false, err
	}
	p.AddQuery(policy.GeoQuery)

	return p.Eval(cmd.Context(), input)
}
