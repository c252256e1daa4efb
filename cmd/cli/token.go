package cli

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/kondukto-io/dspolicy/internal/core/domain"
	"github.com/kondukto-io/dspolicy/internal/core/usecase/token"
	"github.com/kondukto-io/dspolicy/pkg/logger"
)

func initTokenCommand() *cobra.Command {
	tokenCMD := &cobra.Command{
		Use:   "token",
		Short: "Encodes and decodes transaction tokens",
	}

	tokenCMD.AddCommand(initTokenEncodeCommand())
	tokenCMD.AddCommand(initTokenDecodeCommand())

	return tokenCMD
}

func initTokenEncodeCommand() *cobra.Command {
	encodeCMD := &cobra.Command{
		Use:   "encode",
		Short: "Prints the transaction token for a client address",
		Run: func(cmd *cobra.Command, args []string) {
			text := cmd.Flag("mode").Value.String()
			mode, warned := domain.ParseWithDefault(text, domain.TransInfoTypes, domain.TransInfoIP)
			if warned {
				logger.Log.Warnf("unknown transaction info type [%s], using %s", text, mode)
			}

			tinfo := token.New().Encode(mode, domain.Request{ClientIP: cmd.Flag("client").Value.String()})
			if tinfo == "" {
				qwm(exitCodeError, "no token for this client address and mode")
			}

			fmt.Println(tinfo)
		},
	}

	encodeCMD.Flags().String("client", "", "client IP address")
	encodeCMD.Flags().String("mode", string(domain.TransInfoIP), "IP || IP_TID")

	return encodeCMD
}

func initTokenDecodeCommand() *cobra.Command {
	decodeCMD := &cobra.Command{
		Use:   "decode <token>",
		Short: "Decodes a transaction token",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			info, err := token.New().Decode(args[0])
			if err != nil {
				qwe(exitCodeError, err, "failed to decode token")
			}

			client := info.ClientIP.String()
			if info.Placeholder() {
				client += " (IPv6 client)"
			}

			data := pterm.TableData{{"Client", client}}
			if info.HasTID {
				data = append(data,
					[]string{"Timestamp", info.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z07:00")},
					[]string{"Request ID", fmt.Sprintf("%d", info.RequestID)},
				)
			}

			if err := pterm.DefaultTable.WithData(data).Render(); err != nil {
				qwe(exitCodeError, err, "failed to render token")
			}
		},
	}

	return decodeCMD
}
