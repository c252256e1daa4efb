package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kondukto-io/dspolicy/internal/core/usecase/registry"
	"github.com/kondukto-io/dspolicy/internal/core/usecase/token"
	"github.com/kondukto-io/dspolicy/internal/handlers/watch"
	configrepo "github.com/kondukto-io/dspolicy/internal/repository/config"
)

func initWatchCommand() *cobra.Command {
	watchCMD := &cobra.Command{
		Use:   "watch",
		Short: "Republishes the configuration and states whenever their files change",
		Run: func(cmd *cobra.Command, args []string) {
			repo, err := configrepo.New()
			if err != nil {
				qwe(exitCodeError, err, "failed to create configuration repository")
			}

			var reg = registry.New(repo, token.New())
			if err := watch.Run(*cmd, reg, viper.GetString("config"), viper.GetString("state")); err != nil {
				qwe(exitCodeError, err, "failed to watch")
			}
		},
	}

	return watchCMD
}
