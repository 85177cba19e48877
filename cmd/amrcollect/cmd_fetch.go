package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maldi-lab/amrcollect/internal/fetch"
	"github.com/maldi-lab/amrcollect/internal/projectconfig"
)

func newFetchCommand() *cobra.Command {
	var (
		account   string
		container string
		prefix    string
		destDir   string
	)

	cmd := &cobra.Command{
		Use:   "fetch [container-url]",
		Short: "Download result files from Azure Blob Storage",
		Long: `Mirror the result files uploaded by cluster runs into a local directory.

The container may be given as a URL
(https://ACCOUNT.blob.core.windows.net/CONTAINER[/PREFIX]); otherwise
account, container and prefix default to the fetch section of
.amrcollect.yaml. Credentials are resolved through DefaultAzureCredential
(az login, managed identity, or service principal environment variables).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := projectconfig.Load(".")
			if err != nil {
				return err
			}

			if len(args) == 1 {
				account, container, prefix, err = fetch.ParseContainerURL(args[0])
				if err != nil {
					return err
				}
			}

			if account == "" {
				account = cfg.Fetch.Account
			}
			if container == "" {
				container = cfg.Fetch.Container
			}
			if prefix == "" {
				prefix = cfg.Fetch.Prefix
			}
			if destDir == "" {
				destDir = cfg.Paths.FetchDir
			}

			n, err := fetch.Run(cmd.Context(), fetch.Options{
				Account:   account,
				Container: container,
				Prefix:    prefix,
				DestDir:   destDir,
				Extension: cfg.Collect.Extension,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Downloaded %d result files to %s\n", n, destDir) //nolint:errcheck
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Storage account name")
	cmd.Flags().StringVar(&container, "container", "", "Blob container holding results")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Blob name prefix to mirror")
	cmd.Flags().StringVar(&destDir, "dest", "", "Destination directory (default: paths.fetch_dir)")

	return cmd
}
