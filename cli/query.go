package cli

import (
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/Blaze-UpdateZ/Crunchyroll-AniList-API/cli/config"
)

var (
	queryProvider string
	queryType     string
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Look up an anime or manga title",
	Long:  `Look up a title by name, numeric ID, series code or catalog URL and print the normalized JSON record.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := args[0]

		serverURL, err := config.GetServerURL()
		if err != nil {
			printError("Configuration not initialized")
			fmt.Println("Run: blaze config init")
			return err
		}

		provider := queryProvider
		if provider == "" && config.GlobalConfig != nil {
			provider = config.GlobalConfig.Defaults.Provider
		}
		if provider == "" {
			provider = "anilist"
		}

		lookupURL := fmt.Sprintf("%s/%s?q=%s", serverURL, provider, url.QueryEscape(query))
		if queryType != "" {
			lookupURL += "&type=" + url.QueryEscape(queryType)
		}

		resp, err := http.Get(lookupURL)
		if err != nil {
			printError("Lookup failed: Server connection error")
			return err
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
			printError(fmt.Sprintf("Lookup failed with status %d", resp.StatusCode))
			fmt.Println(string(body))
			return fmt.Errorf("lookup failed")
		}

		fmt.Println(string(body))
		return nil
	},
}

func init() {
	queryCmd.Flags().StringVarP(&queryProvider, "provider", "p", "", "Provider to query (anilist or crunchyroll)")
	queryCmd.Flags().StringVarP(&queryType, "type", "t", "", "Media type for AniList lookups (anime or manga)")
}
