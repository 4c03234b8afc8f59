package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Mun09/miri-back/internal/lawapi"
	"github.com/Mun09/miri-back/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the national law databases directly",
	Long: `Search runs one list query against a single law database (laws,
administrative rules, or precedents) and prints the matching document names
and links. This is the raw search the investigate pipeline builds on.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("source", "law", "database to query: law, admrul, or prec")
	searchCmd.Flags().Int("display", 20, "maximum number of results")
	searchCmd.Flags().String("statute", "", "restrict precedent search to one statute name")
	searchCmd.Flags().String("law-api-id", "", "law service OC credential (default: .secrets/law-api-id)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	sourceName, _ := cmd.Flags().GetString("source")
	source := types.Source(sourceName)
	valid := false
	for _, s := range types.AllSources() {
		if s == source {
			valid = true
		}
	}
	if !valid {
		return fmt.Errorf("unknown source %q: want law, admrul, or prec", sourceName)
	}

	lawAPIID, _ := cmd.Flags().GetString("law-api-id")
	display, _ := cmd.Flags().GetInt("display")
	statute, _ := cmd.Flags().GetString("statute")

	log, err := buildLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	client := lawapi.New(types.LawSearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: defaultUserAgent,
		},
		BaseURL: viper.GetString("law_search.base_url"),
		APIID:   credential("law-api-id", lawAPIID, "law_api_id"),
	}, log)

	if client.Mock() {
		return fmt.Errorf("no law-api-id credential: set --law-api-id, MIRI_LAW_API_ID, or .secrets/law-api-id")
	}

	items := client.SearchList(cmd.Context(), source, args[0], lawapi.SearchOptions{
		Display: display,
		Statute: statute,
	})

	type hit struct {
		Name string `json:"name"`
		Link string `json:"link,omitempty"`
	}
	hits := make([]hit, 0, len(items))
	for _, item := range items {
		hits = append(hits, hit{
			Name: lawapi.DisplayName(item, source),
			Link: lawapi.DetailLink(item, source),
		})
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(hits)
	}

	fmt.Printf("%d result(s) for %q in %s\n\n", len(hits), args[0], source)
	for i, h := range hits {
		fmt.Printf("%2d. %s\n", i+1, h.Name)
		if h.Link != "" {
			fmt.Printf("    %s\n", h.Link)
		}
	}
	return nil
}
