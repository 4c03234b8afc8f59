package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	yaml "go.yaml.in/yaml/v3"

	"github.com/Mun09/miri-back/internal/investigate"
	"github.com/Mun09/miri-back/internal/judge"
	"github.com/Mun09/miri-back/internal/lawapi"
	"github.com/Mun09/miri-back/pkg/types"
)

const defaultUserAgent = "miri/0.1"

var investigateCmd = &cobra.Command{
	Use:   "investigate [scenario.yaml]",
	Short: "Gather legal evidence for a consultation scenario",
	Long: `Investigate reads a scenario file (YAML: name, type, and a list of
actor/action/object triples) or a single triple given by flags, searches the
statute, administrative-rule, and precedent databases, and prints the
extracted clause-level findings.

A law-api-id credential (the law service OC value) is required for document
retrieval; without one every search returns empty results.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInvestigate,
}

func init() {
	investigateCmd.Flags().String("actor", "", "who performs the action (e.g. 사업주)")
	investigateCmd.Flags().String("action", "", "the action under review (e.g. 야간근로 지시)")
	investigateCmd.Flags().String("object", "", "what the action applies to (e.g. 연소근로자)")
	investigateCmd.Flags().String("law-api-id", "", "law service OC credential (default: .secrets/law-api-id)")
	investigateCmd.Flags().String("openai-api-key", "", "judgment service API key (default: .secrets/openai-api-key)")
	investigateCmd.Flags().String("model", "", "judgment model identifier (default gpt-4o-mini)")
	investigateCmd.Flags().String("cache", "", "path to the SQLite analysis cache (default: in-memory)")
	investigateCmd.Flags().Int("max-evidence", 0, "cap on deduplicated findings (default 50)")
	investigateCmd.Flags().Int("max-docs", 0, "cap on documents analyzed per search pass (default 20)")
	investigateCmd.Flags().Bool("json", false, "output evidence as JSON")

	rootCmd.AddCommand(investigateCmd)
}

func runInvestigate(cmd *cobra.Command, args []string) error {
	scenario, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	if len(scenario.Actions) == 0 {
		return fmt.Errorf("scenario has no actions; provide a scenario file or --actor/--action/--object")
	}

	log, err := buildLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	lawAPIID, _ := cmd.Flags().GetString("law-api-id")
	openaiKey, _ := cmd.Flags().GetString("openai-api-key")
	model, _ := cmd.Flags().GetString("model")
	cachePath, _ := cmd.Flags().GetString("cache")
	maxEvidence, _ := cmd.Flags().GetInt("max-evidence")
	maxDocs, _ := cmd.Flags().GetInt("max-docs")

	lawCfg := types.LawSearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: defaultUserAgent,
		},
		BaseURL: viper.GetString("law_search.base_url"),
		APIID:   credential("law-api-id", lawAPIID, "law_api_id"),
	}
	aiCfg := types.AIConfig{
		Model:   model,
		APIKey:  credential("openai-api-key", openaiKey, "openai_api_key"),
		BaseURL: viper.GetString("ai.base_url"),
	}
	invCfg := types.InvestigatorConfig{
		MaxEvidence:     maxEvidence,
		MaxAnalysisDocs: maxDocs,
		CachePath:       cachePath,
	}

	if aiCfg.APIKey == "" {
		return fmt.Errorf("no judgment service key: set --openai-api-key, MIRI_OPENAI_API_KEY, or .secrets/openai-api-key")
	}
	if lawCfg.APIID == "" {
		fmt.Fprintln(os.Stderr, "warning: no law-api-id credential; law searches will return no results")
	}

	var cache investigate.Cache
	if cachePath != "" {
		sc, err := investigate.OpenSQLiteCache(cachePath)
		if err != nil {
			return fmt.Errorf("opening analysis cache: %w", err)
		}
		defer sc.Close()
		cache = sc
	}

	inv := investigate.New(
		lawapi.New(lawCfg, log),
		judge.NewOpenAI(aiCfg, log),
		cache,
		invCfg,
		log,
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	evidence, reviews, err := inv.Execute(ctx, scenario)
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		return printEvidenceJSON(evidence, reviews)
	}
	printEvidence(scenario, evidence, reviews)
	return nil
}

// credential resolves a key in priority order: explicit flag, secret file,
// then viper (config file or MIRI_* environment).
func credential(secretKey, flagValue, viperKey string) string {
	if v := secretDefault(secretKey, flagValue); v != "" {
		return v
	}
	return viper.GetString(viperKey)
}

// loadScenario builds the scenario from a YAML file argument or, failing
// that, from the --actor/--action/--object flags.
func loadScenario(cmd *cobra.Command, args []string) (types.Scenario, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return types.Scenario{}, fmt.Errorf("reading scenario file: %w", err)
		}
		var s types.Scenario
		if err := yaml.Unmarshal(data, &s); err != nil {
			return types.Scenario{}, fmt.Errorf("parsing scenario file %s: %w", args[0], err)
		}
		return s, nil
	}

	actor, _ := cmd.Flags().GetString("actor")
	action, _ := cmd.Flags().GetString("action")
	object, _ := cmd.Flags().GetString("object")
	if action == "" {
		return types.Scenario{}, nil
	}
	return types.Scenario{
		Name: action,
		Actions: []types.Action{
			{Actor: actor, Action: action, Object: object},
		},
	}, nil
}

func buildLogger(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

func printEvidence(scenario types.Scenario, evidence types.LegalEvidence, reviews []types.DocumentReview) {
	fmt.Printf("Scenario: %s\n", scenario.Name)
	fmt.Printf("Findings: %d\n\n", len(reviews))

	for _, r := range reviews {
		fmt.Printf("[%s] %s %s\n", r.Status, r.LawName, r.KeyClause)
		fmt.Printf("    %s\n", r.Summary)
		if r.URL != "" {
			fmt.Printf("    %s\n", r.URL)
		}
	}

	if len(evidence.References) > 0 {
		fmt.Println("\nReferences:")
		for _, ref := range evidence.References {
			fmt.Printf("  %s\n", ref)
		}
	}
}

func printEvidenceJSON(evidence types.LegalEvidence, reviews []types.DocumentReview) error {
	out := struct {
		Evidence types.LegalEvidence    `json:"evidence"`
		Reviews  []types.DocumentReview `json:"reviews"`
	}{evidence, reviews}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}
