// cmd/genoscope/search.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"genoscope-core/fasta"
	"genoscope-core/genes"
	"genoscope/internal/jsonutil"
	"genoscope/pkg/api"

	"github.com/spf13/cobra"
)

var (
	searchMode       string
	searchFasta      string
	searchFeatures   string
	searchStrand     string
	searchMismatches int
	searchMax        int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search a genome by sequence, motif, gene, feature type, or position",
	Long: `Modes:
  sequence  exact/near-exact DNA match (--fasta required)
  motif     IUPAC ambiguity-code match (--fasta required)
  gene      substring over gene names/products (--features required)
  feature   substring over feature types (--features required)
  position  "start-end" or "start..end" overlap (--features required)`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchMode, "mode", "sequence", "sequence | motif | gene | feature | position")
	searchCmd.Flags().StringVar(&searchFasta, "fasta", "", "FASTA file (first record is searched)")
	searchCmd.Flags().StringVar(&searchFeatures, "features", "", "JSON file with the genome's gene annotations")
	searchCmd.Flags().StringVar(&searchStrand, "strand", "both", "+ | - | both")
	searchCmd.Flags().IntVar(&searchMismatches, "max-mismatches", 0, "allowed mismatches per hit")
	searchCmd.Flags().IntVar(&searchMax, "max-results", 0, "hit cap (0 = configured default)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	req := api.SearchRequestV1{
		Mode:  searchMode,
		Query: args[0],
		Options: api.SearchOptionsV1{
			MaxResults:    searchMax,
			MaxMismatches: searchMismatches,
			Strand:        searchStrand,
		},
	}

	if searchFasta != "" {
		recs, err := fasta.ReadAllCtx(ctx, searchFasta)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			return fmt.Errorf("no records in %s", searchFasta)
		}
		req.GenomeID = recs[0].ID
		svc.RegisterSequence(recs[0].ID, recs[0].Seq)
		defer svc.ReleaseSequence(recs[0].ID)
	}
	if searchFeatures != "" {
		var err error
		req.Features, err = loadGenes(searchFeatures)
		if err != nil {
			return err
		}
	}

	resp, err := svc.RunSearch(ctx, req)
	if err != nil {
		return err
	}
	if err := emitJSON(cmd, resp); err != nil {
		return err
	}
	if !resp.OK {
		return fmt.Errorf("search: %s", resp.Error)
	}
	return nil
}

// loadGenes reads a JSON array of gene annotations.
func loadGenes(path string) ([]genes.Gene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []genes.Gene
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}

func emitJSON(cmd *cobra.Command, v any) error {
	if compact {
		return jsonutil.Encode(cmd.OutOrStdout(), v)
	}
	return jsonutil.EncodePretty(cmd.OutOrStdout(), v)
}
