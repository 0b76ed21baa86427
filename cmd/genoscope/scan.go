// cmd/genoscope/scan.go
package main

import (
	"context"
	"sort"
	"sync"

	"genoscope-core/fasta"
	"genoscope/internal/jsonlutil"
	"genoscope/internal/jsonutil"
	"genoscope/pkg/api"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	scanWindow int
	scanStep   int
)

var scanCmd = &cobra.Command{
	Use:   "scan <fasta...>",
	Short: "Sliding-window anomaly scan over one or more genomes",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanWindow, "window", 0, "window size in bp (0 = configured default)")
	scanCmd.Flags().IntVar(&scanStep, "step", 0, "stride between windows in bp (0 = configured default)")
}

// scanReport is one genome's scan result on the wire.
type scanReport struct {
	File   string `json:"file"`
	Genome string `json:"genome"`
	api.AnalysisResponseV1
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	emit := func(send func(scanReport)) error {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Pool.MaxPerCategory)
		for _, path := range args {
			path := path
			g.Go(func() error {
				reports, err := scanFile(gctx, path)
				if err != nil {
					return err
				}
				for _, r := range reports {
					send(r)
				}
				return nil
			})
		}
		return g.Wait()
	}

	if compact {
		in, done := jsonlutil.Start[scanReport](cmd.OutOrStdout(), 16)
		err := emit(func(r scanReport) { in <- r })
		close(in)
		if werr := <-done; err == nil {
			err = werr
		}
		return err
	}

	var mu sync.Mutex
	var all []scanReport
	if err := emit(func(r scanReport) {
		mu.Lock()
		all = append(all, r)
		mu.Unlock()
	}); err != nil {
		return err
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].File != all[j].File {
			return all[i].File < all[j].File
		}
		return all[i].Genome < all[j].Genome
	})
	return jsonutil.EncodePretty(cmd.OutOrStdout(), all)
}

func scanFile(ctx context.Context, path string) ([]scanReport, error) {
	recs, err := fasta.ReadAllCtx(ctx, path)
	if err != nil {
		return nil, err
	}
	out := make([]scanReport, 0, len(recs))
	for _, rec := range recs {
		// Keyed by file+record so two files with the same header do not
		// evict each other mid-run.
		key := path + ":" + rec.ID
		svc.RegisterSequence(key, rec.Seq)
		resp, err := svc.RunAnalysis(ctx, api.AnalysisRequestV1{
			Kind:     "anomaly",
			GenomeID: key,
			Window:   scanWindow,
			Step:     scanStep,
		})
		svc.ReleaseSequence(key)
		if err != nil {
			return nil, err
		}
		if !resp.OK {
			logger.Warn("scan skipped",
				zap.String("file", path),
				zap.String("genome", rec.ID),
				zap.String("reason", resp.Error))
		}
		out = append(out, scanReport{File: path, Genome: rec.ID, AnalysisResponseV1: resp})
	}
	return out, nil
}
