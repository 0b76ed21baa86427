// cmd/genoscope/synteny.go
package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"genoscope/pkg/api"

	"github.com/spf13/cobra"
)

var syntenyCmd = &cobra.Command{
	Use:   "synteny <query-genes.json> <reference-genes.json>",
	Short: "Align two genomes' gene orders into synteny blocks",
	Args:  cobra.ExactArgs(2),
	RunE:  runSynteny,
}

func runSynteny(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	query, err := loadGenes(args[0])
	if err != nil {
		return err
	}
	ref, err := loadGenes(args[1])
	if err != nil {
		return err
	}

	resp, err := svc.RunSynteny(ctx, api.SyntenyJobV1{
		Query:          genomeName(args[0]),
		Reference:      genomeName(args[1]),
		GenesQuery:     query,
		GenesReference: ref,
	})
	if err != nil {
		return err
	}
	if err := emitJSON(cmd, resp); err != nil {
		return err
	}
	if !resp.OK {
		return fmt.Errorf("synteny: %s", resp.Error)
	}
	return nil
}

func genomeName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
