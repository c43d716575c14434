package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/story_radar/app/story_radar/pkg/model"
)

func researchCMD() *cobra.Command {
	var company, cfgPath string

	var research = &cobra.Command{
		Use:   "research",
		Short: "Fetch structured company data from the research service",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine(cmd.Context(), cfgPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			result, err := eng.Research(cmd.Context(), company)
			if err != nil {
				if diag, ok := model.Diagnostic(err); ok {
					fmt.Fprintln(cmd.ErrOrStderr(), diag)
				}
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Data      *model.Bundle `json:"data"`
				Citations []string      `json:"citations"`
			}{result.Data, result.Citations})
		},
	}
	research.Flags().StringVar(&company, "company", "", "company name")
	research.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (yaml)")
	_ = research.MarkFlagRequired("company")

	return research
}
