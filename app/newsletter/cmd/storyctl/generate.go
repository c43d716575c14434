package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/story_radar/app/newsletter/internal/service"
	"github.com/iWorld-y/story_radar/app/newsletter/internal/usecase"
	"github.com/iWorld-y/story_radar/app/story_radar/pkg/model"
	"github.com/iWorld-y/story_radar/app/story_radar/pkg/render"
)

func generateCMD() *cobra.Command {
	var company, dataPath, cfgPath, outPath string

	var generate = &cobra.Command{
		Use:   "generate",
		Short: "Generate a newsletter story for a company",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			bundle, err := readBundle(dataPath)
			if err != nil {
				return err
			}

			eng, err := newEngine(ctx, cfgPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			klog := kratosLogger(cmd.ErrOrStderr())
			svc := service.NewNewsletterService(usecase.NewNewsletterUseCase(eng, klog), klog)

			reply, err := svc.GenerateNewsletter(ctx, &service.GenerateNewsletterRequest{
				CompanyName: company,
				CompanyData: bundle,
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(reply); err != nil {
				return err
			}

			if outPath == "" {
				return nil
			}
			return writePage(outPath, company, reply)
		},
	}
	generate.Flags().StringVar(&company, "company", "", "company name")
	generate.Flags().StringVar(&dataPath, "data", "", "JSON file with company data (skips research)")
	generate.Flags().StringVar(&outPath, "out", "", "write an HTML page to this path")
	generate.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (yaml)")
	_ = generate.MarkFlagRequired("company")

	return generate
}

// readBundle 读取调用方提供的数据包，文件内容为 null 时返回 nil
func readBundle(path string) (*model.Bundle, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read company data failed: %w", err)
	}
	var bundle *model.Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("decode company data failed: %w", err)
	}
	return bundle, nil
}

func writePage(path, company string, reply *service.GenerateNewsletterReply) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	page := render.Page{
		Company:    company,
		Date:       time.Now().Format("2006-01-02"),
		Story:      reply.Story,
		IsMarkdown: reply.IsMarkdown,
		HTML:       reply.HTMLContent,
		Citations:  reply.Citations,
	}
	if reply.RawAPIResponse != nil {
		page.Diagnostic = *reply.RawAPIResponse
	}
	return render.WriteHTML(f, page)
}
