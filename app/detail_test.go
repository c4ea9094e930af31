package app

import (
	"strings"
	"testing"
	"time"

	"github.com/ka2n/scrapeview/api"
	"github.com/samber/lo"
)

func TestItemMarkdown(t *testing.T) {
	item := vpcItem()
	item.Description = "Three tier VPC"
	item.ArchitecturePattern = "three-tier"
	item.UseCase = lo.ToPtr("Web hosting")
	item.Components = []api.Component{
		{Name: "ALB", Type: "aws_service", Description: "routes traffic"},
		{Name: "workers"},
	}
	item.Benefits = []string{"isolation"}

	md := ItemMarkdown(item, time.UTC)

	for _, want := range []string{
		"# VPC Pattern",
		"<http://a>",
		"Three tier VPC",
		"| **Pattern** | three-tier |",
		"| **Use case** | Web hosting |",
		"| **Status** | Success |",
		"| **Scraped** | 3/4/2025, 5:06:07 PM |",
		"## Services\n\n- EC2\n- S3\n",
		"- **ALB** (aws_service): routes traffic\n",
		"- **workers**\n",
		"## Benefits\n\n- isolation\n",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("ItemMarkdown() missing %q in:\n%s", want, md)
		}
	}
	for _, absent := range []string{"Complexity", "Estimated cost", "Raw title"} {
		if strings.Contains(md, absent) {
			t.Errorf("ItemMarkdown() shows absent field %q:\n%s", absent, md)
		}
	}
}

func TestItemMarkdownEscapesCells(t *testing.T) {
	item := api.ScrapedItem{RawTitle: lo.ToPtr("VPC | AWS")}
	md := ItemMarkdown(item, time.UTC)
	if !strings.Contains(md, `| **Raw title** | VPC \| AWS |`) {
		t.Errorf("ItemMarkdown() did not escape the table cell:\n%s", md)
	}
}

func TestRenderDetail(t *testing.T) {
	item := vpcItem()
	item.Description = "Three tier VPC"

	out, err := RenderDetail(item, 80, time.UTC)
	if err != nil {
		t.Fatalf("RenderDetail() error = %v", err)
	}
	for _, want := range []string{"VPC Pattern", "Three tier VPC"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderDetail() missing %q in:\n%s", want, out)
		}
	}
}
