package main

import (
	"bytes"
	"cdkdemo/cmd"
	"cdkdemo/internal/service/common"
	"cdkdemo/internal/stack/cdn"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

const docsDir = "./docs"

func main() {
	if err := os.RemoveAll(docsDir); err != nil {
		log.Fatalf("Failed to clean docs directory: %v", err)
	}
	if err := os.MkdirAll(docsDir, 0755); err != nil {
		log.Fatalf("Failed to create docs directory: %v", err)
	}

	// コマンドグループ (cf, exports, s3 ...) ごとに1ファイル、単独コマンドは README にまとめる
	var standalone []*cobra.Command
	files := 0
	for _, c := range availableCommands(cmd.RootCmd) {
		if len(availableCommands(c)) == 0 {
			standalone = append(standalone, c)
			continue
		}
		if err := writeGroup(c); err != nil {
			log.Fatalf("Failed to generate documentation for %s: %v", c.Name(), err)
		}
		files++
	}

	if err := writeReadme(standalone); err != nil {
		log.Fatalf("Failed to generate README: %v", err)
	}
	if err := writeRouting(); err != nil {
		log.Fatalf("Failed to generate routing table: %v", err)
	}

	fmt.Printf("✅ Documentation generated in %s (%d files)\n", docsDir, files+2)
}

func availableCommands(c *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, sub := range c.Commands() {
		if sub.IsAvailableCommand() && !sub.IsAdditionalHelpTopicCommand() {
			out = append(out, sub)
		}
	}
	return out
}

// linkHandler は cobra の "cdkdemo_cf_invalidate.md" 形式のリンクを生成するファイル構成に合わせる
func linkHandler(name string) string {
	parts := strings.Split(strings.TrimSuffix(name, ".md"), "_")
	switch {
	case len(parts) == 1:
		return "README.md"
	case len(parts) == 2:
		if c, _, err := cmd.RootCmd.Find(parts[1:]); err == nil && len(availableCommands(c)) > 0 {
			return parts[1] + ".md"
		}
		return "README.md#" + strings.Join(parts, "-")
	default:
		return parts[1] + ".md#" + strings.Join(parts, "-")
	}
}

func render(c *cobra.Command) (string, error) {
	c.DisableAutoGenTag = true
	buf := new(bytes.Buffer)
	if err := doc.GenMarkdownCustom(c, buf, linkHandler); err != nil {
		return "", fmt.Errorf("%s: %w", c.CommandPath(), err)
	}
	// グループ内のコマンドはファイルの見出しより1段下げる
	return strings.ReplaceAll("\n"+buf.String(), "\n## ", "\n### ")[1:], nil
}

func writeGroup(group *cobra.Command) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n\n", group.CommandPath(), group.Short)

	for _, c := range availableCommands(group) {
		body, err := render(c)
		if err != nil {
			return err
		}
		b.WriteString(body)
		b.WriteString("\n")
	}
	return os.WriteFile(filepath.Join(docsDir, group.Name()+".md"), []byte(b.String()), 0644)
}

func writeReadme(standalone []*cobra.Command) error {
	root, err := render(cmd.RootCmd)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString(root)
	b.WriteString("\n")
	for _, c := range standalone {
		body, err := render(c)
		if err != nil {
			return err
		}
		b.WriteString(body)
		b.WriteString("\n")
	}
	b.WriteString("デフォルトのルーティングは [routing.md](routing.md) を参照してください。\n")
	return os.WriteFile(filepath.Join(docsDir, "README.md"), []byte(b.String()), 0644)
}

// writeRouting は `plan` と同じ評価順で、デフォルト設定のルーティング表を出力する
func writeRouting() error {
	bundle, err := os.MkdirTemp("", "cdkdemo-docs")
	if err != nil {
		return err
	}
	defer os.RemoveAll(bundle)
	if err := os.WriteFile(filepath.Join(bundle, cdn.IndexDocument), []byte("<html></html>"), 0644); err != nil {
		return err
	}

	plan, err := cdn.Build(context.Background(), cdn.DeferredResolver{}, cdn.Options{AssetPath: bundle})
	if err != nil {
		return err
	}

	tbl := &common.Table{Headers: []string{"順序", "パス", "オリジン", "メソッド", "ビューワー"}}
	for i, r := range plan.Rules() {
		origin := "S3バケット (OAI)"
		if r.Origin.Kind() == cdn.OriginKindHTTP {
			origin = plan.API.Describe()
		}
		tbl.AddRow(strconv.Itoa(i+1), r.Pattern(), origin, string(r.AllowedMethods), string(r.ViewerProtocol))
	}

	var b bytes.Buffer
	b.WriteString("# Routing\n\n")
	fmt.Fprintf(&b, "`%s plan` が表示するデフォルト構成のビヘイビアです。上から順に評価され、最初にマッチしたものが使われます。\n\n", cmd.AppName)
	b.WriteString("```\n")
	tbl.Print(&b)
	b.WriteString("```\n\n")
	fmt.Fprintf(&b, "適用毎に %v のキャッシュ無効化が発行されます。\n", plan.Invalidation.Paths)
	return os.WriteFile(filepath.Join(docsDir, "routing.md"), b.Bytes(), 0644)
}
