package common

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTablePrintAlignsWideCharacters(t *testing.T) {
	tbl := &Table{Headers: []string{"パス", "オリジン"}}
	tbl.AddRow("/generate/*", "ロードバランサー")
	tbl.AddRow("*", "S3")

	var buf bytes.Buffer
	tbl.Print(&buf)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, "パス         オリジン", lines[0])
	assert.Equal(t, "-----------  ----------------", lines[1])
	assert.Equal(t, "/generate/*  ロードバランサー", lines[2])
	assert.Equal(t, "*            S3", lines[3])
}

func TestPrintSimpleList(t *testing.T) {
	var buf bytes.Buffer
	PrintSimpleList(&buf, ListOutput{Title: "エクスポート一覧", ResourceName: "エクスポート"})
	assert.Contains(t, buf.String(), "該当するエクスポートはありませんでした")

	buf.Reset()
	PrintSimpleList(&buf, ListOutput{Title: "T", Items: []string{"a", "b"}, ResourceName: "件", ShowCount: true})
	assert.Contains(t, buf.String(), "  - a\n  - b\n")
	assert.Contains(t, buf.String(), "合計: 2個の件")
}

func TestMatchPattern(t *testing.T) {
	assert.True(t, MatchPattern("loadBalancerUrl", "load*"))
	assert.True(t, MatchPattern("loadBalancerUrl", "Balancer"))
	assert.False(t, MatchPattern("loadBalancerUrl", "cloud*"))
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.5 KiB", FormatBytes(1536))
}
