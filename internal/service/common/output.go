package common

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ListOutput はリスト表示の共通構造体
type ListOutput struct {
	Title        string   // 例: "エクスポート一覧"
	Items        []string // 表示するアイテムのリスト
	ResourceName string   // 例: "エクスポート", "オブジェクト"
	ShowCount    bool     // 合計数を表示するか
}

// PrintSimpleList はシンプルな箇条書きリストを表示
func PrintSimpleList(w io.Writer, output ListOutput) {
	fmt.Fprintf(w, "%s:\n", output.Title)

	if len(output.Items) == 0 {
		fmt.Fprintf(w, "該当する%sはありませんでした\n", output.ResourceName)
		return
	}

	for _, item := range output.Items {
		fmt.Fprintf(w, "  - %s\n", item)
	}

	if output.ShowCount {
		fmt.Fprintf(w, "\n合計: %d個の%s\n", len(output.Items), output.ResourceName)
	}
}

// Table は列幅を表示幅で揃えて出力するテーブル
// 全角文字を含む列も崩れないように runewidth で幅を計算する
type Table struct {
	Headers []string
	Rows    [][]string
}

// AddRow は行を追加する
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Print はテーブルを出力する
func (t *Table) Print(w io.Writer) {
	widths := make([]int, len(t.Headers))
	measure := func(cells []string) {
		for i, c := range cells {
			if i >= len(widths) {
				break
			}
			if cw := runewidth.StringWidth(c); cw > widths[i] {
				widths[i] = cw
			}
		}
	}
	measure(t.Headers)
	for _, r := range t.Rows {
		measure(r)
	}

	line := func(cells []string) {
		padded := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			if i == len(widths)-1 {
				padded[i] = cell
			} else {
				padded[i] = runewidth.FillRight(cell, widths[i])
			}
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(padded, "  "), " "))
	}

	line(t.Headers)
	sep := make([]string, len(widths))
	for i, wd := range widths {
		sep[i] = strings.Repeat("-", wd)
	}
	fmt.Fprintln(w, strings.Join(sep, "  "))
	for _, r := range t.Rows {
		line(r)
	}
}

// FormatBytes はバイト数を人間が読みやすい形式に変換する関数
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
