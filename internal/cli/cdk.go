package cli

import (
	"context"
	"io"
	"os"
	"os/exec"
)

// CdkCommand はCDK CLIの実行内容
type CdkCommand struct {
	Dir  string   // cdk.json のあるディレクトリ
	Args []string // cdk に渡す引数
	Env  []string // 追加の環境変数 (KEY=VALUE)

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Runner はコマンドを実行する
type Runner func(cmd *exec.Cmd) error

// DefaultRunner はコマンドをそのまま実行する
func DefaultRunner(cmd *exec.Cmd) error {
	return cmd.Run()
}

// Build は実行可能なコマンドを組み立てる
func (c CdkCommand) Build(ctx context.Context) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "cdk", c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = append(os.Environ(), c.Env...)
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	return cmd
}

// ExecuteCdkCommand はCDK CLIコマンドを実行する共通関数
func ExecuteCdkCommand(ctx context.Context, c CdkCommand, run Runner) error {
	if run == nil {
		run = DefaultRunner
	}
	return run(c.Build(ctx))
}
