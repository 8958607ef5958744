package cmd

import (
	awsinternal "cdkdemo/internal/aws"
	"cdkdemo/internal/service/common"
	"fmt"
	"os"
)

// resolveStackName はコマンドライン引数、環境変数、ステージ設定の順にスタック名を決定し、グローバル変数 stackName にセットする
func resolveStackName() {
	if stackName != "" {
		fmt.Println("🔍 -Sオプションで指定されたスタック名 '" + stackName + "' を使用します")
		return
	}
	envStack := os.Getenv("AWS_STACK_NAME")
	if envStack != "" {
		fmt.Println("🔍 環境変数 AWS_STACK_NAME の値 '" + envStack + "' を使用します")
		stackName = envStack
		return
	}
	stackName = appConfig.StackName(stages)
	fmt.Printf("🔍 ステージ '%s' のスタック名 '%s' を使用します\n", appConfig.Stage, stackName)
}

// withAwsHint はAWS APIエラーの種類に応じて対処方法を添える
func withAwsHint(err error) error {
	switch {
	case err == nil:
		return nil
	case awsinternal.IsAccessDenied(err):
		return fmt.Errorf("%w\n%s 権限が不足しています。プロファイル '%s' のIAMポリシーを確認してください", err, common.InfoIcon, profile)
	case awsinternal.IsThrottling(err):
		return fmt.Errorf("%w\n%s APIの呼び出し制限に達しました。しばらく待ってから再実行してください", err, common.InfoIcon)
	}
	return err
}
