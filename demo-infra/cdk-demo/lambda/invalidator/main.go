package main

import (
	awsinternal "cdkdemo/internal/aws"
	"cdkdemo/internal/logging"
	cfsvc "cdkdemo/internal/service/cloudfront"
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

func main() {
	logger, err := logging.New(os.Getenv("LOG_LEVEL"), logging.FormatJSON)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	// リージョンと認証情報はLambdaの実行環境から取得する
	clients, err := awsinternal.NewAwsClients(context.Background(), awsinternal.Context{})
	if err != nil {
		logger.Fatal("failed to load aws config", zap.Error(err))
	}

	handler := &cfsvc.InvalidationHandler{
		Client: clients.CloudFront(),
		Logger: logger,
	}
	lambda.Start(handler.Handle)
}
