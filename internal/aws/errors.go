package aws

import (
	"errors"

	"github.com/aws/smithy-go"
)

// ErrorCode はAWS APIエラーのコードを返す。APIエラーでない場合は空文字
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// IsAccessDenied は権限不足によるエラーかを判定する
func IsAccessDenied(err error) bool {
	switch ErrorCode(err) {
	case "AccessDenied", "AccessDeniedException":
		return true
	}
	return false
}

// IsNotFound はリソースが存在しないことを示すエラーかを判定する
func IsNotFound(err error) bool {
	switch ErrorCode(err) {
	case "NoSuchDistribution", "NoSuchInvalidation", "NoSuchBucket", "NoSuchPublicAccessBlockConfiguration", "NoSuchBucketPolicy", "ValidationError":
		return true
	}
	return false
}

// IsThrottling はスロットリングによるエラーかを判定する
func IsThrottling(err error) bool {
	switch ErrorCode(err) {
	case "Throttling", "ThrottlingException", "TooManyRequestsException", "TooManyInvalidationsInProgress":
		return true
	}
	return false
}
