package common

// 表示用の絵文字定数
const (
	ErrorIcon   = "❌"
	SuccessIcon = "✅"
	WarningIcon = "⚠️"
	SearchIcon  = "🔍"
	InfoIcon    = "📋"
	ProcessIcon = "🔄"
	PartyIcon   = "🎉"
)

// エラーメッセージフォーマット定数
const (
	ListErrorFormat = "%s %s一覧の取得に失敗: %w"
	GetErrorFormat  = "%s %s の取得に失敗: %w"

	// 処理中メッセージ
	SearchingFormat = "%s %s を検索中..."
)
