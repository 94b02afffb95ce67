package models

// LoginRequest はクライアントからのログインリクエストを表します。
// トークンが提供されている場合、それを使用してユーザーを認証します。
// トークンがない場合、ユーザー名から新しいユーザーとトークンが作られます。
type LoginRequest struct {
	Token              string `json:"token,omitempty"`              // 既存のトークン
	Username           string `json:"username,omitempty"`           // 表示名（申請一覧でホストに見える）
	SubscriptionStatus string `json:"subscriptionStatus,omitempty"` // 課金ステータス
}
