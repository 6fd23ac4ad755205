package line

import "fmt"

// ReminderMessage is sent to members who have not submitted today's report.
func ReminderMessage(userName, appURL string) string {
	greeting := ""
	if userName != "" {
		greeting = userName + "さん、"
	}
	return fmt.Sprintf(`%sおはようございます！🌅

本日の日次報告がまだ提出されていません。

📝 報告の入力はこちらから:
%s/report

※ 毎朝10時までに報告をお願いします。`, greeting, appURL)
}

// LinkingSuccessMessage confirms that a LINE account was linked.
func LinkingSuccessMessage(userName string) string {
	return fmt.Sprintf(`%sさん、LINE連携が完了しました！✅

これより、日次報告のリマインダーをLINEでお届けします。

📅 リマインド時間: 毎朝 9:50
📝 報告期限: 毎朝 10:00`, userName)
}

// AdminNotificationMessage tells admins that a member submitted a report.
func AdminNotificationMessage(userName, reportDate, userID, appURL string) string {
	return fmt.Sprintf(`%sさんが %s の日次報告を提出しました。✅

詳細はこちら:
%s/dashboard/%s`, userName, reportDate, appURL, userID)
}

// UsageMessage answers free-form chat messages with linking instructions.
func UsageMessage(appURL string) string {
	return fmt.Sprintf(`WorkHubです。

📝 LINE連携をするには、アプリの設定画面で表示される6桁のコードを送信してください。

🔗 アプリURL: %s/settings`, appURL)
}

// FollowMessage greets a user who just added the bot as a friend.
func FollowMessage(appURL string) string {
	return fmt.Sprintf(`WorkHubをご利用いただきありがとうございます！🎉

LINE連携を行うには:
1. アプリにログイン
2. 設定画面で「LINE連携」をクリック
3. 表示された6桁のコードをこのトークに送信

📱 アプリURL: %s`, appURL)
}

// AlreadyLinkedMessage is replied when the LINE account is already bound to
// another profile.
func AlreadyLinkedMessage(linkedName string) string {
	return fmt.Sprintf(`このLINEアカウントは既に%sさんとして連携されています。

別のアカウントと連携する場合は、まず現在の連携を解除してください。`, linkedName)
}

// CodeNotFoundMessage is replied when a linking code does not match.
const CodeNotFoundMessage = `連携コードが見つかりません。

コードが正しいか確認してください。コードは発行から10分間有効です。`

// CodeExpiredMessage is replied when a linking code has passed its expiry.
const CodeExpiredMessage = `連携コードの有効期限が切れています。

設定画面で新しいコードを発行してください。`

// LinkFailedMessage is replied when completing a link fails on the server.
const LinkFailedMessage = `連携処理中にエラーが発生しました。もう一度お試しください。`
