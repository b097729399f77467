package lookup

import "fmt"

// Marker is the text shown in place of a translation that has not arrived
const Marker = "đang dịch..."

const (
	msgNotFound         = "❌ Không tìm thấy kết quả.\n"
	msgNoData           = "❌ Không tìm thấy dữ liệu.\n"
	msgNoPhrase         = "❌ Không tìm thấy cụm này.\n"
	msgNoPhrasalVerb    = "Không tìm thấy phrasal verb.\n"
	msgSuggestionHeader = "❌ Không tìm thấy. Gợi ý:\n"
	msgSynonyms         = "🔹 Từ đồng nghĩa:\n"
	msgAntonyms         = "🔸 Từ trái nghĩa:\n"
)

func headerLine(mode Mode, query string) string {
	switch mode {
	case ModeSynonyms:
		return fmt.Sprintf("🟢 Tra cứu từ đồng nghĩa / trái nghĩa của: %s\n\n", query)
	case ModePhrasal:
		return fmt.Sprintf("📘 Tra cứu phrasal verb: %s\n\n", query)
	default:
		return fmt.Sprintf("🔎 Tra cứu nghĩa của: %s\n\n", query)
	}
}

func notFoundLine(mode Mode) string {
	switch mode {
	case ModeSynonyms:
		return msgNoData
	case ModePhrasal:
		return msgNoPhrase
	default:
		return msgNotFound
	}
}

func suggestionLine(s string) string {
	return fmt.Sprintf(" - %s\n", s)
}

func definitionLine(def string) string {
	return fmt.Sprintf("   • %s\n", def)
}

func placeholderLine() string {
	return "     → " + Marker + "\n"
}

func errorLine(err error) string {
	return fmt.Sprintf("⚠️ Lỗi: %v\n", err)
}
