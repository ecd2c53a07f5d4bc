package handlers

// User-facing strings keyed by locale. The assistant's audience is mostly
// Russian-speaking, so ru is the default.
var quotaExhaustedMessages = map[string]string{
	"ru": "Лимит бесплатных запросов исчерпан. Купите пакет, чтобы продолжить.",
	"en": "You have run out of free requests. Purchase a package to continue.",
}

var chatUnavailableMessages = map[string]string{
	"ru": "Ассистент временно недоступен. Попробуйте ещё раз позже.",
	"en": "The assistant is temporarily unavailable. Please try again later.",
}

func quotaExhaustedMessage(locale string) string {
	if msg, ok := quotaExhaustedMessages[locale]; ok {
		return msg
	}
	return quotaExhaustedMessages["ru"]
}

func chatUnavailableMessage(locale string) string {
	if msg, ok := chatUnavailableMessages[locale]; ok {
		return msg
	}
	return chatUnavailableMessages["ru"]
}
