package llm

const (
	apologyArabic  = "عذراً، حدث خطأ مؤقت. يرجى المحاولة مرة أخرى."
	apologyEnglish = "Sorry, a temporary error occurred. Please try again."
)

// Apology return pesan maaf sesuai bahasa business, bilingual kalau tidak diset
func Apology(language string) string {
	switch language {
	case "ar":
		return apologyArabic
	case "en":
		return apologyEnglish
	default:
		return apologyArabic + "\n" + apologyEnglish
	}
}

// FallbackResult adalah Result yang dipakai ketika AI tidak bisa dihubungi
func FallbackResult(language string) Result {
	return Result{Kind: Fallback, Reply: Apology(language), Intent: IntentQuestion}
}
