package domain

import "errors"

// User-facing phrases. The reader's audience reads Egyptian Arabic.
const (
	// NotFoundPhrase is the verbatim reply the responder must give when the
	// permitted site has no answer.
	NotFoundPhrase = "عذراً، لم أجد إجابة دقيقة في المصادر المتاحة على موقع الأنبا تكلا."

	// EmptyAnswerPhrase replaces an answer that is empty after cleaning.
	EmptyAnswerPhrase = "عذراً، لم أستطع إيجاد إجابة."

	// FallbackCitationLabel labels the synthesized site-search citation.
	FallbackCitationLabel = "بحث في St-Takla.org"

	// DefaultCitationTitle names a grounding source that came without a title.
	DefaultCitationTitle = "St-Takla Reference"
)

const (
	msgResolution = "تعذر تحميل الإصحاح. حاول مرة أخرى."
	msgRender     = "فشلت الترجمة. حاول مرة أخرى."
	msgChat       = "حدث خطأ في المحادثة"
	msgCacheWrite = "تعذر حفظ البيانات على الجهاز."
	msgProvider   = "الخدمة غير متاحة حالياً."
	msgConfig     = "الخدمة غير مهيأة. راجع الإعدادات."
	msgNotFound   = "غير موجود."
	msgInvalid    = "طلب غير صالح."
	msgGeneric    = "حدث خطأ غير متوقع."
)

// UserMessage returns the localized summary shown to the user for err.
// Raw provider text is never surfaced.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var (
		resErr    *ResolutionError
		renderErr *RenderError
		chatErr   *ChatError
		cacheErr  *CacheWriteError
		provErr   *ProviderError
	)

	switch {
	case errors.As(err, &resErr):
		return msgResolution
	case errors.As(err, &renderErr):
		return msgRender
	case errors.As(err, &chatErr):
		return msgChat
	case errors.As(err, &cacheErr):
		return msgCacheWrite
	case errors.Is(err, ErrNotConfigured):
		return msgConfig
	case errors.As(err, &provErr):
		return msgProvider
	case errors.Is(err, ErrNotFound):
		return msgNotFound
	case errors.Is(err, ErrInvalidInput):
		return msgInvalid
	default:
		return msgGeneric
	}
}
